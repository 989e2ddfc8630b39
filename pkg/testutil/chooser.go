package testutil

import (
	"fmt"
	"sync"

	"github.com/arthur-debert/packmerge/pkg/types"
)

// ScriptedChooser answers conflicts from a fixed list of options, in order.
// It records every conflict it was asked about.
type ScriptedChooser struct {
	mu      sync.Mutex
	answers []int
	asked   []types.Conflict
}

// NewScriptedChooser creates a chooser that returns answers in sequence
func NewScriptedChooser(answers ...int) *ScriptedChooser {
	return &ScriptedChooser{answers: answers}
}

// Choose returns the next scripted answer, or an error once the script is exhausted.
func (c *ScriptedChooser) Choose(conflict types.Conflict) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.asked = append(c.asked, conflict)
	if len(c.answers) == 0 {
		return 0, fmt.Errorf("no scripted answer for %s", conflict.Path)
	}
	answer := c.answers[0]
	c.answers = c.answers[1:]
	return answer, nil
}

// Asked returns the conflicts presented so far, in order
func (c *ScriptedChooser) Asked() []types.Conflict {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]types.Conflict(nil), c.asked...)
}

// Remaining returns the number of unused answers
func (c *ScriptedChooser) Remaining() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.answers)
}
