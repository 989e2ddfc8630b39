// Package prompt asks the user to settle conflicts on a terminal.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/arthur-debert/packmerge/pkg/errors"
	"github.com/arthur-debert/packmerge/pkg/logging"
	"github.com/arthur-debert/packmerge/pkg/types"
	"github.com/arthur-debert/packmerge/pkg/ui/styles"
)

// Console implements resolve.Chooser over a line-oriented reader and writer
type Console struct {
	in    *bufio.Reader
	out   io.Writer
	theme *styles.Theme
}

// NewConsole creates a console chooser. A nil theme prints plain text.
func NewConsole(in io.Reader, out io.Writer, theme *styles.Theme) *Console {
	if theme == nil {
		theme = styles.NewTheme(out, styles.ColorNever)
	}
	return &Console{
		in:    bufio.NewReader(in),
		out:   out,
		theme: theme,
	}
}

// Choose shows the candidates of c and reads an option. Anything but an
// integer in [1, N] prompts again. End of input is the only way out of the
// loop without a valid choice, and returns ErrPromptInput.
func (p *Console) Choose(c types.Conflict) (int, error) {
	logger := logging.GetLogger("prompt")
	n := c.Options()

	fmt.Fprintf(p.out, "%s %s\n",
		p.theme.Render(styles.Warning, "collision:"),
		p.theme.Render(styles.Path, c.Path.String()))
	for k, candidate := range c.Candidates {
		fmt.Fprintf(p.out, "  enter %s to take from %s (%s)\n",
			p.theme.Render(styles.Option, strconv.Itoa(k+1)),
			p.theme.Render(styles.Root, candidate.Pack.Root),
			p.theme.Render(styles.Digest, candidate.Digest.Hex()))
	}

	for {
		fmt.Fprint(p.out, p.theme.Render(styles.Prompt, fmt.Sprintf("  enter choice [1-%d]: ", n)))

		line, err := p.in.ReadString('\n')
		if err != nil && (err != io.EOF || line == "") {
			if err == io.EOF {
				fmt.Fprintln(p.out)
				return 0, errors.New(errors.ErrPromptInput, "input closed before a choice was made").
					WithDetail("path", c.Path.String())
			}
			return 0, errors.Wrap(err, errors.ErrPromptInput, "failed to read user input").
				WithDetail("path", c.Path.String())
		}

		answer := strings.TrimSpace(line)
		option, convErr := strconv.ParseUint(answer, 10, 0)
		if convErr == nil && option >= 1 && option <= uint64(n) {
			return int(option), nil
		}
		logger.Debug().Str("input", answer).Int("options", n).Msg("Rejected choice")
	}
}
