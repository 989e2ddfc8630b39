// Package resolve turns a classification into one Resolution per path.
//
// Agreed paths pass through unchanged. Conflicts are handed to a Chooser one
// at a time, on the calling goroutine, in path order. The Chooser is the only
// place user input enters the merge.
package resolve

import (
	"sort"

	"github.com/arthur-debert/packmerge/pkg/classify"
	"github.com/arthur-debert/packmerge/pkg/errors"
	"github.com/arthur-debert/packmerge/pkg/logging"
	"github.com/arthur-debert/packmerge/pkg/types"
)

// Chooser picks which candidate of a conflict wins.
type Chooser interface {
	// Choose returns a 1-based option in [1, c.Options()].
	Choose(c types.Conflict) (int, error)
}

// ChooserFunc adapts a function to the Chooser interface
type ChooserFunc func(c types.Conflict) (int, error)

// Choose implements Chooser
func (f ChooserFunc) Choose(c types.Conflict) (int, error) {
	return f(c)
}

// Resolver applies the resolution policy.
type Resolver struct {
	chooser Chooser
}

// New creates a Resolver asking chooser about conflicts.
func New(chooser Chooser) *Resolver {
	return &Resolver{chooser: chooser}
}

// Resolve returns a resolution for every classified path, sorted by path.
// An option outside the valid range is discarded and the chooser is asked
// again, with no limit on attempts. Errors from the chooser are returned.
func (r *Resolver) Resolve(res *classify.Result) ([]types.Resolution, error) {
	logger := logging.GetLogger("resolve")

	out := make([]types.Resolution, 0, res.Total())
	out = append(out, res.Resolved...)

	if len(res.Conflicts) > 0 && r.chooser == nil {
		return nil, errors.Newf(errors.ErrInternal, "%d conflicts but no chooser configured", len(res.Conflicts))
	}

	for _, conflict := range res.Conflicts {
		for {
			option, err := r.chooser.Choose(conflict)
			if err != nil {
				return nil, err
			}

			candidate, ok := conflict.Candidate(option)
			if !ok {
				logger.Warn().
					Str("path", conflict.Path.String()).
					Int("option", option).
					Int("options", conflict.Options()).
					Msg("Choice out of range, asking again")
				continue
			}

			logger.Info().
				Str("path", conflict.Path.String()).
				Int("pack", candidate.Pack.Index).
				Msg("Conflict resolved")
			out = append(out, types.Resolution{
				Path:   conflict.Path,
				Source: candidate.Pack,
				Reason: types.ReasonChosen,
			})
			break
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, nil
}
