// Package classify decides, for every path of a union, whether its owners
// agree on content.
//
// Paths owned by one pack resolve to that pack without being read. Paths
// owned by several packs are hashed once per owner; when all digests match
// the lowest-indexed owner is used, otherwise a Conflict is produced for the
// resolver. Digest equality stands in for content equality.
package classify

import (
	"context"

	"github.com/arthur-debert/packmerge/pkg/hashing"
	"github.com/arthur-debert/packmerge/pkg/index"
	"github.com/arthur-debert/packmerge/pkg/logging"
	"github.com/arthur-debert/packmerge/pkg/types"
	"github.com/arthur-debert/packmerge/pkg/union"
	"github.com/spf13/afero"
)

// Result is the outcome of classification.
type Result struct {
	// Resolved holds unique and identical paths, sorted by path.
	Resolved []types.Resolution

	// Conflicts holds divergent paths, sorted by path.
	Conflicts []types.Conflict
}

// Total returns the number of classified paths
func (r *Result) Total() int {
	return len(r.Resolved) + len(r.Conflicts)
}

// Classifier hashes shared paths and splits them into agreed and conflicting.
type Classifier struct {
	FS       afero.Fs
	Hasher   hashing.Hasher
	Strategy Strategy

	// Known holds pack indices that already carry digests; their files are
	// not hashed again.
	Known []*index.PackIndex
}

// New creates a Classifier. A nil strategy runs sequentially.
func New(fs afero.Fs, hasher hashing.Hasher, strategy Strategy) *Classifier {
	if strategy == nil {
		strategy = Sequential{}
	}
	return &Classifier{FS: fs, Hasher: hasher, Strategy: strategy}
}

// WithKnown reuses digests computed while indexing.
func (c *Classifier) WithKnown(indices []*index.PackIndex) *Classifier {
	c.Known = indices
	return c
}

type hashTask struct {
	entry int
	owner int
}

// Classify classifies every entry of u.
func (c *Classifier) Classify(ctx context.Context, u *union.Union) (*Result, error) {
	logger := logging.GetLogger("classify")
	done := logging.LogOperationStart(logger, "classify")
	defer done()

	known := make(map[int]*index.PackIndex, len(c.Known))
	for _, ix := range c.Known {
		if ix.Hashed() {
			known[ix.Pack.Index] = ix
		}
	}

	// One slot per (entry, owner); workers only ever write their own slot.
	digests := make([][]types.Digest, len(u.Entries))
	var tasks []hashTask
	for i, e := range u.Entries {
		if e.Unambiguous() {
			continue
		}
		digests[i] = make([]types.Digest, len(e.Owners))
		for j, owner := range e.Owners {
			if ix, ok := known[owner.Index]; ok {
				if d, ok := ix.Digest(e.Path); ok {
					digests[i][j] = d
					continue
				}
			}
			tasks = append(tasks, hashTask{entry: i, owner: j})
		}
	}

	logger.Debug().
		Int("paths", u.Len()).
		Int("hashes", len(tasks)).
		Str("strategy", c.Strategy.Name()).
		Msg("Hashing shared paths")

	err := c.Strategy.Run(ctx, len(tasks), func(_ context.Context, k int) error {
		task := tasks[k]
		e := u.Entries[task.entry]
		owner := e.Owners[task.owner]

		d, err := c.Hasher.HashFile(c.FS, owner.FilePath(e.Path))
		if err != nil {
			return err
		}
		digests[task.entry][task.owner] = d
		return nil
	})
	if err != nil {
		return nil, err
	}

	result := &Result{}
	for i, e := range u.Entries {
		if e.Unambiguous() {
			result.Resolved = append(result.Resolved, types.Resolution{
				Path:   e.Path,
				Source: e.Owners[0],
				Reason: types.ReasonUnique,
			})
			continue
		}

		if allEqual(digests[i]) {
			result.Resolved = append(result.Resolved, types.Resolution{
				Path:   e.Path,
				Source: e.Owners[0],
				Reason: types.ReasonIdentical,
			})
			continue
		}

		conflict := types.Conflict{Path: e.Path, Candidates: make([]types.PackDigest, len(e.Owners))}
		for j, owner := range e.Owners {
			conflict.Candidates[j] = types.PackDigest{Pack: owner, Digest: digests[i][j]}
		}
		logger.Info().Str("path", e.Path.String()).Int("owners", len(e.Owners)).Msg("Conflict detected")
		result.Conflicts = append(result.Conflicts, conflict)
	}

	logger.Debug().
		Int("resolved", len(result.Resolved)).
		Int("conflicts", len(result.Conflicts)).
		Msg("Classification complete")
	return result, nil
}

func allEqual(ds []types.Digest) bool {
	for _, d := range ds[1:] {
		if d != ds[0] {
			return false
		}
	}
	return true
}
