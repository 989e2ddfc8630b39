// Package merge runs the whole pipeline: validate, index, union, classify,
// resolve and materialize.
package merge

import (
	"context"
	"fmt"
	"io"

	"github.com/arthur-debert/packmerge/pkg/classify"
	"github.com/arthur-debert/packmerge/pkg/errors"
	"github.com/arthur-debert/packmerge/pkg/filesystem"
	"github.com/arthur-debert/packmerge/pkg/hashing"
	"github.com/arthur-debert/packmerge/pkg/index"
	"github.com/arthur-debert/packmerge/pkg/logging"
	"github.com/arthur-debert/packmerge/pkg/materialize"
	"github.com/arthur-debert/packmerge/pkg/resolve"
	"github.com/arthur-debert/packmerge/pkg/types"
	"github.com/arthur-debert/packmerge/pkg/union"
	"github.com/spf13/afero"
)

// Options configures a merge run.
type Options struct {
	// Packs are the pack roots, in priority order.
	Packs []string

	// Output is the directory to create. It must not exist.
	Output string

	// FS defaults to the OS filesystem.
	FS afero.Fs

	// Hasher defaults to SHA-256 with the default buffer size.
	Hasher hashing.Hasher

	// Strategy defaults to a parallel pool sized to the CPU count.
	Strategy classify.Strategy

	// Chooser settles conflicts. Required when any conflict is found.
	Chooser resolve.Chooser

	// Progress receives the plain progress lines. Nil discards.
	Progress io.Writer

	// Eager hashes every file while indexing instead of only shared ones.
	Eager bool

	// DryRun stops after resolution; nothing is written.
	DryRun bool

	// Exclude holds doublestar patterns of relative paths to leave out.
	Exclude []string
}

// Result describes a finished (or planned) merge.
type Result struct {
	Packs       []types.Pack
	Resolutions []types.Resolution
	// Conflicts lists the paths that needed a choice, in the order asked.
	Conflicts []types.Conflict
	// Stats is nil for a dry run.
	Stats  *materialize.Stats
	DryRun bool
}

// Count returns how many resolutions carry reason.
func (r *Result) Count(reason types.ResolutionReason) int {
	n := 0
	for _, res := range r.Resolutions {
		if res.Reason == reason {
			n++
		}
	}
	return n
}

// ValidateInputs checks that every pack root is an existing directory and
// that output does not exist yet. Nothing is created.
func ValidateInputs(fs afero.Fs, packRoots []string, output string) error {
	if len(packRoots) == 0 {
		return errors.New(errors.ErrInvalidInput, "at least one pack is required")
	}
	if output == "" {
		return errors.New(errors.ErrInvalidInput, "output directory is required")
	}

	for i, root := range packRoots {
		exists, err := filesystem.Exists(fs, root)
		if err != nil {
			return errors.Wrapf(err, errors.ErrPackInvalid, "failed to check pack %s", root).
				WithDetail("pack", i+1)
		}
		if !exists {
			return errors.Newf(errors.ErrPackNotFound, "%s does not exist or is not a directory", root).
				WithDetail("pack", i+1)
		}
		isDir, err := filesystem.IsDir(fs, root)
		if err != nil {
			return errors.Wrapf(err, errors.ErrPackInvalid, "failed to check pack %s", root).
				WithDetail("pack", i+1)
		}
		if !isDir {
			return errors.Newf(errors.ErrPackInvalid, "%s does not exist or is not a directory", root).
				WithDetail("pack", i+1)
		}
	}

	exists, err := filesystem.Exists(fs, output)
	if err != nil {
		return errors.Wrapf(err, errors.ErrOutputExists, "failed to check output %s", output)
	}
	if exists {
		return errors.Newf(errors.ErrOutputExists, "%s should not exist", output).
			WithDetail("output", output)
	}
	return nil
}

// Run executes a merge. Inputs are validated before anything is read or
// written. The first error aborts the run; a partially written output is
// left as is.
func Run(ctx context.Context, opts Options) (*Result, error) {
	logger := logging.GetLogger("merge")
	done := logging.LogOperationStart(logger, "merge")
	defer done()

	opts = withDefaults(opts)
	progress := opts.Progress

	if err := ValidateInputs(opts.FS, opts.Packs, opts.Output); err != nil {
		return nil, err
	}

	packs := types.NewPacks(opts.Packs)
	logger.Info().
		Int("packs", len(packs)).
		Str("output", opts.Output).
		Bool("eager", opts.Eager).
		Str("strategy", opts.Strategy.Name()).
		Bool("dry_run", opts.DryRun).
		Msg("Starting merge")

	fmt.Fprintln(progress, "hashing packs")
	indices, err := index.IndexPacks(ctx, opts.FS, packs, index.Options{
		Exclude: opts.Exclude,
		Eager:   opts.Eager,
		Hasher:  opts.Hasher,
	})
	if err != nil {
		return nil, err
	}
	for _, ix := range indices {
		fmt.Fprintf(progress, "pack %d len: %d\n", ix.Pack.Index, ix.Len())
	}

	fmt.Fprintln(progress, "building file list")
	u := union.Build(indices)
	if clashes := u.Clashes(); len(clashes) > 0 {
		for _, c := range clashes {
			logger.Error().
				Str("file", c.File.String()).
				Str("nested", c.Nested.String()).
				Msg("Path is a file in one pack and a directory in another")
		}
		first := clashes[0]
		return nil, errors.Newf(errors.ErrPathClash,
			"%s is a file in one pack and a directory in another (holds %s)", first.File, first.Nested).
			WithDetail("clashes", len(clashes))
	}

	classifier := classify.New(opts.FS, opts.Hasher, opts.Strategy).WithKnown(indices)
	classified, err := classifier.Classify(ctx, u)
	if err != nil {
		return nil, err
	}

	resolutions, err := resolve.New(opts.Chooser).Resolve(classified)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Packs:       packs,
		Resolutions: resolutions,
		Conflicts:   classified.Conflicts,
		DryRun:      opts.DryRun,
	}
	if opts.DryRun {
		logger.Info().Int("files", len(resolutions)).Msg("Dry run, nothing written")
		return result, nil
	}

	fmt.Fprintln(progress, "creating output")
	stats, err := materialize.New(opts.FS, opts.Output, progress).Materialize(resolutions)
	if err != nil {
		return nil, err
	}
	result.Stats = stats
	return result, nil
}

func withDefaults(opts Options) Options {
	if opts.FS == nil {
		opts.FS = filesystem.NewOS()
	}
	if opts.Hasher == nil {
		opts.Hasher = hashing.NewSHA256Hasher(hashing.DefaultBufferSize)
	}
	if opts.Strategy == nil {
		opts.Strategy = classify.Parallel{}
	}
	if opts.Progress == nil {
		opts.Progress = io.Discard
	}
	return opts
}
