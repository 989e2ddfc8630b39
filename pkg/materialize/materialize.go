// Package materialize writes the merged tree to the output directory.
package materialize

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/arthur-debert/packmerge/pkg/errors"
	"github.com/arthur-debert/packmerge/pkg/filesystem"
	"github.com/arthur-debert/packmerge/pkg/logging"
	"github.com/arthur-debert/packmerge/pkg/types"
	"github.com/spf13/afero"
)

// Stats counts what was written
type Stats struct {
	Files int   `json:"files" yaml:"files" toml:"files"`
	Bytes int64 `json:"bytes" yaml:"bytes" toml:"bytes"`
}

// Materializer copies resolved files from their source packs into Output.
type Materializer struct {
	FS     afero.Fs
	Output string
	// Progress receives one line per copied path. Nil discards.
	Progress io.Writer
}

// New creates a Materializer writing under output
func New(fs afero.Fs, output string, progress io.Writer) *Materializer {
	return &Materializer{FS: fs, Output: output, Progress: progress}
}

// Materialize creates the output root and copies every resolution into it,
// in order. The first failed copy stops the run. Files already written are
// left in place.
func (m *Materializer) Materialize(resolutions []types.Resolution) (*Stats, error) {
	logger := logging.GetLogger("materialize")
	progress := m.Progress
	if progress == nil {
		progress = io.Discard
	}

	if err := m.FS.MkdirAll(m.Output, 0755); err != nil {
		return nil, errors.Wrapf(err, errors.ErrCopy, "failed to create output directory %s", m.Output).
			WithDetail("output", m.Output)
	}

	stats := &Stats{}
	for _, res := range resolutions {
		src := res.SourcePath()
		dst := filepath.Join(m.Output, res.Path.OSPath())

		fmt.Fprintln(progress, res.Path.String())
		n, err := filesystem.CopyFile(m.FS, src, dst)
		if err != nil {
			logger.Error().Err(err).
				Str("source", src).
				Str("destination", dst).
				Int("copied", stats.Files).
				Msg("Copy failed, aborting")
			return stats, errors.Wrapf(err, errors.ErrCopy, "failed to copy %s", res.Path).
				WithDetail("source", src).
				WithDetail("destination", dst)
		}

		stats.Files++
		stats.Bytes += n
		logger.Trace().
			Str("path", res.Path.String()).
			Int("pack", res.Source.Index).
			Int64("bytes", n).
			Msg("Copied")
	}

	logger.Info().Int("files", stats.Files).Int64("bytes", stats.Bytes).Msg("Output written")
	return stats, nil
}
