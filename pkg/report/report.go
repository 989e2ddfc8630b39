// Package report renders the outcome of a merge as text, JSON, YAML or TOML.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/arthur-debert/packmerge/pkg/errors"
	"github.com/arthur-debert/packmerge/pkg/merge"
	"github.com/arthur-debert/packmerge/pkg/types"
	"github.com/arthur-debert/packmerge/pkg/ui/styles"
	"github.com/dustin/go-humanize"
	"github.com/pelletier/go-toml/v2"
	"github.com/pterm/pterm"
	"gopkg.in/yaml.v3"
)

// Format selects the report encoding
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// Formats lists the supported formats
var Formats = []Format{FormatText, FormatJSON, FormatYAML, FormatTOML}

// ParseFormat validates s. An empty string means text.
func ParseFormat(s string) (Format, error) {
	if s == "" {
		return FormatText, nil
	}
	for _, f := range Formats {
		if string(f) == strings.ToLower(s) {
			return f, nil
		}
	}
	return "", errors.Newf(errors.ErrInvalidInput, "unknown format %q", s).
		WithDetail("supported", Formats)
}

// PackEntry is one input pack
type PackEntry struct {
	Index int    `json:"index" yaml:"index" toml:"index"`
	Root  string `json:"root" yaml:"root" toml:"root"`
}

// FileEntry is one path of the output and where it comes from
type FileEntry struct {
	Path   string `json:"path" yaml:"path" toml:"path"`
	Pack   int    `json:"pack" yaml:"pack" toml:"pack"`
	Reason string `json:"reason" yaml:"reason" toml:"reason"`
}

// CandidateEntry is one side of a conflict
type CandidateEntry struct {
	Pack   int    `json:"pack" yaml:"pack" toml:"pack"`
	Root   string `json:"root" yaml:"root" toml:"root"`
	Digest string `json:"digest" yaml:"digest" toml:"digest"`
}

// ConflictEntry is a path the user had to choose for
type ConflictEntry struct {
	Path       string           `json:"path" yaml:"path" toml:"path"`
	Chosen     int              `json:"chosen" yaml:"chosen" toml:"chosen"`
	Candidates []CandidateEntry `json:"candidates" yaml:"candidates" toml:"candidates"`
}

// Summary holds the totals
type Summary struct {
	Files     int    `json:"files" yaml:"files" toml:"files"`
	Unique    int    `json:"unique" yaml:"unique" toml:"unique"`
	Identical int    `json:"identical" yaml:"identical" toml:"identical"`
	Chosen    int    `json:"chosen" yaml:"chosen" toml:"chosen"`
	Written   bool   `json:"written" yaml:"written" toml:"written"`
	Bytes     int64  `json:"bytes" yaml:"bytes" toml:"bytes"`
	Size      string `json:"size" yaml:"size" toml:"size"`
}

// Report is the serializable view of a merge result.
type Report struct {
	Output    string          `json:"output" yaml:"output" toml:"output"`
	DryRun    bool            `json:"dry_run" yaml:"dry_run" toml:"dry_run"`
	Packs     []PackEntry     `json:"packs" yaml:"packs" toml:"packs"`
	Files     []FileEntry     `json:"files" yaml:"files" toml:"files"`
	Conflicts []ConflictEntry `json:"conflicts" yaml:"conflicts" toml:"conflicts"`
	Summary   Summary         `json:"summary" yaml:"summary" toml:"summary"`
}

// New builds a report for result, which was written (or planned) to output.
func New(result *merge.Result, output string) *Report {
	r := &Report{
		Output:    output,
		DryRun:    result.DryRun,
		Packs:     make([]PackEntry, 0, len(result.Packs)),
		Files:     make([]FileEntry, 0, len(result.Resolutions)),
		Conflicts: make([]ConflictEntry, 0, len(result.Conflicts)),
	}

	for _, p := range result.Packs {
		r.Packs = append(r.Packs, PackEntry{Index: p.Index, Root: p.Root})
	}

	chosen := make(map[types.RelativePath]int, len(result.Conflicts))
	for _, res := range result.Resolutions {
		r.Files = append(r.Files, FileEntry{
			Path:   res.Path.String(),
			Pack:   res.Source.Index,
			Reason: string(res.Reason),
		})
		if res.Reason == types.ReasonChosen {
			chosen[res.Path] = res.Source.Index
		}
	}

	for _, c := range result.Conflicts {
		entry := ConflictEntry{Path: c.Path.String(), Chosen: chosen[c.Path]}
		for _, cand := range c.Candidates {
			entry.Candidates = append(entry.Candidates, CandidateEntry{
				Pack:   cand.Pack.Index,
				Root:   cand.Pack.Root,
				Digest: cand.Digest.Hex(),
			})
		}
		r.Conflicts = append(r.Conflicts, entry)
	}

	r.Summary = Summary{
		Files:     len(result.Resolutions),
		Unique:    result.Count(types.ReasonUnique),
		Identical: result.Count(types.ReasonIdentical),
		Chosen:    result.Count(types.ReasonChosen),
	}
	if result.Stats != nil {
		r.Summary.Written = true
		r.Summary.Bytes = result.Stats.Bytes
	}
	r.Summary.Size = humanize.Bytes(uint64(r.Summary.Bytes))
	return r
}

// Write encodes r to w. Text output is styled with theme, which may be nil.
func Write(w io.Writer, r *Report, format Format, theme *styles.Theme) error {
	var err error
	switch format {
	case FormatText, "":
		err = writeText(w, r, theme)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		err = enc.Encode(r)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err = enc.Encode(r); err == nil {
			err = enc.Close()
		}
	case FormatTOML:
		err = toml.NewEncoder(w).Encode(r)
	default:
		return errors.Newf(errors.ErrInvalidInput, "unknown format %q", format)
	}
	if err != nil {
		return errors.Wrapf(err, errors.ErrInternal, "failed to write %s report", format)
	}
	return nil
}

func writeText(w io.Writer, r *Report, theme *styles.Theme) error {
	if theme == nil {
		theme = styles.NewTheme(w, styles.ColorNever)
	}

	if r.DryRun {
		fmt.Fprintln(w, theme.Render(styles.DryRun, "dry run: nothing was written to "+r.Output))
		fmt.Fprintln(w)

		data := pterm.TableData{{"PATH", "PACK", "REASON"}}
		for _, f := range r.Files {
			data = append(data, []string{f.Path, strconv.Itoa(f.Pack), f.Reason})
		}
		table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
		if err != nil {
			return err
		}
		fmt.Fprintln(w, table)
		fmt.Fprintln(w)
	}

	s := r.Summary
	line := fmt.Sprintf("%d files (%d unique, %d identical, %d chosen)", s.Files, s.Unique, s.Identical, s.Chosen)
	if s.Written {
		line += fmt.Sprintf(", %s written to %s", s.Size, r.Output)
	}
	fmt.Fprintln(w, theme.Render(styles.Success, line))
	return nil
}
