package types

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"
)

// RelativePath is a slash-separated path relative to a pack root.
// It is the join key between packs.
type RelativePath string

// NewRelativePath converts an OS path relative to a pack root into a RelativePath.
func NewRelativePath(osRel string) RelativePath {
	return RelativePath(path.Clean(filepath.ToSlash(osRel)))
}

// OSPath returns the path using the OS separator.
func (p RelativePath) OSPath() string {
	return filepath.FromSlash(string(p))
}

// String implements fmt.Stringer
func (p RelativePath) String() string {
	return string(p)
}

// Pack identifies one input directory tree.
type Pack struct {
	// Index is the 1-based position of the pack on the command line.
	// It drives tie-breaks and the option numbers shown when prompting.
	Index int

	// Root is the pack's root directory as given by the user
	Root string
}

// NewPacks builds packs from roots, numbering them from 1 in order.
func NewPacks(roots []string) []Pack {
	packs := make([]Pack, len(roots))
	for i, root := range roots {
		packs[i] = Pack{Index: i + 1, Root: root}
	}
	return packs
}

// FilePath returns the full path of rel inside the pack
func (p Pack) FilePath(rel RelativePath) string {
	return filepath.Join(p.Root, rel.OSPath())
}

// String implements fmt.Stringer
func (p Pack) String() string {
	return fmt.Sprintf("pack %d (%s)", p.Index, p.Root)
}

// PackRoots returns the roots of packs in order.
func PackRoots(packs []Pack) []string {
	roots := make([]string, len(packs))
	for i, p := range packs {
		roots[i] = p.Root
	}
	return roots
}

// IsWithin reports whether rel stays inside its pack root.
func (p RelativePath) IsWithin() bool {
	s := string(p)
	return s != "" && s != "." && s != ".." && !path.IsAbs(s) && !strings.HasPrefix(s, "../")
}
