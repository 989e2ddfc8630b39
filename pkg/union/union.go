// Package union merges per-pack indices into a single file list keyed by
// relative path.
package union

import (
	"path"
	"sort"

	"github.com/arthur-debert/packmerge/pkg/index"
	"github.com/arthur-debert/packmerge/pkg/types"
)

// Union maps every relative path found in any pack to the packs that hold it.
type Union struct {
	// Entries is sorted by path; each entry's owners are in pack order.
	Entries []types.FileEntry

	packs []types.Pack
}

// Build merges indices, which must be in pack order. It runs on a single
// goroutine; indices are only read.
func Build(indices []*index.PackIndex) *Union {
	owners := make(map[types.RelativePath][]types.Pack)
	packs := make([]types.Pack, 0, len(indices))

	for _, ix := range indices {
		packs = append(packs, ix.Pack)
		for _, p := range ix.Paths {
			owners[p] = append(owners[p], ix.Pack)
		}
	}

	u := &Union{
		Entries: make([]types.FileEntry, 0, len(owners)),
		packs:   packs,
	}
	for p, o := range owners {
		sort.SliceStable(o, func(i, j int) bool { return o[i].Index < o[j].Index })
		u.Entries = append(u.Entries, types.FileEntry{Path: p, Owners: o})
	}
	sort.Slice(u.Entries, func(i, j int) bool { return u.Entries[i].Path < u.Entries[j].Path })

	return u
}

// Len returns the number of distinct relative paths
func (u *Union) Len() int {
	return len(u.Entries)
}

// Packs returns the packs the union was built from, in order
func (u *Union) Packs() []types.Pack {
	return u.packs
}

// Unique returns the entries owned by exactly one pack.
func (u *Union) Unique() []types.FileEntry {
	return u.filter(true)
}

// Shared returns the entries owned by two or more packs.
func (u *Union) Shared() []types.FileEntry {
	return u.filter(false)
}

// Lookup returns the entry for p.
func (u *Union) Lookup(p types.RelativePath) (types.FileEntry, bool) {
	i := sort.Search(len(u.Entries), func(i int) bool { return u.Entries[i].Path >= p })
	if i < len(u.Entries) && u.Entries[i].Path == p {
		return u.Entries[i], true
	}
	return types.FileEntry{}, false
}

// Clash is a path that is a file in one pack and a directory in another.
type Clash struct {
	File   types.RelativePath
	// Nested is the first entry found beneath File.
	Nested types.RelativePath
}

// Clashes returns, sorted by path, every entry that is also a parent
// directory of another entry. The output tree cannot hold both.
func (u *Union) Clashes() []Clash {
	files := make(map[types.RelativePath]bool, len(u.Entries))
	for _, e := range u.Entries {
		files[e.Path] = true
	}

	seen := make(map[types.RelativePath]bool)
	var out []Clash
	for _, e := range u.Entries {
		for dir := path.Dir(string(e.Path)); dir != "." && dir != "/"; dir = path.Dir(dir) {
			p := types.RelativePath(dir)
			if files[p] && !seen[p] {
				seen[p] = true
				out = append(out, Clash{File: p, Nested: e.Path})
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].File < out[j].File })
	return out
}

func (u *Union) filter(unique bool) []types.FileEntry {
	var out []types.FileEntry
	for _, e := range u.Entries {
		if e.Unambiguous() == unique {
			out = append(out, e)
		}
	}
	return out
}
