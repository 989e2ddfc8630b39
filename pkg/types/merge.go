package types

// FileEntry is one relative path of the union together with every pack
// that contains it, in pack order.
type FileEntry struct {
	Path   RelativePath
	Owners []Pack
}

// Unambiguous reports whether exactly one pack owns the path.
func (e FileEntry) Unambiguous() bool {
	return len(e.Owners) == 1
}

// PackDigest pairs a pack with the digest of one of its files.
type PackDigest struct {
	Pack   Pack
	Digest Digest
}

// Conflict is a path whose owning packs disagree on content.
// Candidates are in pack order and hold at least two distinct digests.
type Conflict struct {
	Path       RelativePath
	Candidates []PackDigest
}

// Options returns the number of choices offered for the conflict.
func (c Conflict) Options() int {
	return len(c.Candidates)
}

// Candidate returns the 1-based option k, and false when k is out of range.
func (c Conflict) Candidate(k int) (PackDigest, bool) {
	if k < 1 || k > len(c.Candidates) {
		return PackDigest{}, false
	}
	return c.Candidates[k-1], true
}

// ResolutionReason records why a source pack was picked.
type ResolutionReason string

const (
	// ReasonUnique means only one pack has the path
	ReasonUnique ResolutionReason = "unique"
	// ReasonIdentical means every owner had the same digest
	ReasonIdentical ResolutionReason = "identical"
	// ReasonChosen means the user picked the source
	ReasonChosen ResolutionReason = "chosen"
)

// Resolution names the pack whose copy of Path is written to the output.
type Resolution struct {
	Path   RelativePath
	Source Pack
	Reason ResolutionReason
}

// SourcePath returns the full path of the file to copy.
func (r Resolution) SourcePath() string {
	return r.Source.FilePath(r.Path)
}
