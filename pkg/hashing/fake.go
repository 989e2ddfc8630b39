package hashing

import (
	"io"
	"sync"

	"github.com/arthur-debert/packmerge/pkg/errors"
	"github.com/arthur-debert/packmerge/pkg/types"
	"github.com/spf13/afero"
)

// FakeHasher implements Hasher with preset digests for testing.
// It is safe for concurrent use and records how often each path was hashed.
type FakeHasher struct {
	mu      sync.Mutex
	digests map[string]types.Digest
	errs    map[string]error
	calls   map[string]int
}

// NewFakeHasher creates a new FakeHasher.
func NewFakeHasher() *FakeHasher {
	return &FakeHasher{
		digests: make(map[string]types.Digest),
		errs:    make(map[string]error),
		calls:   make(map[string]int),
	}
}

// SetDigest sets the digest returned for path.
func (h *FakeHasher) SetDigest(path string, d types.Digest) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.digests[path] = d
}

// SetError makes HashFile fail for path.
func (h *FakeHasher) SetError(path string, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.errs[path] = err
}

// Calls returns how many times path was hashed.
func (h *FakeHasher) Calls(path string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.calls[path]
}

// TotalCalls returns the number of HashFile calls across all paths.
func (h *FakeHasher) TotalCalls() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	total := 0
	for _, n := range h.calls {
		total += n
	}
	return total
}

// HashFile returns the preset digest for path, or the zero digest.
func (h *FakeHasher) HashFile(_ afero.Fs, path string) (types.Digest, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.calls[path]++
	if err, ok := h.errs[path]; ok {
		return types.Digest{}, err
	}
	return h.digests[path], nil
}

// HashReader returns the real SHA-256 of r's content. Reads are not counted
// as calls.
func (h *FakeHasher) HashReader(r io.Reader) (types.Digest, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return types.Digest{}, errors.Wrap(err, errors.ErrHash, "failed to read content")
	}
	return Sum(data), nil
}
