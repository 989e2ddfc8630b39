// Package hashing computes content digests for pack files.
//
// Files are streamed through a fixed-size buffer so memory use does not grow
// with file size. Every call builds its own SHA-256 state and buffer; nothing
// is shared between goroutines hashing different files.
package hashing

import (
	"crypto/sha256"
	"io"

	"github.com/arthur-debert/packmerge/pkg/errors"
	"github.com/arthur-debert/packmerge/pkg/types"
	"github.com/spf13/afero"
)

// DefaultBufferSize is the read chunk size used when none is configured.
const DefaultBufferSize = 4096

// Hasher computes the digest of a file.
type Hasher interface {
	// HashFile computes the digest of the file at path on fs.
	HashFile(fs afero.Fs, path string) (types.Digest, error)

	// HashReader computes the digest of everything read from r.
	HashReader(r io.Reader) (types.Digest, error)
}

var (
	_ Hasher = (*SHA256Hasher)(nil)
	_ Hasher = (*FakeHasher)(nil)
)

// SHA256Hasher implements Hasher using SHA-256.
type SHA256Hasher struct {
	bufferSize int
}

// NewSHA256Hasher creates a SHA256Hasher reading in chunks of bufferSize bytes.
// A non-positive size selects DefaultBufferSize.
func NewSHA256Hasher(bufferSize int) *SHA256Hasher {
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}
	return &SHA256Hasher{bufferSize: bufferSize}
}

// BufferSize returns the chunk size used for reads
func (h *SHA256Hasher) BufferSize() int {
	return h.bufferSize
}

// HashFile computes the SHA-256 digest of the file at path.
// The file is closed before returning.
func (h *SHA256Hasher) HashFile(fs afero.Fs, path string) (types.Digest, error) {
	file, err := fs.Open(path)
	if err != nil {
		return types.Digest{}, errors.Wrapf(err, errors.ErrHash, "failed to open %s", path)
	}
	defer func() {
		_ = file.Close()
	}()

	d, err := h.HashReader(file)
	if err != nil {
		return types.Digest{}, errors.Wrapf(err, errors.ErrHash, "failed to read %s", path)
	}
	return d, nil
}

// HashReader consumes r and returns the digest of everything read.
// Read errors are returned as is; there is no retry.
func (h *SHA256Hasher) HashReader(r io.Reader) (types.Digest, error) {
	var d types.Digest
	hasher := sha256.New()
	buf := make([]byte, h.bufferSize)

	for {
		n, err := r.Read(buf)
		if n > 0 {
			hasher.Write(buf[:n])
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return d, err
		}
	}

	copy(d[:], hasher.Sum(nil))
	return d, nil
}

// Sum returns the SHA-256 digest of data.
func Sum(data []byte) types.Digest {
	return types.Digest(sha256.Sum256(data))
}
