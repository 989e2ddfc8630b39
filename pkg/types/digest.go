package types

import (
	"crypto/sha256"
	"encoding/hex"
)

// DigestSize is the size of a content digest in bytes (SHA-256).
const DigestSize = sha256.Size

// Digest is the content hash of a file's full byte stream.
// Two equal digests are treated as identical content; collisions are not
// checked for by comparing bytes.
type Digest [DigestSize]byte

// Hex returns the lowercase hex encoding of the digest
func (d Digest) Hex() string {
	return hex.EncodeToString(d[:])
}

// Short returns the first 12 hex characters, for compact display.
func (d Digest) Short() string {
	return d.Hex()[:12]
}

// String implements fmt.Stringer
func (d Digest) String() string {
	return d.Hex()
}

// ParseDigest decodes a hex-encoded digest.
func ParseDigest(s string) (Digest, bool) {
	var d Digest
	b, err := hex.DecodeString(s)
	if err != nil || len(b) != DigestSize {
		return d, false
	}
	copy(d[:], b)
	return d, true
}
