package secure

import (
	"crypto/rand"
	"io"
)

// Reader is the cryptographically secure random source used throughout the
// wallet core. It wraps crypto/rand.Reader so callers have one consistent,
// mockable entry point.
//
//nolint:gochecknoglobals // package-level RNG is required for testability
var Reader io.Reader = rand.Reader

// RandomBytes returns n cryptographically secure random bytes.
func RandomBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := io.ReadFull(Reader, b); err != nil {
		return nil, err
	}
	return b, nil
}

// RandomSecretBytes returns n random bytes held in a Bytes container, for
// material (seeds, ephemeral keys) that must be zeroed on destroy rather
// than left to the garbage collector.
func RandomSecretBytes(n int) (*Bytes, error) {
	b, err := New(n)
	if err != nil {
		return nil, err
	}

	if _, err := io.ReadFull(Reader, b.Bytes()); err != nil {
		b.Destroy()
		return nil, err
	}

	return b, nil
}
