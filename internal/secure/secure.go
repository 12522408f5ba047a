// Package secure provides secret-hygiene primitives shared across the
// wallet core: a zeroing, mlock-backed byte container and a cryptographic
// random source. Nothing in this package implements encryption itself —
// see internal/vaultcrypto for that — this package only protects the
// plaintext secrets (seeds, private keys, passwords, mnemonics) that flow
// through the rest of the module while they're resident in memory.
package secure

import (
	"fmt"
	"io"
	"runtime"
	"sync"
)

// Bytes is a wrapper for sensitive byte slices that provides secure memory
// handling via mlock (best-effort) and explicit, guaranteed zeroing. Its
// Format method prints a fixed placeholder for every fmt verb, so
// accidental logging or fmt.Sprintf("%v", ...) of a *Bytes never prints
// the secret.
type Bytes struct {
	data   []byte
	locked bool
	mu     sync.Mutex
}

// Format implements fmt.Formatter, writing a redacted placeholder
// regardless of verb or flags.
func (b *Bytes) Format(f fmt.State, _ rune) {
	_, _ = io.WriteString(f, "secure.Bytes{REDACTED}")
}

// New allocates a new secure buffer of the given size. The memory is
// mlocked if the OS allows it; mlock failure is not an error, since many
// containerized environments deny it and the zeroing guarantee still
// holds.
func New(size int) (*Bytes, error) {
	data := make([]byte, size)

	b := &Bytes{data: data}
	b.locked = mlock(data)

	runtime.SetFinalizer(b, func(s *Bytes) {
		s.Destroy()
	})

	return b, nil
}

// FromSlice copies data into a new secure buffer. The caller remains
// responsible for zeroing its own copy.
func FromSlice(data []byte) (*Bytes, error) {
	b, err := New(len(data))
	if err != nil {
		return nil, err
	}
	copy(b.data, data)
	return b, nil
}

// Bytes returns the underlying slice. Returns nil once Destroy has run.
func (b *Bytes) Bytes() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.data
}

// Len returns the length of the secret, or 0 if destroyed.
func (b *Bytes) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.data)
}

// IsLocked reports whether the backing memory is mlocked.
func (b *Bytes) IsLocked() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.locked
}

// Destroy zeros and unlocks the memory. Safe to call more than once, and
// safe to call from a finalizer.
func (b *Bytes) Destroy() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.data == nil {
		return
	}

	Zero(b.data)

	if b.locked {
		munlock(b.data)
		b.locked = false
	}

	b.data = nil
	runtime.SetFinalizer(b, nil)
}

// Zero overwrites a byte slice with zeros in place. runtime.KeepAlive
// prevents the compiler from eliding the store as dead when the slice
// isn't read again afterward.
func Zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
	runtime.KeepAlive(b)
}
