//go:build !windows

package secure

import "golang.org/x/sys/unix"

// mlock attempts to lock the memory region containing data so it can't be
// paged to swap. Returns false on failure (e.g. RLIMIT_MEMLOCK exceeded in
// a container) rather than an error, since the caller's zeroing guarantee
// holds either way.
func mlock(data []byte) bool {
	if len(data) == 0 {
		return false
	}
	return unix.Mlock(data) == nil
}

func munlock(data []byte) {
	if len(data) == 0 {
		return
	}
	_ = unix.Munlock(data)
}
