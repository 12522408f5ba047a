//go:build windows

package secure

import (
	"unsafe"

	"golang.org/x/sys/windows"
)

func mlock(data []byte) bool {
	if len(data) == 0 {
		return false
	}
	return windows.VirtualLock(unsafe.Pointer(&data[0]), uintptr(len(data))) == nil
}

func munlock(data []byte) {
	if len(data) == 0 {
		return
	}
	_ = windows.VirtualUnlock(unsafe.Pointer(&data[0]), uintptr(len(data)))
}
