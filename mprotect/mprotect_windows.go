//go:build windows
// +build windows

package mprotect

import (
	"golang.org/x/sys/windows"
	"os"
	"unsafe"
)

// MakeReadExecute flips a whole mapping to read+execute. Write access is
// dropped in the same call, so the mapping is never writable and executable
// at the same time. b must be exactly a mapping handed out by the mmap
// package.
func MakeReadExecute(b []byte) error {
	return protect(b, windows.PAGE_EXECUTE_READ)
}

// MakeReadOnly flips a whole mapping to read-only.
func MakeReadOnly(b []byte) error {
	return protect(b, windows.PAGE_READONLY)
}

// MakeReadWrite flips a whole mapping back to read+write, dropping execute
// permission. Mappings are reset this way before they are released to the
// OS.
func MakeReadWrite(b []byte) error {
	return protect(b, windows.PAGE_READWRITE)
}

func protect(b []byte, prot uint32) error {
	var old uint32
	if err := windows.VirtualProtect(uintptr(unsafe.Pointer(&b[0])), uintptr(len(b)), prot, &old); err != nil {
		return os.NewSyscallError("VirtualProtect", err)
	}
	return nil
}
