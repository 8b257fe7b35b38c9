//go:build windows
// +build windows

package mmap

import (
	"golang.org/x/sys/windows"
	"os"
	"unsafe"
)

// ReserveCommit reserves and commits size bytes, rounded up to the next
// page multiple, of private read+write memory. The returned slice is the
// owning handle for the mapping: its data pointer is page-aligned and stays
// valid until the slice is passed back to Release unchanged.
func ReserveCommit(size int) ([]byte, error) {
	return reserveCommit(size)
}

// ReserveCommitData is identical to ReserveCommit on windows; both paths go
// through VirtualAlloc with PAGE_READWRITE.
func ReserveCommitData(size int) ([]byte, error) {
	return reserveCommit(size)
}

func reserveCommit(size int) ([]byte, error) {
	n := RoundToPage(size)
	if n <= 0 {
		return nil, os.NewSyscallError("VirtualAlloc", windows.ERROR_INVALID_PARAMETER)
	}
	addr, err := windows.VirtualAlloc(0, uintptr(n), windows.MEM_COMMIT|windows.MEM_RESERVE, windows.PAGE_READWRITE)
	if err != nil {
		return nil, os.NewSyscallError("VirtualAlloc", err)
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(addr)), n), nil
}

// Release returns a mapping obtained from ReserveCommit to the OS.
func Release(b []byte) error {
	if err := windows.VirtualFree(uintptr(unsafe.Pointer(&b[0])), 0, windows.MEM_RELEASE); err != nil {
		return os.NewSyscallError("VirtualFree", err)
	}
	return nil
}

// FlushInstructionCache is a no-op on windows: instruction fetches on the
// x86 targets stay coherent with memory writes, and mappings here only
// become executable after the code bytes are in place.
func FlushInstructionCache(b []byte) {
}
