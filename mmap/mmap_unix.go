//go:build (darwin && !arm64) || dragonfly || freebsd || linux || netbsd || openbsd || solaris
// +build darwin,!arm64 dragonfly freebsd linux netbsd openbsd solaris

package mmap

import (
	"golang.org/x/sys/unix"
	"os"
)

// ReserveCommit reserves and commits size bytes, rounded up to the next
// page multiple, of private anonymous read+write memory. The returned slice
// is the owning handle for the mapping: its data pointer is page-aligned
// and stays valid until the slice is passed back to Release unchanged.
func ReserveCommit(size int) ([]byte, error) {
	return reserveCommit(size)
}

// ReserveCommitData is ReserveCommit for mappings that will never be made
// executable.
func ReserveCommitData(size int) ([]byte, error) {
	return reserveCommit(size)
}

func reserveCommit(size int) ([]byte, error) {
	b, err := unix.Mmap(-1, 0, RoundToPage(size), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		return nil, os.NewSyscallError("mmap", err)
	}
	return b, nil
}

// Release returns a mapping obtained from ReserveCommit to the OS.
func Release(b []byte) error {
	if err := unix.Munmap(b); err != nil {
		return os.NewSyscallError("munmap", err)
	}
	return nil
}

// FlushInstructionCache is a no-op here. Mappings only gain execute
// permission after the code bytes are in place, and these kernels
// synchronize the instruction cache themselves when a page turns
// executable.
func FlushInstructionCache(b []byte) {
}
