//go:build darwin || dragonfly || freebsd || linux || netbsd || openbsd || solaris
// +build darwin dragonfly freebsd linux netbsd openbsd solaris

package mprotect

import (
	"golang.org/x/sys/unix"
	"os"
)

// MakeReadExecute flips a whole mapping to read+execute. Write access is
// dropped in the same call, so the mapping is never writable and executable
// at the same time. b must be exactly a mapping handed out by the mmap
// package.
func MakeReadExecute(b []byte) error {
	return protect(b, unix.PROT_READ|unix.PROT_EXEC)
}

// MakeReadOnly flips a whole mapping to read-only.
func MakeReadOnly(b []byte) error {
	return protect(b, unix.PROT_READ)
}

// MakeReadWrite flips a whole mapping back to read+write, dropping execute
// permission. Mappings are reset this way before they are released to the
// OS.
func MakeReadWrite(b []byte) error {
	return protect(b, unix.PROT_READ|unix.PROT_WRITE)
}

func protect(b []byte, prot int) error {
	if err := unix.Mprotect(b, prot); err != nil {
		return os.NewSyscallError("mprotect", err)
	}
	return nil
}
