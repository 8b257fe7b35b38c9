//go:build darwin && arm64
// +build darwin,arm64

package mmap

/*
#include <libkern/OSCacheControl.h>

void cache_invalidate(void* start, size_t len) {
	sys_icache_invalidate(start, len);
}
*/
import "C"

import (
	"golang.org/x/sys/unix"
	"os"
	"unsafe"
)

// ReserveCommit reserves and commits size bytes, rounded up to the next
// page multiple, of private anonymous read+write memory. The mapping is
// deliberately made without MAP_JIT: MAP_JIT pages gate every write behind
// a per-thread protection toggle, which cannot be honored for memory handed
// out as plain byte slices. Plain mappings flip to read+execute with
// mprotect like on every other unix.
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

// FlushInstructionCache discards instruction-cache lines for a mapping that
// just had code written into it. Apple silicon does not keep the data and
// instruction caches coherent, so this must run before the new code is
// executed on any thread.
func FlushInstructionCache(b []byte) {
	if len(b) == 0 {
		return
	}
	C.cache_invalidate(unsafe.Pointer(&b[0]), C.size_t(len(b)))
}
