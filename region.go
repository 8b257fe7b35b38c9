package jitmem

import (
	"github.com/eh-steve/jitmem/mmap"
	"github.com/eh-steve/jitmem/mprotect"
	"go.uber.org/zap"
	"unsafe"
)

// region owns one contiguous page-aligned mapping. The zero region is the
// empty sentinel and owns nothing.
type region struct {
	buf []byte
}

func (r region) empty() bool {
	return len(r.buf) == 0
}

func (r region) addr() uintptr {
	if r.empty() {
		return 0
	}
	return uintptr(unsafe.Pointer(&r.buf[0]))
}

// release resets the mapping to read+write, then returns it to the OS.
// Some allocators need pages writable to reclaim them, and a released range
// must never linger executable in case the address space is reused. Failure
// of either step means the bookkeeping no longer matches the page table, so
// it aborts instead of returning.
func (r region) release(log *zap.SugaredLogger) {
	if r.empty() {
		return
	}
	if err := mprotect.MakeReadWrite(r.buf); err != nil {
		log.Fatalw("cannot reset region protection before release",
			"addr", r.addr(), "len", len(r.buf), "error", err)
	}
	if err := mmap.Release(r.buf); err != nil {
		log.Fatalw("cannot release region",
			"addr", r.addr(), "len", len(r.buf), "error", err)
	}
}
