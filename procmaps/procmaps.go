// Package procmaps reads the calling process's memory mappings, so tests
// and tooling can observe protection state the way the OS reports it
// instead of trusting allocator bookkeeping.
package procmaps

import (
	"github.com/pkg/errors"
)

// ErrNotSupported is returned by Self on platforms without a readable
// /proc/self/maps.
var ErrNotSupported = errors.New("procmaps: not supported on this platform")

// Mapping is one contiguous mapped range of the process address space.
type Mapping struct {
	Start   uintptr
	End     uintptr
	Read    bool
	Write   bool
	Exec    bool
	Shared  bool
	Private bool
	Offset  uintptr
	Dev     string
	Inode   uint64
	Path    string
}

// Perms renders the permission bits the way the maps file spells them,
// e.g. "r-xp".
func (m Mapping) Perms() string {
	b := []byte{'-', '-', '-', '-'}
	if m.Read {
		b[0] = 'r'
	}
	if m.Write {
		b[1] = 'w'
	}
	if m.Exec {
		b[2] = 'x'
	}
	if m.Shared {
		b[3] = 's'
	}
	if m.Private {
		b[3] = 'p'
	}
	return string(b)
}

// Find returns the mapping containing addr.
func Find(maps []Mapping, addr uintptr) (Mapping, bool) {
	for _, m := range maps {
		if addr >= m.Start && addr < m.End {
			return m, true
		}
	}
	return Mapping{}, false
}
