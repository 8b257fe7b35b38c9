// Package mmap hands out page-aligned anonymous memory mappings to hold
// freshly generated machine code and the data it references.
//
// Mappings are always created readable and writable. Execute permission is
// only ever granted later through the mprotect package, so no mapping is
// writable and executable at the same time.
package mmap

import "syscall"

var pageSize = syscall.Getpagesize()

// PageSize returns the OS page granularity. It is queried once and constant
// for the process lifetime.
func PageSize() int {
	return pageSize
}

// RoundToPage rounds size up to the next multiple of the page size.
func RoundToPage(size int) int {
	return roundTo(size, pageSize)
}

// roundTo relies on page being a power of two, which holds for every page
// size real hardware reports.
func roundTo(size, page int) int {
	return (size + page - 1) &^ (page - 1)
}
