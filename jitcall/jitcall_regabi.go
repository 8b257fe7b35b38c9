//go:build amd64 || arm64
// +build amd64 arm64

package jitcall

import (
	"unsafe"
)

const supported = true

// Func0 wraps entry as a niladic function returning one integer register.
// A Go function value points at a word holding the code address, so backing
// the value with a heap word that holds entry makes the runtime call
// straight into the generated code.
//
// The code at entry must already be readable and executable, take no
// arguments, clobber no callee-saved registers and return its result in the
// first integer result register.
func Func0(entry uintptr) func() int64 {
	fn := new(uintptr)
	*fn = entry
	return *(*func() int64)(unsafe.Pointer(&fn))
}
