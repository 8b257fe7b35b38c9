//go:build !amd64 && !arm64
// +build !amd64,!arm64

package jitcall

const supported = false

// Func0 has no implementation for this architecture. Callers are expected
// to gate on Supported.
func Func0(entry uintptr) func() int64 {
	panic("jitcall: entry bridging is not supported on this architecture")
}
