// Package jitcall turns a finalized machine-code entry address into a
// callable Go function value. It exists for drivers, examples and tests;
// real consumers of generated code bring their own calling convention.
package jitcall

// Supported reports whether this architecture can bridge an entry address
// into a Go function value. Bridging relies on the register-based Go ABI,
// which amd64 and arm64 use.
func Supported() bool {
	return supported
}
