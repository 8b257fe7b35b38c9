//go:build !freebsd && !linux && !netbsd
// +build !freebsd,!linux,!netbsd

package procmaps

// Self has no implementation here. Darwin would need mach
// vm_region_recurse and windows VirtualQueryEx; callers fall back to
// skipping OS-level protection checks.
func Self() ([]Mapping, error) {
	return nil, ErrNotSupported
}
