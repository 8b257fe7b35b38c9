//go:build freebsd || linux || netbsd
// +build freebsd linux netbsd

package procmaps

import (
	"bytes"
	"github.com/pkg/errors"
	"os"
	"strconv"
	"strings"
)

// Self parses /proc/self/maps. Format per
// https://man7.org/linux/man-pages/man5/proc.5.html; netbsd and freebsd
// (with procfs mounted) expose the same layout.
func Self() ([]Mapping, error) {
	data, err := os.ReadFile("/proc/self/maps")
	if err != nil {
		return nil, errors.Wrap(err, "could not read '/proc/self/maps'")
	}
	return parse(data)
}

func parse(data []byte) ([]Mapping, error) {
	lines := bytes.Split(data, []byte("\n"))
	var mappings []Mapping
	for i, line := range lines {
		fields := strings.Fields(string(line))
		if len(fields) == 0 {
			continue
		}
		if len(fields) < 5 {
			return nil, errors.Errorf("got fewer than 5 fields on line %d of maps data: %s", i, line)
		}
		var m Mapping
		addrRange := strings.Split(fields[0], "-")
		if len(addrRange) != 2 {
			return nil, errors.Errorf("got %d fields for address range on line %d (expected 2): %s", len(addrRange), i, line)
		}
		start, err := strconv.ParseUint(addrRange[0], 16, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to parse start address (%s) on line %d", addrRange[0], i)
		}
		end, err := strconv.ParseUint(addrRange[1], 16, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to parse end address (%s) on line %d", addrRange[1], i)
		}
		m.Start = uintptr(start)
		m.End = uintptr(end)
		for _, char := range fields[1] {
			switch char {
			case 'r':
				m.Read = true
			case 'w':
				m.Write = true
			case 'x':
				m.Exec = true
			case 's':
				m.Shared = true
			case 'p':
				m.Private = true
			case '-':
			default:
				return nil, errors.Errorf("got an unexpected permission bit %q in perms %q on line %d", char, fields[1], i)
			}
		}
		offset, err := strconv.ParseUint(fields[2], 16, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to parse file offset (%s) on line %d", fields[2], i)
		}
		m.Offset = uintptr(offset)
		m.Dev = fields[3]
		inode, err := strconv.ParseUint(fields[4], 10, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to parse inode (%s) on line %d", fields[4], i)
		}
		m.Inode = inode
		if len(fields) > 5 {
			m.Path = fields[5]
		}
		mappings = append(mappings, m)
	}
	return mappings, nil
}
