//go:build freebsd || linux || netbsd
// +build freebsd linux netbsd

package procmaps

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const sampleMaps = `00400000-00452000 r-xp 00000000 08:02 173521      /usr/bin/dbus-daemon
00651000-00652000 r--p 00051000 08:02 173521      /usr/bin/dbus-daemon
00e03000-00e24000 rw-p 00000000 00:00 0           [heap]
7f84a8720000-7f84a8a20000 rw-s 00000000 00:04 425984
7ffc04b13000-7ffc04b34000 rw-p 00000000 00:00 0   [stack]
7ffc04b9c000-7ffc04b9e000 r-xp 00000000 00:00 0   [vdso]
`

func TestParse(t *testing.T) {
	maps, err := parse([]byte(sampleMaps))
	require.NoError(t, err)
	require.Len(t, maps, 6)

	text := maps[0]
	require.Equal(t, uintptr(0x400000), text.Start)
	require.Equal(t, uintptr(0x452000), text.End)
	require.Equal(t, "r-xp", text.Perms())
	require.Equal(t, uintptr(0), text.Offset)
	require.Equal(t, "08:02", text.Dev)
	require.Equal(t, uint64(173521), text.Inode)
	require.Equal(t, "/usr/bin/dbus-daemon", text.Path)

	ro := maps[1]
	require.Equal(t, "r--p", ro.Perms())
	require.Equal(t, uintptr(0x51000), ro.Offset)

	heap := maps[2]
	require.Equal(t, "rw-p", heap.Perms())
	require.Equal(t, "[heap]", heap.Path)

	anon := maps[3]
	require.Equal(t, "rw-s", anon.Perms())
	require.Empty(t, anon.Path)
}

func TestParseRejectsGarbage(t *testing.T) {
	for name, data := range map[string]string{
		"too few fields": "00400000-00452000 r-xp 00000000\n",
		"bad range":      "00400000 r-xp 00000000 08:02 173521\n",
		"bad start":      "zzz-00452000 r-xp 00000000 08:02 173521\n",
		"bad perm bit":   "00400000-00452000 r-qp 00000000 08:02 173521\n",
		"bad offset":     "00400000-00452000 r-xp zz 08:02 173521\n",
		"bad inode":      "00400000-00452000 r-xp 00000000 08:02 abc\n",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := parse([]byte(data))
			require.Error(t, err)
		})
	}
}

func TestSelf(t *testing.T) {
	maps, err := Self()
	require.NoError(t, err)
	require.NotEmpty(t, maps)

	// The program text must show up executable somewhere.
	var execSeen bool
	for _, m := range maps {
		if m.Exec {
			execSeen = true
			break
		}
	}
	require.True(t, execSeen, "no executable mapping found in own maps")
}
