package hexfile_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/eh-steve/jitmem/hexfile"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	in := `
# niladic function returning 42
@name answer
@arch amd64
@align 32

B8 2a 00   # directives are done, bytes may mix case
0000 c3
`
	img, err := hexfile.Parse(strings.NewReader(in), "fallback")
	require.NoError(t, err)
	require.Equal(t, "answer", img.Name)
	require.Equal(t, "amd64", img.Arch)
	require.Equal(t, 32, img.Align)
	require.Equal(t, []byte{0xb8, 0x2a, 0x00, 0x00, 0x00, 0xc3}, img.Code)
}

func TestParseDefaults(t *testing.T) {
	img, err := hexfile.Parse(strings.NewReader("c3"), "ret")
	require.NoError(t, err)
	require.Equal(t, "ret", img.Name)
	require.Empty(t, img.Arch)
	require.Zero(t, img.Align, "an image without @align leaves the choice to the runner")
	require.Equal(t, []byte{0xc3}, img.Code)
}

func TestParseErrors(t *testing.T) {
	tests := map[string]string{
		"odd hex":              "b8 2",
		"not hex":              "zz",
		"unknown directive":    "@foo bar\nc3",
		"align not power":      "@align 3\nc3",
		"align zero":           "@align 0\nc3",
		"align too big":        "@align 256\nc3",
		"align not a number":   "@align sixteen\nc3",
		"duplicate name":       "@name a\n@name b\nc3",
		"directive after code": "c3\n@name late",
		"missing argument":     "@name\nc3",
		"too many arguments":   "@arch amd64 arm64\nc3",
		"no code":              "# nothing\n@name empty",
		"comments only":        "# one\n# two",
	}
	for name, in := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := hexfile.Parse(strings.NewReader(in), "x")
			require.Error(t, err)
		})
	}
}

func TestParseNoName(t *testing.T) {
	_, err := hexfile.Parse(strings.NewReader("c3"), "")
	require.Error(t, err)
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "answer.hex")
	require.NoError(t, os.WriteFile(path, []byte("b8 2a 00 00 00 c3\n"), 0o644))

	img, err := hexfile.ParseFile(path)
	require.NoError(t, err)
	require.Equal(t, "answer", img.Name, "default name comes from the file name")
	require.Len(t, img.Code, 6)

	_, err = hexfile.ParseFile(filepath.Join(t.TempDir(), "missing.hex"))
	require.Error(t, err)
}
