package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/eh-steve/jitmem/config"
	"github.com/stretchr/testify/require"
)

func write(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), config.FileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := config.Default()
	require.Equal(t, 16, cfg.Run.Align)
	require.False(t, cfg.Run.Freeze)
	require.Equal(t, "info", cfg.Log.Level)
}

func TestLoad(t *testing.T) {
	cfg, err := config.Load(write(t, `
[run]
align = 32
freeze = true

[log]
level = "debug"
`))
	require.NoError(t, err)
	require.Equal(t, 32, cfg.Run.Align)
	require.True(t, cfg.Run.Freeze)
	require.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadPartial(t *testing.T) {
	cfg, err := config.Load(write(t, "[log]\nlevel = \"warn\"\n"))
	require.NoError(t, err)
	require.Equal(t, 16, cfg.Run.Align, "unset keys keep their defaults")
	require.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadRejects(t *testing.T) {
	tests := map[string]string{
		"unknown key":     "[run]\nalign = 16\nbogus = 1\n",
		"unknown table":   "[paging]\nsize = 4096\n",
		"align not power": "[run]\nalign = 3\n",
		"align zero":      "[run]\nalign = 0\n",
		"align too big":   "[run]\nalign = 4096\n",
		"bad level":       "[log]\nlevel = \"verbose\"\n",
		"not toml":        "run { align = 16 }\n",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := config.Load(write(t, content))
			require.Error(t, err)
		})
	}
}

func TestLoadMissing(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), config.FileName))
	require.Error(t, err)
}
