package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/eh-steve/jitmem/config"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func setup(t *testing.T) {
	t.Helper()
	cfg = config.Default()
	logger = zaptest.NewLogger(t).Sugar()
}

func TestExpand(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.hex", "b.hex", filepath.Join("sub", "c.hex")} {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("c3\n"), 0o644))
	}

	paths, err := expand([]string{filepath.Join(dir, "*.hex")})
	require.NoError(t, err)
	require.Equal(t, []string{filepath.Join(dir, "a.hex"), filepath.Join(dir, "b.hex")}, paths)

	paths, err = expand([]string{filepath.Join(dir, "**", "*.hex")})
	require.NoError(t, err)
	require.Len(t, paths, 3)

	// Overlapping arguments dedupe, first mention wins the position.
	paths, err = expand([]string{filepath.Join(dir, "a.hex"), filepath.Join(dir, "*.hex")})
	require.NoError(t, err)
	require.Equal(t, []string{filepath.Join(dir, "a.hex"), filepath.Join(dir, "b.hex")}, paths)

	// An argument matching nothing passes through as a literal path.
	paths, err = expand([]string{"nope.hex"})
	require.NoError(t, err)
	require.Equal(t, []string{"nope.hex"}, paths)
}

func TestCheckImages(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.hex")
	require.NoError(t, os.WriteFile(good, []byte("@name fn\nc3\n"), 0o644))
	require.NoError(t, checkImages([]string{good}))

	bad := filepath.Join(dir, "bad.hex")
	require.NoError(t, os.WriteFile(bad, []byte("zz\n"), 0o644))
	clash := filepath.Join(dir, "clash.hex")
	require.NoError(t, os.WriteFile(clash, []byte("@name fn\n90\n"), 0o644))

	err := checkImages([]string{good, bad, clash})
	require.Error(t, err)
	require.Contains(t, err.Error(), "bad.hex")
	require.Contains(t, err.Error(), "already used")
}

func TestRunImages(t *testing.T) {
	setup(t)
	paths, err := expand([]string{filepath.Join("testdata", "*.hex")})
	require.NoError(t, err)
	require.Len(t, paths, 2)

	// Every image carries an @arch directive, so this executes at most the
	// one built for the host and just defines the other.
	require.NoError(t, runImages(paths))
}

func TestRunImagesFreeze(t *testing.T) {
	setup(t)
	freeze = true
	defer func() { freeze = false }()

	paths, err := expand([]string{filepath.Join("testdata", "*.hex")})
	require.NoError(t, err)
	require.NoError(t, runImages(paths))
}

func TestRunImagesDuplicate(t *testing.T) {
	setup(t)
	dir := t.TempDir()
	one := filepath.Join(dir, "one.hex")
	two := filepath.Join(dir, "two.hex")
	require.NoError(t, os.WriteFile(one, []byte("@name same\nc3\n"), 0o644))
	require.NoError(t, os.WriteFile(two, []byte("@name same\nc3\n"), 0o644))

	require.Error(t, runImages([]string{one, two}))
}

func TestDemo(t *testing.T) {
	setup(t)
	require.NoError(t, demo())
}
