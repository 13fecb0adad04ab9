package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testResolver(t *testing.T) *PathResolver {
	t.Helper()
	pr, err := NewPathResolver()
	require.NoError(t, err)
	return pr
}

func TestGetDataDirAbsolutePath(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "skills_technical.txt"), []byte("python\n"), 0644))

	pr := testResolver(t)
	got, err := pr.GetDataDir(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, got)
}

func TestGetDataDirRejectsDirWithoutTermFiles(t *testing.T) {
	empty := t.TempDir()

	pr := testResolver(t)
	got, err := pr.GetDataDir(empty)
	require.NoError(t, err)
	// no candidate holds skills_*.txt, the likeliest path comes back for
	// error reporting
	assert.NotEqual(t, empty, got)
}

func TestResolveRelativePath(t *testing.T) {
	pr := testResolver(t)

	assert.Equal(t, "/abs/file.txt", pr.ResolveRelativePath("/abs/file.txt"))

	got := pr.ResolveRelativePath("data/skills_technical.txt")
	assert.True(t, filepath.IsAbs(got), got)
	assert.Equal(t, "skills_technical.txt", filepath.Base(got))
}

func TestFindFileInPaths(t *testing.T) {
	first := t.TempDir()
	second := t.TempDir()
	target := filepath.Join(second, "variations.yaml")
	require.NoError(t, os.WriteFile(target, []byte("{}\n"), 0644))

	pr := testResolver(t)

	got, err := pr.FindFileInPaths("variations.yaml", []string{first, second})
	require.NoError(t, err)
	assert.Equal(t, target, got)

	_, err = pr.FindFileInPaths("missing.yaml", []string{first, second})
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestGetConfigPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	pr := testResolver(t)
	got, err := pr.GetConfigPath("dict_cache.msgpack")
	require.NoError(t, err)
	assert.Equal(t, "dict_cache.msgpack", filepath.Base(got))
	assert.True(t, FileExists(filepath.Dir(got)))
}
