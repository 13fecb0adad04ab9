package dictionary

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadFile(t *testing.T) {
	content := `# technical skills
python
SQL

  docker
python
# duplicate above is dropped
`
	path := writeTempFile(t, "skills.txt", content)

	d := New()
	require.NoError(t, d.LoadFile(path, CategoryTechnical))

	assert.Equal(t, 3, d.Len())
	assert.True(t, d.Contains("python"))
	assert.True(t, d.Contains("sql"), "terms are lowercased on load")
	assert.True(t, d.Contains("docker"), "surrounding whitespace is trimmed")
	assert.False(t, d.Contains("# technical skills"))

	stats := d.Stats()
	assert.Equal(t, 1, stats.FilesLoaded)
	assert.Equal(t, 3, stats.TotalLoaded)
	assert.Equal(t, 1, stats.DuplicatesDropped)
}

func TestLoadFileMissing(t *testing.T) {
	d := New()
	err := d.LoadFile(filepath.Join(t.TempDir(), "nope.txt"), CategoryTechnical)
	require.Error(t, err)

	var loadErr *LoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Equal(t, CategoryTechnical, loadErr.Category)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestLoadFileEmpty(t *testing.T) {
	path := writeTempFile(t, "empty.txt", "# only a comment\n\n")
	d := New()
	require.NoError(t, d.LoadFile(path, CategorySoft))
	assert.Zero(t, d.Len())
}

func TestCategoryPriority(t *testing.T) {
	d := New()
	d.Add("python", CategoryTechnical)
	d.Add("python", CategoryCustom)
	d.Add("leadership", CategorySoft)
	d.Add("leadership", CategoryCustom)
	d.Add("niche tool", CategoryCustom)

	testCases := []struct {
		skill    string
		category string
		found    bool
	}{
		{"python", CategoryTechnical, true},
		{"Python", CategoryTechnical, true},
		{"leadership", CategorySoft, true},
		{"niche tool", CategoryCustom, true},
		{"cobol", "", false},
	}

	for _, tc := range testCases {
		got, ok := d.Category(tc.skill)
		assert.Equal(t, tc.found, ok, tc.skill)
		assert.Equal(t, tc.category, got, tc.skill)
	}
}

func TestAllAndByCategory(t *testing.T) {
	d := New()
	d.Add("sql", CategoryTechnical)
	d.Add("python", CategoryTechnical)
	d.Add("teamwork", CategorySoft)
	d.Add("  ", CategoryTechnical)

	assert.Equal(t, []string{"python", "sql", "teamwork"}, d.All())
	assert.Equal(t, []string{"python", "sql"}, d.ByCategory(CategoryTechnical))
	assert.Equal(t, []string{"teamwork"}, d.ByCategory(CategorySoft))
	assert.Empty(t, d.ByCategory(CategoryCustom))
}

func TestVariationTable(t *testing.T) {
	table := NewVariationTable(map[string][]string{
		"JavaScript": {"js", "ECMAScript", "javascript"},
		"python":     {"python3"},
		"":           {"ignored"},
	})

	assert.Equal(t, 2, table.Len())
	assert.Equal(t, "javascript", table.Resolve("JS"))
	assert.Equal(t, "javascript", table.Resolve("ecmascript"))
	assert.Equal(t, "python", table.Resolve("python3"))
	assert.Equal(t, "rust", table.Resolve("Rust"), "unmapped terms lowercase through")
	// a canonical name never resolves away from itself
	assert.Equal(t, "javascript", table.Resolve("javascript"))
}

func TestVariationsOf(t *testing.T) {
	table := NewVariationTable(map[string][]string{
		"javascript": {"js", "ecmascript"},
	})

	assert.Equal(t, []string{"js", "ecmascript"}, table.VariationsOf("javascript"))
	assert.Equal(t, []string{"javascript", "js", "ecmascript"}, table.VariationsOf("js"))
	assert.Equal(t, []string{"sql"}, table.VariationsOf("SQL"))
}

func TestVariationTableNilSafety(t *testing.T) {
	var table *VariationTable
	assert.Equal(t, "python", table.Resolve("Python"))
	assert.Equal(t, []string{"python"}, table.VariationsOf("Python"))
	assert.Nil(t, table.Surfaces())
	assert.Zero(t, table.Len())
}

func TestLoadVariations(t *testing.T) {
	content := `javascript:
  - js
  - ecmascript
python:
  - python3
`
	path := writeTempFile(t, "variations.yaml", content)

	table, err := LoadVariations(path)
	require.NoError(t, err)
	require.NotNil(t, table)
	assert.Equal(t, "javascript", table.Resolve("js"))
	assert.Equal(t, []string{"ecmascript", "js", "python3"}, table.Surfaces())
}

func TestLoadVariationsMissingFile(t *testing.T) {
	table, err := LoadVariations(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.NoError(t, err)
	assert.Nil(t, table)
}

func TestLoadVariationsMalformed(t *testing.T) {
	path := writeTempFile(t, "bad.yaml", "javascript: [unclosed\n")
	_, err := LoadVariations(path)
	require.Error(t, err)

	var varErr *VariationError
	assert.True(t, errors.As(err, &varErr))
}

func TestSnapshotRoundTrip(t *testing.T) {
	d := New()
	d.Add("python", CategoryTechnical)
	d.Add("sql", CategoryTechnical)
	d.Add("teamwork", CategorySoft)
	table := NewVariationTable(map[string][]string{
		"javascript": {"js"},
	})

	path := filepath.Join(t.TempDir(), "dict.msgpack")
	require.NoError(t, WriteSnapshot(path, d, table))

	gotDict, gotVars, err := ReadSnapshot(path)
	require.NoError(t, err)
	assert.Equal(t, d.All(), gotDict.All())
	assert.Equal(t, []string{"python", "sql"}, gotDict.ByCategory(CategoryTechnical))
	assert.Equal(t, []string{"teamwork"}, gotDict.ByCategory(CategorySoft))
	require.NotNil(t, gotVars)
	assert.Equal(t, "javascript", gotVars.Resolve("js"))
}

func TestSnapshotWithoutVariations(t *testing.T) {
	d := New()
	d.Add("python", CategoryTechnical)

	path := filepath.Join(t.TempDir(), "dict.msgpack")
	require.NoError(t, WriteSnapshot(path, d, nil))

	gotDict, gotVars, err := ReadSnapshot(path)
	require.NoError(t, err)
	assert.Equal(t, 1, gotDict.Len())
	assert.Nil(t, gotVars)
}

func TestSnapshotRejectsGarbage(t *testing.T) {
	path := writeTempFile(t, "garbage.msgpack", "not msgpack at all")
	_, _, err := ReadSnapshot(path)
	assert.Error(t, err)
}
