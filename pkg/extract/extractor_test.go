package extract

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bastiangx/skillserve/pkg/dictionary"
)

func testDictionary() *dictionary.Dictionary {
	d := dictionary.New()
	for _, s := range []string{"python", "sql", "docker", "javascript", "machine learning", "go"} {
		d.Add(s, dictionary.CategoryTechnical)
	}
	d.Add("communication", dictionary.CategorySoft)
	return d
}

func testVariations() *dictionary.VariationTable {
	return dictionary.NewVariationTable(map[string][]string{
		"javascript": {"js", "JS", "ecmascript"},
		"python":     {"python3", "py"},
	})
}

func TestExtract(t *testing.T) {
	e := New(testDictionary(), testVariations(), DefaultOptions(), nil)

	testCases := []struct {
		input       string
		expected    []string
		description string
	}{
		{
			"We need Python and SQL experience. Docker is a plus. Python preferred.",
			[]string{"python", "sql", "docker"},
			"Dedupe keeps first occurrence order",
		},
		{
			"strong js skills and some ecmascript history",
			[]string{"javascript"},
			"Variations collapse onto one canonical skill",
		},
		{
			"python3 scripting",
			[]string{"python"},
			"Variation maps to canonical name",
		},
		{
			"machine learning with python",
			[]string{"machine learning", "python"},
			"Multiword skill survives",
		},
		{
			"communication and python",
			[]string{"communication", "python"},
			"Categories mix in one document",
		},
		{"", nil, "Empty text"},
		{"   \t\n ", nil, "Whitespace only text"},
		{"nothing relevant here", nil, "No matches"},
	}

	for _, tc := range testCases {
		got := e.Extract(tc.input)
		assert.Equal(t, tc.expected, got, tc.description)
	}
}

func TestExtractJobPosting(t *testing.T) {
	d := dictionary.New()
	for _, s := range []string{"python", "java", "sql", "docker"} {
		d.Add(s, dictionary.CategoryTechnical)
	}
	e := New(d, nil, DefaultOptions(), nil)

	got := e.Extract("Looking for Python developer with AWS and SQL experience. Must know Docker.")
	// aws is not in the dictionary, order follows first occurrence
	assert.Equal(t, []string{"python", "sql", "docker"}, got)
}

func TestExtractCaseVariantsAgree(t *testing.T) {
	e := New(testDictionary(), nil, DefaultOptions(), nil)

	for _, text := range []string{"PYTHON", "Python", "python"} {
		assert.Equal(t, []string{"python"}, e.Extract(text), text)
	}
}

func TestExtractIsRepeatable(t *testing.T) {
	e := New(testDictionary(), testVariations(), DefaultOptions(), nil)

	text := "Python, SQL and js. Also Python."
	first := e.Extract(text)
	second := e.Extract(text)
	assert.Equal(t, first, second)
}

func TestExtractKeepsDuplicatesWhenAsked(t *testing.T) {
	opts := DefaultOptions()
	opts.RemoveDuplicates = false
	e := New(testDictionary(), nil, opts, nil)

	got := e.Extract("python then sql then python")
	assert.Equal(t, []string{"python", "sql", "python"}, got)
}

func TestExtractWithoutNormalization(t *testing.T) {
	opts := DefaultOptions()
	opts.NormalizeSkills = false
	e := New(testDictionary(), testVariations(), opts, nil)

	// variation surfaces are not even compiled in this mode
	assert.Nil(t, e.Extract("js everywhere"))
	assert.Equal(t, []string{"javascript"}, e.Extract("javascript everywhere"))
}

func TestExtractBatch(t *testing.T) {
	stats := NewStats()
	e := New(testDictionary(), testVariations(), DefaultOptions(), stats)

	docs := []Document{
		{ID: "a", Text: "python and sql", Role: "Data Engineer"},
		{ID: "b", Text: "", Role: "Manager"},
		{ID: "c", Text: "docker docker docker", Role: ""},
		{ID: "d", Text: "js and machine learning", Role: "ML Engineer"},
	}

	results := e.ExtractBatch(context.Background(), docs)
	require.Len(t, results, len(docs))

	for i, doc := range docs {
		assert.Equal(t, doc.ID, results[i].DocID, "results must align with input order")
		assert.Equal(t, doc.Role, results[i].Role)
	}
	assert.Equal(t, []string{"python", "sql"}, results[0].Skills)
	assert.Nil(t, results[1].Skills)
	assert.Equal(t, []string{"docker"}, results[2].Skills)
	assert.Equal(t, []string{"javascript", "machine learning"}, results[3].Skills)
}

func TestExtractBatchLarge(t *testing.T) {
	e := New(testDictionary(), nil, DefaultOptions(), nil)

	docs := make([]Document, 200)
	for i := range docs {
		docs[i] = Document{ID: fmt.Sprintf("doc-%d", i), Text: "go and python"}
	}
	results := e.ExtractBatch(context.Background(), docs)
	require.Len(t, results, 200)
	for i, r := range results {
		require.Equal(t, fmt.Sprintf("doc-%d", i), r.DocID)
		require.Equal(t, []string{"go", "python"}, r.Skills)
	}
}

func TestStats(t *testing.T) {
	stats := NewStats()
	e := New(testDictionary(), testVariations(), DefaultOptions(), stats)

	e.Extract("python and sql")
	e.Extract("python again")
	e.Extract("no skills at all")

	snap := stats.Snapshot()
	assert.Equal(t, 3, snap.TotalExtractions)
	assert.Equal(t, 3, snap.TotalSkillsFound)
	assert.Equal(t, 2, snap.UniqueSkillCount)
	assert.Equal(t, []string{"python", "sql"}, snap.UniqueSkills)

	stats.Reset()
	snap = stats.Snapshot()
	assert.Zero(t, snap.TotalExtractions)
	assert.Zero(t, snap.TotalSkillsFound)
	assert.Zero(t, snap.UniqueSkillCount)
	assert.Empty(t, snap.UniqueSkills)
}

// Non-empty documents count as processed extractions even when only
// whitespace is in them; the truly empty string does not.
func TestStatsCountsWhitespaceOnlyDocuments(t *testing.T) {
	stats := NewStats()
	e := New(testDictionary(), nil, DefaultOptions(), stats)

	e.Extract("python and sql")
	e.Extract("   \t\n ")
	e.Extract("")

	snap := stats.Snapshot()
	assert.Equal(t, 2, snap.TotalExtractions)
	assert.Equal(t, 2, snap.TotalSkillsFound)
}

func TestPatternCount(t *testing.T) {
	e := New(testDictionary(), testVariations(), DefaultOptions(), nil)
	// 7 skills plus the variation surfaces (js, ecmascript, python3, py);
	// "JS" collapses into "js" during compilation
	assert.Equal(t, 11, e.PatternCount())
}
