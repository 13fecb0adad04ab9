package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bastiangx/skillserve/pkg/aggregate"
	"github.com/bastiangx/skillserve/pkg/extract"
)

func TestBuild(t *testing.T) {
	results := []extract.Result{
		{DocID: "a", Skills: []string{"python", "sql"}},
		{DocID: "b", Skills: []string{"python"}},
		{DocID: "c", Skills: []string{"go"}},
	}
	agg := aggregate.New(20, nil)
	report := Build(agg.Aggregate(results, 3))

	assert.Equal(t, 3, report.Summary.TotalDocuments)
	assert.Equal(t, 3, report.Summary.UniqueSkills)
	assert.Equal(t, 4, report.Summary.TotalExtractions)
	assert.InDelta(t, 1.33, report.Summary.AvgPerDocument, 1e-9)
	assert.Equal(t, 1, report.Summary.MinPerDocument)
	assert.Equal(t, 2, report.Summary.MaxPerDocument)

	require.Len(t, report.SkillRankings, 3)
	assert.Equal(t, "python", report.SkillRankings[0].Skill)

	assert.Equal(t, 2, report.AllSkillFrequencies["python"])
	// 2 of 3 documents, rounded to two decimals
	assert.InDelta(t, 66.67, report.AllSkillPercentages["python"], 1e-9)
	assert.InDelta(t, 33.33, report.AllSkillPercentages["sql"], 1e-9)
}

// TotalExtractions must sum every skill seen per document, not count how
// many documents were processed.
func TestBuildTotalExtractionsSumsSkillCounts(t *testing.T) {
	results := []extract.Result{
		{DocID: "a", Skills: []string{"python", "sql"}},
		{DocID: "b", Skills: []string{"docker"}},
	}
	agg := aggregate.New(20, nil)
	report := Build(agg.Aggregate(results, 2))

	assert.Equal(t, 2, report.Summary.TotalDocuments)
	assert.Equal(t, 3, report.Summary.TotalExtractions)
}

func TestBuildPerGroupTotals(t *testing.T) {
	results := []extract.Result{
		{DocID: "a", Role: "Data", Skills: []string{"python", "sql"}},
		{DocID: "b", Role: "Data", Skills: []string{"python"}},
		{DocID: "c", Role: "Backend", Skills: []string{"go"}},
	}
	agg := aggregate.New(20, nil)
	groups := agg.GroupBy(results, nil)
	require.Len(t, groups, 2)

	data := Build(groups["Data"])
	backend := Build(groups["Backend"])

	// Each group report carries its own sum, not a shared corpus total.
	assert.Equal(t, 3, data.Summary.TotalExtractions)
	assert.Equal(t, 1, backend.Summary.TotalExtractions)
}
