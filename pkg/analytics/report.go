// Package analytics assembles the JSON-shaped reporting structures from an
// aggregation report. Writing the files is left to internal/output.
package analytics

import (
	"math"

	"github.com/bastiangx/skillserve/pkg/aggregate"
)

// Summary holds dataset-level totals.
type Summary struct {
	TotalDocuments    int     `json:"total_documents"`
	UniqueSkills      int     `json:"unique_skills"`
	TotalExtractions  int     `json:"total_extractions"`
	AvgPerDocument    float64 `json:"avg_per_document"`
	MedianPerDocument float64 `json:"median_per_document"`
	MinPerDocument    int     `json:"min_per_document"`
	MaxPerDocument    int     `json:"max_per_document"`
}

// Report is the exportable analytics document for one group or the whole
// corpus.
type Report struct {
	Summary             Summary                 `json:"summary"`
	SkillRankings       []aggregate.RankedSkill `json:"skill_rankings"`
	AllSkillFrequencies map[string]int          `json:"all_skill_frequencies"`
	AllSkillPercentages map[string]float64      `json:"all_skill_percentages"`
}

// Build derives a full analytics report from one aggregation report.
// total_extractions is the report's own sum of per-document skill counts,
// so per-group reports carry group totals, not the corpus total.
func Build(agg *aggregate.Report) *Report {
	percentages := make(map[string]float64, len(agg.Percentages))
	for skill, pct := range agg.Percentages {
		percentages[skill] = math.Round(pct*100) / 100
	}

	return &Report{
		Summary: Summary{
			TotalDocuments:    agg.TotalDocuments,
			UniqueSkills:      agg.UniqueSkills,
			TotalExtractions:  agg.TotalMentions,
			AvgPerDocument:    agg.PerDocument.Avg,
			MedianPerDocument: agg.PerDocument.Median,
			MinPerDocument:    agg.PerDocument.Min,
			MaxPerDocument:    agg.PerDocument.Max,
		},
		SkillRankings:       agg.TopSkills,
		AllSkillFrequencies: agg.Frequencies,
		AllSkillPercentages: percentages,
	}
}
