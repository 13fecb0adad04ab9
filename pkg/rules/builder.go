/*
Package rules turns aggregation reports into exportable extraction rules.

One rule per (skill, group) pair, carrying the skill's variations, category,
frequency statistics and core-skill flag. Serialization of the records is a
caller concern; this package only selects and orders them.
*/
package rules

import (
	"math"
	"sort"

	"github.com/charmbracelet/log"

	"github.com/bastiangx/skillserve/pkg/aggregate"
	"github.com/bastiangx/skillserve/pkg/dictionary"
)

// PatternType marks every rule as dictionary-derived.
const PatternType = "dictionary"

// Rule is one exportable record, shaped for JSONL output.
type Rule struct {
	Skill       string   `json:"skill"`
	Pattern     string   `json:"pattern"`
	Variations  []string `json:"variations"`
	Category    string   `json:"category"`
	PatternType string   `json:"pattern_type"`
	Frequency   int      `json:"frequency"`
	Percentage  float64  `json:"percentage"`
	IsCoreSkill bool     `json:"is_core_skill"`
	Rank        int      `json:"rank,omitempty"`
	Role        string   `json:"role,omitempty"`
}

// Builder produces rules from reports using dictionary metadata.
type Builder struct {
	dict          *dictionary.Dictionary
	vars          *dictionary.VariationTable
	minFrequency  int
	coreThreshold float64
}

// NewBuilder wires the metadata sources and thresholds.
// coreThreshold is a ratio in [0,1]; a skill present in at least that share
// of a group's documents is flagged core (boundary inclusive).
func NewBuilder(dict *dictionary.Dictionary, vars *dictionary.VariationTable, minFrequency int, coreThreshold float64) *Builder {
	return &Builder{
		dict:          dict,
		vars:          vars,
		minFrequency:  minFrequency,
		coreThreshold: coreThreshold,
	}
}

// Build creates a single rule. rank 0 means not ranked, role "" means global.
// Frequency filtering happens in BuildAll, before this call.
func (b *Builder) Build(skill string, frequency, totalDocuments, rank int, role string) Rule {
	percentage := 0.0
	if totalDocuments > 0 {
		percentage = 100 * float64(frequency) / float64(totalDocuments)
	}

	category, ok := b.dict.Category(skill)
	if !ok {
		category = "unknown"
	}

	return Rule{
		Skill:       skill,
		Pattern:     skill,
		Variations:  b.vars.VariationsOf(skill),
		Category:    category,
		PatternType: PatternType,
		Frequency:   frequency,
		Percentage:  math.Round(percentage*100) / 100,
		IsCoreSkill: percentage >= b.coreThreshold*100,
		Rank:        rank,
		Role:        role,
	}
}

// BuildAll generates rules for every skill in the report at or above the
// minimum frequency. Skills below it are excluded entirely, not flagged.
// Output is ordered by frequency descending, ties by skill ascending.
func (b *Builder) BuildAll(report *aggregate.Report, role string) []Rule {
	skills := make([]string, 0, len(report.Frequencies))
	for skill, count := range report.Frequencies {
		if count < b.minFrequency {
			continue
		}
		skills = append(skills, skill)
	}
	sort.Slice(skills, func(i, j int) bool {
		ci, cj := report.Frequencies[skills[i]], report.Frequencies[skills[j]]
		if ci != cj {
			return ci > cj
		}
		return skills[i] < skills[j]
	})

	out := make([]Rule, 0, len(skills))
	for _, skill := range skills {
		out = append(out, b.Build(skill, report.Frequencies[skill], report.TotalDocuments, report.Rank(skill), role))
	}

	log.Debugf("Built %d rules (%d below frequency threshold %d)",
		len(out), len(report.Frequencies)-len(out), b.minFrequency)
	return out
}
