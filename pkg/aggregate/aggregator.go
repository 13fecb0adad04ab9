/*
Package aggregate folds per-document extraction results into frequency
statistics, globally or partitioned by a group key such as role.

Counts are document frequencies: a skill counts once per document no matter
how often it was mentioned. Reports are recomputed fully on each call, and
partial FrequencyTables from parallel shards merge by summing.
*/
package aggregate

import (
	"math"
	"sort"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/bastiangx/skillserve/pkg/extract"
)

// UnknownGroup is the sentinel for documents whose group label is missing
// or empty after normalization.
const UnknownGroup = "Unknown"

// FrequencyTable maps skill -> number of documents containing it.
type FrequencyTable map[string]int

// Merge sums another shard's counts into the table.
func (ft FrequencyTable) Merge(other FrequencyTable) {
	for skill, count := range other {
		ft[skill] += count
	}
}

// DocumentFrequency counts, per skill, the documents whose extraction result
// contains it at least once. Results with retained duplicates still count a
// skill a single time per document.
func DocumentFrequency(results []extract.Result) FrequencyTable {
	ft := make(FrequencyTable)
	for _, r := range results {
		seen := make(map[string]struct{}, len(r.Skills))
		for _, skill := range r.Skills {
			if _, dup := seen[skill]; dup {
				continue
			}
			seen[skill] = struct{}{}
			ft[skill]++
		}
	}
	return ft
}

// RankedSkill is one entry of a top-N list. Percentage is rounded to 2dp.
type RankedSkill struct {
	Skill      string  `json:"skill"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// DocCountStats summarizes per-document skill counts within a group.
type DocCountStats struct {
	Avg    float64 `json:"avg"`
	Median float64 `json:"median"`
	Min    int     `json:"min"`
	Max    int     `json:"max"`
}

// Report holds the full aggregation outcome for one group. TotalMentions is
// the sum of per-document skill counts, so it includes retained duplicates.
type Report struct {
	TotalDocuments int
	UniqueSkills   int
	TotalMentions  int
	Frequencies    FrequencyTable
	Percentages    map[string]float64
	TopSkills      []RankedSkill
	PerDocument    DocCountStats
}

// Rank returns a skill's 1-based position in the top-N list, or 0.
func (r *Report) Rank(skill string) int {
	for i, entry := range r.TopSkills {
		if entry.Skill == skill {
			return i + 1
		}
	}
	return 0
}

// Aggregator computes reports with a configured top-N size and group label
// synonym mappings, inverted at construction into a spelling -> canonical
// lookup table.
type Aggregator struct {
	topN    int
	reverse map[string]string
}

// New creates an aggregator. topN values below 1 fall back to 20, matching
// the pipeline default. The synonym mapping (canonical label -> accepted raw
// spellings) is inverted once here; canonicals are visited in sorted order
// so a spelling listed under two groups always resolves to the same one.
func New(topN int, groupMappings map[string][]string) *Aggregator {
	if topN < 1 {
		topN = 20
	}

	canonicals := make([]string, 0, len(groupMappings))
	for c := range groupMappings {
		canonicals = append(canonicals, c)
	}
	sort.Strings(canonicals)

	reverse := make(map[string]string)
	for _, canonical := range canonicals {
		for _, s := range groupMappings[canonical] {
			lower := strings.ToLower(strings.TrimSpace(s))
			if lower == "" {
				continue
			}
			if _, dup := reverse[lower]; !dup {
				reverse[lower] = canonical
			}
		}
	}
	return &Aggregator{topN: topN, reverse: reverse}
}

// NormalizeGroup maps a raw group label through the synonym table.
// Empty labels become UnknownGroup; unmapped labels pass through trimmed.
func (a *Aggregator) NormalizeGroup(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return UnknownGroup
	}
	if canonical, ok := a.reverse[strings.ToLower(trimmed)]; ok {
		return canonical
	}
	return trimmed
}

// Aggregate computes a full report over one set of results.
// totalDocuments of zero never divides, every percentage is just 0.
func (a *Aggregator) Aggregate(results []extract.Result, totalDocuments int) *Report {
	frequencies := DocumentFrequency(results)

	percentages := make(map[string]float64, len(frequencies))
	for skill, count := range frequencies {
		if totalDocuments > 0 {
			percentages[skill] = 100 * float64(count) / float64(totalDocuments)
		} else {
			percentages[skill] = 0
		}
	}

	counts := make([]int, len(results))
	mentions := 0
	for i, r := range results {
		counts[i] = len(r.Skills)
		mentions += counts[i]
	}

	return &Report{
		TotalDocuments: totalDocuments,
		UniqueSkills:   len(frequencies),
		TotalMentions:  mentions,
		Frequencies:    frequencies,
		Percentages:    percentages,
		TopSkills:      a.topSkills(frequencies, percentages),
		PerDocument:    docCountStats(counts),
	}
}

// GroupBy partitions results by key and aggregates each partition
// independently. Groups share no state.
func (a *Aggregator) GroupBy(results []extract.Result, key func(extract.Result) string) map[string]*Report {
	if key == nil {
		key = func(r extract.Result) string { return a.NormalizeGroup(r.Role) }
	}

	partitions := make(map[string][]extract.Result)
	for _, r := range results {
		k := key(r)
		partitions[k] = append(partitions[k], r)
	}

	reports := make(map[string]*Report, len(partitions))
	for group, part := range partitions {
		reports[group] = a.Aggregate(part, len(part))
		log.Debugf("Aggregated %d documents for group: %s", len(part), group)
	}
	return reports
}

// topSkills ranks by count descending; ties break by skill name ascending
// so rankings are stable across runs.
func (a *Aggregator) topSkills(frequencies FrequencyTable, percentages map[string]float64) []RankedSkill {
	ranked := make([]RankedSkill, 0, len(frequencies))
	for skill, count := range frequencies {
		ranked = append(ranked, RankedSkill{
			Skill:      skill,
			Count:      count,
			Percentage: round2(percentages[skill]),
		})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].Skill < ranked[j].Skill
	})
	if len(ranked) > a.topN {
		ranked = ranked[:a.topN]
	}
	return ranked
}

func docCountStats(counts []int) DocCountStats {
	if len(counts) == 0 {
		return DocCountStats{}
	}
	sorted := append([]int(nil), counts...)
	sort.Ints(sorted)

	sum := 0
	for _, c := range sorted {
		sum += c
	}

	mid := len(sorted) / 2
	median := float64(sorted[mid])
	if len(sorted)%2 == 0 {
		median = float64(sorted[mid-1]+sorted[mid]) / 2
	}

	return DocCountStats{
		Avg:    round2(float64(sum) / float64(len(sorted))),
		Median: round2(median),
		Min:    sorted[0],
		Max:    sorted[len(sorted)-1],
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
