package extract

import (
	"sort"
	"sync"
)

// Stats accumulates running extraction counters. It is owned by the caller
// and passed into an Extractor; nothing here is process-global. Safe for the
// concurrent batch path, writes are mutex-serialized.
type Stats struct {
	mu          sync.Mutex
	extractions int
	skillsFound int
	unique      map[string]struct{}
}

// NewStats returns a zeroed accumulator.
func NewStats() *Stats {
	return &Stats{unique: make(map[string]struct{})}
}

// StatsSnapshot is a point-in-time copy of the counters.
type StatsSnapshot struct {
	TotalExtractions int
	TotalSkillsFound int
	UniqueSkillCount int
	UniqueSkills     []string
}

func (s *Stats) record(skills []string) {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.extractions++
	s.skillsFound += len(skills)
	for _, skill := range skills {
		s.unique[skill] = struct{}{}
	}
}

// Reset zeroes all counters. Call between independent reporting runs so
// nothing leaks from one to the next.
func (s *Stats) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.extractions = 0
	s.skillsFound = 0
	s.unique = make(map[string]struct{})
}

// Snapshot returns current totals with the distinct skill list sorted.
func (s *Stats) Snapshot() StatsSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	unique := make([]string, 0, len(s.unique))
	for skill := range s.unique {
		unique = append(unique, skill)
	}
	sort.Strings(unique)
	return StatsSnapshot{
		TotalExtractions: s.extractions,
		TotalSkillsFound: s.skillsFound,
		UniqueSkillCount: len(unique),
		UniqueSkills:     unique,
	}
}
