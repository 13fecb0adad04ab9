/*
Package dictionary manages skill term dictionaries and spelling variations.

Terms are stored lowercase and grouped by category (technical, soft, custom).
Category lookup follows that fixed priority order, so a term listed in more
than one file reports the first category that contains it.
*/
package dictionary

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
)

// Categories in lookup priority order.
const (
	CategoryTechnical = "technical"
	CategorySoft      = "soft"
	CategoryCustom    = "custom"
)

var categoryOrder = []string{CategoryTechnical, CategorySoft, CategoryCustom}

// LoadError reports a skill file that could not be read.
// Construction of that category fails; callers may skip it and continue.
type LoadError struct {
	Path     string
	Category string
	Err      error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("dictionary: cannot load %s skills from %s: %v", e.Category, e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Stats tracks what loading did, mirrored by the CLI summary output.
type Stats struct {
	FilesLoaded       int
	TotalLoaded       int
	DuplicatesDropped int
}

// Dictionary holds skill terms per category plus a combined lookup set.
type Dictionary struct {
	skills map[string]map[string]struct{}
	all    map[string]struct{}
	stats  Stats
}

// New returns an empty dictionary with all categories present.
func New() *Dictionary {
	skills := make(map[string]map[string]struct{}, len(categoryOrder))
	for _, c := range categoryOrder {
		skills[c] = make(map[string]struct{})
	}
	return &Dictionary{
		skills: skills,
		all:    make(map[string]struct{}),
	}
}

// LoadFile reads one term per line from path into the given category.
// Lines empty after trimming or starting with '#' are skipped. Terms are
// lowercased; case-insensitive duplicates are counted but stored once.
func (d *Dictionary) LoadFile(path, category string) error {
	file, err := os.Open(path)
	if err != nil {
		return &LoadError{Path: path, Category: category, Err: err}
	}
	defer file.Close()

	set, ok := d.skills[category]
	if !ok {
		set = make(map[string]struct{})
		d.skills[category] = set
	}

	added, dupes := 0, 0
	scanner := bufio.NewScanner(file)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		skill := strings.ToLower(line)
		if _, seen := set[skill]; seen {
			log.Debugf("Duplicate skill at %s:%d: %s", path, lineNum, line)
			dupes++
			continue
		}
		set[skill] = struct{}{}
		d.all[skill] = struct{}{}
		added++
	}
	if err := scanner.Err(); err != nil {
		return &LoadError{Path: path, Category: category, Err: err}
	}

	d.stats.FilesLoaded++
	d.stats.DuplicatesDropped += dupes
	d.stats.TotalLoaded = len(d.all)

	if added == 0 {
		log.Warnf("No skills loaded from %s, extraction will match nothing from this file", path)
	}
	log.Debugf("Loaded %d %s skills from %s (%d duplicates)", added, category, path, dupes)
	return nil
}

// Add inserts a single skill programmatically.
func (d *Dictionary) Add(skill, category string) {
	normalized := strings.ToLower(strings.TrimSpace(skill))
	if normalized == "" {
		return
	}
	set, ok := d.skills[category]
	if !ok {
		set = make(map[string]struct{})
		d.skills[category] = set
	}
	set[normalized] = struct{}{}
	d.all[normalized] = struct{}{}
	d.stats.TotalLoaded = len(d.all)
}

// Contains checks membership across all categories.
func (d *Dictionary) Contains(skill string) bool {
	_, ok := d.all[strings.ToLower(skill)]
	return ok
}

// Category returns the first category containing the skill,
// checked in technical, soft, custom order.
func (d *Dictionary) Category(skill string) (string, bool) {
	normalized := strings.ToLower(skill)
	for _, c := range categoryOrder {
		if _, ok := d.skills[c][normalized]; ok {
			return c, true
		}
	}
	return "", false
}

// All returns a sorted snapshot of every skill across categories.
func (d *Dictionary) All() []string {
	out := make([]string, 0, len(d.all))
	for s := range d.all {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// ByCategory returns a sorted snapshot of one category.
func (d *Dictionary) ByCategory(category string) []string {
	set := d.skills[category]
	out := make([]string, 0, len(set))
	for s := range set {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// Len reports the number of unique skills.
func (d *Dictionary) Len() int { return len(d.all) }

// Stats returns loading statistics.
func (d *Dictionary) Stats() Stats { return d.stats }
