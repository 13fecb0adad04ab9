package dictionary

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"
)

// VariationError reports a malformed variation file.
// Never fatal to a pipeline: extraction continues without normalization.
type VariationError struct {
	Path string
	Err  error
}

func (e *VariationError) Error() string {
	return fmt.Sprintf("dictionary: cannot load variations from %s: %v", e.Path, e.Err)
}

func (e *VariationError) Unwrap() error { return e.Err }

// VariationTable maps surface variations to canonical skill names.
// A nil table is usable and resolves every term to itself.
type VariationTable struct {
	variations map[string][]string // canonical -> configured variation list
	reverse    map[string]string   // lowercase variation -> canonical
}

// NewVariationTable builds a table from an in-memory canonical -> variations
// mapping. Keys and entries are lowercased the same way LoadVariations does.
func NewVariationTable(raw map[string][]string) *VariationTable {
	t := &VariationTable{
		variations: make(map[string][]string, len(raw)),
		reverse:    make(map[string]string),
	}
	for canonical, list := range raw {
		canonicalLower := strings.ToLower(strings.TrimSpace(canonical))
		if canonicalLower == "" {
			continue
		}
		kept := make([]string, 0, len(list))
		for _, v := range list {
			v = strings.TrimSpace(v)
			if v == "" {
				continue
			}
			kept = append(kept, v)
			if lower := strings.ToLower(v); lower != canonicalLower {
				t.reverse[lower] = canonicalLower
			}
		}
		t.variations[canonicalLower] = kept
	}
	return t
}

// LoadVariations reads a YAML mapping of canonical term -> variation list.
// A missing file is not an error; normalization is simply disabled.
func LoadVariations(path string) (*VariationTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Warnf("Variations file not found: %s, normalization disabled", path)
			return nil, nil
		}
		return nil, &VariationError{Path: path, Err: err}
	}

	raw := make(map[string][]string)
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, &VariationError{Path: path, Err: err}
	}

	// explicit entries never override the canonical string itself,
	// NewVariationTable skips self-mappings
	t := NewVariationTable(raw)
	log.Debugf("Loaded variations for %d skills from %s", len(t.variations), path)
	return t, nil
}

// Resolve maps a variation to its canonical skill,
// or returns the term lowercased unchanged.
func (t *VariationTable) Resolve(term string) string {
	lower := strings.ToLower(term)
	if t == nil {
		return lower
	}
	if canonical, ok := t.reverse[lower]; ok {
		return canonical
	}
	return lower
}

// VariationsOf returns the configured variation list for a canonical skill.
// If the argument is itself a variation, the canonical name is prepended.
// Skills with no configured variations map to themselves.
func (t *VariationTable) VariationsOf(skill string) []string {
	lower := strings.ToLower(skill)
	if t == nil {
		return []string{lower}
	}
	if list, ok := t.variations[lower]; ok {
		return append([]string(nil), list...)
	}
	if canonical, ok := t.reverse[lower]; ok {
		return append([]string{canonical}, t.variations[canonical]...)
	}
	return []string{lower}
}

// Surfaces returns every variation surface form, sorted, for matcher compilation.
func (t *VariationTable) Surfaces() []string {
	if t == nil {
		return nil
	}
	out := make([]string, 0, len(t.reverse))
	for v := range t.reverse {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// Len reports the number of canonical skills with configured variations.
func (t *VariationTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.variations)
}
