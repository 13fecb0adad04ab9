package dictionary

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

// snapshotVersion guards against stale cache files after format changes.
const snapshotVersion = 1

// Snapshot is the on-disk cache of a fully loaded dictionary plus its
// variation table, so repeat runs can skip parsing the source files.
type Snapshot struct {
	Version    int                 `msgpack:"v"`
	Skills     map[string][]string `msgpack:"skills"` // category -> sorted terms
	Variations map[string][]string `msgpack:"variations,omitempty"`
}

// WriteSnapshot serializes the dictionary and variation table to path.
func WriteSnapshot(path string, d *Dictionary, t *VariationTable) error {
	snap := Snapshot{
		Version: snapshotVersion,
		Skills:  make(map[string][]string, len(categoryOrder)),
	}
	for _, c := range categoryOrder {
		if terms := d.ByCategory(c); len(terms) > 0 {
			snap.Skills[c] = terms
		}
	}
	if t != nil {
		snap.Variations = make(map[string][]string, len(t.variations))
		for canonical, list := range t.variations {
			snap.Variations[canonical] = append([]string(nil), list...)
		}
	}

	data, err := msgpack.Marshal(&snap)
	if err != nil {
		return fmt.Errorf("snapshot encode failed: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("snapshot write failed: %w", err)
	}
	log.Debugf("Wrote dictionary snapshot: %s (%d skills)", path, d.Len())
	return nil
}

// ReadSnapshot restores a dictionary and variation table from path.
func ReadSnapshot(path string) (*Dictionary, *VariationTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("snapshot read failed: %w", err)
	}

	var snap Snapshot
	if err := msgpack.Unmarshal(data, &snap); err != nil {
		return nil, nil, fmt.Errorf("snapshot decode failed: %w", err)
	}
	if snap.Version != snapshotVersion {
		return nil, nil, fmt.Errorf("snapshot version mismatch: got %d, want %d", snap.Version, snapshotVersion)
	}

	d := New()
	for category, terms := range snap.Skills {
		for _, term := range terms {
			d.Add(term, category)
		}
	}
	var t *VariationTable
	if len(snap.Variations) > 0 {
		t = NewVariationTable(snap.Variations)
	}

	log.Debugf("Read dictionary snapshot: %s (%d skills, %d variation sets)", path, d.Len(), t.Len())
	return d, t, nil
}
