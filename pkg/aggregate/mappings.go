package aggregate

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"
)

// LoadGroupMappings reads a YAML file mapping canonical group names to
// alternate spellings:
//
//	Engineering:
//	  - software engineer
//	  - developer
//
// A missing file is not an error, grouping falls back to trimmed
// passthrough of whatever labels the documents carry.
func LoadGroupMappings(path string) (map[string][]string, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Warnf("group mappings file not found, labels pass through: %s", path)
			return nil, nil
		}
		return nil, fmt.Errorf("reading group mappings %s: %w", path, err)
	}
	var raw map[string][]string
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing group mappings %s: %w", path, err)
	}
	if len(raw) == 0 {
		log.Debugf("group mappings file is empty: %s", path)
		return nil, nil
	}
	return raw, nil
}
