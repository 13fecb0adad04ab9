// Package output writes extraction results, analytics reports and rule
// files to disk.
package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/bastiangx/skillserve/internal/utils"
	"github.com/bastiangx/skillserve/pkg/analytics"
	"github.com/bastiangx/skillserve/pkg/extract"
	"github.com/bastiangx/skillserve/pkg/rules"
)

// WriteResults writes one CSV row per document with its extracted skills
// joined by "; ".
func WriteResults(path string, results []extract.Result) error {
	if err := ensureParent(path); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"doc_id", "role", "skills", "skill_count"}); err != nil {
		return fmt.Errorf("writing header to %s: %w", path, err)
	}
	for _, r := range results {
		row := []string{
			r.DocID,
			r.Role,
			strings.Join(r.Skills, "; "),
			strconv.Itoa(len(r.Skills)),
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("writing row for %s: %w", r.DocID, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flushing %s: %w", path, err)
	}
	log.Debugf("wrote %d result rows to %s", len(results), path)
	return nil
}

// WriteAnalytics writes an analytics report as indented JSON.
func WriteAnalytics(path string, report *analytics.Report) error {
	if err := ensureParent(path); err != nil {
		return err
	}
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding analytics report: %w", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	log.Debugf("wrote analytics report to %s", path)
	return nil
}

// WriteRules writes rules as JSON Lines, one rule object per line.
func WriteRules(path string, ruleset []rules.Rule) error {
	if err := ensureParent(path); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	for i := range ruleset {
		if err := enc.Encode(&ruleset[i]); err != nil {
			return fmt.Errorf("encoding rule %q: %w", ruleset[i].Skill, err)
		}
	}
	log.Debugf("wrote %d rules to %s", len(ruleset), path)
	return nil
}

// GroupFilePath builds a per-group output path inside dir, sanitizing the
// group name so it is safe as a file name.
func GroupFilePath(dir, prefix, group, ext string) string {
	name := fmt.Sprintf("%s_%s%s", prefix, utils.SanitizeFilename(group), ext)
	return filepath.Join(dir, name)
}

func ensureParent(path string) error {
	dir := filepath.Dir(path)
	if dir == "" || dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}
	return nil
}
