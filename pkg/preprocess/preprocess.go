/*
Package preprocess cleans raw document text before extraction.

Cleaning keeps skill-relevant punctuation intact: with PreserveHyphens set
(the default), hyphens, periods, plus signs and '#' survive so terms like
c++, c#, .net and vue.js still match downstream.
*/
package preprocess

import (
	"os"
	"regexp"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"
)

var (
	htmlTagRe = regexp.MustCompile(`<[^>]+>`)
	urlRe     = regexp.MustCompile(`https?://\S+`)
	emailRe   = regexp.MustCompile(`\S+@\S+`)

	specialKeepRe  = regexp.MustCompile(`[^\w\s\-.+#]`)
	specialStripRe = regexp.MustCompile(`[^\w\s]`)
	whitespaceRe   = regexp.MustCompile(`\s+`)
)

// Options mirror the [preprocess] config section.
type Options struct {
	Lowercase           bool
	NormalizeWhitespace bool
	RemoveSpecialChars  bool
	PreserveHyphens     bool
	ExpandAbbreviations bool
}

// DefaultOptions match the pipeline defaults.
func DefaultOptions() Options {
	return Options{
		Lowercase:           true,
		NormalizeWhitespace: true,
		RemoveSpecialChars:  true,
		PreserveHyphens:     true,
	}
}

// Cleaner applies the cleaning pipeline to document text.
type Cleaner struct {
	opts          Options
	abbreviations map[string]string
	abbrevOrder   []string
	abbrevRes     map[string]*regexp.Regexp
}

// NewCleaner builds a cleaner; abbreviations may be nil.
func NewCleaner(opts Options, abbreviations map[string]string) *Cleaner {
	c := &Cleaner{opts: opts, abbreviations: abbreviations}
	if opts.ExpandAbbreviations && len(abbreviations) > 0 {
		c.compileAbbreviations()
	}
	return c
}

// LoadAbbreviations reads a YAML mapping abbrev -> expansion.
// A missing file only logs a warning and disables expansion.
func LoadAbbreviations(path string) map[string]string {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Warnf("Abbreviations file not found: %s, expansion disabled", path)
		return nil
	}
	out := make(map[string]string)
	if err := yaml.Unmarshal(data, &out); err != nil {
		log.Errorf("Failed to parse abbreviations file %s: %v", path, err)
		return nil
	}
	log.Debugf("Loaded %d abbreviation mappings from %s", len(out), path)
	return out
}

// Clean runs the full pipeline: strip markup and addresses, drop special
// characters, normalize case and whitespace, then expand abbreviations.
// Order matters; expansion runs last so it sees normalized text.
func (c *Cleaner) Clean(text string) string {
	if text == "" {
		return ""
	}

	text = htmlTagRe.ReplaceAllString(text, " ")
	text = urlRe.ReplaceAllString(text, " ")
	text = emailRe.ReplaceAllString(text, " ")

	if c.opts.RemoveSpecialChars {
		if c.opts.PreserveHyphens {
			text = specialKeepRe.ReplaceAllString(text, " ")
		} else {
			text = specialStripRe.ReplaceAllString(text, " ")
		}
	}

	if c.opts.Lowercase {
		text = strings.ToLower(text)
	}
	if c.opts.NormalizeWhitespace {
		text = strings.TrimSpace(whitespaceRe.ReplaceAllString(text, " "))
	}

	if c.opts.ExpandAbbreviations && len(c.abbrevOrder) > 0 {
		text = c.expand(text)
	}
	return text
}

// compileAbbreviations builds one word-boundary regex per abbreviation,
// longest first so overlapping abbreviations expand deterministically.
func (c *Cleaner) compileAbbreviations() {
	c.abbrevOrder = make([]string, 0, len(c.abbreviations))
	for abbrev := range c.abbreviations {
		c.abbrevOrder = append(c.abbrevOrder, abbrev)
	}
	sort.Slice(c.abbrevOrder, func(i, j int) bool {
		if len(c.abbrevOrder[i]) != len(c.abbrevOrder[j]) {
			return len(c.abbrevOrder[i]) > len(c.abbrevOrder[j])
		}
		return c.abbrevOrder[i] < c.abbrevOrder[j]
	})

	c.abbrevRes = make(map[string]*regexp.Regexp, len(c.abbrevOrder))
	for _, abbrev := range c.abbrevOrder {
		c.abbrevRes[abbrev] = regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(abbrev) + `\b`)
	}
}

func (c *Cleaner) expand(text string) string {
	for _, abbrev := range c.abbrevOrder {
		text = c.abbrevRes[abbrev].ReplaceAllString(text, c.abbreviations[abbrev])
	}
	return text
}
