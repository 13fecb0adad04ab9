/*
Package extract turns document text into ordered lists of canonical skills.

An Extractor compiles one matcher from a dictionary plus variation table
snapshot and owns it; the matcher is immutable so Extract and ExtractBatch
may run concurrently against it. Running counters live in a caller-owned
Stats accumulator, never in package state.
*/
package extract

import (
	"context"
	"runtime"
	"strings"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/bastiangx/skillserve/internal/utils"
	"github.com/bastiangx/skillserve/pkg/dictionary"
	"github.com/bastiangx/skillserve/pkg/match"
)

// Options control extraction behavior, populated from the config layer.
type Options struct {
	CaseSensitive    bool
	RemoveDuplicates bool
	NormalizeSkills  bool
}

// DefaultOptions mirror the pipeline defaults.
func DefaultOptions() Options {
	return Options{RemoveDuplicates: true, NormalizeSkills: true}
}

// Document is one unit of input text. The caller owns it, extraction only reads.
type Document struct {
	ID   string
	Text string
	Role string
}

// Result is the per-document outcome: canonical skills in first-occurrence
// order (deduplicated unless Options said otherwise).
type Result struct {
	DocID  string
	Role   string
	Skills []string
}

// Extractor applies the compiled matcher to document text.
type Extractor struct {
	matcher *match.Matcher
	vars    *dictionary.VariationTable
	opts    Options
	stats   *Stats
}

// New compiles an extractor from the dictionary and variation snapshot.
// The matchable set is the union of canonical skills and every variation
// surface. stats may be nil when no running counters are wanted.
func New(dict *dictionary.Dictionary, vars *dictionary.VariationTable, opts Options, stats *Stats) *Extractor {
	surfaces := dict.All()
	if opts.NormalizeSkills {
		surfaces = append(surfaces, vars.Surfaces()...)
	}
	return &Extractor{
		matcher: match.New(surfaces, opts.CaseSensitive),
		vars:    vars,
		opts:    opts,
		stats:   stats,
	}
}

// Extract returns the skills found in one text. Empty or whitespace-only
// input yields nil, never an error. Any non-empty input counts as a
// processed extraction even when nothing is scannable in it.
func (e *Extractor) Extract(text string) []string {
	if text == "" {
		return nil
	}
	if strings.TrimSpace(text) == "" {
		e.stats.record(nil)
		return nil
	}

	raw := e.matcher.FindAll(text)
	if len(raw) == 0 {
		e.stats.record(nil)
		return nil
	}

	skills := make([]string, 0, len(raw))
	var seen *utils.SeenFilter
	if e.opts.RemoveDuplicates {
		seen = utils.NewSeenFilter()
	}
	for _, m := range raw {
		skill := strings.ToLower(m.Surface)
		if e.opts.NormalizeSkills {
			skill = e.vars.Resolve(skill)
		}
		if seen != nil && !seen.ShouldInclude(skill) {
			continue
		}
		skills = append(skills, skill)
	}

	e.stats.record(skills)
	return skills
}

// ExtractBatch runs Extract over every document with a bounded worker pool.
// results[i] always belongs to docs[i]; a malformed document yields an empty
// result and never aborts the batch.
func (e *Extractor) ExtractBatch(ctx context.Context, docs []Document) []Result {
	results := make([]Result, len(docs))

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, doc := range docs {
		i, doc := i, doc
		g.Go(func() error {
			results[i] = Result{
				DocID:  doc.ID,
				Role:   doc.Role,
				Skills: e.Extract(doc.Text),
			}
			return nil
		})
	}
	// workers never return errors, Wait only joins them
	_ = g.Wait()

	log.Debugf("Extracted skills from %d documents", len(docs))
	return results
}

// PatternCount reports how many surface forms the matcher compiled.
func (e *Extractor) PatternCount() int { return e.matcher.Len() }
