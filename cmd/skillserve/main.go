// Copyright 2025 The SkillServe Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main implements the skill extraction pipeline and CLI [DBG] application.

Note: This is a BETA release. APIs and functionality may rapidly change.

SkillServe extracts skill terms from document collections using dictionary
driven matching over Patricia tries. It runs as a batch pipeline over a CSV
of documents, or as a CLI application for testing dictionaries interactively.

The pipeline reads documents from a CSV file, cleans the text, matches skill
terms with longest match first and word boundary semantics, normalizes
variations to canonical names, then aggregates document frequencies into
analytics reports and extraction rules.

# Usage

Run the pipeline with default settings:

	skillserve

Use a custom input file and enable debug mode:

	skillserve -input /path/to/postings.csv -d

Run in CLI mode for interactive testing:

	skillserve -c

Validate dictionaries without processing documents:

	skillserve -dry-run

The data directory should contain plain text dictionaries named
skills_technical.txt, skills_soft.txt, etc. with one term per line, and an
optional variations.yaml mapping canonical skills to their surface forms.

# Configuration

Runtime configuration is managed through a TOML file covering input columns,
preprocessing, extraction dictionaries and report thresholds:

	[input]
	file = "data/postings.csv"
	text_column = "description"

	[extraction]
	technical_dict = "data/skills_technical.txt"
	variations_file = "data/variations.yaml"

	[rules]
	min_frequency_threshold = 2
	core_skill_threshold = 0.5

The config file is automatically created with defaults if it doesn't exist.

# Outputs

Batch mode writes three kinds of artifacts: a per-document results CSV, an
analytics report as indented JSON (global plus one per document group), and
extraction rules as JSON Lines. Rule objects carry frequency, percentage,
rank and a core skill flag:

	{"skill": "python", "pattern": "python", "category": "technical", "frequency": 42, "percentage": 84.0, "is_core_skill": true, "rank": 1}

# Dictionary cache

Loaded dictionaries and variations are snapshotted to a MessagePack file in
the config directory. When the snapshot is newer than every dictionary file
it is loaded directly, which skips re-parsing on startup. Use -no-cache to
always read the text files.

# CLI Mode

CLI mode provides an interactive interface for testing extraction. It reads
lines from stdin and displays the matched skills with their categories.

	inputHandler := cli.NewInputHandler(extractor, dict)
	err := inputHandler.Start()

This mode is primarily intended for checking dictionary and variation edits
before running a full batch.

# Command Line Flags

The following flags control application behavior:

	-config string
	    Path to a TOML config file
	-rebuild-config
	    Recreate the default config file and exit
	-input string
	    CSV input file (overrides the config)
	-d  Enable debug mode with detailed logging
	-q  Quiet mode, errors only
	-c  Run in CLI mode instead of batch mode
	-dry-run
	    Load dictionaries and report counts without processing documents
	-no-analytics
	    Skip writing analytics reports
	-no-rules
	    Skip writing rule files
	-no-cache
	    Ignore the dictionary snapshot cache
	-version
	    Show current version

The application automatically resolves data and config paths relative to the
executable location, supporting both development and production deployments.
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/bastiangx/skillserve/internal/cli"
	"github.com/bastiangx/skillserve/internal/input"
	"github.com/bastiangx/skillserve/internal/logger"
	"github.com/bastiangx/skillserve/internal/output"
	"github.com/bastiangx/skillserve/internal/utils"
	"github.com/bastiangx/skillserve/pkg/aggregate"
	"github.com/bastiangx/skillserve/pkg/analytics"
	"github.com/bastiangx/skillserve/pkg/config"
	"github.com/bastiangx/skillserve/pkg/dictionary"
	"github.com/bastiangx/skillserve/pkg/extract"
	"github.com/bastiangx/skillserve/pkg/preprocess"
	"github.com/bastiangx/skillserve/pkg/rules"
)

const (
	Version = "0.9.0-beta"
	AppName = "skillserve"
	gh      = "https://github.com/bastiangx/skillserve"
)

const snapshotFile = "dict_cache.msgpack"

// sigHandler is a simple handler for OS signals to exit normally.
func sigHandler() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		fmt.Fprintf(os.Stderr, "\nExiting...\n")
		os.Exit(0)
	}()
}

// main calls other packages to run the batch pipeline or CLI inputs.
// main() does not implement logic for them and only manages the flow.
func main() {
	sigHandler()

	showVersion := flag.Bool("version", false, "Show current version")
	configPath := flag.String("config", "", "Path to a TOML config file")
	rebuildConfig := flag.Bool("rebuild-config", false, "Recreate the default config file and exit")
	inputFile := flag.String("input", "", "CSV input file (overrides the config)")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	quietMode := flag.Bool("q", false, "Quiet mode, errors only")
	cliMode := flag.Bool("c", false, "Run CLI -- useful for testing and debugging")
	dryRun := flag.Bool("dry-run", false, "Load dictionaries and report counts without processing documents")
	noAnalytics := flag.Bool("no-analytics", false, "Skip writing analytics reports")
	noRules := flag.Bool("no-rules", false, "Skip writing rule files")
	noCache := flag.Bool("no-cache", false, "Ignore the dictionary snapshot cache")

	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	logger.SetVerbosity(*debugMode, *quietMode)

	pathResolver, err := utils.NewPathResolver()
	if err != nil {
		log.Fatalf("Failed to initialize path resolver: %v", err)
	}

	if *rebuildConfig {
		if err := config.RebuildConfigFile(); err != nil {
			log.Fatalf("Failed to rebuild config: %v", err)
		}
		return
	}

	cfg, activePath, err := config.LoadConfigWithPriority(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if activePath != "" {
		log.Debugf("Using config file: (%s)", config.GetActiveConfigPath(activePath))
	}
	if *inputFile != "" {
		cfg.Input.File = *inputFile
	}

	dict, vars, err := loadDictionaries(cfg, pathResolver, *noCache)
	if err != nil {
		log.Fatalf("Failed to load dictionaries: %v", err)
	}
	log.Debugf("Loaded %d skills across categories", dict.Len())
	if vars != nil {
		log.Debugf("Loaded %d variation surfaces", vars.Len())
	}

	stats := extract.NewStats()
	opts := extract.Options{
		CaseSensitive:    cfg.Extraction.CaseSensitive,
		RemoveDuplicates: cfg.Extraction.RemoveDuplicates,
		NormalizeSkills:  cfg.Extraction.NormalizeSkills,
	}
	extractor := extract.New(dict, vars, opts, stats)

	if *dryRun {
		showDryRunInfo(dict, vars, extractor)
		return
	}

	// CLI would be mainly used for testing and dbg purposes.
	// Any new dictionary or variation edits should be checked here first.
	if *cliMode {
		log.SetReportTimestamp(false)
		inputHandler := cli.NewInputHandler(extractor, dict)
		if err := inputHandler.Start(); err != nil {
			log.Fatalf("CLI error: %v", err)
		}
		return
	}

	if err := runBatch(cfg, extractor, dict, vars, stats, *noAnalytics, *noRules); err != nil {
		log.Fatalf("Pipeline failed: %v", err)
	}
}

// loadDictionaries builds the dictionary and variation table, going through
// the MessagePack snapshot cache when it is fresh.
func loadDictionaries(cfg *config.Config, pr *utils.PathResolver, noCache bool) (*dictionary.Dictionary, *dictionary.VariationTable, error) {
	sources := dictionarySources(cfg)

	cachePath := ""
	if p, err := pr.GetConfigPath(snapshotFile); err == nil {
		cachePath = p
	}

	if !noCache && cachePath != "" && snapshotFresh(cachePath, sources, cfg.Extraction.VariationsFile) {
		dict, vars, err := dictionary.ReadSnapshot(cachePath)
		if err == nil {
			log.Debugf("Loaded dictionary snapshot: %s", cachePath)
			return dict, vars, nil
		}
		log.Warnf("Ignoring unreadable dictionary snapshot %s: %v", cachePath, err)
	}

	dict := dictionary.New()
	for _, src := range sources {
		if src.path == "" {
			continue
		}
		src.path = resolveSourcePath(pr, src.path)
		if err := dict.LoadFile(src.path, src.category); err != nil {
			if src.required {
				return nil, nil, err
			}
			log.Warnf("Skipping %s dictionary: %v", src.category, err)
		}
	}
	if dict.Len() == 0 {
		return nil, nil, fmt.Errorf("no skills loaded from any dictionary")
	}

	var vars *dictionary.VariationTable
	if cfg.Extraction.NormalizeSkills {
		var err error
		vars, err = dictionary.LoadVariations(resolveSourcePath(pr, cfg.Extraction.VariationsFile))
		if err != nil {
			return nil, nil, err
		}
	}

	if !noCache && cachePath != "" {
		if err := dictionary.WriteSnapshot(cachePath, dict, vars); err != nil {
			log.Warnf("Could not write dictionary snapshot: %v", err)
		}
	}
	return dict, vars, nil
}

// resolveSourcePath maps a configured file path onto the filesystem, trying
// the path as given, then relative to the executable, then the data
// directory. Unresolvable paths come back unchanged so the loader reports
// them against the configured name.
func resolveSourcePath(pr *utils.PathResolver, path string) string {
	if path == "" || utils.FileExists(path) {
		return path
	}
	if resolved := pr.ResolveRelativePath(path); utils.FileExists(resolved) {
		return resolved
	}
	if dataDir, err := pr.GetDataDir(filepath.Dir(path)); err == nil {
		if found, err := pr.FindFileInPaths(filepath.Base(path), []string{dataDir}); err == nil {
			return found
		}
	}
	return path
}

type dictSource struct {
	path     string
	category string
	required bool
}

func dictionarySources(cfg *config.Config) []dictSource {
	return []dictSource{
		{cfg.Extraction.TechnicalDict, dictionary.CategoryTechnical, true},
		{cfg.Extraction.SoftDict, dictionary.CategorySoft, false},
		{cfg.Extraction.CustomDict, dictionary.CategoryCustom, false},
	}
}

// snapshotFresh reports whether the snapshot is newer than every source
// file feeding it.
func snapshotFresh(cachePath string, sources []dictSource, variationsPath string) bool {
	cacheInfo, err := os.Stat(cachePath)
	if err != nil {
		return false
	}
	paths := []string{variationsPath}
	for _, src := range sources {
		paths = append(paths, src.path)
	}
	for _, p := range paths {
		if p == "" {
			continue
		}
		info, err := os.Stat(p)
		if err != nil {
			continue
		}
		if info.ModTime().After(cacheInfo.ModTime()) {
			return false
		}
	}
	return true
}

// runBatch executes the full pipeline: read, clean, extract, aggregate, write.
func runBatch(cfg *config.Config, extractor *extract.Extractor, dict *dictionary.Dictionary, vars *dictionary.VariationTable, stats *extract.Stats, noAnalytics, noRules bool) error {
	start := time.Now()

	docs, readStats, err := input.ReadDocuments(cfg.Input.File, input.Columns{
		ID:   cfg.Input.IDColumn,
		Text: cfg.Input.TextColumn,
		Role: cfg.Input.RoleColumn,
	}, cfg.Input.Encoding)
	if err != nil {
		return err
	}
	if len(docs) == 0 {
		return fmt.Errorf("no usable documents in %s", cfg.Input.File)
	}
	log.Infof("Read %s documents from %s", utils.FormatWithCommas(len(docs)), cfg.Input.File)

	cleaner := newCleaner(cfg)
	for i := range docs {
		docs[i].Text = cleaner.Clean(docs[i].Text)
	}

	results := extractor.ExtractBatch(context.Background(), docs)
	snap := stats.Snapshot()
	log.Infof("Extracted %s skill mentions, %d unique skills",
		utils.FormatWithCommas(snap.TotalSkillsFound), snap.UniqueSkillCount)

	resultsPath := filepath.Join(cfg.Output.Directory, cfg.Output.ResultsFile)
	if err := output.WriteResults(resultsPath, results); err != nil {
		return err
	}

	mappings, err := aggregate.LoadGroupMappings(cfg.Analytics.GroupMappingsFile)
	if err != nil {
		return err
	}
	agg := aggregate.New(cfg.Analytics.TopN, mappings)
	global := agg.Aggregate(results, len(docs))
	groups := agg.GroupBy(results, nil)

	if !noAnalytics {
		report := analytics.Build(global)
		path := filepath.Join(cfg.Analytics.OutputDir, "analytics_report.json")
		if err := output.WriteAnalytics(path, report); err != nil {
			return err
		}
		for group, groupReport := range groups {
			groupAnalytics := analytics.Build(groupReport)
			path := output.GroupFilePath(cfg.Analytics.OutputDir, "analytics", group, ".json")
			if err := output.WriteAnalytics(path, groupAnalytics); err != nil {
				return err
			}
		}
	}

	if !noRules {
		builder := rules.NewBuilder(dict, vars, cfg.Rules.MinFrequencyThreshold, cfg.Rules.CoreSkillThreshold)
		path := filepath.Join(cfg.Rules.OutputDir, "rules.jsonl")
		if err := output.WriteRules(path, builder.BuildAll(global, "")); err != nil {
			return err
		}
		for group, groupReport := range groups {
			path := output.GroupFilePath(cfg.Rules.OutputDir, "rules", group, ".jsonl")
			if err := output.WriteRules(path, builder.BuildAll(groupReport, group)); err != nil {
				return err
			}
		}
	}

	showSummary(len(docs), readStats.RowsSkipped, snap, len(groups), time.Since(start))
	return nil
}

func newCleaner(cfg *config.Config) *preprocess.Cleaner {
	opts := preprocess.Options{
		Lowercase:           cfg.Preprocess.Lowercase,
		NormalizeWhitespace: cfg.Preprocess.NormalizeWhitespace,
		RemoveSpecialChars:  cfg.Preprocess.RemoveSpecialChars,
		PreserveHyphens:     cfg.Preprocess.PreserveHyphens,
		ExpandAbbreviations: cfg.Preprocess.ExpandAbbreviations,
	}
	var abbrevs map[string]string
	if opts.ExpandAbbreviations {
		abbrevs = preprocess.LoadAbbreviations(cfg.Preprocess.AbbreviationsFile)
	}
	return preprocess.NewCleaner(opts, abbrevs)
}

// showDryRunInfo displays dictionary counts without touching any documents.
func showDryRunInfo(dict *dictionary.Dictionary, vars *dictionary.VariationTable, extractor *extract.Extractor) {
	currentLevel := log.GetLevel()
	log.SetLevel(log.InfoLevel)

	println("============")
	println(" SkillServe ")
	println("============")
	log.Infof("Version: %s", Version)
	for _, category := range []string{dictionary.CategoryTechnical, dictionary.CategorySoft, dictionary.CategoryCustom} {
		if n := len(dict.ByCategory(category)); n > 0 {
			log.Infof("%s skills: %d", category, n)
		}
	}
	if vars != nil {
		log.Infof("variation surfaces: %d", vars.Len())
	}
	log.Infof("compiled patterns: %d", extractor.PatternCount())
	loadStats := dict.Stats()
	if loadStats.DuplicatesDropped > 0 {
		log.Infof("duplicates dropped: %d", loadStats.DuplicatesDropped)
	}
	println("============")

	log.SetLevel(currentLevel)
}

// showSummary displays basic pipeline counters once the run finishes.
func showSummary(docCount, skipped int, snap extract.StatsSnapshot, groupCount int, elapsed time.Duration) {
	currentLevel := log.GetLevel()
	log.SetLevel(log.InfoLevel)

	println("============")
	println(" SkillServe ")
	println("============")
	log.Infof("documents: %s", utils.FormatWithCommas(docCount))
	if skipped > 0 {
		log.Infof("rows skipped: %d", skipped)
	}
	log.Infof("skill mentions: %s", utils.FormatWithCommas(snap.TotalSkillsFound))
	log.Infof("unique skills: %d", snap.UniqueSkillCount)
	log.Infof("document groups: %d", groupCount)
	log.Infof("took: %v", elapsed.Round(time.Millisecond))
	log.Info("status: done")
	println("============")

	log.SetLevel(currentLevel)
}

func printVersion() {
	vlog := log.NewWithOptions(os.Stderr, log.Options{
		ReportCaller:    false,
		ReportTimestamp: false,
		Prefix:          "",
	})

	styles := log.DefaultStyles()

	styles.Values["version"] = lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	styles.Values["version"] = lipgloss.NewStyle().
		Background(lipgloss.AdaptiveColor{Light: "#f2e9e1", Dark: "#26233a"})

	styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})

	vlog.SetStyles(styles)

	vlog.Print("")
	vlog.Print("[ SkillServe ] Extracts skills from documents, really fast!")
	vlog.Print("", "version", Version)
	vlog.Print("")
	vlog.Print("use -h or --help to see available options")
	vlog.Print("Github Repo", "gh", gh)
}
