/*
Package config manages TOML config for the skillserve pipeline.
*/
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/bastiangx/skillserve/internal/utils"
)

// Config holds the entire config structure
type Config struct {
	Input      InputConfig      `toml:"input"`
	Preprocess PreprocessConfig `toml:"preprocess"`
	Extraction ExtractionConfig `toml:"extraction"`
	Analytics  AnalyticsConfig  `toml:"analytics"`
	Rules      RulesConfig      `toml:"rules"`
	Output     OutputConfig     `toml:"output"`
}

// InputConfig describes the tabular source of documents.
type InputConfig struct {
	File       string `toml:"file"`
	TextColumn string `toml:"text_column"`
	IDColumn   string `toml:"id_column"`
	RoleColumn string `toml:"role_column"`
	Encoding   string `toml:"encoding"`
}

// PreprocessConfig holds text cleaning options.
type PreprocessConfig struct {
	Lowercase           bool   `toml:"lowercase"`
	NormalizeWhitespace bool   `toml:"normalize_whitespace"`
	RemoveSpecialChars  bool   `toml:"remove_special_chars"`
	PreserveHyphens     bool   `toml:"preserve_hyphens"`
	ExpandAbbreviations bool   `toml:"expand_abbreviations"`
	AbbreviationsFile   string `toml:"abbreviations_file"`
}

// ExtractionConfig holds dictionary paths and matching options.
type ExtractionConfig struct {
	CaseSensitive    bool   `toml:"case_sensitive"`
	RemoveDuplicates bool   `toml:"remove_duplicates"`
	NormalizeSkills  bool   `toml:"normalize_skills"`
	TechnicalDict    string `toml:"technical_dict"`
	SoftDict         string `toml:"soft_dict"`
	CustomDict       string `toml:"custom_dict"`
	VariationsFile   string `toml:"variations_file"`
}

// AnalyticsConfig holds aggregation options.
type AnalyticsConfig struct {
	TopN              int    `toml:"top_n"`
	GroupMappingsFile string `toml:"group_mappings_file"`
	OutputDir         string `toml:"output_dir"`
}

// RulesConfig holds rule generation thresholds.
type RulesConfig struct {
	MinFrequencyThreshold int     `toml:"min_frequency_threshold"`
	CoreSkillThreshold    float64 `toml:"core_skill_threshold"`
	OutputDir             string  `toml:"output_dir"`
}

// OutputConfig holds the per-document results output location.
type OutputConfig struct {
	Directory   string `toml:"directory"`
	ResultsFile string `toml:"results_file"`
}

// GetConfigDir returns the config directory with fallback priority:
// 1. ~/.config/
// 2. ~/Library/Application Support/ (macOS)
// 3. Current executable dir
// 4. builtin defaults
func GetConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Errorf("Failed to get home directory: %v", err)
		execDir, execErr := utils.GetExecutableDir()
		if execErr != nil {
			return "", execErr
		}
		return execDir, nil
	}
	primaryPath := filepath.Join(homeDir, ".config", "skillserve")
	if utils.EnsureWritableDir(primaryPath) {
		return primaryPath, nil
	}
	// Not conventional, fallback from ~/.config if not writable
	macOSPath := filepath.Join(homeDir, "Library", "Application Support", "skillserve")
	if utils.EnsureWritableDir(macOSPath) {
		return macOSPath, nil
	}
	execDir, err := utils.GetExecutableDir()
	if err != nil {
		log.Errorf("Failed to get executable directory: %v", err)
		return "", err
	}
	return execDir, nil
}

// GetDefaultConfigPath returns the default path for config.toml
func GetDefaultConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.toml"), nil
}

// LoadConfigWithPriority loads config with priority:
// 1. Custom path from -config flag
// 2. Default path: [UserConfigDir]/skillserve/config.toml
// 3. Builtin defaults
func LoadConfigWithPriority(customConfigPath string) (*Config, string, error) {
	var config *Config
	var err error

	if customConfigPath != "" {
		if _, statErr := os.Stat(customConfigPath); statErr == nil {
			config, err = LoadConfig(customConfigPath)
			if err != nil {
				log.Warnf("Failed to load custom config from %s: %v. Trying default path...", customConfigPath, err)
			} else {
				log.Debugf("Loaded config from custom path: %s", customConfigPath)
				return config, customConfigPath, nil
			}
		} else {
			log.Warnf("Custom config file not found at %s: %v. Trying default path...", customConfigPath, statErr)
		}
	}
	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		log.Warnf("Failed to determine default config path: %v. Using built-in defaults...", err)
		return DefaultConfig(), "", nil
	}

	config, err = InitConfig(defaultPath)
	if err != nil {
		log.Warnf("Failed to load/create config at default path %s: %v. Using builtin defaults...", defaultPath, err)
		return DefaultConfig(), "", nil
	}
	log.Debugf("Loaded config from default path: %s", defaultPath)
	return config, defaultPath, nil
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Input: InputConfig{
			File:       "data/postings.csv",
			TextColumn: "description",
			IDColumn:   "job_id",
			RoleColumn: "role",
			Encoding:   "auto",
		},
		Preprocess: PreprocessConfig{
			Lowercase:           true,
			NormalizeWhitespace: true,
			RemoveSpecialChars:  true,
			PreserveHyphens:     true,
			ExpandAbbreviations: false,
		},
		Extraction: ExtractionConfig{
			CaseSensitive:    false,
			RemoveDuplicates: true,
			NormalizeSkills:  true,
			TechnicalDict:    "data/skills_technical.txt",
			SoftDict:         "data/skills_soft.txt",
			VariationsFile:   "data/variations.yaml",
		},
		Analytics: AnalyticsConfig{
			TopN:      20,
			OutputDir: "reports/analytics",
		},
		Rules: RulesConfig{
			MinFrequencyThreshold: 2,
			CoreSkillThreshold:    0.5,
			OutputDir:             "reports/rules",
		},
		Output: OutputConfig{
			Directory:   "reports",
			ResultsFile: "extraction_results.csv",
		},
	}
}

// Validate checks option ranges eagerly, right after load.
func (c *Config) Validate() error {
	if c.Analytics.TopN < 1 {
		return fmt.Errorf("analytics.top_n must be at least 1, got %d", c.Analytics.TopN)
	}
	if c.Rules.MinFrequencyThreshold < 0 {
		return fmt.Errorf("rules.min_frequency_threshold must not be negative, got %d", c.Rules.MinFrequencyThreshold)
	}
	if c.Rules.CoreSkillThreshold < 0 || c.Rules.CoreSkillThreshold > 1 {
		return fmt.Errorf("rules.core_skill_threshold must be in [0,1], got %g", c.Rules.CoreSkillThreshold)
	}
	if c.Extraction.TechnicalDict == "" {
		return fmt.Errorf("extraction.technical_dict must point to a skill file")
	}
	if c.Input.TextColumn == "" {
		return fmt.Errorf("input.text_column must be set")
	}
	return nil
}

// InitConfig loads config from file or creates default if missing
func InitConfig(configPath string) (*Config, error) {
	configDir := filepath.Dir(configPath)

	if err := utils.EnsureDir(configDir); err != nil {
		log.Warnf("Failed to create config directory %s: %v. Using built-in defaults...", configDir, err)
		return DefaultConfig(), nil
	}

	if !utils.FileExists(configPath) {
		config := DefaultConfig()
		if err := SaveConfig(config, configPath); err != nil {
			log.Warnf("Failed to create default config file at %s: %v. Using built-in defaults...", configPath, err)
			return DefaultConfig(), nil
		}
		log.Debugf("Created default config file at: %s", configPath)
		return config, nil
	}

	config, err := LoadConfig(configPath)
	if err != nil {
		log.Warnf("Failed to load config from %s: %v. Using built-in defaults...", configPath, err)
		return DefaultConfig(), nil
	}
	return config, nil
}

// LoadConfig loads from a TOML file
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	if err := utils.LoadTOMLFile(configPath, config); err != nil {
		return tryPartialParse(configPath)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// tryPartialParse attempts to keep whatever sections of a broken TOML file
// still parse, falling back to defaults for the rest.
func tryPartialParse(configPath string) (*Config, error) {
	config := DefaultConfig()

	tempConfig, err := utils.ParseTOMLWithRecovery(configPath)
	if err != nil {
		log.Warnf("Could not parse any valid configuration from %s: %v. Using all defaults.", configPath, err)
		return config, nil
	}

	if section, ok := utils.ExtractSection(tempConfig, "input"); ok {
		extractInputConfig(section, &config.Input)
	}
	if section, ok := utils.ExtractSection(tempConfig, "preprocess"); ok {
		extractPreprocessConfig(section, &config.Preprocess)
	}
	if section, ok := utils.ExtractSection(tempConfig, "extraction"); ok {
		extractExtractionConfig(section, &config.Extraction)
	}
	if section, ok := utils.ExtractSection(tempConfig, "analytics"); ok {
		extractAnalyticsConfig(section, &config.Analytics)
	}
	if section, ok := utils.ExtractSection(tempConfig, "rules"); ok {
		extractRulesConfig(section, &config.Rules)
	}
	if section, ok := utils.ExtractSection(tempConfig, "output"); ok {
		extractOutputConfig(section, &config.Output)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func extractInputConfig(data map[string]any, input *InputConfig) {
	if val, ok := utils.ExtractString(data, "file"); ok {
		input.File = val
	}
	if val, ok := utils.ExtractString(data, "text_column"); ok {
		input.TextColumn = val
	}
	if val, ok := utils.ExtractString(data, "id_column"); ok {
		input.IDColumn = val
	}
	if val, ok := utils.ExtractString(data, "role_column"); ok {
		input.RoleColumn = val
	}
	if val, ok := utils.ExtractString(data, "encoding"); ok {
		input.Encoding = val
	}
}

func extractPreprocessConfig(data map[string]any, pre *PreprocessConfig) {
	if val, ok := utils.ExtractBool(data, "lowercase"); ok {
		pre.Lowercase = val
	}
	if val, ok := utils.ExtractBool(data, "normalize_whitespace"); ok {
		pre.NormalizeWhitespace = val
	}
	if val, ok := utils.ExtractBool(data, "remove_special_chars"); ok {
		pre.RemoveSpecialChars = val
	}
	if val, ok := utils.ExtractBool(data, "preserve_hyphens"); ok {
		pre.PreserveHyphens = val
	}
	if val, ok := utils.ExtractBool(data, "expand_abbreviations"); ok {
		pre.ExpandAbbreviations = val
	}
	if val, ok := utils.ExtractString(data, "abbreviations_file"); ok {
		pre.AbbreviationsFile = val
	}
}

func extractExtractionConfig(data map[string]any, ext *ExtractionConfig) {
	if val, ok := utils.ExtractBool(data, "case_sensitive"); ok {
		ext.CaseSensitive = val
	}
	if val, ok := utils.ExtractBool(data, "remove_duplicates"); ok {
		ext.RemoveDuplicates = val
	}
	if val, ok := utils.ExtractBool(data, "normalize_skills"); ok {
		ext.NormalizeSkills = val
	}
	if val, ok := utils.ExtractString(data, "technical_dict"); ok {
		ext.TechnicalDict = val
	}
	if val, ok := utils.ExtractString(data, "soft_dict"); ok {
		ext.SoftDict = val
	}
	if val, ok := utils.ExtractString(data, "custom_dict"); ok {
		ext.CustomDict = val
	}
	if val, ok := utils.ExtractString(data, "variations_file"); ok {
		ext.VariationsFile = val
	}
}

func extractAnalyticsConfig(data map[string]any, analytics *AnalyticsConfig) {
	if val, ok := utils.ExtractInt64(data, "top_n"); ok {
		analytics.TopN = val
	}
	if val, ok := utils.ExtractString(data, "group_mappings_file"); ok {
		analytics.GroupMappingsFile = val
	}
	if val, ok := utils.ExtractString(data, "output_dir"); ok {
		analytics.OutputDir = val
	}
}

func extractRulesConfig(data map[string]any, rules *RulesConfig) {
	if val, ok := utils.ExtractInt64(data, "min_frequency_threshold"); ok {
		rules.MinFrequencyThreshold = val
	}
	if val, ok := utils.ExtractFloat64(data, "core_skill_threshold"); ok {
		rules.CoreSkillThreshold = val
	}
	if val, ok := utils.ExtractString(data, "output_dir"); ok {
		rules.OutputDir = val
	}
}

func extractOutputConfig(data map[string]any, output *OutputConfig) {
	if val, ok := utils.ExtractString(data, "directory"); ok {
		output.Directory = val
	}
	if val, ok := utils.ExtractString(data, "results_file"); ok {
		output.ResultsFile = val
	}
}

// RebuildConfigFile force creates a new config.toml at default
func RebuildConfigFile() error {
	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		return err
	}
	configDir := filepath.Dir(defaultPath)
	if err := utils.EnsureDir(configDir); err != nil {
		return err
	}
	config := DefaultConfig()
	return utils.SaveTOMLFile(config, defaultPath)
}

// GetActiveConfigPath returns the absolute path of loaded config file
func GetActiveConfigPath(configPath string) string {
	if configPath == "" {
		if defaultPath, err := GetDefaultConfigPath(); err == nil {
			return defaultPath
		}
		return "unknown"
	}
	return utils.GetAbsolutePath(configPath)
}

// SaveConfig saves into a TOML file
func SaveConfig(config *Config, configPath string) error {
	return utils.SaveTOMLFile(config, configPath)
}
