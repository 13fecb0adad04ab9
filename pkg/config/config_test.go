package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, "description", cfg.Input.TextColumn)
	assert.Equal(t, 20, cfg.Analytics.TopN)
	assert.Equal(t, 0.5, cfg.Rules.CoreSkillThreshold)
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
[input]
file = "jobs.csv"
text_column = "body"

[extraction]
case_sensitive = true
technical_dict = "tech.txt"

[analytics]
top_n = 5

[rules]
min_frequency_threshold = 3
core_skill_threshold = 0.25
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "jobs.csv", cfg.Input.File)
	assert.Equal(t, "body", cfg.Input.TextColumn)
	assert.True(t, cfg.Extraction.CaseSensitive)
	assert.Equal(t, "tech.txt", cfg.Extraction.TechnicalDict)
	assert.Equal(t, 5, cfg.Analytics.TopN)
	assert.Equal(t, 3, cfg.Rules.MinFrequencyThreshold)
	assert.Equal(t, 0.25, cfg.Rules.CoreSkillThreshold)

	// untouched sections keep their defaults
	assert.True(t, cfg.Preprocess.Lowercase)
	assert.Equal(t, "reports/analytics", cfg.Analytics.OutputDir)
}

func TestLoadConfigPartialRecovery(t *testing.T) {
	// top_n has the wrong type, the rest should still be recovered
	path := writeConfig(t, `
[input]
text_column = "body"

[analytics]
top_n = "five"
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "body", cfg.Input.TextColumn)
	assert.Equal(t, 20, cfg.Analytics.TopN, "broken section falls back to defaults")
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		mutate      func(*Config)
		wantErr     bool
		description string
	}{
		{func(c *Config) {}, false, "defaults pass"},
		{func(c *Config) { c.Analytics.TopN = 0 }, true, "top_n below 1"},
		{func(c *Config) { c.Rules.MinFrequencyThreshold = -1 }, true, "negative frequency threshold"},
		{func(c *Config) { c.Rules.CoreSkillThreshold = 1.5 }, true, "core threshold above 1"},
		{func(c *Config) { c.Rules.CoreSkillThreshold = -0.1 }, true, "core threshold below 0"},
		{func(c *Config) { c.Rules.CoreSkillThreshold = 1.0 }, false, "core threshold boundary"},
		{func(c *Config) { c.Extraction.TechnicalDict = "" }, true, "missing technical dictionary"},
		{func(c *Config) { c.Input.TextColumn = "" }, true, "missing text column"},
	}

	for _, tc := range testCases {
		cfg := DefaultConfig()
		tc.mutate(cfg)
		err := cfg.Validate()
		if tc.wantErr {
			assert.Error(t, err, tc.description)
		} else {
			assert.NoError(t, err, tc.description)
		}
	}
}

func TestInitConfigCreatesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fresh", "config.toml")

	cfg, err := InitConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.FileExists(t, path)

	// second init reads the file back
	again, err := InitConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, again)
}

func TestSaveAndReloadConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Input.File = "custom.csv"
	cfg.Analytics.TopN = 7

	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, SaveConfig(cfg, path))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadConfigWithPriorityFallsBack(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, _, err := LoadConfigWithPriority(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.NoError(t, cfg.Validate())
}
