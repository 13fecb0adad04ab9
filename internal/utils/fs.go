package utils

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
)

// FileExists reports whether path names an existing file or directory.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// EnsureDir creates the directory and any missing parents.
func EnsureDir(dirPath string) error {
	return os.MkdirAll(dirPath, 0755)
}

// EnsureWritableDir creates dirPath if needed and probes that files can
// actually be written into it. Config locations are picked with this, a
// directory that exists but rejects writes is as useless as a missing one.
func EnsureWritableDir(dirPath string) bool {
	if err := os.MkdirAll(dirPath, 0755); err != nil {
		log.Warnf("Cannot create directory %s: %v", dirPath, err)
		return false
	}
	return testWriteAccess(dirPath)
}

// testWriteAccess writes and removes a scratch file in dirPath
func testWriteAccess(dirPath string) bool {
	scratch := filepath.Join(dirPath, ".write_test")
	if err := os.WriteFile(scratch, []byte("test"), 0644); err != nil {
		log.Warnf("Cannot write to directory %s: %v", dirPath, err)
		return false
	}
	os.Remove(scratch)
	return true
}

// SaveTOMLFile encodes data as TOML into filePath, truncating any
// existing file.
func SaveTOMLFile(data any, filePath string) error {
	file, err := os.Create(filePath)
	if err != nil {
		log.Errorf("Failed to create file: %v", err)
		return err
	}
	defer file.Close()
	return toml.NewEncoder(file).Encode(data)
}

// GetAbsolutePath makes a path absolute for display. Empty paths come out
// as "unknown" so log lines stay readable.
func GetAbsolutePath(configPath string) string {
	if configPath == "" {
		return "unknown"
	}
	if !filepath.IsAbs(configPath) {
		if absPath, err := filepath.Abs(configPath); err == nil {
			return absPath
		}
	}
	return configPath
}

// GetExecutableDir returns the directory of the current executable.
// Fallback location for configs when no user config dir is writable.
func GetExecutableDir() (string, error) {
	execPath, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(execPath), nil
}
