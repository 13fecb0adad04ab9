package utils

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/charmbracelet/log"
)

// PathResolver provides robust path resolution for the skillserve binary
type PathResolver struct {
	executablePath string
	executableDir  string
	homeDir        string
	configDir      string
}

// NewPathResolver creates a new path resolver that determines the executable location
func NewPathResolver() (*PathResolver, error) {
	execPath, err := os.Executable()
	if err != nil {
		return nil, err
	}

	// Resolve any symlinks to get the actual binary location
	execPath, err = filepath.EvalSymlinks(execPath)
	if err != nil {
		return nil, err
	}

	execDir := filepath.Dir(execPath)

	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Warnf("Could not determine home directory: %v", err)
		homeDir = "/tmp" // fallback
	}

	pr := &PathResolver{
		executablePath: execPath,
		executableDir:  execDir,
		homeDir:        homeDir,
		configDir:      getConfigDir(homeDir),
	}

	log.Debugf("PathResolver initialized: exec=%s, execDir=%s, configDir=%s",
		execPath, execDir, pr.configDir)

	return pr, nil
}

// getConfigDir returns the appropriate config directory for the platform
func getConfigDir(homeDir string) string {
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(homeDir, ".config", "skillserve")
	case "linux":
		if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
			return filepath.Join(configHome, "skillserve")
		}
		return filepath.Join(homeDir, ".config", "skillserve")
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "skillserve")
		}
		return filepath.Join(homeDir, "AppData", "Roaming", "skillserve")
	default:
		return filepath.Join(homeDir, ".skillserve")
	}
}

// GetDataDir resolves the data directory containing dictionary term files.
// It tries multiple locations in order of preference:
// 1. User-specified path (if absolute)
// 2. Relative to executable directory
// 3. Relative to current working directory (fallback)
func (pr *PathResolver) GetDataDir(userSpecifiedPath string) (string, error) {
	var candidatePaths []string

	if filepath.IsAbs(userSpecifiedPath) {
		candidatePaths = append(candidatePaths, userSpecifiedPath)
	}

	execRelativePath := filepath.Join(pr.executableDir, userSpecifiedPath)
	candidatePaths = append(candidatePaths, execRelativePath)

	if cwd, err := os.Getwd(); err == nil {
		candidatePaths = append(candidatePaths, filepath.Join(cwd, userSpecifiedPath))
	}

	commonPaths := []string{
		filepath.Join(pr.executableDir, "data"),
		filepath.Join(filepath.Dir(pr.executableDir), "data"), // parent/data
		filepath.Join(pr.configDir, "data"),                   // config/data
	}
	candidatePaths = append(candidatePaths, commonPaths...)

	for _, path := range candidatePaths {
		if pr.isValidDataDir(path) {
			log.Debugf("Found valid data directory: %s", path)
			return path, nil
		}
		log.Debugf("Data directory candidate not valid: %s", path)
	}

	// If nothing found, return the most likely path for error reporting
	return execRelativePath, nil
}

// isValidDataDir checks if a directory contains dictionary term files
func (pr *PathResolver) isValidDataDir(path string) bool {
	if stat, err := os.Stat(path); err != nil || !stat.IsDir() {
		return false
	}

	pattern := filepath.Join(path, "skills_*.txt")
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return false
	}

	return len(matches) > 0
}

// GetConfigPath returns the full path for a config file.
// It ensures the config directory exists and handles read-only filesystem issues
func (pr *PathResolver) GetConfigPath(filename string) (string, error) {
	configPath := filepath.Join(pr.configDir, filename)
	if EnsureWritableDir(pr.configDir) {
		return configPath, nil
	}

	// Fallback locations if config dir is not writable
	fallbackDirs := []string{
		filepath.Join(pr.homeDir, ".skillserve"),
		filepath.Join(os.TempDir(), "skillserve"),
		pr.executableDir,
	}

	for _, dir := range fallbackDirs {
		if EnsureWritableDir(dir) {
			path := filepath.Join(dir, filename)
			log.Warnf("Using fallback config location: %s", path)
			return path, nil
		}
	}

	tempPath := filepath.Join(os.TempDir(), filename)
	log.Warnf("Using temporary config file: %s", tempPath)
	return tempPath, nil
}

// ResolveRelativePath resolves a path relative to the executable directory
func (pr *PathResolver) ResolveRelativePath(relativePath string) string {
	if filepath.IsAbs(relativePath) {
		return relativePath
	}
	return filepath.Join(pr.executableDir, relativePath)
}

// FindFileInPaths searches for a file in multiple possible locations
func (pr *PathResolver) FindFileInPaths(filename string, searchPaths []string) (string, error) {
	for _, searchPath := range searchPaths {
		fullPath := filepath.Join(searchPath, filename)
		if _, err := os.Stat(fullPath); err == nil {
			return fullPath, nil
		}
	}

	return "", os.ErrNotExist
}
