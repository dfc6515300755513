package utils

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/charmbracelet/log"
)

// AppName names the per-user config and data directories.
const AppName = "wordchain"

// PathResolver resolves the config, data and user word locations of the binary.
type PathResolver struct {
	executablePath string
	executableDir  string
	homeDir        string
	configDir      string
}

// NewPathResolver determines the executable location and config dir.
func NewPathResolver() (*PathResolver, error) {
	execPath, err := os.Executable()
	if err != nil {
		return nil, err
	}
	execPath, err = filepath.EvalSymlinks(execPath)
	if err != nil {
		return nil, err
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Warnf("Could not determine home directory: %v", err)
		homeDir = os.TempDir()
	}

	pr := &PathResolver{
		executablePath: execPath,
		executableDir:  filepath.Dir(execPath),
		homeDir:        homeDir,
		configDir:      getConfigDir(homeDir),
	}
	log.Debugf("PathResolver initialized: exec=%s, configDir=%s", pr.executablePath, pr.configDir)
	return pr, nil
}

// getConfigDir returns the appropriate config directory for the platform
func getConfigDir(homeDir string) string {
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(homeDir, ".config", AppName)
	case "linux":
		if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
			return filepath.Join(configHome, AppName)
		}
		return filepath.Join(homeDir, ".config", AppName)
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, AppName)
		}
		return filepath.Join(homeDir, "AppData", "Roaming", AppName)
	default:
		return filepath.Join(homeDir, "."+AppName)
	}
}

// GetDataDir resolves the directory holding <language>.txt word lists.
// Candidates in order: the user path if absolute, relative to the
// executable, relative to the working directory, then <config>/data.
// An empty string means no directory with word lists was found.
func (pr *PathResolver) GetDataDir(userSpecifiedPath string) string {
	for _, path := range pr.dataDirCandidates(userSpecifiedPath) {
		if isValidDataDir(path) {
			log.Debugf("Found word list directory: %s", path)
			return path
		}
		log.Debugf("Word list directory candidate not valid: %s", path)
	}
	return ""
}

func (pr *PathResolver) dataDirCandidates(userSpecifiedPath string) []string {
	var candidates []string
	if userSpecifiedPath != "" {
		if filepath.IsAbs(userSpecifiedPath) {
			return []string{userSpecifiedPath}
		}
		candidates = append(candidates, filepath.Join(pr.executableDir, userSpecifiedPath))
		if cwd, err := os.Getwd(); err == nil {
			candidates = append(candidates, filepath.Join(cwd, userSpecifiedPath))
		}
	}
	return append(candidates, filepath.Join(pr.configDir, "data"))
}

// isValidDataDir checks for at least one *.txt word list.
func isValidDataDir(path string) bool {
	if stat, err := os.Stat(path); err != nil || !stat.IsDir() {
		return false
	}
	matches, err := filepath.Glob(filepath.Join(path, "*.txt"))
	return err == nil && len(matches) > 0
}

// GetConfigPath returns the full path for a file in the config directory,
// falling back to ~/.wordchain, the temp dir and the executable dir when
// the config directory is not writable.
func (pr *PathResolver) GetConfigPath(filename string) string {
	if ensureWritableDir(pr.configDir) {
		return filepath.Join(pr.configDir, filename)
	}

	fallbackDirs := []string{
		filepath.Join(pr.homeDir, "."+AppName),
		filepath.Join(os.TempDir(), AppName),
		pr.executableDir,
	}
	for _, dir := range fallbackDirs {
		if ensureWritableDir(dir) {
			path := filepath.Join(dir, filename)
			log.Warnf("Using fallback config location: %s", path)
			return path
		}
	}

	tempPath := filepath.Join(os.TempDir(), filename)
	log.Warnf("Using temporary file: %s", tempPath)
	return tempPath
}

// ensureWritableDir creates dir if needed and tests writability
func ensureWritableDir(dir string) bool {
	if err := os.MkdirAll(dir, 0755); err != nil {
		log.Debugf("Cannot create directory %s: %v", dir, err)
		return false
	}
	testFile := filepath.Join(dir, ".write_test")
	if err := os.WriteFile(testFile, []byte("test"), 0644); err != nil {
		log.Debugf("Directory %s is not writable: %v", dir, err)
		return false
	}
	os.Remove(testFile)
	return true
}

// GetRuntimeInfo returns debug information about the runtime environment
func (pr *PathResolver) GetRuntimeInfo() map[string]string {
	cwd, _ := os.Getwd()

	info := map[string]string{
		"executable_path": pr.executablePath,
		"current_dir":     cwd,
		"config_dir":      pr.configDir,
		"os":              runtime.GOOS,
		"arch":            runtime.GOARCH,
	}
	for _, envVar := range []string{"HOME", "XDG_CONFIG_HOME", "APPDATA"} {
		if value := os.Getenv(envVar); value != "" {
			info["env_"+strings.ToLower(envVar)] = value
		}
	}
	return info
}
