package config

import (
	"os"
	"path/filepath"
)

// Find walks up from dir looking for .bonsai/config.yaml and returns its
// path. It stops at the filesystem root or the home directory.
func Find(dir string) (string, bool) {
	if dir == "" {
		var err error
		dir, err = os.Getwd()
		if err != nil {
			return "", false
		}
	}
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", false
	}
	home, _ := os.UserHomeDir()

	for {
		candidate := filepath.Join(dir, DirName, FileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break // Reached filesystem root
		}
		// Don't go above home directory
		if home != "" && dir == home {
			break
		}
		dir = parent
	}
	return "", false
}

// ProjectDir returns the directory that owns a discovered config path.
func ProjectDir(configPath string) string {
	return filepath.Dir(filepath.Dir(configPath))
}

// StatePath resolves the tree-state file for a project dir.
func (c *Config) StatePath(projectDir string) string {
	dir := c.StateDir
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(projectDir, dir)
	}
	return filepath.Join(dir, "tree-state.json")
}
