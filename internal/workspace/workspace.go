// Package workspace locates and initializes the .sib workspace directory
// that holds the issue collection, user registry, and config.
package workspace

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// DirName is the workspace directory created by `sib init`.
const DirName = ".sib"

// ConfigFileName is the viper-managed config file inside the workspace.
const ConfigFileName = "config.yaml"

// ErrNotFound is returned by Find when no workspace exists in the
// directory or any of its parents.
var ErrNotFound = errors.New("no .sib workspace found (run 'sib init')")

// ErrExists is returned by Init when the workspace already exists.
var ErrExists = errors.New("workspace already initialized")

// Find walks from startDir up to the filesystem root looking for a .sib
// directory and returns its path.
func Find(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", startDir, err)
	}
	for {
		candidate := filepath.Join(dir, DirName)
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrNotFound
		}
		dir = parent
	}
}

// Init creates the workspace directory in baseDir with a default config.
func Init(baseDir string) (string, error) {
	dir := filepath.Join(baseDir, DirName)
	if _, err := os.Stat(dir); err == nil {
		return "", fmt.Errorf("%s: %w", dir, ErrExists)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating %s: %w", dir, err)
	}

	defaultConfig := "# sib workspace configuration\n" +
		"default_priority: medium\n" +
		"board_limit: 0\n"
	if err := os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(defaultConfig), 0o644); err != nil {
		return "", fmt.Errorf("writing config: %w", err)
	}
	return dir, nil
}
