// Package datalink lets a directory tree point the CLI at a shared data
// directory, so everyone working from an office folder sees one roster.
package datalink

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const FileName = ".frontdesk-data"

// Find walks up from startDir looking for a link file and returns the data
// directory it names, resolved against the directory holding the file.
// Returns "" with no error when no link exists.
func Find(startDir string) (string, error) {
	dir := startDir
	for {
		target, err := Read(dir)
		if err != nil {
			return "", err
		}
		if target != "" {
			if !filepath.IsAbs(target) {
				target = filepath.Join(dir, target)
			}
			return filepath.Clean(target), nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

// Write links dir to dataDir. Relative targets are stored as given.
func Write(dir, dataDir string) error {
	if strings.TrimSpace(dataDir) == "" {
		return fmt.Errorf("data directory is required")
	}
	return os.WriteFile(filepath.Join(dir, FileName), []byte(dataDir+"\n"), 0644)
}

// Remove deletes the link in dir. A missing link is not an error.
func Remove(dir string) error {
	err := os.Remove(filepath.Join(dir, FileName))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// Read returns the trimmed target in dir, or "" when there is no link.
func Read(dir string) (string, error) {
	data, err := os.ReadFile(filepath.Join(dir, FileName))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}
