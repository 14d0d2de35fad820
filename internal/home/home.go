// Package home manages the lawlink home directory layout.
package home

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// DefaultDirName is the default name for the lawlink home directory.
	DefaultDirName = ".lawlink"

	// OCRDirName is the subdirectory for cached OCR sidecar files.
	OCRDirName = "ocr"

	// ConfigFileName is the default config file name.
	ConfigFileName = "config.yaml"
)

// Dir represents the lawlink home directory structure.
type Dir struct {
	path string
}

// New creates a new Dir with the given path.
// If path is empty, uses the default (~/.lawlink).
func New(path string) (*Dir, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get user home directory: %w", err)
		}
		path = filepath.Join(home, DefaultDirName)
	}

	return &Dir{path: path}, nil
}

// Path returns the root path of the home directory.
func (d *Dir) Path() string {
	return d.path
}

// ConfigPath returns the path to the default config file.
func (d *Dir) ConfigPath() string {
	return filepath.Join(d.path, ConfigFileName)
}

// ConfigExists returns true if the config file exists in the home directory.
func (d *Dir) ConfigExists() bool {
	_, err := os.Stat(d.ConfigPath())
	return err == nil
}

// OCRDir returns the directory holding cached OCR sidecars for a document.
func (d *Dir) OCRDir(docID string) string {
	return filepath.Join(d.path, OCRDirName, docID)
}

// OCRPagePath returns the path to one page's OCR sidecar.
// Page numbers are 1-indexed.
func (d *Dir) OCRPagePath(docID string, pageNum int) string {
	return filepath.Join(d.OCRDir(docID), fmt.Sprintf("page_%04d.txt", pageNum))
}

// EnsureOCRDir creates the OCR cache directory for a document.
func (d *Dir) EnsureOCRDir(docID string) error {
	return os.MkdirAll(d.OCRDir(docID), 0o755)
}

// EnsureExists creates the home directory if it doesn't exist.
func (d *Dir) EnsureExists() error {
	if err := os.MkdirAll(filepath.Join(d.path, OCRDirName), 0o755); err != nil {
		return fmt.Errorf("failed to create home directory: %w", err)
	}
	return nil
}

// Exists returns true if the home directory exists.
func (d *Dir) Exists() bool {
	_, err := os.Stat(d.path)
	return err == nil
}
