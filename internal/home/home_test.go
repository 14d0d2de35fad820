package home

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNew(t *testing.T) {
	t.Run("with explicit path", func(t *testing.T) {
		dir, err := New("/tmp/test-lawlink")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if dir.Path() != "/tmp/test-lawlink" {
			t.Errorf("expected path /tmp/test-lawlink, got %s", dir.Path())
		}
	})

	t.Run("with empty path uses default", func(t *testing.T) {
		dir, err := New("")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		home, _ := os.UserHomeDir()
		expected := filepath.Join(home, DefaultDirName)
		if dir.Path() != expected {
			t.Errorf("expected path %s, got %s", expected, dir.Path())
		}
	})
}

func TestDir_Paths(t *testing.T) {
	dir, _ := New("/tmp/test-lawlink")

	t.Run("ConfigPath", func(t *testing.T) {
		expected := "/tmp/test-lawlink/config.yaml"
		if dir.ConfigPath() != expected {
			t.Errorf("expected %s, got %s", expected, dir.ConfigPath())
		}
	})

	t.Run("OCRDir", func(t *testing.T) {
		expected := "/tmp/test-lawlink/ocr/doc-1"
		if dir.OCRDir("doc-1") != expected {
			t.Errorf("expected %s, got %s", expected, dir.OCRDir("doc-1"))
		}
	})

	t.Run("OCRPagePath", func(t *testing.T) {
		expected := "/tmp/test-lawlink/ocr/doc-1/page_0042.txt"
		if dir.OCRPagePath("doc-1", 42) != expected {
			t.Errorf("expected %s, got %s", expected, dir.OCRPagePath("doc-1", 42))
		}
	})
}

func TestDir_EnsureExists(t *testing.T) {
	tmpDir := t.TempDir()
	lawlinkDir := filepath.Join(tmpDir, "lawlink-test")

	dir, err := New(lawlinkDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Directory shouldn't exist yet
	if dir.Exists() {
		t.Error("directory should not exist before EnsureExists")
	}

	// Create it
	if err := dir.EnsureExists(); err != nil {
		t.Fatalf("EnsureExists failed: %v", err)
	}

	// Now it should exist
	if !dir.Exists() {
		t.Error("directory should exist after EnsureExists")
	}

	// OCR cache directory should also exist
	if _, err := os.Stat(filepath.Join(dir.Path(), OCRDirName)); os.IsNotExist(err) {
		t.Error("ocr directory should exist after EnsureExists")
	}
}

func TestDir_ConfigExists(t *testing.T) {
	tmpDir := t.TempDir()
	dir, _ := New(tmpDir)

	// Config doesn't exist
	if dir.ConfigExists() {
		t.Error("config should not exist initially")
	}

	// Create a config file
	configPath := dir.ConfigPath()
	if err := os.WriteFile(configPath, []byte("test: true\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	// Now it should exist
	if !dir.ConfigExists() {
		t.Error("config should exist after creation")
	}
}

func TestDir_EnsureOCRDir(t *testing.T) {
	dir, _ := New(t.TempDir())

	if err := dir.EnsureOCRDir("doc-1"); err != nil {
		t.Fatalf("EnsureOCRDir failed: %v", err)
	}
	if _, err := os.Stat(dir.OCRDir("doc-1")); err != nil {
		t.Errorf("ocr dir not created: %v", err)
	}
}
