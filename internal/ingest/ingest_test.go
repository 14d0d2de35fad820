package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Gurmittoor/hyperlinklaw/internal/docstore"
)

func TestSortPDFsByNumber(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		expected []string
	}{
		{
			name:     "already sorted",
			input:    []string{"record-1.pdf", "record-2.pdf", "record-3.pdf"},
			expected: []string{"record-1.pdf", "record-2.pdf", "record-3.pdf"},
		},
		{
			name:     "reverse order",
			input:    []string{"record-3.pdf", "record-2.pdf", "record-1.pdf"},
			expected: []string{"record-1.pdf", "record-2.pdf", "record-3.pdf"},
		},
		{
			name:     "mixed with double digits",
			input:    []string{"record-10.pdf", "record-2.pdf", "record-1.pdf"},
			expected: []string{"record-1.pdf", "record-2.pdf", "record-10.pdf"},
		},
		{
			name:     "single file without number",
			input:    []string{"record.pdf"},
			expected: []string{"record.pdf"},
		},
		{
			name:     "numbered and unnumbered",
			input:    []string{"record-2.pdf", "record.pdf", "record-1.pdf"},
			expected: []string{"record.pdf", "record-1.pdf", "record-2.pdf"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := sortPDFsByNumber(tt.input)
			if len(result) != len(tt.expected) {
				t.Fatalf("length mismatch: got %d, want %d", len(result), len(tt.expected))
			}
			for i := range result {
				if result[i] != tt.expected[i] {
					t.Errorf("index %d: got %q, want %q", i, result[i], tt.expected[i])
				}
			}
		})
	}
}

func TestDeriveTitle(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"motion-record.pdf", "motion-record"},
		{"motion-record-1.pdf", "motion-record"},
		{"/some/path/trial-record-12.pdf", "trial-record"},
		{"record.pdf", "record"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := deriveTitle(tt.input); got != tt.expected {
				t.Errorf("deriveTitle(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func writeSidecars(t *testing.T, dir string, pages map[int]string) {
	t.Helper()
	for n, text := range pages {
		path := filepath.Join(dir, fmt.Sprintf("page_%04d.txt", n))
		if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
			t.Fatalf("write sidecar %d: %v", n, err)
		}
	}
}

func TestPagesFromOCRDir(t *testing.T) {
	t.Run("reads pages in order", func(t *testing.T) {
		dir := t.TempDir()
		writeSidecars(t, dir, map[int]string{
			1: "INDEX\nTAB 1 Affidavit",
			2: "second page text",
			3: "third page text",
		})

		pages, err := PagesFromOCRDir(dir, 3)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(pages) != 3 {
			t.Fatalf("pages = %d, want 3", len(pages))
		}
		for i, p := range pages {
			if p.PageNumber != i+1 {
				t.Errorf("position %d holds page %d", i, p.PageNumber)
			}
			if p.Hash == "" {
				t.Errorf("page %d: missing hash", p.PageNumber)
			}
		}
		if pages[0].RawText != "INDEX\nTAB 1 Affidavit" {
			t.Errorf("page 1 text = %q", pages[0].RawText)
		}
	})

	t.Run("tolerant of naming variants", func(t *testing.T) {
		dir := t.TempDir()
		for name, text := range map[string]string{
			"1.txt":      "one",
			"page-2.txt": "two",
			"notes.md":   "ignored",
		} {
			if err := os.WriteFile(filepath.Join(dir, name), []byte(text), 0o644); err != nil {
				t.Fatal(err)
			}
		}

		pages, err := PagesFromOCRDir(dir, 2)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(pages) != 2 {
			t.Fatalf("pages = %d, want 2", len(pages))
		}
	})

	t.Run("count mismatch is an error", func(t *testing.T) {
		dir := t.TempDir()
		writeSidecars(t, dir, map[int]string{1: "one", 3: "three"})

		_, err := PagesFromOCRDir(dir, 3)
		if err == nil {
			t.Fatal("expected an error for missing page 2")
		}
		if !strings.Contains(err.Error(), "missing") {
			t.Errorf("error should name the missing pages: %v", err)
		}
	})

	t.Run("empty directory is an error", func(t *testing.T) {
		if _, err := PagesFromOCRDir(t.TempDir(), 0); err == nil {
			t.Fatal("expected an error for an empty OCR directory")
		}
	})

	t.Run("no expectation accepts any coverage", func(t *testing.T) {
		dir := t.TempDir()
		writeSidecars(t, dir, map[int]string{5: "five"})

		pages, err := PagesFromOCRDir(dir, 0)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(pages) != 1 || pages[0].PageNumber != 5 {
			t.Errorf("pages = %+v", pages)
		}
	})
}

func TestIngest_InputValidation(t *testing.T) {
	store := docstore.NewStore(nil)
	ctx := context.Background()

	t.Run("no pdfs", func(t *testing.T) {
		if _, err := Ingest(ctx, store, Request{OCRDir: t.TempDir()}); err == nil {
			t.Error("expected an error for missing PDF paths")
		}
	})

	t.Run("no ocr dir", func(t *testing.T) {
		if _, err := Ingest(ctx, store, Request{PDFPaths: []string{"record.pdf"}}); err == nil {
			t.Error("expected an error for missing OCR dir")
		}
	})

	t.Run("missing pdf file", func(t *testing.T) {
		req := Request{
			PDFPaths: []string{filepath.Join(t.TempDir(), "absent.pdf")},
			OCRDir:   t.TempDir(),
		}
		if _, err := Ingest(ctx, store, req); err == nil {
			t.Error("expected an error for a missing PDF")
		}
	})
}
