package pdf

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/a3tai/dr-antrag/internal/pdf/pdftest"
)

func TestValidator_ValidateFile(t *testing.T) {
	dir := t.TempDir()
	template := pdftest.WriteTemplate(t, dir)

	garbage := filepath.Join(dir, "garbage.pdf")
	if err := os.WriteFile(garbage, []byte("%PDF-1.4 nonsense"), 0o600); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	tests := []struct {
		name      string
		validator *Validator
		path      string
		wantPages int
		wantErr   string
	}{
		{
			name:      "valid template",
			validator: NewValidator(1024*1024, 2),
			path:      template,
			wantPages: 2,
		},
		{
			name:      "empty path",
			validator: NewValidator(1024*1024, 2),
			path:      "",
			wantErr:   "path cannot be empty",
		},
		{
			name:      "non-existent file",
			validator: NewValidator(1024*1024, 2),
			path:      "/non/existent/file.pdf",
			wantErr:   "file does not exist",
		},
		{
			name:      "too few pages",
			validator: NewValidator(1024*1024, 3),
			path:      template,
			wantPages: 2,
			wantErr:   "need at least 3",
		},
		{
			name:      "too large",
			validator: NewValidator(16, 2),
			path:      template,
			wantErr:   "file too large",
		},
		{
			name:      "not parseable",
			validator: NewValidator(1024*1024, 2),
			path:      garbage,
			wantErr:   "invalid PDF file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pages, err := tt.validator.ValidateFile(tt.path)

			if tt.wantErr == "" && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.wantErr != "" {
				if err == nil {
					t.Fatalf("expected error containing %q but got none", tt.wantErr)
				}
				if !strings.Contains(err.Error(), tt.wantErr) {
					t.Errorf("expected error containing %q but got %v", tt.wantErr, err)
				}
			}
			if pages != tt.wantPages {
				t.Errorf("expected %d pages but got %d", tt.wantPages, pages)
			}
		})
	}
}

func TestValidator_ValidateFileInfo(t *testing.T) {
	validator := NewValidator(1024, 1)
	tempDir := t.TempDir()

	validPDFPath := filepath.Join(tempDir, "valid.pdf")
	upperPDFPath := filepath.Join(tempDir, "VALID.PDF")
	largePDFPath := filepath.Join(tempDir, "large.pdf")
	emptyPDFPath := filepath.Join(tempDir, "empty.pdf")
	nonPDFPath := filepath.Join(tempDir, "document.txt")

	files := map[string][]byte{
		validPDFPath: []byte("%PDF-1.4\n"),
		upperPDFPath: []byte("%PDF-1.4\n"),
		largePDFPath: make([]byte, 2048),
		emptyPDFPath: {},
		nonPDFPath:   []byte("text"),
	}
	for path, content := range files {
		if err := os.WriteFile(path, content, 0o600); err != nil {
			t.Fatalf("failed to create %s: %v", path, err)
		}
	}

	tests := []struct {
		name        string
		path        string
		expectError bool
	}{
		{"valid pdf", validPDFPath, false},
		{"upper case extension", upperPDFPath, false},
		{"too large", largePDFPath, true},
		{"empty", emptyPDFPath, true},
		{"wrong extension", nonPDFPath, true},
		{"directory", tempDir, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, err := os.Stat(tt.path)
			if err != nil {
				t.Fatalf("failed to stat %s: %v", tt.path, err)
			}

			err = validator.ValidateFileInfo(tt.path, info)
			if tt.expectError && err == nil {
				t.Errorf("expected error but got none")
			}
			if !tt.expectError && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestValidator_CheckTemplate(t *testing.T) {
	validator := NewValidator(0, 2)
	template := pdftest.WriteTemplate(t, t.TempDir())

	status := validator.CheckTemplate(template)
	if !status.Exists || !status.Readable {
		t.Errorf("expected template to exist and be readable, got %+v", status)
	}
	if status.Pages != 2 {
		t.Errorf("expected 2 pages, got %d", status.Pages)
	}
	if status.Message != "" {
		t.Errorf("expected no message, got %q", status.Message)
	}

	missing := filepath.Join(t.TempDir(), "missing.pdf")
	status = validator.CheckTemplate(missing)
	if status.Exists || status.Readable {
		t.Errorf("expected missing template, got %+v", status)
	}
	if status.Path != missing {
		t.Errorf("expected path %s, got %s", missing, status.Path)
	}
	if status.Message == "" {
		t.Errorf("expected a message for a missing template")
	}
}

func TestNewValidator_DefaultSize(t *testing.T) {
	v := NewValidator(0, 1)
	if v.maxFileSize != DefaultMaxFileSize {
		t.Errorf("expected default max size %d, got %d", DefaultMaxFileSize, v.maxFileSize)
	}
}
