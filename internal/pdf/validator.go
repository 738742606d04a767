package pdf

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
)

// DefaultMaxFileSize bounds the size of a template.
const DefaultMaxFileSize = 50 * 1024 * 1024

// TemplateStatus reports whether a form template can be used.
type TemplateStatus struct {
	Path     string `json:"path"`
	Exists   bool   `json:"exists"`
	Readable bool   `json:"readable"`
	Pages    int    `json:"pages,omitempty"`
	Message  string `json:"message,omitempty"`
}

// Validator handles PDF file validation operations
type Validator struct {
	maxFileSize int64
	minPages    int
}

// NewValidator creates a validator accepting files up to maxFileSize bytes
// with at least minPages pages.
func NewValidator(maxFileSize int64, minPages int) *Validator {
	if maxFileSize <= 0 {
		maxFileSize = DefaultMaxFileSize
	}
	return &Validator{
		maxFileSize: maxFileSize,
		minPages:    minPages,
	}
}

// CheckTemplate inspects the template at path without modifying it.
func (v *Validator) CheckTemplate(path string) TemplateStatus {
	status := TemplateStatus{Path: path}

	if _, err := os.Stat(path); err == nil {
		status.Exists = true
	}

	pages, err := v.ValidateFile(path)
	if err != nil {
		status.Message = err.Error()
		return status
	}

	status.Readable = true
	status.Pages = pages
	return status
}

// ValidateFile checks that path is a readable PDF within the size limit and
// returns its page count.
func (v *Validator) ValidateFile(filePath string) (int, error) {
	if filePath == "" {
		return 0, fmt.Errorf("path cannot be empty")
	}

	fileInfo, err := os.Stat(filePath)
	if errors.Is(err, fs.ErrNotExist) {
		return 0, fmt.Errorf("file does not exist: %s", filePath)
	}
	if err != nil {
		return 0, fmt.Errorf("cannot access file: %w", err)
	}

	if err := v.ValidateFileInfo(filePath, fileInfo); err != nil {
		return 0, err
	}

	return v.countPages(filePath)
}

// ValidateFileInfo performs basic validation on file info without opening the PDF
func (v *Validator) ValidateFileInfo(filePath string, fileInfo os.FileInfo) error {
	if fileInfo.IsDir() {
		return fmt.Errorf("path is a directory, not a file: %s", filePath)
	}

	if !strings.HasSuffix(strings.ToLower(filePath), ".pdf") {
		return fmt.Errorf("file is not a PDF: %s", filePath)
	}

	if fileInfo.Size() == 0 {
		return fmt.Errorf("file is empty: %s", filePath)
	}

	if fileInfo.Size() > v.maxFileSize {
		return fmt.Errorf("file too large: %d bytes (max: %d bytes)",
			fileInfo.Size(), v.maxFileSize)
	}

	return nil
}

// countPages opens the file with an independent parser so a template that
// pdfcpu happens to tolerate is still checked for plain readability.
func (v *Validator) countPages(filePath string) (pages int, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("invalid PDF file: %v", r)
		}
	}()

	f, r, err := pdf.Open(filePath)
	if err != nil {
		return 0, fmt.Errorf("invalid PDF file: %w", err)
	}
	defer f.Close()

	pages = r.NumPage()
	if pages < v.minPages {
		return pages, fmt.Errorf("template has %d pages, need at least %d", pages, v.minPages)
	}
	return pages, nil
}
