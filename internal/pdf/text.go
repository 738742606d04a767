package pdf

import (
	"fmt"

	"github.com/ledongthuc/pdf"
)

// maxTextSize bounds the text collected from one document.
const maxTextSize = 10 * 1024 * 1024

// ReadText extracts the plain text of every page of the PDF at path, one
// entry per page. Pages whose content cannot be decoded yield an empty
// entry. Text drawn inside form XObjects, such as a stamped overlay, is not
// included.
func ReadText(path string) (pages []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("invalid PDF file: %v", r)
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	total := 0
	pages = make([]string, r.NumPage())
	for pageNum := 1; pageNum <= r.NumPage(); pageNum++ {
		page := r.Page(pageNum)
		if page.V.IsNull() {
			continue
		}

		content, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}

		if total+len(content) > maxTextSize {
			pages[pageNum-1] = content[:maxTextSize-total]
			break
		}
		pages[pageNum-1] = content
		total += len(content)
	}

	return pages, nil
}
