package ingestion

import (
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// maxPreviewRunes bounds the text kept by InspectPDF.
const maxPreviewRunes = 2000

// CVInfo summarises a PDF CV before it is uploaded.
type CVInfo struct {
	Pages int
	Text  string // Plain text of the first pages, cleaned and truncated
}

// InspectPDF opens a PDF CV, counts its pages and extracts a text preview.
// Pages whose text cannot be decoded are skipped.
func InspectPDF(path string) (*CVInfo, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer func() { _ = f.Close() }()

	info := &CVInfo{Pages: r.NumPage()}
	if info.Pages == 0 {
		return nil, fmt.Errorf("PDF has no pages: %s", path)
	}

	var sb strings.Builder
	for i := 1; i <= info.Pages && sb.Len() < maxPreviewRunes*4; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		sb.WriteString(text)
		sb.WriteString("\n")
	}

	text := CleanText(sb.String())
	if runes := []rune(text); len(runes) > maxPreviewRunes {
		text = string(runes[:maxPreviewRunes])
	}
	info.Text = text
	return info, nil
}
