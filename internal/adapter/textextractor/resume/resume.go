// Package resume extracts plain text from uploaded resume files.
//
// Extraction degrades rather than fails: unsupported formats and parser
// errors yield an explanatory placeholder string so question generation can
// continue without resume context.
package resume

import (
	"log/slog"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/fairyhunter13/ai-interview-coach/internal/domain"
	"github.com/fairyhunter13/ai-interview-coach/pkg/textx"
)

// Placeholder strings returned in place of text when extraction cannot run.
const (
	UnsupportedFormat = "Unsupported resume format - continuing without resume analysis"
	DocUnavailable    = "DOC parsing not available - continuing without resume analysis"
	ExtractionFailed  = "Resume processing failed - continuing without resume analysis"
)

// Extractor implements the text extraction port with local parsers.
type Extractor struct{}

func New() *Extractor { return &Extractor{} }

// ExtractPath extracts plain text from the file at path. PDF and plain text
// are parsed locally; Word documents get a placeholder (no local parser is
// wired for them). The caller owns deletion of the temp file.
func (e *Extractor) ExtractPath(_ domain.Context, fileName, path, mimeType string) (string, error) {
	switch {
	case mimeType == "application/pdf":
		text, err := extractPDF(path)
		if err != nil {
			slog.Warn("pdf extraction failed",
				slog.String("file", fileName), slog.Any("error", err))
			return ExtractionFailed, nil
		}
		return textx.SanitizeText(text), nil
	case mimeType == "application/msword",
		mimeType == "application/vnd.openxmlformats-officedocument.wordprocessingml.document":
		return DocUnavailable, nil
	case strings.HasPrefix(mimeType, "text/plain"):
		b, err := os.ReadFile(path)
		if err != nil {
			slog.Warn("txt read failed",
				slog.String("file", fileName), slog.Any("error", err))
			return ExtractionFailed, nil
		}
		return textx.SanitizeText(string(b)), nil
	default:
		return UnsupportedFormat, nil
	}
}

func extractPDF(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", err
	}
	defer func() { _ = f.Close() }()

	var b strings.Builder
	for pageIndex := 1; pageIndex <= r.NumPage(); pageIndex++ {
		page := r.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			// Skip unreadable pages, keep the rest.
			continue
		}
		b.WriteString(text)
		b.WriteString("\n\n")
	}
	return b.String(), nil
}
