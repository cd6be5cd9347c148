package parser

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
)

var ErrNotPDF = errors.New("file type not allowed")

var (
	hyphenBreakRe = regexp.MustCompile(`([\p{L}\p{N}_]+)-\n([\p{L}\p{N}_]+)`)
	blankLinesRe  = regexp.MustCompile(`\n\s*\n`)
)

// IsPDF reports whether filename carries a .pdf extension.
func IsPDF(filename string) bool {
	return strings.EqualFold(filepath.Ext(filename), ".pdf")
}

// ParsePDF extracts the cleaned plain text of every page, in page order.
// Pages without extractable text are returned as empty strings.
func ParsePDF(data []byte) (pages []string, err error) {
	// ledongthuc/pdf panics on some malformed inputs
	defer func() {
		if r := recover(); r != nil {
			pages, err = nil, fmt.Errorf("failed to read pdf: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open pdf: %w", err)
	}

	numPages := reader.NumPage()
	pages = make([]string, 0, numPages)
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("failed to extract page %d: %w", i, err)
		}
		pages = append(pages, CleanText(pageText))
	}
	return pages, nil
}

// CleanText joins words hyphenated across a line end, turns soft line breaks into
// spaces and collapses runs of blank lines into a single paragraph break.
func CleanText(text string) string {
	text = hyphenBreakRe.ReplaceAllString(text, "${1}${2}")
	text = joinSoftBreaks(strings.TrimSpace(text))
	return blankLinesRe.ReplaceAllString(text, "\n\n")
}

func joinSoftBreaks(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' && !isParagraphBreak(text, i) {
			b.WriteByte(' ')
			continue
		}
		b.WriteByte(text[i])
	}
	return b.String()
}

// isParagraphBreak reports whether the newline at i has another newline next to
// it, ignoring horizontal whitespace in between.
func isParagraphBreak(text string, i int) bool {
	j := i - 1
	for j >= 0 && isBlank(text[j]) {
		j--
	}
	if j >= 0 && text[j] == '\n' {
		return true
	}
	j = i + 1
	for j < len(text) && isBlank(text[j]) {
		j++
	}
	return j < len(text) && text[j] == '\n'
}

func isBlank(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r'
}
