package parser

import (
	"strings"
	"testing"

	"pdf-rag/internal/testutil"
)

func TestCleanText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"hyphen across line end", "exam-\nple text", "example text"},
		{"soft line break", "Hello\nworld", "Hello world"},
		{"paragraph break kept", "first para\n\nsecond para", "first para\n\nsecond para"},
		{"blank lines collapsed", "a\n\n\n\nb", "a\n\nb"},
		{"whitespace-only line", "a\n  \nb", "a\n\nb"},
		{"trimmed", "  \n padded \n ", "padded"},
		{"unicode hyphen join", "Straß-\ne", "Straße"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanText(tt.in); got != tt.want {
				t.Errorf("CleanText(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestIsPDF(t *testing.T) {
	for name, want := range map[string]bool{
		"report.pdf":      true,
		"REPORT.PDF":      true,
		"notes.txt":       false,
		"pdf":             false,
		"archive.pdf.zip": false,
	} {
		if got := IsPDF(name); got != want {
			t.Errorf("IsPDF(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestParsePDF(t *testing.T) {
	data := testutil.BuildPDF("alpha bravo charlie", "", "delta echo")

	pages, err := ParsePDF(data)
	if err != nil {
		t.Fatalf("ParsePDF: %v", err)
	}
	if len(pages) != 3 {
		t.Fatalf("expected 3 pages, got %d", len(pages))
	}
	if !strings.Contains(pages[0], "alpha bravo charlie") {
		t.Errorf("page 1 = %q", pages[0])
	}
	if strings.TrimSpace(pages[1]) != "" {
		t.Errorf("expected empty page 2, got %q", pages[1])
	}
	if !strings.Contains(pages[2], "delta echo") {
		t.Errorf("page 3 = %q", pages[2])
	}
}

func TestParsePDF_Invalid(t *testing.T) {
	if _, err := ParsePDF([]byte("definitely not a pdf")); err == nil {
		t.Fatal("expected error for non-pdf bytes")
	}
}
