package helper

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSecureFilename(t *testing.T) {
	tests := map[string]string{
		"report.pdf":          "report.pdf",
		"My Report 2024.pdf":  "My_Report_2024.pdf",
		"../../etc/passwd":    "passwd",
		`C:\Users\me\doc.pdf`: "doc.pdf",
		".hidden.pdf":         "hidden.pdf",
		"résumé.pdf":          "rsum.pdf",
		"..":                  "",
	}
	for in, want := range tests {
		if got := SecureFilename(in); got != want {
			t.Errorf("SecureFilename(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSaveFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads")
	if err := CreateFolder(dir); err != nil {
		t.Fatal(err)
	}

	path, err := SaveFile(dir, "../My Doc.pdf", []byte("%PDF-1.4"))
	if err != nil {
		t.Fatal(err)
	}
	if path != filepath.Join(dir, "My_Doc.pdf") {
		t.Errorf("unexpected path %q", path)
	}
	data, err := os.ReadFile(path)
	if err != nil || string(data) != "%PDF-1.4" {
		t.Errorf("unexpected file contents %q, %v", data, err)
	}

	if _, err := SaveFile(dir, "..", nil); err == nil {
		t.Error("expected error for unusable name")
	}
}

func TestGenerateUUID(t *testing.T) {
	a, err := GenerateUUID()
	if err != nil {
		t.Fatal(err)
	}
	b, _ := GenerateUUID()
	if a == b || len(a) != 36 {
		t.Errorf("unexpected ids %q %q", a, b)
	}
}
