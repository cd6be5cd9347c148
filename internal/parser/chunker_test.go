package parser

import (
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"pdf-rag/internal/models"
)

func words(from, n int) string {
	ws := make([]string, n)
	for i := range ws {
		ws[i] = fmt.Sprintf("w%05d", from+i)
	}
	return strings.Join(ws, " ")
}

func TestGetChunks_Metadata(t *testing.T) {
	c := NewChunker(2000, 200)
	pages := []string{"short first page", "", "third page text"}

	chunks, err := c.GetChunks("doc.pdf", pages)
	if err != nil {
		t.Fatal(err)
	}
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}
	want := []models.Chunk{
		{Content: "short first page", PageNumber: 1, ChunkID: 0, Filename: "doc.pdf", Source: "1-0"},
		{Content: "third page text", PageNumber: 3, ChunkID: 0, Filename: "doc.pdf", Source: "3-0"},
	}
	for i := range want {
		if chunks[i] != want[i] {
			t.Errorf("chunk %d = %+v, want %+v", i, chunks[i], want[i])
		}
	}
}

func TestGetChunks_SizeAndOverlap(t *testing.T) {
	const size, overlap = 2000, 200
	c := NewChunker(size, overlap)
	page := words(0, 1200)

	chunks, err := c.GetChunks("big.pdf", []string{page, words(5000, 10)})
	if err != nil {
		t.Fatal(err)
	}

	var first []models.Chunk
	for _, ch := range chunks {
		if ch.PageNumber < 1 || ch.PageNumber > 2 {
			t.Fatalf("page %d out of range", ch.PageNumber)
		}
		if ch.PageNumber == 1 {
			first = append(first, ch)
		}
	}
	if len(first) < 2 {
		t.Fatalf("expected page 1 to split, got %d chunks", len(first))
	}

	for i, ch := range first {
		if ch.ChunkID != i {
			t.Errorf("chunk %d has id %d", i, ch.ChunkID)
		}
		if n := utf8.RuneCountInString(ch.Content); n > size {
			t.Errorf("chunk %d has %d chars, limit %d", i, n, size)
		}
	}

	for i := 1; i < len(first); i++ {
		prev, next := first[i-1].Content, first[i].Content
		head := strings.Fields(next)[0]
		idx := strings.LastIndex(prev, head)
		if idx < 0 {
			t.Fatalf("chunk %d does not start inside chunk %d", i, i-1)
		}
		shared := prev[idx:]
		if len(shared) > overlap {
			t.Errorf("overlap between %d and %d is %d chars, limit %d", i-1, i, len(shared), overlap)
		}
		if !strings.HasPrefix(next, shared) {
			t.Errorf("chunk %d does not begin with the tail of chunk %d", i, i-1)
		}
	}

	last := chunks[len(chunks)-1]
	if last.PageNumber != 2 || last.ChunkID != 0 {
		t.Errorf("page order not preserved: last chunk %+v", last)
	}
}

func TestGetChunks_PrefersParagraphs(t *testing.T) {
	c := NewChunker(40, 0)
	page := "First paragraph about apples.\n\nSecond paragraph about pears."

	chunks, err := c.GetChunks("fruit.pdf", []string{page})
	if err != nil {
		t.Fatal(err)
	}
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d: %+v", len(chunks), chunks)
	}
	if chunks[0].Content != "First paragraph about apples." {
		t.Errorf("chunk 0 = %q", chunks[0].Content)
	}
	if chunks[1].Content != "Second paragraph about pears." {
		t.Errorf("chunk 1 = %q", chunks[1].Content)
	}
}

func TestMetadataRoundTrip(t *testing.T) {
	in := models.NewChunk("a.pdf", 4, 2, "text")
	out := ChunkFromMetadata("text", CreateMetadata(in))
	if out != in {
		t.Errorf("got %+v, want %+v", out, in)
	}
}
