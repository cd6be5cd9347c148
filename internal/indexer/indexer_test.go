package indexer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"pdf-rag/internal/config"
	"pdf-rag/internal/models"
	"pdf-rag/internal/parser"
	"pdf-rag/internal/testutil"
)

func TestBuild(t *testing.T) {
	e := &testutil.HashEmbedder{}
	ix := NewIndexer(e, &config.Config{RAG: config.RAGConfig{ChunkSize: 2000, ChunkOverlap: 200}})

	files := []models.File{
		{Name: "a.pdf", Data: testutil.BuildPDF("solar panels convert sunlight", "wind turbines spin")},
		{Name: "b.pdf", Data: testutil.BuildPDF("", "hydro dams store water")},
	}
	res, err := ix.Build(context.Background(), files)
	if err != nil {
		t.Fatal(err)
	}

	if len(res.Files) != 2 || res.Files[0] != "a.pdf" || res.Files[1] != "b.pdf" {
		t.Errorf("unexpected files: %v", res.Files)
	}
	if len(res.Chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d: %+v", len(res.Chunks), res.Chunks)
	}
	if res.Index.Count() != len(res.Chunks) {
		t.Errorf("index holds %d docs for %d chunks", res.Index.Count(), len(res.Chunks))
	}
	for _, ch := range res.Chunks {
		if ch.PageNumber < 1 || ch.PageNumber > 2 {
			t.Errorf("page out of range: %+v", ch)
		}
	}
	if c := res.Chunks[2]; c.Filename != "b.pdf" || c.PageNumber != 2 || c.Source != "2-0" {
		t.Errorf("unexpected last chunk: %+v", c)
	}

	results, err := res.Index.Search(context.Background(), "hydro water", 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || !strings.Contains(results[0].Content, "hydro") {
		t.Errorf("unexpected search results: %+v", results)
	}
}

func TestBuild_FreshIndexPerBatch(t *testing.T) {
	ix := NewIndexer(&testutil.HashEmbedder{}, nil)
	ctx := context.Background()

	first, err := ix.Build(ctx, []models.File{{Name: "a.pdf", Data: testutil.BuildPDF("one", "two", "three")}})
	if err != nil {
		t.Fatal(err)
	}
	second, err := ix.Build(ctx, []models.File{{Name: "a.pdf", Data: testutil.BuildPDF("one")}})
	if err != nil {
		t.Fatal(err)
	}
	if first.Index.Count() != 3 || second.Index.Count() != 1 {
		t.Errorf("expected 3 and 1 docs, got %d and %d", first.Index.Count(), second.Index.Count())
	}
}

func TestBuild_InvalidPDF(t *testing.T) {
	e := &testutil.HashEmbedder{}
	ix := NewIndexer(e, nil)
	_, err := ix.Build(context.Background(), []models.File{{Name: "broken.pdf", Data: []byte("nope")}})
	if err == nil || !strings.Contains(err.Error(), "broken.pdf") {
		t.Fatalf("expected parse error naming the file, got %v", err)
	}
	if e.Calls.Load() != 0 {
		t.Error("embedder called for an unparseable batch")
	}
}

func TestBuild_RejectsNonPDF(t *testing.T) {
	ix := NewIndexer(&testutil.HashEmbedder{}, nil)
	_, err := ix.Build(context.Background(), []models.File{{Name: "notes.txt", Data: []byte("hello")}})
	if !errors.Is(err, parser.ErrNotPDF) {
		t.Fatalf("expected ErrNotPDF, got %v", err)
	}
}

func TestBuild_EmbeddingError(t *testing.T) {
	ix := NewIndexer(&testutil.HashEmbedder{Err: errors.New("unauthorized")}, nil)
	_, err := ix.Build(context.Background(), []models.File{{Name: "a.pdf", Data: testutil.BuildPDF("text")}})
	if err == nil || !strings.Contains(err.Error(), "unauthorized") {
		t.Fatalf("expected embedding error, got %v", err)
	}
}
