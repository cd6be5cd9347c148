package chromemdb

import (
	"context"
	"fmt"
	"testing"

	"github.com/philippgille/chromem-go"

	"pdf-rag/internal/testutil"
)

func newManager(t *testing.T) *VectorDBManager {
	t.Helper()
	e := &testutil.HashEmbedder{}
	m, err := NewVectorDBManager("test", e.EmbedQuery)
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func TestSearch(t *testing.T) {
	ctx := context.Background()
	m := newManager(t)

	texts := []string{
		"the quick brown fox jumps",
		"invoices are due within thirty days",
		"refunds are processed in five business days",
	}
	docs := make([]chromem.Document, len(texts))
	for i, text := range texts {
		docs[i] = chromem.Document{
			ID:        fmt.Sprintf("doc-%d", i),
			Content:   text,
			Metadata:  map[string]string{"page": fmt.Sprint(i + 1)},
			Embedding: testutil.HashVector(text),
		}
	}
	if err := m.CreateDocs(ctx, docs); err != nil {
		t.Fatal(err)
	}
	if m.Count() != 3 {
		t.Fatalf("expected 3 docs, got %d", m.Count())
	}

	results, err := m.Search(ctx, "how fast are refunds processed", 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || results[0].ID != "doc-2" {
		t.Fatalf("expected refund doc, got %+v", results)
	}
	if results[0].Metadata["page"] != "3" {
		t.Errorf("metadata not preserved: %v", results[0].Metadata)
	}

	results, err = m.Search(ctx, "fox", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 3 {
		t.Errorf("expected n clamped to 3, got %d", len(results))
	}
}

func TestSearch_Empty(t *testing.T) {
	m := newManager(t)
	results, err := m.Search(context.Background(), "anything", 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 0 {
		t.Errorf("expected no results, got %d", len(results))
	}
}

func TestSearchWithQueryOptions_RequiresQuery(t *testing.T) {
	m := newManager(t)
	if _, err := m.SearchWithQueryOptions(context.Background(), chromem.QueryOptions{NResults: 1}); err == nil {
		t.Fatal("expected error without query")
	}
}

func TestDeleteCollection(t *testing.T) {
	m := newManager(t)
	if err := m.DeleteCollection(); err != nil {
		t.Fatal(err)
	}
}
