package chromemdb

import (
	"context"
	"fmt"
	"runtime"

	"github.com/philippgille/chromem-go"
	"github.com/rs/zerolog/log"
)

// VectorDBManager wraps one in-memory chromem-go collection. A manager is built
// per upload batch and never merged with another.
type VectorDBManager struct {
	db         *chromem.DB
	collection *chromem.Collection
}

// NewVectorDBManager creates an in-memory database holding a single collection.
// embed is used for query texts and for documents added without an embedding.
func NewVectorDBManager(collectionName string, embed chromem.EmbeddingFunc) (*VectorDBManager, error) {
	db := chromem.NewDB()
	c, err := db.GetOrCreateCollection(collectionName, nil, embed)
	if err != nil {
		return nil, fmt.Errorf("failed to create/get collection: %w", err)
	}
	return &VectorDBManager{db: db, collection: c}, nil
}

// CreateDocs adds multiple documents
func (m *VectorDBManager) CreateDocs(ctx context.Context, documents []chromem.Document) error {
	if len(documents) == 0 {
		return nil
	}
	if err := m.collection.AddDocuments(ctx, documents, runtime.NumCPU()); err != nil {
		return fmt.Errorf("failed to add documents: %w", err)
	}
	return nil
}

func (m *VectorDBManager) Count() int {
	return m.collection.Count()
}

// Search returns up to n documents nearest to query. n is clamped to the
// collection size and an empty collection yields no results.
func (m *VectorDBManager) Search(ctx context.Context, query string, n int) ([]chromem.Result, error) {
	n = min(n, m.Count())
	if n <= 0 {
		return nil, nil
	}
	return m.SearchWithQueryOptions(ctx, chromem.QueryOptions{
		QueryText: query,
		NResults:  n,
	})
}

// SearchWithQueryOptions performs a similarity search
func (m *VectorDBManager) SearchWithQueryOptions(ctx context.Context, opts chromem.QueryOptions) ([]chromem.Result, error) {
	if opts.QueryText == "" && opts.QueryEmbedding == nil {
		return nil, fmt.Errorf("either query or embedding must be provided")
	}

	results, err := m.collection.QueryWithOptions(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query by similarity: %w", err)
	}
	log.Debug().Int("results", len(results)).Str("collection", m.collection.Name).Msg("Similarity search")
	return results, nil
}

// DeleteCollection drops the collection and everything in it.
func (m *VectorDBManager) DeleteCollection() error {
	if err := m.db.DeleteCollection(m.collection.Name); err != nil {
		return fmt.Errorf("failed to drop collection: %w", err)
	}
	return nil
}
