package indexer

import (
	"context"
	"fmt"

	"github.com/philippgille/chromem-go"
	"github.com/rs/zerolog/log"

	"pdf-rag/internal/chromemdb"
	"pdf-rag/internal/config"
	"pdf-rag/internal/embedding"
	"pdf-rag/internal/models"
	"pdf-rag/internal/parser"
)

const collectionName = "pdf_collection"

// Result is a freshly built index together with what went into it.
type Result struct {
	Index  *chromemdb.VectorDBManager
	Chunks []models.Chunk
	Files  []string
}

// Indexer turns a batch of uploaded PDFs into a new in-memory similarity index.
type Indexer struct {
	embedder embedding.Embedder
	chunker  *parser.Chunker
}

func NewIndexer(embedder embedding.Embedder, cfg *config.Config) *Indexer {
	var size, overlap int
	if cfg != nil {
		size, overlap = cfg.RAG.ChunkSize, cfg.RAG.ChunkOverlap
	}
	return &Indexer{
		embedder: embedder,
		chunker:  parser.NewChunker(size, overlap),
	}
}

// Build extracts, chunks and embeds every file. The returned index holds this
// batch only.
func (i *Indexer) Build(ctx context.Context, files []models.File) (*Result, error) {
	var (
		chunks []models.Chunk
		names  = make([]string, 0, len(files))
	)
	for _, f := range files {
		if !parser.IsPDF(f.Name) {
			return nil, fmt.Errorf("%w: %s", parser.ErrNotPDF, f.Name)
		}
		pages, err := parser.ParsePDF(f.Data)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", f.Name, err)
		}
		fileChunks, err := i.chunker.GetChunks(f.Name, pages)
		if err != nil {
			return nil, err
		}
		log.Info().Str("file", f.Name).Int("pages", len(pages)).Int("chunks", len(fileChunks)).Msg("Parsed document")

		chunks = append(chunks, fileChunks...)
		names = append(names, f.Name)
	}

	vectors, err := embedding.GenerateEmbeddings(ctx, i.embedder, chunks)
	if err != nil {
		return nil, err
	}

	db, err := chromemdb.NewVectorDBManager(collectionName, i.embedder.EmbedQuery)
	if err != nil {
		return nil, err
	}

	docs := make([]chromem.Document, len(chunks))
	for j, chunk := range chunks {
		docs[j] = chromem.Document{
			ID:        fmt.Sprintf("%d-%s-%s", j, chunk.Filename, chunk.Source),
			Content:   chunk.Content,
			Metadata:  parser.CreateMetadata(chunk),
			Embedding: vectors[j],
		}
	}

	log.Info().Msgf("Adding %d documents to vector database", len(docs))
	if err := db.CreateDocs(ctx, docs); err != nil {
		return nil, err
	}

	return &Result{Index: db, Chunks: chunks, Files: names}, nil
}
