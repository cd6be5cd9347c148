package rag

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/philippgille/chromem-go"
	"github.com/rs/zerolog/log"

	"pdf-rag/internal/config"
	"pdf-rag/internal/llmservice"
	"pdf-rag/internal/models"
	"pdf-rag/internal/parser"
)

const defaultTopK = 3

var ErrNoIndex = errors.New("no documents have been uploaded")

// Searcher is the read side of an index. *chromemdb.VectorDBManager satisfies it.
type Searcher interface {
	Search(ctx context.Context, query string, n int) ([]chromem.Result, error)
}

type RAG struct {
	completer llmservice.Completer
	topK      int
}

func NewRAG(completer llmservice.Completer, cfg *config.Config) *RAG {
	topK := defaultTopK
	if cfg != nil && cfg.RAG.TopK > 0 {
		topK = cfg.RAG.TopK
	}
	return &RAG{completer: completer, topK: topK}
}

// Query answers query from the passages in index most similar to it.
func (r *RAG) Query(ctx context.Context, index Searcher, query string) (*models.PromptResponse, error) {
	if index == nil {
		return nil, ErrNoIndex
	}

	results, err := index.Search(ctx, query, r.topK)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve context: %w", err)
	}

	sources := make([]models.Chunk, 0, len(results))
	texts := make([]string, 0, len(results))
	for _, res := range results {
		sources = append(sources, parser.ChunkFromMetadata(res.Content, res.Metadata))
		texts = append(texts, res.Content)
	}
	pdfExtract := strings.Join(texts, models.ContextSeparator)

	log.Debug().Str("query", query).Int("passages", len(results)).Msg("Retrieved context")

	answer, err := r.completer.Complete(ctx, BuildMessages(pdfExtract, query))
	if err != nil {
		return nil, fmt.Errorf("failed to generate answer: %w", err)
	}

	return &models.PromptResponse{
		Query:   query,
		Content: answer,
		Sources: sources,
	}, nil
}

// BuildMessages renders the system prompt around pdfExtract and appends the
// question. Nothing is carried over between calls.
func BuildMessages(pdfExtract, question string) []models.Message {
	return []models.Message{
		{Role: models.RoleSystem, Content: fmt.Sprintf(models.AnswerPromptTemplate, pdfExtract)},
		{Role: models.RoleUser, Content: question},
	}
}
