package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tmc/langchaingo/textsplitter"

	"pdf-rag/internal/models"
)

const (
	defaultChunkSize    = 2000
	defaultChunkOverlap = 200
)

// Chunker splits page text into overlapping chunks, preferring paragraph, line,
// sentence and finally word boundaries.
type Chunker struct {
	splitter textsplitter.RecursiveCharacter
}

func NewChunker(chunkSize, chunkOverlap int) *Chunker {
	if chunkSize <= 0 {
		chunkSize = defaultChunkSize
	}
	if chunkOverlap < 0 || chunkOverlap >= chunkSize {
		chunkOverlap = min(defaultChunkOverlap, chunkSize/2)
	}
	return &Chunker{
		splitter: textsplitter.NewRecursiveCharacter(
			textsplitter.WithChunkSize(chunkSize),
			textsplitter.WithChunkOverlap(chunkOverlap),
			textsplitter.WithSeparators(models.ChunkSeparators),
			textsplitter.WithKeepSeparator(true),
		),
	}
}

// GetChunks splits each page on its own. Pages are numbered from 1 and chunk ids
// restart at 0 on every page.
func (c *Chunker) GetChunks(filename string, pages []string) ([]models.Chunk, error) {
	var chunks []models.Chunk
	for i, page := range pages {
		if strings.TrimSpace(page) == "" {
			continue
		}
		texts, err := c.splitter.SplitText(page)
		if err != nil {
			return nil, fmt.Errorf("failed to split page %d of %s: %w", i+1, filename, err)
		}
		for j, text := range texts {
			chunks = append(chunks, models.NewChunk(filename, i+1, j, text))
		}
	}
	return chunks, nil
}

// CreateMetadata flattens a chunk's position into vector store metadata.
func CreateMetadata(chunk models.Chunk) map[string]string {
	return map[string]string{
		models.MetaFilename: chunk.Filename,
		models.MetaPage:     strconv.Itoa(chunk.PageNumber),
		models.MetaChunk:    strconv.Itoa(chunk.ChunkID),
		models.MetaSource:   chunk.Source,
	}
}

// ChunkFromMetadata is the inverse of CreateMetadata.
func ChunkFromMetadata(content string, metadata map[string]string) models.Chunk {
	page, _ := strconv.Atoi(metadata[models.MetaPage])
	chunkID, _ := strconv.Atoi(metadata[models.MetaChunk])
	return models.Chunk{
		Content:    content,
		PageNumber: page,
		ChunkID:    chunkID,
		Filename:   metadata[models.MetaFilename],
		Source:     metadata[models.MetaSource],
	}
}
