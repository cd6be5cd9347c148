package models

import "fmt"

// Chunk represents a parsed chunk with metadata
type Chunk struct {
	Content    string `json:"content,omitempty"`
	PageNumber int    `json:"page"`
	ChunkID    int    `json:"chunk"`
	Filename   string `json:"filename"`
	Source     string `json:"source"`
}

func NewChunk(filename string, page, chunkID int, content string) Chunk {
	return Chunk{
		Content:    content,
		PageNumber: page,
		ChunkID:    chunkID,
		Filename:   filename,
		Source:     SourceTag(page, chunkID),
	}
}

// SourceTag is "{page}-{chunk}".
func SourceTag(page, chunkID int) string {
	return fmt.Sprintf("%d-%d", page, chunkID)
}

// File is an uploaded document held in memory while it is indexed.
type File struct {
	Name string
	Data []byte
}

type Message struct {
	Role    string
	Content string
}

type PromptResponse struct {
	Query   string
	Content string
	Sources []Chunk
}
