package testutil

import (
	"context"
	"hash/fnv"
	"strings"
	"sync/atomic"
	"unicode"
)

const hashDims = 64

// HashEmbedder is a deterministic bag-of-words embedder. Texts sharing words land
// close together, which is enough to exercise similarity search offline.
type HashEmbedder struct {
	Calls atomic.Int64
	Err   error
}

func (e *HashEmbedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	e.Calls.Add(1)
	if e.Err != nil {
		return nil, e.Err
	}
	out := make([][]float32, len(texts))
	for i, text := range texts {
		out[i] = HashVector(text)
	}
	return out, nil
}

func (e *HashEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	e.Calls.Add(1)
	if e.Err != nil {
		return nil, e.Err
	}
	return HashVector(text), nil
}

// HashVector never returns the zero vector.
func HashVector(text string) []float32 {
	vec := make([]float32, hashDims)
	vec[hashDims-1] = 0.01
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for _, w := range words {
		h := fnv.New32a()
		h.Write([]byte(w))
		vec[h.Sum32()%(hashDims-1)]++
	}
	return vec
}
