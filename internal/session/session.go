package session

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"pdf-rag/internal/chromemdb"
	"pdf-rag/internal/indexer"
)

// Session scopes one uploaded document set. Its index is replaced wholesale on
// every upload.
type Session struct {
	id        string
	mtx       sync.RWMutex
	index     *chromemdb.VectorDBManager
	files     []string
	chunks    int
	updatedAt time.Time
}

func (s *Session) ID() string {
	return s.id
}

// Index returns the current index, or nil before the first upload.
func (s *Session) Index() *chromemdb.VectorDBManager {
	s.mtx.RLock()
	defer s.mtx.RUnlock()
	return s.index
}

func (s *Session) Files() []string {
	s.mtx.RLock()
	defer s.mtx.RUnlock()
	return append([]string{}, s.files...)
}

// Chunks is the number of chunks in the current index.
func (s *Session) Chunks() int {
	s.mtx.RLock()
	defer s.mtx.RUnlock()
	return s.chunks
}

// UpdatedAt is when the index was last replaced or cleared. Zero before that.
func (s *Session) UpdatedAt() time.Time {
	s.mtx.RLock()
	defer s.mtx.RUnlock()
	return s.updatedAt
}

// Replace swaps in a freshly built index. Queries already holding the previous
// index finish against it.
func (s *Session) Replace(res *indexer.Result) {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	s.index = res.Index
	s.files = res.Files
	s.chunks = len(res.Chunks)
	s.updatedAt = time.Now().UTC()
	log.Debug().Str("session", s.id).Strs("files", s.files).Int("chunks", s.chunks).Msg("Replaced session index")
}

// Clear drops the index so the session behaves as if nothing was uploaded.
func (s *Session) Clear() error {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	if s.index == nil {
		return nil
	}
	err := s.index.DeleteCollection()
	s.index = nil
	s.files = nil
	s.chunks = 0
	s.updatedAt = time.Now().UTC()
	return err
}
