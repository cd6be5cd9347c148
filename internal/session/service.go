package session

import (
	"sort"
	"sync"

	"pdf-rag/internal/helper"
	"pdf-rag/internal/indexer"
)

// DefaultID is used by clients that do not name a session.
const DefaultID = "default"

type Store struct {
	sessions map[string]*Session
	mtx      sync.RWMutex
}

func NewStore() *Store {
	return &Store{
		sessions: map[string]*Session{},
	}
}

// Create registers a session under a new random id.
func (s *Store) Create() (*Session, error) {
	id, err := helper.GenerateUUID()
	if err != nil {
		return nil, err
	}
	return s.GetOrCreate(id), nil
}

// GetOrCreate returns the session for id, creating it when missing. An empty id
// maps to DefaultID.
func (s *Store) GetOrCreate(id string) *Session {
	if id == "" {
		id = DefaultID
	}

	s.mtx.Lock()
	defer s.mtx.Unlock()
	return s.getOrCreateLocked(id)
}

// Replace installs res as the index of session id, creating the session when
// missing. Runs under the store lock, so it is ordered against Delete.
func (s *Store) Replace(id string, res *indexer.Result) *Session {
	if id == "" {
		id = DefaultID
	}
	s.mtx.Lock()
	defer s.mtx.Unlock()
	session := s.getOrCreateLocked(id)
	session.Replace(res)
	return session
}

func (s *Store) getOrCreateLocked(id string) *Session {
	if session, ok := s.sessions[id]; ok {
		return session
	}
	session := &Session{id: id}
	s.sessions[id] = session
	return session
}

func (s *Store) Get(id string) (*Session, bool) {
	if id == "" {
		id = DefaultID
	}
	s.mtx.RLock()
	defer s.mtx.RUnlock()
	session, ok := s.sessions[id]
	return session, ok
}

// Delete removes session id from the store and returns it so the caller can
// release its index.
func (s *Store) Delete(id string) (*Session, bool) {
	if id == "" {
		id = DefaultID
	}
	s.mtx.Lock()
	defer s.mtx.Unlock()
	session, ok := s.sessions[id]
	delete(s.sessions, id)
	return session, ok
}

func (s *Store) ListIDs() []string {
	s.mtx.RLock()
	defer s.mtx.RUnlock()
	ids := make([]string, 0, len(s.sessions))
	for id := range s.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
