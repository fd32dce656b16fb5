package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"resume-rank/internal/extract"
)

// Session groups one upload batch's documents and index entries. Sessions
// are explicit values passed through every call, so multiple batches can be
// processed concurrently.
type Session struct {
	ID        string             `json:"session_id"`
	CreatedAt time.Time          `json:"created_at"`
	Documents []extract.Document `json:"documents"`
}

// SuccessfulDocuments returns the documents with usable text.
func (s *Session) SuccessfulDocuments() []extract.Document {
	var out []extract.Document
	for _, d := range s.Documents {
		if d.Status != extract.StatusFailed {
			out = append(out, d)
		}
	}
	return out
}

// Document looks up a document by its identity key.
func (s *Session) Document(id string) (extract.Document, bool) {
	for _, d := range s.Documents {
		if d.ID == id {
			return d, true
		}
	}
	return extract.Document{}, false
}

// Store holds active sessions in memory, keyed by opaque id.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewStore() *Store {
	return &Store{sessions: make(map[string]*Session)}
}

// Create registers a new session owning the given documents.
func (st *Store) Create(docs []extract.Document) *Session {
	s := &Session{
		ID:        uuid.NewString(),
		CreatedAt: time.Now(),
		Documents: docs,
	}
	st.mu.Lock()
	st.sessions[s.ID] = s
	st.mu.Unlock()
	return s
}

func (st *Store) Get(id string) (*Session, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	s, ok := st.sessions[id]
	return s, ok
}

// SweepExpired removes every session created before now-ttl and returns their
// ids so the caller can drop the matching index entries.
func (st *Store) SweepExpired(ttl time.Duration) []string {
	cutoff := time.Now().Add(-ttl)
	st.mu.Lock()
	defer st.mu.Unlock()

	var expired []string
	for id, s := range st.sessions {
		if s.CreatedAt.Before(cutoff) {
			delete(st.sessions, id)
			expired = append(expired, id)
		}
	}
	return expired
}

// Delete removes the session and reports whether it existed. The caller is
// responsible for deleting the session's index entries as well.
func (st *Store) Delete(id string) bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	if _, ok := st.sessions[id]; !ok {
		return false
	}
	delete(st.sessions, id)
	return true
}
