package storage

import (
	"sync"
	"time"
)

// MemoryRegistry is a Registry held in process memory, guarded by a RWMutex.
type MemoryRegistry struct {
	mu      sync.RWMutex
	entries map[string]*Entry
}

// NewMemoryRegistry creates an empty in-memory registry.
func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{entries: make(map[string]*Entry)}
}

func (r *MemoryRegistry) Register(entry *Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[entry.SubjectID]; exists {
		return ErrSubjectExists
	}
	r.store(entry)
	return nil
}

func (r *MemoryRegistry) Upsert(entry *Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.store(entry)
	return nil
}

// store must be called with the write lock held.
func (r *MemoryRegistry) store(entry *Entry) {
	stored := *entry
	if stored.RegisteredAt.IsZero() {
		stored.RegisteredAt = time.Now()
	}
	r.entries[entry.SubjectID] = &stored
}

func (r *MemoryRegistry) Lookup(subjectID string) (*Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, exists := r.entries[subjectID]
	if !exists {
		return nil, ErrSubjectNotFound
	}
	entryCopy := *entry
	return &entryCopy, nil
}

// MemorySessionStore is a SessionStore held in process memory. The consumed
// flag is flipped under the write lock, which makes Consume a read-modify-write
// no two goroutines can interleave.
type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewMemorySessionStore creates an empty in-memory session store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: make(map[string]*Session)}
}

func (s *MemorySessionStore) Create(session *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sessionCopy := *session
	if sessionCopy.CreatedAt.IsZero() {
		sessionCopy.CreatedAt = time.Now()
	}
	s.sessions[session.ID] = &sessionCopy
	return nil
}

func (s *MemorySessionStore) Get(sessionID string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, exists := s.sessions[sessionID]
	if !exists {
		return nil, ErrSessionNotFound
	}
	if session.Expired(time.Now()) {
		return nil, ErrSessionExpired
	}
	sessionCopy := *session
	return &sessionCopy, nil
}

func (s *MemorySessionStore) Consume(sessionID string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, exists := s.sessions[sessionID]
	if !exists {
		return nil, ErrSessionNotFound
	}
	if session.Expired(time.Now()) {
		return nil, ErrSessionExpired
	}
	if session.Consumed {
		return nil, ErrSessionConsumed
	}
	session.Consumed = true

	sessionCopy := *session
	return &sessionCopy, nil
}

func (s *MemorySessionStore) SweepExpired(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, session := range s.sessions {
		if session.Expired(now) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// Len reports the number of stored sessions, expired ones included.
func (s *MemorySessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
