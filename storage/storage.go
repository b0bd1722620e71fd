// Package storage defines the persistence collaborators the verification core
// depends on: a registry of certified public keys and a session store with
// atomic one-time consumption. In-memory implementations suitable for tests
// and single-process deployments are included; production deployments can back
// the interfaces with any record store.
package storage

import (
	"time"

	"github.com/go-errors/errors"

	"github.com/verifid/sigma"
	"github.com/verifid/sigma/big"
)

var (
	// ErrSubjectNotFound indicates the subject has no registered entry.
	ErrSubjectNotFound = errors.New("subject not found")

	// ErrSubjectExists indicates the subject is already registered.
	ErrSubjectExists = errors.New("subject already registered")

	// ErrSessionNotFound indicates an unknown session id.
	ErrSessionNotFound = errors.New("session not found")

	// ErrSessionExpired indicates the session outlived its window.
	ErrSessionExpired = errors.New("session expired")

	// ErrSessionConsumed indicates the session was already consumed.
	ErrSessionConsumed = errors.New("session already consumed")
)

// Entry is a registry record: a subject's certified public key and the
// credential that certified it.
type Entry struct {
	SubjectID    string            `json:"subject_id"`
	PublicKey    *big.Int          `json:"public_key"`
	Credential   *sigma.Credential `json:"credential"`
	RegisteredAt time.Time         `json:"registered_at"`
}

// Registry stores certified public keys by subject id.
type Registry interface {
	// Register inserts an entry, failing with ErrSubjectExists if present.
	Register(entry *Entry) error

	// Upsert inserts or replaces an entry. Re-certification after key
	// rotation goes through this.
	Upsert(entry *Entry) error

	// Lookup returns the entry for a subject, or ErrSubjectNotFound.
	Lookup(subjectID string) (*Entry, error)
}

// Session is one challenge-response attempt. It is created unconsumed and
// transitions to consumed exactly once; expiry is terminal as well.
type Session struct {
	ID        string    `json:"session_id"`
	SubjectID string    `json:"subject_id"`
	Challenge *big.Int  `json:"challenge"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
	Consumed  bool      `json:"consumed"`
}

// Expired reports whether the session's time window has passed.
func (s *Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// SessionStore persists sessions and enforces one-time consumption.
type SessionStore interface {
	// Create persists a new session.
	Create(session *Session) error

	// Get returns a copy of the session, or ErrSessionNotFound/ErrSessionExpired.
	Get(sessionID string) (*Session, error)

	// Consume atomically flips the consumed flag from false to true and
	// returns the session as it was at consumption. Concurrent calls for the
	// same id admit exactly one winner; the rest fail with ErrSessionConsumed.
	Consume(sessionID string) (*Session, error)

	// SweepExpired drops sessions whose window has passed and reports how
	// many were removed.
	SweepExpired(now time.Time) int
}
