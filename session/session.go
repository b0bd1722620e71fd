// Package session implements the challenge-session protocol gating every
// verification attempt. A session is issued for a registered subject with a
// fresh unpredictable challenge, and is consumed exactly once on the first
// verification attempt against it, valid or not, so a challenge can never be
// ground down by repeated tries and a captured proof can never be replayed.
package session

import (
	"time"

	"github.com/go-errors/errors"
	"github.com/google/uuid"

	"github.com/verifid/sigma"
	"github.com/verifid/sigma/storage"
)

// DefaultTTL bounds how long an unconsumed session stays usable.
const DefaultTTL = 5 * time.Minute

var (
	// ErrNotRegistered indicates the subject has no certified public key.
	ErrNotRegistered = errors.New("subject not registered")

	// ErrSessionInvalid covers unknown, expired and already-consumed sessions.
	// The three cases are deliberately indistinguishable to callers.
	ErrSessionInvalid = errors.New("session invalid")
)

// Manager issues and consumes challenge sessions.
type Manager struct {
	registry storage.Registry
	sessions storage.SessionStore
	verifier *sigma.Verifier
	params   *sigma.GroupParameters
	ttl      time.Duration

	sweepDone chan struct{}
}

// NewManager creates a session manager over the given collaborators. A ttl of
// zero selects DefaultTTL.
func NewManager(registry storage.Registry, sessions storage.SessionStore, params *sigma.GroupParameters, ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Manager{
		registry: registry,
		sessions: sessions,
		verifier: sigma.NewVerifier(params),
		params:   params,
		ttl:      ttl,
	}
}

// Issue creates a single-use challenge session for a registered subject.
// Unknown subjects fail with ErrNotRegistered.
func (m *Manager) Issue(subjectID string) (*storage.Session, error) {
	if _, err := m.registry.Lookup(subjectID); err != nil {
		if err == storage.ErrSubjectNotFound {
			return nil, ErrNotRegistered
		}
		return nil, err
	}

	challenge, err := m.params.RandomChallenge()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	session := &storage.Session{
		ID:        uuid.NewString(),
		SubjectID: subjectID,
		Challenge: challenge,
		CreatedAt: now,
		ExpiresAt: now.Add(m.ttl),
	}
	if err := m.sessions.Create(session); err != nil {
		return nil, err
	}

	sigma.Logger.WithFields(map[string]interface{}{
		"session_id": session.ID,
		"subject_id": subjectID,
	}).Debug("challenge session issued")
	return session, nil
}

// VerifyAndConsume checks a proof against the session's challenge and the
// subject's registered public key. The session is consumed first, atomically
// and unconditionally: a failed proof burns the challenge just like a valid
// one. Unknown, expired, consumed or foreign sessions all fail with
// ErrSessionInvalid; when the session was valid, the returned bool carries the
// proof verdict and nothing more.
func (m *Manager) VerifyAndConsume(sessionID, subjectID string, proof *sigma.Proof) (bool, error) {
	session, err := m.sessions.Consume(sessionID)
	if err != nil {
		sigma.Logger.WithField("session_id", sessionID).WithError(err).Debug("session consumption refused")
		return false, ErrSessionInvalid
	}
	if session.SubjectID != subjectID {
		return false, ErrSessionInvalid
	}

	entry, err := m.registry.Lookup(subjectID)
	if err != nil {
		return false, ErrNotRegistered
	}

	return m.verifier.Verify(entry.PublicKey, session.Challenge, proof), nil
}

// StartSweeper launches a goroutine dropping expired sessions at the given
// interval, until Close is called. Purely a liveness measure; expired sessions
// are refused by Consume regardless.
func (m *Manager) StartSweeper(interval time.Duration) {
	if m.sweepDone != nil {
		return
	}
	m.sweepDone = make(chan struct{})
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if removed := m.sessions.SweepExpired(time.Now().UTC()); removed > 0 {
					sigma.Logger.WithField("removed", removed).Debug("expired sessions swept")
				}
			case <-m.sweepDone:
				return
			}
		}
	}()
}

// Close stops the sweeper if one is running.
func (m *Manager) Close() {
	if m.sweepDone != nil {
		close(m.sweepDone)
		m.sweepDone = nil
	}
}
