// Package engine composes the cryptographic core, the storage collaborators,
// the session protocol and the decision policy into the operations a thin API
// layer calls: key generation, credential issuance and validation, challenge
// requests and verify-and-decide.
package engine

import (
	"time"

	"github.com/go-errors/errors"

	"github.com/verifid/sigma"
	"github.com/verifid/sigma/big"
	"github.com/verifid/sigma/policy"
	"github.com/verifid/sigma/session"
	"github.com/verifid/sigma/storage"
)

// Config assembles an Engine. Zero values select the defaults noted per field.
type Config struct {
	// Params is the proof group; nil selects sigma.DefaultParameters.
	Params *sigma.GroupParameters

	// MasterSecret keys credential signing and validation. Required,
	// at least 16 bytes.
	MasterSecret []byte

	// Issuer names the issuing authority on credentials.
	Issuer string

	// CredentialValidity bounds issued credentials; zero selects
	// sigma.DefaultValidity.
	CredentialValidity time.Duration

	// SessionTTL bounds challenge sessions; zero selects session.DefaultTTL.
	SessionTTL time.Duration

	// Registry and Sessions default to the in-memory implementations.
	Registry storage.Registry
	Sessions storage.SessionStore

	// Predicate holds the relying party's eligibility rules; nil grants on
	// valid proof and credential alone.
	Predicate policy.Predicate
}

// Engine is the composed verification authority.
type Engine struct {
	params    *sigma.GroupParameters
	signer    *sigma.Signer
	validator *sigma.Validator
	registry  storage.Registry
	sessions  *session.Manager
	policy    *policy.Engine
}

// Challenge is what a holder receives on a challenge request.
type Challenge struct {
	SessionID string   `json:"session_id"`
	Challenge *big.Int `json:"challenge"`
}

// Verdict is the outcome of verify-and-decide.
type Verdict struct {
	Eligible bool           `json:"eligible"`
	Decision policy.Outcome `json:"decision"`
	Reasons  []string       `json:"reasons"`
}

// New builds an Engine from the configuration.
func New(cfg Config) (*Engine, error) {
	if len(cfg.MasterSecret) == 0 {
		return nil, errors.New("master secret is required")
	}

	params := cfg.Params
	if params == nil {
		params = sigma.DefaultParameters()
	}

	signer, err := sigma.NewSigner(cfg.MasterSecret, cfg.Issuer)
	if err != nil {
		return nil, err
	}
	if cfg.CredentialValidity > 0 {
		signer.SetValidity(cfg.CredentialValidity)
	}

	registry := cfg.Registry
	if registry == nil {
		registry = storage.NewMemoryRegistry()
	}
	sessionStore := cfg.Sessions
	if sessionStore == nil {
		sessionStore = storage.NewMemorySessionStore()
	}

	return &Engine{
		params:    params,
		signer:    signer,
		validator: signer.Validator(),
		registry:  registry,
		sessions:  session.NewManager(registry, sessionStore, params, cfg.SessionTTL),
		policy:    policy.NewEngine(cfg.Predicate),
	}, nil
}

// Params returns the engine's group parameters.
func (e *Engine) Params() *sigma.GroupParameters {
	return e.params
}

// Sessions exposes the session manager, e.g. to start its expiry sweeper.
func (e *Engine) Sessions() *session.Manager {
	return e.sessions
}

// GenerateKeyPair draws a fresh holder key pair over the engine's group.
func (e *Engine) GenerateKeyPair() (*sigma.KeyPair, error) {
	return sigma.GenerateKeyPair(e.params)
}

// IssueCredential signs a credential over the subject's attributes and public
// key and registers the certified key, replacing any previous registration for
// the subject.
func (e *Engine) IssueCredential(subjectID string, attrs sigma.Attributes, publicKey *big.Int) (*sigma.Credential, error) {
	cred, err := e.signer.Sign(subjectID, attrs, publicKey)
	if err != nil {
		return nil, err
	}

	err = e.registry.Upsert(&storage.Entry{
		SubjectID:  subjectID,
		PublicKey:  publicKey,
		Credential: cred,
	})
	if err != nil {
		return nil, err
	}

	if digest, err := cred.Digest(); err == nil {
		sigma.Logger.WithFields(map[string]interface{}{
			"subject_id": subjectID,
			"credential": digest.B58String(),
		}).Info("credential issued")
	}
	return cred, nil
}

// ValidateCredential checks a credential against the engine's verification key.
func (e *Engine) ValidateCredential(cred *sigma.Credential) bool {
	return e.validator.Validate(cred)
}

// RequestChallenge opens a single-use challenge session for a registered
// subject.
func (e *Engine) RequestChallenge(subjectID string) (*Challenge, error) {
	s, err := e.sessions.Issue(subjectID)
	if err != nil {
		return nil, err
	}
	return &Challenge{SessionID: s.ID, Challenge: s.Challenge}, nil
}

// VerifyAndDecide consumes the session, verifies the proof against the
// subject's registered key, validates the registered credential and applies
// the decision policy. A failed proof or credential yields an eligible=false
// verdict, not an error; errors are reserved for invalid sessions and unknown
// subjects.
func (e *Engine) VerifyAndDecide(sessionID, subjectID string, proof *sigma.Proof) (*Verdict, error) {
	proofValid, err := e.sessions.VerifyAndConsume(sessionID, subjectID, proof)
	if err != nil {
		return nil, err
	}

	entry, err := e.registry.Lookup(subjectID)
	if err != nil {
		return nil, session.ErrNotRegistered
	}

	credentialValid := e.validator.Validate(entry.Credential)
	var attrs sigma.Attributes
	if entry.Credential != nil {
		attrs = entry.Credential.Attributes
	}

	decision := e.policy.Decide(proofValid, credentialValid, attrs)
	return &Verdict{
		Eligible: decision.Granted(),
		Decision: decision.Outcome,
		Reasons:  decision.Reasons,
	}, nil
}
