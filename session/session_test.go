package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verifid/sigma"
	"github.com/verifid/sigma/big"
	"github.com/verifid/sigma/storage"
)

type fixture struct {
	params  *sigma.GroupParameters
	manager *Manager
	keyPair *sigma.KeyPair
	prover  *sigma.Prover
}

func newFixture(t *testing.T, ttl time.Duration) *fixture {
	t.Helper()
	params := sigma.DefaultParameters()

	keyPair, err := sigma.GenerateKeyPair(params)
	require.NoError(t, err)

	registry := storage.NewMemoryRegistry()
	require.NoError(t, registry.Register(&storage.Entry{
		SubjectID: "alice",
		PublicKey: keyPair.Public,
	}))

	return &fixture{
		params:  params,
		manager: NewManager(registry, storage.NewMemorySessionStore(), params, ttl),
		keyPair: keyPair,
		prover:  sigma.NewProver(params, keyPair.Secret),
	}
}

func TestIssueUnknownSubject(t *testing.T) {
	f := newFixture(t, 0)
	_, err := f.manager.Issue("nobody")
	assert.Equal(t, ErrNotRegistered, err)
}

func TestIssueAndVerify(t *testing.T) {
	f := newFixture(t, 0)

	session, err := f.manager.Issue("alice")
	require.NoError(t, err)
	assert.NotEmpty(t, session.ID)
	assert.True(t, session.Challenge.Sign() > 0)
	assert.False(t, session.Consumed)

	proof, err := f.prover.Prove(session.Challenge)
	require.NoError(t, err)

	valid, err := f.manager.VerifyAndConsume(session.ID, "alice", proof)
	require.NoError(t, err)
	assert.True(t, valid)
}

func TestChallengesAreUnique(t *testing.T) {
	f := newFixture(t, 0)

	a, err := f.manager.Issue("alice")
	require.NoError(t, err)
	b, err := f.manager.Issue("alice")
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)
	assert.NotEqual(t, 0, a.Challenge.Cmp(b.Challenge))
}

// Replay: the identical valid proof is refused on the second attempt.
func TestReplayRejected(t *testing.T) {
	f := newFixture(t, 0)

	session, err := f.manager.Issue("alice")
	require.NoError(t, err)
	proof, err := f.prover.Prove(session.Challenge)
	require.NoError(t, err)

	valid, err := f.manager.VerifyAndConsume(session.ID, "alice", proof)
	require.NoError(t, err)
	assert.True(t, valid)

	_, err = f.manager.VerifyAndConsume(session.ID, "alice", proof)
	assert.Equal(t, ErrSessionInvalid, err)
}

// A failed proof burns the challenge: no grinding across repeated attempts.
func TestFailedProofConsumesSession(t *testing.T) {
	f := newFixture(t, 0)

	session, err := f.manager.Issue("alice")
	require.NoError(t, err)

	garbage := &sigma.Proof{
		Commitment: big.NewInt(1),
		Response:   big.NewInt(1),
		Challenge:  session.Challenge,
	}
	valid, err := f.manager.VerifyAndConsume(session.ID, "alice", garbage)
	require.NoError(t, err)
	assert.False(t, valid)

	// The genuine proof arrives too late.
	proof, err := f.prover.Prove(session.Challenge)
	require.NoError(t, err)
	_, err = f.manager.VerifyAndConsume(session.ID, "alice", proof)
	assert.Equal(t, ErrSessionInvalid, err)
}

func TestSubjectMismatch(t *testing.T) {
	f := newFixture(t, 0)

	session, err := f.manager.Issue("alice")
	require.NoError(t, err)
	proof, err := f.prover.Prove(session.Challenge)
	require.NoError(t, err)

	_, err = f.manager.VerifyAndConsume(session.ID, "mallory", proof)
	assert.Equal(t, ErrSessionInvalid, err)
}

func TestUnknownSession(t *testing.T) {
	f := newFixture(t, 0)
	_, err := f.manager.VerifyAndConsume("no-such-session", "alice", &sigma.Proof{})
	assert.Equal(t, ErrSessionInvalid, err)
}

func TestExpiredSession(t *testing.T) {
	f := newFixture(t, time.Millisecond)

	session, err := f.manager.Issue("alice")
	require.NoError(t, err)
	proof, err := f.prover.Prove(session.Challenge)
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)
	_, err = f.manager.VerifyAndConsume(session.ID, "alice", proof)
	assert.Equal(t, ErrSessionInvalid, err)
}

func TestSweeper(t *testing.T) {
	f := newFixture(t, time.Millisecond)

	_, err := f.manager.Issue("alice")
	require.NoError(t, err)

	f.manager.StartSweeper(2 * time.Millisecond)
	defer f.manager.Close()

	time.Sleep(20 * time.Millisecond)
	_, err = f.manager.VerifyAndConsume("anything", "alice", &sigma.Proof{})
	assert.Equal(t, ErrSessionInvalid, err)
}
