package sigma

import (
	"github.com/verifid/sigma/big"
	"github.com/verifid/sigma/internal/common"
)

// ChallengeBits is the size of the challenge space. A cheating prover passes
// verification with probability at most 2^-ChallengeBits per attempt.
const ChallengeBits = 256

// challengeDomain separates Fiat-Shamir challenge hashes from any other hash
// computed over group elements.
const challengeDomain = "sigma/v1/challenge"

// Commitment is the first move of the protocol: an ephemeral secret nonce in
// [1, Q) and its public image Value = G^Nonce mod P. The nonce is single-use;
// reusing it across two challenges lets anyone solve for the secret key.
type Commitment struct {
	Nonce *big.Int
	Value *big.Int
}

// Zero clears the nonce.
func (c *Commitment) Zero() {
	if c == nil {
		return
	}
	common.Zero(c.Nonce)
}

// Proof is the transcript a verifier checks: the commitment value, the
// response (nonce + challenge*secret) mod Q, and the challenge it answers.
// This is the single canonical proof shape; no alternative field layouts are
// accepted.
type Proof struct {
	Commitment *big.Int `json:"commitment"`
	Response   *big.Int `json:"response"`
	Challenge  *big.Int `json:"challenge"`
}

// Prover produces proofs of knowledge of a secret exponent.
type Prover struct {
	params *GroupParameters
	secret *big.Int
	public *big.Int
}

// NewProver returns a prover for the given secret exponent.
func NewProver(params *GroupParameters, secret *big.Int) *Prover {
	return &Prover{
		params: params,
		secret: secret,
		public: params.ExpG(secret),
	}
}

// Public returns the public key matching the prover's secret.
func (p *Prover) Public() *big.Int {
	return new(big.Int).Set(p.public)
}

// Commit draws a fresh nonce and computes its commitment value. Call exactly
// once per proof attempt; the nonce must be consumed by a single Respond and
// then discarded.
func (p *Prover) Commit() (*Commitment, error) {
	nonce, err := p.params.RandomScalar()
	if err != nil {
		return nil, err
	}
	return &Commitment{
		Nonce: nonce,
		Value: p.params.ExpG(nonce),
	}, nil
}

// Respond computes (nonce + challenge*secret) mod order. It is a pure
// function; it retains neither the nonce nor the secret.
func Respond(nonce, challenge, secret, order *big.Int) *big.Int {
	response := new(big.Int).Mul(challenge, secret)
	response.Add(response, nonce)
	return response.Mod(response, order)
}

// Prove runs commit and respond against an externally supplied challenge and
// assembles the proof. The ephemeral nonce is cleared before returning, on
// error paths included.
func (p *Prover) Prove(challenge *big.Int) (*Proof, error) {
	if challenge == nil || challenge.Sign() < 0 {
		return nil, ErrMalformedInput
	}
	commitment, err := p.Commit()
	if err != nil {
		return nil, err
	}
	defer commitment.Zero()

	return &Proof{
		Commitment: commitment.Value,
		Response:   Respond(commitment.Nonce, challenge, p.secret, p.params.Q),
		Challenge:  new(big.Int).Set(challenge),
	}, nil
}

// ProveNonInteractive produces a proof whose challenge is derived from the
// transcript and the given message via the Fiat-Shamir heuristic, removing the
// round-trip to the verifier.
func (p *Prover) ProveNonInteractive(message []byte) (*Proof, error) {
	commitment, err := p.Commit()
	if err != nil {
		return nil, err
	}
	defer commitment.Zero()

	challenge := deriveChallenge(p.params, p.public, commitment.Value, message)
	return &Proof{
		Commitment: commitment.Value,
		Response:   Respond(commitment.Nonce, challenge, p.secret, p.params.Q),
		Challenge:  challenge,
	}, nil
}

// deriveChallenge binds the challenge to the group, the public key, the
// commitment and the message.
func deriveChallenge(params *GroupParameters, public, commitment *big.Int, message []byte) *big.Int {
	return common.HashChallenge(challengeDomain,
		params.G, public, commitment, common.IntHashSHA256(message))
}

// Verifier checks proofs against registered public keys.
type Verifier struct {
	params *GroupParameters
}

// NewVerifier returns a verifier over the given group.
func NewVerifier(params *GroupParameters) *Verifier {
	return &Verifier{params: params}
}

// Verify reports whether the proof demonstrates knowledge of the discrete log
// of public, for the challenge that was actually issued. It accepts iff
//
//	G^response == commitment * public^challenge  (mod P)
//
// and the proof echoes the issued challenge. Malformed or out-of-range fields
// yield false; Verify never panics on untrusted input, and it reports no
// detail on why a proof was rejected.
func (v *Verifier) Verify(public, challenge *big.Int, proof *Proof) bool {
	if proof == nil || public == nil || challenge == nil ||
		proof.Commitment == nil || proof.Response == nil || proof.Challenge == nil {
		return false
	}

	// Proofs for a different challenge than the issued one are rejected before
	// any arithmetic: accepting them would let an attacker substitute a
	// transcript prepared against a challenge of their own choosing.
	if proof.Challenge.Cmp(challenge) != 0 {
		return false
	}

	one := big.NewInt(1)
	pMinusOne := new(big.Int).Sub(v.params.P, one)
	if public.Cmp(one) <= 0 || public.Cmp(pMinusOne) >= 0 {
		return false
	}
	if proof.Commitment.Sign() < 0 || proof.Commitment.Cmp(v.params.P) >= 0 {
		return false
	}
	if proof.Response.Sign() < 0 || proof.Response.Cmp(v.params.Q) >= 0 {
		return false
	}
	if challenge.Sign() < 0 {
		return false
	}

	lhs := v.params.ExpG(proof.Response)
	rhs := v.params.Exp(public, proof.Challenge)
	rhs.Mul(rhs, proof.Commitment).Mod(rhs, v.params.P)
	return lhs.Cmp(rhs) == 0
}

// VerifyNonInteractive checks a Fiat-Shamir proof for a message by
// reconstructing the challenge from the transcript.
func (v *Verifier) VerifyNonInteractive(public *big.Int, proof *Proof, message []byte) bool {
	if proof == nil || public == nil || proof.Commitment == nil {
		return false
	}
	expected := deriveChallenge(v.params, public, proof.Commitment, message)
	return v.Verify(public, expected, proof)
}
