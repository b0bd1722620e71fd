package sigma

import (
	"sync"

	"github.com/bwesterb/go-exptable"
	"github.com/go-errors/errors"
	"github.com/verifid/sigma/big"
	"github.com/verifid/sigma/internal/common"
)

// GroupParameters describes the fixed cyclic group all proofs are computed in:
// a safe prime modulus P, the prime order Q = (P-1)/2 of the quadratic-residue
// subgroup, and a generator G of that subgroup. A value is immutable once
// constructed and is shared by reference between holder, issuer and verifier.
type GroupParameters struct {
	P *big.Int `json:"p"` // modulus
	Q *big.Int `json:"q"` // subgroup order
	G *big.Int `json:"g"` // generator

	gTable *exptable.Table
}

// rfc3526Group2048 is the 2048-bit MODP group from RFC 3526 with generator 2,
// the group the credential system has always run on.
const rfc3526Group2048 = "FFFFFFFFFFFFFFFFC90FDAA22168C234C4C6628B80DC1CD1" +
	"29024E088A67CC74020BBEA63B139B22514A08798E3404DD" +
	"EF9519B3CD3A431B302B0A6DF25F14374FE1356D6D51C245" +
	"E485B576625E7EC6F44C42E9A637ED6B0BFF5CB6F406B7ED" +
	"EE386BFB5A899FA5AE9F24117C4B1FE649286651ECE45B3D" +
	"C2007CB8A163BF0598DA48361C55D39A69163FA8FD24CF5F" +
	"83655D23DCA3AD961C62F356208552BB9ED529077096966D" +
	"670C354E4ABC9804F1746C08CA18217C32905E462E36CE3B" +
	"E39E772C180E86039B2783A2EC07A28FB5C55DF06F4C52C9" +
	"DE2BCBF6955817183995497CEA956AE515D2261898FA0510" +
	"15728E5A8AACAA68FFFFFFFFFFFFFFFF"

var (
	defaultParams     *GroupParameters
	defaultParamsOnce sync.Once
)

// DefaultParameters returns the process-wide default group, constructed once.
func DefaultParameters() *GroupParameters {
	defaultParamsOnce.Do(func() {
		p := new(big.Int)
		if _, ok := p.SetString(rfc3526Group2048, 16); !ok {
			panic("sigma: invalid built-in group modulus")
		}
		params, err := NewGroupParameters(p, big.NewInt(2))
		if err != nil {
			panic("sigma: invalid built-in group parameters: " + err.Error())
		}
		defaultParams = params
	})
	return defaultParams
}

// NewGroupParameters constructs and validates group parameters from a safe
// prime modulus p and a generator g. The order is derived as (p-1)/2. A
// fixed-base exponentiation table for g is precomputed; all later commitments
// and public keys amortize its cost.
func NewGroupParameters(p, g *big.Int) (*GroupParameters, error) {
	if p == nil || g == nil {
		return nil, errors.New("group parameters must not be nil")
	}
	if p.Bit(0) == 0 || !p.ProbablyPrime(40) {
		return nil, errors.New("modulus is not an odd prime")
	}
	q := new(big.Int).Rsh(p, 1)
	if !q.ProbablyPrime(40) {
		return nil, errors.New("(p-1)/2 is not prime, p is not a safe prime")
	}

	pMinusOne := new(big.Int).Sub(p, big.NewInt(1))
	if g.Cmp(big.NewInt(1)) <= 0 || g.Cmp(pMinusOne) >= 0 {
		return nil, errors.New("generator out of range (1, p-1)")
	}
	if common.ModExp(g, q, p).Cmp(big.NewInt(1)) != 0 {
		return nil, errors.New("generator does not generate the order-q subgroup")
	}

	params := &GroupParameters{P: p, Q: q, G: g}
	params.gTable = new(exptable.Table)
	params.gTable.Compute(g.Go(), p.Go(), 7)
	return params, nil
}

// Exp computes base^exponent mod P.
func (p *GroupParameters) Exp(base, exponent *big.Int) *big.Int {
	return common.ModExp(base, exponent, p.P)
}

// ExpG computes G^exponent mod P, using the precomputed table when the
// exponent is a subgroup scalar.
func (p *GroupParameters) ExpG(exponent *big.Int) *big.Int {
	if p.gTable == nil || exponent.Sign() < 0 || exponent.Cmp(p.Q) >= 0 {
		return common.ModExp(p.G, exponent, p.P)
	}
	result := new(big.Int)
	p.gTable.Exp(result.Go(), exponent.Go())
	return result
}

// RandomScalar draws a uniform random exponent in [1, Q).
func (p *GroupParameters) RandomScalar() (*big.Int, error) {
	r, err := common.RandomInRange(p.Q)
	if err != nil {
		Logger.WithError(err).Error("random scalar generation failed")
		return nil, ErrRandomSource
	}
	return r, nil
}

// RandomChallenge draws a uniform random challenge in [1, 2^ChallengeBits).
func (p *GroupParameters) RandomChallenge() (*big.Int, error) {
	c, err := common.RandomBits(ChallengeBits)
	if err != nil {
		Logger.WithError(err).Error("challenge generation failed")
		return nil, ErrRandomSource
	}
	return c, nil
}
