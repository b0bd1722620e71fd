package sigma

import (
	"github.com/verifid/sigma/big"
	"github.com/verifid/sigma/internal/common"
)

// KeyPair holds a holder's secret exponent and the corresponding group element
// Public = G^Secret mod P. The secret never leaves the holder's process; only
// Public is shared with the issuer and relying parties.
type KeyPair struct {
	Secret *big.Int `json:"secret"`
	Public *big.Int `json:"public"`
}

// GenerateKeyPair draws a fresh secret in [1, Q) and derives its public key.
func GenerateKeyPair(params *GroupParameters) (*KeyPair, error) {
	secret, err := params.RandomScalar()
	if err != nil {
		return nil, err
	}
	return &KeyPair{
		Secret: secret,
		Public: params.ExpG(secret),
	}, nil
}

// DerivePublicKey recomputes the public key for a given secret exponent.
func DerivePublicKey(params *GroupParameters, secret *big.Int) *big.Int {
	return params.ExpG(secret)
}

// Verify reports whether Public matches G^Secret mod P.
func (k *KeyPair) Verify(params *GroupParameters) bool {
	if k == nil || k.Secret == nil || k.Public == nil {
		return false
	}
	return params.ExpG(k.Secret).Cmp(k.Public) == 0
}

// Zero clears the secret exponent. The pair is unusable for proving afterwards.
func (k *KeyPair) Zero() {
	if k == nil {
		return
	}
	common.Zero(k.Secret)
}
