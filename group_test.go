package sigma

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/verifid/sigma/big"
	"github.com/verifid/sigma/internal/common"
)

func TestDefaultParameters(t *testing.T) {
	params := DefaultParameters()

	assert.Equal(t, 2048, params.P.BitLen())
	assert.Equal(t, int64(2), params.G.Int64())

	// Q = (P-1)/2
	q := new(big.Int).Rsh(params.P, 1)
	assert.Equal(t, 0, q.Cmp(params.Q))

	// G generates the order-Q subgroup: G^Q == 1 (mod P)
	assert.Equal(t, int64(1), common.ModExp(params.G, params.Q, params.P).Int64())

	// Constructed once, shared by reference.
	assert.Same(t, params, DefaultParameters())
}

func TestNewGroupParametersRejectsBadInput(t *testing.T) {
	params := DefaultParameters()

	_, err := NewGroupParameters(nil, big.NewInt(2))
	assert.Error(t, err)

	// Composite modulus.
	_, err = NewGroupParameters(big.NewInt(15), big.NewInt(2))
	assert.Error(t, err)

	// Prime, but not a safe prime: (13-1)/2 = 6.
	_, err = NewGroupParameters(big.NewInt(13), big.NewInt(2))
	assert.Error(t, err)

	// Generator out of range.
	_, err = NewGroupParameters(params.P, big.NewInt(1))
	assert.Error(t, err)
	_, err = NewGroupParameters(params.P, new(big.Int).Sub(params.P, big.NewInt(1)))
	assert.Error(t, err)
}

func TestExpGMatchesGenericExp(t *testing.T) {
	params := DefaultParameters()

	exp, err := params.RandomScalar()
	require.NoError(t, err)

	viaTable := params.ExpG(exp)
	viaGeneric := params.Exp(params.G, exp)
	assert.Equal(t, 0, viaTable.Cmp(viaGeneric))
}

func TestRandomScalarRange(t *testing.T) {
	params := DefaultParameters()
	for i := 0; i < 20; i++ {
		s, err := params.RandomScalar()
		require.NoError(t, err)
		assert.True(t, s.Sign() > 0)
		assert.True(t, s.Cmp(params.Q) < 0)
	}
}

func TestRandomChallengeRange(t *testing.T) {
	params := DefaultParameters()
	limit := new(big.Int).Lsh(big.NewInt(1), ChallengeBits)
	for i := 0; i < 20; i++ {
		c, err := params.RandomChallenge()
		require.NoError(t, err)
		assert.True(t, c.Sign() > 0)
		assert.True(t, c.Cmp(limit) < 0)
	}
}
