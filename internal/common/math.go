package common

import (
	"github.com/verifid/sigma/big"
)

var (
	bigZERO = big.NewInt(0)
	bigONE  = big.NewInt(1)
)

// ModExp computes base^exponent mod modulus with binary square-and-multiply,
// scanning the exponent from its most significant bit down. An exponent of 0
// yields 1 for any base; a base outside [0, modulus) is reduced first.
// The exponent must be non-negative and the modulus positive; violating either
// is a programming error and panics.
func ModExp(base, exponent, modulus *big.Int) *big.Int {
	if modulus == nil || modulus.Sign() <= 0 {
		panic("ModExp: modulus must be positive")
	}
	if exponent == nil || exponent.Sign() < 0 {
		panic("ModExp: exponent must be non-negative")
	}
	if modulus.Cmp(bigONE) == 0 {
		return big.NewInt(0)
	}

	result := big.NewInt(1)
	b := new(big.Int).Mod(base, modulus)
	for i := exponent.BitLen() - 1; i >= 0; i-- {
		result.Mul(result, result).Mod(result, modulus)
		if exponent.Bit(i) == 1 {
			result.Mul(result, b).Mod(result, modulus)
		}
	}
	return result
}

// Zero overwrites the limbs of x and resets it to 0. Secret exponents and
// nonces are cleared through this on every exit path rather than waiting for
// the garbage collector.
func Zero(x *big.Int) {
	if x == nil {
		return
	}
	words := x.Bits()
	for i := range words {
		words[i] = 0
	}
	x.SetInt64(0)
}

// ZeroBytes overwrites b with zeros.
func ZeroBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
