package common

import (
	"crypto/sha256"
	"encoding/asn1"

	"github.com/verifid/sigma/big"

	gobig "math/big"
)

// HashChallenge computes the SHA-256 hash over the ASN.1 encoding of a domain
// label, the number of integers, and the integers themselves, and returns it
// as a positive 256-bit integer. The length prefix and the domain label keep
// hashes computed in different protocol contexts from colliding.
func HashChallenge(domain string, values ...*big.Int) *big.Int {
	tmp := make([]interface{}, len(values)+2)
	tmp[0] = []byte(domain)
	tmp[1] = gobig.NewInt(int64(len(values)))
	for i, v := range values {
		tmp[i+2] = v.Go()
	}
	r, err := asn1.Marshal(tmp)
	if err != nil {
		panic(err) // Marshal should never error, so panic if it does
	}

	sha := sha256.Sum256(r)
	return new(big.Int).SetBytes(sha[:])
}

// IntHashSHA256 computes the SHA-256 hash over a byte slice and returns it as
// a big integer.
func IntHashSHA256(input []byte) *big.Int {
	h := sha256.Sum256(input)
	return new(big.Int).SetBytes(h[:])
}
