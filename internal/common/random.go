package common

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"sync/atomic"

	"github.com/go-errors/errors"
	"github.com/verifid/sigma/big"
)

// CPRNG is a thread-safe cryptographically secure pseudo-random number generator:
// AES-256 in counter mode, keyed with a seed drawn once from the system random
// source. Sharing one seeded instance avoids a kernel round-trip per draw.
type CPRNG struct {
	block   cipher.Block
	counter uint64
}

// NewCPRNG returns a CPRNG keyed with the given 32-byte seed.
func NewCPRNG(seed *[32]byte) (*CPRNG, error) {
	block, err := aes.NewCipher(seed[:])
	if err != nil {
		return nil, err
	}
	return &CPRNG{block: block}, nil
}

// Read fills buf with random bytes. It never returns an error.
func (c *CPRNG) Read(buf []byte) (int, error) {
	n := len(buf)
	if n == 0 {
		return 0, nil
	}

	blocks := uint64((n + 15) / 16)
	// Reserve a contiguous counter range so concurrent readers never overlap.
	ctr := atomic.AddUint64(&c.counter, blocks) - blocks

	var pt, ct [16]byte
	for len(buf) > 0 {
		binary.LittleEndian.PutUint64(pt[:], ctr)
		ctr++
		c.block.Encrypt(ct[:], pt[:])
		m := copy(buf, ct[:])
		buf = buf[m:]
	}
	return n, nil
}

var globalCprng *CPRNG

// The process must not come up with a broken random source: key generation,
// nonces and challenges all depend on it, and a predictable fallback would
// silently void every security property. Hence init panics instead of degrading.
func init() {
	var seed [32]byte
	if _, err := rand.Reader.Read(seed[:]); err != nil {
		panic(fmt.Sprintf("failed to seed CPRNG from system random source: %v", err))
	}
	cprng, err := NewCPRNG(&seed)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize CPRNG: %v", err))
	}
	globalCprng = cprng
}

var bigTWO = big.NewInt(2)

// RandomInRange returns a uniform random integer in [1, upper). It samples
// upper.BitLen() bits and rejects draws that are zero or >= upper, so the
// result carries no modulo bias.
func RandomInRange(upper *big.Int) (*big.Int, error) {
	if upper == nil || upper.Cmp(bigTWO) < 0 {
		return nil, errors.New("upper bound must exceed 1")
	}

	bits := upper.BitLen()
	buf := make([]byte, (bits+7)/8)
	defer ZeroBytes(buf)
	excess := uint(len(buf)*8 - bits)

	r := new(big.Int)
	for {
		if _, err := globalCprng.Read(buf); err != nil {
			return nil, errors.WrapPrefix(err, "secure random source unavailable", 0)
		}
		buf[0] &= 0xff >> excess
		r.SetBytes(buf)
		if r.Sign() != 0 && r.Cmp(upper) < 0 {
			return r, nil
		}
	}
}

// RandomBits returns a uniform random integer in [1, 2^bits).
func RandomBits(bits uint) (*big.Int, error) {
	return RandomInRange(new(big.Int).Lsh(big.NewInt(1), bits))
}
