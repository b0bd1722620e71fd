// Package big contains a mostly API-compatible "math/big".Int that marshals to and
// from decimal strings, so that group elements larger than any native integer cross
// process boundaries without precision loss.
package big

import (
	cryptorand "crypto/rand"
	"encoding/json"
	"io"
	"math/big"

	"github.com/fxamacker/cbor/v2"
	"github.com/go-errors/errors"
)

// Int is an API-compatible "math/big".Int that JSON-marshals to and from decimal
// strings. Only supports positive integers.
type Int big.Int

// MarshalText implements encoding.TextMarshaler, returning the base 10
// representation of i.
func (i *Int) MarshalText() ([]byte, error) {
	if i.Sign() == -1 {
		return nil, errors.New("marshaling negative integers is not supported")
	}
	return []byte(i.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler, parsing a base 10 integer.
func (i *Int) UnmarshalText(text []byte) error {
	if _, ok := i.SetString(string(text), 10); !ok {
		return errors.New("input was not a base 10 integer")
	}
	if i.Sign() == -1 {
		return errors.New("unmarshaling negative integers is not supported")
	}
	return nil
}

// MarshalJSON implements json.Marshaler, encoding i as a decimal string.
func (i *Int) MarshalJSON() ([]byte, error) {
	text, err := i.MarshalText()
	if err != nil {
		return nil, err
	}
	return json.Marshal(string(text))
}

// UnmarshalJSON implements json.Unmarshaler. A quoted input is parsed as a decimal
// string; an unquoted input is parsed as an ordinary JSON big integer.
func (i *Int) UnmarshalJSON(b []byte) error {
	if len(b) == 0 {
		return errors.New("empty input")
	}
	if b[0] != '"' {
		return json.Unmarshal(b, i.Go())
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	return i.UnmarshalText([]byte(s))
}

// MarshalCBOR encodes i as a CBOR byte string holding its big-endian bytes.
func (i *Int) MarshalCBOR() ([]byte, error) {
	if i.Sign() == -1 {
		return nil, errors.New("marshaling negative integers is not supported")
	}
	return cbor.Marshal(i.Bytes())
}

// UnmarshalCBOR decodes a CBOR byte string into i.
func (i *Int) UnmarshalCBOR(data []byte) error {
	var bts []byte
	if err := cbor.Unmarshal(data, &bts); err != nil {
		return err
	}
	i.SetBytes(bts)
	return nil
}

// RandInt wraps "crypto/rand".Int: returns a uniform random value in [0, max).
// It panics if max <= 0.
func RandInt(rnd io.Reader, max *Int) (*Int, error) {
	i, err := cryptorand.Int(rnd, max.Go())
	return Convert(i), err
}

// Convert from a "math/big".Int
func Convert(x *big.Int) *Int {
	return (*Int)(x)
}

// Convert to a "math/big".Int
func (i *Int) Go() *big.Int {
	return (*big.Int)(i)
}

// "math/big".Int API
// We are liberal with using the conversion functions above; these are inlined by the compiler.

func NewInt(x int64) *Int { return Convert(big.NewInt(x)) }

func (i *Int) Bit(j int) uint           { return i.Go().Bit(j) }
func (i *Int) Bytes() []byte            { return i.Go().Bytes() }
func (i *Int) BitLen() int              { return i.Go().BitLen() }
func (i *Int) Int64() int64             { return i.Go().Int64() }
func (i *Int) Uint64() uint64           { return i.Go().Uint64() }
func (i *Int) IsInt64() bool            { return i.Go().IsInt64() }
func (i *Int) Sign() int                { return i.Go().Sign() }
func (i *Int) Cmp(y *Int) int           { return i.Go().Cmp(y.Go()) }
func (i *Int) ProbablyPrime(n int) bool { return i.Go().ProbablyPrime(n) }
func (i *Int) String() string           { return i.Go().String() }
func (i *Int) Bits() []big.Word         { return i.Go().Bits() }
func (i *Int) SetInt64(x int64) *Int    { return Convert(i.Go().SetInt64(x)) }
func (i *Int) SetUint64(x uint64) *Int  { return Convert(i.Go().SetUint64(x)) }
func (i *Int) Set(x *Int) *Int          { return Convert(i.Go().Set(x.Go())) }
func (i *Int) Add(x, y *Int) *Int       { return Convert(i.Go().Add(x.Go(), y.Go())) }
func (i *Int) Sub(x, y *Int) *Int       { return Convert(i.Go().Sub(x.Go(), y.Go())) }
func (i *Int) Mul(x, y *Int) *Int       { return Convert(i.Go().Mul(x.Go(), y.Go())) }
func (i *Int) Div(x, y *Int) *Int       { return Convert(i.Go().Div(x.Go(), y.Go())) }
func (i *Int) Mod(x, y *Int) *Int       { return Convert(i.Go().Mod(x.Go(), y.Go())) }
func (i *Int) SetBytes(buf []byte) *Int { return Convert(i.Go().SetBytes(buf)) }
func (i *Int) Lsh(x *Int, n uint) *Int  { return Convert(i.Go().Lsh(x.Go(), n)) }
func (i *Int) Rsh(x *Int, n uint) *Int  { return Convert(i.Go().Rsh(x.Go(), n)) }

func (i *Int) Exp(x, y, m *Int) *Int {
	return Convert(i.Go().Exp(x.Go(), y.Go(), m.Go()))
}
func (i *Int) ModInverse(g, n *Int) *Int {
	return Convert(i.Go().ModInverse(g.Go(), n.Go()))
}
func (i *Int) SetString(s string, base int) (*Int, bool) {
	_, b := i.Go().SetString(s, base)
	return i, b
}
