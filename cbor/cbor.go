// Package cbor wraps github.com/fxamacker/cbor with encoding and decoding modes
// suitable for signed data:
//
//  1. Encoding uses Core Deterministic Encoding (RFC 8949 §4.2.1), so a value
//     has exactly one byte representation. The credential MAC is computed over
//     this encoding; a non-deterministic encoder would make signatures ambiguous.
//  2. Decoding rejects duplicate map keys and indefinite-length items.
package cbor

import (
	"github.com/fxamacker/cbor/v2" // imports as cbor
)

const maxContainerElements = 1024 * 16

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error
	encMode, err = cbor.EncOptions{
		InfConvert:    cbor.InfConvertFloat16,
		IndefLength:   cbor.IndefLengthForbidden,
		NaNConvert:    cbor.NaNConvert7e00,
		ShortestFloat: cbor.ShortestFloat16,
		Sort:          cbor.SortCoreDeterministic,
		TagsMd:        cbor.TagsForbidden,
	}.EncMode()
	if err != nil {
		panic(err)
	}

	decMode, err = cbor.DecOptions{
		IndefLength:      cbor.IndefLengthForbidden,
		DupMapKey:        cbor.DupMapKeyEnforcedAPF,
		MaxArrayElements: maxContainerElements,
		MaxMapPairs:      maxContainerElements,
		TagsMd:           cbor.TagsForbidden,
	}.DecMode()
	if err != nil {
		panic(err)
	}
}

// Marshal encodes src into a deterministically CBOR-encoded byte slice.
func Marshal(src interface{}) ([]byte, error) {
	return encMode.Marshal(src)
}

// Unmarshal decodes CBOR in data into dst.
func Unmarshal(data []byte, dst interface{}) error {
	return decMode.Unmarshal(data, dst)
}
