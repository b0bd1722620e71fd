package sigma

import (
	"github.com/go-errors/errors"
)

var (
	// ErrMalformedInput indicates a non-numeric or out-of-range field.
	ErrMalformedInput = errors.New("malformed input")

	// ErrProofInvalid indicates the verification equation failed. Callers must
	// not surface any more detail than this; distinguishing a wrong secret from
	// a malformed proof at the boundary is an oracle.
	ErrProofInvalid = errors.New("proof invalid")

	// ErrCredentialInvalid indicates a signature mismatch or missing field.
	ErrCredentialInvalid = errors.New("credential invalid")

	// ErrRandomSource indicates the secure random source failed. Operations
	// abort on it; there is no non-cryptographic fallback.
	ErrRandomSource = errors.New("secure random source unavailable")
)
