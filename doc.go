// Package sigma implements a Schnorr sigma-protocol proof of knowledge of a
// discrete logarithm over a fixed prime-order subgroup, together with MAC-signed
// attribute credentials that bind a proving key to a subject.
//
// A holder generates a KeyPair, has the issuing authority Sign a Credential over
// the public key and a set of attributes, and later convinces a relying party
// that it knows the secret key via the three-move commit/challenge/response
// protocol (Prover and Verifier), without ever revealing the secret. Challenge
// sessions, storage collaborators and policy decisions live in the session,
// storage and policy subpackages; the engine package composes them.
package sigma
