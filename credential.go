package sigma

import (
	"crypto/hmac"
	"crypto/sha256"
	"io"
	"sort"
	"time"

	"github.com/go-errors/errors"
	"github.com/multiformats/go-multihash"
	"golang.org/x/crypto/hkdf"

	"github.com/verifid/sigma/big"
	"github.com/verifid/sigma/cbor"
)

// DefaultValidity is how long issued credentials stay valid.
const DefaultValidity = 365 * 24 * time.Hour

// macKeyDomain labels the HKDF derivation of the credential MAC key, so a key
// derived from the same master secret for another purpose can never collide
// with it.
const macKeyDomain = "sigma/v1/credential-mac"

// Attribute is a single named value certified by the issuer.
type Attribute struct {
	Name  string `json:"name" cbor:"name"`
	Value string `json:"value" cbor:"value"`
}

// Attributes is an ordered list of attributes. The holder-visible order is
// preserved; the canonical encoding under the MAC sorts by name so that the
// signature does not depend on presentation order.
type Attributes []Attribute

// Get returns the value of the named attribute.
func (a Attributes) Get(name string) (string, bool) {
	for _, attr := range a {
		if attr.Name == name {
			return attr.Value, true
		}
	}
	return "", false
}

func (a Attributes) canonical() Attributes {
	sorted := make(Attributes, len(a))
	copy(sorted, a)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })
	return sorted
}

// Credential binds a subject and its attributes to a proving public key,
// authenticated by the issuing authority's MAC. Mutating any field invalidates
// the signature.
type Credential struct {
	SubjectID  string     `json:"subject_id"`
	Attributes Attributes `json:"attributes"`
	PublicKey  *big.Int   `json:"public_key"`
	Issuer     string     `json:"issuer"`
	IssuedAt   int64      `json:"issued_at"`
	ExpiresAt  int64      `json:"expires_at"`
	Signature  []byte     `json:"signature"`
}

// credentialPayload is the canonical form covered by the MAC: every field of
// the credential except the signature itself, with attributes in sorted order
// and the public key as its big-endian bytes. It is encoded with deterministic
// CBOR, so each credential has exactly one encoding.
type credentialPayload struct {
	SubjectID  string     `cbor:"subject_id"`
	Attributes Attributes `cbor:"attributes"`
	PublicKey  []byte     `cbor:"public_key"`
	Issuer     string     `cbor:"issuer"`
	IssuedAt   int64      `cbor:"issued_at"`
	ExpiresAt  int64      `cbor:"expires_at"`
}

func (c *Credential) canonicalEncoding() ([]byte, error) {
	if c == nil || c.SubjectID == "" || c.PublicKey == nil || c.IssuedAt == 0 {
		return nil, ErrMalformedInput
	}
	return cbor.Marshal(credentialPayload{
		SubjectID:  c.SubjectID,
		Attributes: c.Attributes.canonical(),
		PublicKey:  c.PublicKey.Bytes(),
		Issuer:     c.Issuer,
		IssuedAt:   c.IssuedAt,
		ExpiresAt:  c.ExpiresAt,
	})
}

// Expired reports whether the credential's validity window has passed.
func (c *Credential) Expired(now time.Time) bool {
	return c.ExpiresAt != 0 && now.Unix() > c.ExpiresAt
}

// Digest returns a multihash (SHA2-256) over the canonical encoding and the
// signature: a stable credential identifier that is safe to log and index.
func (c *Credential) Digest() (multihash.Multihash, error) {
	enc, err := c.canonicalEncoding()
	if err != nil {
		return nil, err
	}
	return multihash.Sum(append(enc, c.Signature...), multihash.SHA2_256, -1)
}

// deriveMACKey expands the authority master secret into the 32-byte MAC key.
func deriveMACKey(masterSecret []byte) ([]byte, error) {
	if len(masterSecret) < 16 {
		return nil, errors.New("master secret must be at least 16 bytes")
	}
	key := make([]byte, 32)
	if _, err := io.ReadFull(hkdf.New(sha256.New, masterSecret, nil, []byte(macKeyDomain)), key); err != nil {
		return nil, errors.WrapPrefix(err, "key derivation failed", 0)
	}
	return key, nil
}

func computeMAC(key, encoding []byte) []byte {
	mac := hmac.New(sha256.New, key)
	mac.Write(encoding)
	return mac.Sum(nil)
}

// Signer issues credentials under the authority's signing key.
type Signer struct {
	key      []byte
	issuer   string
	validity time.Duration
	now      func() time.Time
}

// NewSigner derives a signing key from the authority master secret.
func NewSigner(masterSecret []byte, issuer string) (*Signer, error) {
	key, err := deriveMACKey(masterSecret)
	if err != nil {
		return nil, err
	}
	return &Signer{
		key:      key,
		issuer:   issuer,
		validity: DefaultValidity,
		now:      time.Now,
	}, nil
}

// SetValidity overrides the validity window for subsequently issued credentials.
func (s *Signer) SetValidity(d time.Duration) {
	s.validity = d
}

// Sign issues a credential binding the public key and attributes to the
// subject, authenticated over the canonical encoding.
func (s *Signer) Sign(subjectID string, attrs Attributes, publicKey *big.Int) (*Credential, error) {
	now := s.now().UTC()
	cred := &Credential{
		SubjectID:  subjectID,
		Attributes: attrs,
		PublicKey:  publicKey,
		Issuer:     s.issuer,
		IssuedAt:   now.Unix(),
		ExpiresAt:  now.Add(s.validity).Unix(),
	}
	enc, err := cred.canonicalEncoding()
	if err != nil {
		return nil, err
	}
	cred.Signature = computeMAC(s.key, enc)
	return cred, nil
}

// Validator returns a validator sharing this signer's key.
func (s *Signer) Validator() *Validator {
	return &Validator{key: s.key, now: s.now}
}

// Validator checks credentials with the shared verification key.
type Validator struct {
	key []byte
	now func() time.Time
}

// NewValidator derives the verification key from the shared master secret.
func NewValidator(masterSecret []byte) (*Validator, error) {
	key, err := deriveMACKey(masterSecret)
	if err != nil {
		return nil, err
	}
	return &Validator{key: key, now: time.Now}, nil
}

// Validate reports whether the credential is authentic and unexpired. The MAC
// is recomputed over the canonical encoding and compared in constant time; a
// missing required field fails validation rather than erroring.
func (v *Validator) Validate(cred *Credential) bool {
	if cred == nil || len(cred.Signature) == 0 {
		return false
	}
	enc, err := cred.canonicalEncoding()
	if err != nil {
		return false
	}
	if !hmac.Equal(computeMAC(v.key, enc), cred.Signature) {
		return false
	}
	return !cred.Expired(v.now().UTC())
}
