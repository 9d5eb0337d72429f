package crypto

import (
	"bytes"
	"crypto/rand"
	"encoding/hex"

	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
	"golang.org/x/crypto/ed25519"
)

// Signer is the functionality we use from a private key
// No serializing to support hardware devices as well.
type Signer interface {
	Sign(message []byte) ([]byte, error)
	PublicKey() PublicKey
}

// PublicKey is a raw ed25519 public key. Signer addresses are the public
// key bytes themselves, so a valid signer address is always a point on the
// curve.
type PublicKey []byte

// Address returns the address this key can authorize.
func (p PublicKey) Address() vault.Address {
	return vault.Address(p).Clone()
}

// Verify verifies the signature was created with this message and public key
func (p PublicKey) Verify(message, sig []byte) bool {
	if len(p) != ed25519.PublicKeySize || len(sig) != ed25519.SignatureSize {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(p), message, sig)
}

// Validate returns an error if this is not a well formed public key.
func (p PublicKey) Validate() error {
	if len(p) != ed25519.PublicKeySize {
		return errors.Wrapf(errors.ErrInput, "public key length %d", len(p))
	}
	return nil
}

// Equals checks if two keys are the same.
func (p PublicKey) Equals(o PublicKey) bool {
	return bytes.Equal(p, o)
}

func (p PublicKey) String() string {
	return p.Address().String()
}

// PrivateKey is a 64 byte ed25519 private key: the seed followed by the
// public key.
type PrivateKey []byte

var _ Signer = PrivateKey(nil)

// Sign returns the signature of given message. Ed25519 signatures are
// deterministic.
func (p PrivateKey) Sign(message []byte) ([]byte, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return ed25519.Sign(ed25519.PrivateKey(p), message), nil
}

// PublicKey returns the matching public key.
func (p PrivateKey) PublicKey() PublicKey {
	pub := make([]byte, ed25519.PublicKeySize)
	copy(pub, p[32:])
	return pub
}

// Validate returns an error if this is not a well formed private key.
func (p PrivateKey) Validate() error {
	if len(p) != ed25519.PrivateKeySize {
		return errors.Wrapf(errors.ErrInput, "private key length %d", len(p))
	}
	return nil
}

// Hex returns the hex encoded private key, the format used by the command
// line tools to store a key.
func (p PrivateKey) Hex() string {
	return hex.EncodeToString(p)
}

// GenPrivKey generates a new random private key.
func GenPrivKey() PrivateKey {
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		panic(err)
	}
	return PrivateKey(priv)
}

// FromSeed builds a private key from a 32 byte seed.
func FromSeed(seed []byte) (PrivateKey, error) {
	if len(seed) != ed25519.SeedSize {
		return nil, errors.Wrapf(errors.ErrInput, "seed length %d", len(seed))
	}
	return PrivateKey(ed25519.NewKeyFromSeed(seed)), nil
}

// ParsePrivateKey decodes a hex encoded private key, as returned by Hex.
func ParsePrivateKey(s string) (PrivateKey, error) {
	raw, err := hex.DecodeString(s)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, "cannot decode hex")
	}
	key := PrivateKey(raw)
	if err := key.Validate(); err != nil {
		return nil, err
	}
	if !bytes.Equal(ed25519.NewKeyFromSeed(raw[:ed25519.SeedSize]), raw) {
		return nil, errors.Wrap(errors.ErrInput, "public key does not match the seed")
	}
	return key, nil
}
