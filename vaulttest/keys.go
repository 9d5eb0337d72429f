package vaulttest

import (
	"encoding/binary"
	"testing"

	"github.com/iov-one/vault"
	"github.com/iov-one/vault/crypto"
)

// NewKey returns a new random private key.
func NewKey() crypto.PrivateKey {
	return crypto.GenPrivKey()
}

// NewAddress returns the signer address of a new random key.
func NewAddress() vault.Address {
	return NewKey().PublicKey().Address()
}

// SequenceID returns the big endian encoding of n, the format used by
// sequence based keys.
func SequenceID(n uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, n)
	return b
}

// ParseAddress takes an address in a human readable format and returns its
// binary representation.
func ParseAddress(t testing.TB, encodedAddress string) vault.Address {
	t.Helper()

	addr, err := vault.ParseAddress(encodedAddress)
	if err != nil {
		t.Fatalf("cannot parse %q address: %s", encodedAddress, err)
	}
	return addr
}
