package crypto

import (
	"strings"
	"testing"

	"github.com/iov-one/vault/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

func TestNewMnemonic(t *testing.T) {
	m, err := NewMnemonic()
	require.NoError(t, err)
	assert.Len(t, strings.Fields(m), 12)

	other, err := NewMnemonic()
	require.NoError(t, err)
	assert.NotEqual(t, m, other)

	_, err = DeriveKey(m, 0)
	assert.NoError(t, err)
}

func TestDeriveKey(t *testing.T) {
	k0, err := DeriveKey(testMnemonic, 0)
	require.NoError(t, err)
	require.NoError(t, k0.Validate())

	// derivation is deterministic and whitespace insensitive
	again, err := DeriveKey("  "+strings.Replace(testMnemonic, " ", "\n ", 3), 0)
	require.NoError(t, err)
	assert.Equal(t, k0, again)

	// the derived public key matches the derived seed
	fromSeed, err := FromSeed(k0[:32])
	require.NoError(t, err)
	assert.Equal(t, k0, fromSeed)

	k1, err := DeriveKey(testMnemonic, 1)
	require.NoError(t, err)
	assert.NotEqual(t, k0, k1)

	sig, err := k1.Sign([]byte("hello"))
	require.NoError(t, err)
	assert.True(t, k1.PublicKey().Verify([]byte("hello"), sig))
}

func TestDeriveKeyInvalidMnemonic(t *testing.T) {
	_, err := DeriveKey("abandon abandon abandon", 0)
	assert.True(t, errors.ErrInput.Is(err))

	_, err = DeriveKey(strings.Replace(testMnemonic, "about", "abandon", 1), 0)
	assert.True(t, errors.ErrInput.Is(err))
}

func TestDerivationPath(t *testing.T) {
	assert.Equal(t, "m/44'/234'/0'", DerivationPath(0))
	assert.Equal(t, "m/44'/234'/17'", DerivationPath(17))
}
