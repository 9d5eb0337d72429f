package crypto

import (
	"fmt"
	"strings"

	"github.com/iov-one/vault/errors"
	"github.com/stellar/go/exp/crypto/derivation"
	bip39 "github.com/tyler-smith/go-bip39"
)

// CoinType is the registered SLIP-44 coin type used in derivation paths.
const CoinType = 234

// DerivationPath returns the hardened SLIP-10 path of the account with
// given index.
func DerivationPath(index uint32) string {
	return fmt.Sprintf("m/44'/%d'/%d'", CoinType, index)
}

// NewMnemonic returns a new, random, 12 word recovery phrase.
func NewMnemonic() (string, error) {
	entropy, err := bip39.NewEntropy(128)
	if err != nil {
		return "", errors.Wrap(err, "cannot create entropy")
	}
	mnemonic, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return "", errors.Wrap(err, "cannot create mnemonic")
	}
	return mnemonic, nil
}

// DeriveKey returns the private key of the account with given index,
// derived from the recovery phrase.
func DeriveKey(mnemonic string, index uint32) (PrivateKey, error) {
	mnemonic = strings.Join(strings.Fields(mnemonic), " ")
	if !bip39.IsMnemonicValid(mnemonic) {
		return nil, errors.Wrap(errors.ErrInput, "invalid mnemonic")
	}
	seed := bip39.NewSeed(mnemonic, "")

	k, err := derivation.DeriveForPath(DerivationPath(index), seed)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "cannot derive key: %s", err)
	}
	pubKey, err := k.PublicKey()
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "cannot derive public key: %s", err)
	}
	priv := make(PrivateKey, 0, len(k.Key)+len(pubKey))
	priv = append(priv, k.Key...)
	return append(priv, pubKey...), nil
}
