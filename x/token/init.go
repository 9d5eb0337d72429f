package token

import (
	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
)

// Initializer fulfils the Initializer interface to load data from the
// genesis file.
type Initializer struct{}

var _ vault.Initializer = (*Initializer)(nil)

type genesisAsset struct {
	Ticker   string        `json:"ticker"`
	Decimals uint32        `json:"decimals"`
	Issuer   vault.Address `json:"issuer"`
}

type genesisAccount struct {
	Owner  vault.Address `json:"owner"`
	Ticker string        `json:"ticker"`
	Amount uint64        `json:"amount"`
}

// FromGenesis registers all assets listed under "tokens.assets" and funds
// the accounts listed under "tokens.accounts". Funding an account counts
// towards the asset supply.
func (*Initializer) FromGenesis(opts vault.Options, db vault.KVStore) error {
	var state struct {
		Assets   []genesisAsset   `json:"assets"`
		Accounts []genesisAccount `json:"accounts"`
	}
	if err := opts.ReadOptions("tokens", &state); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}

	ctrl := NewController()
	for i, a := range state.Assets {
		asset := Asset{Ticker: a.Ticker, Decimals: a.Decimals, Issuer: a.Issuer}
		if _, err := ctrl.RegisterAsset(db, &asset); err != nil {
			return errors.Wrapf(err, "asset #%d", i)
		}
	}
	for i, a := range state.Accounts {
		if err := genesisFund(db, ctrl, a); err != nil {
			return errors.Wrapf(err, "account #%d", i)
		}
	}
	return nil
}

func genesisFund(db vault.KVStore, ctrl Controller, a genesisAccount) error {
	id := AssetID(a.Ticker)
	asset, err := ctrl.Asset(db, id)
	if err != nil {
		return err
	}
	addr, err := ctrl.OpenAccount(db, a.Owner, id)
	if err != nil {
		return err
	}
	if a.Amount == 0 {
		return nil
	}
	return ctrl.Issue(db, genesisIssuer{issuer: asset.Issuer}, id, addr, a.Amount)
}

// genesisIssuer authorizes the issuer of an asset. It is used only while
// loading genesis, where no transaction is signed.
type genesisIssuer struct {
	issuer vault.Address
}

func (g genesisIssuer) Authorizes(owner vault.Address) error {
	if !g.issuer.Equals(owner) {
		return errors.Wrap(errors.ErrUnauthorized, "not the issuer")
	}
	return nil
}
