package server

import (
	"github.com/iov-one/vault"
	"github.com/iov-one/vault/app"
	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/store"
)

// ValidateGenesis loads every given genesis file into an in memory store
// with the application initializer and returns the first failure.
func ValidateGenesis(ini vault.Initializer, genesisPaths []string) error {
	if len(genesisPaths) == 0 {
		return errors.Wrap(errors.ErrInput, "usage: validate <genesis.json>...")
	}
	for _, path := range genesisPaths {
		if err := validateGenesis(ini, path); err != nil {
			return errors.Wrap(err, path)
		}
	}
	return nil
}

func validateGenesis(ini vault.Initializer, genesisPath string) error {
	gen, err := app.LoadGenesis(genesisPath)
	if err != nil {
		return err
	}
	if !vault.IsValidChainID(gen.ChainID) {
		return errors.Wrapf(errors.ErrInput, "chain id %q", gen.ChainID)
	}
	if len(gen.AppState) == 0 {
		return errors.Wrap(errors.ErrEmpty, "app_state")
	}

	// Use in memory store because we want to discard the result.
	db := store.MemStore()
	if err := ini.FromGenesis(gen.AppState, db); err != nil {
		return errors.Wrap(err, "cannot initialize from genesis")
	}
	return nil
}
