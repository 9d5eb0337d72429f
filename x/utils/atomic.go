package utils

import (
	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
)

// Atomic runs fn on a cache wrap of given store. All changes are written
// to the store only if fn succeeds, otherwise they are discarded. Use it
// to turn a multi step state transition into a single unit of work that
// does not depend on the decorators configured by the application.
func Atomic(db vault.KVStore, fn func(vault.KVStore) error) error {
	cstore, ok := db.(vault.CacheableKVStore)
	if !ok {
		return errors.Wrapf(errors.ErrHuman, "%T store cannot be cache wrapped", db)
	}
	cache := cstore.CacheWrap()
	if err := fn(cache); err != nil {
		cache.Discard()
		return err
	}
	if err := cache.Write(); err != nil {
		return errors.Wrap(err, "writing atomic unit")
	}
	return nil
}
