package app

import (
	"sync"

	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
)

// CommitStore handles loading from a CommitKVStore, maintaining different
// CacheWraps for Deliver and Check, and returning useful state info.
//
// Commit rotates the caches under a lock, so a concurrent query always sees
// either the previous or the new committed state.
type CommitStore struct {
	mu        sync.RWMutex
	committed vault.CommitKVStore
	deliver   vault.KVCacheWrap
	check     vault.KVCacheWrap
}

// NewCommitStore loads the CommitKVStore from disk and sets up the deliver
// and check caches.
func NewCommitStore(store vault.CommitKVStore) (*CommitStore, error) {
	if err := store.LoadLatestVersion(); err != nil {
		return nil, errors.Wrap(err, "load latest version")
	}
	return &CommitStore{
		committed: store,
		deliver:   store.CacheWrap(),
		check:     store.CacheWrap(),
	}, nil
}

// CommitInfo returns the current height and hash
func (cs *CommitStore) CommitInfo() (vault.CommitID, error) {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return cs.committed.LatestVersion()
}

// Commit will flush deliver to the underlying store and commit it
// to disk. It then regenerates new deliver/check caches
func (cs *CommitStore) Commit() (vault.CommitID, error) {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	// flush deliver to store and discard check
	if err := cs.deliver.Write(); err != nil {
		return vault.CommitID{}, errors.Wrap(err, "flush deliver cache")
	}
	cs.check.Discard()

	res, err := cs.committed.Commit()
	if err != nil {
		return res, err
	}

	cs.deliver = cs.committed.CacheWrap()
	cs.check = cs.committed.CacheWrap()
	return res, nil
}

// CheckStore returns a store implementation that must be used during the
// checking phase.
func (cs *CommitStore) CheckStore() vault.CacheableKVStore {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return cs.check
}

// DeliverStore returns a store implementation that must be used during the
// delivery phase.
func (cs *CommitStore) DeliverStore() vault.CacheableKVStore {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return cs.deliver
}

// QueryStore returns a read only view of the last committed state together
// with its height.
func (cs *CommitStore) QueryStore() (vault.ReadOnlyKVStore, int64, error) {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	info, err := cs.committed.LatestVersion()
	if err != nil {
		return nil, 0, err
	}
	return cs.committed.CacheWrap(), info.Version, nil
}

//------- storing chainID ---------

// _v: is a prefix for internal application data
const chainIDKey = "_v:chainID"

// loadChainID returns the chain id stored if any
func loadChainID(kv vault.ReadOnlyKVStore) (string, error) {
	v, err := kv.Get([]byte(chainIDKey))
	if err != nil {
		return "", errors.Wrap(err, "load chain id")
	}
	return string(v), nil
}

// saveChainID stores a chain id in the kv store.
// Returns error if already set, or invalid name
func saveChainID(kv vault.KVStore, chainID string) error {
	if !vault.IsValidChainID(chainID) {
		return errors.Wrapf(errors.ErrInput, "chain id: %v", chainID)
	}
	k := []byte(chainIDKey)
	exists, err := kv.Has(k)
	if err != nil {
		return errors.Wrap(err, "load chain id")
	}
	if exists {
		return errors.Wrap(errors.ErrImmutable, "can't modify chain id after genesis init")
	}
	if err := kv.Set(k, []byte(chainID)); err != nil {
		return errors.Wrap(err, "save chain id")
	}
	return nil
}
