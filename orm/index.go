package orm

import (
	"bytes"

	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
)

// Indexer calculates the secondary index key for a given model. Returning
// a nil key skips indexing of this model.
type Indexer func(Model) ([]byte, error)

// index is a 1:N secondary index. Every entry is stored under
// prefix | index value | primary key and holds the primary key.
type index struct {
	name    string
	prefix  []byte
	indexer Indexer
}

func newIndex(bucket, name string, indexer Indexer) index {
	return index{
		name:    name,
		prefix:  []byte("_i." + bucket + "_" + name + ":"),
		indexer: indexer,
	}
}

func (i index) entryKey(value, pk []byte) []byte {
	out := make([]byte, 0, len(i.prefix)+len(value)+len(pk))
	out = append(out, i.prefix...)
	out = append(out, value...)
	return append(out, pk...)
}

// update moves the index entry of the primary key pk from the value of prev
// to the value of next. Either of them may be nil.
func (i index) update(db vault.KVStore, pk []byte, prev, next Model) error {
	var prevVal, nextVal []byte
	var err error
	if prev != nil {
		if prevVal, err = i.indexer(prev); err != nil {
			return err
		}
	}
	if next != nil {
		if nextVal, err = i.indexer(next); err != nil {
			return err
		}
	}
	if prevVal != nil && nextVal != nil && bytes.Equal(prevVal, nextVal) {
		return nil
	}
	if prevVal != nil {
		if err := db.Delete(i.entryKey(prevVal, pk)); err != nil {
			return errors.Wrap(err, "cannot remove index entry")
		}
	}
	if nextVal != nil {
		if err := db.Set(i.entryKey(nextVal, pk), pk); err != nil {
			return errors.Wrap(err, "cannot store index entry")
		}
	}
	return nil
}

// keys returns the primary keys indexed under given value.
func (i index) keys(db vault.ReadOnlyKVStore, value []byte) ([][]byte, error) {
	if len(value) == 0 {
		return nil, errors.Wrap(ErrInvalidIndex, "empty index value")
	}
	start, end := PrefixRange(i.entryKey(value, nil))
	it, err := db.Iterator(start, end)
	if err != nil {
		return nil, errors.Wrap(err, "cannot iterate")
	}
	defer it.Close()

	var pks [][]byte
	for ; it.Valid(); it.Next() {
		pks = append(pks, it.Value())
	}
	return pks, nil
}
