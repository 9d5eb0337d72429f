package orm

import (
	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
)

// ConsumeIterator will read all remaining data into an
// array and close the iterator
func ConsumeIterator(itr vault.Iterator) []vault.Model {
	defer itr.Close()

	res := []vault.Model{}
	for ; itr.Valid(); itr.Next() {
		res = append(res, vault.Pair(itr.Key(), itr.Value()))
	}
	return res
}

// PrefixRange turns a prefix into (start, end) to create
// and iterator
func PrefixRange(prefix []byte) ([]byte, []byte) {
	// special case: no prefix is whole range
	if len(prefix) == 0 {
		return nil, nil
	}

	// copy the prefix and update last byte
	end := make([]byte, len(prefix))
	copy(end, prefix)
	l := len(end) - 1
	end[l]++

	// wait, what if that overflowed?....
	for end[l] == 0 && l > 0 {
		l--
		end[l]++
	}

	// okay, funny guy, you gave us FFF, no end to this range...
	if l == 0 && end[0] == 0 {
		end = nil
	}
	return prefix, end
}

func queryPrefix(db vault.ReadOnlyKVStore, prefix []byte) ([]vault.Model, error) {
	start, end := PrefixRange(prefix)
	itr, err := db.Iterator(start, end)
	if err != nil {
		return nil, err
	}
	return ConsumeIterator(itr), nil
}

// bucketQuery serves raw models by primary key or by primary key prefix.
type bucketQuery struct {
	bucket *modelBucket
}

var _ vault.QueryHandler = bucketQuery{}

func (q bucketQuery) Query(db vault.ReadOnlyKVStore, mod string, data []byte) ([]vault.Model, error) {
	switch mod {
	case vault.KeyQueryMod:
		key := q.bucket.DBKey(data)
		value, err := db.Get(key)
		if err != nil {
			return nil, err
		}
		if value == nil {
			return nil, nil
		}
		return []vault.Model{vault.Pair(key, value)}, nil
	case vault.PrefixQueryMod:
		return queryPrefix(db, q.bucket.DBKey(data))
	default:
		return nil, errors.Wrapf(errors.ErrInput, "unknown mod: %s", mod)
	}
}

// indexQuery serves raw models of all entities indexed under given value.
type indexQuery struct {
	bucket *modelBucket
	index  index
}

var _ vault.QueryHandler = indexQuery{}

func (q indexQuery) Query(db vault.ReadOnlyKVStore, mod string, data []byte) ([]vault.Model, error) {
	if mod != vault.KeyQueryMod {
		return nil, errors.Wrapf(errors.ErrInput, "unsupported index mod: %s", mod)
	}
	pks, err := q.index.keys(db, data)
	if err != nil {
		return nil, err
	}
	res := make([]vault.Model, 0, len(pks))
	for _, pk := range pks {
		key := q.bucket.DBKey(pk)
		value, err := db.Get(key)
		if err != nil {
			return nil, err
		}
		if value == nil {
			return nil, errors.Wrapf(errors.ErrHuman, "dangling index entry %X", pk)
		}
		res = append(res, vault.Pair(key, value))
	}
	return res, nil
}
