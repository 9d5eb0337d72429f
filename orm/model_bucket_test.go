package orm

import (
	"encoding/binary"
	"testing"

	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// counter is a minimal model: an owner tag followed by a big endian count.
type counter struct {
	Owner string
	Count uint64
}

func (c *counter) Marshal() ([]byte, error) {
	out := make([]byte, 8, 8+len(c.Owner))
	binary.BigEndian.PutUint64(out, c.Count)
	return append(out, c.Owner...), nil
}

func (c *counter) Unmarshal(raw []byte) error {
	if len(raw) < 8 {
		return errors.Wrap(errors.ErrInput, "too short")
	}
	c.Count = binary.BigEndian.Uint64(raw)
	c.Owner = string(raw[8:])
	return nil
}

func (c *counter) Validate() error {
	if c.Count == 0 {
		return errors.Wrap(errors.ErrEmpty, "count")
	}
	return nil
}

type other struct{ counter }

func ownerIndexer(m Model) ([]byte, error) {
	c, ok := m.(*counter)
	if !ok {
		return nil, errors.Wrapf(errors.ErrType, "%T", m)
	}
	if c.Owner == "" {
		return nil, nil
	}
	return []byte(c.Owner), nil
}

func TestModelBucket(t *testing.T) {
	db := store.MemStore()
	b := NewModelBucket("cnts", &counter{})

	require.NoError(t, b.Put(db, []byte("c1"), &counter{Count: 1}))

	var c1 counter
	require.NoError(t, b.One(db, []byte("c1"), &c1))
	assert.Equal(t, uint64(1), c1.Count)
	assert.NoError(t, b.Has(db, []byte("c1")))

	// data lives under the bucket prefix
	raw, err := db.Get([]byte("cnts:c1"))
	require.NoError(t, err)
	assert.NotNil(t, raw)
	assert.Equal(t, []byte("cnts:c1"), b.DBKey([]byte("c1")))

	require.NoError(t, b.Delete(db, []byte("c1")))
	if err := b.Delete(db, []byte("unknown")); !errors.ErrNotFound.Is(err) {
		t.Fatalf("unexpected error when deleting unexisting instance: %s", err)
	}
	if err := b.One(db, []byte("c1"), &c1); !errors.ErrNotFound.Is(err) {
		t.Fatalf("unexpected error for an unknown model get: %s", err)
	}
	assert.True(t, errors.ErrNotFound.Is(b.Has(db, []byte("c1"))))
}

func TestModelBucketRejects(t *testing.T) {
	db := store.MemStore()
	b := NewModelBucket("cnts", &counter{})

	cases := map[string]struct {
		key     []byte
		model   Model
		wantErr *errors.Error
	}{
		"invalid model": {
			key:     []byte("a"),
			model:   &counter{},
			wantErr: errors.ErrEmpty,
		},
		"missing key": {
			key:     nil,
			model:   &counter{Count: 1},
			wantErr: errors.ErrEmpty,
		},
		"wrong type": {
			key:     []byte("a"),
			model:   &other{counter{Count: 1}},
			wantErr: errors.ErrType,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			err := b.Put(db, tc.key, tc.model)
			assert.True(t, tc.wantErr.Is(err), "%+v", err)
		})
	}

	require.NoError(t, b.Put(db, []byte("a"), &counter{Count: 3}))
	var o other
	assert.True(t, errors.ErrType.Is(b.One(db, []byte("a"), &o)))
}

func TestModelBucketIndex(t *testing.T) {
	db := store.MemStore()
	b := NewModelBucket("cnts", &counter{}, WithIndex("owner", ownerIndexer))

	require.NoError(t, b.Put(db, []byte("c1"), &counter{Owner: "alice", Count: 1}))
	require.NoError(t, b.Put(db, []byte("c2"), &counter{Owner: "alice", Count: 2}))
	require.NoError(t, b.Put(db, []byte("c3"), &counter{Owner: "bob", Count: 3}))
	require.NoError(t, b.Put(db, []byte("c4"), &counter{Count: 4}))

	keys, err := b.ByIndex(db, "owner", []byte("alice"))
	require.NoError(t, err)
	assert.Equal(t, [][]byte{[]byte("c1"), []byte("c2")}, keys)

	// moving an entity updates the index
	require.NoError(t, b.Put(db, []byte("c2"), &counter{Owner: "bob", Count: 2}))
	keys, err = b.ByIndex(db, "owner", []byte("alice"))
	require.NoError(t, err)
	assert.Equal(t, [][]byte{[]byte("c1")}, keys)

	require.NoError(t, b.Delete(db, []byte("c3")))
	keys, err = b.ByIndex(db, "owner", []byte("bob"))
	require.NoError(t, err)
	assert.Equal(t, [][]byte{[]byte("c2")}, keys)

	_, err = b.ByIndex(db, "missing", []byte("bob"))
	assert.True(t, ErrInvalidIndex.Is(err))
}

func TestModelBucketQuery(t *testing.T) {
	db := store.MemStore()
	b := NewModelBucket("cnts", &counter{}, WithIndex("owner", ownerIndexer))
	qr := vault.NewQueryRouter()
	b.Register("counters", qr)

	require.NoError(t, b.Put(db, []byte("ab1"), &counter{Owner: "alice", Count: 1}))
	require.NoError(t, b.Put(db, []byte("ab2"), &counter{Owner: "bob", Count: 2}))
	require.NoError(t, b.Put(db, []byte("xy1"), &counter{Owner: "bob", Count: 3}))

	h := qr.Handler("/counters")
	require.NotNil(t, h)

	res, err := h.Query(db, vault.KeyQueryMod, []byte("ab2"))
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, []byte("cnts:ab2"), res[0].Key)

	res, err = h.Query(db, vault.KeyQueryMod, []byte("nope"))
	require.NoError(t, err)
	assert.Empty(t, res)

	res, err = h.Query(db, vault.PrefixQueryMod, []byte("ab"))
	require.NoError(t, err)
	assert.Len(t, res, 2)

	_, err = h.Query(db, "range", nil)
	assert.True(t, errors.ErrInput.Is(err))

	idx := qr.Handler("/counters/owner")
	require.NotNil(t, idx)
	res, err = idx.Query(db, vault.KeyQueryMod, []byte("bob"))
	require.NoError(t, err)
	require.Len(t, res, 2)
	var c counter
	require.NoError(t, c.Unmarshal(res[1].Value))
	assert.Equal(t, uint64(3), c.Count)
}

func TestPrefixRange(t *testing.T) {
	cases := map[string]struct {
		prefix []byte
		end    []byte
	}{
		"empty":       {nil, nil},
		"simple":      {[]byte{1, 2}, []byte{1, 3}},
		"carry":       {[]byte{1, 0xFF}, []byte{2, 0}},
		"open ending": {[]byte{0xFF, 0xFF}, nil},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			start, end := PrefixRange(tc.prefix)
			assert.Equal(t, tc.prefix, start)
			assert.Equal(t, tc.end, end)
		})
	}
}
