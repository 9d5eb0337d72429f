package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memStoreSuite() *TestSuite {
	return NewTestSuite(func() (CacheableKVStore, func()) {
		return MemStore(), func() {}
	})
}

func TestBTreeCacheGetSet(t *testing.T) {
	memStoreSuite().GetSet(t)
}

func TestBTreeCacheConflicts(t *testing.T) {
	memStoreSuite().CacheConflicts(t)
}

func TestBTreeCacheIterator(t *testing.T) {
	memStoreSuite().FuzzIterator(t)
}

func TestBTreeCacheIteratorWithConflicts(t *testing.T) {
	memStoreSuite().IteratorWithConflicts(t)
}

func TestBTreeCacheNestedDiscard(t *testing.T) {
	memStoreSuite().NestedDiscard(t)
}

func TestBTreeCacheableWritesThrough(t *testing.T) {
	base, ops := LogableStore()
	cached := BTreeCacheable{base}

	c := cached.CacheWrap()
	require.NoError(t, c.Set([]byte("a"), []byte("1")))
	require.NoError(t, c.Delete([]byte("b")))
	assert.Empty(t, ops.ShowOps())

	require.NoError(t, c.Write())
	got, err := base.Get([]byte("a"))
	require.NoError(t, err)
	assert.Equal(t, []byte("1"), got)

	// the base store records every operation it received, in order
	recorded := ops.ShowOps()
	require.Len(t, recorded, 2)
	key, value, isSet := recorded[0].IsSetOp()
	assert.True(t, isSet)
	assert.Equal(t, []byte("a"), key)
	assert.Equal(t, []byte("1"), value)
	_, _, isSet = recorded[1].IsSetOp()
	assert.False(t, isSet)
	assert.Equal(t, []byte("b"), recorded[1].Key())
}

func TestBTreeCacheDiscard(t *testing.T) {
	base := MemStore()
	require.NoError(t, base.Set([]byte("keep"), []byte("me")))

	c := base.CacheWrap()
	require.NoError(t, c.Set([]byte("drop"), []byte("me")))
	require.NoError(t, c.Delete([]byte("keep")))
	c.Discard()

	has, err := base.Has([]byte("drop"))
	require.NoError(t, err)
	assert.False(t, has)
	has, err = base.Has([]byte("keep"))
	require.NoError(t, err)
	assert.True(t, has)
}

func TestIteratorSnapshot(t *testing.T) {
	base := MemStore()
	for _, k := range []string{"a", "b", "c"} {
		require.NoError(t, base.Set([]byte(k), []byte(k)))
	}

	iter, err := base.Iterator(nil, nil)
	require.NoError(t, err)
	defer iter.Close()

	// writes after the iterator was created are not visible to it
	require.NoError(t, base.Set([]byte("bb"), []byte("bb")))

	var keys []string
	for ; iter.Valid(); iter.Next() {
		keys = append(keys, string(iter.Key()))
	}
	assert.Equal(t, []string{"a", "b", "c"}, keys)
}
