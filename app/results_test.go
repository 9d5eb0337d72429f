package app

import (
	"testing"

	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/vaulttest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJoinResults(t *testing.T) {
	models := []vault.Model{
		vault.Pair([]byte("a"), []byte("1")),
		vault.Pair([]byte("b"), []byte("2")),
	}

	rawKeys, err := ResultsFromKeys(models).Marshal()
	require.NoError(t, err)
	rawValues, err := ResultsFromValues(models).Marshal()
	require.NoError(t, err)

	var keys, values ResultSet
	require.NoError(t, keys.Unmarshal(rawKeys))
	require.NoError(t, values.Unmarshal(rawValues))

	joined, err := JoinResults(&keys, &values)
	require.NoError(t, err)
	assert.Equal(t, models, joined)

	values.Results = values.Results[:1]
	_, err = JoinResults(&keys, &values)
	assert.True(t, errors.ErrState.Is(err))
}

func TestUnmarshalOneResult(t *testing.T) {
	empty, err := (&ResultSet{}).Marshal()
	require.NoError(t, err)
	var msg vaulttest.Msg
	assert.True(t, errors.ErrNotFound.Is(UnmarshalOneResult(empty, &msg)))

	raw, err := (&ResultSet{Results: [][]byte{[]byte("first"), []byte("second")}}).Marshal()
	require.NoError(t, err)
	require.NoError(t, UnmarshalOneResult(raw, &msg))
	assert.Equal(t, []byte("first"), msg.Serialized)

	assert.True(t, errors.ErrInput.Is(UnmarshalOneResult([]byte{0xff, 0xff}, &msg)))
}
