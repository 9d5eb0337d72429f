package app

import (
	"context"
	"testing"

	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/store"
	"github.com/iov-one/vault/vaulttest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRouter(t *testing.T) {
	var (
		ctx = context.Background()
		db  = store.MemStore()
		r   = NewRouter()
	)

	good := &vaulttest.Handler{}
	bad := &vaulttest.Handler{
		CheckErr:   errors.ErrAmount,
		DeliverErr: errors.ErrAmount,
	}
	r.Handle(&vaulttest.Msg{RoutePath: "test/good"}, good)
	r.Handle(&vaulttest.Msg{RoutePath: "test/bad"}, bad)

	assert.Panics(t, func() {
		r.Handle(&vaulttest.Msg{RoutePath: "test/good"}, good)
	})
	assert.Panics(t, func() {
		r.Handle(&vaulttest.Msg{RoutePath: "l:7"}, good)
	})

	goodTx := &vaulttest.Tx{Msg: &vaulttest.Msg{RoutePath: "test/good"}}
	_, err := r.Check(ctx, db, goodTx)
	require.NoError(t, err)
	_, err = r.Deliver(ctx, db, goodTx)
	require.NoError(t, err)
	assert.Equal(t, 2, good.CallCount())

	badTx := &vaulttest.Tx{Msg: &vaulttest.Msg{RoutePath: "test/bad"}}
	_, err = r.Deliver(ctx, db, badTx)
	assert.True(t, errors.ErrAmount.Is(err))
	assert.Equal(t, 1, bad.DeliverCallCount())

	missingTx := &vaulttest.Tx{Msg: &vaulttest.Msg{RoutePath: "test/missing"}}
	_, err = r.Check(ctx, db, missingTx)
	assert.True(t, errors.ErrNotFound.Is(err))
	_, err = r.Deliver(ctx, db, missingTx)
	assert.True(t, errors.ErrNotFound.Is(err))

	brokenTx := &vaulttest.Tx{Err: errors.ErrInput}
	_, err = r.Deliver(ctx, db, brokenTx)
	assert.True(t, errors.ErrInput.Is(err))

	assert.Equal(t, 2, good.CallCount())
}
