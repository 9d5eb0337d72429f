package sigs

import (
	"context"
	"testing"

	"github.com/iov-one/vault"
	"github.com/iov-one/vault/crypto"
	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/store"
	"github.com/iov-one/vault/vaulttest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecorator(t *testing.T) {
	kv := store.MemStore()
	checkKv := kv.CacheWrap()
	signers := new(SigCheckHandler)
	d := NewDecorator()
	chainID := "deco-rate"
	ctx := vault.WithChainID(context.Background(), chainID)

	priv := crypto.GenPrivKey()
	want := []vault.Address{priv.PublicKey().Address()}

	tx := NewStdTx([]byte("art"))
	sig, err := SignTx(priv, tx, chainID, 0)
	require.NoError(t, err)
	sig1, err := SignTx(priv, tx, chainID, 1)
	require.NoError(t, err)

	deliver := func(dec vault.Decorator, my vault.Tx) error {
		_, err := dec.Deliver(ctx, kv, my, signers)
		return err
	}
	check := func(dec vault.Decorator, my vault.Tx) error {
		res, err := dec.Check(ctx, checkKv, my, signers)
		if err == nil {
			assert.Equal(t, int64(len(signers.Signers)*signatureVerifyCost), res.GasAllocated)
		}
		return err
	}

	for i, fn := range []func(vault.Decorator, vault.Tx) error{check, deliver} {
		// test with no sigs
		tx.Signatures = nil
		err := fn(d, tx)
		assert.True(t, errors.ErrUnauthorized.Is(err), "%d", i)

		// test with one
		tx.Signatures = []*StdSignature{sig}
		err = fn(d, tx)
		assert.NoError(t, err, "%d", i)
		assert.Equal(t, want, signers.Signers)

		// test with replay
		err = fn(d, tx)
		assert.True(t, ErrInvalidSequence.Is(err), "%d", i)

		// test allowing none
		ad := d.AllowMissingSigs()
		tx.Signatures = nil
		err = fn(ad, tx)
		assert.NoError(t, err, "%d", i)
		assert.Equal(t, []vault.Address{}, signers.Signers)

		// test allowing, with next sequence
		tx.Signatures = []*StdSignature{sig1}
		err = fn(ad, tx)
		assert.NoError(t, err, "%d", i)
		assert.Equal(t, want, signers.Signers)
	}
}

func TestDecoratorUnsignedTx(t *testing.T) {
	ctx := vault.WithChainID(context.Background(), "deco-rate")
	tx := &vaulttest.Tx{Msg: &vaulttest.Msg{RoutePath: "test/mock"}}

	_, err := NewDecorator().Deliver(ctx, store.MemStore(), tx, &vaulttest.Handler{})
	assert.True(t, errors.ErrUnauthorized.Is(err))

	_, err = NewDecorator().AllowMissingSigs().Deliver(ctx, store.MemStore(), tx, &vaulttest.Handler{})
	assert.NoError(t, err)
}
