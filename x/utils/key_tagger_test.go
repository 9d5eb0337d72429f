package utils

import (
	"context"
	"testing"

	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/store"
	"github.com/iov-one/vault/vaulttest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendermint/tendermint/libs/common"
)

func TestKeyTagger(t *testing.T) {
	// account key written by the handler
	nk, nv := []byte("cash:alice"), []byte{4, 5, 6}
	ntag := []byte("636173683A616C696365")
	// escrow key touched by a decorator
	ok, ov := []byte{1, 0xab, 3}, []byte("data")
	otag := []byte("01AB03")

	cases := map[string]struct {
		handler vault.Handler
		err     *errors.Error
		tags    []common.KVPair
		stored  []byte // value expected under nk afterwards
	}{
		"error adds no tags": {
			handler: &vaulttest.Handler{WriteKey: nk, WriteValue: nv, DeliverErr: errors.ErrHuman},
			err:     errors.ErrHuman,
			// no savepoint, so the write stays
			stored: nv,
		},
		"success records the write": {
			handler: &vaulttest.Handler{WriteKey: nk, WriteValue: nv},
			tags:    []common.KVPair{{Key: ntag, Value: []byte("s")}},
			stored:  nv,
		},
		"multiple writes are sorted": {
			handler: vaulttest.Decorate(
				&vaulttest.Handler{WriteKey: nk, WriteValue: nv},
				writeDecorator{key: ok, value: ov}),
			tags: []common.KVPair{
				{Key: otag, Value: []byte("s")},
				{Key: ntag, Value: []byte("s")},
			},
			stored: nv,
		},
		"deletes are marked": {
			handler: vaulttest.Decorate(
				&vaulttest.Handler{WriteKey: nk, WriteValue: nv},
				writeDecorator{key: ok, remove: true}),
			tags: []common.KVPair{
				{Key: otag, Value: []byte("d")},
				{Key: ntag, Value: []byte("s")},
			},
			stored: nv,
		},
		"savepoint rollback leaves no trace": {
			handler: vaulttest.Decorate(
				&vaulttest.Handler{WriteKey: nk, WriteValue: nv, DeliverErr: errors.ErrHuman},
				NewSavepoint().OnDeliver()),
			err: errors.ErrHuman,
		},
		"savepoint commit is recorded": {
			handler: vaulttest.Decorate(
				&vaulttest.Handler{WriteKey: nk, WriteValue: nv},
				NewSavepoint().OnDeliver()),
			tags:   []common.KVPair{{Key: ntag, Value: []byte("s")}},
			stored: nv,
		},
		"handler tags are kept in front": {
			handler: &vaulttest.Handler{
				WriteKey:      nk,
				WriteValue:    nv,
				DeliverResult: vault.DeliverResult{Tags: []common.KVPair{vault.Tag(ActionKey, "escrow/make")}},
			},
			tags:   []common.KVPair{vault.Tag(ActionKey, "escrow/make"), {Key: ntag, Value: []byte("s")}},
			stored: nv,
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			db := store.MemStore()
			tagger := NewKeyTagger()

			// check passes through untouched
			_, err := tagger.Check(ctx, db.CacheWrap(), nil, tc.handler)
			require.NoError(t, err)

			res, err := tagger.Deliver(ctx, db, nil, tc.handler)
			if tc.err != nil {
				require.True(t, tc.err.Is(err), "unexpected error: %v", err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tc.tags, res.Tags)
			}

			v, err := db.Get(nk)
			require.NoError(t, err)
			assert.Equal(t, tc.stored, v)
		})
	}
}

// writeDecorator sets or removes a key before calling the next handler.
type writeDecorator struct {
	key    []byte
	value  []byte
	remove bool
}

var _ vault.Decorator = writeDecorator{}

func (d writeDecorator) apply(db vault.KVStore) error {
	if d.remove {
		return db.Delete(d.key)
	}
	return db.Set(d.key, d.value)
}

func (d writeDecorator) Check(ctx vault.Context, db vault.KVStore, tx vault.Tx, next vault.Checker) (*vault.CheckResult, error) {
	if err := d.apply(db); err != nil {
		return nil, err
	}
	return next.Check(ctx, db, tx)
}

func (d writeDecorator) Deliver(ctx vault.Context, db vault.KVStore, tx vault.Tx, next vault.Deliverer) (*vault.DeliverResult, error) {
	if err := d.apply(db); err != nil {
		return nil, err
	}
	return next.Deliver(ctx, db, tx)
}
