package utils

import (
	"bytes"
	"context"
	"testing"

	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/store"
	"github.com/iov-one/vault/vaulttest"
	"github.com/stretchr/testify/assert"
	"github.com/tendermint/tendermint/libs/log"
)

func TestLogging(t *testing.T) {
	var buf bytes.Buffer
	ctx := vault.WithLogger(context.Background(), log.NewTMLogger(&buf))
	db := store.MemStore()
	l := NewLogging()

	_, err := l.Deliver(ctx, db, nil, &vaulttest.Handler{DeliverResult: vault.DeliverResult{Log: "all good"}})
	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "all good")
	assert.Contains(t, buf.String(), "duration=")

	buf.Reset()
	_, err = l.Deliver(ctx, db, nil, &vaulttest.Handler{DeliverErr: errors.ErrNotFound})
	assert.True(t, errors.ErrNotFound.Is(err))
	assert.Contains(t, buf.String(), "E[")
	assert.Contains(t, buf.String(), "not found")

	buf.Reset()
	_, err = l.Check(ctx, db, nil, &vaulttest.Handler{CheckErr: errors.ErrNotFound})
	assert.True(t, errors.ErrNotFound.Is(err))
	assert.Contains(t, buf.String(), "I[")
}
