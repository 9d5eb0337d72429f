package utils

import (
	"context"
	"testing"

	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/store"
	"github.com/iov-one/vault/vaulttest"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewMetrics(reg)
	require.NoError(t, err)

	// registering twice in the same registry fails
	_, err = NewMetrics(reg)
	assert.True(t, errors.ErrHuman.Is(err))

	ctx := context.Background()
	db := store.MemStore()
	tx := &vaulttest.Tx{Msg: &vaulttest.Msg{RoutePath: "escrow/make"}}

	_, err = m.Deliver(ctx, db, tx, &vaulttest.Handler{})
	require.NoError(t, err)
	_, err = m.Deliver(ctx, db, tx, &vaulttest.Handler{})
	require.NoError(t, err)
	_, err = m.Deliver(ctx, db, tx, &vaulttest.Handler{DeliverErr: errors.ErrNotFound})
	assert.True(t, errors.ErrNotFound.Is(err))
	_, err = m.Check(ctx, db, tx, &vaulttest.Handler{})
	require.NoError(t, err)

	families, err := reg.Gather()
	require.NoError(t, err)

	counts := make(map[string]float64)
	for _, f := range families {
		if f.GetName() != "vault_transactions_total" {
			continue
		}
		for _, metric := range f.GetMetric() {
			var key string
			for _, l := range metric.GetLabel() {
				key += l.GetName() + "=" + l.GetValue() + ";"
			}
			counts[key] = metric.GetCounter().GetValue()
		}
	}
	assert.Equal(t, map[string]float64{
		"code=0;path=escrow/make;phase=deliver;": 2,
		"code=3;path=escrow/make;phase=deliver;": 1,
		"code=0;path=escrow/make;phase=check;":   1,
	}, counts)
}
