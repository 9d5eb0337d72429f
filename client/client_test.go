package client_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/iov-one/vault"
	"github.com/iov-one/vault/client"
	escrowd "github.com/iov-one/vault/cmd/escrowd/app"
	"github.com/iov-one/vault/crypto"
	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/x/sigs"
	"github.com/iov-one/vault/x/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

const chainID = "client-test-chain"

func newClient(t *testing.T, owner vault.Address) *client.Client {
	t.Helper()
	application, err := escrowd.GenerateApp("", log.NewNopLogger(), false, nil)
	require.NoError(t, err)

	state := map[string]interface{}{
		"conf": map[string]interface{}{
			"escrow": map[string]interface{}{
				"program": vault.NewCondition("escrow", "program", []byte("client")).Address(),
			},
		},
		"tokens": map[string]interface{}{
			"assets": []map[string]interface{}{
				{"ticker": "GOLD", "issuer": owner},
			},
			"accounts": []map[string]interface{}{
				{"owner": owner, "ticker": "GOLD", "amount": 100},
			},
		},
	}
	raw, err := json.Marshal(state)
	require.NoError(t, err)
	application.InitChain(abci.RequestInitChain{ChainId: chainID, AppStateBytes: raw})
	application.Commit()

	return client.NewClient(client.NewAppConnection(application, chainID))
}

func signedSend(t *testing.T, c *client.Client, key crypto.PrivateKey, msg vault.Msg) *escrowd.Tx {
	t.Helper()
	tx, err := escrowd.NewTx(msg)
	require.NoError(t, err)
	seq, err := c.NextSequence(key.PublicKey())
	require.NoError(t, err)
	sig, err := sigs.SignTx(key, tx, chainID, seq)
	require.NoError(t, err)
	tx.Signatures = []*sigs.StdSignature{sig}
	return tx
}

func TestClient(t *testing.T) {
	key := crypto.GenPrivKey()
	owner := key.PublicKey().Address()
	c := newClient(t, owner)
	ctx := context.Background()

	id, err := c.ChainID(ctx)
	require.NoError(t, err)
	assert.Equal(t, chainID, id)

	seq, err := c.NextSequence(key.PublicKey())
	require.NoError(t, err)
	assert.Equal(t, int64(0), seq)

	dest := crypto.GenPrivKey().PublicKey().Address()
	send := &token.SendMsg{Src: owner, Dest: dest, Asset: token.AssetID("GOLD"), Amount: 40}
	res, err := c.CommitTx(ctx, signedSend(t, c, key, send))
	require.NoError(t, err)
	require.NoError(t, res.Err)
	assert.Equal(t, int64(1), res.Height)
	assert.NotEmpty(t, res.ID)

	status, err := c.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), status.Height)

	seq, err = c.NextSequence(key.PublicKey())
	require.NoError(t, err)
	assert.Equal(t, int64(1), seq)

	models, err := c.Query("/accounts", token.AccountAddress(dest, token.AssetID("GOLD")), false)
	require.NoError(t, err)
	require.Len(t, models, 1)
	var acct token.Account
	require.NoError(t, acct.Unmarshal(models[0].Value))
	assert.Equal(t, uint64(40), acct.Amount)

	// both accounts are returned when listing all accounts
	models, err = c.Query("/accounts", nil, true)
	require.NoError(t, err)
	assert.Len(t, models, 2)

	// a failing message is included in a block but reports the failure
	send.Amount = 1000
	res, err = c.CommitTx(ctx, signedSend(t, c, key, send))
	require.NoError(t, err)
	assert.True(t, errors.ErrInsufficientAmount.Is(res.Err))

	// a tx rejected by CheckTx never makes it into a block
	unsigned, err := escrowd.NewTx(send)
	require.NoError(t, err)
	_, err = c.CommitTx(ctx, unsigned)
	assert.True(t, errors.ErrUnauthorized.Is(err))

	_, err = c.Query("/unknown", nil, false)
	assert.True(t, errors.ErrNotFound.Is(err))
}

func TestCancelledContext(t *testing.T) {
	c := newClient(t, crypto.GenPrivKey().PublicKey().Address())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Status(ctx)
	assert.Equal(t, context.Canceled, err)
	_, err = c.ChainID(ctx)
	assert.Equal(t, context.Canceled, err)
}
