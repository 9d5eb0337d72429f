package main

import (
	"encoding/hex"
	"encoding/json"
	"strings"
	"testing"

	"github.com/iov-one/vault/x/escrow"
	"github.com/iov-one/vault/x/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func queryAccounts(t *testing.T, args ...string) []token.Account {
	t.Helper()
	out := pipeline(t, append([]string{"query", "-path", "/accounts"}, args...))
	var accounts []token.Account
	require.NoError(t, json.Unmarshal(out, &accounts))
	return accounts
}

func balance(t *testing.T, owner, ticker string) uint64 {
	t.Helper()
	accounts := queryAccounts(t, "-owner", owner, "-ticker", ticker)
	if len(accounts) == 0 {
		return 0
	}
	return accounts[0].Amount
}

func TestEscrowPipeline(t *testing.T) {
	node, cleanup := startNode(t)
	defer cleanup()

	maker := node.maker.PublicKey().Address().String()
	taker := node.taker.PublicKey().Address().String()
	program := node.program.String()
	makerKey := keyFile(t, node.maker)
	takerKey := keyFile(t, node.taker)

	out := pipeline(t,
		[]string{"make-escrow", "-maker", maker, "-nonce", "3",
			"-give", "GOLD", "-deposit", "60", "-want", "SILVER", "-receive", "25"},
		[]string{"sign", "-key", makerKey},
		[]string{"submit"},
	)
	wantKey := escrow.Key(node.maker.PublicKey().Address(), 3)
	assert.Contains(t, string(out), "escrow ")
	assert.Contains(t, string(out), hex.EncodeToString(wantKey))
	assert.Equal(t, uint64(40), balance(t, maker, "GOLD"))

	out = pipeline(t, []string{"query", "-path", "/escrows", "-maker", maker, "-prefix"})
	var escrows []escrow.Escrow
	require.NoError(t, json.Unmarshal(out, &escrows))
	require.Len(t, escrows, 1)
	assert.Equal(t, uint64(3), escrows[0].Nonce)
	assert.Equal(t, uint64(25), escrows[0].ReceiveAmount)

	pipeline(t,
		[]string{"take-escrow", "-taker", taker, "-maker", maker, "-nonce", "3",
			"-give", "GOLD", "-want", "SILVER", "-program", program},
		[]string{"sign", "-key", takerKey},
		[]string{"submit"},
	)
	assert.Equal(t, uint64(40), balance(t, maker, "GOLD"))
	assert.Equal(t, uint64(25), balance(t, maker, "SILVER"))
	assert.Equal(t, uint64(60), balance(t, taker, "GOLD"))
	assert.Equal(t, uint64(75), balance(t, taker, "SILVER"))

	out = pipeline(t, []string{"query", "-path", "/escrows", "-maker", maker, "-nonce", "3"})
	assert.Equal(t, "[]", string(out))

	// both signers used a single sequence
	out = pipeline(t, []string{"query", "-path", "/auth", "-owner", taker})
	assert.Contains(t, string(out), `"sequence": 1`)
}

func TestRefundPipeline(t *testing.T) {
	node, cleanup := startNode(t)
	defer cleanup()

	maker := node.maker.PublicKey().Address().String()
	makerKey := keyFile(t, node.maker)

	pipeline(t,
		[]string{"make-escrow", "-maker", maker, "-nonce", "1",
			"-give", "GOLD", "-deposit", "100", "-want", "SILVER", "-receive", "1"},
		[]string{"sign", "-key", makerKey},
		[]string{"submit"},
	)
	assert.Equal(t, uint64(0), balance(t, maker, "GOLD"))

	pipeline(t,
		[]string{"refund-escrow", "-maker", maker, "-nonce", "1",
			"-give", "GOLD", "-program", node.program.String()},
		[]string{"sign", "-key", makerKey},
		[]string{"submit"},
	)
	assert.Equal(t, uint64(100), balance(t, maker, "GOLD"))
}

func TestTokenPipeline(t *testing.T) {
	node, cleanup := startNode(t)
	defer cleanup()

	maker := node.maker.PublicKey().Address().String()
	taker := node.taker.PublicKey().Address().String()
	makerKey := keyFile(t, node.maker)

	pipeline(t,
		[]string{"send-tokens", "-src", maker, "-dst", taker, "-ticker", "GOLD", "-amount", "30", "-memo", "hi"},
		[]string{"sign", "-key", makerKey},
		[]string{"submit"},
	)
	pipeline(t,
		[]string{"issue-tokens", "-owner", taker, "-ticker", "GOLD", "-amount", "5"},
		[]string{"sign", "-key", makerKey},
		[]string{"submit"},
	)
	assert.Equal(t, uint64(70), balance(t, maker, "GOLD"))
	assert.Equal(t, uint64(35), balance(t, taker, "GOLD"))

	pipeline(t,
		[]string{"open-account", "-owner", maker, "-ticker", "SILVER"},
		[]string{"sign", "-key", makerKey},
		[]string{"submit"},
	)
	accounts := queryAccounts(t, "-prefix")
	assert.Len(t, accounts, 4)

	out := pipeline(t, []string{"query", "-path", "/accounts/owner", "-owner", maker})
	var owned []token.Account
	require.NoError(t, json.Unmarshal(out, &owned))
	assert.Len(t, owned, 2)
}

func TestSubmitFailedTransaction(t *testing.T) {
	node, cleanup := startNode(t)
	defer cleanup()

	maker := node.maker.PublicKey().Address().String()
	out := pipeline(t,
		[]string{"send-tokens", "-src", maker, "-dst", maker, "-ticker", "GOLD", "-amount", "1000"},
		[]string{"sign", "-key", keyFile(t, node.maker)},
	)
	err := cmdSubmitTransaction(strings.NewReader(string(out)), new(strings.Builder), nil)
	if err == nil {
		t.Fatal("transaction moving more than the balance must fail")
	}
}
