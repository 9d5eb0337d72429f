package escrow

import (
	"context"
	"testing"

	"github.com/iov-one/vault"
	"github.com/iov-one/vault/custody"
	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/gconf"
	"github.com/iov-one/vault/store"
	"github.com/iov-one/vault/vaulttest"
	"github.com/iov-one/vault/x/token"
	"github.com/stretchr/testify/require"
)

var testProgram = vault.NewAddress([]byte("escrow test program"))

// routes is the simplest registry, good enough to dispatch messages in
// tests.
type routes map[string]vault.Handler

func (r routes) Handle(m vault.Msg, h vault.Handler) {
	r[m.Path()] = h
}

// env is a chain state with two registered assets and two funded
// parties.
type env struct {
	t      testing.TB
	db     vault.CacheableKVStore
	auth   *vaulttest.CtxAuth
	tokens token.Controller
	routes routes

	issuer vault.Address
	maker  vault.Address
	taker  vault.Address
	gold   vault.Address
	silver vault.Address
}

func newEnv(t testing.TB) *env {
	t.Helper()
	e := &env{
		t:      t,
		db:     store.MemStore(),
		auth:   &vaulttest.CtxAuth{Key: "auth"},
		tokens: token.NewController(),
		routes: make(routes),
		issuer: vaulttest.NewAddress(),
		maker:  vaulttest.NewAddress(),
		taker:  vaulttest.NewAddress(),
	}
	require.NoError(t, gconf.Save(e.db, "escrow", &Configuration{Program: testProgram}))
	RegisterRoutes(e.routes, e.auth, e.tokens)

	var err error
	e.gold, err = e.tokens.RegisterAsset(e.db, &token.Asset{Ticker: "GOLD", Issuer: e.issuer})
	require.NoError(t, err)
	e.silver, err = e.tokens.RegisterAsset(e.db, &token.Asset{Ticker: "SILVER", Issuer: e.issuer})
	require.NoError(t, err)
	return e
}

// fund issues amount of asset to owner.
func (e *env) fund(owner, asset vault.Address, amount uint64) {
	e.t.Helper()
	addr, err := e.tokens.OpenAccount(e.db, owner, asset)
	require.NoError(e.t, err)
	if amount == 0 {
		return
	}
	ctx := e.auth.SetSigners(context.Background(), e.issuer)
	require.NoError(e.t, e.tokens.Issue(e.db, token.Signers(ctx, e.auth), asset, addr, amount))
}

func (e *env) balance(owner, asset vault.Address) uint64 {
	e.t.Helper()
	n, err := e.tokens.Balance(e.db, token.AccountAddress(owner, asset))
	require.NoError(e.t, err)
	return n
}

func (e *env) ctx(signers ...vault.Address) vault.Context {
	return e.auth.SetSigners(context.Background(), signers...)
}

func (e *env) check(msg vault.Msg, signers ...vault.Address) error {
	h, ok := e.routes[msg.Path()]
	require.True(e.t, ok, msg.Path())
	_, err := h.Check(e.ctx(signers...), e.db, &vaulttest.Tx{Msg: msg})
	return err
}

func (e *env) deliver(msg vault.Msg, signers ...vault.Address) (*vault.DeliverResult, error) {
	h, ok := e.routes[msg.Path()]
	require.True(e.t, ok, msg.Path())
	return h.Deliver(e.ctx(signers...), e.db, &vaulttest.Tx{Msg: msg})
}

func (e *env) deriver() *custody.Deriver {
	e.t.Helper()
	d, err := NewDeriver(e.db)
	require.NoError(e.t, err)
	return d
}

// vaultBalance returns the amount held in custody for given escrow.
func (e *env) vaultBalance(maker vault.Address, nonce uint64, asset vault.Address) uint64 {
	e.t.Helper()
	acct, err := vaultAccount(e.deriver(), maker, nonce, asset)
	require.NoError(e.t, err)
	n, err := e.tokens.Balance(e.db, acct)
	require.NoError(e.t, err)
	return n
}

func (e *env) escrow(maker vault.Address, nonce uint64) (*Escrow, error) {
	return loadEscrow(NewBucket(), e.db, Key(maker, nonce))
}

func (e *env) makeMsg(nonce, deposit, receive uint64) *MakeMsg {
	return &MakeMsg{
		Maker:         e.maker,
		Nonce:         nonce,
		AssetA:        e.gold,
		AssetB:        e.silver,
		ReceiveAmount: receive,
		DepositAmount: deposit,
	}
}

func (e *env) takeMsg(taker vault.Address, nonce uint64) *TakeMsg {
	e.t.Helper()
	msg, err := NewTakeMsg(e.deriver(), taker, e.maker, nonce, e.gold, e.silver)
	require.NoError(e.t, err)
	return msg
}

func (e *env) refundMsg(nonce uint64) *RefundMsg {
	e.t.Helper()
	msg, err := NewRefundMsg(e.deriver(), e.maker, nonce, e.gold)
	require.NoError(e.t, err)
	return msg
}

func assertErr(t testing.TB, want *errors.Error, got error) {
	t.Helper()
	if !want.Is(got) {
		t.Fatalf("want %q error, got %+v", want, got)
	}
}
