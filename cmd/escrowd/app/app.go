/*
Package escrowd links together all the various components
to construct the escrowd app.
*/
package escrowd

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/iov-one/vault"
	"github.com/iov-one/vault/app"
	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/store/iavl"
	"github.com/iov-one/vault/x"
	"github.com/iov-one/vault/x/escrow"
	"github.com/iov-one/vault/x/sigs"
	"github.com/iov-one/vault/x/token"
	"github.com/iov-one/vault/x/utils"
	"github.com/prometheus/client_golang/prometheus"
)

// Authenticator returns the typical authentication,
// just using public key signatures
func Authenticator() x.Authenticator {
	return x.ChainAuth(sigs.Authenticate{})
}

// Chain returns a chain of decorators, to handle authentication,
// logging, metrics and recovery. A nil metrics decorator is skipped.
func Chain(metrics *utils.Metrics) app.Decorators {
	return app.ChainDecorators(
		utils.NewLogging(),
		utils.NewRecovery(),
		utils.NewKeyTagger(),
		metrics,
		utils.NewActionTagger(),
		// on CheckTx, bad tx don't affect state
		utils.NewSavepoint().OnCheck(),
		sigs.NewDecorator(),
		// on DeliverTx, bad tx will increment the signer sequence
		// even if the message fails
		utils.NewSavepoint().OnDeliver(),
	)
}

// Router returns a router dispatching all token and escrow messages.
func Router(authFn x.Authenticator) *app.Router {
	r := app.NewRouter()
	tokens := token.NewController()
	token.RegisterRoutes(r, authFn, tokens)
	escrow.RegisterRoutes(r, authFn, tokens)
	return r
}

// QueryRouter returns a default query router,
// allowing access to "/auth", "/assets", "/accounts" and "/escrows"
func QueryRouter() vault.QueryRouter {
	r := vault.NewQueryRouter()
	r.RegisterAll(
		sigs.RegisterQuery,
		token.RegisterQuery,
		escrow.RegisterQuery,
	)
	return r
}

// Stack wires up a standard router with a standard decorator
// chain. This can be passed into BaseApp.
func Stack(metrics *utils.Metrics) vault.Handler {
	authFn := Authenticator()
	return Chain(metrics).WithHandler(Router(authFn))
}

// Initializers returns the genesis initializers of all extensions.
func Initializers() vault.Initializer {
	return app.ChainInitializers(
		&token.Initializer{},
		&escrow.Initializer{},
	)
}

// Application constructs a basic ABCI application with
// the given arguments. If you are not sure what to use
// for the Handler, just use Stack().
func Application(name string, h vault.Handler,
	tx vault.TxDecoder, dbPath string, debug bool) (app.BaseApp, error) {

	ctx := context.Background()
	kv, err := CommitKVStore(dbPath)
	if err != nil {
		return app.BaseApp{}, err
	}
	store, err := app.NewStoreApp(name, kv, QueryRouter(), ctx)
	if err != nil {
		return app.BaseApp{}, err
	}
	return app.NewBaseApp(store, tx, h, debug), nil
}

// CommitKVStore returns an initialized KVStore that persists
// the data to the named path.
func CommitKVStore(dbPath string) (vault.CommitKVStore, error) {
	// memory backed case, just for testing
	if dbPath == "" {
		return iavl.MockCommitStore(), nil
	}

	// Expand the path fully
	path, err := filepath.Abs(dbPath)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "invalid database name: %s", dbPath)
	}

	// Some external calls accidentally add a ".db", which is now removed
	path = strings.TrimSuffix(path, filepath.Ext(path))

	// Split the database name into it's components (dir, name)
	dir := filepath.Dir(path)
	name := filepath.Base(path)
	return iavl.NewCommitStore(dir, name), nil
}

// NewMetrics returns the metrics decorator registered with given registerer,
// or nil if no registerer is given.
func NewMetrics(reg prometheus.Registerer) (*utils.Metrics, error) {
	if reg == nil {
		return nil, nil
	}
	return utils.NewMetrics(reg)
}
