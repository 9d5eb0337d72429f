package sigs

import (
	"context"

	"github.com/iov-one/vault"
	"github.com/iov-one/vault/x"
)

//------------------- Context --------
// Add context information specific to this package

type contextKey int // local to the sigs module

const (
	contextKeySigners contextKey = iota
)

// withSigners is a private method, as only this module
// can add a signer
func withSigners(ctx vault.Context, signers []vault.Address) vault.Context {
	return context.WithValue(ctx, contextKeySigners, signers)
}

// Authenticate reads the signers verified by the Decorator.
type Authenticate struct{}

var _ x.Authenticator = Authenticate{}

// GetSigners returns who signed the current Context.
// May be empty
func (a Authenticate) GetSigners(ctx vault.Context) []vault.Address {
	// (val, ok) form to return nil instead of panic if unset
	val, _ := ctx.Value(contextKeySigners).([]vault.Address)
	return val
}

// HasAddress returns true if given address signed the current Context.
func (a Authenticate) HasAddress(ctx vault.Context, addr vault.Address) bool {
	for _, s := range a.GetSigners(ctx) {
		if addr.Equals(s) {
			return true
		}
	}
	return false
}
