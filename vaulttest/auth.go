package vaulttest

import (
	"context"
	"fmt"

	"github.com/iov-one/vault"
)

// Auth is a mock implementing x.Authenticator interface.
//
// This structure authenticates any of referenced addresses.
// You can use either Signer or Signers (or both) attributes to reference
// addresses. Each time all signers (regardless which attribute) are
// considered.
type Auth struct {
	// Signer represents an authentication of a single signer.
	Signer vault.Address

	// Signers represents an authentication of multiple signers.
	Signers []vault.Address
}

func (a *Auth) GetSigners(vault.Context) []vault.Address {
	if a.Signer != nil {
		return append(a.Signers, a.Signer)
	}
	return a.Signers
}

func (a *Auth) HasAddress(ctx vault.Context, addr vault.Address) bool {
	for _, s := range a.GetSigners(ctx) {
		if addr.Equals(s) {
			return true
		}
	}
	return false
}

// CtxAuth is a mock implementing x.Authenticator interface.
//
// This implementation is using context to store and retrieve signers.
type CtxAuth struct {
	// Key used to set and retrieve signers from the context. For
	// convenience only string type keys are allowed.
	Key string
}

func (a *CtxAuth) SetSigners(ctx vault.Context, signers ...vault.Address) vault.Context {
	return context.WithValue(ctx, a.Key, signers)
}

func (a *CtxAuth) GetSigners(ctx vault.Context) []vault.Address {
	val := ctx.Value(a.Key)
	if val == nil {
		return nil
	}
	signers, ok := val.([]vault.Address)
	if !ok {
		panic(fmt.Sprintf("instead of []vault.Address got %T", val))
	}
	return signers
}

func (a *CtxAuth) HasAddress(ctx vault.Context, addr vault.Address) bool {
	for _, s := range a.GetSigners(ctx) {
		if addr.Equals(s) {
			return true
		}
	}
	return false
}
