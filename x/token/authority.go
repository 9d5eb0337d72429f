package token

import (
	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/x"
)

// Authority decides if a debit of an account owned by given address is
// allowed.
type Authority interface {
	Authorizes(owner vault.Address) error
}

// Signers returns an authority granted to the signers of the transaction
// being processed in given context.
func Signers(ctx vault.Context, auth x.Authenticator) Authority {
	return signers{ctx: ctx, auth: auth}
}

type signers struct {
	ctx  vault.Context
	auth x.Authenticator
}

func (s signers) Authorizes(owner vault.Address) error {
	if !s.auth.HasAddress(s.ctx, owner) {
		return errors.Wrapf(errors.ErrUnauthorized, "%s did not sign", owner)
	}
	return nil
}

// AnyOf returns an authority granted to an owner if any of given
// authorities grants it.
func AnyOf(auths ...Authority) Authority {
	return anyOf(auths)
}

type anyOf []Authority

func (a anyOf) Authorizes(owner vault.Address) error {
	err := errors.Wrapf(errors.ErrUnauthorized, "no authority for %s", owner)
	for _, auth := range a {
		if err = auth.Authorizes(owner); err == nil {
			return nil
		}
	}
	return err
}
