package token

import (
	"encoding/hex"

	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/x"
)

// RegisterRoutes will instantiate and register all handlers in this
// package.
func RegisterRoutes(r vault.Registry, auth x.Authenticator, ctrl Controller) {
	r.Handle(&SendMsg{}, NewSendHandler(auth, ctrl))
	r.Handle(&OpenAccountMsg{}, NewOpenAccountHandler(ctrl))
	r.Handle(&IssueMsg{}, NewIssueHandler(auth, ctrl))
}

// RegisterQuery will register the asset bucket as "/assets" and the
// account bucket as "/accounts".
func RegisterQuery(qr vault.QueryRouter) {
	NewAssetBucket().Register("assets", qr)
	NewAccountBucket().Register("accounts", qr)
}

// SendHandler moves tokens between two accounts of the same asset.
type SendHandler struct {
	auth x.Authenticator
	ctrl Controller
}

var _ vault.Handler = SendHandler{}

func NewSendHandler(auth x.Authenticator, ctrl Controller) SendHandler {
	return SendHandler{auth: auth, ctrl: ctrl}
}

// Check just verifies it is properly formed and returns the cost of
// executing it.
func (h SendHandler) Check(ctx vault.Context, db vault.KVStore, tx vault.Tx) (*vault.CheckResult, error) {
	var msg SendMsg
	if err := vault.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if !h.auth.HasAddress(ctx, msg.Src) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "account owner signature missing")
	}
	return &vault.CheckResult{GasAllocated: sendCost}, nil
}

// Deliver moves the tokens from source to destination if all
// preconditions are met.
func (h SendHandler) Deliver(ctx vault.Context, db vault.KVStore, tx vault.Tx) (*vault.DeliverResult, error) {
	var msg SendMsg
	if err := vault.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	dest, err := h.ctrl.OpenAccount(db, msg.Dest, msg.Asset)
	if err != nil {
		return nil, errors.Wrap(err, "destination")
	}
	src := AccountAddress(msg.Src, msg.Asset)
	if err := h.ctrl.Transfer(db, Signers(ctx, h.auth), src, dest, msg.Asset, msg.Amount); err != nil {
		return nil, err
	}
	return &vault.DeliverResult{}, nil
}

// OpenAccountHandler opens empty accounts.
type OpenAccountHandler struct {
	ctrl Controller
}

var _ vault.Handler = OpenAccountHandler{}

func NewOpenAccountHandler(ctrl Controller) OpenAccountHandler {
	return OpenAccountHandler{ctrl: ctrl}
}

func (h OpenAccountHandler) Check(ctx vault.Context, db vault.KVStore, tx vault.Tx) (*vault.CheckResult, error) {
	var msg OpenAccountMsg
	if err := vault.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if _, err := h.ctrl.Asset(db, msg.Asset); err != nil {
		return nil, err
	}
	return &vault.CheckResult{GasAllocated: openCost}, nil
}

// Deliver opens the account and returns its address as the result data.
func (h OpenAccountHandler) Deliver(ctx vault.Context, db vault.KVStore, tx vault.Tx) (*vault.DeliverResult, error) {
	var msg OpenAccountMsg
	if err := vault.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	addr, err := h.ctrl.OpenAccount(db, msg.Owner, msg.Asset)
	if err != nil {
		return nil, err
	}
	res := &vault.DeliverResult{
		Data: addr,
	}
	res.Tags = append(res.Tags, vault.Tag("account", hex.EncodeToString(addr)))
	return res, nil
}

// IssueHandler mints new tokens. Only the issuer of an asset can use it.
type IssueHandler struct {
	auth x.Authenticator
	ctrl Controller
}

var _ vault.Handler = IssueHandler{}

func NewIssueHandler(auth x.Authenticator, ctrl Controller) IssueHandler {
	return IssueHandler{auth: auth, ctrl: ctrl}
}

func (h IssueHandler) Check(ctx vault.Context, db vault.KVStore, tx vault.Tx) (*vault.CheckResult, error) {
	var msg IssueMsg
	if err := vault.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	asset, err := h.ctrl.Asset(db, msg.Asset)
	if err != nil {
		return nil, err
	}
	if !h.auth.HasAddress(ctx, asset.Issuer) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "issuer signature missing")
	}
	return &vault.CheckResult{GasAllocated: issueCost}, nil
}

func (h IssueHandler) Deliver(ctx vault.Context, db vault.KVStore, tx vault.Tx) (*vault.DeliverResult, error) {
	var msg IssueMsg
	if err := vault.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	dest, err := h.ctrl.OpenAccount(db, msg.Owner, msg.Asset)
	if err != nil {
		return nil, err
	}
	if err := h.ctrl.Issue(db, Signers(ctx, h.auth), msg.Asset, dest, msg.Amount); err != nil {
		return nil, err
	}
	return &vault.DeliverResult{Data: dest}, nil
}
