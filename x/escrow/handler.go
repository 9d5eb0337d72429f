package escrow

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"

	"github.com/iov-one/vault"
	"github.com/iov-one/vault/custody"
	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/orm"
	"github.com/iov-one/vault/x"
	"github.com/iov-one/vault/x/token"
	"github.com/iov-one/vault/x/utils"
	"github.com/tendermint/tendermint/libs/common"
)

const (
	makeCost   int64 = 300
	takeCost   int64 = 200
	refundCost int64 = 100
)

// RegisterRoutes will instantiate and register all handlers in this
// package.
func RegisterRoutes(r vault.Registry, auth x.Authenticator, tokens token.Controller) {
	bucket := NewBucket()
	r.Handle(&MakeMsg{}, MakeHandler{auth: auth, bucket: bucket, tokens: tokens})
	r.Handle(&TakeMsg{}, TakeHandler{auth: auth, bucket: bucket, tokens: tokens})
	r.Handle(&RefundMsg{}, RefundHandler{auth: auth, bucket: bucket, tokens: tokens})
}

// RegisterQuery will register this bucket as "/escrows". A prefix query
// with a maker address lists all escrows of that maker.
func RegisterQuery(qr vault.QueryRouter) {
	NewBucket().Register("escrows", qr)
}

// MakeHandler creates escrows.
type MakeHandler struct {
	auth   x.Authenticator
	bucket orm.ModelBucket
	tokens token.Controller
}

var _ vault.Handler = MakeHandler{}

// Check just verifies it is properly formed and returns the cost of
// executing it.
func (h MakeHandler) Check(ctx vault.Context, db vault.KVStore, tx vault.Tx) (*vault.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &vault.CheckResult{GasAllocated: makeCost}, nil
}

// Deliver stores the escrow and moves the deposit into custody. Both
// happen or none does.
func (h MakeHandler) Deliver(ctx vault.Context, db vault.KVStore, tx vault.Tx) (*vault.DeliverResult, error) {
	msg, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	key := Key(msg.Maker, msg.Nonce)
	err = utils.Atomic(db, func(db vault.KVStore) error {
		deriver, err := NewDeriver(db)
		if err != nil {
			return err
		}
		holder, bump, err := deriver.FindAddress(Seeds(msg.Maker, msg.Nonce)...)
		if err != nil {
			return errors.Wrap(err, "custody address")
		}
		escrow := &Escrow{
			Nonce:         msg.Nonce,
			Maker:         msg.Maker,
			AssetA:        msg.AssetA,
			AssetB:        msg.AssetB,
			ReceiveAmount: msg.ReceiveAmount,
			Bump:          bump,
		}
		if err := h.bucket.Put(db, key, escrow); err != nil {
			return errors.Wrap(err, "cannot store escrow")
		}
		authority, err := deriver.Authority(bump, Seeds(msg.Maker, msg.Nonce)...)
		if err != nil {
			return err
		}
		vaultAcct, err := h.tokens.OpenCustodyAccount(db, authority, holder, msg.AssetA)
		if err != nil {
			return errors.Wrap(err, "vault")
		}
		// the maker debits its account, the custody authority accepts the credit
		auth := token.AnyOf(token.Signers(ctx, h.auth), authority)
		src := token.AccountAddress(msg.Maker, msg.AssetA)
		return h.tokens.Transfer(db, auth, src, vaultAcct, msg.AssetA, msg.DepositAmount)
	})
	if err != nil {
		return nil, err
	}
	return escrowResult(key), nil
}

// validate does all common pre-processing between Check and Deliver.
func (h MakeHandler) validate(ctx vault.Context, db vault.KVStore, tx vault.Tx) (*MakeMsg, error) {
	var msg MakeMsg
	if err := vault.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if !h.auth.HasAddress(ctx, msg.Maker) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "maker signature missing")
	}
	switch err := h.bucket.Has(db, Key(msg.Maker, msg.Nonce)); {
	case err == nil:
		return nil, errors.Wrapf(errors.ErrDuplicate, "escrow with nonce %d", msg.Nonce)
	case !errors.ErrNotFound.Is(err):
		return nil, err
	}
	if _, err := h.tokens.Asset(db, msg.AssetA); err != nil {
		return nil, errors.Wrap(err, "invalid asset a")
	}
	if _, err := h.tokens.Asset(db, msg.AssetB); err != nil {
		return nil, errors.Wrap(err, "invalid asset b")
	}
	return &msg, nil
}

// TakeHandler settles escrows.
type TakeHandler struct {
	auth   x.Authenticator
	bucket orm.ModelBucket
	tokens token.Controller
}

var _ vault.Handler = TakeHandler{}

// Check runs every verification of Deliver, so a take that would fail
// never reaches a block. No funds move.
func (h TakeHandler) Check(ctx vault.Context, db vault.KVStore, tx vault.Tx) (*vault.CheckResult, error) {
	if _, _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &vault.CheckResult{GasAllocated: takeCost}, nil
}

// Deliver pays the maker, releases the deposit to the taker and destroys
// the escrow.
func (h TakeHandler) Deliver(ctx vault.Context, db vault.KVStore, tx vault.Tx) (*vault.DeliverResult, error) {
	msg, escrow, deriver, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	key := escrow.Key()
	err = utils.Atomic(db, func(db vault.KVStore) error {
		authority, err := deriver.Authority(escrow.Bump, Seeds(escrow.Maker, escrow.Nonce)...)
		if err != nil {
			return err
		}
		if _, err := h.tokens.OpenAccount(db, msg.Taker, escrow.AssetA); err != nil {
			return errors.Wrap(err, "taker account")
		}
		if _, err := h.tokens.OpenAccount(db, escrow.Maker, escrow.AssetB); err != nil {
			return errors.Wrap(err, "maker account")
		}
		signers := token.Signers(ctx, h.auth)
		if err := h.tokens.Transfer(db, signers, msg.TakerAssetB, msg.MakerAssetB, escrow.AssetB, escrow.ReceiveAmount); err != nil {
			return errors.Wrap(err, "payment")
		}
		return release(db, h.tokens, h.bucket, key, authority, msg.Vault, msg.TakerAssetA, escrow.AssetA)
	})
	if err != nil {
		return nil, err
	}
	return escrowResult(key), nil
}

// validate does all common pre-processing between Check and Deliver.
func (h TakeHandler) validate(ctx vault.Context, db vault.KVStore, tx vault.Tx) (*TakeMsg, *Escrow, *custody.Deriver, error) {
	var msg TakeMsg
	if err := vault.LoadMsg(tx, &msg); err != nil {
		return nil, nil, nil, errors.Wrap(err, "load msg")
	}
	escrow, err := loadEscrow(h.bucket, db, msg.Escrow)
	if err != nil {
		return nil, nil, nil, err
	}
	if !h.auth.HasAddress(ctx, msg.Taker) {
		return nil, nil, nil, errors.Wrap(errors.ErrUnauthorized, "taker signature missing")
	}
	deriver, err := NewDeriver(db)
	if err != nil {
		return nil, nil, nil, err
	}
	vaultAcct, err := escrow.Vault(deriver)
	if err != nil {
		return nil, nil, nil, err
	}
	err = matchFields(ctx, escrow,
		field{"maker", msg.Maker, escrow.Maker},
		field{"nonce", encodeNonce(msg.Nonce), encodeNonce(escrow.Nonce)},
		field{"asset a", msg.AssetA, escrow.AssetA},
		field{"asset b", msg.AssetB, escrow.AssetB},
		field{"taker asset a account", msg.TakerAssetA, token.AccountAddress(msg.Taker, escrow.AssetA)},
		field{"taker asset b account", msg.TakerAssetB, token.AccountAddress(msg.Taker, escrow.AssetB)},
		field{"maker asset b account", msg.MakerAssetB, token.AccountAddress(escrow.Maker, escrow.AssetB)},
		field{"vault", msg.Vault, vaultAcct},
	)
	if err != nil {
		return nil, nil, nil, err
	}
	return &msg, escrow, deriver, nil
}

// RefundHandler cancels escrows.
type RefundHandler struct {
	auth   x.Authenticator
	bucket orm.ModelBucket
	tokens token.Controller
}

var _ vault.Handler = RefundHandler{}

// Check verifies the maker signature and the presented accounts.
func (h RefundHandler) Check(ctx vault.Context, db vault.KVStore, tx vault.Tx) (*vault.CheckResult, error) {
	if _, _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &vault.CheckResult{GasAllocated: refundCost}, nil
}

// Deliver returns the deposit to the maker and destroys the escrow.
func (h RefundHandler) Deliver(ctx vault.Context, db vault.KVStore, tx vault.Tx) (*vault.DeliverResult, error) {
	msg, escrow, deriver, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	key := escrow.Key()
	err = utils.Atomic(db, func(db vault.KVStore) error {
		authority, err := deriver.Authority(escrow.Bump, Seeds(escrow.Maker, escrow.Nonce)...)
		if err != nil {
			return err
		}
		if _, err := h.tokens.OpenAccount(db, escrow.Maker, escrow.AssetA); err != nil {
			return errors.Wrap(err, "maker account")
		}
		return release(db, h.tokens, h.bucket, key, authority, msg.Vault, msg.MakerAssetA, escrow.AssetA)
	})
	if err != nil {
		return nil, err
	}
	return escrowResult(key), nil
}

// validate does all common pre-processing between Check and Deliver.
func (h RefundHandler) validate(ctx vault.Context, db vault.KVStore, tx vault.Tx) (*RefundMsg, *Escrow, *custody.Deriver, error) {
	var msg RefundMsg
	if err := vault.LoadMsg(tx, &msg); err != nil {
		return nil, nil, nil, errors.Wrap(err, "load msg")
	}
	escrow, err := loadEscrow(h.bucket, db, msg.Escrow)
	if err != nil {
		return nil, nil, nil, err
	}
	// Only the maker stored in the escrow can cancel it.
	if !h.auth.HasAddress(ctx, escrow.Maker) {
		return nil, nil, nil, errors.Wrap(errors.ErrUnauthorized, "maker signature missing")
	}
	deriver, err := NewDeriver(db)
	if err != nil {
		return nil, nil, nil, err
	}
	vaultAcct, err := escrow.Vault(deriver)
	if err != nil {
		return nil, nil, nil, err
	}
	err = matchFields(ctx, escrow,
		field{"maker", msg.Maker, escrow.Maker},
		field{"nonce", encodeNonce(msg.Nonce), encodeNonce(escrow.Nonce)},
		field{"asset a", msg.AssetA, escrow.AssetA},
		field{"maker asset a account", msg.MakerAssetA, token.AccountAddress(escrow.Maker, escrow.AssetA)},
		field{"vault", msg.Vault, vaultAcct},
	)
	if err != nil {
		return nil, nil, nil, err
	}
	return &msg, escrow, deriver, nil
}

// release moves the whole vault balance to given account, closes the
// vault and deletes the escrow.
func release(
	db vault.KVStore,
	tokens token.Controller,
	bucket orm.ModelBucket,
	key []byte,
	authority *custody.Authority,
	vaultAcct, dest, asset vault.Address,
) error {
	amount, err := tokens.Balance(db, vaultAcct)
	if err != nil {
		return err
	}
	if err := tokens.Transfer(db, authority, vaultAcct, dest, asset, amount); err != nil {
		return errors.Wrap(err, "release deposit")
	}
	if err := tokens.CloseAccount(db, authority, vaultAcct); err != nil {
		return errors.Wrap(err, "close vault")
	}
	if err := bucket.Delete(db, key); err != nil {
		return errors.Wrap(err, "cannot delete escrow")
	}
	return nil
}

func loadEscrow(bucket orm.ModelBucket, db vault.ReadOnlyKVStore, key []byte) (*Escrow, error) {
	var escrow Escrow
	if err := bucket.One(db, key, &escrow); err != nil {
		return nil, errors.Wrapf(err, "escrow %X", key)
	}
	return &escrow, nil
}

type field struct {
	name      string
	presented []byte
	stored    []byte
}

func encodeNonce(n uint64) []byte {
	raw := make([]byte, 8)
	binary.BigEndian.PutUint64(raw, n)
	return raw
}

// matchFields fails if any presented value differs from the stored one.
// A mismatch means the caller tried to redirect funds, so it is logged.
func matchFields(ctx vault.Context, escrow *Escrow, fields ...field) error {
	for _, f := range fields {
		if bytes.Equal(f.presented, f.stored) {
			continue
		}
		vault.GetLogger(ctx).Error("escrow field mismatch",
			"escrow", hex.EncodeToString(escrow.Key()),
			"field", f.name,
			"presented", hex.EncodeToString(f.presented),
			"stored", hex.EncodeToString(f.stored))
		return errors.Wrap(ErrFieldMismatch, f.name)
	}
	return nil
}

func escrowResult(key []byte) *vault.DeliverResult {
	return &vault.DeliverResult{
		Data: key,
		Tags: []common.KVPair{vault.Tag("escrow", hex.EncodeToString(key))},
	}
}
