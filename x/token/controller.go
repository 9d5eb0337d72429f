package token

import (
	"github.com/iov-one/vault"
	"github.com/iov-one/vault/custody"
	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/orm"
)

// Controller is the asset transfer gateway. All balance changes go through
// it.
type Controller interface {
	// Asset returns the asset with given id or ErrNotFound.
	Asset(db vault.ReadOnlyKVStore, id vault.Address) (*Asset, error)

	// Account returns the account stored under given address or
	// ErrNotFound.
	Account(db vault.ReadOnlyKVStore, addr vault.Address) (*Account, error)

	// Balance returns the amount held by given account. A missing account
	// holds nothing.
	Balance(db vault.ReadOnlyKVStore, addr vault.Address) (uint64, error)

	// RegisterAsset stores a new asset. It fails with ErrDuplicate if an
	// asset with the same ticker exists.
	RegisterAsset(db vault.KVStore, a *Asset) (vault.Address, error)

	// OpenAccount ensures an account of given asset exists for given
	// owner and returns its address. It is a no-op for an existing
	// account.
	OpenAccount(db vault.KVStore, owner, asset vault.Address) (vault.Address, error)

	// OpenCustodyAccount is OpenAccount for a custody address. Given
	// authority must control the owner.
	OpenCustodyAccount(db vault.KVStore, auth Authority, owner, asset vault.Address) (vault.Address, error)

	// CloseAccount removes an empty account. Its owner must be
	// authorized.
	CloseAccount(db vault.KVStore, auth Authority, addr vault.Address) error

	// Transfer moves amount of asset between two accounts. The owner of
	// the source account must be authorized. A missing source account
	// holds nothing, so it fails with ErrInsufficientAmount.
	Transfer(db vault.KVStore, auth Authority, from, to, asset vault.Address, amount uint64) error

	// Issue mints new units of an asset into given account. The asset
	// issuer must be authorized.
	Issue(db vault.KVStore, auth Authority, asset, to vault.Address, amount uint64) error
}

// NewController returns the default token controller.
func NewController() Controller {
	return &controller{
		assets:   NewAssetBucket(),
		accounts: NewAccountBucket(),
	}
}

type controller struct {
	assets   orm.ModelBucket
	accounts orm.ModelBucket
}

var _ Controller = (*controller)(nil)

func (c *controller) Asset(db vault.ReadOnlyKVStore, id vault.Address) (*Asset, error) {
	var a Asset
	if err := c.assets.One(db, id, &a); err != nil {
		return nil, errors.Wrapf(err, "asset %s", id)
	}
	return &a, nil
}

func (c *controller) Account(db vault.ReadOnlyKVStore, addr vault.Address) (*Account, error) {
	var a Account
	if err := c.accounts.One(db, addr, &a); err != nil {
		return nil, errors.Wrapf(err, "account %s", addr)
	}
	return &a, nil
}

func (c *controller) Balance(db vault.ReadOnlyKVStore, addr vault.Address) (uint64, error) {
	switch a, err := c.Account(db, addr); {
	case err == nil:
		return a.Amount, nil
	case errors.ErrNotFound.Is(err):
		return 0, nil
	default:
		return 0, err
	}
}

func (c *controller) RegisterAsset(db vault.KVStore, a *Asset) (vault.Address, error) {
	if err := a.Validate(); err != nil {
		return nil, err
	}
	id := a.ID()
	switch err := c.assets.Has(db, id); {
	case err == nil:
		return nil, errors.Wrapf(errors.ErrDuplicate, "asset %s", a.Ticker)
	case !errors.ErrNotFound.Is(err):
		return nil, err
	}
	if err := c.assets.Put(db, id, a); err != nil {
		return nil, err
	}
	return id, nil
}

func (c *controller) OpenAccount(db vault.KVStore, owner, asset vault.Address) (vault.Address, error) {
	if err := owner.Validate(); err != nil {
		return nil, errors.Wrap(err, "owner")
	}
	if !custody.OnCurve(owner) {
		return nil, errors.Wrapf(errors.ErrUnauthorized, "%s is a custody address", owner)
	}
	return c.open(db, owner, asset)
}

func (c *controller) OpenCustodyAccount(db vault.KVStore, auth Authority, owner, asset vault.Address) (vault.Address, error) {
	if err := owner.Validate(); err != nil {
		return nil, errors.Wrap(err, "owner")
	}
	if custody.OnCurve(owner) {
		return nil, errors.Wrapf(errors.ErrInput, "%s is not a custody address", owner)
	}
	if err := auth.Authorizes(owner); err != nil {
		return nil, err
	}
	return c.open(db, owner, asset)
}

func (c *controller) open(db vault.KVStore, owner, asset vault.Address) (vault.Address, error) {
	if _, err := c.Asset(db, asset); err != nil {
		return nil, err
	}
	addr := AccountAddress(owner, asset)
	switch err := c.accounts.Has(db, addr); {
	case err == nil:
		return addr, nil
	case !errors.ErrNotFound.Is(err):
		return nil, err
	}
	acct := Account{Owner: owner, Asset: asset}
	if err := c.accounts.Put(db, addr, &acct); err != nil {
		return nil, errors.Wrap(err, "cannot open account")
	}
	return addr, nil
}

func (c *controller) CloseAccount(db vault.KVStore, auth Authority, addr vault.Address) error {
	acct, err := c.Account(db, addr)
	if err != nil {
		return err
	}
	if err := auth.Authorizes(acct.Owner); err != nil {
		return err
	}
	if acct.Amount != 0 {
		return errors.Wrapf(errors.ErrState, "account %s holds %d", addr, acct.Amount)
	}
	return c.accounts.Delete(db, addr)
}

func (c *controller) Transfer(db vault.KVStore, auth Authority, from, to, asset vault.Address, amount uint64) error {
	if amount == 0 {
		return errors.Wrap(errors.ErrAmount, "zero transfer")
	}
	src, err := c.Account(db, from)
	switch {
	case errors.ErrNotFound.Is(err):
		// nothing was ever deposited there
		return errors.Wrapf(errors.ErrInsufficientAmount, "no source account %s", from)
	case err != nil:
		return errors.Wrap(err, "source")
	}
	dst, err := c.Account(db, to)
	if err != nil {
		return errors.Wrap(err, "destination")
	}
	if !src.Asset.Equals(asset) {
		return errors.Wrapf(ErrAssetMismatch, "source holds %s, not %s", src.Asset, asset)
	}
	if !dst.Asset.Equals(asset) {
		return errors.Wrapf(ErrAssetMismatch, "destination holds %s, not %s", dst.Asset, asset)
	}
	if err := auth.Authorizes(src.Owner); err != nil {
		return err
	}
	if err := mayCredit(auth, dst); err != nil {
		return err
	}
	if src.Amount < amount {
		return errors.Wrapf(errors.ErrInsufficientAmount, "balance %d, need %d", src.Amount, amount)
	}
	if from.Equals(to) {
		return nil
	}
	if dst.Amount+amount < dst.Amount {
		return errors.Wrap(errors.ErrOverflow, "destination balance")
	}

	src.Amount -= amount
	dst.Amount += amount
	if err := c.accounts.Put(db, from, src); err != nil {
		return err
	}
	return c.accounts.Put(db, to, dst)
}

func (c *controller) Issue(db vault.KVStore, auth Authority, asset, to vault.Address, amount uint64) error {
	if amount == 0 {
		return errors.Wrap(errors.ErrAmount, "zero issue")
	}
	a, err := c.Asset(db, asset)
	if err != nil {
		return err
	}
	if err := auth.Authorizes(a.Issuer); err != nil {
		return errors.Wrap(err, "issuer")
	}
	dst, err := c.Account(db, to)
	if err != nil {
		return err
	}
	if !dst.Asset.Equals(asset) {
		return errors.Wrapf(ErrAssetMismatch, "destination holds %s, not %s", dst.Asset, asset)
	}
	if err := mayCredit(auth, dst); err != nil {
		return err
	}
	if a.Supply+amount < a.Supply || dst.Amount+amount < dst.Amount {
		return errors.Wrap(errors.ErrOverflow, "supply")
	}
	a.Supply += amount
	dst.Amount += amount
	if err := c.assets.Put(db, asset, a); err != nil {
		return err
	}
	return c.accounts.Put(db, to, dst)
}

// mayCredit refuses to credit a custody account unless the authority
// controls it. Custody balances change only through their program.
func mayCredit(auth Authority, dst *Account) error {
	if custody.OnCurve(dst.Owner) {
		return nil
	}
	if err := auth.Authorizes(dst.Owner); err != nil {
		return errors.Wrap(err, "custody account")
	}
	return nil
}
