package token

import (
	"regexp"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/orm"
)

const (
	// AssetBucketName is where assets are stored, keyed by asset id.
	AssetBucketName = "asset"
	// AccountBucketName is where accounts are stored, keyed by account
	// address.
	AccountBucketName = "acct"

	// MaxDecimals limits the precision of an asset.
	MaxDecimals = 18
)

var isTicker = regexp.MustCompile(`^[A-Z0-9]{3,8}$`).MatchString

// AssetID returns the identity of the asset with given ticker.
func AssetID(ticker string) vault.Address {
	return vault.NewCondition("token", "asset", []byte(ticker)).Address()
}

// AccountAddress returns the address of the account holding given asset
// for given owner.
func AccountAddress(owner, asset vault.Address) vault.Address {
	data := make([]byte, 0, len(owner)+len(asset))
	data = append(data, owner...)
	data = append(data, asset...)
	return vault.NewCondition("token", "acct", data).Address()
}

// Asset describes a fungible asset.
type Asset struct {
	Ticker   string        `protobuf:"bytes,1,opt,name=ticker,proto3" json:"ticker"`
	Decimals uint32        `protobuf:"varint,2,opt,name=decimals,proto3" json:"decimals"`
	Issuer   vault.Address `protobuf:"bytes,3,opt,name=issuer,proto3" json:"issuer"`
	// Supply is the total amount ever issued.
	Supply uint64 `protobuf:"varint,4,opt,name=supply,proto3" json:"supply"`
}

var _ orm.Model = (*Asset)(nil)

func (a *Asset) Validate() error {
	var errs error
	if !isTicker(a.Ticker) {
		errs = errors.Append(errs, errors.Wrapf(errors.ErrInput, "ticker %q", a.Ticker))
	}
	if a.Decimals > MaxDecimals {
		errs = errors.Append(errs, errors.Wrapf(errors.ErrInput, "decimals %d", a.Decimals))
	}
	if err := a.Issuer.Validate(); err != nil {
		errs = errors.Append(errs, errors.Wrap(err, "issuer"))
	}
	return errs
}

// ID returns the identity of this asset.
func (a *Asset) ID() vault.Address {
	return AssetID(a.Ticker)
}

func (a *Asset) Marshal() ([]byte, error) {
	return proto.Marshal((*assetCodec)(a))
}

func (a *Asset) Unmarshal(raw []byte) error {
	return proto.Unmarshal(raw, (*assetCodec)(a))
}

type assetCodec Asset

func (m *assetCodec) Reset()         { *m = assetCodec{} }
func (m *assetCodec) String() string { return proto.CompactTextString(m) }
func (*assetCodec) ProtoMessage()    {}

// Account holds an amount of a single asset for a single owner.
type Account struct {
	Owner  vault.Address `protobuf:"bytes,1,opt,name=owner,proto3" json:"owner"`
	Asset  vault.Address `protobuf:"bytes,2,opt,name=asset,proto3" json:"asset"`
	Amount uint64        `protobuf:"varint,3,opt,name=amount,proto3" json:"amount"`
}

var _ orm.Model = (*Account)(nil)

func (a *Account) Validate() error {
	var errs error
	if err := a.Owner.Validate(); err != nil {
		errs = errors.Append(errs, errors.Wrap(err, "owner"))
	}
	if err := a.Asset.Validate(); err != nil {
		errs = errors.Append(errs, errors.Wrap(err, "asset"))
	}
	return errs
}

// Address returns the address this account is stored under.
func (a *Account) Address() vault.Address {
	return AccountAddress(a.Owner, a.Asset)
}

func (a *Account) Marshal() ([]byte, error) {
	return proto.Marshal((*accountCodec)(a))
}

func (a *Account) Unmarshal(raw []byte) error {
	return proto.Unmarshal(raw, (*accountCodec)(a))
}

type accountCodec Account

func (m *accountCodec) Reset()         { *m = accountCodec{} }
func (m *accountCodec) String() string { return proto.CompactTextString(m) }
func (*accountCodec) ProtoMessage()    {}

// NewAssetBucket returns the bucket storing assets.
func NewAssetBucket() orm.ModelBucket {
	return orm.NewModelBucket(AssetBucketName, &Asset{})
}

// NewAccountBucket returns the bucket storing accounts, indexed by owner.
func NewAccountBucket() orm.ModelBucket {
	return orm.NewModelBucket(AccountBucketName, &Account{},
		orm.WithIndex("owner", ownerIndexer))
}

func ownerIndexer(m orm.Model) ([]byte, error) {
	a, ok := m.(*Account)
	if !ok {
		return nil, errors.Wrapf(errors.ErrType, "%T", m)
	}
	return a.Owner, nil
}
