package escrow

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/vault"
	"github.com/iov-one/vault/custody"
	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/x/token"
)

var (
	_ vault.Msg = (*MakeMsg)(nil)
	_ vault.Msg = (*TakeMsg)(nil)
	_ vault.Msg = (*RefundMsg)(nil)
)

// MakeMsg creates an escrow. DepositAmount of AssetA is moved from the
// makers account into custody in exchange for ReceiveAmount of AssetB.
type MakeMsg struct {
	Maker         vault.Address `protobuf:"bytes,1,opt,name=maker,proto3" json:"maker"`
	Nonce         uint64        `protobuf:"varint,2,opt,name=nonce,proto3" json:"nonce"`
	AssetA        vault.Address `protobuf:"bytes,3,opt,name=asset_a,json=assetA,proto3" json:"asset_a"`
	AssetB        vault.Address `protobuf:"bytes,4,opt,name=asset_b,json=assetB,proto3" json:"asset_b"`
	ReceiveAmount uint64        `protobuf:"varint,5,opt,name=receive_amount,json=receiveAmount,proto3" json:"receive_amount"`
	DepositAmount uint64        `protobuf:"varint,6,opt,name=deposit_amount,json=depositAmount,proto3" json:"deposit_amount"`
}

func (MakeMsg) Path() string {
	return "escrow/make"
}

func (m *MakeMsg) Validate() error {
	var errs error
	errs = errors.Append(errs,
		errors.Wrap(m.Maker.Validate(), "maker"),
		errors.Wrap(m.AssetA.Validate(), "asset a"),
		errors.Wrap(m.AssetB.Validate(), "asset b"))
	if m.DepositAmount == 0 {
		errs = errors.Append(errs, errors.Wrap(errors.ErrAmount, "zero deposit"))
	}
	if m.ReceiveAmount == 0 {
		errs = errors.Append(errs, errors.Wrap(errors.ErrAmount, "zero receive amount"))
	}
	return errs
}

func (m *MakeMsg) Marshal() ([]byte, error)   { return proto.Marshal((*makeMsgCodec)(m)) }
func (m *MakeMsg) Unmarshal(raw []byte) error { return proto.Unmarshal(raw, (*makeMsgCodec)(m)) }

type makeMsgCodec MakeMsg

func (m *makeMsgCodec) Reset()         { *m = makeMsgCodec{} }
func (m *makeMsgCodec) String() string { return proto.CompactTextString(m) }
func (*makeMsgCodec) ProtoMessage()    {}

// TakeMsg settles the escrow stored under the Escrow key. The taker
// presents every identity and account involved. All of them must match
// what the escrow was created with.
type TakeMsg struct {
	Taker  vault.Address `protobuf:"bytes,1,opt,name=taker,proto3" json:"taker"`
	Maker  vault.Address `protobuf:"bytes,2,opt,name=maker,proto3" json:"maker"`
	Nonce  uint64        `protobuf:"varint,3,opt,name=nonce,proto3" json:"nonce"`
	AssetA vault.Address `protobuf:"bytes,4,opt,name=asset_a,json=assetA,proto3" json:"asset_a"`
	AssetB vault.Address `protobuf:"bytes,5,opt,name=asset_b,json=assetB,proto3" json:"asset_b"`
	// TakerAssetA receives the deposit.
	TakerAssetA vault.Address `protobuf:"bytes,6,opt,name=taker_asset_a,json=takerAssetA,proto3" json:"taker_asset_a"`
	// TakerAssetB pays the maker.
	TakerAssetB vault.Address `protobuf:"bytes,7,opt,name=taker_asset_b,json=takerAssetB,proto3" json:"taker_asset_b"`
	// MakerAssetB receives the payment.
	MakerAssetB vault.Address `protobuf:"bytes,8,opt,name=maker_asset_b,json=makerAssetB,proto3" json:"maker_asset_b"`
	// Vault is the custody account holding the deposit.
	Vault vault.Address `protobuf:"bytes,9,opt,name=vault,proto3" json:"vault"`
	// Escrow is the key of the settled escrow.
	Escrow []byte `protobuf:"bytes,10,opt,name=escrow,proto3" json:"escrow"`
}

func (TakeMsg) Path() string {
	return "escrow/take"
}

func (m *TakeMsg) Validate() error {
	return errors.Append(
		errors.Wrap(m.Taker.Validate(), "taker"),
		errors.Wrap(m.Maker.Validate(), "maker"),
		errors.Wrap(m.AssetA.Validate(), "asset a"),
		errors.Wrap(m.AssetB.Validate(), "asset b"),
		errors.Wrap(m.TakerAssetA.Validate(), "taker asset a account"),
		errors.Wrap(m.TakerAssetB.Validate(), "taker asset b account"),
		errors.Wrap(m.MakerAssetB.Validate(), "maker asset b account"),
		errors.Wrap(m.Vault.Validate(), "vault"),
		validateKey(m.Escrow))
}

func (m *TakeMsg) Marshal() ([]byte, error)   { return proto.Marshal((*takeMsgCodec)(m)) }
func (m *TakeMsg) Unmarshal(raw []byte) error { return proto.Unmarshal(raw, (*takeMsgCodec)(m)) }

type takeMsgCodec TakeMsg

func (m *takeMsgCodec) Reset()         { *m = takeMsgCodec{} }
func (m *takeMsgCodec) String() string { return proto.CompactTextString(m) }
func (*takeMsgCodec) ProtoMessage()    {}

// RefundMsg cancels the escrow stored under the Escrow key and returns the
// deposit to the maker.
type RefundMsg struct {
	Maker  vault.Address `protobuf:"bytes,1,opt,name=maker,proto3" json:"maker"`
	Nonce  uint64        `protobuf:"varint,2,opt,name=nonce,proto3" json:"nonce"`
	AssetA vault.Address `protobuf:"bytes,3,opt,name=asset_a,json=assetA,proto3" json:"asset_a"`
	// MakerAssetA receives the deposit back.
	MakerAssetA vault.Address `protobuf:"bytes,4,opt,name=maker_asset_a,json=makerAssetA,proto3" json:"maker_asset_a"`
	Vault       vault.Address `protobuf:"bytes,5,opt,name=vault,proto3" json:"vault"`
	Escrow      []byte        `protobuf:"bytes,6,opt,name=escrow,proto3" json:"escrow"`
}

func (RefundMsg) Path() string {
	return "escrow/refund"
}

func (m *RefundMsg) Validate() error {
	return errors.Append(
		errors.Wrap(m.Maker.Validate(), "maker"),
		errors.Wrap(m.AssetA.Validate(), "asset a"),
		errors.Wrap(m.MakerAssetA.Validate(), "maker asset a account"),
		errors.Wrap(m.Vault.Validate(), "vault"),
		validateKey(m.Escrow))
}

func (m *RefundMsg) Marshal() ([]byte, error)   { return proto.Marshal((*refundMsgCodec)(m)) }
func (m *RefundMsg) Unmarshal(raw []byte) error { return proto.Unmarshal(raw, (*refundMsgCodec)(m)) }

type refundMsgCodec RefundMsg

func (m *refundMsgCodec) Reset()         { *m = refundMsgCodec{} }
func (m *refundMsgCodec) String() string { return proto.CompactTextString(m) }
func (*refundMsgCodec) ProtoMessage()    {}

// NewTakeMsg returns a message settling the escrow created by maker with
// given nonce. All accounts are derived the same way the handler derives
// them, so the result matches an escrow created with the same assets.
func NewTakeMsg(d *custody.Deriver, taker, maker vault.Address, nonce uint64, assetA, assetB vault.Address) (*TakeMsg, error) {
	vaultAcct, err := vaultAccount(d, maker, nonce, assetA)
	if err != nil {
		return nil, err
	}
	return &TakeMsg{
		Taker:       taker,
		Maker:       maker,
		Nonce:       nonce,
		AssetA:      assetA,
		AssetB:      assetB,
		TakerAssetA: token.AccountAddress(taker, assetA),
		TakerAssetB: token.AccountAddress(taker, assetB),
		MakerAssetB: token.AccountAddress(maker, assetB),
		Vault:       vaultAcct,
		Escrow:      Key(maker, nonce),
	}, nil
}

// NewRefundMsg returns a message cancelling the escrow created by maker
// with given nonce.
func NewRefundMsg(d *custody.Deriver, maker vault.Address, nonce uint64, assetA vault.Address) (*RefundMsg, error) {
	vaultAcct, err := vaultAccount(d, maker, nonce, assetA)
	if err != nil {
		return nil, err
	}
	return &RefundMsg{
		Maker:       maker,
		Nonce:       nonce,
		AssetA:      assetA,
		MakerAssetA: token.AccountAddress(maker, assetA),
		Vault:       vaultAcct,
		Escrow:      Key(maker, nonce),
	}, nil
}

func validateKey(key []byte) error {
	if len(key) != KeySize {
		return errors.Wrapf(errors.ErrInput, "escrow key must be %d bytes", KeySize)
	}
	return nil
}

func vaultAccount(d *custody.Deriver, maker vault.Address, nonce uint64, asset vault.Address) (vault.Address, error) {
	holder, _, err := d.FindAddress(Seeds(maker, nonce)...)
	if err != nil {
		return nil, errors.Wrap(err, "custody address")
	}
	return token.AccountAddress(holder, asset), nil
}
