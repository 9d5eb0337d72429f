package token

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
)

var (
	_ vault.Msg = (*SendMsg)(nil)
	_ vault.Msg = (*OpenAccountMsg)(nil)
	_ vault.Msg = (*IssueMsg)(nil)
)

const (
	sendCost  int64 = 100
	openCost  int64 = 50
	issueCost int64 = 100

	maxMemoSize = 128
)

// SendMsg moves Amount of Asset from the account of Src to the account of
// Dest. The destination account is opened when missing.
type SendMsg struct {
	Src    vault.Address `protobuf:"bytes,1,opt,name=src,proto3" json:"src"`
	Dest   vault.Address `protobuf:"bytes,2,opt,name=dest,proto3" json:"dest"`
	Asset  vault.Address `protobuf:"bytes,3,opt,name=asset,proto3" json:"asset"`
	Amount uint64        `protobuf:"varint,4,opt,name=amount,proto3" json:"amount"`
	Memo   string        `protobuf:"bytes,5,opt,name=memo,proto3" json:"memo,omitempty"`
}

func (SendMsg) Path() string {
	return "token/send"
}

func (m *SendMsg) Validate() error {
	var errs error
	if m.Amount == 0 {
		errs = errors.Append(errs, errors.Wrap(errors.ErrAmount, "zero amount"))
	}
	errs = errors.Append(errs,
		errors.Wrap(m.Src.Validate(), "src"),
		errors.Wrap(m.Dest.Validate(), "dest"),
		errors.Wrap(m.Asset.Validate(), "asset"))
	if len(m.Memo) > maxMemoSize {
		errs = errors.Append(errs, errors.Wrap(errors.ErrInput, "memo too long"))
	}
	return errs
}

func (m *SendMsg) Marshal() ([]byte, error)   { return proto.Marshal((*sendMsgCodec)(m)) }
func (m *SendMsg) Unmarshal(raw []byte) error { return proto.Unmarshal(raw, (*sendMsgCodec)(m)) }

type sendMsgCodec SendMsg

func (m *sendMsgCodec) Reset()         { *m = sendMsgCodec{} }
func (m *sendMsgCodec) String() string { return proto.CompactTextString(m) }
func (*sendMsgCodec) ProtoMessage()    {}

// OpenAccountMsg opens an empty account of Asset for Owner. Opening an
// account moves no value, so anybody may open one for anybody.
type OpenAccountMsg struct {
	Owner vault.Address `protobuf:"bytes,1,opt,name=owner,proto3" json:"owner"`
	Asset vault.Address `protobuf:"bytes,2,opt,name=asset,proto3" json:"asset"`
}

func (OpenAccountMsg) Path() string {
	return "token/open"
}

func (m *OpenAccountMsg) Validate() error {
	return errors.Append(
		errors.Wrap(m.Owner.Validate(), "owner"),
		errors.Wrap(m.Asset.Validate(), "asset"))
}

func (m *OpenAccountMsg) Marshal() ([]byte, error) { return proto.Marshal((*openAccountMsgCodec)(m)) }
func (m *OpenAccountMsg) Unmarshal(raw []byte) error {
	return proto.Unmarshal(raw, (*openAccountMsgCodec)(m))
}

type openAccountMsgCodec OpenAccountMsg

func (m *openAccountMsgCodec) Reset()         { *m = openAccountMsgCodec{} }
func (m *openAccountMsgCodec) String() string { return proto.CompactTextString(m) }
func (*openAccountMsgCodec) ProtoMessage()    {}

// IssueMsg mints Amount of Asset into the account of Owner. It must be
// signed by the asset issuer.
type IssueMsg struct {
	Asset  vault.Address `protobuf:"bytes,1,opt,name=asset,proto3" json:"asset"`
	Owner  vault.Address `protobuf:"bytes,2,opt,name=owner,proto3" json:"owner"`
	Amount uint64        `protobuf:"varint,3,opt,name=amount,proto3" json:"amount"`
}

func (IssueMsg) Path() string {
	return "token/issue"
}

func (m *IssueMsg) Validate() error {
	var errs error
	if m.Amount == 0 {
		errs = errors.Append(errs, errors.Wrap(errors.ErrAmount, "zero amount"))
	}
	return errors.Append(errs,
		errors.Wrap(m.Asset.Validate(), "asset"),
		errors.Wrap(m.Owner.Validate(), "owner"))
}

func (m *IssueMsg) Marshal() ([]byte, error)   { return proto.Marshal((*issueMsgCodec)(m)) }
func (m *IssueMsg) Unmarshal(raw []byte) error { return proto.Unmarshal(raw, (*issueMsgCodec)(m)) }

type issueMsgCodec IssueMsg

func (m *issueMsgCodec) Reset()         { *m = issueMsgCodec{} }
func (m *issueMsgCodec) String() string { return proto.CompactTextString(m) }
func (*issueMsgCodec) ProtoMessage()    {}
