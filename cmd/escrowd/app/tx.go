package escrowd

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/x/escrow"
	"github.com/iov-one/vault/x/sigs"
	"github.com/iov-one/vault/x/token"
)

// Tx is the transaction envelope accepted by the escrowd application. It
// carries exactly one message and the signatures authorizing it.
type Tx struct {
	Signatures []*sigs.StdSignature `protobuf:"bytes,1,rep,name=signatures,proto3" json:"signatures,omitempty"`

	MakeEscrowMsg   *escrow.MakeMsg       `protobuf:"bytes,10,opt,name=make_escrow_msg,json=makeEscrowMsg,proto3" json:"make_escrow_msg,omitempty"`
	TakeEscrowMsg   *escrow.TakeMsg       `protobuf:"bytes,11,opt,name=take_escrow_msg,json=takeEscrowMsg,proto3" json:"take_escrow_msg,omitempty"`
	RefundEscrowMsg *escrow.RefundMsg     `protobuf:"bytes,12,opt,name=refund_escrow_msg,json=refundEscrowMsg,proto3" json:"refund_escrow_msg,omitempty"`
	SendMsg         *token.SendMsg        `protobuf:"bytes,20,opt,name=send_msg,json=sendMsg,proto3" json:"send_msg,omitempty"`
	OpenAccountMsg  *token.OpenAccountMsg `protobuf:"bytes,21,opt,name=open_account_msg,json=openAccountMsg,proto3" json:"open_account_msg,omitempty"`
	IssueMsg        *token.IssueMsg       `protobuf:"bytes,22,opt,name=issue_msg,json=issueMsg,proto3" json:"issue_msg,omitempty"`
}

// make sure tx fulfills all interfaces
var _ vault.Tx = (*Tx)(nil)
var _ sigs.SignedTx = (*Tx)(nil)

// TxDecoder creates a Tx and unmarshals bytes into it
func TxDecoder(bz []byte) (vault.Tx, error) {
	tx := new(Tx)
	if err := tx.Unmarshal(bz); err != nil {
		return nil, err
	}
	return tx, nil
}

// NewTx returns a transaction carrying given message.
func NewTx(msg vault.Msg) (*Tx, error) {
	tx := new(Tx)
	if err := tx.SetMsg(msg); err != nil {
		return nil, err
	}
	return tx, nil
}

// SetMsg replaces the message carried by this transaction.
func (tx *Tx) SetMsg(msg vault.Msg) error {
	tx.MakeEscrowMsg = nil
	tx.TakeEscrowMsg = nil
	tx.RefundEscrowMsg = nil
	tx.SendMsg = nil
	tx.OpenAccountMsg = nil
	tx.IssueMsg = nil

	switch m := msg.(type) {
	case *escrow.MakeMsg:
		tx.MakeEscrowMsg = m
	case *escrow.TakeMsg:
		tx.TakeEscrowMsg = m
	case *escrow.RefundMsg:
		tx.RefundEscrowMsg = m
	case *token.SendMsg:
		tx.SendMsg = m
	case *token.OpenAccountMsg:
		tx.OpenAccountMsg = m
	case *token.IssueMsg:
		tx.IssueMsg = m
	default:
		return errors.Wrapf(errors.ErrType, "unsupported message %T", msg)
	}
	return nil
}

// GetMsg returns the single message set on this transaction.
func (tx *Tx) GetMsg() (vault.Msg, error) {
	var msgs []vault.Msg
	if tx.MakeEscrowMsg != nil {
		msgs = append(msgs, tx.MakeEscrowMsg)
	}
	if tx.TakeEscrowMsg != nil {
		msgs = append(msgs, tx.TakeEscrowMsg)
	}
	if tx.RefundEscrowMsg != nil {
		msgs = append(msgs, tx.RefundEscrowMsg)
	}
	if tx.SendMsg != nil {
		msgs = append(msgs, tx.SendMsg)
	}
	if tx.OpenAccountMsg != nil {
		msgs = append(msgs, tx.OpenAccountMsg)
	}
	if tx.IssueMsg != nil {
		msgs = append(msgs, tx.IssueMsg)
	}

	switch len(msgs) {
	case 0:
		return nil, errors.Wrap(errors.ErrState, "no message in transaction")
	case 1:
		return msgs[0], nil
	default:
		return nil, errors.Wrapf(errors.ErrState, "%d messages in transaction", len(msgs))
	}
}

// GetSignatures returns the signatures attached to this transaction.
func (tx *Tx) GetSignatures() []*sigs.StdSignature {
	return tx.Signatures
}

// GetSignBytes returns the bytes to sign. Signatures are not part of the
// signed data.
func (tx *Tx) GetSignBytes() ([]byte, error) {
	unsigned := *tx
	unsigned.Signatures = nil
	return unsigned.Marshal()
}

func (tx *Tx) Marshal() ([]byte, error) {
	return proto.Marshal((*txCodec)(tx))
}

func (tx *Tx) Unmarshal(raw []byte) error {
	return proto.Unmarshal(raw, (*txCodec)(tx))
}

type txCodec Tx

func (m *txCodec) Reset()         { *m = txCodec{} }
func (m *txCodec) String() string { return proto.CompactTextString(m) }
func (*txCodec) ProtoMessage()    {}
