package escrow

import (
	"encoding/binary"

	"github.com/iov-one/vault"
	"github.com/iov-one/vault/custody"
	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/orm"
	"github.com/iov-one/vault/x/token"
)

const (
	// BucketName is where escrows are stored.
	BucketName = "esc"

	// EscrowSize is the length of a serialized escrow.
	EscrowSize = 8 + 3*vault.AddressLength + 8 + 1

	// KeySize is the length of an escrow key.
	KeySize = vault.AddressLength + 8
)

// custodyTag separates escrow custody derivations from any other use of
// the program deriver.
var custodyTag = []byte("escrow")

// Escrow is an active exchange offer. It is created by make and destroyed
// by take or refund. Nothing else ever modifies it.
type Escrow struct {
	Nonce         uint64
	Maker         vault.Address
	AssetA        vault.Address
	AssetB        vault.Address
	ReceiveAmount uint64
	// Bump is the custody derivation index of the escrow.
	Bump byte
}

var _ orm.Model = (*Escrow)(nil)

func (e *Escrow) Validate() error {
	var errs error
	errs = errors.Append(errs,
		errors.Wrap(e.Maker.Validate(), "maker"),
		errors.Wrap(e.AssetA.Validate(), "asset a"),
		errors.Wrap(e.AssetB.Validate(), "asset b"))
	if e.ReceiveAmount == 0 {
		errs = errors.Append(errs, errors.Wrap(errors.ErrAmount, "receive amount"))
	}
	return errs
}

// Marshal serializes the escrow into its fixed size form: nonce, asset a,
// asset b, maker, receive amount and bump. Integers are little endian.
func (e *Escrow) Marshal() ([]byte, error) {
	if err := e.Validate(); err != nil {
		return nil, err
	}
	raw := make([]byte, EscrowSize)
	binary.LittleEndian.PutUint64(raw[0:8], e.Nonce)
	copy(raw[8:40], e.AssetA)
	copy(raw[40:72], e.AssetB)
	copy(raw[72:104], e.Maker)
	binary.LittleEndian.PutUint64(raw[104:112], e.ReceiveAmount)
	raw[112] = e.Bump
	return raw, nil
}

func (e *Escrow) Unmarshal(raw []byte) error {
	if len(raw) != EscrowSize {
		return errors.Wrapf(errors.ErrInput, "escrow is %d bytes, want %d", len(raw), EscrowSize)
	}
	*e = Escrow{
		Nonce:         binary.LittleEndian.Uint64(raw[0:8]),
		AssetA:        vault.Address(raw[8:40]).Clone(),
		AssetB:        vault.Address(raw[40:72]).Clone(),
		Maker:         vault.Address(raw[72:104]).Clone(),
		ReceiveAmount: binary.LittleEndian.Uint64(raw[104:112]),
		Bump:          raw[112],
	}
	return nil
}

// Key returns the key this escrow is stored under.
func (e *Escrow) Key() []byte {
	return Key(e.Maker, e.Nonce)
}

// Key returns the key of the escrow created by maker with given nonce.
// Keys of one maker share the maker address as their prefix.
func Key(maker vault.Address, nonce uint64) []byte {
	key := make([]byte, KeySize)
	copy(key, maker)
	binary.BigEndian.PutUint64(key[vault.AddressLength:], nonce)
	return key
}

// Seeds returns the custody derivation seeds of the escrow created by
// maker with given nonce.
func Seeds(maker vault.Address, nonce uint64) [][]byte {
	n := make([]byte, 8)
	binary.LittleEndian.PutUint64(n, nonce)
	return [][]byte{custodyTag, maker, n}
}

// Custody returns the address holding the deposit of this escrow.
func (e *Escrow) Custody(d *custody.Deriver) (vault.Address, error) {
	addr, err := d.CreateAddress(e.Bump, Seeds(e.Maker, e.Nonce)...)
	if err != nil {
		return nil, errors.Wrap(err, "custody address")
	}
	return addr, nil
}

// Vault returns the token account holding the deposit of this escrow.
func (e *Escrow) Vault(d *custody.Deriver) (vault.Address, error) {
	addr, err := e.Custody(d)
	if err != nil {
		return nil, err
	}
	return token.AccountAddress(addr, e.AssetA), nil
}

// NewBucket returns the bucket storing escrows.
func NewBucket() orm.ModelBucket {
	return orm.NewModelBucket(BucketName, &Escrow{})
}
