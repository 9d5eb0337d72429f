package sigs

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/vault"
	"github.com/iov-one/vault/crypto"
	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/orm"
)

// BucketName is where we store the accounts
const BucketName = "sigs"

// User keeps the replay protection state of a single signer.
type User struct {
	Pubkey   crypto.PublicKey `protobuf:"bytes,1,opt,name=pubkey,proto3" json:"pubkey,omitempty"`
	Sequence int64            `protobuf:"varint,2,opt,name=sequence,proto3" json:"sequence,omitempty"`
}

var _ orm.Model = (*User)(nil)

// Validate ensures the user state is consistent.
func (u *User) Validate() error {
	if err := u.Pubkey.Validate(); err != nil {
		return errors.Wrap(err, "pubkey")
	}
	if u.Sequence < 0 {
		return errors.Wrap(ErrInvalidSequence, "negative")
	}
	return nil
}

// CheckAndIncrementSequence implements check and increment operation.
// If current sequence value is the same as given expected value then it is
// incremented. Otherwise an error is returned.
// Before incrementing the sequence, this function is testing for a value
// overflow.
func (u *User) CheckAndIncrementSequence(expected int64) error {
	if u.Sequence != expected {
		return errors.Wrapf(ErrInvalidSequence, "mismatch expected %d, got %d", expected, u.Sequence)
	}

	next := u.Sequence + 1

	// The greatest nonce value supported by javascript clients is
	//   Number.MAX_SAFE_INTEGER = 9007199254740991 = 2^53 - 1
	const maxSequenceValue = (1 << 53) - 1
	if next <= 0 || next > maxSequenceValue {
		return errors.Wrap(errors.ErrOverflow, "sequence out of range")
	}
	u.Sequence = next
	return nil
}

func (u *User) Marshal() ([]byte, error) {
	return proto.Marshal((*userCodec)(u))
}

func (u *User) Unmarshal(raw []byte) error {
	return proto.Unmarshal(raw, (*userCodec)(u))
}

// userCodec shares the wire layout of User without its methods, so that
// the protobuf reflection encoder does not call back into User.Marshal.
type userCodec User

func (m *userCodec) Reset()         { *m = userCodec{} }
func (m *userCodec) String() string { return proto.CompactTextString(m) }
func (*userCodec) ProtoMessage()    {}

// Bucket extends orm.ModelBucket with GetOrCreate
type Bucket struct {
	orm.ModelBucket
}

// NewBucket creates the proper bucket for this extension
func NewBucket() Bucket {
	return Bucket{
		ModelBucket: orm.NewModelBucket(BucketName, &User{}),
	}
}

// GetOrCreate loads the user of given public key or initializes a new one
// if none exist for that key. A new user is not saved.
func (b Bucket) GetOrCreate(db vault.ReadOnlyKVStore, pubkey crypto.PublicKey) (*User, error) {
	var user User
	switch err := b.One(db, pubkey.Address(), &user); {
	case err == nil:
		return &user, nil
	case errors.ErrNotFound.Is(err):
		return &User{Pubkey: pubkey}, nil
	default:
		return nil, err
	}
}

// Save stores the user under its address.
func (b Bucket) Save(db vault.KVStore, u *User) error {
	return b.Put(db, u.Pubkey.Address(), u)
}
