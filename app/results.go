package app

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
)

// ResultSet contains a list of keys or values returned by a query. The
// abci query response carries one set for keys and one for values.
type ResultSet struct {
	Results [][]byte `protobuf:"bytes,1,rep,name=results,proto3" json:"results"`
}

func (r *ResultSet) Marshal() ([]byte, error) {
	return proto.Marshal((*resultSetCodec)(r))
}

func (r *ResultSet) Unmarshal(raw []byte) error {
	return proto.Unmarshal(raw, (*resultSetCodec)(r))
}

type resultSetCodec ResultSet

func (m *resultSetCodec) Reset()         { *m = resultSetCodec{} }
func (m *resultSetCodec) String() string { return proto.CompactTextString(m) }
func (*resultSetCodec) ProtoMessage()    {}

// ResultsFromKeys returns a ResultSet of all keys
// given a set of models
func ResultsFromKeys(models []vault.Model) *ResultSet {
	res := make([][]byte, len(models))
	for i, m := range models {
		res[i] = m.Key
	}
	return &ResultSet{Results: res}
}

// ResultsFromValues returns a ResultSet of all values
// given a set of models
func ResultsFromValues(models []vault.Model) *ResultSet {
	res := make([][]byte, len(models))
	for i, m := range models {
		res[i] = m.Value
	}
	return &ResultSet{Results: res}
}

// JoinResults inverts ResultsFromKeys and ResultsFromValues
// and makes then a consistent whole again
func JoinResults(keys, values *ResultSet) ([]vault.Model, error) {
	kref, vref := keys.Results, values.Results
	if len(kref) != len(vref) {
		return nil, errors.Wrapf(errors.ErrState, "%d keys and %d values", len(kref), len(vref))
	}
	mods := make([]vault.Model, len(kref))
	for i := range mods {
		mods[i] = vault.Pair(kref[i], vref[i])
	}
	return mods, nil
}

// UnmarshalOneResult will parse a resultset, and
// it if is not empty, unmarshal the first result into o.
// ErrNotFound is returned for an empty set.
func UnmarshalOneResult(bz []byte, o vault.Persistent) error {
	var res ResultSet
	if err := res.Unmarshal(bz); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	if len(res.Results) == 0 {
		return errors.ErrNotFound
	}
	return o.Unmarshal(res.Results[0])
}
