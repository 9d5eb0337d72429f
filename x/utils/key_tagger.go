package utils

import (
	"encoding/hex"
	"strings"

	"github.com/iov-one/vault"
	"github.com/iov-one/vault/store"
	"github.com/tendermint/tendermint/libs/common"
)

// KeyTagger records every Set and Delete performed by the wrapped
// handler and reports each touched store key as a DeliverTx tag, so
// clients can subscribe to changes of a given account or escrow.
//
// The tag key is the upper case hex of the store key, the value is
// "s" for a write and "d" for a removal.
type KeyTagger struct{}

var _ vault.Decorator = KeyTagger{}

// NewKeyTagger creates a KeyTagger decorator
func NewKeyTagger() KeyTagger {
	return KeyTagger{}
}

// Check does nothing
func (KeyTagger) Check(ctx vault.Context, db vault.KVStore, tx vault.Tx, next vault.Checker) (*vault.CheckResult, error) {
	return next.Check(ctx, db, tx)
}

// Deliver hands a recording store to the child and appends one tag
// per changed key on success.
func (KeyTagger) Deliver(ctx vault.Context, db vault.KVStore, tx vault.Tx, next vault.Deliverer) (*vault.DeliverResult, error) {
	record := store.NewRecordingStore(db)
	res, err := next.Deliver(ctx, record, tx)
	if err != nil {
		return nil, err
	}
	res.Tags = append(res.Tags, changesToTags(record.(store.Recorder).KVPairs())...)
	return res, nil
}

var (
	recordSet    = []byte("s")
	recordDelete = []byte("d")
)

func changesToTags(changes map[string][]byte) []common.KVPair {
	if len(changes) == 0 {
		return nil
	}
	tags := make(common.KVPairs, 0, len(changes))
	for k, v := range changes {
		val := recordSet
		if v == nil {
			val = recordDelete
		}
		tags = append(tags, common.KVPair{
			Key:   []byte(strings.ToUpper(hex.EncodeToString([]byte(k)))),
			Value: val,
		})
	}
	tags.Sort()
	return tags
}
