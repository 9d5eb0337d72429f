package vault

import (
	"fmt"

	"github.com/iov-one/vault/errors"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/common"
)

// DeliverOrError turns the outcome of a Deliverer into the DeliverTx
// response. A handler returning neither result nor error produces an
// empty success.
func DeliverOrError(result *DeliverResult, err error, debug bool) abci.ResponseDeliverTx {
	if err != nil {
		return DeliverTxError(err, debug)
	}
	if result == nil {
		return abci.ResponseDeliverTx{}
	}
	return result.ToABCI()
}

// CheckOrError turns the outcome of a Checker into the CheckTx response.
func CheckOrError(result *CheckResult, err error, debug bool) abci.ResponseCheckTx {
	if err != nil {
		return CheckTxError(err, debug)
	}
	if result == nil {
		return abci.ResponseCheckTx{}
	}
	return result.ToABCI()
}

// DeliverResult is what a successful transaction reports back. Failures
// are always returned as errors instead.
type DeliverResult struct {
	// Data is machine readable, like the key of a created escrow.
	Data []byte
	// Log is for humans only.
	Log string
	// Tags are indexed by tendermint so clients can search transactions,
	// for example by action or by touched store key.
	Tags    []common.KVPair
	GasUsed int64
}

// ToABCI converts our internal type into an abci response
func (d DeliverResult) ToABCI() abci.ResponseDeliverTx {
	return abci.ResponseDeliverTx{
		Data:    d.Data,
		Log:     d.Log,
		Tags:    d.Tags,
		GasUsed: d.GasUsed,
	}
}

// ParseDeliverOrError reverses DeliverOrError on the client side. A failed
// transaction comes back as the registered error of its code.
func ParseDeliverOrError(res abci.ResponseDeliverTx) (*DeliverResult, error) {
	if res.Code != errors.SuccessABCICode {
		return nil, errors.ABCIError(res.Code, res.Log)
	}
	return &DeliverResult{
		Data:    res.Data,
		Log:     res.Log,
		Tags:    res.Tags,
		GasUsed: res.GasUsed,
	}, nil
}

// CheckResult is what a transaction admitted to the mempool reports back.
type CheckResult struct {
	Data []byte
	Log  string
	// GasAllocated is the maximum units of work we allow this tx to perform
	GasAllocated int64
}

// NewCheck returns a CheckResult with the gas allowance and log set,
// which is all most handlers report.
func NewCheck(gasAllocated int64, log string) *CheckResult {
	return &CheckResult{
		GasAllocated: gasAllocated,
		Log:          log,
	}
}

// ToABCI converts our internal type into an abci response
func (c CheckResult) ToABCI() abci.ResponseCheckTx {
	return abci.ResponseCheckTx{
		Data:      c.Data,
		Log:       c.Log,
		GasWanted: c.GasAllocated,
	}
}

// ParseCheckOrError reverses CheckOrError. A rejected transaction never
// reached the mempool, so there is nothing to wait for.
func ParseCheckOrError(res abci.ResponseCheckTx) (*CheckResult, error) {
	if res.Code != errors.SuccessABCICode {
		return nil, errors.ABCIError(res.Code, res.Log)
	}
	return &CheckResult{
		Data:         res.Data,
		Log:          res.Log,
		GasAllocated: res.GasWanted,
	}, nil
}

// DeliverTxError converts any error into a abci.ResponseDeliverTx. Outside
// of debug mode, errors that are not registered are reported as internal
// so their details do not leak into the chain.
func DeliverTxError(err error, debug bool) abci.ResponseDeliverTx {
	code, msg := failure("deliver", err, debug)
	return abci.ResponseDeliverTx{Code: code, Log: msg}
}

// CheckTxError is DeliverTxError for CheckTx.
func CheckTxError(err error, debug bool) abci.ResponseCheckTx {
	code, msg := failure("check", err, debug)
	return abci.ResponseCheckTx{Code: code, Log: msg}
}

func failure(phase string, err error, debug bool) (uint32, string) {
	code, msg := errors.ABCIInfo(err, debug)
	if code != errors.SuccessABCICode {
		msg = fmt.Sprintf("cannot %s tx: %s", phase, msg)
	}
	return code, msg
}

// Tag builds a single key value pair, ready to be attached to a
// DeliverResult.
func Tag(key, value string) common.KVPair {
	return common.KVPair{Key: []byte(key), Value: []byte(value)}
}
