package vaulttest

import "github.com/iov-one/vault"

// Handler is a mock implementation of the vault.Handler interface.
//
// Each method call is counted. Set CheckErr or DeliverErr to force an error
// response. If WriteKey is set, the value under it is written to the store
// before returning, regardless of the result.
type Handler struct {
	checkCall   int
	CheckResult vault.CheckResult
	CheckErr    error

	deliverCall   int
	DeliverResult vault.DeliverResult
	DeliverErr    error

	WriteKey   []byte
	WriteValue []byte
}

var _ vault.Handler = (*Handler)(nil)

func (h *Handler) Check(ctx vault.Context, db vault.KVStore, tx vault.Tx) (*vault.CheckResult, error) {
	h.checkCall++
	if err := h.write(db); err != nil {
		return nil, err
	}
	if h.CheckErr != nil {
		return nil, h.CheckErr
	}
	res := h.CheckResult
	return &res, nil
}

func (h *Handler) Deliver(ctx vault.Context, db vault.KVStore, tx vault.Tx) (*vault.DeliverResult, error) {
	h.deliverCall++
	if err := h.write(db); err != nil {
		return nil, err
	}
	if h.DeliverErr != nil {
		return nil, h.DeliverErr
	}
	res := h.DeliverResult
	return &res, nil
}

func (h *Handler) write(db vault.KVStore) error {
	if h.WriteKey == nil {
		return nil
	}
	return db.Set(h.WriteKey, h.WriteValue)
}

func (h *Handler) CheckCallCount() int {
	return h.checkCall
}

func (h *Handler) DeliverCallCount() int {
	return h.deliverCall
}

func (h *Handler) CallCount() int {
	return h.checkCall + h.deliverCall
}

// PanicHandler panics with given value on every call.
type PanicHandler struct {
	Value interface{}
}

var _ vault.Handler = PanicHandler{}

func (p PanicHandler) Check(vault.Context, vault.KVStore, vault.Tx) (*vault.CheckResult, error) {
	panic(p.Value)
}

func (p PanicHandler) Deliver(vault.Context, vault.KVStore, vault.Tx) (*vault.DeliverResult, error) {
	panic(p.Value)
}
