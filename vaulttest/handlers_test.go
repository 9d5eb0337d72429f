package vaulttest

import (
	"context"
	"testing"

	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/store"
)

func TestHandlerWithError(t *testing.T) {
	h := Handler{
		CheckErr:   errors.ErrUnauthorized,
		DeliverErr: errors.ErrNotFound,
	}

	_, err := h.Check(nil, nil, nil)
	if want := errors.ErrUnauthorized; !want.Is(err) {
		t.Errorf("want %q, got %q", want, err)
	}

	_, err = h.Deliver(nil, nil, nil)
	if want := errors.ErrNotFound; !want.Is(err) {
		t.Errorf("want %q, got %q", want, err)
	}
}

func TestHandlerCallCount(t *testing.T) {
	var h Handler

	assertHCounts(t, &h, 0, 0)

	_, _ = h.Check(nil, nil, nil)
	assertHCounts(t, &h, 1, 0)

	_, _ = h.Check(nil, nil, nil)
	assertHCounts(t, &h, 2, 0)

	_, _ = h.Deliver(nil, nil, nil)
	assertHCounts(t, &h, 2, 1)
}

func TestHandlerWrites(t *testing.T) {
	db := store.MemStore()
	h := Handler{
		WriteKey:   []byte("key"),
		WriteValue: []byte("value"),
		DeliverErr: errors.ErrHuman,
	}

	_, err := h.Deliver(context.Background(), db, nil)
	if !errors.ErrHuman.Is(err) {
		t.Fatalf("unexpected error: %s", err)
	}
	got, err := db.Get([]byte("key"))
	if err != nil {
		t.Fatalf("cannot get: %s", err)
	}
	if string(got) != "value" {
		t.Fatalf("unexpected value: %q", got)
	}
}

func assertHCounts(t testing.TB, h *Handler, wantCheck, wantDeliver int) {
	t.Helper()

	if got := h.CheckCallCount(); got != wantCheck {
		t.Errorf("want %d check calls, got %d", wantCheck, got)
	}
	if got := h.DeliverCallCount(); got != wantDeliver {
		t.Errorf("want %d deliver calls, got %d", wantDeliver, got)
	}
	if got := h.CallCount(); got != wantCheck+wantDeliver {
		t.Errorf("want %d calls, got %d", wantCheck+wantDeliver, got)
	}
}
