package main

import (
	"bytes"
	"encoding/json"
	"testing"

	escrowd "github.com/iov-one/vault/cmd/escrowd/app"
	"github.com/iov-one/vault/vaulttest"
	"github.com/iov-one/vault/x/token"
)

func TestCmdTransactionViewHappyPath(t *testing.T) {
	tx, err := escrowd.NewTx(&token.SendMsg{
		Src:    vaulttest.NewAddress(),
		Dest:   vaulttest.NewAddress(),
		Asset:  token.AssetID("GOLD"),
		Amount: 3,
		Memo:   "a memo",
	})
	if err != nil {
		t.Fatalf("cannot create transaction: %s", err)
	}
	var input bytes.Buffer
	if _, err := writeTx(&input, tx); err != nil {
		t.Fatalf("cannot marshal transaction: %s", err)
	}

	var output bytes.Buffer
	if err := cmdTransactionView(&input, &output, nil); err != nil {
		t.Fatalf("cannot view a transaction: %s", err)
	}

	var got struct {
		SendMsg struct {
			Amount uint64 `json:"amount"`
			Memo   string `json:"memo"`
		} `json:"send_msg"`
	}
	if err := json.Unmarshal(output.Bytes(), &got); err != nil {
		t.Fatalf("view output is not JSON: %s", err)
	}
	if got.SendMsg.Memo != "a memo" || got.SendMsg.Amount != 3 {
		t.Fatalf("unexpected view result: %s", output.String())
	}
}

func TestCmdTransactionViewNoInput(t *testing.T) {
	if err := cmdTransactionView(&bytes.Buffer{}, &bytes.Buffer{}, nil); err == nil {
		t.Fatal("empty input must fail")
	}
}
