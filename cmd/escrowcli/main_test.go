package main

import (
	"bytes"
	"encoding/json"
	"io"
	"io/ioutil"
	"os"
	"testing"

	"github.com/iov-one/vault"
	"github.com/iov-one/vault/client"
	escrowd "github.com/iov-one/vault/cmd/escrowd/app"
	"github.com/iov-one/vault/crypto"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

const testChainID = "escrowcli-test"

// testNode is an in process escrowd application all commands talk to.
type testNode struct {
	program vault.Address
	maker   crypto.PrivateKey
	taker   crypto.PrivateKey
}

// startNode replaces the node connection of all commands with an in
// process application until the returned cleanup is called. GOLD is owned
// by the maker and SILVER by the taker.
func startNode(t testing.TB) (*testNode, func()) {
	t.Helper()

	n := &testNode{
		program: vault.NewCondition("escrow", "program", []byte("cli")).Address(),
		maker:   crypto.GenPrivKey(),
		taker:   crypto.GenPrivKey(),
	}
	maker := n.maker.PublicKey().Address()
	taker := n.taker.PublicKey().Address()
	state, err := json.Marshal(map[string]interface{}{
		"conf": map[string]interface{}{
			"escrow": map[string]interface{}{"program": n.program},
		},
		"tokens": map[string]interface{}{
			"assets": []map[string]interface{}{
				{"ticker": "GOLD", "issuer": maker},
				{"ticker": "SILVER", "issuer": taker},
			},
			"accounts": []map[string]interface{}{
				{"owner": maker, "ticker": "GOLD", "amount": 100},
				{"owner": taker, "ticker": "SILVER", "amount": 100},
			},
		},
	})
	if err != nil {
		t.Fatalf("cannot serialize genesis: %s", err)
	}

	application, err := escrowd.GenerateApp("", log.NewNopLogger(), false, nil)
	if err != nil {
		t.Fatalf("cannot create application: %s", err)
	}
	application.InitChain(abci.RequestInitChain{ChainId: testChainID, AppStateBytes: state})
	application.Commit()

	conn := client.NewAppConnection(application, testChainID)
	prev := newClient
	newClient = func(string) *client.Client { return client.NewClient(conn) }
	return n, func() { newClient = prev }
}

// pipeline runs given commands, feeding the output of each one into the
// next one, and returns the output of the last command.
func pipeline(t testing.TB, cmds ...[]string) []byte {
	t.Helper()
	var input io.Reader = bytes.NewReader(nil)
	var output bytes.Buffer
	for _, args := range cmds {
		output.Reset()
		run, ok := commands[args[0]]
		if !ok {
			t.Fatalf("unknown command %q", args[0])
		}
		if err := run(input, &output, args[1:]); err != nil {
			t.Fatalf("%s: %s", args[0], err)
		}
		input = bytes.NewReader(append([]byte(nil), output.Bytes()...))
	}
	return output.Bytes()
}

func mustCreateFile(t testing.TB, r io.Reader) string {
	t.Helper()

	fd, err := ioutil.TempFile("", "escrowcli")
	if err != nil {
		t.Fatal(err)
	}
	defer fd.Close()
	if _, err := io.Copy(fd, r); err != nil {
		t.Fatal(err)
	}
	if err := fd.Close(); err != nil {
		t.Fatal(err)
	}
	return fd.Name()
}

func keyFile(t testing.TB, key crypto.PrivateKey) string {
	t.Helper()
	return mustCreateFile(t, bytes.NewReader([]byte(key.Hex())))
}

func tempDir(t testing.TB) (string, func()) {
	t.Helper()
	dir, err := ioutil.TempDir("", "escrowcli")
	if err != nil {
		t.Fatal(err)
	}
	return dir, func() { os.RemoveAll(dir) }
}
