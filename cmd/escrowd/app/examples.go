package escrowd

import (
	"crypto/sha256"

	"github.com/iov-one/vault"
	"github.com/iov-one/vault/commands"
	"github.com/iov-one/vault/crypto"
	"github.com/iov-one/vault/custody"
	"github.com/iov-one/vault/x/escrow"
	"github.com/iov-one/vault/x/sigs"
	"github.com/iov-one/vault/x/token"
)

// exampleChainID is used to sign the example transactions.
const exampleChainID = "testgen-chain"

// makePrivKey returns a key derived from a fixed seed phrase, so the
// generated examples are reproducible. These keys are not secret at all.
func makePrivKey(seed string) crypto.PrivateKey {
	h := sha256.Sum256([]byte(seed))
	key, err := crypto.FromSeed(h[:])
	if err != nil {
		panic(err)
	}
	return key
}

// Examples generates some example structs to dump out with testgen
func Examples() []commands.Example {
	maker := makePrivKey("maker")
	taker := makePrivKey("taker")
	makerAddr := maker.PublicKey().Address()
	takerAddr := taker.PublicKey().Address()
	gold := token.AssetID("GOLD")
	silver := token.AssetID("SILVER")

	program := vault.NewCondition("escrow", "program", []byte("testgen")).Address()
	deriver, err := custody.NewDeriver(program)
	if err != nil {
		panic(err)
	}

	makeMsg := &escrow.MakeMsg{
		Maker:         makerAddr,
		Nonce:         1,
		AssetA:        gold,
		AssetB:        silver,
		ReceiveAmount: 50,
		DepositAmount: 100,
	}
	takeMsg, err := escrow.NewTakeMsg(deriver, takerAddr, makerAddr, 1, gold, silver)
	if err != nil {
		panic(err)
	}
	refundMsg, err := escrow.NewRefundMsg(deriver, makerAddr, 1, gold)
	if err != nil {
		panic(err)
	}
	sendMsg := &token.SendMsg{
		Src:    makerAddr,
		Dest:   takerAddr,
		Asset:  gold,
		Amount: 250,
		Memo:   "lunch",
	}
	esc := &escrow.Escrow{
		Nonce:         1,
		Maker:         makerAddr,
		AssetA:        gold,
		AssetB:        silver,
		ReceiveAmount: 50,
		Bump:          255,
	}

	makeTx := mustSignedTx(maker, makeMsg, 0)
	takeTx := mustSignedTx(taker, takeMsg, 0)

	return []commands.Example{
		{Filename: "make_escrow_msg", Obj: makeMsg},
		{Filename: "take_escrow_msg", Obj: takeMsg},
		{Filename: "refund_escrow_msg", Obj: refundMsg},
		{Filename: "send_msg", Obj: sendMsg},
		{Filename: "escrow", Obj: esc},
		{Filename: "asset", Obj: &token.Asset{Ticker: "GOLD", Decimals: 6, Issuer: makerAddr, Supply: 1000}},
		{Filename: "account", Obj: &token.Account{Owner: makerAddr, Asset: gold, Amount: 900}},
		{Filename: "make_escrow_tx", Obj: makeTx},
		{Filename: "take_escrow_tx", Obj: takeTx},
		{Filename: "user", Obj: &sigs.User{Pubkey: maker.PublicKey(), Sequence: 1}},
	}
}

func mustSignedTx(key crypto.PrivateKey, msg vault.Msg, seq int64) *Tx {
	tx, err := NewTx(msg)
	if err != nil {
		panic(err)
	}
	sig, err := sigs.SignTx(key, tx, exampleChainID, seq)
	if err != nil {
		panic(err)
	}
	tx.Signatures = []*sigs.StdSignature{sig}
	return tx
}
