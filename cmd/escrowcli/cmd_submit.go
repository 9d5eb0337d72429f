package main

import (
	"context"
	"encoding/hex"
	"flag"
	"fmt"
	"io"

	"github.com/iov-one/vault/x/escrow"
)

func cmdSubmitTransaction(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Read binary serialized transaction from standard input and submit it. The
command returns once the transaction is included in a block.

Make sure to collect enough signatures before submitting the transaction.
`)
		fl.PrintDefaults()
	}
	var (
		tmAddrFl = fl.String("tm", defaultTmAddr(), tmAddrUsage)
	)
	fl.Parse(args)

	tx, _, err := readTx(input)
	if err != nil {
		return fmt.Errorf("cannot read transaction from input: %s", err)
	}

	res, err := newClient(*tmAddrFl).CommitTx(context.Background(), tx)
	if err != nil {
		return fmt.Errorf("cannot broadcast transaction: %s", err)
	}
	if res.Err != nil {
		return fmt.Errorf("transaction %X failed in block %d: %s", res.ID, res.Height, res.Err)
	}

	fmt.Fprintf(output, "transaction %X included in block %d\n", res.ID, res.Height)
	msg, err := tx.GetMsg()
	if err != nil {
		return fmt.Errorf("cannot extract message from transaction: %s", err)
	}
	format, ok := formatters[msg.Path()]
	if !ok {
		// If no formatter is registered, we do not print the result.
		return nil
	}
	pretty, err := format(res.Result.Data)
	if err != nil {
		return fmt.Errorf("cannot format result data %x: %s", res.Result.Data, err)
	}
	_, err = fmt.Fprintln(output, pretty)
	return err
}

// formatters contains a mapping of a message path to response parser. Response
// parse function accepts a raw bytes of serialized response and must return a
// human representation of that data.
//
// Do not register a message if you want response returned after its submission
// to be ignored (not printed to the user).
var formatters = map[string]func([]byte) (string, error){
	escrow.MakeMsg{}.Path():   fmtEscrowKey,
	escrow.TakeMsg{}.Path():   fmtEscrowKey,
	escrow.RefundMsg{}.Path(): fmtEscrowKey,
}

func fmtEscrowKey(raw []byte) (string, error) {
	if len(raw) != escrow.KeySize {
		return "", fmt.Errorf("escrow key must be %d bytes", escrow.KeySize)
	}
	return "escrow " + hex.EncodeToString(raw), nil
}
