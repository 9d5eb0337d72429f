package main

import (
	"context"
	"flag"
	"fmt"
	"io"

	"github.com/iov-one/vault/x/sigs"
)

func cmdSignTransaction(
	input io.Reader,
	output io.Writer,
	args []string,
) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Sign given transaction. This is decoding a transaction data from standard
input, adds a signature and writes back to standard output signed transaction
content.

The chain id and the signer sequence are fetched from the node unless both
are provided.
`)
		fl.PrintDefaults()
	}
	var (
		tmAddrFl  = fl.String("tm", defaultTmAddr(), tmAddrUsage)
		keyPathFl = fl.String("key", defaultKeyPath(), keyPathUsage)
		chainIDFl = fl.String("chain-id", "", "Chain id to sign for. Fetched from the node when not provided.")
		seqFl     = fl.Int64("seq", -1, "Sequence to sign with. Fetched from the node when not provided.")
	)
	fl.Parse(args)

	key, err := decodePrivateKey(*keyPathFl)
	if err != nil {
		return fmt.Errorf("cannot load private key: %s", err)
	}

	tx, _, err := readTx(input)
	if err != nil {
		return fmt.Errorf("cannot read transaction: %s", err)
	}

	chainID, seq := *chainIDFl, *seqFl
	if chainID == "" || seq < 0 {
		c := newClient(*tmAddrFl)
		if chainID == "" {
			if chainID, err = c.ChainID(context.Background()); err != nil {
				return fmt.Errorf("cannot fetch chain id: %s", err)
			}
		}
		if seq < 0 {
			if seq, err = c.NextSequence(key.PublicKey()); err != nil {
				return fmt.Errorf("cannot get the next sequence number: %s", err)
			}
		}
	}

	sig, err := sigs.SignTx(key, tx, chainID, seq)
	if err != nil {
		return fmt.Errorf("cannot sign transaction: %s", err)
	}
	tx.Signatures = append(tx.Signatures, sig)

	_, err = writeTx(output, tx)
	return err
}
