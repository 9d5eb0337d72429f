package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/iov-one/vault"
	"github.com/iov-one/vault/custody"
	"github.com/iov-one/vault/x/escrow"
)

func cmdMakeEscrow(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), `
Create a transaction locking tokens in an escrow. The deposit is released
to whoever pays the requested amount of the other asset.
		`)
		fl.PrintDefaults()
	}
	var (
		makerFl   = flAddress(fl, "maker", "", "Creator of the escrow. Must sign the transaction.")
		nonceFl   = fl.Uint64("nonce", 0, "Nonce that makes the escrow unique among the escrows of the maker.")
		giveFl    = fl.String("give", "", "Ticker of the deposited asset.")
		depositFl = fl.Uint64("deposit", 0, "Amount of the deposited asset.")
		wantFl    = fl.String("want", "", "Ticker of the requested asset.")
		receiveFl = fl.Uint64("receive", 0, "Amount of the requested asset.")
	)
	fl.Parse(args)

	if err := requireAddress("maker", *makerFl); err != nil {
		return err
	}
	assetA, err := assetID("give", *giveFl)
	if err != nil {
		return err
	}
	assetB, err := assetID("want", *wantFl)
	if err != nil {
		return err
	}
	return writeMsg(output, &escrow.MakeMsg{
		Maker:         *makerFl,
		Nonce:         *nonceFl,
		AssetA:        assetA,
		AssetB:        assetB,
		DepositAmount: *depositFl,
		ReceiveAmount: *receiveFl,
	})
}

func cmdTakeEscrow(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), `
Create a transaction settling an escrow. The taker pays the requested
amount to the maker and receives the deposit.
		`)
		fl.PrintDefaults()
	}
	var (
		takerFl   = flAddress(fl, "taker", "", "Settling party. Must sign the transaction.")
		makerFl   = flAddress(fl, "maker", "", "Creator of the escrow.")
		nonceFl   = fl.Uint64("nonce", 0, "Nonce of the escrow.")
		giveFl    = fl.String("give", "", "Ticker of the asset deposited by the maker.")
		wantFl    = fl.String("want", "", "Ticker of the asset requested by the maker.")
		programFl = flAddress(fl, "program", env("ESCROWCLI_PROGRAM", ""), "Escrow program identity from the genesis. You can use ESCROWCLI_PROGRAM environment variable to set it.")
	)
	fl.Parse(args)

	if err := requireAddress("taker", *takerFl); err != nil {
		return err
	}
	if err := requireAddress("maker", *makerFl); err != nil {
		return err
	}
	deriver, err := programDeriver(*programFl)
	if err != nil {
		return err
	}
	assetA, err := assetID("give", *giveFl)
	if err != nil {
		return err
	}
	assetB, err := assetID("want", *wantFl)
	if err != nil {
		return err
	}
	msg, err := escrow.NewTakeMsg(deriver, *takerFl, *makerFl, *nonceFl, assetA, assetB)
	if err != nil {
		return err
	}
	return writeMsg(output, msg)
}

func cmdRefundEscrow(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), `
Create a transaction cancelling an escrow. The deposit is returned to the
maker.
		`)
		fl.PrintDefaults()
	}
	var (
		makerFl   = flAddress(fl, "maker", "", "Creator of the escrow. Must sign the transaction.")
		nonceFl   = fl.Uint64("nonce", 0, "Nonce of the escrow.")
		giveFl    = fl.String("give", "", "Ticker of the asset deposited by the maker.")
		programFl = flAddress(fl, "program", env("ESCROWCLI_PROGRAM", ""), "Escrow program identity from the genesis. You can use ESCROWCLI_PROGRAM environment variable to set it.")
	)
	fl.Parse(args)

	if err := requireAddress("maker", *makerFl); err != nil {
		return err
	}
	deriver, err := programDeriver(*programFl)
	if err != nil {
		return err
	}
	assetA, err := assetID("give", *giveFl)
	if err != nil {
		return err
	}
	msg, err := escrow.NewRefundMsg(deriver, *makerFl, *nonceFl, assetA)
	if err != nil {
		return err
	}
	return writeMsg(output, msg)
}

func programDeriver(program vault.Address) (*custody.Deriver, error) {
	if len(program) == 0 {
		return nil, fmt.Errorf("-program is required")
	}
	d, err := custody.NewDeriver(program)
	if err != nil {
		return nil, fmt.Errorf("invalid program: %s", err)
	}
	return d, nil
}
