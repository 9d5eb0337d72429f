package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/iov-one/vault/x/token"
)

func cmdSendTokens(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), `
Create a transaction for transferring tokens between the accounts of two
owners. The destination account is opened if it does not exist.
		`)
		fl.PrintDefaults()
	}
	var (
		srcFl    = flAddress(fl, "src", "", "Owner of the account the tokens are taken from. Must sign the transaction.")
		dstFl    = flAddress(fl, "dst", "", "Owner of the account the tokens are sent to.")
		tickerFl = fl.String("ticker", "", "Ticker of the transferred asset.")
		amountFl = fl.Uint64("amount", 0, "Amount of tokens, in the smallest unit.")
		memoFl   = fl.String("memo", "", "A short message attached to the transfer.")
	)
	fl.Parse(args)

	if err := requireAddress("src", *srcFl); err != nil {
		return err
	}
	if err := requireAddress("dst", *dstFl); err != nil {
		return err
	}
	asset, err := assetID("ticker", *tickerFl)
	if err != nil {
		return err
	}
	return writeMsg(output, &token.SendMsg{
		Src:    *srcFl,
		Dest:   *dstFl,
		Asset:  asset,
		Amount: *amountFl,
		Memo:   *memoFl,
	})
}

func cmdOpenAccount(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), `
Create a transaction opening an empty account.
		`)
		fl.PrintDefaults()
	}
	var (
		ownerFl  = flAddress(fl, "owner", "", "Owner of the new account.")
		tickerFl = fl.String("ticker", "", "Ticker of the asset held by the account.")
	)
	fl.Parse(args)

	if err := requireAddress("owner", *ownerFl); err != nil {
		return err
	}
	asset, err := assetID("ticker", *tickerFl)
	if err != nil {
		return err
	}
	return writeMsg(output, &token.OpenAccountMsg{Owner: *ownerFl, Asset: asset})
}

func cmdIssueTokens(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), `
Create a transaction minting new tokens. It must be signed by the asset
issuer.
		`)
		fl.PrintDefaults()
	}
	var (
		ownerFl  = flAddress(fl, "owner", "", "Owner of the account receiving the tokens.")
		tickerFl = fl.String("ticker", "", "Ticker of the issued asset.")
		amountFl = fl.Uint64("amount", 0, "Amount of tokens, in the smallest unit.")
	)
	fl.Parse(args)

	if err := requireAddress("owner", *ownerFl); err != nil {
		return err
	}
	asset, err := assetID("ticker", *tickerFl)
	if err != nil {
		return err
	}
	return writeMsg(output, &token.IssueMsg{Asset: asset, Owner: *ownerFl, Amount: *amountFl})
}
