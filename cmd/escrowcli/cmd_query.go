package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"

	"github.com/iov-one/vault"
	"github.com/iov-one/vault/x/escrow"
	"github.com/iov-one/vault/x/sigs"
	"github.com/iov-one/vault/x/token"
)

type respDecoder interface {
	Unmarshal([]byte) error
}

var resultParser = map[string]func() respDecoder{
	"/accounts":       func() respDecoder { return &token.Account{} },
	"/accounts/owner": func() respDecoder { return &token.Account{} },
	"/assets":         func() respDecoder { return &token.Asset{} },
	"/auth":           func() respDecoder { return &sigs.User{} },
	"/escrows":        func() respDecoder { return &escrow.Escrow{} },
}

func cmdQuery(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), `
Query the application state and print found entities as JSON.

Supported paths are /accounts, /accounts/owner, /assets, /auth and /escrows.
The query key is either given directly with -data or built from the other
flags:

  /accounts        -owner and -ticker
  /accounts/owner  -owner
  /assets          -ticker
  /auth            -owner
  /escrows         -maker and -nonce, or -maker with -prefix to list all
		`)
		fl.PrintDefaults()
	}
	var (
		tmAddrFl = fl.String("tm", defaultTmAddr(), tmAddrUsage)
		pathFl   = fl.String("path", "", "Query path.")
		dataFl   = flHex(fl, "data", "", "Hex encoded query key.")
		prefixFl = fl.Bool("prefix", false, "Return all entities with a key starting with the query key.")
		ownerFl  = flAddress(fl, "owner", "", "Account owner or signer address.")
		makerFl  = flAddress(fl, "maker", "", "Escrow maker address.")
		tickerFl = fl.String("ticker", "", "Asset ticker.")
		nonceFl  = fl.Uint64("nonce", 0, "Escrow nonce.")
	)
	fl.Parse(args)

	newResult, ok := resultParser[*pathFl]
	if !ok {
		return fmt.Errorf("unsupported query path %q", *pathFl)
	}

	data := *dataFl
	if len(data) == 0 {
		var err error
		data, err = queryKey(*pathFl, *prefixFl, *ownerFl, *makerFl, *tickerFl, *nonceFl)
		if err != nil {
			return err
		}
	}

	models, err := newClient(*tmAddrFl).Query(*pathFl, data, *prefixFl)
	if err != nil {
		return fmt.Errorf("failed to run query: %s", err)
	}

	result := make([]interface{}, 0, len(models))
	for i, m := range models {
		obj := newResult()
		if err := obj.Unmarshal(m.Value); err != nil {
			return fmt.Errorf("failed to unmarshal model %d: %s", i, err)
		}
		result = append(result, obj)
	}
	pretty, err := json.MarshalIndent(result, "", "\t")
	if err != nil {
		return fmt.Errorf("cannot JSON serialize: %s", err)
	}
	_, err = output.Write(pretty)
	return err
}

// queryKey builds the query key of given path from its human readable
// components.
func queryKey(path string, prefix bool, owner, maker vault.Address, ticker string, nonce uint64) ([]byte, error) {
	switch path {
	case "/accounts":
		if prefix && len(owner) == 0 {
			return nil, nil
		}
		if err := requireAddress("owner", owner); err != nil {
			return nil, err
		}
		asset, err := assetID("ticker", ticker)
		if err != nil {
			return nil, err
		}
		return token.AccountAddress(owner, asset), nil
	case "/accounts/owner", "/auth":
		if err := requireAddress("owner", owner); err != nil {
			return nil, err
		}
		return owner, nil
	case "/assets":
		if prefix && ticker == "" {
			return nil, nil
		}
		return assetID("ticker", ticker)
	case "/escrows":
		if prefix && len(maker) == 0 {
			return nil, nil
		}
		if err := requireAddress("maker", maker); err != nil {
			return nil, err
		}
		if prefix {
			return maker, nil
		}
		return escrow.Key(maker, nonce), nil
	}
	return nil, fmt.Errorf("no key builder for path %q", path)
}
