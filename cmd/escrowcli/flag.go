package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"os"

	"github.com/iov-one/vault"
	"github.com/iov-one/vault/x/token"
)

// flAddress returns a value that is being initialized with given default value
// and optionally overwritten by a command line argument if provided. This
// function follows Go's flag package convention.
// If given value cannot be deserialized to required type, process is
// terminated.
func flAddress(fl *flag.FlagSet, name, defaultVal, usage string) *vault.Address {
	var a vault.Address
	if defaultVal != "" {
		var err error
		a, err = vault.ParseAddress(defaultVal)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Cannot parse %q address flag value. %s", name, err)
			os.Exit(2)
		}
	}
	fl.Var(&a, name, usage)
	return &a
}

// flHex returns a value that is being initialized with given default value
// and optionally overwritten by a command line argument if provided.
func flHex(fl *flag.FlagSet, name, defaultVal, usage string) *[]byte {
	b := new(flagbyte)
	if defaultVal != "" {
		if err := b.Set(defaultVal); err != nil {
			fmt.Fprintf(os.Stderr, "Cannot parse %q hex encoded flag value. %s", name, err)
			os.Exit(2)
		}
	}
	fl.Var(b, name, usage)
	return (*[]byte)(b)
}

type flagbyte []byte

func (b flagbyte) String() string {
	return hex.EncodeToString(b)
}

func (b *flagbyte) Set(raw string) error {
	val, err := hex.DecodeString(raw)
	if err != nil {
		return err
	}
	*b = val
	return nil
}

// requireAddress returns an error naming the flag if the address was not
// provided.
func requireAddress(name string, a vault.Address) error {
	if len(a) == 0 {
		return fmt.Errorf("-%s is required", name)
	}
	return nil
}

// assetID returns the identity of the asset with given ticker.
func assetID(name, ticker string) (vault.Address, error) {
	if ticker == "" {
		return nil, fmt.Errorf("-%s is required", name)
	}
	return token.AssetID(ticker), nil
}
