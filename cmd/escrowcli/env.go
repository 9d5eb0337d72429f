package main

import (
	"os"
	"path/filepath"

	"github.com/iov-one/vault/client"
)

// env returns the value of an environment variable if provided (even if empty)
// or a fallback value.
func env(name, fallback string) string {
	if v, ok := os.LookupEnv(name); ok {
		return v
	}
	return fallback
}

func defaultTmAddr() string {
	return env("ESCROWCLI_TM_ADDR", "http://localhost:26657")
}

func defaultKeyPath() string {
	return env("ESCROWCLI_PRIV_KEY", filepath.Join(os.Getenv("HOME"), ".escrowcli.priv.key"))
}

const (
	tmAddrUsage  = "Tendermint node address. You can use ESCROWCLI_TM_ADDR environment variable to set it."
	keyPathUsage = "Path to the private key file. You can use ESCROWCLI_PRIV_KEY environment variable to set it."
)

// newClient returns a client talking to the node at given address.
var newClient = func(tmAddr string) *client.Client {
	return client.NewClient(client.NewHTTPConnection(tmAddr))
}
