package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/iov-one/vault"
	escrowd "github.com/iov-one/vault/cmd/escrowd/app"
	"github.com/iov-one/vault/commands"
	"github.com/iov-one/vault/commands/server"
	"github.com/tendermint/tendermint/libs/log"
)

var (
	flagHome = "home"
	varHome  *string
)

func init() {
	defaultHome := filepath.Join(os.ExpandEnv("$HOME"), ".escrowd")
	varHome = flag.String(flagHome, defaultHome, "directory to store files under")

	flag.CommandLine.Usage = helpMessage
}

func helpMessage() {
	fmt.Println("escrowd")
	fmt.Println("          Token exchange escrow node")
	fmt.Println("")
	fmt.Println("help      Print this message")
	fmt.Println("init      Initialize app options in genesis file")
	fmt.Println("start     Run the abci server")
	fmt.Println("validate  Check that the app_state of given genesis files loads")
	fmt.Println("testgen   Write example encodings to given directory")
	fmt.Println("getblock  Print a block of a stopped node's blockstore.db as json")
	fmt.Println("version   Print the app version")
	fmt.Println(`
  -home string
        directory to store files under (default "$HOME/.escrowd")`)
}

func main() {
	logger := log.NewTMLogger(log.NewSyncWriter(os.Stdout)).
		With("module", "escrowd")

	flag.Parse()
	if flag.NArg() == 0 {
		fmt.Println("Missing command:")
		helpMessage()
		os.Exit(1)
	}

	cmd := flag.Arg(0)
	rest := flag.Args()[1:]

	var err error
	switch cmd {
	case "help":
		helpMessage()
	case "init":
		err = server.InitCmd(escrowd.GenInitOptions, logger, *varHome, rest)
	case "start":
		err = server.StartCmd(escrowd.GenerateApp, logger, *varHome, rest)
	case "validate":
		err = server.ValidateGenesis(escrowd.Initializers(), rest)
	case "getblock":
		err = server.GetBlockCmd(logger, *varHome, rest)
	case "testgen":
		err = commands.TestGenCmd(escrowd.Examples(), rest)
	case "version":
		fmt.Println(vault.Version())
	default:
		err = fmt.Errorf("unknown command: %s", cmd)
	}

	if err != nil {
		fmt.Printf("Error: %+v\n\n", err)
		helpMessage()
		os.Exit(1)
	}
}
