package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/iov-one/vault"
)

// commands is a register of all availables commands that can be executed by
// this program. The name is used to match with the first argument given.
//
// A command function is given stdin, stdout and the command line arguments
// without the program and the command name. It reads and writes only the
// provided input and output. Commands are small so that they can be
// combined using a unix pipe:
//
//	$ escrowcli make-escrow -maker $ADDR -nonce 1 \
//	    -give GOLD -deposit 100 -want SILVER -receive 50 \
//	    | escrowcli sign \
//	    | escrowcli submit
var commands = map[string]func(input io.Reader, output io.Writer, args []string) error{
	"issue-tokens":  cmdIssueTokens,
	"keyaddr":       cmdKeyaddr,
	"keygen":        cmdKeygen,
	"make-escrow":   cmdMakeEscrow,
	"open-account":  cmdOpenAccount,
	"query":         cmdQuery,
	"refund-escrow": cmdRefundEscrow,
	"send-tokens":   cmdSendTokens,
	"sign":          cmdSignTransaction,
	"submit":        cmdSubmitTransaction,
	"take-escrow":   cmdTakeEscrow,
	"version":       cmdVersion,
	"view":          cmdTransactionView,
}

func main() {
	if len(os.Args) == 1 {
		fmt.Fprintf(os.Stderr, "%s is a command line client for the escrowd application.\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Usage: %s <command> [<flags>]\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nAvailable commands are:\n\t%s\n", strings.Join(availableCmds(), "\n\t"))
		fmt.Fprintf(os.Stderr, "Run '%s <command> -help' to learn more about each command.\n", os.Args[0])
		os.Exit(2)
	}
	run, ok := commands[os.Args[1]]
	if !ok {
		fmt.Fprintf(os.Stderr, "Unknown command %q\n", os.Args[1])
		fmt.Fprintf(os.Stderr, "\nAvailable commands are:\n\t%s\n", strings.Join(availableCmds(), "\n\t"))
		os.Exit(2)
	}

	// Skip two first arguments. Second argument is the command name that
	// we just consumed.
	if err := run(os.Stdin, os.Stdout, os.Args[2:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func availableCmds() []string {
	available := make([]string, 0, len(commands))
	for name := range commands {
		available = append(available, name)
	}
	sort.Strings(available)
	return available
}

func cmdVersion(in io.Reader, out io.Writer, args []string) error {
	_, err := fmt.Fprintln(out, vault.Version())
	return err
}
