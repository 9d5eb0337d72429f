package main

import (
	"flag"
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"strings"

	"github.com/iov-one/vault/crypto"
)

func cmdKeygen(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Generate a new private key.

A new recovery phrase is generated and written to the output, unless an
existing phrase is given with -mnemonic. The private key derived from that
phrase is written to the key file. This command fails if the private key
file already exists.
`)
		fl.PrintDefaults()
	}
	var (
		keyPathFl  = fl.String("key", defaultKeyPath(), keyPathUsage)
		indexFl    = fl.Uint("index", 0, "Derivation index of the key.")
		mnemonicFl = fl.String("mnemonic", "", "Recover the key from given BIP39 phrase instead of generating a new one.")
	)
	fl.Parse(args)

	if _, err := os.Stat(*keyPathFl); !os.IsNotExist(err) {
		// Do not allow to overwrite already existing private key. User
		// must manually delete it first to ensure we do not delete
		// such crucial data by an accident (bad command usage).
		return fmt.Errorf("private key file %q already exists, delete this file and try again", *keyPathFl)
	}

	phrase := strings.TrimSpace(*mnemonicFl)
	if phrase == "" {
		var err error
		if phrase, err = crypto.NewMnemonic(); err != nil {
			return fmt.Errorf("cannot generate mnemonic: %s", err)
		}
		if _, err := fmt.Fprintln(output, phrase); err != nil {
			return err
		}
	}
	key, err := crypto.DeriveKey(phrase, uint32(*indexFl))
	if err != nil {
		return fmt.Errorf("cannot derive key: %s", err)
	}

	fd, err := os.OpenFile(*keyPathFl, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("cannot create private key file: %s", err)
	}
	defer fd.Close()

	if _, err := fd.WriteString(key.Hex()); err != nil {
		return fmt.Errorf("cannot write private key: %s", err)
	}
	if err := fd.Close(); err != nil {
		return fmt.Errorf("cannot close private key file: %s", err)
	}
	return nil
}

func cmdKeyaddr(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Print out the address associated with your private key.
`)
		fl.PrintDefaults()
	}
	var (
		keyPathFl = fl.String("key", defaultKeyPath(), keyPathUsage)
	)
	fl.Parse(args)

	key, err := decodePrivateKey(*keyPathFl)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(output, key.PublicKey().Address())
	return err
}

// decodePrivateKey reads a hex encoded private key from given file.
func decodePrivateKey(path string) (crypto.PrivateKey, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %q file: %s", path, err)
	}
	key, err := crypto.ParsePrivateKey(strings.TrimSpace(string(data)))
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %s", err)
	}
	return key, nil
}
