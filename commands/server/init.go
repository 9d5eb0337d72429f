package server

import (
	"encoding/json"
	"flag"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/iov-one/vault/errors"
	"github.com/tendermint/tendermint/libs/log"
)

const (
	appStateKey = "app_state"
	flagForce   = "f"
)

// GenOptions can parse command-line and flag to
// generate default app_state for the genesis file.
// This is application-specific
type GenOptions func(args []string) (json.RawMessage, error)

// GenesisFile returns the location of the tendermint genesis file for given
// home directory.
func GenesisFile(home string) string {
	return filepath.Join(home, "config", "genesis.json")
}

// InitCmd will add the application state to an existing tendermint genesis
// file and write the default node configuration if none exists yet.
// The application passes in a function to generate its app_state.
func InitCmd(gen GenOptions, logger log.Logger, home string, args []string) error {
	var force bool
	initFlags := flag.NewFlagSet("init", flag.ContinueOnError)
	initFlags.BoolVar(&force, flagForce, false, "overwrite existing app_state")
	if err := initFlags.Parse(args); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}

	genFile := GenesisFile(home)
	if _, err := os.Stat(genFile); os.IsNotExist(err) {
		return errors.Wrapf(errors.ErrNotFound, "%s, run tendermint init first", genFile)
	}

	options, err := gen(initFlags.Args())
	if err != nil {
		return err
	}
	if err := addGenesisOptions(genFile, options, force); err != nil {
		return err
	}
	logger.Info("App state written", "path", genFile)

	cfgFile, err := writeConfig(home, DefaultConfig())
	if err != nil {
		return err
	}
	logger.Info("Node configuration", "path", cfgFile)
	return nil
}

// genesisDoc involves some tendermint-specific structures we don't
// want to parse, so we just grab it into a raw object format,
// so we can add one line.
type genesisDoc map[string]json.RawMessage

func addGenesisOptions(filename string, options json.RawMessage, force bool) error {
	bz, err := ioutil.ReadFile(filename)
	if err != nil {
		return errors.Wrap(err, "read genesis")
	}

	var doc genesisDoc
	if err := json.Unmarshal(bz, &doc); err != nil {
		return errors.Wrapf(errors.ErrInput, "genesis: %s", err)
	}
	if v, ok := doc[appStateKey]; ok && len(v) > 0 && string(v) != "null" && !force {
		return errors.Wrapf(errors.ErrDuplicate, "%s already set, use -%s to overwrite", appStateKey, flagForce)
	}

	doc[appStateKey] = options
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return errors.Wrap(err, "serialize genesis")
	}
	return ioutil.WriteFile(filename, out, 0600)
}
