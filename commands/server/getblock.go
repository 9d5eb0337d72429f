package server

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/iov-one/vault/errors"
	amino "github.com/tendermint/go-amino"
	"github.com/tendermint/tendermint/blockchain"
	dbm "github.com/tendermint/tendermint/libs/db"
	"github.com/tendermint/tendermint/libs/log"
	ctypes "github.com/tendermint/tendermint/rpc/core/types"
)

const (
	flagHeight = "height"
)

var cdc = amino.NewCodec()

func init() {
	ctypes.RegisterAmino(cdc)
}

func parseGetBlockArgs(args []string) (string, int64, error) {
	if len(args) == 0 {
		return "", 0, errors.Wrap(errors.ErrInput, "usage: getblock <path to blockstore.db> [-height=H]")
	}
	var height int64
	fs := flag.NewFlagSet("getblock", flag.ContinueOnError)
	fs.Int64Var(&height, flagHeight, 0, "height of the block to extract (default latest)")
	if err := fs.Parse(args[1:]); err != nil {
		return "", 0, errors.Wrap(errors.ErrInput, err.Error())
	}
	if height < 0 {
		return "", 0, errors.Wrapf(errors.ErrInput, "negative height %d", height)
	}
	return args[0], height, nil
}

// GetBlockCmd prints a block of a tendermint blockstore.db as json, so
// escrow transactions can be inspected offline. The node must be stopped,
// leveldb allows a single process only. It takes the last block unless
// -height is given.
func GetBlockCmd(logger log.Logger, home string, args []string) error {
	return getBlock(os.Stdout, logger, args)
}

func getBlock(w io.Writer, logger log.Logger, args []string) error {
	dbPath, height, err := parseGetBlockArgs(args)
	if err != nil {
		return err
	}
	db, err := openDb(dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	store := blockchain.NewBlockStore(db)
	if height == 0 {
		height = store.Height()
	}
	logger.Debug("Loading block", "db", dbPath, "height", height)
	return printBlock(w, store, height)
}

// openDb opens an existing leveldb directory. Tendermint names them
// <name>.db under the data directory.
func openDb(dir string) (dbm.DB, error) {
	dir = filepath.Clean(dir)
	if !strings.HasSuffix(dir, ".db") {
		return nil, errors.Wrapf(errors.ErrInput, "database directory %q must end with .db", dir)
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return nil, errors.Wrapf(errors.ErrNotFound, "database directory %q", dir)
	}
	name := strings.TrimSuffix(filepath.Base(dir), ".db")
	db, err := dbm.NewGoLevelDB(name, filepath.Dir(dir))
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return db, nil
}

func printBlock(w io.Writer, store *blockchain.BlockStore, height int64) error {
	block := store.LoadBlock(height)
	if block == nil {
		return errors.Wrapf(errors.ErrNotFound, "no block for height %d", height)
	}
	js, err := cdc.MarshalJSONIndent(block, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrType, err.Error())
	}
	_, err = fmt.Fprintln(w, string(js))
	return err
}
