package server

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/iov-one/vault/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendermint/tendermint/blockchain"
	dbm "github.com/tendermint/tendermint/libs/db"
	"github.com/tendermint/tendermint/libs/log"
	"github.com/tendermint/tendermint/types"
)

// writeBlocks stores one block per tx in a fresh blockstore.db under home.
func writeBlocks(t *testing.T, home string, txs ...string) string {
	t.Helper()
	db, err := dbm.NewGoLevelDB("blockstore", home)
	require.NoError(t, err)
	defer db.Close()

	bs := blockchain.NewBlockStore(db)
	for i, tx := range txs {
		block := types.MakeBlock(int64(i+1), []types.Tx{types.Tx(tx)}, new(types.Commit), nil)
		parts := block.MakePartSet(types.BlockPartSizeBytes)
		bs.SaveBlock(block, parts, new(types.Commit))
	}
	return filepath.Join(home, "blockstore.db")
}

func TestGetBlock(t *testing.T) {
	home, cleanup := tempHome(t)
	defer cleanup()
	path := writeBlocks(t, home, "escrow/make", "escrow/take")

	cases := map[string]struct {
		args   []string
		height string
		err    *errors.Error
	}{
		"latest by default":    {args: []string{path}, height: "2"},
		"explicit height":      {args: []string{path, "-height=1"}, height: "1"},
		"trailing slash":       {args: []string{path + "/", "-height=2"}, height: "2"},
		"no such height":       {args: []string{path, "-height=7"}, err: errors.ErrNotFound},
		"negative height":      {args: []string{path, "-height=-1"}, err: errors.ErrInput},
		"bad flag":             {args: []string{path, "-tall"}, err: errors.ErrInput},
		"missing path":         {args: nil, err: errors.ErrInput},
		"not a db directory":   {args: []string{home}, err: errors.ErrInput},
		"missing db directory": {args: []string{filepath.Join(home, "state.db")}, err: errors.ErrNotFound},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			var out bytes.Buffer
			err := getBlock(&out, log.NewNopLogger(), tc.args)
			if tc.err != nil {
				require.True(t, tc.err.Is(err), "unexpected error: %+v", err)
				assert.Empty(t, out.String())
				return
			}
			require.NoError(t, err)

			var block struct {
				Header struct {
					Height string `json:"height"`
				} `json:"header"`
			}
			require.NoError(t, json.Unmarshal(out.Bytes(), &block))
			assert.Equal(t, tc.height, block.Header.Height)
		})
	}
}
