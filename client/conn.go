package client

import (
	"sync"
	"time"

	abci "github.com/tendermint/tendermint/abci/types"
	cmn "github.com/tendermint/tendermint/libs/common"
	rpcclient "github.com/tendermint/tendermint/rpc/client"
	ctypes "github.com/tendermint/tendermint/rpc/core/types"
	tmtypes "github.com/tendermint/tendermint/types"
)

// Conn is the part of the tendermint rpc client used by this package.
type Conn interface {
	Status() (*ctypes.ResultStatus, error)
	Genesis() (*ctypes.ResultGenesis, error)
	BroadcastTxCommit(tx tmtypes.Tx) (*ctypes.ResultBroadcastTxCommit, error)
	ABCIQuery(path string, data cmn.HexBytes) (*ctypes.ResultABCIQuery, error)
}

var _ Conn = (*rpcclient.HTTP)(nil)

// NewHTTPConnection takes a URL and sends all requests to the remote node
func NewHTTPConnection(remote string) Conn {
	return rpcclient.NewHTTP(remote, "/websocket")
}

// AppConnection runs an abci application in process, producing one block
// per broadcast transaction. Useful for tests.
type AppConnection struct {
	mu      sync.Mutex
	app     abci.Application
	chainID string
	height  int64
}

var _ Conn = (*AppConnection)(nil)

// NewAppConnection wraps an application that has already been through
// InitChain for given chain.
func NewAppConnection(app abci.Application, chainID string) *AppConnection {
	return &AppConnection{app: app, chainID: chainID}
}

func (c *AppConnection) Status() (*ctypes.ResultStatus, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return &ctypes.ResultStatus{
		SyncInfo: ctypes.SyncInfo{LatestBlockHeight: c.height},
	}, nil
}

func (c *AppConnection) Genesis() (*ctypes.ResultGenesis, error) {
	return &ctypes.ResultGenesis{
		Genesis: &tmtypes.GenesisDoc{ChainID: c.chainID},
	}, nil
}

func (c *AppConnection) BroadcastTxCommit(tx tmtypes.Tx) (*ctypes.ResultBroadcastTxCommit, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	res := &ctypes.ResultBroadcastTxCommit{Hash: tx.Hash()}
	res.CheckTx = c.app.CheckTx(tx)
	if res.CheckTx.IsErr() {
		return res, nil
	}

	c.height++
	c.app.BeginBlock(abci.RequestBeginBlock{
		Header: abci.Header{ChainID: c.chainID, Height: c.height, Time: time.Now()},
	})
	res.DeliverTx = c.app.DeliverTx(tx)
	c.app.EndBlock(abci.RequestEndBlock{Height: c.height})
	c.app.Commit()
	res.Height = c.height
	return res, nil
}

func (c *AppConnection) ABCIQuery(path string, data cmn.HexBytes) (*ctypes.ResultABCIQuery, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	res := c.app.Query(abci.RequestQuery{Path: path, Data: data})
	return &ctypes.ResultABCIQuery{Response: res}, nil
}
