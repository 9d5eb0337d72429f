package client

import (
	"context"

	"github.com/iov-one/vault"
	"github.com/iov-one/vault/app"
	"github.com/iov-one/vault/crypto"
	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/x/sigs"
)

// Client is a tendermint client wrapped to provide
// simple access to the basic data structures used by the application.
type Client struct {
	conn Conn
}

// NewClient wraps a Client around an existing tendermint client connection.
func NewClient(conn Conn) *Client {
	return &Client{conn: conn}
}

// Status returns current height and other (subjective) status info from this node
func (c *Client) Status(ctx context.Context) (*Status, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	status, err := c.conn.Status()
	if err != nil {
		return nil, errors.Wrapf(errors.ErrNetwork, "status: %s", err.Error())
	}
	return &Status{
		Height:     status.SyncInfo.LatestBlockHeight,
		CatchingUp: status.SyncInfo.CatchingUp,
	}, nil
}

// ChainID returns the chain id declared by the node genesis.
func (c *Client) ChainID(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	res, err := c.conn.Genesis()
	if err != nil {
		return "", errors.Wrapf(errors.ErrNetwork, "genesis: %s", err.Error())
	}
	if res.Genesis == nil || res.Genesis.ChainID == "" {
		return "", errors.Wrap(errors.ErrState, "no chain id in genesis")
	}
	return res.Genesis.ChainID, nil
}

// CommitTx submits the transaction and waits until it is included in a
// block. A failed CheckTx is returned as an error. A failed DeliverTx is
// reported in the result.
func (c *Client) CommitTx(ctx context.Context, tx vault.Marshaller) (*CommitResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	bz, err := tx.Marshal()
	if err != nil {
		return nil, errors.Wrapf(errors.ErrMsg, "marshaling: %s", err.Error())
	}
	res, err := c.conn.BroadcastTxCommit(bz)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrNetwork, "submit tx: %s", err.Error())
	}
	if _, err := vault.ParseCheckOrError(res.CheckTx); err != nil {
		return nil, err
	}
	result, err := vault.ParseDeliverOrError(res.DeliverTx)
	return &CommitResult{
		ID:     res.Hash,
		Height: res.Height,
		Result: result,
		Err:    err,
	}, nil
}

// Query runs an abci query and returns the models found. A prefix query
// returns all models with keys starting with data.
func (c *Client) Query(path string, data []byte, prefix bool) ([]vault.Model, error) {
	if prefix {
		path += "?" + vault.PrefixQueryMod
	}
	res, err := c.conn.ABCIQuery(path, data)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrNetwork, "query: %s", err.Error())
	}
	resp := res.Response
	if resp.IsErr() {
		return nil, errors.ABCIError(resp.Code, resp.Log)
	}
	if len(resp.Key) == 0 {
		return nil, nil
	}
	var keys, values app.ResultSet
	if err := keys.Unmarshal(resp.Key); err != nil {
		return nil, errors.Wrap(err, "keys")
	}
	if err := values.Unmarshal(resp.Value); err != nil {
		return nil, errors.Wrap(err, "values")
	}
	return app.JoinResults(&keys, &values)
}

// NextSequence returns the sequence the owner of given key must sign its
// next transaction with.
func (c *Client) NextSequence(pubkey crypto.PublicKey) (int64, error) {
	models, err := c.Query("/auth", pubkey.Address(), false)
	if err != nil {
		return 0, err
	}
	if len(models) == 0 {
		return 0, nil
	}
	var user sigs.User
	if err := user.Unmarshal(models[0].Value); err != nil {
		return 0, errors.Wrap(errors.ErrModel, err.Error())
	}
	return user.Sequence, nil
}
