package escrowd

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/iov-one/vault"
	"github.com/iov-one/vault/crypto"
	"github.com/iov-one/vault/errors"
	"github.com/prometheus/client_golang/prometheus"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

// DefaultSupply is the amount of every genesis asset given to the issuer
// generated by GenInitOptions.
const DefaultSupply = 1000000000

// GenInitOptions will produce the genesis app_state for a dev chain: two
// assets issued by a single key that also receives their whole supply,
// and the escrow program identity.
//
// Arguments are optional and positional: the issuer address and the
// program address. A new issuer key is generated, and its recovery phrase
// printed, when no issuer is given. The program identity is derived from
// the issuer when not given.
func GenInitOptions(args []string) (json.RawMessage, error) {
	var issuer vault.Address
	if len(args) > 0 {
		addr, err := vault.ParseAddress(args[0])
		if err != nil {
			return nil, errors.Wrap(err, "issuer")
		}
		issuer = addr
	} else {
		addr, phrase, err := GenerateCoinKey()
		if err != nil {
			return nil, err
		}
		issuer = addr
		fmt.Println("Issuer recovery phrase:", phrase)
	}

	program := vault.NewCondition("escrow", "program", issuer).Address()
	if len(args) > 1 {
		addr, err := vault.ParseAddress(args[1])
		if err != nil {
			return nil, errors.Wrap(err, "program")
		}
		program = addr
	}

	type asset struct {
		Ticker   string        `json:"ticker"`
		Decimals uint32        `json:"decimals"`
		Issuer   vault.Address `json:"issuer"`
	}
	type account struct {
		Owner  vault.Address `json:"owner"`
		Ticker string        `json:"ticker"`
		Amount uint64        `json:"amount"`
	}
	state := map[string]interface{}{
		"conf": map[string]interface{}{
			"escrow": map[string]interface{}{
				"program": program,
			},
		},
		"tokens": map[string]interface{}{
			"assets": []asset{
				{Ticker: "GOLD", Decimals: 6, Issuer: issuer},
				{Ticker: "SILVER", Decimals: 6, Issuer: issuer},
			},
			"accounts": []account{
				{Owner: issuer, Ticker: "GOLD", Amount: DefaultSupply},
				{Owner: issuer, Ticker: "SILVER", Amount: DefaultSupply},
			},
		},
	}
	return json.MarshalIndent(state, "", "  ")
}

// GenerateApp is used to create a stub for server/start.go command
func GenerateApp(home string, logger log.Logger, debug bool, reg prometheus.Registerer) (abci.Application, error) {
	// db goes in a subdir, but "" -> "" for memdb
	var dbPath string
	if home != "" {
		dbPath = filepath.Join(home, "escrow.db")
	}

	metrics, err := NewMetrics(reg)
	if err != nil {
		return nil, err
	}
	application, err := Application("escrowd", Stack(metrics), TxDecoder, dbPath, debug)
	if err != nil {
		return nil, err
	}
	application.WithInit(Initializers())

	// set the logger and return
	application.WithLogger(logger)
	return application, nil
}

// GenerateCoinKey returns the address of a new key, along with the BIP39
// recovery phrase it is derived from. The key is the first key of the
// phrase, see crypto.DeriveKey.
func GenerateCoinKey() (vault.Address, string, error) {
	phrase, err := crypto.NewMnemonic()
	if err != nil {
		return nil, "", err
	}
	key, err := crypto.DeriveKey(phrase, 0)
	if err != nil {
		return nil, "", err
	}
	return key.PublicKey().Address(), phrase, nil
}
