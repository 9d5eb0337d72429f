package escrow

import (
	"github.com/iov-one/vault"
	"github.com/iov-one/vault/gconf"
)

// Initializer fulfils the Initializer interface to load data from the
// genesis file.
type Initializer struct{}

var _ vault.Initializer = (*Initializer)(nil)

// FromGenesis stores the program configuration found under
// "conf.escrow". It is required.
func (*Initializer) FromGenesis(opts vault.Options, db vault.KVStore) error {
	var conf Configuration
	return gconf.InitConfig(db, opts, configPkg, &conf)
}
