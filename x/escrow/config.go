package escrow

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/vault"
	"github.com/iov-one/vault/custody"
	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/gconf"
)

const configPkg = "escrow"

// Configuration is set in genesis and never updated.
type Configuration struct {
	// Program is the identity mixed into every custody address derivation.
	Program vault.Address `protobuf:"bytes,1,opt,name=program,proto3" json:"program"`
}

var _ gconf.Configuration = (*Configuration)(nil)

func (c *Configuration) Validate() error {
	return errors.Wrap(c.Program.Validate(), "program")
}

func (c *Configuration) Marshal() ([]byte, error) {
	return proto.Marshal((*configurationCodec)(c))
}

func (c *Configuration) Unmarshal(raw []byte) error {
	return proto.Unmarshal(raw, (*configurationCodec)(c))
}

type configurationCodec Configuration

func (m *configurationCodec) Reset()         { *m = configurationCodec{} }
func (m *configurationCodec) String() string { return proto.CompactTextString(m) }
func (*configurationCodec) ProtoMessage()    {}

// NewDeriver returns the custody address deriver of the escrow program as
// configured in genesis.
func NewDeriver(db gconf.ReadStore) (*custody.Deriver, error) {
	var conf Configuration
	if err := gconf.Load(db, configPkg, &conf); err != nil {
		return nil, errors.Wrap(err, "load configuration")
	}
	return custody.NewDeriver(conf.Program)
}
