package custody

import (
	"bytes"
	"crypto/sha256"

	"github.com/agl/ed25519/edwards25519"
	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
)

const (
	// MaxSeeds is the maximum number of seeds accepted by a derivation.
	MaxSeeds = 16
	// MaxSeedLength is the maximum length of a single seed.
	MaxSeedLength = 32
)

// addressMarker is appended to every derivation so that a custody address
// can never collide with a hash computed for another purpose.
var addressMarker = []byte("ProgramDerivedAddress")

// Deriver computes custody addresses owned by a single program. A custody
// address is a 32 byte value that is not a valid ed25519 public key, so
// nobody can hold a private key for it. Funds kept there can be moved only
// with an Authority issued by the deriver.
type Deriver struct {
	program vault.Address
}

// NewDeriver returns a deriver for addresses owned by given program.
func NewDeriver(program vault.Address) (*Deriver, error) {
	if err := program.Validate(); err != nil {
		return nil, errors.Wrap(err, "program")
	}
	return &Deriver{program: program.Clone()}, nil
}

// Program returns the identity of the program owning derived addresses.
func (d *Deriver) Program() vault.Address {
	return d.program.Clone()
}

// CreateAddress returns the address for given seeds and bump. ErrOnCurve
// is returned if the result is a valid curve point, in which case another
// bump must be tried.
func (d *Deriver) CreateAddress(bump byte, seeds ...[]byte) (vault.Address, error) {
	if err := validateSeeds(seeds); err != nil {
		return nil, err
	}
	h := sha256.New()
	for _, s := range seeds {
		h.Write(s)
	}
	h.Write([]byte{bump})
	h.Write(d.program)
	h.Write(addressMarker)
	addr := h.Sum(nil)
	if isOnCurve(addr) {
		return nil, errors.Wrapf(ErrOnCurve, "bump %d", bump)
	}
	return addr, nil
}

// FindAddress searches for the highest bump producing a valid custody
// address for given seeds.
func (d *Deriver) FindAddress(seeds ...[]byte) (vault.Address, byte, error) {
	if err := validateSeeds(seeds); err != nil {
		return nil, 0, err
	}
	for bump := 255; bump >= 0; bump-- {
		addr, err := d.CreateAddress(byte(bump), seeds...)
		switch {
		case err == nil:
			return addr, byte(bump), nil
		case ErrOnCurve.Is(err):
			continue
		default:
			return nil, 0, err
		}
	}
	return nil, 0, errors.Wrap(ErrOnCurve, "no bump produces a custody address")
}

// Authority returns the signing capability for the custody address derived
// from given bump and seeds.
func (d *Deriver) Authority(bump byte, seeds ...[]byte) (*Authority, error) {
	addr, err := d.CreateAddress(bump, seeds...)
	if err != nil {
		return nil, err
	}
	cp := make([][]byte, len(seeds))
	for i, s := range seeds {
		cp[i] = append([]byte(nil), s...)
	}
	return &Authority{
		deriver: *d,
		seeds:   cp,
		bump:    bump,
		addr:    addr,
	}, nil
}

// Authority proves the right to move funds held by a single custody
// address. It can be obtained only from a Deriver and is never serialized.
type Authority struct {
	deriver Deriver
	seeds   [][]byte
	bump    byte
	addr    vault.Address
}

// Address returns the custody address this authority controls.
func (a *Authority) Address() vault.Address {
	if a == nil {
		return nil
	}
	return a.addr.Clone()
}

// Authorizes returns nil if this authority controls given owner address.
// The address is derived again from the proof material and any difference
// is refused.
func (a *Authority) Authorizes(owner vault.Address) error {
	if a == nil || len(a.deriver.program) == 0 {
		return errors.Wrap(errors.ErrUnauthorized, "no custody authority")
	}
	addr, err := a.deriver.CreateAddress(a.bump, a.seeds...)
	if err != nil {
		return errors.Wrap(errors.ErrUnauthorized, err.Error())
	}
	if !bytes.Equal(addr, a.addr) || !bytes.Equal(addr, owner) {
		return errors.Wrapf(errors.ErrUnauthorized, "custody authority of %s cannot act for %s", vault.Address(addr), owner)
	}
	return nil
}

func validateSeeds(seeds [][]byte) error {
	if len(seeds) > MaxSeeds {
		return errors.Wrapf(ErrSeed, "%d seeds, max %d", len(seeds), MaxSeeds)
	}
	for i, s := range seeds {
		if len(s) > MaxSeedLength {
			return errors.Wrapf(ErrSeed, "seed %d is %d bytes, max %d", i, len(s), MaxSeedLength)
		}
	}
	return nil
}

// OnCurve returns true if addr is a valid ed25519 public key, so a private
// key may exist for it. Custody addresses never are.
func OnCurve(addr vault.Address) bool {
	return len(addr) == vault.AddressLength && isOnCurve(addr)
}

// isOnCurve returns true if given bytes decode as a compressed ed25519
// point.
func isOnCurve(b []byte) bool {
	var (
		raw [32]byte
		p   edwards25519.ExtendedGroupElement
	)
	copy(raw[:], b)
	return p.FromBytes(&raw)
}
