package escrow

import "github.com/iov-one/vault/errors"

// x/escrow reserves 300 ~ 309.
var (
	ErrFieldMismatch = errors.Register(300, "field mismatch")
)
