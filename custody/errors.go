package custody

import "github.com/iov-one/vault/errors"

// custody reserves 400 ~ 409.
var (
	ErrOnCurve = errors.Register(400, "address on curve")
	ErrSeed    = errors.Register(401, "invalid seed")
)
