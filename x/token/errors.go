package token

import (
	"github.com/iov-one/vault/errors"
)

// x/token reserves 200 ~ 209.
var (
	ErrAssetMismatch = errors.Register(200, "asset mismatch")
)
