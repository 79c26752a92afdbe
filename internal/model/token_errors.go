package model

import (
	"errors"
	"fmt"
)

// ErrInvalidToken covers every token verification failure: bad signature,
// malformed input, expiry, wrong kind, revocation.
var ErrInvalidToken = errors.New("invalid token")

var (
	ErrTokenRevoked  = fmt.Errorf("%w: refresh token revoked", ErrInvalidToken)
	ErrTokenMismatch = fmt.Errorf("%w: refresh token mismatch", ErrInvalidToken)
)
