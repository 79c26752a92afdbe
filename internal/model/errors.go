package model

import "errors"

var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")

	ErrUnknownUser       = errors.New("unknown user")
	ErrBadCredentials    = errors.New("bad credentials")
	ErrPasswordMismatch  = errors.New("password mismatch")
	ErrEmailNotConfirmed = errors.New("email not confirmed")
	ErrAlreadyConfirmed  = errors.New("email already confirmed")
	ErrVerification      = errors.New("verification error")
	ErrForbidden         = errors.New("insufficient role")
)
