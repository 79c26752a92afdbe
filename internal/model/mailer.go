package model

import "context"

// EmailKind selects the template and subject of an outgoing email.
type EmailKind string

const (
	EmailConfirm       EmailKind = "confirm"
	EmailPasswordReset EmailKind = "password_reset"
)

// Email is a templated message carrying an email-action token.
type Email struct {
	To       string
	Username string
	Token    string
	Kind     EmailKind
}

// Mailer delivers outgoing emails.
type Mailer interface {
	Send(ctx context.Context, email Email) error
}
