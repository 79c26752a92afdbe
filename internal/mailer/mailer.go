// Package mailer renders account emails and delivers them over SMTP.
package mailer

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"

	"gopkg.in/gomail.v2"

	"github.com/dtroode/contactbook-server/internal/logger"
	"github.com/dtroode/contactbook-server/internal/model"
)

//go:embed templates/*.html
var templatesFS embed.FS

var templates = template.Must(template.ParseFS(templatesFS, "templates/*.html"))

type layout struct {
	template string
	subject  string
}

var layouts = map[model.EmailKind]layout{
	model.EmailConfirm:       {template: "verify_email.html", subject: "Confirm your email"},
	model.EmailPasswordReset: {template: "reset_password.html", subject: "Reset password"},
}

// Config contains SMTP connection and sender parameters.
type Config struct {
	Server    string
	Port      int
	Username  string
	Password  string
	SSL       bool
	From      string
	FromName  string
	PublicURL string
}

type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTP implements model.Mailer.
type SMTP struct {
	dialer    dialer
	from      string
	fromName  string
	publicURL string
	logger    *logger.Logger
}

var _ model.Mailer = (*SMTP)(nil)

func NewSMTP(cfg Config, logger *logger.Logger) *SMTP {
	d := gomail.NewDialer(cfg.Server, cfg.Port, cfg.Username, cfg.Password)
	d.SSL = cfg.SSL

	return newSMTPWithDialer(d, cfg, logger)
}

func newSMTPWithDialer(d dialer, cfg Config, logger *logger.Logger) *SMTP {
	from := cfg.From
	if from == "" {
		from = cfg.Username
	}

	return &SMTP{
		dialer:    d,
		from:      from,
		fromName:  cfg.FromName,
		publicURL: cfg.PublicURL,
		logger:    logger,
	}
}

// Send renders the template for email.Kind and delivers it.
func (s *SMTP) Send(ctx context.Context, email model.Email) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	subject, body, err := s.render(email)
	if err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.from, s.fromName)
	m.SetHeader("To", email.To)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Info("Mailer: email sent",
		"to", email.To,
		"kind", email.Kind)

	return nil
}

func (s *SMTP) render(email model.Email) (string, string, error) {
	l, ok := layouts[email.Kind]
	if !ok {
		return "", "", fmt.Errorf("unknown email kind %q", email.Kind)
	}

	var buf bytes.Buffer
	err := templates.ExecuteTemplate(&buf, l.template, map[string]string{
		"Host":     s.publicURL,
		"Username": email.Username,
		"Token":    email.Token,
	})
	if err != nil {
		return "", "", fmt.Errorf("failed to render %s: %w", l.template, err)
	}

	return l.subject, buf.String(), nil
}
