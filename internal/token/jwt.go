package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/dtroode/contactbook-server/internal/clock"
	"github.com/dtroode/contactbook-server/internal/model"
)

// Kind discriminates what a token may be used for.
type Kind string

const (
	KindAccess      Kind = "access"
	KindRefresh     Kind = "refresh"
	KindEmailAction Kind = "email_action"
)

// EmailTokenTTL is the fixed lifetime of email confirmation and password
// reset tokens.
const EmailTokenTTL = 7 * 24 * time.Hour

var (
	ErrEmptySecret          = errors.New("jwt secret is empty")
	ErrUnsupportedAlgorithm = errors.New("unsupported jwt algorithm")
	ErrInvalidTTL           = errors.New("token ttl must be positive")
)

// Claims represents JWT claims with the token kind.
type Claims struct {
	jwt.RegisteredClaims
	TokenType Kind `json:"token_type"`
}

// KeySource provides the signing key. All signing and verification goes
// through it so the key can be rotated without touching call sites.
type KeySource interface {
	SigningKey() []byte
}

// StaticKey is a KeySource holding a fixed secret.
type StaticKey []byte

func (k StaticKey) SigningKey() []byte {
	return k
}

// Config configures an Authority.
type Config struct {
	Key        KeySource
	Algorithm  string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// Authority implements TokenManager backed by symmetric HMAC.
type Authority struct {
	key        KeySource
	method     *jwt.SigningMethodHMAC
	accessTTL  time.Duration
	refreshTTL time.Duration
	clock      clock.Clock
	parser     *jwt.Parser
}

var _ model.TokenManager = (*Authority)(nil)

// NewAuthority validates cfg and creates an Authority. Only HMAC algorithms
// are accepted.
func NewAuthority(cfg Config, clk clock.Clock) (*Authority, error) {
	if cfg.Key == nil || len(cfg.Key.SigningKey()) == 0 {
		return nil, ErrEmptySecret
	}

	method, ok := jwt.GetSigningMethod(cfg.Algorithm).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, cfg.Algorithm)
	}

	if cfg.AccessTTL <= 0 || cfg.RefreshTTL <= 0 {
		return nil, ErrInvalidTTL
	}

	return &Authority{
		key:        cfg.Key,
		method:     method,
		accessTTL:  cfg.AccessTTL,
		refreshTTL: cfg.RefreshTTL,
		clock:      clk,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{method.Alg()}),
			jwt.WithTimeFunc(clk.Now),
			jwt.WithExpirationRequired(),
			jwt.WithStrictDecoding(),
		),
	}, nil
}

// GenerateAccessToken creates a short-lived access token for username.
func (a *Authority) GenerateAccessToken(subject string) (string, error) {
	return a.Issue(KindAccess, subject, a.accessTTL)
}

// GenerateRefreshToken creates a refresh token for username. Persisting it is
// the caller's job.
func (a *Authority) GenerateRefreshToken(subject string) (string, error) {
	return a.Issue(KindRefresh, subject, a.refreshTTL)
}

// GenerateEmailToken creates a token for email confirmation or password reset.
func (a *Authority) GenerateEmailToken(email string) (string, error) {
	return a.Issue(KindEmailAction, email, EmailTokenTTL)
}

// Issue signs a token of the given kind that expires ttl after now.
func (a *Authority) Issue(kind Kind, subject string, ttl time.Duration) (string, error) {
	now := a.clock.Now()
	token := jwt.NewWithClaims(a.method, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		TokenType: kind,
	})

	tokenString, err := token.SignedString(a.key.SigningKey())
	if err != nil {
		return "", fmt.Errorf("failed to sign %s token: %w", kind, err)
	}

	return tokenString, nil
}

func (a *Authority) ParseAccessToken(tokenString string) (string, error) {
	return a.parse(tokenString, KindAccess)
}

func (a *Authority) ParseRefreshToken(tokenString string) (string, error) {
	return a.parse(tokenString, KindRefresh)
}

func (a *Authority) ParseEmailToken(tokenString string) (string, error) {
	return a.parse(tokenString, KindEmailAction)
}

// parse verifies signature, expiry and kind and returns the subject. Every
// failure wraps model.ErrInvalidToken.
func (a *Authority) parse(tokenString string, want Kind) (string, error) {
	claims := &Claims{}
	_, err := a.parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return a.key.SigningKey(), nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", model.ErrInvalidToken, err)
	}
	if claims.TokenType != want {
		return "", fmt.Errorf("%w: token type %q, want %q", model.ErrInvalidToken, claims.TokenType, want)
	}
	if claims.Subject == "" {
		return "", fmt.Errorf("%w: empty subject", model.ErrInvalidToken)
	}

	return claims.Subject, nil
}

// RequireAdmin returns user unchanged if it holds the admin role and
// model.ErrForbidden otherwise.
func RequireAdmin(user model.User) (model.User, error) {
	if !user.IsAdmin() {
		return model.User{}, model.ErrForbidden
	}
	return user, nil
}
