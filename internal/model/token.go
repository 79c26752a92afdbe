package model

// TokenTypeBearer is the token type marker returned with session tokens.
const TokenTypeBearer = "bearer"

// TokenManager generates and validates signed tokens.
type TokenManager interface {
	GenerateAccessToken(subject string) (string, error)
	GenerateRefreshToken(subject string) (string, error)
	GenerateEmailToken(email string) (string, error)
	ParseAccessToken(token string) (subject string, err error)
	ParseRefreshToken(token string) (subject string, err error)
	ParseEmailToken(token string) (email string, err error)
}

// TokenPair is the session credential set handed to a client.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}
