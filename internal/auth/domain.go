package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// CookieName is the session cookie carrying the signed token.
const CookieName = "session"

// ErrInvalidCredentials is returned when username or password do not match.
var ErrInvalidCredentials = errors.New("invalid username or password")

// Claims is the payload of a session token.
type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Session is what /api/me returns.
type Session struct {
	Username  string    `json:"username"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Credentials configures the single administrator account.
type Credentials struct {
	Username     string
	Password     string
	PasswordHash string
}
