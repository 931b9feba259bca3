package auth

import (
	"context"
	"crypto/subtle"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/quoteroom/quoteroom/internal/platform/httpx"
)

// Service wraps authentication business rules.
type Service struct {
	creds   Credentials
	tokens  *Tokens
	revoked Revocations
}

// NewService constructs a new Service. revoked may be nil, which disables logout revocation.
func NewService(creds Credentials, tokens *Tokens, revoked Revocations) *Service {
	return &Service{creds: creds, tokens: tokens, revoked: revoked}
}

// Authenticate validates the admin credentials and issues a session token.
func (s *Service) Authenticate(_ context.Context, username, password string) (string, *Claims, error) {
	if !s.matches(username, password) {
		return "", nil, fmt.Errorf("%w: %w", httpx.ErrUnauthorized, ErrInvalidCredentials)
	}
	return s.tokens.Issue(username)
}

func (s *Service) matches(username, password string) bool {
	if s.creds.Username == "" {
		return false
	}
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.creds.Username)) == 1
	var passOK bool
	switch {
	case s.creds.PasswordHash != "":
		passOK = bcrypt.CompareHashAndPassword([]byte(s.creds.PasswordHash), []byte(password)) == nil
	case s.creds.Password != "":
		passOK = subtle.ConstantTimeCompare([]byte(password), []byte(s.creds.Password)) == 1
	}
	return userOK && passOK
}

// Verify parses raw and rejects revoked tokens.
func (s *Service) Verify(ctx context.Context, raw string) (*Claims, error) {
	if raw == "" {
		return nil, fmt.Errorf("%w: missing session", httpx.ErrUnauthorized)
	}
	claims, err := s.tokens.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", httpx.ErrUnauthorized, err)
	}
	if s.revoked != nil && claims.ID != "" {
		revoked, err := s.revoked.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, err
		}
		if revoked {
			return nil, fmt.Errorf("%w: session revoked", httpx.ErrUnauthorized)
		}
	}
	return claims, nil
}

// Logout revokes the token for the rest of its lifetime. Invalid tokens are ignored.
func (s *Service) Logout(ctx context.Context, raw string) error {
	if raw == "" || s.revoked == nil {
		return nil
	}
	claims, err := s.tokens.Parse(raw)
	if err != nil || claims.ID == "" || claims.ExpiresAt == nil {
		return nil
	}
	return s.revoked.Revoke(ctx, claims.ID, claims.ExpiresAt.Time.Sub(s.tokens.now()))
}
