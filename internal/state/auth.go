package state

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/WajidKarimm/legalease-ai/internal/storage"
)

// AuthStatus describes the stored auth token. The signature is only
// checked by the backend.
type AuthStatus struct {
	LoggedIn  bool
	Subject   string
	ExpiresAt time.Time
	Expired   bool
	Opaque    bool // token is not a JWT
}

// AuthToken implements api.TokenSource
func (s *ClientState) AuthToken(ctx context.Context) (string, error) {
	if s.tokenOverride != "" {
		return s.tokenOverride, nil
	}
	token, _, err := storage.Lookup(ctx, s.store, storage.KeyAuthToken)
	return token, err
}

// Login stores token for later requests
func (s *ClientState) Login(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return fmt.Errorf("token is required")
	}
	return s.store.Set(ctx, storage.KeyAuthToken, token)
}

// Logout removes the stored token and forgets the current contract
func (s *ClientState) Logout(ctx context.Context) error {
	if err := s.store.Delete(ctx, storage.KeyAuthToken); err != nil {
		return fmt.Errorf("removing auth token: %w", err)
	}
	return s.Reset(ctx)
}

// Auth inspects the current token
func (s *ClientState) Auth(ctx context.Context, now time.Time) (AuthStatus, error) {
	token, err := s.AuthToken(ctx)
	if err != nil {
		return AuthStatus{}, err
	}
	return InspectToken(token, now), nil
}

// InspectToken reads subject and expiry from an unverified JWT. Tokens
// that do not parse are reported as opaque and logged in.
func InspectToken(token string, now time.Time) AuthStatus {
	if token == "" {
		return AuthStatus{}
	}

	status := AuthStatus{LoggedIn: true}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		status.Opaque = true
		return status
	}

	if sub, err := claims.GetSubject(); err == nil {
		status.Subject = sub
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		status.ExpiresAt = exp.Time
		status.Expired = !now.Before(exp.Time)
		if status.Expired {
			status.LoggedIn = false
		}
	}
	return status
}
