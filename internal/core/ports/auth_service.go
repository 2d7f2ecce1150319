package ports

import (
	"context"

	"github.com/cse341/records-api/internal/core/domain"
)

// SessionStore keeps AuthSessions keyed by an opaque token held by the caller.
type SessionStore interface {
	// Save stores the session and returns a freshly minted token.
	Save(ctx context.Context, s *domain.AuthSession) (string, error)
	// Get resolves a token and extends its lifetime. Returns
	// domain.ErrSessionNotFound for unknown or expired tokens.
	Get(ctx context.Context, token string) (*domain.AuthSession, error)
	// Delete removes the session. Deleting an unknown token is not an error.
	Delete(ctx context.Context, token string) error
}

// IdentityProvider is the external OAuth provider.
type IdentityProvider interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*domain.ProviderProfile, error)
}

// LoginChallenge is produced when a caller enters the login flow. Nonce must be
// kept with the caller's session and presented again on callback.
type LoginChallenge struct {
	RedirectURL string
	Nonce       string
}

// CallbackInput carries the provider redirect parameters plus the nonce kept
// in the caller's session.
type CallbackInput struct {
	Code          string
	State         string
	Nonce         string
	ProviderError string
}

// LoginResult is the outcome of a successful exchange.
type LoginResult struct {
	Token   string
	Session *domain.AuthSession
}

// AuthService drives the OAuth login state machine and resolves sessions.
type AuthService interface {
	BeginLogin(ctx context.Context) (*LoginChallenge, error)
	CompleteLogin(ctx context.Context, input CallbackInput) (*LoginResult, error)
	Resolve(ctx context.Context, token string) (*domain.AuthSession, error)
	Logout(ctx context.Context, token string) error
}
