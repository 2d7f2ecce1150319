package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/cse341/records-api/internal/pkg/metrics"
	"github.com/cse341/records-api/internal/core/domain"
	"github.com/cse341/records-api/internal/core/ports"
)

const defaultStateTTL = 10 * time.Minute

// stateClaims is the payload of the OAuth state parameter. The nonce ties the
// provider redirect back to the browser session that started the flow.
type stateClaims struct {
	Nonce string `json:"nonce"`
	jwt.RegisteredClaims
}

// AuthService drives the OAuth login flow:
//
//	unauthenticated → pending_provider_redirect → authenticated
//
// Every CompleteLogin call ends in exactly one of two outcomes: a stored
// session, or an error that sends the caller back to unauthenticated.
type AuthService struct {
	provider    ports.IdentityProvider
	sessions    ports.SessionStore
	stateSecret []byte
	stateTTL    time.Duration
	logger      zerolog.Logger
}

func NewAuthService(provider ports.IdentityProvider, sessions ports.SessionStore, stateSecret string, logger zerolog.Logger) *AuthService {
	return &AuthService{
		provider:    provider,
		sessions:    sessions,
		stateSecret: []byte(stateSecret),
		stateTTL:    defaultStateTTL,
		logger:      logger,
	}
}

// BeginLogin issues a signed state and the provider authorization URL.
func (s *AuthService) BeginLogin(_ context.Context) (*ports.LoginChallenge, error) {
	nonce, err := randomNonce()
	if err != nil {
		return nil, fmt.Errorf("begin login: %w", err)
	}

	now := time.Now()
	claims := stateClaims{
		Nonce: nonce,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.stateTTL)),
		},
	}
	state, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.stateSecret)
	if err != nil {
		return nil, fmt.Errorf("begin login: sign state: %w", err)
	}

	return &ports.LoginChallenge{
		RedirectURL: s.provider.AuthCodeURL(state),
		Nonce:       nonce,
	}, nil
}

// CompleteLogin verifies the callback, exchanges the code and stores the
// resulting session.
func (s *AuthService) CompleteLogin(ctx context.Context, in ports.CallbackInput) (*ports.LoginResult, error) {
	result, err := s.completeLogin(ctx, in)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		s.logger.Warn().Err(err).Msg("oauth login failed")
		return nil, err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	s.logger.Info().Str("username", result.Session.Username).Msg("oauth login succeeded")
	return result, nil
}

func (s *AuthService) completeLogin(ctx context.Context, in ports.CallbackInput) (*ports.LoginResult, error) {
	if in.ProviderError != "" {
		return nil, fmt.Errorf("%w: %s", domain.ErrProviderDenied, in.ProviderError)
	}
	if in.Code == "" {
		return nil, fmt.Errorf("%w: missing authorization code", domain.ErrProviderDenied)
	}
	if err := s.verifyState(in.State, in.Nonce); err != nil {
		return nil, err
	}

	profile, err := s.provider.Exchange(ctx, in.Code)
	if err != nil {
		return nil, fmt.Errorf("exchange code: %w", err)
	}

	session := profile.ToSession()
	token, err := s.sessions.Save(ctx, session)
	if err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	return &ports.LoginResult{Token: token, Session: session}, nil
}

func (s *AuthService) verifyState(state, nonce string) error {
	if state == "" || nonce == "" {
		return domain.ErrInvalidState
	}

	var claims stateClaims
	tkn, err := jwt.ParseWithClaims(state, &claims, func(*jwt.Token) (interface{}, error) {
		return s.stateSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !tkn.Valid {
		return domain.ErrInvalidState
	}
	if claims.Nonce != nonce {
		return domain.ErrInvalidState
	}
	return nil
}

// Resolve returns the session behind token.
func (s *AuthService) Resolve(ctx context.Context, token string) (*domain.AuthSession, error) {
	if token == "" {
		return nil, domain.ErrSessionNotFound
	}
	return s.sessions.Get(ctx, token)
}

// Logout destroys the session behind token. It succeeds when there is none.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.sessions.Delete(ctx, token); err != nil && !errors.Is(err, domain.ErrSessionNotFound) {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

func randomNonce() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
