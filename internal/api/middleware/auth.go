package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/cse341/records-api/internal/pkg/metrics"
	"github.com/cse341/records-api/internal/core/domain"
)

const (
	// CookieSessionName is the gorilla session holding the opaque session token.
	CookieSessionName = "records_session"
	// SessionTokenKey is the cookie session value holding the token.
	SessionTokenKey = "sid"
	// SessionContextKey is the echo.Context key holding the loaded AuthSession.
	SessionContextKey = "auth_session"
)

// SessionResolver maps an opaque session token to an AuthSession.
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (*domain.AuthSession, error)
}

// SessionToken returns the session token stored in the caller's cookie, if any.
func SessionToken(c echo.Context) string {
	sess, err := session.Get(CookieSessionName, c)
	if err != nil {
		return ""
	}
	token, _ := sess.Values[SessionTokenKey].(string)
	return token
}

// LoadSession resolves the caller's session token and stores the AuthSession
// in the request context. Callers without a live session pass through
// anonymous; the gates below decide what that means.
func LoadSession(resolver SessionResolver, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := SessionToken(c)
			if token == "" {
				return next(c)
			}

			authSession, err := resolver.Resolve(c.Request().Context(), token)
			switch {
			case err == nil:
				c.Set(SessionContextKey, authSession)
			case errors.Is(err, domain.ErrSessionNotFound):
			default:
				log.Warn().Err(err).Str("path", c.Path()).Msg("session lookup failed")
			}
			return next(c)
		}
	}
}

// SessionFrom returns the AuthSession loaded by LoadSession.
func SessionFrom(c echo.Context) (*domain.AuthSession, bool) {
	sess, ok := c.Get(SessionContextKey).(*domain.AuthSession)
	return sess, ok && sess != nil
}

// EnsureAuthenticated lets the request through only when a session was loaded.
func EnsureAuthenticated() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, ok := SessionFrom(c); !ok {
				metrics.GateDeniedTotal.Inc()
				return domain.ErrUnauthorized
			}
			return next(c)
		}
	}
}

// EnsureNotAuthenticated short-circuits callers who are already logged in.
func EnsureNotAuthenticated() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sess, ok := SessionFrom(c)
			if !ok {
				return next(c)
			}
			return c.JSON(http.StatusOK, map[string]any{
				"message":   "Already authenticated",
				"user":      sess,
				"logoutUrl": "/auth/logout",
			})
		}
	}
}
