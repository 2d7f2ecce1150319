package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/cse341/records-api/internal/api/middleware"
	"github.com/cse341/records-api/internal/core/domain"
)

// ctxSession returns the AuthSession loaded by the session middleware.
// Protected handlers sit behind EnsureAuthenticated, so a miss here means the
// route was wired without the gate; fail closed.
func ctxSession(c echo.Context) (*domain.AuthSession, error) {
	sess, ok := middleware.SessionFrom(c)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	return sess, nil
}
