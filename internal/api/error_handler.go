package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/cse341/records-api/internal/core/domain"
)

// Error categories rendered in the "error" field.
const (
	categoryBadRequest   = "Bad Request"
	categoryNotFound     = "Not Found"
	categoryUnauthorized = "Unauthorized"
	categoryValidation   = "Validation Error"
	categoryServer       = "Server Error"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error    string   `json:"error"`
	Message  string   `json:"message"`
	Details  []string `json:"details,omitempty"`
	LoginURL string   `json:"loginUrl,omitempty"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their HTTP status and category.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error", "message", "details"?, "loginUrl"?}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, body := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, body)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, errorResponse) {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return http.StatusBadRequest, errorResponse{Error: categoryBadRequest, Message: ve.Message, Details: ve.Fields}
	}

	var se *domain.SchemaError
	if errors.As(err, &se) {
		return http.StatusBadRequest, errorResponse{Error: categoryValidation, Message: "Document failed validation", Details: se.Fields}
	}

	// Known domain errors → deterministic HTTP codes.
	switch {
	case errors.Is(err, domain.ErrInvalidID):
		return http.StatusBadRequest, errorResponse{Error: categoryBadRequest, Message: "Invalid id format"}
	case errors.Is(err, domain.ErrEmailExists):
		return http.StatusBadRequest, errorResponse{Error: categoryBadRequest, Message: "Email already exists"}
	case errors.Is(err, domain.ErrDataNotFound):
		return http.StatusNotFound, errorResponse{Error: categoryNotFound, Message: "Data not found"}
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, errorResponse{Error: categoryNotFound, Message: "User not found"}
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, errorResponse{
			Error:    categoryUnauthorized,
			Message:  "Authentication required. Please login first.",
			LoginURL: "/auth/github",
		}
	}

	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) && he.Code < http.StatusInternalServerError {
		return he.Code, errorResponse{Error: category(he.Code), Message: fmt.Sprintf("%v", he.Message)}
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, errorResponse{Error: categoryServer, Message: "An unexpected error occurred"}
}

func category(code int) string {
	switch code {
	case http.StatusBadRequest:
		return categoryBadRequest
	case http.StatusUnauthorized:
		return categoryUnauthorized
	case http.StatusNotFound:
		return categoryNotFound
	default:
		return http.StatusText(code)
	}
}
