package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cse341/records-api/internal/core/domain"
)

// bindAndValidate decodes the body into req and runs the field validator.
// prepare, when set, runs between the two.
func bindAndValidate(c echo.Context, req any, prepare func()) error {
	if err := c.Bind(req); err != nil {
		return bindError(err)
	}
	if prepare != nil {
		prepare()
	}
	return c.Validate(req)
}

func bindError(err error) error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		if typeErr.Field == "" {
			return &domain.ValidationError{Message: "Request body must be a JSON object"}
		}
		return &domain.ValidationError{
			Message: "Invalid type for field " + typeErr.Field,
			Fields:  []string{typeErr.Field},
		}
	}
	// Syntax errors and truncated bodies both surface as a 400 from the binder.
	var he *echo.HTTPError
	if errors.As(err, &he) && he.Code == http.StatusBadRequest {
		return &domain.ValidationError{Message: "Malformed JSON body"}
	}
	return err
}
