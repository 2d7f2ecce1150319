package handler

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/cse341/records-api/internal/core/domain"
)

// isValidID reports whether raw has the shape of a store identifier
// (24 hexadecimal characters).
func isValidID(raw string) bool {
	return primitive.IsValidObjectID(raw)
}

// requireID reads the :id path parameter and rejects malformed values before
// any store access.
func requireID(c echo.Context) (string, error) {
	id := c.Param("id")
	if !isValidID(id) {
		return "", domain.ErrInvalidID
	}
	return id, nil
}
