package domain

import (
	"strings"
	"time"
)

// UserMetadata holds attribution and audit data for a UserRecord.
type UserMetadata struct {
	CreatedBy    string    `json:"createdBy"`
	LastModified time.Time `json:"lastModified"`
}

// UserRecord models an employee entry in the users collection.
// Email is stored normalised (see NormalizeEmail) and is unique.
type UserRecord struct {
	ID         string       `json:"id"`
	FirstName  string       `json:"firstName"`
	LastName   string       `json:"lastName"`
	Email      string       `json:"email"`
	Phone      string       `json:"phone"`
	Role       string       `json:"role"`
	Department string       `json:"department"`
	IsActive   bool         `json:"isActive"`
	HireDate   time.Time    `json:"hireDate"`
	Metadata   UserMetadata `json:"metadata"`
}

// NormalizeEmail returns the canonical form used for storage and uniqueness checks.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
