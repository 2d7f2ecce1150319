package ports

import (
	"context"
	"time"

	"github.com/cse341/records-api/internal/core/domain"
)

// UserInput carries the caller-controlled fields of a user record.
type UserInput struct {
	FirstName  string
	LastName   string
	Email      string
	Phone      string
	Role       string
	Department string
	IsActive   *bool
	HireDate   *time.Time
	CreatedBy  string
}

// UserService defines use-case operations for user records.
type UserService interface {
	ListUsers(ctx context.Context) ([]*domain.UserRecord, error)
	GetUser(ctx context.Context, id string) (*domain.UserRecord, error)
	CreateUser(ctx context.Context, input UserInput) (*domain.UserRecord, error)
	UpdateUser(ctx context.Context, id string, input UserInput) (*domain.UserRecord, error)
	DeleteUser(ctx context.Context, id string) (*domain.UserRecord, error)
}
