package ports

import (
	"context"

	"github.com/cse341/records-api/internal/core/domain"
)

// UserRepository defines persistence operations for user records.
// Implementations must enforce email uniqueness atomically and report a
// violation as domain.ErrEmailExists.
type UserRepository interface {
	// List returns every user, newest hireDate first.
	List(ctx context.Context) ([]*domain.UserRecord, error)
	FindByID(ctx context.Context, id string) (*domain.UserRecord, error)
	// FindByEmail looks up by normalised email. Returns domain.ErrUserNotFound when absent.
	FindByEmail(ctx context.Context, email string) (*domain.UserRecord, error)
	Create(ctx context.Context, u *domain.UserRecord) (*domain.UserRecord, error)
	Replace(ctx context.Context, u *domain.UserRecord) (*domain.UserRecord, error)
	Delete(ctx context.Context, id string) (*domain.UserRecord, error)
}
