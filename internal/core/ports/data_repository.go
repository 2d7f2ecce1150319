package ports

import (
	"context"

	"github.com/cse341/records-api/internal/core/domain"
)

// DataRepository defines persistence operations for data records.
type DataRepository interface {
	// List returns every record, newest createdDate first.
	List(ctx context.Context) ([]*domain.DataRecord, error)
	FindByID(ctx context.Context, id string) (*domain.DataRecord, error)
	Create(ctx context.Context, r *domain.DataRecord) (*domain.DataRecord, error)
	// Replace overwrites every mutable field of the record with matching ID.
	// createdDate is never written.
	Replace(ctx context.Context, r *domain.DataRecord) (*domain.DataRecord, error)
	// Delete removes the record and returns it as it was before removal.
	Delete(ctx context.Context, id string) (*domain.DataRecord, error)
}
