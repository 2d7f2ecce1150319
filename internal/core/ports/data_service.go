package ports

import (
	"context"

	"github.com/cse341/records-api/internal/core/domain"
)

// DataInput carries the caller-controlled fields of a data record. Audit
// timestamps are never part of the input.
type DataInput struct {
	Title       string
	Description string
	Category    string
	Price       float64
	IsActive    *bool // nil means "not supplied"
	Tags        []string
	Author      string
	Version     string
}

// DataService defines use-case operations for data records.
type DataService interface {
	ListData(ctx context.Context) ([]*domain.DataRecord, error)
	GetData(ctx context.Context, id string) (*domain.DataRecord, error)
	CreateData(ctx context.Context, input DataInput) (*domain.DataRecord, error)
	UpdateData(ctx context.Context, id string, input DataInput) (*domain.DataRecord, error)
	DeleteData(ctx context.Context, id string) (*domain.DataRecord, error)
}
