package ports

import (
	"context"

	"github.com/cse341/records-api/internal/core/domain"
)

// AuditRepository appends write events to the audit trail.
type AuditRepository interface {
	Record(ctx context.Context, entry domain.AuditEntry) error
}
