package domain

import "time"

type AuditAction string

const (
	AuditCreate AuditAction = "create"
	AuditUpdate AuditAction = "update"
	AuditDelete AuditAction = "delete"
)

// AuditEntry records a single successful write against a resource collection.
type AuditEntry struct {
	Resource string
	Action   AuditAction
	RecordID string
	Actor    string
	At       time.Time
}
