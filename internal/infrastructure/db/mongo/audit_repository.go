package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/cse341/records-api/internal/core/domain"
)

const collectionAudit = "audit_log"

// AuditRepository appends write events to the audit_log collection.
type AuditRepository struct {
	col *mongo.Collection
}

func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{col: db.Collection(collectionAudit)}
}

func (r *AuditRepository) Record(ctx context.Context, e domain.AuditEntry) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.InsertOne(ctx, bson.M{
		"resource": e.Resource,
		"action":   string(e.Action),
		"recordId": e.RecordID,
		"actor":    e.Actor,
		"at":       e.At.UTC(),
	})
	return err
}
