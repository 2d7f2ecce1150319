package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// RecordCounts reports how many documents each resource collection holds.
type RecordCounts struct {
	Data  int64
	Users int64
}

// CountRecords counts the data and users collections.
func CountRecords(ctx context.Context, db *mongo.Database) (RecordCounts, error) {
	var counts RecordCounts
	var err error
	if counts.Data, err = db.Collection(collectionData).CountDocuments(ctx, bson.D{}); err != nil {
		return counts, fmt.Errorf("count data: %w", err)
	}
	if counts.Users, err = db.Collection(collectionUsers).CountDocuments(ctx, bson.D{}); err != nil {
		return counts, fmt.Errorf("count users: %w", err)
	}
	return counts, nil
}

// ClearRecords removes every data and user document. The audit log is kept.
func ClearRecords(ctx context.Context, db *mongo.Database) error {
	for _, name := range []string{collectionData, collectionUsers} {
		if _, err := db.Collection(name).DeleteMany(ctx, bson.D{}); err != nil {
			return fmt.Errorf("clear %s: %w", name, err)
		}
	}
	return nil
}
