package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const codeNamespaceExists = 48

// nonEmptyString matches strings with at least one non-whitespace character.
var nonEmptyString = bson.M{"bsonType": "string", "pattern": `\S`}

var dataSchema = bson.M{
	"bsonType": "object",
	"required": bson.A{"title", "description", "category", "price", "isActive", "tags", "createdDate", "lastModified", "metadata"},
	"properties": bson.M{
		"title":        nonEmptyString,
		"description":  nonEmptyString,
		"category":     nonEmptyString,
		"price":        bson.M{"bsonType": "number", "minimum": 0},
		"isActive":     bson.M{"bsonType": "bool"},
		"tags":         bson.M{"bsonType": "array", "items": bson.M{"bsonType": "string"}},
		"createdDate":  bson.M{"bsonType": "date"},
		"lastModified": bson.M{"bsonType": "date"},
		"metadata": bson.M{
			"bsonType": "object",
			"required": bson.A{"author", "version"},
			"properties": bson.M{
				"author":  nonEmptyString,
				"version": bson.M{"bsonType": "string"},
			},
		},
	},
}

var userSchema = bson.M{
	"bsonType": "object",
	"required": bson.A{"firstName", "lastName", "email", "phone", "role", "department", "isActive", "hireDate", "metadata"},
	"properties": bson.M{
		"firstName":  nonEmptyString,
		"lastName":   nonEmptyString,
		"email":      bson.M{"bsonType": "string", "pattern": `^[^\s@]+@[^\s@]+\.[^\s@]+$`},
		"phone":      nonEmptyString,
		"role":       nonEmptyString,
		"department": nonEmptyString,
		"isActive":   bson.M{"bsonType": "bool"},
		"hireDate":   bson.M{"bsonType": "date"},
		"metadata": bson.M{
			"bsonType": "object",
			"required": bson.A{"createdBy", "lastModified"},
			"properties": bson.M{
				"createdBy":    nonEmptyString,
				"lastModified": bson.M{"bsonType": "date"},
			},
		},
	},
}

type collectionSpec struct {
	name    string
	schema  bson.M
	indexes []mongo.IndexModel
}

var collectionSpecs = []collectionSpec{
	{
		name:   collectionData,
		schema: dataSchema,
		indexes: []mongo.IndexModel{
			{Keys: bson.D{{Key: "createdDate", Value: -1}}},
		},
	},
	{
		name:   collectionUsers,
		schema: userSchema,
		indexes: []mongo.IndexModel{
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true).SetName("email_unique")},
			{Keys: bson.D{{Key: "hireDate", Value: -1}}},
		},
	},
	{
		name: collectionAudit,
		indexes: []mongo.IndexModel{
			{Keys: bson.D{{Key: "resource", Value: 1}, {Key: "recordId", Value: 1}}},
		},
	},
}

// EnsureSchema creates the collections with their $jsonSchema validators (or
// refreshes the validator on existing ones) and builds the indexes.
func EnsureSchema(ctx context.Context, db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	for _, spec := range collectionSpecs {
		if err := ensureCollection(ctx, db, spec); err != nil {
			return err
		}
		if len(spec.indexes) == 0 {
			continue
		}
		if _, err := db.Collection(spec.name).Indexes().CreateMany(ctx, spec.indexes); err != nil {
			return fmt.Errorf("create indexes on %s: %w", spec.name, err)
		}
	}
	return nil
}

func ensureCollection(ctx context.Context, db *mongo.Database, spec collectionSpec) error {
	opts := options.CreateCollection()
	if spec.schema != nil {
		opts.SetValidator(bson.M{"$jsonSchema": spec.schema})
	}

	err := db.CreateCollection(ctx, spec.name, opts)
	if err == nil {
		return nil
	}

	var ce mongo.CommandError
	if !errors.As(err, &ce) || ce.Code != codeNamespaceExists {
		return fmt.Errorf("create collection %s: %w", spec.name, err)
	}
	if spec.schema == nil {
		return nil
	}

	cmd := bson.D{
		{Key: "collMod", Value: spec.name},
		{Key: "validator", Value: bson.M{"$jsonSchema": spec.schema}},
	}
	if err := db.RunCommand(ctx, cmd).Err(); err != nil {
		return fmt.Errorf("update validator on %s: %w", spec.name, err)
	}
	return nil
}
