package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/cse341/records-api/internal/core/domain"
)

const collectionData = "data"

type DataRepository struct {
	col *mongo.Collection
}

func NewDataRepository(db *mongo.Database) *DataRepository {
	return &DataRepository{col: db.Collection(collectionData)}
}

type dataMetadataDocument struct {
	Author  string `bson:"author"`
	Version string `bson:"version"`
}

type dataDocument struct {
	ID           primitive.ObjectID   `bson:"_id,omitempty"`
	Title        string               `bson:"title"`
	Description  string               `bson:"description"`
	Category     string               `bson:"category"`
	Price        float64              `bson:"price"`
	IsActive     bool                 `bson:"isActive"`
	Tags         []string             `bson:"tags"`
	CreatedDate  time.Time            `bson:"createdDate"`
	LastModified time.Time            `bson:"lastModified"`
	Metadata     dataMetadataDocument `bson:"metadata"`
}

func toDataDocument(r *domain.DataRecord) dataDocument {
	tags := r.Tags
	if tags == nil {
		tags = []string{}
	}
	return dataDocument{
		Title:        r.Title,
		Description:  r.Description,
		Category:     r.Category,
		Price:        r.Price,
		IsActive:     r.IsActive,
		Tags:         tags,
		CreatedDate:  r.CreatedDate.UTC(),
		LastModified: r.LastModified.UTC(),
		Metadata:     dataMetadataDocument{Author: r.Metadata.Author, Version: r.Metadata.Version},
	}
}

func (d dataDocument) toDomain() *domain.DataRecord {
	tags := d.Tags
	if tags == nil {
		tags = []string{}
	}
	return &domain.DataRecord{
		ID:           d.ID.Hex(),
		Title:        d.Title,
		Description:  d.Description,
		Category:     d.Category,
		Price:        d.Price,
		IsActive:     d.IsActive,
		Tags:         tags,
		CreatedDate:  d.CreatedDate.UTC(),
		LastModified: d.LastModified.UTC(),
		Metadata:     domain.DataMetadata{Author: d.Metadata.Author, Version: d.Metadata.Version},
	}
}

// List returns all records, newest first.
func (r *DataRepository) List(ctx context.Context) ([]*domain.DataRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "createdDate", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("find data: %w", err)
	}

	var docs []dataDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode data: %w", err)
	}

	out := make([]*domain.DataRecord, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

func (r *DataRepository) FindByID(ctx context.Context, id string) (*domain.DataRecord, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var d dataDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrDataNotFound
		}
		return nil, fmt.Errorf("find data: %w", err)
	}
	return d.toDomain(), nil
}

// Create inserts a new record and returns it with its assigned ID.
func (r *DataRepository) Create(ctx context.Context, rec *domain.DataRecord) (*domain.DataRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := toDataDocument(rec)
	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return nil, writeError("insert data", err, nil)
	}
	doc.ID, _ = res.InsertedID.(primitive.ObjectID)
	return doc.toDomain(), nil
}

// Replace overwrites every field except createdDate.
func (r *DataRepository) Replace(ctx context.Context, rec *domain.DataRecord) (*domain.DataRecord, error) {
	oid, err := objectID(rec.ID)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := toDataDocument(rec)
	update := bson.M{"$set": bson.M{
		"title":        doc.Title,
		"description":  doc.Description,
		"category":     doc.Category,
		"price":        doc.Price,
		"isActive":     doc.IsActive,
		"tags":         doc.Tags,
		"lastModified": doc.LastModified,
		"metadata":     doc.Metadata,
	}}

	var updated dataDocument
	err = r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrDataNotFound
		}
		return nil, writeError("update data", err, nil)
	}
	return updated.toDomain(), nil
}

// Delete removes a record and returns it as stored before removal.
func (r *DataRepository) Delete(ctx context.Context, id string) (*domain.DataRecord, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var d dataDocument
	if err := r.col.FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrDataNotFound
		}
		return nil, fmt.Errorf("delete data: %w", err)
	}
	return d.toDomain(), nil
}
