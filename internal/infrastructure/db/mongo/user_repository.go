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

const collectionUsers = "users"

// UserRepository stores users. Emails are stored normalised and guarded by a
// unique index (see EnsureSchema).
type UserRepository struct {
	col *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{col: db.Collection(collectionUsers)}
}

type userMetadataDocument struct {
	CreatedBy    string    `bson:"createdBy"`
	LastModified time.Time `bson:"lastModified"`
}

type userDocument struct {
	ID         primitive.ObjectID   `bson:"_id,omitempty"`
	FirstName  string               `bson:"firstName"`
	LastName   string               `bson:"lastName"`
	Email      string               `bson:"email"`
	Phone      string               `bson:"phone"`
	Role       string               `bson:"role"`
	Department string               `bson:"department"`
	IsActive   bool                 `bson:"isActive"`
	HireDate   time.Time            `bson:"hireDate"`
	Metadata   userMetadataDocument `bson:"metadata"`
}

func toUserDocument(u *domain.UserRecord) userDocument {
	return userDocument{
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		Email:      domain.NormalizeEmail(u.Email),
		Phone:      u.Phone,
		Role:       u.Role,
		Department: u.Department,
		IsActive:   u.IsActive,
		HireDate:   u.HireDate.UTC(),
		Metadata: userMetadataDocument{
			CreatedBy:    u.Metadata.CreatedBy,
			LastModified: u.Metadata.LastModified.UTC(),
		},
	}
}

func (d userDocument) toDomain() *domain.UserRecord {
	return &domain.UserRecord{
		ID:         d.ID.Hex(),
		FirstName:  d.FirstName,
		LastName:   d.LastName,
		Email:      d.Email,
		Phone:      d.Phone,
		Role:       d.Role,
		Department: d.Department,
		IsActive:   d.IsActive,
		HireDate:   d.HireDate.UTC(),
		Metadata: domain.UserMetadata{
			CreatedBy:    d.Metadata.CreatedBy,
			LastModified: d.Metadata.LastModified.UTC(),
		},
	}
}

// List returns all users, most recently hired first.
func (r *UserRepository) List(ctx context.Context) ([]*domain.UserRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "hireDate", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("find users: %w", err)
	}

	var docs []userDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}

	out := make([]*domain.UserRecord, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.UserRecord, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.UserRecord, error) {
	return r.findOne(ctx, bson.M{"email": domain.NormalizeEmail(email)})
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*domain.UserRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var d userDocument
	if err := r.col.FindOne(ctx, filter).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return d.toDomain(), nil
}

// Create inserts a user. A concurrent insert of the same email loses on the
// unique index and gets domain.ErrEmailExists.
func (r *UserRepository) Create(ctx context.Context, u *domain.UserRecord) (*domain.UserRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := toUserDocument(u)
	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return nil, writeError("insert user", err, domain.ErrEmailExists)
	}
	doc.ID, _ = res.InsertedID.(primitive.ObjectID)
	return doc.toDomain(), nil
}

func (r *UserRepository) Replace(ctx context.Context, u *domain.UserRecord) (*domain.UserRecord, error) {
	oid, err := objectID(u.ID)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := toUserDocument(u)
	update := bson.M{"$set": bson.M{
		"firstName":  doc.FirstName,
		"lastName":   doc.LastName,
		"email":      doc.Email,
		"phone":      doc.Phone,
		"role":       doc.Role,
		"department": doc.Department,
		"isActive":   doc.IsActive,
		"hireDate":   doc.HireDate,
		"metadata":   doc.Metadata,
	}}

	var updated userDocument
	err = r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, writeError("update user", err, domain.ErrEmailExists)
	}
	return updated.toDomain(), nil
}

func (r *UserRepository) Delete(ctx context.Context, id string) (*domain.UserRecord, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var d userDocument
	if err := r.col.FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("delete user: %w", err)
	}
	return d.toDomain(), nil
}
