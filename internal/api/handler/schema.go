package handler

import (
	"strings"

	"github.com/cse341/records-api/internal/core/domain"
	"github.com/cse341/records-api/internal/core/ports"
)

// errorResponse mirrors the envelope rendered by the central error handler.
// Only used for API docs.
type errorResponse struct {
	Error    string   `json:"error"`
	Message  string   `json:"message"`
	Details  []string `json:"details,omitempty"`
	LoginURL string   `json:"loginUrl,omitempty"`
}

// --- Request types ---

type dataMetadataRequest struct {
	Author  string `json:"author"  validate:"notblank"`
	Version string `json:"version"`
}

type dataRequest struct {
	Title       string              `json:"title"       validate:"notblank"`
	Description string              `json:"description" validate:"notblank"`
	Category    string              `json:"category"    validate:"notblank"`
	Price       *float64            `json:"price"       validate:"required,gte=0"`
	IsActive    *bool               `json:"isActive"`
	Tags        []string            `json:"tags"`
	Metadata    dataMetadataRequest `json:"metadata"`
}

type userMetadataRequest struct {
	CreatedBy string `json:"createdBy" validate:"notblank"`
}

type userRequest struct {
	FirstName  string              `json:"firstName"  validate:"notblank"`
	LastName   string              `json:"lastName"   validate:"notblank"`
	Email      string              `json:"email"      validate:"notblank,emailshape"`
	Phone      string              `json:"phone"      validate:"notblank"`
	Role       string              `json:"role"       validate:"notblank"`
	Department string              `json:"department" validate:"notblank"`
	IsActive   *bool               `json:"isActive"`
	HireDate   *requestDate        `json:"hireDate" swaggertype:"string" format:"date-time"`
	Metadata   userMetadataRequest `json:"metadata"`
}

// --- Response types ---

type deleteDataResponse struct {
	Message     string             `json:"message"`
	DeletedData *domain.DataRecord `json:"deletedData"`
}

type deleteUserResponse struct {
	Message     string             `json:"message"`
	DeletedUser *domain.UserRecord `json:"deletedUser"`
}

// protectedResponse wraps results of the session-gated variants with the
// identity that produced them.
type protectedResponse struct {
	Message string              `json:"message"`
	User    *domain.AuthSession `json:"user"`
	Data    any                 `json:"data"`
}

// --- Request → Service input ---

func (r dataRequest) toInput() ports.DataInput {
	var price float64
	if r.Price != nil {
		price = *r.Price
	}
	return ports.DataInput{
		Title:       r.Title,
		Description: r.Description,
		Category:    r.Category,
		Price:       price,
		IsActive:    r.IsActive,
		Tags:        r.Tags,
		Author:      r.Metadata.Author,
		Version:     strings.TrimSpace(r.Metadata.Version),
	}
}

func (r userRequest) toInput() ports.UserInput {
	return ports.UserInput{
		FirstName:  r.FirstName,
		LastName:   r.LastName,
		Email:      r.Email,
		Phone:      r.Phone,
		Role:       r.Role,
		Department: r.Department,
		IsActive:   r.IsActive,
		HireDate:   r.HireDate.timePtr(),
		CreatedBy:  r.Metadata.CreatedBy,
	}
}
