package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/cse341/records-api/internal/pkg/metrics"
	"github.com/cse341/records-api/internal/core/domain"
	"github.com/cse341/records-api/internal/core/ports"
)

const resourceUsers = "users"

type UserService struct {
	repo   ports.UserRepository
	audit  ports.AuditRepository
	logger zerolog.Logger
	now    func() time.Time
}

func NewUserService(repo ports.UserRepository, audit ports.AuditRepository, logger zerolog.Logger) *UserService {
	return &UserService{repo: repo, audit: audit, logger: logger, now: time.Now}
}

func (s *UserService) ListUsers(ctx context.Context) ([]*domain.UserRecord, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (s *UserService) GetUser(ctx context.Context, id string) (*domain.UserRecord, error) {
	return s.repo.FindByID(ctx, id)
}

// CreateUser stores a new user. The email lookup is advisory only: the
// store's unique index is authoritative and a duplicate-key failure on insert
// yields the same domain.ErrEmailExists.
func (s *UserService) CreateUser(ctx context.Context, input ports.UserInput) (*domain.UserRecord, error) {
	email := domain.NormalizeEmail(input.Email)
	if err := s.checkEmailFree(ctx, email, ""); err != nil {
		return nil, err
	}

	now := storeTime(s.now())
	user := buildUserRecord(input)
	user.Email = email
	user.HireDate = now
	if input.HireDate != nil {
		user.HireDate = storeTime(*input.HireDate)
	}
	user.Metadata.LastModified = now

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, domain.ErrEmailExists) {
			metrics.DuplicateEmailTotal.WithLabelValues("store").Inc()
			return nil, err
		}
		s.logger.Error().Err(err).Msg("failed to create user")
		return nil, err
	}

	recordWrite(ctx, s.audit, s.logger, domain.AuditEntry{
		Resource: resourceUsers,
		Action:   domain.AuditCreate,
		RecordID: created.ID,
		Actor:    created.Metadata.CreatedBy,
		At:       now,
	})
	s.logger.Info().Str("id", created.ID).Str("created_by", created.Metadata.CreatedBy).Msg("user created")
	return created, nil
}

// UpdateUser replaces the caller-controlled fields of an existing user. When
// no hireDate is supplied the stored one is kept.
func (s *UserService) UpdateUser(ctx context.Context, id string, input ports.UserInput) (*domain.UserRecord, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	email := domain.NormalizeEmail(input.Email)
	if err := s.checkEmailFree(ctx, email, existing.ID); err != nil {
		return nil, err
	}

	user := buildUserRecord(input)
	user.ID = existing.ID
	user.Email = email
	user.HireDate = existing.HireDate
	if input.HireDate != nil {
		user.HireDate = storeTime(*input.HireDate)
	}
	user.Metadata.LastModified = nextModified(existing.Metadata.LastModified, s.now())

	updated, err := s.repo.Replace(ctx, user)
	if err != nil {
		if errors.Is(err, domain.ErrEmailExists) {
			metrics.DuplicateEmailTotal.WithLabelValues("store").Inc()
			return nil, err
		}
		s.logger.Error().Err(err).Str("id", id).Msg("failed to update user")
		return nil, err
	}

	recordWrite(ctx, s.audit, s.logger, domain.AuditEntry{
		Resource: resourceUsers,
		Action:   domain.AuditUpdate,
		RecordID: updated.ID,
		Actor:    updated.Metadata.CreatedBy,
		At:       updated.Metadata.LastModified,
	})
	s.logger.Info().Str("id", updated.ID).Msg("user updated")
	return updated, nil
}

func (s *UserService) DeleteUser(ctx context.Context, id string) (*domain.UserRecord, error) {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return nil, err
	}

	recordWrite(ctx, s.audit, s.logger, domain.AuditEntry{
		Resource: resourceUsers,
		Action:   domain.AuditDelete,
		RecordID: deleted.ID,
		At:       storeTime(s.now()),
	})
	s.logger.Info().Str("id", deleted.ID).Msg("user deleted")
	return deleted, nil
}

// checkEmailFree reports domain.ErrEmailExists when another user (any ID other
// than exceptID) already holds email.
func (s *UserService) checkEmailFree(ctx context.Context, email, exceptID string) error {
	holder, err := s.repo.FindByEmail(ctx, email)
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("email lookup: %w", err)
	}
	if holder.ID == exceptID {
		return nil
	}
	metrics.DuplicateEmailTotal.WithLabelValues("precheck").Inc()
	return domain.ErrEmailExists
}

func buildUserRecord(in ports.UserInput) *domain.UserRecord {
	return &domain.UserRecord{
		FirstName:  strings.TrimSpace(in.FirstName),
		LastName:   strings.TrimSpace(in.LastName),
		Phone:      strings.TrimSpace(in.Phone),
		Role:       strings.TrimSpace(in.Role),
		Department: strings.TrimSpace(in.Department),
		IsActive:   boolOrDefault(in.IsActive, true),
		Metadata: domain.UserMetadata{
			CreatedBy: strings.TrimSpace(in.CreatedBy),
		},
	}
}
