package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/cse341/records-api/internal/core/domain"
	"github.com/cse341/records-api/internal/core/ports"
)

const resourceData = "data"

type DataService struct {
	repo   ports.DataRepository
	audit  ports.AuditRepository
	logger zerolog.Logger
	now    func() time.Time
}

func NewDataService(repo ports.DataRepository, audit ports.AuditRepository, logger zerolog.Logger) *DataService {
	return &DataService{repo: repo, audit: audit, logger: logger, now: time.Now}
}

func (s *DataService) ListData(ctx context.Context) ([]*domain.DataRecord, error) {
	records, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list data: %w", err)
	}
	return records, nil
}

func (s *DataService) GetData(ctx context.Context, id string) (*domain.DataRecord, error) {
	return s.repo.FindByID(ctx, id)
}

// CreateData stores a new record. createdDate and lastModified are always
// assigned here, whatever the caller sent.
func (s *DataService) CreateData(ctx context.Context, input ports.DataInput) (*domain.DataRecord, error) {
	now := storeTime(s.now())
	record := buildDataRecord(input)
	record.CreatedDate = now
	record.LastModified = now

	created, err := s.repo.Create(ctx, record)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to create data record")
		return nil, err
	}

	recordWrite(ctx, s.audit, s.logger, domain.AuditEntry{
		Resource: resourceData,
		Action:   domain.AuditCreate,
		RecordID: created.ID,
		Actor:    created.Metadata.Author,
		At:       now,
	})
	s.logger.Info().Str("id", created.ID).Str("author", created.Metadata.Author).Msg("data record created")
	return created, nil
}

// UpdateData replaces the caller-controlled fields of an existing record.
// Optional fields left out of the input fall back to their defaults.
func (s *DataService) UpdateData(ctx context.Context, id string, input ports.DataInput) (*domain.DataRecord, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	record := buildDataRecord(input)
	record.ID = existing.ID
	record.CreatedDate = existing.CreatedDate
	record.LastModified = nextModified(existing.LastModified, s.now())

	updated, err := s.repo.Replace(ctx, record)
	if err != nil {
		s.logger.Error().Err(err).Str("id", id).Msg("failed to update data record")
		return nil, err
	}

	recordWrite(ctx, s.audit, s.logger, domain.AuditEntry{
		Resource: resourceData,
		Action:   domain.AuditUpdate,
		RecordID: updated.ID,
		Actor:    updated.Metadata.Author,
		At:       updated.LastModified,
	})
	s.logger.Info().Str("id", updated.ID).Msg("data record updated")
	return updated, nil
}

func (s *DataService) DeleteData(ctx context.Context, id string) (*domain.DataRecord, error) {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return nil, err
	}

	recordWrite(ctx, s.audit, s.logger, domain.AuditEntry{
		Resource: resourceData,
		Action:   domain.AuditDelete,
		RecordID: deleted.ID,
		At:       storeTime(s.now()),
	})
	s.logger.Info().Str("id", deleted.ID).Msg("data record deleted")
	return deleted, nil
}

func buildDataRecord(in ports.DataInput) *domain.DataRecord {
	version := strings.TrimSpace(in.Version)
	if version == "" {
		version = domain.DefaultDataVersion
	}
	return &domain.DataRecord{
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		Category:    strings.TrimSpace(in.Category),
		Price:       in.Price,
		IsActive:    boolOrDefault(in.IsActive, true),
		Tags:        normalizeTags(in.Tags),
		Metadata: domain.DataMetadata{
			Author:  strings.TrimSpace(in.Author),
			Version: version,
		},
	}
}

// normalizeTags never returns nil so records always serialise tags as an array.
func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}
