package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/encarrerauy/encarreraok/internal/config"
	"github.com/encarrerauy/encarreraok/internal/hash"
	"github.com/encarrerauy/encarreraok/internal/model"
	"github.com/encarrerauy/encarreraok/internal/repository"
)

// DisclaimerService manages waiver text versions for events. Versions are
// immutable: the hash is computed exactly once here, at creation time, and
// acceptance recording only ever consumes it.
type DisclaimerService interface {
	// CreateVersion hashes the text and activates it as the event's new
	// version, atomically deactivating the previous one.
	CreateVersion(ctx context.Context, eventID, text, createdBy string) (*model.DisclaimerVersion, error)

	// GetActive resolves the version offered to new acceptors. When none is
	// active the configured policy decides between failing with
	// ErrNoActiveVersion (default) and falling back to the latest version.
	GetActive(ctx context.Context, eventID string) (*model.DisclaimerVersion, error)

	// GetByHash returns the exact text a past acceptance agreed to, even
	// after newer versions exist.
	GetByHash(ctx context.Context, eventID, hashSHA256 string) (*model.DisclaimerVersion, error)
}

type disclaimerService struct {
	repo   repository.DisclaimerRepository
	events repository.EventRepository
	policy config.DisclaimerConfig
}

// NewDisclaimerService constructs a new DisclaimerService.
func NewDisclaimerService(repo repository.DisclaimerRepository, events repository.EventRepository, policy config.DisclaimerConfig) DisclaimerService {
	return &disclaimerService{repo: repo, events: events, policy: policy}
}

func (s *disclaimerService) CreateVersion(ctx context.Context, eventID, text, createdBy string) (*model.DisclaimerVersion, error) {
	if eventID == "" {
		return nil, ErrIDRequired
	}
	if text == "" {
		return nil, ErrTextRequired
	}
	if _, err := s.events.FindByID(ctx, eventID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}

	ver := &model.DisclaimerVersion{
		ID:         uuid.New().String(),
		EventID:    eventID,
		Body:       text,
		HashSHA256: hash.Text(text),
		Active:     true,
		CreatedBy:  createdBy,
		CreatedAt:  time.Now().UTC(),
	}
	return s.repo.CreateVersion(ctx, ver)
}

func (s *disclaimerService) GetActive(ctx context.Context, eventID string) (*model.DisclaimerVersion, error) {
	if eventID == "" {
		return nil, ErrIDRequired
	}
	ver, err := s.repo.FindActive(ctx, eventID)
	if err == nil {
		return ver, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if !s.policy.FallbackLatest {
		return nil, ErrNoActiveVersion
	}
	ver, err = s.repo.FindLatest(ctx, eventID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoActiveVersion
		}
		return nil, err
	}
	return ver, nil
}

func (s *disclaimerService) GetByHash(ctx context.Context, eventID, hashSHA256 string) (*model.DisclaimerVersion, error) {
	if eventID == "" || hashSHA256 == "" {
		return nil, ErrIDRequired
	}
	ver, err := s.repo.FindByHash(ctx, eventID, hashSHA256)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return ver, nil
}
