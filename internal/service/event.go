package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/encarrerauy/encarreraok/internal/model"
	"github.com/encarrerauy/encarreraok/internal/repository"
)

// CreateEventInput carries the admin-provided fields for a new event.
type CreateEventInput struct {
	Name             string    `json:"name"`
	EventDate        time.Time `json:"event_date"`
	Organizer        string    `json:"organizer"`
	RequireSignature bool      `json:"require_signature"`
	RequireDocument  bool      `json:"require_document"`
	RequireAudio     bool      `json:"require_audio"`
}

// EventService defines the admin use cases for events.
type EventService interface {
	// Create registers a new active event.
	Create(ctx context.Context, in CreateEventInput) (*model.Event, error)

	// Get returns a single event by its ID.
	Get(ctx context.Context, id string) (*model.Event, error)

	// Deactivate blocks new acceptances for the event. History is kept.
	Deactivate(ctx context.Context, id string) error
}

type eventService struct {
	repo repository.EventRepository
}

// NewEventService constructs a new EventService.
func NewEventService(repo repository.EventRepository) EventService {
	return &eventService{repo: repo}
}

func (s *eventService) Create(ctx context.Context, in CreateEventInput) (*model.Event, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, ErrNameRequired
	}
	ev := &model.Event{
		ID:               uuid.New().String(),
		Name:             strings.TrimSpace(in.Name),
		EventDate:        in.EventDate,
		Organizer:        strings.TrimSpace(in.Organizer),
		Active:           true,
		RequireSignature: in.RequireSignature,
		RequireDocument:  in.RequireDocument,
		RequireAudio:     in.RequireAudio,
		CreatedAt:        time.Now().UTC(),
	}
	return s.repo.Create(ctx, ev)
}

func (s *eventService) Get(ctx context.Context, id string) (*model.Event, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	ev, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	return ev, nil
}

func (s *eventService) Deactivate(ctx context.Context, id string) error {
	if id == "" {
		return ErrIDRequired
	}
	if err := s.repo.SetActive(ctx, id, false); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrEventNotFound
		}
		return err
	}
	return nil
}
