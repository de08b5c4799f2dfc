package repository

import (
	"context"

	"github.com/encarrerauy/encarreraok/internal/model"
)

// EventRepository defines data access for events using SQL queries only.
// No business logic here, strictly persistence operations.
type EventRepository interface {
	// Create inserts a new event record and returns the stored row.
	Create(ctx context.Context, ev *model.Event) (*model.Event, error)

	// FindByID returns an event by its ID.
	FindByID(ctx context.Context, id string) (*model.Event, error)

	// SetActive flips the active flag. Deactivation blocks new acceptances
	// but never deletes history.
	SetActive(ctx context.Context, id string, active bool) error

	// List returns a paginated list of events and the total row count.
	List(ctx context.Context, pq PageQuery) (*PageResult[model.Event], error)
}
