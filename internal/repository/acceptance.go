package repository

import (
	"context"

	"github.com/encarrerauy/encarreraok/internal/model"
)

// AcceptanceRepository defines data access for acceptance records and their
// evidence metadata rows.
type AcceptanceRepository interface {
	// Create inserts the acceptance row and all of its evidence metadata
	// rows in one transaction. Evidence rows must reference bytes that are
	// already durably written; this method is the point of legal commitment.
	Create(ctx context.Context, acc *model.Acceptance) (*model.Acceptance, error)

	// FindByID returns an acceptance with its evidence files loaded.
	FindByID(ctx context.Context, id string) (*model.Acceptance, error)

	// List returns acceptances newest first, optionally filtered by event
	// (empty eventID means all events). Evidence files are loaded per item.
	List(ctx context.Context, eventID string, pq PageQuery) (*PageResult[model.Acceptance], error)

	// Delete removes the acceptance row and its evidence metadata rows in
	// one transaction. Blob deletion is the caller's responsibility and
	// must happen first.
	Delete(ctx context.Context, id string) error
}
