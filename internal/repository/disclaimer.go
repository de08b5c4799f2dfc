package repository

import (
	"context"

	"github.com/encarrerauy/encarreraok/internal/model"
)

// DisclaimerRepository defines data access for waiver text versions.
//
// Version rows are immutable once written; the only permitted mutation is
// flipping the active flag, and that happens exclusively inside
// CreateVersion's transaction.
type DisclaimerRepository interface {
	// CreateVersion persists ver as the new active version for its event.
	// The deactivation of any previously active version and the insert of
	// the new row happen in one transaction, so no observer ever sees zero
	// or two active versions for the same event. A partial unique index on
	// (event_id) WHERE active backs this invariant at the schema level.
	CreateVersion(ctx context.Context, ver *model.DisclaimerVersion) (*model.DisclaimerVersion, error)

	// FindActive returns the currently active version for the event, or
	// sql.ErrNoRows if none exists.
	FindActive(ctx context.Context, eventID string) (*model.DisclaimerVersion, error)

	// FindLatest returns the most recently created version regardless of
	// its active flag, or sql.ErrNoRows if the event has no versions.
	FindLatest(ctx context.Context, eventID string) (*model.DisclaimerVersion, error)

	// FindByHash returns the version whose content hash matches, so a past
	// acceptance can always be rendered against the exact text agreed to.
	FindByHash(ctx context.Context, eventID, hashSHA256 string) (*model.DisclaimerVersion, error)
}
