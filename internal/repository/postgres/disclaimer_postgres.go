package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/encarrerauy/encarreraok/internal/model"
	"github.com/encarrerauy/encarreraok/internal/repository"
)

// DisclaimerPostgres is a PostgreSQL implementation of repository.DisclaimerRepository.
type DisclaimerPostgres struct {
	db *sql.DB
}

// NewDisclaimerPostgres creates a new DisclaimerPostgres repository.
func NewDisclaimerPostgres(db *sql.DB) *DisclaimerPostgres {
	return &DisclaimerPostgres{db: db}
}

var _ repository.DisclaimerRepository = (*DisclaimerPostgres)(nil)

const disclaimerColumns = `id, event_id, body, hash_sha256, active, created_by, created_at`

func scanDisclaimer(row interface{ Scan(...any) error }) (*model.DisclaimerVersion, error) {
	var v model.DisclaimerVersion
	if err := row.Scan(
		&v.ID,
		&v.EventID,
		&v.Body,
		&v.HashSHA256,
		&v.Active,
		&v.CreatedBy,
		&v.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &v, nil
}

// CreateVersion deactivates the event's previously active version and inserts
// the new row as active, in a single transaction. Concurrent activations for
// the same event serialize on the deactivating UPDATE's row locks, and the
// partial unique index idx_disclaimer_versions_event_active rejects any
// interleaving that would leave two active rows.
func (r *DisclaimerPostgres) CreateVersion(ctx context.Context, ver *model.DisclaimerVersion) (*model.DisclaimerVersion, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	const qDeactivate = `UPDATE disclaimer_versions SET active = FALSE WHERE event_id = $1 AND active`
	if _, err := tx.ExecContext(ctx, qDeactivate, ver.EventID); err != nil {
		return nil, fmt.Errorf("deactivate previous version: %w", err)
	}

	const qInsert = `
		INSERT INTO disclaimer_versions (id, event_id, body, hash_sha256, active, created_by, created_at)
		VALUES ($1, $2, $3, $4, TRUE, $5, $6)
		RETURNING ` + disclaimerColumns
	row := tx.QueryRowContext(ctx, qInsert,
		ver.ID,
		ver.EventID,
		ver.Body,
		ver.HashSHA256,
		ver.CreatedBy,
		ver.CreatedAt,
	)
	out, err := scanDisclaimer(row)
	if err != nil {
		return nil, fmt.Errorf("insert version: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return out, nil
}

// FindActive fetches the single active version for an event.
func (r *DisclaimerPostgres) FindActive(ctx context.Context, eventID string) (*model.DisclaimerVersion, error) {
	const q = `SELECT ` + disclaimerColumns + ` FROM disclaimer_versions WHERE event_id = $1 AND active`
	return scanDisclaimer(r.db.QueryRowContext(ctx, q, eventID))
}

// FindLatest fetches the most recently created version for an event.
func (r *DisclaimerPostgres) FindLatest(ctx context.Context, eventID string) (*model.DisclaimerVersion, error) {
	const q = `
		SELECT ` + disclaimerColumns + `
		FROM disclaimer_versions
		WHERE event_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`
	return scanDisclaimer(r.db.QueryRowContext(ctx, q, eventID))
}

// FindByHash fetches a version by its content hash.
func (r *DisclaimerPostgres) FindByHash(ctx context.Context, eventID, hashSHA256 string) (*model.DisclaimerVersion, error) {
	const q = `SELECT ` + disclaimerColumns + ` FROM disclaimer_versions WHERE event_id = $1 AND hash_sha256 = $2`
	return scanDisclaimer(r.db.QueryRowContext(ctx, q, eventID, hashSHA256))
}
