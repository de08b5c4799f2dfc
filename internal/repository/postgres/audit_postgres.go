package postgres

import (
	"context"
	"database/sql"

	"github.com/encarrerauy/encarreraok/internal/model"
	"github.com/encarrerauy/encarreraok/internal/repository"
)

// AuditPostgres is a PostgreSQL implementation of repository.AuditRepository.
// Insert is the only operation: the audit trail is append-only.
type AuditPostgres struct {
	db *sql.DB
}

// NewAuditPostgres creates a new AuditPostgres repository.
func NewAuditPostgres(db *sql.DB) *AuditPostgres {
	return &AuditPostgres{db: db}
}

var _ repository.AuditRepository = (*AuditPostgres)(nil)

// Insert appends one audit row. The id is assigned by the database sequence.
func (r *AuditPostgres) Insert(ctx context.Context, entry *model.AuditLogEntry) error {
	const q = `
		INSERT INTO audit_log (request_id, event_id, acceptance_id, category, label, outcome, detail, original_size, stored_size, storage_path, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := r.db.ExecContext(ctx, q,
		entry.RequestID,
		entry.EventID,
		nullable(entry.AcceptanceID),
		nullable(entry.Category),
		nullable(entry.Label),
		entry.Outcome,
		nullable(entry.Detail),
		entry.OriginalSize,
		entry.StoredSize,
		nullable(entry.StoragePath),
		entry.CreatedAt,
	)
	return err
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
