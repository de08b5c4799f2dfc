package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/encarrerauy/encarreraok/internal/model"
	"github.com/encarrerauy/encarreraok/internal/repository"
)

// AcceptancePostgres is a PostgreSQL implementation of repository.AcceptanceRepository.
type AcceptancePostgres struct {
	db *sql.DB
}

// NewAcceptancePostgres creates a new AcceptancePostgres repository.
func NewAcceptancePostgres(db *sql.DB) *AcceptancePostgres {
	return &AcceptancePostgres{db: db}
}

var _ repository.AcceptanceRepository = (*AcceptancePostgres)(nil)

const acceptanceColumns = `id, event_id, participant_name, document_number, disclaimer_hash_sha256, ip, user_agent, accepted_at`

const evidenceColumns = `id, acceptance_id, category, label, storage_path, original_size, stored_size, checksum_sha256, created_at`

func scanAcceptance(row interface{ Scan(...any) error }) (*model.Acceptance, error) {
	var a model.Acceptance
	if err := row.Scan(
		&a.ID,
		&a.EventID,
		&a.ParticipantName,
		&a.DocumentNumber,
		&a.DisclaimerHashSHA256,
		&a.IP,
		&a.UserAgent,
		&a.AcceptedAt,
	); err != nil {
		return nil, err
	}
	return &a, nil
}

// Create inserts the acceptance row plus one row per evidence file, all in a
// single transaction.
func (r *AcceptancePostgres) Create(ctx context.Context, acc *model.Acceptance) (*model.Acceptance, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	const qAcceptance = `
		INSERT INTO acceptances (id, event_id, participant_name, document_number, disclaimer_hash_sha256, ip, user_agent, accepted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + acceptanceColumns
	row := tx.QueryRowContext(ctx, qAcceptance,
		acc.ID,
		acc.EventID,
		acc.ParticipantName,
		acc.DocumentNumber,
		acc.DisclaimerHashSHA256,
		acc.IP,
		acc.UserAgent,
		acc.AcceptedAt,
	)
	out, err := scanAcceptance(row)
	if err != nil {
		return nil, fmt.Errorf("insert acceptance: %w", err)
	}

	const qEvidence = `
		INSERT INTO evidence_files (id, acceptance_id, category, label, storage_path, original_size, stored_size, checksum_sha256, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	for _, ef := range acc.Evidence {
		if _, err := tx.ExecContext(ctx, qEvidence,
			ef.ID,
			out.ID,
			ef.Category,
			ef.Label,
			ef.StoragePath,
			ef.OriginalSize,
			ef.StoredSize,
			ef.ChecksumSHA256,
			ef.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("insert evidence %s: %w", ef.Label, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	out.Evidence = acc.Evidence
	for i := range out.Evidence {
		out.Evidence[i].AcceptanceID = out.ID
	}
	return out, nil
}

// FindByID fetches an acceptance with its evidence files.
func (r *AcceptancePostgres) FindByID(ctx context.Context, id string) (*model.Acceptance, error) {
	const q = `SELECT ` + acceptanceColumns + ` FROM acceptances WHERE id = $1`
	acc, err := scanAcceptance(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		return nil, err
	}
	files, err := r.evidenceFor(ctx, acc.ID)
	if err != nil {
		return nil, err
	}
	acc.Evidence = files
	return acc, nil
}

func (r *AcceptancePostgres) evidenceFor(ctx context.Context, acceptanceID string) ([]model.EvidenceFile, error) {
	const q = `
		SELECT ` + evidenceColumns + `
		FROM evidence_files
		WHERE acceptance_id = $1
		ORDER BY created_at ASC, id ASC
	`
	rows, err := r.db.QueryContext(ctx, q, acceptanceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	files := make([]model.EvidenceFile, 0)
	for rows.Next() {
		var ef model.EvidenceFile
		if err := rows.Scan(
			&ef.ID,
			&ef.AcceptanceID,
			&ef.Category,
			&ef.Label,
			&ef.StoragePath,
			&ef.OriginalSize,
			&ef.StoredSize,
			&ef.ChecksumSHA256,
			&ef.CreatedAt,
		); err != nil {
			return nil, err
		}
		files = append(files, ef)
	}
	return files, rows.Err()
}

// List returns acceptances newest first, with evidence files loaded.
// An empty eventID lists across all events.
func (r *AcceptancePostgres) List(ctx context.Context, eventID string, pq repository.PageQuery) (*repository.PageResult[model.Acceptance], error) {
	var (
		total int
		err   error
	)
	if eventID == "" {
		err = r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM acceptances`).Scan(&total)
	} else {
		err = r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM acceptances WHERE event_id = $1`, eventID).Scan(&total)
	}
	if err != nil {
		return nil, err
	}

	var rows *sql.Rows
	if eventID == "" {
		const q = `
			SELECT ` + acceptanceColumns + `
			FROM acceptances
			ORDER BY accepted_at DESC, id DESC
			LIMIT $1 OFFSET $2
		`
		rows, err = r.db.QueryContext(ctx, q, pq.Limit, pq.Offset)
	} else {
		const q = `
			SELECT ` + acceptanceColumns + `
			FROM acceptances
			WHERE event_id = $1
			ORDER BY accepted_at DESC, id DESC
			LIMIT $2 OFFSET $3
		`
		rows, err = r.db.QueryContext(ctx, q, eventID, pq.Limit, pq.Offset)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Acceptance, 0)
	for rows.Next() {
		acc, err := scanAcceptance(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *acc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range items {
		files, err := r.evidenceFor(ctx, items[i].ID)
		if err != nil {
			return nil, err
		}
		items[i].Evidence = files
	}

	return &repository.PageResult[model.Acceptance]{Items: items, Total: total}, nil
}

// Delete removes the acceptance row and its evidence metadata in one
// transaction. Returns sql.ErrNoRows if the acceptance does not exist.
func (r *AcceptancePostgres) Delete(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM evidence_files WHERE acceptance_id = $1`, id); err != nil {
		return fmt.Errorf("delete evidence rows: %w", err)
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM acceptances WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete acceptance: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}

	return tx.Commit()
}
