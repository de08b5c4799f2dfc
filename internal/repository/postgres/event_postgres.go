package postgres

import (
	"context"
	"database/sql"

	"github.com/encarrerauy/encarreraok/internal/model"
	"github.com/encarrerauy/encarreraok/internal/repository"
)

// EventPostgres is a PostgreSQL implementation of repository.EventRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type EventPostgres struct {
	db *sql.DB
}

// NewEventPostgres creates a new EventPostgres repository.
func NewEventPostgres(db *sql.DB) *EventPostgres {
	return &EventPostgres{db: db}
}

var _ repository.EventRepository = (*EventPostgres)(nil)

const eventColumns = `id, name, event_date, organizer, active, require_signature, require_document, require_audio, created_at`

func scanEvent(row interface{ Scan(...any) error }) (*model.Event, error) {
	var ev model.Event
	if err := row.Scan(
		&ev.ID,
		&ev.Name,
		&ev.EventDate,
		&ev.Organizer,
		&ev.Active,
		&ev.RequireSignature,
		&ev.RequireDocument,
		&ev.RequireAudio,
		&ev.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &ev, nil
}

// Create inserts a new event row and returns the stored record.
func (r *EventPostgres) Create(ctx context.Context, ev *model.Event) (*model.Event, error) {
	const q = `
		INSERT INTO events (id, name, event_date, organizer, active, require_signature, require_document, require_audio, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + eventColumns
	row := r.db.QueryRowContext(ctx, q,
		ev.ID,
		ev.Name,
		ev.EventDate,
		ev.Organizer,
		ev.Active,
		ev.RequireSignature,
		ev.RequireDocument,
		ev.RequireAudio,
		ev.CreatedAt,
	)
	return scanEvent(row)
}

// FindByID fetches a single event by its ID.
func (r *EventPostgres) FindByID(ctx context.Context, id string) (*model.Event, error) {
	const q = `SELECT ` + eventColumns + ` FROM events WHERE id = $1`
	return scanEvent(r.db.QueryRowContext(ctx, q, id))
}

// SetActive flips the active flag for an event.
func (r *EventPostgres) SetActive(ctx context.Context, id string, active bool) error {
	const q = `UPDATE events SET active = $2 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, id, active)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// List returns events using LIMIT/OFFSET pagination and a total count.
func (r *EventPostgres) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.Event], error) {
	const qCount = `SELECT COUNT(*) FROM events`
	var total int
	if err := r.db.QueryRowContext(ctx, qCount).Scan(&total); err != nil {
		return nil, err
	}

	const qList = `
		SELECT ` + eventColumns + `
		FROM events
		ORDER BY event_date DESC, id DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.QueryContext(ctx, qList, pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Event, 0)
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *ev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.Event]{Items: items, Total: total}, nil
}
