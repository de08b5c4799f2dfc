package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/encarrerauy/encarreraok/internal/model"
	"github.com/encarrerauy/encarreraok/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

var eventCols = []string{"id", "name", "event_date", "organizer", "active", "require_signature", "require_document", "require_audio", "created_at"}

func TestEventPostgres_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewEventPostgres(db)
	ctx := context.Background()

	now := time.Now().UTC()
	ev := &model.Event{
		ID:               "ev-1",
		Name:             "Rural del Prado 10K",
		EventDate:        now.AddDate(0, 1, 0),
		Organizer:        "Club Atletismo",
		Active:           true,
		RequireSignature: true,
		CreatedAt:        now,
	}

	rows := sqlmock.NewRows(eventCols).
		AddRow(ev.ID, ev.Name, ev.EventDate, ev.Organizer, ev.Active, ev.RequireSignature, ev.RequireDocument, ev.RequireAudio, ev.CreatedAt)

	mock.ExpectQuery("INSERT INTO events").
		WithArgs(ev.ID, ev.Name, ev.EventDate, ev.Organizer, ev.Active, ev.RequireSignature, ev.RequireDocument, ev.RequireAudio, ev.CreatedAt).
		WillReturnRows(rows)

	result, err := repo.Create(ctx, ev)

	assert.NoError(t, err)
	assert.Equal(t, ev.ID, result.ID)
	assert.True(t, result.RequireSignature)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventPostgres_FindByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewEventPostgres(db)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		rows := sqlmock.NewRows(eventCols).
			AddRow("ev-1", "10K", time.Now(), "", true, false, false, false, time.Now())

		mock.ExpectQuery("SELECT (.+) FROM events WHERE id = ?").
			WithArgs("ev-1").
			WillReturnRows(rows)

		ev, err := repo.FindByID(ctx, "ev-1")

		assert.NoError(t, err)
		assert.Equal(t, "ev-1", ev.ID)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM events WHERE id = ?").
			WithArgs("missing").
			WillReturnError(sql.ErrNoRows)

		ev, err := repo.FindByID(ctx, "missing")

		assert.True(t, errors.Is(err, sql.ErrNoRows))
		assert.Nil(t, ev)
	})
}

func TestEventPostgres_SetActive(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewEventPostgres(db)
	ctx := context.Background()

	t.Run("deactivate", func(t *testing.T) {
		mock.ExpectExec("UPDATE events SET active").
			WithArgs("ev-1", false).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.SetActive(ctx, "ev-1", false))
	})

	t.Run("missing row", func(t *testing.T) {
		mock.ExpectExec("UPDATE events SET active").
			WithArgs("ghost", false).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.SetActive(ctx, "ghost", false)
		assert.True(t, errors.Is(err, sql.ErrNoRows))
	})
}

func TestEventPostgres_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewEventPostgres(db)
	ctx := context.Background()

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM events").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	rows := sqlmock.NewRows(eventCols).
		AddRow("ev-1", "10K", time.Now(), "", true, false, false, false, time.Now())

	mock.ExpectQuery("SELECT (.+) FROM events ORDER BY").
		WithArgs(10, 0).
		WillReturnRows(rows)

	res, err := repo.List(ctx, repository.PageQuery{Limit: 10, Offset: 0})

	assert.NoError(t, err)
	assert.Equal(t, 1, res.Total)
	assert.Len(t, res.Items, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}
