package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/encarrerauy/encarreraok/internal/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

var disclaimerCols = []string{"id", "event_id", "body", "hash_sha256", "active", "created_by", "created_at"}

func TestDisclaimerPostgres_CreateVersion(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewDisclaimerPostgres(db)
	ctx := context.Background()

	now := time.Now().UTC()
	ver := &model.DisclaimerVersion{
		ID:         "ver-2",
		EventID:    "ev-1",
		Body:       "Declaro conocer los riesgos.",
		HashSHA256: "abc123",
		Active:     true,
		CreatedBy:  "staff",
		CreatedAt:  now,
	}

	t.Run("deactivates previous version in the same transaction", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("UPDATE disclaimer_versions SET active = FALSE").
			WithArgs(ver.EventID).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery("INSERT INTO disclaimer_versions").
			WithArgs(ver.ID, ver.EventID, ver.Body, ver.HashSHA256, ver.CreatedBy, ver.CreatedAt).
			WillReturnRows(sqlmock.NewRows(disclaimerCols).
				AddRow(ver.ID, ver.EventID, ver.Body, ver.HashSHA256, true, ver.CreatedBy, ver.CreatedAt))
		mock.ExpectCommit()

		result, err := repo.CreateVersion(ctx, ver)

		assert.NoError(t, err)
		assert.True(t, result.Active)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("insert failure rolls back", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("UPDATE disclaimer_versions SET active = FALSE").
			WithArgs(ver.EventID).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery("INSERT INTO disclaimer_versions").
			WillReturnError(errors.New("unique violation"))
		mock.ExpectRollback()

		result, err := repo.CreateVersion(ctx, ver)

		assert.Error(t, err)
		assert.Nil(t, result)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestDisclaimerPostgres_FindActive(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewDisclaimerPostgres(db)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM disclaimer_versions WHERE event_id = (.+) AND active").
			WithArgs("ev-1").
			WillReturnRows(sqlmock.NewRows(disclaimerCols).
				AddRow("ver-1", "ev-1", "text", "hash", true, "", time.Now()))

		ver, err := repo.FindActive(ctx, "ev-1")

		assert.NoError(t, err)
		assert.Equal(t, "ver-1", ver.ID)
	})

	t.Run("none active", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM disclaimer_versions WHERE event_id = (.+) AND active").
			WithArgs("ev-1").
			WillReturnError(sql.ErrNoRows)

		_, err := repo.FindActive(ctx, "ev-1")
		assert.True(t, errors.Is(err, sql.ErrNoRows))
	})
}

func TestDisclaimerPostgres_FindLatest(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewDisclaimerPostgres(db)
	ctx := context.Background()

	mock.ExpectQuery("SELECT (.+) FROM disclaimer_versions WHERE event_id = (.+) ORDER BY created_at DESC").
		WithArgs("ev-1").
		WillReturnRows(sqlmock.NewRows(disclaimerCols).
			AddRow("ver-3", "ev-1", "text", "hash", false, "", time.Now()))

	ver, err := repo.FindLatest(ctx, "ev-1")

	assert.NoError(t, err)
	assert.Equal(t, "ver-3", ver.ID)
	assert.False(t, ver.Active)
}

func TestDisclaimerPostgres_FindByHash(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewDisclaimerPostgres(db)
	ctx := context.Background()

	mock.ExpectQuery("SELECT (.+) FROM disclaimer_versions WHERE event_id = (.+) AND hash_sha256 = ?").
		WithArgs("ev-1", "abc123").
		WillReturnRows(sqlmock.NewRows(disclaimerCols).
			AddRow("ver-1", "ev-1", "old text", "abc123", false, "", time.Now()))

	ver, err := repo.FindByHash(ctx, "ev-1", "abc123")

	assert.NoError(t, err)
	assert.Equal(t, "old text", ver.Body)
}
