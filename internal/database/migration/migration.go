package migration

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"time"
)

type migrationStep struct {
	Name string
	SQL  string
}

var steps = []migrationStep{
	{
		Name: "create_extension_uuid_ossp",
		SQL:  `CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	},
	{
		Name: "create_table_events",
		SQL: `CREATE TABLE IF NOT EXISTS events (
  id                UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  name              TEXT        NOT NULL,
  event_date        TIMESTAMPTZ NOT NULL,
  organizer         TEXT        NOT NULL DEFAULT '',
  active            BOOLEAN     NOT NULL DEFAULT TRUE,
  require_signature BOOLEAN     NOT NULL DEFAULT FALSE,
  require_document  BOOLEAN     NOT NULL DEFAULT FALSE,
  require_audio     BOOLEAN     NOT NULL DEFAULT FALSE,
  created_at        TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_disclaimer_versions",
		SQL: `CREATE TABLE IF NOT EXISTS disclaimer_versions (
  id          UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  event_id    UUID        NOT NULL REFERENCES events (id),
  body        TEXT        NOT NULL,
  hash_sha256 CHAR(64)    NOT NULL,
  active      BOOLEAN     NOT NULL DEFAULT FALSE,
  created_by  TEXT        NOT NULL DEFAULT '',
  created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
  UNIQUE (event_id, hash_sha256)
);`,
	},
	{
		// At most one active version per event, enforced by the database
		// rather than application code.
		Name: "create_unique_index_disclaimer_versions_event_active",
		SQL: `CREATE UNIQUE INDEX IF NOT EXISTS idx_disclaimer_versions_event_active
  ON disclaimer_versions (event_id) WHERE active;`,
	},
	{
		Name: "create_table_acceptances",
		SQL: `CREATE TABLE IF NOT EXISTS acceptances (
  id                     UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  event_id               UUID        NOT NULL REFERENCES events (id),
  participant_name       TEXT        NOT NULL,
  document_number        TEXT        NOT NULL,
  disclaimer_hash_sha256 CHAR(64)    NOT NULL,
  ip                     TEXT        NOT NULL DEFAULT '',
  user_agent             TEXT        NOT NULL DEFAULT '',
  accepted_at            TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_acceptances_event_id",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_acceptances_event_id ON acceptances (event_id);`,
	},
	{
		Name: "create_index_acceptances_document_number",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_acceptances_document_number ON acceptances (document_number);`,
	},
	{
		Name: "create_table_evidence_files",
		SQL: `CREATE TABLE IF NOT EXISTS evidence_files (
  id              UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  acceptance_id   UUID        NOT NULL REFERENCES acceptances (id),
  category        TEXT        NOT NULL,
  label           TEXT        NOT NULL,
  storage_path    TEXT        NOT NULL UNIQUE,
  original_size   BIGINT      NOT NULL CHECK (original_size >= 0),
  stored_size     BIGINT      NOT NULL CHECK (stored_size >= 0),
  checksum_sha256 CHAR(64)    NOT NULL,
  created_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_evidence_files_acceptance_id",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_evidence_files_acceptance_id ON evidence_files (acceptance_id);`,
	},
	{
		Name: "create_table_audit_log",
		SQL: `CREATE TABLE IF NOT EXISTS audit_log (
  id            BIGSERIAL   PRIMARY KEY,
  request_id    TEXT,
  event_id      TEXT,
  acceptance_id TEXT,
  category      TEXT,
  label         TEXT,
  outcome       TEXT        NOT NULL,
  detail        TEXT,
  original_size BIGINT      NOT NULL DEFAULT 0,
  stored_size   BIGINT      NOT NULL DEFAULT 0,
  storage_path  TEXT,
  created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_audit_log_created_at",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_audit_log_created_at ON audit_log (created_at);`,
	},
}

// EnsureMigrated checks if the 'events' table exists and runs migrations if it doesn't.
func EnsureMigrated(ctx context.Context, db *sql.DB, loc *time.Location, dbHost string) error {
	start := time.Now()

	logJSON(loc, map[string]any{
		"component": "database",
		"event":     "db_migration_check",
		"status":    "starting",
		"db_host":   dbHost,
	})

	var exists bool
	query := "SELECT to_regclass('public.events') IS NOT NULL"
	err := db.QueryRowContext(ctx, query).Scan(&exists)
	if err != nil {
		logJSON(loc, map[string]any{
			"component":     "database",
			"event":         "db_migration_failed",
			"status":        "error",
			"error_message": fmt.Sprintf("failed to check sentinel table: %v", err),
			"db_host":       dbHost,
			"duration_ms":   time.Since(start).Milliseconds(),
		})
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		logJSON(loc, map[string]any{
			"component":   "database",
			"event":       "db_migration_skip",
			"status":      "success",
			"msg":         "schema already exists, skipping migration",
			"db_host":     dbHost,
			"duration_ms": time.Since(start).Milliseconds(),
		})
		return nil
	}

	logJSON(loc, map[string]any{
		"component": "database",
		"event":     "db_migration_start",
		"status":    "in_progress",
		"db_host":   dbHost,
	})

	for _, step := range steps {
		stepStart := time.Now()
		_, err := db.ExecContext(ctx, step.SQL)
		if err != nil {
			logJSON(loc, map[string]any{
				"component":        "database",
				"event":            "db_migration_failed",
				"status":           "error",
				"migration_step":   step.Name,
				"error_message":    err.Error(),
				"db_host":          dbHost,
				"duration_ms":      time.Since(start).Milliseconds(),
				"step_duration_ms": time.Since(stepStart).Milliseconds(),
			})
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}

		logJSON(loc, map[string]any{
			"component":        "database",
			"event":            "db_migration_step",
			"status":           "success",
			"migration_step":   step.Name,
			"db_host":          dbHost,
			"step_duration_ms": time.Since(stepStart).Milliseconds(),
		})
	}

	logJSON(loc, map[string]any{
		"component":   "database",
		"event":       "db_migration_success",
		"status":      "success",
		"db_host":     dbHost,
		"duration_ms": time.Since(start).Milliseconds(),
	})

	return nil
}

func logJSON(loc *time.Location, data map[string]any) {
	data["ts"] = time.Now().In(loc).Format(time.RFC3339Nano)
	if _, ok := data["level"]; !ok {
		if data["status"] == "error" {
			data["level"] = "error"
		} else {
			data["level"] = "info"
		}
	}

	b, err := json.Marshal(data)
	if err != nil {
		log.Printf("failed to marshal migration log: %v", err)
		return
	}
	log.SetFlags(0)
	log.Println(string(b))
}
