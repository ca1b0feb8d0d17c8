package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib" // driver: pgx
	_ "modernc.org/sqlite"             // driver: sqlite
)

type Driver string

const (
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
)

// Open opens a DB and ensures schema exists.
func Open(ctx context.Context, driver Driver, dsn string) (*sql.DB, error) {
	var drvName string
	switch driver {
	case DriverSQLite:
		drvName = "sqlite" // modernc driver
		if dsn == "" {
			dsn = "file:rubricd.db?cache=shared&mode=rwc&_pragma=busy_timeout(5000)"
		}
	case DriverPostgres:
		drvName = "pgx" // pgx stdlib driver
		if dsn == "" {
			dsn = "postgres://localhost:5432/rubricd?sslmode=disable"
		}
	default:
		return nil, fmt.Errorf("unsupported driver: %s", driver)
	}

	db, err := sql.Open(drvName, dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}

	if err := ensureSchema(ctx, db, driver); err != nil {
		return nil, err
	}
	return db, nil
}

func ensureSchema(ctx context.Context, db *sql.DB, driver Driver) error {
	var schema string
	switch driver {
	case DriverSQLite:
		schema = schemaSQLite
	case DriverPostgres:
		schema = schemaPostgres
	}
	_, err := db.ExecContext(ctx, schema)
	return err
}

const schemaSQLite = `
PRAGMA foreign_keys=ON;

CREATE TABLE IF NOT EXISTS rubrics (
  id TEXT PRIMARY KEY,
  title TEXT NOT NULL,
  free_form_comments INTEGER NOT NULL DEFAULT 0,
  criteria_json TEXT NOT NULL,
  created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS assessments (
  id TEXT PRIMARY KEY,
  rubric_id TEXT NOT NULL REFERENCES rubrics(id) ON DELETE CASCADE,
  assessor_id TEXT NOT NULL,
  entries_json TEXT NOT NULL,
  score REAL NOT NULL DEFAULT 0,
  submitted_at INTEGER
);

CREATE TABLE IF NOT EXISTS saved_comments (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  assessor_id TEXT NOT NULL,
  criterion_id TEXT NOT NULL,
  comment TEXT NOT NULL,
  created_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_assessments_rubric ON assessments(rubric_id);
CREATE UNIQUE INDEX IF NOT EXISTS idx_saved_comments_unique ON saved_comments(assessor_id, criterion_id, comment);
`

const schemaPostgres = `
CREATE TABLE IF NOT EXISTS rubrics (
  id TEXT PRIMARY KEY,
  title TEXT NOT NULL,
  free_form_comments BOOLEAN NOT NULL DEFAULT FALSE,
  criteria_json TEXT NOT NULL,
  created_at BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS assessments (
  id TEXT PRIMARY KEY,
  rubric_id TEXT NOT NULL REFERENCES rubrics(id) ON DELETE CASCADE,
  assessor_id TEXT NOT NULL,
  entries_json TEXT NOT NULL,
  score DOUBLE PRECISION NOT NULL DEFAULT 0,
  submitted_at BIGINT
);

CREATE TABLE IF NOT EXISTS saved_comments (
  id BIGSERIAL PRIMARY KEY,
  assessor_id TEXT NOT NULL,
  criterion_id TEXT NOT NULL,
  comment TEXT NOT NULL,
  created_at BIGINT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_assessments_rubric ON assessments(rubric_id);
CREATE UNIQUE INDEX IF NOT EXISTS idx_saved_comments_unique ON saved_comments(assessor_id, criterion_id, comment);
`
