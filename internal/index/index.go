// Package index provides a SQLite-backed search mirror of the disease list.
//
// The document itself lives in a single JSON blob; the mirror exists so
// search runs over indexed rows instead of re-scanning the document on every
// keystroke, and it is rebuilt wholesale on each mutation (the document is
// small and persistence is overwrite-on-mutate anyway).
package index

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS diseases (
	id              TEXT PRIMARY KEY,
	name            TEXT NOT NULL DEFAULT '',
	symptoms        TEXT NOT NULL DEFAULT '',
	lab_tests       TEXT NOT NULL DEFAULT '',
	diagnosis_notes TEXT NOT NULL DEFAULT '',
	treatment       TEXT NOT NULL DEFAULT '',
	haystack        TEXT NOT NULL DEFAULT '',
	position        INTEGER NOT NULL DEFAULT 0,
	updated_at      DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_diseases_position ON diseases(position);
`

// DB wraps a sql.DB with search-mirror operations.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the SQLite database and applies the schema.
func Open(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("index: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("index: ping: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("index: apply schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}
