// Package sqlite stores users, study records and comments in an embedded
// SQLite database. It backs local development and the repository tests;
// production deployments use the Postgres repositories.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"
)

// DB wraps a sql.DB connection pool
type DB struct {
	conn *sql.DB
}

// New opens the database at path (":memory:" for a throwaway database) and
// creates the tables.
func New(path string) (*DB, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// one connection keeps ":memory:" databases shared and serializes writers
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	for _, pragma := range []string{"PRAGMA journal_mode=WAL", "PRAGMA foreign_keys=ON"} {
		if _, err := conn.Exec(pragma); err != nil {
			conn.Close()
			return nil, fmt.Errorf("sqlite: %s: %w", pragma, err)
		}
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the database
func (db *DB) Close() error {
	return db.conn.Close()
}

// Ping verifies the database is reachable
func (db *DB) Ping(ctx context.Context) error {
	return db.conn.PingContext(ctx)
}

// Users returns the user store
func (db *DB) Users() *UserDB {
	return &UserDB{conn: db.conn}
}

// Records returns the study record store
func (db *DB) Records() *RecordDB {
	return &RecordDB{conn: db.conn}
}

// Comments returns the comment store
func (db *DB) Comments() *CommentDB {
	return &CommentDB{conn: db.conn}
}

func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id         TEXT PRIMARY KEY,
			name       TEXT NOT NULL UNIQUE,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		);

		CREATE TABLE IF NOT EXISTS study_records (
			id               TEXT PRIMARY KEY,
			user_id          TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			date             TEXT NOT NULL,
			hours            REAL NOT NULL CHECK (hours > 0 AND hours <= 24),
			photo_url        TEXT,
			is_part_of_batch BOOLEAN NOT NULL DEFAULT 0,
			batch_timestamp  TEXT,
			created_at       DATETIME NOT NULL,
			UNIQUE (user_id, date)
		);
		CREATE INDEX IF NOT EXISTS idx_study_records_date ON study_records(date);

		CREATE TABLE IF NOT EXISTS comments (
			id             TEXT PRIMARY KEY,
			user_id        TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			commenter_name TEXT NOT NULL,
			comment_text   TEXT NOT NULL,
			created_at     DATETIME NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_comments_user_created ON comments(user_id, created_at);
	`)
	if err != nil {
		return fmt.Errorf("creating tables: %w", err)
	}
	return nil
}

// isUniqueViolation matches SQLite's constraint message; the driver does not
// export a typed error code through database/sql.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
