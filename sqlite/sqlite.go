// Package sqlite stores finished articles in SQLite. It is the default
// handoff sink for ready jobs.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// memoryPath opens a private in-memory database.
const memoryPath = ":memory:"

// migrations upgrade the schema one version at a time. PRAGMA user_version
// records how many have been applied; entries are append-only.
var migrations = []string{
	`CREATE TABLE articles (
		id TEXT PRIMARY KEY,
		job_id TEXT NOT NULL DEFAULT '',
		source_url TEXT NOT NULL DEFAULT '',
		title TEXT NOT NULL,
		content TEXT NOT NULL,
		excerpt TEXT NOT NULL DEFAULT '',
		category TEXT NOT NULL DEFAULT '',
		content_style TEXT NOT NULL DEFAULT '',
		language TEXT NOT NULL DEFAULT '',
		image TEXT NOT NULL DEFAULT '',
		author TEXT NOT NULL DEFAULT '',
		published_at TEXT NOT NULL DEFAULT '',
		quality_score INTEGER NOT NULL DEFAULT 0,
		issues TEXT NOT NULL DEFAULT '[]',
		used_ai INTEGER NOT NULL DEFAULT 0,
		variants TEXT NOT NULL DEFAULT '{}',
		content_hash TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	);
	CREATE INDEX idx_articles_job_id ON articles(job_id);
	CREATE INDEX idx_articles_category ON articles(category);
	CREATE INDEX idx_articles_created_at ON articles(created_at);`,

	`CREATE INDEX idx_articles_language ON articles(language);`,
}

// SchemaVersion is the schema version Open migrates to.
var SchemaVersion = len(migrations)

// DB is the article store's connection. Articles are written by finished
// jobs one at a time, so the pool holds a single connection.
type DB struct {
	db   *sql.DB
	path string
}

// NewDB creates a DB for the database file at path. Use ":memory:" for a
// throwaway database.
func NewDB(path string) *DB {
	return &DB{path: path}
}

// Open connects to the database, applies the connection pragmas and
// migrates the schema to SchemaVersion.
func (db *DB) Open() error {
	ctx := context.Background()

	conn, err := sql.Open("sqlite3", db.path)
	if err != nil {
		return fmt.Errorf("open article store %s: %w", db.path, err)
	}
	conn.SetMaxOpenConns(1)

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return fmt.Errorf("connect to article store %s: %w", db.path, err)
	}

	for _, pragma := range db.pragmas() {
		if _, err := conn.ExecContext(ctx, pragma); err != nil {
			conn.Close()
			return fmt.Errorf("apply %q: %w", pragma, err)
		}
	}

	if err := migrate(ctx, conn); err != nil {
		conn.Close()
		return err
	}

	db.db = conn
	return nil
}

// pragmas returns the per-connection settings. Writers wait on a locked
// file instead of failing, and file databases use WAL so that readers
// such as the articles command do not block an ingest.
func (db *DB) pragmas() []string {
	pragmas := []string{"PRAGMA busy_timeout = 5000"}
	if db.path != memoryPath {
		pragmas = append(pragmas,
			"PRAGMA journal_mode = WAL",
			"PRAGMA synchronous = NORMAL",
		)
	}
	return pragmas
}

// migrate applies the migrations the database has not seen yet, each in
// its own transaction together with the version bump.
func migrate(ctx context.Context, conn *sql.DB) error {
	var version int
	if err := conn.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version > len(migrations) {
		return fmt.Errorf("schema version %d is newer than supported version %d", version, len(migrations))
	}

	for i := version; i < len(migrations); i++ {
		tx, err := conn.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin migration %d: %w", i+1, err)
		}
		if _, err := tx.ExecContext(ctx, migrations[i]); err != nil {
			tx.Rollback()
			return fmt.Errorf("apply migration %d: %w", i+1, err)
		}
		// PRAGMA does not accept bound parameters.
		if _, err := tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", i+1)); err != nil {
			tx.Rollback()
			return fmt.Errorf("record migration %d: %w", i+1, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %d: %w", i+1, err)
		}
	}
	return nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	if db.db != nil {
		return db.db.Close()
	}
	return nil
}

// QueryRowContext executes a query that returns a single row.
func (db *DB) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return db.db.QueryRowContext(ctx, query, args...)
}

// QueryContext executes a query that returns rows.
func (db *DB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return db.db.QueryContext(ctx, query, args...)
}

// ExecContext executes a statement that doesn't return rows.
func (db *DB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return db.db.ExecContext(ctx, query, args...)
}
