// ABOUTME: SQLite store for the built statement index and submitted quiz result snapshots.
// ABOUTME: The statement index is always rebuildable by re-running the content build.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/oklog/ulid/v2"

	"github.com/kjosturett/kjosturett/quiz"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

const timeLayout = "2006-01-02T15:04:05Z07:00"

// StatementRow is one indexed (party, category) statement.
type StatementRow struct {
	Party     string
	Category  string
	HTML      string
	Found     bool
	UpdatedAt string
}

// ResultRecord is a stored quiz result snapshot.
type ResultRecord struct {
	ID        string
	Input     quiz.Input
	CreatedAt time.Time
}

// DB is the SQLite-backed store.
type DB struct {
	db *sql.DB
}

// Open opens or creates a SQLite database at the given path and ensures the
// schema exists.
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}

	schema := `
		CREATE TABLE IF NOT EXISTS statements (
			party TEXT NOT NULL,
			category TEXT NOT NULL,
			html TEXT NOT NULL,
			found INTEGER NOT NULL,
			updated_at TEXT NOT NULL,
			PRIMARY KEY (party, category)
		);

		CREATE TABLE IF NOT EXISTS results (
			id TEXT PRIMARY KEY,
			payload TEXT NOT NULL,
			created_at TEXT NOT NULL
		);`

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &DB{db: db}, nil
}

// Close closes the database connection.
func (s *DB) Close() error {
	return s.db.Close()
}

// UpsertStatement inserts or replaces the statement for a party and category.
func (s *DB) UpsertStatement(ctx context.Context, party, category, html string, found bool) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO statements (party, category, html, found, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(party, category) DO UPDATE SET
			html = excluded.html,
			found = excluded.found,
			updated_at = excluded.updated_at`,
		party, category, html, found, time.Now().UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("upsert statement: %w", err)
	}
	return nil
}

// StatementsByCategory returns every party's statement for a category,
// keyed by party slug.
func (s *DB) StatementsByCategory(ctx context.Context, category string) (map[string]StatementRow, error) {
	rows, err := s.queryStatements(ctx, "WHERE category = ?", category)
	if err != nil {
		return nil, err
	}
	out := make(map[string]StatementRow, len(rows))
	for _, r := range rows {
		out[r.Party] = r
	}
	return out, nil
}

// StatementsByParty returns every category's statement for a party, keyed by
// category slug.
func (s *DB) StatementsByParty(ctx context.Context, party string) (map[string]StatementRow, error) {
	rows, err := s.queryStatements(ctx, "WHERE party = ?", party)
	if err != nil {
		return nil, err
	}
	out := make(map[string]StatementRow, len(rows))
	for _, r := range rows {
		out[r.Category] = r
	}
	return out, nil
}

func (s *DB) queryStatements(ctx context.Context, where string, arg string) ([]StatementRow, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT party, category, html, found, updated_at FROM statements "+where, arg)
	if err != nil {
		return nil, fmt.Errorf("query statements: %w", err)
	}
	defer rows.Close()

	var result []StatementRow
	for rows.Next() {
		var r StatementRow
		if err := rows.Scan(&r.Party, &r.Category, &r.HTML, &r.Found, &r.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan statement row: %w", err)
		}
		result = append(result, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate statement rows: %w", err)
	}
	return result, nil
}

// SaveResult stores a quiz result snapshot and returns its new id.
func (s *DB) SaveResult(ctx context.Context, in quiz.Input) (string, error) {
	payload, err := json.Marshal(in)
	if err != nil {
		return "", fmt.Errorf("encode result: %w", err)
	}
	id := NewID().String()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO results (id, payload, created_at) VALUES (?, ?, ?)`,
		id, string(payload), time.Now().UTC().Format(timeLayout),
	)
	if err != nil {
		return "", fmt.Errorf("insert result: %w", err)
	}
	return id, nil
}

// Result loads a stored snapshot. Unknown or malformed ids yield ErrNotFound.
func (s *DB) Result(ctx context.Context, id string) (*ResultRecord, error) {
	if _, err := ulid.ParseStrict(id); err != nil {
		return nil, fmt.Errorf("result %q: %w", id, ErrNotFound)
	}

	var payload, created string
	err := s.db.QueryRowContext(ctx,
		`SELECT payload, created_at FROM results WHERE id = ?`, id,
	).Scan(&payload, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("result %q: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query result: %w", err)
	}

	rec := &ResultRecord{ID: id}
	if err := json.Unmarshal([]byte(payload), &rec.Input); err != nil {
		return nil, fmt.Errorf("decode result %s: %w", id, err)
	}
	if rec.CreatedAt, err = time.Parse(timeLayout, created); err != nil {
		return nil, fmt.Errorf("parse result time: %w", err)
	}
	return rec, nil
}
