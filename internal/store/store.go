// Package store persists saved searches in SQLite.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"github.com/wesm/notequery/internal/search"
)

// ErrNotFound is returned when no saved search has the requested name.
var ErrNotFound = errors.New("saved search not found")

const schema = `
CREATE TABLE IF NOT EXISTS saved_searches (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	name       TEXT NOT NULL UNIQUE,
	query      TEXT NOT NULL,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);
`

// Store wraps the SQLite database holding saved searches.
type Store struct {
	db *sql.DB
}

// SavedSearch is a named query string.
type SavedSearch struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Query     string    `json:"query"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Open opens (creating if needed) the database at dbPath.
// Call InitSchema before first use.
func Open(dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "" {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}
	dsn := dbPath + "?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=ON"
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Store{db: db}, nil
}

// InitSchema creates the tables if they do not exist.
func (s *Store) InitSchema() error {
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	return nil
}

// DB returns the underlying database handle.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveSearch stores queryStr under name, replacing any existing search with
// that name. The query must compile.
func (s *Store) SaveSearch(name, queryStr string) (*SavedSearch, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("saved search name is required")
	}
	if _, err := search.Compile(queryStr); err != nil {
		return nil, fmt.Errorf("compile %q: %w", queryStr, err)
	}

	now := time.Now().UTC()
	_, err := s.db.Exec(`
		INSERT INTO saved_searches (name, query, created_at, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET query = excluded.query, updated_at = excluded.updated_at
	`, name, queryStr, now, now)
	if err != nil {
		return nil, fmt.Errorf("save search %q: %w", name, err)
	}
	return s.GetSearch(name)
}

// GetSearch returns the saved search called name, or ErrNotFound.
func (s *Store) GetSearch(name string) (*SavedSearch, error) {
	row := s.db.QueryRow(`
		SELECT id, name, query, created_at, updated_at
		FROM saved_searches WHERE name = ?
	`, strings.TrimSpace(name))

	var ss SavedSearch
	err := row.Scan(&ss.ID, &ss.Name, &ss.Query, &ss.CreatedAt, &ss.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("get search %q: %w", name, err)
	}
	return &ss, nil
}

// ListSearches returns all saved searches ordered by name.
func (s *Store) ListSearches() ([]SavedSearch, error) {
	rows, err := s.db.Query(`
		SELECT id, name, query, created_at, updated_at
		FROM saved_searches ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("list searches: %w", err)
	}
	defer rows.Close()

	var result []SavedSearch
	for rows.Next() {
		var ss SavedSearch
		if err := rows.Scan(&ss.ID, &ss.Name, &ss.Query, &ss.CreatedAt, &ss.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan search: %w", err)
		}
		result = append(result, ss)
	}
	return result, rows.Err()
}

// DeleteSearch removes the saved search called name, or returns ErrNotFound.
func (s *Store) DeleteSearch(name string) error {
	res, err := s.db.Exec(`DELETE FROM saved_searches WHERE name = ?`, strings.TrimSpace(name))
	if err != nil {
		return fmt.Errorf("delete search %q: %w", name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete search %q: %w", name, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return nil
}
