// Package matchstore persists the ranked matches of the latest search pass
// in a SQLite database under the search root.
package matchstore

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// DirName is the per-root state directory.
const DirName = ".pastesearch"

// FileName is the database file inside DirName.
const FileName = "matches.db"

// CurrentVersion is the store schema version.
// v2: context window columns and per-strategy outcomes.
const CurrentVersion = 2

var (
	// ErrEmptyStore is returned when no search pass has been saved.
	ErrEmptyStore = errors.New("no stored search results")
	// ErrStoreLocked indicates another process is writing the store.
	ErrStoreLocked = errors.New("match store is locked")
)

// Store is the SQLite-backed match store.
type Store struct {
	db   *sql.DB
	path string
}

// Path returns the database path for root.
func Path(root string) string {
	return filepath.Join(root, DirName, FileName)
}

// Open opens or creates the store for root.
func Open(root string) (*Store, error) {
	dir := filepath.Join(root, DirName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create %s directory: %w", DirName, err)
	}

	path := Path(root)
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open match store: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// OpenInMemory opens an in-memory store (for testing).
func OpenInMemory() (*Store, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, err
	}
	// Each pooled connection to :memory: is a separate database.
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the store.
func (s *Store) Close() error {
	return s.db.Close()
}

// Location returns the database file path, or "" for in-memory stores.
func (s *Store) Location() string {
	return s.path
}

func (s *Store) initialize() error {
	schema := `
		PRAGMA journal_mode = WAL;
		PRAGMA synchronous = NORMAL;

		CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);

		-- At most one row: the latest pass.
		CREATE TABLE IF NOT EXISTS pass (
			id TEXT PRIMARY KEY,
			root TEXT NOT NULL,
			created_at TEXT NOT NULL,
			strategies TEXT NOT NULL,
			similarity_threshold REAL NOT NULL,
			best_match_threshold REAL NOT NULL,
			query_length INTEGER NOT NULL
		);

		CREATE TABLE IF NOT EXISTS outcomes (
			strategy INTEGER PRIMARY KEY,
			matched INTEGER NOT NULL,
			rejected INTEGER NOT NULL,
			stopped INTEGER NOT NULL DEFAULT 0
		);

		CREATE TABLE IF NOT EXISTS matches (
			rank INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			path TEXT NOT NULL,
			rel_path TEXT,
			strategy INTEGER NOT NULL,
			bom_length INTEGER NOT NULL DEFAULT 0,
			score REAL NOT NULL,
			similarity REAL,              -- NULL for strategies without a similarity
			start_offset INTEGER NOT NULL,
			end_offset INTEGER NOT NULL,
			length INTEGER NOT NULL,
			query TEXT NOT NULL,
			excerpt TEXT,
			context_start INTEGER NOT NULL,
			context_end INTEGER NOT NULL,
			context_text TEXT NOT NULL,
			UNIQUE (path, strategy)
		);

		CREATE INDEX IF NOT EXISTS idx_matches_name ON matches(name);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to initialize match store schema: %w", err)
	}

	var version int
	err := s.db.QueryRow(`SELECT CAST(value AS INTEGER) FROM meta WHERE key = 'version'`).Scan(&version)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return fmt.Errorf("failed to read store version: %w", err)
	case version != CurrentVersion:
		// Stored passes are disposable; start over on schema change.
		if _, err := s.db.Exec(`DROP TABLE IF EXISTS matches; DROP TABLE IF EXISTS outcomes; DROP TABLE IF EXISTS pass;`); err != nil {
			return fmt.Errorf("failed to reset match store: %w", err)
		}
		if _, err := s.db.Exec(schema); err != nil {
			return fmt.Errorf("failed to initialize match store schema: %w", err)
		}
	}

	_, err = s.db.Exec(`INSERT OR REPLACE INTO meta (key, value) VALUES ('version', ?)`,
		fmt.Sprintf("%d", CurrentVersion))
	if err != nil {
		return fmt.Errorf("failed to set store version: %w", err)
	}
	return nil
}
