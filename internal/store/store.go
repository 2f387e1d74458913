// Package store is fubbertool's SQLite-backed persistence layer:
// project_roots, file_metadata, code_entities, and the code_index FTS5
// mirror, kept in sync by triggers. Grounded on the teacher's
// internal/store/local_core.go for the driver/pragma sequence and
// internal/store/migrations.go for the versioned migration runner.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "github.com/mattn/go-sqlite3"

	"fubbertool/internal/logging"
)

// Store is a single project's (or the shared) SQLite-backed index.
type Store struct {
	db *sql.DB

	mu    sync.Mutex
	stmts map[string]*sql.Stmt // prepared-statement cache, keyed by SQL text
}

// Open opens (creating if necessary) the SQLite database at path,
// applies the teacher's pragma sequence, and runs any pending schema
// migrations.
func Open(path string) (*Store, error) {
	timer := logging.StartTimer(logging.CategoryStore, "Open")
	defer timer.Stop()

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, wrap("Open.MkdirAll", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, wrap("Open", err)
	}

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		logging.Get(logging.CategoryStore).Warn("failed to set busy_timeout: %v", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		logging.Get(logging.CategoryStore).Warn("failed to set journal_mode=WAL: %v", err)
	}
	// synchronous=NORMAL trades a small durability window for a 5-10x
	// write speedup under WAL, same tradeoff the teacher's store makes.
	if _, err := db.Exec("PRAGMA synchronous = NORMAL"); err != nil {
		logging.Get(logging.CategoryStore).Warn("failed to set synchronous=NORMAL: %v", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		logging.Get(logging.CategoryStore).Warn("failed to enable foreign_keys: %v", err)
	}

	s := &Store{db: db, stmts: make(map[string]*sql.Stmt)}
	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, wrap("Open.runMigrations", err)
	}
	return s, nil
}

// Close closes every cached prepared statement and the database handle.
func (s *Store) Close() error {
	s.mu.Lock()
	for _, stmt := range s.stmts {
		stmt.Close()
	}
	s.stmts = make(map[string]*sql.Stmt)
	s.mu.Unlock()
	return wrap("Close", s.db.Close())
}

// prepare returns a cached *sql.Stmt for query, preparing it on first
// use. Safe for concurrent use, though the core is expected to call the
// Store from one goroutine at a time (spec.md §5).
func (s *Store) prepare(query string) (*sql.Stmt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if stmt, ok := s.stmts[query]; ok {
		return stmt, nil
	}
	stmt, err := s.db.Prepare(query)
	if err != nil {
		return nil, fmt.Errorf("prepare %q: %w", query, err)
	}
	s.stmts[query] = stmt
	return stmt, nil
}

// DB exposes the underlying handle for callers (Indexer, Updater) that
// need to run their own transactions spanning multiple Store calls.
func (s *Store) DB() *sql.DB { return s.db }
