package store

import (
	"database/sql"
	"fmt"
	"time"

	"fubbertool/internal/logging"
)

// migration is one linear schema step, grounded on the teacher's
// pendingMigrations []Migration{...} idiom (internal/store/migrations.go).
// Migrations apply in order on every Open; each must be idempotent since
// it may run again against a database that already has it applied up to
// a point (tableExists/columnExists guards below).
type migration struct {
	version int
	apply   func(tx *sql.Tx) error
}

var migrations = []migration{
	{1, migrateV1},
	{2, migrateV2},
	{3, migrateV3},
	{4, migrateV4},
}

const currentSchemaVersion = 4

func runMigrations(db *sql.DB) error {
	version, err := schemaVersion(db)
	if err != nil {
		return fmt.Errorf("read schema_version: %w", err)
	}

	log := logging.Get(logging.CategoryStore)
	for _, m := range migrations {
		if m.version <= version {
			continue
		}
		log.Info("applying schema migration v%d", m.version)
		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("begin migration v%d: %w", m.version, err)
		}
		if err := m.apply(tx); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration v%d: %w", m.version, err)
		}
		if err := setSchemaVersion(tx, m.version); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration v%d set version: %w", m.version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration v%d: %w", m.version, err)
		}
	}
	return nil
}

func schemaVersion(db *sql.DB) (int, error) {
	if !tableExists(db, "schema_version") {
		return 0, nil
	}
	var v int
	err := db.QueryRow("SELECT version FROM schema_version LIMIT 1").Scan(&v)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	return v, err
}

func setSchemaVersion(tx *sql.Tx, version int) error {
	_, err := tx.Exec(`
		INSERT INTO schema_version (rowid, version, updated_at) VALUES (1, ?, ?)
		ON CONFLICT(rowid) DO UPDATE SET version = excluded.version, updated_at = excluded.updated_at
	`, version, time.Now().UTC().Format(time.RFC3339))
	return err
}

func tableExists(db *sql.DB, name string) bool {
	var n string
	err := db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", name).Scan(&n)
	return err == nil
}

func columnExists(tx *sql.Tx, table, column string) (bool, error) {
	rows, err := tx.Query(fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return false, err
	}
	defer rows.Close()
	for rows.Next() {
		var cid int
		var name, ctype string
		var notnull, pk int
		var dflt sql.NullString
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dflt, &pk); err != nil {
			return false, err
		}
		if name == column {
			return true, nil
		}
	}
	return false, rows.Err()
}

// migrateV1 creates the baseline schema: schema_version, project_roots
// (with a since-removed "description" column, see migrateV3),
// file_metadata, code_entities, and the code_index FTS5 mirror with its
// sync triggers.
func migrateV1(tx *sql.Tx) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS schema_version (
			rowid INTEGER PRIMARY KEY CHECK (rowid = 1),
			version INTEGER NOT NULL,
			updated_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS project_roots (
			project_root TEXT PRIMARY KEY,
			project_name TEXT NOT NULL,
			description TEXT,
			registered_at TEXT NOT NULL,
			last_indexed TEXT,
			last_accessed TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS file_metadata (
			filename TEXT PRIMARY KEY,
			project_root TEXT NOT NULL REFERENCES project_roots(project_root) ON DELETE CASCADE,
			filetime INTEGER NOT NULL,
			verified_time INTEGER NOT NULL,
			file_hash TEXT NOT NULL,
			entry_count INTEGER NOT NULL DEFAULT 0,
			language TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_file_metadata_project_root ON file_metadata(project_root)`,
		`CREATE INDEX IF NOT EXISTS idx_file_metadata_project_root_verified ON file_metadata(project_root, verified_time)`,
		`CREATE TABLE IF NOT EXISTS code_entities (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			preamble TEXT NOT NULL DEFAULT '',
			signature TEXT NOT NULL DEFAULT '',
			body TEXT NOT NULL DEFAULT '',
			namespace TEXT NOT NULL DEFAULT '',
			ext TEXT NOT NULL DEFAULT '',
			path TEXT NOT NULL DEFAULT '',
			preamble_raw TEXT NOT NULL DEFAULT '',
			signature_raw TEXT NOT NULL DEFAULT '',
			type TEXT NOT NULL,
			filename TEXT NOT NULL,
			line_start INTEGER NOT NULL,
			line_end INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_code_entities_filename ON code_entities(filename)`,
		`CREATE INDEX IF NOT EXISTS idx_code_entities_type ON code_entities(type)`,
	}
	for _, s := range stmts {
		if _, err := tx.Exec(s); err != nil {
			return err
		}
	}
	return createFTSMirror(tx)
}

// createFTSMirror creates code_index as an external-content FTS5 table
// over code_entities and the trigger set that keeps it in sync, grounded
// on FTSManager.InitSchema's _ai/_au/_ad triggers and 'delete'-command
// row idiom.
func createFTSMirror(tx *sql.Tx) error {
	stmts := []string{
		// tokenize='unicode61': all semantic splitting already happened
		// in the Tokenizer, so FTS5 only needs the simplest Unicode-aware
		// tokenizer, not its porter-stemming or trigram variants.
		`CREATE VIRTUAL TABLE IF NOT EXISTS code_index USING fts5(
			preamble, signature, body, namespace, ext, path,
			content='code_entities',
			content_rowid='id',
			tokenize='unicode61'
		)`,
		`CREATE TRIGGER IF NOT EXISTS code_entities_ai AFTER INSERT ON code_entities BEGIN
			INSERT INTO code_index(rowid, preamble, signature, body, namespace, ext, path)
			VALUES (new.id, new.preamble, new.signature, new.body, new.namespace, new.ext, new.path);
		END`,
		`CREATE TRIGGER IF NOT EXISTS code_entities_ad AFTER DELETE ON code_entities BEGIN
			INSERT INTO code_index(code_index, rowid, preamble, signature, body, namespace, ext, path)
			VALUES ('delete', old.id, old.preamble, old.signature, old.body, old.namespace, old.ext, old.path);
		END`,
		`CREATE TRIGGER IF NOT EXISTS code_entities_au AFTER UPDATE ON code_entities BEGIN
			INSERT INTO code_index(code_index, rowid, preamble, signature, body, namespace, ext, path)
			VALUES ('delete', old.id, old.preamble, old.signature, old.body, old.namespace, old.ext, old.path);
			INSERT INTO code_index(rowid, preamble, signature, body, namespace, ext, path)
			VALUES (new.id, new.preamble, new.signature, new.body, new.namespace, new.ext, new.path);
		END`,
	}
	for _, s := range stmts {
		if _, err := tx.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

// migrateV2 drops and recreates the FTS mirror and clears last_indexed
// so every project is reindexed under the (now current) tokenization
// rules, per spec.md §4.4's v1->v2 step.
func migrateV2(tx *sql.Tx) error {
	drops := []string{
		"DROP TRIGGER IF EXISTS code_entities_ai",
		"DROP TRIGGER IF EXISTS code_entities_au",
		"DROP TRIGGER IF EXISTS code_entities_ad",
		"DROP TABLE IF EXISTS code_index",
	}
	for _, s := range drops {
		if _, err := tx.Exec(s); err != nil {
			return err
		}
	}
	if err := createFTSMirror(tx); err != nil {
		return err
	}
	_, err := tx.Exec("UPDATE project_roots SET last_indexed = NULL")
	return err
}

// migrateV3 removes project_roots.description, which migrateV1 carried
// but spec.md §4.4's table shape never names.
func migrateV3(tx *sql.Tx) error {
	has, err := columnExists(tx, "project_roots", "description")
	if err != nil {
		return err
	}
	if !has {
		return nil
	}
	_, err = tx.Exec("ALTER TABLE project_roots DROP COLUMN description")
	return err
}

// migrateV4 adds last_update_check, completing project_roots' shape.
func migrateV4(tx *sql.Tx) error {
	has, err := columnExists(tx, "project_roots", "last_update_check")
	if err != nil {
		return err
	}
	if has {
		return nil
	}
	_, err = tx.Exec("ALTER TABLE project_roots ADD COLUMN last_update_check TEXT")
	return err
}
