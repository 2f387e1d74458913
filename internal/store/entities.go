package store

import (
	"database/sql"
	"fmt"
	"strings"
)

// deleteChunkSize bounds the "filename IN (...)" batches used for purging,
// per spec.md §4.4's batched-delete rule.
const deleteChunkSize = 500

// Entity is one row of code_entities as seen by callers outside the
// store package (the Indexer/Updater and the extractor contract).
type Entity struct {
	ID           int64
	Preamble     string
	Signature    string
	Body         string
	Namespace    string
	Ext          string
	Path         string
	PreambleRaw  string
	SignatureRaw string
	Type         string
	Filename     string
	LineStart    int
	LineEnd      int
}

// InsertEntities inserts entities for filename inside tx, relying on the
// code_entities_ai trigger to mirror each row into code_index.
func (s *Store) InsertEntities(tx *sql.Tx, entities []Entity) error {
	if len(entities) == 0 {
		return nil
	}
	stmt, err := tx.Prepare(`
		INSERT INTO code_entities
			(preamble, signature, body, namespace, ext, path, preamble_raw, signature_raw, type, filename, line_start, line_end)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare insert code_entities: %w", err)
	}
	defer stmt.Close()

	for _, e := range entities {
		if _, err := stmt.Exec(e.Preamble, e.Signature, e.Body, e.Namespace, e.Ext, e.Path,
			e.PreambleRaw, e.SignatureRaw, e.Type, e.Filename, e.LineStart, e.LineEnd); err != nil {
			return fmt.Errorf("insert code_entities for %s: %w", e.Filename, err)
		}
	}
	return nil
}

// DeleteEntitiesForFiles removes every code_entities row belonging to any
// of filenames, in chunks of deleteChunkSize (spec.md §4.4's batched-
// delete rule). The code_entities_ad trigger fires once per deleted row
// and issues that row's FTS delete-command itself; deleteChunk must not
// also synthesize one, or every purged rowid gets two delete commands
// against the same external-content row, which the FTS5 mirror does not
// tolerate.
func (s *Store) DeleteEntitiesForFiles(tx *sql.Tx, filenames []string) error {
	for start := 0; start < len(filenames); start += deleteChunkSize {
		end := start + deleteChunkSize
		if end > len(filenames) {
			end = len(filenames)
		}
		if err := deleteChunk(tx, filenames[start:end]); err != nil {
			return err
		}
	}
	return nil
}

func deleteChunk(tx *sql.Tx, filenames []string) error {
	placeholders := make([]string, len(filenames))
	args := make([]interface{}, len(filenames))
	for i, f := range filenames {
		placeholders[i] = "?"
		args[i] = f
	}
	inClause := strings.Join(placeholders, ",")

	if _, err := tx.Exec(fmt.Sprintf("DELETE FROM code_entities WHERE filename IN (%s)", inClause), args...); err != nil {
		return fmt.Errorf("delete code_entities: %w", err)
	}
	return nil
}

// CountEntities returns the live row count in code_entities, used by
// store_test.go's schema-coherence check (property 6).
func (s *Store) CountEntities() (int, error) {
	var n int
	err := s.db.QueryRow("SELECT COUNT(*) FROM code_entities").Scan(&n)
	return n, err
}

// CountIndexed returns the live row count visible through the FTS mirror.
func (s *Store) CountIndexed() (int, error) {
	var n int
	err := s.db.QueryRow("SELECT COUNT(*) FROM code_index").Scan(&n)
	return n, err
}
