package store

import (
	"database/sql"
	"fmt"
	"strings"
)

// FileMetadata mirrors the file_metadata row shape from spec.md §4.4.
type FileMetadata struct {
	Filename     string
	ProjectRoot  string
	Filetime     int64
	VerifiedTime int64
	FileHash     string
	EntryCount   int
	Language     string
}

// UpsertFileMetadata inserts or replaces filename's metadata row inside tx.
func (s *Store) UpsertFileMetadata(tx *sql.Tx, m FileMetadata) error {
	_, err := tx.Exec(`
		INSERT INTO file_metadata (filename, project_root, filetime, verified_time, file_hash, entry_count, language)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(filename) DO UPDATE SET
			project_root = excluded.project_root,
			filetime = excluded.filetime,
			verified_time = excluded.verified_time,
			file_hash = excluded.file_hash,
			entry_count = excluded.entry_count,
			language = excluded.language
	`, m.Filename, m.ProjectRoot, m.Filetime, m.VerifiedTime, m.FileHash, m.EntryCount, m.Language)
	if err != nil {
		return fmt.Errorf("upsert file_metadata %s: %w", m.Filename, err)
	}
	return nil
}

// DeleteFileMetadata removes the metadata rows of filenames inside tx;
// the Indexer calls it right after the entity purge for the same files.
func (s *Store) DeleteFileMetadata(tx *sql.Tx, filenames []string) error {
	for start := 0; start < len(filenames); start += deleteChunkSize {
		end := start + deleteChunkSize
		if end > len(filenames) {
			end = len(filenames)
		}
		chunk := filenames[start:end]
		placeholders := make([]string, len(chunk))
		args := make([]interface{}, len(chunk))
		for i, f := range chunk {
			placeholders[i] = "?"
			args[i] = f
		}
		q := fmt.Sprintf("DELETE FROM file_metadata WHERE filename IN (%s)", strings.Join(placeholders, ","))
		if _, err := tx.Exec(q, args...); err != nil {
			return fmt.Errorf("delete file_metadata: %w", err)
		}
	}
	return nil
}

// TouchVerifiedTime stamps verified_time = now for every filename in the
// batch, inside tx - the Updater calls this for every row its sweep
// examines, changed or not (spec.md §4.7).
func TouchVerifiedTime(tx *sql.Tx, filenames []string, now int64) error {
	for start := 0; start < len(filenames); start += deleteChunkSize {
		end := start + deleteChunkSize
		if end > len(filenames) {
			end = len(filenames)
		}
		chunk := filenames[start:end]
		placeholders := make([]string, len(chunk))
		args := make([]interface{}, 0, len(chunk)+1)
		args = append(args, now)
		for i, f := range chunk {
			placeholders[i] = "?"
			args = append(args, f)
		}
		q := fmt.Sprintf("UPDATE file_metadata SET verified_time = ? WHERE filename IN (%s)", strings.Join(placeholders, ","))
		if _, err := tx.Exec(q, args...); err != nil {
			return fmt.Errorf("touch verified_time: %w", err)
		}
	}
	return nil
}

// FileMetadataByProject returns every file_metadata row for projectRoot,
// ordered by verified_time ascending (oldest-verified first), the order
// the Updater's cold-sweep phase walks.
func (s *Store) FileMetadataByProject(projectRoot string) ([]FileMetadata, error) {
	rows, err := s.db.Query(`
		SELECT filename, project_root, filetime, verified_time, file_hash, entry_count, language
		FROM file_metadata WHERE project_root = ? ORDER BY verified_time ASC
	`, projectRoot)
	if err != nil {
		return nil, fmt.Errorf("query file_metadata: %w", err)
	}
	defer rows.Close()

	var out []FileMetadata
	for rows.Next() {
		var m FileMetadata
		if err := rows.Scan(&m.Filename, &m.ProjectRoot, &m.Filetime, &m.VerifiedTime, &m.FileHash, &m.EntryCount, &m.Language); err != nil {
			return nil, fmt.Errorf("scan file_metadata: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// GetFileMetadata returns filename's row, or ok=false if none exists.
func (s *Store) GetFileMetadata(filename string) (FileMetadata, bool, error) {
	var m FileMetadata
	err := s.db.QueryRow(`
		SELECT filename, project_root, filetime, verified_time, file_hash, entry_count, language
		FROM file_metadata WHERE filename = ?
	`, filename).Scan(&m.Filename, &m.ProjectRoot, &m.Filetime, &m.VerifiedTime, &m.FileHash, &m.EntryCount, &m.Language)
	if err == sql.ErrNoRows {
		return FileMetadata{}, false, nil
	}
	if err != nil {
		return FileMetadata{}, false, fmt.Errorf("get file_metadata %s: %w", filename, err)
	}
	return m, true, nil
}
