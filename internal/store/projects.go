package store

import (
	"database/sql"
	"fmt"
	"time"
)

// Project mirrors the project_roots row shape from spec.md §4.4 (its
// final, post-migration shape — see schema.go's migrateV3/migrateV4).
type Project struct {
	ProjectRoot     string
	ProjectName     string
	RegisteredAt    string
	LastIndexed     sql.NullString
	LastAccessed    sql.NullString
	LastUpdateCheck sql.NullString
}

// RegisterProject inserts projectRoot if absent, leaving an existing row
// untouched - re-registering an already-known root is a no-op.
func (s *Store) RegisterProject(projectRoot, projectName string) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.Exec(`
		INSERT INTO project_roots (project_root, project_name, registered_at, last_accessed)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(project_root) DO NOTHING
	`, projectRoot, projectName, now, now)
	if err != nil {
		return fmt.Errorf("register project %s: %w", projectRoot, err)
	}
	return nil
}

// TouchLastIndexed stamps last_indexed with the current time, called once
// an index/update run over projectRoot completes.
func (s *Store) TouchLastIndexed(projectRoot string) error {
	_, err := s.db.Exec("UPDATE project_roots SET last_indexed = ? WHERE project_root = ?",
		time.Now().UTC().Format(time.RFC3339), projectRoot)
	return err
}

// TouchLastAccessed stamps last_accessed, called whenever a search or CLI
// command touches projectRoot.
func (s *Store) TouchLastAccessed(projectRoot string) error {
	_, err := s.db.Exec("UPDATE project_roots SET last_accessed = ? WHERE project_root = ?",
		time.Now().UTC().Format(time.RFC3339), projectRoot)
	return err
}

// TouchLastUpdateCheck stamps last_update_check, called at the end of
// every Updater sweep that is not throttled, whether or not it found
// work to do.
func (s *Store) TouchLastUpdateCheck(projectRoot string) error {
	_, err := s.db.Exec("UPDATE project_roots SET last_update_check = ? WHERE project_root = ?",
		time.Now().UTC().Format(time.RFC3339), projectRoot)
	return err
}

// GetProject returns projectRoot's row, or ok=false if it is unregistered.
func (s *Store) GetProject(projectRoot string) (Project, bool, error) {
	var p Project
	err := s.db.QueryRow(`
		SELECT project_root, project_name, registered_at, last_indexed, last_accessed, last_update_check
		FROM project_roots WHERE project_root = ?
	`, projectRoot).Scan(&p.ProjectRoot, &p.ProjectName, &p.RegisteredAt, &p.LastIndexed, &p.LastAccessed, &p.LastUpdateCheck)
	if err == sql.ErrNoRows {
		return Project{}, false, nil
	}
	if err != nil {
		return Project{}, false, fmt.Errorf("get project %s: %w", projectRoot, err)
	}
	return p, true, nil
}

// ListProjects returns every registered project, most-recently-accessed
// first.
func (s *Store) ListProjects() ([]Project, error) {
	rows, err := s.db.Query(`
		SELECT project_root, project_name, registered_at, last_indexed, last_accessed, last_update_check
		FROM project_roots ORDER BY last_accessed DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	var out []Project
	for rows.Next() {
		var p Project
		if err := rows.Scan(&p.ProjectRoot, &p.ProjectName, &p.RegisteredAt, &p.LastIndexed, &p.LastAccessed, &p.LastUpdateCheck); err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// ProjectRoots returns every registered project_root string, used by the
// registry package's longest-prefix match so it never has to keep its
// own copy of the set in sync with the store.
func (s *Store) ProjectRoots() ([]string, error) {
	rows, err := s.db.Query("SELECT project_root FROM project_roots")
	if err != nil {
		return nil, fmt.Errorf("query project_roots: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var root string
		if err := rows.Scan(&root); err != nil {
			return nil, fmt.Errorf("scan project_root: %w", err)
		}
		out = append(out, root)
	}
	return out, rows.Err()
}
