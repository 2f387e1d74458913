package main

import (
	"fmt"
	"strings"

	"fubbertool/internal/apperr"
	"fubbertool/internal/registry"
)

// resolveProject finds the registered project root containing the
// current workspace, per spec.md §4.8. A resolution failure is an
// apperr.ConfigError (exit code 1) - the CLI never guesses a project
// root, only surfaces the candidates the registry found.
func resolveProject() (string, error) {
	ws, err := resolveWorkspace()
	if err != nil {
		return "", err
	}
	roots, err := db.ProjectRoots()
	if err != nil {
		return "", err
	}
	result := registry.Resolve(ws, roots)
	if !result.Found {
		cfgErr := &apperr.ConfigError{Path: ws}
		if len(result.Candidates) > 0 {
			cfgErr.Err = fmt.Errorf("no registered project root; candidate roots: %s", strings.Join(result.Candidates, ", "))
		}
		return "", cfgErr
	}
	if err := db.TouchLastAccessed(result.Root); err != nil {
		return "", err
	}
	return result.Root, nil
}
