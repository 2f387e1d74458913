// Package apperr holds the error kinds spec.md §7 names that don't already
// belong to one specific package: ConfigError (missing/invalid project
// root) and FilesystemError (unreadable file or directory). The other
// kinds - QueryParseError, TokenizationError, ExtractionError, StoreError -
// live next to the code that raises them (query.ParseError,
// tokenizer.TokenizationError, entity.ExtractionError, store.Error),
// following the teacher's habit of defining error types beside their
// producer rather than in one central errors package.
package apperr

import "fmt"

// ConfigError reports a missing or unregistered project root - the CLI
// maps it to exit code 1 (resolution/parse failure).
type ConfigError struct {
	Path string
	Err  error
}

func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("config: %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("config: no registered project root for %s", e.Path)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// FilesystemError reports an unreadable file or directory encountered
// outside the Discovery/Extractor per-file recovery paths (spec.md §7).
// It is non-fatal by policy; callers log it and continue.
type FilesystemError struct {
	Path string
	Err  error
}

func (e *FilesystemError) Error() string {
	return fmt.Sprintf("filesystem: %s: %v", e.Path, e.Err)
}

func (e *FilesystemError) Unwrap() error { return e.Err }
