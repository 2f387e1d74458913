// Package indexer orchestrates full and incremental indexing runs: one
// write transaction per run, Discovery feeding the extractor registry,
// and progress advancing in fixed step counts - spec.md §4.5. The core
// stays single-threaded and synchronous per spec.md §5: one goroutine
// drives discovery, extraction, and every store call.
package indexer

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"fubbertool/internal/discovery"
	"fubbertool/internal/entity"
	"fubbertool/internal/entity/css"
	"fubbertool/internal/entity/golang"
	"fubbertool/internal/entity/jsts"
	"fubbertool/internal/entity/markdown"
	"fubbertool/internal/entity/python"
	"fubbertool/internal/entity/rust"
	"fubbertool/internal/entity/script"
	"fubbertool/internal/logging"
	"fubbertool/internal/store"
	"fubbertool/internal/tokenizer"
)

// progressStep is the fixed advance granularity spec.md §4.5 names ("every
// 7 files") to amortize UI progress updates.
const progressStep = 7

// Progress is reported to an optional callback as files are processed;
// the output collaborator (never consulted by the core for decisions)
// turns this into a progress bar.
type Progress struct {
	Done  int
	Total int
}

// Indexer drives full() and incremental() over one project.
type Indexer struct {
	store *store.Store
	tok   *tokenizer.Tokenizer
	reg   *entity.Registry
	dev   bool
}

// New returns an Indexer backed by s, using dev to gate the tokenizer's
// failure-recovery behavior and, per spec.md §7, whether a per-file
// ExtractionError aborts the run instead of being logged and skipped.
func New(s *store.Store, dev bool) *Indexer {
	return &Indexer{
		store: s,
		tok:   tokenizer.New(dev),
		reg: entity.DefaultRegistry(
			golang.New(), python.New(), jsts.New(), css.New(), markdown.New(), rust.New(),
		),
		dev: dev,
	}
}

// Full re-indexes projectRoot from scratch: purge, walk, extract, commit,
// stamp last_indexed, per spec.md §4.5's full() operation.
func (ix *Indexer) Full(projectRoot string, onProgress func(Progress)) error {
	runID := uuid.NewString()
	log := logging.Get(logging.CategoryIndex)
	log.Info("run=%s full start root=%s", runID, projectRoot)
	timer := logging.StartTimer(logging.CategoryIndex, "Full")
	defer timer.Stop()

	existing, err := ix.store.FileMetadataByProject(projectRoot)
	if err != nil {
		return fmt.Errorf("indexer: list existing files: %w", err)
	}
	staleFilenames := make([]string, len(existing))
	for i, m := range existing {
		staleFilenames[i] = m.Filename
	}

	candidates, _, err := discovery.Walk(projectRoot)
	if err != nil {
		return fmt.Errorf("indexer: walk %s: %w", projectRoot, err)
	}

	tx, err := ix.store.DB().Begin()
	if err != nil {
		return fmt.Errorf("indexer: begin: %w", err)
	}

	if err := ix.store.DeleteEntitiesForFiles(tx, staleFilenames); err != nil {
		tx.Rollback()
		return fmt.Errorf("indexer: purge existing entities: %w", err)
	}
	if err := ix.store.DeleteFileMetadata(tx, staleFilenames); err != nil {
		tx.Rollback()
		return fmt.Errorf("indexer: purge existing file_metadata: %w", err)
	}

	total := len(candidates)
	for i, c := range candidates {
		if err := ix.indexOne(tx, projectRoot, c); err != nil {
			var extErr *entity.ExtractionError
			if ix.dev && errors.As(err, &extErr) {
				tx.Rollback()
				return fmt.Errorf("run=%s index %s: %w", runID, c.Path, err)
			}
			log.Warn("run=%s index %s: %v", runID, c.Path, err)
		}
		reportProgress(onProgress, i+1, total)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("indexer: commit: %w", err)
	}
	if err := ix.store.TouchLastIndexed(projectRoot); err != nil {
		return fmt.Errorf("indexer: touch last_indexed: %w", err)
	}
	log.Info("run=%s full done files=%d", runID, total)
	return nil
}

// Incremental re-extracts exactly the files named in changed, deletes
// rows for files named in removed, all within one transaction - the
// Updater's path per spec.md §4.5/§4.7. candidates must already be
// resolved to (path, language) pairs (typically by the Updater, which
// builds its own Matcher for the project root).
func (ix *Indexer) Incremental(projectRoot string, candidates []discovery.Candidate, removed []string, onProgress func(Progress)) error {
	runID := uuid.NewString()
	log := logging.Get(logging.CategoryIndex)
	log.Info("run=%s incremental start root=%s changed=%d removed=%d", runID, projectRoot, len(candidates), len(removed))
	timer := logging.StartTimer(logging.CategoryIndex, "Incremental")
	defer timer.Stop()

	changedFilenames := make([]string, len(candidates))
	for i, c := range candidates {
		changedFilenames[i] = c.Path
	}
	allStale := append(append([]string{}, changedFilenames...), removed...)

	tx, err := ix.store.DB().Begin()
	if err != nil {
		return fmt.Errorf("indexer: begin: %w", err)
	}

	if err := ix.store.DeleteEntitiesForFiles(tx, allStale); err != nil {
		tx.Rollback()
		return fmt.Errorf("indexer: purge stale entities: %w", err)
	}
	if err := ix.store.DeleteFileMetadata(tx, allStale); err != nil {
		tx.Rollback()
		return fmt.Errorf("indexer: purge stale file_metadata: %w", err)
	}

	total := len(candidates)
	for i, c := range candidates {
		if err := ix.indexOne(tx, projectRoot, c); err != nil {
			var extErr *entity.ExtractionError
			if ix.dev && errors.As(err, &extErr) {
				tx.Rollback()
				return fmt.Errorf("run=%s index %s: %w", runID, c.Path, err)
			}
			log.Warn("run=%s index %s: %v", runID, c.Path, err)
		}
		reportProgress(onProgress, i+1, total)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("indexer: commit: %w", err)
	}
	if err := ix.store.TouchLastIndexed(projectRoot); err != nil {
		return err
	}
	log.Info("run=%s incremental done", runID)
	return nil
}

func reportProgress(onProgress func(Progress), done, total int) {
	if onProgress == nil {
		return
	}
	if done%progressStep == 0 || done == total {
		onProgress(Progress{Done: done, Total: total})
	}
}

// indexOne extracts and inserts every entity for one candidate file
// inside tx, and upserts its file_metadata row. A file with no registered
// extractor still gets its file record and a file_metadata row; a file
// whose extraction fails (ExtractionError in production mode) gets no
// file_metadata row and no entities. In dev mode an
// ExtractionError instead propagates to the caller, which aborts and
// rolls back the whole run per spec.md §7.
func (ix *Indexer) indexOne(tx *sql.Tx, projectRoot string, c discovery.Candidate) error {
	content, err := os.ReadFile(c.Path)
	if err != nil {
		return fmt.Errorf("read %s: %w", c.Path, err)
	}

	records, err := ix.extract(c, content)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return nil
	}

	info, err := os.Stat(c.Path)
	if err != nil {
		return fmt.Errorf("stat %s: %w", c.Path, err)
	}

	entities := make([]store.Entity, len(records))
	for i, r := range records {
		rel, relErr := filepath.Rel(projectRoot, c.Path)
		if relErr != nil {
			rel = c.Path
		}
		entities[i] = store.Entity{
			Preamble:     mustTokenize(ix.tok, r.PreambleRaw),
			Signature:    mustTokenize(ix.tok, r.SignatureRaw),
			Body:         mustTokenize(ix.tok, r.BodyRaw),
			Namespace:    mustTokenize(ix.tok, r.Namespace),
			Ext:          mustTokenize(ix.tok, filepath.Ext(c.Path)),
			Path:         mustTokenize(ix.tok, rel),
			PreambleRaw:  r.PreambleRaw,
			SignatureRaw: r.SignatureRaw,
			Type:         r.Type,
			Filename:     c.Path,
			LineStart:    r.LineStart,
			LineEnd:      r.LineEnd,
		}
	}

	if err := ix.store.InsertEntities(tx, entities); err != nil {
		return err
	}

	return ix.store.UpsertFileMetadata(tx, store.FileMetadata{
		Filename:     c.Path,
		ProjectRoot:  projectRoot,
		Filetime:     info.ModTime().Unix(),
		VerifiedTime: time.Now().Unix(),
		FileHash:     fileHash(content),
		EntryCount:   len(records),
		Language:     c.Language,
	})
}

// extract routes to the script extractor for shebang-classified
// candidates (which carry no extension the registry dispatches on) and
// to the registry for everything else.
func (ix *Indexer) extract(c discovery.Candidate, content []byte) ([]entity.Record, error) {
	if filepath.Ext(c.Path) == "" {
		return script.New().Extract(c.Path, content)
	}
	records, err := ix.reg.Extract(c.Path, content)
	if err != nil {
		return nil, err
	}
	if records == nil {
		// No registered extractor: still emit the mandatory file record
		// (spec.md §4.6).
		records = []entity.Record{entity.FileRecord(entity.CountLines(content))}
	}
	return records, nil
}

func mustTokenize(tok *tokenizer.Tokenizer, s string) string {
	out, err := tok.Tokenize(s)
	if err != nil {
		return ""
	}
	return out
}

func fileHash(content []byte) string {
	h := sha256.Sum256(content)
	return hex.EncodeToString(h[:])
}
