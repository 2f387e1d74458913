// Package updater runs fubbertool's per-command incremental refresh: a
// throttled, wall-clock-bounded sweep over known files plus a directory
// rescan near anything that changed, re-indexed in one transaction -
// spec.md §4.7. Grounded on the teacher's ScanWorkspaceIncremental
// (internal/world/incremental_scan.go), whose changed/new/deleted
// classification this package reuses with an mtime-only comparison,
// generalized from an in-memory FileCache to the persisted file_metadata
// table the store already carries.
package updater

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"fubbertool/internal/config"
	"fubbertool/internal/discovery"
	"fubbertool/internal/indexer"
	"fubbertool/internal/logging"
	"fubbertool/internal/store"
)

// coldSweepLimit bounds the second phase to the 50 oldest-verified
// entries outside the recency window (spec.md §4.7).
const coldSweepLimit = 50

// progressThreshold: progress is shown only when more than this many
// files are queued for re-index (spec.md §4.7).
const progressThreshold = 10

// Updater drives one throttled sweep per invocation.
type Updater struct {
	store *store.Store
	index *indexer.Indexer
	cfg   config.UpdaterConfig
}

// New returns an Updater backed by s and ix, using cfg's throttle/budget
// settings.
func New(s *store.Store, ix *indexer.Indexer, cfg config.UpdaterConfig) *Updater {
	return &Updater{store: s, index: ix, cfg: cfg}
}

// Result reports what one Run call did.
type Result struct {
	Throttled bool
	Changed   []string
	New       []string
	Removed   []string
}

// Run executes one sweep over projectRoot, subject to the throttle.
// now is injected by the caller (the CLI layer) rather than read from
// time.Now() directly here, so the sweep's own timing logic stays
// testable without a real clock dependency beyond the budget check.
func (u *Updater) Run(projectRoot string, now time.Time, onProgress func(indexer.Progress)) (Result, error) {
	timer := logging.StartTimer(logging.CategoryUpdate, "Run")
	defer timer.Stop()

	proj, ok, err := u.store.GetProject(projectRoot)
	if err != nil {
		return Result{}, fmt.Errorf("updater: get project: %w", err)
	}
	if ok && proj.LastUpdateCheck.Valid {
		last, parseErr := time.Parse(time.RFC3339, proj.LastUpdateCheck.String)
		if parseErr == nil && now.Sub(last) < u.cfg.Throttle {
			return Result{Throttled: true}, nil
		}
	}

	all, err := u.store.FileMetadataByProject(projectRoot)
	if err != nil {
		return Result{}, fmt.Errorf("updater: list file_metadata: %w", err)
	}

	recent, cold := partitionByRecency(all, now, u.cfg.RecentThreshold)
	// Recent sweep walks newest-verified first; cold sweep walks
	// oldest-verified first, capped at coldSweepLimit (spec.md §4.7).
	sort.Slice(recent, func(i, j int) bool { return recent[i].VerifiedTime > recent[j].VerifiedTime })
	sort.Slice(cold, func(i, j int) bool { return cold[i].VerifiedTime < cold[j].VerifiedTime })
	if len(cold) > coldSweepLimit {
		cold = cold[:coldSweepLimit]
	}

	matcher := discovery.NewMatcher(projectRoot)

	var changed, removed, verified []string
	deadline := now.Add(u.cfg.DetectTimeout)

	sweep := func(entries []store.FileMetadata) {
		for _, m := range entries {
			if time.Now().After(deadline) {
				return
			}
			verified = append(verified, m.Filename)

			rel, relErr := filepath.Rel(projectRoot, m.Filename)
			info, statErr := os.Stat(m.Filename)
			switch {
			case statErr != nil:
				removed = append(removed, m.Filename)
			case relErr == nil && matcher.Match(rel, false):
				removed = append(removed, m.Filename)
			case info.ModTime().Unix() > m.Filetime:
				changed = append(changed, m.Filename)
			}
		}
	}
	sweep(recent)
	sweep(cold)

	newFiles := u.rescanDirectories(projectRoot, changed, all, matcher)

	candidates := make([]discovery.Candidate, 0, len(changed)+len(newFiles))
	known := make(map[string]string, len(all))
	for _, m := range all {
		known[m.Filename] = m.Language
	}
	for _, f := range changed {
		candidates = append(candidates, discovery.Candidate{Path: f, Language: known[f]})
	}
	candidates = append(candidates, newFiles...)

	queued := len(candidates) + len(removed)
	if queued > 0 {
		progress := onProgress
		if queued <= progressThreshold {
			progress = nil
		}
		if err := u.index.Incremental(projectRoot, candidates, removed, progress); err != nil {
			return Result{}, fmt.Errorf("updater: incremental: %w", err)
		}
	}

	if err := u.touchVerified(verified, now); err != nil {
		return Result{}, err
	}
	if err := u.store.TouchLastUpdateCheck(projectRoot); err != nil {
		return Result{}, fmt.Errorf("updater: touch last_update_check: %w", err)
	}

	newPaths := make([]string, len(newFiles))
	for i, c := range newFiles {
		newPaths[i] = c.Path
	}
	return Result{Changed: changed, New: newPaths, Removed: removed}, nil
}

func partitionByRecency(all []store.FileMetadata, now time.Time, window time.Duration) (recent, cold []store.FileMetadata) {
	cutoff := now.Add(-window).Unix()
	for _, m := range all {
		if m.VerifiedTime >= cutoff {
			recent = append(recent, m)
		} else {
			cold = append(cold, m)
		}
	}
	return recent, cold
}

// rescanDirectories lists the immediate parent and grandparent (if still
// inside projectRoot) of every changed file, enqueuing any not-yet-known,
// classifiable file found there (spec.md §4.7 phase 3).
func (u *Updater) rescanDirectories(projectRoot string, changed []string, all []store.FileMetadata, matcher *discovery.Matcher) []discovery.Candidate {
	known := make(map[string]bool, len(all))
	for _, m := range all {
		known[m.Filename] = true
	}

	seenDir := make(map[string]bool)
	var out []discovery.Candidate
	for _, f := range changed {
		dirs := []string{filepath.Dir(f)}
		if grandparent := filepath.Dir(dirs[0]); isWithinRoot(projectRoot, grandparent) {
			dirs = append(dirs, grandparent)
		}
		for _, dir := range dirs {
			if seenDir[dir] || !isWithinRoot(projectRoot, dir) {
				continue
			}
			seenDir[dir] = true
			entries, err := os.ReadDir(dir)
			if err != nil {
				continue
			}
			for _, e := range entries {
				if e.IsDir() {
					continue
				}
				path := filepath.Join(dir, e.Name())
				if known[path] {
					continue
				}
				rel, relErr := filepath.Rel(projectRoot, path)
				if relErr == nil && matcher.Match(rel, false) {
					continue
				}
				info, infoErr := e.Info()
				if infoErr != nil {
					continue
				}
				if lang, ok := discovery.ClassifyFile(path, info); ok {
					out = append(out, discovery.Candidate{Path: path, Language: lang})
				}
			}
		}
	}
	return out
}

func isWithinRoot(root, dir string) bool {
	rel, err := filepath.Rel(root, dir)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func (u *Updater) touchVerified(filenames []string, now time.Time) error {
	if len(filenames) == 0 {
		return nil
	}
	tx, err := u.store.DB().Begin()
	if err != nil {
		return fmt.Errorf("updater: begin touch: %w", err)
	}
	if err := store.TouchVerifiedTime(tx, filenames, now.Unix()); err != nil {
		tx.Rollback()
		return fmt.Errorf("updater: %w", err)
	}
	return tx.Commit()
}
