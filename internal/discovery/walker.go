// Package discovery walks a project root, classifies candidate files by
// language, and applies an inheritable gitignore-style exclusion chain -
// grounded on the teacher's Scanner.ScanDirectory (internal/world/fs.go),
// whose bounded worker pool and filepath.Walk traversal this package
// reuses for the decision-independent parts of the same job.
package discovery

import (
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/sync/errgroup"
)

// ioConcurrency bounds the shebang-sniffing worker pool - pure I/O
// fan-out, not decision-making, so it does not violate the single-
// threaded core model spec.md §5 requires (see SPEC_FULL.md §5).
const ioConcurrency = 20

// Candidate is one discovered (path, language) pair.
type Candidate struct {
	Path     string
	Language string
}

// Walk traverses root, returning every non-excluded candidate file along
// with the Matcher built while walking (so a caller can reuse the same
// ignore-rule cache for a later directory rescan instead of reflecting
// into private state; the Updater builds its own with NewMatcher).
func Walk(root string) ([]Candidate, *Matcher, error) {
	root = filepath.Clean(root)
	matcher := NewMatcher(root)

	var candidates []Candidate
	var shebangCandidates []string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Directories (and files) that throw on open are silently
			// skipped (spec.md §4.3).
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if path == root {
			return nil
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return nil
		}

		if d.IsDir() {
			if matcher.Match(rel, true) {
				return filepath.SkipDir
			}
			return nil
		}
		if matcher.Match(rel, false) {
			return nil
		}

		if lang, ok := ClassifyExtension(path); ok {
			candidates = append(candidates, Candidate{Path: path, Language: lang})
			return nil
		}

		info, infoErr := d.Info()
		if infoErr != nil {
			return nil
		}
		if filepath.Ext(path) == "" && info.Mode()&0111 != 0 {
			shebangCandidates = append(shebangCandidates, path)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	candidates = append(candidates, sniffShebangs(shebangCandidates)...)
	return candidates, matcher, nil
}

// sniffShebangs reads candidate headers through a bounded worker pool
// (I/O parallelism only) and merges results under a mutex, so Walk's
// caller still observes a synchronous, single-threaded return value.
// Grounded on the teacher's errgroup.WithContext concurrency-limiting
// idiom (internal/campaign/intelligence_gatherer.go) in place of a
// hand-rolled WaitGroup-plus-channel semaphore.
func sniffShebangs(paths []string) []Candidate {
	var (
		mu  sync.Mutex
		out []Candidate
	)
	var eg errgroup.Group
	eg.SetLimit(ioConcurrency)

	for _, p := range paths {
		eg.Go(func() error {
			info, err := os.Stat(p)
			if err != nil {
				return nil
			}
			lang, ok := classifyShebang(p, info)
			if !ok {
				return nil
			}
			mu.Lock()
			out = append(out, Candidate{Path: p, Language: lang})
			mu.Unlock()
			return nil
		})
	}
	_ = eg.Wait()
	return out
}
