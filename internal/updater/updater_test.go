package updater

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"fubbertool/internal/config"
	"fubbertool/internal/indexer"
	"fubbertool/internal/store"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "index.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func testCfg() config.UpdaterConfig {
	return config.UpdaterConfig{
		AutoUpdate:      true,
		Throttle:        60 * time.Second,
		DetectTimeout:   250 * time.Millisecond,
		RecentThreshold: 24 * time.Hour,
	}
}

// Property 7: two Updater calls within the throttle window cause at most
// one detection sweep.
func TestThrottleSkipsSecondCallWithinWindow(t *testing.T) {
	projectRoot := t.TempDir()
	writeFile(t, filepath.Join(projectRoot, "a.go"), "package main\n\nfunc a() {}\n")

	s := newTestStore(t)
	require.NoError(t, s.RegisterProject(projectRoot, "proj"))
	ix := indexer.New(s, false)
	require.NoError(t, ix.Full(projectRoot, nil))

	u := New(s, ix, testCfg())
	now := time.Now()

	r1, err := u.Run(projectRoot, now, nil)
	require.NoError(t, err)
	require.False(t, r1.Throttled)

	r2, err := u.Run(projectRoot, now.Add(5*time.Second), nil)
	require.NoError(t, err)
	require.True(t, r2.Throttled)
}

func TestRunDetectsChangedAndDeletedFiles(t *testing.T) {
	projectRoot := t.TempDir()
	keptPath := filepath.Join(projectRoot, "kept.go")
	removedPath := filepath.Join(projectRoot, "removed.go")
	writeFile(t, keptPath, "package main\n\nfunc kept() {}\n")
	writeFile(t, removedPath, "package main\n\nfunc removed() {}\n")

	s := newTestStore(t)
	require.NoError(t, s.RegisterProject(projectRoot, "proj"))
	ix := indexer.New(s, false)
	require.NoError(t, ix.Full(projectRoot, nil))

	// Sleep past a whole second so the rewrite gives the changed file a
	// newer Unix-second mtime than the one recorded at index time.
	time.Sleep(1100 * time.Millisecond)
	writeFile(t, keptPath, "package main\n\nfunc keptRenamed() {}\n")
	require.NoError(t, os.Remove(removedPath))

	u := New(s, ix, testCfg())
	result, err := u.Run(projectRoot, time.Now().Add(time.Minute), nil)
	require.NoError(t, err)
	require.False(t, result.Throttled)
	require.Contains(t, result.Changed, keptPath)
	require.Contains(t, result.Removed, removedPath)

	hits, err := s.Search("kept + Renamed", projectRoot, 10)
	require.NoError(t, err)
	require.NotEmpty(t, hits)

	_, ok, err := s.GetFileMetadata(removedPath)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestRunDiscoversNewFileViaDirectoryRescan(t *testing.T) {
	projectRoot := t.TempDir()
	aPath := filepath.Join(projectRoot, "pkg", "a.go")
	writeFile(t, aPath, "package pkg\n\nfunc a() {}\n")

	s := newTestStore(t)
	require.NoError(t, s.RegisterProject(projectRoot, "proj"))
	ix := indexer.New(s, false)
	require.NoError(t, ix.Full(projectRoot, nil))

	time.Sleep(1100 * time.Millisecond)
	bPath := filepath.Join(projectRoot, "pkg", "b.go")
	writeFile(t, bPath, "package pkg\n\nfunc bFreshFunc() {}\n")
	// Touch a.go so the directory rescan phase triggers on it.
	now := time.Now()
	require.NoError(t, os.Chtimes(aPath, now, now))

	u := New(s, ix, testCfg())
	_, err := u.Run(projectRoot, now.Add(time.Minute), nil)
	require.NoError(t, err)

	hits, err := s.Search("b + Fresh + Func", projectRoot, 10)
	require.NoError(t, err)
	require.NotEmpty(t, hits)
}
