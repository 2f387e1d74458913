package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLookupPicksLongestPrefix(t *testing.T) {
	roots := []string{"/home/user/proj", "/home/user/proj/sub"}
	root, ok := Lookup("/home/user/proj/sub/file.go", roots)
	require.True(t, ok)
	require.Equal(t, "/home/user/proj/sub", root)
}

func TestLookupExactMatch(t *testing.T) {
	roots := []string{"/home/user/proj"}
	root, ok := Lookup("/home/user/proj", roots)
	require.True(t, ok)
	require.Equal(t, "/home/user/proj", root)
}

func TestLookupNoMatch(t *testing.T) {
	roots := []string{"/home/user/other"}
	_, ok := Lookup("/home/user/proj/file.go", roots)
	require.False(t, ok)
}

func TestLookupDoesNotMatchSiblingWithSamePrefix(t *testing.T) {
	roots := []string{"/home/user/proj"}
	_, ok := Lookup("/home/user/proj-other/file.go", roots)
	require.False(t, ok)
}

func TestCandidatesFindsGoModMarker(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "a", "b")
	require.NoError(t, os.MkdirAll(sub, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a", "go.mod"), []byte("module x\n"), 0644))

	candidates := Candidates(filepath.Join(sub, "file.go"))
	require.Contains(t, candidates, filepath.Join(dir, "a"))
}

func TestResolveFallsBackToCandidatesWhenUnregistered(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "package.json"), []byte("{}"), 0644))

	result := Resolve(dir, nil)
	require.False(t, result.Found)
	require.Contains(t, result.Candidates, dir)
}
