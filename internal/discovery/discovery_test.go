package discovery

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

// Property 5: for a set of (pattern, path, expected) triples, the
// compiled regex's match result equals expected.
func TestGitignoreRegexEquivalence(t *testing.T) {
	cases := []struct {
		pattern  string
		path     string
		isDir    bool
		expected bool
	}{
		{"*.log", "debug.log", false, true},
		{"*.log", "src/debug.log", false, true},
		{"*.log", "debug.logx", false, false},
		{"/build", "build", true, true},
		{"/build", "src/build", true, false},
		{"build/", "build", true, true},
		{"build/", "build/out.txt", false, true},
		{"build/", "rebuild", true, false},
		{"**/*.tmp", "a/b/c.tmp", false, true},
		{"**/*.tmp", "c.tmp", false, true},
		{"doc?.txt", "doc1.txt", false, true},
		{"doc?.txt", "doc12.txt", false, false},
		{"[abc].txt", "a.txt", false, true},
		{"[abc].txt", "d.txt", false, false},
		{"[!abc].txt", "d.txt", false, true},
		{"[!abc].txt", "a.txt", false, false},
	}

	for _, c := range cases {
		rule := compileGitignoreLine("", c.pattern)
		require.NotNil(t, rule, c.pattern)
		testPath := c.path
		if c.isDir {
			testPath += "/"
		}
		require.Equal(t, c.expected, rule.re.MatchString(testPath), "pattern=%q path=%q", c.pattern, c.path)
	}
}

func TestMatcherGlobalDefaultsExcludeDotAndVendorDirs(t *testing.T) {
	dir := t.TempDir()
	m := NewMatcher(dir)

	require.True(t, m.Match(".git", true))
	require.True(t, m.Match("node_modules", true))
	require.True(t, m.Match("vendor/pkg/file.go", false))
	require.False(t, m.Match("src/main.go", false))
}

func TestMatcherInheritsGitignoreAndNegation(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ".gitignore"), "*.tmp\n!keep.tmp\n")
	writeFile(t, filepath.Join(dir, "a.tmp"), "x")
	writeFile(t, filepath.Join(dir, "keep.tmp"), "x")

	m := NewMatcher(dir)
	require.True(t, m.Match("a.tmp", false))
	require.False(t, m.Match("keep.tmp", false))
}

// Property 10: any directory matching the inherited exclude pattern
// yields zero discovered files.
func TestWalkTraversalSafety(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "src", "main.go"), "package main")
	writeFile(t, filepath.Join(dir, "node_modules", "pkg", "index.js"), "x")
	writeFile(t, filepath.Join(dir, ".git", "HEAD"), "x")

	candidates, _, err := Walk(dir)
	require.NoError(t, err)

	for _, c := range candidates {
		require.NotContains(t, c.Path, "node_modules")
		require.NotContains(t, c.Path, string(filepath.Separator)+".git"+string(filepath.Separator))
	}
}

// S6: a directory containing .git, node_modules, and src yields
// discovered files only under src/.
func TestWalkScenarioS6(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "src", "main.go"), "package main")
	writeFile(t, filepath.Join(dir, "node_modules", "pkg", "index.js"), "x")
	writeFile(t, filepath.Join(dir, ".git", "HEAD"), "x")

	candidates, _, err := Walk(dir)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	require.Equal(t, filepath.Join(dir, "src", "main.go"), candidates[0].Path)
	require.Equal(t, "go", candidates[0].Language)
}

func TestClassifyExtension(t *testing.T) {
	lang, ok := ClassifyExtension("foo/bar.PY")
	require.True(t, ok)
	require.Equal(t, "python", lang)

	_, ok = ClassifyExtension("foo/bar.unknown")
	require.False(t, ok)
}

func TestWalkClassifiesShebangScript(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "run")
	writeFile(t, path, "#!/usr/bin/env python3\nprint('hi')\n")
	require.NoError(t, os.Chmod(path, 0755))

	candidates, _, err := Walk(dir)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	require.Equal(t, "python", candidates[0].Language)
}

func TestWalkIgnoresNonExecutableExtensionlessFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "README"), "not a script")

	candidates, _, err := Walk(dir)
	require.NoError(t, err)
	require.Empty(t, candidates)
}
