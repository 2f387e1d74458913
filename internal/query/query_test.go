package query

import (
	"testing"

	"github.com/stretchr/testify/require"

	"fubbertool/internal/tokenizer"
)

func newRewriter() *Rewriter {
	return New(tokenizer.New(false))
}

// S2: column-filtered leaf expands without phrase quoting.
func TestRewriteColumnFilterExpandsCamelCase(t *testing.T) {
	r := newRewriter()
	out, err := r.Rewrite("signature:getUserById")
	require.NoError(t, err)
	require.Equal(t, "signature:get + User + By + Id", out)
}

// S3: a phrase's interior tokenizes as one unit and is rewrapped.
func TestRewritePhraseWrapsJoinedTokens(t *testing.T) {
	r := newRewriter()
	out, err := r.Rewrite(`"class User"`)
	require.NoError(t, err)
	require.Equal(t, `"class + User"`, out)
}

func TestRewriteImplicitAnd(t *testing.T) {
	r := newRewriter()
	out, err := r.Rewrite("foo bar")
	require.NoError(t, err)
	require.Equal(t, "foo bar", out)
}

func TestRewriteExplicitOperators(t *testing.T) {
	r := newRewriter()
	out, err := r.Rewrite("foo AND bar OR NOT baz")
	require.NoError(t, err)
	require.Equal(t, "foo AND bar OR NOT baz", out)
}

func TestRewriteGroupingPreservesPrecedence(t *testing.T) {
	r := newRewriter()
	tree, err := Parse("foo AND (bar OR baz)")
	require.NoError(t, err)
	require.Equal(t, KindAnd, tree.Kind)
	require.Equal(t, KindOr, tree.Children[1].Kind)

	out, err := r.Rewrite("foo AND (bar OR baz)")
	require.NoError(t, err)
	require.Equal(t, "foo AND (bar OR baz)", out)
}

func TestRewritePrefixMatch(t *testing.T) {
	r := newRewriter()
	out, err := r.Rewrite("fetch*")
	require.NoError(t, err)
	require.Equal(t, "fetch*", out)
}

func TestRewriteAnchor(t *testing.T) {
	r := newRewriter()
	out, err := r.Rewrite("^prefix")
	require.NoError(t, err)
	require.Equal(t, "^prefix", out)
}

func TestRewriteColumnWithAnchor(t *testing.T) {
	r := newRewriter()
	out, err := r.Rewrite("path:^src")
	require.NoError(t, err)
	require.Equal(t, "path:^src", out)
}

func TestRewriteProximityUnary(t *testing.T) {
	r := newRewriter()
	out, err := r.Rewrite("+exact")
	require.NoError(t, err)
	require.Equal(t, "+exact", out)
}

func TestRewriteNearWithDistance(t *testing.T) {
	r := newRewriter()
	out, err := r.Rewrite("NEAR(foo bar, 3)")
	require.NoError(t, err)
	require.Equal(t, "NEAR(foo bar, 3)", out)
}

func TestRewriteNearWithoutDistance(t *testing.T) {
	r := newRewriter()
	out, err := r.Rewrite("NEAR(foo bar)")
	require.NoError(t, err)
	require.Equal(t, "NEAR(foo bar)", out)
}

func TestRewriteUnknownColumnIsOrdinaryTerm(t *testing.T) {
	r := newRewriter()
	out, err := r.Rewrite("weird:term")
	require.NoError(t, err)
	// "weird" is not one of the fixed column names, so ':' is just
	// another non-word character and gets hex-encoded by the Tokenizer.
	require.Equal(t, "weird + T3aK + term", out)
}

func TestRewriteMalformedQueryUnclosedParen(t *testing.T) {
	r := newRewriter()
	_, err := r.Rewrite("(foo AND bar")
	require.Error(t, err)
	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	require.Equal(t, "')'", parseErr.Expected)
}

func TestRewriteMalformedQueryUnclosedPhrase(t *testing.T) {
	r := newRewriter()
	_, err := r.Rewrite(`"unterminated`)
	require.Error(t, err)
	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
}

func TestRewriteEmptyQueryIsError(t *testing.T) {
	r := newRewriter()
	_, err := r.Rewrite("   ")
	require.Error(t, err)
}

// Property 9: the rewritten query's operator tree, ignoring leaf
// contents, equals the original parse tree's operator shape.
func TestRewriteOperatorTreePreservation(t *testing.T) {
	queries := []string{
		"foo AND bar",
		"foo OR bar AND baz",
		"NOT foo OR bar",
		"(foo OR bar) AND baz",
		`"a phrase" AND other`,
		"NEAR(a b, 2) OR c",
		"signature:getUserById AND path:^src",
	}
	r := newRewriter()
	for _, q := range queries {
		original, err := Parse(q)
		require.NoError(t, err, q)

		rewritten, err := r.Rewrite(q)
		require.NoError(t, err, q)

		reparsed, err := Parse(rewritten)
		require.NoError(t, err, "rewritten query %q failed to reparse", rewritten)

		require.Equal(t, original.shape(), reparsed.shape(), "query: %s rewritten: %s", q, rewritten)
	}
}
