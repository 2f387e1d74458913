// Package query parses fubbertool's user-facing query language - a
// superset of the FTS backend's own language - and rewrites it into the
// backend's native syntax by running every leaf atom through the
// Tokenizer, so a search query and the indexed source share one
// vocabulary.
//
// The grammar is hand-rolled recursive descent (precedence climbing for
// AND/OR/NOT, explicit parenthesized grouping), grounded on the position-
// tracked ParseError shape of oarkflow-sqlparser's hand-rolled
// recursive-descent parser.
package query

import "fubbertool/internal/tokenizer"

// Rewriter parses and rewrites queries against a shared Tokenizer, so
// query leaves are tokenized identically to indexed source.
type Rewriter struct {
	tok *tokenizer.Tokenizer
}

// New returns a Rewriter that tokenizes leaves with tok.
func New(tok *tokenizer.Tokenizer) *Rewriter {
	return &Rewriter{tok: tok}
}

// Rewrite parses query and returns the FTS-backend-native rewritten
// string. A malformed query returns a *ParseError naming the expected
// construct and its offset; the store is never consulted.
func (r *Rewriter) Rewrite(query string) (string, error) {
	node, err := parse(query)
	if err != nil {
		return "", err
	}
	return r.render(node)
}

// Parse exposes the parse tree directly, for callers (and tests) that
// need to inspect operator structure without rendering.
func Parse(query string) (*Node, error) {
	return parse(query)
}
