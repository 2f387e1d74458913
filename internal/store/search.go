package store

import (
	"fmt"
	"path/filepath"
	"strings"

	"fubbertool/internal/tokenizer"
)

// SearchResult is one hit, shaped to the output contract of spec.md
// §4.4 ("project_relative_path, line_start, line_end, type, namespace,
// enclosing, name, snippet_detokenized"). code_entities carries no
// separate name/enclosing columns (see spec.md §4.4's exact column
// list), so both are derived here: name from the first whitespace-
// delimited run of signature_raw, enclosing from namespace when type is
// "method". namespace holds the package name for Go records and is empty
// for the other extractors, so Enclosing does not name a method's
// receiver or class; that name is not stored.
type SearchResult struct {
	ProjectRelativePath string
	LineStart           int
	LineEnd             int
	Type                string
	Namespace           string
	Enclosing           string
	Name                string
	SnippetDetokenized  string
	Rank                float64
}

// Search runs rewrittenQuery (already passed through query.Rewriter)
// against code_index, joins back to code_entities, and returns results
// ordered by the FTS engine's own relevance rank - no ranking beyond
// what the backend supplies, per spec.md §1's non-goals. projectRoot is
// used only to turn each hit's absolute filename into a display-relative
// path; code_entities.path is the tokenized form and unsuitable for
// display (see the data model's "tokenized versions of ... path" note).
func (s *Store) Search(rewrittenQuery, projectRoot string, limit int) ([]SearchResult, error) {
	if limit <= 0 {
		limit = 50
	}
	stmt, err := s.prepare(`
		SELECT e.filename, e.line_start, e.line_end, e.type, e.namespace, e.signature_raw, e.body, bm25(code_index) AS rank
		FROM code_index
		JOIN code_entities e ON e.id = code_index.rowid
		WHERE code_index MATCH ?
		ORDER BY rank
		LIMIT ?
	`)
	if err != nil {
		return nil, err
	}

	rows, err := stmt.Query(rewrittenQuery, limit)
	if err != nil {
		return nil, fmt.Errorf("search query: %w", err)
	}
	defer rows.Close()

	var out []SearchResult
	for rows.Next() {
		var r SearchResult
		var filename, signatureRaw, body string
		if err := rows.Scan(&filename, &r.LineStart, &r.LineEnd, &r.Type, &r.Namespace, &signatureRaw, &body, &r.Rank); err != nil {
			return nil, fmt.Errorf("scan search result: %w", err)
		}
		if rel, relErr := filepath.Rel(projectRoot, filename); relErr == nil {
			r.ProjectRelativePath = rel
		} else {
			r.ProjectRelativePath = filename
		}
		r.Name = firstIdentifier(signatureRaw)
		if r.Type == "method" {
			r.Enclosing = r.Namespace
		}
		r.SnippetDetokenized = tokenizer.Detokenize(snippet(body))
		out = append(out, r)
	}
	return out, rows.Err()
}

const snippetMaxLines = 6

func snippet(body string) string {
	lines := strings.Split(body, "\n")
	if len(lines) > snippetMaxLines {
		lines = lines[:snippetMaxLines]
	}
	return strings.Join(lines, "\n")
}

func firstIdentifier(signatureRaw string) string {
	fields := strings.Fields(signatureRaw)
	for _, f := range fields {
		f = strings.TrimFunc(f, func(r rune) bool {
			return !(r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9'))
		})
		if f != "" {
			return f
		}
	}
	return ""
}
