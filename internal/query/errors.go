package query

import "fmt"

// ParseError names the construct the parser expected and the byte offset
// in the original query string where parsing failed. It surfaces to the
// caller verbatim; the store is never consulted while a query fails to
// parse (spec.md §4.2 failure mode).
type ParseError struct {
	Query    string
	Offset   int
	Expected string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("query parse error at offset %d: expected %s in %q", e.Offset, e.Expected, e.Query)
}
