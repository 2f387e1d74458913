// Package css extracts EntityRecords from CSS source: one record per
// selector-block pair, per spec.md §4.6.
package css

import (
	"strings"

	"fubbertool/internal/entity"
)

// Extractor implements entity.Extractor for CSS.
type Extractor struct{}

func New() *Extractor { return &Extractor{} }
func (e *Extractor) Language() string { return "css" }
func (e *Extractor) SupportedExtensions() []string {
	return []string{".css", ".scss", ".sass", ".less"}
}
func (e *Extractor) Priority() int { return 0 }

// Extract walks content brace by brace, treating each top-level
// selector-to-'}' span as one record; blocks nested inside a rule or
// at-rule are part of that span and get no record of their own.
func (e *Extractor) Extract(filename string, content []byte) ([]entity.Record, error) {
	text := string(content)
	lines := entity.SplitLines(content)
	records := []entity.Record{entity.FileRecord(len(lines))}

	offsets := make([]int, len(lines))
	pos := 0
	for i, l := range lines {
		offsets[i] = pos
		pos += len(l) + 1
	}
	lineAt := func(p int) int {
		for i := len(offsets) - 1; i >= 0; i-- {
			if offsets[i] <= p {
				return i + 1
			}
		}
		return 1
	}

	i := 0
	for i < len(text) {
		open := strings.IndexByte(text[i:], '{')
		if open < 0 {
			break
		}
		open += i
		selector := strings.TrimSpace(text[i:open])
		close := matchBrace(text, open)
		if close < 0 {
			close = len(text) - 1
		}
		if selector != "" {
			records = append(records, entity.Record{
				Type:         selectorType(selector),
				Name:         selector,
				SignatureRaw: selector,
				BodyRaw:      text[open : close+1],
				LineStart:    lineAt(open),
				LineEnd:      lineAt(close),
			})
		}
		i = close + 1
	}
	return records, nil
}

func selectorType(selector string) string {
	switch {
	case strings.HasPrefix(selector, "@media"):
		return "css-media-query"
	case strings.HasPrefix(selector, "@keyframes"):
		return "css-keyframes"
	case strings.HasPrefix(selector, "@"):
		return "css-at-rule"
	default:
		return "css-rule"
	}
}

func matchBrace(text string, openOffset int) int {
	depth := 0
	for i := openOffset; i < len(text); i++ {
		switch text[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}
