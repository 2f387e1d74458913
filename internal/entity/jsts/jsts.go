// Package jsts extracts EntityRecords from JavaScript/TypeScript source
// via a hybrid scan: regex signature detection followed by a manual
// brace matcher, per spec.md §4.6's explicit redesign away from the
// teacher's tree-sitter-based typescript_parser.go.
package jsts

import (
	"regexp"
	"strings"

	"fubbertool/internal/entity"
)

// Extractor implements entity.Extractor for JavaScript/TypeScript.
type Extractor struct{}

func New() *Extractor { return &Extractor{} }
func (e *Extractor) Language() string { return "javascript" }
func (e *Extractor) SupportedExtensions() []string {
	return []string{".js", ".jsx", ".ts", ".tsx", ".mjs", ".cjs"}
}
func (e *Extractor) Priority() int { return 0 }

var (
	classRe = regexp.MustCompile(`^\s*(?:export\s+)?(?:default\s+)?class\s+([A-Za-z_$][A-Za-z0-9_$]*)`)
	funcRe  = regexp.MustCompile(`^\s*(?:export\s+)?(?:default\s+)?(?:async\s+)?function\s*\*?\s*([A-Za-z_$][A-Za-z0-9_$]*)?`)
	arrowRe = regexp.MustCompile(`^\s*(?:export\s+)?(const|let|var)\s+([A-Za-z_$][A-Za-z0-9_$]*)\s*(?::[^=]+)?=\s*(?:async\s*)?\(?[^=]*\)?\s*=>`)
)

// Extract scans content line by line for class/function/arrow signature
// openings, then walks braces from each opening to find the body's
// extent, honoring comments and quoted strings.
func (e *Extractor) Extract(filename string, content []byte) ([]entity.Record, error) {
	text := string(content)
	lines := entity.SplitLines(content)
	records := []entity.Record{entity.FileRecord(len(lines))}

	offsets := lineOffsets(lines)

	var enclosingStack []string
	var enclosingEndOffset []int

	for i, line := range lines {
		lineStartOffset := offsets[i]
		for len(enclosingStack) > 0 && lineStartOffset >= enclosingEndOffset[len(enclosingEndOffset)-1] {
			enclosingStack = enclosingStack[:len(enclosingStack)-1]
			enclosingEndOffset = enclosingEndOffset[:len(enclosingEndOffset)-1]
		}

		var name, typ string
		if m := classRe.FindStringSubmatch(line); m != nil {
			name, typ = m[1], "class"
		} else if m := funcRe.FindStringSubmatch(line); m != nil && m[1] != "" {
			name, typ = m[1], "function"
		} else if m := arrowRe.FindStringSubmatch(line); m != nil {
			name, typ = m[2], "arrow-function"
		} else {
			continue
		}

		openBrace := strings.IndexByte(text[lineStartOffset:], '{')
		if openBrace < 0 {
			continue
		}
		openOffset := lineStartOffset + openBrace
		closeOffset := matchBrace(text, openOffset)
		if closeOffset < 0 {
			closeOffset = len(text) - 1
		}
		endLine := lineNumberAt(offsets, closeOffset)

		enclosing := ""
		if typ == "function" && len(enclosingStack) > 0 {
			typ = "method"
			enclosing = enclosingStack[len(enclosingStack)-1]
		}

		records = append(records, entity.Record{
			Type:         typ,
			Name:         name,
			Enclosing:    enclosing,
			SignatureRaw: strings.TrimSpace(line),
			BodyRaw:      text[lineStartOffset : closeOffset+1],
			LineStart:    i + 1,
			LineEnd:      endLine,
		})

		if typ == "class" {
			enclosingStack = append(enclosingStack, name)
			enclosingEndOffset = append(enclosingEndOffset, closeOffset)
		}
	}
	return records, nil
}

func lineOffsets(lines []string) []int {
	offsets := make([]int, len(lines))
	pos := 0
	for i, l := range lines {
		offsets[i] = pos
		pos += len(l) + 1
	}
	return offsets
}

func lineNumberAt(offsets []int, pos int) int {
	for i := len(offsets) - 1; i >= 0; i-- {
		if offsets[i] <= pos {
			return i + 1
		}
	}
	return 1
}

// matchBrace returns the index of the '{' at openOffset's matching '}',
// honoring line comments, block comments, and quoted strings with
// backslash escapes, or -1 if unmatched.
func matchBrace(text string, openOffset int) int {
	depth := 0
	i := openOffset
	for i < len(text) {
		c := text[i]
		switch {
		case c == '/' && i+1 < len(text) && text[i+1] == '/':
			for i < len(text) && text[i] != '\n' {
				i++
			}
			continue
		case c == '/' && i+1 < len(text) && text[i+1] == '*':
			i += 2
			for i+1 < len(text) && !(text[i] == '*' && text[i+1] == '/') {
				i++
			}
			i += 2
			continue
		case c == '"' || c == '\'' || c == '`':
			quote := c
			i++
			for i < len(text) && text[i] != quote {
				if text[i] == '\\' {
					i++
				}
				i++
			}
			i++
			continue
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				return i
			}
		}
		i++
	}
	return -1
}
