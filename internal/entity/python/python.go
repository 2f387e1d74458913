// Package python extracts EntityRecords from Python source via
// indentation-driven block detection, per spec.md §4.6's explicit
// redesign away from the teacher's tree-sitter-based python_parser.go
// (spec.md §9's open question resolves this in favor of the hand-rolled
// approach); the per-parser shape (Extract(filename, content)) still
// mirrors the teacher's CodeParser contract.
package python

import (
	"regexp"
	"strings"

	"fubbertool/internal/entity"
)

// Extractor implements entity.Extractor for Python.
type Extractor struct{}

func New() *Extractor                            { return &Extractor{} }
func (e *Extractor) Language() string             { return "python" }
func (e *Extractor) SupportedExtensions() []string { return []string{".py"} }
func (e *Extractor) Priority() int                 { return 0 }

var defClassRe = regexp.MustCompile(`^(\s*)(class|def)\s+([A-Za-z_][A-Za-z0-9_]*)`)

// Extract scans content line by line, tracking indentation to find the
// extent of each class/def block.
func (e *Extractor) Extract(filename string, content []byte) ([]entity.Record, error) {
	lines := entity.SplitLines(content)
	records := []entity.Record{entity.FileRecord(len(lines))}

	// stack tracks open class blocks by their indentation level, so a
	// def nested one level inside a class block gets Enclosing set.
	type openBlock struct {
		indent int
		name   string
		isFunc bool
	}
	var stack []openBlock

	for i := 0; i < len(lines); i++ {
		m := defClassRe.FindStringSubmatch(lines[i])
		if m == nil {
			continue
		}
		indent := len(m[1])
		kind := m[2]
		name := m[3]

		for len(stack) > 0 && stack[len(stack)-1].indent >= indent {
			stack = stack[:len(stack)-1]
		}

		end := blockEnd(lines, i, indent)
		preamble := precedingPreamble(lines, i)
		typ := "function"
		enclosing := ""
		if kind == "class" {
			typ = "class"
		} else if len(stack) > 0 {
			typ = "method"
			enclosing = stack[len(stack)-1].name
		}

		records = append(records, entity.Record{
			Type:         typ,
			Name:         name,
			PreambleRaw:  preamble,
			SignatureRaw: strings.TrimSpace(lines[i]),
			BodyRaw:      strings.Join(lines[i:end], "\n"),
			LineStart:    i + 1,
			LineEnd:      end,
			Visibility:   visibilityOf(name),
		})
		if enclosing != "" {
			records[len(records)-1].Enclosing = enclosing
		}

		if kind == "class" {
			stack = append(stack, openBlock{indent: indent, name: name})
		}
	}
	return records, nil
}

// blockEnd returns the 1-indexed inclusive line where the block starting
// at lines[start] (indented by indent) ends: the line before the next
// non-blank line indented at or less than indent, or EOF.
func blockEnd(lines []string, start, indent int) int {
	for i := start + 1; i < len(lines); i++ {
		trimmed := strings.TrimRight(lines[i], " \t\r")
		if trimmed == "" {
			continue
		}
		lineIndent := len(lines[i]) - len(strings.TrimLeft(lines[i], " \t"))
		if lineIndent <= indent {
			return i
		}
	}
	return len(lines)
}

// precedingPreamble collects the contiguous run of decorator and comment
// lines immediately above def, stopping at the first blank line.
func precedingPreamble(lines []string, defLine int) string {
	var collected []string
	for i := defLine - 1; i >= 0; i-- {
		trimmed := strings.TrimSpace(lines[i])
		if trimmed == "" {
			break
		}
		if strings.HasPrefix(trimmed, "@") || strings.HasPrefix(trimmed, "#") {
			collected = append([]string{trimmed}, collected...)
			continue
		}
		break
	}
	return strings.Join(collected, "\n")
}

// visibilityOf follows spec.md §4.6's naming rule: __x (non-dunder) is
// private, _x is protected, else public.
func visibilityOf(name string) string {
	switch {
	case strings.HasPrefix(name, "__") && strings.HasSuffix(name, "__"):
		return "public" // dunder, e.g. __init__
	case strings.HasPrefix(name, "__"):
		return "private"
	case strings.HasPrefix(name, "_"):
		return "protected"
	default:
		return "public"
	}
}
