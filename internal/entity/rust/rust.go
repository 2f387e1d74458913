// Package rust extracts EntityRecords from Rust source using
// go-tree-sitter, grounded on the teacher's RustCodeParser.walkNode
// (internal/world/rust_parser.go) - spec.md §4.6 pins no specific
// technique for "tree-like languages" beyond the type-then-methods
// shape, so the teacher's tree-sitter approach is reused rather than
// hand-writing a Rust brace-matcher.
package rust

import (
	"context"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/rust"

	"fubbertool/internal/entity"
)

// Extractor implements entity.Extractor for Rust.
type Extractor struct {
	parser *sitter.Parser
}

func New() *Extractor {
	p := sitter.NewParser()
	p.SetLanguage(rust.GetLanguage())
	return &Extractor{parser: p}
}

func (e *Extractor) Language() string              { return "rust" }
func (e *Extractor) SupportedExtensions() []string  { return []string{".rs"} }
func (e *Extractor) Priority() int                  { return 0 }

func (e *Extractor) Extract(filename string, content []byte) ([]entity.Record, error) {
	lines := entity.SplitLines(content)
	records := []entity.Record{entity.FileRecord(len(lines))}

	tree, err := e.parser.ParseCtx(context.Background(), nil, content)
	if err != nil {
		return records, nil
	}
	defer tree.Close()

	typeRefs := make(map[string]bool)
	walk(tree.RootNode(), "", content, lines, &records, typeRefs)
	return records, nil
}

func walk(node *sitter.Node, enclosing string, content []byte, lines []string, records *[]entity.Record, typeRefs map[string]bool) {
	getText := func(n *sitter.Node) string { return string(content[n.StartByte():n.EndByte()]) }

	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		switch child.Type() {
		case "struct_item", "enum_item", "trait_item":
			name := fieldName(child, "name", getText)
			if name == "" {
				continue
			}
			typeRefs[name] = true
			*records = append(*records, typeRecord(child, name, lines))

		case "impl_item":
			typeName := fieldName(child, "type", getText)
			body := child.ChildByFieldName("body")
			if body != nil {
				walk(body, typeName, content, lines, records, typeRefs)
			}

		case "function_item":
			name := fieldName(child, "name", getText)
			if name == "" {
				continue
			}
			*records = append(*records, funcRecord(child, name, enclosing, lines))

		case "mod_item":
			body := child.ChildByFieldName("body")
			if body != nil {
				walk(body, "", content, lines, records, typeRefs)
			}

		default:
			walk(child, enclosing, content, lines, records, typeRefs)
		}
	}
}

func fieldName(n *sitter.Node, field string, getText func(*sitter.Node) string) string {
	f := n.ChildByFieldName(field)
	if f == nil {
		return ""
	}
	return getText(f)
}

func typeRecord(n *sitter.Node, name string, lines []string) entity.Record {
	start := int(n.StartPoint().Row) + 1
	end := int(n.EndPoint().Row) + 1
	typ := "class"
	switch n.Type() {
	case "trait_item":
		typ = "interface"
	case "enum_item":
		typ = "enum"
	}
	return entity.Record{
		Type:         typ,
		Name:         name,
		SignatureRaw: signatureLine(lines, start),
		LineStart:    start,
		LineEnd:      end,
	}
}

func funcRecord(n *sitter.Node, name, enclosing string, lines []string) entity.Record {
	start := int(n.StartPoint().Row) + 1
	end := int(n.EndPoint().Row) + 1
	typ := "function"
	if enclosing != "" {
		typ = "method"
	}
	return entity.Record{
		Type:         typ,
		Name:         name,
		Enclosing:    enclosing,
		SignatureRaw: signatureLine(lines, start),
		LineStart:    start,
		LineEnd:      end,
	}
}

func signatureLine(lines []string, line int) string {
	if line < 1 || line > len(lines) {
		return ""
	}
	return strings.TrimSpace(lines[line-1])
}
