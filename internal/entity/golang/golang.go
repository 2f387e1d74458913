// Package golang extracts EntityRecords from Go source using the
// standard go/parser and go/ast packages - the one extractor spec.md
// §4.6 explicitly permits to use a language's own mature AST library
// rather than a hand-rolled scanner, since Go ships one. Grounded on the
// teacher's GoCodeParser (internal/world/go_parser.go), generalized from
// CodeElement/Mangle-fact emission to the plain Record contract.
package golang

import (
	"go/ast"
	"go/parser"
	"go/token"
	"strings"

	"fubbertool/internal/entity"
)

// Extractor implements entity.Extractor for Go.
type Extractor struct{}

// New returns a Go Extractor.
func New() *Extractor { return &Extractor{} }

func (e *Extractor) Language() string            { return "go" }
func (e *Extractor) SupportedExtensions() []string { return []string{".go"} }
func (e *Extractor) Priority() int                 { return 10 }

// Extract parses content as Go source and emits one record per type
// declaration, one per free function, and one per method (with
// Enclosing set to its receiver's type name), plus the mandatory file
// record.
func (e *Extractor) Extract(filename string, content []byte) ([]entity.Record, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, filename, content, parser.ParseComments)
	records := []entity.Record{entity.FileRecord(entity.CountLines(content))}
	if err != nil {
		// A file that fails to parse still yields the file-level record;
		// the parse error is dropped, so it never reaches the caller.
		return records, nil
	}

	pkgName := file.Name.Name
	position := func(p token.Pos) token.Position { return fset.Position(p) }

	for _, decl := range file.Decls {
		switch d := decl.(type) {
		case *ast.FuncDecl:
			records = append(records, funcRecord(d, pkgName, position, content))
		case *ast.GenDecl:
			if d.Tok == token.TYPE {
				records = append(records, typeRecords(d, pkgName, position)...)
			}
		}
	}
	return records, nil
}

func funcRecord(d *ast.FuncDecl, pkgName string, position func(token.Pos) token.Position, content []byte) entity.Record {
	start := position(d.Pos())
	end := position(d.End())

	r := entity.Record{
		Name:         d.Name.Name,
		Namespace:    pkgName,
		SignatureRaw: collapseWhitespace(signatureText(d, content)),
		PreambleRaw:  commentText(d.Doc),
		BodyRaw:      bodyText(d, content),
		LineStart:    start.Line,
		LineEnd:      end.Line,
		Visibility:   visibilityOf(d.Name.Name),
	}
	if d.Recv != nil && len(d.Recv.List) > 0 {
		r.Type = "method"
		r.Enclosing = receiverTypeName(d.Recv.List[0].Type)
	} else {
		r.Type = "function"
	}
	return r
}

func typeRecords(d *ast.GenDecl, pkgName string, position func(token.Pos) token.Position) []entity.Record {
	var out []entity.Record
	for _, spec := range d.Specs {
		ts, ok := spec.(*ast.TypeSpec)
		if !ok {
			continue
		}
		start := position(d.Pos())
		end := position(ts.End())
		typ := "class"
		switch ts.Type.(type) {
		case *ast.InterfaceType:
			typ = "interface"
		}
		out = append(out, entity.Record{
			Type:         typ,
			Name:         ts.Name.Name,
			Namespace:    pkgName,
			SignatureRaw: collapseWhitespace("type " + ts.Name.Name),
			PreambleRaw:  commentText(d.Doc),
			LineStart:    start.Line,
			LineEnd:      end.Line,
			Visibility:   visibilityOf(ts.Name.Name),
		})
	}
	return out
}

func receiverTypeName(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.StarExpr:
		return receiverTypeName(t.X)
	case *ast.Ident:
		return t.Name
	default:
		return ""
	}
}

func commentText(g *ast.CommentGroup) string {
	if g == nil {
		return ""
	}
	return collapseWhitespace(g.Text())
}

func signatureText(d *ast.FuncDecl, content []byte) string {
	if d.Body == nil {
		return string(content[d.Pos()-1 : d.End()-1])
	}
	return string(content[d.Pos()-1 : d.Body.Pos()-1])
}

func bodyText(d *ast.FuncDecl, content []byte) string {
	if d.Body == nil {
		return ""
	}
	return string(content[d.Body.Pos()-1 : d.Body.End()-1])
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// visibilityOf follows Go's own exported/unexported naming rule.
func visibilityOf(name string) string {
	if name == "" {
		return "public"
	}
	r := []rune(name)[0]
	if r >= 'A' && r <= 'Z' {
		return "public"
	}
	return "private"
}
