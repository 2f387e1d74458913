// Package script extracts a single "script" EntityRecord from an
// executable, non-binary file starting with a shebang line - the
// extractor discovery.Walk's shebang sniffing feeds into, per spec.md
// §4.6.
package script

import (
	"bytes"
	"strings"

	"fubbertool/internal/entity"
)

// Extractor implements entity.Extractor for extension-less shebang
// scripts. It declares no SupportedExtensions since discovery.Walk
// routes these files by interpreter sniffing, not extension; the
// registry dispatch for this extractor is driven directly by the
// Indexer rather than entity.Registry.For.
type Extractor struct{}

func New() *Extractor { return &Extractor{} }
func (e *Extractor) Language() string              { return "script" }
func (e *Extractor) SupportedExtensions() []string  { return nil }
func (e *Extractor) Priority() int                  { return 0 }

// Extract emits one "script" record spanning the whole file when content
// is executable-shaped: starts with "#!" and contains no NUL byte in its
// first 8 KiB (the binary-file heuristic spec.md §4.6 names).
func (e *Extractor) Extract(filename string, content []byte) ([]entity.Record, error) {
	lines := entity.SplitLines(content)
	records := []entity.Record{entity.FileRecord(len(lines))}

	if !strings.HasPrefix(string(content), "#!") {
		return records, nil
	}
	head := content
	if len(head) > 8192 {
		head = head[:8192]
	}
	if bytes.IndexByte(head, 0) >= 0 {
		return records, nil
	}

	shebang := lines[0]
	records = append(records, entity.Record{
		Type:         "script",
		Name:         filename,
		SignatureRaw: shebang,
		BodyRaw:      string(content),
		LineStart:    1,
		LineEnd:      len(lines),
	})
	return records, nil
}
