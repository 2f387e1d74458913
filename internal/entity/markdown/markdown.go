// Package markdown extracts EntityRecords from Markdown source: one
// file record plus one md-heading-1 per "# " heading, body spanning
// until the next "# ", per spec.md §4.6.
package markdown

import (
	"strings"

	"fubbertool/internal/entity"
)

// Extractor implements entity.Extractor for Markdown.
type Extractor struct{}

func New() *Extractor { return &Extractor{} }
func (e *Extractor) Language() string { return "markdown" }
func (e *Extractor) SupportedExtensions() []string {
	return []string{".md", ".markdown"}
}
func (e *Extractor) Priority() int { return 0 }

func (e *Extractor) Extract(filename string, content []byte) ([]entity.Record, error) {
	lines := entity.SplitLines(content)
	records := []entity.Record{entity.FileRecord(len(lines))}

	var headingStart int = -1
	var headingName string
	flush := func(endLine int) {
		if headingStart < 0 {
			return
		}
		records = append(records, entity.Record{
			Type:         "md-heading-1",
			Name:         headingName,
			SignatureRaw: "# " + headingName,
			BodyRaw:      strings.Join(lines[headingStart-1:endLine], "\n"),
			LineStart:    headingStart,
			LineEnd:      endLine,
		})
	}

	for i, line := range lines {
		if strings.HasPrefix(line, "# ") {
			flush(i)
			headingStart = i + 1
			headingName = strings.TrimSpace(strings.TrimPrefix(line, "# "))
		}
	}
	flush(len(lines))
	return records, nil
}
