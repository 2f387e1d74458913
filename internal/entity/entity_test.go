package entity

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeExtractor struct {
	ext      string
	priority int
	err      error
}

func (f *fakeExtractor) Extract(filename string, content []byte) ([]Record, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []Record{{Type: "function", Name: "f", BodyRaw: string(content), LineStart: 1, LineEnd: 1}}, nil
}
func (f *fakeExtractor) SupportedExtensions() []string { return []string{f.ext} }
func (f *fakeExtractor) Language() string              { return "fake" }
func (f *fakeExtractor) Priority() int                 { return f.priority }

func TestRegistryRoutesByExtension(t *testing.T) {
	r := NewRegistry()
	r.Register(&fakeExtractor{ext: ".go", priority: 1})

	records, err := r.Extract("main.go", []byte("body"))
	require.NoError(t, err)
	require.Len(t, records, 1)

	require.Nil(t, r.For("main.py"))
}

func TestRegistryHigherPriorityWins(t *testing.T) {
	r := NewRegistry()
	r.Register(&fakeExtractor{ext: ".go", priority: 1})
	r.Register(&fakeExtractor{ext: ".go", priority: 5})
	r.Register(&fakeExtractor{ext: ".go", priority: 2})

	e := r.For("main.go")
	require.Equal(t, 5, e.Priority())
}

func TestExtractWrapsErrorWithFilename(t *testing.T) {
	r := NewRegistry()
	r.Register(&fakeExtractor{ext: ".go", err: errors.New("boom")})

	_, err := r.Extract("main.go", nil)
	require.Error(t, err)
	var extErr *ExtractionError
	require.ErrorAs(t, err, &extErr)
	require.Equal(t, "main.go", extErr.Filename)
}

func TestTruncateBodyLeavesLineEndUnchanged(t *testing.T) {
	r := Record{BodyRaw: strings.Repeat("a", 200_000), LineStart: 1, LineEnd: 500}
	r.TruncateBody()
	require.Len(t, r.BodyRaw, maxBodyBytes)
	require.Equal(t, 500, r.LineEnd)
}
