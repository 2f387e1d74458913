package markdown

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const sample = `intro text

# First Heading
body one
more body

# Second Heading
body two
`

func TestExtractMarkdownHeadings(t *testing.T) {
	e := New()
	records, err := e.Extract("sample.md", []byte(sample))
	require.NoError(t, err)
	require.Len(t, records, 3) // file + 2 headings

	require.Equal(t, "First Heading", records[1].Name)
	require.Equal(t, "Second Heading", records[2].Name)
	require.True(t, records[1].LineEnd < records[2].LineStart)
}
