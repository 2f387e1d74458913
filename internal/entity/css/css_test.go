package css

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const sample = `.button {
  color: red;
}

@media (max-width: 600px) {
  .button { color: blue; }
}

@keyframes spin {
  from { transform: rotate(0deg); }
}
`

func TestExtractCSSTagsAtRules(t *testing.T) {
	e := New()
	records, err := e.Extract("sample.css", []byte(sample))
	require.NoError(t, err)

	types := map[string]int{}
	for _, r := range records[1:] {
		types[r.Type]++
	}
	require.Equal(t, 1, types["css-rule"])
	require.Equal(t, 1, types["css-media-query"])
	require.Equal(t, 1, types["css-keyframes"])
}
