package jsts

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const sample = `export class Widget {
}

function render() {
  return 1;
}

const onClick = () => {
  console.log("clicked");
};
`

func TestExtractJSClassFunctionArrow(t *testing.T) {
	e := New()
	records, err := e.Extract("sample.js", []byte(sample))
	require.NoError(t, err)

	types := map[string]string{}
	for _, r := range records[1:] {
		types[r.Type] = r.Name
	}
	require.Equal(t, "Widget", types["class"])
	require.Equal(t, "render", types["function"])
	require.Equal(t, "onClick", types["arrow-function"])
}
