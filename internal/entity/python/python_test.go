package python

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const sample = `class Greeter:
    """Says hello."""

    def greet(self):
        return "hi"

    def _protected(self):
        pass

    def __private(self):
        pass


def standalone():
    return 1
`

func TestExtractPythonClassAndMethods(t *testing.T) {
	e := New()
	records, err := e.Extract("sample.py", []byte(sample))
	require.NoError(t, err)

	var class, methods, funcs int
	for _, r := range records[1:] {
		switch r.Type {
		case "class":
			class++
			require.Equal(t, "Greeter", r.Name)
		case "method":
			methods++
			require.Equal(t, "Greeter", r.Enclosing)
		case "function":
			funcs++
			require.Equal(t, "standalone", r.Name)
		}
	}
	require.Equal(t, 1, class)
	require.Equal(t, 3, methods)
	require.Equal(t, 1, funcs)
}

// A trailing newline is the normal case for real source files and must
// not inflate LineEnd past the file's actual last line.
func TestExtractPythonTrailingNewlineDoesNotInflateLineEnd(t *testing.T) {
	e := New()
	src := "class Foo:\n    def bar(self): pass\n"
	records, err := e.Extract("a.py", []byte(src))
	require.NoError(t, err)
	require.Len(t, records, 3)

	require.Equal(t, "file", records[0].Type)
	require.Equal(t, 1, records[0].LineStart)
	require.Equal(t, 2, records[0].LineEnd)

	require.Equal(t, "class", records[1].Type)
	require.Equal(t, 1, records[1].LineStart)
	require.Equal(t, 2, records[1].LineEnd)

	require.Equal(t, "method", records[2].Type)
	require.Equal(t, 2, records[2].LineStart)
	require.Equal(t, 2, records[2].LineEnd)
}

func TestPythonVisibilityNamingRule(t *testing.T) {
	require.Equal(t, "public", visibilityOf("greet"))
	require.Equal(t, "protected", visibilityOf("_protected"))
	require.Equal(t, "private", visibilityOf("__private"))
	require.Equal(t, "public", visibilityOf("__init__"))
}
