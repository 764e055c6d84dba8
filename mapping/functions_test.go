package mapping

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupKnownFunctions(t *testing.T) {
	names := []string{"abs", "coalesce", "concatenate", "length", "random", "to-lower", "to-upper", "type-of"}
	for _, name := range names {
		_, ok := Lookup(name)
		assert.Truef(t, ok, "expected %q to be a known function", name)
	}
}

func TestLookupUnknownFunction(t *testing.T) {
	_, ok := Lookup("frobnicate")
	assert.False(t, ok)
}

func TestRenderPlainCall(t *testing.T) {
	entry, ok := Lookup("to-lower")
	require.True(t, ok)
	assert.Equal(t, "lower(x)", entry.Render([]string{"x"}))
}

func TestRenderConcatenateEmpty(t *testing.T) {
	entry, ok := Lookup("concatenate")
	require.True(t, ok)
	assert.Equal(t, "''", entry.Render(nil))
}

func TestRenderConcatenateMultipleArgs(t *testing.T) {
	entry, ok := Lookup("concatenate")
	require.True(t, ok)
	assert.Equal(t, "((a) || (b) || (c))", entry.Render([]string{"a", "b", "c"}))
}
