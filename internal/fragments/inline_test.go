package fragments_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stellate-proxy/splitcache/internal/arena"
	"github.com/stellate-proxy/splitcache/internal/ast"
	"github.com/stellate-proxy/splitcache/internal/fragments"
	"github.com/stellate-proxy/splitcache/internal/parser"
	"github.com/stellate-proxy/splitcache/internal/printer"
)

func parse(t *testing.T, src string) *ast.Document {
	t.Helper()
	doc, err := parser.Parse(arena.New(), src)
	require.NoError(t, err)
	return doc
}

func TestInlineSimpleSpread(t *testing.T) {
	doc := parse(t, `
		query { ...World }
		fragment World on Query { hello }
	`)

	out, err := fragments.Inline(doc)
	require.NoError(t, err)
	require.Len(t, out.Definitions, 1)

	printed := printer.Print(out)
	assert.Contains(t, printed, "... on Query")
	assert.Contains(t, printed, "hello")
}

func TestInlineIsRecursive(t *testing.T) {
	doc := parse(t, `
		query { ...World }
		fragment World on Query { hello ...Again }
		fragment Again on Query { goodbye }
	`)

	out, err := fragments.Inline(doc)
	require.NoError(t, err)

	printed := printer.Print(out)
	assert.Contains(t, printed, "hello")
	assert.Contains(t, printed, "goodbye")
	// The nested spread must itself have been inlined, not left as a spread.
	assert.NotContains(t, printed, "...Again")
}

func TestInlineUnknownFragment(t *testing.T) {
	doc := parse(t, `query { ...Missing }`)

	_, err := fragments.Inline(doc)
	require.Error(t, err)
	var unknown *fragments.UnknownFragmentError
	assert.ErrorAs(t, err, &unknown)
}

func TestInlineCyclicFragment(t *testing.T) {
	doc := parse(t, `
		query { ...A }
		fragment A on Query { ...B }
		fragment B on Query { ...A }
	`)

	_, err := fragments.Inline(doc)
	require.Error(t, err)
	var cyclic *fragments.CyclicFragmentError
	assert.ErrorAs(t, err, &cyclic)
}

func TestInlineDropsFragmentDefinitions(t *testing.T) {
	doc := parse(t, `
		query { ...World }
		fragment World on Query { hello }
	`)

	out, err := fragments.Inline(doc)
	require.NoError(t, err)
	for _, def := range out.Definitions {
		assert.Equal(t, 0, int(def.Kind)) // DefinitionOperation == 0
	}
}
