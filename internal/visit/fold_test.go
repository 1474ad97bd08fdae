package visit_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stellate-proxy/splitcache/internal/arena"
	"github.com/stellate-proxy/splitcache/internal/ast"
	"github.com/stellate-proxy/splitcache/internal/parser"
	"github.com/stellate-proxy/splitcache/internal/printer"
	"github.com/stellate-proxy/splitcache/internal/visit"
)

type recordingFolder struct {
	visit.BaseFolder
	paths []string
}

func (r *recordingFolder) FoldSelectionSet(info visit.VisitInfo, s *ast.SelectionSet) (*ast.SelectionSet, error) {
	r.paths = append(r.paths, info.Path.String())
	return s, nil
}

func TestFoldDocumentSelectionSetPaths(t *testing.T) {
	doc, err := parser.Parse(arena.New(), `
		query {
			node(id: 42) {
				id
				... on Todo {
					text
					authors { name }
				}
			}
		}
	`)
	require.NoError(t, err)

	f := &recordingFolder{}
	_, err = visit.FoldDocument(doc, f)
	require.NoError(t, err)

	assert.Contains(t, f.paths, "[0].selectionSet")
	assert.Contains(t, f.paths, "[0].selectionSet.[0].selectionSet")
	assert.Contains(t, f.paths, "[0].selectionSet.[0].selectionSet.[1].selectionSet")
	assert.Contains(t, f.paths, "[0].selectionSet.[0].selectionSet.[1].selectionSet.[1].selectionSet")
}

func TestFoldDocumentIsNoopByDefault(t *testing.T) {
	doc, err := parser.Parse(arena.New(), `query { hello world }`)
	require.NoError(t, err)

	out, err := visit.FoldDocument(doc, visit.BaseFolder{})
	require.NoError(t, err)
	assert.Equal(t, printer.Print(doc), printer.Print(out))
}
