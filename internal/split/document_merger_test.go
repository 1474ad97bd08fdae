package split

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stellate-proxy/splitcache/internal/printer"
)

func TestMergeDocumentsTopLevelFields(t *testing.T) {
	a := parseDoc(t, `{ lowMaxAge }`)
	b := parseDoc(t, `{ highMaxAge }`)

	merged, err := mergeDocuments(a, b, nil)
	require.NoError(t, err)

	printed := printer.Print(merged)
	assert.Contains(t, printed, "lowMaxAge")
	assert.Contains(t, printed, "highMaxAge")
	require.Len(t, merged.Definitions, 1)
}

func TestMergeDocumentsNestedFields(t *testing.T) {
	a := parseDoc(t, `{ nested { lowMaxAge } }`)
	b := parseDoc(t, `{ nested { highMaxAge } }`)

	merged, err := mergeDocuments(a, b, nil)
	require.NoError(t, err)

	printed := printer.Print(merged)
	assert.Contains(t, printed, "lowMaxAge")
	assert.Contains(t, printed, "highMaxAge")
	// two distinct "nested" selections survive: the merge concatenates
	// selections, it does not deep-merge same-named fields.
	assert.Equal(t, 2, countOccurrences(printed, "nested"))
}

func TestMergeDocumentsCarriesOtherDefinitions(t *testing.T) {
	a := parseDoc(t, `
		query { ...Frag }
		fragment Frag on Query { lowMaxAge }
	`)
	b := parseDoc(t, `{ highMaxAge }`)

	merged, err := mergeDocuments(a, b, nil)
	require.NoError(t, err)

	require.Len(t, merged.Definitions, 2)
	printed := printer.Print(merged)
	assert.Contains(t, printed, "fragment Frag")
}

func TestMergeDocumentsByOperationName(t *testing.T) {
	a := parseDoc(t, `query A { lowMaxAge }`)
	b := parseDoc(t, `query A { highMaxAge }`)

	name := "A"
	merged, err := mergeDocuments(a, b, &name)
	require.NoError(t, err)

	printed := printer.Print(merged)
	assert.Contains(t, printed, "lowMaxAge")
	assert.Contains(t, printed, "highMaxAge")
}

func TestMergeDocumentsOnlyOneHasOperation(t *testing.T) {
	a := parseDoc(t, `query A { lowMaxAge }`)
	b := parseDoc(t, `query B { highMaxAge }`)

	name := "A"
	merged, err := mergeDocuments(a, b, &name)
	require.NoError(t, err)
	assert.Same(t, a, merged)
}

func TestMergeDocumentsOperationNotFound(t *testing.T) {
	a := parseDoc(t, `query A { lowMaxAge }`)
	b := parseDoc(t, `query B { highMaxAge }`)

	name := "C"
	_, err := mergeDocuments(a, b, &name)
	require.Error(t, err)
	var notFound *OperationNotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func countOccurrences(s, substr string) int {
	count := 0
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			count++
			i += len(substr) - 1
		}
	}
	return count
}
