package split

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stellate-proxy/splitcache/internal/printer"
)

func resultsByMaxAge(t *testing.T, results []Result) map[string]string {
	t.Helper()
	byAge := make(map[string]string, len(results))
	for _, r := range results {
		key := "none"
		if r.MaxAge != nil {
			if *r.MaxAge == 100 {
				key = "100"
			} else if *r.MaxAge == 200 {
				key = "200"
			} else {
				key = "other"
			}
		}
		byAge[key] = printer.Print(r.Document)
	}
	return byAge
}

func TestSplitTwoAgeBuckets(t *testing.T) {
	doc := parseDoc(t, `{ lowMaxAge highMaxAge }`)

	results, err := Split(doc, testSchema(), testManifest(t), nil)
	require.NoError(t, err)
	require.Len(t, results, 2)

	byAge := resultsByMaxAge(t, results)
	require.Contains(t, byAge, "100")
	require.Contains(t, byAge, "200")
	assert.Contains(t, byAge["100"], "lowMaxAge")
	assert.NotContains(t, byAge["100"], "highMaxAge")
	assert.Contains(t, byAge["200"], "highMaxAge")
	assert.NotContains(t, byAge["200"], "lowMaxAge")
}

func TestSplitSingleBucketWhenNoSplitNeeded(t *testing.T) {
	doc := parseDoc(t, `{ lowMaxAge }`)

	results, err := Split(doc, testSchema(), testManifest(t), nil)
	require.NoError(t, err)
	require.Len(t, results, 1)
	// a query that never hits a real age spread never reaches a split
	// point, so it stays in the single "no bucket assigned yet" result,
	// even though lowMaxAge itself carries a max-age.
	assert.Nil(t, results[0].MaxAge)
	assert.Contains(t, printer.Print(results[0].Document), "lowMaxAge")
}

func TestSplitInlinesFragmentsFirst(t *testing.T) {
	doc := parseDoc(t, `
		query { ...Frag }
		fragment Frag on Query { lowMaxAge highMaxAge }
	`)

	results, err := Split(doc, testSchema(), testManifest(t), nil)
	require.NoError(t, err)
	require.Len(t, results, 2)
}

func TestSplitInlineFragmentBucketsKeepEnclosingField(t *testing.T) {
	doc := parseDoc(t, `{ node { id ... on Todo { id text authors { name } } } }`)

	results, err := Split(doc, testSchema(), testManifest(t), nil)
	require.NoError(t, err)

	for _, r := range results {
		printed := printer.Print(r.Document)
		require.NotNil(t, r.MaxAge)
		assert.Contains(t, printed, "node")
	}
}

func TestSplitPropagatesSchemaMismatchError(t *testing.T) {
	doc := parseDoc(t, `{ bogus }`)

	_, err := Split(doc, testSchema(), testManifest(t), nil)
	require.Error(t, err)
	var mismatch *SchemaMismatchError
	assert.ErrorAs(t, err, &mismatch)
}
