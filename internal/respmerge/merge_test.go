package respmerge

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stellate-proxy/splitcache/internal/arena"
	"github.com/stellate-proxy/splitcache/internal/ast"
	"github.com/stellate-proxy/splitcache/internal/parser"
)

func parseForMerge(t *testing.T, src string) *ast.Document {
	t.Helper()
	doc, err := parser.Parse(arena.New(), src)
	require.NoError(t, err)
	return doc
}

func TestMergeTopLevelFields(t *testing.T) {
	doc := parseForMerge(t, `{ lowMaxAge highMaxAge }`)

	out, err := Merge(doc, nil, []PartialQuery{
		{Query: "{ lowMaxAge }", Response: []byte(`{"data":{"lowMaxAge":"a"}}`)},
		{Query: "{ highMaxAge }", Response: []byte(`{"data":{"highMaxAge":"b"}}`)},
	})
	require.NoError(t, err)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(out, &got))
	data := got["data"].(map[string]interface{})
	assert.Equal(t, "a", data["lowMaxAge"])
	assert.Equal(t, "b", data["highMaxAge"])
}

func TestMergeNestedFields(t *testing.T) {
	doc := parseForMerge(t, `{ nested { lowMaxAge highMaxAge } }`)

	out, err := Merge(doc, nil, []PartialQuery{
		{Query: "{ nested { lowMaxAge } }", Response: []byte(`{"data":{"nested":{"lowMaxAge":"a"}}}`)},
		{Query: "{ nested { highMaxAge } }", Response: []byte(`{"data":{"nested":{"highMaxAge":"b"}}}`)},
	})
	require.NoError(t, err)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(out, &got))
	nested := got["data"].(map[string]interface{})["nested"].(map[string]interface{})
	assert.Equal(t, "a", nested["lowMaxAge"])
	assert.Equal(t, "b", nested["highMaxAge"])
}

func TestMergeFragmentWithSiblingFields(t *testing.T) {
	doc := parseForMerge(t, `
		query { ...Frag highMaxAge }
		fragment Frag on Query { lowMaxAge }
	`)

	out, err := Merge(doc, nil, []PartialQuery{
		{Query: "{ lowMaxAge }", Response: []byte(`{"data":{"lowMaxAge":"a"}}`)},
		{Query: "{ highMaxAge }", Response: []byte(`{"data":{"highMaxAge":"b"}}`)},
	})
	require.NoError(t, err)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(out, &got))
	data := got["data"].(map[string]interface{})
	assert.Equal(t, "a", data["lowMaxAge"])
	assert.Equal(t, "b", data["highMaxAge"])
}

func TestMergeConflictingScalarsError(t *testing.T) {
	doc := parseForMerge(t, `{ lowMaxAge }`)

	_, err := Merge(doc, nil, []PartialQuery{
		{Query: "{ lowMaxAge }", Response: []byte(`{"data":{"lowMaxAge":"a"}}`)},
		{Query: "{ lowMaxAge }", Response: []byte(`{"data":{"lowMaxAge":"b"}}`)},
	})
	require.Error(t, err)
	var conflict *ConflictError
	assert.ErrorAs(t, err, &conflict)
}

func TestMergeErrorsAreConcatenated(t *testing.T) {
	doc := parseForMerge(t, `{ lowMaxAge highMaxAge }`)

	out, err := Merge(doc, nil, []PartialQuery{
		{Query: "{ lowMaxAge }", Response: []byte(`{"data":{"lowMaxAge":"a"},"errors":[{"message":"e1"}]}`)},
		{Query: "{ highMaxAge }", Response: []byte(`{"data":{"highMaxAge":"b"},"errors":[{"message":"e2"}]}`)},
	})
	require.NoError(t, err)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(out, &got))
	errs := got["errors"].([]interface{})
	assert.Len(t, errs, 2)
}

func TestMergeNullDataPartialContributesNothing(t *testing.T) {
	doc := parseForMerge(t, `{ lowMaxAge highMaxAge }`)

	out, err := Merge(doc, nil, []PartialQuery{
		{Query: "{ lowMaxAge }", Response: []byte(`{"data":null,"errors":[{"message":"boom"}]}`)},
		{Query: "{ highMaxAge }", Response: []byte(`{"data":{"highMaxAge":"b"}}`)},
	})
	require.NoError(t, err)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(out, &got))
	data := got["data"].(map[string]interface{})
	// the null-data partial contributes nothing; the other partial's field
	// still gets filled in from the surviving data.
	assert.Equal(t, "b", data["highMaxAge"])
}

func TestMergeExtensionsRecordEachPartialQuery(t *testing.T) {
	doc := parseForMerge(t, `{ lowMaxAge }`)

	out, err := Merge(doc, nil, []PartialQuery{
		{Query: "{ lowMaxAge }", Response: []byte(`{"data":{"lowMaxAge":"a"}}`)},
	})
	require.NoError(t, err)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(out, &got))
	stellate := got["extensions"].(map[string]interface{})["stellate"].(map[string]interface{})
	partials := stellate["partialQueries"].([]interface{})
	require.Len(t, partials, 1)
	assert.Equal(t, "{ lowMaxAge }", partials[0].(map[string]interface{})["query"])
}
