// Package respmerge reassembles the independent origin responses produced
// for each of a split query's age buckets back into the single GraphQL
// response envelope the client expects: one data object, a concatenated
// errors list, and a stellate.partialQueries extension entry recording
// which sub-query produced which slice of the response.
package respmerge

import (
	"encoding/json"
	"fmt"

	"github.com/samsarahq/go/oops"

	"github.com/stellate-proxy/splitcache/internal/ast"
	"github.com/stellate-proxy/splitcache/internal/fragments"
	"github.com/stellate-proxy/splitcache/internal/visit"
)

// ConflictError is raised when two partial responses disagree on the
// scalar value of the same field.
type ConflictError struct {
	Path string
	A, B interface{}
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("path %s contains different values: %v, %v", e.Path, e.A, e.B)
}

// PartialQuery is one age bucket's printed query alongside the raw JSON
// response body its origin returned.
type PartialQuery struct {
	Query    string
	Response []byte
}

type partialQueryExtension struct {
	Query               string                     `json:"query"`
	ResponseExtensions  map[string]json.RawMessage `json:"responseExtensions,omitempty"`
}

// Merge walks doc's target operation (doc is expected to be the original,
// un-split client document; any fragment spreads it still carries are
// inlined here so the merge visitor never needs to resolve a fragment by
// name) for every leaf scalar field, pulling that field's value from
// whichever partial response actually carries it non-null, and fails if
// two partials disagree. Object- and list-valued fields are never merged
// directly — they are reconstructed from their own leaf descendants.
func Merge(doc *ast.Document, operationName *string, parts []PartialQuery) ([]byte, error) {
	someDataExists := false
	var allData []map[string]interface{}
	var errs []json.RawMessage
	extensions := make([]partialQueryExtension, 0, len(parts))

	for _, part := range parts {
		hasData, dataIsNull, data, partErrs, respExt, err := parseResponse(part.Response)
		if err != nil {
			return nil, oops.Wrapf(err, "parsing partial response for query %q", part.Query)
		}
		if hasData {
			someDataExists = true
			if !dataIsNull {
				allData = append(allData, data)
			}
		}
		errs = append(errs, partErrs...)
		extensions = append(extensions, partialQueryExtension{Query: part.Query, ResponseExtensions: respExt})
	}

	envelope := map[string]interface{}{
		"extensions": map[string]interface{}{
			"stellate": map[string]interface{}{"partialQueries": extensions},
		},
	}
	if len(errs) > 0 {
		envelope["errors"] = errs
	}

	if len(allData) == 0 {
		if someDataExists {
			envelope["data"] = nil
		}
		return json.Marshal(envelope)
	}

	inlined, err := fragments.Inline(doc)
	if err != nil {
		return nil, oops.Wrapf(err, "inlining fragments before merge")
	}
	op, err := findOperation(inlined, operationName)
	if err != nil {
		return nil, err
	}

	merger := &responseMerger{allData: allData, data: map[string]interface{}{}}
	visit.Walk(op.SelectionSet, nil, merger)
	if merger.err != nil {
		return nil, merger.err
	}

	envelope["data"] = merger.data
	return json.Marshal(envelope)
}

func findOperation(doc *ast.Document, operationName *string) (*ast.OperationDefinition, error) {
	var match *ast.OperationDefinition
	count := 0
	for _, def := range doc.Definitions {
		if def.Kind != ast.DefinitionOperation {
			continue
		}
		if operationName != nil {
			if def.Operation.Name != nil && *def.Operation.Name == *operationName {
				return def.Operation, nil
			}
			continue
		}
		match = def.Operation
		count++
	}
	if operationName == nil && count == 1 {
		return match, nil
	}
	name := ""
	if operationName != nil {
		name = *operationName
	}
	return nil, fmt.Errorf("no operation named %q to merge responses against", name)
}

// responseMerger walks the request document's field tree and, for each
// field, fills in self.data at the same dot path from whichever partial
// response carries a non-null scalar there.
type responseMerger struct {
	visit.BaseVisitor
	allData []map[string]interface{}
	path    []string
	data    map[string]interface{}
	err     error
}

func (m *responseMerger) EnterField(_ visit.VisitInfo, f *ast.Field) visit.VisitFlow {
	m.path = append(m.path, f.ResponseKey())

	var value interface{}
	found := false
	for _, d := range m.allData {
		v, ok := dotGet(d, m.path)
		if !ok || v == nil {
			continue
		}
		switch v.(type) {
		case map[string]interface{}, []interface{}:
			continue
		}
		if !found {
			value, found = v, true
			continue
		}
		if value != v {
			m.err = &ConflictError{Path: joinPath(m.path), A: value, B: v}
			return visit.Break
		}
	}

	dotSet(m.data, m.path, value)
	return visit.Next
}

func (m *responseMerger) LeaveField(_ visit.VisitInfo, f *ast.Field) visit.VisitFlow {
	m.path = m.path[:len(m.path)-1]
	return visit.Next
}

func joinPath(path []string) string {
	out := path[0]
	for _, p := range path[1:] {
		out += "." + p
	}
	return out
}

func dotGet(d map[string]interface{}, path []string) (interface{}, bool) {
	var cur interface{} = d
	for _, seg := range path {
		m, ok := cur.(map[string]interface{})
		if !ok {
			return nil, false
		}
		v, ok := m[seg]
		if !ok {
			return nil, false
		}
		cur = v
	}
	return cur, true
}

func dotSet(root map[string]interface{}, path []string, value interface{}) {
	cur := root
	for i, seg := range path {
		if i == len(path)-1 {
			cur[seg] = value
			return
		}
		next, ok := cur[seg].(map[string]interface{})
		if !ok {
			next = map[string]interface{}{}
			cur[seg] = next
		}
		cur = next
	}
}
