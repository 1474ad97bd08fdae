package proxy

import (
	"encoding/json"

	"github.com/stellate-proxy/splitcache/internal/arena"
	"github.com/stellate-proxy/splitcache/internal/ast"
	"github.com/stellate-proxy/splitcache/internal/parser"
	"github.com/stellate-proxy/splitcache/internal/printer"
)

// Input is a decoded GraphQL-over-HTTP request body: the parsed query
// document plus whatever operationName/variables/extensions accompanied
// it, carried along unchanged to every origin request a split produces.
type Input struct {
	Document      *ast.Document
	OperationName *string
	Variables     map[string]interface{}
	Extensions    map[string]interface{}
}

type wireInput struct {
	Query         string                 `json:"query"`
	OperationName *string                `json:"operationName,omitempty"`
	Variables     map[string]interface{} `json:"variables,omitempty"`
	Extensions    map[string]interface{} `json:"extensions,omitempty"`
}

// ParseInput decodes a GraphQL-over-HTTP POST body and parses its query
// string into a Document allocated in a.
func ParseInput(a *arena.Arena, body []byte) (*Input, error) {
	var raw wireInput
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, err
	}
	doc, err := parser.Parse(a, raw.Query)
	if err != nil {
		return nil, err
	}
	return &Input{
		Document:      doc,
		OperationName: raw.OperationName,
		Variables:     raw.Variables,
		Extensions:    raw.Extensions,
	}, nil
}

// Body re-serializes in with doc printed back to a query string, the
// shape a single split bucket's request to the origin takes.
func (in *Input) Body(doc *ast.Document) ([]byte, error) {
	return json.Marshal(wireInput{
		Query:         printer.Print(doc),
		OperationName: in.OperationName,
		Variables:     in.Variables,
		Extensions:    in.Extensions,
	})
}
