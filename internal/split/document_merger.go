package split

import "github.com/stellate-proxy/splitcache/internal/ast"

// mergeDocuments combines two documents that each carry one branch of an
// original query, rejoining them into a single document that executes as
// one: the named operation's top-level selections from a are placed ahead
// of b's own, and every other definition a carries (other operations,
// fragments) is carried into the result too. Selections are concatenated,
// never deep-merged — two sibling selections of the same field name stay
// two distinct selections.
//
// If only one of a/b declares the operation, that document is returned
// unchanged; if neither does, mergeDocuments fails.
func mergeDocuments(a, b *ast.Document, operationName *string) (*ast.Document, error) {
	aOp, aIdx, aFound := findOperation(a, operationName)
	bOp, bIdx, bFound := findOperation(b, operationName)

	switch {
	case !aFound && !bFound:
		name := ""
		if operationName != nil {
			name = *operationName
		}
		return nil, &OperationNotFoundError{OperationName: name}
	case aFound && !bFound:
		return a, nil
	case !aFound && bFound:
		return b, nil
	}

	merged := make([]*ast.Selection, 0, len(aOp.SelectionSet.Selections)+len(bOp.SelectionSet.Selections))
	merged = append(merged, aOp.SelectionSet.Selections...)
	merged = append(merged, bOp.SelectionSet.Selections...)

	mergedOp := ast.CloneOperationDefinition(bOp)
	mergedOp.SelectionSet = &ast.SelectionSet{Selections: merged}

	defs := make([]*ast.Definition, len(b.Definitions))
	copy(defs, b.Definitions)
	defs[bIdx] = &ast.Definition{Kind: ast.DefinitionOperation, Operation: mergedOp}

	var extras []*ast.Definition
	for i, def := range a.Definitions {
		if i == aIdx {
			continue
		}
		extras = append(extras, def)
	}

	result := make([]*ast.Definition, 0, len(extras)+len(defs))
	result = append(result, extras...)
	result = append(result, defs...)

	return &ast.Document{Definitions: result, SizeHint: a.SizeHint + b.SizeHint}, nil
}

// findOperation locates the operation definition matching name (or, when
// name is nil, the document's sole operation) in doc.
func findOperation(doc *ast.Document, name *string) (*ast.OperationDefinition, int, bool) {
	if name != nil {
		for i, def := range doc.Definitions {
			if def.Kind == ast.DefinitionOperation && def.Operation.Name != nil && *def.Operation.Name == *name {
				return def.Operation, i, true
			}
		}
		return nil, 0, false
	}

	idx := -1
	var op *ast.OperationDefinition
	count := 0
	for i, def := range doc.Definitions {
		if def.Kind == ast.DefinitionOperation {
			idx = i
			op = def.Operation
			count++
		}
	}
	if count != 1 {
		return nil, 0, false
	}
	return op, idx, true
}
