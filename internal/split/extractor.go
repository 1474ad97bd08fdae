package split

import (
	"github.com/stellate-proxy/splitcache/internal/ast"
	"github.com/stellate-proxy/splitcache/internal/visit"
)

// extractSkeleton builds a document that keeps only the single chain of
// selections target's path descends through, down to the selection set it
// names, where replacement is spliced in. Every selection's alias,
// arguments, directives, and (for inline fragments) type condition survive
// unchanged; everything beside the kept chain at each level is dropped.
//
// This does not preserve key fields (such as id) sitting next to the
// branch being extracted when the split point is inside an inline
// fragment — the selections an inline fragment's siblings contribute are
// simply not on the chain target addresses. TODO: thread key fields
// through inline-fragment branches too.
func extractSkeleton(doc *ast.Document, target visit.Path, replacement *ast.SelectionSet) (*ast.Document, error) {
	if len(target) == 0 || target[0].Kind != visit.SegIndex {
		return nil, &InternalTypeError{Detail: "extractor target path must start with a definition index", Path: target}
	}
	defIndex := target[0].Index

	var indices []int
	for _, seg := range target[1:] {
		if seg.Kind == visit.SegIndex {
			indices = append(indices, seg.Index)
		}
	}

	if defIndex < 0 || defIndex >= len(doc.Definitions) {
		return nil, &InvalidPathError{Index: defIndex}
	}
	def := doc.Definitions[defIndex]
	if def.Kind != ast.DefinitionOperation {
		return nil, &InternalTypeError{Detail: "extractor target definition is not an operation", Path: target}
	}

	branch, err := extractBranch(def.Operation.SelectionSet, indices, replacement)
	if err != nil {
		return nil, err
	}

	defs := make([]*ast.Definition, len(doc.Definitions))
	copy(defs, doc.Definitions)
	op := ast.CloneOperationDefinition(def.Operation)
	op.SelectionSet = branch
	defs[defIndex] = &ast.Definition{Kind: ast.DefinitionOperation, Operation: op}

	return &ast.Document{Definitions: defs, SizeHint: doc.SizeHint}, nil
}

func extractBranch(sel *ast.SelectionSet, indices []int, replacement *ast.SelectionSet) (*ast.SelectionSet, error) {
	if len(indices) == 0 {
		return replacement, nil
	}
	idx := indices[0]
	if sel == nil || idx < 0 || idx >= len(sel.Selections) {
		return nil, &InvalidPathError{Index: idx}
	}
	kept := sel.Selections[idx]

	switch kept.Kind {
	case ast.SelectionField:
		field := ast.CloneField(kept.Field)
		nested, err := extractBranch(kept.Field.SelectionSet, indices[1:], replacement)
		if err != nil {
			return nil, err
		}
		field.SelectionSet = nested
		return &ast.SelectionSet{Selections: []*ast.Selection{{Kind: ast.SelectionField, Field: field}}}, nil
	case ast.SelectionInlineFragment:
		inline := ast.CloneInlineFragment(kept.InlineFragment)
		nested, err := extractBranch(kept.InlineFragment.SelectionSet, indices[1:], replacement)
		if err != nil {
			return nil, err
		}
		inline.SelectionSet = nested
		return &ast.SelectionSet{Selections: []*ast.Selection{{Kind: ast.SelectionInlineFragment, InlineFragment: inline}}}, nil
	default:
		return nil, &InternalTypeError{Detail: "extractor path descends through a fragment spread"}
	}
}
