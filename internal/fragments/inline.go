// Package fragments rewrites named fragment spreads into inline fragments,
// recursively, so that the rest of the pipeline (in particular the query
// splitter) never has to resolve a fragment definition by name — every
// selection set it walks is already fully expanded.
package fragments

import (
	"fmt"

	"github.com/stellate-proxy/splitcache/internal/ast"
)

// UnknownFragmentError is raised when a spread names a fragment the
// document never defines.
type UnknownFragmentError struct {
	Name string
}

func (e *UnknownFragmentError) Error() string {
	return fmt.Sprintf("fragment %q does not exist", e.Name)
}

// CyclicFragmentError is raised when a fragment spreads itself, directly
// or transitively.
type CyclicFragmentError struct {
	Name string
}

func (e *CyclicFragmentError) Error() string {
	return fmt.Sprintf("fragment %q is part of a cycle", e.Name)
}

// Inline rewrites every named fragment spread in doc's operations into an
// inline fragment carrying the spread-to fragment's type condition and
// selection set, recursively, and drops every FragmentDefinition from the
// result. Operations are returned in their original relative order.
func Inline(doc *ast.Document) (*ast.Document, error) {
	fragmentMap := make(map[string]*ast.FragmentDefinition)
	for _, def := range doc.Definitions {
		if def.Kind == ast.DefinitionFragment {
			fragmentMap[def.Fragment.Name] = def.Fragment
		}
	}

	inliner := &inliner{fragments: fragmentMap, resolved: make(map[string]*ast.SelectionSet)}

	var out []*ast.Definition
	for _, def := range doc.Definitions {
		if def.Kind != ast.DefinitionOperation {
			continue
		}
		newSel, err := inliner.inlineSelectionSet(def.Operation.SelectionSet, nil)
		if err != nil {
			return nil, err
		}
		op := ast.CloneOperationDefinition(def.Operation)
		op.SelectionSet = newSel
		out = append(out, &ast.Definition{Kind: ast.DefinitionOperation, Operation: op})
	}

	return &ast.Document{Definitions: out, SizeHint: doc.SizeHint}, nil
}

type inliner struct {
	fragments map[string]*ast.FragmentDefinition
	resolved  map[string]*ast.SelectionSet // memoized fully-inlined fragment bodies
}

func (in *inliner) inlineSelectionSet(sel *ast.SelectionSet, stack []string) (*ast.SelectionSet, error) {
	if sel == nil {
		return nil, nil
	}
	out := make([]*ast.Selection, 0, len(sel.Selections))
	for _, s := range sel.Selections {
		switch s.Kind {
		case ast.SelectionField:
			newSel, err := in.inlineSelectionSet(s.Field.SelectionSet, stack)
			if err != nil {
				return nil, err
			}
			f := ast.CloneField(s.Field)
			f.SelectionSet = newSel
			out = append(out, &ast.Selection{Kind: ast.SelectionField, Field: f})
		case ast.SelectionInlineFragment:
			newSel, err := in.inlineSelectionSet(s.InlineFragment.SelectionSet, stack)
			if err != nil {
				return nil, err
			}
			frag := ast.CloneInlineFragment(s.InlineFragment)
			frag.SelectionSet = newSel
			out = append(out, &ast.Selection{Kind: ast.SelectionInlineFragment, InlineFragment: frag})
		case ast.SelectionFragmentSpread:
			body, typeCondition, err := in.resolve(s.FragmentSpread.Name, stack)
			if err != nil {
				return nil, err
			}
			out = append(out, &ast.Selection{
				Kind: ast.SelectionInlineFragment,
				InlineFragment: &ast.InlineFragment{
					TypeCondition: &typeCondition,
					Directives:    s.FragmentSpread.Directives,
					SelectionSet:  body,
				},
			})
		}
	}
	return &ast.SelectionSet{Selections: out}, nil
}

func (in *inliner) resolve(name string, stack []string) (*ast.SelectionSet, ast.NamedType, error) {
	for _, seen := range stack {
		if seen == name {
			return nil, ast.NamedType{}, &CyclicFragmentError{Name: name}
		}
	}
	frag, ok := in.fragments[name]
	if !ok {
		return nil, ast.NamedType{}, &UnknownFragmentError{Name: name}
	}
	if body, ok := in.resolved[name]; ok {
		return body, frag.TypeCondition, nil
	}
	body, err := in.inlineSelectionSet(frag.SelectionSet, append(stack, name))
	if err != nil {
		return nil, ast.NamedType{}, err
	}
	in.resolved[name] = body
	return body, frag.TypeCondition, nil
}
