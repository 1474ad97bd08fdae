// Package visit implements the two traversal protocols the rest of the
// pipeline is built on: a read-only Visitor for inspection passes, and a
// copy-on-write Folder for the rewrites query splitting needs to perform. Both carry a Path breadcrumb describing where
// in the document the current node sits.
package visit

import "github.com/stellate-proxy/splitcache/internal/ast"

// VisitFlow is returned by a Visitor's Enter/Leave hooks to control how the
// walk continues.
type VisitFlow int

const (
	// Next continues the walk into the current node's children.
	Next VisitFlow = iota
	// Skip continues the walk but does not descend into the current node's
	// children.
	Skip
	// Break stops the walk entirely.
	Break
)

// VisitInfo is passed to every Visitor/Folder hook: the Path to the node
// currently being visited.
type VisitInfo struct {
	Path Path
}

// Visitor is a read-only traversal over a document. Enter is called before
// a node's children are visited, Leave after. Either may return Break to
// stop the walk early; Enter may additionally return Skip to visit Leave
// but not the node's children.
type Visitor interface {
	EnterSelectionSet(info VisitInfo, s *ast.SelectionSet) VisitFlow
	LeaveSelectionSet(info VisitInfo, s *ast.SelectionSet) VisitFlow
	EnterField(info VisitInfo, f *ast.Field) VisitFlow
	LeaveField(info VisitInfo, f *ast.Field) VisitFlow
	EnterInlineFragment(info VisitInfo, f *ast.InlineFragment) VisitFlow
	LeaveInlineFragment(info VisitInfo, f *ast.InlineFragment) VisitFlow
	EnterFragmentSpread(info VisitInfo, f *ast.FragmentSpread) VisitFlow
}

// BaseVisitor implements Visitor with every hook a no-op returning Next,
// so a caller can embed it and override only the hooks it cares about.
type BaseVisitor struct{}

func (BaseVisitor) EnterSelectionSet(VisitInfo, *ast.SelectionSet) VisitFlow    { return Next }
func (BaseVisitor) LeaveSelectionSet(VisitInfo, *ast.SelectionSet) VisitFlow    { return Next }
func (BaseVisitor) EnterField(VisitInfo, *ast.Field) VisitFlow                 { return Next }
func (BaseVisitor) LeaveField(VisitInfo, *ast.Field) VisitFlow                 { return Next }
func (BaseVisitor) EnterInlineFragment(VisitInfo, *ast.InlineFragment) VisitFlow { return Next }
func (BaseVisitor) LeaveInlineFragment(VisitInfo, *ast.InlineFragment) VisitFlow { return Next }
func (BaseVisitor) EnterFragmentSpread(VisitInfo, *ast.FragmentSpread) VisitFlow { return Next }

// Walk drives v depth-first over sel, starting at basePath.
func Walk(sel *ast.SelectionSet, basePath Path, v Visitor) VisitFlow {
	if sel == nil {
		return Next
	}
	info := VisitInfo{Path: basePath}
	if flow := v.EnterSelectionSet(info, sel); flow != Next {
		if flow == Break {
			return Break
		}
		return v.LeaveSelectionSet(info, sel)
	}
	for i, s := range sel.Selections {
		childPath := basePath.Index(i)
		switch s.Kind {
		case ast.SelectionField:
			childInfo := VisitInfo{Path: childPath}
			flow := v.EnterField(childInfo, s.Field)
			if flow == Break {
				return Break
			}
			if flow != Skip && s.Field.SelectionSet != nil {
				if Walk(s.Field.SelectionSet, childPath.Field(), v) == Break {
					return Break
				}
			}
			if v.LeaveField(childInfo, s.Field) == Break {
				return Break
			}
		case ast.SelectionInlineFragment:
			childInfo := VisitInfo{Path: childPath}
			flow := v.EnterInlineFragment(childInfo, s.InlineFragment)
			if flow == Break {
				return Break
			}
			if flow != Skip {
				if Walk(s.InlineFragment.SelectionSet, childPath.Field(), v) == Break {
					return Break
				}
			}
			if v.LeaveInlineFragment(childInfo, s.InlineFragment) == Break {
				return Break
			}
		case ast.SelectionFragmentSpread:
			childInfo := VisitInfo{Path: childPath}
			if v.EnterFragmentSpread(childInfo, s.FragmentSpread) == Break {
				return Break
			}
		}
	}
	return v.LeaveSelectionSet(info, sel)
}

// WalkDocument drives v depth-first over every operation and fragment
// definition's selection set in doc.
func WalkDocument(doc *ast.Document, v Visitor) VisitFlow {
	for i, def := range doc.Definitions {
		defPath := Path{}.Index(i).Field()
		var sel *ast.SelectionSet
		switch def.Kind {
		case ast.DefinitionOperation:
			sel = def.Operation.SelectionSet
		case ast.DefinitionFragment:
			sel = def.Fragment.SelectionSet
		}
		if Walk(sel, defPath, v) == Break {
			return Break
		}
	}
	return Next
}
