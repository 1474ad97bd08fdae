package visit

import "github.com/stellate-proxy/splitcache/internal/ast"

// Folder is a copy-on-write traversal: each hook may return a replacement
// node (or the original, to leave it unchanged) and an error. Returning a
// replacement never mutates the tree being walked — folding always builds
// fresh SelectionSet/Selection slices, so a Folder never observes its own
// writes.
//
// Most folders only care about one node kind; embed BaseFolder and
// override the relevant method.
type Folder interface {
	FoldSelectionSet(info VisitInfo, s *ast.SelectionSet) (*ast.SelectionSet, error)
	FoldField(info VisitInfo, f *ast.Field) (*ast.Field, error)
	FoldInlineFragment(info VisitInfo, f *ast.InlineFragment) (*ast.InlineFragment, error)
	FoldFragmentSpread(info VisitInfo, f *ast.FragmentSpread) (*ast.Selection, error)
}

// BaseFolder implements Folder by returning every node unchanged.
type BaseFolder struct{}

func (BaseFolder) FoldSelectionSet(_ VisitInfo, s *ast.SelectionSet) (*ast.SelectionSet, error) {
	return s, nil
}

func (BaseFolder) FoldField(_ VisitInfo, f *ast.Field) (*ast.Field, error) {
	return f, nil
}

func (BaseFolder) FoldInlineFragment(_ VisitInfo, f *ast.InlineFragment) (*ast.InlineFragment, error) {
	return f, nil
}

// FoldFragmentSpread returns nil to signal "no replacement, keep the
// fragment spread selection as-is"; a real rewrite (such as fragment
// inlining) returns the InlineFragment-wrapped Selection that replaces it.
func (BaseFolder) FoldFragmentSpread(_ VisitInfo, f *ast.FragmentSpread) (*ast.Selection, error) {
	return nil, nil
}

// FoldSelections drives f depth-first over sel, rebuilding it bottom-up:
// children are folded before the SelectionSet hook runs on their parent, so
// a FoldSelectionSet override always sees already-rewritten children.
//
// selPath is sel's own path (e.g. "[0].selectionSet"); each selection i
// within it is addressed as selPath.Index(i), and a nested field's own
// selection set is addressed as that path with another ".selectionSet"
// appended.
func FoldSelections(sel *ast.SelectionSet, selPath Path, f Folder) (*ast.SelectionSet, error) {
	if sel == nil {
		return nil, nil
	}
	out := make([]*ast.Selection, 0, len(sel.Selections))
	for i, s := range sel.Selections {
		childPath := selPath.Index(i)
		switch s.Kind {
		case ast.SelectionField:
			newField, err := foldField(s.Field, childPath, f)
			if err != nil {
				return nil, err
			}
			if newField == nil {
				continue
			}
			out = append(out, &ast.Selection{Kind: ast.SelectionField, Field: newField})
		case ast.SelectionInlineFragment:
			newInline, err := foldInlineFragment(s.InlineFragment, childPath, f)
			if err != nil {
				return nil, err
			}
			if newInline == nil {
				continue
			}
			out = append(out, &ast.Selection{Kind: ast.SelectionInlineFragment, InlineFragment: newInline})
		case ast.SelectionFragmentSpread:
			replacement, err := f.FoldFragmentSpread(VisitInfo{Path: childPath}, s.FragmentSpread)
			if err != nil {
				return nil, err
			}
			if replacement == nil {
				out = append(out, s)
				continue
			}
			out = append(out, replacement)
		}
	}
	result := &ast.SelectionSet{Selections: out}
	return f.FoldSelectionSet(VisitInfo{Path: selPath}, result)
}

func foldField(field *ast.Field, path Path, f Folder) (*ast.Field, error) {
	newSel, err := FoldSelections(field.SelectionSet, path.Field(), f)
	if err != nil {
		return nil, err
	}
	rebuilt := ast.CloneField(field)
	rebuilt.SelectionSet = newSel
	return f.FoldField(VisitInfo{Path: path}, rebuilt)
}

func foldInlineFragment(inline *ast.InlineFragment, path Path, f Folder) (*ast.InlineFragment, error) {
	newSel, err := FoldSelections(inline.SelectionSet, path.Field(), f)
	if err != nil {
		return nil, err
	}
	rebuilt := ast.CloneInlineFragment(inline)
	rebuilt.SelectionSet = newSel
	return f.FoldInlineFragment(VisitInfo{Path: path}, rebuilt)
}

// FoldDocument folds every operation and fragment definition's selection
// set in doc through f, returning a new Document.
func FoldDocument(doc *ast.Document, f Folder) (*ast.Document, error) {
	defs := make([]*ast.Definition, len(doc.Definitions))
	for i, def := range doc.Definitions {
		defPath := Path{}.Index(i).Field()
		switch def.Kind {
		case ast.DefinitionOperation:
			newSel, err := FoldSelections(def.Operation.SelectionSet, defPath, f)
			if err != nil {
				return nil, err
			}
			op := ast.CloneOperationDefinition(def.Operation)
			op.SelectionSet = newSel
			defs[i] = &ast.Definition{Kind: ast.DefinitionOperation, Operation: op}
		case ast.DefinitionFragment:
			newSel, err := FoldSelections(def.Fragment.SelectionSet, defPath, f)
			if err != nil {
				return nil, err
			}
			frag := *def.Fragment
			frag.SelectionSet = newSel
			defs[i] = &ast.Definition{Kind: ast.DefinitionFragment, Fragment: &frag}
		}
	}
	return &ast.Document{Definitions: defs, SizeHint: doc.SizeHint}, nil
}
