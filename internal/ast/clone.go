package ast

// Clone helpers used by package visit's default Folder behavior: when a
// Folder's Enter/Leave hook declines to replace a node, the driver needs a
// shallow copy to rebuild the parent around without aliasing the original
// slice headers (see the non-reentrant list invariant in the package doc).

// CloneSelectionSet returns a shallow copy of s with its own Selections
// slice header, safe to append to independently of s.
func CloneSelectionSet(s *SelectionSet) *SelectionSet {
	if s == nil {
		return nil
	}
	out := &SelectionSet{Selections: make([]*Selection, len(s.Selections))}
	copy(out.Selections, s.Selections)
	return out
}

// CloneField returns a shallow copy of f.
func CloneField(f *Field) *Field {
	if f == nil {
		return nil
	}
	out := *f
	return &out
}

// CloneInlineFragment returns a shallow copy of f.
func CloneInlineFragment(f *InlineFragment) *InlineFragment {
	if f == nil {
		return nil
	}
	out := *f
	return &out
}

// CloneSelection returns a shallow copy of s.
func CloneSelection(s *Selection) *Selection {
	if s == nil {
		return nil
	}
	out := *s
	return &out
}

// CloneDocument returns a shallow copy of d with its own Definitions slice
// header.
func CloneDocument(d *Document) *Document {
	if d == nil {
		return nil
	}
	out := &Document{Definitions: make([]*Definition, len(d.Definitions)), SizeHint: d.SizeHint}
	copy(out.Definitions, d.Definitions)
	return out
}

// CloneOperationDefinition returns a shallow copy of o.
func CloneOperationDefinition(o *OperationDefinition) *OperationDefinition {
	if o == nil {
		return nil
	}
	out := *o
	return &out
}

// CloneDefinition returns a shallow copy of d.
func CloneDefinition(d *Definition) *Definition {
	if d == nil {
		return nil
	}
	out := *d
	return &out
}
