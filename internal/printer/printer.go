// Package printer renders an ast.Document back to canonical GraphQL source
// text: two-space indentation, one selection per line, and a deterministic
// field/argument/directive order that always matches the order the nodes
// appear in their slices. Printing is the inverse of parsing and is relied
// on by package proxy to serialize sub-documents for dispatch to the
// origin.
package printer

import (
	"strconv"
	"strings"

	"github.com/stellate-proxy/splitcache/internal/ast"
)

// Print renders doc as GraphQL source text.
func Print(doc *ast.Document) string {
	var b strings.Builder
	if doc.SizeHint > 0 {
		b.Grow(doc.SizeHint)
	}
	for i, def := range doc.Definitions {
		if i > 0 {
			b.WriteString("\n\n")
		}
		printDefinition(&b, def)
	}
	return b.String()
}

func printDefinition(b *strings.Builder, def *ast.Definition) {
	switch def.Kind {
	case ast.DefinitionOperation:
		printOperation(b, def.Operation)
	case ast.DefinitionFragment:
		printFragment(b, def.Fragment)
	}
}

func printOperation(b *strings.Builder, op *ast.OperationDefinition) {
	shorthand := op.Operation == ast.OperationQuery && op.Name == nil &&
		len(op.VariableDefinitions) == 0 && len(op.Directives) == 0
	if !shorthand {
		b.WriteString(op.Operation.String())
		if op.Name != nil {
			b.WriteByte(' ')
			b.WriteString(*op.Name)
		}
		if len(op.VariableDefinitions) > 0 {
			printVariableDefinitions(b, op.VariableDefinitions)
		}
		printDirectives(b, op.Directives)
		b.WriteByte(' ')
	}
	printSelectionSet(b, op.SelectionSet, 0)
}

func printFragment(b *strings.Builder, f *ast.FragmentDefinition) {
	b.WriteString("fragment ")
	b.WriteString(f.Name)
	b.WriteString(" on ")
	b.WriteString(f.TypeCondition.Name)
	printDirectives(b, f.Directives)
	b.WriteByte(' ')
	printSelectionSet(b, f.SelectionSet, 0)
}

func printVariableDefinitions(b *strings.Builder, defs []*ast.VariableDefinition) {
	b.WriteByte('(')
	for i, d := range defs {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteByte('$')
		b.WriteString(d.Variable)
		b.WriteString(": ")
		printType(b, d.Type)
		if d.DefaultValue != nil {
			b.WriteString(" = ")
			printValue(b, *d.DefaultValue)
		}
		printDirectives(b, d.Directives)
	}
	b.WriteByte(')')
}

func printType(b *strings.Builder, t *ast.Type) {
	switch t.Kind {
	case ast.TypeNamed:
		b.WriteString(t.Named.Name)
	case ast.TypeList:
		b.WriteByte('[')
		printType(b, t.OfType)
		b.WriteByte(']')
	case ast.TypeNonNull:
		printType(b, t.OfType)
		b.WriteByte('!')
	}
}

func printDirectives(b *strings.Builder, directives []*ast.Directive) {
	for _, d := range directives {
		b.WriteByte(' ')
		b.WriteByte('@')
		b.WriteString(d.Name)
		if len(d.Arguments) > 0 {
			printArguments(b, d.Arguments)
		}
	}
}

func printArguments(b *strings.Builder, args []*ast.Argument) {
	b.WriteByte('(')
	for i, a := range args {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(a.Name)
		b.WriteString(": ")
		printValue(b, a.Value)
	}
	b.WriteByte(')')
}

func printSelectionSet(b *strings.Builder, sel *ast.SelectionSet, indent int) {
	if sel == nil || len(sel.Selections) == 0 {
		b.WriteString("{}")
		return
	}
	b.WriteString("{\n")
	for _, s := range sel.Selections {
		writeIndent(b, indent+1)
		printSelection(b, s, indent+1)
		b.WriteByte('\n')
	}
	writeIndent(b, indent)
	b.WriteByte('}')
}

func writeIndent(b *strings.Builder, depth int) {
	for i := 0; i < depth; i++ {
		b.WriteString("  ")
	}
}

func printSelection(b *strings.Builder, s *ast.Selection, indent int) {
	switch s.Kind {
	case ast.SelectionField:
		printField(b, s.Field, indent)
	case ast.SelectionFragmentSpread:
		b.WriteString("...")
		b.WriteString(s.FragmentSpread.Name)
		printDirectives(b, s.FragmentSpread.Directives)
	case ast.SelectionInlineFragment:
		printInlineFragment(b, s.InlineFragment, indent)
	}
}

func printField(b *strings.Builder, f *ast.Field, indent int) {
	if f.Alias != nil {
		b.WriteString(*f.Alias)
		b.WriteString(": ")
	}
	b.WriteString(f.Name)
	if len(f.Arguments) > 0 {
		printArguments(b, f.Arguments)
	}
	printDirectives(b, f.Directives)
	if f.SelectionSet != nil {
		b.WriteByte(' ')
		printSelectionSet(b, f.SelectionSet, indent)
	}
}

func printInlineFragment(b *strings.Builder, f *ast.InlineFragment, indent int) {
	b.WriteString("...")
	if f.TypeCondition != nil {
		b.WriteString(" on ")
		b.WriteString(f.TypeCondition.Name)
	}
	printDirectives(b, f.Directives)
	b.WriteByte(' ')
	printSelectionSet(b, f.SelectionSet, indent)
}

func printValue(b *strings.Builder, v ast.Value) {
	switch v.Kind {
	case ast.ValueNull:
		b.WriteString("null")
	case ast.ValueVariable:
		b.WriteByte('$')
		b.WriteString(v.Variable)
	case ast.ValueInt, ast.ValueFloat:
		b.WriteString(v.Raw)
	case ast.ValueBoolean:
		b.WriteString(strconv.FormatBool(v.Boolean))
	case ast.ValueString:
		b.WriteString(strconv.Quote(v.Str))
	case ast.ValueEnum:
		b.WriteString(v.Enum)
	case ast.ValueList:
		b.WriteByte('[')
		for i, item := range v.List {
			if i > 0 {
				b.WriteString(", ")
			}
			printValue(b, item)
		}
		b.WriteByte(']')
	case ast.ValueObject:
		b.WriteByte('{')
		for i, f := range v.Object {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(f.Name)
			b.WriteString(": ")
			printValue(b, f.Value)
		}
		b.WriteByte('}')
	}
}
