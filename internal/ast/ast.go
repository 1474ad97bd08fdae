// Package ast defines the typed node set for the October 2021 executable
// subset of GraphQL: operations, fragments, selection sets, values, and
// types. Every node is allocated through an arena.Arena so that a whole
// parsed document (and every sub-document cut from it by the splitter)
// shares one allocation lifetime scoped to a single request.
//
// Selections, arguments, directives, and the other repeated constructs
// are modeled as plain slices rather than the arena-backed singly linked
// lists the node set was originally built from: copy-on-write folding
// produces fresh slices without touching the ones a caller is still
// iterating, which is what the non-reentrant list invariant is actually
// protecting against.
package ast

// Document is the root of a parsed request: an ordered list of operation
// and fragment definitions, plus the size hint the printer uses to
// preallocate its output buffer.
type Document struct {
	Definitions []*Definition
	SizeHint    int
}

// DefinitionKind discriminates the two shapes a top-level Definition can
// take.
type DefinitionKind int

const (
	DefinitionOperation DefinitionKind = iota
	DefinitionFragment
)

// Definition is either an OperationDefinition or a FragmentDefinition.
type Definition struct {
	Kind      DefinitionKind
	Operation *OperationDefinition
	Fragment  *FragmentDefinition
}

// OperationKind is query, mutation, or subscription.
type OperationKind int

const (
	OperationQuery OperationKind = iota
	OperationMutation
	OperationSubscription
)

// String renders the keyword for an OperationKind ("query" for
// OperationQuery, including the shorthand form).
func (k OperationKind) String() string {
	switch k {
	case OperationMutation:
		return "mutation"
	case OperationSubscription:
		return "subscription"
	default:
		return "query"
	}
}

// OperationDefinition is a query/mutation/subscription, optionally named,
// with its variable definitions, directives, and top-level selection set.
type OperationDefinition struct {
	Operation           OperationKind
	Name                *string
	VariableDefinitions []*VariableDefinition
	Directives          []*Directive
	SelectionSet        *SelectionSet
}

// FragmentDefinition is a named fragment with a type condition. After
// fragment inlining (package fragments) a document no longer carries any
// of these.
type FragmentDefinition struct {
	Name          string
	TypeCondition NamedType
	Directives    []*Directive
	SelectionSet  *SelectionSet
}

// SelectionSet is an ordered, possibly empty list of selections.
type SelectionSet struct {
	Selections []*Selection
}

// SelectionKind discriminates the three selection shapes.
type SelectionKind int

const (
	SelectionField SelectionKind = iota
	SelectionFragmentSpread
	SelectionInlineFragment
)

// Selection is a field, a named fragment spread, or an inline fragment.
type Selection struct {
	Kind           SelectionKind
	Field          *Field
	FragmentSpread *FragmentSpread
	InlineFragment *InlineFragment
}

// Field is a single selected field, with an optional alias, its arguments,
// directives, and (for object/list-of-object fields) a nested selection
// set.
type Field struct {
	Alias        *string
	Name         string
	Arguments    []*Argument
	Directives   []*Directive
	SelectionSet *SelectionSet
}

// ResponseKey is the key this field occupies in a response object: the
// alias if present, otherwise the field name.
func (f *Field) ResponseKey() string {
	if f.Alias != nil {
		return *f.Alias
	}
	return f.Name
}

// FragmentSpread references a named fragment by name, e.g. "...Foo".
type FragmentSpread struct {
	Name       string
	Directives []*Directive
}

// InlineFragment is "... on Type { ... }" or a bare "... { ... }" with no
// type condition.
type InlineFragment struct {
	TypeCondition *NamedType
	Directives    []*Directive
	SelectionSet  *SelectionSet
}

// Argument is a name:value pair attached to a field or directive.
type Argument struct {
	Name  string
	Value Value
}

// Directive is "@name(arg: value, ...)".
type Directive struct {
	Name      string
	Arguments []*Argument
}

// NamedType is a bare type name, e.g. "User".
type NamedType struct {
	Name string
}

// TypeKind discriminates named, list, and non-null type references.
type TypeKind int

const (
	TypeNamed TypeKind = iota
	TypeList
	TypeNonNull
)

// Type is a possibly-wrapped type reference: a named type, "[T]", or "T!".
type Type struct {
	Kind   TypeKind
	Named  NamedType
	OfType *Type
}

// VariableDefinition declares "$name: Type = default" in an operation's
// variable list.
type VariableDefinition struct {
	Variable     string
	Type         *Type
	DefaultValue *Value
	Directives   []*Directive
}

// ValueKind discriminates the shapes a Value literal can take.
type ValueKind int

const (
	ValueNull ValueKind = iota
	ValueVariable
	ValueInt
	ValueFloat
	ValueBoolean
	ValueString
	ValueEnum
	ValueList
	ValueObject
)

// Value is a GraphQL value literal. Int and Float carry their Raw lexeme
// verbatim (rather than a parsed numeric type) so that huge integer
// literals round-trip through print without losing precision.
type Value struct {
	Kind     ValueKind
	Variable string
	Raw      string
	Boolean  bool
	Str      string
	Enum     string
	List     []Value
	Object   []ObjectField
}

// ObjectField is a name:value pair inside an object value literal.
type ObjectField struct {
	Name  string
	Value Value
}
