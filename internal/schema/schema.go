// Package schema models a GraphQL "client schema": metadata and type
// information built from a standard introspection JSON document, used
// only to resolve field output types for the splitter's manifest lookups.
// It is never executable — there is no resolver machinery here, only the
// type graph.
package schema

// Kind discriminates the six named-type shapes a schema can declare.
type Kind int

const (
	KindObject Kind = iota
	KindInterface
	KindUnion
	KindScalar
	KindEnum
	KindInputObject
)

// Type is one named type in the schema. Which fields are meaningful
// depends on Kind: Fields/Interfaces for objects and interfaces,
// PossibleTypes for interfaces and unions.
type Type struct {
	Kind           Kind
	Name           string
	Fields         map[string]*Field
	Interfaces     []string
	PossibleTypes  []string
	EnumValues     map[string]bool
}

// Field is one field of an object or interface type, with the name of the
// type it returns (unwrapped of any List/NonNull wrapping — wrapper
// information is not needed by the splitter, which only cares about the
// named return type to resolve a sub-selection's field lookups).
type Field struct {
	Name       string
	OutputType string
}

// Schema is the full client schema: the three root operation types plus
// every named type reachable from introspection.
type Schema struct {
	QueryType        string
	MutationType     string
	SubscriptionType string
	Types            map[string]*Type
}

// RootType returns the name of the root object type for the given
// operation keyword ("query", "mutation", "subscription").
func (s *Schema) RootType(operation string) string {
	switch operation {
	case "mutation":
		return s.MutationType
	case "subscription":
		return s.SubscriptionType
	default:
		return s.QueryType
	}
}

// Type returns the named type, or nil if the schema has no type by that
// name.
func (s *Schema) Type(name string) *Type {
	return s.Types[name]
}

// Field looks up a field by name on the named type. Only object and
// interface types carry fields; any other kind (or an unknown type name)
// returns nil.
func (s *Schema) Field(typeName, fieldName string) *Field {
	t := s.Types[typeName]
	if t == nil {
		return nil
	}
	return t.Fields[fieldName]
}

// IsSubType reports whether subTypeName is a valid concrete type for a
// selection made under abstractTypeName: true when abstractTypeName is an
// interface subType implements, a union subType is a member of, or the two
// names are equal for object types.
func (s *Schema) IsSubType(abstractTypeName, subTypeName string) bool {
	if abstractTypeName == subTypeName {
		return true
	}
	abstract := s.Types[abstractTypeName]
	if abstract == nil {
		return false
	}
	switch abstract.Kind {
	case KindUnion, KindInterface:
		for _, p := range abstract.PossibleTypes {
			if p == subTypeName {
				return true
			}
		}
		return false
	default:
		return false
	}
}
