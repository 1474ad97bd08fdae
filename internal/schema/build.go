package schema

import "encoding/json"

// introspectionDocument is the standard `{ __schema { ... } }` introspection
// response shape.
type introspectionDocument struct {
	Schema introspectionSchema `json:"__schema"`
}

type introspectionSchema struct {
	QueryType        *introspectionTypeRef `json:"queryType"`
	MutationType     *introspectionTypeRef `json:"mutationType"`
	SubscriptionType *introspectionTypeRef `json:"subscriptionType"`
	Types            []introspectionType   `json:"types"`
}

type introspectionTypeRef struct {
	Kind   string                 `json:"kind"`
	Name   string                 `json:"name"`
	OfType *introspectionTypeRef  `json:"ofType"`
}

type introspectionType struct {
	Kind          string                 `json:"kind"`
	Name          string                 `json:"name"`
	Fields        []introspectionField   `json:"fields"`
	Interfaces    []introspectionTypeRef `json:"interfaces"`
	PossibleTypes []introspectionTypeRef `json:"possibleTypes"`
	EnumValues    []introspectionEnumValue `json:"enumValues"`
}

type introspectionField struct {
	Name string                `json:"name"`
	Type introspectionTypeRef `json:"type"`
}

type introspectionEnumValue struct {
	Name string `json:"name"`
}

// namedType unwraps NON_NULL/LIST wrappers to find the leaf type name.
func namedType(ref *introspectionTypeRef) string {
	for ref != nil {
		if ref.OfType == nil {
			return ref.Name
		}
		ref = ref.OfType
	}
	return ""
}

func kindOf(k string) (Kind, bool) {
	switch k {
	case "OBJECT":
		return KindObject, true
	case "INTERFACE":
		return KindInterface, true
	case "UNION":
		return KindUnion, true
	case "SCALAR":
		return KindScalar, true
	case "ENUM":
		return KindEnum, true
	case "INPUT_OBJECT":
		return KindInputObject, true
	default:
		return 0, false
	}
}

// BuildClientSchema parses a standard GraphQL introspection JSON document
// (the response to the standard introspection query, under a top-level
// "__schema" key) into a Schema. Construction is two-phase: every named
// type is created first so that forward references between types resolve,
// then each type's fields/interfaces/possible-types are filled in.
func BuildClientSchema(data []byte) (*Schema, error) {
	var doc introspectionDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	types := make(map[string]*Type, len(doc.Schema.Types))
	for _, it := range doc.Schema.Types {
		kind, ok := kindOf(it.Kind)
		if !ok {
			continue
		}
		types[it.Name] = &Type{Kind: kind, Name: it.Name}
	}

	for _, it := range doc.Schema.Types {
		t, ok := types[it.Name]
		if !ok {
			continue
		}
		switch t.Kind {
		case KindObject, KindInterface:
			t.Fields = make(map[string]*Field, len(it.Fields))
			for _, f := range it.Fields {
				t.Fields[f.Name] = &Field{Name: f.Name, OutputType: namedType(&f.Type)}
			}
			for _, iface := range it.Interfaces {
				t.Interfaces = append(t.Interfaces, iface.Name)
			}
		case KindUnion:
			for _, pt := range it.PossibleTypes {
				t.PossibleTypes = append(t.PossibleTypes, pt.Name)
			}
		case KindEnum:
			t.EnumValues = make(map[string]bool, len(it.EnumValues))
			for _, v := range it.EnumValues {
				t.EnumValues[v.Name] = true
			}
		}
		if t.Kind == KindInterface {
			for _, pt := range it.PossibleTypes {
				t.PossibleTypes = append(t.PossibleTypes, pt.Name)
			}
		}
	}

	s := &Schema{Types: types}
	if doc.Schema.QueryType != nil {
		s.QueryType = doc.Schema.QueryType.Name
	}
	if doc.Schema.MutationType != nil {
		s.MutationType = doc.Schema.MutationType.Name
	}
	if doc.Schema.SubscriptionType != nil {
		s.SubscriptionType = doc.Schema.SubscriptionType.Name
	}
	return s, nil
}
