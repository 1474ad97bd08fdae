package split

import (
	"strings"

	"github.com/stellate-proxy/splitcache/internal/ast"
	"github.com/stellate-proxy/splitcache/internal/manifest"
	"github.com/stellate-proxy/splitcache/internal/schema"
	"github.com/stellate-proxy/splitcache/internal/visit"
)

// splitPoint is what the query splitter returns when it finds a selection
// set that needs to be cut: the selections left behind in place, the
// max-age now governing that remainder, the selections pulled out keyed by
// the age bucket they belong to, and the Path of the selection set the cut
// happened in (consumed by the Replacer and Extractor to build the two
// halves of the cut).
type splitPoint struct {
	Remainder *ast.SelectionSet
	MaxAge    *uint64
	Splits    map[uint64]*ast.SelectionSet
	Path      visit.Path
}

// findSplit runs one pass of the query splitter over doc's operation named
// operationName (or the sole operation, if operationName is nil), stopping
// at the first selection set whose fields span more than one age bucket.
// A nil, nil result means no selection set in the operation needed
// splitting further.
func findSplit(doc *ast.Document, sch *schema.Schema, man *manifest.Manifest, operationName *string) (*splitPoint, error) {
	for i, def := range doc.Definitions {
		if def.Kind != ast.DefinitionOperation {
			continue
		}
		op := def.Operation
		if operationName != nil {
			if op.Name == nil || *op.Name != *operationName {
				continue
			}
		}

		rootTypeName := sch.RootType(op.Operation.String())
		if rootTypeName == "" {
			return nil, &SchemaMismatchError{TypeName: op.Operation.String()}
		}

		qs := &querySplitter{schema: sch, manifest: man}
		qs.currentMaxAge = man.TypeMaxAge(rootTypeName)
		qs.typeStack = []string{rootTypeName}

		path := visit.Path{}.Index(i).Field()
		visit.Walk(op.SelectionSet, path, qs)

		if qs.err != nil {
			return nil, qs.err
		}
		if qs.result != nil {
			return qs.result, nil
		}
	}
	return nil, nil
}

type querySplitter struct {
	visit.BaseVisitor
	schema        *schema.Schema
	manifest      *manifest.Manifest
	currentMaxAge *uint64
	typeStack     []string
	result        *splitPoint
	err           error
}

func (qs *querySplitter) EnterSelectionSet(info visit.VisitInfo, s *ast.SelectionSet) visit.VisitFlow {
	if len(s.Selections) == 0 {
		return visit.Next
	}
	if len(qs.typeStack) == 0 {
		qs.err = &InternalTypeError{Detail: "empty type stack entering selection set at " + info.Path.String(), Path: info.Path}
		return visit.Break
	}
	currentTypeName := qs.typeStack[len(qs.typeStack)-1]
	qs.currentMaxAge = minAge(qs.currentMaxAge, qs.manifest.TypeMaxAge(currentTypeName))

	minMaxAge := qs.currentMaxAge
	for _, sel := range s.Selections {
		if sel.Kind != ast.SelectionField {
			continue
		}
		minMaxAge = minAge(minMaxAge, qs.manifest.FieldMaxAge(currentTypeName, sel.Field.Name))
	}
	if minMaxAge == nil {
		return visit.Next
	}

	keySet := make(map[string]bool)
	for _, name := range qs.manifest.KeyFieldNames(currentTypeName) {
		keySet[name] = true
	}

	var keyFields, nonSplittable []*ast.Selection
	selectionsSplit := make(map[uint64][]*ast.Selection)

	for _, sel := range s.Selections {
		if sel.Kind == ast.SelectionField && keySet[sel.Field.Name] {
			keyFields = append(keyFields, sel)
			continue
		}
		if sel.Kind != ast.SelectionField {
			nonSplittable = append(nonSplittable, sel)
			continue
		}
		age := qs.manifest.FieldMaxAge(currentTypeName, sel.Field.Name)
		if age == nil {
			age = qs.currentMaxAge
		}
		if age != nil && *age > *minMaxAge {
			selectionsSplit[*age] = append(selectionsSplit[*age], sel)
		} else {
			nonSplittable = append(nonSplittable, sel)
		}
	}

	qs.currentMaxAge = minMaxAge

	if len(selectionsSplit) == 0 {
		return visit.Next
	}
	if len(selectionsSplit) == 1 && len(nonSplittable) == 0 {
		return visit.Next
	}

	splits := make(map[uint64]*ast.SelectionSet, len(selectionsSplit))
	for age, sels := range selectionsSplit {
		bucket := make([]*ast.Selection, 0, len(sels)+len(keyFields))
		bucket = append(bucket, sels...)
		bucket = append(bucket, keyFields...)
		splits[age] = &ast.SelectionSet{Selections: bucket}
	}

	remainder := make([]*ast.Selection, 0, len(nonSplittable)+len(keyFields))
	remainder = append(remainder, nonSplittable...)
	remainder = append(remainder, keyFields...)

	qs.result = &splitPoint{
		Remainder: &ast.SelectionSet{Selections: remainder},
		MaxAge:    minMaxAge,
		Splits:    splits,
		Path:      info.Path,
	}
	return visit.Break
}

func (qs *querySplitter) EnterField(info visit.VisitInfo, f *ast.Field) visit.VisitFlow {
	if strings.HasPrefix(f.Name, "__") {
		return visit.Skip
	}
	currentTypeName := qs.typeStack[len(qs.typeStack)-1]
	currentType := qs.schema.Type(currentTypeName)
	if currentType == nil || (currentType.Kind != schema.KindObject && currentType.Kind != schema.KindInterface) {
		qs.err = &SchemaMismatchError{TypeName: currentTypeName, FieldName: f.Name, Path: info.Path}
		return visit.Break
	}
	fieldDef, ok := currentType.Fields[f.Name]
	if !ok {
		qs.err = &SchemaMismatchError{TypeName: currentTypeName, FieldName: f.Name, Path: info.Path}
		return visit.Break
	}
	qs.typeStack = append(qs.typeStack, fieldDef.OutputType)
	return visit.Next
}

func (qs *querySplitter) LeaveField(_ visit.VisitInfo, f *ast.Field) visit.VisitFlow {
	if strings.HasPrefix(f.Name, "__") {
		return visit.Next
	}
	qs.typeStack = qs.typeStack[:len(qs.typeStack)-1]
	return visit.Next
}

func (qs *querySplitter) EnterInlineFragment(info visit.VisitInfo, f *ast.InlineFragment) visit.VisitFlow {
	if f.TypeCondition != nil {
		t := qs.schema.Type(f.TypeCondition.Name)
		if t == nil {
			qs.err = &UnknownTypeConditionError{TypeName: f.TypeCondition.Name}
			return visit.Break
		}
		qs.typeStack = append(qs.typeStack, t.Name)
		return visit.Next
	}
	if len(qs.typeStack) == 0 {
		qs.err = &InternalTypeError{Detail: "empty type stack entering inline fragment", Path: info.Path}
		return visit.Break
	}
	qs.typeStack = append(qs.typeStack, qs.typeStack[len(qs.typeStack)-1])
	return visit.Next
}

func (qs *querySplitter) LeaveInlineFragment(_ visit.VisitInfo, f *ast.InlineFragment) visit.VisitFlow {
	qs.typeStack = qs.typeStack[:len(qs.typeStack)-1]
	return visit.Next
}

// minAge returns whichever of a, b is smaller, treating nil as "no limit".
func minAge(a, b *uint64) *uint64 {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	if *a < *b {
		return a
	}
	return b
}
