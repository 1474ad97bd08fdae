package split

import (
	"fmt"

	"github.com/stellate-proxy/splitcache/internal/visit"
)

// UnknownTypeConditionError is raised when an inline fragment's type
// condition names a type the schema does not declare.
type UnknownTypeConditionError struct {
	TypeName string
}

func (e *UnknownTypeConditionError) Error() string {
	return fmt.Sprintf("unknown type condition %q", e.TypeName)
}

// SchemaMismatchError is raised when a field is selected under a type that
// does not declare it, or a root type named in the schema cannot be
// resolved to a known type. Path, when set, addresses the selection that
// triggered the mismatch, rendered with go-spew for a detailed dump
// alongside the plain TypeName/FieldName summary.
type SchemaMismatchError struct {
	TypeName  string
	FieldName string
	Path      visit.Path
}

func (e *SchemaMismatchError) Error() string {
	msg := fmt.Sprintf("could not resolve root type %q", e.TypeName)
	if e.FieldName != "" {
		msg = fmt.Sprintf("could not find field %q on type %q", e.FieldName, e.TypeName)
	}
	if len(e.Path) > 0 {
		msg += "\n" + e.Path.Dump()
	}
	return msg
}

// InternalTypeError is raised when the splitter enters a selection set
// without a type on its internal type stack, or finds a field under a
// schema type that is not an object or interface, or when the extractor
// is handed a path it cannot walk — conditions that a valid document
// having already passed schema validation should never produce. Path,
// when set, is rendered with go-spew to help track down how the splitter
// or extractor got there.
type InternalTypeError struct {
	Detail string
	Path   visit.Path
}

func (e *InternalTypeError) Error() string {
	msg := "internal type error: " + e.Detail
	if len(e.Path) > 0 {
		msg += "\n" + e.Path.Dump()
	}
	return msg
}

// InvalidPathError is raised by the selection-set extractor when a Path
// addresses a selection index that does not exist. The replacer does not
// raise it: a Path that matches no selection set leaves the document as
// it was.
type InvalidPathError struct {
	Index int
}

func (e *InvalidPathError) Error() string {
	return fmt.Sprintf("no selection with index %d in selection set", e.Index)
}

// OperationNotFoundError is raised by the document merger when neither
// document declares the target operation.
type OperationNotFoundError struct {
	OperationName string
}

func (e *OperationNotFoundError) Error() string {
	if e.OperationName == "" {
		return "failed to merge queries: no matching anonymous operation"
	}
	return fmt.Sprintf("failed to merge queries for operation name %q", e.OperationName)
}
