package visit

import (
	"fmt"
	"strings"

	"github.com/davecgh/go-spew/spew"
)

// SegmentKind discriminates the shapes a Path element can take while
// descending through a document.
type SegmentKind int

const (
	SegIndex SegmentKind = iota
	SegSelectionSet
	SegArguments
	SegDirectives
	SegName
	SegType
	SegValue
	SegVariable
	SegVariableDefinitions
)

// Segment is one step of a Path: either a field-shaped kind, or an index
// into the slice the previous segment named.
type Segment struct {
	Kind  SegmentKind
	Index int
}

func (s Segment) String() string {
	switch s.Kind {
	case SegIndex:
		return fmt.Sprintf("[%d]", s.Index)
	case SegSelectionSet:
		return "selectionSet"
	case SegArguments:
		return "arguments"
	case SegDirectives:
		return "directives"
	case SegName:
		return "name"
	case SegType:
		return "type"
	case SegValue:
		return "value"
	case SegVariable:
		return "variable"
	case SegVariableDefinitions:
		return "variableDefinitions"
	default:
		return "?"
	}
}

// Path addresses a node by the sequence of segments that reach it from the
// document root. The Selection-Set Replacer and Extractor in package split
// consume a Path to locate or rebuild exactly the subtree a cache-age split
// boundary cut through.
type Path []Segment

// Append returns a new Path with seg appended, leaving p untouched.
func (p Path) Append(seg Segment) Path {
	out := make(Path, len(p)+1)
	copy(out, p)
	out[len(p)] = seg
	return out
}

// Index appends a SegIndex segment, the common case of descending into the
// i'th selection of a selection set.
func (p Path) Index(i int) Path {
	return p.Append(Segment{Kind: SegIndex, Index: i})
}

// Field appends a SegSelectionSet segment, the common case of descending
// into a field's nested selection set.
func (p Path) Field() Path {
	return p.Append(Segment{Kind: SegSelectionSet})
}

func (p Path) String() string {
	parts := make([]string, len(p))
	for i, seg := range p {
		parts[i] = seg.String()
	}
	return strings.Join(parts, ".")
}

// Dump renders p with go-spew. Package split's InternalTypeError and
// SchemaMismatchError embed this alongside their plain-text summary so a
// failure carries the exact segment sequence that reached it.
func (p Path) Dump() string {
	return spew.Sdump(p)
}

// Equal reports whether p and other address the same node.
func (p Path) Equal(other Path) bool {
	if len(p) != len(other) {
		return false
	}
	for i := range p {
		if p[i] != other[i] {
			return false
		}
	}
	return true
}
