package crdt

import (
	"encoding/hex"
	"strings"
)

// SegmentKind discriminates the two flavors of [PathSegment].
type SegmentKind uint8

const (
	// SegField addresses a named sub-CRDT inside a [Record].
	SegField SegmentKind = iota
	// SegIndex addresses a list element by its creation id. Positions are
	// never used: they shift under concurrent edits.
	SegIndex
)

// PathSegment is one step in a [Path] from the document root to some
// sub-CRDT. A segment is either a record field name or a list element's
// creation id — never a numeric position.
type PathSegment struct {
	Kind  SegmentKind
	Field string
	Index OpID
}

// Field builds a record-field path segment.
func Field(name string) PathSegment { return PathSegment{Kind: SegField, Field: name} }

// Index builds a list-element path segment, addressed by creation id.
func Index(id OpID) PathSegment { return PathSegment{Kind: SegIndex, Index: id} }

// Equal reports whether two segments address the same thing.
func (s PathSegment) Equal(other PathSegment) bool {
	if s.Kind != other.Kind {
		return false
	}
	if s.Kind == SegField {
		return s.Field == other.Field
	}
	return s.Index == other.Index
}

func (s PathSegment) String() string {
	if s.Kind == SegField {
		return "." + s.Field
	}
	return "[" + hex.EncodeToString(s.Index[:]) + "]"
}

// Path is a finite ordered sequence of [PathSegment], read from the
// document root down to the sub-CRDT a mutation targets.
type Path []PathSegment

// Clone returns an independent copy of p so callers can extend it without
// aliasing the original backing array.
func (p Path) Clone() Path {
	if len(p) == 0 {
		return nil
	}
	out := make(Path, len(p))
	copy(out, p)
	return out
}

// Extend returns a new path with seg appended, leaving p untouched.
func (p Path) Extend(seg PathSegment) Path {
	out := make(Path, len(p)+1)
	copy(out, p)
	out[len(p)] = seg
	return out
}

// HasPrefix reports whether prefix is a (non-strict) prefix of p.
func (p Path) HasPrefix(prefix Path) bool {
	if len(prefix) > len(p) {
		return false
	}
	for i, seg := range prefix {
		if !seg.Equal(p[i]) {
			return false
		}
	}
	return true
}

// Equal reports whether two paths address the same sub-CRDT.
func (p Path) Equal(other Path) bool {
	if len(p) != len(other) {
		return false
	}
	return p.HasPrefix(other)
}

// String renders a canonical, stable textual form of the path. It is part
// of the envelope digest (see [SignedOp]), so its encoding must stay fixed
// across replicas.
func (p Path) String() string {
	if len(p) == 0 {
		return "$"
	}
	var b strings.Builder
	b.WriteString("$")
	for _, seg := range p {
		b.WriteString(seg.String())
	}
	return b.String()
}
