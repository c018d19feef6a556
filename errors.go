package crdt

import "fmt"

// ShapeError reports that incoming JSON did not match a declared
// [RecordSchema] or primitive field during [NodeFromValue] reconstruction
// (spec.md §4.4 DESIGN NOTES item (b): "node_from rejects incoming JSON
// whose shape mismatches").
type ShapeError struct {
	Path     Path
	Expected string
	Got      Value
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("crdt: %s: expected %s, got %s", e.Path, e.Expected, e.Got.kindName())
}

func newShapeError(path Path, expected string, got Value) error {
	return &ShapeError{Path: path, Expected: expected, Got: got}
}

func (k ValueKind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

func (v Value) kindName() string { return v.Kind.String() }
