package crdt

import "github.com/cshekharsharma/bft-json-crdt/internal/tracing"

// primitiveNode backs the immutable leaf node kinds: bool, number,
// string, and raw Value. It mirrors original_source/src/json_crdt.rs's
// blanket `impl<T: MarkPrimitive> CRDTNode for T`: Apply always rejects
// (wrap the value in a [Register] for mutability), View returns the
// stored value (the kind's default for a freshly constructed node, the
// given value for one rebuilt from JSON), and New logs a diagnostic rather than
// failing, since constructing a primitive node never itself errors.
type primitiveNode struct {
	id    AuthorID
	path  Path
	value Value
}

func (n *primitiveNode) Apply(Op[Value]) OpState { return ErrApplyOnPrimitive }
func (n *primitiveNode) View() Value             { return n.value }

func newPrimitiveNode(kind ValueKind, id AuthorID, path Path) Node {
	tracing.Logger.Debug().
		Str("path", path.String()).
		Str("kind", "primitive").
		Msg("constructing default-initialized primitive node")
	return &primitiveNode{id: id, path: path, value: Value{Kind: kind}}
}

// NewBoolNode constructs a default-initialized (false) boolean leaf.
func NewBoolNode(id AuthorID, path Path) Node { return newPrimitiveNode(KindBool, id, path) }

// NewNumberNode constructs a default-initialized (0) numeric leaf.
func NewNumberNode(id AuthorID, path Path) Node { return newPrimitiveNode(KindNumber, id, path) }

// NewStringNode constructs a default-initialized (empty) string leaf.
func NewStringNode(id AuthorID, path Path) Node { return newPrimitiveNode(KindString, id, path) }

// NewValueNode constructs a default-initialized (null) raw-Value leaf,
// accepting any JSON shape on reconstruction.
func NewValueNode(id AuthorID, path Path) Node { return newPrimitiveNode(KindNull, id, path) }

func boolFromValue(value Value, id AuthorID, path Path) (Node, error) {
	if value.Kind != KindBool {
		return nil, newShapeError(path, "bool", value)
	}
	return &primitiveNode{id: id, path: path, value: value}, nil
}

func numberFromValue(value Value, id AuthorID, path Path) (Node, error) {
	if value.Kind != KindNumber {
		return nil, newShapeError(path, "number", value)
	}
	return &primitiveNode{id: id, path: path, value: value}, nil
}

func stringFromValue(value Value, id AuthorID, path Path) (Node, error) {
	if value.Kind != KindString {
		return nil, newShapeError(path, "string", value)
	}
	return &primitiveNode{id: id, path: path, value: value}, nil
}

func valueFromValue(value Value, id AuthorID, path Path) (Node, error) {
	return &primitiveNode{id: id, path: path, value: value}, nil
}
