package crdt

import "fmt"

// FieldSpec declares one named field of a [RecordSchema]: how to
// construct its node fresh, and how to reconstruct it from an incoming
// JSON value. This is the runtime stand-in for
// original_source/bft-crdt-derive's `#[derive(CRDT)]` macro — one of the
// three mechanisms spec.md §4.4 explicitly allows ("compile-time code
// generation, runtime reflection with a schema registry, or hand-written
// boilerplate").
type FieldSpec struct {
	Name      string
	New       NodeFactory
	FromValue NodeFromValue
}

// RecordSchema is an ordered declaration of a fixed-schema record's
// fields. Field-name strings here are exactly what appears in [Field]
// path segments, per spec.md §4.4 item (a).
type RecordSchema []FieldSpec

// Fields is sugar for declaring a [RecordSchema] inline.
func Fields(specs ...FieldSpec) RecordSchema { return RecordSchema(specs) }

// RegisterElem reconstructs a [Register] element from its JSON content.
// It is [RegisterField]'s FromValue, exported so it can also be passed as
// the elemFromValue of a [ListOfField] — e.g. a list of registers.
func RegisterElem(value Value, id AuthorID, path Path) (Node, error) {
	r := NewRegister[Value](id, path)
	if value.Kind != KindNull {
		r.Set(value)
	}
	return registerNode{r}, nil
}

// ListElem reconstructs a plain (opaque-value) [List] element from its
// JSON content. It is [ListField]'s FromValue, exported so a list of
// lists can be declared as ListOfField(name, ListElem).
func ListElem(value Value, id AuthorID, path Path) (Node, error) {
	if value.Kind != KindArray {
		return nil, newShapeError(path, "array", value)
	}
	l := NewList[Value](id, path)
	prev := RootID
	for _, item := range value.Array {
		op := l.Insert(prev, item)
		prev = op.ID
	}
	return listNode{l}, nil
}

// ListOfElem builds the elemFromValue for a list whose own elements are
// node-lists, reconstructing each nested element in turn with elem —
// e.g. ListOfField("grid", ListOfElem(RegisterElem)) for a 2D grid of
// registers (grounded on original_source/src/json_crdt.rs's
// test_2d_grid, `ListCRDT<ListCRDT<LWWRegisterCRDT<bool>>>`).
func ListOfElem(elem NodeFromValue) NodeFromValue {
	return func(value Value, id AuthorID, path Path) (Node, error) {
		if value.Kind != KindArray {
			return nil, newShapeError(path, "array", value)
		}
		l := NewNodeList[Value](id, path, elem)
		prev := RootID
		for _, item := range value.Array {
			op := l.Insert(prev, item)
			prev = op.ID
		}
		return listNode{l}, nil
	}
}

// RecordElem builds the elemFromValue for a list whose elements are
// fixed-schema records — e.g. ListOfField("items", RecordElem(itemSchema))
// for a list of records, grounded on original_source/src/json_crdt.rs's
// test_causal_field_dependency (`inventory: ListCRDT<Item>`).
func RecordElem(schema RecordSchema) NodeFromValue {
	return func(value Value, id AuthorID, path Path) (Node, error) {
		return recordFromValue(schema, value, id, path)
	}
}

// RegisterField declares a mutable scalar field backed by a [Register].
func RegisterField(name string) FieldSpec {
	return FieldSpec{
		Name: name,
		New: func(id AuthorID, path Path) Node {
			return registerNode{NewRegister[Value](id, path)}
		},
		FromValue: RegisterElem,
	}
}

// ListField declares an ordered-sequence field of opaque JSON values,
// backed by a [List]. Use [ListOfField] instead when the elements
// themselves need to be mutable sub-CRDTs.
func ListField(name string) FieldSpec {
	return FieldSpec{
		Name: name,
		New: func(id AuthorID, path Path) Node {
			return listNode{NewList[Value](id, path)}
		},
		FromValue: ListElem,
	}
}

// ListOfField declares an ordered sequence of routable sub-CRDTs — a list
// of records, a list of registers, a list of lists — rather than opaque
// values. Each live element is addressed below the list's own path by a
// further Index(elementID) segment (spec.md §9), the same way a list of
// lists of registers composes in original_source/src/json_crdt.rs's
// test_2d_grid. elemFromValue reconstructs one element's [Node] from its
// insertion content, exactly like a [RecordSchema] field's FromValue —
// see [RegisterElem], [ListElem], [ListOfElem], and [RecordElem].
func ListOfField(name string, elemFromValue NodeFromValue) FieldSpec {
	return FieldSpec{
		Name: name,
		New: func(id AuthorID, path Path) Node {
			return listNode{NewNodeList[Value](id, path, elemFromValue)}
		},
		FromValue: ListOfElem(elemFromValue),
	}
}

// RecordField declares a nested record field with its own schema.
func RecordField(name string, nested RecordSchema) FieldSpec {
	return FieldSpec{
		Name: name,
		New: func(id AuthorID, path Path) Node {
			return NewRecord(nested, id, path)
		},
		FromValue: RecordElem(nested),
	}
}

// BoolField, NumberField, and StringField declare immutable primitive
// leaves. Use [RegisterField] instead when the field needs to be
// mutable.
func BoolField(name string) FieldSpec {
	return FieldSpec{Name: name, New: NewBoolNode, FromValue: boolFromValue}
}

func NumberField(name string) FieldSpec {
	return FieldSpec{Name: name, New: NewNumberNode, FromValue: numberFromValue}
}

func StringField(name string) FieldSpec {
	return FieldSpec{Name: name, New: NewStringNode, FromValue: stringFromValue}
}

// ValueField declares a leaf that accepts any JSON shape verbatim.
func ValueField(name string) FieldSpec {
	return FieldSpec{Name: name, New: NewValueNode, FromValue: valueFromValue}
}

// registerNode and listNode adapt [Register][Value] and [List][Value] to
// the [Node] interface's method set, which both already satisfy
// structurally — the wrapper exists only so record.go doesn't need to
// import the concrete generic types into every call site.
type registerNode struct{ *Register[Value] }
type listNode struct{ *List[Value] }

// Record is a fixed-schema product of named fields, each itself a [Node]
// (spec.md §4.4). It has no scalar identity of its own: applying an
// operation directly at a record's own path is rejected.
type Record struct {
	id     AuthorID
	path   Path
	schema RecordSchema
	fields map[string]Node
}

// NewRecord constructs a record with each field recursively initialized
// at path extended by Field(name).
func NewRecord(schema RecordSchema, id AuthorID, path Path) *Record {
	fields := make(map[string]Node, len(schema))
	for _, spec := range schema {
		fields[spec.Name] = spec.New(id, path.Extend(Field(spec.Name)))
	}
	return &Record{id: id, path: path, schema: schema, fields: fields}
}

// Apply routes op to the named field one segment below this record's own
// path. Applying directly at the record's own path (no further segment)
// returns ErrApplyOnStruct; an unknown or malformed next segment returns
// ErrPathMismatch.
func (r *Record) Apply(op Op[Value]) OpState {
	if !op.Path.HasPrefix(r.path) {
		return ErrPathMismatch
	}
	if len(op.Path) <= len(r.path) {
		return ErrApplyOnStruct
	}
	next := op.Path[len(r.path)]
	if next.Kind != SegField {
		return ErrPathMismatch
	}
	field, ok := r.fields[next.Field]
	if !ok {
		return ErrPathMismatch
	}
	return field.Apply(op)
}

// View returns an object mapping each field name to its sub-view.
func (r *Record) View() Value {
	obj := make(map[string]Value, len(r.fields))
	for name, node := range r.fields {
		obj[name] = node.View()
	}
	return Value{Kind: KindObject, Object: obj}
}

// NodeFrom builds a record of this schema from a JSON object,
// destructuring matching keys. It rejects non-object values and objects
// missing a declared field.
func (r *Record) NodeFrom(value Value, id AuthorID, path Path) (*Record, error) {
	return recordFromValue(r.schema, value, id, path)
}

func recordFromValue(schema RecordSchema, value Value, id AuthorID, path Path) (*Record, error) {
	if value.Kind != KindObject {
		return nil, newShapeError(path, "object", value)
	}
	fields := make(map[string]Node, len(schema))
	for _, spec := range schema {
		raw, ok := value.Object[spec.Name]
		if !ok {
			return nil, fmt.Errorf("crdt: %s: missing field %q", path, spec.Name)
		}
		node, err := spec.FromValue(raw, id, path.Extend(Field(spec.Name)))
		if err != nil {
			return nil, err
		}
		fields[spec.Name] = node
	}
	return &Record{id: id, path: path, schema: schema, fields: fields}, nil
}
