package crdt

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func todoSchema() RecordSchema {
	return Fields(
		RegisterField("title"),
		BoolField("done"),
		ListField("tags"),
	)
}

func TestRecord_ViewDefaults(t *testing.T) {
	alice := AuthorID{1}
	r := NewRecord(todoSchema(), alice, nil)

	got := r.View()
	assert.Equal(t, KindObject, got.Kind)
	assert.Equal(t, Null, got.Object["title"])
	assert.Equal(t, Bool(false), got.Object["done"])
	assert.Equal(t, Value{Kind: KindArray, Array: []Value{}}, normalizeArray(got.Object["tags"]))
}

func normalizeArray(v Value) Value {
	if v.Kind == KindArray && v.Array == nil {
		return Value{Kind: KindArray, Array: []Value{}}
	}
	return v
}

func TestRecord_ApplyRoutesToField(t *testing.T) {
	alice := AuthorID{1}
	r := NewRecord(todoSchema(), alice, nil)

	content := String("buy milk")
	op := NewOp(RootID, alice, 1, false, &content, Path{Field("title")})

	assert.Equal(t, Ok, r.Apply(op))
	assert.Equal(t, String("buy milk"), r.View().Object["title"])
}

func TestRecord_ApplyAtOwnPathRejected(t *testing.T) {
	alice := AuthorID{1}
	r := NewRecord(todoSchema(), alice, nil)

	content := String("x")
	op := NewOp(RootID, alice, 1, false, &content, Path{})

	assert.Equal(t, ErrApplyOnStruct, r.Apply(op))
}

func TestRecord_ApplyUnknownFieldRejected(t *testing.T) {
	alice := AuthorID{1}
	r := NewRecord(todoSchema(), alice, nil)

	content := String("x")
	op := NewOp(RootID, alice, 1, false, &content, Path{Field("nonexistent")})

	assert.Equal(t, ErrPathMismatch, r.Apply(op))
}

func TestRecord_ApplyOnPrimitiveFieldRejected(t *testing.T) {
	alice := AuthorID{1}
	r := NewRecord(todoSchema(), alice, nil)

	content := Bool(true)
	op := NewOp(RootID, alice, 1, false, &content, Path{Field("done")})

	assert.Equal(t, ErrApplyOnPrimitive, r.Apply(op))
}

func TestRecord_NodeFromValue(t *testing.T) {
	alice := AuthorID{1}
	schema := todoSchema()

	src := Object(map[string]Value{
		"title": String("buy milk"),
		"done":  Bool(true),
		"tags":  Array(String("errand")),
	})

	r, err := recordFromValue(schema, src, alice, nil)
	assert.NoError(t, err)
	assert.Equal(t, String("buy milk"), r.View().Object["title"])
	assert.Equal(t, Bool(true), r.View().Object["done"])
	assert.Equal(t, []Value{String("errand")}, r.View().Object["tags"].Array)
}

func TestRecord_NodeFromValueRejectsMissingField(t *testing.T) {
	alice := AuthorID{1}
	schema := todoSchema()

	src := Object(map[string]Value{"title": String("x")})
	_, err := recordFromValue(schema, src, alice, nil)
	assert.Error(t, err)
}

func TestRecord_NodeFromValueRejectsNonObject(t *testing.T) {
	alice := AuthorID{1}
	schema := todoSchema()

	_, err := recordFromValue(schema, Number(1), alice, nil)
	assert.Error(t, err)
}

// TestRecord_ListOfRegistersRoutesIntoElements grounds
// original_source/src/json_crdt.rs's test_2d_grid pattern one level deep:
// a list whose elements are themselves mutable registers, addressed by
// a further Index(elementID) path segment past the list's own path.
func TestRecord_ListOfRegistersRoutesIntoElements(t *testing.T) {
	alice := AuthorID{1}
	schema := Fields(ListOfField("items", RegisterElem))
	r := NewRecord(schema, alice, nil)

	initial := Number(0)
	insertOp := NewOp(RootID, alice, 1, false, &initial, Path{Field("items")})
	assert.Equal(t, Ok, r.Apply(insertOp))
	assert.Equal(t, []Value{Number(0)}, r.View().Object["items"].Array)

	updated := Number(42)
	setOp := NewOp(RootID, alice, 2, false, &updated, Path{Field("items"), Index(insertOp.ID)})
	assert.Equal(t, Ok, r.Apply(setOp))
	assert.Equal(t, []Value{Number(42)}, r.View().Object["items"].Array, "mutating an element must be visible through the parent's view")
}

// TestRecord_ListOfGridRoutesTwoLevelsDeep grounds test_2d_grid directly:
// ListCRDT<ListCRDT<LWWRegisterCRDT<bool>>>, mutated two Index segments
// below the field's own path.
func TestRecord_ListOfGridRoutesTwoLevelsDeep(t *testing.T) {
	alice := AuthorID{1}
	schema := Fields(ListOfField("grid", ListOfElem(RegisterElem)))
	r := NewRecord(schema, alice, nil)

	rowContent := Array(Bool(false), Bool(false))
	rowOp := NewOp(RootID, alice, 1, false, &rowContent, Path{Field("grid")})
	assert.Equal(t, Ok, r.Apply(rowOp))

	row, ok := rowAt(t, r, "grid", rowOp.ID)
	assert.True(t, ok)
	cellID := row.IdAt(1)

	newCell := Bool(true)
	cellOp := NewOp(RootID, alice, 2, false, &newCell, Path{Field("grid"), Index(rowOp.ID), Index(cellID)})
	assert.Equal(t, Ok, r.Apply(cellOp))

	got := r.View().Object["grid"].Array[0].Array
	assert.Equal(t, []Value{Bool(false), Bool(true)}, got)
}

func rowAt(t *testing.T, r *Record, field string, rowID OpID) (*List[Value], bool) {
	t.Helper()
	node, ok := r.fields[field].(listNode)
	assert.True(t, ok)
	child, ok := node.Child(rowID)
	if !ok {
		return nil, false
	}
	row, ok := child.(listNode)
	assert.True(t, ok)
	return row.List, true
}

// TestRecord_ListOfRecordsRoutesIntoFields grounds
// test_causal_field_dependency's ListCRDT<Item>: a list whose elements
// are fixed-schema records, mutated through a field segment past the
// element's Index segment.
func TestRecord_ListOfRecordsRoutesIntoFields(t *testing.T) {
	alice := AuthorID{1}
	itemSchema := Fields(StringField("label"), RegisterField("qty"))
	schema := Fields(ListOfField("items", RecordElem(itemSchema)))
	r := NewRecord(schema, alice, nil)

	initial := Object(map[string]Value{"label": String("bolt"), "qty": Null})
	insertOp := NewOp(RootID, alice, 1, false, &initial, Path{Field("items")})
	assert.Equal(t, Ok, r.Apply(insertOp))

	qty := Number(12)
	setOp := NewOp(RootID, alice, 1, false, &qty, Path{Field("items"), Index(insertOp.ID), Field("qty")})
	assert.Equal(t, Ok, r.Apply(setOp))

	item := r.View().Object["items"].Array[0]
	assert.Equal(t, String("bolt"), item.Object["label"])
	assert.Equal(t, Number(12), item.Object["qty"])
}

func TestRecord_NestedRecordField(t *testing.T) {
	alice := AuthorID{1}
	schema := Fields(
		RecordField("author", Fields(RegisterField("name"))),
	)
	r := NewRecord(schema, alice, nil)

	content := String("ada")
	op := NewOp(RootID, alice, 1, false, &content, Path{Field("author"), Field("name")})
	assert.Equal(t, Ok, r.Apply(op))
	assert.Equal(t, String("ada"), r.View().Object["author"].Object["name"])
}
