package crdt

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValue_CanonicalBytesSortsObjectKeys(t *testing.T) {
	v1 := Object(map[string]Value{"b": Number(2), "a": Number(1)})
	v2 := Object(map[string]Value{"a": Number(1), "b": Number(2)})

	assert.Equal(t, v1.CanonicalBytes(), v2.CanonicalBytes())
	assert.Equal(t, `{"a":1,"b":2}`, string(v1.CanonicalBytes()))
}

func TestValue_CanonicalBytesRejectsNonFinite(t *testing.T) {
	_, err := Number(math.NaN()).MarshalCanonical()
	assert.Error(t, err)

	_, err = Number(math.Inf(1)).MarshalCanonical()
	assert.Error(t, err)
}

func TestValue_Equal(t *testing.T) {
	a := Array(Number(1), String("x"), Bool(true))
	b := Array(Number(1), String("x"), Bool(true))
	c := Array(Number(1), String("y"), Bool(true))

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
}

func TestValue_NestedCanonicalRoundTrip(t *testing.T) {
	v := Object(map[string]Value{
		"title": String("todo list"),
		"done":  Bool(false),
		"tags":  Array(String("x"), String("y")),
	})
	assert.Equal(t, `{"done":false,"tags":["x","y"],"title":"todo list"}`, string(v.CanonicalBytes()))
}
