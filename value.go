package crdt

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
)

// ValueKind discriminates the variants of [Value].
type ValueKind uint8

const (
	KindNull ValueKind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

// Value is the canonical JSON value union carried by every operation's
// content and by every document view: null, bool, IEEE-754 double,
// string, array, or an unordered string-keyed object.
//
// Numbers are always float64. Integer payloads beyond 2^53 cannot
// round-trip faithfully through this representation — spec.md's Open
// Question on integer-vs-float is left unresolved deliberately; callers
// needing exact large integers should encode them as strings.
type Value struct {
	Kind   ValueKind
	Bool   bool
	Number float64
	String string
	Array  []Value
	Object map[string]Value
}

// Null is the zero [Value].
var Null = Value{Kind: KindNull}

func Bool(b bool) Value { return Value{Kind: KindBool, Bool: b} }

func Number(n float64) Value { return Value{Kind: KindNumber, Number: n} }

func String(s string) Value { return Value{Kind: KindString, String: s} }

func Array(items ...Value) Value { return Value{Kind: KindArray, Array: items} }

func Object(fields map[string]Value) Value { return Value{Kind: KindObject, Object: fields} }

// ToValue trivially satisfies [Canonical] for Value itself, so Value can
// be used directly as the content type of a [Register] or [List].
func (v Value) ToValue() Value { return v }

// CanonicalBytes renders v as canonical JSON: sorted object keys, no
// insignificant whitespace, and Go's shortest-round-trip float
// formatting. Two replicas holding the same logical value always produce
// byte-identical output, which is what keeps operation hashes and
// envelope digests portable across implementations (spec.md §9).
//
// NaN and +/-Inf have no canonical JSON representation and are rejected.
func (v Value) CanonicalBytes() []byte {
	b, err := v.MarshalCanonical()
	if err != nil {
		// Constructing a Value with a non-finite number is caller error:
		// every public constructor above takes a plain float64, and
		// nothing in this package produces NaN/Inf internally.
		panic(fmt.Sprintf("crdt: value is not canonically encodable: %v", err))
	}
	return b
}

// MarshalCanonical is the fallible counterpart of CanonicalBytes, for
// callers that want to handle non-finite numbers without a panic.
func (v Value) MarshalCanonical() ([]byte, error) {
	native, err := v.toNative()
	if err != nil {
		return nil, err
	}
	// encoding/json already sorts map[string]any keys and uses a
	// deterministic, shortest-round-trip float format; no third-party
	// canonical-JSON codec in the pack does anything more than that.
	return json.Marshal(native)
}

func (v Value) toNative() (any, error) {
	switch v.Kind {
	case KindNull:
		return nil, nil
	case KindBool:
		return v.Bool, nil
	case KindNumber:
		if math.IsNaN(v.Number) || math.IsInf(v.Number, 0) {
			return nil, fmt.Errorf("crdt: non-finite number %v has no canonical JSON form", v.Number)
		}
		return v.Number, nil
	case KindString:
		return v.String, nil
	case KindArray:
		out := make([]any, len(v.Array))
		for i, item := range v.Array {
			n, err := item.toNative()
			if err != nil {
				return nil, err
			}
			out[i] = n
		}
		return out, nil
	case KindObject:
		out := make(map[string]any, len(v.Object))
		for k, item := range v.Object {
			n, err := item.toNative()
			if err != nil {
				return nil, err
			}
			out[k] = n
		}
		return out, nil
	default:
		return nil, fmt.Errorf("crdt: unknown value kind %d", v.Kind)
	}
}

// Equal reports deep structural equality between two Values.
func (v Value) Equal(other Value) bool {
	if v.Kind != other.Kind {
		return false
	}
	switch v.Kind {
	case KindNull:
		return true
	case KindBool:
		return v.Bool == other.Bool
	case KindNumber:
		return v.Number == other.Number
	case KindString:
		return v.String == other.String
	case KindArray:
		if len(v.Array) != len(other.Array) {
			return false
		}
		for i := range v.Array {
			if !v.Array[i].Equal(other.Array[i]) {
				return false
			}
		}
		return true
	case KindObject:
		if len(v.Object) != len(other.Object) {
			return false
		}
		for k, item := range v.Object {
			o, ok := other.Object[k]
			if !ok || !item.Equal(o) {
				return false
			}
		}
		return true
	}
	return false
}

// sortedKeys returns the keys of an object Value in deterministic order,
// useful for tests and for the debug/tracing hooks that log a view.
func (v Value) sortedKeys() []string {
	keys := make([]string, 0, len(v.Object))
	for k := range v.Object {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// CanonicalString renders v as its canonical JSON text.
func (v Value) CanonicalString() string {
	b, err := v.MarshalCanonical()
	if err != nil {
		return fmt.Sprintf("<unencodable value: %v>", err)
	}
	return string(b)
}
