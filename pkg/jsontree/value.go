// Package jsontree models parsed JSON documents as immutable value trees.
//
// Unlike encoding/json's map[string]any decoding, jsontree preserves the
// order in which object keys appear in the source document and keeps
// numeric literals verbatim. Both properties are required for stable
// visualization: repeated builds of the same document must produce the
// same node ordering, and export must round-trip the exact input.
//
// # Value Types
//
// A Value is one of six concrete types mirroring the JSON grammar:
//
//	Object  ordered key/value members
//	Array   ordered elements
//	String  text
//	Number  verbatim numeric literal
//	Bool    true/false
//	Null    null
//
// # Usage
//
//	v, err := jsontree.Parse([]byte(`{"a": 1, "b": [true, null]}`))
//	if err != nil {
//	    return err
//	}
//	fmt.Println(v.Kind()) // object
//
//	out, _ := jsontree.Marshal(v) // byte-faithful re-serialization
package jsontree

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Kind identifies the semantic type of a Value.
type Kind int

const (
	KindObject Kind = iota
	KindArray
	KindString
	KindNumber
	KindBool
	KindNull
)

// String returns the lowercase name of the kind (e.g., "object").
func (k Kind) String() string {
	switch k {
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "boolean"
	case KindNull:
		return "null"
	}
	return "unknown"
}

// MarshalText implements encoding.TextMarshaler, so kinds serialize as
// their names in JSON documents.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	switch string(text) {
	case "object":
		*k = KindObject
	case "array":
		*k = KindArray
	case "string":
		*k = KindString
	case "number":
		*k = KindNumber
	case "boolean":
		*k = KindBool
	case "null":
		*k = KindNull
	default:
		return fmt.Errorf("unknown kind %q", text)
	}
	return nil
}

// colors maps each kind to its display color. Initialized once at startup
// and never mutated; the table is process-wide configuration.
var colors = map[Kind]string{
	KindObject: "#2B6CB0", // blue
	KindArray:  "#4C51BF", // indigo
	KindString: "#48BB78", // green
	KindNumber: "#ED8936", // orange
	KindBool:   "#9F7AEA", // purple
	KindNull:   "#718096", // gray
}

// Color returns the display color (hex) for a kind.
// Unknown kinds fall back to the null gray.
func Color(k Kind) string {
	if c, ok := colors[k]; ok {
		return c
	}
	return colors[KindNull]
}

// Value is a parsed JSON value. The six implementations in this package
// are the only valid ones; anything else reaching a consumer indicates
// an upstream ingestion bug.
type Value interface {
	// Kind reports the semantic type of the value.
	Kind() Kind
}

// Classify returns the kind and display color for a value.
// Pure function of the value's type tag; content is never inspected.
func Classify(v Value) (Kind, string) {
	k := v.Kind()
	return k, Color(k)
}

// Member is a single key/value pair of an Object.
type Member struct {
	Key   string
	Value Value
}

// Object is an ordered collection of members. Key order is the order keys
// appeared in the source document (or were Set), never re-sorted.
type Object []Member

// Array is an ordered sequence of values.
type Array []Value

// String is a JSON string value.
type String string

// Number is a JSON number kept as its verbatim source literal, so that
// serialization reproduces the input exactly (no float re-formatting).
type Number string

// Bool is a JSON boolean value.
type Bool bool

// Null is the JSON null value.
type Null struct{}

func (Object) Kind() Kind { return KindObject }
func (Array) Kind() Kind  { return KindArray }
func (String) Kind() Kind { return KindString }
func (Number) Kind() Kind { return KindNumber }
func (Bool) Kind() Kind   { return KindBool }
func (Null) Kind() Kind   { return KindNull }

// Get returns the value for key and whether it was present.
func (o Object) Get(key string) (Value, bool) {
	for _, m := range o {
		if m.Key == key {
			return m.Value, true
		}
	}
	return nil, false
}

// Keys returns the object's keys in insertion order.
func (o Object) Keys() []string {
	keys := make([]string, len(o))
	for i, m := range o {
		keys[i] = m.Key
	}
	return keys
}

// Set replaces the value for key if present, otherwise appends a new
// member. Insertion order of existing keys is preserved.
func (o *Object) Set(key string, v Value) {
	for i, m := range *o {
		if m.Key == key {
			(*o)[i].Value = v
			return
		}
	}
	*o = append(*o, Member{Key: key, Value: v})
}

// Float64 returns the number as a float64.
func (n Number) Float64() (float64, error) {
	return strconv.ParseFloat(string(n), 64)
}

// Int64 returns the number as an int64.
func (n Number) Int64() (int64, error) {
	return strconv.ParseInt(string(n), 10, 64)
}

// Literal renders a leaf value the way it appears in JSON source, except
// strings, which are returned unquoted for display. Containers render as
// "{}" and "[]".
func Literal(v Value) string {
	switch val := v.(type) {
	case Object:
		return "{}"
	case Array:
		return "[]"
	case String:
		return string(val)
	case Number:
		return string(val)
	case Bool:
		if val {
			return "true"
		}
		return "false"
	case Null:
		return "null"
	}
	return ""
}

// Equal reports whether two values are structurally equal: same kinds,
// same key order, same array order, and equal leaf content. Numbers
// compare by literal, so 1 and 1.0 are distinct.
func Equal(a, b Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch av := a.(type) {
	case Object:
		bv := b.(Object)
		if len(av) != len(bv) {
			return false
		}
		for i := range av {
			if av[i].Key != bv[i].Key || !Equal(av[i].Value, bv[i].Value) {
				return false
			}
		}
		return true
	case Array:
		bv := b.(Array)
		if len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !Equal(av[i], bv[i]) {
				return false
			}
		}
		return true
	case String:
		return av == b.(String)
	case Number:
		return av == b.(Number)
	case Bool:
		return av == b.(Bool)
	case Null:
		return true
	}
	return false
}

// quote renders s as a JSON string literal.
func quote(s string) string {
	data, _ := json.Marshal(s)
	return string(data)
}
