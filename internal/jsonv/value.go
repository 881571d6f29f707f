// Package jsonv represents arbitrary JSON as an explicit tagged union.
//
// Agent payloads arrive with unconstrained shapes. Rather than passing
// map[string]any around and type-switching at every call site, values are
// parsed once into Value, whose Kind says exactly what it holds. Objects
// keep their keys in declaration order so that searches and pretty-printing
// are deterministic and match the source document.
package jsonv

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Kind identifies which member of the union a Value holds.
type Kind uint8

const (
	// KindUndefined is the zero Kind: the value is absent, not null.
	KindUndefined Kind = iota
	KindNull
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

func (k Kind) String() string {
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
		return "undefined"
	}
}

// Value is one JSON value. The zero Value is undefined (absent).
type Value struct {
	kind Kind
	b    bool
	n    float64
	s    string
	a    []Value
	o    Object
}

// Null returns the JSON null value.
func Null() Value { return Value{kind: KindNull} }

// Bool wraps a boolean.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Number wraps a float64. Callers must not pass NaN or infinities.
func Number(n float64) Value { return Value{kind: KindNumber, n: n} }

// String wraps a string.
func String(s string) Value { return Value{kind: KindString, s: s} }

// Array wraps a list of values.
func Array(items ...Value) Value {
	if items == nil {
		items = []Value{}
	}
	return Value{kind: KindArray, a: items}
}

// FromObject wraps an Object. A zero Object yields an empty object value.
func FromObject(o Object) Value {
	if o.IsZero() {
		o = NewObject()
	}
	return Value{kind: KindObject, o: o}
}

// Kind reports the union member held by v.
func (v Value) Kind() Kind { return v.kind }

// IsDefined reports whether v holds anything, including null.
func (v Value) IsDefined() bool { return v.kind != KindUndefined }

// IsNull reports whether v is JSON null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// AsBool returns the boolean held by v.
func (v Value) AsBool() (bool, bool) { return v.b, v.kind == KindBool }

// AsNumber returns the number held by v. Strings are never coerced. A number
// literal too large for a float64 reports false.
func (v Value) AsNumber() (float64, bool) { return v.n, v.kind == KindNumber && v.s == "" }

// AsString returns the string held by v.
func (v Value) AsString() (string, bool) { return v.s, v.kind == KindString }

// AsArray returns the elements held by v.
func (v Value) AsArray() ([]Value, bool) { return v.a, v.kind == KindArray }

// AsObject returns the object held by v.
func (v Value) AsObject() (Object, bool) { return v.o, v.kind == KindObject }

// Get returns the member named key when v is an object, else undefined.
func (v Value) Get(key string) Value {
	if v.kind != KindObject {
		return Value{}
	}
	return v.o.Lookup(key)
}

// Path follows a chain of object keys. Any miss yields undefined.
func (v Value) Path(keys ...string) Value {
	cur := v
	for _, k := range keys {
		cur = cur.Get(k)
		if !cur.IsDefined() {
			return Value{}
		}
	}
	return cur
}

// Object is an insertion-ordered JSON object. The zero Object is "absent";
// use NewObject for an empty, writable one.
type Object struct {
	m *orderedmap.OrderedMap[string, Value]
}

// NewObject returns an empty object ready for Set.
func NewObject() Object {
	return Object{m: orderedmap.New[string, Value]()}
}

// IsZero reports whether o is the absent object.
func (o Object) IsZero() bool { return o.m == nil }

// Len returns the number of members.
func (o Object) Len() int {
	if o.m == nil {
		return 0
	}
	return o.m.Len()
}

// Get returns the member named key and whether it exists.
func (o Object) Get(key string) (Value, bool) {
	if o.m == nil {
		return Value{}, false
	}
	return o.m.Get(key)
}

// Lookup returns the member named key, or undefined.
func (o Object) Lookup(key string) Value {
	v, _ := o.Get(key)
	return v
}

// Has reports whether key is present.
func (o Object) Has(key string) bool {
	_, ok := o.Get(key)
	return ok
}

// Set assigns key. An existing key keeps its position. Set on the zero
// Object panics; build objects with NewObject.
func (o Object) Set(key string, v Value) {
	o.m.Set(key, v)
}

// Keys returns member names in declaration order.
func (o Object) Keys() []string {
	keys := make([]string, 0, o.Len())
	o.Each(func(k string, _ Value) bool {
		keys = append(keys, k)
		return true
	})
	return keys
}

// Each visits members in declaration order until fn returns false.
func (o Object) Each(fn func(key string, v Value) bool) {
	if o.m == nil {
		return
	}
	for pair := o.m.Oldest(); pair != nil; pair = pair.Next() {
		if !fn(pair.Key, pair.Value) {
			return
		}
	}
}

// Clone returns a shallow copy with the same key order.
func (o Object) Clone() Object {
	out := NewObject()
	o.Each(func(k string, v Value) bool {
		out.Set(k, v)
		return true
	})
	return out
}

// Merge returns a new object holding base's members overlaid by over's.
// Keys from over win on collision; base's key order is kept and new keys
// from over are appended. Neither input is modified.
func Merge(base, over Object) Object {
	out := base.Clone()
	over.Each(func(k string, v Value) bool {
		out.Set(k, v)
		return true
	})
	return out
}

// Equal reports deep equality. Object member order is ignored.
func Equal(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindUndefined, KindNull:
		return true
	case KindBool:
		return a.b == b.b
	case KindNumber:
		return a.n == b.n && a.s == b.s
	case KindString:
		return a.s == b.s
	case KindArray:
		if len(a.a) != len(b.a) {
			return false
		}
		for i := range a.a {
			if !Equal(a.a[i], b.a[i]) {
				return false
			}
		}
		return true
	case KindObject:
		return ObjectsEqual(a.o, b.o)
	}
	return false
}

// ObjectsEqual reports deep equality of two objects, ignoring member order.
func ObjectsEqual(a, b Object) bool {
	if a.Len() != b.Len() {
		return false
	}
	equal := true
	a.Each(func(k string, av Value) bool {
		bv, ok := b.Get(k)
		if !ok || !Equal(av, bv) {
			equal = false
		}
		return equal
	})
	return equal
}
