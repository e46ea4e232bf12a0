package rulecore

import (
	"strconv"
	"strings"
)

// Kind is the tag of the Value sum type (spec §3: Null, Bool, Number,
// String, Array, Object). Number is split internally into Integer and
// Float subtypes so arithmetic can detect overflow and promote, but both
// report the same wire-level type name ("number").
type Kind int8

const (
	KindNull Kind = iota
	KindBool
	KindInteger
	KindFloat
	KindString
	KindArray
	KindObject

	numKinds
)

var kindStrings = [numKinds]string{
	"null", "boolean", "number", "number", "string", "array", "object",
}

// TypeName returns the exact wire-level string the "type" operator returns.
func (k Kind) TypeName() string {
	if k < 0 || k >= numKinds {
		return "unknown"
	}
	return kindStrings[k]
}

type member struct {
	key string
	val Value
}

// Value is a tagged union over JSON values. It is cheap to clone: arrays
// and objects share their backing slices with any clone via Go's normal
// slice-header semantics, mirroring the spec's "cloning is cheap" contract.
// Its zero value is Null.
type Value struct {
	kind Kind
	i    int64
	f    float64
	s    string
	b    bool
	arr  []Value
	obj  []member
}

// Null returns the null Value.
func Null() Value { return Value{kind: KindNull} }

// Bool returns a boolean Value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Int returns an Integer-subtype number Value.
func Int(i int64) Value { return Value{kind: KindInteger, i: i} }

// Float returns a Float-subtype number Value. An input like 5.0 stays a
// Float through round-trip — the model intentionally does not normalise
// it to Integer (spec §4.1).
func Float(f float64) Value { return Value{kind: KindFloat, f: f} }

// Str returns a string Value.
func Str(s string) Value { return Value{kind: KindString, s: s} }

// Arr returns an array Value over the given elements (not copied).
func Arr(items ...Value) Value {
	if items == nil {
		items = []Value{}
	}
	return Value{kind: KindArray, arr: items}
}

// Obj returns an object Value. Keys must already be distinct; insertion
// order is preserved for output and is not semantically significant for
// equality (spec §3).
func Obj(pairs ...KV) Value {
	members := make([]member, len(pairs))
	for i, p := range pairs {
		members[i] = member{key: p.Key, val: p.Val}
	}
	return Value{kind: KindObject, obj: members}
}

// KV is a key/value pair used to build object Values with Obj.
type KV struct {
	Key string
	Val Value
}

func (v Value) Kind() Kind        { return v.kind }
func (v Value) TypeName() string  { return v.kind.TypeName() }
func (v Value) IsNull() bool      { return v.kind == KindNull }
func (v Value) IsBool() bool      { return v.kind == KindBool }
func (v Value) IsNumber() bool    { return v.kind == KindInteger || v.kind == KindFloat }
func (v Value) IsInteger() bool   { return v.kind == KindInteger }
func (v Value) IsFloat() bool     { return v.kind == KindFloat }
func (v Value) IsString() bool    { return v.kind == KindString }
func (v Value) IsArray() bool     { return v.kind == KindArray }
func (v Value) IsObject() bool    { return v.kind == KindObject }

// BoolValue returns the underlying bool, or false if not a Bool.
func (v Value) BoolValue() bool { return v.b }

// IntValue returns the underlying int64. If the Value is a Float, it
// truncates toward zero; this is an internal accessor, not a coercion
// policy entry point (see coercion.go for that).
func (v Value) IntValue() int64 {
	switch v.kind {
	case KindInteger:
		return v.i
	case KindFloat:
		return int64(v.f)
	default:
		return 0
	}
}

// FloatValue returns the underlying float64 view of a number Value.
func (v Value) FloatValue() float64 {
	switch v.kind {
	case KindInteger:
		return float64(v.i)
	case KindFloat:
		return v.f
	default:
		return 0
	}
}

// StringValue returns the underlying string, or "" if not a String.
func (v Value) StringValue() string { return v.s }

// ArrayValue returns the underlying element slice, or nil if not an Array.
func (v Value) ArrayValue() []Value { return v.arr }

// Keys returns an object's keys in insertion order, or nil if not an Object.
func (v Value) Keys() []string {
	if v.kind != KindObject {
		return nil
	}
	keys := make([]string, len(v.obj))
	for i, m := range v.obj {
		keys[i] = m.key
	}
	return keys
}

// Get looks up a key in an Object Value. ok is false if v is not an
// Object or the key is absent.
func (v Value) Get(key string) (Value, bool) {
	if v.kind != KindObject {
		return Value{}, false
	}
	for _, m := range v.obj {
		if m.key == key {
			return m.val, true
		}
	}
	return Value{}, false
}

// Len reports the length of an Array, Object, or String Value, and 0 for
// every other kind.
func (v Value) Len() int {
	switch v.kind {
	case KindArray:
		return len(v.arr)
	case KindObject:
		return len(v.obj)
	case KindString:
		return len(v.s)
	default:
		return 0
	}
}

// Equal reports structural equality: same kind family and same contents,
// comparing Integer and Float subtypes by numeric value (spec §3: "Equality
// of Number ignores the subtype distinction"). Arrays and objects compare
// element-wise; object comparison ignores key order.
func (v Value) Equal(other Value) bool {
	if v.IsNumber() && other.IsNumber() {
		return v.FloatValue() == other.FloatValue()
	}
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.b == other.b
	case KindString:
		return v.s == other.s
	case KindArray:
		if len(v.arr) != len(other.arr) {
			return false
		}
		for i := range v.arr {
			if !v.arr[i].Equal(other.arr[i]) {
				return false
			}
		}
		return true
	case KindObject:
		if len(v.obj) != len(other.obj) {
			return false
		}
		for _, m := range v.obj {
			ov, ok := other.Get(m.key)
			if !ok || !m.val.Equal(ov) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// SameType reports whether both values are Integer/Float (numeric), or
// are exactly the same Kind.
func (v Value) SameType(other Value) bool {
	if v.IsNumber() && other.IsNumber() {
		return true
	}
	return v.kind == other.kind
}

// String renders a debug representation; NOT valid JSON for strings
// (they aren't re-escaped beyond Go's %q), mirroring the teacher's own
// Value.String() which carries the identical caveat.
func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return "null"
	case KindBool:
		if v.b {
			return "true"
		}
		return "false"
	case KindInteger:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindString:
		return strconv.Quote(v.s)
	case KindArray:
		var sb strings.Builder
		sb.WriteByte('[')
		for i, e := range v.arr {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(e.String())
		}
		sb.WriteByte(']')
		return sb.String()
	case KindObject:
		var sb strings.Builder
		sb.WriteByte('{')
		for i, m := range v.obj {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(strconv.Quote(m.key))
			sb.WriteString(": ")
			sb.WriteString(m.val.String())
		}
		sb.WriteByte('}')
		return sb.String()
	default:
		return "<unknown>"
	}
}

// accessPath implements dotted-path access (spec §4.1): traverses objects
// by key and arrays by stringified non-negative index. Returns the found
// Value and true, or a zero Value and false if the path doesn't resolve.
func accessPath(v Value, path string) (Value, bool) {
	if path == "" {
		return v, true
	}
	return accessPathArray(v, strings.Split(path, "."))
}

// accessPathArray implements the array-of-components form of path access.
// A numeric component indexes arrays, or is stringified as an object key
// when the current value is an object.
func accessPathArray(v Value, components []string) (Value, bool) {
	cur := v
	for _, c := range components {
		if c == "" {
			continue
		}
		switch cur.kind {
		case KindObject:
			next, ok := cur.Get(c)
			if !ok {
				return Value{}, false
			}
			cur = next
		case KindArray:
			idx, err := strconv.Atoi(c)
			if err != nil || idx < 0 || idx >= len(cur.arr) {
				return Value{}, false
			}
			cur = cur.arr[idx]
		default:
			return Value{}, false
		}
	}
	return cur, true
}
