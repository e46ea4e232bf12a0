package rulecore

import (
	"fmt"
	"testing"
)

func TestTypeName(t *testing.T) {
	for _, test := range []struct {
		input    Kind
		expected string
	}{
		{KindNull, "null"},
		{KindBool, "boolean"},
		{KindInteger, "number"},
		{KindFloat, "number"},
		{KindString, "string"},
		{KindArray, "array"},
		{KindObject, "object"},
		{numKinds, "unknown"},
		{-1, "unknown"},
	} {
		t.Run(fmt.Sprintf("%v", test.input), func(t *testing.T) {
			if actual := test.input.TypeName(); actual != test.expected {
				t.Errorf("expected %v got %v", test.expected, actual)
			}
		})
	}
}

func TestValueEqual(t *testing.T) {
	for _, test := range []struct {
		name     string
		a, b     Value
		expected bool
	}{
		{"int-float same value", Int(5), Float(5.0), true},
		{"int-float different", Int(5), Float(5.1), false},
		{"string match", Str("a"), Str("a"), true},
		{"string mismatch", Str("a"), Str("b"), false},
		{"array structural", Arr(Int(1), Int(2)), Arr(Int(1), Int(2)), true},
		{"array order matters", Arr(Int(1), Int(2)), Arr(Int(2), Int(1)), false},
		{"object key order irrelevant", Obj(KV{"a", Int(1)}, KV{"b", Int(2)}), Obj(KV{"b", Int(2)}, KV{"a", Int(1)}), true},
		{"null equal", Null(), Null(), true},
		{"different kinds", Str("1"), Int(1), false},
	} {
		t.Run(test.name, func(t *testing.T) {
			if actual := test.a.Equal(test.b); actual != test.expected {
				t.Errorf("expected %v got %v", test.expected, actual)
			}
		})
	}
}

func TestAccessPath(t *testing.T) {
	data := Obj(
		KV{"a", Obj(KV{"b", Arr(Int(10), Int(20), Int(30))})},
	)
	for _, test := range []struct {
		name     string
		path     string
		expected Value
		found    bool
	}{
		{"nested object", "a.b", Arr(Int(10), Int(20), Int(30)), true},
		{"array index", "a.b.1", Int(20), true},
		{"missing", "a.c", Value{}, false},
		{"empty path returns root", "", data, true},
	} {
		t.Run(test.name, func(t *testing.T) {
			v, ok := accessPath(data, test.path)
			if ok != test.found {
				t.Fatalf("expected found=%v got %v", test.found, ok)
			}
			if ok && !v.Equal(test.expected) {
				t.Errorf("expected %v got %v", test.expected, v)
			}
		})
	}
}

func TestFromAnyToAnyRoundTrip(t *testing.T) {
	in := map[string]any{
		"name": "rule",
		"n":    int64(42),
		"tags": []any{"a", "b"},
	}
	v := FromAny(in)
	out := v.ToAny()
	back, ok := out.(map[string]any)
	if !ok {
		t.Fatalf("expected map[string]any, got %T", out)
	}
	if back["name"] != "rule" || back["n"] != int64(42) {
		t.Errorf("round trip mismatch: %#v", back)
	}
}
