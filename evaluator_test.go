package rulecore

import (
	"fmt"
	"testing"
)

func evalRule(t *testing.T, rule any, data any) (Value, error) {
	t.Helper()
	node, err := Compile(rule, nil, DefaultConfig())
	if err != nil {
		return Value{}, err
	}
	ev := NewEvaluator(DefaultConfig())
	return ev.Evaluate(node, FromAny(data))
}

func TestVarLookup(t *testing.T) {
	for _, test := range []struct {
		name     string
		rule     any
		data     any
		expected Value
	}{
		{"simple", map[string]any{"var": "a"}, map[string]any{"a": 1}, Int(1)},
		{"dotted path", map[string]any{"var": "a.b"}, map[string]any{"a": map[string]any{"b": 2}}, Int(2)},
		{"missing returns null", map[string]any{"var": "z"}, map[string]any{"a": 1}, Null()},
		{"missing with default", map[string]any{"var": []any{"z", "fallback"}}, map[string]any{"a": 1}, Str("fallback")},
		{"empty path returns root", map[string]any{"var": ""}, map[string]any{"a": 1}, FromAny(map[string]any{"a": 1})},
	} {
		t.Run(test.name, func(t *testing.T) {
			v, err := evalRule(t, test.rule, test.data)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !v.Equal(test.expected) {
				t.Errorf("expected %v got %v", test.expected, v)
			}
		})
	}
}

func TestExistsAndMissing(t *testing.T) {
	data := map[string]any{"a": 1}

	v, err := evalRule(t, map[string]any{"exists": "a"}, data)
	if err != nil || !v.Equal(Bool(true)) {
		t.Errorf("expected exists a == true, got %v, %v", v, err)
	}

	v, err = evalRule(t, map[string]any{"missing": []any{"a", "b"}}, data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !v.Equal(Arr(Str("b"))) {
		t.Errorf("expected missing [b], got %v", v)
	}

	v, err = evalRule(t, map[string]any{"missing_some": []any{1, []any{"a", "b"}}}, data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !v.Equal(Arr()) {
		t.Errorf("expected missing_some empty (1 of 2 satisfied), got %v", v)
	}
}

func TestLogicalAndControl(t *testing.T) {
	for _, test := range []struct {
		name     string
		rule     any
		expected Value
	}{
		{"and short circuits", map[string]any{"and": []any{true, 0, true}}, Int(0)},
		{"and all truthy returns last", map[string]any{"and": []any{1, 2, 3}}, Int(3)},
		{"or short circuits", map[string]any{"or": []any{0, "", "x"}}, Str("x")},
		{"if chain", map[string]any{"if": []any{false, "a", false, "b", "c"}}, Str("c")},
		{"if fallthrough even", map[string]any{"if": []any{false, "a"}}, Null()},
		{"coalesce", map[string]any{"??": []any{nil, nil, "x"}}, Str("x")},
		{"not", map[string]any{"!": []any{0}}, Bool(true)},
		{"double not", map[string]any{"!!": []any{"hi"}}, Bool(true)},
	} {
		t.Run(test.name, func(t *testing.T) {
			v, err := evalRule(t, test.rule, nil)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !v.Equal(test.expected) {
				t.Errorf("expected %v got %v", test.expected, v)
			}
		})
	}
}

func TestArithmetic(t *testing.T) {
	for _, test := range []struct {
		name     string
		rule     any
		expected Value
	}{
		{"add n-ary", map[string]any{"+": []any{1, 2, 3}}, Int(6)},
		{"subtract unary", map[string]any{"-": []any{5}}, Int(-5)},
		{"subtract binary", map[string]any{"-": []any{5, 2}}, Int(3)},
		{"multiply", map[string]any{"*": []any{2, 3, 4}}, Int(24)},
		{"divide exact", map[string]any{"/": []any{10, 2}}, Int(5)},
		{"divide inexact", map[string]any{"/": []any{10, 4}}, Float(2.5)},
		{"modulo", map[string]any{"%": []any{10, 3}}, Int(1)},
		{"max", map[string]any{"max": []any{1, 5, 3}}, Int(5)},
		{"min", map[string]any{"min": []any{1, 5, 3}}, Int(1)},
		{"abs", map[string]any{"abs": -7}, Int(7)},
		{"ceil", map[string]any{"ceil": 1.2}, Int(2)},
		{"floor", map[string]any{"floor": 1.8}, Int(1)},
	} {
		t.Run(test.name, func(t *testing.T) {
			v, err := evalRule(t, test.rule, nil)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !v.Equal(test.expected) {
				t.Errorf("expected %v got %v", test.expected, v)
			}
		})
	}
}

func TestDivisionByZeroErrors(t *testing.T) {
	_, err := evalRule(t, map[string]any{"/": []any{1, 0}}, nil)
	rerr, ok := err.(*Error)
	if !ok || rerr.Kind != KindDivisionByZero {
		t.Fatalf("expected DivisionByZero, got %#v", err)
	}
}

func TestComparisonChains(t *testing.T) {
	for _, test := range []struct {
		name     string
		rule     any
		expected Value
	}{
		{"range true", map[string]any{"<": []any{1, 2, 3}}, Bool(true)},
		{"range false", map[string]any{"<": []any{1, 3, 2}}, Bool(false)},
		{"equality loose", map[string]any{"==": []any{"1", 1}}, Bool(true)},
		{"equality strict false", map[string]any{"===": []any{"1", 1}}, Bool(false)},
	} {
		t.Run(test.name, func(t *testing.T) {
			v, err := evalRule(t, test.rule, nil)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !v.Equal(test.expected) {
				t.Errorf("expected %v got %v", test.expected, v)
			}
		})
	}
}

func TestStringOperators(t *testing.T) {
	for _, test := range []struct {
		name     string
		rule     any
		expected Value
	}{
		{"cat", map[string]any{"cat": []any{"a", 1, true}}, Str("a1true")},
		{"substr positive", map[string]any{"substr": []any{"hello", 1, 3}}, Str("ell")},
		{"substr negative start", map[string]any{"substr": []any{"hello", -3}}, Str("llo")},
		{"substr negative length", map[string]any{"substr": []any{"hello", 0, -2}}, Str("hel")},
		{"in string", map[string]any{"in": []any{"ell", "hello"}}, Bool(true)},
		{"in array", map[string]any{"in": []any{2, []any{1, 2, 3}}}, Bool(true)},
		{"length string", map[string]any{"length": "hello"}, Int(5)},
		{"length array", map[string]any{"length": []any{[]any{1, 2, 3}}}, Int(3)},
		{"starts_with", map[string]any{"starts_with": []any{"hello", "he"}}, Bool(true)},
		{"split", map[string]any{"split": []any{"a,b,c", ","}}, Arr(Str("a"), Str("b"), Str("c"))},
	} {
		t.Run(test.name, func(t *testing.T) {
			v, err := evalRule(t, test.rule, nil)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !v.Equal(test.expected) {
				t.Errorf("expected %v got %v", test.expected, v)
			}
		})
	}
}

func TestArrayIterationOperators(t *testing.T) {
	data := map[string]any{"items": []any{1, 2, 3, 4}}

	v, err := evalRule(t, map[string]any{"map": []any{
		map[string]any{"var": "items"},
		map[string]any{"*": []any{map[string]any{"var": ""}, 2}},
	}}, data)
	if err != nil || !v.Equal(Arr(Int(2), Int(4), Int(6), Int(8))) {
		t.Errorf("map mismatch: %v, %v", v, err)
	}

	v, err = evalRule(t, map[string]any{"filter": []any{
		map[string]any{"var": "items"},
		map[string]any{"%": []any{map[string]any{"var": ""}, 2}},
	}}, data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// keeps odd entries (1 % 2 = 1 is truthy)
	if !v.Equal(Arr(Int(1), Int(3))) {
		t.Errorf("filter mismatch: %v", v)
	}

	v, err = evalRule(t, map[string]any{"reduce": []any{
		map[string]any{"var": "items"},
		map[string]any{"+": []any{map[string]any{"var": "current"}, map[string]any{"var": "accumulator"}}},
		0,
	}}, data)
	if err != nil || !v.Equal(Int(10)) {
		t.Errorf("reduce mismatch: %v, %v", v, err)
	}

	v, err = evalRule(t, map[string]any{"all": []any{
		map[string]any{"var": "items"},
		map[string]any{">": []any{map[string]any{"var": ""}, 0}},
	}}, data)
	if err != nil || !v.Equal(Bool(true)) {
		t.Errorf("all mismatch: %v, %v", v, err)
	}

	v, err = evalRule(t, map[string]any{"all": []any{[]any{}, true}}, nil)
	if err != nil || !v.Equal(Bool(false)) {
		t.Errorf("all on empty array should be false, got %v, %v", v, err)
	}

	v, err = evalRule(t, map[string]any{"none": []any{[]any{}, true}}, nil)
	if err != nil || !v.Equal(Bool(true)) {
		t.Errorf("none on empty array should be true, got %v, %v", v, err)
	}

	v, err = evalRule(t, map[string]any{"merge": []any{[]any{1, 2}, 3, []any{4}}}, nil)
	if err != nil || !v.Equal(Arr(Int(1), Int(2), Int(3), Int(4))) {
		t.Errorf("merge mismatch: %v, %v", v, err)
	}

	v, err = evalRule(t, map[string]any{"slice": []any{[]any{1, 2, 3, 4, 5}, 1, -1}}, nil)
	if err != nil || !v.Equal(Arr(Int(2), Int(3), Int(4))) {
		t.Errorf("slice mismatch: %v, %v", v, err)
	}
}

func TestSortOperator(t *testing.T) {
	v, err := evalRule(t, map[string]any{"sort": []any{[]any{3, 1, 2}}}, nil)
	if err != nil || !v.Equal(Arr(Int(1), Int(2), Int(3))) {
		t.Errorf("sort ascending mismatch: %v, %v", v, err)
	}
	v, err = evalRule(t, map[string]any{"sort": []any{[]any{3, 1, 2}, true}}, nil)
	if err != nil || !v.Equal(Arr(Int(3), Int(2), Int(1))) {
		t.Errorf("sort descending mismatch: %v, %v", v, err)
	}
}

func TestThrowAndTry(t *testing.T) {
	v, err := evalRule(t, map[string]any{"try": []any{
		map[string]any{"throw": "boom"},
		map[string]any{"var": "type"},
	}}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !v.Equal(Str("boom")) {
		t.Errorf("expected recovered type 'boom', got %v", v)
	}

	_, err = evalRule(t, map[string]any{"throw": "uncaught"}, nil)
	rerr, ok := err.(*Error)
	if !ok || rerr.Kind != KindThrownError {
		t.Fatalf("expected ThrownError, got %#v", err)
	}
}

func TestTypeOperator(t *testing.T) {
	for _, test := range []struct {
		rule     any
		expected Value
	}{
		{map[string]any{"type": "hi"}, Str("string")},
		{map[string]any{"type": 1}, Str("number")},
		{map[string]any{"type": true}, Str("boolean")},
		{map[string]any{"type": []any{[]any{1}}}, Str("array")},
	} {
		t.Run(fmt.Sprintf("%v", test.rule), func(t *testing.T) {
			v, err := evalRule(t, test.rule, nil)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !v.Equal(test.expected) {
				t.Errorf("expected %v got %v", test.expected, v)
			}
		})
	}
}

func TestCustomOperators(t *testing.T) {
	cfg := DefaultConfig()
	node, err := Compile(map[string]any{"double": map[string]any{"var": "a"}}, map[string]bool{"double": true}, cfg)
	if err != nil {
		t.Fatalf("compile error: %v", err)
	}
	ev := NewEvaluator(cfg)
	ev.RegisterCustomOperatorSimple("double", func(args []Value) (Value, error) {
		return Int(args[0].IntValue() * 2), nil
	})
	v, err := ev.Evaluate(node, FromAny(map[string]any{"a": 21}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !v.Equal(Int(42)) {
		t.Errorf("expected 42, got %v", v)
	}
}

func TestContextStackDisciplineAcrossError(t *testing.T) {
	rule := map[string]any{"map": []any{
		[]any{1, 2},
		map[string]any{"frobnicate": map[string]any{"var": ""}},
	}}
	node, err := Compile(rule, map[string]bool{"frobnicate": true}, DefaultConfig())
	if err != nil {
		t.Fatalf("compile error: %v", err)
	}
	ev := NewEvaluator(DefaultConfig())
	stack := NewContextStack(Null())
	if _, err := ev.evalNode(node, stack); err == nil {
		t.Fatal("expected error from unregistered custom operator inside map")
	}
	if stack.Len() != 1 {
		t.Errorf("expected stack to unwind back to depth 1, got %d", stack.Len())
	}
}
