package rulecore

import "testing"

// TestNaNIgnoreValueScenario8 exercises the canonical scenario for
// NaNIgnoreValue: a non-coercible operand inside a sum drops out rather
// than erroring, substituting the fold's identity element.
func TestNaNIgnoreValueScenario8(t *testing.T) {
	cfg := DefaultConfig(WithNaNHandling(NaNIgnoreValue))
	node, err := Compile(map[string]any{"+": []any{1, "not_a_number", 2}}, nil, cfg)
	if err != nil {
		t.Fatalf("compile error: %v", err)
	}
	ev := NewEvaluator(cfg)
	v, err := ev.Evaluate(node, Null())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !v.Equal(Int(3)) {
		t.Errorf("expected 3, got %v", v)
	}
}

func TestNaNCoerceToZero(t *testing.T) {
	cfg := DefaultConfig(WithNaNHandling(NaNCoerceToZero))
	node, err := Compile(map[string]any{"+": []any{1, "not_a_number", 2}}, nil, cfg)
	if err != nil {
		t.Fatalf("compile error: %v", err)
	}
	ev := NewEvaluator(cfg)
	v, err := ev.Evaluate(node, Null())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !v.Equal(Int(3)) {
		t.Errorf("expected 3 (not_a_number coerced to 0), got %v", v)
	}
}

func TestNaNReturnNull(t *testing.T) {
	cfg := DefaultConfig(WithNaNHandling(NaNReturnNull))
	node, err := Compile(map[string]any{"+": []any{1, "not_a_number", 2}}, nil, cfg)
	if err != nil {
		t.Fatalf("compile error: %v", err)
	}
	ev := NewEvaluator(cfg)
	v, err := ev.Evaluate(node, Null())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !v.IsNull() {
		t.Errorf("expected null short-circuit, got %v", v)
	}
}

func TestNaNThrowErrorIsDefault(t *testing.T) {
	cfg := DefaultConfig()
	node, err := Compile(map[string]any{"+": []any{1, "not_a_number", 2}}, nil, cfg)
	if err != nil {
		t.Fatalf("compile error: %v", err)
	}
	ev := NewEvaluator(cfg)
	_, err = ev.Evaluate(node, Null())
	rerr, ok := err.(*Error)
	if !ok || rerr.Kind != KindNaNError {
		t.Fatalf("expected NaNError, got %#v", err)
	}
}
