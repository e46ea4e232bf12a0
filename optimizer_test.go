package rulecore

import "testing"

func TestStaticOptimizerFoldsPureArithmetic(t *testing.T) {
	node := mustCompile(t, map[string]any{"+": []any{1, 2, map[string]any{"*": []any{2, 3}}}})
	if !node.IsLiteral() {
		t.Fatalf("expected constant-folded literal, got kind %v", node.kind)
	}
	if !node.LiteralValue().Equal(Int(9)) {
		t.Errorf("expected 9, got %v", node.LiteralValue())
	}
}

func TestStaticOptimizerLeavesVarUnfolded(t *testing.T) {
	node := mustCompile(t, map[string]any{"+": []any{1, map[string]any{"var": "a"}}})
	if node.IsLiteral() {
		t.Fatalf("expected var-dependent node to stay dynamic, got literal %v", node.LiteralValue())
	}
}

func TestStaticOptimizerLeavesNowUnfolded(t *testing.T) {
	node := mustCompile(t, map[string]any{"now": []any{}})
	if node.IsLiteral() {
		t.Fatalf("expected now() to never be folded at compile time")
	}
}

func TestStaticOptimizerLeavesDivisionByZeroUnfolded(t *testing.T) {
	node := mustCompile(t, map[string]any{"/": []any{1, 0}})
	if node.IsLiteral() {
		t.Fatalf("expected a folding failure (div by zero) to leave the node dynamic")
	}
	ev := NewEvaluator(DefaultConfig())
	if _, err := ev.Evaluate(node, Null()); err == nil {
		t.Fatal("expected division by zero to surface at evaluation")
	}
}
