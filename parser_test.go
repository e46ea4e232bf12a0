package rulecore

import "testing"

func mustCompile(t *testing.T, rule any) *CompiledNode {
	t.Helper()
	node, err := Compile(rule, nil, DefaultConfig())
	if err != nil {
		t.Fatalf("compile error: %v", err)
	}
	return node
}

func TestCompileLiteralArrayFolds(t *testing.T) {
	node := mustCompile(t, []any{1, 2, 3})
	if !node.IsLiteral() {
		t.Fatalf("expected literal array node, got kind %v", node.kind)
	}
	if node.LiteralValue().Len() != 3 {
		t.Errorf("expected length 3, got %d", node.LiteralValue().Len())
	}
}

func TestCompileVarWrapsScalarArg(t *testing.T) {
	node := mustCompile(t, map[string]any{"var": "a.b"})
	if node.kind != nodeBuiltin || node.opcode != OpVar {
		t.Fatalf("expected var builtin node, got %#v", node)
	}
	if len(node.args) != 1 {
		t.Fatalf("expected 1 arg, got %d", len(node.args))
	}
}

func TestCompileMultiKeyObjectErrorsByDefault(t *testing.T) {
	_, err := Compile(map[string]any{"a": 1, "b": 2}, nil, DefaultConfig())
	if err == nil {
		t.Fatal("expected error for multi-key object in permissive mode")
	}
}

func TestCompileMultiKeyObjectPreservesStructure(t *testing.T) {
	cfg := DefaultConfig(WithPreserveStructure(true))
	node, err := Compile(map[string]any{"a": 1, "b": map[string]any{"==": []any{map[string]any{"var": "x"}, 1}}}, nil, cfg)
	if err != nil {
		t.Fatalf("compile error: %v", err)
	}
	if node.kind != nodeStructured {
		t.Fatalf("expected structured node, got kind %v", node.kind)
	}
}

func TestCompileUnknownOperatorErrors(t *testing.T) {
	_, err := Compile(map[string]any{"frobnicate": []any{1}}, nil, DefaultConfig())
	if err == nil {
		t.Fatal("expected InvalidOperator error")
	}
	rerr, ok := err.(*Error)
	if !ok || rerr.Kind != KindInvalidOperator {
		t.Fatalf("expected KindInvalidOperator, got %#v", err)
	}
}

func TestCompilePreserveEscapesOperatorLookingObject(t *testing.T) {
	node := mustCompile(t, map[string]any{"preserve": map[string]any{"var": "a"}})
	if !node.IsLiteral() {
		t.Fatalf("expected preserve to compile to a literal, got kind %v", node.kind)
	}
	lit := node.LiteralValue()
	if !lit.IsObject() {
		t.Fatalf("expected preserved value to stay an object, got %v", lit.TypeName())
	}
}

func TestCompileCustomOperator(t *testing.T) {
	node, err := Compile(map[string]any{"double": 21}, map[string]bool{"double": true}, DefaultConfig())
	if err != nil {
		t.Fatalf("compile error: %v", err)
	}
	if node.kind != nodeCustom || node.name != "double" {
		t.Fatalf("expected custom node named double, got %#v", node)
	}
}
