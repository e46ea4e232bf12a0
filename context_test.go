package rulecore

import "testing"

func TestContextStackLevels(t *testing.T) {
	stack := NewContextStack(Str("root"))
	stack.Push(newFrame(Str("child")))
	stack.Push(newFrame(Str("grandchild")))

	if stack.Current().data.StringValue() != "grandchild" {
		t.Fatalf("expected current to be grandchild, got %v", stack.Current().data)
	}

	f, err := stack.GetAtLevel(1)
	if err != nil || f.data.StringValue() != "child" {
		t.Errorf("expected level 1 to be child, got %v, %v", f, err)
	}

	// negative levels mean the same distance up as their positive counterpart.
	f, err = stack.GetAtLevel(-1)
	if err != nil || f.data.StringValue() != "child" {
		t.Errorf("expected level -1 to be child, got %v, %v", f, err)
	}

	f, err = stack.GetAtLevel(2)
	if err != nil || f.data.StringValue() != "root" {
		t.Errorf("expected level 2 to be root, got %v, %v", f, err)
	}

	if _, err := stack.GetAtLevel(3); err == nil {
		t.Fatal("expected InvalidContextLevel for out-of-range level")
	}

	stack.Pop()
	stack.Pop()
	if stack.Len() != 1 {
		t.Errorf("expected stack to shrink back to 1, got %d", stack.Len())
	}
}

func TestContextStackIndexMetadata(t *testing.T) {
	stack := NewContextStack(Null())
	stack.Push(ContextFrame{data: Int(7), hasIndex: true, index: 3})

	idx, ok := stack.GetIndex(0)
	if !ok || idx != 3 {
		t.Errorf("expected index 3, got %v, %v", idx, ok)
	}

	if _, ok := stack.GetIndex(1); ok {
		t.Error("expected root frame to have no index metadata")
	}
}
