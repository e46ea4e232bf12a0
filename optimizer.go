package rulecore

// staticOptimize performs the one constant-folding pass described in spec
// §4.4/§9: any subtree whose value cannot change between evaluations —
// because it touches no input data, no context-relative scope, and no
// operator whose result can legitimately differ run to run — is replaced by
// its computed Value at compile time. Custom operators are never folded: the
// optimizer runs before a registry exists for a given Evaluator, so it
// cannot know whether a custom function is pure.
func staticOptimize(n *CompiledNode, customNames map[string]bool) *CompiledNode {
	switch n.kind {
	case nodeValue:
		return n

	case nodeArray:
		allLiteral := true
		for i, e := range n.elements {
			n.elements[i] = staticOptimize(e, customNames)
			if !n.elements[i].IsLiteral() {
				allLiteral = false
			}
		}
		if !allLiteral {
			return n
		}
		vals := make([]Value, len(n.elements))
		for i, e := range n.elements {
			vals[i] = e.LiteralValue()
		}
		return valueNode(Arr(vals...))

	case nodeStructured:
		allLiteral := true
		for i, f := range n.fields {
			n.fields[i].node = staticOptimize(f.node, customNames)
			if !n.fields[i].node.IsLiteral() {
				allLiteral = false
			}
		}
		if !allLiteral {
			return n
		}
		pairs := make([]KV, len(n.fields))
		for i, f := range n.fields {
			pairs[i] = KV{Key: f.key, Val: f.node.LiteralValue()}
		}
		return valueNode(Obj(pairs...))

	case nodeCustom:
		for i, a := range n.args {
			n.args[i] = staticOptimize(a, customNames)
		}
		return n

	case nodeBuiltin:
		for i, a := range n.args {
			n.args[i] = staticOptimize(a, customNames)
		}
		if !foldableOp(n.opcode) {
			return n
		}
		for _, a := range n.args {
			if !a.IsLiteral() {
				return n
			}
		}
		return foldConstant(n)

	default:
		return n
	}
}

// foldableOp excludes opcodes whose result legitimately depends on
// something outside the compiled tree (input data, the ambient clock) or
// that have an observable side effect that folding would erase.
func foldableOp(op OpCode) bool {
	switch op {
	case OpVar, OpVal, OpExists, OpMissing, OpMissingSome:
		return false
	case OpLog:
		return false
	case OpNow:
		return false
	default:
		return true
	}
}

// foldConstant evaluates a builtin node whose arguments are all literals
// against an empty context and no custom registry. If evaluation errors —
// e.g. a division by zero that should surface at run time with full error
// context — the node is left unfolded rather than baking a compile-time
// failure into the tree.
func foldConstant(n *CompiledNode) *CompiledNode {
	ev := NewEvaluator(DefaultConfig())
	stack := NewContextStack(Null())
	v, err := ev.evalNode(n, stack)
	if err != nil {
		return n
	}
	return valueNode(v)
}
