package rulecore

// evalNot implements ! (spec §4.3): truthiness-coerced logical negation.
func evalNot(ev *Evaluator, args []*CompiledNode, ctx *ContextStack) (Value, error) {
	if len(args) != 1 {
		return Value{}, errArgs("!", "requires exactly 1 argument")
	}
	v, err := ev.evalNode(args[0], ctx)
	if err != nil {
		return Value{}, err
	}
	return Bool(!ev.truthy(v)), nil
}

// evalDoubleNot implements !! (spec §4.3): truthiness coercion to Bool.
func evalDoubleNot(ev *Evaluator, args []*CompiledNode, ctx *ContextStack) (Value, error) {
	if len(args) != 1 {
		return Value{}, errArgs("!!", "requires exactly 1 argument")
	}
	v, err := ev.evalNode(args[0], ctx)
	if err != nil {
		return Value{}, err
	}
	return Bool(ev.truthy(v)), nil
}

// evalAnd implements and (spec §4.5): short-circuits at the first falsy
// operand, returning it as-is (not coerced to Bool); returns the last
// operand if every one is truthy.
func evalAnd(ev *Evaluator, args []*CompiledNode, ctx *ContextStack) (Value, error) {
	result := Bool(true)
	for _, a := range args {
		v, err := ev.evalNode(a, ctx)
		if err != nil {
			return Value{}, err
		}
		result = v
		if !ev.truthy(v) {
			return v, nil
		}
	}
	return result, nil
}

// evalOr implements or (spec §4.5): mirrors evalAnd with truthy/falsy swapped.
func evalOr(ev *Evaluator, args []*CompiledNode, ctx *ContextStack) (Value, error) {
	result := Bool(false)
	for _, a := range args {
		v, err := ev.evalNode(a, ctx)
		if err != nil {
			return Value{}, err
		}
		result = v
		if ev.truthy(v) {
			return v, nil
		}
	}
	return result, nil
}

// evalIf implements if/?: (spec §4.3): N-ary chained if/then/elif/.../else.
// An odd trailing argument is the else branch; falling through an even
// count with no branch taken returns Null. Only the chosen branch is
// evaluated.
func evalIf(ev *Evaluator, args []*CompiledNode, ctx *ContextStack) (Value, error) {
	i := 0
	for i+1 < len(args) {
		cond, err := ev.evalNode(args[i], ctx)
		if err != nil {
			return Value{}, err
		}
		if ev.truthy(cond) {
			return ev.evalNode(args[i+1], ctx)
		}
		i += 2
	}
	if i < len(args) {
		return ev.evalNode(args[i], ctx)
	}
	return Null(), nil
}

// evalCoalesce implements ?? (spec §4.3): returns the first operand that is
// not Null, evaluating operands left-to-right and stopping there.
func evalCoalesce(ev *Evaluator, args []*CompiledNode, ctx *ContextStack) (Value, error) {
	for _, a := range args {
		v, err := ev.evalNode(a, ctx)
		if err != nil {
			return Value{}, err
		}
		if !v.IsNull() {
			return v, nil
		}
	}
	return Null(), nil
}
