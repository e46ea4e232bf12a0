package rulecore

// evalEquals implements == (spec §4.2/§4.3).
func evalEquals(ev *Evaluator, args []*CompiledNode, ctx *ContextStack) (Value, error) {
	a, b, err := evalPair(ev, "==", args, ctx)
	if err != nil {
		return Value{}, err
	}
	return Bool(looseEqual(a, b, ev.cfg)), nil
}

// evalStrictEquals implements ===.
func evalStrictEquals(ev *Evaluator, args []*CompiledNode, ctx *ContextStack) (Value, error) {
	a, b, err := evalPair(ev, "===", args, ctx)
	if err != nil {
		return Value{}, err
	}
	return Bool(strictEqual(a, b)), nil
}

// evalNotEquals implements !=.
func evalNotEquals(ev *Evaluator, args []*CompiledNode, ctx *ContextStack) (Value, error) {
	a, b, err := evalPair(ev, "!=", args, ctx)
	if err != nil {
		return Value{}, err
	}
	return Bool(!looseEqual(a, b, ev.cfg)), nil
}

// evalStrictNotEquals implements !==.
func evalStrictNotEquals(ev *Evaluator, args []*CompiledNode, ctx *ContextStack) (Value, error) {
	a, b, err := evalPair(ev, "!==", args, ctx)
	if err != nil {
		return Value{}, err
	}
	return Bool(!strictEqual(a, b)), nil
}

func evalPair(ev *Evaluator, op string, args []*CompiledNode, ctx *ContextStack) (Value, Value, error) {
	if len(args) != 2 {
		return Value{}, Value{}, errArgs(op, "requires exactly 2 arguments")
	}
	a, err := ev.evalNode(args[0], ctx)
	if err != nil {
		return Value{}, Value{}, err
	}
	b, err := ev.evalNode(args[1], ctx)
	if err != nil {
		return Value{}, Value{}, err
	}
	return a, b, nil
}

// evalGreaterThan implements > (binary) and, by generalising the 3-arg
// range form the spec specifies for < and <=, the chained form a > b > c.
func evalGreaterThan(ev *Evaluator, args []*CompiledNode, ctx *ContextStack) (Value, error) {
	return chainedCompare(ev, "gt", args, ctx, func(cmp int) bool { return cmp > 0 })
}

func evalGreaterThanEqual(ev *Evaluator, args []*CompiledNode, ctx *ContextStack) (Value, error) {
	return chainedCompare(ev, "gte", args, ctx, func(cmp int) bool { return cmp >= 0 })
}

// evalLessThan implements < and its n-ary range-check form, e.g.
// {"<":[1,2,3]} tests 1 < 2 < 3 (spec §4.3).
func evalLessThan(ev *Evaluator, args []*CompiledNode, ctx *ContextStack) (Value, error) {
	return chainedCompare(ev, "lt", args, ctx, func(cmp int) bool { return cmp < 0 })
}

func evalLessThanEqual(ev *Evaluator, args []*CompiledNode, ctx *ContextStack) (Value, error) {
	return chainedCompare(ev, "lte", args, ctx, func(cmp int) bool { return cmp <= 0 })
}

// chainedCompare evaluates all operands left-to-right, then checks ok(cmp)
// for every consecutive pair; any pair that fails short-circuits to false
// without checking the remaining pairs.
func chainedCompare(ev *Evaluator, op string, args []*CompiledNode, ctx *ContextStack, ok func(int) bool) (Value, error) {
	if len(args) < 2 {
		return Value{}, errArgs(op, "requires at least 2 arguments")
	}
	vals, err := ev.evalAllNodes(args, ctx)
	if err != nil {
		return Value{}, err
	}
	for i := 0; i+1 < len(vals); i++ {
		cmp, comparable, err := compareOrdering(vals[i], vals[i+1], ev.cfg)
		if err != nil {
			return Value{}, err
		}
		if !comparable || !ok(cmp) {
			return Bool(false), nil
		}
	}
	return Bool(true), nil
}
