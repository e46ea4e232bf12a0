package rulecore

import "sort"

// withFrame pushes frame, runs fn, and guarantees the pop on every return
// path — including errors — per the stack-discipline contract (spec §4.6).
func withFrame(ctx *ContextStack, frame ContextFrame, fn func() (Value, error)) (Value, error) {
	ctx.Push(frame)
	defer ctx.Pop()
	return fn()
}

func elementFrame(elem Value, index int64) ContextFrame {
	return ContextFrame{
		data: elem, hasIndex: true, index: index, hasCurrent: true, current: elem,
	}
}

// evalMap implements map(arr, expr) (spec §4.3): for each element, pushes a
// frame with data=element and metadata {index, current=element}, evaluates
// expr, and collects the results.
func evalMap(ev *Evaluator, args []*CompiledNode, ctx *ContextStack) (Value, error) {
	if len(args) != 2 {
		return Value{}, errArgs("map", "requires exactly 2 arguments")
	}
	arr, err := ev.evalNode(args[0], ctx)
	if err != nil {
		return Value{}, err
	}
	if !arr.IsArray() {
		return Arr(), nil
	}
	items := arr.ArrayValue()
	out := make([]Value, len(items))
	for i, elem := range items {
		v, err := withFrame(ctx, elementFrame(elem, int64(i)), func() (Value, error) {
			return ev.evalNode(args[1], ctx)
		})
		if err != nil {
			return Value{}, err
		}
		out[i] = v
	}
	return Arr(out...), nil
}

// evalFilter implements filter(arr, expr) (spec §4.3): same scope as map,
// keeping elements whose expr evaluates truthy.
func evalFilter(ev *Evaluator, args []*CompiledNode, ctx *ContextStack) (Value, error) {
	if len(args) != 2 {
		return Value{}, errArgs("filter", "requires exactly 2 arguments")
	}
	arr, err := ev.evalNode(args[0], ctx)
	if err != nil {
		return Value{}, err
	}
	if !arr.IsArray() {
		return Arr(), nil
	}
	items := arr.ArrayValue()
	out := make([]Value, 0, len(items))
	for i, elem := range items {
		v, err := withFrame(ctx, elementFrame(elem, int64(i)), func() (Value, error) {
			return ev.evalNode(args[1], ctx)
		})
		if err != nil {
			return Value{}, err
		}
		if ev.truthy(v) {
			out = append(out, elem)
		}
	}
	return Arr(out...), nil
}

// fusedReducerOp recognises the reducer shape
// {op:[{var:"current"},{var:"accumulator"}]} (in either operand order) for
// the fixed set of commutative arithmetic ops named in spec §4.3, so reduce
// can run a fused loop instead of pushing a frame per element.
func fusedReducerOp(expr *CompiledNode) (OpCode, bool) {
	if expr.kind != nodeBuiltin || len(expr.args) != 2 {
		return 0, false
	}
	switch expr.opcode {
	case OpAdd, OpMultiply, OpMax, OpMin:
	default:
		return 0, false
	}
	names := [2]string{}
	for i, a := range expr.args {
		if a.kind != nodeBuiltin || a.opcode != OpVar || len(a.args) != 1 {
			return 0, false
		}
		lit := a.args[0]
		if !lit.IsLiteral() || !lit.LiteralValue().IsString() {
			return 0, false
		}
		names[i] = lit.LiteralValue().StringValue()
	}
	if (names[0] == "current" && names[1] == "accumulator") ||
		(names[0] == "accumulator" && names[1] == "current") {
		return expr.opcode, true
	}
	return 0, false
}

func applyFused(op OpCode, acc, elem Value, cfg *Config) (Value, error) {
	identity := 0.0
	if op == OpMultiply {
		identity = 1
	}
	a, short, err := coerceOperand(acc, cfg, identity, "reduce")
	if err != nil {
		return Value{}, err
	}
	if short {
		return Null(), nil
	}
	b, short, err := coerceOperand(elem, cfg, identity, "reduce")
	if err != nil {
		return Value{}, err
	}
	if short {
		return Null(), nil
	}
	switch op {
	case OpAdd:
		if a.IsFloat() || b.IsFloat() {
			return Float(a.FloatValue() + b.FloatValue()), nil
		}
		sum, overflow := addInt(a.IntValue(), b.IntValue())
		if overflow {
			return Float(a.FloatValue() + b.FloatValue()), nil
		}
		return Int(sum), nil
	case OpMultiply:
		if a.IsFloat() || b.IsFloat() {
			return Float(a.FloatValue() * b.FloatValue()), nil
		}
		product, overflow := mulInt(a.IntValue(), b.IntValue())
		if overflow {
			return Float(a.FloatValue() * b.FloatValue()), nil
		}
		return Int(product), nil
	case OpMax:
		if b.FloatValue() > a.FloatValue() {
			return b, nil
		}
		return a, nil
	case OpMin:
		if b.FloatValue() < a.FloatValue() {
			return b, nil
		}
		return a, nil
	default:
		return Value{}, errOperator(op.String())
	}
}

// evalReduce implements reduce(arr, expr, initial) (spec §4.3): initial is
// evaluated once in the outer scope; each element is then folded in with
// expr seeing a frame whose data is {current, accumulator}. The fused
// shape recognised by fusedReducerOp skips the per-element frame push.
func evalReduce(ev *Evaluator, args []*CompiledNode, ctx *ContextStack) (Value, error) {
	if len(args) != 3 {
		return Value{}, errArgs("reduce", "requires exactly 3 arguments")
	}
	arr, err := ev.evalNode(args[0], ctx)
	if err != nil {
		return Value{}, err
	}
	acc, err := ev.evalNode(args[2], ctx)
	if err != nil {
		return Value{}, err
	}
	if !arr.IsArray() {
		return acc, nil
	}
	items := arr.ArrayValue()

	if op, ok := fusedReducerOp(args[1]); ok {
		for _, elem := range items {
			acc, err = applyFused(op, acc, elem, ev.cfg)
			if err != nil {
				return Value{}, err
			}
		}
		return acc, nil
	}

	for _, elem := range items {
		frame := ContextFrame{
			data: Obj(KV{Key: "current", Val: elem}, KV{Key: "accumulator", Val: acc}),
			hasCurrent: true, current: elem, hasAccumulator: true, accumulator: acc,
		}
		acc, err = withFrame(ctx, frame, func() (Value, error) {
			return ev.evalNode(args[1], ctx)
		})
		if err != nil {
			return Value{}, err
		}
	}
	return acc, nil
}

// evalAll implements all(arr, expr) (spec §4.3): false on an empty array
// (JSONLogic convention), else true iff expr is truthy for every element.
func evalAll(ev *Evaluator, args []*CompiledNode, ctx *ContextStack) (Value, error) {
	if len(args) != 2 {
		return Value{}, errArgs("all", "requires exactly 2 arguments")
	}
	arr, err := ev.evalNode(args[0], ctx)
	if err != nil {
		return Value{}, err
	}
	if !arr.IsArray() || len(arr.ArrayValue()) == 0 {
		return Bool(false), nil
	}
	for i, elem := range arr.ArrayValue() {
		v, err := withFrame(ctx, elementFrame(elem, int64(i)), func() (Value, error) {
			return ev.evalNode(args[1], ctx)
		})
		if err != nil {
			return Value{}, err
		}
		if !ev.truthy(v) {
			return Bool(false), nil
		}
	}
	return Bool(true), nil
}

// evalSome implements some(arr, expr) (spec §4.3): false on an empty array,
// else true iff expr is truthy for at least one element.
func evalSome(ev *Evaluator, args []*CompiledNode, ctx *ContextStack) (Value, error) {
	if len(args) != 2 {
		return Value{}, errArgs("some", "requires exactly 2 arguments")
	}
	arr, err := ev.evalNode(args[0], ctx)
	if err != nil {
		return Value{}, err
	}
	if !arr.IsArray() {
		return Bool(false), nil
	}
	for i, elem := range arr.ArrayValue() {
		v, err := withFrame(ctx, elementFrame(elem, int64(i)), func() (Value, error) {
			return ev.evalNode(args[1], ctx)
		})
		if err != nil {
			return Value{}, err
		}
		if ev.truthy(v) {
			return Bool(true), nil
		}
	}
	return Bool(false), nil
}

// evalNone implements none(arr, expr) (spec §4.3): true on an empty array
// (JSONLogic convention), else true iff expr is falsy for every element.
func evalNone(ev *Evaluator, args []*CompiledNode, ctx *ContextStack) (Value, error) {
	if len(args) != 2 {
		return Value{}, errArgs("none", "requires exactly 2 arguments")
	}
	arr, err := ev.evalNode(args[0], ctx)
	if err != nil {
		return Value{}, err
	}
	if !arr.IsArray() || len(arr.ArrayValue()) == 0 {
		return Bool(true), nil
	}
	for i, elem := range arr.ArrayValue() {
		v, err := withFrame(ctx, elementFrame(elem, int64(i)), func() (Value, error) {
			return ev.evalNode(args[1], ctx)
		})
		if err != nil {
			return Value{}, err
		}
		if ev.truthy(v) {
			return Bool(false), nil
		}
	}
	return Bool(true), nil
}

// evalMerge implements merge(...) (spec §4.3): flattens its operands one
// level; a non-array operand is kept as a single element.
func evalMerge(ev *Evaluator, args []*CompiledNode, ctx *ContextStack) (Value, error) {
	vals, err := ev.evalAllNodes(args, ctx)
	if err != nil {
		return Value{}, err
	}
	out := make([]Value, 0, len(vals))
	for _, v := range vals {
		if v.IsArray() {
			out = append(out, v.ArrayValue()...)
		} else {
			out = append(out, v)
		}
	}
	return Arr(out...), nil
}

// evalSort implements sort(arr [, descending]) (spec §4.3): a stable sort,
// ascending unless the second (boolean) argument is truthy.
func evalSort(ev *Evaluator, args []*CompiledNode, ctx *ContextStack) (Value, error) {
	if len(args) < 1 || len(args) > 2 {
		return Value{}, errArgs("sort", "requires 1 or 2 arguments")
	}
	arr, err := ev.evalNode(args[0], ctx)
	if err != nil {
		return Value{}, err
	}
	if !arr.IsArray() {
		return Arr(), nil
	}
	descending := false
	if len(args) == 2 {
		flag, err := ev.evalNode(args[1], ctx)
		if err != nil {
			return Value{}, err
		}
		descending = ev.truthy(flag)
	}
	items := append([]Value(nil), arr.ArrayValue()...)
	var sortErr error
	sort.SliceStable(items, func(i, j int) bool {
		if sortErr != nil {
			return false
		}
		cmp, ok, err := compareOrdering(items[i], items[j], ev.cfg)
		if err != nil {
			sortErr = err
			return false
		}
		if !ok {
			return false
		}
		if descending {
			return cmp > 0
		}
		return cmp < 0
	})
	if sortErr != nil {
		return Value{}, sortErr
	}
	return Arr(items...), nil
}

func normalizeSliceIndex(i, n int) int {
	if i < 0 {
		i += n
		if i < 0 {
			i = 0
		}
	}
	if i > n {
		i = n
	}
	return i
}

// evalSlice implements slice(arr, start [, end [, step]]) (spec §4.3):
// negative indices count from the end; out-of-range indices saturate to
// valid bounds rather than erroring.
func evalSlice(ev *Evaluator, args []*CompiledNode, ctx *ContextStack) (Value, error) {
	if len(args) < 2 || len(args) > 4 {
		return Value{}, errArgs("slice", "requires 2 to 4 arguments")
	}
	vals, err := ev.evalAllNodes(args, ctx)
	if err != nil {
		return Value{}, err
	}
	if !vals[0].IsArray() {
		return Arr(), nil
	}
	items := vals[0].ArrayValue()
	n := len(items)

	start := normalizeSliceIndex(int(vals[1].IntValue()), n)
	end := n
	if len(vals) >= 3 && !vals[2].IsNull() {
		end = normalizeSliceIndex(int(vals[2].IntValue()), n)
	}
	step := 1
	if len(vals) == 4 && !vals[3].IsNull() {
		step = int(vals[3].IntValue())
		if step == 0 {
			step = 1
		}
	}
	if end < start {
		end = start
	}

	out := make([]Value, 0, end-start)
	if step > 0 {
		for i := start; i < end; i += step {
			out = append(out, items[i])
		}
	} else {
		for i := end - 1; i >= start; i += step {
			out = append(out, items[i])
		}
	}
	return Arr(out...), nil
}
