package rulecore

import "math"

// coerceOperand resolves one arithmetic operand through toNumber, applying
// the configured NaN policy on failure. short=true means the caller should
// short-circuit the whole operator to Null; err!=nil means the error should
// propagate; otherwise num is the coerced or substituted operand.
func coerceOperand(v Value, cfg *Config, identity float64, opName string) (num Value, short bool, err error) {
	if n, ok := toNumber(v, cfg); ok {
		return n, false, nil
	}
	substituted, shortCircuit, err := applyNaNPolicy(cfg, identity, opName)
	return substituted, shortCircuit, err
}

func addInt(a, b int64) (int64, bool) {
	sum := a + b
	overflow := (b > 0 && sum < a) || (b < 0 && sum > a)
	return sum, overflow
}

func mulInt(a, b int64) (int64, bool) {
	if a == 0 || b == 0 {
		return 0, false
	}
	result := a * b
	return result, result/b != a
}

// evalAdd implements + (spec §4.3): n-ary fold with identity 0; integer
// overflow promotes both operands to Float and retries.
func evalAdd(ev *Evaluator, args []*CompiledNode, ctx *ContextStack) (Value, error) {
	vals, err := ev.evalAllNodes(args, ctx)
	if err != nil {
		return Value{}, err
	}
	if len(vals) == 1 {
		n, short, err := coerceOperand(vals[0], ev.cfg, 0, "+")
		if err != nil {
			return Value{}, err
		}
		if short {
			return Null(), nil
		}
		return n, nil
	}

	accI := int64(0)
	accF := 0.0
	isFloat := false
	for _, v := range vals {
		n, short, err := coerceOperand(v, ev.cfg, 0, "+")
		if err != nil {
			return Value{}, err
		}
		if short {
			return Null(), nil
		}
		if !isFloat && n.IsFloat() {
			isFloat = true
			accF = float64(accI)
		}
		if isFloat {
			accF += n.FloatValue()
			continue
		}
		sum, overflow := addInt(accI, n.IntValue())
		if overflow {
			isFloat = true
			accF = float64(accI) + n.FloatValue()
			continue
		}
		accI = sum
	}
	if isFloat {
		return Float(accF), nil
	}
	return Int(accI), nil
}

// evalSubtract implements - (spec §4.3): binary subtraction, or unary
// negation with a single operand.
func evalSubtract(ev *Evaluator, args []*CompiledNode, ctx *ContextStack) (Value, error) {
	vals, err := ev.evalAllNodes(args, ctx)
	if err != nil {
		return Value{}, err
	}
	if len(vals) == 0 {
		return Value{}, errArgs("-", "requires at least 1 argument")
	}
	first, short, err := coerceOperand(vals[0], ev.cfg, 0, "-")
	if err != nil {
		return Value{}, err
	}
	if short {
		return Null(), nil
	}
	if len(vals) == 1 {
		if first.IsFloat() {
			return Float(-first.FloatValue()), nil
		}
		return Int(-first.IntValue()), nil
	}
	acc := first
	for _, v := range vals[1:] {
		n, short, err := coerceOperand(v, ev.cfg, 0, "-")
		if err != nil {
			return Value{}, err
		}
		if short {
			return Null(), nil
		}
		if acc.IsFloat() || n.IsFloat() {
			acc = Float(acc.FloatValue() - n.FloatValue())
			continue
		}
		diff, overflow := addInt(acc.IntValue(), -n.IntValue())
		if overflow {
			acc = Float(acc.FloatValue() - n.FloatValue())
			continue
		}
		acc = Int(diff)
	}
	return acc, nil
}

// evalMultiply implements * (spec §4.3): n-ary fold with identity 1.
func evalMultiply(ev *Evaluator, args []*CompiledNode, ctx *ContextStack) (Value, error) {
	vals, err := ev.evalAllNodes(args, ctx)
	if err != nil {
		return Value{}, err
	}
	if len(vals) == 0 {
		return Int(1), nil
	}
	first, short, err := coerceOperand(vals[0], ev.cfg, 1, "*")
	if err != nil {
		return Value{}, err
	}
	if short {
		return Null(), nil
	}
	acc := first
	for _, v := range vals[1:] {
		n, short, err := coerceOperand(v, ev.cfg, 1, "*")
		if err != nil {
			return Value{}, err
		}
		if short {
			return Null(), nil
		}
		if acc.IsFloat() || n.IsFloat() {
			acc = Float(acc.FloatValue() * n.FloatValue())
			continue
		}
		product, overflow := mulInt(acc.IntValue(), n.IntValue())
		if overflow {
			acc = Float(acc.FloatValue() * n.FloatValue())
			continue
		}
		acc = Int(product)
	}
	return acc, nil
}

// evalDivide implements / (spec §4.3): binary division, or reciprocal with
// a single operand. Division by zero surfaces DivisionByZero unless the NaN
// policy overrides it.
func evalDivide(ev *Evaluator, args []*CompiledNode, ctx *ContextStack) (Value, error) {
	vals, err := ev.evalAllNodes(args, ctx)
	if err != nil {
		return Value{}, err
	}
	if len(vals) == 1 {
		n, short, err := coerceOperand(vals[0], ev.cfg, 1, "/")
		if err != nil {
			return Value{}, err
		}
		if short {
			return Null(), nil
		}
		if n.FloatValue() == 0 {
			return divisionByZero(ev.cfg)
		}
		return Float(1 / n.FloatValue()), nil
	}
	if len(vals) != 2 {
		return Value{}, errArgs("/", "requires 1 or 2 arguments")
	}
	a, short, err := coerceOperand(vals[0], ev.cfg, 0, "/")
	if err != nil {
		return Value{}, err
	}
	if short {
		return Null(), nil
	}
	b, short, err := coerceOperand(vals[1], ev.cfg, 1, "/")
	if err != nil {
		return Value{}, err
	}
	if short {
		return Null(), nil
	}
	if b.FloatValue() == 0 {
		return divisionByZero(ev.cfg)
	}
	if a.IsInteger() && b.IsInteger() && a.IntValue()%b.IntValue() == 0 {
		return Int(a.IntValue() / b.IntValue()), nil
	}
	return Float(a.FloatValue() / b.FloatValue()), nil
}

// evalModulo implements % (spec §4.3): requires exactly two operands.
func evalModulo(ev *Evaluator, args []*CompiledNode, ctx *ContextStack) (Value, error) {
	if len(args) != 2 {
		return Value{}, errArgs("%", "requires exactly 2 arguments")
	}
	vals, err := ev.evalAllNodes(args, ctx)
	if err != nil {
		return Value{}, err
	}
	a, short, err := coerceOperand(vals[0], ev.cfg, 0, "%")
	if err != nil {
		return Value{}, err
	}
	if short {
		return Null(), nil
	}
	b, short, err := coerceOperand(vals[1], ev.cfg, 1, "%")
	if err != nil {
		return Value{}, err
	}
	if short {
		return Null(), nil
	}
	if b.FloatValue() == 0 {
		return divisionByZero(ev.cfg)
	}
	if a.IsInteger() && b.IsInteger() {
		return Int(a.IntValue() % b.IntValue()), nil
	}
	return Float(math.Mod(a.FloatValue(), b.FloatValue())), nil
}

func divisionByZero(cfg *Config) (Value, error) {
	switch cfg.NaNHandling {
	case NaNReturnNull:
		return Null(), nil
	case NaNCoerceToZero:
		return Int(0), nil
	case NaNIgnoreValue:
		return Int(0), nil
	default:
		return Value{}, errDivByZero()
	}
}

// evalMax implements max (spec §4.3): n-ary, returns the operand with the
// greatest numeric value, preserving its original subtype.
func evalMax(ev *Evaluator, args []*CompiledNode, ctx *ContextStack) (Value, error) {
	return extremum(ev, "max", args, ctx, func(a, b float64) bool { return a > b })
}

// evalMin implements min (spec §4.3).
func evalMin(ev *Evaluator, args []*CompiledNode, ctx *ContextStack) (Value, error) {
	return extremum(ev, "min", args, ctx, func(a, b float64) bool { return a < b })
}

func extremum(ev *Evaluator, op string, args []*CompiledNode, ctx *ContextStack, better func(a, b float64) bool) (Value, error) {
	if len(args) == 0 {
		return Value{}, errArgs(op, "requires at least 1 argument")
	}
	vals, err := ev.evalAllNodes(args, ctx)
	if err != nil {
		return Value{}, err
	}
	best, short, err := coerceOperand(vals[0], ev.cfg, 0, op)
	if err != nil {
		return Value{}, err
	}
	if short {
		return Null(), nil
	}
	for _, v := range vals[1:] {
		n, short, err := coerceOperand(v, ev.cfg, 0, op)
		if err != nil {
			return Value{}, err
		}
		if short {
			return Null(), nil
		}
		if better(n.FloatValue(), best.FloatValue()) {
			best = n
		}
	}
	return best, nil
}

// evalAbs implements abs (spec §4.3).
func evalAbs(ev *Evaluator, args []*CompiledNode, ctx *ContextStack) (Value, error) {
	if len(args) != 1 {
		return Value{}, errArgs("abs", "requires exactly 1 argument")
	}
	v, err := ev.evalNode(args[0], ctx)
	if err != nil {
		return Value{}, err
	}
	n, short, err := coerceOperand(v, ev.cfg, 0, "abs")
	if err != nil {
		return Value{}, err
	}
	if short {
		return Null(), nil
	}
	if n.IsInteger() {
		i := n.IntValue()
		if i < 0 {
			i = -i
		}
		return Int(i), nil
	}
	return Float(math.Abs(n.FloatValue())), nil
}

// evalCeil implements ceil (spec §4.3).
func evalCeil(ev *Evaluator, args []*CompiledNode, ctx *ContextStack) (Value, error) {
	return roundOp(ev, "ceil", args, ctx, math.Ceil)
}

// evalFloor implements floor (spec §4.3).
func evalFloor(ev *Evaluator, args []*CompiledNode, ctx *ContextStack) (Value, error) {
	return roundOp(ev, "floor", args, ctx, math.Floor)
}

func roundOp(ev *Evaluator, op string, args []*CompiledNode, ctx *ContextStack, fn func(float64) float64) (Value, error) {
	if len(args) != 1 {
		return Value{}, errArgs(op, "requires exactly 1 argument")
	}
	v, err := ev.evalNode(args[0], ctx)
	if err != nil {
		return Value{}, err
	}
	n, short, err := coerceOperand(v, ev.cfg, 0, op)
	if err != nil {
		return Value{}, err
	}
	if short {
		return Null(), nil
	}
	if n.IsInteger() {
		return n, nil
	}
	return Int(int64(fn(n.FloatValue()))), nil
}
