package rulecore

// CustomOperatorFunc is the raw-node call convention (spec §6.3): the
// operator receives its unevaluated argument nodes plus an evaluator handle
// so it can choose when, whether, and in what scope to evaluate each one —
// required for operators that need short-circuit or scope-pushing behaviour
// of their own.
type CustomOperatorFunc func(args []*CompiledNode, ctx *ContextStack, ev *Evaluator) (Value, error)

// CustomOperatorSimpleFunc is the eager-owned-value convenience form (spec
// §6.3): arguments are already evaluated left-to-right before the function
// runs, and it returns a plain Value or an error.
type CustomOperatorSimpleFunc func(args []Value) (Value, error)

// Evaluator walks a CompiledNode tree against a ContextStack. It is not
// reentrant across goroutines; build one per goroutine (or one per
// evaluation) and let it own a single in-flight ContextStack at a time, per
// spec §5.
type Evaluator struct {
	cfg      *Config
	custom   map[string]CustomOperatorFunc
	dispatch [opCodeCount]func(*Evaluator, []*CompiledNode, *ContextStack) (Value, error)
}

// NewEvaluator builds an Evaluator bound to cfg. A nil cfg uses DefaultConfig.
func NewEvaluator(cfg *Config) *Evaluator {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	ev := &Evaluator{cfg: cfg, custom: make(map[string]CustomOperatorFunc)}
	ev.installDispatch()
	return ev
}

// Config returns the evaluator's configuration.
func (ev *Evaluator) Config() *Config { return ev.cfg }

// RegisterCustomOperator installs the raw-node call convention under name.
func (ev *Evaluator) RegisterCustomOperator(name string, fn CustomOperatorFunc) {
	ev.custom[name] = fn
}

// RegisterCustomOperatorSimple installs the eager-owned-value call
// convention under name, adapting it to CustomOperatorFunc internally by
// evaluating every argument left-to-right before calling fn.
func (ev *Evaluator) RegisterCustomOperatorSimple(name string, fn CustomOperatorSimpleFunc) {
	ev.custom[name] = func(args []*CompiledNode, ctx *ContextStack, ev2 *Evaluator) (Value, error) {
		vals, err := ev2.evalAllNodes(args, ctx)
		if err != nil {
			return Value{}, err
		}
		return fn(vals)
	}
}

// Evaluate walks compiled against data using ev's configuration, building a
// fresh one-frame ContextStack rooted at data (spec §4.5).
func (ev *Evaluator) Evaluate(compiled *CompiledNode, data Value) (Value, error) {
	stack := NewContextStack(data)
	return ev.evalNode(compiled, stack)
}

// EvaluateJSON is the one-shot convenience form: compile is not repeated,
// and data is a Go-native value (e.g. decoded by encoding/json) that is
// converted with FromAny before compiled is evaluated against it.
func (ev *Evaluator) EvaluateJSON(compiled *CompiledNode, data any) (Value, error) {
	return ev.Evaluate(compiled, FromAny(data))
}

// evalNode is the recursive tree walker (spec §4.5). It never eagerly
// evaluates BuiltinOperator/CustomOperator arguments itself — that decision
// belongs to each operator implementation, which is why short-circuit and
// scope-pushing operators receive the raw argument nodes.
func (ev *Evaluator) evalNode(n *CompiledNode, ctx *ContextStack) (Value, error) {
	switch n.kind {
	case nodeValue:
		return n.value, nil

	case nodeArray:
		vals, err := ev.evalAllNodes(n.elements, ctx)
		if err != nil {
			return Value{}, err
		}
		return Arr(vals...), nil

	case nodeStructured:
		pairs := make([]KV, len(n.fields))
		for i, f := range n.fields {
			v, err := ev.evalNode(f.node, ctx)
			if err != nil {
				return Value{}, err
			}
			pairs[i] = KV{Key: f.key, Val: v}
		}
		return Obj(pairs...), nil

	case nodeBuiltin:
		fn := ev.dispatch[n.opcode]
		if fn == nil {
			return Value{}, errOperator(n.opcode.String())
		}
		return fn(ev, n.args, ctx)

	case nodeCustom:
		fn, ok := ev.custom[n.name]
		if !ok {
			return Value{}, errOperator(n.name)
		}
		return fn(n.args, ctx, ev)

	default:
		return Value{}, errParse("unrecognised compiled node kind")
	}
}

// evalAllNodes is the eager pre-evaluation helper (spec §4.5): evaluates
// every node left-to-right, stopping at and propagating the first error.
func (ev *Evaluator) evalAllNodes(nodes []*CompiledNode, ctx *ContextStack) ([]Value, error) {
	vals := make([]Value, len(nodes))
	for i, n := range nodes {
		v, err := ev.evalNode(n, ctx)
		if err != nil {
			return nil, err
		}
		vals[i] = v
	}
	return vals, nil
}

// truthy applies the configured truthiness policy.
func (ev *Evaluator) truthy(v Value) bool {
	if ev.cfg.TruthyEvaluator == nil {
		return JavaScriptTruthy(v)
	}
	return ev.cfg.TruthyEvaluator(v)
}

// installDispatch fills the flat opcode→function table once at construction
// (spec §4.3/§9: O(1) dispatch, no hashing, no virtual call per argument).
func (ev *Evaluator) installDispatch() {
	d := &ev.dispatch

	d[OpVar] = evalVar
	d[OpVal] = evalVal
	d[OpExists] = evalExists
	d[OpMissing] = evalMissing
	d[OpMissingSome] = evalMissingSome

	d[OpEquals] = evalEquals
	d[OpStrictEquals] = evalStrictEquals
	d[OpNotEquals] = evalNotEquals
	d[OpStrictNotEquals] = evalStrictNotEquals
	d[OpGreaterThan] = evalGreaterThan
	d[OpGreaterThanEqual] = evalGreaterThanEqual
	d[OpLessThan] = evalLessThan
	d[OpLessThanEqual] = evalLessThanEqual

	d[OpNot] = evalNot
	d[OpDoubleNot] = evalDoubleNot
	d[OpAnd] = evalAnd
	d[OpOr] = evalOr
	d[OpIf] = evalIf
	d[OpTernary] = evalIf
	d[OpCoalesce] = evalCoalesce

	d[OpAdd] = evalAdd
	d[OpSubtract] = evalSubtract
	d[OpMultiply] = evalMultiply
	d[OpDivide] = evalDivide
	d[OpModulo] = evalModulo
	d[OpMax] = evalMax
	d[OpMin] = evalMin
	d[OpAbs] = evalAbs
	d[OpCeil] = evalCeil
	d[OpFloor] = evalFloor

	d[OpCat] = evalCat
	d[OpSubstr] = evalSubstr
	d[OpIn] = evalIn
	d[OpLength] = evalLength
	d[OpStartsWith] = evalStartsWith
	d[OpEndsWith] = evalEndsWith
	d[OpUpper] = evalUpper
	d[OpLower] = evalLower
	d[OpTrim] = evalTrim
	d[OpSplit] = evalSplit

	d[OpMerge] = evalMerge
	d[OpFilter] = evalFilter
	d[OpMap] = evalMap
	d[OpReduce] = evalReduce
	d[OpAll] = evalAll
	d[OpSome] = evalSome
	d[OpNone] = evalNone
	d[OpSort] = evalSort
	d[OpSlice] = evalSlice

	d[OpTry] = evalTry
	d[OpThrow] = evalThrow

	d[OpType] = evalType
	d[OpLog] = evalLog

	d[OpDatetime] = evalDatetime
	d[OpTimestamp] = evalTimestamp
	d[OpParseDate] = evalParseDate
	d[OpFormatDate] = evalFormatDate
	d[OpDateDiff] = evalDateDiff
	d[OpNow] = evalNow
}
