package rulecore

// evalType implements type (spec §4.3): returns the wire-level type name of
// its argument.
func evalType(ev *Evaluator, args []*CompiledNode, ctx *ContextStack) (Value, error) {
	if len(args) != 1 {
		return Value{}, errArgs("type", "requires exactly 1 argument")
	}
	v, err := ev.evalNode(args[0], ctx)
	if err != nil {
		return Value{}, err
	}
	return Str(v.TypeName()), nil
}

// evalLog implements log (spec §4.3): evaluates its argument, emits it to
// the configured sink, and returns it unchanged (an identity side effect).
func evalLog(ev *Evaluator, args []*CompiledNode, ctx *ContextStack) (Value, error) {
	if len(args) != 1 {
		return Value{}, errArgs("log", "requires exactly 1 argument")
	}
	v, err := ev.evalNode(args[0], ctx)
	if err != nil {
		return Value{}, err
	}
	if ev.cfg.LogSink != nil {
		ev.cfg.LogSink.Log(v)
	}
	return v, nil
}
