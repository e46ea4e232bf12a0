package rulecore

// evalThrow implements throw(value) (spec §4.3): raises a ThrownError
// carrying the stringified evaluated value as its type.
func evalThrow(ev *Evaluator, args []*CompiledNode, ctx *ContextStack) (Value, error) {
	if len(args) != 1 {
		return Value{}, errArgs("throw", "requires exactly 1 argument")
	}
	v, err := ev.evalNode(args[0], ctx)
	if err != nil {
		return Value{}, err
	}
	return Value{}, errThrown(v.ToAny())
}

// evalTry implements try(expr1, expr2, ...) (spec §4.3): evaluates expr1;
// on error, the error becomes an object {type:"..."} that is pushed as the
// data frame for the next expression, and so on; if every attempt fails,
// the last error propagates.
func evalTry(ev *Evaluator, args []*CompiledNode, ctx *ContextStack) (Value, error) {
	if len(args) == 0 {
		return Null(), nil
	}
	v, err := ev.evalNode(args[0], ctx)
	if err == nil {
		return v, nil
	}
	for _, next := range args[1:] {
		errFrame := newFrame(errorToObject(err))
		v, nextErr := withFrame(ctx, errFrame, func() (Value, error) {
			return ev.evalNode(next, ctx)
		})
		if nextErr == nil {
			return v, nil
		}
		err = nextErr
	}
	return Value{}, err
}

// errorToObject renders an error as the {type:"..."} payload try hands to
// its recovery expressions (spec §4.3, §7).
func errorToObject(err error) Value {
	if rerr, ok := err.(*Error); ok {
		if rerr.Kind == KindThrownError {
			return Obj(KV{Key: "type", Val: Str(rerr.Message)})
		}
		return Obj(KV{Key: "type", Val: Str(rerr.Kind.String())})
	}
	return Obj(KV{Key: "type", Val: Str(err.Error())})
}
