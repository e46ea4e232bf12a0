package rulecore

import "strings"

// evalCat implements cat(...) (spec §4.3): concatenates operands,
// stringifying non-string values per loose coercion rules.
func evalCat(ev *Evaluator, args []*CompiledNode, ctx *ContextStack) (Value, error) {
	vals, err := ev.evalAllNodes(args, ctx)
	if err != nil {
		return Value{}, err
	}
	var sb strings.Builder
	for _, v := range vals {
		sb.WriteString(toStringCoerce(v))
	}
	return Str(sb.String()), nil
}

func normalizeSubstrIndex(i, n int) int {
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

// evalSubstr implements substr(s, start [, length]) (spec §4.3): start may
// be negative (from the end); length may be negative, meaning "up to
// |length| characters from the end of the string"; indices saturate to
// valid bounds rather than erroring.
func evalSubstr(ev *Evaluator, args []*CompiledNode, ctx *ContextStack) (Value, error) {
	if len(args) < 2 || len(args) > 3 {
		return Value{}, errArgs("substr", "requires 2 or 3 arguments")
	}
	vals, err := ev.evalAllNodes(args, ctx)
	if err != nil {
		return Value{}, err
	}
	r := []rune(toStringCoerce(vals[0]))
	n := len(r)
	start := normalizeSubstrIndex(int(vals[1].IntValue()), n)

	end := n
	if len(vals) == 3 {
		length := int(vals[2].IntValue())
		if length < 0 {
			end = n + length
			if end < start {
				end = start
			}
		} else if length > n-start {
			end = n
		} else {
			end = start + length
		}
	}
	if end < start {
		end = start
	}
	return Str(string(r[start:end])), nil
}

// evalIn implements in(needle, haystack) (spec §4.3): substring test for
// strings, membership test for arrays, key presence for objects.
func evalIn(ev *Evaluator, args []*CompiledNode, ctx *ContextStack) (Value, error) {
	if len(args) != 2 {
		return Value{}, errArgs("in", "requires exactly 2 arguments")
	}
	needle, err := ev.evalNode(args[0], ctx)
	if err != nil {
		return Value{}, err
	}
	haystack, err := ev.evalNode(args[1], ctx)
	if err != nil {
		return Value{}, err
	}
	switch haystack.Kind() {
	case KindString:
		return Bool(strings.Contains(haystack.StringValue(), toStringCoerce(needle))), nil
	case KindArray:
		for _, item := range haystack.ArrayValue() {
			if looseEqual(needle, item, ev.cfg) {
				return Bool(true), nil
			}
		}
		return Bool(false), nil
	case KindObject:
		_, ok := haystack.Get(toStringCoerce(needle))
		return Bool(ok), nil
	default:
		return Bool(false), nil
	}
}

// evalLength implements length (spec §4.3): string rune count, array
// element count, or object key count.
func evalLength(ev *Evaluator, args []*CompiledNode, ctx *ContextStack) (Value, error) {
	if len(args) != 1 {
		return Value{}, errArgs("length", "requires exactly 1 argument")
	}
	v, err := ev.evalNode(args[0], ctx)
	if err != nil {
		return Value{}, err
	}
	if v.IsString() {
		return Int(int64(len([]rune(v.StringValue())))), nil
	}
	return Int(int64(v.Len())), nil
}

// evalStartsWith implements starts_with(s, prefix).
func evalStartsWith(ev *Evaluator, args []*CompiledNode, ctx *ContextStack) (Value, error) {
	if len(args) != 2 {
		return Value{}, errArgs("starts_with", "requires exactly 2 arguments")
	}
	vals, err := ev.evalAllNodes(args, ctx)
	if err != nil {
		return Value{}, err
	}
	return Bool(strings.HasPrefix(toStringCoerce(vals[0]), toStringCoerce(vals[1]))), nil
}

// evalEndsWith implements ends_with(s, suffix).
func evalEndsWith(ev *Evaluator, args []*CompiledNode, ctx *ContextStack) (Value, error) {
	if len(args) != 2 {
		return Value{}, errArgs("ends_with", "requires exactly 2 arguments")
	}
	vals, err := ev.evalAllNodes(args, ctx)
	if err != nil {
		return Value{}, err
	}
	return Bool(strings.HasSuffix(toStringCoerce(vals[0]), toStringCoerce(vals[1]))), nil
}

// evalUpper implements upper(s).
func evalUpper(ev *Evaluator, args []*CompiledNode, ctx *ContextStack) (Value, error) {
	if len(args) != 1 {
		return Value{}, errArgs("upper", "requires exactly 1 argument")
	}
	v, err := ev.evalNode(args[0], ctx)
	if err != nil {
		return Value{}, err
	}
	return Str(strings.ToUpper(toStringCoerce(v))), nil
}

// evalLower implements lower(s).
func evalLower(ev *Evaluator, args []*CompiledNode, ctx *ContextStack) (Value, error) {
	if len(args) != 1 {
		return Value{}, errArgs("lower", "requires exactly 1 argument")
	}
	v, err := ev.evalNode(args[0], ctx)
	if err != nil {
		return Value{}, err
	}
	return Str(strings.ToLower(toStringCoerce(v))), nil
}

// evalTrim implements trim(s).
func evalTrim(ev *Evaluator, args []*CompiledNode, ctx *ContextStack) (Value, error) {
	if len(args) != 1 {
		return Value{}, errArgs("trim", "requires exactly 1 argument")
	}
	v, err := ev.evalNode(args[0], ctx)
	if err != nil {
		return Value{}, err
	}
	return Str(strings.TrimSpace(toStringCoerce(v))), nil
}

// evalSplit implements split(s, sep).
func evalSplit(ev *Evaluator, args []*CompiledNode, ctx *ContextStack) (Value, error) {
	if len(args) != 2 {
		return Value{}, errArgs("split", "requires exactly 2 arguments")
	}
	vals, err := ev.evalAllNodes(args, ctx)
	if err != nil {
		return Value{}, err
	}
	parts := strings.Split(toStringCoerce(vals[0]), toStringCoerce(vals[1]))
	items := make([]Value, len(parts))
	for i, p := range parts {
		items[i] = Str(p)
	}
	return Arr(items...), nil
}
