package rulecore

import "strconv"

// normalizePathComponents turns a var/val path argument into dotted-path
// components (spec §4.4): a string splits on ".", an integer becomes a
// single numeric component, an array's elements each stringify to one
// component unless the array holds exactly one nested array — a path value
// of the form [["a","b","c"]] — in which case that inner array supplies
// the components directly. Null or empty string means "current frame data",
// reported as a nil slice.
func normalizePathComponents(pathVal Value) []string {
	switch pathVal.Kind() {
	case KindNull:
		return nil
	case KindString:
		s := pathVal.StringValue()
		if s == "" {
			return nil
		}
		return splitDotPath(s)
	case KindInteger, KindFloat:
		return []string{strconv.FormatInt(pathVal.IntValue(), 10)}
	case KindArray:
		items := pathVal.ArrayValue()
		if len(items) == 1 && items[0].IsArray() {
			items = items[0].ArrayValue()
		}
		components := make([]string, len(items))
		for i, it := range items {
			components[i] = stringifyPathComponent(it)
		}
		return components
	default:
		return nil
	}
}

func splitDotPath(s string) []string {
	var parts []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '.' {
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}
	parts = append(parts, s[start:])
	return parts
}

func stringifyPathComponent(v Value) string {
	if v.IsString() {
		return v.StringValue()
	}
	return toStringCoerce(v)
}

// evalVar implements var(path, default?) (spec §4.3).
func evalVar(ev *Evaluator, args []*CompiledNode, ctx *ContextStack) (Value, error) {
	frame := ctx.Current()
	if len(args) == 0 {
		return frame.data, nil
	}
	pathVal, err := ev.evalNode(args[0], ctx)
	if err != nil {
		return Value{}, err
	}
	components := normalizePathComponents(pathVal)
	var found Value
	var ok bool
	if components == nil {
		found, ok = frame.data, true
	} else {
		found, ok = accessPathArray(frame.data, components)
	}
	if ok {
		return found, nil
	}
	if len(args) > 1 {
		return ev.evalNode(args[1], ctx)
	}
	return Null(), nil
}

// evalVal implements val(path_or_levelled) (spec §4.3): an extension of var
// that allows the path's first component to be an inner array `[[k]]`
// naming a context level to jump to before resolving the remaining
// components. The metadata keys "index" and "key" always resolve against
// the current frame regardless of any jump.
func evalVal(ev *Evaluator, args []*CompiledNode, ctx *ContextStack) (Value, error) {
	frame := ctx.Current()
	if len(args) == 0 {
		return frame.data, nil
	}
	pathVal, err := ev.evalNode(args[0], ctx)
	if err != nil {
		return Value{}, err
	}

	level := 0
	rest := pathVal
	if pathVal.IsArray() {
		items := pathVal.ArrayValue()
		if len(items) > 0 && items[0].IsArray() {
			levelArr := items[0].ArrayValue()
			if len(levelArr) == 1 && levelArr[0].IsNumber() {
				level = int(levelArr[0].IntValue())
			}
			rest = Arr(items[1:]...)
		}
	}

	components := normalizePathComponents(rest)
	if len(components) == 1 && (components[0] == "index" || components[0] == "key") {
		return valMetadata(frame, components[0])
	}

	target := frame
	if level != 0 {
		target, err = ctx.GetAtLevel(level)
		if err != nil {
			return Value{}, err
		}
	}

	var found Value
	var ok bool
	if components == nil {
		found, ok = target.data, true
	} else {
		found, ok = accessPathArray(target.data, components)
	}
	if ok {
		return found, nil
	}
	if len(args) > 1 {
		return ev.evalNode(args[1], ctx)
	}
	return Null(), nil
}

func valMetadata(frame *ContextFrame, key string) (Value, error) {
	switch key {
	case "index":
		if frame.hasIndex {
			return Int(frame.index), nil
		}
		return Null(), nil
	case "key":
		if frame.hasKey {
			return Str(frame.key), nil
		}
		return Null(), nil
	default:
		return Null(), nil
	}
}

// evalExists implements exists(path...) (spec §4.3): true iff the path
// resolves in the current frame, requiring every intermediate ancestor to
// be an object or array.
func evalExists(ev *Evaluator, args []*CompiledNode, ctx *ContextStack) (Value, error) {
	if len(args) == 0 {
		return Bool(true), nil
	}
	var components []string
	if len(args) == 1 {
		pathVal, err := ev.evalNode(args[0], ctx)
		if err != nil {
			return Value{}, err
		}
		components = normalizePathComponents(pathVal)
	} else {
		vals, err := ev.evalAllNodes(args, ctx)
		if err != nil {
			return Value{}, err
		}
		components = make([]string, len(vals))
		for i, v := range vals {
			components[i] = stringifyPathComponent(v)
		}
	}
	if components == nil {
		return Bool(true), nil
	}
	_, ok := accessPathArray(ctx.Current().data, components)
	return Bool(ok), nil
}

// evalMissing implements missing(key...) (spec §4.3): returns the list of
// argument keys absent from the current frame.
func evalMissing(ev *Evaluator, args []*CompiledNode, ctx *ContextStack) (Value, error) {
	keys, err := missingArgKeys(ev, args, ctx)
	if err != nil {
		return Value{}, err
	}
	return missingFrom(ctx, keys), nil
}

// evalMissingSome implements missing_some(min_required, keys) (spec §4.3):
// returns an empty list once at least min_required of keys are present,
// else the full list of absent keys.
func evalMissingSome(ev *Evaluator, args []*CompiledNode, ctx *ContextStack) (Value, error) {
	if len(args) != 2 {
		return Value{}, errArgs("missing_some", "requires exactly 2 arguments")
	}
	minVal, err := ev.evalNode(args[0], ctx)
	if err != nil {
		return Value{}, err
	}
	keysVal, err := ev.evalNode(args[1], ctx)
	if err != nil {
		return Value{}, err
	}
	keys := make([]string, 0, keysVal.Len())
	for _, k := range keysVal.ArrayValue() {
		keys = append(keys, stringifyPathComponent(k))
	}

	missing := missingFrom(ctx, keys)
	present := len(keys) - missing.Len()
	if present >= int(minVal.IntValue()) {
		return Arr(), nil
	}
	return missing, nil
}

func missingArgKeys(ev *Evaluator, args []*CompiledNode, ctx *ContextStack) ([]string, error) {
	vals, err := ev.evalAllNodes(args, ctx)
	if err != nil {
		return nil, err
	}
	keys := make([]string, len(vals))
	for i, v := range vals {
		keys[i] = stringifyPathComponent(v)
	}
	return keys, nil
}

func missingFrom(ctx *ContextStack, keys []string) Value {
	data := ctx.Current().data
	absent := make([]Value, 0, len(keys))
	for _, k := range keys {
		if _, ok := accessPath(data, k); !ok {
			absent = append(absent, Str(k))
		}
	}
	return Arr(absent...)
}
