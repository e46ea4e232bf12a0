package rulecore


// Compile transforms a decoded JSON rule (an `any` as produced by
// encoding/json.Unmarshal, a hand-built map[string]any/[]any tree, or a
// Value) into an immutable CompiledNode tree, folding statically evaluable
// subtrees along the way (spec §4.4). The customNames set determines which
// single-key object names compile to a nodeCustom node rather than failing as an
// unrecognised operator — pass the names you intend to register with
// Evaluator.RegisterCustomOperator (or RegisterCustomOperatorSimple).
func Compile(rule any, customNames map[string]bool, cfg *Config) (*CompiledNode, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	v := FromAny(rule)
	node, err := compileValue(v, customNames, cfg)
	if err != nil {
		return nil, err
	}
	return staticOptimize(node, customNames), nil
}

func compileValue(v Value, customNames map[string]bool, cfg *Config) (*CompiledNode, error) {
	switch v.Kind() {
	case KindObject:
		return compileObject(v, customNames, cfg)
	case KindArray:
		return compileArray(v, customNames, cfg)
	default:
		return valueNode(v), nil
	}
}

func compileArray(v Value, customNames map[string]bool, cfg *Config) (*CompiledNode, error) {
	items := v.ArrayValue()
	elements := make([]*CompiledNode, len(items))
	allLiteral := true
	for i, item := range items {
		n, err := compileValue(item, customNames, cfg)
		if err != nil {
			return nil, err
		}
		elements[i] = n
		if !n.IsLiteral() {
			allLiteral = false
		}
	}
	if allLiteral {
		// Rule 2: an array whose every descendant is a literal compiles to
		// a single literal Value holding the whole array.
		vals := make([]Value, len(elements))
		for i, n := range elements {
			vals[i] = n.LiteralValue()
		}
		return valueNode(Arr(vals...)), nil
	}
	return arrayNode(elements), nil
}

func compileObject(v Value, customNames map[string]bool, cfg *Config) (*CompiledNode, error) {
	keys := v.Keys()
	if len(keys) != 1 {
		if cfg.PreserveStructure {
			return compileStructured(v, customNames, cfg)
		}
		return nil, errParse("object with multiple keys is not a valid operator form")
	}

	key := keys[0]
	raw, _ := v.Get(key)

	switch key {
	case "var":
		args, err := compileArgList(raw, customNames, cfg)
		if err != nil {
			return nil, err
		}
		return builtinNode(OpVar, args), nil
	case "val":
		args, err := compileArgList(raw, customNames, cfg)
		if err != nil {
			return nil, err
		}
		return builtinNode(OpVal, args), nil
	case "exists":
		args, err := compileArgList(raw, customNames, cfg)
		if err != nil {
			return nil, err
		}
		return builtinNode(OpExists, args), nil
	case "preserve":
		// The preserve escape: the argument is returned verbatim as a
		// literal Value and is never interpreted as an operator, even if
		// it looks like one (spec §4.3/§4.4).
		return valueNode(raw), nil
	}

	if op, ok := lookupOpCode(key); ok {
		args, err := compileArgList(raw, customNames, cfg)
		if err != nil {
			return nil, err
		}
		return builtinNode(op, args), nil
	}
	if customNames[key] {
		args, err := compileArgList(raw, customNames, cfg)
		if err != nil {
			return nil, err
		}
		return customNode(key, args), nil
	}

	if cfg.PreserveStructure {
		return compileStructured(v, customNames, cfg)
	}
	return nil, errOperator(key)
}

// compileArgList normalises an operator's argument position: a JSON array
// compiles element-wise; any other JSON value is wrapped as a single-
// element arg list (spec §4.4, §6.1).
func compileArgList(raw Value, customNames map[string]bool, cfg *Config) ([]*CompiledNode, error) {
	if raw.Kind() == KindArray {
		items := raw.ArrayValue()
		args := make([]*CompiledNode, len(items))
		for i, item := range items {
			n, err := compileValue(item, customNames, cfg)
			if err != nil {
				return nil, err
			}
			args[i] = n
		}
		return args, nil
	}
	n, err := compileValue(raw, customNames, cfg)
	if err != nil {
		return nil, err
	}
	return []*CompiledNode{n}, nil
}

// compileStructured handles structure-preserving mode (spec §4.4): each
// field's value compiles independently; results are reassembled into an
// output object at evaluation.
func compileStructured(v Value, customNames map[string]bool, cfg *Config) (*CompiledNode, error) {
	keys := v.Keys()
	fields := make([]structuredField, len(keys))
	for i, k := range keys {
		raw, _ := v.Get(k)
		n, err := compileValue(raw, customNames, cfg)
		if err != nil {
			return nil, err
		}
		fields[i] = structuredField{key: k, node: n}
	}
	return structuredNode(fields), nil
}
