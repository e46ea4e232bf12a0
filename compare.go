package rulecore

import "strconv"

// looseEqual implements JSONLogic's == semantics (spec §4.2): same type
// compares directly; cross-type attempts numeric coercion; null == false
// and null == missing default to true under JavaScript-style rules because
// missing variable lookups already resolve to Null before reaching here.
func looseEqual(a, b Value, cfg *Config) bool {
	if a.Kind() == b.Kind() {
		return a.Equal(b)
	}
	if a.IsNumber() && b.IsNumber() {
		return a.Equal(b)
	}

	switch {
	case a.IsNull() && b.Kind() == KindBool:
		return !b.BoolValue()
	case b.IsNull() && a.Kind() == KindBool:
		return !a.BoolValue()
	case a.IsNull() || b.IsNull():
		return a.IsNull() && b.IsNull()
	}

	an, aok := toNumber(a, cfg)
	bn, bok := toNumber(b, cfg)
	if aok && bok {
		return an.Equal(bn)
	}
	if a.IsString() && b.IsNumber() {
		if n, err := strconv.ParseFloat(a.StringValue(), 64); err == nil {
			return n == b.FloatValue()
		}
		return false
	}
	if b.IsString() && a.IsNumber() {
		if n, err := strconv.ParseFloat(b.StringValue(), 64); err == nil {
			return n == a.FloatValue()
		}
		return false
	}
	if a.IsArray() && b.IsArray() {
		return a.Equal(b)
	}
	if a.IsObject() && b.IsObject() {
		return a.Equal(b)
	}
	return false
}

// strictEqual implements === (spec §4.2): same type AND same value.
func strictEqual(a, b Value) bool {
	if !a.SameType(b) {
		return false
	}
	return a.Equal(b)
}

// compareOrdering implements <, <=, >, >= (spec §4.2): numeric after
// coercion, lexicographic for same-type strings. When the values can't be
// compared, the cfg.LooseEqualityErrors flag decides whether that's a
// TypeMismatch error or simply false.
func compareOrdering(a, b Value, cfg *Config) (cmp int, ok bool, err error) {
	if a.IsString() && b.IsString() {
		as, bs := a.StringValue(), b.StringValue()
		switch {
		case as < bs:
			return -1, true, nil
		case as > bs:
			return 1, true, nil
		default:
			return 0, true, nil
		}
	}

	an, aok := toNumber(a, cfg)
	bn, bok := toNumber(b, cfg)
	if !aok || !bok {
		if cfg.LooseEqualityErrors {
			bad := a
			if aok {
				bad = b
			}
			return 0, false, errTypeMismatch("number", bad.TypeName())
		}
		return 0, false, nil
	}

	af, bf := an.FloatValue(), bn.FloatValue()
	switch {
	case af < bf:
		return -1, true, nil
	case af > bf:
		return 1, true, nil
	default:
		return 0, true, nil
	}
}
