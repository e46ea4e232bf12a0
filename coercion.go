package rulecore

import (
	"strconv"
	"strings"
)

// toNumber attempts to coerce v to a numeric Value under cfg's
// NumericCoercion flags. ok is false if coercion is not permitted or the
// value isn't parseable.
func toNumber(v Value, cfg *Config) (Value, bool) {
	nc := cfg.NumericCoercion
	switch v.Kind() {
	case KindInteger, KindFloat:
		return v, true
	case KindNull:
		if nc.StrictNumeric {
			return Value{}, false
		}
		if nc.NullToZero {
			return Int(0), true
		}
		return Value{}, false
	case KindBool:
		if nc.StrictNumeric {
			return Value{}, false
		}
		if nc.BoolToNumber {
			if v.BoolValue() {
				return Int(1), true
			}
			return Int(0), true
		}
		return Value{}, false
	case KindString:
		s := strings.TrimSpace(v.StringValue())
		if s == "" {
			if nc.StrictNumeric {
				return Value{}, false
			}
			if nc.EmptyStringToZero {
				return Int(0), true
			}
			return Value{}, false
		}
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return Int(i), true
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return Float(f), true
		}
		return Value{}, false
	case KindArray:
		if nc.StrictNumeric {
			return Value{}, false
		}
		arr := v.ArrayValue()
		if len(arr) == 0 {
			return Int(0), true
		}
		if len(arr) == 1 {
			return toNumber(arr[0], cfg)
		}
		return Value{}, false
	default:
		return Value{}, false
	}
}

// toStringCoerce stringifies v per JSONLogic's loose string coercion rules
// (used by cat, substr and the other string operators for operands that
// aren't already strings).
func toStringCoerce(v Value) string {
	switch v.Kind() {
	case KindNull:
		return ""
	case KindBool:
		if v.BoolValue() {
			return "true"
		}
		return "false"
	case KindInteger:
		return strconv.FormatInt(v.IntValue(), 10)
	case KindFloat:
		return strconv.FormatFloat(v.FloatValue(), 'g', -1, 64)
	case KindString:
		return v.StringValue()
	case KindArray:
		parts := make([]string, len(v.ArrayValue()))
		for i, e := range v.ArrayValue() {
			parts[i] = toStringCoerce(e)
		}
		return strings.Join(parts, ",")
	case KindObject:
		return "[object Object]"
	default:
		return ""
	}
}

// applyNaNPolicy converts a failed-coercion operand into the correct
// behaviour for the configured NaN policy. shortCircuitNull=true means the
// whole operation should short-circuit to Null (NaNReturnNull). err!=nil
// means the policy is ThrowError and the error should propagate. Otherwise
// identity was substituted (NaNIgnoreValue) or zero was substituted
// (NaNCoerceToZero); the caller uses substituted.
func applyNaNPolicy(cfg *Config, identity float64, opName string) (substituted Value, shortCircuitNull bool, err error) {
	switch cfg.NaNHandling {
	case NaNIgnoreValue:
		return Float(identity), false, nil
	case NaNCoerceToZero:
		return Int(0), false, nil
	case NaNReturnNull:
		return Value{}, true, nil
	default: // NaNThrowError
		return Value{}, false, errNaN("cannot coerce operand to number in " + opName)
	}
}
