package rulecore

import (
	"encoding/json"
	"sort"
)

// FromAny converts a Go-native value — as produced by encoding/json,
// encoding/yaml, or hand-built maps/slices — into a Value. It accepts
// nil, bool, string, int, int32, int64, uint64, float32, float64,
// json.Number, map[string]any / map[any]any, []any, []Value, and Value
// itself (returned as-is). Any other type becomes a String holding its
// encoding/json text (empty if it cannot be marshalled), matching the
// "catch rather than panic" contract required of evaluate.
func FromAny(v any) Value {
	switch t := v.(type) {
	case nil:
		return Null()
	case Value:
		return t
	case bool:
		return Bool(t)
	case string:
		return Str(t)
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return Int(i)
		}
		f, _ := t.Float64()
		return Float(f)
	case int:
		return Int(int64(t))
	case int32:
		return Int(int64(t))
	case int64:
		return Int(t)
	case uint64:
		if t > 1<<63-1 {
			return Float(float64(t))
		}
		return Int(int64(t))
	case float32:
		return Float(float64(t))
	case float64:
		return Float(t)
	case []any:
		items := make([]Value, len(t))
		for i, e := range t {
			items[i] = FromAny(e)
		}
		return Arr(items...)
	case []Value:
		return Arr(t...)
	case map[string]any:
		return Obj(sortedKVFromStringMap(t)...)
	case map[any]any:
		members := make([]KV, 0, len(t))
		for k, val := range t {
			members = append(members, KV{Key: anyToKeyString(k), Val: FromAny(val)})
		}
		return Obj(members...)
	default:
		return Str(anyToKeyString(t))
	}
}

// sortedKVFromStringMap builds a deterministic []KV from a map[string]any.
// Go randomizes map iteration order, so without a sort here Obj() member
// order (and therefore Keys()/ToAny() output) would vary across runs on
// the same input.
func sortedKVFromStringMap(m map[string]any) []KV {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]KV, len(keys))
	for i, k := range keys {
		out[i] = KV{Key: k, Val: FromAny(m[k])}
	}
	return out
}

func anyToKeyString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}

// ToAny converts a Value back into plain Go types suitable for
// encoding/json.Marshal or equality comparison against fixture data:
// nil, bool, string, int64, float64, []any, map[string]any.
func (v Value) ToAny() any {
	switch v.kind {
	case KindNull:
		return nil
	case KindBool:
		return v.b
	case KindInteger:
		return v.i
	case KindFloat:
		return v.f
	case KindString:
		return v.s
	case KindArray:
		out := make([]any, len(v.arr))
		for i, e := range v.arr {
			out[i] = e.ToAny()
		}
		return out
	case KindObject:
		out := make(map[string]any, len(v.obj))
		for _, m := range v.obj {
			out[m.key] = m.val.ToAny()
		}
		return out
	default:
		return nil
	}
}
