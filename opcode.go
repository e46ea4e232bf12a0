package rulecore

// OpCode is the dense enum of built-in operators (spec §4.3). Compile time
// builds a name→OpCode map once; evaluation dispatches through a flat
// array indexed by OpCode, giving O(1) lookup with no hashing on the hot
// path, per spec §9 ("the evaluator's hot path SHOULD remain a switch on a
// small opcode, not a virtual call per argument").
type OpCode uint8

const (
	OpVar OpCode = iota
	OpVal
	OpExists

	OpEquals
	OpStrictEquals
	OpNotEquals
	OpStrictNotEquals
	OpGreaterThan
	OpGreaterThanEqual
	OpLessThan
	OpLessThanEqual

	OpNot
	OpDoubleNot
	OpAnd
	OpOr
	OpIf
	OpTernary
	OpCoalesce

	OpAdd
	OpSubtract
	OpMultiply
	OpDivide
	OpModulo
	OpMax
	OpMin
	OpAbs
	OpCeil
	OpFloor

	OpCat
	OpSubstr
	OpIn
	OpLength
	OpStartsWith
	OpEndsWith
	OpUpper
	OpLower
	OpTrim
	OpSplit

	OpMerge
	OpFilter
	OpMap
	OpReduce
	OpAll
	OpSome
	OpNone
	OpSort
	OpSlice

	OpMissing
	OpMissingSome

	OpTry
	OpThrow

	OpType
	OpPreserve
	OpLog

	OpDatetime
	OpTimestamp
	OpParseDate
	OpFormatDate
	OpDateDiff
	OpNow

	opCodeCount
)

// opCodeNames is the OpCode→name table, the inverse of opCodeByName.
var opCodeNames = [opCodeCount]string{
	OpVar: "var", OpVal: "val", OpExists: "exists",
	OpEquals: "==", OpStrictEquals: "===", OpNotEquals: "!=", OpStrictNotEquals: "!==",
	OpGreaterThan: ">", OpGreaterThanEqual: ">=", OpLessThan: "<", OpLessThanEqual: "<=",
	OpNot: "!", OpDoubleNot: "!!", OpAnd: "and", OpOr: "or",
	OpIf: "if", OpTernary: "?:", OpCoalesce: "??",
	OpAdd: "+", OpSubtract: "-", OpMultiply: "*", OpDivide: "/", OpModulo: "%",
	OpMax: "max", OpMin: "min", OpAbs: "abs", OpCeil: "ceil", OpFloor: "floor",
	OpCat: "cat", OpSubstr: "substr", OpIn: "in", OpLength: "length",
	OpStartsWith: "starts_with", OpEndsWith: "ends_with",
	OpUpper: "upper", OpLower: "lower", OpTrim: "trim", OpSplit: "split",
	OpMerge: "merge", OpFilter: "filter", OpMap: "map", OpReduce: "reduce",
	OpAll: "all", OpSome: "some", OpNone: "none", OpSort: "sort", OpSlice: "slice",
	OpMissing: "missing", OpMissingSome: "missing_some",
	OpTry: "try", OpThrow: "throw",
	OpType: "type", OpPreserve: "preserve", OpLog: "log",
	OpDatetime: "datetime", OpTimestamp: "timestamp", OpParseDate: "parse_date",
	OpFormatDate: "format_date", OpDateDiff: "date_diff", OpNow: "now",
}

// opCodeByName is built once at init time from opCodeNames — the
// "compile-time constructs a perfect map from operator symbol/name to
// opcode" contract in spec §4.3.
var opCodeByName = func() map[string]OpCode {
	m := make(map[string]OpCode, len(opCodeNames))
	for code, name := range opCodeNames {
		m[name] = OpCode(code)
	}
	return m
}()

// String returns the wire-level operator symbol, e.g. "var" or "==".
func (o OpCode) String() string {
	if int(o) < 0 || o >= opCodeCount {
		return "<invalid>"
	}
	return opCodeNames[o]
}

// lookupOpCode returns the OpCode for a wire-level operator name and
// whether it is registered as a built-in.
func lookupOpCode(name string) (OpCode, bool) {
	code, ok := opCodeByName[name]
	return code, ok
}
