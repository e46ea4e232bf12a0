package rulecore

// TruthyEvaluator classifies a Value as truthy or falsy. JavaScriptTruthy
// and StrictBooleanTruthy are the two built-in policies named in spec §4.2;
// a Custom one is just any function matching this signature.
type TruthyEvaluator func(v Value) bool

// JavaScriptTruthy is the default: falsy are null, false, any zero-valued
// number (including -0 and NaN), "", [], {}.
func JavaScriptTruthy(v Value) bool {
	switch v.Kind() {
	case KindNull:
		return false
	case KindBool:
		return v.BoolValue()
	case KindInteger:
		return v.IntValue() != 0
	case KindFloat:
		f := v.FloatValue()
		return f != 0 && f == f // f==f is false for NaN
	case KindString:
		return v.StringValue() != ""
	case KindArray:
		return len(v.ArrayValue()) != 0
	case KindObject:
		return len(v.Keys()) != 0
	default:
		return false
	}
}

// StrictBooleanTruthy treats only null and false as falsy; everything else
// (including 0, "", [], {}) is truthy.
func StrictBooleanTruthy(v Value) bool {
	switch v.Kind() {
	case KindNull:
		return false
	case KindBool:
		return v.BoolValue()
	default:
		return true
	}
}

// NaNHandling controls what happens when a numeric coercion fails inside an
// arithmetic or numeric-comparison operator (spec §4.2).
type NaNHandling int

const (
	// NaNThrowError surfaces a KindNaNError (the default).
	NaNThrowError NaNHandling = iota
	// NaNIgnoreValue drops the offending operand from a reduction,
	// substituting the fold's identity element.
	NaNIgnoreValue
	// NaNCoerceToZero treats the offending operand as 0.
	NaNCoerceToZero
	// NaNReturnNull short-circuits the whole operation to Null.
	NaNReturnNull
)

// NumericCoercion holds the independently toggleable coercion flags from
// spec §4.2.
type NumericCoercion struct {
	EmptyStringToZero bool
	NullToZero        bool
	BoolToNumber      bool
	// StrictNumeric, when true, rejects any coercion beyond parseable
	// numeric strings (no null/bool/empty-string shortcuts even if the
	// flags above are set).
	StrictNumeric bool
}

// LogSink receives evaluated values from the "log" operator. The default
// implementation (see log_sink.go) wraps a log/slog.Logger, the same
// foundation the rest of the retrieval pack's own logging package builds
// on (MacroPower-x/log wraps log/slog with level/format handling).
type LogSink interface {
	Log(v Value)
}

// Config is the immutable configuration surface (spec §4.7). Build one with
// DefaultConfig or StrictConfig and adjust with the With* functional
// options, e.g. DefaultConfig(WithNaNHandling(NaNIgnoreValue)).
type Config struct {
	NaNHandling         NaNHandling
	NumericCoercion     NumericCoercion
	LooseEqualityErrors bool
	TruthyEvaluator     TruthyEvaluator
	PreserveStructure   bool
	LogSink             LogSink
}

// Option configures a Config in place, applied by DefaultConfig/StrictConfig.
type Option func(*Config)

// WithNaNHandling overrides the NaN-handling policy.
func WithNaNHandling(h NaNHandling) Option {
	return func(c *Config) { c.NaNHandling = h }
}

// WithNumericCoercion overrides the numeric coercion flags.
func WithNumericCoercion(n NumericCoercion) Option {
	return func(c *Config) { c.NumericCoercion = n }
}

// WithLooseEqualityErrors sets whether cross-type ordering comparisons that
// can't coerce raise a TypeMismatch (true) or return false (false).
func WithLooseEqualityErrors(raise bool) Option {
	return func(c *Config) { c.LooseEqualityErrors = raise }
}

// WithTruthyEvaluator overrides the truthiness policy.
func WithTruthyEvaluator(fn TruthyEvaluator) Option {
	return func(c *Config) { c.TruthyEvaluator = fn }
}

// WithPreserveStructure toggles the parser's structure-preserving mode for
// multi-key objects (spec §4.4).
func WithPreserveStructure(preserve bool) Option {
	return func(c *Config) { c.PreserveStructure = preserve }
}

// WithLogSink overrides the sink the "log" operator writes to.
func WithLogSink(sink LogSink) Option {
	return func(c *Config) { c.LogSink = sink }
}

// DefaultConfig returns the JavaScript-like preset: permissive coercion,
// JavaScriptTruthy, loose-equality comparisons never error, NaN throws.
func DefaultConfig(opts ...Option) *Config {
	c := &Config{
		NaNHandling: NaNThrowError,
		NumericCoercion: NumericCoercion{
			EmptyStringToZero: true,
			NullToZero:        true,
			BoolToNumber:      true,
		},
		LooseEqualityErrors: false,
		TruthyEvaluator:     JavaScriptTruthy,
		PreserveStructure:   false,
		LogSink:             NewSlogSink(nil),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// StrictConfig returns the no-coercion preset: only parseable numeric
// strings coerce, equality errors are raised rather than swallowed, and NaN
// always throws.
func StrictConfig(opts ...Option) *Config {
	c := &Config{
		NaNHandling: NaNThrowError,
		NumericCoercion: NumericCoercion{
			StrictNumeric: true,
		},
		LooseEqualityErrors: true,
		TruthyEvaluator:     StrictBooleanTruthy,
		PreserveStructure:   false,
		LogSink:             NewSlogSink(nil),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}
