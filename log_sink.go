package rulecore

import (
	"log/slog"
)

// SlogSink is the default LogSink, backed by log/slog the same way
// MacroPower-x/log builds its handler construction on top of log/slog
// rather than a bespoke logging library.
type SlogSink struct {
	logger *slog.Logger
}

// NewSlogSink wraps logger (or slog.Default() if nil) as a LogSink.
func NewSlogSink(logger *slog.Logger) *SlogSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogSink{logger: logger}
}

// Log implements LogSink by emitting the value at Info level under the
// "value" attribute, mirroring the "log" operator's identity-with-a-side-
// effect contract (spec §4.3).
func (s *SlogSink) Log(v Value) {
	s.logger.Info("rulecore.log", slog.Any("value", v.ToAny()))
}

// DiscardSink implements LogSink by doing nothing; useful in tests that
// don't want log output on stdout/stderr.
type DiscardSink struct{}

func (DiscardSink) Log(Value) {}
