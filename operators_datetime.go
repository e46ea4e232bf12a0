package rulecore

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// All dates on the wire are ISO-8601 strings with a "Z" or numeric offset
// (spec §4.3); durations are compact "Xd:Xh:Xm:Xs" strings.

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func parseISODate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errTypeMismatch("ISO-8601 datetime string", s)
}

func formatISODate(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// formatDuration renders a duration in the compact Xd:Xh:Xm:Xs form named
// in spec §4.3.
func formatDuration(d time.Duration) string {
	neg := d < 0
	if neg {
		d = -d
	}
	days := int64(d / (24 * time.Hour))
	d -= time.Duration(days) * 24 * time.Hour
	hours := int64(d / time.Hour)
	d -= time.Duration(hours) * time.Hour
	minutes := int64(d / time.Minute)
	d -= time.Duration(minutes) * time.Minute
	seconds := int64(d / time.Second)
	sign := ""
	if neg {
		sign = "-"
	}
	return fmt.Sprintf("%s%dd:%dh:%dm:%ds", sign, days, hours, minutes, seconds)
}

// parseDuration parses the compact Xd:Xh:Xm:Xs form. Each component is
// optional but must carry its unit suffix when present.
func parseDuration(s string) (time.Duration, error) {
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	parts := strings.Split(s, ":")
	var total time.Duration
	for _, p := range parts {
		if p == "" {
			continue
		}
		unit := p[len(p)-1]
		numPart := p[:len(p)-1]
		n, err := strconv.ParseInt(numPart, 10, 64)
		if err != nil {
			return 0, errTypeMismatch("duration string", s)
		}
		switch unit {
		case 'd':
			total += time.Duration(n) * 24 * time.Hour
		case 'h':
			total += time.Duration(n) * time.Hour
		case 'm':
			total += time.Duration(n) * time.Minute
		case 's':
			total += time.Duration(n) * time.Second
		default:
			return 0, errTypeMismatch("duration string", s)
		}
	}
	if neg {
		total = -total
	}
	return total, nil
}

// evalDatetime implements datetime(value) and datetime(value, duration)
// (spec §4.3): with one argument, normalises value (an ISO-8601 string or a
// numeric Unix timestamp) to a canonical ISO-8601 string; with two, adds a
// duration string to it. An unparseable duration string is returned as an
// error.
func evalDatetime(ev *Evaluator, args []*CompiledNode, ctx *ContextStack) (Value, error) {
	if len(args) < 1 || len(args) > 2 {
		return Value{}, errArgs("datetime", "requires 1 or 2 arguments")
	}
	vals, err := ev.evalAllNodes(args, ctx)
	if err != nil {
		return Value{}, err
	}

	var t time.Time
	switch {
	case vals[0].IsString():
		t, err = parseISODate(vals[0].StringValue())
		if err != nil {
			return Value{}, err
		}
	case vals[0].IsNumber():
		t = time.Unix(vals[0].IntValue(), 0).UTC()
	default:
		return Value{}, errTypeMismatch("string or number", vals[0].TypeName())
	}

	if len(vals) == 2 {
		dur, err := parseDuration(vals[1].StringValue())
		if err != nil {
			return Value{}, err
		}
		t = t.Add(dur)
	}
	return Str(formatISODate(t)), nil
}

// evalTimestamp implements timestamp (spec §4.3): with one numeric argument
// it formats a count of seconds as a compact duration string; with two
// datetime strings it formats their difference (b - a).
func evalTimestamp(ev *Evaluator, args []*CompiledNode, ctx *ContextStack) (Value, error) {
	vals, err := ev.evalAllNodes(args, ctx)
	if err != nil {
		return Value{}, err
	}
	switch len(vals) {
	case 1:
		if vals[0].IsNumber() {
			return Str(formatDuration(time.Duration(vals[0].FloatValue() * float64(time.Second)))), nil
		}
		t, err := parseISODate(vals[0].StringValue())
		if err != nil {
			return Value{}, err
		}
		return Str(formatDuration(time.Duration(t.Unix()) * time.Second)), nil
	case 2:
		a, err := parseISODate(vals[0].StringValue())
		if err != nil {
			return Value{}, err
		}
		b, err := parseISODate(vals[1].StringValue())
		if err != nil {
			return Value{}, err
		}
		return Str(formatDuration(b.Sub(a))), nil
	default:
		return Value{}, errArgs("timestamp", "requires 1 or 2 arguments")
	}
}

// evalParseDate implements parse_date(s [, layout]) (spec §4.3): parses s
// (using a Go reference-time layout if supplied, else ISO-8601) and
// re-emits it as the canonical ISO-8601 form.
func evalParseDate(ev *Evaluator, args []*CompiledNode, ctx *ContextStack) (Value, error) {
	if len(args) < 1 || len(args) > 2 {
		return Value{}, errArgs("parse_date", "requires 1 or 2 arguments")
	}
	vals, err := ev.evalAllNodes(args, ctx)
	if err != nil {
		return Value{}, err
	}
	if len(vals) == 2 {
		t, err := time.Parse(vals[1].StringValue(), vals[0].StringValue())
		if err != nil {
			return Value{}, errTypeMismatch("datetime matching layout "+vals[1].StringValue(), vals[0].StringValue())
		}
		return Str(formatISODate(t)), nil
	}
	t, err := parseISODate(vals[0].StringValue())
	if err != nil {
		return Value{}, err
	}
	return Str(formatISODate(t)), nil
}

// evalFormatDate implements format_date(s, layout) (spec §4.3): formats an
// ISO-8601 datetime string per a Go reference-time layout string.
func evalFormatDate(ev *Evaluator, args []*CompiledNode, ctx *ContextStack) (Value, error) {
	if len(args) != 2 {
		return Value{}, errArgs("format_date", "requires exactly 2 arguments")
	}
	vals, err := ev.evalAllNodes(args, ctx)
	if err != nil {
		return Value{}, err
	}
	t, err := parseISODate(vals[0].StringValue())
	if err != nil {
		return Value{}, err
	}
	return Str(t.UTC().Format(vals[1].StringValue())), nil
}

// evalDateDiff implements date_diff(a, b [, unit]) (spec §4.3): returns the
// signed difference (b - a). With unit ("seconds"|"minutes"|"hours"|"days")
// the result is an Integer count; without it, a compact duration string.
func evalDateDiff(ev *Evaluator, args []*CompiledNode, ctx *ContextStack) (Value, error) {
	if len(args) < 2 || len(args) > 3 {
		return Value{}, errArgs("date_diff", "requires 2 or 3 arguments")
	}
	vals, err := ev.evalAllNodes(args, ctx)
	if err != nil {
		return Value{}, err
	}
	a, err := parseISODate(vals[0].StringValue())
	if err != nil {
		return Value{}, err
	}
	b, err := parseISODate(vals[1].StringValue())
	if err != nil {
		return Value{}, err
	}
	diff := b.Sub(a)
	if len(vals) == 2 {
		return Str(formatDuration(diff)), nil
	}
	switch vals[2].StringValue() {
	case "seconds":
		return Int(int64(diff.Seconds())), nil
	case "minutes":
		return Int(int64(diff.Minutes())), nil
	case "hours":
		return Int(int64(diff.Hours())), nil
	case "days":
		return Int(int64(diff.Hours() / 24)), nil
	default:
		return Value{}, errArgs("date_diff", "unit must be one of seconds, minutes, hours, days")
	}
}

// evalNow implements now (spec §4.3): reads the ambient clock synchronously
// and returns the canonical ISO-8601 string.
func evalNow(ev *Evaluator, args []*CompiledNode, ctx *ContextStack) (Value, error) {
	return Str(formatISODate(time.Now())), nil
}
