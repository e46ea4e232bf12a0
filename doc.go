// Package rulecore implements the core of a JSONLogic-compatible rule
// engine: compile a JSON-encoded rule once into a typed operator tree, then
// evaluate that tree repeatedly against arbitrary JSON data contexts.
//
// The pipeline has an explicit compile/evaluate split:
//
//	rule (any)  --> Compile  --> *CompiledNode (immutable, shareable)
//	data (any)  --> EvaluateJSON --> (Value, error)
//
// A compiled tree never references evaluation data, and a context stack
// never references the rule; they meet only inside Evaluator.Evaluate. This
// package does not read or write raw JSON bytes — callers decode the wire
// format themselves (e.g. with encoding/json into `any`) and pass the
// resulting Go value in. That split, plus a CLI or higher-level
// parse-string-and-evaluate convenience call, is left to a façade built on
// top of this package.
package rulecore
