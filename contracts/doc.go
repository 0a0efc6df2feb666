// Package contracts defines the data exchanged between the LimerClaw control
// plane, self-hosted runners, the mobile relay and the dashboard.
//
// The package is declarative: string enums with closed value sets, JSON
// shapes whose field names are the wire names, a handful of immutable lookup
// tables, and guards that validate untyped JSON at the boundary. Nothing in
// here performs I/O, holds mutable state, or logs.
//
// Every guard comes in two forms:
//
//	err := contracts.CheckRunResult(v) // first violation as *ValidationError
//	ok := contracts.IsRunResult(v)     // same check, boolean result
//
// Guards accept the generic values produced by encoding/json (map[string]any,
// []any, string, float64, json.Number, bool, nil). Any other Go value, such
// as a typed RunResult, is normalized through encoding/json first, so a
// producer can check what it is about to send.
//
// Decode helpers (DecodeRunRequest, DecodeRunResult, ...) combine the check
// with unmarshaling into the typed struct. A payload accepted by a guard
// always decodes: timestamps are checked as RFC 3339 strings and counters as
// integral numbers.
package contracts
