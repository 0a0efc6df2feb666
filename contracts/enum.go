package contracts

import (
	"slices"
	"sort"
)

// member reports whether v is a string (or a value of the enum type itself)
// equal to one of values. Anything else, including nil and numbers, is false.
func member[E ~string](values []E, v any) bool {
	var s string
	switch x := v.(type) {
	case string:
		s = x
	case E:
		s = string(x)
	default:
		return false
	}
	return slices.Contains(values, E(s))
}

// predicate adapts an enum value set to the checker's predicate signature.
func predicate[E ~string](values []E) func(any) bool {
	return func(v any) bool { return member(values, v) }
}

// Strings converts an enum value set to plain strings, preserving order.
func Strings[E ~string](values []E) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
