package contracts

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"
)

// invalidValue stands in for a Go value that encoding/json cannot represent.
// No predicate accepts it.
type invalidValue struct{}

// normalize returns v in the generic form produced by encoding/json.
func normalize(v any) any {
	switch v.(type) {
	case nil, map[string]any, []any, string, bool, float64, json.Number:
		return v
	}
	data, err := json.Marshal(v)
	if err != nil {
		return invalidValue{}
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return invalidValue{}
	}
	return out
}

// shapeFunc validates the object currently held by the checker.
type shapeFunc func(c *checker)

// checker walks one payload and keeps the first violation. Every method is a
// no-op once a violation has been recorded, so shape functions read as a flat
// list of field rules.
type checker struct {
	shape string
	path  string
	obj   map[string]any
	err   *ValidationError
}

func check(shape string, v any, fn shapeFunc) error {
	c := &checker{shape: shape}
	c.descend("", normalize(v), fn)
	if c.err != nil {
		return c.err
	}
	return nil
}

func (c *checker) failAt(path, reason string) {
	if c.err == nil {
		c.err = &ValidationError{Shape: c.shape, Path: path, Reason: reason}
	}
}

func (c *checker) fail(field, reason string) {
	c.failAt(c.at(field), reason)
}

func (c *checker) at(field string) string {
	if c.path == "" {
		return field
	}
	return c.path + "." + field
}

func (c *checker) descend(path string, v any, fn shapeFunc) {
	if c.err != nil {
		return
	}
	m, ok := v.(map[string]any)
	if !ok {
		c.failAt(path, "expected object")
		return
	}
	parentObj, parentPath := c.obj, c.path
	c.obj, c.path = m, path
	fn(c)
	c.obj, c.path = parentObj, parentPath
}

func (c *checker) lookup(field string) (any, bool) {
	v, ok := c.obj[field]
	if !ok {
		return nil, false
	}
	return normalize(v), true
}

// strValue returns field as a string, or "" when it is absent or not a string.
func (c *checker) strValue(field string) string {
	v, _ := c.lookup(field)
	s, _ := v.(string)
	return s
}

// required: present, non-null, and accepted by test.
func (c *checker) required(field, want string, test func(any) bool) {
	if c.err != nil {
		return
	}
	v, ok := c.lookup(field)
	if !ok {
		c.fail(field, "missing required field")
		return
	}
	if !test(v) {
		c.fail(field, "expected "+want)
	}
}

// optional: may be absent; when present (including null) it must pass test.
func (c *checker) optional(field, want string, test func(any) bool) {
	if c.err != nil {
		return
	}
	v, ok := c.lookup(field)
	if !ok {
		return
	}
	if !test(v) {
		c.fail(field, "expected "+want)
	}
}

// nullable: must be present; null or accepted by test.
func (c *checker) nullable(field, want string, test func(any) bool) {
	if c.err != nil {
		return
	}
	v, ok := c.lookup(field)
	if !ok {
		c.fail(field, "missing required field")
		return
	}
	if v != nil && !test(v) {
		c.fail(field, "expected "+want+" or null")
	}
}

func (c *checker) str(field string)     { c.required(field, "string", isString) }
func (c *checker) optStr(field string)  { c.optional(field, "string", isString) }
func (c *checker) nullStr(field string) { c.nullable(field, "string", isString) }

func (c *checker) num(field string)     { c.required(field, "number", isNumber) }
func (c *checker) optNum(field string)  { c.optional(field, "number", isNumber) }
func (c *checker) nullNum(field string) { c.nullable(field, "number", isNumber) }

func (c *checker) integer(field string)     { c.required(field, "integer", isInteger) }
func (c *checker) optInteger(field string)  { c.optional(field, "integer", isInteger) }
func (c *checker) nullInteger(field string) { c.nullable(field, "integer", isInteger) }

func (c *checker) count(field string)    { c.required(field, "non-negative integer", isCount) }
func (c *checker) fraction(field string) { c.required(field, "number between 0 and 1", isFraction) }

func (c *checker) boolean(field string)    { c.required(field, "boolean", isBool) }
func (c *checker) optBoolean(field string) { c.optional(field, "boolean", isBool) }

func (c *checker) timestamp(field string)     { c.required(field, "RFC 3339 timestamp", isTimestamp) }
func (c *checker) optTimestamp(field string)  { c.optional(field, "RFC 3339 timestamp", isTimestamp) }
func (c *checker) nullTimestamp(field string) { c.nullable(field, "RFC 3339 timestamp", isTimestamp) }

func (c *checker) object(field string)     { c.required(field, "object", isObject) }
func (c *checker) optObject(field string)  { c.optional(field, "object", isObject) }
func (c *checker) nullObject(field string) { c.nullable(field, "object", isObject) }

func (c *checker) strMap(field string)    { c.required(field, "object of strings", isStringMap) }
func (c *checker) optStrMap(field string) { c.optional(field, "object of strings", isStringMap) }

// strs: required array whose every element is a string.
func (c *checker) strs(field string) {
	if c.err != nil {
		return
	}
	v, ok := c.lookup(field)
	if !ok {
		c.fail(field, "missing required field")
		return
	}
	c.stringElements(field, v)
}

func (c *checker) optStrs(field string) {
	if c.err != nil {
		return
	}
	if v, ok := c.lookup(field); ok {
		c.stringElements(field, v)
	}
}

func (c *checker) nullStrs(field string) {
	if c.err != nil {
		return
	}
	v, ok := c.lookup(field)
	if !ok {
		c.fail(field, "missing required field")
		return
	}
	if v != nil {
		c.stringElements(field, v)
	}
}

func (c *checker) stringElements(field string, v any) {
	arr, ok := v.([]any)
	if !ok {
		c.fail(field, "expected array of strings")
		return
	}
	base := c.at(field)
	for i, el := range arr {
		if !isString(normalize(el)) {
			c.failAt(fmt.Sprintf("%s[%d]", base, i), "expected string")
			return
		}
	}
}

// nested: required object validated by fn.
func (c *checker) nested(field string, fn shapeFunc) {
	if c.err != nil {
		return
	}
	v, ok := c.lookup(field)
	if !ok {
		c.fail(field, "missing required field")
		return
	}
	c.descend(c.at(field), v, fn)
}

func (c *checker) optNested(field string, fn shapeFunc) {
	if c.err != nil {
		return
	}
	if v, ok := c.lookup(field); ok {
		c.descend(c.at(field), v, fn)
	}
}

func (c *checker) nullNested(field string, fn shapeFunc) {
	if c.err != nil {
		return
	}
	v, ok := c.lookup(field)
	if !ok {
		c.fail(field, "missing required field")
		return
	}
	if v != nil {
		c.descend(c.at(field), v, fn)
	}
}

// list: required array of objects, each validated by fn. Stops at the first
// invalid element.
func (c *checker) list(field string, fn shapeFunc) {
	if c.err != nil {
		return
	}
	v, ok := c.lookup(field)
	if !ok {
		c.fail(field, "missing required field")
		return
	}
	c.elements(field, v, fn)
}

func (c *checker) optList(field string, fn shapeFunc) {
	if c.err != nil {
		return
	}
	if v, ok := c.lookup(field); ok {
		c.elements(field, v, fn)
	}
}

func (c *checker) elements(field string, v any, fn shapeFunc) {
	arr, ok := v.([]any)
	if !ok {
		c.fail(field, "expected array")
		return
	}
	base := c.at(field)
	for i, el := range arr {
		c.descend(fmt.Sprintf("%s[%d]", base, i), normalize(el), fn)
		if c.err != nil {
			return
		}
	}
}

// entries: required object whose every value is an object validated by fn.
func (c *checker) entries(field string, fn shapeFunc) {
	if c.err != nil {
		return
	}
	v, ok := c.lookup(field)
	if !ok {
		c.fail(field, "missing required field")
		return
	}
	m, ok := v.(map[string]any)
	if !ok {
		c.fail(field, "expected object")
		return
	}
	base := c.at(field)
	for _, key := range sortedKeys(m) {
		c.descend(base+"."+key, normalize(m[key]), fn)
		if c.err != nil {
			return
		}
	}
}

// Predicates over normalized values.

func isString(v any) bool {
	_, ok := v.(string)
	return ok
}

func isBool(v any) bool {
	_, ok := v.(bool)
	return ok
}

func isObject(v any) bool {
	_, ok := v.(map[string]any)
	return ok
}

func numberOf(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, !math.IsNaN(n) && !math.IsInf(n, 0)
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

func isNumber(v any) bool {
	_, ok := numberOf(v)
	return ok
}

// isInteger accepts numbers that decode into an int64 field.
func isInteger(v any) bool {
	if n, ok := v.(json.Number); ok {
		_, err := strconv.ParseInt(n.String(), 10, 64)
		return err == nil
	}
	f, ok := numberOf(v)
	return ok && f == math.Trunc(f) && math.Abs(f) < 1<<53
}

func isCount(v any) bool {
	if !isInteger(v) {
		return false
	}
	f, _ := numberOf(v)
	return f >= 0
}

func isFraction(v any) bool {
	f, ok := numberOf(v)
	return ok && f >= 0 && f <= 1
}

func isStringOrNumber(v any) bool {
	return isString(v) || isNumber(v)
}

func isTimestamp(v any) bool {
	s, ok := v.(string)
	if !ok {
		return false
	}
	_, err := time.Parse(time.RFC3339, s)
	return err == nil
}

func isStringMap(v any) bool {
	m, ok := v.(map[string]any)
	if !ok {
		return false
	}
	for _, el := range m {
		if !isString(normalize(el)) {
			return false
		}
	}
	return true
}

// decode unmarshals data generically, runs checkFn, and then decodes the
// checked value into T. Decoding from the re-encoded generic value keeps the
// typed result consistent with what the guard saw.
func decode[T any](data []byte, checkFn func(any) error) (T, error) {
	var zero T
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return zero, fmt.Errorf("contracts: decode: %w", err)
	}
	if err := checkFn(raw); err != nil {
		return zero, err
	}
	canonical, err := json.Marshal(raw)
	if err != nil {
		return zero, fmt.Errorf("contracts: decode: %w", err)
	}
	var out T
	if err := json.Unmarshal(canonical, &out); err != nil {
		return zero, fmt.Errorf("contracts: decode: %w", err)
	}
	return out, nil
}
