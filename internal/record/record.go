// Package record holds the loosely-typed entities (tasks, issues, projects)
// the worklist engine operates on, and the alias chains used to read them.
//
// Upstream data is inconsistent: the same logical attribute shows up under
// different keys depending on which service produced the record. A [Chain]
// lists the candidate keys in priority order and the first present,
// non-empty value wins. Values from different aliases are never merged.
package record

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// Record is a single task, issue or project as decoded from JSON or YAML.
type Record map[string]any

// Accessor reads one candidate location of an attribute. ok is false when
// the location does not exist on the record.
type Accessor func(rec Record) (value any, ok bool)

// Field returns an accessor for a top-level key.
func Field(key string) Accessor {
	return func(rec Record) (any, bool) {
		value, ok := rec[key]

		return value, ok
	}
}

// Path returns an accessor for a nested key, e.g. Path("project", "projectName")
// reads rec["project"]["projectName"]. Any missing or non-object hop yields
// ok=false.
func Path(keys ...string) Accessor {
	return func(rec Record) (any, bool) {
		var current any = map[string]any(rec)

		for _, key := range keys {
			obj, isObj := asObject(current)
			if !isObj {
				return nil, false
			}

			next, ok := obj[key]
			if !ok {
				return nil, false
			}

			current = next
		}

		return current, true
	}
}

// Chain is the ordered alias list for one logical attribute.
type Chain []Accessor

// Value returns the first present, non-empty value. nil and "" count as
// empty; everything else (including objects and zero numbers) is
// authoritative.
func (c Chain) Value(rec Record) (any, bool) {
	if rec == nil {
		return nil, false
	}

	for _, accessor := range c {
		value, ok := accessor(rec)
		if !ok || isEmpty(value) {
			continue
		}

		return value, true
	}

	return nil, false
}

// String resolves the attribute as a string. Non-scalar values resolve to "".
func (c Chain) String(rec Record) string {
	value, ok := c.Value(rec)
	if !ok {
		return ""
	}

	return ToString(value)
}

// Number resolves the attribute as a number. ok is false when the attribute
// is absent or not numeric.
func (c Chain) Number(rec Record) (float64, bool) {
	value, ok := c.Value(rec)
	if !ok {
		return 0, false
	}

	return ToNumber(value)
}

// Bool resolves the attribute as a flag. Absent means false.
func (c Chain) Bool(rec Record) bool {
	value, ok := c.Value(rec)
	if !ok {
		return false
	}

	return ToBool(value)
}

// Strings resolves a multi-valued attribute (e.g. tags). A list yields its
// non-empty elements (objects contribute their "name"), a scalar yields a
// single element.
func (c Chain) Strings(rec Record) []string {
	value, ok := c.Value(rec)
	if !ok {
		return nil
	}

	list, isList := AsList(value)
	if !isList {
		if s := ToString(value); s != "" {
			return []string{s}
		}

		return nil
	}

	out := make([]string, 0, len(list))

	for _, elem := range list {
		if obj, isObj := asObject(elem); isObj {
			elem = obj["name"]
		}

		if s := ToString(elem); s != "" {
			out = append(out, s)
		}
	}

	return out
}

// ToString converts a scalar to its string form. Objects, lists and nil
// convert to "".
func ToString(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case json.Number:
		return v.String()
	case bool:
		return strconv.FormatBool(v)
	case time.Time:
		return v.Format(time.RFC3339)
	default:
		return ""
	}
}

// ToNumber converts numbers and numeric strings. NaN is rejected.
func ToNumber(value any) (float64, bool) {
	var n float64

	switch v := value.(type) {
	case float64:
		n = v
	case float32:
		n = float64(v)
	case int:
		n = float64(v)
	case int64:
		n = float64(v)
	case uint64:
		n = float64(v)
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, false
		}

		n = f
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}

		n = f
	default:
		return 0, false
	}

	if math.IsNaN(n) {
		return 0, false
	}

	return n, true
}

// ToBool reports whether value is truthy: true, a non-zero number, or one of
// "true", "yes", "1" in any case.
func ToBool(value any) bool {
	switch v := value.(type) {
	case bool:
		return v
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "yes", "1":
			return true
		}

		return false
	default:
		n, ok := ToNumber(v)

		return ok && n != 0
	}
}

// ID extracts an identifier from either an object exposing "_id" or "id",
// or a plain scalar.
func ID(value any) string {
	obj, isObj := asObject(value)
	if !isObj {
		return ToString(value)
	}

	for _, key := range []string{"_id", "id"} {
		if id := ToString(obj[key]); id != "" {
			return id
		}
	}

	return ""
}

// AsList returns value as a list. Decoded JSON and YAML produce []any;
// records built in Go may also carry []string or []map[string]any.
func AsList(value any) ([]any, bool) {
	switch v := value.(type) {
	case []any:
		return v, true
	case []string:
		return toAnySlice(v), true
	case []map[string]any:
		return toAnySlice(v), true
	case []Record:
		return toAnySlice(v), true
	default:
		return nil, false
	}
}

func toAnySlice[T any](in []T) []any {
	out := make([]any, len(in))
	for i, v := range in {
		out[i] = v
	}

	return out
}

func isEmpty(value any) bool {
	if value == nil {
		return true
	}

	s, isString := value.(string)

	return isString && s == ""
}

func asObject(value any) (map[string]any, bool) {
	switch v := value.(type) {
	case map[string]any:
		return v, true
	case Record:
		return v, true
	default:
		return nil, false
	}
}
