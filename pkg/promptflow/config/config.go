package config

import (
	"time"
)

// Data is the opaque key/value configuration attached to a node, and the
// shape of daemon settings files. Accessors return the given default when
// the key is missing or the value cannot be converted, so corrupt editor
// payloads degrade to defaults instead of failing a run.
type Data map[string]any

// String returns the string value for key, or def if missing or not a string.
func (d Data) String(key, def string) string {
	if s, ok := d[key].(string); ok {
		return s
	}
	return def
}

// Int returns the integer value for key, or def if missing or not convertible.
// JSON numbers decode as float64; those are accepted when they carry no
// fractional part.
func (d Data) Int(key string, def int) int {
	switch v := d[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		if v == float64(int(v)) {
			return int(v)
		}
	}
	return def
}

// Bool returns the boolean value for key, or def if missing or not a bool.
func (d Data) Bool(key string, def bool) bool {
	if b, ok := d[key].(bool); ok {
		return b
	}
	return def
}

// Float returns the float64 value for key, or def if missing or not numeric.
func (d Data) Float(key string, def float64) float64 {
	switch v := d[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	}
	return def
}

// Duration returns the duration for key, or def if missing or invalid.
// Strings are parsed with time.ParseDuration; bare numbers are seconds.
func (d Data) Duration(key string, def time.Duration) time.Duration {
	switch v := d[key].(type) {
	case string:
		if parsed, err := time.ParseDuration(v); err == nil {
			return parsed
		}
	case float64:
		return time.Duration(v * float64(time.Second))
	case int:
		return time.Duration(v) * time.Second
	case int64:
		return time.Duration(v) * time.Second
	case time.Duration:
		return v
	}
	return def
}

// StringSlice returns the string slice for key, or def if missing or if any
// element is not a string.
func (d Data) StringSlice(key string, def []string) []string {
	switch v := d[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return def
			}
			out = append(out, s)
		}
		return out
	}
	return def
}

// Has returns true if the key exists.
func (d Data) Has(key string) bool {
	_, ok := d[key]
	return ok
}

// Clone returns a shallow copy of the data map.
// A nil Data clones to an empty, writable map.
func (d Data) Clone() Data {
	out := make(Data, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}
