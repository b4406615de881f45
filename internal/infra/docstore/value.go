package docstore

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"
)

var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// String returns data[key] when it is a string.
func String(data map[string]any, key string) (string, bool) {
	v, ok := data[key]
	if !ok || v == nil {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Int returns data[key] when it is a number. Fractions are truncated.
func Int(data map[string]any, key string) (int, bool) {
	v, ok := data[key]
	if !ok || v == nil {
		return 0, false
	}
	f, ok := number(v)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return int(f), true
}

// Float returns data[key] when it is a number.
func Float(data map[string]any, key string) (float64, bool) {
	v, ok := data[key]
	if !ok || v == nil {
		return 0, false
	}
	return number(v)
}

// Bool returns data[key] when it is a boolean.
func Bool(data map[string]any, key string) (bool, bool) {
	v, ok := data[key]
	if !ok || v == nil {
		return false, false
	}
	b, ok := v.(bool)
	return b, ok
}

// Time returns data[key] when it is a timestamp, an RFC 3339 string, a
// {seconds, nanoseconds} map or a millisecond epoch number.
func Time(data map[string]any, key string) (time.Time, bool) {
	v, ok := data[key]
	if !ok || v == nil {
		return time.Time{}, false
	}
	return asTime(v)
}

// Slice returns data[key] when it is a list.
func Slice(data map[string]any, key string) ([]any, bool) {
	v, ok := data[key]
	if !ok || v == nil {
		return nil, false
	}
	switch s := v.(type) {
	case []any:
		return s, true
	case []map[string]any:
		out := make([]any, len(s))
		for i := range s {
			out[i] = s[i]
		}
		return out, true
	}
	return nil, false
}

// Map returns data[key] when it is a nested map.
func Map(data map[string]any, key string) (map[string]any, bool) {
	v, ok := data[key]
	if !ok || v == nil {
		return nil, false
	}
	m, ok := Normalize(v).(map[string]any)
	return m, ok
}

// Normalize converts the map[interface{}]interface{} values produced by YAML
// decoding into map[string]any, recursively.
func Normalize(v any) any {
	switch t := v.(type) {
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[fmt.Sprint(k)] = Normalize(val)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = Normalize(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = Normalize(val)
		}
		return out
	default:
		return v
	}
}

// Plain converts v to the shape encoding/json decodes it into: maps become
// map[string]any, numbers float64 and timestamps RFC 3339 strings in UTC.
// Values of other types take a JSON round trip.
func Plain(v any) any {
	switch t := v.(type) {
	case nil, string, bool, float64:
		return v
	case map[any]any:
		return Plain(Normalize(t))
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = Plain(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = Plain(val)
		}
		return out
	case time.Time:
		return t.UTC().Format(time.RFC3339Nano)
	case *time.Time:
		if t == nil {
			return nil
		}
		return t.UTC().Format(time.RFC3339Nano)
	}
	if f, ok := number(v); ok {
		return f
	}

	raw, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil
	}
	return out
}

// Compare orders two field values the way an ordered query would: numbers
// numerically, timestamps chronologically, everything else as text.
func Compare(a, b any) int {
	if fa, ok := number(a); ok {
		if fb, ok := number(b); ok {
			return cmpFloat(fa, fb)
		}
	}
	if ta, ok := asTime(a); ok {
		if tb, ok := asTime(b); ok {
			return ta.Compare(tb)
		}
	}
	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

func cmpFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

func asTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case *time.Time:
		if t == nil {
			return time.Time{}, false
		}
		return *t, true
	case string:
		for _, layout := range timeLayouts {
			if parsed, err := time.Parse(layout, t); err == nil {
				return parsed, true
			}
		}
		return time.Time{}, false
	case map[string]any:
		sec, ok := number(t["seconds"])
		if !ok {
			sec, ok = number(t["_seconds"])
		}
		if !ok {
			return time.Time{}, false
		}
		nsec, _ := number(t["nanoseconds"])
		if nsec == 0 {
			nsec, _ = number(t["_nanoseconds"])
		}
		return time.Unix(int64(sec), int64(nsec)).UTC(), true
	case map[any]any:
		return asTime(Normalize(t))
	}
	if ms, ok := number(v); ok {
		return time.UnixMilli(int64(ms)).UTC(), true
	}
	return time.Time{}, false
}
