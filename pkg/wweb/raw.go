package wweb

import (
	"encoding/json"
	"math"
	"strconv"
)

// Raw is an untyped payload snapshot taken from the browser's internal state.
// Accessors never fail: a missing or mistyped field yields the zero value.
type Raw map[string]any

// ParseRaw decodes a JSON object. A JSON null decodes to a nil Raw.
func ParseRaw(data []byte) (Raw, error) {
	var r Raw
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, err
	}
	return r, nil
}

// Value returns the field as stored.
func (r Raw) Value(key string) any {
	return r[key]
}

// Has reports whether key is present and not null.
func (r Raw) Has(key string) bool {
	v, ok := r[key]
	return ok && v != nil
}

// String returns the field if it is a string.
func (r Raw) String(key string) string {
	s, _ := r[key].(string)
	return s
}

// Text returns the field as text, formatting numbers and booleans.
func (r Raw) Text(key string) string {
	switch v := r[key].(type) {
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case json.Number:
		return v.String()
	case nil:
		return ""
	}
	if f, ok := toFloat64(r[key]); ok {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return ""
}

// Bool applies JavaScript truthiness to the field.
func (r Raw) Bool(key string) bool {
	return truthy(r[key])
}

// Int64 returns a numeric field truncated to an integer.
func (r Raw) Int64(key string) int64 {
	n, _ := toInt64(r[key])
	return n
}

// Int returns a numeric field truncated to an int.
func (r Raw) Int(key string) int {
	return int(r.Int64(key))
}

// Float64 returns a numeric field.
func (r Raw) Float64(key string) float64 {
	f, _ := toFloat64(r[key])
	return f
}

// Map returns a nested object, or nil.
func (r Raw) Map(key string) Raw {
	return asRaw(r[key])
}

// Slice returns a nested array, or nil.
func (r Raw) Slice(key string) []any {
	return asSlice(r[key])
}

// Maps returns the object elements of a nested array.
func (r Raw) Maps(key string) []Raw {
	items := asSlice(r[key])
	if items == nil {
		return nil
	}
	out := make([]Raw, 0, len(items))
	for _, item := range items {
		if m := asRaw(item); m != nil {
			out = append(out, m)
		}
	}
	return out
}

// Strings returns a nested array of ids or strings as serialized strings.
func (r Raw) Strings(key string) []string {
	items := asSlice(r[key])
	if items == nil {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, serialized(item))
	}
	return out
}

// Serialized returns a string field, or the _serialized member of an id object.
func (r Raw) Serialized(key string) string {
	return serialized(r[key])
}

// ID returns an identity field.
func (r Raw) ID(key string) ID {
	return idFrom(r[key])
}

func asRaw(v any) Raw {
	switch m := v.(type) {
	case Raw:
		return m
	case map[string]any:
		return Raw(m)
	}
	return nil
}

func asSlice(v any) []any {
	switch s := v.(type) {
	case []any:
		return s
	case []Raw:
		out := make([]any, len(s))
		for i := range s {
			out[i] = s[i]
		}
		return out
	case []map[string]any:
		out := make([]any, len(s))
		for i := range s {
			out[i] = s[i]
		}
		return out
	case []string:
		out := make([]any, len(s))
		for i := range s {
			out[i] = s[i]
		}
		return out
	}
	return nil
}

func serialized(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case ID:
		return s.Serialized
	}
	return asRaw(v).String("_serialized")
}

func truthy(v any) bool {
	switch b := v.(type) {
	case nil:
		return false
	case bool:
		return b
	case string:
		return b != ""
	case json.Number:
		f, err := b.Float64()
		return err == nil && f != 0
	}
	if f, ok := toFloat64(v); ok {
		return f != 0 && !math.IsNaN(f)
	}
	return true
}

func toFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i, true
		}
	}
	f, ok := toFloat64(v)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return int64(f), true
}
