package ingest

import (
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// Record is one raw source object. It is decoded loosely (no struct
// binding) so that a field of an unexpected type degrades to "" instead
// of failing the whole file.
type Record map[string]any

// Str returns the field as a string. Numbers keep their literal form,
// booleans become "true"/"false", anything else is "".
func (r Record) Str(key string) string {
	switch v := r[key].(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return ""
	}
}

// List returns the object elements of an array field.
func (r Record) List(key string) []Record {
	arr, ok := r[key].([]any)
	if !ok {
		return nil
	}
	out := make([]Record, 0, len(arr))
	for _, el := range arr {
		if m, ok := el.(map[string]any); ok {
			out = append(out, Record(m))
		}
	}
	return out
}

// Pluck collects the non-empty `field` values of the objects in list `key`.
func (r Record) Pluck(key, field string) []string {
	var out []string
	for _, el := range r.List(key) {
		if s := strings.TrimSpace(el.Str(field)); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func truncateRunes(s string, n int) string {
	if len(s) <= n {
		return s
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
