package sanitizer

import (
	"strings"
)

// IsOperatorKey reports whether a key could be interpreted as a query
// operator or a nested path: it starts with "$" or contains ".".
func IsOperatorKey(key string) bool {
	return strings.HasPrefix(key, "$") || strings.Contains(key, ".")
}

// StripOperators removes operator keys from a decoded JSON value, recursively.
// The input is not modified.
func StripOperators(v any) any {
	return walk(v, nil)
}

// Document removes operator keys and applies clean to every string value.
// A nil clean defaults to PreventXSS.
//
//	body = sanitizer.Document(body, nil)
func Document(doc map[string]any, clean func(string) string) map[string]any {
	if clean == nil {
		clean = PreventXSS
	}
	out, _ := walk(doc, clean).(map[string]any)
	if out == nil {
		out = map[string]any{}
	}
	return out
}

func walk(v any, clean func(string) string) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			if IsOperatorKey(k) {
				continue
			}
			out[k] = walk(val, clean)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = walk(val, clean)
		}
		return out
	case string:
		if clean != nil {
			return clean(t)
		}
		return t
	}
	return v
}
