package models

import "time"

// ValueKind classifies a decoded frontmatter value. Helper logic branches
// on the kind explicitly instead of coercing between representations.
type ValueKind int

const (
	KindAbsent ValueKind = iota
	KindString
	KindBool
	KindNumber
	KindTime
	KindStringList
	KindOther
)

// String returns a human-readable name for error messages.
func (k ValueKind) String() string {
	switch k {
	case KindAbsent:
		return "absent"
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindTime:
		return "date"
	case KindStringList:
		return "list of strings"
	default:
		return "other"
	}
}

// Classify reports the kind of a frontmatter value. present is false when
// the field was missing from the mapping entirely.
func Classify(v any, present bool) ValueKind {
	if !present {
		return KindAbsent
	}
	switch val := v.(type) {
	case string:
		return KindString
	case bool:
		return KindBool
	case int, int64, uint64, float64:
		return KindNumber
	case time.Time:
		return KindTime
	case []any:
		for _, item := range val {
			if _, ok := item.(string); !ok {
				return KindOther
			}
		}
		return KindStringList
	case []string:
		return KindStringList
	default:
		return KindOther
	}
}

// AsStringList resolves the degenerate representations of a list-of-strings
// field: absent becomes an empty list and a scalar string becomes a
// one-element list. ok is false for any other shape.
func AsStringList(v any, present bool) (list []string, ok bool) {
	if !present || v == nil {
		return []string{}, true
	}
	switch val := v.(type) {
	case string:
		return []string{val}, true
	case []string:
		return append([]string(nil), val...), true
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			s, isStr := item.(string)
			if !isStr {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	default:
		return nil, false
	}
}

// ToAnyList converts a string slice to the []any shape yaml.v3 produces,
// so a rewritten field matches the representation of a freshly loaded one.
func ToAnyList(items []string) []any {
	out := make([]any, len(items))
	for i, s := range items {
		out[i] = s
	}
	return out
}
