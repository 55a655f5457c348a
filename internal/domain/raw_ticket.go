package domain

import (
	"encoding/json"
	"strconv"
	"time"
)

// RawTicket is an untrusted ticket record as read from a dataset source.
// Any key may be missing or null.
type RawTicket map[string]any

// Field returns the first of keys holding a non-empty value, stringified.
// Null, missing and empty-string values are treated as absent.
func (r RawTicket) Field(keys ...string) string {
	for _, key := range keys {
		if s := stringify(r[key]); s != "" {
			return s
		}
	}
	return ""
}

// OptionalField is Field but distinguishes absence with a nil pointer.
func (r RawTicket) OptionalField(keys ...string) *string {
	if s := r.Field(keys...); s != "" {
		return &s
	}
	return nil
}

func stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case json.Number:
		return val.String()
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case uint64:
		return strconv.FormatUint(val, 10)
	case bool:
		if !val {
			return ""
		}
		return strconv.FormatBool(val)
	case time.Time:
		return val.Format(time.RFC3339Nano)
	default:
		return ""
	}
}
