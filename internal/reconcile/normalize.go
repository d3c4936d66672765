// Package reconcile compares extracted shipment fields against their
// reviewed versions and produces correction records for the UI and for
// the model quality log.
package reconcile

import (
	"fmt"
	"strings"
	"time"
)

// Value is a single field value as it arrives from the backend or from
// the reviewer: nil, free text, or a calendar date.
type Value = any

// FieldMap maps schema field names to their values. Two instances exist
// per review session: the immutable extraction snapshot and the
// reviewer's working copy.
type FieldMap map[string]Value

// DateLayout is the canonical form for date-typed values.
const DateLayout = "2006-01-02"

// Normalize canonicalizes a value for comparison. A nil result means
// "no value": nil input, empty strings and whitespace-only strings all
// normalize to nil and therefore compare equal to each other. time.Time
// values normalize to their UTC calendar date so that a date and its
// ISO-8601 string form compare equal. Zero-valued scalars (false, 0)
// also normalize to nil, matching the backend's treatment of unset
// fields.
func Normalize(v Value) *string {
	switch t := v.(type) {
	case nil:
		return nil
	case string:
		return normalized(t)
	case *string:
		if t == nil {
			return nil
		}
		return normalized(*t)
	case time.Time:
		if t.IsZero() {
			return nil
		}
		s := t.UTC().Format(DateLayout)
		return &s
	case *time.Time:
		if t == nil {
			return nil
		}
		return Normalize(*t)
	case bool:
		if !t {
			return nil
		}
		return normalized("true")
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		s := fmt.Sprint(t)
		if s == "0" {
			return nil
		}
		return normalized(s)
	case float32, float64:
		s := fmt.Sprint(t)
		if s == "0" {
			return nil
		}
		return normalized(s)
	case fmt.Stringer:
		return normalized(t.String())
	default:
		// Outside the scalar domain. Reconcile rejects these before
		// comparison; a direct Differs call degrades to the Go string
		// form.
		return normalized(fmt.Sprint(t))
	}
}

func normalized(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// Differs reports whether two values differ after normalization. It is
// symmetric, has no side effects, and never fails for values in the
// normalizer's domain.
func Differs(original, current Value) bool {
	a := Normalize(original)
	b := Normalize(current)
	if a == nil || b == nil {
		return (a == nil) != (b == nil)
	}
	return *a != *b
}

// IsModified is the per-field check behind the UI's "modified" marker.
// It is field-local: no full reconciliation is needed to annotate a
// single input.
func IsModified(original FieldMap, field string, current Value) bool {
	return Differs(original[field], current)
}

// scalar reports whether v belongs to the normalizer's domain.
func scalar(v Value) bool {
	switch v.(type) {
	case nil, string, *string, time.Time, *time.Time, bool,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64, fmt.Stringer:
		return true
	default:
		return false
	}
}
