package reconcile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"logidocs/constants"
	"logidocs/internal/common"
)

// Correction records a single field whose reviewed value differs from
// the extracted one. Original is nil for fields the reviewer added.
type Correction struct {
	Field     string `json:"-"`
	Original  Value  `json:"original"`
	Corrected Value  `json:"corrected"`
}

// CorrectionSet is the ordered collection of corrections for one review
// session: schema fields in schema order, reviewer-added fields after
// them. An empty set means extraction needed no human correction.
type CorrectionSet struct {
	order   []string
	byField map[string]Correction
}

// NewCorrectionSet returns an empty set.
func NewCorrectionSet() *CorrectionSet {
	return &CorrectionSet{byField: make(map[string]Correction)}
}

func (s *CorrectionSet) add(c Correction) {
	if _, ok := s.byField[c.Field]; !ok {
		s.order = append(s.order, c.Field)
	}
	s.byField[c.Field] = c
}

// Len returns the number of corrected fields.
func (s *CorrectionSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.order)
}

// IsEmpty reports whether no corrections were made.
func (s *CorrectionSet) IsEmpty() bool { return s.Len() == 0 }

// Fields returns the corrected field names in report order.
func (s *CorrectionSet) Fields() []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Get returns the correction for a field, if any.
func (s *CorrectionSet) Get(field string) (Correction, bool) {
	if s == nil {
		return Correction{}, false
	}
	c, ok := s.byField[field]
	return c, ok
}

// MarshalJSON renders the set as {"field": {"original": ..., "corrected": ...}}
// preserving report order, the shape the model-log endpoint expects.
func (s *CorrectionSet) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, field := range s.Fields() {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(field)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		v, err := json.Marshal(s.byField[field])
		if err != nil {
			return nil, fmt.Errorf("marshal correction %q: %w", field, err)
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON restores a set from its object form, preserving the
// key order of the document. Needed when a spooled quality log is read
// back.
func (s *CorrectionSet) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("corrections: expected object, got %v", tok)
	}

	s.order = nil
	s.byField = make(map[string]Correction)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		field, ok := tok.(string)
		if !ok {
			return fmt.Errorf("corrections: expected field name, got %v", tok)
		}
		var c Correction
		if err := dec.Decode(&c); err != nil {
			return fmt.Errorf("corrections: decode %q: %w", field, err)
		}
		c.Field = field
		s.add(c)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}

// Reconcile walks the extracted snapshot and the reviewed copy and
// returns the corrections between them. Two passes keep the
// reviewer-added case explicit: first every field present in original
// (a field missing from current counts as cleared), then fields present
// only in current, reported when they normalize to a value. Neither
// input is mutated. Non-scalar values are rejected up front rather than
// partially normalized.
func Reconcile(original, current FieldMap) (*CorrectionSet, error) {
	if err := checkScalars("original", original); err != nil {
		return nil, err
	}
	if err := checkScalars("current", current); err != nil {
		return nil, err
	}

	set := NewCorrectionSet()
	for _, field := range orderedKeys(original) {
		ov := original[field]
		cv, ok := current[field]
		if !ok {
			cv = nil
		}
		if Differs(ov, cv) {
			set.add(Correction{Field: field, Original: ov, Corrected: cv})
		}
	}

	for _, field := range orderedKeys(current) {
		if _, ok := original[field]; ok {
			continue
		}
		cv := current[field]
		if Normalize(cv) != nil {
			set.add(Correction{Field: field, Original: nil, Corrected: cv})
		}
	}
	return set, nil
}

// orderedKeys sorts a field map's keys: schema fields in schema order,
// then anything else alphabetically.
func orderedKeys(m FieldMap) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := constants.SchemaIndex(keys[i]), constants.SchemaIndex(keys[j])
		switch {
		case a >= 0 && b >= 0:
			return a < b
		case a >= 0:
			return true
		case b >= 0:
			return false
		default:
			return keys[i] < keys[j]
		}
	})
	return keys
}

func checkScalars(arg string, m FieldMap) error {
	for _, field := range orderedKeys(m) {
		if !scalar(m[field]) {
			return common.NewAppError("RECONCILE_INPUT",
				fmt.Sprintf("%s[%s] is not a scalar value (%T)", arg, field, m[field]),
				common.ErrInvalidInput)
		}
	}
	return nil
}
