package reconcile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"logidocs/constants"
)

// buildFieldMapSchema returns a JSON-Schema (draft 2020-12 subset) as a
// generic map constraining a shipment field map: every schema field is
// free text or null, dates additionally match YYYY-MM-DD. Extra fields
// are allowed but must be scalar text too, so that reviewer-added
// fields stay reconcilable.
func buildFieldMapSchema() map[string]any {
	textProp := map[string]any{"type": []any{"string", "null"}}
	dateProp := map[string]any{
		"type":    []any{"string", "null"},
		"pattern": `^\d{4}-\d{2}-\d{2}`,
	}

	props := map[string]any{}
	for _, field := range constants.ShipmentFields {
		if _, ok := constants.DateFields[field]; ok {
			props[field] = dateProp
		} else {
			props[field] = textProp
		}
	}

	return map[string]any{
		"type":                 "object",
		"properties":           props,
		"additionalProperties": textProp,
	}
}

var (
	fieldMapSchemaOnce sync.Once
	fieldMapSchema     *jsonschema.Schema
	fieldMapSchemaErr  error
)

func compiledFieldMapSchema() (*jsonschema.Schema, error) {
	fieldMapSchemaOnce.Do(func() {
		b, err := json.Marshal(buildFieldMapSchema())
		if err != nil {
			fieldMapSchemaErr = fmt.Errorf("marshal schema: %w", err)
			return
		}
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("fieldmap.json", bytes.NewReader(b)); err != nil {
			fieldMapSchemaErr = fmt.Errorf("add schema: %w", err)
			return
		}
		fieldMapSchema, fieldMapSchemaErr = compiler.Compile("fieldmap.json")
	})
	return fieldMapSchema, fieldMapSchemaErr
}

// ValidateFieldMap validates an incoming field map against the shipment
// schema. Values pass through JSON first, so date values compare as
// their string form. Fails on the first structural problem rather than
// attempting partial normalization.
func ValidateFieldMap(fields FieldMap) error {
	schema, err := compiledFieldMapSchema()
	if err != nil {
		return err
	}
	b, err := json.Marshal(normalizedForWire(fields))
	if err != nil {
		return fmt.Errorf("marshal field map: %w", err)
	}
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return fmt.Errorf("unmarshal field map: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("field map does not match schema: %w", err)
	}
	return nil
}

// normalizedForWire renders date values in their canonical date form so
// the schema's date pattern applies to them, leaving everything else
// as-is.
func normalizedForWire(fields FieldMap) map[string]any {
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		if _, ok := constants.DateFields[k]; ok {
			if n := Normalize(v); n != nil {
				out[k] = *n
				continue
			}
			out[k] = nil
			continue
		}
		out[k] = v
	}
	return out
}
