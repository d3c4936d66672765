package constants

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShipmentFieldsCoverSchema(t *testing.T) {
	assert.Len(t, ShipmentFields, 12)

	seen := map[string]bool{}
	for _, f := range ShipmentFields {
		assert.False(t, seen[f], "duplicate field %s", f)
		seen[f] = true
		assert.True(t, IsSchemaField(f))
	}

	for f := range DateFields {
		assert.True(t, seen[f], "date field %s must be in the schema", f)
	}
}

func TestSchemaIndex(t *testing.T) {
	assert.Equal(t, 0, SchemaIndex(FieldShipperName))
	assert.Equal(t, len(ShipmentFields)-1, SchemaIndex(FieldSpecialInstructions))
	assert.Equal(t, -1, SchemaIndex("customs_code"))
	assert.False(t, IsSchemaField("customs_code"))
}
