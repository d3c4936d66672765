package constants

// Field names for the shipment document schema. Stable values: these
// exact strings appear in API payloads and in the documents table.
const (
	FieldShipperName         = "shipper_name"
	FieldShipperAddress      = "shipper_address"
	FieldReceiverName        = "receiver_name"
	FieldReceiverAddress     = "receiver_address"
	FieldTrackingNumber      = "tracking_number"
	FieldCarrier             = "carrier"
	FieldWeight              = "weight"
	FieldDimensions          = "dimensions"
	FieldStatus              = "status"
	FieldShipmentDate        = "shipment_date"
	FieldDeliveryDate        = "delivery_date"
	FieldSpecialInstructions = "special_instructions"
)

// ShipmentFields is the canonical schema order, used for display and
// for ordering correction reports.
var ShipmentFields = []string{
	FieldShipperName,
	FieldShipperAddress,
	FieldReceiverName,
	FieldReceiverAddress,
	FieldTrackingNumber,
	FieldCarrier,
	FieldWeight,
	FieldDimensions,
	FieldStatus,
	FieldShipmentDate,
	FieldDeliveryDate,
	FieldSpecialInstructions,
}

// DateFields holds the date-typed subset of the schema.
var DateFields = map[string]struct{}{
	FieldShipmentDate: {},
	FieldDeliveryDate: {},
}

var schemaIndex = func() map[string]int {
	m := make(map[string]int, len(ShipmentFields))
	for i, f := range ShipmentFields {
		m[f] = i
	}
	return m
}()

// IsSchemaField reports whether name is part of the fixed schema.
func IsSchemaField(name string) bool {
	_, ok := schemaIndex[name]
	return ok
}

// SchemaIndex returns the position of name in the schema order, or -1
// for fields outside the schema.
func SchemaIndex(name string) int {
	if i, ok := schemaIndex[name]; ok {
		return i
	}
	return -1
}
