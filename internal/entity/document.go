package entity

import (
	"time"

	"logidocs/constants"
	"logidocs/internal/reconcile"
)

// Document represents a saved shipment document for data transfer
// between layers. Field pointers are nil when the backend has no value.
type Document struct {
	ID                  int64     `json:"id"`
	DocumentHash        string    `json:"document_hash"`
	Filename            string    `json:"filename"`
	ShipperName         *string   `json:"shipper_name,omitempty"`
	ShipperAddress      *string   `json:"shipper_address,omitempty"`
	ReceiverName        *string   `json:"receiver_name,omitempty"`
	ReceiverAddress     *string   `json:"receiver_address,omitempty"`
	TrackingNumber      *string   `json:"tracking_number,omitempty"`
	Carrier             *string   `json:"carrier,omitempty"`
	Weight              *string   `json:"weight,omitempty"`
	Dimensions          *string   `json:"dimensions,omitempty"`
	Status              *string   `json:"status,omitempty"`
	ShipmentDate        *string   `json:"shipment_date,omitempty"`
	DeliveryDate        *string   `json:"delivery_date,omitempty"`
	SpecialInstructions *string   `json:"special_instructions,omitempty"`
	StorageURL          *string   `json:"storage_url,omitempty"`
	CreatedAt           time.Time `json:"created_at"`
}

// Fields returns the document's structured fields as a field map in
// schema shape.
func (d *Document) Fields() reconcile.FieldMap {
	ptr := func(p *string) reconcile.Value {
		if p == nil {
			return nil
		}
		return *p
	}
	return reconcile.FieldMap{
		constants.FieldShipperName:         ptr(d.ShipperName),
		constants.FieldShipperAddress:      ptr(d.ShipperAddress),
		constants.FieldReceiverName:        ptr(d.ReceiverName),
		constants.FieldReceiverAddress:     ptr(d.ReceiverAddress),
		constants.FieldTrackingNumber:      ptr(d.TrackingNumber),
		constants.FieldCarrier:             ptr(d.Carrier),
		constants.FieldWeight:              ptr(d.Weight),
		constants.FieldDimensions:          ptr(d.Dimensions),
		constants.FieldStatus:              ptr(d.Status),
		constants.FieldShipmentDate:        ptr(d.ShipmentDate),
		constants.FieldDeliveryDate:        ptr(d.DeliveryDate),
		constants.FieldSpecialInstructions: ptr(d.SpecialInstructions),
	}
}

// DocumentList is the /documents response shape.
type DocumentList struct {
	Total     int         `json:"total"`
	Documents []*Document `json:"documents"`
}
