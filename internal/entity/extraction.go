package entity

import "logidocs/internal/reconcile"

// ExtractionResult is the /extract response: the backend's structured
// read of an uploaded PDF, captured once per review session and treated
// as an immutable snapshot from then on.
type ExtractionResult struct {
	DocumentHash      string             `json:"document_hash"`
	IsValid           bool               `json:"is_valid"`
	ValidationMessage string             `json:"validation_message,omitempty"`
	AlreadyExists     bool               `json:"already_exists,omitempty"`
	StorageURL        *string            `json:"storage_url,omitempty"`
	StructuredFields  reconcile.FieldMap `json:"structured_fields"`
}

// SaveRequest is the /save payload: the reviewed fields for one
// document, keyed by its content hash.
type SaveRequest struct {
	DocumentHash     string             `json:"document_hash"`
	Filename         string             `json:"filename"`
	StructuredFields reconcile.FieldMap `json:"structured_fields"`
}

// SaveResponse acknowledges a save with the stored row's id and, when
// the backend uploaded the file, its storage URL.
type SaveResponse struct {
	DocumentID int64   `json:"document_id"`
	StorageURL *string `json:"storage_url,omitempty"`
}

// HealthStatus is the /health response.
type HealthStatus struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}
