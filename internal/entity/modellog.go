package entity

import (
	"encoding/json"
	"time"

	"logidocs/internal/reconcile"
)

// ModelLogEntry is the audit payload posted to /model-log after a save:
// the quality verdict plus enough context (document identity, both
// field maps) to audit the extraction afterwards.
type ModelLogEntry struct {
	reconcile.QualityLog

	DocumentID       *int64             `json:"document_id,omitempty"`
	DocumentHash     string             `json:"document_hash"`
	DocumentLink     *string            `json:"document_link,omitempty"`
	ExtractionResult *ExtractionResult  `json:"extraction_result,omitempty"`
	OriginalValues   reconcile.FieldMap `json:"original_values"`
	CorrectedValues  reconcile.FieldMap `json:"corrected_values"`
}

// ModelLog represents a row in the model_log table for data transfer
// between layers.
type ModelLog struct {
	ID              int64           `json:"id"`
	DocumentID      *int64          `json:"document_id,omitempty"`
	DocumentHash    string          `json:"document_hash"`
	Success         bool            `json:"success"`
	CorrectionsMade json.RawMessage `json:"corrections_made,omitempty"`
	FailureReason   *string         `json:"failure_reason,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

// ModelLogStats summarizes the model_log table for the dashboard.
type ModelLogStats struct {
	Total     int64 `json:"total"`
	Succeeded int64 `json:"succeeded"`
	Corrected int64 `json:"corrected"`
}
