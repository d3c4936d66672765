package constants

// ReviewState is the canonical state for a review session.
type ReviewState string

// Stable values (these exact strings appear in logs).
const (
	ReviewStateIdle      ReviewState = "IDLE"      // no document loaded
	ReviewStateExtracted ReviewState = "EXTRACTED" // extraction result captured, untouched
	ReviewStateReviewing ReviewState = "REVIEWING" // at least one field edited
	ReviewStateSaving    ReviewState = "SAVING"    // save in flight
	ReviewStateSaved     ReviewState = "SAVED"     // terminal success
	ReviewStateCancelled ReviewState = "CANCELLED" // terminal, nothing persisted
)
