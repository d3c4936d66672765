package reconcile

import (
	"fmt"
	"strings"
)

// QualityLog summarizes one review session for the model quality
// collaborator: whether extraction survived review untouched, and if
// not, what changed.
type QualityLog struct {
	Success         bool           `json:"success"`
	CorrectionsMade *CorrectionSet `json:"corrections_made"`
	FailureReason   *string        `json:"failure_reason"`
}

// LogOption adjusts a quality log after its defaults are computed.
type LogOption func(*QualityLog)

// WithSuccess overrides the computed success flag. Used when extraction
// itself was degraded and the log should record a failure even though
// the reviewer changed nothing.
func WithSuccess(success bool) LogOption {
	return func(q *QualityLog) { q.Success = success }
}

// WithFailureReason replaces the generated failure reason.
func WithFailureReason(reason string) LogOption {
	return func(q *QualityLog) { q.FailureReason = &reason }
}

// BuildQualityLog reconciles the two field maps and wraps the result in
// the audit payload shape: success defaults to "no corrections needed",
// and the failure reason names the corrected fields. Neither input is
// mutated.
func BuildQualityLog(original, current FieldMap, opts ...LogOption) (QualityLog, error) {
	set, err := Reconcile(original, current)
	if err != nil {
		return QualityLog{}, err
	}

	q := QualityLog{
		Success:         set.IsEmpty(),
		CorrectionsMade: set,
	}
	if !q.Success {
		reason := fmt.Sprintf("Manual corrections made to %d field(s): %s",
			set.Len(), strings.Join(set.Fields(), ", "))
		q.FailureReason = &reason
	}
	for _, opt := range opts {
		opt(&q)
	}
	if q.Success {
		q.FailureReason = nil
	}
	return q, nil
}
