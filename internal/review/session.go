// Package review owns the lifecycle of one human review pass over an
// extraction result. The session is an explicit state machine; every
// transition is an exported method and illegal ones fail with
// ErrInvalidTransition instead of silently no-oping.
package review

import (
	"context"
	"fmt"
	"log/slog"

	"logidocs/constants"
	"logidocs/internal/common"
	"logidocs/internal/entity"
	"logidocs/internal/reconcile"
)

// ErrInvalidTransition is returned when a session method is called in a
// state that does not allow it.
var ErrInvalidTransition = fmt.Errorf("invalid review session transition")

// Saver persists the reviewed fields. Implemented by the backend
// client.
type Saver interface {
	Save(ctx context.Context, req entity.SaveRequest) (*entity.SaveResponse, error)
}

// Session tracks one document through extracted → reviewing →
// saved/cancelled. The extraction snapshot is copied at Begin and never
// handed out mutably; the working copy is discarded once the session
// reaches a terminal state. Not safe for concurrent use: one session
// serves one reviewer.
type Session struct {
	state    constants.ReviewState
	logger   *slog.Logger
	result   *entity.ExtractionResult
	filename string
	original reconcile.FieldMap
	current  reconcile.FieldMap
}

// NewSession returns an idle session.
func NewSession(logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{state: constants.ReviewStateIdle, logger: logger}
}

// State returns the current session state.
func (s *Session) State() constants.ReviewState { return s.state }

// Result returns the extraction result this session reviews, nil while
// idle or after the session ended.
func (s *Session) Result() *entity.ExtractionResult { return s.result }

// Filename returns the uploaded file's name.
func (s *Session) Filename() string { return s.filename }

// Begin captures an extraction result and moves the session to
// Extracted. Allowed from Idle and from the terminal states, so one
// session value can serve successive documents. The result must be a
// valid extraction with a well-formed field map and document hash.
func (s *Session) Begin(result *entity.ExtractionResult, filename string) error {
	switch s.state {
	case constants.ReviewStateIdle, constants.ReviewStateSaved, constants.ReviewStateCancelled:
	default:
		return fmt.Errorf("%w: begin from %s", ErrInvalidTransition, s.state)
	}

	if result == nil {
		return common.NewAppError("REVIEW_INPUT", "extraction result is required", common.ErrInvalidInput)
	}
	if !result.IsValid {
		msg := result.ValidationMessage
		if msg == "" {
			msg = "not a valid logistics document"
		}
		return common.NewAppError("REVIEW_INVALID_DOCUMENT", msg, common.ErrValidation)
	}

	v := common.NewValidator()
	v.Field("document_hash", result.DocumentHash, common.Required, common.SHA256Hex)
	v.Field("filename", filename, common.Required, common.MaxLength(255))
	if err := v.Error(); err != nil {
		return err
	}
	if err := reconcile.ValidateFieldMap(result.StructuredFields); err != nil {
		return common.NewAppError("REVIEW_FIELDS", "malformed structured fields", err)
	}

	s.result = result
	s.filename = filename
	s.original = copyFields(result.StructuredFields)
	s.current = copyFields(result.StructuredFields)
	s.state = constants.ReviewStateExtracted
	s.logger.Info("review.session.begin",
		"document_hash", result.DocumentHash,
		"filename", filename,
		"already_exists", result.AlreadyExists,
	)
	return nil
}

// Edit records a reviewer change to one field and moves the session to
// Reviewing. Non-scalar values are rejected.
func (s *Session) Edit(field string, value reconcile.Value) error {
	switch s.state {
	case constants.ReviewStateExtracted, constants.ReviewStateReviewing:
	default:
		return fmt.Errorf("%w: edit from %s", ErrInvalidTransition, s.state)
	}
	probe := reconcile.FieldMap{field: value}
	if err := reconcile.ValidateFieldMap(probe); err != nil {
		return common.NewAppError("REVIEW_FIELDS", fmt.Sprintf("invalid value for %s", field), err)
	}
	s.current[field] = value
	s.state = constants.ReviewStateReviewing
	return nil
}

// Field returns the working value for a field.
func (s *Session) Field(name string) reconcile.Value { return s.current[name] }

// Original returns a copy of the extraction snapshot.
func (s *Session) Original() reconcile.FieldMap { return copyFields(s.original) }

// Current returns a copy of the working field map.
func (s *Session) Current() reconcile.FieldMap { return copyFields(s.current) }

// IsModified reports whether one field's working value differs from the
// snapshot, for inline annotation while rendering that field.
func (s *Session) IsModified(field string) bool {
	return reconcile.IsModified(s.original, field, s.current[field])
}

// Corrections reconciles the snapshot against the working copy.
func (s *Session) Corrections() (*reconcile.CorrectionSet, error) {
	return reconcile.Reconcile(s.original, s.current)
}

// Save persists the reviewed fields and builds the model-log entry for
// the audit collaborator. On success the session is terminal and its
// field maps are discarded; on failure it returns to Reviewing so the
// reviewer can retry. Saving a document the backend already holds is
// refused up front.
func (s *Session) Save(ctx context.Context, saver Saver) (*entity.SaveResponse, *entity.ModelLogEntry, error) {
	switch s.state {
	case constants.ReviewStateExtracted, constants.ReviewStateReviewing:
	default:
		return nil, nil, fmt.Errorf("%w: save from %s", ErrInvalidTransition, s.state)
	}
	if s.result.AlreadyExists {
		return nil, nil, common.NewAppError("REVIEW_DUPLICATE", "document already in db", common.ErrInvalidInput)
	}

	s.state = constants.ReviewStateSaving
	cleaned := cleanFields(s.current)

	quality, err := reconcile.BuildQualityLog(s.original, cleaned)
	if err != nil {
		s.state = constants.ReviewStateReviewing
		return nil, nil, err
	}

	resp, err := saver.Save(ctx, entity.SaveRequest{
		DocumentHash:     s.result.DocumentHash,
		Filename:         s.filename,
		StructuredFields: cleaned,
	})
	if err != nil {
		s.state = constants.ReviewStateReviewing
		return nil, nil, err
	}

	link := resp.StorageURL
	if link == nil {
		link = s.result.StorageURL
	}
	entry := &entity.ModelLogEntry{
		QualityLog:       quality,
		DocumentID:       &resp.DocumentID,
		DocumentHash:     s.result.DocumentHash,
		DocumentLink:     link,
		ExtractionResult: s.result,
		OriginalValues:   s.original,
		CorrectedValues:  cleaned,
	}

	s.logger.Info("review.session.saved",
		"document_hash", s.result.DocumentHash,
		"document_id", resp.DocumentID,
		"corrections", quality.CorrectionsMade.Len(),
	)
	s.state = constants.ReviewStateSaved
	s.current = nil
	return resp, entry, nil
}

// Cancel abandons the session without persisting anything.
func (s *Session) Cancel() error {
	switch s.state {
	case constants.ReviewStateExtracted, constants.ReviewStateReviewing:
	default:
		return fmt.Errorf("%w: cancel from %s", ErrInvalidTransition, s.state)
	}
	s.logger.Info("review.session.cancelled", "document_hash", s.result.DocumentHash)
	s.state = constants.ReviewStateCancelled
	s.current = nil
	return nil
}

// copyFields snapshots a field map. Values are scalars, so a map copy
// is a deep copy.
func copyFields(m reconcile.FieldMap) reconcile.FieldMap {
	out := make(reconcile.FieldMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// cleanFields maps blank and whitespace-only values to nil before they
// hit the wire, so the backend stores NULL instead of "".
func cleanFields(m reconcile.FieldMap) reconcile.FieldMap {
	out := make(reconcile.FieldMap, len(m))
	for k, v := range m {
		if reconcile.Normalize(v) == nil {
			out[k] = nil
			continue
		}
		out[k] = v
	}
	return out
}
