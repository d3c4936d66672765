package backend

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a backend failure so callers branch on structure, not
// on substrings of the error message.
type Kind string

const (
	KindValidation Kind = "VALIDATION" // the backend rejected the payload
	KindNotFound   Kind = "NOT_FOUND"
	KindConflict   Kind = "CONFLICT"  // e.g. document already exists
	KindTransient  Kind = "TRANSIENT" // retryable: network, timeout, 5xx gateway-ish
	KindInternal   Kind = "INTERNAL"
)

// Error is a classified backend failure. Detail carries the backend's
// human-readable message when one was returned.
type Error struct {
	Kind   Kind
	Op     string
	Status int
	Detail string
	Err    error
}

func (e *Error) Error() string {
	msg := e.Detail
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Status > 0 {
		return fmt.Sprintf("backend %s: %s (status %d, %s)", e.Op, msg, e.Status, e.Kind)
	}
	return fmt.Sprintf("backend %s: %s (%s)", e.Op, msg, e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

// classify maps an HTTP status to an error kind.
func classify(status int) Kind {
	switch status {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return KindValidation
	case http.StatusNotFound:
		return KindNotFound
	case http.StatusConflict:
		return KindConflict
	case http.StatusRequestTimeout, http.StatusTooManyRequests,
		http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return KindTransient
	default:
		return KindInternal
	}
}

func kindOf(err error) Kind {
	var be *Error
	if errors.As(err, &be) {
		return be.Kind
	}
	return ""
}

// IsTransient reports whether the failure is worth retrying later.
func IsTransient(err error) bool { return kindOf(err) == KindTransient }

// IsConflict reports whether the backend already holds the resource.
func IsConflict(err error) bool { return kindOf(err) == KindConflict }

// IsNotFound reports whether the resource does not exist.
func IsNotFound(err error) bool { return kindOf(err) == KindNotFound }

// IsValidation reports whether the backend rejected the payload.
func IsValidation(err error) bool { return kindOf(err) == KindValidation }
