// Package failures defines the closed taxonomy of pipeline failures shared by
// the validator, classification client, and normalizer. Callers switch on the
// Kind returned by KindOf rather than matching error strings.
package failures

import (
	"errors"
	"fmt"
)

// Kind identifies a pipeline failure. The set is closed.
type Kind string

const (
	None Kind = ""

	EmptyInput Kind = "empty_input"
	TooLong    Kind = "too_long"

	Timeout            Kind = "timeout"
	NetworkUnavailable Kind = "network_unavailable"
	InvalidInput       Kind = "invalid_input"
	Unauthorized       Kind = "unauthorized"
	ServiceUnavailable Kind = "service_unavailable"
	RateLimited        Kind = "rate_limited"
	ModelWarmingUp     Kind = "model_warming_up"
	ServerError        Kind = "server_error"

	MissingEmotionField Kind = "missing_emotion_field"
	MissingConfidence   Kind = "missing_confidence"
	MalformedScores     Kind = "malformed_scores"
)

// Stage reports which pipeline stage produces failures of this kind.
func (k Kind) Stage() string {
	switch k {
	case EmptyInput, TooLong:
		return "validator"
	case MissingEmotionField, MissingConfidence, MalformedScores:
		return "normalizer"
	case None:
		return ""
	default:
		return "classifier"
	}
}

// Rejected reports whether the kind blocks a submission before any network call.
func (k Kind) Rejected() bool {
	return k == EmptyInput || k == TooLong
}

// Transient reports whether the caller may reasonably try again later.
// Unauthorized is never transient: it requires re-authentication.
func (k Kind) Transient() bool {
	switch k {
	case Timeout, NetworkUnavailable, RateLimited, ModelWarmingUp:
		return true
	}
	return false
}

// Error carries a Kind, the backend status code when one was received, and
// the underlying cause.
type Error struct {
	Kind   Kind
	Status int
	Err    error
}

// New creates an Error of the given kind wrapping err.
func New(kind Kind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

// Newf creates an Error of the given kind with a formatted cause.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Err: fmt.Errorf(format, args...)}
}

// WithStatus creates an Error of the given kind for a backend status code.
func WithStatus(kind Kind, status int, err error) *Error {
	return &Error{Kind: kind, Status: status, Err: err}
}

func (e *Error) Error() string {
	if e.Err == nil {
		return string(e.Kind)
	}
	if e.Status != 0 {
		return fmt.Sprintf("%s (status %d): %v", e.Kind, e.Status, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error of the same Kind, so errors.Is(err, failures.New(failures.Timeout, nil))
// works regardless of cause.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// KindOf extracts the Kind from err. Errors outside the taxonomy report ServerError;
// a nil error reports None.
func KindOf(err error) Kind {
	if err == nil {
		return None
	}
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return ServerError
}
