package ai

import (
	"errors"
	"fmt"
	"strings"
)

// RemoteFailureMessage is shown verbatim to the end user for every per-request failure.
const RemoteFailureMessage = "Failed to get a valid analysis from the AI. The model may be overloaded or the request was invalid."

// ErrConfiguration indicates the client cannot be built, e.g. the model credential is missing.
var ErrConfiguration = errors.New("ai client misconfigured")

// Remote failure reasons, also used as metric labels.
const (
	ReasonTransport           = "transport"
	ReasonTimeout             = "timeout"
	ReasonEmptyResponse       = "empty_response"
	ReasonInvalidJSON         = "invalid_json"
	ReasonVivaCount           = "viva_count"
	ReasonOriginalityMismatch = "originality_mismatch"
)

// RemoteFailure collapses every model-side problem into one user-facing error.
type RemoteFailure struct {
	Reason string
	Err    error
}

func (e *RemoteFailure) Error() string {
	return RemoteFailureMessage
}

func (e *RemoteFailure) Unwrap() error {
	return e.Err
}

// Detail describes the underlying cause for logs. It is never shown to users.
func (e *RemoteFailure) Detail() string {
	if e.Err == nil {
		return e.Reason
	}
	return fmt.Sprintf("%s: %v", e.Reason, e.Err)
}

func remoteFailure(reason string, err error) *RemoteFailure {
	return &RemoteFailure{Reason: reason, Err: err}
}

// ValidationError reports pre-flight problems with an evaluation request.
type ValidationError struct {
	Fields []FieldError
}

// FieldError names one invalid field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "invalid evaluation request"
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Message)
	}
	return strings.Join(parts, "; ")
}

// IsRemoteFailure reports whether err is (or wraps) a RemoteFailure.
func IsRemoteFailure(err error) bool {
	var rf *RemoteFailure
	return errors.As(err, &rf)
}

// IsValidationError reports whether err is (or wraps) a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
