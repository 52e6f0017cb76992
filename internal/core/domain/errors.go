package domain

import (
	"errors"
	"fmt"
)

var ErrNoCredential = errors.New("no credential stored")
var ErrNotAuthenticated = errors.New("not authenticated")
var ErrSubmissionInFlight = errors.New("submission already in flight")

// AuthError reasons with fixed spellings. Any other reason carries the
// backend's own message verbatim.
const (
	ReasonInvalidResponse = "invalid-response"
	ReasonUsernameTaken   = "username-taken"
	ReasonUnexpected      = "unexpected"
)

// Submission workflow stages.
const (
	StageAuth   = "auth"
	StageUpload = "upload"
	StageNotify = "notify"
)

// TransportError covers both network failures (Status 0) and non-2xx
// responses from the backend or the notification provider.
type TransportError struct {
	Status  int
	Message string
	Err     error
}

func (e *TransportError) Error() string {
	switch {
	case e.Status == 0:
		return fmt.Sprintf("transport: %v", e.Err)
	case e.Message != "":
		return fmt.Sprintf("transport: status %d: %s", e.Status, e.Message)
	default:
		return fmt.Sprintf("transport: status %d", e.Status)
	}
}

func (e *TransportError) Unwrap() error { return e.Err }

// AuthError is a semantic login/register failure.
type AuthError struct {
	Reason string
}

func (e *AuthError) Error() string { return "auth: " + e.Reason }

// WorkflowError reports which submission stage failed.
type WorkflowError struct {
	Stage string
	Cause error
}

func (e *WorkflowError) Error() string {
	return fmt.Sprintf("submission %s stage: %v", e.Stage, e.Cause)
}

func (e *WorkflowError) Unwrap() error { return e.Cause }
