package models

import (
	"errors"
	"fmt"
)

var (
	ErrAccessDenied       = errors.New("access denied")
	ErrPostNotFound       = errors.New("post is not found")
	ErrSubmissionNotFound = errors.New("submission is not found")
	ErrProfileNotFound    = errors.New("profile is not found")
	ErrOptionNotFound     = errors.New("option is not found")
	ErrNotAPoll           = errors.New("post is not a poll")
	ErrPollOptionsSet     = errors.New("poll options are already set")
	ErrAlreadyVoted       = errors.New("your vote already written")
	ErrInvalidStatus      = errors.New("invalid submission status")
	ErrAmbiguousID        = errors.New("submission id is ambiguous")
)

// ValidationError is a missing or empty required field. It blocks emission and is shown to the user.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// BackendError wraps any failed call to the backend service.
type BackendError struct {
	Op  string
	Err error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("backend: %s: %v", e.Op, e.Err)
}

func (e *BackendError) Unwrap() error {
	return e.Err
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
