// Package service contains application services.
package service

import (
	"errors"
	"fmt"
)

// ErrAllBackendsExhausted is surfaced when every availability source failed.
var ErrAllBackendsExhausted = errors.New("all availability check methods failed")

var errNotConfigured = errors.New("source not configured")

// MsgResolveFailed is reported when a resolution aborted unexpectedly.
const MsgResolveFailed = "failed to check name availability, please try again"

// StageError records the failure of one availability source. It is logged
// and absorbed by the cascade, never returned to callers on its own.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// SubmissionError wraps a failed rent price query or transaction broadcast.
// Its message is the underlying error's message, unchanged.
type SubmissionError struct {
	Err error
}

func (e *SubmissionError) Error() string { return e.Err.Error() }

func (e *SubmissionError) Unwrap() error { return e.Err }
