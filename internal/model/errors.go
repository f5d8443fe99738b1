package model

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound means the identifier or company could not be resolved upstream.
	ErrNotFound = errors.New("not found")
	// ErrParse means model output did not contain the expected structured payload.
	ErrParse = errors.New("unparseable model output")
	// ErrTimeout means the per-profile wall-clock budget elapsed.
	ErrTimeout = errors.New("processing exceeded timeout")
)

// UpstreamError is a provider, network or API failure in a named stage.
type UpstreamError struct {
	Provider string
	Err      error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: %v", e.Provider, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// NewUpstreamError wraps err as an UpstreamError for provider.
func NewUpstreamError(provider string, err error) error {
	if err == nil {
		return nil
	}
	return &UpstreamError{Provider: provider, Err: err}
}

// BatchFatalError aborts a whole job before the per-profile loop starts.
type BatchFatalError struct {
	Err error
}

func (e *BatchFatalError) Error() string {
	return e.Err.Error()
}

func (e *BatchFatalError) Unwrap() error { return e.Err }

// IsUpstream reports whether err carries an UpstreamError.
func IsUpstream(err error) bool {
	var ue *UpstreamError
	return errors.As(err, &ue)
}

// IsBatchFatal reports whether err carries a BatchFatalError.
func IsBatchFatal(err error) bool {
	var be *BatchFatalError
	return errors.As(err, &be)
}
