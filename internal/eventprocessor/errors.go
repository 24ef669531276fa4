// Estatewise - Real Estate Property Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/estatewise

package eventprocessor

import "errors"

// ErrNilPublisher is returned when a publisher wrapper is given a nil publisher.
var ErrNilPublisher = errors.New("publisher cannot be nil")

// ErrPublisherClosed is returned by Publish after Close.
var ErrPublisherClosed = errors.New("publisher is closed")

// ErrInvalidConfig is returned when configuration is invalid.
var ErrInvalidConfig = errors.New("invalid configuration")

// ErrMalformedEvent marks a payload that can never be processed. Messages
// failing with it end up on the poison topic.
var ErrMalformedEvent = errors.New("malformed event")

// PermanentError wraps a failure that retrying cannot fix, such as a
// payload that fails validation. The router skips retries for it and the
// message goes straight to the poison topic.
type PermanentError struct {
	Message string
	Cause   error
}

// NewPermanentError creates a permanent error.
func NewPermanentError(message string, cause error) *PermanentError {
	return &PermanentError{Message: message, Cause: cause}
}

// Error implements the error interface.
func (e *PermanentError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

// Unwrap returns the underlying cause.
func (e *PermanentError) Unwrap() error {
	return e.Cause
}

// IsPermanentError reports whether err must not be retried. Malformed
// events are always permanent.
func IsPermanentError(err error) bool {
	if err == nil {
		return false
	}
	var permErr *PermanentError
	return errors.As(err, &permErr) || errors.Is(err, ErrMalformedEvent)
}
