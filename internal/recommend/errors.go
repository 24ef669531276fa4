// Estatewise - Real Estate Property Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/estatewise

package recommend

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the engine. Only ErrInvalidLimit and
// ErrInvalidRequest reach callers of Recommend; the rest are recovered
// inside the engine and select a fallback path.
var (
	// ErrUnknownLocation is returned when a location was not part of the
	// vocabulary the codec was fitted on.
	ErrUnknownLocation = errors.New("unknown location")

	// ErrModelUnavailable means no artifact set has been trained or loaded.
	ErrModelUnavailable = errors.New("model unavailable")

	// ErrTrainingFailed wraps every retrain failure.
	ErrTrainingFailed = errors.New("training failed")

	// ErrInsufficientData is the cause of a training failure when there are
	// too few labeled rows.
	ErrInsufficientData = errors.New("insufficient training data")

	// ErrTrainingInProgress is returned when a retrain is requested while
	// another one is running.
	ErrTrainingInProgress = errors.New("training already in progress")

	// ErrRetrainSkipped is returned when a non-forced retrain short-circuits.
	ErrRetrainSkipped = errors.New("retrain skipped")

	// ErrEmptyCatalog signals that the catalog holds no properties.
	ErrEmptyCatalog = errors.New("empty catalog")

	// ErrInvalidLimit is returned for a limit below 1 or above the maximum.
	ErrInvalidLimit = errors.New("invalid limit")

	// ErrInvalidRequest is returned for malformed recommendation requests.
	ErrInvalidRequest = errors.New("invalid request")
)

// UnknownLocationError carries the location that failed to encode.
type UnknownLocationError struct {
	Location string
}

func (e *UnknownLocationError) Error() string {
	return fmt.Sprintf("unknown location %q", e.Location)
}

// Unwrap allows errors.Is(err, ErrUnknownLocation).
func (e *UnknownLocationError) Unwrap() error {
	return ErrUnknownLocation
}
