// Estatewise - Real Estate Property Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/estatewise

package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/tomtom215/estatewise/internal/catalog"
	"github.com/tomtom215/estatewise/internal/recommend"
)

// Error codes.
const (
	ErrCodeBadRequest         = "BAD_REQUEST"
	ErrCodeInvalidLimit       = "INVALID_LIMIT"
	ErrCodeUnauthorized       = "UNAUTHORIZED"
	ErrCodeForbidden          = "FORBIDDEN"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeMethodNotAllowed   = "METHOD_NOT_ALLOWED"
	ErrCodeConflict           = "CONFLICT"
	ErrCodeTooManyRequests    = "TOO_MANY_REQUESTS"
	ErrCodeInternalError      = "INTERNAL_ERROR"
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE"
	ErrCodeTimeout            = "TIMEOUT"
)

// errorMapping is the status, code and client message for an error.
type errorMapping struct {
	status  int
	code    string
	message string
}

// statusForError maps domain errors to HTTP responses. Unknown errors are
// 500s.
func statusForError(err error) errorMapping {
	switch {
	case errors.Is(err, recommend.ErrInvalidLimit):
		return errorMapping{http.StatusBadRequest, ErrCodeInvalidLimit, err.Error()}
	case errors.Is(err, recommend.ErrInvalidRequest),
		errors.Is(err, catalog.ErrInvalidPropertyData):
		return errorMapping{http.StatusBadRequest, ErrCodeBadRequest, err.Error()}
	case errors.Is(err, catalog.ErrPropertyNotFound):
		return errorMapping{http.StatusNotFound, ErrCodeNotFound, "Property not found"}
	case errors.Is(err, recommend.ErrTrainingInProgress):
		return errorMapping{http.StatusConflict, ErrCodeConflict, "Model training already in progress"}
	case errors.Is(err, catalog.ErrClosed):
		return errorMapping{http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "Catalog unavailable"}
	case errors.Is(err, context.DeadlineExceeded):
		return errorMapping{http.StatusGatewayTimeout, ErrCodeTimeout, "Request timed out"}
	default:
		return errorMapping{http.StatusInternalServerError, ErrCodeInternalError, "Internal server error"}
	}
}

// respondDomainError writes the mapped response for err.
func respondDomainError(w http.ResponseWriter, r *http.Request, err error) {
	m := statusForError(err)
	respondError(w, r, m.status, m.code, m.message, err)
}
