// Estatewise - Real Estate Property Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/estatewise

// Package validation wraps go-playground/validator v10 with a shared
// validator instance and API-friendly error messages.
//
// Field names in errors come from json tags, so a failure on
// recommend.Property.Bedrooms is reported as "bedrooms". Slices of structs
// are validated element by element with ValidateSlice.
//
// Custom tags:
//   - nocontrol: rejects strings containing control characters
//
// Example:
//
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    apiErr := verr.ToAPIError()
//	    respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
//	    return
//	}
package validation
