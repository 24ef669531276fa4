// Estatewise - Real Estate Property Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/estatewise

package catalog

import "errors"

var (
	// ErrPropertyNotFound is returned when a property id is not in the catalog.
	ErrPropertyNotFound = errors.New("property not found")

	// ErrInvalidPropertyData wraps validation failures on upsert.
	ErrInvalidPropertyData = errors.New("invalid property data")

	// ErrClosed is returned after Close.
	ErrClosed = errors.New("catalog is closed")
)
