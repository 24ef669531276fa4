// Estatewise - Real Estate Property Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/estatewise

// Package catalog stores the property catalog in BadgerDB.
//
// Properties are kept under "property:" keys with a zero-padded id, so a
// prefix scan returns them in id order. Values are JSON. GetAll reads in a
// single transaction and always sees a consistent snapshot; BulkUpsert
// commits a batch atomically.
//
// The package also normalizes raw scraped listings ("3 Bedrooms 2
// Bathrooms ...", "₦ 1,200,000") into properties for seeding.
package catalog
