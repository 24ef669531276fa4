// Estatewise - Real Estate Property Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/estatewise

// Package storage persists trained price-model artifacts.
//
// The estimator, the location encoder and the feature scaler are saved as a
// single versioned file so that they are always loaded from the same
// training run.
//
// # Storage Format
//
//	filename: {name}_v{version}.gob.gz
//
//	structure:
//	  - Metadata (ArtifactMetadata)
//	  - CompressedData (gzip-compressed gob-encoded ArtifactState)
//
// Metadata carries a SHA-256 checksum of the uncompressed payload, which
// Load verifies before decoding.
//
// # Atomicity
//
// Save encodes into a temporary file in the store directory, fsyncs it and
// renames it over the target name. A crash mid-write leaves the previous
// version intact; stale temporary files are removed by NewStore.
//
// # Usage
//
//	store, err := storage.NewStore("/data/models")
//	if err != nil {
//	    return err
//	}
//	repo := storage.NewRepository(store, 3, logger)
//	lifecycle := recommend.NewLifecycle(repo, cfg, logger)
//
// # Thread Safety
//
// Store serializes writers with a mutex and allows concurrent readers.
package storage
