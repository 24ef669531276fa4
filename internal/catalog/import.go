// Estatewise - Real Estate Property Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/estatewise

package catalog

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/goccy/go-json"

	"github.com/tomtom215/estatewise/internal/recommend"
)

// SeedFormat selects how a seed file is decoded.
type SeedFormat string

const (
	// SeedFormatProperties is a JSON array of normalized properties.
	SeedFormatProperties SeedFormat = "properties"

	// SeedFormatListings is a JSON array of raw scraped listings.
	SeedFormatListings SeedFormat = "listings"
)

// ImportJSON loads a JSON array of properties from path and upserts it.
// A missing file is not an error; it is logged and zero is returned.
func (s *Store) ImportJSON(ctx context.Context, path string) (int, error) {
	return s.importFile(ctx, path, SeedFormatProperties)
}

// ImportListingsJSON loads raw listings from path, normalizes them and
// upserts the result.
func (s *Store) ImportListingsJSON(ctx context.Context, path string) (int, error) {
	return s.importFile(ctx, path, SeedFormatListings)
}

// Seed imports path with format only when the catalog is empty.
func (s *Store) Seed(ctx context.Context, path string, format SeedFormat) (int, error) {
	if path == "" {
		return 0, nil
	}
	count, err := s.Count(ctx)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		s.logger.Debug().Int("properties", count).Msg("Catalog not empty, skipping seed import")
		return 0, nil
	}
	return s.importFile(ctx, path, format)
}

func (s *Store) importFile(ctx context.Context, path string, format SeedFormat) (int, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from operator config
	if errors.Is(err, fs.ErrNotExist) {
		s.logger.Warn().Str("path", path).Msg("Seed file not found, catalog left unchanged")
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read seed file: %w", err)
	}

	props, err := decodeSeed(data, format)
	if err != nil {
		return 0, fmt.Errorf("decode seed file %s: %w", path, err)
	}

	n, err := s.BulkUpsert(ctx, props)
	if err != nil {
		return 0, err
	}
	s.logger.Info().
		Str("path", path).
		Str("format", string(format)).
		Int("properties", n).
		Msg("Seed data imported")
	return n, nil
}

func decodeSeed(data []byte, format SeedFormat) ([]recommend.Property, error) {
	switch format {
	case SeedFormatProperties, "":
		var props []recommend.Property
		if err := json.Unmarshal(data, &props); err != nil {
			return nil, err
		}
		return props, nil
	case SeedFormatListings:
		var raw []RawListing
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
		return NormalizeListings(raw), nil
	default:
		return nil, fmt.Errorf("unknown seed format %q", format)
	}
}
