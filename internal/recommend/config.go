// Estatewise - Real Estate Property Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/estatewise

package recommend

import (
	"fmt"
	"time"

	"github.com/goccy/go-json"
)

// Config contains all configuration for the recommendation engine.
type Config struct {
	// Training contains retrain policy parameters.
	Training TrainingConfig `json:"training"`

	// Forest contains price estimator parameters.
	Forest ForestConfig `json:"forest"`

	// Limits contains operational limits.
	Limits LimitsConfig `json:"limits"`

	// Preferences contains preference extraction policy.
	Preferences PreferenceConfig `json:"preferences"`

	// Seed is the random seed for backfill sampling.
	// If zero, a fixed default seed is used.
	Seed int64 `json:"seed"`
}

// TrainingConfig contains retrain policy parameters.
type TrainingConfig struct {
	// MinInterval is the minimum time between non-forced retrains.
	// Zero disables the rate policy.
	// Default: 10m.
	MinInterval time.Duration `json:"min_interval"`

	// MinLabeledRows is the minimum number of priced properties required.
	// Default: 2.
	MinLabeledRows int `json:"min_labeled_rows"`

	// Timeout is the maximum time allowed for a training run.
	// Default: 5m.
	Timeout time.Duration `json:"timeout"`
}

// ForestConfig contains price estimator parameters.
type ForestConfig struct {
	// Trees is the number of trees in the forest.
	// Default: 100.
	Trees int `json:"trees"`

	// MaxDepth bounds tree depth. Zero means unbounded.
	// Default: 12.
	MaxDepth int `json:"max_depth"`

	// MinSamplesLeaf is the minimum number of samples per leaf.
	// Default: 1.
	MinSamplesLeaf int `json:"min_samples_leaf"`

	// MaxFeatures is the number of features tried per split. Zero means all.
	// Default: 0.
	MaxFeatures int `json:"max_features"`

	// Seed makes training reproducible.
	// Default: 42.
	Seed int64 `json:"seed"`
}

// Params converts the configuration to fitting parameters.
//
//nolint:gocritic // value receiver is intentional for immutable semantics
func (f ForestConfig) Params() ForestParams {
	return ForestParams{
		Trees:          f.Trees,
		MaxDepth:       f.MaxDepth,
		MinSamplesLeaf: f.MinSamplesLeaf,
		MaxFeatures:    f.MaxFeatures,
		Seed:           f.Seed,
	}
}

// LimitsConfig contains operational limits.
type LimitsConfig struct {
	// DefaultLimit is used when a request does not set a limit.
	// Default: 5.
	DefaultLimit int `json:"default_limit"`

	// MaxLimit is the largest accepted limit.
	// Default: 100.
	MaxLimit int `json:"max_limit"`
}

// PreferenceConfig contains preference extraction policy.
type PreferenceConfig struct {
	// TieBreak is "first_seen" or "lexicographic".
	// Default: "first_seen".
	TieBreak TieBreak `json:"tie_break"`

	// DefaultBedrooms is used when no bedroom values exist.
	// Default: 3.
	DefaultBedrooms float64 `json:"default_bedrooms"`

	// DefaultBathrooms is used when no bathroom values exist.
	// Default: 2.
	DefaultBathrooms float64 `json:"default_bathrooms"`

	// DefaultToilets is used when no toilet values exist.
	// Default: 1.
	DefaultToilets float64 `json:"default_toilets"`

	// DefaultParking is used when no parking values exist.
	// Default: 1.
	DefaultParking float64 `json:"default_parking"`
}

// Policy converts the configuration to an extraction policy.
//
//nolint:gocritic // value receiver is intentional for immutable semantics
func (p PreferenceConfig) Policy() PreferencePolicy {
	return PreferencePolicy{
		TieBreak: p.TieBreak,
		Defaults: UserPreference{
			Bedrooms:      p.DefaultBedrooms,
			Bathrooms:     p.DefaultBathrooms,
			Toilets:       p.DefaultToilets,
			ParkingSpaces: p.DefaultParking,
			Location:      UnknownLocationName,
		},
	}
}

// DefaultConfig returns a Config with sensible production defaults.
func DefaultConfig() *Config {
	return &Config{
		Training: TrainingConfig{
			MinInterval:    10 * time.Minute,
			MinLabeledRows: 2,
			Timeout:        5 * time.Minute,
		},
		Forest: ForestConfig{
			Trees:          100,
			MaxDepth:       12,
			MinSamplesLeaf: 1,
			MaxFeatures:    0,
			Seed:           42,
		},
		Limits: LimitsConfig{
			DefaultLimit: 5,
			MaxLimit:     100,
		},
		Preferences: PreferenceConfig{
			TieBreak:         TieBreakFirstSeen,
			DefaultBedrooms:  3,
			DefaultBathrooms: 2,
			DefaultToilets:   1,
			DefaultParking:   1,
		},
		Seed: 42,
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.Training.MinInterval < 0 {
		return fmt.Errorf("training.min_interval must be non-negative, got %v", c.Training.MinInterval)
	}
	if c.Training.MinLabeledRows < 1 {
		return fmt.Errorf("training.min_labeled_rows must be positive, got %d", c.Training.MinLabeledRows)
	}
	if c.Training.Timeout <= 0 {
		return fmt.Errorf("training.timeout must be positive, got %v", c.Training.Timeout)
	}

	if c.Forest.Trees < 1 {
		return fmt.Errorf("forest.trees must be positive, got %d", c.Forest.Trees)
	}
	if c.Forest.MaxDepth < 0 {
		return fmt.Errorf("forest.max_depth must be non-negative, got %d", c.Forest.MaxDepth)
	}
	if c.Forest.MinSamplesLeaf < 1 {
		return fmt.Errorf("forest.min_samples_leaf must be positive, got %d", c.Forest.MinSamplesLeaf)
	}
	if c.Forest.MaxFeatures < 0 || c.Forest.MaxFeatures > len(FeatureColumns) {
		return fmt.Errorf("forest.max_features must be in [0, %d], got %d", len(FeatureColumns), c.Forest.MaxFeatures)
	}

	if c.Limits.DefaultLimit < 1 {
		return fmt.Errorf("limits.default_limit must be positive, got %d", c.Limits.DefaultLimit)
	}
	if c.Limits.MaxLimit < c.Limits.DefaultLimit {
		return fmt.Errorf("limits.max_limit must be >= limits.default_limit, got %d < %d", c.Limits.MaxLimit, c.Limits.DefaultLimit)
	}

	switch c.Preferences.TieBreak {
	case TieBreakFirstSeen, TieBreakLexicographic:
	default:
		return fmt.Errorf("preferences.tie_break must be %q or %q, got %q",
			TieBreakFirstSeen, TieBreakLexicographic, c.Preferences.TieBreak)
	}
	if c.Preferences.DefaultBedrooms < 0 || c.Preferences.DefaultBathrooms < 0 ||
		c.Preferences.DefaultToilets < 0 || c.Preferences.DefaultParking < 0 {
		return fmt.Errorf("preferences defaults must be non-negative")
	}

	return nil
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	// All nested structs contain only value types.
	clone := *c
	return &clone
}

// MarshalJSON implements custom JSON marshaling for duration fields.
func (c *Config) MarshalJSON() ([]byte, error) {
	type Alias Config
	type training struct {
		MinInterval    string `json:"min_interval"`
		MinLabeledRows int    `json:"min_labeled_rows"`
		Timeout        string `json:"timeout"`
	}
	return json.Marshal(&struct {
		*Alias
		Training training `json:"training"`
	}{
		Alias: (*Alias)(c),
		Training: training{
			MinInterval:    c.Training.MinInterval.String(),
			MinLabeledRows: c.Training.MinLabeledRows,
			Timeout:        c.Training.Timeout.String(),
		},
	})
}
