// Estatewise - Real Estate Property Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/estatewise

package config

import (
	"fmt"
	"net/url"
	"strings"
)

// Validate checks the configuration and returns the first problem found.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	if err := c.validateCatalog(); err != nil {
		return err
	}
	if err := c.validateModel(); err != nil {
		return err
	}
	if err := c.validateRecommend(); err != nil {
		return err
	}
	return c.validateEvents()
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.ReadTimeout <= 0 || c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("HTTP read and write timeouts must be positive")
	}
	if !c.Server.RateLimitDisabled {
		if c.Server.RateLimitReqs < 1 {
			return fmt.Errorf("RATE_LIMIT_REQUESTS must be positive, got %d", c.Server.RateLimitReqs)
		}
		if c.Server.RateLimitWindow <= 0 {
			return fmt.Errorf("RATE_LIMIT_WINDOW must be positive, got %v", c.Server.RateLimitWindow)
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(c.Logging.Level) {
	case "trace", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("LOG_LEVEL must be one of trace, debug, info, warn, error; got %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Logging.Format)
	}
	return nil
}

func (c *Config) validateCatalog() error {
	if !c.Catalog.InMemory && c.Catalog.Path == "" {
		return fmt.Errorf("CATALOG_PATH is required unless CATALOG_IN_MEMORY=true")
	}
	switch c.Catalog.SeedFormat {
	case "properties", "listings":
	default:
		return fmt.Errorf("PROPERTY_DATA_FORMAT must be properties or listings, got %q", c.Catalog.SeedFormat)
	}
	return nil
}

func (c *Config) validateModel() error {
	m := c.Model
	if m.Path == "" {
		return fmt.Errorf("MODEL_PATH is required")
	}
	if m.Keep < 1 {
		return fmt.Errorf("MODEL_KEEP_VERSIONS must be positive, got %d", m.Keep)
	}
	if m.RetrainInterval < 0 || m.MinInterval < 0 {
		return fmt.Errorf("retrain intervals must be non-negative")
	}
	if m.TrainingTimeout <= 0 {
		return fmt.Errorf("RETRAIN_TIMEOUT must be positive, got %v", m.TrainingTimeout)
	}
	if m.MinLabeledRows < 1 {
		return fmt.Errorf("RETRAIN_MIN_LABELED_ROWS must be positive, got %d", m.MinLabeledRows)
	}
	if m.Trees < 1 {
		return fmt.Errorf("FOREST_TREES must be positive, got %d", m.Trees)
	}
	if m.MaxDepth < 0 || m.MaxFeatures < 0 {
		return fmt.Errorf("FOREST_MAX_DEPTH and FOREST_MAX_FEATURES must be non-negative")
	}
	if m.MinSamplesLeaf < 1 {
		return fmt.Errorf("FOREST_MIN_SAMPLES_LEAF must be positive, got %d", m.MinSamplesLeaf)
	}
	return nil
}

func (c *Config) validateRecommend() error {
	r := c.Recommend
	if r.DefaultLimit < 1 {
		return fmt.Errorf("RECOMMEND_DEFAULT_LIMIT must be positive, got %d", r.DefaultLimit)
	}
	if r.MaxLimit < r.DefaultLimit {
		return fmt.Errorf("RECOMMEND_MAX_LIMIT (%d) must be >= RECOMMEND_DEFAULT_LIMIT (%d)", r.MaxLimit, r.DefaultLimit)
	}
	switch r.TieBreak {
	case "first_seen", "lexicographic":
	default:
		return fmt.Errorf("RECOMMEND_TIE_BREAK must be first_seen or lexicographic, got %q", r.TieBreak)
	}
	return nil
}

// validateEvents checks event settings only when events are enabled.
func (c *Config) validateEvents() error {
	e := c.Events
	if !e.Enabled {
		return nil
	}
	if !e.Embedded {
		u, err := url.Parse(e.URL)
		if err != nil || u.Host == "" {
			return fmt.Errorf("NATS_URL is invalid: %q", e.URL)
		}
		if u.Scheme != "nats" && u.Scheme != "tls" {
			return fmt.Errorf("NATS_URL scheme must be nats or tls, got %q", u.Scheme)
		}
	}
	if e.PropertyTopic == "" || e.ModelTopic == "" || e.PoisonTopic == "" {
		return fmt.Errorf("event topics must not be empty")
	}
	if e.PropertyTopic == e.ModelTopic {
		return fmt.Errorf("KAFKA_PROPERTY_TOPIC and KAFKA_MODEL_TOPIC must differ, both are %q", e.PropertyTopic)
	}
	if e.SubscribersCount < 1 {
		return fmt.Errorf("NATS_SUBSCRIBERS must be positive, got %d", e.SubscribersCount)
	}
	if e.MaxRetries < 0 {
		return fmt.Errorf("NATS_MAX_RETRIES must be non-negative, got %d", e.MaxRetries)
	}
	if e.DedupWindow < 0 {
		return fmt.Errorf("NATS_DEDUP_WINDOW must be non-negative, got %v", e.DedupWindow)
	}
	return nil
}
