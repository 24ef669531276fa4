// Estatewise - Real Estate Property Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/estatewise

package config

import "time"

// Config is the service configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Logging   LoggingConfig   `koanf:"logging"`
	Catalog   CatalogConfig   `koanf:"catalog"`
	Model     ModelConfig     `koanf:"model"`
	Recommend RecommendConfig `koanf:"recommend"`
	Events    EventsConfig    `koanf:"events"`
	Admin     AdminConfig     `koanf:"admin"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`

	// CORSOrigins accepts a comma-separated list from the environment.
	CORSOrigins []string `koanf:"cors_origins"`

	// RateLimitReqs requests per RateLimitWindow per client IP.
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is trace, debug, info, warn or error.
	Level string `koanf:"level"`

	// Format is json or console.
	Format string `koanf:"format"`

	Caller bool `koanf:"caller"`
}

// CatalogConfig holds property catalog settings.
type CatalogConfig struct {
	// Path is the Badger directory.
	Path string `koanf:"path"`

	// InMemory keeps the catalog in memory only.
	InMemory bool `koanf:"in_memory"`

	// SeedPath is the JSON file imported when the catalog is empty. A
	// missing file is logged, not fatal.
	SeedPath string `koanf:"seed_path"`

	// SeedFormat is "properties" (normalized records) or "listings" (raw
	// scraped listings run through normalization).
	SeedFormat string `koanf:"seed_format"`
}

// ModelConfig holds model training and artifact settings.
type ModelConfig struct {
	// Path is the artifact directory.
	Path string `koanf:"path"`

	// Keep is the number of artifact versions retained per model.
	Keep int `koanf:"keep"`

	// RetrainInterval schedules non-forced retrains. Zero disables.
	RetrainInterval time.Duration `koanf:"retrain_interval"`

	// RetrainOnStartup runs a non-forced retrain once at startup.
	RetrainOnStartup bool `koanf:"retrain_on_startup"`

	// MinInterval rate-limits non-forced retrains.
	MinInterval time.Duration `koanf:"min_interval"`

	MinLabeledRows  int           `koanf:"min_labeled_rows"`
	TrainingTimeout time.Duration `koanf:"training_timeout"`

	// Forest parameters.
	Trees          int   `koanf:"trees"`
	MaxDepth       int   `koanf:"max_depth"`
	MinSamplesLeaf int   `koanf:"min_samples_leaf"`
	MaxFeatures    int   `koanf:"max_features"`
	Seed           int64 `koanf:"seed"`
}

// RecommendConfig holds request-time settings.
type RecommendConfig struct {
	DefaultLimit int `koanf:"default_limit"`
	MaxLimit     int `koanf:"max_limit"`

	// TieBreak is first_seen or lexicographic.
	TieBreak string `koanf:"tie_break"`

	// BackfillSeed seeds random backfill sampling.
	BackfillSeed int64 `koanf:"backfill_seed"`
}

// EventsConfig holds NATS JetStream event settings.
type EventsConfig struct {
	Enabled          bool          `koanf:"enabled"`
	URL              string        `koanf:"url"`
	Embedded         bool          `koanf:"embedded"`
	Host             string        `koanf:"host"`
	Port             int           `koanf:"port"`
	StoreDir         string        `koanf:"store_dir"`
	MaxMemory        int64         `koanf:"max_memory"`
	MaxStore         int64         `koanf:"max_store"`
	StreamName       string        `koanf:"stream_name"`
	PropertyTopic    string        `koanf:"property_topic"`
	ModelTopic       string        `koanf:"model_topic"`
	PoisonTopic      string        `koanf:"poison_topic"`
	Retention        time.Duration `koanf:"retention"`
	DurablePrefix    string        `koanf:"durable_prefix"`
	QueueGroup       string        `koanf:"queue_group"`
	SubscribersCount int           `koanf:"subscribers_count"`
	RetrainOnUpdate  bool          `koanf:"retrain_on_update"`
	MaxRetries       int           `koanf:"max_retries"`
	RetryInterval    time.Duration `koanf:"retry_interval"`
	DedupWindow      time.Duration `koanf:"dedup_window"`
}

// AdminConfig holds admin endpoint settings.
type AdminConfig struct {
	// Token gates the retrain endpoint. Empty disables the endpoint.
	Token string `koanf:"token"`
}

// Addr returns the HTTP listen address.
func (s *ServerConfig) Addr() string {
	return joinHostPort(s.Host, s.Port)
}

// AdminEnabled reports whether the admin endpoint is reachable.
func (c *Config) AdminEnabled() bool {
	return c.Admin.Token != ""
}
