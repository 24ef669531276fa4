// Estatewise - Real Estate Property Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/estatewise

package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths are searched in order when CONFIG_PATH is unset.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/estatewise/config.yaml",
	"/etc/estatewise/config.yml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// Load builds the configuration from three layers, later layers winning:
//  1. built-in defaults
//  2. an optional YAML file
//  3. mapped environment variables
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile returns CONFIG_PATH when it exists, else the first
// default path that exists, else "".
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// sliceConfigPaths are split on commas when they arrive as strings.
var sliceConfigPaths = []string{
	"server.cors_origins",
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) == 0 {
			continue
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps environment variable names (lowercased) to koanf paths.
// The KAFKA_* names are kept from the original deployment and now address
// NATS topics.
var envMappings = map[string]string{
	// Server
	"http_host":             "server.host",
	"http_port":             "server.port",
	"http_read_timeout":     "server.read_timeout",
	"http_write_timeout":    "server.write_timeout",
	"http_shutdown_timeout": "server.shutdown_timeout",
	"cors_origins":          "server.cors_origins",
	"rate_limit_requests":   "server.rate_limit_reqs",
	"rate_limit_window":     "server.rate_limit_window",
	"disable_rate_limit":    "server.rate_limit_disabled",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	// Catalog
	"catalog_path":         "catalog.path",
	"catalog_in_memory":    "catalog.in_memory",
	"property_data_path":   "catalog.seed_path",
	"property_data_format": "catalog.seed_format",

	// Model
	"model_path":               "model.path",
	"model_keep_versions":      "model.keep",
	"retrain_interval":         "model.retrain_interval",
	"retrain_on_startup":       "model.retrain_on_startup",
	"retrain_min_interval":     "model.min_interval",
	"retrain_min_labeled_rows": "model.min_labeled_rows",
	"retrain_timeout":          "model.training_timeout",
	"forest_trees":             "model.trees",
	"forest_max_depth":         "model.max_depth",
	"forest_min_samples_leaf":  "model.min_samples_leaf",
	"forest_max_features":      "model.max_features",
	"forest_seed":              "model.seed",

	// Recommend
	"recommend_default_limit": "recommend.default_limit",
	"recommend_max_limit":     "recommend.max_limit",
	"recommend_tie_break":     "recommend.tie_break",
	"recommend_backfill_seed": "recommend.backfill_seed",

	// Events
	"nats_enabled":         "events.enabled",
	"nats_url":             "events.url",
	"nats_embedded":        "events.embedded",
	"nats_host":            "events.host",
	"nats_port":            "events.port",
	"nats_store_dir":       "events.store_dir",
	"nats_max_memory":      "events.max_memory",
	"nats_max_store":       "events.max_store",
	"nats_stream_name":     "events.stream_name",
	"nats_retention":       "events.retention",
	"nats_durable_prefix":  "events.durable_prefix",
	"nats_queue_group":     "events.queue_group",
	"nats_subscribers":     "events.subscribers_count",
	"nats_max_retries":     "events.max_retries",
	"nats_retry_interval":  "events.retry_interval",
	"nats_poison_topic":    "events.poison_topic",
	"nats_dedup_window":    "events.dedup_window",
	"kafka_property_topic": "events.property_topic",
	"kafka_model_topic":    "events.model_topic",
	"retrain_on_update":    "events.retrain_on_update",

	// Admin
	"admin_token": "admin.token",
}

// envTransformFunc maps an environment variable to its koanf path. Unmapped
// variables return "" and are skipped.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
