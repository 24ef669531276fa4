// Estatewise - Real Estate Property Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/estatewise

package config

import (
	"net"
	"strconv"
	"time"
)

// defaultConfig returns the defaults applied before the file and the
// environment.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:              "0.0.0.0",
			Port:              8080,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      30 * time.Second,
			ShutdownTimeout:   10 * time.Second,
			CORSOrigins:       []string{"*"},
			RateLimitReqs:     100,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		Catalog: CatalogConfig{
			Path:       "/data/catalog",
			InMemory:   false,
			SeedPath:   "data/properties.json",
			SeedFormat: "properties",
		},
		Model: ModelConfig{
			Path:             "/data/models",
			Keep:             3,
			RetrainInterval:  time.Hour,
			RetrainOnStartup: true,
			MinInterval:      10 * time.Minute,
			MinLabeledRows:   2,
			TrainingTimeout:  5 * time.Minute,
			Trees:            100,
			MaxDepth:         12,
			MinSamplesLeaf:   1,
			MaxFeatures:      0,
			Seed:             42,
		},
		Recommend: RecommendConfig{
			DefaultLimit: 5,
			MaxLimit:     100,
			TieBreak:     "first_seen",
			BackfillSeed: 42,
		},
		Events: EventsConfig{
			Enabled:          false,
			URL:              "nats://127.0.0.1:4222",
			Embedded:         true,
			Host:             "127.0.0.1",
			Port:             4222,
			StoreDir:         "/data/nats/jetstream",
			MaxMemory:        256 << 20, // 256MB
			MaxStore:         1 << 30,   // 1GB
			StreamName:       "ESTATEWISE",
			PropertyTopic:    "property_updates",
			ModelTopic:       "model_retrain",
			PoisonTopic:      "dlq.estatewise",
			Retention:        7 * 24 * time.Hour,
			DurablePrefix:    "estatewise",
			QueueGroup:       "estatewise",
			SubscribersCount: 1,
			RetrainOnUpdate:  true,
			MaxRetries:       3,
			RetryInterval:    time.Second,
			DedupWindow:      10 * time.Minute,
		},
		Admin: AdminConfig{
			Token: "",
		},
	}
}

func joinHostPort(host string, port int) string {
	return net.JoinHostPort(host, strconv.Itoa(port))
}
