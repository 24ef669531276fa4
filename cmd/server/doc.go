// Estatewise - Real Estate Property Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/estatewise

/*
Package main is the entry point for the Estatewise server.

Estatewise recommends real estate listings. Each request derives a
preference profile from the user's favorites and viewed properties,
filters the catalog through a cascade of progressively relaxed stages and
annotates the results with prices predicted by a random forest trained on
the catalog's labeled listings.

# Application Architecture

Services run under a Suture v4 tree:

	RootSupervisor ("estatewise")
	├── ModelSupervisor ("model-layer")
	│   └── Retrain scheduler (startup and interval retrains)
	├── MessagingSupervisor ("messaging-layer")
	│   └── Event components (optional, NATS_ENABLED=true)
	└── APISupervisor ("api-layer")
	    └── HTTP server

Initialization order:

 1. Configuration: Koanf v2 with defaults, config.yaml and environment
 2. Logging: zerolog with JSON or console output
 3. Catalog: BadgerDB property store, seeded from PROPERTY_DATA_PATH when empty
 4. Model: newest artifact set loaded from MODEL_PATH, engine built over the catalog
 5. Events: embedded or external NATS JetStream, Watermill router and handlers
 6. HTTP: Chi router with request ID, logging, CORS and rate limiting
 7. Supervisor tree

# Configuration

Priority: environment variables > config file > defaults.

	HTTP_PORT=8080
	LOG_LEVEL=info               # trace, debug, info, warn, error
	LOG_FORMAT=json              # json or console
	CATALOG_PATH=/data/catalog
	PROPERTY_DATA_PATH=data/properties.json
	PROPERTY_DATA_FORMAT=properties   # properties or listings
	MODEL_PATH=/data/models
	RETRAIN_INTERVAL=1h          # 0 disables scheduled retrains
	ADMIN_TOKEN=<secret>         # empty disables POST /api/v1/admin/model/retrain

	NATS_ENABLED=false
	NATS_EMBEDDED=true
	KAFKA_PROPERTY_TOPIC=property_updates
	KAFKA_MODEL_TOPIC=model_retrain
	RETRAIN_ON_UPDATE=true

# Signal Handling

SIGINT and SIGTERM cancel the root context. The HTTP server drains within
HTTP_SHUTDOWN_TIMEOUT, the event router stops before its subscribers,
publisher, connection and embedded server, and background retrains
finish before the catalog closes.

# See Also

  - internal/config: configuration loading and validation
  - internal/recommend: filtering cascade, forest and model lifecycle
  - internal/catalog: property storage and seed import
  - internal/eventprocessor: NATS JetStream event pipeline
  - internal/api: HTTP handlers and routing
*/
package main
