// Estatewise - Real Estate Property Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/estatewise

/*
Package config loads service configuration with koanf.

Sources, in increasing priority:

 1. Built-in defaults (structs provider)
 2. YAML file from CONFIG_PATH, ./config.yaml or /etc/estatewise/config.yaml
 3. Environment variables

Only mapped environment variables are read; see envMappings. The commonly
used ones:

	PROPERTY_DATA_PATH     seed file imported into an empty catalog
	PROPERTY_DATA_FORMAT   properties | listings
	CATALOG_PATH           Badger directory
	MODEL_PATH             artifact directory
	ADMIN_TOKEN            retrain endpoint token (empty disables it)
	KAFKA_PROPERTY_TOPIC   property update topic
	KAFKA_MODEL_TOPIC      retrain request topic
	NATS_ENABLED           enable event processing
	NATS_URL               external NATS server
	NATS_EMBEDDED          run an in-process JetStream server
	HTTP_PORT              listen port
	LOG_LEVEL, LOG_FORMAT  logging
	RETRAIN_INTERVAL       scheduled retrain period (0 disables)
	RETRAIN_ON_STARTUP     retrain once after startup

Example YAML:

	server:
	  port: 8080
	catalog:
	  seed_path: data/listings.json
	  seed_format: listings
	events:
	  enabled: true
	  embedded: true
*/
package config
