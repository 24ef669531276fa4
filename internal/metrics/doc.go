// Estatewise - Real Estate Property Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/estatewise

// Package metrics defines the Prometheus collectors exported on /metrics.
//
// Collectors are registered with promauto on the default registry at
// package init. Callers use the Record* and Set* helpers instead of
// touching collectors directly, so label values stay consistent.
//
// # Collectors
//
// Recommendations:
//   - estatewise_recommendations_total{stage}
//   - estatewise_recommendation_duration_seconds
//   - estatewise_recommendation_results
//
// Model lifecycle:
//   - estatewise_model_retrains_total{result}
//   - estatewise_model_retrain_duration_seconds
//   - estatewise_model_version
//   - estatewise_model_training_rows
//
// Catalog:
//   - estatewise_catalog_properties
//   - estatewise_catalog_upserts_total
//
// Events and messaging:
//   - estatewise_events_processed_total{topic,result}
//   - estatewise_events_published_total{topic,result}
//   - estatewise_circuit_breaker_state{name}
//   - estatewise_circuit_breaker_state_transitions_total{name,from_state,to_state}
//
// HTTP:
//   - estatewise_api_requests_total{method,endpoint,status_code}
//   - estatewise_api_request_duration_seconds{method,endpoint}
//   - estatewise_api_active_requests
package metrics
