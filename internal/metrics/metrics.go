// Estatewise - Real Estate Property Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/estatewise

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Recommendation Metrics
	RecommendationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "estatewise_recommendations_total",
			Help: "Total number of recommendation requests by fallback stage",
		},
		[]string{"stage"}, // exact, location, sample, degenerate_*, empty, error
	)

	RecommendationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "estatewise_recommendation_duration_seconds",
			Help:    "Duration of recommendation requests in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		},
	)

	RecommendationResults = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "estatewise_recommendation_results",
			Help:    "Number of properties returned per recommendation request",
			Buckets: []float64{0, 1, 2, 5, 10, 20, 50, 100},
		},
	)

	// Model Lifecycle Metrics
	ModelRetrainsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "estatewise_model_retrains_total",
			Help: "Total number of retrain attempts by result",
		},
		[]string{"result"}, // trained, skipped, busy, failed
	)

	ModelRetrainDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "estatewise_model_retrain_duration_seconds",
			Help:    "Duration of successful model retrains in seconds",
			Buckets: []float64{.01, .05, .1, .5, 1, 5, 10, 30, 60, 300},
		},
	)

	ModelVersion = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "estatewise_model_version",
			Help: "Version of the served price model (0 when none is loaded)",
		},
	)

	ModelTrainingRows = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "estatewise_model_training_rows",
			Help: "Number of labeled rows the served model was trained on",
		},
	)

	// Catalog Metrics
	CatalogProperties = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "estatewise_catalog_properties",
			Help: "Current number of properties in the catalog",
		},
	)

	CatalogUpserts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "estatewise_catalog_upserts_total",
			Help: "Total number of properties written to the catalog",
		},
	)

	// Event Metrics
	EventsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "estatewise_events_processed_total",
			Help: "Total number of consumed events by topic and result",
		},
		[]string{"topic", "result"}, // result: success, failure, poison
	)

	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "estatewise_events_published_total",
			Help: "Total number of published events by topic and result",
		},
		[]string{"topic", "result"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "estatewise_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "estatewise_circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// API Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "estatewise_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "estatewise_api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "estatewise_api_active_requests",
			Help: "Current number of in-flight API requests",
		},
	)

	// System Metrics
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "estatewise_app_info",
			Help: "Application version and build information",
		},
		[]string{"version", "go_version"},
	)
)

// RecordRecommendation records a served recommendation request.
func RecordRecommendation(stage string, results int, duration time.Duration) {
	RecommendationsTotal.WithLabelValues(stage).Inc()
	RecommendationDuration.Observe(duration.Seconds())
	RecommendationResults.Observe(float64(results))
}

// RecordRecommendationError records a request that returned an error.
func RecordRecommendationError() {
	RecommendationsTotal.WithLabelValues("error").Inc()
}

// RecordRetrain records a retrain attempt. Duration and version are only
// observed for successful retrains.
func RecordRetrain(result string, duration time.Duration, version, rows int) {
	ModelRetrainsTotal.WithLabelValues(result).Inc()
	if result != "trained" {
		return
	}
	ModelRetrainDuration.Observe(duration.Seconds())
	ModelVersion.Set(float64(version))
	ModelTrainingRows.Set(float64(rows))
}

// SetModelLoaded publishes the version of a model restored at startup.
func SetModelLoaded(version, rows int) {
	ModelVersion.Set(float64(version))
	ModelTrainingRows.Set(float64(rows))
}

// SetCatalogSize sets the catalog gauge.
func SetCatalogSize(n int) {
	CatalogProperties.Set(float64(n))
}

// RecordCatalogUpsert counts properties written by a bulk update.
func RecordCatalogUpsert(n int) {
	CatalogUpserts.Add(float64(n))
}

// RecordEventProcessed records the outcome of handling a consumed event.
func RecordEventProcessed(topic string, err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	EventsProcessed.WithLabelValues(topic, result).Inc()
}

// RecordEventPoisoned records an event routed to the poison queue.
func RecordEventPoisoned(topic string) {
	EventsProcessed.WithLabelValues(topic, "poison").Inc()
}

// RecordEventPublished records a publish attempt.
func RecordEventPublished(topic string, err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	EventsPublished.WithLabelValues(topic, result).Inc()
}

// RecordCircuitBreakerTransition records a breaker state change.
func RecordCircuitBreakerTransition(name, from, to string, state float64) {
	CircuitBreakerTransitions.WithLabelValues(name, from, to).Inc()
	CircuitBreakerState.WithLabelValues(name).Set(state)
}

// RecordAPIRequest records an API request metric.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks in-flight API requests.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}
