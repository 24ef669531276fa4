// Estatewise - Real Estate Property Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/estatewise

// Package eventprocessor moves catalog and model events over Watermill and
// NATS JetStream.
//
// # Topics
//
//   - property_updates: PropertyUpdateEvent, applied to the catalog and
//     optionally followed by a non-forced retrain
//   - model_retrain: RetrainRequestEvent, runs a retrain
//   - dlq.estatewise: messages that failed after every retry
//
// All three subjects live in one JetStream stream created by
// StreamInitializer. Subscribers bind to it with one durable consumer per
// topic.
//
// # Router Middleware
//
// From outermost to innermost: PoisonQueue, outcome metrics, Retry with
// exponential backoff, Recoverer. Payloads that do not decode wrap
// ErrMalformedEvent and invalid properties return a PermanentError. Both
// skip the retries and are poisoned on the first failure.
//
// # Publishing
//
// Publisher sets Nats-Msg-Id from the message UUID for JetStream
// deduplication and runs every publish through a gobreaker circuit
// breaker. Notifier binds the publisher to the configured topics.
//
// Tests run the full router over the in-memory gochannel pub/sub.
package eventprocessor
