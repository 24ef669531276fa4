// Estatewise - Real Estate Property Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/estatewise

package eventprocessor

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/rs/zerolog"

	"github.com/tomtom215/estatewise/internal/catalog"
	"github.com/tomtom215/estatewise/internal/recommend"
)

// PropertyWriter applies property updates. *catalog.Store implements it.
type PropertyWriter interface {
	BulkUpsert(ctx context.Context, props []recommend.Property) (int, error)
}

// Retrainer retrains the model from the current catalog.
// *recommend.Engine implements it.
type Retrainer interface {
	Retrain(ctx context.Context, force bool) (recommend.RetrainResult, error)
}

// Handlers consumes property update and retrain request events.
type Handlers struct {
	writer          PropertyWriter
	retrainer       Retrainer
	retrainOnUpdate bool
	dedup           *InMemoryDeduplicator
	logger          zerolog.Logger

	updatesApplied    atomic.Int64
	propertiesApplied atomic.Int64
	retrainsTriggered atomic.Int64
	duplicates        atomic.Int64
}

// HandlerStats holds handler counters.
type HandlerStats struct {
	UpdatesApplied    int64 `json:"updates_applied"`
	PropertiesApplied int64 `json:"properties_applied"`
	RetrainsTriggered int64 `json:"retrains_triggered"`
	Duplicates        int64 `json:"duplicates"`
}

// NewHandlers creates the event handlers.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewHandlers(writer PropertyWriter, retrainer Retrainer, retrainOnUpdate bool, logger zerolog.Logger) *Handlers {
	return &Handlers{
		writer:          writer,
		retrainer:       retrainer,
		retrainOnUpdate: retrainOnUpdate,
		logger:          logger.With().Str("component", "event-handlers").Logger(),
	}
}

// SetDeduplicator enables dropping events whose id was already handled.
func (h *Handlers) SetDeduplicator(d *InMemoryDeduplicator) {
	h.dedup = d
}

// duplicate reports whether eventID was already handled.
func (h *Handlers) duplicate(ctx context.Context, eventID, kind string) bool {
	if h.dedup == nil {
		return false
	}
	dup, err := h.dedup.IsDuplicate(ctx, eventID)
	if err != nil || !dup {
		return false
	}
	h.duplicates.Add(1)
	h.logger.Debug().Str("event_id", eventID).Str("kind", kind).Msg("Dropping duplicate event")
	return true
}

// HandlePropertyUpdate applies a PropertyUpdateEvent to the catalog and,
// when configured, asks for a non-forced retrain. Malformed payloads and
// invalid properties are permanent errors and are poisoned without retries.
func (h *Handlers) HandlePropertyUpdate(msg *message.Message) error {
	event, err := DecodePropertyUpdate(msg.Payload)
	if err != nil {
		h.logger.Warn().Err(err).Str("message_uuid", msg.UUID).Msg("Rejecting property update")
		return err
	}

	ctx := msg.Context()
	if h.duplicate(ctx, event.EventID, "property_update") {
		return nil
	}
	n, err := h.writer.BulkUpsert(ctx, event.Properties)
	if err != nil {
		if h.dedup != nil {
			h.dedup.Forget(event.EventID)
		}
		if errors.Is(err, catalog.ErrInvalidPropertyData) {
			h.logger.Warn().Err(err).Str("event_id", event.EventID).Msg("Rejecting invalid properties")
			return NewPermanentError("property update rejected", err)
		}
		return err
	}
	h.updatesApplied.Add(1)
	h.propertiesApplied.Add(int64(n))

	h.logger.Info().
		Str("event_id", event.EventID).
		Str("source", event.Source).
		Int("properties", n).
		Msg("Property update applied")

	if h.retrainOnUpdate && h.retrainer != nil {
		h.retrain(ctx, false, event.EventID)
	}
	return nil
}

// HandleRetrainRequest runs the requested retrain. Skips, busy rejections
// and training failures are logged rather than retried: the lifecycle
// already keeps the served model intact.
func (h *Handlers) HandleRetrainRequest(msg *message.Message) error {
	event, err := DecodeRetrainRequest(msg.Payload)
	if err != nil {
		h.logger.Warn().Err(err).Str("message_uuid", msg.UUID).Msg("Rejecting retrain request")
		return err
	}
	if h.retrainer == nil || h.duplicate(msg.Context(), event.EventID, "retrain_request") {
		return nil
	}

	h.logger.Info().
		Str("event_id", event.EventID).
		Str("requested_by", event.RequestedBy).
		Bool("force", event.Force).
		Msg("Retrain requested")
	h.retrain(msg.Context(), event.Force, event.EventID)
	return nil
}

func (h *Handlers) retrain(ctx context.Context, force bool, eventID string) {
	h.retrainsTriggered.Add(1)
	result, err := h.retrainer.Retrain(ctx, force)
	switch {
	case err == nil:
		h.logger.Info().Str("event_id", eventID).Int("version", result.Version).Msg("Retrain completed")
	case errors.Is(err, recommend.ErrRetrainSkipped), recommend.IsBusy(err):
		h.logger.Debug().Str("event_id", eventID).Str("outcome", string(result.Outcome)).Msg("Retrain not run")
	default:
		h.logger.Error().Err(err).Str("event_id", eventID).Msg("Retrain failed")
	}
}

// Stats returns handler counters.
func (h *Handlers) Stats() HandlerStats {
	return HandlerStats{
		UpdatesApplied:    h.updatesApplied.Load(),
		PropertiesApplied: h.propertiesApplied.Load(),
		RetrainsTriggered: h.retrainsTriggered.Load(),
		Duplicates:        h.duplicates.Load(),
	}
}

// Register adds both handlers to router. Each topic may use its own
// subscriber; pass the same one twice when a single subscriber serves both.
func (h *Handlers) Register(router *Router, cfg *Config, propertySub, modelSub message.Subscriber) {
	router.AddConsumerHandler("property-updates", cfg.PropertyTopic, propertySub, h.HandlePropertyUpdate)
	router.AddConsumerHandler("model-retrain", cfg.ModelTopic, modelSub, h.HandleRetrainRequest)
}
