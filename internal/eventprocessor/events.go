// Estatewise - Real Estate Property Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/estatewise

package eventprocessor

import (
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/tomtom215/estatewise/internal/recommend"
	"github.com/tomtom215/estatewise/internal/validation"
)

// PropertyUpdateEvent carries new or changed properties.
type PropertyUpdateEvent struct {
	EventID    string               `json:"event_id" validate:"required"`
	Properties []recommend.Property `json:"properties" validate:"required,min=1,dive"`
	OccurredAt time.Time            `json:"occurred_at"`
	Source     string               `json:"source,omitempty"`
}

// RetrainRequestEvent asks the service to retrain the price model.
type RetrainRequestEvent struct {
	EventID     string    `json:"event_id" validate:"required"`
	Force       bool      `json:"force"`
	RequestedBy string    `json:"requested_by,omitempty" validate:"max=128"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// NewPropertyUpdateEvent creates an event with a fresh id.
func NewPropertyUpdateEvent(props []recommend.Property, source string) *PropertyUpdateEvent {
	cleaned := make([]recommend.Property, len(props))
	for i := range props {
		cleaned[i] = props[i].WithoutPrediction()
	}
	return &PropertyUpdateEvent{
		EventID:    uuid.NewString(),
		Properties: cleaned,
		OccurredAt: time.Now().UTC(),
		Source:     source,
	}
}

// NewRetrainRequestEvent creates an event with a fresh id.
func NewRetrainRequestEvent(force bool, requestedBy string) *RetrainRequestEvent {
	return &RetrainRequestEvent{
		EventID:     uuid.NewString(),
		Force:       force,
		RequestedBy: requestedBy,
		OccurredAt:  time.Now().UTC(),
	}
}

// Encode validates and marshals an event.
func Encode(event interface{}) ([]byte, error) {
	if verr := validation.ValidateStruct(event); verr != nil {
		return nil, fmt.Errorf("validate event: %w", verr)
	}
	data, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("marshal event: %w", err)
	}
	return data, nil
}

// DecodePropertyUpdate parses and validates a property update payload.
// Every failure wraps ErrMalformedEvent.
func DecodePropertyUpdate(data []byte) (*PropertyUpdateEvent, error) {
	var event PropertyUpdateEvent
	if err := decode(data, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

// DecodeRetrainRequest parses and validates a retrain request payload.
// Every failure wraps ErrMalformedEvent.
func DecodeRetrainRequest(data []byte) (*RetrainRequestEvent, error) {
	var event RetrainRequestEvent
	if err := decode(data, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

func decode(data []byte, target interface{}) error {
	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedEvent, err)
	}
	if verr := validation.ValidateStruct(target); verr != nil {
		return fmt.Errorf("%w: %w", ErrMalformedEvent, verr)
	}
	return nil
}
