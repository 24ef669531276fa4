// Estatewise - Real Estate Property Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/estatewise

package services

import (
	"context"
	"fmt"
	"time"
)

// EventComponentsRunner is the lifecycle of the event components built in
// cmd/server.
type EventComponentsRunner interface {
	Start(ctx context.Context) error
	Shutdown(ctx context.Context)
	IsRunning() bool
}

// EventComponentsService adapts Start/Shutdown to suture's Serve.
type EventComponentsService struct {
	components      EventComponentsRunner
	shutdownTimeout time.Duration
}

// NewEventComponentsService wraps components. A non-positive timeout means
// 10s.
func NewEventComponentsService(components EventComponentsRunner, shutdownTimeout time.Duration) *EventComponentsService {
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}
	return &EventComponentsService{components: components, shutdownTimeout: shutdownTimeout}
}

// Serve implements suture.Service. A failed Start is returned so suture
// restarts the service with backoff.
func (s *EventComponentsService) Serve(ctx context.Context) error {
	if err := s.components.Start(ctx); err != nil {
		return fmt.Errorf("event components start failed: %w", err)
	}

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	s.components.Shutdown(shutdownCtx)

	return ctx.Err()
}

func (s *EventComponentsService) String() string {
	return "event-components"
}
