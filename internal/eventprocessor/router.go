// Estatewise - Real Estate Property Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/estatewise

package eventprocessor

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"

	"github.com/tomtom215/estatewise/internal/metrics"
)

// Router wraps the Watermill router with the service middleware stack:
// poison queue, outcome metrics, retry with backoff and panic recovery.
type Router struct {
	router   *message.Router
	config   RouterConfig
	logger   watermill.LoggerAdapter
	running  atomic.Bool
	handlers map[string]*message.Handler

	received  atomic.Int64
	processed atomic.Int64
	poisoned  atomic.Int64
}

// RouterStats holds runtime counters.
type RouterStats struct {
	MessagesReceived  int64 `json:"messages_received"`
	MessagesProcessed int64 `json:"messages_processed"`
	MessagesPoisoned  int64 `json:"messages_poisoned"`
}

// NewRouter creates a router. When poisonPublisher is nil, messages that
// exhaust their retries are nacked instead of poisoned.
func NewRouter(cfg *RouterConfig, poisonPublisher message.Publisher, logger watermill.LoggerAdapter) (*Router, error) {
	if logger == nil {
		logger = watermill.NopLogger{}
	}
	if cfg == nil {
		defaultCfg := DefaultRouterConfig()
		cfg = &defaultCfg
	}

	wmRouter, err := message.NewRouter(message.RouterConfig{CloseTimeout: cfg.CloseTimeout}, logger)
	if err != nil {
		return nil, fmt.Errorf("create watermill router: %w", err)
	}

	r := &Router{
		router:   wmRouter,
		config:   *cfg,
		logger:   logger,
		handlers: make(map[string]*message.Handler),
	}

	// Middleware runs outermost first. The poison queue only sees errors
	// that survived every retry or were permanent, and Recoverer turns
	// panics into errors the retry can act on.
	if poisonPublisher != nil && cfg.PoisonQueueTopic != "" {
		poisonQueue, err := middleware.PoisonQueue(poisonPublisher, cfg.PoisonQueueTopic)
		if err != nil {
			return nil, fmt.Errorf("create poison queue middleware: %w", err)
		}
		wmRouter.AddMiddleware(poisonQueue)
	}

	wmRouter.AddMiddleware(r.outcomeMiddleware)

	if cfg.RetryMaxRetries > 0 {
		retry := middleware.Retry{
			MaxRetries:      cfg.RetryMaxRetries,
			InitialInterval: cfg.RetryInitialInterval,
			MaxInterval:     cfg.RetryMaxInterval,
			Multiplier:      cfg.RetryMultiplier,
			ShouldRetry: func(params middleware.RetryParams) bool {
				return !IsPermanentError(params.Err)
			},
			Logger: logger,
		}
		wmRouter.AddMiddleware(retry.Middleware)
	}

	wmRouter.AddMiddleware(middleware.Recoverer)

	return r, nil
}

// outcomeMiddleware records the final result of each message after retries.
func (r *Router) outcomeMiddleware(h message.HandlerFunc) message.HandlerFunc {
	return func(msg *message.Message) ([]*message.Message, error) {
		r.received.Add(1)
		topic := message.SubscribeTopicFromCtx(msg.Context())

		out, err := h(msg)
		metrics.RecordEventProcessed(topic, err)
		if err != nil {
			r.poisoned.Add(1)
			metrics.RecordEventPoisoned(topic)
			r.logger.Error("Message failed after retries", err, watermill.LogFields{
				"message_uuid": msg.UUID,
				"topic":        topic,
			})
			return out, err
		}
		r.processed.Add(1)
		return out, nil
	}
}

// AddConsumerHandler registers a handler that produces no messages.
func (r *Router) AddConsumerHandler(
	name string,
	subscribeTopic string,
	subscriber message.Subscriber,
	handler message.NoPublishHandlerFunc,
) *message.Handler {
	h := r.router.AddConsumerHandler(name, subscribeTopic, subscriber, handler)
	r.handlers[name] = h
	return h
}

// Run starts the router and blocks until ctx ends or Close is called.
func (r *Router) Run(ctx context.Context) error {
	r.running.Store(true)
	defer r.running.Store(false)
	return r.router.Run(ctx)
}

// Running returns a channel closed once the router is running.
func (r *Router) Running() <-chan struct{} {
	return r.router.Running()
}

// Close stops the router, waiting up to CloseTimeout for in-flight
// messages.
func (r *Router) Close() error {
	return r.router.Close()
}

// IsRunning reports whether the router is processing messages.
func (r *Router) IsRunning() bool {
	return r.running.Load()
}

// Stats returns current counters.
func (r *Router) Stats() RouterStats {
	return RouterStats{
		MessagesReceived:  r.received.Load(),
		MessagesProcessed: r.processed.Load(),
		MessagesPoisoned:  r.poisoned.Load(),
	}
}
