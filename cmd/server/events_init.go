// Estatewise - Real Estate Property Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/estatewise

package main

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	natsgo "github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/rs/zerolog"

	"github.com/tomtom215/estatewise/internal/config"
	"github.com/tomtom215/estatewise/internal/eventprocessor"
	"github.com/tomtom215/estatewise/internal/logging"
)

const embeddedServerReadyTimeout = 10 * time.Second

// EventComponents holds the event pipeline for lifecycle management.
type EventComponents struct {
	server    *eventprocessor.EmbeddedServer
	natsConn  *natsgo.Conn
	publisher *eventprocessor.Publisher
	notifier  *eventprocessor.Notifier

	router             *eventprocessor.Router
	handlers           *eventprocessor.Handlers
	propertySubscriber message.Subscriber
	modelSubscriber    message.Subscriber

	logger zerolog.Logger

	mu      sync.Mutex
	running bool
}

// eventsConfig converts the koanf section into the event pipeline config.
func eventsConfig(cfg *config.Config) eventprocessor.Config {
	e := cfg.Events
	return eventprocessor.Config{
		Enabled:          e.Enabled,
		URL:              e.URL,
		Embedded:         e.Embedded,
		Host:             e.Host,
		Port:             e.Port,
		StoreDir:         e.StoreDir,
		MaxMemory:        e.MaxMemory,
		MaxStore:         e.MaxStore,
		StreamName:       e.StreamName,
		PropertyTopic:    e.PropertyTopic,
		ModelTopic:       e.ModelTopic,
		PoisonTopic:      e.PoisonTopic,
		Retention:        e.Retention,
		DurablePrefix:    e.DurablePrefix,
		QueueGroup:       e.QueueGroup,
		SubscribersCount: e.SubscribersCount,
		RetrainOnUpdate:  e.RetrainOnUpdate,
		MaxRetries:       e.MaxRetries,
		RetryInterval:    e.RetryInterval,
		DedupWindow:      e.DedupWindow,
	}
}

// initEvents builds the event pipeline when NATS_ENABLED=true. It returns
// nil components when events are disabled.
//
// Order: embedded server, connection, stream, publisher with breaker,
// subscribers, router and handlers. Any failure tears down what was
// already built.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func initEvents(ctx context.Context, cfg *config.Config, writer eventprocessor.PropertyWriter, retrainer eventprocessor.Retrainer, logger zerolog.Logger) (*EventComponents, error) {
	evCfg := eventsConfig(cfg)
	if !evCfg.Enabled {
		logger.Info().Msg("Event processing disabled (NATS_ENABLED=false)")
		return nil, nil
	}
	if err := evCfg.Validate(); err != nil {
		return nil, err
	}

	c := &EventComponents{logger: logger}
	wmLogger := newWatermillLogger(logger)

	natsURL := evCfg.URL
	if evCfg.Embedded {
		serverCfg := evCfg.ServerConfig()
		srv, err := eventprocessor.NewEmbeddedServer(&serverCfg, embeddedServerReadyTimeout)
		if err != nil {
			return nil, err
		}
		c.server = srv
		natsURL = srv.ClientURL()
		logger.Info().Str("url", natsURL).Msg("Embedded NATS server started")
	} else {
		logger.Info().Str("url", natsURL).Msg("Using external NATS server")
	}

	nc, err := natsgo.Connect(natsURL,
		natsgo.RetryOnFailedConnect(true),
		natsgo.MaxReconnects(-1),
		natsgo.ReconnectWait(2*time.Second),
	)
	if err != nil {
		c.teardown(ctx)
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}
	c.natsConn = nc

	js, err := jetstream.New(nc)
	if err != nil {
		c.teardown(ctx)
		return nil, fmt.Errorf("create JetStream context: %w", err)
	}

	streamCfg := evCfg.StreamConfig()
	streams, err := eventprocessor.NewStreamInitializer(js, &streamCfg)
	if err != nil {
		c.teardown(ctx)
		return nil, err
	}
	if _, err := streams.EnsureStream(ctx); err != nil {
		c.teardown(ctx)
		return nil, fmt.Errorf("ensure stream: %w", err)
	}

	publisher, err := eventprocessor.NewPublisher(eventprocessor.DefaultPublisherConfig(natsURL), wmLogger)
	if err != nil {
		c.teardown(ctx)
		return nil, err
	}
	publisher.SetCircuitBreaker(eventprocessor.NewCircuitBreaker(
		eventprocessor.DefaultCircuitBreakerConfig("event-publisher"), logger))
	c.publisher = publisher

	notifier, err := eventprocessor.NewNotifier(publisher, evCfg.PropertyTopic, evCfg.ModelTopic)
	if err != nil {
		c.teardown(ctx)
		return nil, err
	}
	c.notifier = notifier

	propertySubCfg := evCfg.SubscriberConfig(natsURL, evCfg.PropertyTopic)
	if c.propertySubscriber, err = eventprocessor.NewSubscriber(&propertySubCfg, wmLogger); err != nil {
		c.teardown(ctx)
		return nil, fmt.Errorf("create property subscriber: %w", err)
	}
	modelSubCfg := evCfg.SubscriberConfig(natsURL, evCfg.ModelTopic)
	if c.modelSubscriber, err = eventprocessor.NewSubscriber(&modelSubCfg, wmLogger); err != nil {
		c.teardown(ctx)
		return nil, fmt.Errorf("create model subscriber: %w", err)
	}

	routerCfg := evCfg.RouterConfig()
	router, err := eventprocessor.NewRouter(&routerCfg, publisher.WatermillPublisher(), wmLogger)
	if err != nil {
		c.teardown(ctx)
		return nil, err
	}
	c.router = router

	c.handlers = eventprocessor.NewHandlers(writer, retrainer, evCfg.RetrainOnUpdate, logger)
	if evCfg.DedupWindow > 0 {
		c.handlers.SetDeduplicator(eventprocessor.NewInMemoryDeduplicator(evCfg.DedupWindow))
	}
	c.handlers.Register(router, &evCfg, c.propertySubscriber, c.modelSubscriber)

	logger.Info().
		Str("stream", evCfg.StreamName).
		Strs("subjects", evCfg.Subjects()).
		Bool("retrain_on_update", evCfg.RetrainOnUpdate).
		Msg("Event processing initialized")
	return c, nil
}

// Notifier returns the publisher-side notifier, or nil when events are
// disabled.
func (c *EventComponents) Notifier() *eventprocessor.Notifier {
	if c == nil {
		return nil
	}
	return c.notifier
}

// Start runs the router and returns once it is accepting messages.
func (c *EventComponents) Start(ctx context.Context) error {
	if c == nil {
		return nil
	}

	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return nil
	}
	c.running = true
	c.mu.Unlock()

	errCh := make(chan error, 1)
	go func() {
		errCh <- c.router.Run(ctx)
	}()

	select {
	case <-c.router.Running():
		c.logger.Info().Msg("Event router started")
		return nil
	case err := <-errCh:
		c.setRunning(false)
		if err == nil {
			err = ctx.Err()
		}
		return fmt.Errorf("run event router: %w", err)
	case <-ctx.Done():
		c.setRunning(false)
		return fmt.Errorf("context canceled while starting router: %w", ctx.Err())
	}
}

// Shutdown stops the router, then closes subscribers, publisher,
// connection and the embedded server in that order.
func (c *EventComponents) Shutdown(ctx context.Context) {
	if c == nil {
		return
	}

	c.mu.Lock()
	if !c.running {
		c.mu.Unlock()
		return
	}
	c.running = false
	c.mu.Unlock()

	c.logger.Info().Msg("Shutting down event processing")
	c.teardown(ctx)
	c.logger.Info().Msg("Event processing shutdown complete")
}

// IsRunning reports whether Start succeeded and Shutdown has not run.
func (c *EventComponents) IsRunning() bool {
	if c == nil {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

func (c *EventComponents) setRunning(v bool) {
	c.mu.Lock()
	c.running = v
	c.mu.Unlock()
}

// teardown releases every component that was created. Nil fields are
// skipped so it also serves as the cleanup for a partial init.
func (c *EventComponents) teardown(ctx context.Context) {
	if c.router != nil {
		if err := c.router.Close(); err != nil {
			c.logger.Error().Err(err).Msg("Error closing event router")
		}
	}
	for name, sub := range map[string]message.Subscriber{
		"property": c.propertySubscriber,
		"model":    c.modelSubscriber,
	} {
		if sub == nil {
			continue
		}
		if err := sub.Close(); err != nil {
			c.logger.Error().Err(err).Str("subscriber", name).Msg("Error closing subscriber")
		}
	}
	if c.publisher != nil {
		if err := c.publisher.Close(); err != nil {
			c.logger.Error().Err(err).Msg("Error closing publisher")
		}
	}
	if c.natsConn != nil {
		c.natsConn.Close()
	}
	if c.server != nil {
		if err := c.server.Shutdown(ctx); err != nil {
			c.logger.Error().Err(err).Msg("Error shutting down embedded NATS server")
		}
	}
}

//nolint:gocritic // logger passed by value is acceptable for zerolog
func newWatermillLogger(logger zerolog.Logger) watermill.LoggerAdapter {
	return logging.NewWatermillAdapter(logger.With().Str("component", "watermill").Logger())
}
