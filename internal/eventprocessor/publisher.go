// Estatewise - Real Estate Property Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/estatewise

package eventprocessor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	wmNats "github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	natsgo "github.com/nats-io/nats.go"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/estatewise/internal/metrics"
	"github.com/tomtom215/estatewise/internal/recommend"
)

// Publisher wraps a Watermill publisher with a circuit breaker.
type Publisher struct {
	publisher      message.Publisher
	circuitBreaker *gobreaker.CircuitBreaker[interface{}]
	mu             sync.RWMutex
	closed         bool
	logger         watermill.LoggerAdapter
}

// NewPublisher creates a JetStream publisher. The stream must already
// exist; see StreamInitializer.
func NewPublisher(cfg PublisherConfig, logger watermill.LoggerAdapter) (*Publisher, error) {
	if logger == nil {
		logger = watermill.NopLogger{}
	}

	natsOpts := []natsgo.Option{
		natsgo.RetryOnFailedConnect(true),
		natsgo.MaxReconnects(cfg.MaxReconnects),
		natsgo.ReconnectWait(cfg.ReconnectWait),
		natsgo.ReconnectBufSize(cfg.ReconnectBuffer),
		natsgo.DisconnectErrHandler(func(_ *natsgo.Conn, err error) {
			if err != nil {
				logger.Error("NATS disconnected", err, nil)
			}
		}),
		natsgo.ReconnectHandler(func(nc *natsgo.Conn) {
			logger.Info("NATS reconnected", watermill.LogFields{"url": nc.ConnectedUrl()})
		}),
	}

	wmConfig := wmNats.PublisherConfig{
		URL:         cfg.URL,
		NatsOptions: natsOpts,
		Marshaler:   &wmNats.NATSMarshaler{},
		JetStream: wmNats.JetStreamConfig{
			Disabled:      false,
			AutoProvision: false,
			TrackMsgId:    cfg.EnableTrackMsgID,
			PublishOptions: []natsgo.PubOpt{
				natsgo.RetryAttempts(3),
				natsgo.RetryWait(100 * time.Millisecond),
			},
		},
	}

	pub, err := wmNats.NewPublisher(wmConfig, logger)
	if err != nil {
		return nil, fmt.Errorf("create watermill publisher: %w", err)
	}
	return &Publisher{publisher: pub, logger: logger}, nil
}

// WrapPublisher wraps an existing Watermill publisher, such as the
// in-memory gochannel pub/sub.
func WrapPublisher(pub message.Publisher, logger watermill.LoggerAdapter) (*Publisher, error) {
	if pub == nil {
		return nil, ErrNilPublisher
	}
	if logger == nil {
		logger = watermill.NopLogger{}
	}
	return &Publisher{publisher: pub, logger: logger}, nil
}

// SetCircuitBreaker configures the circuit breaker for publish operations.
func (p *Publisher) SetCircuitBreaker(cb *gobreaker.CircuitBreaker[interface{}]) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.circuitBreaker = cb
}

// Publish sends msg to topic. The message UUID doubles as the Nats-Msg-Id
// so JetStream drops duplicates inside the stream's window.
func (p *Publisher) Publish(ctx context.Context, topic string, msg *message.Message) error {
	p.mu.RLock()
	closed, cb := p.closed, p.circuitBreaker
	p.mu.RUnlock()
	if closed {
		return ErrPublisherClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if msg.Metadata.Get(natsgo.MsgIdHdr) == "" {
		msg.Metadata.Set(natsgo.MsgIdHdr, msg.UUID)
	}
	msg.SetContext(ctx)

	var err error
	if cb != nil {
		_, err = cb.Execute(func() (interface{}, error) {
			return nil, p.publisher.Publish(topic, msg)
		})
	} else {
		err = p.publisher.Publish(topic, msg)
	}

	metrics.RecordEventPublished(topic, err)
	if err != nil {
		return fmt.Errorf("publish to %s: %w", topic, err)
	}
	return nil
}

// PublishEvent encodes event and publishes it under id.
func (p *Publisher) PublishEvent(ctx context.Context, topic, id string, event interface{}) error {
	data, err := Encode(event)
	if err != nil {
		return err
	}
	msg := message.NewMessage(id, data)
	msg.Metadata.Set("content_type", "application/json")
	return p.Publish(ctx, topic, msg)
}

// Close shuts down the publisher. Calling it twice is a no-op.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true
	return p.publisher.Close()
}

// WatermillPublisher returns the underlying publisher for components that
// need the native interface, such as the poison queue middleware.
func (p *Publisher) WatermillPublisher() message.Publisher {
	return p.publisher
}

// Notifier publishes domain events to their configured topics.
type Notifier struct {
	publisher     *Publisher
	propertyTopic string
	modelTopic    string
}

// NewNotifier creates a notifier over publisher.
func NewNotifier(publisher *Publisher, propertyTopic, modelTopic string) (*Notifier, error) {
	if publisher == nil {
		return nil, ErrNilPublisher
	}
	return &Notifier{publisher: publisher, propertyTopic: propertyTopic, modelTopic: modelTopic}, nil
}

// PropertiesUpdated publishes a PropertyUpdateEvent.
func (n *Notifier) PropertiesUpdated(ctx context.Context, props []recommend.Property, source string) error {
	event := NewPropertyUpdateEvent(props, source)
	return n.publisher.PublishEvent(ctx, n.propertyTopic, event.EventID, event)
}

// RetrainRequested publishes a RetrainRequestEvent.
func (n *Notifier) RetrainRequested(ctx context.Context, force bool, requestedBy string) error {
	event := NewRetrainRequestEvent(force, requestedBy)
	return n.publisher.PublishEvent(ctx, n.modelTopic, event.EventID, event)
}
