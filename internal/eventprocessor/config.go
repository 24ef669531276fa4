// Estatewise - Real Estate Property Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/estatewise

package eventprocessor

import (
	"fmt"
	"strings"
	"time"
)

// Config holds event processing configuration. The config package fills it
// from koanf.
type Config struct {
	// Enabled controls whether event processing is active.
	Enabled bool

	// URL is the NATS server connection URL. Ignored when Embedded is set.
	URL string

	// Embedded starts an in-process NATS JetStream server.
	Embedded bool

	// Host and Port are the embedded server listen address.
	Host string
	Port int

	// StoreDir is the JetStream storage directory.
	StoreDir string

	// MaxMemory and MaxStore bound JetStream usage in bytes.
	MaxMemory int64
	MaxStore  int64

	// StreamName is the JetStream stream holding every topic below.
	StreamName string

	// PropertyTopic carries PropertyUpdateEvent messages.
	PropertyTopic string

	// ModelTopic carries RetrainRequestEvent messages.
	ModelTopic string

	// PoisonTopic receives messages that failed after all retries.
	PoisonTopic string

	// Retention is how long the stream keeps messages.
	Retention time.Duration

	// DurablePrefix names the JetStream consumers, one per topic.
	DurablePrefix string

	// QueueGroup load-balances consumers across instances.
	QueueGroup string

	// SubscribersCount is the number of concurrent consumers per topic.
	SubscribersCount int

	// RetrainOnUpdate triggers a non-forced retrain after each property
	// update is applied.
	RetrainOnUpdate bool

	// MaxRetries is the router retry budget before poisoning a message.
	MaxRetries int

	// RetryInterval is the initial retry backoff.
	RetryInterval time.Duration

	// DedupWindow is how long handled event ids are remembered. Zero
	// disables deduplication.
	DedupWindow time.Duration
}

// DefaultConfig returns production defaults.
func DefaultConfig() Config {
	return Config{
		Enabled:          false,
		URL:              "nats://127.0.0.1:4222",
		Embedded:         true,
		Host:             "127.0.0.1",
		Port:             4222,
		StoreDir:         "/data/nats/jetstream",
		MaxMemory:        256 << 20, // 256MB
		MaxStore:         1 << 30,   // 1GB
		StreamName:       "ESTATEWISE",
		PropertyTopic:    "property_updates",
		ModelTopic:       "model_retrain",
		PoisonTopic:      "dlq.estatewise",
		Retention:        7 * 24 * time.Hour,
		DurablePrefix:    "estatewise",
		QueueGroup:       "estatewise",
		SubscribersCount: 1,
		RetrainOnUpdate:  true,
		MaxRetries:       3,
		RetryInterval:    time.Second,
		DedupWindow:      10 * time.Minute,
	}
}

// Validate checks the configuration. Disabled configurations are always
// valid.
func (c *Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	if !c.Embedded && c.URL == "" {
		return fmt.Errorf("%w: NATS URL is required when the embedded server is disabled", ErrInvalidConfig)
	}
	if c.Embedded && c.StoreDir == "" {
		return fmt.Errorf("%w: store directory is required for the embedded server", ErrInvalidConfig)
	}
	if c.StreamName == "" || strings.ContainsAny(c.StreamName, ". *>") {
		return fmt.Errorf("%w: stream name %q must be non-empty without '.', '*', '>' or spaces", ErrInvalidConfig, c.StreamName)
	}
	topics := map[string]string{
		"property topic": c.PropertyTopic,
		"model topic":    c.ModelTopic,
		"poison topic":   c.PoisonTopic,
	}
	seen := make(map[string]bool, len(topics))
	for name, topic := range topics {
		if topic == "" {
			return fmt.Errorf("%w: %s is required", ErrInvalidConfig, name)
		}
		if seen[topic] {
			return fmt.Errorf("%w: topic %q is used more than once", ErrInvalidConfig, topic)
		}
		seen[topic] = true
	}
	if c.SubscribersCount < 1 {
		return fmt.Errorf("%w: subscribers count must be at least 1", ErrInvalidConfig)
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("%w: max retries cannot be negative", ErrInvalidConfig)
	}
	if c.DedupWindow < 0 {
		return fmt.Errorf("%w: dedup window cannot be negative", ErrInvalidConfig)
	}
	return nil
}

// Subjects returns the subjects bound to the stream.
func (c *Config) Subjects() []string {
	return []string{c.PropertyTopic, c.ModelTopic, c.PoisonTopic}
}

// ServerConfig holds embedded NATS server configuration.
type ServerConfig struct {
	Host              string
	Port              int
	StoreDir          string
	JetStreamMaxMem   int64
	JetStreamMaxStore int64
}

// ServerConfig derives the embedded server settings.
func (c *Config) ServerConfig() ServerConfig {
	return ServerConfig{
		Host:              c.Host,
		Port:              c.Port,
		StoreDir:          c.StoreDir,
		JetStreamMaxMem:   c.MaxMemory,
		JetStreamMaxStore: c.MaxStore,
	}
}

// PublisherConfig holds publisher configuration.
type PublisherConfig struct {
	URL              string
	MaxReconnects    int
	ReconnectWait    time.Duration
	ReconnectBuffer  int
	EnableTrackMsgID bool //nolint:revive // matches the NATS header name
}

// DefaultPublisherConfig returns production defaults for a publisher.
func DefaultPublisherConfig(url string) PublisherConfig {
	return PublisherConfig{
		URL:              url,
		MaxReconnects:    -1,
		ReconnectWait:    2 * time.Second,
		ReconnectBuffer:  8 * 1024 * 1024,
		EnableTrackMsgID: true,
	}
}

// SubscriberConfig holds subscriber configuration for one topic.
type SubscriberConfig struct {
	URL              string
	StreamName       string
	DurableName      string
	QueueGroup       string
	SubscribersCount int
	AckWaitTimeout   time.Duration
	MaxDeliver       int
	MaxAckPending    int
	CloseTimeout     time.Duration
	MaxReconnects    int
	ReconnectWait    time.Duration
}

// SubscriberConfig derives the settings for a consumer of topic.
func (c *Config) SubscriberConfig(url, topic string) SubscriberConfig {
	return SubscriberConfig{
		URL:              url,
		StreamName:       c.StreamName,
		DurableName:      durableName(c.DurablePrefix, topic),
		QueueGroup:       c.QueueGroup,
		SubscribersCount: c.SubscribersCount,
		AckWaitTimeout:   30 * time.Second,
		MaxDeliver:       5,
		MaxAckPending:    256,
		CloseTimeout:     30 * time.Second,
		MaxReconnects:    -1,
		ReconnectWait:    2 * time.Second,
	}
}

// durableName builds a consumer name that is unique per topic. JetStream
// consumer names cannot contain '.', '*' or '>'.
func durableName(prefix, topic string) string {
	name := strings.NewReplacer(".", "_", "*", "_", ">", "_").Replace(topic)
	if prefix == "" {
		return name
	}
	return prefix + "-" + name
}

// StreamConfig defines the event stream.
type StreamConfig struct {
	Name            string
	Subjects        []string
	MaxAge          time.Duration
	MaxBytes        int64
	DuplicateWindow time.Duration
	Replicas        int
}

// StreamConfig derives the stream definition.
func (c *Config) StreamConfig() StreamConfig {
	return StreamConfig{
		Name:            c.StreamName,
		Subjects:        c.Subjects(),
		MaxAge:          c.Retention,
		MaxBytes:        c.MaxStore,
		DuplicateWindow: 2 * time.Minute,
		Replicas:        1,
	}
}

// RouterConfig holds configuration for the Watermill router.
type RouterConfig struct {
	CloseTimeout time.Duration

	RetryMaxRetries      int
	RetryInitialInterval time.Duration
	RetryMaxInterval     time.Duration
	RetryMultiplier      float64

	PoisonQueueTopic string
}

// DefaultRouterConfig returns production defaults for the router.
func DefaultRouterConfig() RouterConfig {
	return RouterConfig{
		CloseTimeout:         30 * time.Second,
		RetryMaxRetries:      3,
		RetryInitialInterval: time.Second,
		RetryMaxInterval:     30 * time.Second,
		RetryMultiplier:      2.0,
		PoisonQueueTopic:     "dlq.estatewise",
	}
}

// RouterConfig derives the router settings.
func (c *Config) RouterConfig() RouterConfig {
	rc := DefaultRouterConfig()
	rc.RetryMaxRetries = c.MaxRetries
	if c.RetryInterval > 0 {
		rc.RetryInitialInterval = c.RetryInterval
	}
	rc.PoisonQueueTopic = c.PoisonTopic
	return rc
}

// CircuitBreakerConfig holds circuit breaker settings.
type CircuitBreakerConfig struct {
	Name             string
	MaxRequests      uint32        // allowed in half-open state
	Interval         time.Duration // reset interval for counts
	Timeout          time.Duration // time to stay open
	FailureThreshold uint32        // consecutive failures before opening
}

// DefaultCircuitBreakerConfig returns production defaults.
func DefaultCircuitBreakerConfig(name string) CircuitBreakerConfig {
	return CircuitBreakerConfig{
		Name:             name,
		MaxRequests:      3,
		Interval:         30 * time.Second,
		Timeout:          10 * time.Second,
		FailureThreshold: 5,
	}
}
