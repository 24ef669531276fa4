// Estatewise - Real Estate Property Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/estatewise

package eventprocessor

import (
	"context"
	"time"

	"github.com/tomtom215/estatewise/internal/cache"
)

// dedupCapacity bounds the number of remembered event ids.
const dedupCapacity = 10000

// InMemoryDeduplicator remembers recently handled event ids so JetStream
// redeliveries are acknowledged without being applied twice. Ids are not
// shared across instances.
type InMemoryDeduplicator struct {
	seen *cache.LRU
}

// NewInMemoryDeduplicator remembers each id for window.
func NewInMemoryDeduplicator(window time.Duration) *InMemoryDeduplicator {
	return &InMemoryDeduplicator{seen: cache.NewLRU(dedupCapacity, window)}
}

// IsDuplicate reports whether key was handled within the window and
// records it otherwise.
func (d *InMemoryDeduplicator) IsDuplicate(_ context.Context, key string) (bool, error) {
	return d.seen.Seen(key), nil
}

// Forget drops key so a failed event is applied again on redelivery.
func (d *InMemoryDeduplicator) Forget(key string) {
	d.seen.Remove(key)
}
