// Estatewise - Real Estate Property Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/estatewise

// Package cache provides bounded in-memory structures shared by the
// service. Today that is an expiring LRU set of keys, used to drop
// redelivered events.
package cache

import (
	"container/list"
	"sync"
	"time"
)

const (
	defaultCapacity = 10000
	defaultTTL      = 10 * time.Minute
)

type entry struct {
	key       string
	expiresAt time.Time
}

// LRU is a thread-safe set of keys with per-key expiry. When full, the
// least recently touched key is evicted.
type LRU struct {
	mu       sync.Mutex
	capacity int
	ttl      time.Duration
	order    *list.List // front is most recently used
	items    map[string]*list.Element
	now      func() time.Time

	hits   int64
	misses int64
}

// NewLRU creates a set holding at most capacity keys for ttl each.
// Non-positive values fall back to 10000 keys and ten minutes.
func NewLRU(capacity int, ttl time.Duration) *LRU {
	if capacity <= 0 {
		capacity = defaultCapacity
	}
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &LRU{
		capacity: capacity,
		ttl:      ttl,
		order:    list.New(),
		items:    make(map[string]*list.Element),
		now:      time.Now,
	}
}

// Seen reports whether key was recorded within the TTL. Unseen or expired
// keys are recorded and false is returned, so the first caller wins.
func (c *LRU) Seen(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if el, ok := c.items[key]; ok {
		e := el.Value.(*entry) //nolint:errcheck,forcetypeassert // only *entry is stored
		if now.Before(e.expiresAt) {
			c.order.MoveToFront(el)
			c.hits++
			return true
		}
		c.order.Remove(el)
		delete(c.items, key)
	}

	c.items[key] = c.order.PushFront(&entry{key: key, expiresAt: now.Add(c.ttl)})
	for c.order.Len() > c.capacity {
		c.removeOldest()
	}
	c.misses++
	return false
}

// Contains reports whether key is present and unexpired without touching
// its recency.
func (c *LRU) Contains(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[key]
	if !ok {
		return false
	}
	return c.now().Before(el.Value.(*entry).expiresAt) //nolint:errcheck,forcetypeassert // only *entry is stored
}

// Remove forgets key. It returns false when key was not present.
func (c *LRU) Remove(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[key]
	if !ok {
		return false
	}
	c.order.Remove(el)
	delete(c.items, key)
	return true
}

// Len returns the number of stored keys, expired ones included until they
// are touched or evicted.
func (c *LRU) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// Stats returns how often Seen found a live key and how often it did not.
func (c *LRU) Stats() (hits, misses int64, size int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses, c.order.Len()
}

// removeOldest must be called with mu held.
func (c *LRU) removeOldest() {
	el := c.order.Back()
	if el == nil {
		return
	}
	c.order.Remove(el)
	delete(c.items, el.Value.(*entry).key) //nolint:errcheck,forcetypeassert // only *entry is stored
}
