// CineBot - Movie Catalog ETL and Recommendation Assistant
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinebot

package cache

import (
	"container/list"
	"sync"
	"time"
)

const (
	defaultCapacity = 1000
	defaultTTL      = 10 * time.Minute
)

type lruItem[K comparable, V any] struct {
	key       K
	value     V
	expiresAt time.Time
}

// LRU is a thread-safe least-recently-used cache whose entries also expire
// after a fixed TTL. Expired entries are dropped lazily on access or in bulk
// by CleanupExpired.
type LRU[K comparable, V any] struct {
	mu       sync.Mutex
	capacity int
	ttl      time.Duration

	order *list.List // front = most recently used
	items map[K]*list.Element

	onEvict func(K, V)

	hits   int64
	misses int64
}

// NewLRU creates a cache. Non-positive values fall back to 1000 entries and
// a 10 minute TTL.
func NewLRU[K comparable, V any](capacity int, ttl time.Duration) *LRU[K, V] {
	if capacity <= 0 {
		capacity = defaultCapacity
	}
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &LRU[K, V]{
		capacity: capacity,
		ttl:      ttl,
		order:    list.New(),
		items:    make(map[K]*list.Element, capacity),
	}
}

// OnEvict registers fn for entries dropped by capacity, expiry, Remove or
// Clear. fn runs under the cache lock and must not call back into the cache.
func (c *LRU[K, V]) OnEvict(fn func(K, V)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onEvict = fn
}

// Get returns a live entry and marks it most recently used.
func (c *LRU[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[key]; ok {
		item := el.Value.(*lruItem[K, V])
		if time.Now().Before(item.expiresAt) {
			c.order.MoveToFront(el)
			c.hits++
			return item.value, true
		}
		c.drop(el)
	}
	c.misses++
	var zero V
	return zero, false
}

// Contains reports whether key holds a live entry without touching recency.
func (c *LRU[K, V]) Contains(key K) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[key]
	return ok && time.Now().Before(el.Value.(*lruItem[K, V]).expiresAt)
}

// Add inserts or replaces key and restarts its TTL. The least recently used
// entry is evicted when the cache is full.
func (c *LRU[K, V]) Add(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	expiresAt := time.Now().Add(c.ttl)
	if el, ok := c.items[key]; ok {
		item := el.Value.(*lruItem[K, V])
		item.value, item.expiresAt = value, expiresAt
		c.order.MoveToFront(el)
		return
	}

	c.items[key] = c.order.PushFront(&lruItem[K, V]{key: key, value: value, expiresAt: expiresAt})
	for c.order.Len() > c.capacity {
		c.drop(c.order.Back())
	}
}

// Remove deletes key and reports whether it was present.
func (c *LRU[K, V]) Remove(key K) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[key]
	if ok {
		c.drop(el)
	}
	return ok
}

// Len counts held entries, expired ones included.
func (c *LRU[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// Clear drops every entry, oldest last.
func (c *LRU[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for el := c.order.Front(); el != nil; {
		next := el.Next()
		c.drop(el)
		el = next
	}
}

// CleanupExpired drops expired entries and returns how many were removed.
func (c *LRU[K, V]) CleanupExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	removed := 0
	for el := c.order.Back(); el != nil; {
		prev := el.Prev()
		if !now.Before(el.Value.(*lruItem[K, V]).expiresAt) {
			c.drop(el)
			removed++
		}
		el = prev
	}
	return removed
}

// Stats returns hit and miss counters and the current size.
func (c *LRU[K, V]) Stats() (hits, misses int64, size int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses, c.order.Len()
}

// drop must be called with c.mu held.
func (c *LRU[K, V]) drop(el *list.Element) {
	item := c.order.Remove(el).(*lruItem[K, V])
	delete(c.items, item.key)
	if c.onEvict != nil {
		c.onEvict(item.key, item.value)
	}
}
