// Package cache provides an in-process LRU cache used in front of slower
// stores such as the tagging response database.
package cache

import (
	"container/list"
	"sync"
)

// Cache is a bounded, concurrency-safe key/value cache.
type Cache[K comparable, V any] interface {
	// Get returns the value for key and marks it as recently used.
	Get(key K) (V, bool)
	// Put stores value, evicting the least recently used entry when full.
	Put(key K, value V)
	Len() int
	Stats() Stats
}

// Stats counts cache traffic since creation.
type Stats struct {
	Hits      int64
	Misses    int64
	Evictions int64
	Size      int
	MaxSize   int
}

// Config sizes a cache.
type Config struct {
	// MaxSize bounds the number of entries; zero or less means unbounded.
	MaxSize int
}

// DefaultConfig keeps the last 256 entries.
func DefaultConfig() Config {
	return Config{MaxSize: 256}
}

type entry[K comparable, V any] struct {
	key   K
	value V
}

type lruCache[K comparable, V any] struct {
	mu      sync.Mutex
	max     int
	entries map[K]*list.Element
	order   *list.List // front is most recently used
	stats   Stats
}

// NewLRUCache returns an empty cache sized by config.
func NewLRUCache[K comparable, V any](config Config) Cache[K, V] {
	return &lruCache[K, V]{
		max:     max(config.MaxSize, 0),
		entries: make(map[K]*list.Element),
		order:   list.New(),
	}
}

func (c *lruCache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.entries[key]
	if !ok {
		c.stats.Misses++
		var zero V
		return zero, false
	}
	c.order.MoveToFront(el)
	c.stats.Hits++
	return el.Value.(*entry[K, V]).value, true
}

func (c *lruCache[K, V]) Put(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[key]; ok {
		el.Value.(*entry[K, V]).value = value
		c.order.MoveToFront(el)
		return
	}
	c.entries[key] = c.order.PushFront(&entry[K, V]{key: key, value: value})

	if c.max > 0 && c.order.Len() > c.max {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.entries, oldest.Value.(*entry[K, V]).key)
		c.stats.Evictions++
	}
}

func (c *lruCache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

func (c *lruCache[K, V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.stats
	s.Size = c.order.Len()
	s.MaxSize = c.max
	return s
}
