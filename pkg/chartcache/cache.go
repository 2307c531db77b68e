// Package chartcache keeps rendered charts in a thread-safe LRU cache
// bounded by entry count and total bytes.
package chartcache

import (
	"sync"
	"sync/atomic"
)

// Key identifies one rendering of a document. Version changes whenever the
// document changes, so stale renderings are never returned.
type Key struct {
	Document string
	Version  uint64
	Format   string
}

type entry struct {
	key   Key
	chart []byte
	prev  *entry
	next  *entry
}

// Cache is an LRU cache of rendered charts.
type Cache struct {
	mu      sync.Mutex
	entries map[Key]*entry
	head    *entry // Most recently used.
	tail    *entry // Least recently used.

	maxEntries int
	maxBytes   int64
	curBytes   int64

	hits   atomic.Int64
	misses atomic.Int64
}

// Option configures a Cache.
type Option func(*Cache)

// WithMaxEntries limits the number of cached charts.
func WithMaxEntries(n int) Option {
	return func(c *Cache) {
		c.maxEntries = n
	}
}

// WithMaxBytes limits the total size of cached charts.
func WithMaxBytes(n int64) Option {
	return func(c *Cache) {
		c.maxBytes = n
	}
}

// New creates a cache. At least one limit must be set; otherwise New panics.
func New(opts ...Option) *Cache {
	c := &Cache{entries: make(map[Key]*entry)}

	for _, opt := range opts {
		opt(c)
	}

	if c.maxEntries <= 0 && c.maxBytes <= 0 {
		panic("chartcache: at least one limit (WithMaxEntries or WithMaxBytes) is required")
	}

	return c
}

// Get returns the chart stored for key.
func (c *Cache) Get(key Key) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ent, ok := c.entries[key]
	if !ok {
		c.misses.Add(1)

		return nil, false
	}

	c.hits.Add(1)
	c.moveToFront(ent)

	return ent.chart, true
}

// Put stores chart under key. Charts larger than the byte limit are not
// stored. The cache keeps its own copy.
func (c *Cache) Put(key Key, chart []byte) {
	size := int64(len(chart))
	if c.maxBytes > 0 && size > c.maxBytes {
		return
	}

	chart = append([]byte(nil), chart...)

	c.mu.Lock()
	defer c.mu.Unlock()

	if ent, ok := c.entries[key]; ok {
		c.curBytes += size - int64(len(ent.chart))
		ent.chart = chart
		c.moveToFront(ent)
		c.evict()

		return
	}

	ent := &entry{key: key, chart: chart}
	c.entries[key] = ent
	c.curBytes += size
	c.addToFront(ent)
	c.evict()
}

// Invalidate drops every rendering of document.
func (c *Cache) Invalidate(document string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key, ent := range c.entries {
		if key.Document == document {
			c.remove(ent)
		}
	}
}

// Len returns the number of cached charts.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.entries)
}

func (c *Cache) evict() {
	for c.tail != nil && c.overLimit() {
		c.remove(c.tail)
	}
}

func (c *Cache) overLimit() bool {
	return (c.maxEntries > 0 && len(c.entries) > c.maxEntries) ||
		(c.maxBytes > 0 && c.curBytes > c.maxBytes)
}

func (c *Cache) remove(ent *entry) {
	c.unlink(ent)
	delete(c.entries, ent.key)
	c.curBytes -= int64(len(ent.chart))
}

func (c *Cache) moveToFront(ent *entry) {
	if c.head == ent {
		return
	}

	c.unlink(ent)
	c.addToFront(ent)
}

func (c *Cache) addToFront(ent *entry) {
	ent.prev = nil
	ent.next = c.head

	if c.head != nil {
		c.head.prev = ent
	}

	c.head = ent

	if c.tail == nil {
		c.tail = ent
	}
}

func (c *Cache) unlink(ent *entry) {
	if ent.prev != nil {
		ent.prev.next = ent.next
	} else {
		c.head = ent.next
	}

	if ent.next != nil {
		ent.next.prev = ent.prev
	} else {
		c.tail = ent.prev
	}

	ent.prev = nil
	ent.next = nil
}
