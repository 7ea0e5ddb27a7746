// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package cache implements the bounded, FIFO block-hash cache described
// in spec.md §2 item 2: a fixed-capacity in-memory map that, on
// eviction, serializes the oldest entry to an external key-value sink
// instead of simply dropping it. Grounded on the teacher corpus's
// dag/witness generic LRU (container/list + map), generalized with an
// eviction sink rather than a bare discard.
package cache

import (
	"container/list"
	"sync"

	"github.com/luxfi/database"
)

// Sink is the overflow destination for evicted entries: the node's
// persistent key-value store (spec.md §6.4). Only Put is required here;
// reads of evicted entries are out of this cache's scope.
type Sink interface {
	Put(key []byte, value []byte) error
}

// Marshaler converts a cached value to its on-disk representation for
// Sink.Put. Kept as a function rather than requiring V to implement an
// interface, so callers can cache plain structs.
type Marshaler[V any] func(V) ([]byte, error)

// BlockHashCache is a bounded FIFO map keyed by a fixed-width hash (32
// bytes, matching wire.BlockHash without importing it, so this package
// stays independent of the wire codec). Eviction is pure FIFO by insert
// order — the teacher's witness cache evicts by list position the same
// way, just without a spillover sink.
type BlockHashCache[V any] struct {
	mu       sync.Mutex
	ll       *list.List
	entries  map[[32]byte]*list.Element
	capacity int

	sink      Sink
	marshal   Marshaler[V]
	onEvictErr func(key [32]byte, err error)
}

type cacheEntry[V any] struct {
	key   [32]byte
	value V
}

// New returns a BlockHashCache holding at most capacity entries. When an
// entry is evicted it is marshaled and written to sink; onEvictErr (may
// be nil) observes any marshal/write failure without aborting the
// eviction, since the in-memory slot must be freed regardless.
func New[V any](capacity int, sink Sink, marshal Marshaler[V], onEvictErr func(key [32]byte, err error)) *BlockHashCache[V] {
	if capacity <= 0 {
		capacity = 1
	}
	return &BlockHashCache[V]{
		ll:         list.New(),
		entries:    make(map[[32]byte]*list.Element, capacity),
		capacity:   capacity,
		sink:       sink,
		marshal:    marshal,
		onEvictErr: onEvictErr,
	}
}

// Get returns the cached value for key, if present. A hit does not
// reorder the FIFO list; eviction order is strictly insertion order,
// matching the bounded-FIFO wording in spec.md §2 rather than LRU
// recency semantics.
func (c *BlockHashCache[V]) Get(key [32]byte) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.entries[key]; ok {
		return el.Value.(cacheEntry[V]).value, true
	}
	var zero V
	return zero, false
}

// Put inserts or overwrites key. Inserting a new key beyond capacity
// evicts the oldest entry to the sink.
func (c *BlockHashCache[V]) Put(key [32]byte, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[key]; ok {
		el.Value = cacheEntry[V]{key: key, value: value}
		return
	}

	el := c.ll.PushBack(cacheEntry[V]{key: key, value: value})
	c.entries[key] = el

	if c.ll.Len() > c.capacity {
		c.evictOldest()
	}
}

// Len returns the number of entries currently held in memory.
func (c *BlockHashCache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ll.Len()
}

func (c *BlockHashCache[V]) evictOldest() {
	front := c.ll.Front()
	if front == nil {
		return
	}
	entry := front.Value.(cacheEntry[V])
	c.ll.Remove(front)
	delete(c.entries, entry.key)

	if c.sink == nil {
		return
	}
	bytes, err := c.marshal(entry.value)
	if err != nil {
		if c.onEvictErr != nil {
			c.onEvictErr(entry.key, err)
		}
		return
	}
	if err := c.sink.Put(entry.key[:], bytes); err != nil && c.onEvictErr != nil {
		c.onEvictErr(entry.key, err)
	}
}

var _ Sink = (*dbSinkAdapter)(nil)

// dbSinkAdapter adapts a github.com/luxfi/database.Database (the node's
// real persistent store) to this package's narrow Sink interface, so
// BlockHashCache does not need to depend on the full Database surface
// (iterators, batches, compaction) just to write one overflowed entry.
type dbSinkAdapter struct {
	db database.KeyValueWriter
}

// NewDatabaseSink wraps db as a Sink.
func NewDatabaseSink(db database.KeyValueWriter) Sink {
	return &dbSinkAdapter{db: db}
}

func (a *dbSinkAdapter) Put(key, value []byte) error {
	return a.db.Put(key, value)
}
