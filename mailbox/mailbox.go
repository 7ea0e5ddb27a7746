// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package mailbox

import (
	"errors"
	"sync"
)

// ErrOverflow is returned by PushHigh when the high-priority queue is
// at capacity. Per spec.md §5 ("reject-new for high"), the caller -
// not the mailbox - decides what to do with a rejected push.
var ErrOverflow = errors.New("mailbox: high-priority queue full")

// gauge is the narrow shape this package needs from
// internal/metrics.Gauge, declared locally so mailbox does not have to
// import the metrics package just to accept an optional sink.
type gauge interface {
	Set(value float64)
}

type message struct {
	stop bool
	env  Envelope
}

// Mailbox is one of the two symmetric (inbound, outbound) priority
// pipeline instances from spec.md §4.4: a bounded high queue, a
// bounded low queue, and a single condition variable signaled on any
// push so the dispatcher can block efficiently between supersteps.
type Mailbox struct {
	mu   sync.Mutex
	cond *sync.Cond

	highCap int
	lowCap  int
	high    []message
	low     []message

	droppedLow uint64

	highGauge gauge
	lowGauge  gauge
}

// New returns a Mailbox with the given high/low queue depths
// (spec.md §4.4 DEPTH_HI / DEPTH_LO).
func New(depthHi, depthLo int) *Mailbox {
	m := &Mailbox{highCap: depthHi, lowCap: depthLo}
	m.cond = sync.NewCond(&m.mu)
	return m
}

// WithMetrics wires queue-depth gauges into the mailbox (see
// internal/metrics.Registry.InboundQueueDepthHigh and siblings). Either
// argument may be nil. Returns m for chaining.
func (m *Mailbox) WithMetrics(high, low gauge) *Mailbox {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.highGauge = high
	m.lowGauge = low
	return m
}

// reportDepthsLocked updates the wired gauges, if any, to the current
// queue lengths. Caller must hold m.mu.
func (m *Mailbox) reportDepthsLocked() {
	if m.highGauge != nil {
		m.highGauge.Set(float64(len(m.high)))
	}
	if m.lowGauge != nil {
		m.lowGauge.Set(float64(len(m.low)))
	}
}

// PushHigh enqueues e on the high-priority queue. Full queue: reject
// the new push (spec.md §5 "reject-new for high").
func (m *Mailbox) PushHigh(e Envelope) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.high) >= m.highCap {
		return ErrOverflow
	}
	m.high = append(m.high, message{env: e})
	m.reportDepthsLocked()
	m.cond.Signal()
	return nil
}

// PushLow enqueues e on the low-priority queue. Full queue: drop the
// oldest queued entry to make room (spec.md §5 "drop-oldest for low").
// PushLow never blocks and never fails.
func (m *Mailbox) PushLow(e Envelope) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.low) >= m.lowCap {
		m.low = m.low[1:]
		m.droppedLow++
	}
	m.low = append(m.low, message{env: e})
	m.reportDepthsLocked()
	m.cond.Signal()
}

// DroppedLow returns the number of low-priority envelopes dropped to
// capacity since the mailbox was created.
func (m *Mailbox) DroppedLow() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.droppedLow
}

// Stop pushes the Stop sentinel to both queues, bypassing capacity:
// shutdown must never be rejected by a full high queue or silently
// evicted from a full low queue (spec.md §4.4: "stop: a sentinel value
// sent via either queue").
func (m *Mailbox) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.high = append(m.high, message{stop: true})
	m.low = append(m.low, message{stop: true})
	m.reportDepthsLocked()
	m.cond.Broadcast()
}

// tryPopHigh removes and returns the oldest high-priority message, if
// any.
func (m *Mailbox) tryPopHigh() (message, bool) {
	if len(m.high) == 0 {
		return message{}, false
	}
	msg := m.high[0]
	m.high = m.high[1:]
	m.reportDepthsLocked()
	return msg, true
}

// tryPopLow removes and returns the oldest low-priority message, if
// any.
func (m *Mailbox) tryPopLow() (message, bool) {
	if len(m.low) == 0 {
		return message{}, false
	}
	msg := m.low[0]
	m.low = m.low[1:]
	m.reportDepthsLocked()
	return msg, true
}

// wait blocks until a push (or Stop) signals the condition variable.
func (m *Mailbox) wait() {
	m.cond.Wait()
}

// drainAll empties both queues without handling them, returning the
// count of envelopes discarded. Used by Dispatcher after Stop to
// satisfy spec.md §4.4: "remaining items are dropped with a debug log
// of the drop count."
func (m *Mailbox) drainAll() int {
	n := 0
	for _, msg := range append(m.high, m.low...) {
		if !msg.stop {
			n++
		}
	}
	m.high = nil
	m.low = nil
	m.reportDepthsLocked()
	return n
}
