// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package mailbox

import (
	"github.com/luxfi/log"
)

// Handler processes one envelope. It must be non-blocking with respect
// to the mailbox's sibling dispatcher (spec.md §5: "holding the Skov
// write lock while calling into the engine is forbidden because the
// engine may call back into the outbound queue").
type Handler func(Envelope)

// counter is the narrow shape this package needs from
// internal/metrics.Counter, declared locally so mailbox does not have
// to import the metrics package just to accept an optional sink.
type counter interface {
	Inc()
}

// Dispatcher drains a Mailbox with the fairness loop from spec.md
// §4.4: up to DepthHi high-priority envelopes per superstep, then at
// most one low-priority envelope, else block on the signaler.
type Dispatcher struct {
	mbox    *Mailbox
	depthHi int
	log     log.Logger
	name    string

	drainCount counter
	dropCount  counter
}

// NewDispatcher returns a Dispatcher draining mbox. depthHi bounds the
// number of high-priority envelopes handled per superstep before a
// single low-priority envelope is serviced (spec.md §4.4's pseudocode
// loops `0..DEPTH_HI`); callers typically pass config.Config's
// DispatchQuota, which is bounded by but may be smaller than the
// Mailbox's own high-queue depth.
func NewDispatcher(mbox *Mailbox, depthHi int, logger log.Logger, name string) *Dispatcher {
	return &Dispatcher{mbox: mbox, depthHi: depthHi, log: logger, name: name}
}

// WithMetrics wires drain/drop counters into the dispatcher (see
// internal/metrics.Registry.DrainCount / DropCount). Either argument
// may be nil.
func (d *Dispatcher) WithMetrics(drain, drop counter) *Dispatcher {
	d.drainCount = drain
	d.dropCount = drop
	return d
}

// Run executes the fairness loop until a Stop sentinel is observed,
// then drains and discards whatever remains queued, logs the drop
// count, and returns.
func (d *Dispatcher) Run(handle Handler) {
	d.mbox.mu.Lock()
	defer d.mbox.mu.Unlock()

	for {
		stopped, exhausted := d.superstepLocked(handle)
		if stopped {
			dropped := d.mbox.drainAll()
			d.log.Debug("dispatcher stopped", "name", d.name, "dropped", dropped)
			if d.dropCount != nil {
				for i := 0; i < dropped; i++ {
					d.dropCount.Inc()
				}
			}
			return
		}
		if exhausted {
			d.mbox.wait()
		}
	}
}

// superstepLocked runs one iteration of the fairness loop. The caller
// must hold mbox.mu. It returns stopped=true if a Stop sentinel was
// encountered, and exhausted=true if nothing was dequeued this
// superstep (the caller should then wait on the signaler).
func (d *Dispatcher) superstepLocked(handle Handler) (stopped, exhausted bool) {
	exhausted = true

	for i := 0; i < d.depthHi; i++ {
		msg, ok := d.mbox.tryPopHigh()
		if !ok {
			break
		}
		exhausted = false
		if msg.stop {
			return true, false
		}
		d.invoke(handle, msg.env)
	}

	if msg, ok := d.mbox.tryPopLow(); ok {
		exhausted = false
		if msg.stop {
			return true, false
		}
		d.invoke(handle, msg.env)
	}

	return false, exhausted
}

// invoke releases the mailbox lock around the handler call so a
// handler that pushes back into this or a sibling mailbox cannot
// deadlock against the dispatcher's own queue lock (spec.md §5's
// non-blocking-handler requirement).
func (d *Dispatcher) invoke(handle Handler, e Envelope) {
	d.mbox.mu.Unlock()
	defer d.mbox.mu.Lock()
	handle(e)
	if d.drainCount != nil {
		d.drainCount.Inc()
	}
}
