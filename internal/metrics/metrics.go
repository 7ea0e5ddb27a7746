// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package metrics adapts the teacher corpus's Counter/Gauge/Averager
// wrapper (utils/metric/metric.go) to the handful of observability
// points this module needs: queue depth, drain count, drop count, and
// finalized height (SPEC_FULL.md §3). Concrete collectors are backed
// by prometheus/client_golang; Registry additionally threads a
// github.com/luxfi/metric.Registry through so a process embedding this
// module can fold these collectors into its own multi-gatherer the way
// context_values.go's State.Metrics field does.
package metrics

import (
	"sync"

	"github.com/luxfi/metric"
	"github.com/prometheus/client_golang/prometheus"
)

// Counter tracks a monotonically increasing count.
type Counter interface {
	Inc()
	Add(delta float64)
}

// Gauge tracks a value that can move in either direction.
type Gauge interface {
	Set(value float64)
	Add(delta float64)
}

// Averager tracks a running average of observed values.
type Averager interface {
	Observe(value float64)
	Read() float64
}

type counter struct{ c prometheus.Counter }

func (c counter) Inc()              { c.c.Inc() }
func (c counter) Add(delta float64) { c.c.Add(delta) }

type gauge struct{ g prometheus.Gauge }

func (g gauge) Set(value float64) { g.g.Set(value) }
func (g gauge) Add(delta float64) { g.g.Add(delta) }

type averager struct {
	mu    sync.RWMutex
	sum   float64
	count int64
}

func (a *averager) Observe(value float64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.sum += value
	a.count++
}

func (a *averager) Read() float64 {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.count == 0 {
		return 0
	}
	return a.sum / float64(a.count)
}

// Registry is the set of collectors this module exposes:
// queue-depth gauges, drain/drop counters, and a finalized-height
// gauge, all registered against a single prometheus.Registerer
// (SPEC_FULL.md §3).
type Registry struct {
	// external is stored, not called: a handle a host process can use
	// to fold this module's collectors into its own gatherer set, the
	// way context_values.go's State carries a metric.Registry alongside
	// its own prometheus usage.
	external metric.Registry

	InboundQueueDepthHigh  Gauge
	InboundQueueDepthLow   Gauge
	OutboundQueueDepthHigh Gauge
	OutboundQueueDepthLow  Gauge

	DrainCount Counter
	DropCount  Counter

	FinalizedHeight Gauge

	BlockLinkLatency Averager
}

// NewRegistry registers every collector against reg and returns the
// populated Registry. external may be nil; it is retained only for
// pass-through use by the host process.
func NewRegistry(reg prometheus.Registerer, external metric.Registry) (*Registry, error) {
	mk := func(name, help string) (prometheus.Gauge, error) {
		g := prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "skov", Name: name, Help: help})
		if err := reg.Register(g); err != nil {
			return nil, err
		}
		return g, nil
	}

	inHi, err := mk("inbound_queue_depth_high", "Current depth of the inbound high-priority queue.")
	if err != nil {
		return nil, err
	}
	inLo, err := mk("inbound_queue_depth_low", "Current depth of the inbound low-priority queue.")
	if err != nil {
		return nil, err
	}
	outHi, err := mk("outbound_queue_depth_high", "Current depth of the outbound high-priority queue.")
	if err != nil {
		return nil, err
	}
	outLo, err := mk("outbound_queue_depth_low", "Current depth of the outbound low-priority queue.")
	if err != nil {
		return nil, err
	}
	height, err := mk("last_finalized_height", "Height of the most recently finalized block.")
	if err != nil {
		return nil, err
	}

	drain := prometheus.NewCounter(prometheus.CounterOpts{Namespace: "skov", Name: "dispatcher_drain_total", Help: "Envelopes handled by a dispatcher fairness loop."})
	if err := reg.Register(drain); err != nil {
		return nil, err
	}
	drop := prometheus.NewCounter(prometheus.CounterOpts{Namespace: "skov", Name: "dispatcher_drop_total", Help: "Envelopes discarded by a dispatcher at shutdown."})
	if err := reg.Register(drop); err != nil {
		return nil, err
	}

	return &Registry{
		external:               external,
		InboundQueueDepthHigh:  gauge{inHi},
		InboundQueueDepthLow:   gauge{inLo},
		OutboundQueueDepthHigh: gauge{outHi},
		OutboundQueueDepthLow:  gauge{outLo},
		DrainCount:             counter{drain},
		DropCount:              counter{drop},
		FinalizedHeight:        gauge{height},
		BlockLinkLatency:       &averager{},
	}, nil
}
