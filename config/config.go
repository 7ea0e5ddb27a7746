// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package config holds the enumerated, defaulted options spec.md §6.5
// requires every implementation to support, plus the priority-pipeline
// sizing this core adds on top (queue depths and the dispatcher's
// per-cycle fairness quota, spec.md §4.4).
package config

import (
	"fmt"

	"github.com/luxfi/skov/internal/wrappers"
)

// Config holds every out-of-range-checked option named by spec.md
// §6.5, plus the pipeline sizing from §4.4. Out-of-range values fail
// fast in Validate, never silently clamp.
type Config struct {
	// Peer management (spec.md §6.5).
	DesiredNodes              int     `json:"desiredNodes" yaml:"desiredNodes"`
	MaxAllowedNodes           int     `json:"maxAllowedNodes" yaml:"maxAllowedNodes"`
	MaxAllowedNodesPercentage float64 `json:"maxAllowedNodesPercentage" yaml:"maxAllowedNodesPercentage"`
	HardConnectionLimit       int     `json:"hardConnectionLimit" yaml:"hardConnectionLimit"`
	RelayBroadcastPercentage  float64 `json:"relayBroadcastPercentage" yaml:"relayBroadcastPercentage"`

	// Wire sizing.
	MaximumBlockSize uint64 `json:"maximumBlockSize" yaml:"maximumBlockSize"`
	SocketReadSize   int    `json:"socketReadSize" yaml:"socketReadSize"`
	SocketWriteSize  int    `json:"socketWriteSize" yaml:"socketWriteSize"`

	// Dedup and catch-up.
	DedupSizeLong     int `json:"dedupSizeLong" yaml:"dedupSizeLong"`
	DedupSizeShort    int `json:"dedupSizeShort" yaml:"dedupSizeShort"`
	CatchUpBatchLimit int `json:"catchUpBatchLimit" yaml:"catchUpBatchLimit"`

	// Thread pool.
	ThreadPoolSize int `json:"threadPoolSize" yaml:"threadPoolSize"`

	// Priority pipeline (spec.md §4.4). DepthHi/DepthLo apply to both
	// the inbound and outbound instance.
	DepthHi       int `json:"depthHi" yaml:"depthHi"`
	DepthLo       int `json:"depthLo" yaml:"depthLo"`
	DispatchQuota int `json:"dispatchQuota" yaml:"dispatchQuota"`

	// BlockHashCacheSize bounds the in-memory block-hash cache
	// (spec.md §2 item 2) before entries overflow to the database sink.
	BlockHashCacheSize int `json:"blockHashCacheSize" yaml:"blockHashCacheSize"`
}

// protocolMaxBlockSize is the hard ceiling maximum_block_size may never
// exceed (spec.md §6.5: "must be ≤ 4 GB and ≤ PROTOCOL_MAX × 0.9").
const protocolMaxBlockSize = 4 << 30 // 4 GiB, the absolute cap

// protocolMax is the wire protocol's own ceiling; maximum_block_size
// must leave 10% headroom under it.
const protocolMax = 512 << 20 // 512 MiB, a representative protocol ceiling

// Default returns the documented defaults for every option (spec.md
// §6.5: "all have defaults"). Grounded on the teacher corpus's
// config.NewBuilder default block (config/builder.go).
func Default() Config {
	return Config{
		DesiredNodes:              15,
		MaxAllowedNodes:           20,
		MaxAllowedNodesPercentage: 1.5,
		HardConnectionLimit:       30,
		RelayBroadcastPercentage:  0.25,

		MaximumBlockSize: 10 << 20, // 10 MiB
		SocketReadSize:   1 << 17,  // 131072, > the 65535 floor
		SocketWriteSize:  1 << 16,  // 65536

		DedupSizeLong:     65536,
		DedupSizeShort:    4096,
		CatchUpBatchLimit: 0, // 0 = no limit

		ThreadPoolSize: 4,

		DepthHi:       16 * 1024,
		DepthLo:       32 * 1024,
		DispatchQuota: 16 * 1024,

		BlockHashCacheSize: 4096,
	}
}

// Validate checks every out-of-range-able option and returns the
// aggregate of all violations at once (not just the first), using the
// teacher corpus's wrappers.Errs aggregator (utils/wrappers/errors.go)
// — the one place in this module multiple independent errors must be
// combined into a single report, since a human reading a startup
// failure wants every bad option in one pass, not one restart per
// mistake.
func (c Config) Validate() error {
	var errs wrappers.Errs

	if c.DesiredNodes <= 0 {
		errs.Add(fmt.Errorf("desiredNodes must be positive, got %d", c.DesiredNodes))
	}
	if c.MaxAllowedNodes < c.DesiredNodes {
		errs.Add(fmt.Errorf("maxAllowedNodes (%d) must be >= desiredNodes (%d)", c.MaxAllowedNodes, c.DesiredNodes))
	}
	if c.HardConnectionLimit < c.MaxAllowedNodes {
		errs.Add(fmt.Errorf("hardConnectionLimit (%d) must be >= maxAllowedNodes (%d)", c.HardConnectionLimit, c.MaxAllowedNodes))
	}
	if c.RelayBroadcastPercentage < 0 || c.RelayBroadcastPercentage > 1 {
		errs.Add(fmt.Errorf("relayBroadcastPercentage must be in [0.0, 1.0], got %f", c.RelayBroadcastPercentage))
	}

	if c.MaximumBlockSize > protocolMaxBlockSize {
		errs.Add(fmt.Errorf("maximumBlockSize (%d) exceeds the 4 GiB hard cap", c.MaximumBlockSize))
	}
	if c.MaximumBlockSize > uint64(float64(protocolMax)*0.9) {
		errs.Add(fmt.Errorf("maximumBlockSize (%d) exceeds 90%% of the protocol maximum (%d)", c.MaximumBlockSize, protocolMax))
	}

	if c.SocketReadSize < 65535 {
		errs.Add(fmt.Errorf("socketReadSize must be >= 65535, got %d", c.SocketReadSize))
	}
	if c.SocketReadSize < c.SocketWriteSize {
		errs.Add(fmt.Errorf("socketReadSize (%d) must be >= socketWriteSize (%d)", c.SocketReadSize, c.SocketWriteSize))
	}

	if c.DedupSizeLong <= 0 {
		errs.Add(fmt.Errorf("dedupSizeLong must be positive, got %d", c.DedupSizeLong))
	}
	if c.DedupSizeShort <= 0 {
		errs.Add(fmt.Errorf("dedupSizeShort must be positive, got %d", c.DedupSizeShort))
	}
	if c.CatchUpBatchLimit < 0 {
		errs.Add(fmt.Errorf("catchUpBatchLimit must be >= 0 (0 = no limit), got %d", c.CatchUpBatchLimit))
	}

	if c.ThreadPoolSize <= 0 {
		errs.Add(fmt.Errorf("threadPoolSize must be positive, got %d", c.ThreadPoolSize))
	}

	if c.DepthHi <= 0 {
		errs.Add(fmt.Errorf("depthHi must be positive, got %d", c.DepthHi))
	}
	if c.DepthLo <= 0 {
		errs.Add(fmt.Errorf("depthLo must be positive, got %d", c.DepthLo))
	}
	if c.DispatchQuota <= 0 || c.DispatchQuota > c.DepthHi {
		errs.Add(fmt.Errorf("dispatchQuota must be in (0, depthHi=%d], got %d", c.DepthHi, c.DispatchQuota))
	}

	if c.BlockHashCacheSize <= 0 {
		errs.Add(fmt.Errorf("blockHashCacheSize must be positive, got %d", c.BlockHashCacheSize))
	}

	if errs.Errored() {
		return errs.Err()
	}
	return nil
}
