// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package engine defines the narrow adapter surface used to deliver
// data to, and receive callbacks from, the opaque consensus engine
// (spec.md §4.3). The engine itself is an external collaborator; this
// package only pins down the contract dispatchers and Skov use to talk
// to it.
package engine

import (
	"context"

	"github.com/luxfi/ids"

	"github.com/luxfi/skov/internal/wire"
)

// Verdict is the engine's finite response to a delivery call (spec.md
// §4.3). Unknown codes MUST be translated into a fatal panic by the
// adapter, guarding against silent protocol drift — see
// MustVerdict.
type Verdict int

const (
	Accepted Verdict = iota
	Duplicate
	// Pending means the block or finalization awaits prerequisites
	// inside the engine itself (distinct from skov's own Deferred
	// states, which are resolved before the engine ever sees the
	// delivery).
	Pending
	Invalid
	ShutDown

	verdictCount
)

func (v Verdict) String() string {
	switch v {
	case Accepted:
		return "accepted"
	case Duplicate:
		return "duplicate"
	case Pending:
		return "pending"
	case Invalid:
		return "invalid"
	case ShutDown:
		return "shutdown"
	default:
		return "unknown"
	}
}

// MustVerdict validates v against the known enumeration and panics if
// it falls outside it. Adapter code calls this on every value crossing
// the FFI-shaped boundary from the engine (spec.md §4.3: "The adapter
// MUST translate unknown codes into a fatal panic").
func MustVerdict(v Verdict) Verdict {
	if v < 0 || v >= verdictCount {
		panic("engine: unknown verdict code crossed the adapter boundary")
	}
	return v
}

// PacketKind identifies what broadcast/direct is carrying, mirroring
// mailbox.Kind without importing it (the engine package must not
// depend on the pipeline it feeds).
type PacketKind int

const (
	PacketBlock PacketKind = iota
	PacketFinalizationMessage
	PacketFinalizationRecord
	PacketCatchUpStatus
)

// Callbacks is the engine → node direction of the adapter (spec.md
// §4.3 "Callbacks"). The engine holds one Callbacks and invokes it
// from its own worker threads; implementations must not block holding
// any lock the dispatchers need.
type Callbacks interface {
	Broadcast(kind PacketKind, b []byte)
	Direct(peer ids.NodeID, kind PacketKind, b []byte)
	CatchUpStatus(b []byte)
	Log(category string, level int, message string)
}

// Engine is the node → engine direction of the adapter (spec.md
// §4.3). Every delivery call is synchronous from the dispatcher's
// point of view and returns a Verdict; the lifecycle calls bracket the
// engine's own worker threads.
type Engine interface {
	DeliverBlock(ctx context.Context, b []byte) (Verdict, error)
	DeliverFinalizationMessage(ctx context.Context, b []byte) (Verdict, error)
	DeliverFinalizationRecord(ctx context.Context, b []byte) (Verdict, error)
	DeliverTransaction(ctx context.Context, b []byte) (Verdict, error)
	DeliverCatchUpStatus(ctx context.Context, peer ids.NodeID, status wire.CatchUpStatus, objectLimit int) (Verdict, error)

	// Query surface (JSON-returning per spec.md §4.3). Implementations
	// unmarshal into the caller's type of choice; the adapter only
	// guarantees well-formed JSON.
	Query(ctx context.Context, name string, args map[string]any) ([]byte, error)

	Start(ctx context.Context) error
	StartBaker(ctx context.Context, bakerID uint64) error
	StopBaker(ctx context.Context, bakerID uint64) error
	Stop(ctx context.Context) error
}

// Query surface operation names (spec.md §4.3): "consensus status,
// block info, ancestors, branches, account/instance info, module
// source, block-by-hash, block-by-delta, transaction status, next
// account nonce, block summary, reward status, Birk parameters."
const (
	QueryConsensusStatus  = "consensusStatus"
	QueryBlockInfo        = "blockInfo"
	QueryAncestors        = "ancestors"
	QueryBranches         = "branches"
	QueryAccountInfo      = "accountInfo"
	QueryInstanceInfo     = "instanceInfo"
	QueryModuleSource     = "moduleSource"
	QueryBlockByHash      = "blockByHash"
	QueryBlockByDelta     = "blockByDelta"
	QueryTransactionState = "transactionStatus"
	QueryNextAccountNonce = "nextAccountNonce"
	QueryBlockSummary     = "blockSummary"
	QueryRewardStatus     = "rewardStatus"
	QueryBirkParameters   = "birkParameters"
)

// PeerPenalizer is invoked by the dispatcher when a Verdict of Invalid
// traces back to a specific peer, letting the networking layer apply
// its own reputation policy. It is a supplemented feature (not present
// in the distilled spec's §4.3 list) carried over from the original
// implementation's peer-scoring hook, wired here as the narrow
// interface the engine package's consumers need rather than a
// concrete scoring algorithm.
type PeerPenalizer interface {
	PenalizePeer(peer ids.NodeID, reason string)
}
