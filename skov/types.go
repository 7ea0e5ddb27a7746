// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package skov implements the in-memory consensus block tree: the
// stateful core described in spec.md §3–§4.2. It tracks which blocks
// are known, their status, the two waiting queues for blocks that
// cannot yet be linked, and the ordered finalization list.
package skov

import (
	"time"

	"github.com/luxfi/skov/internal/wire"
)

// BlockHash, BlockHeight and Delta are re-exported from the wire package
// so callers of this package never need to import it directly just to
// name a hash or height.
type (
	BlockHash   = wire.BlockHash
	BlockHeight = wire.BlockHeight
	Delta       = wire.Delta
)

// BlockStatus is a block's position in the Alive → {Dead, Finalized}
// status machine (spec.md §4.2).
type BlockStatus int

const (
	StatusAlive BlockStatus = iota
	StatusDead
	StatusFinalized
)

func (s BlockStatus) String() string {
	switch s {
	case StatusAlive:
		return "alive"
	case StatusDead:
		return "dead"
	case StatusFinalized:
		return "finalized"
	default:
		return "unknown"
	}
}

// PendingBlock is a received but not yet linked block (spec.md §3). It
// leaves the waiting queues only when it is re-offered and linked into
// a BlockPtr. The waiting queues have no size or age bound: nothing
// evicts a PendingBlock that is never linked.
type PendingBlock struct {
	Hash                  BlockHash
	ParentHash            BlockHash
	DeclaredLastFinalized BlockHash
	Slot                  uint64
	Payload               []byte

	// enqueuedAt records when the block was last placed in a waiting
	// queue. Nothing in this package reads it.
	enqueuedAt time.Time
}

// BlockPtr is a linked block. It refers to its parent and last-finalized
// block by hash rather than by embedding another BlockPtr, matching
// spec.md §3's "owning the parent's identity, not a second copy" and
// sidestepping the cyclic-ownership concern spec.md §9 raises for
// non-GC languages — in Go, looking the parent up through Skov's hash
// table is simplest and the garbage collector has no trouble with the
// resulting graph regardless.
type BlockPtr struct {
	Hash                  BlockHash
	ParentHash            BlockHash
	LastFinalizedHash     BlockHash
	Height                BlockHeight
	Slot                  uint64
	ArrivalTime           time.Time
	Payload               []byte
}

// FinalizationRecord is a proof that BlockPointer was finalized at
// Index. This mirrors wire.FinalizationRecord; Skov keeps its own copy
// decoupled from the wire representation so the tree's invariants don't
// depend on codec internals.
type FinalizationRecord struct {
	Index        FinalizationIndex
	BlockPointer BlockHash
	Proof        wire.FinalizationProof
	Delay        Delta
}

// FinalizationIndex is monotonically increasing per session.
type FinalizationIndex = wire.FinalizationIndex

// Equal reports whether two finalization records are structurally
// identical — the duplicate-detection rule in spec.md §4.2 ("Duplicate
// detection is by structural equality of the record").
func (r FinalizationRecord) Equal(other FinalizationRecord) bool {
	if r.Index != other.Index || r.BlockPointer != other.BlockPointer || r.Delay != other.Delay {
		return false
	}
	if len(r.Proof.Entries) != len(other.Proof.Entries) {
		return false
	}
	for i := range r.Proof.Entries {
		if r.Proof.Entries[i] != other.Proof.Entries[i] {
			return false
		}
	}
	return true
}

// TransactionTable is the narrow, interface-only reference Skov holds to
// the transaction pool (spec.md §3: "reference to the transaction pool
// (interface only; see §6)"). Its contents and validity rules are the
// opaque consensus engine's concern (spec.md §1 Non-goals); Skov only
// needs to know it exists and can report its size for diagnostics.
type TransactionTable interface {
	Size() int
}
