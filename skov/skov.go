// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package skov

import (
	"sync"

	"github.com/luxfi/log"
	"github.com/luxfi/skov/internal/mockable"
)

// DeferReason explains why AddBlock could not link a block immediately
// (spec.md §4.2, §7: "Deferred(AwaitingParent | AwaitingLastFinalized) —
// not an error").
type DeferReason uint8

const (
	// NotDeferred means the block was linked (or was already present).
	NotDeferred DeferReason = iota
	AwaitingParent
	AwaitingLastFinalized
)

func (r DeferReason) String() string {
	switch r {
	case NotDeferred:
		return "not-deferred"
	case AwaitingParent:
		return "awaiting-parent"
	case AwaitingLastFinalized:
		return "awaiting-last-finalized"
	default:
		return "unknown"
	}
}

// AddBlockResult is the outcome of AddBlock. Exactly one of Ptr being
// non-nil or Deferred being non-zero holds, except for the no-op case
// (pb already present) where both are zero/nil — spec.md §4.2: "A block
// that is already in block_tree when re-offered: return None (no-op)".
type AddBlockResult struct {
	Ptr      *BlockPtr
	Deferred DeferReason
}

type blockEntry struct {
	ptr    *BlockPtr
	status BlockStatus
}

// Skov is the block tree: block table, the two waiting queues, the
// ordered finalization list, and the genesis anchor (spec.md §3).
// Single-writer/multiple-reader, guarded by a RWMutex per spec.md §5 —
// every mutation goes through AddGenesis, AddBlock, or AddFinalization.
type Skov struct {
	log   log.Logger
	clock *mockable.Clock
	tx    TransactionTable

	mu sync.RWMutex

	blocks                map[BlockHash]*blockEntry
	orphanBlocks          map[BlockHash][]*PendingBlock
	awaitingLastFinalized map[BlockHash][]*PendingBlock

	finalizations   map[FinalizationIndex]finalizedEntry
	maxFinalizedIdx FinalizationIndex
	haveFinalized   bool

	genesis *BlockPtr

	finalizedHeight gauge
}

// gauge is the narrow shape this package needs from
// internal/metrics.Gauge, declared locally so skov does not have to
// import the metrics package just to accept an optional sink.
type gauge interface {
	Set(value float64)
}

type finalizedEntry struct {
	record FinalizationRecord
	ptr    *BlockPtr
}

// New returns an empty Skov. Callers must call AddGenesis before any
// other operation. Before genesis the accessors below report zero
// values: LastFinalized returns nil, and LastFinalizedSlot,
// LastFinalizedHeight and NextFinalizationIndex return 0.
func New(logger log.Logger, tx TransactionTable) *Skov {
	return &Skov{
		log:                   logger,
		clock:                 mockable.NewClock(),
		tx:                    tx,
		blocks:                make(map[BlockHash]*blockEntry),
		orphanBlocks:          make(map[BlockHash][]*PendingBlock),
		awaitingLastFinalized: make(map[BlockHash][]*PendingBlock),
		finalizations:         make(map[FinalizationIndex]finalizedEntry),
	}
}

// SetClock overrides the internal clock, for deterministic arrival-time
// tests.
func (s *Skov) SetClock(c *mockable.Clock) {
	s.clock = c
}

// WithMetrics wires a last-finalized-height gauge into the tree (see
// internal/metrics.Registry.FinalizedHeight). g may be nil. Returns s
// for chaining.
func (s *Skov) WithMetrics(g gauge) *Skov {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.finalizedHeight = g
	return s
}

// AddGenesis installs ptr as the genesis block: Finalized status, a
// synthetic FinalizationRecord at index 0, and the tree's anchor
// (spec.md §4.2).
func (s *Skov) AddGenesis(ptr *BlockPtr) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.genesis != nil || len(s.blocks) != 0 {
		return ErrAlreadyInitialized
	}

	s.blocks[ptr.Hash] = &blockEntry{ptr: ptr, status: StatusFinalized}
	s.finalizations[0] = finalizedEntry{
		record: FinalizationRecord{Index: 0, BlockPointer: ptr.Hash},
		ptr:    ptr,
	}
	s.maxFinalizedIdx = 0
	s.haveFinalized = true
	s.genesis = ptr

	s.log.Info("genesis installed", "hash", ptr.Hash)
	return nil
}

// AddBlock attempts to link pb into the tree (spec.md §4.2 add_block).
func (s *Skov) AddBlock(pb PendingBlock) AddBlockResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	result := s.addBlockLocked(pb)
	if result.Ptr != nil {
		s.drainWaitersLocked(result.Ptr.Hash)
	}
	return result
}

func (s *Skov) addBlockLocked(pb PendingBlock) AddBlockResult {
	if _, ok := s.blocks[pb.Hash]; ok {
		return AddBlockResult{}
	}

	parentEntry, ok := s.blocks[pb.ParentHash]
	if !ok {
		pb.enqueuedAt = s.clock.Now()
		s.orphanBlocks[pb.ParentHash] = append(s.orphanBlocks[pb.ParentHash], &pb)
		return AddBlockResult{Deferred: AwaitingParent}
	}

	lastFinalizedHash := s.lastFinalizedHashLocked()
	if pb.DeclaredLastFinalized != lastFinalizedHash {
		pb.enqueuedAt = s.clock.Now()
		s.awaitingLastFinalized[pb.DeclaredLastFinalized] = append(s.awaitingLastFinalized[pb.DeclaredLastFinalized], &pb)
		return AddBlockResult{Deferred: AwaitingLastFinalized}
	}

	ptr := &BlockPtr{
		Hash:              pb.Hash,
		ParentHash:        pb.ParentHash,
		LastFinalizedHash: pb.DeclaredLastFinalized,
		Height:            parentEntry.ptr.Height + 1,
		Slot:              pb.Slot,
		ArrivalTime:       s.clock.Now(),
		Payload:           pb.Payload,
	}
	s.blocks[ptr.Hash] = &blockEntry{ptr: ptr, status: StatusAlive}

	s.log.Debug("block linked", "hash", ptr.Hash, "height", uint64(ptr.Height))
	return AddBlockResult{Ptr: ptr}
}

// AddFinalization records rec (spec.md §4.2 add_finalization). It
// returns (true, nil) when newly added, (false, nil) when the identical
// record was already present (idempotent), and a non-nil error for an
// unknown block or an index conflict.
func (s *Skov) AddFinalization(rec FinalizationRecord) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.blocks[rec.BlockPointer]
	if !ok {
		return false, ErrUnknownBlock
	}

	if existing, ok := s.finalizations[rec.Index]; ok {
		if existing.record.Equal(rec) {
			return false, nil
		}
		return false, ErrConflictingFinalization
	}

	entry.status = StatusFinalized
	s.finalizations[rec.Index] = finalizedEntry{record: rec, ptr: entry.ptr}
	if !s.haveFinalized || rec.Index > s.maxFinalizedIdx {
		s.maxFinalizedIdx = rec.Index
		s.haveFinalized = true
		if s.finalizedHeight != nil {
			s.finalizedHeight.Set(float64(entry.ptr.Height))
		}
	}

	s.log.Info("block finalized", "hash", rec.BlockPointer, "index", uint64(rec.Index))

	s.pruneDeadSiblingsLocked(entry.ptr)
	s.drainWaitersLocked(rec.BlockPointer)
	return true, nil
}

// pruneDeadSiblingsLocked marks Dead every Alive block at height <= the
// newly finalized block's height that is not one of its ancestors
// (spec.md §4.2 "Pruning"). Pruning is deferred to the end of
// AddFinalization, as the spec allows ("may be deferred to a batch step
// invoked at the end of add_finalization").
func (s *Skov) pruneDeadSiblingsLocked(finalized *BlockPtr) {
	ancestors := map[BlockHash]bool{finalized.Hash: true}
	cur := finalized
	for cur != s.genesis {
		parent, ok := s.blocks[cur.ParentHash]
		if !ok {
			break
		}
		ancestors[parent.ptr.Hash] = true
		cur = parent.ptr
	}

	for hash, e := range s.blocks {
		if e.status != StatusAlive {
			continue
		}
		if e.ptr.Height > finalized.Height {
			continue
		}
		if ancestors[hash] {
			continue
		}
		e.status = StatusDead
	}
}

// drainWaitersLocked re-offers every PendingBlock queued on hash, in
// orphans-then-awaiting-last-finalized order, then repeats against any
// hash that was newly admitted in that pass — spec.md §4.2: "This pass
// is not recursive by call stack: accumulate newly admitted hashes and
// iterate until no admission occurs."
func (s *Skov) drainWaitersLocked(hash BlockHash) {
	frontier := []BlockHash{hash}

	for len(frontier) > 0 {
		var next []BlockHash
		for _, h := range frontier {
			orphans := s.orphanBlocks[h]
			delete(s.orphanBlocks, h)
			waiters := s.awaitingLastFinalized[h]
			delete(s.awaitingLastFinalized, h)

			for _, pb := range append(append([]*PendingBlock{}, orphans...), waiters...) {
				result := s.addBlockLocked(*pb)
				if result.Ptr != nil {
					next = append(next, result.Ptr.Hash)
				}
			}
		}
		frontier = next
	}
}

// lastFinalizedHashLocked returns the block hash of the highest-index
// finalization record, or the zero hash before genesis.
func (s *Skov) lastFinalizedHashLocked() BlockHash {
	if !s.haveFinalized {
		var zero BlockHash
		return zero
	}
	return s.finalizations[s.maxFinalizedIdx].record.BlockPointer
}

// GetBlockByHash returns the linked block for hash, if any.
func (s *Skov) GetBlockByHash(hash BlockHash) (*BlockPtr, BlockStatus, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.blocks[hash]
	if !ok {
		return nil, 0, false
	}
	return e.ptr, e.status, true
}

// LastFinalized returns the highest-index finalized block.
func (s *Skov) LastFinalized() *BlockPtr {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.haveFinalized {
		return nil
	}
	return s.finalizations[s.maxFinalizedIdx].ptr
}

// LastFinalizedRecord returns the highest-index finalization record.
func (s *Skov) LastFinalizedRecord() (FinalizationRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.haveFinalized {
		return FinalizationRecord{}, false
	}
	return s.finalizations[s.maxFinalizedIdx].record, true
}

// LastFinalizedSlot returns the slot of the last-finalized block.
func (s *Skov) LastFinalizedSlot() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.haveFinalized {
		return 0
	}
	return s.finalizations[s.maxFinalizedIdx].ptr.Slot
}

// LastFinalizedHeight returns the height of the last-finalized block.
func (s *Skov) LastFinalizedHeight() BlockHeight {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.haveFinalized {
		return 0
	}
	return s.finalizations[s.maxFinalizedIdx].ptr.Height
}

// NextFinalizationIndex returns the max index in the finalization list
// plus one.
func (s *Skov) NextFinalizationIndex() FinalizationIndex {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.haveFinalized {
		return 0
	}
	return s.maxFinalizedIdx + 1
}

// OrphanCount returns the number of PendingBlocks currently queued
// awaiting a parent. Test/diagnostic helper.
func (s *Skov) OrphanCount(parent BlockHash) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.orphanBlocks[parent])
}

// AwaitingLastFinalizedCount returns the number of PendingBlocks queued
// awaiting a given last-finalized hash. Test/diagnostic helper.
func (s *Skov) AwaitingLastFinalizedCount(hash BlockHash) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.awaitingLastFinalized[hash])
}

// TransactionTable returns the reference passed to New.
func (s *Skov) TransactionTable() TransactionTable {
	return s.tx
}
