// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package skov

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/luxfi/skov/internal/logging"
	"github.com/luxfi/skov/internal/mockable"
)

type fakeTxTable struct{ n int }

func (f fakeTxTable) Size() int { return f.n }

func hash(b byte) BlockHash {
	var h BlockHash
	h[0] = b
	return h
}

func newTestSkov(t *testing.T) (*Skov, *BlockPtr) {
	t.Helper()
	s := New(logging.New(), fakeTxTable{})
	genesis := &BlockPtr{Hash: hash(0)}
	require.NoError(t, s.AddGenesis(genesis))
	return s, genesis
}

func TestAddGenesisOnce(t *testing.T) {
	s, genesis := newTestSkov(t)
	require.ErrorIs(t, s.AddGenesis(genesis), ErrAlreadyInitialized)
}

func TestAddGenesisPopulatesFinalizationList(t *testing.T) {
	s, genesis := newTestSkov(t)
	require.Equal(t, genesis, s.LastFinalized())
	require.Equal(t, FinalizationIndex(1), s.NextFinalizationIndex())
}

func TestAddBlockLinksOntoGenesis(t *testing.T) {
	s, genesis := newTestSkov(t)

	pb := PendingBlock{Hash: hash(1), ParentHash: genesis.Hash, DeclaredLastFinalized: genesis.Hash, Slot: 1}
	result := s.AddBlock(pb)
	require.NotNil(t, result.Ptr)
	require.Equal(t, NotDeferred, result.Deferred)
	require.Equal(t, BlockHeight(1), result.Ptr.Height)

	ptr, status, ok := s.GetBlockByHash(pb.Hash)
	require.True(t, ok)
	require.Equal(t, StatusAlive, status)
	require.Equal(t, result.Ptr, ptr)
}

func TestAddBlockAlreadyPresentIsNoOp(t *testing.T) {
	s, genesis := newTestSkov(t)
	pb := PendingBlock{Hash: hash(1), ParentHash: genesis.Hash, DeclaredLastFinalized: genesis.Hash}
	first := s.AddBlock(pb)
	require.NotNil(t, first.Ptr)

	second := s.AddBlock(pb)
	require.Nil(t, second.Ptr)
	require.Equal(t, NotDeferred, second.Deferred)
}

func TestAddBlockDefersOnUnknownParent(t *testing.T) {
	s, genesis := newTestSkov(t)
	pb := PendingBlock{Hash: hash(1), ParentHash: hash(99), DeclaredLastFinalized: genesis.Hash}
	result := s.AddBlock(pb)
	require.Nil(t, result.Ptr)
	require.Equal(t, AwaitingParent, result.Deferred)
	require.Equal(t, 1, s.OrphanCount(hash(99)))
}

func TestAddBlockDefersOnStaleLastFinalized(t *testing.T) {
	s, genesis := newTestSkov(t)
	pb := PendingBlock{Hash: hash(1), ParentHash: genesis.Hash, DeclaredLastFinalized: hash(55)}
	result := s.AddBlock(pb)
	require.Nil(t, result.Ptr)
	require.Equal(t, AwaitingLastFinalized, result.Deferred)
	require.Equal(t, 1, s.AwaitingLastFinalizedCount(hash(55)))
}

// TestOrphanDrainOnParentArrival covers testable property: a block
// offered before its parent links once the parent arrives, without the
// caller re-offering it.
func TestOrphanDrainOnParentArrival(t *testing.T) {
	s, genesis := newTestSkov(t)

	child := PendingBlock{Hash: hash(2), ParentHash: hash(1), DeclaredLastFinalized: genesis.Hash}
	deferred := s.AddBlock(child)
	require.Equal(t, AwaitingParent, deferred.Deferred)

	parent := PendingBlock{Hash: hash(1), ParentHash: genesis.Hash, DeclaredLastFinalized: genesis.Hash}
	linked := s.AddBlock(parent)
	require.NotNil(t, linked.Ptr)

	ptr, status, ok := s.GetBlockByHash(child.Hash)
	require.True(t, ok)
	require.Equal(t, StatusAlive, status)
	require.Equal(t, BlockHeight(2), ptr.Height)
	require.Equal(t, 0, s.OrphanCount(hash(1)))
}

// TestAwaitingLastFinalizedDrainsOnFinalization covers the second
// waiting queue: a block declaring a last-finalized hash that is linked
// but not yet finalized links once that hash is actually finalized.
func TestAwaitingLastFinalizedDrainsOnFinalization(t *testing.T) {
	s, genesis := newTestSkov(t)

	child1 := PendingBlock{Hash: hash(1), ParentHash: genesis.Hash, DeclaredLastFinalized: genesis.Hash}
	result1 := s.AddBlock(child1)
	require.NotNil(t, result1.Ptr)

	grandchild := PendingBlock{Hash: hash(2), ParentHash: child1.Hash, DeclaredLastFinalized: child1.Hash}
	deferred := s.AddBlock(grandchild)
	require.Equal(t, AwaitingLastFinalized, deferred.Deferred)

	ok, err := s.AddFinalization(FinalizationRecord{Index: 1, BlockPointer: child1.Hash})
	require.NoError(t, err)
	require.True(t, ok)

	ptr, status, found := s.GetBlockByHash(grandchild.Hash)
	require.True(t, found)
	require.Equal(t, StatusAlive, status)
	require.Equal(t, BlockHeight(2), ptr.Height)
}

type fakeGauge struct{ val float64 }

func (g *fakeGauge) Set(value float64) { g.val = value }

// TestAddFinalizationUpdatesFinalizedHeightGauge covers the gauge side
// effect of a real AddFinalization call, not a hand-set value.
func TestAddFinalizationUpdatesFinalizedHeightGauge(t *testing.T) {
	s, genesis := newTestSkov(t)
	g := &fakeGauge{}
	s.WithMetrics(g)
	require.Equal(t, float64(0), g.val)

	child := PendingBlock{Hash: hash(1), ParentHash: genesis.Hash, DeclaredLastFinalized: genesis.Hash, Slot: 1}
	result := s.AddBlock(child)
	require.NotNil(t, result.Ptr)

	ok, err := s.AddFinalization(FinalizationRecord{Index: 1, BlockPointer: child.Hash})
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, float64(1), g.val)
}

func TestAddFinalizationUnknownBlockRejected(t *testing.T) {
	s, _ := newTestSkov(t)
	_, err := s.AddFinalization(FinalizationRecord{Index: 1, BlockPointer: hash(42)})
	require.ErrorIs(t, err, ErrUnknownBlock)
}

func TestAddFinalizationIdempotent(t *testing.T) {
	s, genesis := newTestSkov(t)
	child := PendingBlock{Hash: hash(1), ParentHash: genesis.Hash, DeclaredLastFinalized: genesis.Hash}
	result := s.AddBlock(child)
	require.NotNil(t, result.Ptr)

	rec := FinalizationRecord{Index: 1, BlockPointer: child.Hash}
	added, err := s.AddFinalization(rec)
	require.NoError(t, err)
	require.True(t, added)

	added, err = s.AddFinalization(rec)
	require.NoError(t, err)
	require.False(t, added)
}

func TestAddFinalizationConflictRejected(t *testing.T) {
	s, genesis := newTestSkov(t)
	child := PendingBlock{Hash: hash(1), ParentHash: genesis.Hash, DeclaredLastFinalized: genesis.Hash}
	result := s.AddBlock(child)
	require.NotNil(t, result.Ptr)
	_, err := s.AddFinalization(FinalizationRecord{Index: 1, BlockPointer: child.Hash})
	require.NoError(t, err)

	other := PendingBlock{Hash: hash(2), ParentHash: genesis.Hash, DeclaredLastFinalized: genesis.Hash}
	s.AddBlock(other)
	_, err = s.AddFinalization(FinalizationRecord{Index: 1, BlockPointer: other.Hash})
	require.ErrorIs(t, err, ErrConflictingFinalization)
}

// TestFinalizationPrunesSiblings covers the Dead-pruning rule: a
// competing block at or below the newly finalized height, not an
// ancestor of it, becomes Dead.
func TestFinalizationPrunesSiblings(t *testing.T) {
	s, genesis := newTestSkov(t)

	winner := PendingBlock{Hash: hash(1), ParentHash: genesis.Hash, DeclaredLastFinalized: genesis.Hash}
	loser := PendingBlock{Hash: hash(2), ParentHash: genesis.Hash, DeclaredLastFinalized: genesis.Hash}
	require.NotNil(t, s.AddBlock(winner).Ptr)
	require.NotNil(t, s.AddBlock(loser).Ptr)

	_, err := s.AddFinalization(FinalizationRecord{Index: 1, BlockPointer: winner.Hash})
	require.NoError(t, err)

	_, status, ok := s.GetBlockByHash(loser.Hash)
	require.True(t, ok)
	require.Equal(t, StatusDead, status)

	_, winnerStatus, ok := s.GetBlockByHash(winner.Hash)
	require.True(t, ok)
	require.Equal(t, StatusFinalized, winnerStatus)
}

func TestLastFinalizedHeightAndSlotTrackHighestIndex(t *testing.T) {
	s, genesis := newTestSkov(t)
	child := PendingBlock{Hash: hash(1), ParentHash: genesis.Hash, DeclaredLastFinalized: genesis.Hash, Slot: 7}
	require.NotNil(t, s.AddBlock(child).Ptr)

	_, err := s.AddFinalization(FinalizationRecord{Index: 1, BlockPointer: child.Hash})
	require.NoError(t, err)

	require.Equal(t, BlockHeight(1), s.LastFinalizedHeight())
	require.Equal(t, uint64(7), s.LastFinalizedSlot())
	require.Equal(t, FinalizationIndex(2), s.NextFinalizationIndex())
}

func TestArrivalTimeUsesInjectedClock(t *testing.T) {
	s, genesis := newTestSkov(t)
	clock := mockable.NewClock()
	pinned := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	clock.Set(pinned)
	s.SetClock(clock)

	child := PendingBlock{Hash: hash(1), ParentHash: genesis.Hash, DeclaredLastFinalized: genesis.Hash}
	result := s.AddBlock(child)
	require.NotNil(t, result.Ptr)
	require.True(t, result.Ptr.ArrivalTime.Equal(pinned))
}
