// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package mailbox

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/luxfi/skov/internal/logging"
)

// TestFairnessDrainsAllHighBeforeLow covers testable property 10: a
// synthetic workload of N high and N low messages, N <= DEPTH_HI,
// delivers all high before any low is observed by the handler.
func TestFairnessDrainsAllHighBeforeLow(t *testing.T) {
	const n = 4
	mbox := New(n, n)

	for i := 0; i < n; i++ {
		require.NoError(t, mbox.PushHigh(NewEnvelope(Inbound, KindFinalizationMessage, []byte{byte(i)})))
	}
	for i := 0; i < n; i++ {
		mbox.PushLow(NewEnvelope(Inbound, KindBlock, []byte{byte(i)}))
	}

	var mu sync.Mutex
	var order []Priority
	done := make(chan struct{})

	d := NewDispatcher(mbox, n, logging.New(), "test")
	go func() {
		count := 0
		d.Run(func(e Envelope) {
			mu.Lock()
			order = append(order, e.Priority)
			mu.Unlock()
			count++
			if count == 2*n {
				mbox.Stop()
			}
		})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("dispatcher did not finish")
	}

	require.Len(t, order, 2*n)
	for i := 0; i < n; i++ {
		require.Equal(t, High, order[i], "expected all high-priority messages first")
	}
	for i := n; i < 2*n; i++ {
		require.Equal(t, Low, order[i])
	}
}

// TestLowPriorityLiveness covers testable property 11: under sustained
// high-priority input, at least one low-priority message is delivered
// per DEPTH_HI+1 dispatcher supersteps.
func TestLowPriorityLiveness(t *testing.T) {
	const depthHi = 3
	mbox := New(depthHi, 8)

	for i := 0; i < depthHi; i++ {
		require.NoError(t, mbox.PushHigh(NewEnvelope(Inbound, KindFinalizationMessage, nil)))
	}
	mbox.PushLow(NewEnvelope(Inbound, KindBlock, nil))

	var lowSeen bool
	var mu sync.Mutex
	done := make(chan struct{})

	d := NewDispatcher(mbox, depthHi, logging.New(), "test")
	count := 0
	go func() {
		d.Run(func(e Envelope) {
			mu.Lock()
			if e.Priority == Low {
				lowSeen = true
			}
			mu.Unlock()
			count++
			if count == depthHi+1 {
				mbox.Stop()
			}
		})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("dispatcher did not finish")
	}

	mu.Lock()
	defer mu.Unlock()
	require.True(t, lowSeen, "expected a low-priority delivery within DEPTH_HI+1 supersteps")
}

// TestShutdownStopsDispatcherAndDropsRemainder covers testable
// property 12: Stop breaks the loop cleanly and discards whatever is
// still queued without invoking the handler on it.
func TestShutdownStopsDispatcherAndDropsRemainder(t *testing.T) {
	mbox := New(8, 8)
	require.NoError(t, mbox.PushHigh(NewEnvelope(Inbound, KindFinalizationMessage, nil)))
	mbox.PushLow(NewEnvelope(Inbound, KindBlock, nil))
	mbox.PushLow(NewEnvelope(Inbound, KindBlock, nil))

	var handled int
	done := make(chan struct{})

	d := NewDispatcher(mbox, 8, logging.New(), "test")
	go func() {
		d.Run(func(e Envelope) {
			handled++
			mbox.Stop()
		})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("dispatcher did not finish")
	}

	require.Equal(t, 1, handled)
}

func TestPushHighOverflowRejected(t *testing.T) {
	mbox := New(1, 1)
	require.NoError(t, mbox.PushHigh(NewEnvelope(Inbound, KindFinalizationMessage, nil)))
	require.ErrorIs(t, mbox.PushHigh(NewEnvelope(Inbound, KindFinalizationMessage, nil)), ErrOverflow)
}

func TestPushLowDropsOldestOnOverflow(t *testing.T) {
	mbox := New(1, 1)
	mbox.PushLow(NewEnvelope(Inbound, KindBlock, []byte{1}))
	mbox.PushLow(NewEnvelope(Inbound, KindBlock, []byte{2}))
	require.Equal(t, uint64(1), mbox.DroppedLow())

	msg, ok := mbox.tryPopLow()
	require.True(t, ok)
	require.Equal(t, []byte{2}, msg.env.Bytes)
}
