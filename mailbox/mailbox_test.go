// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package mailbox

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeGauge struct {
	mu  sync.Mutex
	val float64
}

func (g *fakeGauge) Set(value float64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.val = value
}

func (g *fakeGauge) read() float64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.val
}

func TestPushHighUpdatesQueueDepthGauge(t *testing.T) {
	high, low := &fakeGauge{}, &fakeGauge{}
	mbox := New(2, 2).WithMetrics(high, low)

	require.Equal(t, float64(0), high.read())
	require.NoError(t, mbox.PushHigh(NewEnvelope(Inbound, KindBlock, []byte{1})))
	require.Equal(t, float64(1), high.read())
	require.NoError(t, mbox.PushHigh(NewEnvelope(Inbound, KindBlock, []byte{2})))
	require.Equal(t, float64(2), high.read())
	require.Equal(t, float64(0), low.read())
}

func TestPopUpdatesQueueDepthGauge(t *testing.T) {
	high, low := &fakeGauge{}, &fakeGauge{}
	mbox := New(2, 2).WithMetrics(high, low)

	require.NoError(t, mbox.PushHigh(NewEnvelope(Inbound, KindBlock, []byte{1})))
	require.Equal(t, float64(1), high.read())

	_, ok := mbox.tryPopHigh()
	require.True(t, ok)
	require.Equal(t, float64(0), high.read())
}

func TestPushLowUpdatesQueueDepthGauge(t *testing.T) {
	high, low := &fakeGauge{}, &fakeGauge{}
	mbox := New(2, 1).WithMetrics(high, low)

	mbox.PushLow(NewEnvelope(Inbound, KindBlock, []byte{1}))
	require.Equal(t, float64(1), low.read())

	mbox.PushLow(NewEnvelope(Inbound, KindBlock, []byte{2})) // evicts the first, depth stays at cap
	require.Equal(t, float64(1), low.read())
}
