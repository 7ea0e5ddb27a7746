// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package enginemock provides a test double for engine.Engine,
// following the function-field shape the teacher corpus uses for its
// own hand-written mocks (core/coremock), without EXPECT(), and with a
// gomock.Controller threaded through the constructor the way
// validator/validatorsmock wraps a generated mock.
package enginemock

import (
	"context"
	"sync"

	"go.uber.org/mock/gomock"

	"github.com/luxfi/ids"

	"github.com/luxfi/skov/engine"
	"github.com/luxfi/skov/internal/wire"
)

// MockEngine is a test double implementing engine.Engine. Each
// delivery method has an overridable func field; when unset it returns
// engine.Accepted and no error.
type MockEngine struct {
	ctrl *gomock.Controller
	mu   sync.RWMutex

	DeliverBlockF                func(context.Context, []byte) (engine.Verdict, error)
	DeliverFinalizationMessageF  func(context.Context, []byte) (engine.Verdict, error)
	DeliverFinalizationRecordF   func(context.Context, []byte) (engine.Verdict, error)
	DeliverTransactionF          func(context.Context, []byte) (engine.Verdict, error)
	DeliverCatchUpStatusF        func(context.Context, ids.NodeID, wire.CatchUpStatus, int) (engine.Verdict, error)
	QueryF                       func(context.Context, string, map[string]any) ([]byte, error)
	StartF                       func(context.Context) error
	StartBakerF                  func(context.Context, uint64) error
	StopBakerF                   func(context.Context, uint64) error
	StopF                        func(context.Context) error
}

var _ engine.Engine = (*MockEngine)(nil)

// NewMockEngine returns a MockEngine whose every delivery method
// defaults to returning engine.Accepted. ctrl is retained only so call
// sites can thread a *gomock.Controller through test setup the way
// validator/validatorsmock.NewState does; MockEngine does not use it
// to record expectations itself.
func NewMockEngine(ctrl *gomock.Controller) *MockEngine {
	return &MockEngine{ctrl: ctrl}
}

func (m *MockEngine) DeliverBlock(ctx context.Context, b []byte) (engine.Verdict, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.DeliverBlockF != nil {
		return m.DeliverBlockF(ctx, b)
	}
	return engine.Accepted, nil
}

func (m *MockEngine) DeliverFinalizationMessage(ctx context.Context, b []byte) (engine.Verdict, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.DeliverFinalizationMessageF != nil {
		return m.DeliverFinalizationMessageF(ctx, b)
	}
	return engine.Accepted, nil
}

func (m *MockEngine) DeliverFinalizationRecord(ctx context.Context, b []byte) (engine.Verdict, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.DeliverFinalizationRecordF != nil {
		return m.DeliverFinalizationRecordF(ctx, b)
	}
	return engine.Accepted, nil
}

func (m *MockEngine) DeliverTransaction(ctx context.Context, b []byte) (engine.Verdict, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.DeliverTransactionF != nil {
		return m.DeliverTransactionF(ctx, b)
	}
	return engine.Accepted, nil
}

func (m *MockEngine) DeliverCatchUpStatus(ctx context.Context, peer ids.NodeID, status wire.CatchUpStatus, objectLimit int) (engine.Verdict, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.DeliverCatchUpStatusF != nil {
		return m.DeliverCatchUpStatusF(ctx, peer, status, objectLimit)
	}
	return engine.Accepted, nil
}

func (m *MockEngine) Query(ctx context.Context, name string, args map[string]any) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.QueryF != nil {
		return m.QueryF(ctx, name, args)
	}
	return []byte("{}"), nil
}

func (m *MockEngine) Start(ctx context.Context) error {
	if m.StartF != nil {
		return m.StartF(ctx)
	}
	return nil
}

func (m *MockEngine) StartBaker(ctx context.Context, bakerID uint64) error {
	if m.StartBakerF != nil {
		return m.StartBakerF(ctx, bakerID)
	}
	return nil
}

func (m *MockEngine) StopBaker(ctx context.Context, bakerID uint64) error {
	if m.StopBakerF != nil {
		return m.StopBakerF(ctx, bakerID)
	}
	return nil
}

func (m *MockEngine) Stop(ctx context.Context) error {
	if m.StopF != nil {
		return m.StopF(ctx)
	}
	return nil
}

// MockPeerPenalizer is a test double for engine.PeerPenalizer that
// records every call for assertions.
type MockPeerPenalizer struct {
	mu    sync.Mutex
	Calls []PenalizeCall
}

// PenalizeCall is one recorded PenalizePeer invocation.
type PenalizeCall struct {
	Peer   ids.NodeID
	Reason string
}

var _ engine.PeerPenalizer = (*MockPeerPenalizer)(nil)

func (m *MockPeerPenalizer) PenalizePeer(peer ids.NodeID, reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, PenalizeCall{Peer: peer, Reason: reason})
}
