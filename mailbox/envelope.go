// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package mailbox implements the bounded, two-priority inbound/outbound
// message pipeline described in spec.md §4.4: two fixed-depth queues
// per direction, a condition-variable signaler, and a dispatcher
// fairness loop that drains up to DepthHi high-priority envelopes
// before servicing one low-priority envelope.
package mailbox

import "github.com/luxfi/ids"

// Direction distinguishes the two mailbox instances a node owns.
type Direction int

const (
	Inbound Direction = iota
	Outbound
)

func (d Direction) String() string {
	if d == Inbound {
		return "inbound"
	}
	return "outbound"
}

// Priority classifies an envelope for the fairness loop.
type Priority int

const (
	High Priority = iota
	Low
)

// Kind identifies the payload carried by an envelope (spec.md §4:
// "tagged envelopes for block / finalization-message /
// finalization-record / catch-up-status").
type Kind int

const (
	KindBlock Kind = iota
	KindFinalizationMessage
	KindFinalizationRecord
	KindCatchUpStatus
	KindTransaction
)

func (k Kind) String() string {
	switch k {
	case KindBlock:
		return "block"
	case KindFinalizationMessage:
		return "finalization-message"
	case KindFinalizationRecord:
		return "finalization-record"
	case KindCatchUpStatus:
		return "catch-up-status"
	case KindTransaction:
		return "transaction"
	default:
		return "unknown"
	}
}

// Target is either a specific peer or a broadcast to all peers, used by
// outbound envelopes (spec.md §4.4: "peer-or-broadcast").
type Target struct {
	Peer      ids.NodeID
	Broadcast bool
}

// BroadcastTarget is the zero-allocation constructor for a broadcast
// target.
func BroadcastTarget() Target { return Target{Broadcast: true} }

// DirectTarget addresses a single peer.
func DirectTarget(peer ids.NodeID) Target { return Target{Peer: peer} }

// Envelope is the payload carried by a Relay message: direction,
// peer-or-broadcast, packet kind, bytes, and the optional omit-status
// flag used by catch-up exchanges (spec.md §4.4).
type Envelope struct {
	Direction  Direction
	Source     ids.NodeID // set for Inbound; ignored for Outbound
	Target     Target     // set for Outbound; ignored for Inbound
	Kind       Kind
	Bytes      []byte
	OmitStatus bool
	Priority   Priority
}

// classify assigns the priority class for an envelope's kind.
// Finalization traffic (messages and records) is high priority since
// liveness of the agreement protocol depends on it; blocks, catch-up
// status, and transactions are low priority — grounded on spec.md §4:
// "each classified high or low priority" together with §4.4's
// rationale that the high class must stay bounded-delay.
func classify(k Kind) Priority {
	switch k {
	case KindFinalizationMessage, KindFinalizationRecord:
		return High
	default:
		return Low
	}
}

// NewEnvelope builds an Envelope with its priority derived from kind.
func NewEnvelope(dir Direction, kind Kind, b []byte) Envelope {
	return Envelope{Direction: dir, Kind: kind, Bytes: b, Priority: classify(kind)}
}
