// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package wire

import "github.com/luxfi/ids"

// BlockHash is a content-addressed 32-byte block identifier. It reuses
// the teacher corpus's ids.ID rather than rolling a parallel [32]byte
// type, since every other package in this module already keys off
// ids.ID for hash-shaped identifiers.
type BlockHash = ids.ID

// SessionID identifies a finalization session. Like BlockHash it is a
// 32-byte content identifier.
type SessionID = ids.ID

// FinalizationIndex is monotonically increasing per session.
type FinalizationIndex uint64

// BlockHeight is the distance of a block from genesis.
type BlockHeight uint64

// Delta is a WMVBA round-delta parameter.
type Delta uint64

// Party is a validator index within the finalization committee.
type Party uint32

// Phase is the WMVBA phase counter.
type Phase uint32

// SignatureSize is the historical fixed width of a Signature on the
// wire: an 8-byte length prefix (always redundant with the 64-byte
// payload that follows it) plus the 64-byte signature itself. The prefix
// is a compatibility wart inherited from the reference implementation;
// it is never recomputed or stripped, only carried through opaquely.
const SignatureSize = 8 + 64

// TicketSize is the fixed width of an ABBA verifiable-randomness ticket.
const TicketSize = 80

// Signature is an opaque, fixed-width wire blob. Do not interpret the
// leading 8 bytes; they are preserved byte-for-byte on every round trip.
type Signature [SignatureSize]byte

// Ticket is an opaque, fixed-width ABBA randomness token.
type Ticket [TicketSize]byte

func encodeSignature(p *Packer, s Signature) {
	p.PackFixedBytes(s[:])
}

func decodeSignature(u *Unpacker) Signature {
	var s Signature
	copy(s[:], u.UnpackFixedBytes(SignatureSize))
	return s
}

func encodeTicket(p *Packer, t Ticket) {
	p.PackFixedBytes(t[:])
}

func decodeTicket(u *Unpacker) Ticket {
	var t Ticket
	copy(t[:], u.UnpackFixedBytes(TicketSize))
	return t
}

func encodeBlockHash(p *Packer, h BlockHash) {
	p.PackFixedBytes(h[:])
}

func decodeBlockHash(u *Unpacker) BlockHash {
	var h BlockHash
	copy(h[:], u.UnpackFixedBytes(len(h)))
	return h
}
