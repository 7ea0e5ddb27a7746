// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package wire

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

// CatchUpStatus is the payload behind packet kind 3 (spec.md §6.2). The
// distilled spec names the packet kind but not its fields; the original
// consensus_ffi/ffi.rs catch-up handshake carries the peer's notion of
// the finalized tip plus a monotonically increasing generation counter
// so a responder can tell a stale catch-up request from a fresh one.
//
// Unlike the WMVBA/finalization family this payload is not part of the
// byzantine-agreement byte-exact contract, so it is free to use a
// variable-length varint encoding rather than fixed big-endian fields;
// we reach for protowire's wire-format primitives instead of hand-rolling
// another varint reader, the way the teacher's grpc proto packages
// reach for the same library for their wire traffic.
type CatchUpStatus struct {
	LastFinalizedHeight BlockHeight
	LastFinalizedHash   BlockHash
	Generation          uint64
}

// EncodeCatchUpStatus renders s as height ‖ hash(32) ‖ generation, the
// first and last fields varint-encoded.
func EncodeCatchUpStatus(s CatchUpStatus) []byte {
	b := protowire.AppendVarint(nil, uint64(s.LastFinalizedHeight))
	b = append(b, s.LastFinalizedHash[:]...)
	b = protowire.AppendVarint(b, s.Generation)
	return b
}

// DecodeCatchUpStatus parses a complete datagram produced by
// EncodeCatchUpStatus, rejecting any trailing bytes.
func DecodeCatchUpStatus(b []byte) (CatchUpStatus, error) {
	height, n := protowire.ConsumeVarint(b)
	if n < 0 {
		return CatchUpStatus{}, fmt.Errorf("%w: catch-up status height varint", ErrShortRead)
	}
	b = b[n:]

	if len(b) < 32 {
		return CatchUpStatus{}, fmt.Errorf("%w: catch-up status hash", ErrShortRead)
	}
	var hash BlockHash
	copy(hash[:], b[:32])
	b = b[32:]

	generation, n := protowire.ConsumeVarint(b)
	if n < 0 {
		return CatchUpStatus{}, fmt.Errorf("%w: catch-up status generation varint", ErrShortRead)
	}
	b = b[n:]

	if len(b) != 0 {
		return CatchUpStatus{}, fmt.Errorf("%w: %d unconsumed byte(s)", ErrTrailingBytes, len(b))
	}

	return CatchUpStatus{
		LastFinalizedHeight: BlockHeight(height),
		LastFinalizedHash:   hash,
		Generation:          generation,
	}, nil
}
