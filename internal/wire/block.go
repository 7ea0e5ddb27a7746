// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package wire

import "fmt"

// blockRefFixedSize is hash(32) ‖ parent_hash(32) ‖ declared_last_finalized(32) ‖ slot(8).
const blockRefFixedSize = 32 + 32 + 32 + 8

// BlockRef is the wire-level shape of packet kind 0 (spec.md §6.2): the
// fields a receiving node needs to offer a block to the tree before the
// opaque engine ever sees it — hash, parent, the sender's declared
// last-finalized block, slot, and the engine-opaque block payload.
// Payload occupies whatever remains after the fixed-width prefix, the
// same derive-length-from-total-size trick DecodeFinalizationRecord uses
// for its embedded proof.
type BlockRef struct {
	Hash                  BlockHash
	ParentHash            BlockHash
	DeclaredLastFinalized BlockHash
	Slot                  uint64
	Payload               []byte
}

// EncodeBlockRef renders r as the complete wire datagram.
func EncodeBlockRef(r BlockRef) []byte {
	p := NewPacker(blockRefFixedSize + len(r.Payload))
	encodeBlockHash(p, r.Hash)
	encodeBlockHash(p, r.ParentHash)
	encodeBlockHash(p, r.DeclaredLastFinalized)
	p.PackUint64(r.Slot)
	p.PackFixedBytes(r.Payload)
	return p.Bytes
}

// DecodeBlockRef parses a complete datagram produced by EncodeBlockRef.
// Any length at or above blockRefFixedSize is accepted; bytes past the
// fixed prefix become Payload verbatim, including zero of them.
func DecodeBlockRef(b []byte) (BlockRef, error) {
	if len(b) < blockRefFixedSize {
		return BlockRef{}, fmt.Errorf("%w: block ref shorter than %d bytes", ErrShortRead, blockRefFixedSize)
	}

	u := NewUnpacker(b[:blockRefFixedSize])
	r := BlockRef{
		Hash:                  decodeBlockHash(u),
		ParentHash:            decodeBlockHash(u),
		DeclaredLastFinalized: decodeBlockHash(u),
		Slot:                  u.UnpackUint64(),
	}
	if err := u.Finish(); err != nil {
		return BlockRef{}, err
	}

	if rest := b[blockRefFixedSize:]; len(rest) > 0 {
		r.Payload = append([]byte(nil), rest...)
	}
	return r, nil
}
