// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package wire

import "fmt"

// finalizationHeaderSize is SessionID(32) ‖ index(8) ‖ delta(8) ‖ sender(4).
const finalizationHeaderSize = 32 + 8 + 8 + 4

// FinalizationMessageHeader is the fixed-width prefix of a
// FinalizationMessage.
type FinalizationMessageHeader struct {
	Session SessionID
	Index   FinalizationIndex
	Delta   Delta
	Sender  Party
}

// EncodeFinalizationMessageHeader renders h as a fixed 52-byte frame.
func EncodeFinalizationMessageHeader(h FinalizationMessageHeader) []byte {
	p := NewPacker(finalizationHeaderSize)
	encodeBlockHash(p, h.Session)
	p.PackUint64(uint64(h.Index))
	p.PackUint64(uint64(h.Delta))
	p.PackUint32(uint32(h.Sender))
	return p.Bytes
}

// DecodeFinalizationMessageHeader parses exactly finalizationHeaderSize
// bytes; any other length is malformed.
func DecodeFinalizationMessageHeader(b []byte) (FinalizationMessageHeader, error) {
	u := NewUnpacker(b)
	h := FinalizationMessageHeader{
		Session: decodeBlockHash(u),
		Index:   FinalizationIndex(u.UnpackUint64()),
		Delta:   Delta(u.UnpackUint64()),
		Sender:  Party(u.UnpackUint32()),
	}
	if err := u.Finish(); err != nil {
		return FinalizationMessageHeader{}, err
	}
	return h, nil
}

// FinalizationMessage is header ‖ WmvbaMessage ‖ Signature. The WMVBA
// slice length is not stored explicitly; it is derived at decode time
// as total − header − signature, which requires the caller to deliver
// the complete datagram (spec.md §4.1).
type FinalizationMessage struct {
	Header    FinalizationMessageHeader
	Message   WmvbaMessage
	Signature Signature
}

// EncodeFinalizationMessage renders m as the complete wire datagram.
func EncodeFinalizationMessage(m FinalizationMessage) []byte {
	p := NewPacker(finalizationHeaderSize + 8 + SignatureSize)
	p.PackFixedBytes(EncodeFinalizationMessageHeader(m.Header))
	p.PackFixedBytes(EncodeWmvbaMessage(m.Message))
	encodeSignature(p, m.Signature)
	return p.Bytes
}

// DecodeFinalizationMessage parses a complete datagram produced by
// EncodeFinalizationMessage. It requires at least
// finalizationHeaderSize+SignatureSize bytes so the WMVBA slice in
// between is well defined, even if empty.
func DecodeFinalizationMessage(b []byte) (FinalizationMessage, error) {
	minLen := finalizationHeaderSize + SignatureSize
	if len(b) < minLen {
		return FinalizationMessage{}, fmt.Errorf("%w: finalization message shorter than %d bytes", ErrShortRead, minLen)
	}

	header, err := DecodeFinalizationMessageHeader(b[:finalizationHeaderSize])
	if err != nil {
		return FinalizationMessage{}, err
	}

	sigStart := len(b) - SignatureSize
	wmvbaBytes := b[finalizationHeaderSize:sigStart]
	msg, err := DecodeWmvbaMessage(wmvbaBytes)
	if err != nil {
		return FinalizationMessage{}, err
	}

	sigUnpacker := NewUnpacker(b[sigStart:])
	sig := decodeSignature(sigUnpacker)
	if err := sigUnpacker.Finish(); err != nil {
		return FinalizationMessage{}, err
	}

	return FinalizationMessage{Header: header, Message: msg, Signature: sig}, nil
}

// FinalizationProofEntry is one (party tag, signature) pair in a
// FinalizationProof.
//
// Open question (spec.md §9): the reference implementation labels the
// leading u32 field "tbd". We carry it through as an opaque tag —
// callers must not assume it is a validator index without further
// context from the engine.
type FinalizationProofEntry struct {
	PartyTag  uint32
	Signature Signature
}

const finalizationProofEntrySize = 4 + SignatureSize

// FinalizationProof is the ordered list of signer attestations behind a
// FinalizationRecord.
type FinalizationProof struct {
	Entries []FinalizationProofEntry
}

// EncodeFinalizationProof renders count ‖ count × (party_tag, signature).
func EncodeFinalizationProof(p FinalizationProof) []byte {
	pk := NewPacker(8 + len(p.Entries)*finalizationProofEntrySize)
	pk.PackUint64(uint64(len(p.Entries)))
	for _, e := range p.Entries {
		pk.PackUint32(e.PartyTag)
		encodeSignature(pk, e.Signature)
	}
	return pk.Bytes
}

// DecodeFinalizationProof parses a complete proof datagram; trailing
// bytes after the declared count are rejected.
func DecodeFinalizationProof(b []byte) (FinalizationProof, error) {
	u := NewUnpacker(b)
	n := u.UnpackUint64()
	if u.Err != nil {
		return FinalizationProof{}, u.Finish()
	}
	entries := make([]FinalizationProofEntry, 0, n)
	for i := uint64(0); i < n; i++ {
		entries = append(entries, FinalizationProofEntry{
			PartyTag:  u.UnpackUint32(),
			Signature: decodeSignature(u),
		})
	}
	if err := u.Finish(); err != nil {
		return FinalizationProof{}, err
	}
	return FinalizationProof{Entries: entries}, nil
}

// finalizationRecordFixedSize is index(8) ‖ block_hash(32) ‖ … ‖ delay(8);
// the proof occupies whatever lies between those two fixed ends.
const finalizationRecordFixedSize = 8 + 32 + 8

// FinalizationRecord is a proof that BlockPointer was finalized at
// Index, along with the configured finalization delay.
type FinalizationRecord struct {
	Index        FinalizationIndex
	BlockPointer BlockHash
	Proof        FinalizationProof
	Delay        Delta
}

// EncodeFinalizationRecord renders r as the complete wire datagram.
func EncodeFinalizationRecord(r FinalizationRecord) []byte {
	p := NewPacker(finalizationRecordFixedSize + 8 + len(r.Proof.Entries)*finalizationProofEntrySize)
	p.PackUint64(uint64(r.Index))
	encodeBlockHash(p, r.BlockPointer)
	p.PackFixedBytes(EncodeFinalizationProof(r.Proof))
	p.PackUint64(uint64(r.Delay))
	return p.Bytes
}

// DecodeFinalizationRecord parses a complete datagram produced by
// EncodeFinalizationRecord. The proof length is derived as
// total − 8 − 32 − 8, mirroring DecodeFinalizationMessage's treatment of
// its embedded WMVBA slice.
func DecodeFinalizationRecord(b []byte) (FinalizationRecord, error) {
	if len(b) < finalizationRecordFixedSize {
		return FinalizationRecord{}, fmt.Errorf("%w: finalization record shorter than %d bytes", ErrShortRead, finalizationRecordFixedSize)
	}

	head := NewUnpacker(b[:40])
	index := FinalizationIndex(head.UnpackUint64())
	blockPointer := decodeBlockHash(head)
	if err := head.Finish(); err != nil {
		return FinalizationRecord{}, err
	}

	proofBytes := b[40 : len(b)-8]
	proof, err := DecodeFinalizationProof(proofBytes)
	if err != nil {
		return FinalizationRecord{}, err
	}

	tail := NewUnpacker(b[len(b)-8:])
	delay := Delta(tail.UnpackUint64())
	if err := tail.Finish(); err != nil {
		return FinalizationRecord{}, err
	}

	return FinalizationRecord{Index: index, BlockPointer: blockPointer, Proof: proof, Delay: delay}, nil
}
