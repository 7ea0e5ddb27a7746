// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package wire

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func sampleSignature(seed byte) Signature {
	var s Signature
	for i := range s {
		s[i] = seed
	}
	return s
}

func TestFinalizationMessageHeaderRoundTrip(t *testing.T) {
	h := FinalizationMessageHeader{
		Session: hashOf(1),
		Index:   42,
		Delta:   7,
		Sender:  3,
	}
	encoded := EncodeFinalizationMessageHeader(h)
	require.Len(t, encoded, finalizationHeaderSize)

	decoded, err := DecodeFinalizationMessageHeader(encoded)
	require.NoError(t, err)
	require.Equal(t, h, decoded)
}

func TestFinalizationMessageHeaderWrongLength(t *testing.T) {
	_, err := DecodeFinalizationMessageHeader(make([]byte, finalizationHeaderSize-1))
	require.ErrorIs(t, err, ErrShortRead)

	_, err = DecodeFinalizationMessageHeader(make([]byte, finalizationHeaderSize+1))
	require.ErrorIs(t, err, ErrTrailingBytes)
}

func TestFinalizationMessageRoundTrip(t *testing.T) {
	msg := FinalizationMessage{
		Header: FinalizationMessageHeader{
			Session: hashOf(2),
			Index:   5,
			Delta:   1,
			Sender:  9,
		},
		Message:   Proposal{Value: hashOf(3)},
		Signature: sampleSignature(0xAB),
	}

	encoded := EncodeFinalizationMessage(msg)
	decoded, err := DecodeFinalizationMessage(encoded)
	require.NoError(t, err)
	require.Equal(t, msg, decoded)
	require.Equal(t, encoded, EncodeFinalizationMessage(decoded))
}

func TestFinalizationMessageTrailingBytesRejected(t *testing.T) {
	msg := FinalizationMessage{
		Header:    FinalizationMessageHeader{Session: hashOf(1), Index: 1, Delta: 1, Sender: 1},
		Message:   AreWeDone{Done: true},
		Signature: sampleSignature(1),
	}
	encoded := EncodeFinalizationMessage(msg)
	withExtra := append(append([]byte{}, encoded...), 0x00)
	_, err := DecodeFinalizationMessage(withExtra)
	require.Error(t, err)
}

func TestFinalizationProofRoundTrip(t *testing.T) {
	proof := FinalizationProof{
		Entries: []FinalizationProofEntry{
			{PartyTag: 1, Signature: sampleSignature(1)},
			{PartyTag: 2, Signature: sampleSignature(2)},
		},
	}
	encoded := EncodeFinalizationProof(proof)
	decoded, err := DecodeFinalizationProof(encoded)
	require.NoError(t, err)
	require.Equal(t, proof, decoded)
}

func TestFinalizationProofEmptyRoundTrip(t *testing.T) {
	proof := FinalizationProof{Entries: []FinalizationProofEntry{}}
	encoded := EncodeFinalizationProof(proof)
	decoded, err := DecodeFinalizationProof(encoded)
	require.NoError(t, err)
	require.Empty(t, decoded.Entries)
}

func TestFinalizationRecordRoundTrip(t *testing.T) {
	rec := FinalizationRecord{
		Index:        3,
		BlockPointer: hashOf(9),
		Proof: FinalizationProof{
			Entries: []FinalizationProofEntry{
				{PartyTag: 1, Signature: sampleSignature(7)},
			},
		},
		Delay: 11,
	}
	encoded := EncodeFinalizationRecord(rec)
	decoded, err := DecodeFinalizationRecord(encoded)
	require.NoError(t, err)
	require.Equal(t, rec, decoded)
	require.Equal(t, encoded, EncodeFinalizationRecord(decoded))
}

func TestFinalizationRecordTrailingBytesRejected(t *testing.T) {
	rec := FinalizationRecord{Index: 0, BlockPointer: hashOf(0), Proof: FinalizationProof{}, Delay: 0}
	encoded := EncodeFinalizationRecord(rec)
	withExtra := append(append([]byte{}, encoded...), 0xFF)
	_, err := DecodeFinalizationRecord(withExtra)
	require.Error(t, err)
}

func TestFinalizationRecordShortRead(t *testing.T) {
	_, err := DecodeFinalizationRecord(make([]byte, 10))
	require.ErrorIs(t, err, ErrShortRead)
}

// TestSignaturePrefixPreserved locks in that the redundant 8-byte length
// prefix is carried through unchanged, never normalized (spec.md §4.1,
// §9 "Signature 8-byte prefix").
func TestSignaturePrefixPreserved(t *testing.T) {
	var sig Signature
	sig[0], sig[1] = 0xDE, 0xAD // a prefix that does not match the real payload length
	for i := 8; i < SignatureSize; i++ {
		sig[i] = byte(i)
	}
	rec := FinalizationRecord{Index: 1, BlockPointer: hashOf(1), Proof: FinalizationProof{
		Entries: []FinalizationProofEntry{{PartyTag: 0, Signature: sig}},
	}, Delay: 0}

	encoded := EncodeFinalizationRecord(rec)
	decoded, err := DecodeFinalizationRecord(encoded)
	require.NoError(t, err)
	require.Equal(t, sig, decoded.Proof.Entries[0].Signature)
	require.Equal(t, byte(0xDE), decoded.Proof.Entries[0].Signature[0])
}
