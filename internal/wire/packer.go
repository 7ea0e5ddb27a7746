// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package wire

import "fmt"

// Packer appends fixed-width, big-endian fields to a growing byte slice.
// Modeled on the teacher corpus's utils/wrappers.Packer, generalized with
// an Unpacker counterpart since the consensus wire formats must decode
// byte-for-byte, not just encode.
type Packer struct {
	Bytes []byte
}

// NewPacker returns a Packer with capacity pre-reserved for sizeHint
// bytes. sizeHint is advisory; the slice still grows past it.
func NewPacker(sizeHint int) *Packer {
	return &Packer{Bytes: make([]byte, 0, sizeHint)}
}

// PackByte appends a single byte.
func (p *Packer) PackByte(b byte) {
	p.Bytes = append(p.Bytes, b)
}

// PackFixedBytes appends b verbatim, with no length prefix. Used for
// hashes, signatures, and tickets whose width is implied by the field's
// position in the frame.
func (p *Packer) PackFixedBytes(b []byte) {
	p.Bytes = append(p.Bytes, b...)
}

// PackUint32 appends v as 4 big-endian bytes.
func (p *Packer) PackUint32(v uint32) {
	p.Bytes = append(p.Bytes, byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
}

// PackUint64 appends v as 8 big-endian bytes.
func (p *Packer) PackUint64(v uint64) {
	p.Bytes = append(p.Bytes,
		byte(v>>56), byte(v>>48), byte(v>>40), byte(v>>32),
		byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
}

// Unpacker consumes fixed-width, big-endian fields from a fixed byte
// slice, tracking how many bytes remain. It never reads past the end of
// Bytes; reads beyond what remains set Err to ErrShortRead and return the
// zero value, so a caller can chain several Unpack calls and check Err
// once at the end.
type Unpacker struct {
	Bytes  []byte
	Offset int
	Err    error
}

// NewUnpacker wraps b for sequential decoding.
func NewUnpacker(b []byte) *Unpacker {
	return &Unpacker{Bytes: b}
}

func (u *Unpacker) need(n int) bool {
	if u.Err != nil {
		return false
	}
	if u.Offset+n > len(u.Bytes) {
		u.Err = fmt.Errorf("%w: need %d bytes at offset %d, have %d", ErrShortRead, n, u.Offset, len(u.Bytes))
		return false
	}
	return true
}

// UnpackByte consumes and returns a single byte.
func (u *Unpacker) UnpackByte() byte {
	if !u.need(1) {
		return 0
	}
	b := u.Bytes[u.Offset]
	u.Offset++
	return b
}

// UnpackFixedBytes consumes and returns the next n bytes, copied so the
// caller may retain them beyond the Unpacker's lifetime.
func (u *Unpacker) UnpackFixedBytes(n int) []byte {
	if !u.need(n) {
		return nil
	}
	out := make([]byte, n)
	copy(out, u.Bytes[u.Offset:u.Offset+n])
	u.Offset += n
	return out
}

// UnpackUint32 consumes 4 big-endian bytes.
func (u *Unpacker) UnpackUint32() uint32 {
	if !u.need(4) {
		return 0
	}
	b := u.Bytes[u.Offset : u.Offset+4]
	u.Offset += 4
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}

// UnpackUint64 consumes 8 big-endian bytes.
func (u *Unpacker) UnpackUint64() uint64 {
	if !u.need(8) {
		return 0
	}
	b := u.Bytes[u.Offset : u.Offset+8]
	u.Offset += 8
	return uint64(b[0])<<56 | uint64(b[1])<<48 | uint64(b[2])<<40 | uint64(b[3])<<32 |
		uint64(b[4])<<24 | uint64(b[5])<<16 | uint64(b[6])<<8 | uint64(b[7])
}

// Remaining returns the number of unconsumed bytes.
func (u *Unpacker) Remaining() int {
	return len(u.Bytes) - u.Offset
}

// Finish returns ErrTrailingBytes if any bytes remain unconsumed, or the
// sticky decode error encountered along the way. Every top-level Decode*
// function must call this before returning success, to uphold the
// round-trip property (property 2 in the test matrix: decode(b‖extra)
// must fail).
func (u *Unpacker) Finish() error {
	if u.Err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedFrame, u.Err)
	}
	if u.Remaining() != 0 {
		return fmt.Errorf("%w: %d unconsumed byte(s)", ErrTrailingBytes, u.Remaining())
	}
	return nil
}
