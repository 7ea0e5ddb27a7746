// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package wire implements the byte-exact, big-endian codec for the
// finalization message family (WMVBA), finalization records/proofs, and
// block references that cross the network wire.
package wire

import "errors"

// ErrShortRead is returned when a decoder needs more bytes than remain in
// the input buffer.
var ErrShortRead = errors.New("wire: short read")

// ErrTrailingBytes is returned when a decoder finishes before consuming
// the entire input buffer. The round-trip property requires that
// re-encoding a decoded value reproduce the input exactly, so any
// unconsumed suffix is malformed.
var ErrTrailingBytes = errors.New("wire: trailing bytes")

// ErrUnsupportedVariant is returned when a WMVBA discriminant byte does
// not match any known variant.
var ErrUnsupportedVariant = errors.New("wire: unsupported variant")

// ErrMalformedFrame is the category Unpacker.Finish reports when a
// field read ran past the end of the input; that error also matches
// ErrShortRead. It is not attached to ErrTrailingBytes, to
// ErrUnsupportedVariant, or to the length checks the top-level decoders
// make before unpacking, which return ErrShortRead alone.
var ErrMalformedFrame = errors.New("wire: malformed frame")
