// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package skov

import "errors"

// ErrAlreadyInitialized is returned by AddGenesis when genesis has
// already been set (spec.md §4.2 "Genesis re-insertion is forbidden").
var ErrAlreadyInitialized = errors.New("skov: genesis already initialized")

// ErrUnknownBlock is returned by AddFinalization when the record names a
// block absent from the block tree — a precondition violation the
// caller treats as fatal (spec.md §4.2: "if rec.block_pointer ∉
// block_tree → fatal").
var ErrUnknownBlock = errors.New("skov: finalization record names unknown block")

// ErrConflictingFinalization is returned by AddFinalization when a
// different record already occupies the same finalization index
// (spec.md §4.2 edge case: "the first accepted wins; subsequent records
// at the same index are rejected").
var ErrConflictingFinalization = errors.New("skov: conflicting finalization at index")
