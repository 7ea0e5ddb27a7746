// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package wrappers carries over the teacher corpus's Errs aggregator
// (utils/wrappers/errors.go) unchanged in behavior: a thread-safe bag of
// independent errors that collapses to a single formatted error. This
// module's own Packer/Unpacker moved into internal/wire, generalized
// with byte-exact decode support the original lacked; only the error
// aggregator is reused as-is here.
package wrappers

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

// Errs is a collection of independent errors collected during a single
// validation or startup pass.
type Errs struct {
	mu   sync.RWMutex
	errs []error
}

// Add appends err to the collection. A nil err is a no-op, so callers
// can unconditionally Add the result of every check without an if.
func (e *Errs) Add(err error) {
	if err == nil {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.errs = append(e.errs, err)
}

// Errored reports whether any error has been added.
func (e *Errs) Errored() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.errs) > 0
}

// Err collapses the collection to a single error: nil if empty, the
// sole error if there is exactly one, or a combined multi-line error
// otherwise.
func (e *Errs) Err() error {
	e.mu.RLock()
	defer e.mu.RUnlock()
	switch len(e.errs) {
	case 0:
		return nil
	case 1:
		return e.errs[0]
	default:
		return errors.New(e.string())
	}
}

func (e *Errs) string() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d error", len(e.errs)))
	if len(e.errs) != 1 {
		sb.WriteString("s")
	}
	sb.WriteString(" occurred:")
	for _, err := range e.errs {
		sb.WriteString("\n\t* ")
		sb.WriteString(err.Error())
	}
	return sb.String()
}

// Len returns the number of errors collected so far.
func (e *Errs) Len() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.errs)
}
