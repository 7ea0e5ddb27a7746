// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package logging supplies the one logger implementation this module
// owns itself: a no-op sink for tests and for callers that have not
// wired a real github.com/luxfi/log.Logger yet. Library packages take a
// log.Logger as a parameter; cmd/skovnode uses New from this package
// as its process logger.
package logging

import (
	"context"
	"log/slog"

	"github.com/luxfi/log"
	"go.uber.org/zap"
)

// NoOp is a log.Logger that discards everything. Grounded on the
// teacher corpus's log/nolog.go, which exists for exactly this reason:
// unit tests that need a Logger but don't want test output noise.
type NoOp struct{}

// New returns a no-op log.Logger.
func New() log.Logger {
	return NoOp{}
}

// Geth-style methods.

func (NoOp) With(ctx ...interface{}) log.Logger { return NoOp{} }
func (NoOp) New(ctx ...interface{}) log.Logger  { return NoOp{} }

func (NoOp) Log(level slog.Level, msg string, ctx ...interface{}) {}
func (NoOp) Trace(msg string, ctx ...interface{})                 {}
func (NoOp) Debug(msg string, ctx ...interface{})                 {}
func (NoOp) Info(msg string, ctx ...interface{})                  {}
func (NoOp) Warn(msg string, ctx ...interface{})                  {}
func (NoOp) Error(msg string, ctx ...interface{})                 {}
func (NoOp) Crit(msg string, ctx ...interface{})                  {}

func (NoOp) WriteLog(level slog.Level, msg string, attrs ...any) {}

func (NoOp) Enabled(ctx context.Context, level slog.Level) bool { return false }
func (NoOp) Handler() slog.Handler                              { return nil }

// Node-compatibility methods.

func (NoOp) Fatal(msg string, fields ...zap.Field)       {}
func (NoOp) Verbo(msg string, fields ...zap.Field)       {}
func (n NoOp) WithFields(fields ...zap.Field) log.Logger { return n }
func (n NoOp) WithOptions(opts ...zap.Option) log.Logger { return n }

func (NoOp) SetLevel(level slog.Level)        {}
func (NoOp) GetLevel() slog.Level             { return slog.Level(0) }
func (NoOp) EnabledLevel(lvl slog.Level) bool { return false }
func (NoOp) StopOnPanic()                     {}
func (NoOp) RecoverAndPanic(f func())         { f() }
func (NoOp) RecoverAndExit(f, exit func())    { f() }
func (NoOp) Stop()                            {}
func (NoOp) Write(p []byte) (n int, err error) { return len(p), nil }
