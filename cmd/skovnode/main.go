// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Command skovnode wires a block tree, a pair of priority mailboxes,
// and an engine adapter into a single running process. It owns no
// networking or transport of its own (out of scope, spec.md §1); it
// exists to exercise the wiring between the packages this module
// implements the way a real node's main would.
package main

import (
	"context"
	"encoding/binary"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/luxfi/database/memdb"
	"github.com/luxfi/ids"

	"github.com/luxfi/skov/config"
	"github.com/luxfi/skov/engine"
	"github.com/luxfi/skov/engine/enginemock"
	"github.com/luxfi/skov/internal/cache"
	"github.com/luxfi/skov/internal/logging"
	"github.com/luxfi/skov/internal/metrics"
	"github.com/luxfi/skov/internal/wire"
	"github.com/luxfi/skov/mailbox"
	"github.com/luxfi/skov/skov"
)

func main() {
	network := flag.String("network", "local", "network profile: local or custom")
	flag.Parse()

	cfg := config.Default()
	if *network != "local" {
		fmt.Fprintf(os.Stderr, "unknown network profile %q, using local defaults\n", *network)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New()

	// Counters are registered and updated, but no HTTP endpoint is
	// started: metrics export is out of scope for this process
	// (spec.md §1's non-goals).
	reg := prometheus.NewRegistry()
	metricsReg, err := metrics.NewRegistry(reg, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to register metrics: %v\n", err)
		os.Exit(1)
	}

	tree := skov.New(logger, noopTxTable{}).WithMetrics(metricsReg.FinalizedHeight)
	if err := tree.AddGenesis(&skov.BlockPtr{Hash: ids.Empty}); err != nil {
		fmt.Fprintf(os.Stderr, "genesis install failed: %v\n", err)
		os.Exit(1)
	}
	penalizer := &loggingPenalizer{log: logger}

	// Block-hash cache overflows evicted entries to a persistent sink
	// (spec.md §2 item 2); memdb stands in for whatever on-disk database
	// a full node would open, since persistence itself is out of scope
	// (spec.md §1 Non-goals) — only the narrow Database interface this
	// cache consumes is exercised here.
	heightCache := cache.New[skov.BlockHeight](
		cfg.BlockHashCacheSize,
		cache.NewDatabaseSink(memdb.New()),
		marshalHeight,
		func(key [32]byte, err error) { logger.Warn("block-hash cache eviction failed", "key", key, "err", err) },
	)

	inbound := mailbox.New(cfg.DepthHi, cfg.DepthLo).
		WithMetrics(metricsReg.InboundQueueDepthHigh, metricsReg.InboundQueueDepthLow)
	outbound := mailbox.New(cfg.DepthHi, cfg.DepthLo).
		WithMetrics(metricsReg.OutboundQueueDepthHigh, metricsReg.OutboundQueueDepthLow)

	inboundDispatcher := mailbox.NewDispatcher(inbound, cfg.DispatchQuota, logger, "inbound").
		WithMetrics(metricsReg.DrainCount, metricsReg.DropCount)
	outboundDispatcher := mailbox.NewDispatcher(outbound, cfg.DispatchQuota, logger, "outbound").
		WithMetrics(metricsReg.DrainCount, metricsReg.DropCount)

	eng := enginemock.NewMockEngine(nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := eng.Start(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "engine start failed: %v\n", err)
		os.Exit(1)
	}

	inboundDone := make(chan struct{})
	go func() {
		defer close(inboundDone)
		inboundDispatcher.Run(func(e mailbox.Envelope) {
			handleInbound(ctx, tree, eng, penalizer, heightCache, e)
		})
	}()
	outboundDone := make(chan struct{})
	go func() {
		defer close(outboundDone)
		outboundDispatcher.Run(func(mailbox.Envelope) {
			// Outbound delivery is the transport layer's concern
			// (out of scope, spec.md §1); this dispatcher only drains
			// the queue so backpressure and fairness remain exercised.
		})
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Info("shutdown signal received")
	inbound.Stop()
	outbound.Stop()
	<-inboundDone
	<-outboundDone

	if err := eng.Stop(ctx); err != nil {
		logger.Error("engine stop failed", "err", err)
	}
}

// handleInbound offers a block or finalization-record envelope to the
// tree (spec.md §2's data flow: "inbound dispatcher → (Skov mutation and
// engine delivery)") before delivering the same bytes to the engine, and
// on an Invalid verdict reports the source peer to penalizer (spec.md
// §7's "peer penalty at the network layer"). Skov mutation and engine
// delivery are independent outcomes: a block the tree defers as
// AwaitingParent may still be a well-formed delivery from the engine's
// point of view, and vice versa.
func handleInbound(ctx context.Context, tree *skov.Skov, eng engine.Engine, penalizer engine.PeerPenalizer, heightCache *cache.BlockHashCache[skov.BlockHeight], e mailbox.Envelope) {
	mutateTree(tree, heightCache, e)

	verdict, err := deliver(ctx, eng, e)
	if err != nil {
		return
	}
	verdict = engine.MustVerdict(verdict)
	if verdict == engine.Invalid {
		penalizer.PenalizePeer(e.Source, e.Kind.String())
	}
}

// mutateTree decodes and applies e's wire payload against the block
// tree, if e carries a kind the tree tracks. Decode or tree-mutation
// failures are dropped silently: engine delivery still proceeds, since
// the two are independent per the data flow above.
func mutateTree(tree *skov.Skov, heightCache *cache.BlockHashCache[skov.BlockHeight], e mailbox.Envelope) {
	switch e.Kind {
	case mailbox.KindBlock:
		ref, err := wire.DecodeBlockRef(e.Bytes)
		if err != nil {
			return
		}
		result := tree.AddBlock(skov.PendingBlock{
			Hash:                  ref.Hash,
			ParentHash:            ref.ParentHash,
			DeclaredLastFinalized: ref.DeclaredLastFinalized,
			Slot:                  ref.Slot,
			Payload:               ref.Payload,
		})
		if result.Ptr != nil {
			heightCache.Put([32]byte(result.Ptr.Hash), result.Ptr.Height)
		}
	case mailbox.KindFinalizationRecord:
		rec, err := wire.DecodeFinalizationRecord(e.Bytes)
		if err != nil {
			return
		}
		tree.AddFinalization(skov.FinalizationRecord{
			Index:        rec.Index,
			BlockPointer: rec.BlockPointer,
			Proof:        rec.Proof,
			Delay:        rec.Delay,
		})
	}
}

func deliver(ctx context.Context, eng engine.Engine, e mailbox.Envelope) (engine.Verdict, error) {
	switch e.Kind {
	case mailbox.KindBlock:
		return eng.DeliverBlock(ctx, e.Bytes)
	case mailbox.KindFinalizationMessage:
		return eng.DeliverFinalizationMessage(ctx, e.Bytes)
	case mailbox.KindFinalizationRecord:
		return eng.DeliverFinalizationRecord(ctx, e.Bytes)
	case mailbox.KindTransaction:
		return eng.DeliverTransaction(ctx, e.Bytes)
	case mailbox.KindCatchUpStatus:
		status, err := wire.DecodeCatchUpStatus(e.Bytes)
		if err != nil {
			return engine.Accepted, err
		}
		return eng.DeliverCatchUpStatus(ctx, e.Source, status, 0)
	default:
		return engine.Accepted, nil
	}
}

// loggingPenalizer is the in-process PeerPenalizer this command wires
// in: it has no networking layer to actually ban a peer (out of scope,
// spec.md §1), so it logs the penalty decision instead.
type loggingPenalizer struct {
	log interface {
		Warn(msg string, ctx ...interface{})
	}
}

func (p *loggingPenalizer) PenalizePeer(peer ids.NodeID, reason string) {
	p.log.Warn("penalizing peer", "peer", peer, "reason", reason)
}

// marshalHeight renders a cached block height as 8 big-endian bytes for
// the database-backed eviction sink.
func marshalHeight(h skov.BlockHeight) ([]byte, error) {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, uint64(h))
	return b, nil
}

type noopTxTable struct{}

func (noopTxTable) Size() int { return 0 }
