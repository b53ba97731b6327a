// Copyright (c) 2026 The Tracebridge Authors.
// SPDX-License-Identifier: Apache-2.0

package app

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/tracebridge/tracebridge/internal/capture"
	"github.com/tracebridge/tracebridge/internal/storage/snapshotstore"
	"github.com/tracebridge/tracebridge/internal/tunnel"
	"github.com/tracebridge/tracebridge/model"
)

// Replay reads a record stream, applies it to a fresh capture store through
// a receiver seeded from the session's persisted snapshots, and logs a
// summary of what was captured.
func Replay(cfg Config, logger *zap.Logger) error {
	in, err := openInput(cfg.Input)
	if err != nil {
		return err
	}
	defer in.Close()

	records, err := model.ReadRecords(in)
	if err != nil {
		return fmt.Errorf("reading records: %w", err)
	}

	snapshots, err := snapshotstore.Open(cfg.StateDir, logger)
	if err != nil {
		return fmt.Errorf("opening snapshot store: %w", err)
	}
	defer snapshots.Close()

	metadata, err := snapshots.LoadMetadata(cfg.Session)
	if err != nil {
		return fmt.Errorf("loading metadata snapshot: %w", err)
	}
	spans, err := snapshots.LoadSpans(cfg.Session)
	if err != nil {
		return fmt.Errorf("loading span snapshot: %w", err)
	}

	store := capture.NewStore()
	receiver := tunnel.NewReceiver(store, metadata, spans, logger)
	failed := receiver.ReceiveAll(records)

	metricUpdates := 0
	for event := range store.ScanEvents(nil) {
		if _, ok := capture.AsMetricUpdate(event); ok {
			metricUpdates++
		}
	}
	logger.Info("replay complete",
		zap.Int("records", len(records)),
		zap.Int("failed", failed),
		zap.Int("spans", store.SpanCount()),
		zap.Int("events", store.EventCount()),
		zap.Int("metric_updates", metricUpdates))

	if cfg.Save {
		receiver.PersistMetadata(metadata)
		persisted := receiver.PersistSpans()
		if err := snapshots.SaveMetadata(cfg.Session, metadata); err != nil {
			return fmt.Errorf("saving metadata snapshot: %w", err)
		}
		if err := snapshots.SaveSpans(cfg.Session, persisted); err != nil {
			return fmt.Errorf("saving span snapshot: %w", err)
		}
		logger.Info("snapshots saved",
			zap.String("session", cfg.Session),
			zap.Int("call_sites", len(metadata.CallSites)),
			zap.Int("alive_spans", len(persisted.Spans)))
	}
	return nil
}

func openInput(path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	return os.Open(path)
}
