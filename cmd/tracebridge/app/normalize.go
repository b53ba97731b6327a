// Copyright (c) 2026 The Tracebridge Authors.
// SPDX-License-Identifier: Apache-2.0

package app

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/tracebridge/tracebridge/internal/tunnel"
	"github.com/tracebridge/tracebridge/model"
)

// Normalize reads a record stream, rewrites its metadata and span IDs into
// first-appearance order with line numbers stripped, and writes the result.
func Normalize(cfg Config, logger *zap.Logger) error {
	in, err := openInput(cfg.Input)
	if err != nil {
		return err
	}
	defer in.Close()

	records, err := model.ReadRecords(in)
	if err != nil {
		return fmt.Errorf("reading records: %w", err)
	}

	out := os.Stdout
	if cfg.Output != "-" {
		out, err = os.Create(cfg.Output)
		if err != nil {
			return err
		}
		defer out.Close()
	}

	normalized := tunnel.Normalize(records)
	if err := model.WriteRecords(out, normalized); err != nil {
		return fmt.Errorf("writing records: %w", err)
	}
	logger.Info("normalized record stream", zap.Int("records", len(normalized)))
	return nil
}
