// Copyright (c) 2026 The Tracebridge Authors.
// SPDX-License-Identifier: Apache-2.0

package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tracebridge/tracebridge/internal/storage/snapshotstore"
	"github.com/tracebridge/tracebridge/model"
)

func writeStream(t *testing.T, records []model.Record) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "stream.jsonl")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, model.WriteRecords(f, records))
	require.NoError(t, f.Close())
	return path
}

func computeStream() []model.Record {
	site := &model.CallSite{
		Kind:       model.KindSpan,
		Name:       "compute",
		Target:     "app",
		Level:      model.LevelInfo,
		FieldNames: []string{"num"},
	}
	values := model.NewFieldMap()
	values.Set("num", model.Int64Value(42))
	return []model.Record{
		{NewCallSite: &model.NewCallSite{ID: 1, Data: site}},
		{NewSpan: &model.NewSpan{ID: 1, MetadataID: 1, Values: values}},
		{Enter: &model.SpanRef{ID: 1}},
		{Exit: &model.SpanRef{ID: 1}},
	}
}

func TestReplaySavesSnapshots(t *testing.T) {
	stateDir := t.TempDir()
	cfg := Config{
		Input:    writeStream(t, computeStream()),
		StateDir: stateDir,
		Session:  "test",
		Save:     true,
	}
	require.NoError(t, Replay(cfg, zap.NewNop()))

	store, err := snapshotstore.Open(stateDir, nil)
	require.NoError(t, err)
	defer store.Close()

	metadata, err := store.LoadMetadata("test")
	require.NoError(t, err)
	require.Len(t, metadata.CallSites, 1)
	assert.Equal(t, "compute", metadata.CallSites[1].Name)

	spans, err := store.LoadSpans("test")
	require.NoError(t, err)
	require.Len(t, spans.Spans, 1)
	assert.Equal(t, model.SpanID(1), spans.Spans[0].ID)
}

func TestReplayResumesFromSavedSession(t *testing.T) {
	stateDir := t.TempDir()
	cfg := Config{
		Input:    writeStream(t, computeStream()),
		StateDir: stateDir,
		Session:  "resume",
		Save:     true,
	}
	require.NoError(t, Replay(cfg, zap.NewNop()))

	// The continuation closes the span that the first replay left open;
	// only the seeded snapshot makes its span ID resolvable.
	cfg.Input = writeStream(t, []model.Record{
		{Close: &model.SpanRef{ID: 1}},
	})
	require.NoError(t, Replay(cfg, zap.NewNop()))

	store, err := snapshotstore.Open(stateDir, nil)
	require.NoError(t, err)
	defer store.Close()
	spans, err := store.LoadSpans("resume")
	require.NoError(t, err)
	assert.Empty(t, spans.Spans)
}

func TestInitFromArgs(t *testing.T) {
	cfg := Config{Input: "-"}
	cfg.InitFromArgs(nil)
	assert.Equal(t, "-", cfg.Input)

	cfg.InitFromArgs([]string{"trace.jsonl"})
	assert.Equal(t, "trace.jsonl", cfg.Input)
}

func TestReplayAcceptsPositionalInput(t *testing.T) {
	cfg := Config{Input: "-"}
	cfg.InitFromArgs([]string{writeStream(t, computeStream())})
	require.NoError(t, Replay(cfg, zap.NewNop()))
}

func TestReplayMissingInputFile(t *testing.T) {
	cfg := Config{Input: filepath.Join(t.TempDir(), "absent.jsonl")}
	require.Error(t, Replay(cfg, zap.NewNop()))
}

func TestNormalizeWritesCanonicalStream(t *testing.T) {
	records := computeStream()
	records[0].NewCallSite.ID = 40
	records[1].NewSpan.ID = 7
	records[1].NewSpan.MetadataID = 40
	records[2].Enter.ID = 7
	records[3].Exit.ID = 7

	outPath := filepath.Join(t.TempDir(), "out.jsonl")
	cfg := Config{
		Input:  writeStream(t, records),
		Output: outPath,
	}
	require.NoError(t, Normalize(cfg, zap.NewNop()))

	f, err := os.Open(outPath)
	require.NoError(t, err)
	defer f.Close()
	normalized, err := model.ReadRecords(f)
	require.NoError(t, err)
	require.Len(t, normalized, 4)
	assert.Equal(t, model.MetadataID(1), normalized[0].NewCallSite.ID)
	assert.Equal(t, model.SpanID(1), normalized[1].NewSpan.ID)
	assert.Equal(t, model.SpanID(1), normalized[3].Exit.ID)
}
