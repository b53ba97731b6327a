// Copyright (c) 2026 The Tracebridge Authors.
// SPDX-License-Identifier: Apache-2.0

package tunnel

import "github.com/tracebridge/tracebridge/model"

// Normalize rewrites a record sequence into a canonical form suitable for
// snapshot-style equality assertions. Metadata and span IDs are renumbered
// to small sequential integers in order of first appearance, and source
// line numbers are stripped from call-site descriptors, so two runs that
// emit logically identical streams compare equal even though raw IDs and
// code positions differ. Field values and descriptor names, targets and
// levels are left untouched. Normalization is pure and idempotent.
func Normalize(records []model.Record) []model.Record {
	n := normalizer{
		metadataIDs: make(map[model.MetadataID]model.MetadataID),
		spanIDs:     make(map[model.SpanID]model.SpanID),
	}
	out := make([]model.Record, len(records))
	for i := range records {
		out[i] = n.record(records[i])
	}
	return out
}

type normalizer struct {
	metadataIDs map[model.MetadataID]model.MetadataID
	spanIDs     map[model.SpanID]model.SpanID
}

func (n *normalizer) metadata(id model.MetadataID) model.MetadataID {
	if mapped, ok := n.metadataIDs[id]; ok {
		return mapped
	}
	mapped := model.MetadataID(len(n.metadataIDs) + 1)
	n.metadataIDs[id] = mapped
	return mapped
}

func (n *normalizer) span(id model.SpanID) model.SpanID {
	if id == 0 {
		return 0
	}
	if mapped, ok := n.spanIDs[id]; ok {
		return mapped
	}
	mapped := model.SpanID(len(n.spanIDs) + 1)
	n.spanIDs[id] = mapped
	return mapped
}

func (n *normalizer) record(rec model.Record) model.Record {
	switch {
	case rec.NewCallSite != nil:
		data := rec.NewCallSite.Data.Clone()
		if data != nil {
			data.Line = 0
		}
		return model.Record{NewCallSite: &model.NewCallSite{
			ID:   n.metadata(rec.NewCallSite.ID),
			Data: data,
		}}
	case rec.NewSpan != nil:
		return model.Record{NewSpan: &model.NewSpan{
			ID:         n.span(rec.NewSpan.ID),
			ParentID:   n.span(rec.NewSpan.ParentID),
			MetadataID: n.metadata(rec.NewSpan.MetadataID),
			Values:     rec.NewSpan.Values,
		}}
	case rec.RecordValues != nil:
		return model.Record{RecordValues: &model.RecordValues{
			ID:     n.span(rec.RecordValues.ID),
			Values: rec.RecordValues.Values,
		}}
	case rec.Enter != nil:
		return model.Record{Enter: &model.SpanRef{ID: n.span(rec.Enter.ID)}}
	case rec.Exit != nil:
		return model.Record{Exit: &model.SpanRef{ID: n.span(rec.Exit.ID)}}
	case rec.Close != nil:
		return model.Record{Close: &model.SpanRef{ID: n.span(rec.Close.ID)}}
	case rec.NewEvent != nil:
		return model.Record{NewEvent: &model.NewEvent{
			MetadataID: n.metadata(rec.NewEvent.MetadataID),
			ParentID:   n.span(rec.NewEvent.ParentID),
			Values:     rec.NewEvent.Values,
		}}
	default:
		return rec
	}
}
