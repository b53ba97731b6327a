// Copyright (c) 2026 The Tracebridge Authors.
// SPDX-License-Identifier: Apache-2.0

package tunnel

import "github.com/tracebridge/tracebridge/model"

// Sender observes lifecycle callbacks and converts them into wire records
// passed synchronously to a caller-supplied sink. Call-site descriptors are
// deduplicated by value identity for the sender's lifetime, so each distinct
// descriptor produces exactly one NewCallSite record, emitted before
// anything that references its ID.
//
// The sink runs on the instrumentation call path and must not block
// indefinitely. Sender performs no internal locking: when callbacks arrive
// from multiple goroutines the caller provides mutual exclusion, e.g. by
// wrapping the Sender in a mutex.
type Sender struct {
	sink func(model.Record)

	callSites    map[string]model.MetadataID
	nextMetadata model.MetadataID
	nextSpan     model.SpanID
	open         map[model.SpanID]struct{}
}

var _ Frontend = (*Sender)(nil)

// NewSender creates a sender emitting records into sink.
func NewSender(sink func(model.Record)) *Sender {
	return &Sender{
		sink:      sink,
		callSites: make(map[string]model.MetadataID),
		open:      make(map[model.SpanID]struct{}),
	}
}

// NewCallSite implements Frontend. The first observation of a descriptor
// assigns the next metadata ID and emits a NewCallSite record; subsequent
// observations of an equal descriptor reuse the cached ID silently.
func (s *Sender) NewCallSite(data *model.CallSite) model.MetadataID {
	key := data.Key()
	if id, ok := s.callSites[key]; ok {
		return id
	}
	s.nextMetadata++
	id := s.nextMetadata
	s.callSites[key] = id
	s.sink(model.Record{NewCallSite: &model.NewCallSite{ID: id, Data: data.Clone()}})
	return id
}

// NewSpan implements Frontend.
func (s *Sender) NewSpan(metadataID model.MetadataID, parentID model.SpanID, values *model.FieldMap) model.SpanID {
	s.nextSpan++
	id := s.nextSpan
	s.open[id] = struct{}{}
	s.sink(model.Record{NewSpan: &model.NewSpan{
		ID:         id,
		ParentID:   parentID,
		MetadataID: metadataID,
		Values:     values.Clone(),
	}})
	return id
}

// RecordValues implements Frontend. Records for unknown or closed spans are
// dropped: Close is terminal on the wire.
func (s *Sender) RecordValues(id model.SpanID, values *model.FieldMap) {
	if !s.isOpen(id) {
		return
	}
	s.sink(model.Record{RecordValues: &model.RecordValues{ID: id, Values: values.Clone()}})
}

// EnterSpan implements Frontend.
func (s *Sender) EnterSpan(id model.SpanID) {
	if !s.isOpen(id) {
		return
	}
	s.sink(model.Record{Enter: &model.SpanRef{ID: id}})
}

// ExitSpan implements Frontend.
func (s *Sender) ExitSpan(id model.SpanID) {
	if !s.isOpen(id) {
		return
	}
	s.sink(model.Record{Exit: &model.SpanRef{ID: id}})
}

// CloseSpan implements Frontend. The Close record is emitted exactly once
// per span; repeated closes are dropped.
func (s *Sender) CloseSpan(id model.SpanID) {
	if !s.isOpen(id) {
		return
	}
	delete(s.open, id)
	s.sink(model.Record{Close: &model.SpanRef{ID: id}})
}

// NewEvent implements Frontend. An event whose parent is unknown or closed
// is emitted as a root event.
func (s *Sender) NewEvent(metadataID model.MetadataID, parentID model.SpanID, values *model.FieldMap) {
	if parentID != 0 && !s.isOpen(parentID) {
		parentID = 0
	}
	s.sink(model.Record{NewEvent: &model.NewEvent{
		MetadataID: metadataID,
		ParentID:   parentID,
		Values:     values.Clone(),
	}})
}

func (s *Sender) isOpen(id model.SpanID) bool {
	_, ok := s.open[id]
	return ok
}
