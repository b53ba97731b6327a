// Copyright (c) 2026 The Tracebridge Authors.
// SPDX-License-Identifier: Apache-2.0

package capture

import (
	"iter"
	"sync"

	"github.com/tracebridge/tracebridge/model"
)

// SpanStats counts lifecycle transitions of a captured span.
type SpanStats struct {
	// Entered is the number of times the span was entered.
	Entered int
	// Exited is the number of times the span was exited.
	Exited int
	// Closed reports whether the span was closed.
	Closed bool
}

// Span is a span captured by a Store. Once appended it keeps its storage
// index for the lifetime of the store; only field merges and the stats
// block ever change afterward. Accessors that touch mutable state take the
// store lock, so spans handed out by a scan stay safe to use while
// instrumented code keeps appending.
type Span struct {
	store  *Store
	index  int
	site   *model.CallSite
	values *model.FieldMap
	parent int // span arena index, -1 for roots
	stats  SpanStats
}

// Index returns the span's stable storage index.
func (s *Span) Index() int {
	return s.index
}

// CallSite returns the descriptor of the span's call site.
func (s *Span) CallSite() *model.CallSite {
	return s.site
}

// Value returns the field value recorded under name, if any.
func (s *Span) Value(name string) (model.Value, bool) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	return s.values.Get(name)
}

// Values returns a copy of the span's accumulated field values.
func (s *Span) Values() *model.FieldMap {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	return s.values.Clone()
}

// Stats returns the span's lifecycle counters.
func (s *Span) Stats() SpanStats {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	return s.stats
}

// Parent returns the parent span, or nil for roots.
func (s *Span) Parent() *Span {
	if s.parent < 0 {
		return nil
	}
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	return s.store.spans[s.parent]
}

// Event is a one-shot event captured by a Store.
type Event struct {
	store  *Store
	index  int
	site   *model.CallSite
	values *model.FieldMap
	parent int // span arena index, -1 for unattached events
}

// Index returns the event's stable storage index.
func (e *Event) Index() int {
	return e.index
}

// CallSite returns the descriptor of the event's call site.
func (e *Event) CallSite() *model.CallSite {
	return e.site
}

// Value returns the field value recorded under name, if any. Event values
// never change after the append, so no locking is needed.
func (e *Event) Value(name string) (model.Value, bool) {
	return e.values.Get(name)
}

// Values returns the event's field values.
func (e *Event) Values() *model.FieldMap {
	return e.values
}

// Parent returns the span the event is attached to, or nil.
func (e *Event) Parent() *Span {
	if e.parent < 0 {
		return nil
	}
	e.store.mu.Lock()
	defer e.store.mu.Unlock()
	return e.store.spans[e.parent]
}

// Message returns the event's "message" field rendered as a string, whether
// it was recorded as a string or through the debug fallback.
func (e *Event) Message() (string, bool) {
	v, ok := e.values.Get("message")
	if !ok {
		return "", false
	}
	switch v.Type() {
	case model.StringType:
		return v.Str(), true
	case model.DebugType:
		return v.Debug(), true
	default:
		return "", false
	}
}

// Store materializes every observed span and event into an append-only
// arena with stable indices. Nothing is ever removed; parent linkage is a
// back-reference only, so descendant queries are scans rather than child
// lists. A single mutex guards every append, the arena snapshot taken at
// the start of a scan, and the mutable state behind span accessors; it is
// never held across caller-supplied code, predicates included.
type Store struct {
	mu     sync.Mutex
	sites  []*model.CallSite
	spans  []*Span
	events []*Event
}

// NewStore creates an empty capture store.
func NewStore() *Store {
	return &Store{}
}

// NewCallSite registers a call-site descriptor and returns its local
// metadata ID.
func (s *Store) NewCallSite(data *model.CallSite) model.MetadataID {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sites = append(s.sites, data)
	return model.MetadataID(len(s.sites))
}

// NewSpan appends a captured span and returns its ID, which is its arena
// index plus one.
func (s *Store) NewSpan(metadataID model.MetadataID, parentID model.SpanID, values *model.FieldMap) model.SpanID {
	s.mu.Lock()
	defer s.mu.Unlock()
	span := &Span{
		store:  s,
		index:  len(s.spans),
		site:   s.site(metadataID),
		values: values.Clone(),
		parent: s.spanIndex(parentID),
	}
	s.spans = append(s.spans, span)
	return model.SpanID(len(s.spans))
}

// RecordValues merges values into the captured span. Later updates
// overwrite by key without changing a key's original insertion position.
func (s *Store) RecordValues(id model.SpanID, values *model.FieldMap) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if span := s.span(id); span != nil {
		span.values.Merge(values)
	}
}

// EnterSpan increments the span's entered counter.
func (s *Store) EnterSpan(id model.SpanID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if span := s.span(id); span != nil {
		span.stats.Entered++
	}
}

// ExitSpan increments the span's exited counter.
func (s *Store) ExitSpan(id model.SpanID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if span := s.span(id); span != nil {
		span.stats.Exited++
	}
}

// CloseSpan marks the span as closed. The span itself stays in the store.
func (s *Store) CloseSpan(id model.SpanID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if span := s.span(id); span != nil {
		span.stats.Closed = true
	}
}

// NewEvent appends a captured event.
func (s *Store) NewEvent(metadataID model.MetadataID, parentID model.SpanID, values *model.FieldMap) {
	s.mu.Lock()
	defer s.mu.Unlock()
	event := &Event{
		store:  s,
		index:  len(s.events),
		site:   s.site(metadataID),
		values: values.Clone(),
		parent: s.spanIndex(parentID),
	}
	s.events = append(s.events, event)
}

// SpanCount returns the number of captured spans.
func (s *Store) SpanCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.spans)
}

// EventCount returns the number of captured events.
func (s *Store) EventCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.events)
}

// ScanSpans returns a lazy, restartable sequence of the spans matching
// pred, in capture order. A nil predicate matches everything. Each
// iteration reflects the store's contents at the time it starts.
func (s *Store) ScanSpans(pred Predicate) iter.Seq[*Span] {
	return func(yield func(*Span) bool) {
		for _, span := range s.matchSpans(pred) {
			if !yield(span) {
				return
			}
		}
	}
}

// ScanEvents returns a lazy, restartable sequence of the events matching
// pred, in capture order. A nil predicate matches everything.
func (s *Store) ScanEvents(pred Predicate) iter.Seq[*Event] {
	return func(yield func(*Event) bool) {
		for _, event := range s.matchEvents(pred, nil) {
			if !yield(event) {
				return
			}
		}
	}
}

// DeepScanEvents returns the events matching pred that are attached to root
// or to any transitive descendant of root — including root's own directly
// attached events, not only its descendants'.
func (s *Store) DeepScanEvents(root *Span, pred Predicate) iter.Seq[*Event] {
	return func(yield func(*Event) bool) {
		for _, event := range s.matchEvents(pred, root) {
			if !yield(event) {
				return
			}
		}
	}
}

// matchSpans freezes the arena under the lock, then evaluates the
// predicate unlocked. The arena is append-only, so the frozen slice stays
// valid, and predicates are free to query the store again.
func (s *Store) matchSpans(pred Predicate) []*Span {
	s.mu.Lock()
	spans := s.spans
	s.mu.Unlock()

	var matched []*Span
	for _, span := range spans {
		if pred == nil || pred(span) {
			matched = append(matched, span)
		}
	}
	return matched
}

func (s *Store) matchEvents(pred Predicate, root *Span) []*Event {
	s.mu.Lock()
	events := s.events
	s.mu.Unlock()

	var matched []*Event
	for _, event := range events {
		if root != nil && !s.under(event.parent, root.index) {
			continue
		}
		if pred == nil || pred(event) {
			matched = append(matched, event)
		}
	}
	return matched
}

// under reports whether the span arena index chain starting at idx passes
// through rootIndex. Parent indices are immutable once appended.
func (s *Store) under(idx, rootIndex int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for ; idx >= 0; idx = s.spans[idx].parent {
		if idx == rootIndex {
			return true
		}
	}
	return false
}

// site resolves a metadata ID to its descriptor; unknown IDs yield nil, not
// an error — the store never fails an append.
func (s *Store) site(id model.MetadataID) *model.CallSite {
	if id < 1 || int(id) > len(s.sites) {
		return nil
	}
	return s.sites[id-1]
}

func (s *Store) span(id model.SpanID) *Span {
	if idx := s.spanIndex(id); idx >= 0 {
		return s.spans[idx]
	}
	return nil
}

func (s *Store) spanIndex(id model.SpanID) int {
	if id < 1 || int(id) > len(s.spans) {
		return -1
	}
	return int(id) - 1
}
