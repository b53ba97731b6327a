// Copyright (c) 2026 The Tracebridge Authors.
// SPDX-License-Identifier: Apache-2.0

package tunnel

import (
	"errors"
	"sort"

	"go.uber.org/zap"

	"github.com/tracebridge/tracebridge/model"
)

var errEmptyRecord = errors.New("record carries no variant")

type callSiteState struct {
	data    *model.CallSite
	localID model.MetadataID
}

type spanState struct {
	localID    model.SpanID
	metadataID model.MetadataID
	parentID   model.SpanID // remote parent ID, 0 for roots
	values     *model.FieldMap
	seq        uint64
}

// Receiver consumes wire records in arrival order and reconstructs the
// spans and events they describe against a local Frontend, remapping the
// producer's session-local IDs onto the Frontend's. Errors are per-record
// and recoverable: a malformed or out-of-sync record never corrupts
// reconstruction of unrelated spans.
//
// Like Sender, Receiver performs no internal locking; concurrent
// consumption requires caller-provided mutual exclusion.
type Receiver struct {
	frontend Frontend
	logger   *zap.Logger

	metadata map[model.MetadataID]*callSiteState
	spans    map[model.SpanID]*spanState
	seq      uint64
}

// NewReceiver creates a receiver reconstructing into frontend, optionally
// seeded from persisted snapshots. A receiver seeded from the snapshots a
// previous receiver persisted behaves, for all subsequent records, as if it
// had processed the entire history that produced them — except that restored
// spans start with zeroed enter/exit counters (see PersistedSpans).
func NewReceiver(frontend Frontend, metadata *PersistedMetadata, spans *PersistedSpans, logger *zap.Logger) *Receiver {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Receiver{
		frontend: frontend,
		logger:   logger,
		metadata: make(map[model.MetadataID]*callSiteState),
		spans:    make(map[model.SpanID]*spanState),
	}
	if metadata != nil {
		for id, data := range metadata.CallSites {
			r.metadata[id] = &callSiteState{
				data:    data,
				localID: frontend.NewCallSite(data),
			}
		}
	}
	if spans != nil {
		for _, ps := range spans.Spans {
			r.restoreSpan(ps)
		}
	}
	return r
}

func (r *Receiver) restoreSpan(ps PersistedSpan) {
	cs, ok := r.metadata[ps.MetadataID]
	if !ok {
		r.logger.Warn("dropping restored span with unknown metadata",
			zap.Uint64("span_id", uint64(ps.ID)),
			zap.Uint64("metadata_id", uint64(ps.MetadataID)))
		return
	}
	var localParent model.SpanID
	if ps.ParentID != 0 {
		if parent, ok := r.spans[ps.ParentID]; ok {
			localParent = parent.localID
		} else {
			r.logger.Warn("restoring span without its parent",
				zap.Uint64("span_id", uint64(ps.ID)),
				zap.Uint64("parent_id", uint64(ps.ParentID)))
		}
	}
	values := ps.Values.Clone()
	r.seq++
	r.spans[ps.ID] = &spanState{
		localID:    r.frontend.NewSpan(cs.localID, localParent, values),
		metadataID: ps.MetadataID,
		parentID:   ps.ParentID,
		values:     values,
		seq:        r.seq,
	}
}

// Receive consumes a single record. The returned error reports a dangling
// reference in that record; processing of subsequent records is always
// possible, and for UnknownParentError the record has still taken effect,
// rooted as if parentless.
func (r *Receiver) Receive(rec model.Record) error {
	switch {
	case rec.NewCallSite != nil:
		r.onNewCallSite(rec.NewCallSite)
		return nil
	case rec.NewSpan != nil:
		return r.onNewSpan(rec.NewSpan)
	case rec.RecordValues != nil:
		return r.onRecordValues(rec.RecordValues)
	case rec.Enter != nil:
		state, err := r.span(rec.Enter.ID)
		if err != nil {
			return err
		}
		r.frontend.EnterSpan(state.localID)
		return nil
	case rec.Exit != nil:
		state, err := r.span(rec.Exit.ID)
		if err != nil {
			return err
		}
		r.frontend.ExitSpan(state.localID)
		return nil
	case rec.Close != nil:
		return r.onClose(rec.Close)
	case rec.NewEvent != nil:
		return r.onNewEvent(rec.NewEvent)
	default:
		return errEmptyRecord
	}
}

// ReceiveAll consumes records in order, reporting per-record errors through
// the logger and continuing with the rest of the stream. It returns the
// number of records that produced errors.
func (r *Receiver) ReceiveAll(records []model.Record) int {
	dropped := 0
	for i := range records {
		if err := r.Receive(records[i]); err != nil {
			dropped++
			r.logger.Warn("failed to apply record",
				zap.String("kind", records[i].Kind()),
				zap.Error(err))
		}
	}
	return dropped
}

// Duplicate metadata IDs overwrite the previous registration. This keeps a
// long-lived receiver usable against a restarted sender session, whose ID
// counter starts over.
func (r *Receiver) onNewCallSite(rec *model.NewCallSite) {
	r.metadata[rec.ID] = &callSiteState{
		data:    rec.Data,
		localID: r.frontend.NewCallSite(rec.Data),
	}
}

func (r *Receiver) onNewSpan(rec *model.NewSpan) error {
	cs, ok := r.metadata[rec.MetadataID]
	if !ok {
		return &UnknownMetadataError{ID: rec.MetadataID}
	}
	var parentErr error
	var localParent model.SpanID
	if rec.ParentID != 0 {
		if parent, ok := r.spans[rec.ParentID]; ok {
			localParent = parent.localID
		} else {
			// The span is still created, as a root: one dangling parent
			// reference must not abort the rest of the stream.
			parentErr = &UnknownParentError{ID: rec.ParentID}
		}
	}
	values := rec.Values.Clone()
	r.seq++
	// A duplicate span ID overwrites the previous mapping, matching the
	// last-write-wins policy for metadata IDs.
	r.spans[rec.ID] = &spanState{
		localID:    r.frontend.NewSpan(cs.localID, localParent, values),
		metadataID: rec.MetadataID,
		parentID:   rec.ParentID,
		values:     values,
		seq:        r.seq,
	}
	return parentErr
}

func (r *Receiver) onRecordValues(rec *model.RecordValues) error {
	state, err := r.span(rec.ID)
	if err != nil {
		return err
	}
	state.values.Merge(rec.Values)
	r.frontend.RecordValues(state.localID, rec.Values)
	return nil
}

func (r *Receiver) onClose(rec *model.SpanRef) error {
	state, err := r.span(rec.ID)
	if err != nil {
		return err
	}
	// Forward before unmapping: the local span's lifetime is independent of
	// remap-table membership.
	r.frontend.CloseSpan(state.localID)
	delete(r.spans, rec.ID)
	return nil
}

func (r *Receiver) onNewEvent(rec *model.NewEvent) error {
	cs, ok := r.metadata[rec.MetadataID]
	if !ok {
		return &UnknownMetadataError{ID: rec.MetadataID}
	}
	var parentErr error
	var localParent model.SpanID
	if rec.ParentID != 0 {
		if parent, ok := r.spans[rec.ParentID]; ok {
			localParent = parent.localID
		} else {
			parentErr = &UnknownParentError{ID: rec.ParentID}
		}
	}
	r.frontend.NewEvent(cs.localID, localParent, rec.Values)
	return parentErr
}

func (r *Receiver) span(id model.SpanID) (*spanState, error) {
	state, ok := r.spans[id]
	if !ok {
		return nil, &UnknownSpanError{ID: id}
	}
	return state, nil
}

// PersistMetadata copies the current registry contents into the snapshot.
// The copy is additive: existing snapshot entries stay untouched.
func (r *Receiver) PersistMetadata(snapshot *PersistedMetadata) {
	if snapshot.CallSites == nil {
		snapshot.CallSites = make(map[model.MetadataID]*model.CallSite)
	}
	for id, cs := range r.metadata {
		if _, ok := snapshot.CallSites[id]; !ok {
			snapshot.CallSites[id] = cs.data
		}
	}
}

// PersistSpans snapshots the currently open spans, in creation order, with
// their accumulated field values and parent links.
func (r *Receiver) PersistSpans() *PersistedSpans {
	states := make([]*spanState, 0, len(r.spans))
	ids := make(map[*spanState]model.SpanID, len(r.spans))
	for id, state := range r.spans {
		states = append(states, state)
		ids[state] = id
	}
	sort.Slice(states, func(i, j int) bool { return states[i].seq < states[j].seq })

	snapshot := &PersistedSpans{Spans: make([]PersistedSpan, len(states))}
	for i, state := range states {
		snapshot.Spans[i] = PersistedSpan{
			ID:         ids[state],
			MetadataID: state.metadataID,
			ParentID:   state.parentID,
			Values:     state.values.Clone(),
		}
	}
	return snapshot
}
