// Copyright (c) 2026 The Tracebridge Authors.
// SPDX-License-Identifier: Apache-2.0

package tunnel

import "github.com/tracebridge/tracebridge/model"

// PersistedMetadata is a serializable snapshot of a receiver's ID-to-
// descriptor registry. Snapshots are additive: persisting into the same
// snapshot from successive receiver lifetimes only ever adds or overwrites
// entries.
type PersistedMetadata struct {
	CallSites map[model.MetadataID]*model.CallSite `json:"call_sites"`
}

// NewPersistedMetadata creates an empty metadata snapshot.
func NewPersistedMetadata() *PersistedMetadata {
	return &PersistedMetadata{CallSites: make(map[model.MetadataID]*model.CallSite)}
}

// Merge copies all entries of other into the snapshot, overwriting
// duplicates.
func (p *PersistedMetadata) Merge(other *PersistedMetadata) {
	if other == nil {
		return
	}
	if p.CallSites == nil {
		p.CallSites = make(map[model.MetadataID]*model.CallSite)
	}
	for id, data := range other.CallSites {
		p.CallSites[id] = data
	}
}

// PersistedSpans is a serializable snapshot of the spans that were open when
// it was taken, in creation order, with their last-known field values and
// parent links. Enter/exit counters are deliberately not part of the
// snapshot: spans restored from it start over with zeroed counters.
type PersistedSpans struct {
	Spans []PersistedSpan `json:"spans"`
}

// PersistedSpan is one open span in a PersistedSpans snapshot.
type PersistedSpan struct {
	ID         model.SpanID     `json:"id"`
	MetadataID model.MetadataID `json:"metadata_id"`
	ParentID   model.SpanID     `json:"parent_id,omitempty"`
	Values     *model.FieldMap  `json:"values"`
}
