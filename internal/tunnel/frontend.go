// Copyright (c) 2026 The Tracebridge Authors.
// SPDX-License-Identifier: Apache-2.0

package tunnel

import "github.com/tracebridge/tracebridge/model"

// Frontend receives span and event lifecycle callbacks. It is implemented
// both by tracing destinations that a Receiver reconstructs into and by
// observers, such as a Sender or a capture store, that sit where the
// callbacks originate.
//
// A zero parent ID means the span or event is a root. Implementations
// assign their own IDs; callers must not assume any relation between IDs
// returned by different implementations.
type Frontend interface {
	// NewCallSite registers a call-site descriptor and returns the ID to
	// use when referencing it in subsequent callbacks.
	NewCallSite(data *model.CallSite) model.MetadataID
	// NewSpan creates a span with initial field values and returns its ID.
	NewSpan(metadataID model.MetadataID, parentID model.SpanID, values *model.FieldMap) model.SpanID
	// RecordValues merges additional field values into an open span.
	RecordValues(id model.SpanID, values *model.FieldMap)
	// EnterSpan marks the span as entered; spans may be re-entered.
	EnterSpan(id model.SpanID)
	// ExitSpan marks the span as exited.
	ExitSpan(id model.SpanID)
	// CloseSpan closes the span. No callback may reference the ID afterward.
	CloseSpan(id model.SpanID)
	// NewEvent emits a one-shot event.
	NewEvent(metadataID model.MetadataID, parentID model.SpanID, values *model.FieldMap)
}
