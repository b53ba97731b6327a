// Copyright (c) 2026 The Tracebridge Authors.
// SPDX-License-Identifier: Apache-2.0

package model

import (
	"bufio"
	"encoding/json"
	"io"
)

// Record is one element of the wire stream: an externally tagged union with
// exactly one of the variant pointers set. NewCallSite for a metadata ID
// always precedes any record referencing it; NewSpan precedes any record
// referencing its span ID; Close is terminal for a span ID.
type Record struct {
	NewCallSite  *NewCallSite  `json:"new_call_site,omitempty"`
	NewSpan      *NewSpan      `json:"new_span,omitempty"`
	RecordValues *RecordValues `json:"record_values,omitempty"`
	Enter        *SpanRef      `json:"enter,omitempty"`
	Exit         *SpanRef      `json:"exit,omitempty"`
	Close        *SpanRef      `json:"close,omitempty"`
	NewEvent     *NewEvent     `json:"new_event,omitempty"`
}

// NewCallSite announces a call-site descriptor and binds it to a metadata ID.
type NewCallSite struct {
	ID   MetadataID `json:"id"`
	Data *CallSite  `json:"data"`
}

// NewSpan announces a new span created from a previously announced call site.
// A zero ParentID means the span is a root.
type NewSpan struct {
	ID         SpanID     `json:"id"`
	ParentID   SpanID     `json:"parent_id,omitempty"`
	MetadataID MetadataID `json:"metadata_id"`
	Values     *FieldMap  `json:"values"`
}

// RecordValues merges additional field values into an open span.
type RecordValues struct {
	ID     SpanID    `json:"id"`
	Values *FieldMap `json:"values"`
}

// SpanRef references an open span in Enter, Exit and Close records.
type SpanRef struct {
	ID SpanID `json:"id"`
}

// NewEvent announces a one-shot event. A zero ParentID means the event is
// not attached to any span.
type NewEvent struct {
	MetadataID MetadataID `json:"metadata_id"`
	ParentID   SpanID     `json:"parent_id,omitempty"`
	Values     *FieldMap  `json:"values"`
}

// Kind names the variant held by the record, for logging.
func (r *Record) Kind() string {
	switch {
	case r.NewCallSite != nil:
		return "new_call_site"
	case r.NewSpan != nil:
		return "new_span"
	case r.RecordValues != nil:
		return "record_values"
	case r.Enter != nil:
		return "enter"
	case r.Exit != nil:
		return "exit"
	case r.Close != nil:
		return "close"
	case r.NewEvent != nil:
		return "new_event"
	default:
		return "empty"
	}
}

// WriteRecords encodes records as newline-delimited JSON.
func WriteRecords(w io.Writer, records []Record) error {
	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)
	for i := range records {
		if err := enc.Encode(&records[i]); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// ReadRecords decodes a newline-delimited JSON record stream until EOF.
func ReadRecords(r io.Reader) ([]Record, error) {
	dec := json.NewDecoder(r)
	var records []Record
	for {
		var rec Record
		if err := dec.Decode(&rec); err != nil {
			if err == io.EOF {
				return records, nil
			}
			return nil, err
		}
		records = append(records, rec)
	}
}
