// Copyright (c) 2026 The Tracebridge Authors.
// SPDX-License-Identifier: Apache-2.0

package model

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleStream() []Record {
	site := &CallSite{
		Kind:       KindSpan,
		Name:       "fib",
		Target:     "app",
		Level:      LevelInfo,
		FieldNames: []string{"num"},
	}
	spanValues := NewFieldMap()
	spanValues.Set("num", Int64Value(42))
	eventValues := NewFieldMap()
	eventValues.Set("message", StringValue("hi"))

	return []Record{
		{NewCallSite: &NewCallSite{ID: 1, Data: site}},
		{NewSpan: &NewSpan{ID: 1, MetadataID: 1, Values: spanValues}},
		{Enter: &SpanRef{ID: 1}},
		{NewEvent: &NewEvent{MetadataID: 1, ParentID: 1, Values: eventValues}},
		{RecordValues: &RecordValues{ID: 1, Values: NewFieldMap()}},
		{Exit: &SpanRef{ID: 1}},
		{Close: &SpanRef{ID: 1}},
	}
}

func TestRecordKind(t *testing.T) {
	kinds := make([]string, 0)
	for _, rec := range sampleStream() {
		kinds = append(kinds, rec.Kind())
	}
	assert.Equal(t, []string{
		"new_call_site", "new_span", "enter", "new_event",
		"record_values", "exit", "close",
	}, kinds)
	assert.Equal(t, "empty", (&Record{}).Kind())
}

func TestRecordJSONIsExternallyTagged(t *testing.T) {
	data, err := json.Marshal(Record{Enter: &SpanRef{ID: 3}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"enter":{"id":3}}`, string(data))
}

func TestRecordStreamRoundTrip(t *testing.T) {
	records := sampleStream()

	var buf bytes.Buffer
	require.NoError(t, WriteRecords(&buf, records))
	assert.Equal(t, len(records), strings.Count(buf.String(), "\n"))

	restored, err := ReadRecords(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Len(t, restored, len(records))

	// Re-encoding a canonically encoded stream reproduces it byte for byte.
	var reencoded bytes.Buffer
	require.NoError(t, WriteRecords(&reencoded, restored))
	assert.Equal(t, buf.String(), reencoded.String())
}

func TestReadRecordsEmptyInput(t *testing.T) {
	records, err := ReadRecords(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestReadRecordsMalformedInput(t *testing.T) {
	_, err := ReadRecords(strings.NewReader(`{"enter":{"id":1}}` + "\n" + `{"enter"`))
	require.Error(t, err)
}

func TestRecordOmitsZeroParent(t *testing.T) {
	data, err := json.Marshal(Record{NewEvent: &NewEvent{MetadataID: 1, Values: NewFieldMap()}})
	require.NoError(t, err)
	assert.NotContains(t, string(data), "parent_id")
}
