// Copyright (c) 2026 The Tracebridge Authors.
// SPDX-License-Identifier: Apache-2.0

package capture

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tracebridge/tracebridge/model"
)

func metricEvent(store *Store, values *model.FieldMap) *Event {
	meta := store.NewCallSite(eventSite("metric", model.LevelInfo))
	store.NewEvent(meta, 0, values)
	events := Collect(store.ScanEvents(nil))
	return events[len(events)-1]
}

func metricFields() *model.FieldMap {
	return fields(
		"name", "requests_total",
		"unit", "requests",
		"description", "total requests served",
		"value", 17,
	)
}

func TestAsMetricUpdateMinimal(t *testing.T) {
	event := metricEvent(NewStore(), metricFields())

	update, ok := AsMetricUpdate(event)
	require.True(t, ok)
	assert.Equal(t, "requests_total", update.Name)
	assert.Equal(t, "requests", update.Unit)
	assert.Equal(t, "total requests served", update.Description)
	assert.Equal(t, UnknownKind, update.Kind)
	assert.Nil(t, update.Labels)
	assert.Equal(t, int64(17), update.Value.Int64())
	assert.Equal(t, model.InvalidType, update.PrevValue.Type())
}

func TestAsMetricUpdateFull(t *testing.T) {
	values := metricFields()
	values.Set("kind", model.StringValue("counter"))
	values.Set("labels", model.DebugValue(`{"stage": "init", "location": "UK"}`))
	values.Set("prev_value", model.Int64Value(16))
	event := metricEvent(NewStore(), values)

	update, ok := AsMetricUpdate(event)
	require.True(t, ok)
	assert.Equal(t, Counter, update.Kind)
	assert.Equal(t, map[string]string{"stage": "init", "location": "UK"}, update.Labels)
	assert.Equal(t, int64(16), update.PrevValue.Int64())
}

func TestAsMetricUpdateRejections(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*model.FieldMap)
	}{
		{name: "missing name", modify: func(m *model.FieldMap) { m.Set("name", model.Value{}) }},
		{name: "non-string unit", modify: func(m *model.FieldMap) { m.Set("unit", model.Int64Value(1)) }},
		{name: "debug-formatted description", modify: func(m *model.FieldMap) { m.Set("description", model.DebugValue("d")) }},
		{name: "non-numeric value", modify: func(m *model.FieldMap) { m.Set("value", model.StringValue("17")) }},
		{name: "unknown kind", modify: func(m *model.FieldMap) { m.Set("kind", model.StringValue("summary")) }},
		{name: "malformed labels", modify: func(m *model.FieldMap) { m.Set("labels", model.DebugValue("stage=init")) }},
		{name: "string labels", modify: func(m *model.FieldMap) { m.Set("labels", model.StringValue("{}")) }},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			values := metricFields()
			test.modify(values)
			event := metricEvent(NewStore(), values)
			_, ok := AsMetricUpdate(event)
			assert.False(t, ok)
		})
	}
}

func TestAsMetricUpdateNumericValueVariants(t *testing.T) {
	for _, value := range []model.Value{
		model.Int64Value(-1),
		model.Uint64Value(1),
		model.Float64Value(0.5),
		model.Int128Value(model.Int128From64(3)),
	} {
		values := metricFields()
		values.Set("value", value)
		event := metricEvent(NewStore(), values)
		update, ok := AsMetricUpdate(event)
		require.True(t, ok)
		assert.True(t, update.Value.Equal(value))
	}
}

func TestParseLabels(t *testing.T) {
	for _, raw := range []string{"{}", "{  }"} {
		labels, ok := parseLabels(raw)
		require.True(t, ok, raw)
		assert.Empty(t, labels)
	}

	singleVariants := []string{
		`{"stage": "init"}`,
		`{"stage":"init"}`,
		`{"stage" : "init" }`,
		`{ "stage": "init", }`,
	}
	for _, raw := range singleVariants {
		labels, ok := parseLabels(raw)
		require.True(t, ok, raw)
		assert.Equal(t, map[string]string{"stage": "init"}, labels, raw)
	}

	multiVariants := []string{
		`{"stage": "init", "location": "UK"}`,
		`{"stage":"init","location":"UK"}`,
		`{"stage" : "init"  , "location"  : "UK"  }`,
		`{ "stage": "init", "location": "UK", }`,
	}
	for _, raw := range multiVariants {
		labels, ok := parseLabels(raw)
		require.True(t, ok, raw)
		assert.Equal(t, map[string]string{"stage": "init", "location": "UK"}, labels, raw)
	}
}

func TestParseLabelsRejectsMalformedInput(t *testing.T) {
	for _, raw := range []string{
		`"stage": "init"`,
		`{"stage"}`,
		`{"stage": }`,
		`{"stage" "init"}`,
		`{"stage": "init" "location": "UK"}`,
		`{stage: init}`,
		`{"unterminated`,
	} {
		_, ok := parseLabels(raw)
		assert.False(t, ok, raw)
	}
}

func TestParseLabelsEscapesFallBackToEmpty(t *testing.T) {
	labels, ok := parseLabels(`{"path": "C:\\temp"}`)
	require.True(t, ok)
	assert.Empty(t, labels)
}

func TestMetricKindString(t *testing.T) {
	assert.Equal(t, "counter", Counter.String())
	assert.Equal(t, "gauge", Gauge.String())
	assert.Equal(t, "histogram", Histogram.String())
	assert.Equal(t, "unknown", UnknownKind.String())
	assert.Equal(t, "unknown", MetricKind(42).String())
}
