// Copyright (c) 2026 The Tracebridge Authors.
// SPDX-License-Identifier: Apache-2.0

package capture

import (
	"strings"

	"github.com/tracebridge/tracebridge/model"
)

// MetricKind classifies a recognized metric update.
type MetricKind int

const (
	// UnknownKind marks updates that carry no kind field.
	UnknownKind MetricKind = iota
	// Counter is a monotonically increasing metric.
	Counter
	// Gauge is a metric that can go up and down.
	Gauge
	// Histogram records a distribution of observations.
	Histogram
)

var kindNames = map[MetricKind]string{
	UnknownKind: "unknown",
	Counter:     "counter",
	Gauge:       "gauge",
	Histogram:   "histogram",
}

func (k MetricKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

func toMetricKind(s string) (MetricKind, bool) {
	switch s {
	case "counter":
		return Counter, true
	case "gauge":
		return Gauge, true
	case "histogram":
		return Histogram, true
	default:
		return UnknownKind, false
	}
}

// MetricUpdate is the interpretation of a captured event as a metric
// change. It references the event's values rather than copying them.
type MetricUpdate struct {
	Name        string
	Unit        string
	Description string
	Kind        MetricKind
	Labels      map[string]string
	Value       model.Value
	PrevValue   model.Value
}

// AsMetricUpdate interprets event as a metric update. Recognition requires
// string fields "name", "unit" and "description" plus a numeric "value"
// field. A "kind" field must name a known metric kind when present; a
// "labels" field must hold a debug-rendered map such as
// {"stage": "init", "location": "UK"}. A numeric "prev_value" is picked up
// when present. Interpretation never modifies the event.
func AsMetricUpdate(event *Event) (*MetricUpdate, bool) {
	name, ok := stringField(event, "name")
	if !ok {
		return nil, false
	}
	unit, ok := stringField(event, "unit")
	if !ok {
		return nil, false
	}
	description, ok := stringField(event, "description")
	if !ok {
		return nil, false
	}
	value, ok := event.Value("value")
	if !ok || !value.IsNumeric() {
		return nil, false
	}

	update := &MetricUpdate{
		Name:        name,
		Unit:        unit,
		Description: description,
		Value:       value,
	}
	if raw, ok := stringField(event, "kind"); ok {
		kind, known := toMetricKind(raw)
		if !known {
			return nil, false
		}
		update.Kind = kind
	}
	if raw, ok := event.Value("labels"); ok {
		if raw.Type() != model.DebugType {
			return nil, false
		}
		labels, ok := parseLabels(raw.Debug())
		if !ok {
			return nil, false
		}
		update.Labels = labels
	}
	if prev, ok := event.Value("prev_value"); ok && prev.IsNumeric() {
		update.PrevValue = prev
	}
	return update, true
}

// stringField reads a field recorded as a genuine string, not through the
// debug fallback.
func stringField(event *Event, name string) (string, bool) {
	v, ok := event.Value(name)
	if !ok || v.Type() != model.StringType {
		return "", false
	}
	return v.Str(), true
}

// parseLabels parses the debug rendering of a label map, such as
// {"stage": "init", "location": "UK"}. A trailing comma is tolerated.
// Inputs containing escape sequences parse to an empty map.
func parseLabels(s string) (map[string]string, bool) {
	if strings.ContainsRune(s, '\\') {
		// Escape sequences inside keys or values are not supported.
		return map[string]string{}, true
	}

	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "{") || !strings.HasSuffix(s, "}") {
		return nil, false
	}
	s = strings.TrimSpace(s[1 : len(s)-1])

	labels := map[string]string{}
	for s != "" {
		key, rest, ok := readQuoted(s)
		if !ok {
			return nil, false
		}
		if !strings.HasPrefix(rest, ":") {
			return nil, false
		}
		rest = strings.TrimLeft(rest[1:], " \t")
		value, rest, ok := readQuoted(rest)
		if !ok {
			return nil, false
		}
		if rest != "" {
			if !strings.HasPrefix(rest, ",") {
				return nil, false
			}
			rest = strings.TrimLeft(rest[1:], " \t")
		}
		labels[key] = value
		s = rest
	}
	return labels, true
}

// readQuoted consumes a double-quoted string at the start of s and returns
// it together with the remainder, leading whitespace trimmed.
func readQuoted(s string) (string, string, bool) {
	if !strings.HasPrefix(s, `"`) {
		return "", "", false
	}
	s = s[1:]
	end := strings.IndexByte(s, '"')
	if end < 0 {
		return "", "", false
	}
	return s[:end], strings.TrimLeft(s[end+1:], " \t"), true
}
