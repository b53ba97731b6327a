// Copyright (c) 2026 The Tracebridge Authors.
// SPDX-License-Identifier: Apache-2.0

package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"iter"
	"strings"
)

// FieldMap is a collection of named field values that preserves insertion
// order. Writing to an existing key overwrites the value in place without
// changing the key's original position.
type FieldMap struct {
	keys   []string
	values map[string]Value
}

// NewFieldMap creates an empty field map.
func NewFieldMap() *FieldMap {
	return &FieldMap{values: make(map[string]Value)}
}

// Len returns the number of fields.
func (m *FieldMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Set stores a value under the given key.
func (m *FieldMap) Set(key string, v Value) {
	if m.values == nil {
		m.values = make(map[string]Value)
	}
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = v
}

// Get returns the value stored under key, if any.
func (m *FieldMap) Get(key string) (Value, bool) {
	if m == nil {
		return Value{}, false
	}
	v, ok := m.values[key]
	return v, ok
}

// Keys returns the field names in insertion order.
func (m *FieldMap) Keys() []string {
	if m == nil {
		return nil
	}
	return append([]string(nil), m.keys...)
}

// All iterates over fields in insertion order.
func (m *FieldMap) All() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		if m == nil {
			return
		}
		for _, key := range m.keys {
			if !yield(key, m.values[key]) {
				return
			}
		}
	}
}

// Merge copies every field of other into m, in other's insertion order.
// Keys already present keep their position.
func (m *FieldMap) Merge(other *FieldMap) {
	if other == nil {
		return
	}
	for _, key := range other.keys {
		m.Set(key, other.values[key])
	}
}

// Clone returns a copy sharing no mutable state with m. A nil map clones to
// an empty one.
func (m *FieldMap) Clone() *FieldMap {
	clone := NewFieldMap()
	clone.Merge(m)
	return clone
}

// Equal reports whether both maps contain the same keys in the same order
// with equal values.
func (m *FieldMap) Equal(other *FieldMap) bool {
	if m.Len() != other.Len() {
		return false
	}
	if m == nil || other == nil {
		return true
	}
	for i, key := range m.keys {
		if other.keys[i] != key {
			return false
		}
		if !m.values[key].Equal(other.values[key]) {
			return false
		}
	}
	return true
}

func (m *FieldMap) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, key := range m.Keys() {
		if i > 0 {
			sb.WriteString(", ")
		}
		v, _ := m.Get(key)
		fmt.Fprintf(&sb, "%s: %s", key, v)
	}
	sb.WriteByte('}')
	return sb.String()
}

// MarshalJSON encodes the map as a JSON object whose keys appear in
// insertion order.
func (m *FieldMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range m.Keys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		keyJSON, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(keyJSON)
		buf.WriteByte(':')
		v, _ := m.Get(key)
		valueJSON, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		buf.Write(valueJSON)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object preserving the order of its keys.
func (m *FieldMap) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("expected JSON object, got %v", tok)
	}
	*m = *NewFieldMap()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("expected object key, got %v", tok)
		}
		var v Value
		if err := dec.Decode(&v); err != nil {
			return err
		}
		m.Set(key, v)
	}
	_, err = dec.Token() // consume closing brace
	return err
}
