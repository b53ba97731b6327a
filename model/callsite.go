// Copyright (c) 2026 The Tracebridge Authors.
// SPDX-License-Identifier: Apache-2.0

package model

import (
	"fmt"
	"strconv"
	"strings"
)

// Level is the verbosity level declared by a call site. Lower numeric values
// are more severe: LevelError < LevelWarn < ... < LevelTrace.
type Level int

const (
	LevelError Level = iota
	LevelWarn
	LevelInfo
	LevelDebug
	LevelTrace
)

var toLevel = map[string]Level{
	"error": LevelError,
	"warn":  LevelWarn,
	"info":  LevelInfo,
	"debug": LevelDebug,
	"trace": LevelTrace,
}

func (l Level) String() string {
	switch l {
	case LevelError:
		return "error"
	case LevelWarn:
		return "warn"
	case LevelInfo:
		return "info"
	case LevelDebug:
		return "debug"
	case LevelTrace:
		return "trace"
	default:
		return ""
	}
}

// MarshalText implements encoding.TextMarshaler.
func (l Level) MarshalText() ([]byte, error) {
	s := l.String()
	if s == "" {
		return nil, fmt.Errorf("unrecognized level %d", int(l))
	}
	return []byte(s), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *Level) UnmarshalText(text []byte) error {
	level, ok := toLevel[string(text)]
	if !ok {
		return fmt.Errorf("unrecognized level %q", string(text))
	}
	*l = level
	return nil
}

// CallSiteKind distinguishes span call sites from event call sites.
type CallSiteKind string

const (
	KindSpan  CallSiteKind = "span"
	KindEvent CallSiteKind = "event"
)

// CallSite is the static identity of a span or event origin: its declared
// name, target, level, source location and field names. Two call sites are
// the same iff all of these attributes are equal; identity is never tied to
// a memory address, which would be meaningless across a process boundary.
type CallSite struct {
	Kind       CallSiteKind `json:"kind"`
	Name       string       `json:"name"`
	Target     string       `json:"target"`
	Level      Level        `json:"level"`
	ModulePath string       `json:"module_path,omitempty"`
	File       string       `json:"file,omitempty"`
	Line       uint32       `json:"line,omitempty"`
	FieldNames []string     `json:"fields"`
}

// Equal reports value equality of all descriptor attributes.
func (c *CallSite) Equal(other *CallSite) bool {
	if c == nil || other == nil {
		return c == other
	}
	if c.Kind != other.Kind ||
		c.Name != other.Name ||
		c.Target != other.Target ||
		c.Level != other.Level ||
		c.ModulePath != other.ModulePath ||
		c.File != other.File ||
		c.Line != other.Line ||
		len(c.FieldNames) != len(other.FieldNames) {
		return false
	}
	for i, name := range c.FieldNames {
		if other.FieldNames[i] != name {
			return false
		}
	}
	return true
}

// Key returns a canonical string capturing the descriptor's value identity,
// usable as a deduplication map key.
func (c *CallSite) Key() string {
	var sb strings.Builder
	sb.WriteString(string(c.Kind))
	sb.WriteByte(0)
	sb.WriteString(c.Name)
	sb.WriteByte(0)
	sb.WriteString(c.Target)
	sb.WriteByte(0)
	sb.WriteString(c.Level.String())
	sb.WriteByte(0)
	sb.WriteString(c.ModulePath)
	sb.WriteByte(0)
	sb.WriteString(c.File)
	sb.WriteByte(0)
	sb.WriteString(strconv.FormatUint(uint64(c.Line), 10))
	for _, name := range c.FieldNames {
		sb.WriteByte(0)
		sb.WriteString(name)
	}
	return sb.String()
}

// Clone returns a deep copy of the descriptor.
func (c *CallSite) Clone() *CallSite {
	if c == nil {
		return nil
	}
	clone := *c
	if c.FieldNames != nil {
		clone.FieldNames = append([]string(nil), c.FieldNames...)
	}
	return &clone
}

// HasField reports whether the call site declares the given field name.
func (c *CallSite) HasField(name string) bool {
	for _, f := range c.FieldNames {
		if f == name {
			return true
		}
	}
	return false
}
