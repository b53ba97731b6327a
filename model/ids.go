// Copyright (c) 2026 The Tracebridge Authors.
// SPDX-License-Identifier: Apache-2.0

package model

// MetadataID identifies a call-site descriptor within one producer session.
// IDs are assigned by a monotonic counter and are not stable across sessions.
type MetadataID uint64

// SpanID identifies a span within one producer session. Zero is never a
// valid ID; it denotes "no span" in parent references.
type SpanID uint64
