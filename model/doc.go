// Copyright (c) 2026 The Tracebridge Authors.
// SPDX-License-Identifier: Apache-2.0

// Package model contains the shared data model: tagged field values,
// call-site descriptors and the wire records exchanged between a sender and
// a receiver.
package model
