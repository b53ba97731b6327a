// Copyright (c) 2026 The Tracebridge Authors.
// SPDX-License-Identifier: Apache-2.0

// Package tunnel carries span and event lifecycle callbacks across a
// process boundary. A Sender turns callbacks into a serializable record
// stream; a Receiver reconstructs the stream against a local Frontend and
// can persist its reconstruction state so that it survives being torn down
// and rebuilt while the far end's spans remain open.
package tunnel
