// Copyright (c) 2026 The Tracebridge Authors.
// SPDX-License-Identifier: Apache-2.0

// Package capture materializes spans and events received over a tunnel
// into an in-process, append-only store that can be queried with composable
// predicates. The store implements the tunnel frontend callbacks, so it can
// sit directly behind a receiver.
package capture
