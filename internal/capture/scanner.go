// Copyright (c) 2026 The Tracebridge Authors.
// SPDX-License-Identifier: Apache-2.0

package capture

import (
	"errors"
	"iter"
)

var (
	// ErrNoMatch is returned by Single when a scan produced no items.
	ErrNoMatch = errors.New("no matching item captured")
	// ErrMultipleMatches is returned by Single when a scan produced more
	// than one item.
	ErrMultipleMatches = errors.New("more than one matching item captured")
)

// First returns the first item of seq, or false when seq is empty.
func First[T any](seq iter.Seq[T]) (T, bool) {
	for item := range seq {
		return item, true
	}
	var zero T
	return zero, false
}

// Single returns the sole item of seq. It returns ErrNoMatch for an empty
// sequence and ErrMultipleMatches when a second item exists.
func Single[T any](seq iter.Seq[T]) (T, error) {
	var (
		found T
		n     int
	)
	for item := range seq {
		if n++; n > 1 {
			var zero T
			return zero, ErrMultipleMatches
		}
		found = item
	}
	if n == 0 {
		var zero T
		return zero, ErrNoMatch
	}
	return found, nil
}

// None reports whether seq is empty.
func None[T any](seq iter.Seq[T]) bool {
	for range seq {
		return false
	}
	return true
}

// Count consumes seq and returns the number of items it produced.
func Count[T any](seq iter.Seq[T]) int {
	n := 0
	for range seq {
		n++
	}
	return n
}

// Collect gathers all items of seq into a slice.
func Collect[T any](seq iter.Seq[T]) []T {
	var items []T
	for item := range seq {
		items = append(items, item)
	}
	return items
}
