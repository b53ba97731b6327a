// Copyright (c) 2026 The Tracebridge Authors.
// SPDX-License-Identifier: Apache-2.0

package tunnel

import (
	"fmt"

	"github.com/tracebridge/tracebridge/model"
)

// UnknownMetadataError reports a record referencing a metadata ID that was
// never registered. The offending record is dropped; the rest of the stream
// is unaffected.
type UnknownMetadataError struct {
	ID model.MetadataID
}

func (e *UnknownMetadataError) Error() string {
	return fmt.Sprintf("unknown metadata id %d", e.ID)
}

// UnknownSpanError reports a record referencing a span ID that is not
// currently open. The offending record is skipped.
type UnknownSpanError struct {
	ID model.SpanID
}

func (e *UnknownSpanError) Error() string {
	return fmt.Sprintf("unknown span id %d", e.ID)
}

// UnknownParentError reports an unresolvable parent reference. It is
// non-fatal: the child span or event is still created, rooted as if it had
// no parent.
type UnknownParentError struct {
	ID model.SpanID
}

func (e *UnknownParentError) Error() string {
	return fmt.Sprintf("unknown parent span id %d", e.ID)
}
