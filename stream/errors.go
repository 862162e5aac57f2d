package stream

import (
	"errors"
	"fmt"
)

// ErrClosed is returned by every operation on a closed reader or
// writer.
var ErrClosed = errors.New("stream is closed")

// StructureError reports a token sequence that is not a well-nested
// single-root stream: an unmatched end, a second root, a duplicate
// sibling name, or a token in an illegal position. Path locates the
// offending node from the root.
type StructureError struct {
	Path string
	Msg  string
}

func (e *StructureError) Error() string {
	if e.Path == "" {
		return "structure error: " + e.Msg
	}
	return fmt.Sprintf("structure error at %q: %s", e.Path, e.Msg)
}
