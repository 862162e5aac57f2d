package stream

import "strings"

// State tracks well-nestedness for a token sequence. Readers and
// writers both run every token through a State so that the two sides
// of the protocol reject exactly the same malformed streams: unmatched
// ends, more than one top-level sequence, and duplicate sibling names.
type State struct {
	stack    []frame
	rootDone bool
}

type frame struct {
	name string
	seen map[string]struct{}
}

// NewState creates a State positioned before the first token.
func NewState() *State {
	return &State{}
}

// Process validates the next token against the structure seen so far
// and updates the state. name is ignored for TokenObjectEnd.
func (s *State) Process(t TokenType, name string) error {
	switch t {
	case TokenObjectStart:
		if err := s.enter(name); err != nil {
			return err
		}
		s.stack = append(s.stack, frame{name: name, seen: map[string]struct{}{}})
	case TokenObjectEnd:
		if len(s.stack) == 0 {
			return &StructureError{Path: s.Path(), Msg: "object end without matching start"}
		}
		s.stack = s.stack[:len(s.stack)-1]
		if len(s.stack) == 0 {
			s.rootDone = true
		}
	case TokenValue:
		if err := s.enter(name); err != nil {
			return err
		}
		if len(s.stack) == 0 {
			s.rootDone = true
		}
	default:
		return &StructureError{Path: s.Path(), Msg: "cannot process token " + t.String()}
	}
	return nil
}

func (s *State) enter(name string) error {
	if len(s.stack) == 0 {
		if s.rootDone {
			return &StructureError{Path: name, Msg: "second root in stream"}
		}
		return nil
	}
	cur := &s.stack[len(s.stack)-1]
	if _, dup := cur.seen[name]; dup {
		return &StructureError{Path: s.Path() + "/" + name, Msg: "duplicate sibling name"}
	}
	cur.seen[name] = struct{}{}
	return nil
}

// Depth returns the number of open objects.
func (s *State) Depth() int {
	return len(s.stack)
}

// Path returns the /-joined names of the open objects, "" at top level.
func (s *State) Path() string {
	if len(s.stack) == 0 {
		return ""
	}
	names := make([]string, len(s.stack))
	for i := range s.stack {
		names[i] = s.stack[i].name
	}
	return strings.Join(names, "/")
}

// Done reports whether a complete top-level sequence has been seen.
func (s *State) Done() bool {
	return s.rootDone && len(s.stack) == 0
}

// Finish checks that the sequence may legally end here: every opened
// object must be closed. An empty sequence is a legal end (no root).
func (s *State) Finish() error {
	if len(s.stack) != 0 {
		return &StructureError{Path: s.Path(), Msg: "unclosed object at end of stream"}
	}
	return nil
}
