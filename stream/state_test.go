package stream

import (
	"errors"
	"testing"
)

type tok struct {
	t    TokenType
	name string
}

func runState(t *testing.T, s *State, toks []tok) error {
	t.Helper()
	for _, tk := range toks {
		if err := s.Process(tk.t, tk.name); err != nil {
			return err
		}
	}
	return nil
}

func TestStateAccepts(t *testing.T) {
	tests := []struct {
		desc string
		toks []tok
	}{
		{"empty stream", nil},
		{"lone value root", []tok{{TokenValue, "a"}}},
		{"empty object root", []tok{{TokenObjectStart, "a"}, {TokenObjectEnd, ""}}},
		{
			"nested",
			[]tok{
				{TokenObjectStart, "root"},
				{TokenValue, "a"},
				{TokenObjectStart, "o"},
				{TokenValue, "x"},
				{TokenObjectEnd, ""},
				{TokenObjectEnd, ""},
			},
		},
		{
			"same name at different depths",
			[]tok{
				{TokenObjectStart, "o"},
				{TokenObjectStart, "o"},
				{TokenValue, "o"},
				{TokenObjectEnd, ""},
				{TokenObjectEnd, ""},
			},
		},
	}
	for _, tc := range tests {
		s := NewState()
		if err := runState(t, s, tc.toks); err != nil {
			t.Errorf("%s: %v", tc.desc, err)
			continue
		}
		if err := s.Finish(); err != nil {
			t.Errorf("%s: Finish: %v", tc.desc, err)
		}
		wantDone := len(tc.toks) > 0
		if s.Done() != wantDone {
			t.Errorf("%s: Done = %v, want %v", tc.desc, s.Done(), wantDone)
		}
	}
}

func TestStateRejects(t *testing.T) {
	tests := []struct {
		desc string
		toks []tok
	}{
		{"end without start", []tok{{TokenObjectEnd, ""}}},
		{
			"end past root",
			[]tok{{TokenObjectStart, "a"}, {TokenObjectEnd, ""}, {TokenObjectEnd, ""}},
		},
		{"two value roots", []tok{{TokenValue, "a"}, {TokenValue, "b"}}},
		{
			"second root after object",
			[]tok{{TokenObjectStart, "a"}, {TokenObjectEnd, ""}, {TokenObjectStart, "b"}},
		},
		{
			"duplicate sibling values",
			[]tok{{TokenObjectStart, "r"}, {TokenValue, "a"}, {TokenValue, "a"}},
		},
		{
			"duplicate across kinds",
			[]tok{{TokenObjectStart, "r"}, {TokenValue, "a"}, {TokenObjectStart, "a"}},
		},
		{"bad token", []tok{{TokenNone, ""}}},
	}
	for _, tc := range tests {
		err := runState(t, NewState(), tc.toks)
		var se *StructureError
		if !errors.As(err, &se) {
			t.Errorf("%s: err = %v, want *StructureError", tc.desc, err)
		}
	}
}

func TestStateFinishUnclosed(t *testing.T) {
	s := NewState()
	if err := s.Process(TokenObjectStart, "a"); err != nil {
		t.Fatal(err)
	}
	if err := s.Finish(); err == nil {
		t.Error("Finish with open object: expected error")
	}
}

func TestStatePathDepth(t *testing.T) {
	s := NewState()
	for _, tk := range []tok{{TokenObjectStart, "a"}, {TokenObjectStart, "b"}} {
		if err := s.Process(tk.t, tk.name); err != nil {
			t.Fatal(err)
		}
	}
	if got := s.Depth(); got != 2 {
		t.Errorf("Depth = %d, want 2", got)
	}
	if got := s.Path(); got != "a/b" {
		t.Errorf("Path = %q, want %q", got, "a/b")
	}
	if err := s.Process(TokenObjectEnd, ""); err != nil {
		t.Fatal(err)
	}
	if got := s.Path(); got != "a" {
		t.Errorf("Path after end = %q, want %q", got, "a")
	}
}

func TestTokenTypeString(t *testing.T) {
	tests := []struct {
		tt   TokenType
		want string
	}{
		{TokenNone, "None"},
		{TokenObjectStart, "ObjectStart"},
		{TokenObjectEnd, "ObjectEnd"},
		{TokenValue, "Value"},
	}
	for _, tc := range tests {
		if got := tc.tt.String(); got != tc.want {
			t.Errorf("%d.String() = %q, want %q", tc.tt, got, tc.want)
		}
		b, err := tc.tt.MarshalText()
		if err != nil {
			t.Fatal(err)
		}
		var back TokenType
		if err := back.UnmarshalText(b); err != nil {
			t.Fatal(err)
		}
		if back != tc.tt {
			t.Errorf("round trip of %s gave %s", tc.tt, back)
		}
	}
	var tt TokenType
	if err := tt.UnmarshalText([]byte("Bogus")); err == nil {
		t.Error("UnmarshalText(Bogus): expected error")
	}
}
