package stream

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestBufferRecordsTokens(t *testing.T) {
	b := NewBuffer()
	if err := b.WriteObjectStart("root"); err != nil {
		t.Fatal(err)
	}
	if err := b.WriteValue("a", TextValue("x")); err != nil {
		t.Fatal(err)
	}
	if err := b.WriteValue("d", BinaryValue([]byte{1, 2})); err != nil {
		t.Fatal(err)
	}
	if err := b.WriteObjectEnd(); err != nil {
		t.Fatal(err)
	}
	if err := b.Close(); err != nil {
		t.Fatal(err)
	}
	want := []BufferedToken{
		{Type: TokenObjectStart, Name: "root"},
		{Type: TokenValue, Name: "a", Val: TextValue("x")},
		{Type: TokenValue, Name: "d", Val: BinaryValue([]byte{1, 2})},
		{Type: TokenObjectEnd},
	}
	if d := cmp.Diff(want, b.Tokens()); d != "" {
		t.Errorf("tokens: (-want +got)\n%s", d)
	}
}

func TestBufferValidates(t *testing.T) {
	b := NewBuffer()
	if err := b.WriteObjectEnd(); err == nil {
		t.Error("unmatched end accepted")
	}

	b = NewBuffer()
	if err := b.WriteObjectStart("r"); err != nil {
		t.Fatal(err)
	}
	if err := b.WriteValue("a", TextValue("1")); err != nil {
		t.Fatal(err)
	}
	err := b.WriteValue("a", TextValue("2"))
	var se *StructureError
	if !errors.As(err, &se) {
		t.Errorf("duplicate sibling: err = %v, want *StructureError", err)
	}

	b = NewBuffer()
	if err := b.WriteObjectStart("r"); err != nil {
		t.Fatal(err)
	}
	if err := b.Close(); err == nil {
		t.Error("Close with open object accepted")
	}
}

func TestBufferClosed(t *testing.T) {
	b := NewBuffer()
	if err := b.WriteValue("a", TextValue("x")); err != nil {
		t.Fatal(err)
	}
	if err := b.Close(); err != nil {
		t.Fatal(err)
	}
	if err := b.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
	if err := b.WriteValue("b", TextValue("y")); !errors.Is(err, ErrClosed) {
		t.Errorf("write after Close: err = %v, want ErrClosed", err)
	}
}

func TestBufferReaderReplay(t *testing.T) {
	b := NewBuffer()
	if err := b.WriteObjectStart("root"); err != nil {
		t.Fatal(err)
	}
	if err := b.WriteValue("a", TextValue("x")); err != nil {
		t.Fatal(err)
	}
	if err := b.WriteObjectEnd(); err != nil {
		t.Fatal(err)
	}

	r := NewBufferReader(b)
	var got []BufferedToken
	for {
		ok, err := r.Read()
		if err != nil {
			t.Fatal(err)
		}
		if !ok {
			break
		}
		got = append(got, BufferedToken{Type: r.Token(), Name: r.Name(), Val: r.Value()})
	}
	if d := cmp.Diff(b.Tokens(), got); d != "" {
		t.Errorf("replay: (-want +got)\n%s", d)
	}
	// Exhausted reader stays exhausted.
	if ok, err := r.Read(); ok || err != nil {
		t.Errorf("Read past end = (%v, %v)", ok, err)
	}
	if r.Token() != TokenNone {
		t.Errorf("Token past end = %s", r.Token())
	}

	if err := r.Close(); err != nil {
		t.Fatal(err)
	}
	if _, err := r.Read(); !errors.Is(err, ErrClosed) {
		t.Errorf("Read after Close: err = %v, want ErrClosed", err)
	}
}
