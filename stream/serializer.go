package stream

import (
	"encoding/base64"
	"fmt"

	"github.com/substrail/dstore/ir"
)

// Serializer lets a domain type move through a reader/writer pair
// without the protocol knowing its concrete type. Serialize must emit
// exactly one balanced token subsequence (one value or one fully
// matched object); Deserialize must consume exactly that subsequence,
// leaving the reader positioned immediately after it. That contract is
// what makes serializers composable: a parent's serializer calls a
// child field's serializer between its own object start and end.
type Serializer[T any] interface {
	Serialize(w Writer, value T) error
	Deserialize(r Reader) (T, error)
}

// NodeSerializer moves raw subtrees through the protocol. It is the
// identity serializer and the composition primitive for dynamic
// payloads.
type NodeSerializer struct{}

func (NodeSerializer) Serialize(w Writer, value *ir.Node) error {
	return WriteNode(w, value)
}

func (NodeSerializer) Deserialize(r Reader) (*ir.Node, error) {
	return ReadNode(r)
}

// ExpectObjectStart reads one token and checks it opens an object
// named name.
func ExpectObjectStart(r Reader, name string) error {
	if err := advance(r); err != nil {
		return err
	}
	if r.Token() != TokenObjectStart || r.Name() != name {
		return &StructureError{Path: name, Msg: fmt.Sprintf("expected object start %q, got %s %q", name, r.Token(), r.Name())}
	}
	return nil
}

// ExpectObjectEnd reads one token and checks it closes an object.
func ExpectObjectEnd(r Reader) error {
	if err := advance(r); err != nil {
		return err
	}
	if r.Token() != TokenObjectEnd {
		return &StructureError{Path: r.Name(), Msg: fmt.Sprintf("expected object end, got %s", r.Token())}
	}
	return nil
}

// ReadText reads one token and checks it is a value named name,
// returning its payload as text.
func ReadText(r Reader, name string) (string, error) {
	v, err := readValue(r, name)
	if err != nil {
		return "", err
	}
	if v.Binary {
		return string(v.Bytes), nil
	}
	return v.Text, nil
}

// ReadBinary reads one token and checks it is a value named name,
// returning its payload as bytes. A text payload is decoded from
// base64, the convention both concrete encodings use for binary data
// on the wire.
func ReadBinary(r Reader, name string) ([]byte, error) {
	v, err := readValue(r, name)
	if err != nil {
		return nil, err
	}
	if v.Binary {
		return v.Bytes, nil
	}
	d, err := base64.StdEncoding.DecodeString(v.Text)
	if err != nil {
		return nil, &StructureError{Path: name, Msg: "value is not base64: " + err.Error()}
	}
	return d, nil
}

// SkipValue consumes the next balanced token subsequence without
// materializing it.
func SkipValue(r Reader) error {
	depth := 0
	for {
		if err := advance(r); err != nil {
			return err
		}
		switch r.Token() {
		case TokenObjectStart:
			depth++
		case TokenObjectEnd:
			depth--
			if depth < 0 {
				return &StructureError{Msg: "object end without matching start"}
			}
		}
		if depth == 0 {
			return nil
		}
	}
}

func readValue(r Reader, name string) (Value, error) {
	if err := advance(r); err != nil {
		return Value{}, err
	}
	if r.Token() != TokenValue || r.Name() != name {
		return Value{}, &StructureError{Path: name, Msg: fmt.Sprintf("expected value %q, got %s %q", name, r.Token(), r.Name())}
	}
	return r.Value(), nil
}

func advance(r Reader) error {
	ok, err := r.Read()
	if err != nil {
		return err
	}
	if !ok {
		return &StructureError{Msg: "unexpected end of stream"}
	}
	return nil
}
