package stream

import "fmt"

// TokenType identifies the structural event a reader is positioned on.
// The stream grammar is a well-nested pre-order tree walk with at most
// one top-level sequence; an empty stream denotes "no root".
type TokenType int

const (
	// TokenNone is the zero value, before the first Read and after the
	// last.
	TokenNone TokenType = iota
	// TokenObjectStart begins a named object; matched by exactly one
	// later TokenObjectEnd at the same depth.
	TokenObjectStart
	// TokenObjectEnd closes the most recently opened object.
	TokenObjectEnd
	// TokenValue carries a complete named leaf in one event; values are
	// never split across tokens.
	TokenValue
)

func (t TokenType) String() string {
	switch t {
	case TokenNone:
		return "None"
	case TokenObjectStart:
		return "ObjectStart"
	case TokenObjectEnd:
		return "ObjectEnd"
	case TokenValue:
		return "Value"
	default:
		return "Unknown"
	}
}

func (t TokenType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *TokenType) UnmarshalText(d []byte) error {
	k := string(d)
	pt, ok := map[string]TokenType{
		"None":        TokenNone,
		"ObjectStart": TokenObjectStart,
		"ObjectEnd":   TokenObjectEnd,
		"Value":       TokenValue,
	}[k]
	if ok {
		*t = pt
		return nil
	}
	return fmt.Errorf("unknown token type %q", k)
}

// Value is the payload of a TokenValue event: either text or binary.
type Value struct {
	Binary bool
	Text   string
	Bytes  []byte
}

// TextValue returns a text payload.
func TextValue(s string) Value {
	return Value{Text: s}
}

// BinaryValue returns a binary payload. The slice is not copied.
func BinaryValue(d []byte) Value {
	return Value{Binary: true, Bytes: d}
}
