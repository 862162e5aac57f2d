// Package escape implements the bijective mapping between arbitrary
// strings and data store names.
//
// A name is 1-254 UTF-16 code units matching [A-Za-z_][A-Za-z0-9_]*.
// Escape maps any string onto that grammar: ASCII letters and digits
// copy through, a literal underscore doubles to "__", and every other
// code unit becomes "_" followed by four uppercase hex digits. The
// underscore alone is reserved as the escape introducer, which keeps
// decoding unambiguous at every position.
package escape

import (
	"fmt"
	"strings"
	"unicode/utf16"
)

// MaxNameLen is the maximum length of a name in UTF-16 code units.
// Valid names are ASCII, so code units and bytes coincide.
const MaxNameLen = 254

// FormatError reports a malformed escape sequence found by Unescape.
type FormatError struct {
	Input string
	Pos   int
	Msg   string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("bad escape in %q at %d: %s", e.Input, e.Pos, e.Msg)
}

// IsValidName reports whether s satisfies the name grammar:
// first character a letter or underscore, the rest letters, digits or
// underscores, total length 1-254.
func IsValidName(s string) bool {
	if len(s) == 0 || len(s) > MaxNameLen {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c == '_':
		case c >= '0' && c <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

const hexUpper = "0123456789ABCDEF"

// Escape maps s onto the name grammar such that Unescape(Escape(s)) == s
// for every s. ASCII letters and digits copy through (except a leading
// digit, which would violate the grammar), "_" doubles, and any other
// UTF-16 code unit becomes "_" plus four uppercase hex digits. Runes
// outside the basic multilingual plane escape as their two surrogate
// code units.
func Escape(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	first := true
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
			b.WriteByte(byte(r))
		case r >= '0' && r <= '9' && !first:
			b.WriteByte(byte(r))
		case r == '_':
			b.WriteString("__")
		case r <= 0xFFFF:
			writeHex(&b, uint16(r))
		default:
			hi, lo := utf16.EncodeRune(r)
			writeHex(&b, uint16(hi))
			writeHex(&b, uint16(lo))
		}
		first = false
	}
	return b.String()
}

func writeHex(b *strings.Builder, u uint16) {
	b.WriteByte('_')
	b.WriteByte(hexUpper[u>>12])
	b.WriteByte(hexUpper[(u>>8)&0xF])
	b.WriteByte(hexUpper[(u>>4)&0xF])
	b.WriteByte(hexUpper[u&0xF])
}

// Unescape reverses Escape. It fails with a *FormatError when an
// underscore introduces neither a doubled underscore nor four hex
// digits, including the lone trailing underscore case.
func Unescape(name string) (string, error) {
	units := make([]uint16, 0, len(name))
	for i := 0; i < len(name); {
		c := name[i]
		if c != '_' {
			units = append(units, uint16(c))
			i++
			continue
		}
		if i+1 >= len(name) {
			return "", &FormatError{Input: name, Pos: i, Msg: "dangling escape introducer"}
		}
		if name[i+1] == '_' {
			units = append(units, '_')
			i += 2
			continue
		}
		if i+5 > len(name) {
			return "", &FormatError{Input: name, Pos: i, Msg: "escape sequence needs 4 hex digits"}
		}
		var u uint16
		for j := i + 1; j < i+5; j++ {
			d, ok := hexVal(name[j])
			if !ok {
				return "", &FormatError{Input: name, Pos: j, Msg: fmt.Sprintf("invalid hex digit %q", name[j])}
			}
			u = u<<4 | uint16(d)
		}
		units = append(units, u)
		i += 5
	}
	return string(utf16.Decode(units)), nil
}

func hexVal(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	}
	return 0, false
}
