package jsonfmt

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

// SyntaxError reports malformed JSON. Offset is the byte position in
// the input where the problem was found.
type SyntaxError struct {
	Offset int64
	Msg    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("json syntax error at offset %d: %s", e.Offset, e.Msg)
}

type tokKind int

const (
	tEOF tokKind = iota
	tLCurl
	tRCurl
	tColon
	tComma
	tString
)

func (k tokKind) String() string {
	switch k {
	case tEOF:
		return "end of input"
	case tLCurl:
		return "'{'"
	case tRCurl:
		return "'}'"
	case tColon:
		return "':'"
	case tComma:
		return "','"
	case tString:
		return "string"
	}
	return "unknown"
}

type jsonTok struct {
	kind tokKind
	str  string // decoded payload for tString
}

const readChunk = 4096

// tokenizer pulls JSON tokens from an io.Reader incrementally. It
// keeps only the unconsumed tail of the input in memory, refilling in
// fixed-size chunks and growing the window only while a single token
// spans a chunk boundary.
type tokenizer struct {
	reader io.Reader

	buf      []byte
	pos      int   // current position within buf
	bufStart int64 // absolute offset of buf[0] in the input
	eof      bool
}

func newTokenizer(r io.Reader) *tokenizer {
	return &tokenizer{reader: r}
}

// offset returns the absolute byte offset of the next unread byte.
func (tz *tokenizer) offset() int64 {
	return tz.bufStart + int64(tz.pos)
}

func (tz *tokenizer) errf(format string, args ...any) error {
	return &SyntaxError{Offset: tz.offset(), Msg: fmt.Sprintf(format, args...)}
}

// fill ensures at least one unread byte is buffered, compacting the
// consumed prefix first. It reports false at end of input.
func (tz *tokenizer) fill() (bool, error) {
	if tz.pos < len(tz.buf) {
		return true, nil
	}
	if tz.eof {
		return false, nil
	}
	// Drop the consumed prefix before reading more.
	if tz.pos > 0 {
		tz.bufStart += int64(tz.pos)
		tz.buf = tz.buf[:copy(tz.buf, tz.buf[tz.pos:])]
		tz.pos = 0
	}
	chunk := make([]byte, readChunk)
	n, err := tz.reader.Read(chunk)
	if n > 0 {
		tz.buf = append(tz.buf, chunk[:n]...)
	}
	if err == io.EOF {
		tz.eof = true
		return len(tz.buf) > tz.pos, nil
	}
	if err != nil {
		return false, err
	}
	if n == 0 {
		// Zero-byte read without error; try again next call.
		return tz.fill()
	}
	return true, nil
}

// peek returns the next byte without consuming it.
func (tz *tokenizer) peek() (byte, bool, error) {
	ok, err := tz.fill()
	if err != nil || !ok {
		return 0, false, err
	}
	return tz.buf[tz.pos], true, nil
}

// next returns the next JSON token, skipping whitespace.
func (tz *tokenizer) next() (jsonTok, error) {
	for {
		c, ok, err := tz.peek()
		if err != nil {
			return jsonTok{}, err
		}
		if !ok {
			return jsonTok{kind: tEOF}, nil
		}
		switch c {
		case ' ', '\t', '\r', '\n':
			tz.pos++
			continue
		case '{':
			tz.pos++
			return jsonTok{kind: tLCurl}, nil
		case '}':
			tz.pos++
			return jsonTok{kind: tRCurl}, nil
		case ':':
			tz.pos++
			return jsonTok{kind: tColon}, nil
		case ',':
			tz.pos++
			return jsonTok{kind: tComma}, nil
		case '"':
			s, err := tz.scanString()
			if err != nil {
				return jsonTok{}, err
			}
			return jsonTok{kind: tString, str: s}, nil
		case '[':
			return jsonTok{}, tz.errf("arrays are not representable in a data store")
		case 't', 'f', 'n', '-', '+', '.':
			return jsonTok{}, tz.errf("non-string scalars are not representable in a data store")
		default:
			if c >= '0' && c <= '9' {
				return jsonTok{}, tz.errf("non-string scalars are not representable in a data store")
			}
			return jsonTok{}, tz.errf("unexpected character %q", c)
		}
	}
}

// scanString consumes a JSON string literal, decoding escapes. The
// opening quote is at the current position.
func (tz *tokenizer) scanString() (string, error) {
	tz.pos++ // opening quote
	var b strings.Builder
	for {
		ok, err := tz.fill()
		if err != nil {
			return "", err
		}
		if !ok {
			return "", tz.errf("unterminated string")
		}
		c := tz.buf[tz.pos]
		switch {
		case c == '"':
			tz.pos++
			return b.String(), nil
		case c == '\\':
			if err := tz.scanEscape(&b); err != nil {
				return "", err
			}
		case c < 0x20:
			return "", tz.errf("raw control character 0x%02X in string", c)
		default:
			tz.pos++
			b.WriteByte(c)
		}
	}
}

// scanEscape consumes one backslash escape, with the backslash at the
// current position.
func (tz *tokenizer) scanEscape(b *strings.Builder) error {
	if err := tz.need(2); err != nil {
		return err
	}
	switch c := tz.buf[tz.pos+1]; c {
	case '"', '\\', '/':
		b.WriteByte(c)
		tz.pos += 2
	case 'b':
		b.WriteByte('\b')
		tz.pos += 2
	case 'f':
		b.WriteByte('\f')
		tz.pos += 2
	case 'n':
		b.WriteByte('\n')
		tz.pos += 2
	case 'r':
		b.WriteByte('\r')
		tz.pos += 2
	case 't':
		b.WriteByte('\t')
		tz.pos += 2
	case 'u':
		u, err := tz.scanHex4(tz.pos + 2)
		if err != nil {
			return err
		}
		tz.pos += 6
		if utf16.IsSurrogate(rune(u)) {
			// A high surrogate must pair with a following \uXXXX low
			// surrogate to form one rune.
			if err := tz.need(6); err == nil &&
				tz.buf[tz.pos] == '\\' && tz.buf[tz.pos+1] == 'u' {
				lo, err := tz.scanHex4(tz.pos + 2)
				if err != nil {
					return err
				}
				if r := utf16.DecodeRune(rune(u), rune(lo)); r != utf8.RuneError {
					tz.pos += 6
					b.WriteRune(r)
					return nil
				}
			}
			b.WriteRune(utf8.RuneError)
			return nil
		}
		b.WriteRune(rune(u))
	default:
		return tz.errf("invalid escape character %q", c)
	}
	return nil
}

// need buffers at least n bytes ahead of the current position, growing
// the window across chunk boundaries as required.
func (tz *tokenizer) need(n int) error {
	for len(tz.buf)-tz.pos < n {
		if tz.eof {
			return tz.errf("unexpected end of input")
		}
		ok, err := tz.moreTail()
		if err != nil {
			return err
		}
		if !ok {
			return tz.errf("unexpected end of input")
		}
	}
	return nil
}

// moreTail appends another chunk without consuming anything.
func (tz *tokenizer) moreTail() (bool, error) {
	chunk := make([]byte, readChunk)
	n, err := tz.reader.Read(chunk)
	if n > 0 {
		tz.buf = append(tz.buf, chunk[:n]...)
	}
	if err == io.EOF {
		tz.eof = true
		return n > 0, nil
	}
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (tz *tokenizer) scanHex4(at int) (uint16, error) {
	if len(tz.buf)-at < 4 {
		if err := tz.need(at - tz.pos + 4); err != nil {
			return 0, err
		}
	}
	var u uint16
	for i := at; i < at+4; i++ {
		c := tz.buf[i]
		var d byte
		switch {
		case c >= '0' && c <= '9':
			d = c - '0'
		case c >= 'a' && c <= 'f':
			d = c - 'a' + 10
		case c >= 'A' && c <= 'F':
			d = c - 'A' + 10
		default:
			return 0, tz.errf("invalid unicode escape digit %q", c)
		}
		u = u<<4 | uint16(d)
	}
	return u, nil
}
