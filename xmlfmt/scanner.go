package xmlfmt

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// SyntaxError reports malformed XML. Offset is the byte position in
// the input where the problem was found.
type SyntaxError struct {
	Offset int64
	Msg    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("xml syntax error at offset %d: %s", e.Offset, e.Msg)
}

type eventKind int

const (
	xEOF eventKind = iota
	xStart
	xEnd
	xText
)

type xmlEvent struct {
	kind      eventKind
	name      string // xStart, xEnd
	selfClose bool   // xStart
	text      string // xText
}

const readChunk = 4096

// scanner pulls markup events from an io.Reader incrementally. It
// keeps only the unconsumed tail of the input buffered, refilling in
// fixed-size chunks. The supported subset is what the writer emits:
// one optional prolog, elements without attributes, character data
// with entity references, comments (skipped). Self-closing tags are
// reported distinctly from paired empty tags - the distinction carries
// the empty-value versus empty-object difference.
type scanner struct {
	reader io.Reader

	buf      []byte
	pos      int
	bufStart int64
	eof      bool

	sawProlog bool
	sawAny    bool // any non-whitespace content yet
}

func newScanner(r io.Reader) *scanner {
	return &scanner{reader: r}
}

func (sc *scanner) offset() int64 {
	return sc.bufStart + int64(sc.pos)
}

func (sc *scanner) errf(format string, args ...any) error {
	return &SyntaxError{Offset: sc.offset(), Msg: fmt.Sprintf(format, args...)}
}

func (sc *scanner) fill() (bool, error) {
	if sc.pos < len(sc.buf) {
		return true, nil
	}
	if sc.eof {
		return false, nil
	}
	if sc.pos > 0 {
		sc.bufStart += int64(sc.pos)
		sc.buf = sc.buf[:copy(sc.buf, sc.buf[sc.pos:])]
		sc.pos = 0
	}
	return sc.more()
}

// more appends another chunk without consuming anything.
func (sc *scanner) more() (bool, error) {
	chunk := make([]byte, readChunk)
	n, err := sc.reader.Read(chunk)
	if n > 0 {
		sc.buf = append(sc.buf, chunk[:n]...)
	}
	if err == io.EOF {
		sc.eof = true
		return len(sc.buf) > sc.pos, nil
	}
	if err != nil {
		return false, err
	}
	if n == 0 {
		return sc.more()
	}
	return true, nil
}

// need buffers at least n bytes ahead of the current position.
func (sc *scanner) need(n int) (bool, error) {
	for len(sc.buf)-sc.pos < n {
		if sc.eof {
			return false, nil
		}
		if _, err := sc.more(); err != nil {
			return false, err
		}
	}
	return true, nil
}

// next returns the next markup event. Comments and the prolog are
// consumed silently.
func (sc *scanner) next() (xmlEvent, error) {
	for {
		ok, err := sc.fill()
		if err != nil {
			return xmlEvent{}, err
		}
		if !ok {
			return xmlEvent{kind: xEOF}, nil
		}
		if sc.buf[sc.pos] != '<' {
			text, err := sc.scanText()
			if err != nil {
				return xmlEvent{}, err
			}
			if text == "" {
				continue
			}
			return xmlEvent{kind: xText, text: text}, nil
		}
		ok, err = sc.need(2)
		if err != nil {
			return xmlEvent{}, err
		}
		if !ok {
			return xmlEvent{}, sc.errf("truncated markup")
		}
		switch sc.buf[sc.pos+1] {
		case '?':
			if err := sc.scanProlog(); err != nil {
				return xmlEvent{}, err
			}
		case '!':
			if err := sc.scanComment(); err != nil {
				return xmlEvent{}, err
			}
		case '/':
			return sc.scanEndTag()
		default:
			return sc.scanStartTag()
		}
	}
}

// scanText consumes character data up to the next '<', decoding entity
// references. Whitespace-only runs outside any content collapse to "".
func (sc *scanner) scanText() (string, error) {
	var b strings.Builder
	for {
		ok, err := sc.fill()
		if err != nil {
			return "", err
		}
		if !ok {
			break
		}
		c := sc.buf[sc.pos]
		if c == '<' {
			break
		}
		if c == '&' {
			r, err := sc.scanEntity()
			if err != nil {
				return "", err
			}
			b.WriteRune(r)
			continue
		}
		sc.pos++
		b.WriteByte(c)
	}
	sc.sawAny = sc.sawAny || strings.TrimSpace(b.String()) != ""
	return b.String(), nil
}

// scanEntity consumes one entity reference starting at '&'.
func (sc *scanner) scanEntity() (rune, error) {
	// Entities are short; buffer a window and search for ';'.
	end := -1
	for i := 1; ; i++ {
		ok, err := sc.need(i + 1)
		if err != nil {
			return 0, err
		}
		if !ok {
			return 0, sc.errf("unterminated entity reference")
		}
		if sc.buf[sc.pos+i] == ';' {
			end = i
			break
		}
		if i > 12 {
			return 0, sc.errf("unterminated entity reference")
		}
	}
	ent := string(sc.buf[sc.pos+1 : sc.pos+end])
	sc.pos += end + 1
	switch ent {
	case "amp":
		return '&', nil
	case "lt":
		return '<', nil
	case "gt":
		return '>', nil
	case "quot":
		return '"', nil
	case "apos":
		return '\'', nil
	}
	if strings.HasPrefix(ent, "#x") || strings.HasPrefix(ent, "#X") {
		n, err := strconv.ParseUint(ent[2:], 16, 32)
		if err != nil {
			return 0, sc.errf("bad character reference &%s;", ent)
		}
		return sc.charRef(ent, n)
	}
	if strings.HasPrefix(ent, "#") {
		n, err := strconv.ParseUint(ent[1:], 10, 32)
		if err != nil {
			return 0, sc.errf("bad character reference &%s;", ent)
		}
		return sc.charRef(ent, n)
	}
	return 0, sc.errf("unknown entity &%s;", ent)
}

// charRef rejects references to surrogate code points and values past
// the Unicode range, which WriteRune would otherwise fold to U+FFFD.
func (sc *scanner) charRef(ent string, n uint64) (rune, error) {
	if n > 0x10FFFF || (n >= 0xD800 && n <= 0xDFFF) {
		return 0, sc.errf("character reference &%s; is out of range", ent)
	}
	return rune(n), nil
}

// scanProlog consumes the <?xml ...?> declaration. Only the document
// prolog is allowed; other processing instructions are outside the
// supported subset.
func (sc *scanner) scanProlog() error {
	if sc.sawProlog || sc.sawAny {
		return sc.errf("processing instructions are not supported")
	}
	end, err := sc.find("?>")
	if err != nil {
		return err
	}
	decl := string(sc.buf[sc.pos:end])
	if !strings.HasPrefix(decl, "<?xml") {
		return sc.errf("processing instructions are not supported")
	}
	sc.pos = end + 2
	sc.sawProlog = true
	return nil
}

// scanComment consumes a <!-- --> comment. Other <!...> constructs
// (DOCTYPE, CDATA) are outside the supported subset.
func (sc *scanner) scanComment() error {
	ok, err := sc.need(4)
	if err != nil {
		return err
	}
	if !ok || sc.buf[sc.pos+2] != '-' || sc.buf[sc.pos+3] != '-' {
		return sc.errf("unsupported markup declaration")
	}
	end, err := sc.find("-->")
	if err != nil {
		return err
	}
	sc.pos = end + 3
	return nil
}

// find searches forward for the literal sep, buffering as needed, and
// returns its absolute index within buf.
func (sc *scanner) find(sep string) (int, error) {
	from := sc.pos
	for {
		if i := strings.Index(string(sc.buf[from:]), sep); i >= 0 {
			return from + i, nil
		}
		// Keep a sep-sized overlap so a separator split across chunks
		// is still found.
		if len(sc.buf)-len(sep) > from {
			from = len(sc.buf) - len(sep) + 1
		}
		if sc.eof {
			return 0, sc.errf("unterminated markup")
		}
		ok, err := sc.more()
		if err != nil {
			return 0, err
		}
		if !ok {
			return 0, sc.errf("unterminated markup")
		}
	}
}

func (sc *scanner) scanStartTag() (xmlEvent, error) {
	sc.sawAny = true
	sc.pos++ // '<'
	name, err := sc.scanName()
	if err != nil {
		return xmlEvent{}, err
	}
	if err := sc.skipSpace(); err != nil {
		return xmlEvent{}, err
	}
	ok, err := sc.need(1)
	if err != nil {
		return xmlEvent{}, err
	}
	if !ok {
		return xmlEvent{}, sc.errf("truncated start tag <%s", name)
	}
	switch sc.buf[sc.pos] {
	case '>':
		sc.pos++
		return xmlEvent{kind: xStart, name: name}, nil
	case '/':
		ok, err := sc.need(2)
		if err != nil {
			return xmlEvent{}, err
		}
		if !ok || sc.buf[sc.pos+1] != '>' {
			return xmlEvent{}, sc.errf("truncated start tag <%s", name)
		}
		sc.pos += 2
		return xmlEvent{kind: xStart, name: name, selfClose: true}, nil
	default:
		return xmlEvent{}, sc.errf("attributes are not supported in element <%s>", name)
	}
}

func (sc *scanner) scanEndTag() (xmlEvent, error) {
	sc.pos += 2 // '</'
	name, err := sc.scanName()
	if err != nil {
		return xmlEvent{}, err
	}
	if err := sc.skipSpace(); err != nil {
		return xmlEvent{}, err
	}
	ok, err := sc.need(1)
	if err != nil {
		return xmlEvent{}, err
	}
	if !ok || sc.buf[sc.pos] != '>' {
		return xmlEvent{}, sc.errf("malformed end tag </%s", name)
	}
	sc.pos++
	return xmlEvent{kind: xEnd, name: name}, nil
}

// scanName consumes an element name: one or more bytes that are not
// whitespace, '/', '>' or markup characters. Grammar-level validation
// happens above, where native and wrapped modes differ.
func (sc *scanner) scanName() (string, error) {
	var b strings.Builder
	for {
		ok, err := sc.fill()
		if err != nil {
			return "", err
		}
		if !ok {
			break
		}
		c := sc.buf[sc.pos]
		if c == ' ' || c == '\t' || c == '\r' || c == '\n' || c == '/' || c == '>' {
			break
		}
		if c == '<' || c == '&' || c == '=' || c == '"' || c == '\'' {
			return "", sc.errf("invalid character %q in element name", c)
		}
		sc.pos++
		b.WriteByte(c)
	}
	if b.Len() == 0 {
		return "", sc.errf("empty element name")
	}
	return b.String(), nil
}

func (sc *scanner) skipSpace() error {
	for {
		ok, err := sc.fill()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		switch sc.buf[sc.pos] {
		case ' ', '\t', '\r', '\n':
			sc.pos++
		default:
			return nil
		}
	}
}
