package xmlfmt

import (
	"bufio"
	"encoding/base64"
	"fmt"
	"io"
	"strings"

	"github.com/substrail/dstore/escape"
	"github.com/substrail/dstore/stream"
)

// Prolog is the mandatory first line of every document this writer
// emits.
const Prolog = `<?xml version="1.0" encoding="utf-8"?>`

// NameError reports a store name that cannot be carried as a wrapped
// mode element name because its unescaped form is not a legal element
// name.
type NameError struct {
	Name      string // store name, escaped form
	Unescaped string // what it unescapes to
}

func (e *NameError) Error() string {
	return fmt.Sprintf("name %q does not unescape to a legal element name: %q", e.Name, e.Unescaped)
}

// Writer translates the token protocol into an XML document. The
// document always begins with the prolog. Empty text values are
// written self-closing (<name />) and empty objects as paired tags
// (<name></name>), which is what lets the reader tell them apart.
//
// In native mode the root node becomes the document element; an empty
// store is just the prolog. In wrapped mode a synthetic <root> element
// wraps the store and element names are unescaped.
type Writer struct {
	bw    *bufio.Writer
	sink  io.Writer
	opts  *opts
	state *stream.State

	// elems holds the open element names (wire form), wrapper included.
	elems []string
	// hadChild marks, per open element, whether a child was written;
	// an object with children closes on its own line when indenting.
	hadChild []bool
	started  bool
	closed   bool
	err      error
}

var _ stream.Writer = (*Writer)(nil)

// NewWriter creates a Writer emitting XML to w. Close closes w iff it
// implements io.Closer.
func NewWriter(w io.Writer, options ...Option) *Writer {
	return &Writer{
		bw:    bufio.NewWriter(w),
		sink:  w,
		opts:  makeOpts(options),
		state: stream.NewState(),
	}
}

// WriteObjectStart begins a named object element.
func (w *Writer) WriteObjectStart(name string) error {
	if err := w.ready(); err != nil {
		return err
	}
	if err := w.state.Process(stream.TokenObjectStart, name); err != nil {
		return w.fail(err)
	}
	xmlName, err := w.wireName(name)
	if err != nil {
		return w.fail(err)
	}
	w.openLine()
	w.writeString("<" + xmlName + ">")
	w.elems = append(w.elems, xmlName)
	w.hadChild = append(w.hadChild, false)
	return w.err
}

// WriteObjectEnd closes the innermost open object element.
func (w *Writer) WriteObjectEnd() error {
	if w.closed {
		return stream.ErrClosed
	}
	if w.err != nil {
		return w.err
	}
	if err := w.state.Process(stream.TokenObjectEnd, ""); err != nil {
		return w.fail(err)
	}
	w.closeElem()
	return w.err
}

// WriteValue emits a named leaf element. An empty payload writes the
// self-closing form; binary payloads are base64 text on the wire.
func (w *Writer) WriteValue(name string, v stream.Value) error {
	if err := w.ready(); err != nil {
		return err
	}
	if err := w.state.Process(stream.TokenValue, name); err != nil {
		return w.fail(err)
	}
	xmlName, err := w.wireName(name)
	if err != nil {
		return w.fail(err)
	}
	text := v.Text
	if v.Binary {
		text = base64.StdEncoding.EncodeToString(v.Bytes)
	}
	w.openLine()
	if text == "" {
		w.writeString("<" + xmlName + " />")
		return w.err
	}
	w.writeString("<" + xmlName + ">")
	w.writeEscaped(text)
	w.writeString("</" + xmlName + ">")
	return w.err
}

// Close completes the document, flushes, and releases the sink.
// Idempotent; later writes fail with stream.ErrClosed.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	if w.err == nil {
		if err := w.state.Finish(); err != nil {
			w.err = err
		} else {
			if !w.started {
				w.writeString(Prolog)
				if !w.opts.native {
					w.writeString(w.opts.newline)
					w.writeString("<root>")
					w.elems = append(w.elems, "root")
					w.hadChild = append(w.hadChild, false)
				}
			}
			for len(w.elems) > 0 {
				w.closeElem()
			}
			if err := w.bw.Flush(); err != nil && w.err == nil {
				w.err = err
			}
		}
	}
	if c, ok := w.sink.(io.Closer); ok {
		if err := c.Close(); err != nil && w.err == nil {
			w.err = err
		}
	}
	return w.err
}

// ready writes the prolog, and the wrapper in wrapped mode, before the
// first token.
func (w *Writer) ready() error {
	if w.closed {
		return stream.ErrClosed
	}
	if w.err != nil {
		return w.err
	}
	if !w.started {
		w.started = true
		w.writeString(Prolog)
		if !w.opts.native {
			w.writeString(w.opts.newline)
			w.writeString("<root>")
			w.elems = append(w.elems, "root")
			w.hadChild = append(w.hadChild, false)
		}
	}
	return w.err
}

// openLine positions the pen for a new element: marks the parent as
// having children and, when indenting, starts a fresh indented line.
func (w *Writer) openLine() {
	if len(w.hadChild) > 0 {
		w.hadChild[len(w.hadChild)-1] = true
	}
	if w.opts.indent {
		w.writeString(w.opts.newline)
		w.writeString(strings.Repeat("  ", len(w.elems)))
	} else if len(w.elems) == 0 {
		// The document element always begins on the line after the
		// prolog.
		w.writeString(w.opts.newline)
	}
}

func (w *Writer) closeElem() {
	n := len(w.elems) - 1
	name := w.elems[n]
	if w.opts.indent && w.hadChild[n] {
		w.writeString(w.opts.newline)
		w.writeString(strings.Repeat("  ", n))
	}
	w.writeString("</" + name + ">")
	w.elems = w.elems[:n]
	w.hadChild = w.hadChild[:n]
}

// wireName maps a store name to the element name written. Wrapped mode
// unescapes back to the original string, which must still be a legal
// element name.
func (w *Writer) wireName(name string) (string, error) {
	if w.opts.native {
		return name, nil
	}
	u, err := escape.Unescape(name)
	if err != nil {
		return "", err
	}
	if !legalElementName(u) {
		return "", &NameError{Name: name, Unescaped: u}
	}
	return u, nil
}

// fail records the first error and makes the writer terminal.
func (w *Writer) fail(err error) error {
	if w.err == nil {
		w.err = err
	}
	return w.err
}

// legalElementName checks the subset of XML names this writer will
// emit: no whitespace or markup characters, non-empty, not starting
// with a digit, '-' or '.'.
func legalElementName(s string) bool {
	if s == "" {
		return false
	}
	c := s[0]
	if c >= '0' && c <= '9' || c == '-' || c == '.' {
		return false
	}
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case ' ', '\t', '\r', '\n', '<', '>', '&', '/', '=', '"', '\'', '?', '!':
			return false
		}
	}
	return true
}

func (w *Writer) writeString(s string) {
	if w.err != nil {
		return
	}
	_, w.err = w.bw.WriteString(s)
}

// writeEscaped writes character data, escaping markup characters and
// the carriage return (so configured CRLF line ends never leak into
// payload text on re-parse).
func (w *Writer) writeEscaped(s string) {
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '&':
			w.writeString("&amp;")
		case '<':
			w.writeString("&lt;")
		case '>':
			w.writeString("&gt;")
		case '\r':
			w.writeString("&#xD;")
		default:
			if w.err != nil {
				return
			}
			w.err = w.bw.WriteByte(c)
		}
	}
}
