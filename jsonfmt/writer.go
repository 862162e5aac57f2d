package jsonfmt

import (
	"bufio"
	"encoding/base64"
	"io"
	"strings"

	"github.com/substrail/dstore/escape"
	"github.com/substrail/dstore/stream"
)

// Writer translates the token protocol into a JSON document. In native
// mode the document's top-level object is the store container: an
// empty store writes `{}` and the root node becomes its only member.
// In wrapped mode the root object itself becomes the document and its
// member names are unescaped back to the arbitrary strings they encode.
//
// The document is completed on Close; a Writer is single use.
type Writer struct {
	bw    *bufio.Writer
	sink  io.Writer
	opts  *opts
	state *stream.State

	depth   int // open JSON objects, including the container
	started bool
	needSep bool // a member was written at the current depth
	closed  bool
	err     error
}

var _ stream.Writer = (*Writer)(nil)

// NewWriter creates a Writer emitting JSON to w. Close closes w iff it
// implements io.Closer.
func NewWriter(w io.Writer, options ...Option) *Writer {
	return &Writer{
		bw:    bufio.NewWriter(w),
		sink:  w,
		opts:  makeOpts(options),
		state: stream.NewState(),
	}
}

// WriteObjectStart begins a named object.
func (w *Writer) WriteObjectStart(name string) error {
	if err := w.ready(); err != nil {
		return err
	}
	if err := w.state.Process(stream.TokenObjectStart, name); err != nil {
		return w.fail(err)
	}
	if w.state.Depth() == 1 && !w.opts.native {
		// Wrapped mode: the root object is the document itself; its
		// name is synthetic and not written.
		w.writeByte('{')
		w.depth++
		w.needSep = false
		return w.flushErr()
	}
	w.member(name)
	w.writeByte('{')
	w.depth++
	w.needSep = false
	return w.flushErr()
}

// WriteObjectEnd closes the innermost open object.
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
	w.closeBrace()
	return w.flushErr()
}

// WriteValue emits a named leaf. Binary payloads are written as base64
// strings; the wire has only one scalar form.
func (w *Writer) WriteValue(name string, v stream.Value) error {
	if err := w.ready(); err != nil {
		return err
	}
	if err := w.state.Process(stream.TokenValue, name); err != nil {
		return w.fail(err)
	}
	w.member(name)
	if v.Binary {
		w.writeQuoted(base64.StdEncoding.EncodeToString(v.Bytes))
	} else {
		w.writeQuoted(v.Text)
	}
	w.needSep = true
	return w.flushErr()
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
				// Empty store: still a complete document.
				w.writeByte('{')
				w.depth++
				w.needSep = false
			}
			for w.depth > 0 {
				w.closeBrace()
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

// ready opens the top-level container lazily before the first token.
func (w *Writer) ready() error {
	if w.closed {
		return stream.ErrClosed
	}
	if w.err != nil {
		return w.err
	}
	if !w.started {
		w.started = true
		// Native mode opens the container eagerly. Wrapped mode opens
		// it when the root token arrives: WriteObjectStart for an
		// object root, member() for a value root.
		if w.opts.native {
			w.writeByte('{')
			w.depth++
			w.needSep = false
		}
	}
	return w.err
}

// member writes separator, indentation and the quoted key with colon,
// or just separator/indent at top level of a wrapped value root.
func (w *Writer) member(name string) {
	if w.depth == 0 && !w.opts.native {
		// Wrapped value root: synthesize the container.
		w.writeByte('{')
		w.depth++
		w.needSep = false
	}
	if w.needSep {
		w.writeByte(',')
	}
	w.newlineIndent(w.depth)
	key := name
	if !w.opts.native {
		if u, err := escape.Unescape(name); err == nil {
			key = u
		} else {
			w.fail(err)
			return
		}
	}
	w.writeQuoted(key)
	w.writeByte(':')
	if w.opts.indent {
		w.writeByte(' ')
	}
	w.needSep = false
}

func (w *Writer) closeBrace() {
	w.depth--
	if w.needSep {
		// The object had members; close on its own line.
		w.newlineIndent(w.depth)
	}
	w.writeByte('}')
	w.needSep = true
}

func (w *Writer) newlineIndent(depth int) {
	if !w.opts.indent {
		return
	}
	w.writeString(w.opts.newline)
	w.writeString(strings.Repeat("  ", depth))
}

func (w *Writer) writeByte(b byte) {
	if w.err != nil {
		return
	}
	w.err = w.bw.WriteByte(b)
}

func (w *Writer) writeString(s string) {
	if w.err != nil {
		return
	}
	_, w.err = w.bw.WriteString(s)
}

const hexDigits = "0123456789ABCDEF"

// writeQuoted writes s as a JSON string literal. Non-ASCII text stays
// raw UTF-8; only the characters JSON requires escaping for are
// escaped.
func (w *Writer) writeQuoted(s string) {
	w.writeByte('"')
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '"':
			w.writeString(`\"`)
		case c == '\\':
			w.writeString(`\\`)
		case c == '\n':
			w.writeString(`\n`)
		case c == '\r':
			w.writeString(`\r`)
		case c == '\t':
			w.writeString(`\t`)
		case c == '\b':
			w.writeString(`\b`)
		case c == '\f':
			w.writeString(`\f`)
		case c < 0x20:
			w.writeString(`\u00`)
			w.writeByte(hexDigits[c>>4])
			w.writeByte(hexDigits[c&0xF])
		default:
			w.writeByte(c)
		}
	}
	w.writeByte('"')
}

func (w *Writer) fail(err error) error {
	if w.err == nil {
		w.err = err
	}
	return w.err
}

func (w *Writer) flushErr() error {
	return w.err
}
