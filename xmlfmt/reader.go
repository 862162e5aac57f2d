package xmlfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/substrail/dstore/escape"
	"github.com/substrail/dstore/stream"
)

// Reader translates an XML document into the token protocol. See
// Native for the two root-handling modes.
//
// Whether an element is an object or a value is decided by its
// content: a self-closing tag is an empty text value, a paired tag
// with no content is an empty object, text-only content is a text
// value, and element content is an object. Mixing text and elements
// under one parent is a syntax error.
type Reader struct {
	sc    *scanner
	opts  *opts
	state *stream.State
	src   io.Reader

	// queue holds tokens resolved ahead of the caller; resolving a
	// paired empty tag produces two at once.
	queue []queued
	// open tracks elements already reported as ObjectStart.
	open []string
	// inWrapper is set between the synthetic wrapper's start and end
	// tags in wrapped mode; wrapperDone once the wrapper has closed,
	// after which only trailing whitespace and comments are legal.
	inWrapper   bool
	wrapperDone bool
	started     bool
	closed      bool
	done        bool
	err         error

	tok  stream.TokenType
	name string
	val  stream.Value
}

type queued struct {
	tok  stream.TokenType
	name string
	val  stream.Value
}

var _ stream.Reader = (*Reader)(nil)

// NewReader creates a Reader pulling XML from r. The reader buffers
// incrementally. Close closes r iff it implements io.Closer.
func NewReader(r io.Reader, options ...Option) *Reader {
	return &Reader{
		sc:    newScanner(r),
		opts:  makeOpts(options),
		state: stream.NewState(),
		src:   r,
	}
}

// Token returns the current token type.
func (r *Reader) Token() stream.TokenType { return r.tok }

// Name returns the name of the current ObjectStart or Value token.
func (r *Reader) Name() string { return r.name }

// Value returns the payload of the current Value token.
func (r *Reader) Value() stream.Value { return r.val }

// Close releases the underlying source. Idempotent.
func (r *Reader) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	if c, ok := r.src.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// Read advances to the next token of the stream, returning false at
// the end of the document.
func (r *Reader) Read() (bool, error) {
	if r.closed {
		return false, stream.ErrClosed
	}
	if r.err != nil {
		return false, r.err
	}
	if r.done {
		r.tok = stream.TokenNone
		return false, nil
	}
	ok, err := r.advance()
	if err != nil {
		r.err = err
		r.tok = stream.TokenNone
		return false, err
	}
	if !ok {
		r.done = true
		r.tok = stream.TokenNone
	}
	return ok, nil
}

func (r *Reader) advance() (bool, error) {
	if len(r.queue) > 0 {
		q := r.queue[0]
		r.queue = r.queue[1:]
		return r.emit(q.tok, q.name, q.val)
	}
	for {
		ev, err := r.sc.next()
		if err != nil {
			return false, err
		}
		switch ev.kind {
		case xEOF:
			if len(r.open) > 0 {
				return false, r.sc.errf("unclosed element <%s>", r.open[len(r.open)-1])
			}
			if r.inWrapper {
				return false, r.sc.errf("unclosed document element")
			}
			return false, nil

		case xText:
			if strings.TrimSpace(ev.text) == "" {
				continue
			}
			return false, r.sc.errf("mixed text and element content")

		case xEnd:
			if r.inWrapper && len(r.open) == 0 {
				// Wrapper close; nothing to emit.
				r.inWrapper = false
				r.wrapperDone = true
				continue
			}
			if len(r.open) == 0 {
				return false, r.sc.errf("unexpected end tag </%s>", ev.name)
			}
			want := r.open[len(r.open)-1]
			if ev.name != want {
				return false, r.sc.errf("end tag </%s> does not match <%s>", ev.name, want)
			}
			r.open = r.open[:len(r.open)-1]
			return r.emitChecked(stream.TokenObjectEnd, "", stream.Value{})

		case xStart:
			if r.wrapperDone {
				return false, r.sc.errf("element <%s> after document element", ev.name)
			}
			if !r.started {
				r.started = true
				if !r.opts.native {
					// The document element is the synthetic wrapper. For
					// <root /> the store is empty, but the rest of the
					// input must still be scanned for stray markup.
					if ev.selfClose {
						r.wrapperDone = true
						continue
					}
					r.inWrapper = true
					continue
				}
			}
			return r.element(ev)
		}
	}
}

// element resolves a real element into protocol tokens. For paired
// tags the element kind is unknown until the content begins, so the
// scanner is driven forward here until the kind is decided.
func (r *Reader) element(ev xmlEvent) (bool, error) {
	name, err := r.elementName(ev.name)
	if err != nil {
		return false, err
	}
	if ev.selfClose {
		// Self-closing syntax is reserved for empty text values.
		return r.emitChecked(stream.TokenValue, name, stream.TextValue(""))
	}
	var text strings.Builder
	sawText := false
	for {
		next, err := r.sc.next()
		if err != nil {
			return false, err
		}
		switch next.kind {
		case xText:
			text.WriteString(next.text)
			sawText = sawText || next.text != ""

		case xEnd:
			if next.name != ev.name {
				return false, r.sc.errf("end tag </%s> does not match <%s>", next.name, ev.name)
			}
			if sawText {
				return r.emitChecked(stream.TokenValue, name, stream.TextValue(text.String()))
			}
			// No content at all: an empty object.
			if err := r.check(stream.TokenObjectStart, name); err != nil {
				return false, err
			}
			if err := r.check(stream.TokenObjectEnd, ""); err != nil {
				return false, err
			}
			r.queue = append(r.queue, queued{tok: stream.TokenObjectEnd})
			return r.emit(stream.TokenObjectStart, name, stream.Value{})

		case xStart:
			if strings.TrimSpace(text.String()) != "" {
				return false, r.sc.errf("mixed text and element content in <%s>", ev.name)
			}
			// Element content: ev is an object and next is its first
			// child, resolved recursively into the queue.
			if err := r.check(stream.TokenObjectStart, name); err != nil {
				return false, err
			}
			r.open = append(r.open, ev.name)
			ok, err := r.element(next)
			if err != nil {
				return false, err
			}
			if !ok {
				return false, r.sc.errf("truncated content in <%s>", ev.name)
			}
			// The recursive call emitted the child; steal it back into
			// the queue and report the parent first.
			child := queued{tok: r.tok, name: r.name, val: r.val}
			r.queue = append([]queued{child}, r.queue...)
			return r.emit(stream.TokenObjectStart, name, stream.Value{})

		case xEOF:
			return false, r.sc.errf("unclosed element <%s>", ev.name)
		}
	}
}

func (r *Reader) elementName(xmlName string) (string, error) {
	if r.opts.native {
		if !escape.IsValidName(xmlName) {
			return "", &SyntaxError{Offset: r.sc.offset(), Msg: fmt.Sprintf("element name %q is not a valid name", xmlName)}
		}
		return xmlName, nil
	}
	return escape.Escape(xmlName), nil
}

// check validates a token against the stream state without emitting.
func (r *Reader) check(t stream.TokenType, name string) error {
	return r.state.Process(t, name)
}

// emitChecked validates and emits in one step.
func (r *Reader) emitChecked(t stream.TokenType, name string, v stream.Value) (bool, error) {
	if err := r.check(t, name); err != nil {
		return false, err
	}
	return r.emit(t, name, v)
}

// emit surfaces a token whose state transition already happened.
func (r *Reader) emit(t stream.TokenType, name string, v stream.Value) (bool, error) {
	r.tok = t
	r.name = name
	r.val = v
	return true, nil
}
