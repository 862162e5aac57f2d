package jsonfmt

import (
	"fmt"
	"io"

	"github.com/substrail/dstore/escape"
	"github.com/substrail/dstore/stream"
)

// parser phases for the member-list walk.
type phase int

const (
	phaseDoc        phase = iota // expect the opening '{'
	phaseMember                  // expect a key or '}'
	phaseMemberNext              // expect ',' or '}'
	phaseValue                   // expect a member value ('{' or string)
	phaseEnd                     // expect end of input
)

// Reader translates a JSON document into the token protocol. See
// Native for the two root-handling modes. Reader is single use: after
// an error or end of stream it stays terminal.
type Reader struct {
	tz    *tokenizer
	opts  *opts
	state *stream.State
	src   io.Reader

	phase  phase
	depth  int // open real objects (excludes the native-mode container)
	closed bool
	done   bool
	err    error

	tok  stream.TokenType
	name string
	val  stream.Value
}

var _ stream.Reader = (*Reader)(nil)

// NewReader creates a Reader pulling JSON from r. The reader buffers
// incrementally; r is not read past the end of the document's trailing
// whitespace. Close closes r iff it implements io.Closer.
func NewReader(r io.Reader, options ...Option) *Reader {
	return &Reader{
		tz:    newTokenizer(r),
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

// advance runs the JSON grammar until one protocol token is produced
// or the document ends.
func (r *Reader) advance() (bool, error) {
	for {
		tok, err := r.tz.next()
		if err != nil {
			return false, err
		}
		switch r.phase {
		case phaseDoc:
			if tok.kind != tLCurl {
				return false, r.tz.errf("expected '{', got %s", tok.kind)
			}
			r.phase = phaseMember
			if !r.opts.native {
				// Wrapped mode materializes the synthetic root.
				return r.emitStart("root")
			}

		case phaseMember:
			switch tok.kind {
			case tRCurl:
				return r.closeObject()
			case tString:
				name, err := r.keyToName(tok.str)
				if err != nil {
					return false, err
				}
				r.name = name
				r.phase = phaseValue
				if err := r.expect(tColon); err != nil {
					return false, err
				}
			default:
				return false, r.tz.errf("expected key or '}', got %s", tok.kind)
			}

		case phaseValue:
			switch tok.kind {
			case tLCurl:
				r.phase = phaseMember
				return r.emitStart(r.name)
			case tString:
				r.phase = phaseMemberNext
				return r.emitValue(r.name, tok.str)
			default:
				return false, r.tz.errf("expected value, got %s", tok.kind)
			}

		case phaseMemberNext:
			switch tok.kind {
			case tComma:
				r.phase = phaseMember
			case tRCurl:
				return r.closeObject()
			default:
				return false, r.tz.errf("expected ',' or '}', got %s", tok.kind)
			}

		case phaseEnd:
			if tok.kind != tEOF {
				return false, r.tz.errf("trailing content after document")
			}
			return false, nil
		}
	}
}

// closeObject handles a '}' in member position.
func (r *Reader) closeObject() (bool, error) {
	if r.depth == 0 {
		// Top-level container close.
		r.phase = phaseEnd
		if !r.opts.native {
			return r.emitEnd()
		}
		// Native mode: the container is not a node. Verify EOF now so
		// the caller sees errors before a clean end of stream.
		tok, err := r.tz.next()
		if err != nil {
			return false, err
		}
		if tok.kind != tEOF {
			return false, r.tz.errf("trailing content after document")
		}
		return false, nil
	}
	r.depth--
	r.phase = phaseMemberNext
	return r.emitEnd()
}

func (r *Reader) keyToName(key string) (string, error) {
	if r.opts.native {
		if !escape.IsValidName(key) {
			return "", &SyntaxError{Offset: r.tz.offset(), Msg: fmt.Sprintf("key %q is not a valid name", key)}
		}
		return key, nil
	}
	return escape.Escape(key), nil
}

func (r *Reader) expect(k tokKind) error {
	tok, err := r.tz.next()
	if err != nil {
		return err
	}
	if tok.kind != k {
		return r.tz.errf("expected %s, got %s", k, tok.kind)
	}
	return nil
}

func (r *Reader) emitStart(name string) (bool, error) {
	if err := r.state.Process(stream.TokenObjectStart, name); err != nil {
		return false, err
	}
	r.depth = r.state.Depth() - boolInt(!r.opts.native)
	r.tok = stream.TokenObjectStart
	r.name = name
	r.val = stream.Value{}
	return true, nil
}

func (r *Reader) emitEnd() (bool, error) {
	if err := r.state.Process(stream.TokenObjectEnd, ""); err != nil {
		return false, err
	}
	r.tok = stream.TokenObjectEnd
	r.name = ""
	r.val = stream.Value{}
	return true, nil
}

func (r *Reader) emitValue(name, text string) (bool, error) {
	if err := r.state.Process(stream.TokenValue, name); err != nil {
		return false, err
	}
	r.tok = stream.TokenValue
	r.name = name
	r.val = stream.TextValue(text)
	return true, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
