package stream

// BufferedToken is one recorded protocol event.
type BufferedToken struct {
	Type TokenType
	Name string
	Val  Value
}

// Buffer is an in-memory Writer that records the token stream for
// later replay through a BufferReader. It validates structure the same
// way the concrete encodings do, so a Buffer can stand in for either
// of them in tests and in serializer plumbing.
type Buffer struct {
	toks   []BufferedToken
	state  *State
	closed bool
}

var _ Writer = (*Buffer)(nil)

// NewBuffer creates an empty token buffer.
func NewBuffer() *Buffer {
	return &Buffer{state: NewState()}
}

// Tokens returns the recorded stream.
func (b *Buffer) Tokens() []BufferedToken {
	return b.toks
}

func (b *Buffer) WriteObjectStart(name string) error {
	return b.record(BufferedToken{Type: TokenObjectStart, Name: name})
}

func (b *Buffer) WriteObjectEnd() error {
	return b.record(BufferedToken{Type: TokenObjectEnd})
}

func (b *Buffer) WriteValue(name string, v Value) error {
	return b.record(BufferedToken{Type: TokenValue, Name: name, Val: v})
}

func (b *Buffer) record(t BufferedToken) error {
	if b.closed {
		return ErrClosed
	}
	if err := b.state.Process(t.Type, t.Name); err != nil {
		return err
	}
	b.toks = append(b.toks, t)
	return nil
}

// Close seals the buffer. Idempotent.
func (b *Buffer) Close() error {
	if b.closed {
		return nil
	}
	if err := b.state.Finish(); err != nil {
		return err
	}
	b.closed = true
	return nil
}

// BufferReader replays a recorded token stream.
type BufferReader struct {
	toks   []BufferedToken
	pos    int
	cur    BufferedToken
	closed bool
}

var _ Reader = (*BufferReader)(nil)

// NewBufferReader creates a Reader over b's recorded tokens.
func NewBufferReader(b *Buffer) *BufferReader {
	return &BufferReader{toks: b.toks}
}

func (r *BufferReader) Read() (bool, error) {
	if r.closed {
		return false, ErrClosed
	}
	if r.pos >= len(r.toks) {
		r.cur = BufferedToken{}
		return false, nil
	}
	r.cur = r.toks[r.pos]
	r.pos++
	return true, nil
}

func (r *BufferReader) Token() TokenType { return r.cur.Type }
func (r *BufferReader) Name() string     { return r.cur.Name }
func (r *BufferReader) Value() Value     { return r.cur.Val }

// Close seals the reader. Idempotent.
func (r *BufferReader) Close() error {
	r.closed = true
	return nil
}
