package stream

// Reader is the pull side of the token protocol. A Reader is stateful
// and not safe for concurrent use. Read advances to the next token and
// reports false when the stream is exhausted; the accessors describe
// the current token until the next Read. After Close, every method
// fails with ErrClosed.
type Reader interface {
	// Read advances to the next token. It returns false with a nil
	// error at end of stream, and false with a non-nil error on the
	// first malformed input; the reader is terminal after either.
	Read() (bool, error)
	// Token returns the current token type (TokenNone before the first
	// Read and at end of stream).
	Token() TokenType
	// Name returns the name of the current ObjectStart or Value token.
	Name() string
	// Value returns the payload of the current Value token.
	Value() Value
	// Close releases the underlying source. It is idempotent.
	Close() error
}

// Writer is the push side of the token protocol. Calls must form a
// well-nested stream with at most one top-level sequence. A Writer is
// stateful and not safe for concurrent use. After Close, every method
// fails with ErrClosed.
type Writer interface {
	WriteObjectStart(name string) error
	WriteObjectEnd() error
	WriteValue(name string, v Value) error
	// Close flushes and releases the underlying sink. It is idempotent.
	Close() error
}
