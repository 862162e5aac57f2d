package xmlfmt

// Option configures Reader/Writer behavior.
type Option func(*opts)

type opts struct {
	native  bool
	indent  bool
	newline string
}

// Native selects native data store mode: the document element IS the
// store root node and element names must already be valid names.
// Without it the document element is a synthetic wrapper (written as
// <root>) whose zero-or-one children are the store, and element names
// are escaped on read and unescaped on write; an empty wrapper means
// "no root".
func Native() Option {
	return func(o *opts) {
		o.native = true
	}
}

// Indent enables pretty-printed output: two spaces per nesting level.
// Writer-only; it never changes the parsed token stream.
func Indent() Option {
	return func(o *opts) {
		o.indent = true
	}
}

// Newline sets the line separator. Defaults to "\r\n".
func Newline(nl string) Option {
	return func(o *opts) {
		o.newline = nl
	}
}

func makeOpts(options []Option) *opts {
	o := &opts{newline: "\r\n"}
	for _, opt := range options {
		opt(o)
	}
	return o
}
