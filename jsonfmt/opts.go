package jsonfmt

// Option configures Reader/Writer behavior.
type Option func(*opts)

type opts struct {
	native  bool
	indent  bool
	newline string
}

// Native selects native data store mode: the top-level JSON object is
// the store itself, so `{}` means "no root" and keys must already be
// valid names. Without it the reader/writer wraps the document in a
// synthetic root object and escapes/unescapes keys, so arbitrary JSON
// round-trips.
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

// Newline sets the line separator used with Indent. Defaults to "\n".
func Newline(nl string) Option {
	return func(o *opts) {
		o.newline = nl
	}
}

func makeOpts(options []Option) *opts {
	o := &opts{newline: "\n"}
	for _, opt := range options {
		opt(o)
	}
	return o
}
