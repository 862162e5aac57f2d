// Package format names the concrete encodings a data store document
// can travel in.
package format

import (
	"errors"
	"fmt"
	"strings"
)

type Format int

const (
	JSONFormat Format = iota
	XMLFormat
)

var ErrBadFormat = errors.New("bad format")

func ParseFormat(v string) (Format, error) {
	f, ok := map[string]Format{
		"j":    JSONFormat,
		"json": JSONFormat,
		"x":    XMLFormat,
		"xml":  XMLFormat,
	}[strings.ToLower(v)]
	if ok {
		return f, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrBadFormat, v)
}

// Detect guesses the format from a file name suffix.
func Detect(path string) (Format, error) {
	switch {
	case strings.HasSuffix(path, ".json"):
		return JSONFormat, nil
	case strings.HasSuffix(path, ".xml"):
		return XMLFormat, nil
	}
	return 0, fmt.Errorf("%w: cannot detect format of %q", ErrBadFormat, path)
}

func (f Format) String() string {
	d, err := f.MarshalText()
	if err != nil {
		return err.Error()
	}
	return string(d)
}

func (f Format) MarshalText() ([]byte, error) {
	switch f {
	case JSONFormat:
		return []byte("json"), nil
	case XMLFormat:
		return []byte("xml"), nil
	default:
		return nil, fmt.Errorf("<err: %d is not a format>", f)
	}
}

func (f *Format) UnmarshalText(d []byte) error {
	pf, err := ParseFormat(string(d))
	if err != nil {
		return err
	}
	*f = pf
	return nil
}

func (f Format) IsJSON() bool { return f == JSONFormat }
func (f Format) IsXML() bool  { return f == XMLFormat }

// Suffix returns the file extension for this format (including the dot).
func (f Format) Suffix() string {
	switch f {
	case JSONFormat:
		return ".json"
	case XMLFormat:
		return ".xml"
	default:
		return ""
	}
}

// AllFormats returns all supported formats in preference order.
func AllFormats() []Format {
	return []Format{JSONFormat, XMLFormat}
}
