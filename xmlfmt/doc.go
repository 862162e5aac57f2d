// Package xmlfmt implements the XML-shaped encoding of the data store
// token protocol.
//
// Objects map to elements with element content and leaf values to
// elements with character data; binary payloads travel as base64 text.
// The empty-leaf ambiguity is resolved by syntax: the writer emits
// self-closing tags only for empty text values, so <name /> reads back
// as an empty text value and <name></name> as an empty object.
//
// The scanner and writer speak the subset of XML the store needs: a
// prolog, elements without attributes, character data with entity
// references, and comments on input. CDATA sections and DOCTYPE
// declarations are syntax errors.
package xmlfmt
