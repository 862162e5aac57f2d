// Package jsonfmt implements the JSON-shaped encoding of the data
// store token protocol.
//
// Objects map to JSON objects and leaf values map to JSON strings
// (binary payloads travel as base64 text; the wire has one scalar
// form). JSON values the store cannot represent - numbers, booleans,
// null, arrays - are syntax errors.
//
// Two root-handling modes exist. In native mode the top-level JSON
// object is the store container: `{}` means "no root", one member is
// the root node, and keys must already be valid names. In wrapped mode
// (the default) the document is wrapped in a synthetic root object
// named "root" and member keys are escaped/unescaped, so arbitrary
// JSON round-trips even when its keys are not valid names.
package jsonfmt
