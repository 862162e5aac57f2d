// Package stream defines the token protocol every data store encoding
// implements: a well-nested pull stream of ObjectStart, ObjectEnd and
// Value events isomorphic to a pre-order walk of the node tree.
//
// The package carries the Reader and Writer capability interfaces, the
// State machine both sides use to reject malformed sequences, the
// conversions between token streams and ir trees, and the Serializer
// protocol that lets arbitrary application types read and write
// themselves through any encoding.
//
// # Example: materializing a tree
//
//	r := jsonfmt.NewReader(src, jsonfmt.Native())
//	defer r.Close()
//	root, err := stream.ReadNode(r) // nil root means empty store
//
// # Example: cross-encoding copy
//
//	w := xmlfmt.NewWriter(dst)
//	if err := stream.CopyTokens(w, r); err != nil {
//	    return err
//	}
//	return w.Close()
package stream
