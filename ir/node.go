// Package ir defines the in-memory representation of a data store: a
// tree of named nodes where interior nodes are objects with ordered,
// uniquely named children and leaves hold text or binary payloads.
package ir

import (
	"github.com/substrail/dstore/escape"
)

// Kind discriminates the node union.
type Kind int

const (
	ObjectKind Kind = iota
	TextKind
	BinaryKind
)

func (k Kind) String() string {
	switch k {
	case ObjectKind:
		return "Object"
	case TextKind:
		return "TextValue"
	case BinaryKind:
		return "BinaryValue"
	default:
		return "Unknown"
	}
}

// Node is one node of a data store tree. Exactly the fields selected by
// Kind are meaningful: Children for ObjectKind, Text for TextKind,
// Bytes for BinaryKind. A whole store is a *Node root or nil, nil
// meaning "no root" (distinct from an empty object).
type Node struct {
	Kind Kind
	Name string

	Children []*Node
	Text     string
	Bytes    []byte
}

// NewObject creates an object node with no children.
func NewObject(name string) (*Node, error) {
	if !escape.IsValidName(name) {
		return nil, &InvalidNameError{Name: name}
	}
	return &Node{Kind: ObjectKind, Name: name}, nil
}

// NewText creates a text value node.
func NewText(name, text string) (*Node, error) {
	if !escape.IsValidName(name) {
		return nil, &InvalidNameError{Name: name}
	}
	return &Node{Kind: TextKind, Name: name, Text: text}, nil
}

// NewBinary creates a binary value node. The data slice is not copied.
func NewBinary(name string, data []byte) (*Node, error) {
	if !escape.IsValidName(name) {
		return nil, &InvalidNameError{Name: name}
	}
	return &Node{Kind: BinaryKind, Name: name, Bytes: data}, nil
}

// MustObject is NewObject for statically known good names.
func MustObject(name string) *Node {
	n, err := NewObject(name)
	if err != nil {
		panic(err)
	}
	return n
}

// MustText is NewText for statically known good names.
func MustText(name, text string) *Node {
	n, err := NewText(name, text)
	if err != nil {
		panic(err)
	}
	return n
}

// MustBinary is NewBinary for statically known good names.
func MustBinary(name string, data []byte) *Node {
	n, err := NewBinary(name, data)
	if err != nil {
		panic(err)
	}
	return n
}

// Len returns the number of children.
func (n *Node) Len() int {
	return len(n.Children)
}

// Append adds child at the end of the child sequence. It fails with
// *DuplicateNameError when a sibling of the same name exists, so a
// well-formed tree never holds ambiguous lookups.
func (n *Node) Append(child *Node) error {
	if n.Kind != ObjectKind {
		return &KindError{Op: "Append", Kind: n.Kind}
	}
	if n.Index(child.Name) >= 0 {
		return &DuplicateNameError{Name: child.Name, Parent: n.Name}
	}
	n.Children = append(n.Children, child)
	return nil
}

// RemoveAt removes the child at index i, preserving order of the rest.
func (n *Node) RemoveAt(i int) *Node {
	child := n.Children[i]
	n.Children = append(n.Children[:i], n.Children[i+1:]...)
	return child
}

// Index returns the position of the child named name, or -1. Comparison
// is ordinal and case sensitive.
func (n *Node) Index(name string) int {
	for i := range n.Children {
		if n.Children[i].Name == name {
			return i
		}
	}
	return -1
}

// Get returns the child named name, or nil.
func (n *Node) Get(name string) *Node {
	if i := n.Index(name); i >= 0 {
		return n.Children[i]
	}
	return nil
}

// Resolve walks a /-separated path of names from n, returning nil when
// any component is missing.
func (n *Node) Resolve(path string) *Node {
	cur := n
	for _, comp := range escape.SplitPath(path) {
		if cur == nil || cur.Kind != ObjectKind {
			return nil
		}
		cur = cur.Get(comp)
	}
	return cur
}

// Lookup is Resolve with path validation: it fails with
// *InvalidPathError when path breaks the name grammar, and returns
// (nil, nil) when a component is merely missing.
func (n *Node) Lookup(path string) (*Node, error) {
	if !escape.IsValidPath(path) {
		return nil, &InvalidPathError{Path: path}
	}
	return n.Resolve(path), nil
}

// Clone returns a deep copy of n.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	dst := &Node{Kind: n.Kind, Name: n.Name, Text: n.Text}
	if n.Bytes != nil {
		dst.Bytes = append([]byte(nil), n.Bytes...)
	}
	if n.Children != nil {
		dst.Children = make([]*Node, len(n.Children))
		for i, c := range n.Children {
			dst.Children[i] = c.Clone()
		}
	}
	return dst
}

// Visit walks the tree, calling f with isPost false before descending
// into an object's children and true after. Returning dive false skips
// the children.
func (n *Node) Visit(f func(n *Node, isPost bool) (bool, error)) error {
	dive, err := f(n, false)
	if err != nil {
		return err
	}
	if dive && n.Kind == ObjectKind {
		for _, c := range n.Children {
			if err := c.Visit(f); err != nil {
				return err
			}
		}
	}
	if _, err := f(n, true); err != nil {
		return err
	}
	return nil
}
