package stream

import (
	"github.com/substrail/dstore/ir"
)

// WriteNode writes node as one balanced token subsequence: a single
// Value for a leaf, or an ObjectStart/ObjectEnd pair around the
// children for an object, in a depth-first pre-order walk. A nil node
// writes nothing.
func WriteNode(w Writer, node *ir.Node) error {
	if node == nil {
		return nil
	}
	switch node.Kind {
	case ir.TextKind:
		return w.WriteValue(node.Name, TextValue(node.Text))
	case ir.BinaryKind:
		return w.WriteValue(node.Name, BinaryValue(node.Bytes))
	case ir.ObjectKind:
		if err := w.WriteObjectStart(node.Name); err != nil {
			return err
		}
		for _, child := range node.Children {
			if err := WriteNode(w, child); err != nil {
				return err
			}
		}
		return w.WriteObjectEnd()
	}
	return &StructureError{Path: node.Name, Msg: "unknown node kind"}
}

// ReadNode materializes the next balanced token subsequence from r as
// a tree. It returns (nil, nil) when the reader is already exhausted,
// which is how the absence of a root travels through the protocol. The
// reader is left positioned immediately after the consumed subsequence.
func ReadNode(r Reader) (*ir.Node, error) {
	var (
		stack []*ir.Node
		root  *ir.Node
	)
	for {
		ok, err := r.Read()
		if err != nil {
			return nil, err
		}
		if !ok {
			if len(stack) != 0 {
				return nil, &StructureError{Path: stack[len(stack)-1].Name, Msg: "unclosed object at end of stream"}
			}
			return root, nil
		}
		var node *ir.Node
		switch r.Token() {
		case TokenObjectStart:
			node, err = ir.NewObject(r.Name())
			if err != nil {
				return nil, err
			}
		case TokenObjectEnd:
			if len(stack) == 0 {
				return nil, &StructureError{Msg: "object end without matching start"}
			}
			done := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				return done, nil
			}
			continue
		case TokenValue:
			v := r.Value()
			if v.Binary {
				node, err = ir.NewBinary(r.Name(), v.Bytes)
			} else {
				node, err = ir.NewText(r.Name(), v.Text)
			}
			if err != nil {
				return nil, err
			}
		default:
			return nil, &StructureError{Msg: "unexpected token " + r.Token().String()}
		}

		if len(stack) == 0 {
			root = node
		} else if err := stack[len(stack)-1].Append(node); err != nil {
			return nil, err
		}
		if node.Kind == ir.ObjectKind {
			stack = append(stack, node)
			continue
		}
		if len(stack) == 0 {
			// Leaf at top level is a complete subsequence.
			return root, nil
		}
	}
}

// CopyTokens streams every remaining token from r into w, preserving
// structure. It is the identity transform between two encodings.
func CopyTokens(w Writer, r Reader) error {
	for {
		ok, err := r.Read()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		switch r.Token() {
		case TokenObjectStart:
			err = w.WriteObjectStart(r.Name())
		case TokenObjectEnd:
			err = w.WriteObjectEnd()
		case TokenValue:
			err = w.WriteValue(r.Name(), r.Value())
		}
		if err != nil {
			return err
		}
	}
}
