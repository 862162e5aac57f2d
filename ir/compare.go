package ir

import (
	"bytes"
	"cmp"
	"strings"
)

// Equal reports structural equality: same kind, same name (ordinal),
// identical payload for values, pairwise-equal children in the same
// order for objects. Two nils are equal.
func Equal(a, b *Node) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	if a.Kind != b.Kind || a.Name != b.Name {
		return false
	}
	switch a.Kind {
	case TextKind:
		return a.Text == b.Text
	case BinaryKind:
		return bytes.Equal(a.Bytes, b.Bytes)
	case ObjectKind:
		if len(a.Children) != len(b.Children) {
			return false
		}
		for i := range a.Children {
			if !Equal(a.Children[i], b.Children[i]) {
				return false
			}
		}
		return true
	}
	return false
}

// Compare returns an integer comparing two nodes, giving a total order
// for deterministic diff output. The result is 0 if a==b, -1 if a < b,
// and +1 if a > b. nil sorts first, then kind rank
// (Text < Binary < Object), then name, then payload or children.
func Compare(a, b *Node) int {
	if a == b {
		return 0
	}
	if a == nil {
		return -1
	}
	if b == nil {
		return 1
	}
	if c := cmp.Compare(rank(a.Kind), rank(b.Kind)); c != 0 {
		return c
	}
	if c := strings.Compare(a.Name, b.Name); c != 0 {
		return c
	}
	switch a.Kind {
	case TextKind:
		return strings.Compare(a.Text, b.Text)
	case BinaryKind:
		return bytes.Compare(a.Bytes, b.Bytes)
	case ObjectKind:
		n := min(len(a.Children), len(b.Children))
		for i := 0; i < n; i++ {
			if c := Compare(a.Children[i], b.Children[i]); c != 0 {
				return c
			}
		}
		return cmp.Compare(len(a.Children), len(b.Children))
	}
	return 0
}

func rank(k Kind) int {
	switch k {
	case TextKind:
		return 0
	case BinaryKind:
		return 1
	case ObjectKind:
		return 2
	}
	return 100
}
