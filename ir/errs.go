package ir

import "fmt"

// InvalidNameError reports a node name that fails the name grammar.
type InvalidNameError struct {
	Name string
}

func (e *InvalidNameError) Error() string {
	return fmt.Sprintf("invalid node name %q", e.Name)
}

// InvalidPathError reports a path with an invalid component.
type InvalidPathError struct {
	Path string
}

func (e *InvalidPathError) Error() string {
	return fmt.Sprintf("invalid path %q", e.Path)
}

// DuplicateNameError reports an insert that would create two siblings
// with the same name.
type DuplicateNameError struct {
	Name   string
	Parent string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("duplicate child name %q in object %q", e.Name, e.Parent)
}

// KindError reports an operation applied to the wrong node kind.
type KindError struct {
	Op   string
	Kind Kind
}

func (e *KindError) Error() string {
	return fmt.Sprintf("%s on %s node", e.Op, e.Kind)
}
