package escape

import "strings"

// Separator joins path components.
const Separator = "/"

// IsValidPath reports whether every component of path is a valid name.
// The empty path is valid and denotes the root.
func IsValidPath(path string) bool {
	if path == "" {
		return true
	}
	for _, comp := range strings.Split(path, Separator) {
		if !IsValidName(comp) {
			return false
		}
	}
	return true
}

// SplitPath splits path into its components. The empty path has no
// components.
func SplitPath(path string) []string {
	if path == "" {
		return nil
	}
	return strings.Split(path, Separator)
}

// EscapePath escapes each component of path independently.
func EscapePath(path string) string {
	if path == "" {
		return ""
	}
	comps := strings.Split(path, Separator)
	for i, comp := range comps {
		comps[i] = Escape(comp)
	}
	return strings.Join(comps, Separator)
}

// UnescapePath unescapes each component of path independently.
func UnescapePath(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	comps := strings.Split(path, Separator)
	for i, comp := range comps {
		u, err := Unescape(comp)
		if err != nil {
			return "", err
		}
		comps[i] = u
	}
	return strings.Join(comps, Separator), nil
}

// CombinePath joins parent and child with the separator. An empty side
// is treated as absent: CombinePath("", "x") == "x" and
// CombinePath("x", "") == "x".
func CombinePath(parent, child string) string {
	if parent == "" {
		return child
	}
	if child == "" {
		return parent
	}
	return parent + Separator + child
}

// ParentPath returns path with its last component removed, or "" when
// path has at most one component.
func ParentPath(path string) string {
	i := strings.LastIndex(path, Separator)
	if i < 0 {
		return ""
	}
	return path[:i]
}

// NodeName returns the last component of path, or "" for the empty path.
func NodeName(path string) string {
	i := strings.LastIndex(path, Separator)
	if i < 0 {
		return path
	}
	return path[i+1:]
}
