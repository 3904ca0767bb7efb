// Package path provides parsing and identity for dot-separated state paths.
//
// A path addresses a nested location in a state tree. It has two equivalent
// forms: a dot-separated string ("editor.tabSize") and a sequence of string
// segments. The canonical form is the segment sequence; the dot-joined form
// is the path's identity and is used as a lookup key for listeners and
// validators.
package path

import (
	"errors"
	"strings"
)

// ErrInvalidPath indicates a path argument that is neither a string nor a
// sequence of strings.
var ErrInvalidPath = errors.New("path must be a string or a slice of strings")

// Path is an ordered sequence of segments addressing a nested location.
type Path []string

// Parse splits a dot-separated string into a Path.
// The empty string parses to the empty path, which addresses the root.
func Parse(s string) Path {
	if s == "" {
		return Path{}
	}
	return Path(strings.Split(s, "."))
}

// Normalize converts a path argument into canonical form.
// Accepted shapes are string, []string, Path, and []any whose elements are
// all strings. Anything else returns ErrInvalidPath.
// The returned Path never aliases the input.
func Normalize(v any) (Path, error) {
	switch p := v.(type) {
	case string:
		return Parse(p), nil
	case Path:
		out := make(Path, len(p))
		copy(out, p)
		return out, nil
	case []string:
		out := make(Path, len(p))
		copy(out, p)
		return out, nil
	case []any:
		out := make(Path, len(p))
		for i, elem := range p {
			s, ok := elem.(string)
			if !ok {
				return nil, ErrInvalidPath
			}
			out[i] = s
		}
		return out, nil
	default:
		return nil, ErrInvalidPath
	}
}

// ID returns the dot-joined identity of the path.
// A segment containing a literal dot is indistinguishable from two segments
// in this form; that ambiguity is accepted.
func (p Path) ID() string {
	return strings.Join(p, ".")
}

// String returns the path identity.
func (p Path) String() string {
	return p.ID()
}

// Child returns a new Path with seg appended. The result never shares
// backing storage with p, so held child paths stay stable during recursion.
func (p Path) Child(seg string) Path {
	out := make(Path, len(p)+1)
	copy(out, p)
	out[len(p)] = seg
	return out
}

// IsRoot reports whether the path is empty and addresses the root.
func (p Path) IsRoot() bool {
	return len(p) == 0
}
