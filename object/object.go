// Package object implements traversal of nested state trees.
//
// A state tree is built from three shapes: keyed maps (map[string]any),
// sequences ([]any), and scalar leaves. Traversal descends maps by key and
// sequences by decimal index. Reads and writes are strict: a missing or
// non-container intermediate stops the operation, and Set never creates
// intermediate containers.
package object

import (
	"reflect"
	"strconv"

	"github.com/dshills/statepath/path"
)

// Get resolves the value at p starting from root.
// Returns false when any segment is missing, indexes out of range, or
// descends through a non-container. The empty path resolves to root itself.
func Get(root map[string]any, p path.Path) (any, bool) {
	if root == nil {
		return nil, false
	}

	var current any = root
	for _, seg := range p {
		switch c := current.(type) {
		case map[string]any:
			v, ok := c[seg]
			if !ok {
				return nil, false
			}
			current = v
		case []any:
			i, err := strconv.Atoi(seg)
			if err != nil || i < 0 || i >= len(c) {
				return nil, false
			}
			current = c[i]
		default:
			return nil, false
		}
	}

	return current, true
}

// GetDefault resolves the value at p, substituting def when the path does
// not resolve. A stored nil is a resolved value and is returned as-is.
func GetDefault(root map[string]any, p path.Path, def any) any {
	v, ok := Get(root, p)
	if !ok {
		return def
	}
	return v
}

// Set assigns value at p. Every non-terminal segment must already resolve to
// a map or sequence; missing intermediates are never created, and the first
// bad intermediate fails the whole operation before any mutation. A terminal
// sequence index may extend the sequence (the gap, if any, is filled with
// nils). Returns whether the assignment happened.
//
// The empty path is rejected: the root cannot be replaced through Set.
func Set(root map[string]any, p path.Path, value any) bool {
	if root == nil || len(p) == 0 {
		return false
	}
	_, ok := setIn(root, p, value)
	return ok
}

// setIn assigns value below container and returns the (possibly replaced)
// container. Sequences are replaced on growth, so every level writes its
// updated child back into the parent.
func setIn(container any, p path.Path, value any) (any, bool) {
	seg := p[0]

	switch c := container.(type) {
	case map[string]any:
		if len(p) == 1 {
			c[seg] = value
			return c, true
		}
		child, ok := c[seg]
		if !ok {
			return c, false
		}
		updated, ok := setIn(child, p[1:], value)
		if !ok {
			return c, false
		}
		c[seg] = updated
		return c, true

	case []any:
		i, err := strconv.Atoi(seg)
		if err != nil || i < 0 {
			return c, false
		}
		if len(p) == 1 {
			if i < len(c) {
				c[i] = value
				return c, true
			}
			grown := append(c, make([]any, i-len(c)+1)...)
			grown[i] = value
			return grown, true
		}
		if i >= len(c) {
			return c, false
		}
		updated, ok := setIn(c[i], p[1:], value)
		if !ok {
			return c, false
		}
		c[i] = updated
		return c, true

	default:
		return container, false
	}
}

// Same reports whether a and b are the same value under identity comparison:
// scalars compare by value, maps, sequences, and functions by reference.
// It never compares containers structurally; replacing a container with a
// structurally equal but distinct instance is a different value.
func Same(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	ra := reflect.ValueOf(a)
	rb := reflect.ValueOf(b)
	if ra.Kind() != rb.Kind() {
		return false
	}

	switch ra.Kind() {
	case reflect.Map, reflect.Func:
		return ra.Pointer() == rb.Pointer()
	case reflect.Slice:
		// Zero-length slices all share the runtime's zero base address, so
		// pointer equality cannot distinguish distinct empty instances;
		// treat them as always distinct.
		if ra.Len() == 0 || rb.Len() == 0 {
			return false
		}
		return ra.Pointer() == rb.Pointer() && ra.Len() == rb.Len()
	}

	if !ra.Comparable() || !rb.Comparable() {
		return false
	}
	return a == b
}
