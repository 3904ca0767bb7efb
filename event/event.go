// Package event provides the per-path listener registry for state access
// notifications.
//
// Listeners register against a path identity for one of three event types:
// get fires on every read, set on every committed write, and change on
// writes whose value differs from the previous one. Dispatch is synchronous
// and runs listeners in registration order on the caller's stack.
package event

import (
	"errors"
	"fmt"

	"github.com/dshills/statepath/path"
)

// Errors returned by listener operations.
var (
	// ErrInvalidType indicates an event type outside the recognized set.
	ErrInvalidType = errors.New("invalid event type")

	// ErrNilCallback indicates a nil listener callback.
	ErrNilCallback = errors.New("callback must not be nil")
)

// Type identifies the kind of state access an event describes.
type Type int

const (
	// TypeGet fires when a value is read.
	TypeGet Type = iota

	// TypeSet fires when a value is written.
	TypeSet

	// TypeChange fires when a written value differs from the previous one.
	TypeChange
)

// String returns the event type name.
func (t Type) String() string {
	switch t {
	case TypeGet:
		return "get"
	case TypeSet:
		return "set"
	case TypeChange:
		return "change"
	default:
		return "unknown"
	}
}

// Valid reports whether t is a recognized event type.
func (t Type) Valid() bool {
	switch t {
	case TypeGet, TypeSet, TypeChange:
		return true
	}
	return false
}

// ParseType converts an event type name into a Type.
func ParseType(name string) (Type, error) {
	switch name {
	case "get":
		return TypeGet, nil
	case "set":
		return TypeSet, nil
	case "change":
		return TypeChange, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidType, name)
	}
}

// Event is the record delivered to listeners. It is passed by value;
// Object and container values inside it still reference live state.
type Event struct {
	// Object is the backing state tree the event applies to.
	Object map[string]any

	// Path is the canonical path the event fired for.
	Path path.Path

	// Type is the event type.
	Type Type

	// Value is the value read or written.
	Value any

	// Previous is the value before the write. Populated only for set and
	// change events; nil when the path did not previously resolve.
	Previous any
}

// Callback is invoked synchronously for each matching event.
type Callback func(Event)
