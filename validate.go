package statepath

import (
	"github.com/dshills/statepath/path"
)

// Validation is the context handed to a validator before a write commits.
type Validation struct {
	// Value is the candidate value. Validators inspect it; the committed
	// value is always the one the caller requested.
	Value any

	// Path is the canonical path being written.
	Path path.Path

	// PathID is the dot-joined path identity the validator was looked up by.
	PathID string

	// Object is the backing tree, before the write.
	Object map[string]any
}

// Validator inspects a candidate write. A non-nil error rejects the write
// before any mutation or event dispatch; the error propagates to the Set
// caller unchanged.
type Validator func(Validation) error

// validate runs the validator registered for id, if any.
func (m *Manager) validate(p path.Path, id string, value any) error {
	if m.validators == nil {
		return nil
	}
	v, ok := m.validators[id]
	if !ok || v == nil {
		return nil
	}
	return v(Validation{
		Value:  value,
		Path:   p,
		PathID: id,
		Object: m.root,
	})
}
