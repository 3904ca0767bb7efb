package statepath

import (
	"github.com/dshills/statepath/event"
	"github.com/dshills/statepath/object"
	"github.com/dshills/statepath/path"
)

// Manager owns a backing state tree and composes path access, validation,
// and listener dispatch.
//
// The manager never copies the tree; mutation is in place and the tree is
// single-owner for the manager's lifetime. Manager methods are not
// synchronized (only the listener registry is), so concurrent use requires
// external coordination.
type Manager struct {
	root       map[string]any
	validators map[string]Validator
	events     *event.Registry
}

// Option configures a Manager.
type Option func(*Manager)

// WithValidators sets the validator map, keyed by path identity.
// A nil map means no validation.
func WithValidators(v map[string]Validator) Option {
	return func(m *Manager) {
		m.validators = v
	}
}

// New creates a Manager owning root. A nil root returns ErrInvalidRoot.
func New(root map[string]any, opts ...Option) (*Manager, error) {
	if root == nil {
		return nil, ErrInvalidRoot
	}

	m := &Manager{
		root:   root,
		events: event.NewRegistry(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Root returns the backing tree.
func (m *Manager) Root() map[string]any {
	return m.root
}

// SetRoot replaces the backing tree. A nil root returns ErrInvalidRoot and
// leaves the current tree in place.
func (m *Manager) SetRoot(root map[string]any) error {
	if root == nil {
		return ErrInvalidRoot
	}
	m.root = root
	return nil
}

// SetValidators replaces the validator map. A nil map disables validation.
func (m *Manager) SetValidators(v map[string]Validator) {
	m.validators = v
}

// Get resolves the value at p and dispatches a get event carrying it.
// Returns nil for paths that do not resolve.
func (m *Manager) Get(p any) (any, error) {
	return m.GetDefault(p, nil)
}

// GetDefault resolves the value at p, substituting def when the path does
// not resolve, then dispatches a get event carrying the returned value.
// Falsy stored values (0, false, "") resolve normally; only a structural
// miss substitutes the default.
func (m *Manager) GetDefault(p, def any) (any, error) {
	cp, err := path.Normalize(p)
	if err != nil {
		return nil, err
	}

	val := object.GetDefault(m.root, cp, def)

	m.dispatch(cp, event.TypeGet, event.Event{
		Object: m.root,
		Path:   cp,
		Type:   event.TypeGet,
		Value:  val,
	})
	return val, nil
}

// Set writes value at p. The sequence is: validate, read the previous value,
// assign, dispatch a set event, then a change event if the new value is not
// identical to the previous one (identity comparison, never deep equality).
//
// A structural failure (a non-terminal segment that does not resolve to a
// container) returns (false, nil) with no mutation and no events: a soft
// failure the caller checks, distinct from the error cases. A validation
// error aborts before any mutation.
func (m *Manager) Set(p, value any) (bool, error) {
	cp, err := path.Normalize(p)
	if err != nil {
		return false, err
	}
	id := cp.ID()

	if err := m.validate(cp, id, value); err != nil {
		return false, err
	}

	previous, _ := object.Get(m.root, cp)
	if !object.Set(m.root, cp, value) {
		return false, nil
	}

	ev := event.Event{
		Object:   m.root,
		Path:     cp,
		Type:     event.TypeSet,
		Value:    value,
		Previous: previous,
	}
	m.dispatch(cp, event.TypeSet, ev)

	if !object.Same(value, previous) {
		ev.Type = event.TypeChange
		m.dispatch(cp, event.TypeChange, ev)
	}
	return true, nil
}

// AddEventListener registers cb for events of type typ at p.
func (m *Manager) AddEventListener(p any, typ event.Type, cb event.Callback) error {
	cp, err := path.Normalize(p)
	if err != nil {
		return err
	}
	_, err = m.events.Add(cp.ID(), typ, cb)
	return err
}

// Subscribe registers cb like AddEventListener and returns a handle that
// removes exactly this registration, even when the same callback is
// registered more than once.
func (m *Manager) Subscribe(p any, typ event.Type, cb event.Callback) (*event.Subscription, error) {
	cp, err := path.Normalize(p)
	if err != nil {
		return nil, err
	}
	return m.events.Add(cp.ID(), typ, cb)
}

// RemoveEventListener removes every registration at p matching typ and cb.
// Callback identity follows the function's code pointer; see
// event.Registry.Remove. Removing a listener that was never added is a
// no-op.
func (m *Manager) RemoveEventListener(p any, typ event.Type, cb event.Callback) error {
	cp, err := path.Normalize(p)
	if err != nil {
		return err
	}
	return m.events.Remove(cp.ID(), typ, cb)
}

// DispatchEvent invokes the listeners of type typ registered at p. When ev
// is nil a default record carrying the object, path, and type is delivered.
// Callers may use this directly to synthesize custom notifications.
func (m *Manager) DispatchEvent(p any, typ event.Type, ev *event.Event) error {
	cp, err := path.Normalize(p)
	if err != nil {
		return err
	}

	record := event.Event{
		Object: m.root,
		Path:   cp,
		Type:   typ,
	}
	if ev != nil {
		record = *ev
	}
	return m.events.Dispatch(cp.ID(), typ, record)
}

// dispatch delivers an event built by an internal operation. The type is
// always valid here, so the registry error is impossible.
func (m *Manager) dispatch(p path.Path, typ event.Type, ev event.Event) {
	_ = m.events.Dispatch(p.ID(), typ, ev)
}
