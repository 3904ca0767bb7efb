package event

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/google/uuid"
)

// registration is one listener entry in a path bucket.
type registration struct {
	id  string
	typ Type
	fn  Callback
}

// Registry maintains listener buckets keyed by path identity.
// Each bucket is an ordered list; dispatch order is registration order.
// Removing entries preserves the relative order of survivors, and a bucket
// emptied by removal is retained rather than deleted.
//
// The registry is internally synchronized so listeners may add or remove
// registrations from inside a callback. Callbacks themselves always run
// outside the lock, on the dispatching goroutine.
type Registry struct {
	mu      sync.RWMutex
	buckets map[string][]registration
}

// NewRegistry creates an empty listener registry.
func NewRegistry() *Registry {
	return &Registry{
		buckets: make(map[string][]registration),
	}
}

// Add appends a listener for the given path identity and event type.
// Returns a Subscription handle that can remove exactly this registration.
func (r *Registry) Add(pathID string, typ Type, fn Callback) (*Subscription, error) {
	if !typ.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidType, typ)
	}
	if fn == nil {
		return nil, ErrNilCallback
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	id := uuid.NewString()
	r.buckets[pathID] = append(r.buckets[pathID], registration{
		id:  id,
		typ: typ,
		fn:  fn,
	})

	return &Subscription{id: id, pathID: pathID, registry: r}, nil
}

// Remove deletes every registration in the bucket whose type matches and
// whose callback is the same function value as fn. Function identity follows
// the code pointer, so closures created from the same literal count as the
// same callback; use the Subscription handle when that distinction matters.
// Removing from a missing bucket or with no matching entry is a no-op.
func (r *Registry) Remove(pathID string, typ Type, fn Callback) error {
	if !typ.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidType, typ)
	}
	if fn == nil {
		return ErrNilCallback
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	bucket, ok := r.buckets[pathID]
	if !ok {
		return nil
	}

	target := reflect.ValueOf(fn).Pointer()
	kept := bucket[:0]
	for _, reg := range bucket {
		if reg.typ == typ && reflect.ValueOf(reg.fn).Pointer() == target {
			continue
		}
		kept = append(kept, reg)
	}
	r.buckets[pathID] = kept
	return nil
}

// removeID deletes the registration with the given id, if still present.
func (r *Registry) removeID(pathID, id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	bucket, ok := r.buckets[pathID]
	if !ok {
		return
	}

	kept := bucket[:0]
	for _, reg := range bucket {
		if reg.id == id {
			continue
		}
		kept = append(kept, reg)
	}
	r.buckets[pathID] = kept
}

// Dispatch invokes, in registration order, every listener in the bucket for
// pathID whose type matches. The bucket is snapshotted before any callback
// runs, so mutations made by a listener affect later dispatches, not this
// one.
func (r *Registry) Dispatch(pathID string, typ Type, ev Event) error {
	if !typ.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidType, typ)
	}

	r.mu.RLock()
	bucket := r.buckets[pathID]
	matched := make([]Callback, 0, len(bucket))
	for _, reg := range bucket {
		if reg.typ == typ {
			matched = append(matched, reg.fn)
		}
	}
	r.mu.RUnlock()

	for _, fn := range matched {
		fn(ev)
	}
	return nil
}

// Len returns the number of registrations in the bucket for pathID.
func (r *Registry) Len(pathID string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.buckets[pathID])
}

// Subscription is a handle to one registration.
type Subscription struct {
	id       string
	pathID   string
	registry *Registry
}

// ID returns the unique registration identifier.
func (s *Subscription) ID() string {
	return s.id
}

// PathID returns the path identity the registration listens on.
func (s *Subscription) PathID() string {
	return s.pathID
}

// Unsubscribe removes this registration. Safe to call more than once.
func (s *Subscription) Unsubscribe() {
	if s.registry != nil {
		s.registry.removeID(s.pathID, s.id)
	}
}
