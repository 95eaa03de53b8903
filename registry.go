package fsmx

import (
	"fmt"
	"reflect"
	"sort"
	"sync"
)

// Registry maps state names to handlers and back. The dispatcher itself
// never needs names; collaborators that persist, publish or visualize the
// machine do, because handler values are not comparable or printable.
//
// The reverse mapping is keyed by the handler's code pointer. That is stable
// for top-level functions and method values, which is how states are written
// in practice; registering distinct closures built from the same function
// literal is rejected as a duplicate.
type Registry struct {
	mu     sync.RWMutex
	byName map[string]Handler
	byCode map[uintptr]string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byName: make(map[string]Handler),
		byCode: make(map[uintptr]string),
	}
}

func handlerKey(h Handler) uintptr {
	return reflect.ValueOf(h).Pointer()
}

// Register binds a name to a handler. Both directions must be unique.
func (r *Registry) Register(name string, h Handler) error {
	if h == nil {
		return fmt.Errorf("register %q: %w", name, ErrNilHandler)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byName[name]; exists {
		return fmt.Errorf("register %q: %w", name, ErrDuplicateState)
	}
	key := handlerKey(h)
	if prev, exists := r.byCode[key]; exists {
		return fmt.Errorf("register %q: handler already bound to %q: %w", name, prev, ErrDuplicateState)
	}

	r.byName[name] = h
	r.byCode[key] = name
	return nil
}

// MustRegister is Register that panics on error, for static state tables.
func (r *Registry) MustRegister(name string, h Handler) {
	if err := r.Register(name, h); err != nil {
		panic(err)
	}
}

// Lookup returns the handler registered under name.
func (r *Registry) Lookup(name string) (Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.byName[name]
	return h, ok
}

// Name returns the name a handler was registered under. Returns false for
// nil or unregistered handlers.
func (r *Registry) Name(h Handler) (string, bool) {
	if h == nil {
		return "", false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	name, ok := r.byCode[handlerKey(h)]
	return name, ok
}

// Names returns all registered state names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered states.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byName)
}
