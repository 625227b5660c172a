package fsm

import (
	"fmt"
	"slices"
)

// Factory builds a fresh state instance.
type Factory[T any] func() State[T]

// Registry is the catalog of states an owner type can be built with.
type Registry[T any] struct {
	factories map[string]Factory[T]
}

func NewRegistry[T any]() *Registry[T] {
	return &Registry[T]{factories: make(map[string]Factory[T])}
}

// Register adds a named state factory. Registering a name twice panics.
func (r *Registry[T]) Register(id string, factory Factory[T]) {
	if _, exists := r.factories[id]; exists {
		panic(fmt.Sprintf("state %q already registered", id))
	}
	r.factories[id] = factory
}

// Create builds the state registered under id.
func (r *Registry[T]) Create(id string) (State[T], bool) {
	factory, ok := r.factories[id]
	if !ok {
		return nil, false
	}
	return factory(), true
}

// IDs returns every registered name, sorted.
func (r *Registry[T]) IDs() []string {
	ids := make([]string, 0, len(r.factories))
	for id := range r.factories {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Populate adds the states named by ids to m, in order.
func (r *Registry[T]) Populate(m *Machine[T], ids ...string) error {
	for _, id := range ids {
		s, ok := r.Create(id)
		if !ok {
			return fmt.Errorf("unknown state %q", id)
		}
		m.Add(id, s)
	}
	return nil
}
