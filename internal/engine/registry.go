package engine

import (
	"fmt"
	"sort"
	"sync"
)

// Registry is a thread-safe map from calculator identifier to its Calculator
// instance. It is populated once at startup and only read afterwards, so
// concurrent lookups are safe.
type Registry struct {
	mu          sync.RWMutex
	calculators map[string]Calculator
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{calculators: make(map[string]Calculator)}
}

// Register adds a calculator, keyed by its ID. Registering the same ID twice
// is a programming error.
func (r *Registry) Register(c Calculator) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.calculators[c.ID()]; exists {
		return fmt.Errorf("calculator %q already registered", c.ID())
	}
	r.calculators[c.ID()] = c
	return nil
}

// MustRegister registers a calculator and panics on a duplicate ID. Intended
// for startup wiring where a duplicate means a broken build.
func (r *Registry) MustRegister(c Calculator) {
	if err := r.Register(c); err != nil {
		panic(err)
	}
}

// Resolve returns the calculator registered under id.
func (r *Registry) Resolve(id string) (Calculator, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.calculators[id]
	if !ok {
		return nil, fmt.Errorf("calculator %q not found", id)
	}
	return c, nil
}

// IDs returns all registered identifiers sorted alphabetically.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.calculators))
	for id := range r.calculators {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
