package lint

import (
	"fmt"
	"slices"
	"sync"
)

// registration is one named factory in a Registry.
type registration struct {
	name    string
	factory Factory
}

// Registry holds rule factories in registration order.
// The order is the order rules run in, and so the order of offenses.
type Registry struct {
	mu      sync.RWMutex
	entries []registration
	index   map[string]int // name -> position in entries
}

// NewRegistry creates an empty rule registry.
func NewRegistry() *Registry {
	return &Registry{
		index: make(map[string]int),
	}
}

// Register adds a rule factory to the registry.
//
// The factory is called once to validate the rule and learn its name.
// If a rule with the same name already exists it is replaced in place,
// keeping its position, and replaced is true.
func (r *Registry) Register(factory Factory) (replaced bool, err error) {
	if factory == nil {
		return false, fmt.Errorf("%w: nil factory", ErrKindMismatch)
	}
	rule := factory()
	if err := ValidateRule(rule); err != nil {
		return false, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	name := rule.Name()
	if i, ok := r.index[name]; ok {
		r.entries[i].factory = factory
		return true, nil
	}
	r.index[name] = len(r.entries)
	r.entries = append(r.entries, registration{name: name, factory: factory})
	return false, nil
}

// MustRegister is like Register but panics if the rule is invalid.
// Intended for init-time registration of built-in rules.
func (r *Registry) MustRegister(factory Factory) {
	if _, err := r.Register(factory); err != nil {
		panic(err)
	}
}

// Get returns a fresh instance of the named rule.
func (r *Registry) Get(name string) (Rule, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i, ok := r.index[name]
	if !ok {
		return nil, false
	}
	return r.entries[i].factory(), true
}

// Has reports whether a rule with the given name is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.index[name]
	return ok
}

// Len returns the number of registered rules.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Names returns all registered rule names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]string, len(r.entries))
	for i, e := range r.entries {
		result[i] = e.name
	}
	return result
}

// SortedNames returns all registered rule names in lexical order.
func (r *Registry) SortedNames() []string {
	names := r.Names()
	slices.Sort(names)
	return names
}

// Instantiate builds a fresh instance of every registered rule,
// in registration order.
func (r *Registry) Instantiate() []Rule {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Rule, len(r.entries))
	for i, e := range r.entries {
		result[i] = e.factory()
	}
	return result
}

// Clone returns an independent copy of the registry. Registering into the
// copy does not affect the original.
func (r *Registry) Clone() *Registry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	clone := &Registry{
		entries: slices.Clone(r.entries),
		index:   make(map[string]int, len(r.index)),
	}
	for name, i := range r.index {
		clone.index[name] = i
	}
	return clone
}

// DefaultRegistry is the global registry for built-in rules.
// The rules package fills it during init().
//
//nolint:gochecknoglobals // Global registry is intentional for rule registration
var DefaultRegistry = NewRegistry()
