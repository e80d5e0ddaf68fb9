package registry

import (
	"fmt"
	"sort"
	"sync"
)

// Registry holds all Functions known to a sparv run, keyed by ID.
//
// Grounded on the teacher's Config.Registry map[string]func() Annotator,
// generalized to store a full Function value (with Role, Signature, and
// Order) rather than a bare constructor, and to detect the ambiguity
// spec.md section 4.3 calls out: two functions that can produce the same
// output identifier template must carry distinct Order values, or
// registration fails outright rather than silently picking one.
type Registry struct {
	mu        sync.RWMutex
	functions map[string]Function
	// byOutput indexes functions by every output identifier template they
	// declare, for ProducersOf and for collision detection at Register time.
	byOutput map[string][]string // identifier -> []Function.ID
}

// New returns an empty Registry.
func New() *Registry {
	return &Registry{
		functions: make(map[string]Function),
		byOutput:  make(map[string][]string),
	}
}

// Register adds f to the registry. It fails if f.ID is already registered,
// or if f shares an output identifier template with an already-registered
// function at the same Order (spec.md section 4.3: "The registry forbids
// registering two functions producing the same identifier without distinct
// order values").
func (r *Registry) Register(f Function) error {
	if f.ID == "" {
		return fmt.Errorf("registry: function has empty ID")
	}
	if f.Run == nil {
		return fmt.Errorf("registry: function %q has no Run", f.ID)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.functions[f.ID]; exists {
		return fmt.Errorf("registry: function %q already registered", f.ID)
	}

	for _, out := range f.Outputs() {
		for _, otherID := range r.byOutput[out] {
			other := r.functions[otherID]
			if other.Order == f.Order {
				return fmt.Errorf(
					"registry: %q and %q both produce %q at order %d; give one a distinct order",
					otherID, f.ID, out, f.Order,
				)
			}
		}
	}

	r.functions[f.ID] = f
	for _, out := range f.Outputs() {
		r.byOutput[out] = append(r.byOutput[out], f.ID)
	}

	return nil
}

// MustRegister is Register, panicking on error. Intended for package-level
// init() calls in module packages, where a registration failure is a
// programming error and cannot sensibly be recovered from.
func (r *Registry) MustRegister(f Function) {
	if err := r.Register(f); err != nil {
		panic(err)
	}
}

// Lookup returns the function registered under id.
func (r *Registry) Lookup(id string) (Function, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	f, ok := r.functions[id]
	return f, ok
}

// ProducersOf returns every registered function able to produce the given
// output identifier template, sorted by Order ascending (lowest order is
// the preferred producer when the resolver must pick one automatically).
func (r *Registry) ProducersOf(identifier string) []Function {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := r.byOutput[identifier]
	out := make([]Function, 0, len(ids))
	for _, id := range ids {
		out = append(out, r.functions[id])
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Order < out[j].Order })

	return out
}

// All returns every registered function, sorted by ID for deterministic
// iteration (used by `sparv modules` and similar introspection commands).
func (r *Registry) All() []Function {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Function, 0, len(r.functions))
	for _, f := range r.functions {
		out = append(out, f)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out
}

// ByRole returns every registered function with the given Role, sorted by
// ID.
func (r *Registry) ByRole(role Role) []Function {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Function, 0)
	for _, f := range r.functions {
		if f.Role == role {
			out = append(out, f)
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out
}
