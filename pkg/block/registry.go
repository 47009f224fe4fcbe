package block

import (
	"fmt"
	"slices"
	"sync"
)

// Placement says where a type goes in the try-order.
type Placement struct {
	where  placement
	anchor Type
}

type placement uint8

const (
	placeNone placement = iota
	placeFirst
	placeLast
	placeBefore
	placeAfter
)

// AtStart places a type at the front of the try-order.
func AtStart() Placement { return Placement{where: placeFirst} }

// AtEnd places a type at the end of the try-order.
func AtEnd() Placement { return Placement{where: placeLast} }

// Before places a type just before anchor.
func Before(anchor Type) Placement { return Placement{where: placeBefore, anchor: anchor} }

// After places a type just after anchor.
func After(anchor Type) Placement { return Placement{where: placeAfter, anchor: anchor} }

// Unordered registers a type that never starts on its own, such as an
// aggregate built by a post-pass.
func Unordered() Placement { return Placement{} }

// Registry holds block traits and the try-order.
type Registry struct {
	mu     sync.RWMutex
	traits map[Type]*Trait
	order  []Type
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{traits: make(map[Type]*Trait)}
}

// Register adds a trait at the given placement. Anchors must already be in
// the try-order.
func (r *Registry) Register(trait Trait, at Placement) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.traits[trait.Type]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateType, trait.Type)
	}

	switch at.where {
	case placeNone:
	case placeFirst:
		r.order = slices.Insert(r.order, 0, trait.Type)
	case placeLast:
		r.order = append(r.order, trait.Type)
	case placeBefore, placeAfter:
		idx := slices.Index(r.order, at.anchor)
		if idx < 0 {
			return fmt.Errorf("%w: placement anchor %q for %q", ErrMissingTraits, at.anchor, trait.Type)
		}
		if at.where == placeAfter {
			idx++
		}
		r.order = slices.Insert(r.order, idx, trait.Type)
	}

	stored := trait
	r.traits[trait.Type] = &stored
	return nil
}

// Lookup returns the trait of t or ErrMissingTraits.
func (r *Registry) Lookup(t Type) (*Trait, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	trait, ok := r.traits[t]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingTraits, t)
	}
	return trait, nil
}

// Get returns the trait of t.
func (r *Registry) Get(t Type) (*Trait, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	trait, ok := r.traits[t]
	return trait, ok
}

// Order returns the traits in try-order.
func (r *Registry) Order() []*Trait {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Trait, len(r.order))
	for i, t := range r.order {
		out[i] = r.traits[t]
	}
	return out
}

// OrderTypes returns the type tags in try-order.
func (r *Registry) OrderTypes() []Type {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return slices.Clone(r.order)
}

// Types returns all registered type tags in sorted order.
func (r *Registry) Types() []Type {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Type, 0, len(r.traits))
	for t := range r.traits {
		out = append(out, t)
	}
	slices.Sort(out)
	return out
}

// Steps returns the processing steps of the registered types: try-order
// first, then the unordered types by name.
func (r *Registry) Steps() []Step {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var steps []Step
	add := func(t Type) {
		if step := r.traits[t].ProcessingStep; step != nil {
			steps = append(steps, step)
		}
	}
	for _, t := range r.order {
		add(t)
	}
	rest := make([]Type, 0, len(r.traits))
	for t := range r.traits {
		if !slices.Contains(r.order, t) {
			rest = append(rest, t)
		}
	}
	slices.Sort(rest)
	for _, t := range rest {
		add(t)
	}
	return steps
}

// Validate checks that every startable type has a handler constructor.
func (r *Registry) Validate() error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.order) == 0 {
		return fmt.Errorf("%w: empty try-order", ErrMissingTraits)
	}
	for _, t := range r.order {
		if r.traits[t].New == nil {
			return fmt.Errorf("%w: %s has no handler", ErrMissingTraits, t)
		}
	}
	return nil
}
