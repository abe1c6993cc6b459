package model

import (
	"fmt"
	"sync"
)

// Registry holds the model descriptors for one process. It is populated
// during the startup declaration phase and read-only afterward. There is no
// package-level registry; callers construct one and pass it explicitly to
// the synchronizer and mapper.
type Registry struct {
	mu     sync.RWMutex
	byName map[string]*Descriptor
	order  []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byName: make(map[string]*Descriptor),
	}
}

// Define declares a model and registers its descriptor. The identity column
// is injected automatically and must not appear in fields. A failed Define
// leaves the registry untouched.
func (r *Registry) Define(name string, fields []Field) (*Descriptor, error) {
	if name == "" {
		return nil, fmt.Errorf("model name must not be empty")
	}

	// Validate the full field set before touching the registry so a
	// declaration error never partially registers a descriptor.
	seen := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		if f.Name == "" {
			return nil, fmt.Errorf("model %q: field name must not be empty", name)
		}
		if f.Name == IdentityColumn {
			return nil, &DuplicateFieldError{Model: name, Field: f.Name}
		}
		if _, dup := seen[f.Name]; dup {
			return nil, &DuplicateFieldError{Model: name, Field: f.Name}
		}
		seen[f.Name] = struct{}{}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byName[name]; exists {
		return nil, &DuplicateModelError{Model: name}
	}

	desc := &Descriptor{
		name:   name,
		table:  TableName(name),
		fields: make([]Field, len(fields)),
	}
	copy(desc.fields, fields)
	for i := range desc.fields {
		if ref := desc.fields[i].Type.Ref; ref != nil {
			// Copy the reference so later caller mutation cannot reach
			// the descriptor; default the column to the identity.
			c := *ref
			if c.Column == "" {
				c.Column = IdentityColumn
			}
			desc.fields[i].Type.Ref = &c
		}
	}

	r.byName[name] = desc
	r.order = append(r.order, name)
	return desc, nil
}

// Get returns the descriptor for a model name.
func (r *Registry) Get(name string) (*Descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.byName[name]
	return d, ok
}

// All returns every descriptor in definition order.
func (r *Registry) All() []*Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Descriptor, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.byName[name])
	}
	return out
}

// Count returns the number of registered models.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byName)
}
