package opts

import (
	"fmt"
	"iter"
	"strings"
)

// RegistryBuilder collects descriptors during process initialization. Build
// seals it and returns the immutable catalog.
type RegistryBuilder struct {
	descriptors []Descriptor
	index       map[string]int
	sealed      bool
}

// NewRegistryBuilder constructs an empty builder.
func NewRegistryBuilder() *RegistryBuilder {
	return &RegistryBuilder{index: map[string]int{}}
}

// Register appends d guarding against duplicates.
func (b *RegistryBuilder) Register(d Descriptor) error {
	if b.sealed {
		return fmt.Errorf("%w: cannot register %s", ErrRegistrySealed, d.Name)
	}
	if strings.TrimSpace(d.Name) == "" {
		return ErrOptionNameMissing
	}
	if b.index == nil {
		b.index = map[string]int{}
	}
	if _, exists := b.index[d.Name]; exists {
		return DuplicateOptionError(d.Name)
	}
	b.index[d.Name] = len(b.descriptors)
	b.descriptors = append(b.descriptors, d)
	return nil
}

// MustRegister panics when Register fails. Meant for static catalogs.
func (b *RegistryBuilder) MustRegister(ds ...Descriptor) {
	for _, d := range ds {
		if err := b.Register(d); err != nil {
			panic(err)
		}
	}
}

// Build seals the builder. Subsequent Register calls fail.
func (b *RegistryBuilder) Build() *Registry {
	b.sealed = true
	descriptors := make([]Descriptor, len(b.descriptors))
	copy(descriptors, b.descriptors)
	index := make(map[string]int, len(b.index))
	for name, i := range b.index {
		index[name] = i
	}
	return &Registry{descriptors: descriptors, index: index}
}

// Registry is the read-only option catalog.
type Registry struct {
	descriptors []Descriptor
	index       map[string]int
}

// NewRegistry registers ds in order and returns the sealed registry.
func NewRegistry(ds ...Descriptor) (*Registry, error) {
	builder := NewRegistryBuilder()
	for _, d := range ds {
		if err := builder.Register(d); err != nil {
			return nil, err
		}
	}
	return builder.Build(), nil
}

// All yields descriptors in registration order. The sequence can be ranged
// over any number of times.
func (r *Registry) All() iter.Seq[Descriptor] {
	return func(yield func(Descriptor) bool) {
		if r == nil {
			return
		}
		for _, d := range r.descriptors {
			if !yield(d) {
				return
			}
		}
	}
}

// Lookup returns the descriptor registered under name.
func (r *Registry) Lookup(name string) (Descriptor, error) {
	if r != nil {
		if i, ok := r.index[name]; ok {
			return r.descriptors[i], nil
		}
	}
	return Descriptor{}, UnknownOptionError(name)
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	if r == nil {
		return false
	}
	_, ok := r.index[name]
	return ok
}

// Names returns option names in registration order.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	names := make([]string, len(r.descriptors))
	for i, d := range r.descriptors {
		names[i] = d.Name
	}
	return names
}

// Len returns the number of registered options.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.descriptors)
}

func (r *Registry) position(name string) int {
	if i, ok := r.index[name]; ok {
		return i
	}
	return -1
}
