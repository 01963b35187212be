package opts

import (
	"errors"

	"github.com/goliatone/go-siteopts/internal/dag"
)

// Dependencies returns, for every registered option, the options its value
// will be computed from. Overridden options depend on nothing.
func Dependencies(registry *Registry, overrides map[string]any) map[string][]string {
	deps := make(map[string][]string, registry.Len())
	for d := range registry.All() {
		if _, overridden := overrides[d.Name]; overridden {
			deps[d.Name] = nil
			continue
		}
		deps[d.Name] = d.References()
	}
	return deps
}

// Plan returns an evaluation order in which every option comes after the
// options it references, without evaluating anything. Options with no mutual
// constraint keep registry order.
func Plan(registry *Registry, overrides map[string]any) ([]string, error) {
	if registry == nil {
		return nil, ErrNilRegistry
	}
	deps := Dependencies(registry, overrides)
	graph := dag.New()
	for d := range registry.All() {
		graph.AddNode(d.Name)
	}
	for d := range registry.All() {
		for _, ref := range deps[d.Name] {
			if !registry.Has(ref) {
				return nil, UnknownOptionError(ref).requiredBy(d.Name)
			}
			graph.AddEdge(ref, d.Name)
		}
	}
	order, err := graph.TopologicalSort()
	if err != nil {
		var cycleErr *dag.CycleError
		if errors.As(err, &cycleErr) {
			return nil, CyclicDependencyError(cycleErr.Cycle)
		}
		return nil, err
	}
	return order, nil
}
