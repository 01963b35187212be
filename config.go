package opts

import (
	"context"
	"iter"

	"github.com/goliatone/go-siteopts/pkg/activity"
)

// Config is the immutable result of a resolution run: one Value per
// registered option.
type Config struct {
	registry   *Registry
	values     map[string]Value
	traces     map[string]Trace
	order      []string
	runID      string
	engines    *evaluators
	hooks      activity.Hooks
	hookErrors func(error)
	ctx        context.Context
}

// Get returns the resolved value of name.
func (c *Config) Get(name string) (Value, bool) {
	if c == nil {
		return Value{}, false
	}
	v, ok := c.values[name]
	return v, ok
}

// Lookup is Get returning UnknownOptionError for unregistered names.
func (c *Config) Lookup(name string) (Value, error) {
	v, ok := c.Get(name)
	if !ok {
		return Value{}, UnknownOptionError(name)
	}
	return v, nil
}

// Raw returns the native Go value of name, nil when absent.
func (c *Config) Raw(name string) any {
	v, ok := c.Get(name)
	if !ok {
		return nil
	}
	return v.Native()
}

// All yields resolved values in registry order.
func (c *Config) All() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		if c == nil {
			return
		}
		for d := range c.registry.All() {
			if !yield(d.Name, c.values[d.Name]) {
				return
			}
		}
	}
}

// Len returns the number of resolved options.
func (c *Config) Len() int {
	if c == nil {
		return 0
	}
	return len(c.values)
}

// Names returns option names in registry order.
func (c *Config) Names() []string {
	if c == nil {
		return nil
	}
	return c.registry.Names()
}

// Snapshot returns every option as a plain value keyed by name, the form
// handed to expression checks, encoders and Decode.
func (c *Config) Snapshot() map[string]any {
	out := make(map[string]any, c.Len())
	for name, v := range c.All() {
		out[name] = v.Plain()
	}
	return out
}

// RunID identifies the resolution run that produced c.
func (c *Config) RunID() string {
	if c == nil {
		return ""
	}
	return c.runID
}

// Trace returns the provenance recorded for name.
func (c *Config) Trace(name string) (Trace, bool) {
	if c == nil {
		return Trace{}, false
	}
	t, ok := c.traces[name]
	if ok {
		t.References = append([]string(nil), t.References...)
	}
	return t, ok
}

// EvaluationOrder returns option names in the order they were computed.
func (c *Config) EvaluationOrder() []string {
	if c == nil {
		return nil
	}
	return append([]string(nil), c.order...)
}

// Overridden returns the names whose value came from an override, in registry
// order.
func (c *Config) Overridden() []string {
	var names []string
	for name := range c.All() {
		if c.traces[name].Source == SourceOverride {
			names = append(names, name)
		}
	}
	return names
}

// Registry returns the registry c was resolved against.
func (c *Config) Registry() *Registry {
	if c == nil {
		return nil
	}
	return c.registry
}

func (c *Config) emit(ctx context.Context, event activity.Event) {
	if err := c.notify(ctx, event); err != nil && c.hookErrors != nil {
		c.hookErrors(err)
	}
}
