package opts

import (
	"fmt"
	"net/netip"
	"sort"
	"strings"
	"sync"

	"github.com/spf13/cast"
)

// Function represents a callable registered against evaluators.
type Function func(args ...any) (any, error)

// FunctionRegistry stores custom functions keyed by name.
type FunctionRegistry struct {
	mu        sync.RWMutex
	functions map[string]Function
}

// NewFunctionRegistry constructs an empty registry.
func NewFunctionRegistry() *FunctionRegistry {
	return &FunctionRegistry{
		functions: make(map[string]Function),
	}
}

// Register stores fn under name guarding against duplicates.
func (r *FunctionRegistry) Register(name string, fn Function) error {
	if fn == nil {
		return fmt.Errorf("opts: function %q is nil", name)
	}
	if name == "" {
		return fmt.Errorf("opts: function name must not be empty")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.functions == nil {
		r.functions = make(map[string]Function)
	}
	key := strings.ToLower(name)
	if _, exists := r.functions[key]; exists {
		return fmt.Errorf("opts: function %q already registered", name)
	}
	r.functions[key] = fn
	return nil
}

// Clone returns a shallow copy of the registry.
func (r *FunctionRegistry) Clone() *FunctionRegistry {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	clone := &FunctionRegistry{
		functions: make(map[string]Function, len(r.functions)),
	}
	for name, fn := range r.functions {
		clone.functions[name] = fn
	}
	return clone
}

// Call executes the function registered for name.
func (r *FunctionRegistry) Call(name string, args ...any) (any, error) {
	if r == nil {
		return nil, fmt.Errorf("opts: function registry is nil")
	}
	r.mu.RLock()
	fn := r.functions[strings.ToLower(name)]
	r.mu.RUnlock()
	if fn == nil {
		return nil, fmt.Errorf("opts: function %q not registered", name)
	}
	return fn(args...)
}

// Names returns registered function names sorted alphabetically.
func (r *FunctionRegistry) Names() []string {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.functions))
	for name := range r.functions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Has reports whether a function is registered under name.
func (r *FunctionRegistry) Has(name string) bool {
	if r == nil {
		return false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.functions[strings.ToLower(name)]
	return ok
}

// DefaultFunctions returns a registry with helpers commonly needed by
// computed defaults: lower, upper, join, host and network.
func DefaultFunctions() *FunctionRegistry {
	registry := NewFunctionRegistry()
	_ = registry.Register("lower", func(args ...any) (any, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("lower expects 1 argument, got %d", len(args))
		}
		s, err := cast.ToStringE(args[0])
		return strings.ToLower(s), err
	})
	_ = registry.Register("upper", func(args ...any) (any, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("upper expects 1 argument, got %d", len(args))
		}
		s, err := cast.ToStringE(args[0])
		return strings.ToUpper(s), err
	})
	_ = registry.Register("join", func(args ...any) (any, error) {
		if len(args) < 1 {
			return nil, fmt.Errorf("join expects a separator")
		}
		sep, err := cast.ToStringE(args[0])
		if err != nil {
			return nil, err
		}
		var parts []string
		for _, arg := range args[1:] {
			items, err := cast.ToStringSliceE(arg)
			if err != nil {
				return nil, err
			}
			parts = append(parts, items...)
		}
		return strings.Join(parts, sep), nil
	})
	_ = registry.Register("host", func(args ...any) (any, error) {
		prefix, err := prefixArgument("host", args)
		if err != nil {
			return nil, err
		}
		return prefix.Addr().String(), nil
	})
	_ = registry.Register("network", func(args ...any) (any, error) {
		prefix, err := prefixArgument("network", args)
		if err != nil {
			return nil, err
		}
		return prefix.Masked().String(), nil
	})
	return registry
}

func prefixArgument(name string, args []any) (netip.Prefix, error) {
	if len(args) != 1 {
		return netip.Prefix{}, fmt.Errorf("%s expects 1 argument, got %d", name, len(args))
	}
	return toPrefix(args[0])
}

// WithFunctionRegistry makes registry available to expression defaults and
// expression checks.
func WithFunctionRegistry(registry *FunctionRegistry) Option {
	return func(cfg *optionsConfig) {
		if registry == nil {
			return
		}
		cfg.functions = registry.Clone()
	}
}

// WithCustomFunction registers fn under name for expressions.
func WithCustomFunction(name string, fn Function) Option {
	return func(cfg *optionsConfig) {
		if cfg.functions == nil {
			cfg.functions = NewFunctionRegistry()
		}
		_ = cfg.functions.Register(name, fn)
	}
}
