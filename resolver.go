package opts

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/goliatone/go-siteopts/pkg/activity"
	"github.com/google/uuid"
)

// ErrNilRegistry is returned when Resolve or Plan receive no registry.
var ErrNilRegistry = errors.New("opts: registry is nil")

// Option configures a resolution run.
type Option func(*optionsConfig)

type optionsConfig struct {
	functions     *FunctionRegistry
	programCache  ProgramCache
	evalLogger    EvaluatorLogger
	logger        Logger
	activityHooks activity.Hooks
	hookErrors    func(error)
	evaluators    map[string]Evaluator
	ignoreUnknown bool
	ctx           context.Context
}

func applyOptions(options []Option) optionsConfig {
	cfg := optionsConfig{
		evalLogger: noopEvaluatorLogger{},
		logger:     noopLogger{},
	}
	for _, option := range options {
		if option != nil {
			option(&cfg)
		}
	}
	return cfg
}

// WithIgnoreUnknown skips override names that are not registered instead of
// failing the run. Skipped names are logged with SourceUnknown.
func WithIgnoreUnknown() Option {
	return func(cfg *optionsConfig) {
		cfg.ignoreUnknown = true
	}
}

// WithEvaluator replaces the built-in engine registered under engine ("expr",
// "cel" or "js").
func WithEvaluator(engine string, e Evaluator) Option {
	return func(cfg *optionsConfig) {
		if cfg.evaluators == nil {
			cfg.evaluators = map[string]Evaluator{}
		}
		cfg.evaluators[engine] = e
	}
}

// WithHookErrorHandler receives activity hook failures. Hook failures never
// fail a run.
func WithHookErrorHandler(fn func(error)) Option {
	return func(cfg *optionsConfig) {
		cfg.hookErrors = fn
	}
}

// Resolve computes the value of every registered option. Overrides win over
// defaults; deferred defaults are evaluated lazily and memoized, so each
// option is computed once no matter how many others reference it. The first
// failure aborts the run and no partial configuration is returned.
func Resolve(overrides map[string]any, registry *Registry, options ...Option) (*Config, error) {
	if registry == nil {
		return nil, ErrNilRegistry
	}
	cfg := applyOptions(options)
	r := &resolver{
		registry:   registry,
		overrides:  overrides,
		values:     make(map[string]Value, registry.Len()),
		traces:     make(map[string]Trace, registry.Len()),
		inProgress: map[string]bool{},
		logger:     cfg.logger,
		engines: &evaluators{
			functions: cfg.functions,
			cache:     cfg.programCache,
			logger:    cfg.evalLogger,
			custom:    cfg.evaluators,
		},
	}

	for _, name := range sortedKeys(overrides) {
		if registry.Has(name) {
			continue
		}
		if !cfg.ignoreUnknown {
			return nil, UnknownOptionError(name)
		}
		r.logger.LogResolution(ResolveEvent{Option: name, Source: SourceUnknown, Err: UnknownOptionError(name)})
	}

	for d := range registry.All() {
		if _, err := r.resolve(d.Name); err != nil {
			return nil, err
		}
	}

	config := &Config{
		registry:   registry,
		values:     r.values,
		traces:     r.traces,
		order:      r.order,
		runID:      uuid.NewString(),
		engines:    r.engines,
		hooks:      cfg.activityHooks,
		hookErrors: cfg.hookErrors,
		ctx:        cfg.ctx,
	}
	config.emit(config.ctx, activity.BuildConfigResolvedEvent(activity.ConfigEventInput{Run: config.runContext()}))
	for _, name := range config.Overridden() {
		config.emit(config.ctx, activity.BuildOptionOverriddenEvent(activity.ConfigEventInput{
			Option: name,
			Value:  config.values[name].Plain(),
			Run:    activity.RunContext{RunID: config.runID},
		}))
	}
	return config, nil
}

type resolver struct {
	registry   *Registry
	overrides  map[string]any
	values     map[string]Value
	traces     map[string]Trace
	order      []string
	inProgress map[string]bool
	stack      []string
	logger     Logger
	engines    *evaluators
}

func (r *resolver) resolve(name string) (Value, error) {
	if v, ok := r.values[name]; ok {
		return v, nil
	}
	if r.inProgress[name] {
		return Value{}, CyclicDependencyError(r.cycleTo(name))
	}
	d, err := r.registry.Lookup(name)
	if err != nil {
		return Value{}, err
	}

	start := time.Now()
	v, source, err := r.compute(d)
	r.logger.LogResolution(ResolveEvent{
		Option:   name,
		Source:   source,
		Refs:     d.References(),
		Duration: time.Since(start),
		Err:      err,
	})
	if err != nil {
		return Value{}, err
	}

	r.values[name] = v
	r.traces[name] = Trace{
		Option:     name,
		Source:     source,
		References: d.References(),
		Value:      v.Plain(),
		Step:       len(r.order),
	}
	r.order = append(r.order, name)
	return v, nil
}

func (r *resolver) compute(d Descriptor) (Value, Source, error) {
	if raw, ok := r.overrides[d.Name]; ok {
		v, err := Coerce(d.Type, raw)
		if err != nil {
			return Value{}, SourceOverride, TypeMismatchError(d.Name, d.Type, err)
		}
		return v, SourceOverride, nil
	}

	deferred, ok := d.Deferred()
	if !ok {
		if !d.HasDefault() {
			return Value{}, SourceUnknown, MissingOptionError(d.Name)
		}
		v, err := Coerce(d.Type, d.Default)
		if err != nil {
			return Value{}, SourceDefault, TypeMismatchError(d.Name, d.Type, err)
		}
		return v, SourceDefault, nil
	}

	r.inProgress[d.Name] = true
	r.stack = append(r.stack, d.Name)
	result, err := deferred.Evaluate(&evalContext{resolver: r, option: d.Name, refs: d.References()})
	r.stack = r.stack[:len(r.stack)-1]
	delete(r.inProgress, d.Name)
	if err != nil {
		var configErr *ConfigError
		if errors.As(err, &configErr) {
			return Value{}, SourceDeferred, err
		}
		return Value{}, SourceDeferred, EvaluationFailedError(d.Name, err)
	}

	v, err := Coerce(d.Type, result)
	if err != nil {
		return Value{}, SourceDeferred, TypeMismatchError(d.Name, d.Type, err)
	}
	return v, SourceDeferred, nil
}

// cycleTo returns the in-progress path from name back to itself.
func (r *resolver) cycleTo(name string) []string {
	for i, entry := range r.stack {
		if entry == name {
			cycle := append([]string(nil), r.stack[i:]...)
			return append(cycle, name)
		}
	}
	return []string{name, name}
}

// evalContext scopes lookups to the references a deferred default declared.
type evalContext struct {
	resolver *resolver
	option   string
	refs     []string
}

func (c *evalContext) Option() string { return c.option }

func (c *evalContext) Lookup(name string) (Value, error) {
	declared := false
	for _, ref := range c.refs {
		if ref == name {
			declared = true
			break
		}
	}
	if !declared {
		return Value{}, fmt.Errorf("opts: %s reads %s without declaring it as a reference", c.option, name)
	}
	v, err := c.resolver.resolve(name)
	if err != nil {
		var configErr *ConfigError
		if errors.As(err, &configErr) && (configErr.Kind == KindMissingOption || configErr.Kind == KindUnknownOption) {
			return Value{}, configErr.requiredBy(c.option)
		}
		return Value{}, err
	}
	return v, nil
}

func (c *evalContext) Evaluate(engine string, ctx RuleContext, expression string) (any, error) {
	return c.resolver.engines.evaluate(engine, ctx, expression)
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
