// Package loader assembles the raw override mapping for a registry from
// settings files, saved snapshots, the environment and command line
// assignments.
package loader

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/viper"

	opts "github.com/goliatone/go-siteopts"
	"github.com/goliatone/go-siteopts/layering"
	"github.com/goliatone/go-siteopts/pkg/state"
)

var (
	// ErrUnsupportedFormat is returned for settings files with an unknown
	// extension.
	ErrUnsupportedFormat = errors.New("loader: unsupported settings format")
	// ErrInvalidAssignment is returned for a --set value without NAME=.
	ErrInvalidAssignment = errors.New("loader: invalid assignment")
)

// Loader collects override layers for one registry.
type Loader struct {
	registry *opts.Registry
	fs       afero.Fs
	files    []string
	sets     []string
	env      bool

	snapshots state.Resolver
	refs      []state.Ref
}

// Option configures a Loader.
type Option func(*Loader)

// WithFs replaces the filesystem settings files are read from.
func WithFs(fs afero.Fs) Option {
	return func(l *Loader) {
		if fs != nil {
			l.fs = fs
		}
	}
}

// WithFiles appends settings files; later files override earlier ones.
func WithFiles(paths ...string) Option {
	return func(l *Loader) {
		l.files = append(l.files, paths...)
	}
}

// WithSnapshots reads saved snapshots for refs from store. They override
// files and are overridden by the environment; later refs win.
func WithSnapshots(store state.Store, refs ...state.Ref) Option {
	return func(l *Loader) {
		l.snapshots = state.Resolver{Store: store, Registry: l.registry}
		l.refs = append(l.refs, refs...)
	}
}

// WithAssignments appends NAME=VALUE overrides from the command line.
func WithAssignments(assignments ...string) Option {
	return func(l *Loader) {
		l.sets = append(l.sets, assignments...)
	}
}

// WithEnv toggles reading registered option names from the environment.
// Enabled by default.
func WithEnv(enabled bool) Option {
	return func(l *Loader) {
		l.env = enabled
	}
}

// New returns a loader for registry.
func New(registry *opts.Registry, options ...Option) *Loader {
	l := &Loader{
		registry: registry,
		fs:       afero.NewOsFs(),
		env:      true,
	}
	for _, option := range options {
		if option != nil {
			option(l)
		}
	}
	return l
}

// Chain reads every source into a layering chain.
func (l *Loader) Chain(ctx context.Context) (layering.Chain, error) {
	var layers []layering.Layer
	for _, path := range l.files {
		if err := ctx.Err(); err != nil {
			return layering.Chain{}, err
		}
		values, err := ReadFile(l.fs, path)
		if err != nil {
			return layering.Chain{}, err
		}
		layers = append(layers, layering.Layer{Level: layering.LevelFile, Origin: path, Values: values})
	}
	if len(l.refs) > 0 {
		stored, err := l.snapshots.Layers(ctx, l.refs...)
		if err != nil {
			return layering.Chain{}, err
		}
		layers = append(layers, stored...)
	}
	if l.env {
		layers = append(layers, layering.Layer{Level: layering.LevelEnv, Origin: "environment", Values: l.environment()})
	}
	if len(l.sets) > 0 {
		values, err := ParseAssignments(l.sets)
		if err != nil {
			return layering.Chain{}, err
		}
		layers = append(layers, layering.Layer{Level: layering.LevelFlag, Origin: "set", Values: values})
	}
	return newFileOrderedChain(layers), nil
}

// Load merges every source, strongest winning: assignments over environment
// over snapshots over files, later files over earlier ones.
func (l *Loader) Load(ctx context.Context) (layering.Merged, error) {
	chain, err := l.Chain(ctx)
	if err != nil {
		return layering.Merged{}, err
	}
	return chain.Merge(), nil
}

// Overrides is Load returning only the merged values.
func (l *Loader) Overrides(ctx context.Context) (map[string]any, error) {
	merged, err := l.Load(ctx)
	if err != nil {
		return nil, err
	}
	return merged.Values, nil
}

// environment reads exactly the registered option names through viper.
func (l *Loader) environment() map[string]any {
	v := viper.New()
	values := map[string]any{}
	names := l.registry.Names()
	for _, name := range names {
		_ = v.BindEnv(name, name)
	}
	for _, name := range names {
		if v.IsSet(name) {
			values[name] = v.GetString(name)
		}
	}
	return values
}

// newFileOrderedChain keeps later files and snapshots stronger than earlier ones. Peers of
// one level stay in insertion order inside the chain, which ranks the first
// as strongest, so files are reversed before building it.
func newFileOrderedChain(layers []layering.Layer) layering.Chain {
	ordered := make([]layering.Layer, 0, len(layers))
	for i := len(layers) - 1; i >= 0; i-- {
		ordered = append(ordered, layers[i])
	}
	return layering.NewChain(ordered...)
}

// ParseAssignments turns NAME=VALUE strings into overrides. Values are kept
// as strings and coerced later by the declared type; a repeated name keeps
// the last value.
func ParseAssignments(assignments []string) (map[string]any, error) {
	values := make(map[string]any, len(assignments))
	for _, assignment := range assignments {
		name, value, ok := strings.Cut(assignment, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("%w: %q", ErrInvalidAssignment, assignment)
		}
		values[name] = value
	}
	return values, nil
}
