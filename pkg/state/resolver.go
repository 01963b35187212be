package state

import (
	"context"
	"fmt"
	"maps"
	"slices"

	opts "github.com/goliatone/go-siteopts"
	"github.com/goliatone/go-siteopts/layering"
)

// Resolver reads snapshots from Store and checks mutations against Registry.
type Resolver struct {
	Store    Store
	Registry *opts.Registry
}

// Layers loads every ref that has a snapshot, in the order given, as
// LevelStore layers. Missing snapshots are skipped.
func (r Resolver) Layers(ctx context.Context, refs ...Ref) ([]layering.Layer, error) {
	if r.Store == nil {
		return nil, fmt.Errorf("state: store is required")
	}
	layers := make([]layering.Layer, 0, len(refs))
	for _, ref := range refs {
		key, err := ref.Identifier()
		if err != nil {
			return nil, err
		}
		snapshot, _, ok, err := r.Store.Load(ctx, ref)
		if err != nil {
			return nil, fmt.Errorf("state: load %q: %w", key, err)
		}
		if !ok {
			continue
		}
		layers = append(layers, layering.Layer{Level: layering.LevelStore, Origin: key, Values: snapshot})
	}
	return layers, nil
}

// Mutate loads one snapshot, applies fn, checks the result and saves it. A
// non-empty meta.ETag must match the stored one. Every key must name a
// registered option and every value must coerce to the declared type; on
// failure nothing is saved.
func (r Resolver) Mutate(ctx context.Context, ref Ref, meta Meta, fn Mutator) (map[string]any, Meta, error) {
	if r.Store == nil {
		return nil, Meta{}, fmt.Errorf("state: store is required")
	}
	if fn == nil {
		return nil, Meta{}, fmt.Errorf("state: mutator is required")
	}
	key, err := ref.Identifier()
	if err != nil {
		return nil, Meta{}, err
	}

	snapshot, loadedMeta, ok, err := r.Store.Load(ctx, ref)
	if err != nil {
		return nil, Meta{}, fmt.Errorf("state: load %q: %w", key, err)
	}
	if !ok {
		snapshot = map[string]any{}
		loadedMeta = Meta{}
	}

	if meta.ETag != "" && loadedMeta.ETag != "" && meta.ETag != loadedMeta.ETag {
		return nil, loadedMeta, fmt.Errorf("%w: expected %q, got %q", ErrETagMismatch, meta.ETag, loadedMeta.ETag)
	}

	if err := fn(snapshot); err != nil {
		return nil, loadedMeta, err
	}
	if err := r.check(snapshot); err != nil {
		return nil, loadedMeta, err
	}

	saved, err := r.Store.Save(ctx, ref, snapshot, mergeMeta(loadedMeta, meta))
	if err != nil {
		return nil, loadedMeta, fmt.Errorf("state: save %q: %w", key, err)
	}
	return snapshot, saved, nil
}

func (r Resolver) check(snapshot map[string]any) error {
	if r.Registry == nil {
		return nil
	}
	for _, name := range slices.Sorted(maps.Keys(snapshot)) {
		d, err := r.Registry.Lookup(name)
		if err != nil {
			return err
		}
		if _, err := opts.Coerce(d.Type, snapshot[name]); err != nil {
			return opts.TypeMismatchError(name, d.Type, err)
		}
	}
	return nil
}
