// Package state persists override snapshots per site and turns them into
// layers the loader can merge.
//
// A Store only loads and saves one snapshot for one Ref. The Resolver reads
// several refs into layering.Layer values at LevelStore and applies checked
// mutations before saving.
//
// Data flow:
//
//	Store -> Resolver.Layers -> loader.WithSnapshots -> layering.Chain -> opts.Resolve
//
// Keys:
//
//	Ref.Identifier() returns "site/<site>/<name>", the key MemoryStore uses.
//	Persistent stores may use it as their primary key.
package state
