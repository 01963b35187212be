package state

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var ErrETagMismatch = errors.New("state: etag mismatch")

// Ref identifies one persisted snapshot of overrides for one site.
type Ref struct {
	Site string
	Name string
}

// Meta is storage-owned metadata used for provenance and concurrency control.
type Meta struct {
	SnapshotID string            `json:"snapshot_id,omitempty"`
	ETag       string            `json:"etag,omitempty"`
	UpdatedAt  time.Time         `json:"updated_at,omitempty"`
	Extra      map[string]string `json:"extra,omitempty"`
}

// Store loads and saves one override snapshot for a single ref.
type Store interface {
	Load(ctx context.Context, ref Ref) (snapshot map[string]any, meta Meta, ok bool, err error)
	Save(ctx context.Context, ref Ref, snapshot map[string]any, meta Meta) (Meta, error)
}

// Mutator edits a snapshot in place.
type Mutator func(snapshot map[string]any) error

func (r Ref) Identifier() (string, error) {
	if r.Site == "" {
		return "", fmt.Errorf("state: missing site for snapshot %q", r.Name)
	}
	if r.Name == "" {
		return "", fmt.Errorf("state: missing snapshot name for site %q", r.Site)
	}
	return fmt.Sprintf("site/%s/%s", r.Site, r.Name), nil
}

func mergeMeta(base, override Meta) Meta {
	out := base
	if override.SnapshotID != "" {
		out.SnapshotID = override.SnapshotID
	}
	if override.ETag != "" {
		out.ETag = override.ETag
	}
	if !override.UpdatedAt.IsZero() {
		out.UpdatedAt = override.UpdatedAt
	}
	if override.Extra != nil {
		out.Extra = override.Extra
	}
	return out
}

func cloneMeta(meta Meta) Meta {
	out := meta
	if meta.Extra == nil {
		return out
	}
	out.Extra = make(map[string]string, len(meta.Extra))
	for k, v := range meta.Extra {
		out.Extra[k] = v
	}
	return out
}

// cloneSnapshot copies the top level; option values are replaced whole, never
// edited in place.
func cloneSnapshot(snapshot map[string]any) map[string]any {
	out := make(map[string]any, len(snapshot))
	for k, v := range snapshot {
		out[k] = v
	}
	return out
}
