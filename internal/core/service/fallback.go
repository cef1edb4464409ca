package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"

	"github.com/rentgrid/backoffice/internal/core/ports"
)

// offlineIDBase separates locally assigned ids (millisecond timestamps) from
// server-assigned ones, which stay far below it in practice.
const offlineIDBase = int64(1_000_000_000_000)

// RemoteOps are the backend operations a fallback resource wraps.
type RemoteOps[T any] struct {
	List   func(ctx context.Context) ([]T, error)
	Create func(ctx context.Context, item T) (T, error)
	Update func(ctx context.Context, item T) (T, error)
	Delete func(ctx context.Context, id int64) error
}

// Resource keeps an admin list screen usable when the backend is down. The
// first Load decides the mode for the lifetime of the value: online mutations
// go to the backend and re-fetch the list; offline mutations edit the
// in-memory list and overwrite the local cache after every change. A fresh
// Resource always re-attempts the backend first.
//
// Offline edits are never replayed automatically; Sync is the explicit,
// operator-triggered reconciliation step.
type Resource[T any] struct {
	key     string
	ops     RemoteOps[T]
	store   ports.Store
	log     zerolog.Logger
	id      func(T) int64
	setID   func(*T, int64)
	items   []T
	offline bool
	dirty   bool
}

// NewResource builds a fallback resource caching under the given store key.
// id and setID give the generic code access to the record's id field.
func NewResource[T any](key string, ops RemoteOps[T], store ports.Store, id func(T) int64, setID func(*T, int64), log zerolog.Logger) *Resource[T] {
	return &Resource[T]{key: key, ops: ops, store: store, id: id, setID: setID, log: log}
}

// Load fetches the list from the backend, falling back to the local cache on
// any request or connectivity failure. A missing or corrupt cache loads as an
// empty list rather than an error.
func (r *Resource[T]) Load(ctx context.Context) ([]T, error) {
	items, err := r.ops.List(ctx)
	if err != nil {
		r.log.Warn().Err(err).Str("resource", r.key).Msg("backend unavailable, switching to offline mode")
		r.offline = true
		r.items = r.readCache()
		return r.items, nil
	}
	r.offline = false
	r.items = items
	return r.items, nil
}

// Items returns the current in-memory list.
func (r *Resource[T]) Items() []T { return r.items }

// Offline reports whether the resource fell back to the local cache.
func (r *Resource[T]) Offline() bool { return r.offline }

// Dirty reports whether offline edits exist that the backend has never seen.
func (r *Resource[T]) Dirty() bool { return r.dirty }

// Create adds a record. Offline, the record gets a timestamp id, is prepended
// to the list, and the cache is overwritten.
func (r *Resource[T]) Create(ctx context.Context, item T) (T, error) {
	if r.offline {
		r.setID(&item, time.Now().UnixMilli())
		r.items = append([]T{item}, r.items...)
		r.persist()
		return item, nil
	}

	created, err := r.ops.Create(ctx, item)
	if err != nil {
		return created, err
	}
	_, err = r.Load(ctx)
	return created, err
}

// Update replaces the record with the same id.
func (r *Resource[T]) Update(ctx context.Context, item T) (T, error) {
	if r.offline {
		for i := range r.items {
			if r.id(r.items[i]) == r.id(item) {
				r.items[i] = item
				break
			}
		}
		r.persist()
		return item, nil
	}

	updated, err := r.ops.Update(ctx, item)
	if err != nil {
		return updated, err
	}
	_, err = r.Load(ctx)
	return updated, err
}

// Delete removes the record with the given id.
func (r *Resource[T]) Delete(ctx context.Context, id int64) error {
	if r.offline {
		kept := r.items[:0]
		for _, item := range r.items {
			if r.id(item) != id {
				kept = append(kept, item)
			}
		}
		r.items = kept
		r.persist()
		return nil
	}

	if err := r.ops.Delete(ctx, id); err != nil {
		return err
	}
	_, err := r.Load(ctx)
	return err
}

// Sync replays offline edits against the backend on operator demand: records
// with locally assigned ids are created, the rest updated. On success the
// resource returns to online mode and the cache is dropped. Deletions made
// offline are not propagated; the refreshed server list wins.
func (r *Resource[T]) Sync(ctx context.Context) error {
	if !r.offline {
		return nil
	}
	if r.dirty {
		for _, item := range r.items {
			var err error
			if r.id(item) >= offlineIDBase {
				_, err = r.ops.Create(ctx, item)
			} else {
				_, err = r.ops.Update(ctx, item)
			}
			if err != nil {
				return err
			}
		}
	}

	items, err := r.ops.List(ctx)
	if err != nil {
		return err
	}
	r.items = items
	r.offline = false
	r.dirty = false
	if err := r.store.Delete(r.key); err != nil {
		r.log.Warn().Err(err).Str("resource", r.key).Msg("failed to drop offline cache")
	}
	return nil
}

func (r *Resource[T]) persist() {
	r.dirty = true
	data, err := json.Marshal(r.items)
	if err != nil {
		r.log.Error().Err(err).Str("resource", r.key).Msg("failed to encode offline cache")
		return
	}
	if err := r.store.Set(r.key, data); err != nil {
		r.log.Error().Err(err).Str("resource", r.key).Msg("failed to write offline cache")
	}
}

func (r *Resource[T]) readCache() []T {
	data, err := r.store.Get(r.key)
	if err != nil || len(data) == 0 {
		return []T{}
	}
	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		r.log.Warn().Err(err).Str("resource", r.key).Msg("offline cache unparseable, starting empty")
		return []T{}
	}
	return items
}
