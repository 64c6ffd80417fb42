// Copyright 2022 Gustavo C. Viegas. All rights reserved.

// Package registry provides a dense store keyed by an externally
// supplied, opaque identifier — the shape needed by the compositor's
// buffer- and fence-tracking tables, whose CollectionId/ImageId values
// are chosen by the client rather than handed out by the store itself.
//
// It adapts the engine package's internal dataMap (which assumes the
// identifier is handed out by the map on Insert) to the opposite case:
// the caller already has a key and just wants map lookup, insert and
// in-place removal (the freed slot is reused by a later Insert)
// without giving up the dense, cache-friendly storage a slice
// provides.
package registry

import (
	"errors"
	"iter"

	"github.com/onepiec1/fuchsia/internal/bitvec"
)

// ErrDuplicateKey is returned by Insert when the key is already present.
var ErrDuplicateKey = errors.New("registry: duplicate key")

const chunkBits = 32

type entry[K comparable, D any] struct {
	key  K
	data D
}

// Registry is a set of D values, each addressed by a unique K.
// The zero value is ready to use.
type Registry[K comparable, D any] struct {
	slots map[K]int
	free  bitvec.V[uint32]
	data  []entry[K, D]
}

// Insert adds data under key. It fails with ErrDuplicateKey if key is
// already present.
func (r *Registry[K, D]) Insert(key K, data D) error {
	if r.slots == nil {
		r.slots = make(map[K]int)
	}
	if _, ok := r.slots[key]; ok {
		return ErrDuplicateKey
	}
	if r.free.Rem() == 0 {
		idx := r.free.Grow(1)
		var chunk [chunkBits]entry[K, D]
		r.data = append(r.data, chunk[:]...)
		_ = idx
	}
	idx, ok := r.free.Search()
	if !ok {
		// Rem() > 0 guarantees Search succeeds.
		panic("registry: Search failed after Grow")
	}
	r.free.Set(idx)
	r.data[idx] = entry[K, D]{key, data}
	r.slots[key] = idx
	return nil
}

// Remove deletes the data stored under key, returning it along with
// whether key was present.
func (r *Registry[K, D]) Remove(key K) (data D, ok bool) {
	idx, ok := r.slots[key]
	if !ok {
		return
	}
	data = r.data[idx].data
	delete(r.slots, key)
	r.free.Unset(idx)
	r.data[idx] = entry[K, D]{}
	return data, true
}

// Get returns a pointer to the data stored under key.
// The pointer is invalidated by any subsequent call to Insert or
// Remove, as those may reallocate the backing slice.
func (r *Registry[K, D]) Get(key K) (*D, bool) {
	idx, ok := r.slots[key]
	if !ok {
		return nil, false
	}
	return &r.data[idx].data, true
}

// Has reports whether key is present.
func (r *Registry[K, D]) Has(key K) bool {
	_, ok := r.slots[key]
	return ok
}

// Len returns the number of entries currently stored.
func (r *Registry[K, D]) Len() int { return len(r.slots) }

// All iterates over every (key, *data) pair. Mutating the registry
// from within the iteration is not supported.
func (r *Registry[K, D]) All() iter.Seq2[K, *D] {
	return func(yield func(K, *D) bool) {
		for k, idx := range r.slots {
			if !yield(k, &r.data[idx].data) {
				return
			}
		}
	}
}
