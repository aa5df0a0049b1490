// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package statecache

import (
	"sync/atomic"
)

// Ref is a counted handle to an interned value. Holders call Release when
// done; the entry stays in its Interner until a sweep finds it unreferenced.
//
// Retain and Release are safe from any goroutine.
type Ref[V any] struct {
	value   V
	refs    atomic.Int32
	pending *atomic.Int64
}

// Value returns the interned value.
func (r *Ref[V]) Value() V { return r.value }

// Retain adds a reference and returns r.
func (r *Ref[V]) Retain() *Ref[V] {
	r.refs.Add(1)
	return r
}

// Release drops a reference. Releasing more often than retaining panics.
func (r *Ref[V]) Release() {
	switch n := r.refs.Add(-1); {
	case n == 0:
		r.pending.Add(1)
	case n < 0:
		panic("statecache: reference released twice")
	}
}

// Live reports whether any holder still references r.
func (r *Ref[V]) Live() bool { return r.refs.Load() > 0 }

// Interner deduplicates values by key. Identical keys resolve to the same
// *Ref for as long as one holder keeps it; after the last release the next
// Sweep drops the entry and runs the destructor, so the following request
// builds a fresh value.
//
// Interner is not safe for concurrent use: GetOrInsert, Sweep and Clear
// run under the owner's lock. Only Ref counting is concurrent.
type Interner[K comparable, V any] struct {
	entries map[K]*Ref[V]
	destroy func(V)
	pending atomic.Int64

	hits      uint64
	misses    uint64
	evictions uint64
}

// New creates an interner. destroy, if non-nil, runs for every value that
// leaves the interner.
func New[K comparable, V any](destroy func(V)) *Interner[K, V] {
	return &Interner[K, V]{
		entries: make(map[K]*Ref[V]),
		destroy: destroy,
	}
}

// GetOrInsert returns the entry for key with its count incremented, or
// builds, stores and returns a new one. A build error stores nothing.
func (in *Interner[K, V]) GetOrInsert(key K, build func() (V, error)) (*Ref[V], error) {
	if r, ok := in.entries[key]; ok {
		in.hits++
		return r.Retain(), nil
	}
	in.misses++

	v, err := build()
	if err != nil {
		return nil, err
	}
	r := &Ref[V]{value: v, pending: &in.pending}
	r.refs.Store(1)
	in.entries[key] = r
	return r, nil
}

// Sweep drops unreferenced entries, runs their destructors and returns how
// many were removed.
func (in *Interner[K, V]) Sweep() int {
	if in.pending.Swap(0) == 0 {
		return 0
	}
	n := 0
	for k, r := range in.entries {
		if r.Live() {
			continue
		}
		delete(in.entries, k)
		if in.destroy != nil {
			in.destroy(r.value)
		}
		n++
	}
	in.evictions += uint64(n)
	return n
}

// Clear destroys every entry, referenced or not.
func (in *Interner[K, V]) Clear() {
	for k, r := range in.entries {
		delete(in.entries, k)
		if in.destroy != nil {
			in.destroy(r.value)
		}
	}
	in.pending.Store(0)
}

// Len returns the number of stored entries, including unreferenced ones
// awaiting a sweep.
func (in *Interner[K, V]) Len() int { return len(in.entries) }

// Stats returns hit, miss and eviction counters.
func (in *Interner[K, V]) Stats() Stats {
	return Stats{
		Len:       len(in.entries),
		Hits:      in.hits,
		Misses:    in.misses,
		Evictions: in.evictions,
		HitRate:   hitRate(in.hits, in.misses),
	}
}

// Stats contains cache statistics.
type Stats struct {
	// Len is the current number of entries.
	Len int
	// Hits is the number of lookups served from the cache.
	Hits uint64
	// Misses is the number of lookups that built a new entry.
	Misses uint64
	// HitRate is Hits / (Hits + Misses), 0 when nothing was looked up.
	HitRate float64
	// Evictions is the number of entries removed by sweeps or
	// invalidation.
	Evictions uint64
}

// Add sums two stats snapshots.
func (s Stats) Add(o Stats) Stats {
	s.Len += o.Len
	s.Hits += o.Hits
	s.Misses += o.Misses
	s.Evictions += o.Evictions
	s.HitRate = hitRate(s.Hits, s.Misses)
	return s
}

func hitRate(hits, misses uint64) float64 {
	if hits+misses == 0 {
		return 0
	}
	return float64(hits) / float64(hits+misses)
}
