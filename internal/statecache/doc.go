// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package statecache provides the interning primitives behind the device's
// state cache.
//
// # Interner[K, V]
//
// Interner maps a comparable key to a reference-counted [Ref]. Identical
// keys share one Ref while any holder keeps it:
//
//	rasters := statecache.New[RasterState, RasterState](nil)
//	a, _ := rasters.GetOrInsert(key, build)
//	b, _ := rasters.GetOrInsert(key, build) // a == b
//
// Releasing the last reference does not free the entry immediately; the
// next [Interner.Sweep] drops it and runs the destructor given to [New]
// (for example deleting a GL program).
//
// # Limiter
//
// [Limiter] rate-limits sweeps so per-submit maintenance stays cheap.
//
// # Thread Safety
//
// Interner itself is not synchronized; its owner serializes access with the
// GL context lock. Ref.Retain and Ref.Release use atomics and are safe from
// any goroutine.
package statecache
