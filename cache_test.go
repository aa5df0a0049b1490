// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gles

import "testing"

func TestCompositeCacheInvalidateDropsSharedRefs(t *testing.T) {
	var destroyed []int
	c := newCompositeCache[string, uint32, int](func(h int) { destroyed = append(destroyed, h) })

	c.get("ab", []uint32{1, 2}, func() int { return 10 })
	c.get("b", []uint32{2}, func() int { return 20 })

	if got := c.invalidate(1); len(got) != 1 || got[0] != 10 {
		t.Fatalf("invalidate(1) = %v, want [10]", got)
	}
	if keys := c.byRef[2]; len(keys) != 1 || keys[0] != "b" {
		t.Errorf("byRef[2] = %v, want only b", keys)
	}

	// Rebuilding the evicted key must not leave a stale duplicate behind.
	c.get("ab", []uint32{1, 2}, func() int { return 11 })
	if got := c.invalidate(2); len(got) != 2 {
		t.Errorf("invalidate(2) = %v, want the rebuilt entry and b", got)
	}
	if len(c.byRef) != 0 || len(c.refs) != 0 || len(c.entries) != 0 {
		t.Errorf("cache not empty: byRef=%v refs=%v entries=%v", c.byRef, c.refs, c.entries)
	}
	if len(destroyed) != 3 {
		t.Errorf("destroyed = %v, want 3 handles", destroyed)
	}
}
