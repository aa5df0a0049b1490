// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gles

import "fmt"

// Queue submits finished command buffers and uploads data.
type Queue struct {
	dev *Device
}

// Submit hands the command buffers to the driver and runs cache
// maintenance. Sweeps are rate limited by WithSweepInterval.
func (q *Queue) Submit(buffers ...*CommandBuffer) error {
	for i, b := range buffers {
		switch {
		case b == nil:
			return invalid("submit: command buffer %d is nil", i)
		case b.dev != q.dev:
			return invalid("submit: command buffer %q belongs to another device", b.label)
		case b.consumed:
			return fmt.Errorf("submit %q: %w", b.label, ErrCommandBufferConsumed)
		}
	}
	return q.dev.locked(func() error {
		for _, b := range buffers {
			b.consumed = true
		}
		q.dev.fns.Flush()
		if q.dev.sweeper.Allow() {
			if n := q.dev.cache.sweep(); n > 0 {
				q.dev.logger().Debug("gles: cache swept", "removed", n)
			}
		}
		q.dev.checkErrors("submit")
		return nil
	})
}
