// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gles

import (
	"fmt"

	"github.com/gogpu/gles/gl"
)

// installDebug registers a debug callback when the binding supports one.
// Otherwise checkErrors polls GetError. Must run under the context lock.
func (d *Device) installDebug() {
	r, ok := d.fns.(gl.DebugReporter)
	if !ok {
		d.logger().Debug("gles: no debug callback, polling GetError")
		return
	}
	r.SetDebugCallback(d.onDebugMessage)
	d.debugCallback = true
}

func (d *Device) onDebugMessage(m gl.DebugMessage) {
	if m.Severity == gl.DEBUG_SEVERITY_NOTIFICATION {
		d.logger().Debug("gles: driver message", "id", m.ID, "message", m.Message)
		return
	}
	if m.Type == gl.DEBUG_TYPE_ERROR || m.Severity == gl.DEBUG_SEVERITY_HIGH {
		d.validation.Store(true)
	}
	d.logger().Warn("gles: driver message",
		"id", m.ID,
		"type", fmt.Sprintf("0x%x", uint32(m.Type)),
		"severity", fmt.Sprintf("0x%x", uint32(m.Severity)),
		"message", m.Message)
}

// checkErrors drains GetError after op when debugging without a callback.
func (d *Device) checkErrors(op string) {
	if !d.opts.debug || d.debugCallback {
		return
	}
	for range 16 {
		e := d.fns.GetError()
		if e == gl.NO_ERROR {
			return
		}
		d.validation.Store(true)
		d.logger().Warn("gles: GL error", "op", op, "error", glErrorName(e))
		if e == gl.CONTEXT_LOST {
			return
		}
	}
}

func glErrorName(e gl.Enum) string {
	switch e {
	case gl.INVALID_ENUM:
		return "INVALID_ENUM"
	case gl.INVALID_VALUE:
		return "INVALID_VALUE"
	case gl.INVALID_OPERATION:
		return "INVALID_OPERATION"
	case gl.OUT_OF_MEMORY:
		return "OUT_OF_MEMORY"
	case gl.INVALID_FRAMEBUFFER_OPERATION:
		return "INVALID_FRAMEBUFFER_OPERATION"
	case gl.CONTEXT_LOST:
		return "CONTEXT_LOST"
	default:
		return fmt.Sprintf("0x%x", uint32(e))
	}
}

// ValidationFailed reports whether a driver error or validation message
// has been seen since creation or the last ResetValidation. It is only
// tracked with WithDebug.
func (d *Device) ValidationFailed() bool { return d.validation.Load() }

// ResetValidation clears the flag read by ValidationFailed.
func (d *Device) ResetValidation() { d.validation.Store(false) }
