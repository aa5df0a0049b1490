// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gles

import (
	"time"

	"github.com/gogpu/gles/internal/shader"
	"github.com/gogpu/gles/internal/statecache"
)

// DefaultLockTimeout bounds how long a call waits for the context lock.
const DefaultLockTimeout = time.Second

// DeviceOption configures a Device during creation.
//
// Example:
//
//	dev, err := gles.NewDevice(fns,
//	    gles.WithDebug(true),
//	    gles.WithLabel("main"),
//	)
type DeviceOption func(*deviceOptions)

type deviceOptions struct {
	label         string
	debug         bool
	lockTimeout   time.Duration
	sweepInterval time.Duration
	shaderVersion *shader.Version
}

func defaultOptions() deviceOptions {
	return deviceOptions{
		lockTimeout:   DefaultLockTimeout,
		sweepInterval: statecache.DefaultSweepInterval,
	}
}

// WithLabel names the device in log output.
func WithLabel(label string) DeviceOption {
	return func(o *deviceOptions) {
		o.label = label
	}
}

// WithDebug enables driver validation. Bindings that deliver debug
// messages get a callback; others are polled with GetError after every
// pass and draw. Problems are logged at Warn and set the flag read by
// [Device.ValidationFailed].
func WithDebug(enabled bool) DeviceOption {
	return func(o *deviceOptions) {
		o.debug = enabled
	}
}

// WithLockTimeout sets how long a call waits for the context lock before
// panicking. Non-positive values keep the default.
func WithLockTimeout(d time.Duration) DeviceOption {
	return func(o *deviceOptions) {
		if d > 0 {
			o.lockTimeout = d
		}
	}
}

// WithSweepInterval sets the minimum time between cache sweeps run by
// [Queue.Submit]. Zero sweeps on every submit.
func WithSweepInterval(d time.Duration) DeviceOption {
	return func(o *deviceOptions) {
		o.sweepInterval = d
	}
}

// WithShaderVersion overrides the GLSL version parsed from the driver's
// SHADING_LANGUAGE_VERSION string, for example "300 es" or "310 es".
func WithShaderVersion(v ShaderVersion) DeviceOption {
	return func(o *deviceOptions) {
		o.shaderVersion = &v
	}
}
