// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gles

import (
	"log/slog"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/gogpu/gles/gl"
	"github.com/gogpu/gles/internal/shader"
	"github.com/gogpu/gles/internal/statecache"
)

// Device owns one GL context and everything created on it. All GL work
// runs under the device's context lock: resource calls take it for their
// duration, a CommandEncoder holds it from creation until Finish.
//
// A Device must not be used from two goroutines at once while an encoder
// is open; the second caller waits for the lock and panics on timeout.
type Device struct {
	id      uuid.UUID
	label   string
	fns     gl.Functions
	adapter *Adapter
	opts    deviceOptions

	lock     *contextLock
	compiler *shader.Compiler
	state    *glState
	cache    *deviceCache
	sweeper  *statecache.Limiter
	queue    *Queue

	// debugCallback is set when the binding delivers debug messages, so
	// GetError polling is skipped.
	debugCallback bool
	validation    atomic.Bool

	nextID    atomic.Uint64
	destroyed bool
}

// NewDevice creates a device on the GL context behind fns. The context
// must be current on the calling thread for every later call.
func NewDevice(fns gl.Functions, opts ...DeviceOption) (*Device, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	adapter, err := queryAdapter(fns, o.shaderVersion)
	if err != nil {
		return nil, err
	}

	d := &Device{
		id:      uuid.New(),
		label:   o.label,
		fns:     fns,
		adapter: adapter,
		opts:    o,
		lock:    newContextLock(o.lockTimeout),
		sweeper: statecache.NewLimiter(o.sweepInterval),
	}
	d.compiler = shader.NewCompiler(shader.NewSlotAllocator(
		adapter.Limits.MaxUniformBufferBindings,
		adapter.Limits.MaxTextureUnits,
	))
	d.state = newGLState(d)
	d.cache = newDeviceCache(fns, d.state)
	d.queue = &Queue{dev: d}

	d.lock.acquire()
	d.state.init()
	if o.debug {
		d.installDebug()
	}
	d.lock.release()

	d.logger().Info("gles: device created",
		"vendor", adapter.Info.Vendor,
		"renderer", adapter.Info.Renderer,
		"glsl", adapter.Info.ShadingLanguage.String(),
		"webgl", adapter.Info.ShadingLanguage.WebGL,
		"debug", o.debug)
	return d, nil
}

// ID returns the device's unique identifier, attached to its log records.
func (d *Device) ID() uuid.UUID { return d.id }

// Label returns the label given with WithLabel.
func (d *Device) Label() string { return d.label }

// Adapter returns the capabilities queried at creation.
func (d *Device) Adapter() *Adapter { return d.adapter }

// Queue returns the device's queue.
func (d *Device) Queue() *Queue { return d.queue }

// Functions returns the GL binding the device drives.
func (d *Device) Functions() gl.Functions { return d.fns }

// CacheStats reports the state cache counters.
func (d *Device) CacheStats() CacheStats {
	d.lock.acquire()
	defer d.lock.release()
	return d.cache.stats()
}

// Destroy deletes every cached GL object. Resources created on the device
// must be destroyed by their owners. Later calls return ErrDeviceLost.
func (d *Device) Destroy() {
	d.lock.acquire()
	defer d.lock.release()
	if d.destroyed {
		return
	}
	d.destroyed = true
	d.cache.clear(d.state)
	d.logger().Debug("gles: device destroyed")
}

func (d *Device) logger() *slog.Logger {
	l := slogger().With("device", d.id.String())
	if d.label != "" {
		l = l.With("label", d.label)
	}
	return l
}

func (d *Device) newID() uint64 { return d.nextID.Add(1) }

// locked runs fn under the context lock, failing when the device is gone.
func (d *Device) locked(fn func() error) error {
	d.lock.acquire()
	defer d.lock.release()
	if d.destroyed {
		return ErrDeviceLost
	}
	return fn()
}
