// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package gles implements a WebGPU-shaped rendering API on OpenGL ES 3.0
// and WebGL2.
//
// # Overview
//
// A [Device] wraps one GL context reached through [gl.Functions]. Resources
// (buffers, textures, samplers, shader modules, bind groups, pipelines) are
// created from descriptors that use the gputypes enums. Recording is
// immediate: a [CommandEncoder] holds the device's context lock from
// creation until Finish and every pass call runs on GL at once.
//
// # Quick Start
//
//	fns, err := gl.NewNative() // with a current GLES context
//	if err != nil {
//	    return err
//	}
//	dev, err := gles.NewDevice(fns, gles.WithDebug(true))
//	if err != nil {
//	    return err
//	}
//	enc, _ := dev.CreateCommandEncoder("frame")
//	pass, _ := enc.BeginRenderPass(&gles.RenderPassDescriptor{
//	    ColorAttachments: []gles.RenderPassColorAttachment{{
//	        View:       surfaceView,
//	        LoadOp:     gputypes.LoadOpClear,
//	        StoreOp:    gputypes.StoreOpStore,
//	        ClearValue: gputypes.Color{A: 1},
//	    }},
//	})
//	pass.SetPipeline(pipeline)
//	pass.SetBindGroup(0, group)
//	pass.SetVertexBuffer(0, vertices, 0)
//	pass.Draw(3, 1, 0, 0)
//	pass.End()
//	cmd, _ := enc.Finish()
//	dev.Queue().Submit(cmd)
//
// # State caching
//
// GL is one global state machine. The device mirrors it and sends only
// what changed: pipelines hold counted handles to interned raster, depth,
// stencil and blend state, so switching between pipelines compares handles
// and applies the pieces that differ. Programs, vertex arrays and
// framebuffers are cached by derived keys. Destroying a buffer or texture
// evicts the vertex arrays and framebuffers that reference it; releasing a
// pipeline lets [Queue.Submit] sweep its program once nothing else holds it.
//
// # Shaders
//
// WGSL is parsed and validated by naga and emitted as GLSL ES per stage.
// Bind group bindings are reflected and mapped onto device-wide uniform
// buffer binding points and texture units; samplers share the unit of the
// textures in their group. Hosts that ship GLSL use [GLSLSource].
//
// # Gaps
//
// GLES 3.0 has no compute shaders, indirect draws, base vertex or
// per-target blending. These are rejected: descriptors with an error,
// recording calls with a panic.
//
// # Logging
//
// gles is silent by default. Use [SetLogger] to route its records to a
// slog handler.
package gles
