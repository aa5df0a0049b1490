// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gles

import (
	"fmt"
	"strings"
	"testing"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/gles/gl/gltest"
)

func newTestDevice(t *testing.T, opts ...DeviceOption) (*Device, *gltest.Fake) {
	t.Helper()
	return newTestDeviceWith(t, gltest.New(), opts...)
}

func newTestDeviceWith(t *testing.T, f *gltest.Fake, opts ...DeviceOption) (*Device, *gltest.Fake) {
	t.Helper()
	d, err := NewDevice(f, opts...)
	if err != nil {
		t.Fatalf("NewDevice() error = %v", err)
	}
	t.Cleanup(d.Destroy)
	return d, f
}

// mustPanic runs fn and returns the panic message, failing the test when
// fn returns normally.
func mustPanic(t *testing.T, fn func()) (msg string) {
	t.Helper()
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic, got none")
		}
		msg = fmt.Sprint(r)
	}()
	fn()
	return ""
}

const (
	testVertexGLSL = `#version 300 es
layout(location = 0) in vec2 a_pos;
uniform Globals_block { mat4 mvp; };
void main() { gl_Position = mvp * vec4(a_pos, 0.0, 1.0); }
`
	testFragmentGLSL = `#version 300 es
precision mediump float;
uniform highp sampler2D u_tex;
out vec4 color;
void main() { color = texture(u_tex, vec2(0.5)); }
`
)

// testResources is one uniform buffer, a texture and its sampler in
// group 0, declared out of binding order.
var testResources = []ShaderResource{
	{Class: ResourceTexture, Group: 0, Binding: 2, Name: "u_tex", Sampler: &ResourceBinding{Group: 0, Binding: 1}},
	{Class: ResourceUniformBuffer, Group: 0, Binding: 0, Name: "Globals_block"},
}

func testModule(t *testing.T, d *Device, fragment string) *ShaderModule {
	t.Helper()
	m, err := d.CreateShaderModule(&ShaderModuleDescriptor{
		Label: "test",
		GLSL:  &GLSLSource{Vertex: testVertexGLSL, Fragment: fragment, Resources: testResources},
	})
	if err != nil {
		t.Fatalf("CreateShaderModule() error = %v", err)
	}
	return m
}

func testBindGroupLayout(t *testing.T, d *Device, dynamic bool) *BindGroupLayout {
	t.Helper()
	l, err := d.CreateBindGroupLayout(&BindGroupLayoutDescriptor{
		Label: "test",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding: 2,
				Texture: &gputypes.TextureBindingLayout{
					SampleType:    gputypes.TextureSampleTypeFloat,
					ViewDimension: gputypes.TextureViewDimension2D,
				},
			},
			{
				Binding: 0,
				Buffer:  &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform, HasDynamicOffset: dynamic},
			},
			{Binding: 1, Sampler: &gputypes.SamplerBindingLayout{Type: gputypes.SamplerBindingTypeFiltering}},
		},
	})
	if err != nil {
		t.Fatalf("CreateBindGroupLayout() error = %v", err)
	}
	return l
}

func testPipelineLayout(t *testing.T, d *Device, groups ...*BindGroupLayout) *PipelineLayout {
	t.Helper()
	l, err := d.CreatePipelineLayout(&PipelineLayoutDescriptor{Label: "test", BindGroupLayouts: groups})
	if err != nil {
		t.Fatalf("CreatePipelineLayout() error = %v", err)
	}
	return l
}

var testVertexBuffers = []gputypes.VertexBufferLayout{{
	ArrayStride: 8,
	StepMode:    gputypes.VertexStepModeVertex,
	Attributes: []gputypes.VertexAttribute{
		{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0},
	},
}}

func testPipelineDesc(m *ShaderModule, layout *PipelineLayout) *RenderPipelineDescriptor {
	return &RenderPipelineDescriptor{
		Label:  "test",
		Layout: layout,
		Vertex: VertexState{Module: m, EntryPoint: "main", Buffers: testVertexBuffers},
		Fragment: &FragmentState{
			Module:     m,
			EntryPoint: "main",
			Targets: []gputypes.ColorTargetState{{
				Format:    gputypes.TextureFormatRGBA8Unorm,
				WriteMask: gputypes.ColorWriteMaskAll,
			}},
		},
		Primitive: gputypes.PrimitiveState{Topology: gputypes.PrimitiveTopologyTriangleList},
	}
}

// scene is a pipeline with everything a draw needs.
type scene struct {
	pipeline *RenderPipeline
	group    *BindGroup
	uniforms *Buffer
	sampler  *Sampler
	vertices *Buffer
	indices  *Buffer
	target   *TextureView
}

func newScene(t *testing.T, d *Device) *scene {
	t.Helper()
	m := testModule(t, d, testFragmentGLSL)
	bgl := testBindGroupLayout(t, d, false)
	p, err := d.CreateRenderPipeline(testPipelineDesc(m, testPipelineLayout(t, d, bgl)))
	if err != nil {
		t.Fatalf("CreateRenderPipeline() error = %v", err)
	}
	ubo := mustBuffer(t, d, 256, gputypes.BufferUsageUniform|gputypes.BufferUsageCopyDst)
	tex := mustTexture(t, d, gputypes.TextureUsageTextureBinding|gputypes.TextureUsageCopyDst)
	view, _ := tex.CreateView(nil)
	smp, err := d.CreateSampler(nil)
	if err != nil {
		t.Fatalf("CreateSampler() error = %v", err)
	}
	g, err := d.CreateBindGroup(&BindGroupDescriptor{
		Label:  "test",
		Layout: bgl,
		Entries: []BindGroupEntry{
			{Binding: 0, Buffer: ubo},
			{Binding: 1, Sampler: smp},
			{Binding: 2, TextureView: view},
		},
	})
	if err != nil {
		t.Fatalf("CreateBindGroup() error = %v", err)
	}
	target := mustTexture(t, d, gputypes.TextureUsageRenderAttachment)
	tv, _ := target.CreateView(nil)
	return &scene{
		pipeline: p,
		group:    g,
		uniforms: ubo,
		sampler:  smp,
		vertices: mustBuffer(t, d, 64, gputypes.BufferUsageVertex),
		indices:  mustBuffer(t, d, 64, gputypes.BufferUsageIndex),
		target:   tv,
	}
}

func mustBuffer(t *testing.T, d *Device, size uint64, usage gputypes.BufferUsage) *Buffer {
	t.Helper()
	b, err := d.CreateBuffer(&BufferDescriptor{Label: "test", Size: size, Usage: usage})
	if err != nil {
		t.Fatalf("CreateBuffer() error = %v", err)
	}
	return b
}

func mustTexture(t *testing.T, d *Device, usage gputypes.TextureUsage) *Texture {
	t.Helper()
	tex, err := d.CreateTexture(&TextureDescriptor{
		Label:     "test",
		Size:      gputypes.Extent3D{Width: 64, Height: 32, DepthOrArrayLayers: 1},
		Dimension: gputypes.TextureDimension2D,
		Format:    gputypes.TextureFormatRGBA8Unorm,
		Usage:     usage,
	})
	if err != nil {
		t.Fatalf("CreateTexture() error = %v", err)
	}
	return tex
}

func colorPass(view *TextureView, load gputypes.LoadOp, c gputypes.Color) *RenderPassDescriptor {
	return &RenderPassDescriptor{
		Label: "test",
		ColorAttachments: []RenderPassColorAttachment{{
			View:       view,
			LoadOp:     load,
			StoreOp:    gputypes.StoreOpStore,
			ClearValue: c,
		}},
	}
}

// beginPass opens an encoder and a pass on view; the returned func ends
// both and submits.
func beginPass(t *testing.T, d *Device, desc *RenderPassDescriptor) (*RenderPass, func()) {
	t.Helper()
	enc, err := d.CreateCommandEncoder("test")
	if err != nil {
		t.Fatalf("CreateCommandEncoder() error = %v", err)
	}
	pass, err := enc.BeginRenderPass(desc)
	if err != nil {
		enc.Finish()
		t.Fatalf("BeginRenderPass() error = %v", err)
	}
	return pass, func() {
		t.Helper()
		if err := pass.End(); err != nil {
			t.Fatalf("End() error = %v", err)
		}
		cmd, err := enc.Finish()
		if err != nil {
			t.Fatalf("Finish() error = %v", err)
		}
		if err := d.Queue().Submit(cmd); err != nil {
			t.Fatalf("Submit() error = %v", err)
		}
	}
}

// drawScene records one indexed draw of s.
func drawScene(t *testing.T, pass *RenderPass, s *scene) {
	t.Helper()
	check := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatal(err)
		}
	}
	check(pass.SetPipeline(s.pipeline))
	check(pass.SetBindGroup(0, s.group))
	check(pass.SetVertexBuffer(0, s.vertices, 0))
	check(pass.SetIndexBuffer(s.indices, gputypes.IndexFormatUint16, 0, 0))
	check(pass.DrawIndexed(6, 1, 0, 0, 0))
}

func callNames(f *gltest.Fake) string {
	names := make([]string, len(f.Calls))
	for i, c := range f.Calls {
		names[i] = c.Name
	}
	return strings.Join(names, " ")
}
