// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gles

import (
	"errors"
	"strings"
	"testing"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/gles/gl"
)

// =============================================================================
// Draw state
// =============================================================================

func TestVertexArrayBuiltOnce(t *testing.T) {
	d, f := newTestDevice(t)
	s := newScene(t, d)

	pass, end := beginPass(t, d, colorPass(s.target, gputypes.LoadOpLoad, gputypes.Color{}))
	for range 10 {
		drawScene(t, pass, s)
	}
	end()

	if n := f.Count("CreateVertexArray"); n != 1 {
		t.Errorf("CreateVertexArray called %d times over 10 draws, want 1", n)
	}
	if n := f.Count("DrawElements"); n != 10 {
		t.Errorf("DrawElements called %d times, want 10", n)
	}
	st := d.CacheStats().VertexArrays
	if st.Hits != 9 || st.Misses != 1 {
		t.Errorf("VertexArrays = %+v, want 9 hits and 1 miss", st)
	}
	if n := f.Count("UseProgram"); n != 1 {
		t.Errorf("UseProgram called %d times, want 1", n)
	}
}

func TestNewVertexBufferBuildsNewVAO(t *testing.T) {
	d, f := newTestDevice(t)
	s := newScene(t, d)
	other := mustBuffer(t, d, 64, gputypes.BufferUsageVertex)

	pass, end := beginPass(t, d, colorPass(s.target, gputypes.LoadOpLoad, gputypes.Color{}))
	drawScene(t, pass, s)
	pass.SetVertexBuffer(0, other, 0)
	pass.DrawIndexed(6, 1, 0, 0, 0)
	end()

	if n := f.Count("CreateVertexArray"); n != 2 {
		t.Errorf("CreateVertexArray called %d times, want 2", n)
	}

	other.Destroy()
	if n := f.Live("VertexArray"); n != 1 {
		t.Errorf("%d vertex arrays live after destroying a buffer, want 1", n)
	}
}

// TestVertexArrayKeyedByAttribKind tests that layouts differing only in
// normalization or integer fetch do not share a VAO.
func TestVertexArrayKeyedByAttribKind(t *testing.T) {
	d, f := newTestDevice(t)
	s := newScene(t, d)
	m := testModule(t, d, testFragmentGLSL)
	layout := testPipelineLayout(t, d, testBindGroupLayout(t, d, false))

	pipelineFor := func(format gputypes.VertexFormat) *RenderPipeline {
		t.Helper()
		desc := testPipelineDesc(m, layout)
		desc.Vertex.Buffers = []gputypes.VertexBufferLayout{{
			ArrayStride: 4,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes:  []gputypes.VertexAttribute{{Format: format, Offset: 0, ShaderLocation: 0}},
		}}
		p, err := d.CreateRenderPipeline(desc)
		if err != nil {
			t.Fatalf("CreateRenderPipeline(%v) error = %v", format, err)
		}
		return p
	}
	unorm := pipelineFor(gputypes.VertexFormatUnorm8x4)
	integer := pipelineFor(gputypes.VertexFormatUint8x4)

	pass, end := beginPass(t, d, colorPass(s.target, gputypes.LoadOpLoad, gputypes.Color{}))
	for _, p := range []*RenderPipeline{unorm, integer} {
		if err := pass.SetPipeline(p); err != nil {
			t.Fatal(err)
		}
		pass.SetBindGroup(0, s.group)
		pass.SetVertexBuffer(0, s.vertices, 0)
		pass.Draw(3, 1, 0, 0)
	}
	end()

	if n := f.Count("CreateVertexArray"); n != 2 {
		t.Errorf("CreateVertexArray called %d times, want 2", n)
	}
	c, ok := f.Last("VertexAttribPointer")
	if !ok || c.Args[3] != true {
		t.Errorf("Unorm8x4 attribute = %v, want normalized float fetch", c)
	}
	if n := f.Count("VertexAttribIPointer"); n != 1 {
		t.Errorf("VertexAttribIPointer called %d times, want 1", n)
	}
}

func TestBindGroupPushedPerDraw(t *testing.T) {
	d, f := newTestDevice(t)
	s := newScene(t, d)

	pass, end := beginPass(t, d, colorPass(s.target, gputypes.LoadOpLoad, gputypes.Color{}))
	drawScene(t, pass, s)
	end()

	c, ok := f.Last("BindBufferRange")
	if !ok {
		t.Fatal("uniform buffer not bound")
	}
	if c.Args[0] != gl.Enum(gl.UNIFORM_BUFFER) || c.Args[1] != 0 || c.Args[3] != 0 || c.Args[4] != 256 {
		t.Errorf("BindBufferRange%v, want UBO slot 0 range [0, 256)", c.Args)
	}
	if n := f.Count("BindSampler"); n != 1 {
		t.Errorf("BindSampler called %d times, want 1", n)
	}
}

func TestBindGroupWithDestroyedResource(t *testing.T) {
	tests := []struct {
		name    string
		destroy func(*scene)
	}{
		{"uniform buffer", func(s *scene) { s.uniforms.Destroy() }},
		{"sampler", func(s *scene) { s.sampler.Destroy() }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, f := newTestDevice(t)
			s := newScene(t, d)
			tt.destroy(s)

			pass, end := beginPass(t, d, colorPass(s.target, gputypes.LoadOpLoad, gputypes.Color{}))
			defer end()
			if err := pass.SetPipeline(s.pipeline); err != nil {
				t.Fatal(err)
			}
			if err := pass.SetBindGroup(0, s.group); !errors.Is(err, ErrDestroyed) {
				t.Errorf("SetBindGroup() error = %v, want ErrDestroyed", err)
			}
			pass.SetVertexBuffer(0, s.vertices, 0)
			msg := mustPanic(t, func() { pass.Draw(3, 1, 0, 0) })
			if !strings.Contains(msg, "bind group 0") {
				t.Errorf("panic = %q, want missing bind group", msg)
			}
			if n := f.Count("BindBufferRange") + f.Count("BindSampler"); n != 0 {
				t.Errorf("%d bindings issued for a destroyed resource", n)
			}
		})
	}
}

func TestDynamicOffsets(t *testing.T) {
	d, f := newTestDevice(t)
	m := testModule(t, d, testFragmentGLSL)
	bgl := testBindGroupLayout(t, d, true)
	p, err := d.CreateRenderPipeline(testPipelineDesc(m, testPipelineLayout(t, d, bgl)))
	if err != nil {
		t.Fatal(err)
	}
	s := newScene(t, d)
	ubo := mustBuffer(t, d, 1024, gputypes.BufferUsageUniform)
	tex := mustTexture(t, d, gputypes.TextureUsageTextureBinding)
	view, _ := tex.CreateView(nil)
	smp, _ := d.CreateSampler(nil)
	g, err := d.CreateBindGroup(&BindGroupDescriptor{
		Layout: bgl,
		Entries: []BindGroupEntry{
			{Binding: 0, Buffer: ubo, Size: 256},
			{Binding: 1, Sampler: smp},
			{Binding: 2, TextureView: view},
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	pass, end := beginPass(t, d, colorPass(s.target, gputypes.LoadOpLoad, gputypes.Color{}))
	pass.SetPipeline(p)
	pass.SetVertexBuffer(0, s.vertices, 0)
	pass.SetBindGroup(0, g, 512)
	pass.Draw(3, 1, 0, 0)

	c, _ := f.Last("BindBufferRange")
	if c.Args[3] != 512 || c.Args[4] != 256 {
		t.Errorf("BindBufferRange%v, want offset 512 size 256", c.Args)
	}

	msg := mustPanic(t, func() { pass.SetBindGroup(0, g, 100) })
	if !strings.Contains(msg, "not aligned") {
		t.Errorf("panic = %q", msg)
	}
	msg = mustPanic(t, func() { pass.SetBindGroup(0, g) })
	if !strings.Contains(msg, "dynamic offsets") {
		t.Errorf("panic = %q", msg)
	}
	end()
}

func TestPipelineSwitchSendsDifferences(t *testing.T) {
	d, f := newTestDevice(t)
	s := newScene(t, d)
	m := testModule(t, d, testFragmentGLSL)
	desc := testPipelineDesc(m, testPipelineLayout(t, d, testBindGroupLayout(t, d, false)))
	desc.Primitive.CullMode = gputypes.CullModeBack
	culled, err := d.CreateRenderPipeline(desc)
	if err != nil {
		t.Fatal(err)
	}

	pass, end := beginPass(t, d, colorPass(s.target, gputypes.LoadOpLoad, gputypes.Color{}))
	pass.SetPipeline(s.pipeline)
	f.Reset()
	pass.SetPipeline(culled)
	calls := callNames(f)
	end()

	if !strings.Contains(calls, "CullFace") {
		t.Errorf("switch did not apply the raster state: %s", calls)
	}
	for _, name := range []string{"BlendFuncSeparate", "DepthFunc", "ColorMask", "StencilOpSeparate"} {
		if strings.Contains(calls, name) {
			t.Errorf("switch re-sent unchanged state %s: %s", name, calls)
		}
	}
	// Different module, so a different program.
	if !strings.Contains(calls, "UseProgram") {
		t.Errorf("switch did not change program: %s", calls)
	}

	f.Reset()
	pass2, end2 := beginPass(t, d, colorPass(s.target, gputypes.LoadOpLoad, gputypes.Color{}))
	pass2.SetPipeline(culled)
	pass2.SetPipeline(culled)
	end2()
	if n := f.Count("CullFace"); n != 1 {
		t.Errorf("first pipeline of a pass applied CullFace %d times, want 1", n)
	}
}

func TestSettersElideRedundantCalls(t *testing.T) {
	d, f := newTestDevice(t)
	s := newScene(t, d)

	pass, end := beginPass(t, d, colorPass(s.target, gputypes.LoadOpLoad, gputypes.Color{}))
	f.Reset()
	pass.SetViewport(0, 0, 64, 32, 0, 1)
	pass.SetScissorRect(0, 0, 64, 32)
	if n := len(f.Calls); n != 0 {
		t.Errorf("setting the pass extent again issued %s", callNames(f))
	}
	pass.SetViewport(0, 0, 32, 32, 0, 0.5)
	pass.SetScissorRect(4, 4, 8, 8)
	pass.SetBlendConstant(gputypes.Color{R: 1})
	pass.SetBlendConstant(gputypes.Color{R: 1})
	end()

	for name, want := range map[string]int{"Viewport": 1, "DepthRangef": 1, "Scissor": 1, "BlendColor": 1} {
		if n := f.Count(name); n != want {
			t.Errorf("%s called %d times, want %d", name, n, want)
		}
	}
}

// =============================================================================
// Framebuffers and clears
// =============================================================================

func TestFramebufferCachedAndEvicted(t *testing.T) {
	d, f := newTestDevice(t)
	tex := mustTexture(t, d, gputypes.TextureUsageRenderAttachment|gputypes.TextureUsageTextureBinding)
	view, _ := tex.CreateView(nil)
	desc := colorPass(view, gputypes.LoadOpClear, gputypes.Color{A: 1})

	for range 3 {
		_, end := beginPass(t, d, desc)
		end()
	}
	if n := f.Count("CreateFramebuffer"); n != 1 {
		t.Fatalf("CreateFramebuffer called %d times over 3 passes, want 1", n)
	}

	tex.Destroy()
	if n := f.Live("Framebuffer"); n != 0 {
		t.Errorf("%d framebuffers live after destroying the attachment", n)
	}
	if ev := d.CacheStats().Framebuffers.Evictions; ev != 1 {
		t.Errorf("Framebuffers.Evictions = %d, want 1", ev)
	}

	enc, _ := d.CreateCommandEncoder("after destroy")
	_, err := enc.BeginRenderPass(desc)
	enc.Finish()
	if !errors.Is(err, ErrDestroyed) {
		t.Errorf("BeginRenderPass() on destroyed view = %v, want ErrDestroyed", err)
	}

	tex2 := mustTexture(t, d, gputypes.TextureUsageRenderAttachment|gputypes.TextureUsageTextureBinding)
	view2, _ := tex2.CreateView(nil)
	_, end := beginPass(t, d, colorPass(view2, gputypes.LoadOpLoad, gputypes.Color{}))
	end()
	if n := f.Count("CreateFramebuffer"); n != 2 {
		t.Errorf("CreateFramebuffer called %d times, want a rebuild", n)
	}
}

func TestRenderbufferAttachment(t *testing.T) {
	d, f := newTestDevice(t)
	s := newScene(t, d)
	if !s.target.Texture().IsRenderbuffer() {
		t.Fatal("render-only texture is not a renderbuffer")
	}
	_, end := beginPass(t, d, colorPass(s.target, gputypes.LoadOpLoad, gputypes.Color{}))
	end()
	if n := f.Count("FramebufferRenderbuffer"); n != 1 {
		t.Errorf("FramebufferRenderbuffer called %d times, want 1", n)
	}
}

func TestClearValueElision(t *testing.T) {
	d, f := newTestDevice(t)
	s := newScene(t, d)
	red := gputypes.Color{R: 1, A: 1}

	for range 2 {
		_, end := beginPass(t, d, colorPass(s.target, gputypes.LoadOpClear, red))
		end()
	}
	if n := f.Count("Clear"); n != 2 {
		t.Errorf("Clear called %d times, want every pass", n)
	}
	// One from device init, one for red.
	if n := f.Count("ClearColor"); n != 2 {
		t.Errorf("ClearColor called %d times, want 2", n)
	}

	_, end := beginPass(t, d, colorPass(s.target, gputypes.LoadOpLoad, red))
	end()
	if n := f.Count("Clear"); n != 2 {
		t.Errorf("load pass cleared")
	}
}

func TestClearUnmasksColor(t *testing.T) {
	d, f := newTestDevice(t)
	s := newScene(t, d)
	m := testModule(t, d, testFragmentGLSL)
	desc := testPipelineDesc(m, testPipelineLayout(t, d, testBindGroupLayout(t, d, false)))
	desc.Fragment.Targets[0].WriteMask = gputypes.ColorWriteMaskRed
	masked, err := d.CreateRenderPipeline(desc)
	if err != nil {
		t.Fatal(err)
	}

	pass, end := beginPass(t, d, colorPass(s.target, gputypes.LoadOpLoad, gputypes.Color{}))
	pass.SetPipeline(masked)
	end()

	f.Reset()
	_, end = beginPass(t, d, colorPass(s.target, gputypes.LoadOpClear, gputypes.Color{}))
	end()
	c, ok := f.Last("ColorMask")
	if !ok {
		t.Fatalf("clear after a masked pipeline did not restore ColorMask: %s", callNames(f))
	}
	for i, a := range c.Args {
		if a != true {
			t.Errorf("ColorMask arg %d = %v, want true", i, a)
		}
	}
}

func TestMultipleRenderTargetsClear(t *testing.T) {
	d, f := newTestDevice(t)
	a := mustTexture(t, d, gputypes.TextureUsageRenderAttachment|gputypes.TextureUsageTextureBinding)
	b := mustTexture(t, d, gputypes.TextureUsageRenderAttachment|gputypes.TextureUsageTextureBinding)
	va, _ := a.CreateView(nil)
	vb, _ := b.CreateView(nil)

	_, end := beginPass(t, d, &RenderPassDescriptor{
		ColorAttachments: []RenderPassColorAttachment{
			{View: va, LoadOp: gputypes.LoadOpClear, StoreOp: gputypes.StoreOpStore, ClearValue: gputypes.Color{R: 1}},
			{View: vb, LoadOp: gputypes.LoadOpClear, StoreOp: gputypes.StoreOpDiscard, ClearValue: gputypes.Color{G: 1}},
		},
	})
	end()

	if n := f.Count("ClearBufferfv"); n != 2 {
		t.Errorf("ClearBufferfv called %d times, want 2", n)
	}
	if c, _ := f.Last("DrawBuffers"); c.Args[0] != 2 {
		t.Errorf("DrawBuffers%v, want 2 buffers", c.Args)
	}
	c, ok := f.Last("InvalidateFramebuffer")
	if !ok || len(c.Args) != 2 || c.Args[1] != gl.Enum(gl.COLOR_ATTACHMENT0+1) {
		t.Errorf("InvalidateFramebuffer%v, want attachment 1 discarded", c.Args)
	}
}

func TestDepthStencilClear(t *testing.T) {
	d, f := newTestDevice(t)
	s := newScene(t, d)
	ds, err := d.CreateTexture(&TextureDescriptor{
		Size:      gputypes.Extent3D{Width: 64, Height: 32, DepthOrArrayLayers: 1},
		Dimension: gputypes.TextureDimension2D,
		Format:    gputypes.TextureFormatDepth24PlusStencil8,
		Usage:     gputypes.TextureUsageRenderAttachment,
	})
	if err != nil {
		t.Fatal(err)
	}
	dsv, _ := ds.CreateView(nil)
	desc := colorPass(s.target, gputypes.LoadOpLoad, gputypes.Color{})
	desc.DepthStencilAttachment = &RenderPassDepthStencilAttachment{
		View:              dsv,
		DepthLoadOp:       gputypes.LoadOpClear,
		DepthStoreOp:      gputypes.StoreOpDiscard,
		DepthClearValue:   0.5,
		StencilLoadOp:     gputypes.LoadOpClear,
		StencilStoreOp:    gputypes.StoreOpDiscard,
		StencilClearValue: 7,
	}
	_, end := beginPass(t, d, desc)
	end()

	want := map[string]int{"ClearDepthf": 2, "ClearStencil": 2, "Clear": 1, "DepthMask": 1}
	for name, n := range want {
		if got := f.Count(name); got != n {
			t.Errorf("%s called %d times, want %d", name, got, n)
		}
	}
	c, _ := f.Last("Clear")
	if c.Args[0] != gl.Enum(gl.DEPTH_BUFFER_BIT|gl.STENCIL_BUFFER_BIT) {
		t.Errorf("Clear mask = %v, want depth|stencil", c.Args[0])
	}
	c, _ = f.Last("InvalidateFramebuffer")
	if len(c.Args) != 3 {
		t.Errorf("InvalidateFramebuffer%v, want depth and stencil", c.Args)
	}
}

// =============================================================================
// Surface and resolve
// =============================================================================

func TestSurfacePass(t *testing.T) {
	d, f := newTestDevice(t)
	surface := d.SurfaceTexture(gputypes.TextureFormatRGBA8Unorm, 800, 600)
	view, _ := surface.CreateView(nil)

	_, end := beginPass(t, d, &RenderPassDescriptor{
		ColorAttachments: []RenderPassColorAttachment{{
			View: view, LoadOp: gputypes.LoadOpClear, StoreOp: gputypes.StoreOpDiscard,
		}},
	})
	end()

	if n := f.Count("CreateFramebuffer"); n != 0 {
		t.Errorf("surface pass created %d framebuffers", n)
	}
	c, _ := f.Last("Viewport")
	if c.Args[2] != 800 || c.Args[3] != 600 {
		t.Errorf("Viewport%v, want the surface extent", c.Args)
	}
	c, _ = f.Last("InvalidateFramebuffer")
	if len(c.Args) != 2 || c.Args[1] != gl.Enum(gl.COLOR) {
		t.Errorf("InvalidateFramebuffer%v, want default COLOR", c.Args)
	}

	two := &RenderPassDescriptor{ColorAttachments: []RenderPassColorAttachment{{View: view}, {View: view}}}
	enc, _ := d.CreateCommandEncoder("two")
	defer enc.Finish()
	msg := mustPanic(t, func() { enc.BeginRenderPass(two) })
	if !strings.Contains(msg, "single color attachment") {
		t.Errorf("panic = %q", msg)
	}
}

func TestResolveBlit(t *testing.T) {
	d, f := newTestDevice(t)
	msaa, err := d.CreateTexture(&TextureDescriptor{
		Size:        gputypes.Extent3D{Width: 64, Height: 32, DepthOrArrayLayers: 1},
		SampleCount: 4,
		Dimension:   gputypes.TextureDimension2D,
		Format:      gputypes.TextureFormatRGBA8Unorm,
		Usage:       gputypes.TextureUsageRenderAttachment,
	})
	if err != nil {
		t.Fatal(err)
	}
	mv, _ := msaa.CreateView(nil)
	dst := mustTexture(t, d, gputypes.TextureUsageRenderAttachment|gputypes.TextureUsageTextureBinding)
	dv, _ := dst.CreateView(nil)

	desc := &RenderPassDescriptor{ColorAttachments: []RenderPassColorAttachment{{
		View: mv, ResolveTarget: dv, LoadOp: gputypes.LoadOpClear, StoreOp: gputypes.StoreOpDiscard,
	}}}
	for range 2 {
		_, end := beginPass(t, d, desc)
		end()
	}

	if n := f.Count("BlitFramebuffer"); n != 2 {
		t.Fatalf("BlitFramebuffer called %d times, want 2", n)
	}
	c, _ := f.Last("BlitFramebuffer")
	if c.Args[2] != 64 || c.Args[3] != 32 || c.Args[8] != gl.Enum(gl.COLOR_BUFFER_BIT) {
		t.Errorf("BlitFramebuffer%v", c.Args)
	}
	// Pass and resolve framebuffers, each cached.
	if n := f.Count("CreateFramebuffer"); n != 2 {
		t.Errorf("CreateFramebuffer called %d times, want 2", n)
	}
	if !msaa.IsRenderbuffer() || dst.IsRenderbuffer() {
		t.Error("want a multisampled renderbuffer resolved into a texture")
	}
}

// =============================================================================
// Contract violations
// =============================================================================

func TestDrawContractPanics(t *testing.T) {
	tests := []struct {
		name string
		draw func(*RenderPass, *scene)
		want string
	}{
		{"no pipeline", func(p *RenderPass, s *scene) { p.Draw(3, 1, 0, 0) }, "without a pipeline"},
		{"base vertex", func(p *RenderPass, s *scene) {
			p.SetPipeline(s.pipeline)
			p.SetIndexBuffer(s.indices, gputypes.IndexFormatUint16, 0, 0)
			p.DrawIndexed(3, 1, 0, 2, 0)
		}, "base vertex"},
		{"first instance", func(p *RenderPass, s *scene) {
			p.SetPipeline(s.pipeline)
			p.Draw(3, 1, 0, 1)
		}, "first instance"},
		{"no index buffer", func(p *RenderPass, s *scene) {
			p.SetPipeline(s.pipeline)
			p.DrawIndexed(3, 1, 0, 0, 0)
		}, "index buffer"},
		{"no vertex buffer", func(p *RenderPass, s *scene) {
			p.SetPipeline(s.pipeline)
			p.SetBindGroup(0, s.group)
			p.Draw(3, 1, 0, 0)
		}, "vertex buffer 0"},
		{"no bind group", func(p *RenderPass, s *scene) {
			p.SetPipeline(s.pipeline)
			p.SetVertexBuffer(0, s.vertices, 0)
			p.Draw(3, 1, 0, 0)
		}, "bind group 0"},
		{"group index", func(p *RenderPass, s *scene) { p.SetBindGroup(4, s.group) }, "out of range"},
		{"indirect", func(p *RenderPass, s *scene) { p.DrawIndirect(s.vertices, 0) }, "indirect"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, _ := newTestDevice(t)
			s := newScene(t, d)
			pass, end := beginPass(t, d, colorPass(s.target, gputypes.LoadOpLoad, gputypes.Color{}))
			msg := mustPanic(t, func() { tt.draw(pass, s) })
			if !strings.Contains(msg, tt.want) {
				t.Errorf("panic = %q, want %q", msg, tt.want)
			}
			end()
		})
	}
}

func TestComputePassPanics(t *testing.T) {
	d, _ := newTestDevice(t)
	enc, _ := d.CreateCommandEncoder("compute")
	defer enc.Finish()
	mustPanic(t, func() { enc.BeginComputePass("c") })
}

func TestPassAfterEnd(t *testing.T) {
	d, _ := newTestDevice(t)
	s := newScene(t, d)
	pass, end := beginPass(t, d, colorPass(s.target, gputypes.LoadOpLoad, gputypes.Color{}))
	end()

	checks := map[string]error{
		"SetPipeline":   pass.SetPipeline(s.pipeline),
		"SetViewport":   pass.SetViewport(0, 0, 1, 1, 0, 1),
		"Draw":          pass.Draw(3, 1, 0, 0),
		"End":           pass.End(),
		"SetBindGroup":  pass.SetBindGroup(0, s.group),
		"SetScissor":    pass.SetScissorRect(0, 0, 1, 1),
		"SetStencilRef": pass.SetStencilReference(1),
	}
	for name, err := range checks {
		if !errors.Is(err, ErrPassEnded) {
			t.Errorf("%s after End = %v, want ErrPassEnded", name, err)
		}
	}
}

func TestSetPipelineRejectsReleased(t *testing.T) {
	d, _ := newTestDevice(t)
	s := newScene(t, d)
	s.pipeline.Release()
	pass, end := beginPass(t, d, colorPass(s.target, gputypes.LoadOpLoad, gputypes.Color{}))
	defer end()
	if err := pass.SetPipeline(s.pipeline); !errors.Is(err, ErrInvalidDescriptor) {
		t.Errorf("SetPipeline(released) = %v, want ErrInvalidDescriptor", err)
	}
}

// =============================================================================
// Encoder and submit
// =============================================================================

func TestEncoderStateMachine(t *testing.T) {
	d, _ := newTestDevice(t)
	s := newScene(t, d)
	enc, _ := d.CreateCommandEncoder("sm")
	if enc.State() != EncoderStateRecording {
		t.Errorf("State() = %v, want Recording", enc.State())
	}
	pass, err := enc.BeginRenderPass(colorPass(s.target, gputypes.LoadOpLoad, gputypes.Color{}))
	if err != nil {
		t.Fatal(err)
	}
	if enc.State() != EncoderStateLocked {
		t.Errorf("State() = %v, want Locked", enc.State())
	}
	if _, err := enc.Finish(); !errors.Is(err, ErrEncoderLocked) {
		t.Errorf("Finish() with open pass = %v, want ErrEncoderLocked", err)
	}
	if _, err := enc.BeginRenderPass(colorPass(s.target, gputypes.LoadOpLoad, gputypes.Color{})); !errors.Is(err, ErrEncoderLocked) {
		t.Errorf("BeginRenderPass() with open pass = %v, want ErrEncoderLocked", err)
	}
	pass.End()
	cmd, err := enc.Finish()
	if err != nil {
		t.Fatal(err)
	}
	if enc.State() != EncoderStateFinished || enc.State().String() != "Finished" {
		t.Errorf("State() = %v, want Finished", enc.State())
	}

	q := d.Queue()
	if err := q.Submit(cmd); err != nil {
		t.Fatal(err)
	}
	if err := q.Submit(cmd); !errors.Is(err, ErrCommandBufferConsumed) {
		t.Errorf("second Submit() = %v, want ErrCommandBufferConsumed", err)
	}
	if err := q.Submit(nil); !errors.Is(err, ErrInvalidDescriptor) {
		t.Errorf("Submit(nil) = %v, want ErrInvalidDescriptor", err)
	}

	other, _ := newTestDevice(t)
	enc2, _ := other.CreateCommandEncoder("other")
	foreign, _ := enc2.Finish()
	if err := q.Submit(foreign); !errors.Is(err, ErrInvalidDescriptor) {
		t.Errorf("Submit(foreign) = %v, want ErrInvalidDescriptor", err)
	}
}

func TestBeginRenderPassValidation(t *testing.T) {
	d, _ := newTestDevice(t)
	s := newScene(t, d)
	tests := []struct {
		name string
		desc *RenderPassDescriptor
	}{
		{"nil", nil},
		{"empty", &RenderPassDescriptor{}},
		{"nil view", &RenderPassDescriptor{ColorAttachments: []RenderPassColorAttachment{{}}}},
		{"color as depth", &RenderPassDescriptor{DepthStencilAttachment: &RenderPassDepthStencilAttachment{View: s.target}}},
		{"too many", &RenderPassDescriptor{ColorAttachments: make([]RenderPassColorAttachment, 5)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enc, _ := d.CreateCommandEncoder(tt.name)
			defer enc.Finish()
			if _, err := enc.BeginRenderPass(tt.desc); !errors.Is(err, ErrInvalidDescriptor) {
				t.Errorf("BeginRenderPass() = %v, want ErrInvalidDescriptor", err)
			}
		})
	}
}
