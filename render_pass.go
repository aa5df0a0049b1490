// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gles

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/gles/gl"
)

// ErrPassEnded is returned when a render pass is used after End.
var ErrPassEnded = errors.New("gles: render pass has already ended")

// RenderPassColorAttachment is one color target of a render pass.
type RenderPassColorAttachment struct {
	View *TextureView
	// ResolveTarget receives the multisample resolve at the end of the
	// pass. Only the first color attachment may resolve.
	ResolveTarget *TextureView
	LoadOp        gputypes.LoadOp
	StoreOp       gputypes.StoreOp
	ClearValue    gputypes.Color
}

// RenderPassDepthStencilAttachment is the depth/stencil target of a pass.
type RenderPassDepthStencilAttachment struct {
	View *TextureView

	DepthLoadOp     gputypes.LoadOp
	DepthStoreOp    gputypes.StoreOp
	DepthClearValue float32
	DepthReadOnly   bool

	StencilLoadOp     gputypes.LoadOp
	StencilStoreOp    gputypes.StoreOp
	StencilClearValue uint32
	StencilReadOnly   bool
}

// RenderPassDescriptor describes a render pass.
type RenderPassDescriptor struct {
	Label                  string
	ColorAttachments       []RenderPassColorAttachment
	DepthStencilAttachment *RenderPassDepthStencilAttachment
}

// passTarget is the framebuffer of the open pass.
type passTarget struct {
	fb            gl.Framebuffer
	surface       bool
	width, height int
	colors        []RenderPassColorAttachment
	depthStencil  *RenderPassDepthStencilAttachment
}

// staleFramebuffer marks the framebuffer mirror unknown after a blit
// split the read and draw bindings.
const staleFramebuffer = ^gl.Framebuffer(0)

func validateAttachment(v *TextureView, what string) error {
	if v == nil {
		return invalid("render pass %s has no view", what)
	}
	if v.texture.destroyed {
		return fmt.Errorf("render pass %s: %w", what, ErrDestroyed)
	}
	return nil
}

// beginRenderPass binds the pass framebuffer, resets the viewport and
// scissor to its extent and runs the clears.
func (s *glState) beginRenderPass(desc *RenderPassDescriptor) error {
	if s.pass != nil {
		panic("gles: render pass begun while another is open")
	}
	if len(desc.ColorAttachments) == 0 && desc.DepthStencilAttachment == nil {
		return invalid("render pass %q has no attachments", desc.Label)
	}
	if len(desc.ColorAttachments) > maxColorAttachments {
		return invalid("render pass %q has %d color attachments, at most %d",
			desc.Label, len(desc.ColorAttachments), maxColorAttachments)
	}
	t := &passTarget{colors: desc.ColorAttachments, depthStencil: desc.DepthStencilAttachment}
	var extent *TextureView
	for i, c := range desc.ColorAttachments {
		if err := validateAttachment(c.View, fmt.Sprintf("color attachment %d", i)); err != nil {
			return err
		}
		if c.View.texture.surface {
			t.surface = true
		}
		if extent == nil {
			extent = c.View
		}
	}
	if ds := desc.DepthStencilAttachment; ds != nil {
		if err := validateAttachment(ds.View, "depth/stencil attachment"); err != nil {
			return err
		}
		if !ds.View.texture.info.Depth && !ds.View.texture.info.Stencil {
			return invalid("render pass %q depth/stencil view has a color format", desc.Label)
		}
		if ds.View.texture.surface != t.surface && len(desc.ColorAttachments) > 0 {
			return invalid("render pass %q mixes the surface with offscreen attachments", desc.Label)
		}
		t.surface = t.surface || ds.View.texture.surface
		if extent == nil {
			extent = ds.View
		}
	}
	if t.surface && len(desc.ColorAttachments) > 1 {
		panic("gles: the surface takes a single color attachment")
	}
	t.width, t.height = extent.mipExtent()

	s.resetPass()
	if t.surface {
		s.bindFramebuffer(gl.FRAMEBUFFER, 0)
	} else {
		key := passFramebufferKey(desc.ColorAttachments, desc.DepthStencilAttachment)
		t.fb = s.dev.cache.bindFBO(s, key, func() gl.Framebuffer {
			return s.buildFramebuffer(colorViews(desc.ColorAttachments), depthView(desc.DepthStencilAttachment))
		})
	}
	s.pass = t

	s.setViewport(viewport{rect: rect{0, 0, t.width, t.height}, maxDepth: 1})
	s.setScissor(rect{0, 0, t.width, t.height})
	s.clearAttachments(t)
	s.dev.checkErrors("begin render pass")
	return nil
}

func colorViews(cs []RenderPassColorAttachment) []*TextureView {
	out := make([]*TextureView, len(cs))
	for i, c := range cs {
		out[i] = c.View
	}
	return out
}

func depthView(ds *RenderPassDepthStencilAttachment) *TextureView {
	if ds == nil {
		return nil
	}
	return ds.View
}

func viewKey(v *TextureView) attachmentKey {
	return attachmentKey{texture: v.texture.id, mip: v.baseMip, layer: v.baseLayer}
}

func passFramebufferKey(cs []RenderPassColorAttachment, ds *RenderPassDepthStencilAttachment) framebufferKey {
	var key framebufferKey
	for i, c := range cs {
		key.colors[i] = viewKey(c.View)
	}
	if ds != nil {
		key.depthStencil = viewKey(ds.View)
	}
	return key
}

// buildFramebuffer creates a framebuffer with the views attached. It is
// left bound.
func (s *glState) buildFramebuffer(colors []*TextureView, ds *TextureView) gl.Framebuffer {
	fb := s.fns.CreateFramebuffer()
	if !fb.Valid() {
		panic("gles: framebuffer creation failed")
	}
	s.bindFramebuffer(gl.FRAMEBUFFER, fb)
	draw := make([]gl.Enum, len(colors))
	for i, v := range colors {
		draw[i] = gl.Enum(gl.COLOR_ATTACHMENT0 + i)
		s.attach(draw[i], v)
	}
	if ds != nil {
		s.attach(ds.texture.info.Attachment(0), ds)
	}
	s.fns.DrawBuffers(draw)
	if st := s.fns.CheckFramebufferStatus(gl.FRAMEBUFFER); st != gl.FRAMEBUFFER_COMPLETE {
		s.dev.logger().Warn("gles: framebuffer incomplete", "status", fmt.Sprintf("0x%x", uint32(st)))
	}
	return fb
}

func (s *glState) attach(point gl.Enum, v *TextureView) {
	t := v.texture
	mip := int(v.baseMip)
	switch {
	case t.renderbuffer.Valid():
		s.fns.FramebufferRenderbuffer(gl.FRAMEBUFFER, point, gl.RENDERBUFFER, t.renderbuffer)
	case t.target == gl.TEXTURE_2D_ARRAY || t.target == gl.TEXTURE_3D:
		s.fns.FramebufferTextureLayer(gl.FRAMEBUFFER, point, t.raw, mip, int(v.baseLayer))
	case t.target == gl.TEXTURE_CUBE_MAP:
		face := gl.Enum(gl.TEXTURE_CUBE_MAP_POSITIVE_X + v.baseLayer)
		s.fns.FramebufferTexture2D(gl.FRAMEBUFFER, point, face, t.raw, mip)
	default:
		s.fns.FramebufferTexture2D(gl.FRAMEBUFFER, point, t.target, t.raw, mip)
	}
}

// clearAttachments clears every attachment loaded with LoadOpClear. The
// clear value state calls are skipped when the context already holds the
// value; the clear itself always runs.
func (s *glState) clearAttachments(t *passTarget) {
	var mask gl.Enum
	cleared := 0
	for _, c := range t.colors {
		if c.LoadOp == gputypes.LoadOpClear {
			cleared++
		}
	}
	if cleared > 0 {
		s.unmaskColor()
	}
	if len(t.colors) == 1 && cleared == 1 {
		v := clearColor(t.colors[0].ClearValue)
		if s.clearColor != v {
			s.fns.ClearColor(v[0], v[1], v[2], v[3])
			s.clearColor = v
		}
		mask |= gl.COLOR_BUFFER_BIT
	} else if cleared > 0 {
		for i, c := range t.colors {
			if c.LoadOp == gputypes.LoadOpClear {
				s.fns.ClearBufferfv(gl.COLOR, i, clearColor(c.ClearValue))
			}
		}
	}

	if ds := t.depthStencil; ds != nil {
		info := ds.View.texture.info
		if info.Depth && ds.DepthLoadOp == gputypes.LoadOpClear && !ds.DepthReadOnly {
			if s.clearDepth != ds.DepthClearValue {
				s.fns.ClearDepthf(ds.DepthClearValue)
				s.clearDepth = ds.DepthClearValue
			}
			s.fns.DepthMask(true)
			mask |= gl.DEPTH_BUFFER_BIT
		}
		if info.Stencil && ds.StencilLoadOp == gputypes.LoadOpClear && !ds.StencilReadOnly {
			if v := int(ds.StencilClearValue); s.clearStencil != v {
				s.fns.ClearStencil(v)
				s.clearStencil = v
			}
			s.fns.StencilMaskSeparate(gl.FRONT_AND_BACK, 0xFF)
			mask |= gl.STENCIL_BUFFER_BIT
		}
	}
	if mask != 0 {
		s.fns.Clear(mask)
	}
}

func (s *glState) unmaskColor() {
	all := [4]bool{true, true, true, true}
	if s.colorMask == all {
		return
	}
	s.fns.ColorMask(true, true, true, true)
	s.colorMask = all
}

func clearColor(c gputypes.Color) [4]float32 {
	return [4]float32{float32(c.R), float32(c.G), float32(c.B), float32(c.A)}
}

// endRenderPass resolves multisampled color, drops discarded attachments
// and clears the pass recording state.
func (s *glState) endRenderPass() {
	t := s.pass
	if t == nil {
		panic("gles: no render pass open")
	}
	for i, c := range t.colors {
		if c.ResolveTarget == nil {
			continue
		}
		if i != 0 {
			panic("gles: only the first color attachment can resolve")
		}
		s.resolve(t, c.ResolveTarget)
	}

	var discard []gl.Enum
	for i, c := range t.colors {
		if c.StoreOp == gputypes.StoreOpDiscard {
			discard = append(discard, colorDiscard(t.surface, i))
		}
	}
	if ds := t.depthStencil; ds != nil {
		info := ds.View.texture.info
		if info.Depth && ds.DepthStoreOp == gputypes.StoreOpDiscard {
			discard = append(discard, depthDiscard(t.surface, gl.DEPTH, gl.DEPTH_ATTACHMENT))
		}
		if info.Stencil && ds.StencilStoreOp == gputypes.StoreOpDiscard {
			discard = append(discard, depthDiscard(t.surface, gl.STENCIL, gl.STENCIL_ATTACHMENT))
		}
	}
	if len(discard) > 0 {
		s.bindFramebuffer(gl.FRAMEBUFFER, t.fb)
		s.fns.InvalidateFramebuffer(gl.FRAMEBUFFER, discard)
	}
	s.dev.checkErrors("end render pass")
	s.resetPass()
}

func colorDiscard(surface bool, i int) gl.Enum {
	if surface {
		return gl.COLOR
	}
	return gl.Enum(gl.COLOR_ATTACHMENT0 + i)
}

func depthDiscard(surface bool, def, fbo gl.Enum) gl.Enum {
	if surface {
		return def
	}
	return fbo
}

// resolve blits the pass's first color attachment into dst.
func (s *glState) resolve(t *passTarget, dst *TextureView) {
	if !dst.texture.surface {
		key := framebufferKey{}
		key.colors[0] = viewKey(dst)
		s.dev.cache.bindFBO(s, key, func() gl.Framebuffer {
			return s.buildFramebuffer([]*TextureView{dst}, nil)
		})
	} else {
		s.bindFramebuffer(gl.FRAMEBUFFER, 0)
	}
	s.fns.BindFramebuffer(gl.READ_FRAMEBUFFER, t.fb)
	w, h := dst.mipExtent()
	w, h = min(w, t.width), min(h, t.height)
	s.fns.Disable(gl.SCISSOR_TEST)
	s.fns.BlitFramebuffer(0, 0, w, h, 0, 0, w, h, gl.COLOR_BUFFER_BIT, gl.NEAREST)
	s.fns.Enable(gl.SCISSOR_TEST)
	s.framebuffer = staleFramebuffer
}

// RenderPass records draws into the framebuffer opened by
// CommandEncoder.BeginRenderPass. Every call executes immediately.
//
// RenderPass is not safe for concurrent use.
type RenderPass struct {
	encoder *CommandEncoder
	label   string
	ended   bool
}

func (p *RenderPass) state() (*glState, error) {
	if p.ended {
		return nil, ErrPassEnded
	}
	return p.encoder.dev.state, nil
}

// SetPipeline makes pipeline current. Only state that differs from the
// previous pipeline of the pass is sent to GL.
func (p *RenderPass) SetPipeline(pipeline *RenderPipeline) error {
	s, err := p.state()
	if err != nil {
		return fmt.Errorf("set pipeline: %w", err)
	}
	if pipeline == nil || pipeline.released.Load() {
		return invalid("set pipeline: pipeline is nil or released")
	}
	s.setRenderPipeline(pipeline)
	return nil
}

// SetBindGroup sets the bind group for index. offsets supplies one value
// per dynamic uniform buffer of the group's layout, in binding order.
func (p *RenderPass) SetBindGroup(index uint32, group *BindGroup, offsets ...uint32) error {
	s, err := p.state()
	if err != nil {
		return fmt.Errorf("set bind group: %w", err)
	}
	if group == nil {
		return invalid("set bind group %d: group is nil", index)
	}
	if err := group.checkLive(); err != nil {
		return fmt.Errorf("set bind group %d: %w", index, err)
	}
	s.setBindGroup(int(index), group, offsets)
	return nil
}

// SetVertexBuffer binds buf to slot starting at offset.
func (p *RenderPass) SetVertexBuffer(slot uint32, buf *Buffer, offset uint64) error {
	s, err := p.state()
	if err != nil {
		return fmt.Errorf("set vertex buffer: %w", err)
	}
	if buf == nil || buf.destroyed || !buf.raw.Valid() {
		return invalid("set vertex buffer %d: buffer is nil, destroyed or host-only", slot)
	}
	if buf.usage&gputypes.BufferUsageVertex == 0 {
		return invalid("set vertex buffer %d: buffer %q lacks vertex usage", slot, buf.label)
	}
	s.setVertexBuffer(int(slot), buf.raw, offset)
	return nil
}

// SetIndexBuffer binds buf as the index buffer. A zero size means the
// rest of the buffer.
func (p *RenderPass) SetIndexBuffer(buf *Buffer, f gputypes.IndexFormat, offset, size uint64) error {
	s, err := p.state()
	if err != nil {
		return fmt.Errorf("set index buffer: %w", err)
	}
	if buf == nil || buf.destroyed || !buf.raw.Valid() {
		return invalid("set index buffer: buffer is nil, destroyed or host-only")
	}
	if buf.usage&gputypes.BufferUsageIndex == 0 {
		return invalid("set index buffer: buffer %q lacks index usage", buf.label)
	}
	ty, bytes := indexFormat(f)
	if offset%uint64(bytes) != 0 {
		return invalid("set index buffer: offset %d not aligned to %d", offset, bytes)
	}
	if size == 0 {
		size = buf.size - min(offset, buf.size)
	}
	s.setIndexBuffer(buf.raw, ty, bytes, offset, size)
	return nil
}

// SetViewport sets the viewport and depth range.
func (p *RenderPass) SetViewport(x, y, width, height, minDepth, maxDepth float32) error {
	s, err := p.state()
	if err != nil {
		return fmt.Errorf("set viewport: %w", err)
	}
	s.setViewport(viewport{
		rect:     rect{int(x), int(y), int(width), int(height)},
		minDepth: minDepth,
		maxDepth: maxDepth,
	})
	return nil
}

// SetScissorRect sets the scissor rectangle.
func (p *RenderPass) SetScissorRect(x, y, width, height uint32) error {
	s, err := p.state()
	if err != nil {
		return fmt.Errorf("set scissor rect: %w", err)
	}
	s.setScissor(rect{int(x), int(y), int(width), int(height)})
	return nil
}

// SetStencilReference sets the stencil reference value.
func (p *RenderPass) SetStencilReference(reference uint32) error {
	s, err := p.state()
	if err != nil {
		return fmt.Errorf("set stencil reference: %w", err)
	}
	s.setStencilReference(reference)
	return nil
}

// SetBlendConstant sets the blend constant color.
func (p *RenderPass) SetBlendConstant(c gputypes.Color) error {
	s, err := p.state()
	if err != nil {
		return fmt.Errorf("set blend constant: %w", err)
	}
	s.setBlendConstant(clearColor(c))
	return nil
}

// Draw draws vertexCount vertices. firstInstance must be zero.
func (p *RenderPass) Draw(vertexCount, instanceCount, firstVertex, firstInstance uint32) error {
	s, err := p.state()
	if err != nil {
		return fmt.Errorf("draw: %w", err)
	}
	s.draw(vertexCount, instanceCount, firstVertex, firstInstance)
	return nil
}

// DrawIndexed draws indexCount indices. baseVertex and firstInstance must
// be zero.
func (p *RenderPass) DrawIndexed(indexCount, instanceCount, firstIndex uint32, baseVertex int32, firstInstance uint32) error {
	s, err := p.state()
	if err != nil {
		return fmt.Errorf("draw indexed: %w", err)
	}
	s.drawIndexed(indexCount, instanceCount, firstIndex, baseVertex, firstInstance)
	return nil
}

// DrawIndirect is not available on GLES 3.0 and panics.
func (p *RenderPass) DrawIndirect(*Buffer, uint64) {
	panic("gles: indirect draws are not supported")
}

// End finishes the pass. The encoder can begin another pass or finish.
func (p *RenderPass) End() error {
	s, err := p.state()
	if err != nil {
		return fmt.Errorf("end: %w", err)
	}
	s.endRenderPass()
	p.ended = true
	p.encoder.pass = nil
	return nil
}
