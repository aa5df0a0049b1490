// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gles

import (
	"fmt"

	"github.com/gogpu/gles/gl"
	"github.com/gogpu/gles/internal/shader"
	"github.com/gogpu/gles/internal/statecache"
)

type rect struct {
	x, y, w, h int
}

type viewport struct {
	rect
	minDepth, maxDepth float32
}

type indexBinding struct {
	buffer gl.Buffer
	ty     gl.Enum
	bytes  int
	offset uint64
	size   uint64
}

// glState mirrors the GL context of one device. The GL bindings (program,
// VAO, framebuffer, buffers, active unit) elide redundant calls; the
// recording fields hold what the current pass has set and are pushed at
// draw time.
//
// glState is only touched under the context lock.
type glState struct {
	dev *Device
	fns gl.Functions

	program     gl.Program
	vao         gl.VertexArray
	framebuffer gl.Framebuffer
	buffers     map[gl.Enum]gl.Buffer
	activeUnit  int

	// Pipeline pieces currently applied. A nil pipeline forces a full
	// apply on the next setRenderPipeline.
	pipeline  *RenderPipeline
	programID *statecache.Ref[*program]
	raster    *statecache.Ref[rasterState]
	depth     *statecache.Ref[depthState]
	stencil   *statecache.Ref[stencilState]
	blend     *statecache.Ref[blendState]
	colorMask [4]bool

	vertexBuffers  [maxVertexBuffers]vertexBinding
	index          indexBinding
	bindGroups     [maxBindGroups]*BindGroup
	dynamicOffsets [maxBindGroups][]uint32

	viewport   viewport
	scissor    rect
	stencilRef uint32
	blendColor [4]float32

	clearColor   [4]float32
	clearDepth   float32
	clearStencil int

	pass *passTarget
}

func newGLState(d *Device) *glState {
	return &glState{
		dev:        d,
		fns:        d.fns,
		buffers:    make(map[gl.Enum]gl.Buffer),
		viewport:   viewport{maxDepth: 1},
		clearDepth: 1,
	}
}

// init puts the context in the state the mirror assumes.
func (s *glState) init() {
	s.fns.Enable(gl.SCISSOR_TEST)
	s.fns.Enable(gl.PRIMITIVE_RESTART_FIXED_INDEX)
	s.fns.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	s.fns.ClearColor(0, 0, 0, 0)
	s.fns.ClearDepthf(1)
	s.fns.ClearStencil(0)
}

// reset forgets every GL binding, as after the objects were deleted.
func (s *glState) reset() {
	s.program = 0
	s.vao = 0
	s.framebuffer = 0
	clear(s.buffers)
	s.resetPass()
}

// resetPass clears the recording fields of a pass.
func (s *glState) resetPass() {
	s.pipeline = nil
	s.programID, s.raster, s.depth, s.stencil, s.blend = nil, nil, nil, nil, nil
	s.vertexBuffers = [maxVertexBuffers]vertexBinding{}
	s.index = indexBinding{}
	s.bindGroups = [maxBindGroups]*BindGroup{}
	s.dynamicOffsets = [maxBindGroups][]uint32{}
	s.stencilRef = 0
	s.pass = nil
}

func (s *glState) useProgram(p gl.Program) {
	if s.program == p {
		return
	}
	s.program = p
	s.fns.UseProgram(p)
}

func (s *glState) bindVertexArray(v gl.VertexArray) {
	if s.vao == v {
		return
	}
	s.vao = v
	// The element array binding belongs to the VAO.
	delete(s.buffers, gl.ELEMENT_ARRAY_BUFFER)
	s.fns.BindVertexArray(v)
}

func (s *glState) bindFramebuffer(target gl.Enum, fb gl.Framebuffer) {
	if target == gl.FRAMEBUFFER && s.framebuffer == fb {
		return
	}
	if target != gl.READ_FRAMEBUFFER {
		s.framebuffer = fb
	}
	s.fns.BindFramebuffer(target, fb)
}

// bindBuffer binds b to target for uploads. Element array bindings are
// VAO state, so the VAO is unbound first to keep cached VAOs intact.
func (s *glState) bindBuffer(target gl.Enum, b gl.Buffer) {
	if target == gl.ELEMENT_ARRAY_BUFFER {
		s.bindVertexArray(0)
	}
	if cur, ok := s.buffers[target]; ok && cur == b {
		return
	}
	s.buffers[target] = b
	s.fns.BindBuffer(target, b)
}

// forgetBuffer drops b from the binding mirror before it is deleted.
func (s *glState) forgetBuffer(b gl.Buffer) {
	for t, cur := range s.buffers {
		if cur == b {
			delete(s.buffers, t)
		}
	}
	for i, vb := range s.vertexBuffers {
		if vb.buffer == b {
			s.vertexBuffers[i] = vertexBinding{}
		}
	}
	if s.index.buffer == b {
		s.index = indexBinding{}
	}
}

func (s *glState) forgetProgram(p gl.Program) {
	if s.program == p {
		s.program = 0
	}
}

func (s *glState) forgetVertexArray(v gl.VertexArray) {
	if s.vao == v {
		s.vao = 0
		delete(s.buffers, gl.ELEMENT_ARRAY_BUFFER)
	}
}

func (s *glState) forgetFramebuffer(fb gl.Framebuffer) {
	if s.framebuffer == fb {
		s.framebuffer = 0
	}
}

func (s *glState) activeTexture(unit int) {
	if s.activeUnit == unit {
		return
	}
	s.activeUnit = unit
	s.fns.ActiveTexture(gl.Enum(gl.TEXTURE0 + unit))
}

// bindScratchTexture binds t on unit 0 for uploads. Draws re-push every
// texture unit, so clobbering the binding is harmless.
func (s *glState) bindScratchTexture(target gl.Enum, t gl.Texture) {
	s.activeTexture(0)
	s.fns.BindTexture(target, t)
}

// setRenderPipeline applies p. Without a previous pipeline every piece is
// applied; otherwise only the pieces whose interned handle changed.
func (s *glState) setRenderPipeline(p *RenderPipeline) {
	full := s.pipeline == nil
	if full || s.programID != p.program {
		s.useProgram(p.program.Value().raw)
		s.programID = p.program
	}
	if full || s.raster != p.raster {
		s.applyRaster(p.raster.Value())
		s.raster = p.raster
	}
	if full || s.depth != p.depth {
		s.applyDepth(p.depth.Value())
		s.depth = p.depth
	}
	if full || s.stencil != p.stencil {
		s.applyStencil(p.stencil.Value())
		s.stencil = p.stencil
	}
	if full || s.blend != p.blend {
		s.applyBlend(p.blend.Value())
		s.blend = p.blend
	}
	if full || s.colorMask != p.colorMask {
		m := p.colorMask
		s.fns.ColorMask(m[0], m[1], m[2], m[3])
		s.colorMask = m
	}
	s.pipeline = p
}

func (s *glState) applyRaster(r rasterState) {
	if r.cull == 0 {
		s.fns.Disable(gl.CULL_FACE)
	} else {
		s.fns.Enable(gl.CULL_FACE)
		s.fns.CullFace(r.cull)
	}
	s.fns.FrontFace(r.front)
}

func (s *glState) applyDepth(d depthState) {
	if !d.enabled {
		s.fns.Disable(gl.DEPTH_TEST)
	} else {
		s.fns.Enable(gl.DEPTH_TEST)
		s.fns.DepthFunc(d.fn)
		s.fns.DepthMask(d.write)
	}
	if d.biasFactor == 0 && d.biasUnits == 0 {
		s.fns.Disable(gl.POLYGON_OFFSET_FILL)
	} else {
		s.fns.Enable(gl.POLYGON_OFFSET_FILL)
		s.fns.PolygonOffset(d.biasFactor, d.biasUnits)
	}
}

func (s *glState) applyStencil(st stencilState) {
	if !st.enabled {
		s.fns.Disable(gl.STENCIL_TEST)
		return
	}
	s.fns.Enable(gl.STENCIL_TEST)
	s.stencilFuncs(st)
	s.fns.StencilOpSeparate(gl.FRONT, st.front.fail, st.front.depthFail, st.front.pass)
	s.fns.StencilOpSeparate(gl.BACK, st.back.fail, st.back.depthFail, st.back.pass)
	s.fns.StencilMaskSeparate(gl.FRONT_AND_BACK, st.writeMask)
}

// stencilFuncs issues the compare functions, which carry the reference.
func (s *glState) stencilFuncs(st stencilState) {
	ref := int(s.stencilRef)
	s.fns.StencilFuncSeparate(gl.FRONT, st.front.fn, ref, st.readMask)
	s.fns.StencilFuncSeparate(gl.BACK, st.back.fn, ref, st.readMask)
}

func (s *glState) applyBlend(b blendState) {
	if b.alphaToCoverage {
		s.fns.Enable(gl.SAMPLE_ALPHA_TO_COVERAGE)
	} else {
		s.fns.Disable(gl.SAMPLE_ALPHA_TO_COVERAGE)
	}
	if !b.enabled {
		s.fns.Disable(gl.BLEND)
		return
	}
	s.fns.Enable(gl.BLEND)
	s.fns.BlendEquationSeparate(b.colorOp, b.alphaOp)
	s.fns.BlendFuncSeparate(b.colorSrc, b.colorDst, b.alphaSrc, b.alphaDst)
}

// setBindGroup records g for index. The offsets are consumed by the
// dynamic buffer entries in layout order.
func (s *glState) setBindGroup(index int, g *BindGroup, offsets []uint32) {
	if index < 0 || index >= maxBindGroups {
		panic(fmt.Sprintf("gles: bind group index %d out of range", index))
	}
	if len(offsets) != g.layout.dynamicCount {
		panic(fmt.Sprintf("gles: bind group %q takes %d dynamic offsets, got %d",
			g.label, g.layout.dynamicCount, len(offsets)))
	}
	align := uint32(s.dev.adapter.Limits.UniformBufferOffsetAlignment)
	for _, o := range offsets {
		if o%align != 0 {
			panic(fmt.Sprintf("gles: dynamic offset %d not aligned to %d", o, align))
		}
	}
	s.bindGroups[index] = g
	s.dynamicOffsets[index] = append(s.dynamicOffsets[index][:0], offsets...)
}

func (s *glState) setVertexBuffer(slot int, b gl.Buffer, offset uint64) {
	if slot < 0 || slot >= maxVertexBuffers {
		panic(fmt.Sprintf("gles: vertex buffer slot %d out of range", slot))
	}
	s.vertexBuffers[slot] = vertexBinding{buffer: b, offset: offset}
}

func (s *glState) setIndexBuffer(b gl.Buffer, ty gl.Enum, bytes int, offset, size uint64) {
	next := indexBinding{buffer: b, ty: ty, bytes: bytes, offset: offset, size: size}
	if s.index == next {
		return
	}
	s.index = next
}

// prepareDraw binds the VAO for the current geometry and pushes every bind
// group the pipeline uses.
func (s *glState) prepareDraw() *RenderPipeline {
	p := s.pipeline
	if p == nil {
		panic("gles: draw without a pipeline")
	}
	key := geometryKey{layout: p.layout.sig, index: s.index.buffer}
	for i := range p.layout.buffers {
		vb := s.vertexBuffers[i]
		if !vb.buffer.Valid() {
			panic(fmt.Sprintf("gles: pipeline %q reads vertex buffer %d, none set", p.label, i))
		}
		key.buffers[i] = vb
	}
	s.dev.cache.bindVAO(s, key, func() gl.VertexArray { return s.buildVAO(p.layout, key) })

	for g, table := range p.reorder {
		if len(table) == 0 {
			continue
		}
		bg := s.bindGroups[g]
		if bg == nil {
			panic(fmt.Sprintf("gles: pipeline %q uses bind group %d, none set", p.label, g))
		}
		s.pushBindGroup(bg, s.dynamicOffsets[g], table)
	}
	return p
}

func (s *glState) buildVAO(layout vertexLayout, key geometryKey) gl.VertexArray {
	vao := s.fns.CreateVertexArray()
	if !vao.Valid() {
		panic("gles: vertex array creation failed")
	}
	s.bindVertexArray(vao)
	for i, b := range layout.buffers {
		s.bindBuffer(gl.ARRAY_BUFFER, key.buffers[i].buffer)
		base := int(key.buffers[i].offset)
		for _, a := range b.attribs {
			s.fns.EnableVertexAttribArray(a.location)
			if a.integer {
				s.fns.VertexAttribIPointer(a.location, a.size, a.ty, b.stride, base+a.offset)
			} else {
				s.fns.VertexAttribPointer(a.location, a.size, a.ty, a.normalized, b.stride, base+a.offset)
			}
			divisor := 0
			if b.instanced {
				divisor = 1
			}
			s.fns.VertexAttribDivisor(a.location, divisor)
		}
	}
	if key.index.Valid() {
		s.fns.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, key.index)
		s.buffers[gl.ELEMENT_ARRAY_BUFFER] = key.index
	}
	return vao
}

// pushBindGroup binds the group's resources to the program's slots.
func (s *glState) pushBindGroup(g *BindGroup, offsets []uint32, table []slotBinding) {
	for _, sb := range table {
		r := &g.entries[sb.entry]
		if r.destroyed() {
			panic(fmt.Sprintf("gles: bind group %q uses a destroyed resource", g.label))
		}
		switch sb.class {
		case shader.ClassUniformBuffer:
			off := r.offset
			if r.dynamic >= 0 {
				off += int(offsets[r.dynamic])
			}
			s.fns.BindBufferRange(gl.UNIFORM_BUFFER, sb.slot, r.buffer.raw, off, r.size)
			s.buffers[gl.UNIFORM_BUFFER] = r.buffer.raw
		case shader.ClassTexture:
			s.activeTexture(sb.slot)
			s.fns.BindTexture(r.view.texture.target, r.view.texture.raw)
		case shader.ClassSampler:
			s.fns.BindSampler(sb.slot, r.sampler.raw)
		}
	}
}

func (s *glState) draw(vertexCount, instanceCount, firstVertex, firstInstance uint32) {
	if firstInstance != 0 {
		panic("gles: first instance is not supported")
	}
	p := s.prepareDraw()
	if instanceCount == 1 {
		s.fns.DrawArrays(p.topology, int(firstVertex), int(vertexCount))
	} else {
		s.fns.DrawArraysInstanced(p.topology, int(firstVertex), int(vertexCount), int(instanceCount))
	}
	s.dev.checkErrors("draw")
}

func (s *glState) drawIndexed(indexCount, instanceCount, firstIndex uint32, baseVertex int32, firstInstance uint32) {
	if baseVertex != 0 {
		panic("gles: base vertex is not supported")
	}
	if firstInstance != 0 {
		panic("gles: first instance is not supported")
	}
	if !s.index.buffer.Valid() {
		panic("gles: indexed draw without an index buffer")
	}
	p := s.prepareDraw()
	offset := int(s.index.offset) + int(firstIndex)*s.index.bytes
	if instanceCount == 1 {
		s.fns.DrawElements(p.topology, int(indexCount), s.index.ty, offset)
	} else {
		s.fns.DrawElementsInstanced(p.topology, int(indexCount), s.index.ty, offset, int(instanceCount))
	}
	s.dev.checkErrors("draw indexed")
}

func (s *glState) setViewport(v viewport) {
	if s.viewport.rect != v.rect {
		s.fns.Viewport(v.x, v.y, v.w, v.h)
	}
	if s.viewport.minDepth != v.minDepth || s.viewport.maxDepth != v.maxDepth {
		s.fns.DepthRangef(v.minDepth, v.maxDepth)
	}
	s.viewport = v
}

func (s *glState) setScissor(r rect) {
	if s.scissor == r {
		return
	}
	s.scissor = r
	s.fns.Scissor(r.x, r.y, r.w, r.h)
}

func (s *glState) setStencilReference(ref uint32) {
	if s.stencilRef == ref {
		return
	}
	s.stencilRef = ref
	if s.stencil != nil && s.stencil.Value().enabled {
		s.stencilFuncs(s.stencil.Value())
	}
}

func (s *glState) setBlendConstant(c [4]float32) {
	if s.blendColor == c {
		return
	}
	s.blendColor = c
	s.fns.BlendColor(c[0], c[1], c[2], c[3])
}
