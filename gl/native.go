//go:build !js && cgo

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gl

import (
	"fmt"
	"strings"
	"unsafe"

	gles2 "github.com/go-gl/gl/v3.1/gles2"
)

// Native drives the GLES context current on the calling thread through
// go-gl's generated bindings.
type Native struct{}

var _ Functions = (*Native)(nil)

// NewNative loads the GLES entry points. A context must be current.
func NewNative() (*Native, error) {
	if err := gles2.Init(); err != nil {
		return nil, fmt.Errorf("gl: load GLES entry points: %w", err)
	}
	return &Native{}, nil
}

func ptr(data []byte) unsafe.Pointer {
	if len(data) == 0 {
		return nil
	}
	return gles2.Ptr(data)
}

func cstr(s string) (*uint8, func()) {
	strs, free := gles2.Strs(s + "\x00")
	return *strs, free
}

func (*Native) GetError() Enum { return Enum(gles2.GetError()) }

func (*Native) GetString(pname Enum) string {
	if p := gles2.GetString(uint32(pname)); p != nil {
		return gles2.GoStr(p)
	}
	return ""
}

func (*Native) GetStringi(pname Enum, index int) string {
	if p := gles2.GetStringi(uint32(pname), uint32(index)); p != nil {
		return gles2.GoStr(p)
	}
	return ""
}

func (*Native) GetInteger(pname Enum) int {
	var v int32
	gles2.GetIntegerv(uint32(pname), &v)
	return int(v)
}

func (*Native) GetFloat(pname Enum) float32 {
	var v float32
	gles2.GetFloatv(uint32(pname), &v)
	return v
}

func (*Native) Flush() { gles2.Flush() }

func (*Native) CreateBuffer() Buffer {
	var b uint32
	gles2.GenBuffers(1, &b)
	return Buffer(b)
}

func (*Native) DeleteBuffer(b Buffer) {
	id := uint32(b)
	gles2.DeleteBuffers(1, &id)
}

func (*Native) BindBuffer(target Enum, b Buffer) { gles2.BindBuffer(uint32(target), uint32(b)) }

func (*Native) BindBufferBase(target Enum, index int, b Buffer) {
	gles2.BindBufferBase(uint32(target), uint32(index), uint32(b))
}

func (*Native) BindBufferRange(target Enum, index int, b Buffer, offset, size int) {
	gles2.BindBufferRange(uint32(target), uint32(index), uint32(b), offset, size)
}

func (*Native) BufferData(target Enum, size int, usage Enum, data []byte) {
	if len(data) > 0 && len(data) < size {
		gles2.BufferData(uint32(target), size, nil, uint32(usage))
		gles2.BufferSubData(uint32(target), 0, len(data), ptr(data))
		return
	}
	gles2.BufferData(uint32(target), size, ptr(data), uint32(usage))
}

func (*Native) BufferSubData(target Enum, offset int, data []byte) {
	if len(data) == 0 {
		return
	}
	gles2.BufferSubData(uint32(target), offset, len(data), ptr(data))
}

func (*Native) MapBufferRange(target Enum, offset, length int, access Enum) []byte {
	p := gles2.MapBufferRange(uint32(target), offset, length, uint32(access))
	if p == nil {
		return nil
	}
	return unsafe.Slice((*byte)(p), length)
}

func (*Native) UnmapBuffer(target Enum) bool { return gles2.UnmapBuffer(uint32(target)) }

func (*Native) CreateTexture() Texture {
	var t uint32
	gles2.GenTextures(1, &t)
	return Texture(t)
}

func (*Native) DeleteTexture(t Texture) {
	id := uint32(t)
	gles2.DeleteTextures(1, &id)
}

func (*Native) ActiveTexture(unit Enum) { gles2.ActiveTexture(uint32(unit)) }

func (*Native) BindTexture(target Enum, t Texture) { gles2.BindTexture(uint32(target), uint32(t)) }

func (*Native) TexParameteri(target, pname Enum, param int) {
	gles2.TexParameteri(uint32(target), uint32(pname), int32(param))
}

func (*Native) TexStorage2D(target Enum, levels int, internalFormat Enum, width, height int) {
	gles2.TexStorage2D(uint32(target), int32(levels), uint32(internalFormat), int32(width), int32(height))
}

func (*Native) TexStorage3D(target Enum, levels int, internalFormat Enum, width, height, depth int) {
	gles2.TexStorage3D(uint32(target), int32(levels), uint32(internalFormat), int32(width), int32(height), int32(depth))
}

func (*Native) TexStorage2DMultisample(target Enum, samples int, internalFormat Enum, width, height int, fixedLocations bool) {
	gles2.TexStorage2DMultisample(uint32(target), int32(samples), uint32(internalFormat), int32(width), int32(height), fixedLocations)
}

func (*Native) TexSubImage2D(target Enum, level, x, y, width, height int, format, ty Enum, pixels []byte) {
	gles2.TexSubImage2D(uint32(target), int32(level), int32(x), int32(y), int32(width), int32(height), uint32(format), uint32(ty), ptr(pixels))
}

func (*Native) TexSubImage3D(target Enum, level, x, y, z, width, height, depth int, format, ty Enum, pixels []byte) {
	gles2.TexSubImage3D(uint32(target), int32(level), int32(x), int32(y), int32(z), int32(width), int32(height), int32(depth), uint32(format), uint32(ty), ptr(pixels))
}

func (*Native) CompressedTexSubImage2D(target Enum, level, x, y, width, height int, format Enum, data []byte) {
	gles2.CompressedTexSubImage2D(uint32(target), int32(level), int32(x), int32(y), int32(width), int32(height), uint32(format), int32(len(data)), ptr(data))
}

func (*Native) CompressedTexSubImage3D(target Enum, level, x, y, z, width, height, depth int, format Enum, data []byte) {
	gles2.CompressedTexSubImage3D(uint32(target), int32(level), int32(x), int32(y), int32(z), int32(width), int32(height), int32(depth), uint32(format), int32(len(data)), ptr(data))
}

func (*Native) PixelStorei(pname Enum, param int) { gles2.PixelStorei(uint32(pname), int32(param)) }

func (*Native) CreateRenderbuffer() Renderbuffer {
	var r uint32
	gles2.GenRenderbuffers(1, &r)
	return Renderbuffer(r)
}

func (*Native) DeleteRenderbuffer(r Renderbuffer) {
	id := uint32(r)
	gles2.DeleteRenderbuffers(1, &id)
}

func (*Native) BindRenderbuffer(target Enum, r Renderbuffer) {
	gles2.BindRenderbuffer(uint32(target), uint32(r))
}

func (*Native) RenderbufferStorageMultisample(target Enum, samples int, internalFormat Enum, width, height int) {
	gles2.RenderbufferStorageMultisample(uint32(target), int32(samples), uint32(internalFormat), int32(width), int32(height))
}

func (*Native) CreateFramebuffer() Framebuffer {
	var f uint32
	gles2.GenFramebuffers(1, &f)
	return Framebuffer(f)
}

func (*Native) DeleteFramebuffer(f Framebuffer) {
	id := uint32(f)
	gles2.DeleteFramebuffers(1, &id)
}

func (*Native) BindFramebuffer(target Enum, f Framebuffer) {
	gles2.BindFramebuffer(uint32(target), uint32(f))
}

func (*Native) FramebufferTexture2D(target, attachment, texTarget Enum, t Texture, level int) {
	gles2.FramebufferTexture2D(uint32(target), uint32(attachment), uint32(texTarget), uint32(t), int32(level))
}

func (*Native) FramebufferTextureLayer(target, attachment Enum, t Texture, level, layer int) {
	gles2.FramebufferTextureLayer(uint32(target), uint32(attachment), uint32(t), int32(level), int32(layer))
}

func (*Native) FramebufferRenderbuffer(target, attachment, rbTarget Enum, r Renderbuffer) {
	gles2.FramebufferRenderbuffer(uint32(target), uint32(attachment), uint32(rbTarget), uint32(r))
}

func (*Native) CheckFramebufferStatus(target Enum) Enum {
	return Enum(gles2.CheckFramebufferStatus(uint32(target)))
}

func (*Native) DrawBuffers(bufs []Enum) {
	if len(bufs) == 0 {
		return
	}
	ids := make([]uint32, len(bufs))
	for i, b := range bufs {
		ids[i] = uint32(b)
	}
	gles2.DrawBuffers(int32(len(ids)), &ids[0])
}

func (*Native) InvalidateFramebuffer(target Enum, attachments []Enum) {
	if len(attachments) == 0 {
		return
	}
	ids := make([]uint32, len(attachments))
	for i, a := range attachments {
		ids[i] = uint32(a)
	}
	gles2.InvalidateFramebuffer(uint32(target), int32(len(ids)), &ids[0])
}

func (*Native) BlitFramebuffer(sx0, sy0, sx1, sy1, dx0, dy0, dx1, dy1 int, mask, filter Enum) {
	gles2.BlitFramebuffer(int32(sx0), int32(sy0), int32(sx1), int32(sy1),
		int32(dx0), int32(dy0), int32(dx1), int32(dy1), uint32(mask), uint32(filter))
}

func (*Native) CreateSampler() Sampler {
	var s uint32
	gles2.GenSamplers(1, &s)
	return Sampler(s)
}

func (*Native) DeleteSampler(s Sampler) {
	id := uint32(s)
	gles2.DeleteSamplers(1, &id)
}

func (*Native) BindSampler(unit int, s Sampler) { gles2.BindSampler(uint32(unit), uint32(s)) }

func (*Native) SamplerParameteri(s Sampler, pname Enum, param int) {
	gles2.SamplerParameteri(uint32(s), uint32(pname), int32(param))
}

func (*Native) SamplerParameterf(s Sampler, pname Enum, param float32) {
	gles2.SamplerParameterf(uint32(s), uint32(pname), param)
}

func (*Native) CreateShader(ty Enum) Shader { return Shader(gles2.CreateShader(uint32(ty))) }

func (*Native) DeleteShader(s Shader) { gles2.DeleteShader(uint32(s)) }

func (*Native) ShaderSource(s Shader, src string) {
	csrc, free := gles2.Strs(src + "\x00")
	gles2.ShaderSource(uint32(s), 1, csrc, nil)
	free()
}

func (*Native) CompileShader(s Shader) { gles2.CompileShader(uint32(s)) }

func (*Native) GetShaderi(s Shader, pname Enum) int {
	var v int32
	gles2.GetShaderiv(uint32(s), uint32(pname), &v)
	return int(v)
}

func (n *Native) GetShaderInfoLog(s Shader) string {
	size := n.GetShaderi(s, INFO_LOG_LENGTH)
	if size <= 0 {
		return ""
	}
	log := strings.Repeat("\x00", size+1)
	gles2.GetShaderInfoLog(uint32(s), int32(size), nil, gles2.Str(log))
	return strings.TrimRight(log, "\x00")
}

func (*Native) CreateProgram() Program { return Program(gles2.CreateProgram()) }

func (*Native) DeleteProgram(p Program) { gles2.DeleteProgram(uint32(p)) }

func (*Native) AttachShader(p Program, s Shader) { gles2.AttachShader(uint32(p), uint32(s)) }

func (*Native) LinkProgram(p Program) { gles2.LinkProgram(uint32(p)) }

func (*Native) GetProgrami(p Program, pname Enum) int {
	var v int32
	gles2.GetProgramiv(uint32(p), uint32(pname), &v)
	return int(v)
}

func (n *Native) GetProgramInfoLog(p Program) string {
	size := n.GetProgrami(p, INFO_LOG_LENGTH)
	if size <= 0 {
		return ""
	}
	log := strings.Repeat("\x00", size+1)
	gles2.GetProgramInfoLog(uint32(p), int32(size), nil, gles2.Str(log))
	return strings.TrimRight(log, "\x00")
}

func (*Native) UseProgram(p Program) { gles2.UseProgram(uint32(p)) }

func (*Native) GetUniformBlockIndex(p Program, name string) uint {
	cname, free := cstr(name)
	defer free()
	return uint(gles2.GetUniformBlockIndex(uint32(p), cname))
}

func (*Native) UniformBlockBinding(p Program, index, binding uint) {
	gles2.UniformBlockBinding(uint32(p), uint32(index), uint32(binding))
}

func (*Native) GetUniformLocation(p Program, name string) Uniform {
	cname, free := cstr(name)
	defer free()
	return Uniform(gles2.GetUniformLocation(uint32(p), cname))
}

func (*Native) Uniform1i(u Uniform, v int) { gles2.Uniform1i(int32(u), int32(v)) }

func (*Native) CreateVertexArray() VertexArray {
	var v uint32
	gles2.GenVertexArrays(1, &v)
	return VertexArray(v)
}

func (*Native) DeleteVertexArray(v VertexArray) {
	id := uint32(v)
	gles2.DeleteVertexArrays(1, &id)
}

func (*Native) BindVertexArray(v VertexArray) { gles2.BindVertexArray(uint32(v)) }

func (*Native) EnableVertexAttribArray(a Attrib) { gles2.EnableVertexAttribArray(uint32(a)) }

func (*Native) DisableVertexAttribArray(a Attrib) { gles2.DisableVertexAttribArray(uint32(a)) }

func (*Native) VertexAttribPointer(a Attrib, size int, ty Enum, normalized bool, stride, offset int) {
	gles2.VertexAttribPointer(uint32(a), int32(size), uint32(ty), normalized, int32(stride), gles2.PtrOffset(offset))
}

func (*Native) VertexAttribIPointer(a Attrib, size int, ty Enum, stride, offset int) {
	gles2.VertexAttribIPointer(uint32(a), int32(size), uint32(ty), int32(stride), gles2.PtrOffset(offset))
}

func (*Native) VertexAttribDivisor(a Attrib, divisor int) {
	gles2.VertexAttribDivisor(uint32(a), uint32(divisor))
}

func (*Native) Enable(c Enum) { gles2.Enable(uint32(c)) }
func (*Native) Disable(c Enum) { gles2.Disable(uint32(c)) }
func (*Native) ColorMask(r, g, b, a bool) { gles2.ColorMask(r, g, b, a) }
func (*Native) DepthMask(mask bool) { gles2.DepthMask(mask) }
func (*Native) DepthFunc(fn Enum) { gles2.DepthFunc(uint32(fn)) }
func (*Native) DepthRangef(near, far float32) { gles2.DepthRangef(near, far) }
func (*Native) CullFace(mode Enum) { gles2.CullFace(uint32(mode)) }
func (*Native) FrontFace(mode Enum) { gles2.FrontFace(uint32(mode)) }

func (*Native) PolygonOffset(factor, units float32) { gles2.PolygonOffset(factor, units) }

func (*Native) StencilFuncSeparate(face, fn Enum, ref int, mask uint32) {
	gles2.StencilFuncSeparate(uint32(face), uint32(fn), int32(ref), mask)
}

func (*Native) StencilOpSeparate(face, sfail, dpfail, dppass Enum) {
	gles2.StencilOpSeparate(uint32(face), uint32(sfail), uint32(dpfail), uint32(dppass))
}

func (*Native) StencilMaskSeparate(face Enum, mask uint32) {
	gles2.StencilMaskSeparate(uint32(face), mask)
}

func (*Native) BlendEquationSeparate(modeRGB, modeAlpha Enum) {
	gles2.BlendEquationSeparate(uint32(modeRGB), uint32(modeAlpha))
}

func (*Native) BlendFuncSeparate(srcRGB, dstRGB, srcA, dstA Enum) {
	gles2.BlendFuncSeparate(uint32(srcRGB), uint32(dstRGB), uint32(srcA), uint32(dstA))
}

func (*Native) BlendColor(r, g, b, a float32) { gles2.BlendColor(r, g, b, a) }

func (*Native) Viewport(x, y, width, height int) {
	gles2.Viewport(int32(x), int32(y), int32(width), int32(height))
}

func (*Native) Scissor(x, y, width, height int) {
	gles2.Scissor(int32(x), int32(y), int32(width), int32(height))
}

func (*Native) ClearColor(r, g, b, a float32) { gles2.ClearColor(r, g, b, a) }
func (*Native) ClearDepthf(d float32) { gles2.ClearDepthf(d) }
func (*Native) ClearStencil(s int) { gles2.ClearStencil(int32(s)) }
func (*Native) Clear(mask Enum) { gles2.Clear(uint32(mask)) }

func (*Native) ClearBufferfv(buffer Enum, drawBuffer int, value [4]float32) {
	gles2.ClearBufferfv(uint32(buffer), int32(drawBuffer), &value[0])
}

func (*Native) DrawArrays(mode Enum, first, count int) {
	gles2.DrawArrays(uint32(mode), int32(first), int32(count))
}

func (*Native) DrawArraysInstanced(mode Enum, first, count, instances int) {
	gles2.DrawArraysInstanced(uint32(mode), int32(first), int32(count), int32(instances))
}

func (*Native) DrawElements(mode Enum, count int, ty Enum, offset int) {
	gles2.DrawElements(uint32(mode), int32(count), uint32(ty), gles2.PtrOffset(offset))
}

func (*Native) DrawElementsInstanced(mode Enum, count int, ty Enum, offset, instances int) {
	gles2.DrawElementsInstanced(uint32(mode), int32(count), uint32(ty), gles2.PtrOffset(offset), int32(instances))
}
