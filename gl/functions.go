// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gl

// Functions is the subset of OpenGL ES 3.0 (and WebGL2) the engine calls.
//
// Implementations are not safe for concurrent use; the caller serializes
// every call behind the device's context lock.
type Functions interface {
	GetError() Enum
	GetString(pname Enum) string
	GetStringi(pname Enum, index int) string
	GetInteger(pname Enum) int
	GetFloat(pname Enum) float32
	Flush()

	CreateBuffer() Buffer
	DeleteBuffer(b Buffer)
	BindBuffer(target Enum, b Buffer)
	BindBufferBase(target Enum, index int, b Buffer)
	BindBufferRange(target Enum, index int, b Buffer, offset, size int)
	// BufferData allocates size bytes; data may be nil or shorter than size.
	BufferData(target Enum, size int, usage Enum, data []byte)
	BufferSubData(target Enum, offset int, data []byte)
	MapBufferRange(target Enum, offset, length int, access Enum) []byte
	UnmapBuffer(target Enum) bool

	CreateTexture() Texture
	DeleteTexture(t Texture)
	ActiveTexture(unit Enum)
	BindTexture(target Enum, t Texture)
	TexParameteri(target, pname Enum, param int)
	TexStorage2D(target Enum, levels int, internalFormat Enum, width, height int)
	TexStorage3D(target Enum, levels int, internalFormat Enum, width, height, depth int)
	TexStorage2DMultisample(target Enum, samples int, internalFormat Enum, width, height int, fixedLocations bool)
	TexSubImage2D(target Enum, level, x, y, width, height int, format, ty Enum, pixels []byte)
	TexSubImage3D(target Enum, level, x, y, z, width, height, depth int, format, ty Enum, pixels []byte)
	CompressedTexSubImage2D(target Enum, level, x, y, width, height int, format Enum, data []byte)
	CompressedTexSubImage3D(target Enum, level, x, y, z, width, height, depth int, format Enum, data []byte)
	PixelStorei(pname Enum, param int)

	CreateRenderbuffer() Renderbuffer
	DeleteRenderbuffer(r Renderbuffer)
	BindRenderbuffer(target Enum, r Renderbuffer)
	RenderbufferStorageMultisample(target Enum, samples int, internalFormat Enum, width, height int)

	CreateFramebuffer() Framebuffer
	DeleteFramebuffer(f Framebuffer)
	BindFramebuffer(target Enum, f Framebuffer)
	FramebufferTexture2D(target, attachment, texTarget Enum, t Texture, level int)
	FramebufferTextureLayer(target, attachment Enum, t Texture, level, layer int)
	FramebufferRenderbuffer(target, attachment, rbTarget Enum, r Renderbuffer)
	CheckFramebufferStatus(target Enum) Enum
	DrawBuffers(bufs []Enum)
	InvalidateFramebuffer(target Enum, attachments []Enum)
	BlitFramebuffer(sx0, sy0, sx1, sy1, dx0, dy0, dx1, dy1 int, mask, filter Enum)

	CreateSampler() Sampler
	DeleteSampler(s Sampler)
	BindSampler(unit int, s Sampler)
	SamplerParameteri(s Sampler, pname Enum, param int)
	SamplerParameterf(s Sampler, pname Enum, param float32)

	CreateShader(ty Enum) Shader
	DeleteShader(s Shader)
	ShaderSource(s Shader, src string)
	CompileShader(s Shader)
	GetShaderi(s Shader, pname Enum) int
	GetShaderInfoLog(s Shader) string
	CreateProgram() Program
	DeleteProgram(p Program)
	AttachShader(p Program, s Shader)
	LinkProgram(p Program)
	GetProgrami(p Program, pname Enum) int
	GetProgramInfoLog(p Program) string
	UseProgram(p Program)
	GetUniformBlockIndex(p Program, name string) uint
	UniformBlockBinding(p Program, index, binding uint)
	GetUniformLocation(p Program, name string) Uniform
	Uniform1i(u Uniform, v int)

	CreateVertexArray() VertexArray
	DeleteVertexArray(v VertexArray)
	BindVertexArray(v VertexArray)
	EnableVertexAttribArray(a Attrib)
	DisableVertexAttribArray(a Attrib)
	VertexAttribPointer(a Attrib, size int, ty Enum, normalized bool, stride, offset int)
	VertexAttribIPointer(a Attrib, size int, ty Enum, stride, offset int)
	VertexAttribDivisor(a Attrib, divisor int)

	Enable(cap Enum)
	Disable(cap Enum)
	ColorMask(r, g, b, a bool)
	DepthMask(mask bool)
	DepthFunc(fn Enum)
	DepthRangef(near, far float32)
	CullFace(mode Enum)
	FrontFace(mode Enum)
	PolygonOffset(factor, units float32)
	StencilFuncSeparate(face, fn Enum, ref int, mask uint32)
	StencilOpSeparate(face, sfail, dpfail, dppass Enum)
	StencilMaskSeparate(face Enum, mask uint32)
	BlendEquationSeparate(modeRGB, modeAlpha Enum)
	BlendFuncSeparate(srcRGB, dstRGB, srcA, dstA Enum)
	BlendColor(r, g, b, a float32)
	Viewport(x, y, width, height int)
	Scissor(x, y, width, height int)

	ClearColor(r, g, b, a float32)
	ClearDepthf(d float32)
	ClearStencil(s int)
	Clear(mask Enum)
	ClearBufferfv(buffer Enum, drawBuffer int, value [4]float32)

	DrawArrays(mode Enum, first, count int)
	DrawArraysInstanced(mode Enum, first, count, instances int)
	DrawElements(mode Enum, count int, ty Enum, offset int)
	DrawElementsInstanced(mode Enum, count int, ty Enum, offset, instances int)
}

// DebugMessage is a driver validation message delivered by a debug callback.
type DebugMessage struct {
	Source   Enum
	Type     Enum
	ID       uint32
	Severity Enum
	Message  string
}

// DebugReporter is implemented by bindings that can deliver driver debug
// messages (KHR_debug). Bindings without it are polled with GetError.
type DebugReporter interface {
	SetDebugCallback(fn func(DebugMessage))
}
