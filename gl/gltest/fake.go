// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package gltest provides a recording fake of [gl.Functions] for tests that
// run without a GL context.
package gltest

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/gogpu/gles/gl"
)

// Call is one recorded GL call.
type Call struct {
	Name string
	Args []any
}

func (c Call) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	parts := make([]string, len(c.Args))
	for i, a := range c.Args {
		parts[i] = fmt.Sprint(a)
	}
	return c.Name + "(" + strings.Join(parts, ", ") + ")"
}

// Fake implements gl.Functions. Object creation hands out increasing ids
// and every call is appended to Calls.
type Fake struct {
	// Ints answers GetInteger. Missing entries read as zero.
	Ints map[gl.Enum]int
	// Strings answers GetString.
	Strings map[gl.Enum]string
	// Extensions answers GetStringi(EXTENSIONS, i) and NUM_EXTENSIONS.
	Extensions []string

	// FailCompile makes every shader whose source contains the string fail
	// to compile. FailLink fails every link.
	FailCompile string
	FailLink    bool
	// FailCreate makes object creation return zero handles.
	FailCreate bool
	// Errors is drained one entry per GetError call.
	Errors []gl.Enum

	Calls []Call

	next    uint32
	live    map[string]map[uint32]bool
	sources  map[gl.Shader]string
	linked   map[gl.Program]string
	blocks   map[gl.Program]map[string]uint
	uniforms map[gl.Program]map[string]gl.Uniform
	buffers map[gl.Enum]gl.Buffer
	storage map[gl.Buffer][]byte
	debug   func(gl.DebugMessage)
}

var (
	_ gl.Functions     = (*Fake)(nil)
	_ gl.DebugReporter = (*Fake)(nil)
)

// New returns a fake reporting a GLES 3.0 context with common limits.
func New() *Fake {
	return &Fake{
		Ints: map[gl.Enum]int{
			gl.MAX_TEXTURE_SIZE:                 4096,
			gl.MAX_3D_TEXTURE_SIZE:              256,
			gl.MAX_ARRAY_TEXTURE_LAYERS:         256,
			gl.MAX_CUBE_MAP_TEXTURE_SIZE:        4096,
			gl.MAX_VERTEX_ATTRIBS:               16,
			gl.MAX_UNIFORM_BUFFER_BINDINGS:      24,
			gl.MAX_UNIFORM_BLOCK_SIZE:           16384,
			gl.UNIFORM_BUFFER_OFFSET_ALIGNMENT:  256,
			gl.MAX_COMBINED_TEXTURE_IMAGE_UNITS: 32,
			gl.MAX_TEXTURE_IMAGE_UNITS:          16,
			gl.MAX_COLOR_ATTACHMENTS:            4,
			gl.MAX_DRAW_BUFFERS:                 4,
			gl.MAX_SAMPLES:                      4,
			gl.MAX_VERTEX_UNIFORM_BLOCKS:        12,
			gl.MAX_FRAGMENT_UNIFORM_BLOCKS:      12,
			gl.MAX_VERTEX_ATTRIB_STRIDE:         2048,
		},
		Strings: map[gl.Enum]string{
			gl.VENDOR:                   "gltest",
			gl.RENDERER:                 "gltest fake",
			gl.VERSION:                  "OpenGL ES 3.0 gltest",
			gl.SHADING_LANGUAGE_VERSION: "OpenGL ES GLSL ES 3.00",
		},
		live:    make(map[string]map[uint32]bool),
		sources:  make(map[gl.Shader]string),
		linked:   make(map[gl.Program]string),
		blocks:   make(map[gl.Program]map[string]uint),
		uniforms: make(map[gl.Program]map[string]gl.Uniform),
		buffers: make(map[gl.Enum]gl.Buffer),
		storage: make(map[gl.Buffer][]byte),
	}
}

func (f *Fake) record(name string, args ...any) {
	f.Calls = append(f.Calls, Call{Name: name, Args: args})
}

func (f *Fake) create(kind string) uint32 {
	if f.FailCreate {
		f.record("Create" + kind)
		return 0
	}
	f.next++
	id := f.next
	if f.live[kind] == nil {
		f.live[kind] = make(map[uint32]bool)
	}
	f.live[kind][id] = true
	f.record("Create"+kind, id)
	return id
}

func (f *Fake) remove(kind string, id uint32) {
	delete(f.live[kind], id)
	f.record("Delete"+kind, id)
}

// Live reports the number of undeleted objects of a kind, such as
// "Buffer", "Texture", "Program" or "VertexArray".
func (f *Fake) Live(kind string) int { return len(f.live[kind]) }

// IsLive reports whether the object id of kind has not been deleted.
func (f *Fake) IsLive(kind string, id uint32) bool { return f.live[kind][id] }

// Count returns how many times the named call was recorded.
func (f *Fake) Count(name string) int {
	n := 0
	for _, c := range f.Calls {
		if c.Name == name {
			n++
		}
	}
	return n
}

// Last returns the most recent call with the given name.
func (f *Fake) Last(name string) (Call, bool) {
	for i := len(f.Calls) - 1; i >= 0; i-- {
		if f.Calls[i].Name == name {
			return f.Calls[i], true
		}
	}
	return Call{}, false
}

// Reset forgets recorded calls but keeps live objects.
func (f *Fake) Reset() { f.Calls = f.Calls[:0] }

// Emit delivers a debug message to the registered callback, if any.
func (f *Fake) Emit(msg gl.DebugMessage) {
	if f.debug != nil {
		f.debug(msg)
	}
}

func (f *Fake) SetDebugCallback(fn func(gl.DebugMessage)) {
	f.debug = fn
	f.record("SetDebugCallback")
}

func (f *Fake) GetError() gl.Enum {
	if len(f.Errors) == 0 {
		return gl.NO_ERROR
	}
	e := f.Errors[0]
	f.Errors = f.Errors[1:]
	return e
}

func (f *Fake) GetString(pname gl.Enum) string {
	if pname == gl.EXTENSIONS {
		return strings.Join(f.Extensions, " ")
	}
	return f.Strings[pname]
}

func (f *Fake) GetStringi(pname gl.Enum, index int) string {
	if pname == gl.EXTENSIONS && index >= 0 && index < len(f.Extensions) {
		return f.Extensions[index]
	}
	return ""
}

func (f *Fake) GetInteger(pname gl.Enum) int {
	if pname == gl.NUM_EXTENSIONS {
		return len(f.Extensions)
	}
	return f.Ints[pname]
}

func (f *Fake) GetFloat(pname gl.Enum) float32 {
	if pname == gl.MAX_TEXTURE_MAX_ANISOTROPY_EXT {
		return 16
	}
	return float32(f.Ints[pname])
}

func (f *Fake) Flush() { f.record("Flush") }

func (f *Fake) CreateBuffer() gl.Buffer { return gl.Buffer(f.create("Buffer")) }
func (f *Fake) DeleteBuffer(b gl.Buffer) {
	delete(f.storage, b)
	f.remove("Buffer", uint32(b))
}

func (f *Fake) BindBuffer(target gl.Enum, b gl.Buffer) {
	f.buffers[target] = b
	f.record("BindBuffer", target, b)
}

func (f *Fake) BindBufferBase(target gl.Enum, index int, b gl.Buffer) {
	f.record("BindBufferBase", target, index, b)
}

func (f *Fake) BindBufferRange(target gl.Enum, index int, b gl.Buffer, offset, size int) {
	f.record("BindBufferRange", target, index, b, offset, size)
}

func (f *Fake) BufferData(target gl.Enum, size int, usage gl.Enum, data []byte) {
	buf := make([]byte, size)
	copy(buf, data)
	f.storage[f.buffers[target]] = buf
	f.record("BufferData", target, size, usage)
}

func (f *Fake) BufferSubData(target gl.Enum, offset int, data []byte) {
	if buf := f.storage[f.buffers[target]]; offset+len(data) <= len(buf) {
		copy(buf[offset:], data)
	}
	f.record("BufferSubData", target, offset, len(data))
}

func (f *Fake) MapBufferRange(target gl.Enum, offset, length int, access gl.Enum) []byte {
	f.record("MapBufferRange", target, offset, length, access)
	buf := f.storage[f.buffers[target]]
	if offset+length > len(buf) {
		return nil
	}
	return buf[offset : offset+length]
}

func (f *Fake) UnmapBuffer(target gl.Enum) bool {
	f.record("UnmapBuffer", target)
	return true
}

// BufferContents returns the bytes last stored into b.
func (f *Fake) BufferContents(b gl.Buffer) []byte { return f.storage[b] }

func (f *Fake) CreateTexture() gl.Texture { return gl.Texture(f.create("Texture")) }
func (f *Fake) DeleteTexture(t gl.Texture) { f.remove("Texture", uint32(t)) }
func (f *Fake) ActiveTexture(unit gl.Enum) { f.record("ActiveTexture", unit) }
func (f *Fake) BindTexture(target gl.Enum, t gl.Texture) {
	f.record("BindTexture", target, t)
}

func (f *Fake) TexParameteri(target, pname gl.Enum, param int) {
	f.record("TexParameteri", target, pname, param)
}

func (f *Fake) TexStorage2D(target gl.Enum, levels int, internalFormat gl.Enum, width, height int) {
	f.record("TexStorage2D", target, levels, internalFormat, width, height)
}

func (f *Fake) TexStorage3D(target gl.Enum, levels int, internalFormat gl.Enum, width, height, depth int) {
	f.record("TexStorage3D", target, levels, internalFormat, width, height, depth)
}

func (f *Fake) TexStorage2DMultisample(target gl.Enum, samples int, internalFormat gl.Enum, width, height int, fixedLocations bool) {
	f.record("TexStorage2DMultisample", target, samples, internalFormat, width, height, fixedLocations)
}

func (f *Fake) TexSubImage2D(target gl.Enum, level, x, y, width, height int, format, ty gl.Enum, pixels []byte) {
	f.record("TexSubImage2D", target, level, x, y, width, height, format, ty, len(pixels))
}

func (f *Fake) TexSubImage3D(target gl.Enum, level, x, y, z, width, height, depth int, format, ty gl.Enum, pixels []byte) {
	f.record("TexSubImage3D", target, level, x, y, z, width, height, depth, format, ty, len(pixels))
}

func (f *Fake) CompressedTexSubImage2D(target gl.Enum, level, x, y, width, height int, format gl.Enum, data []byte) {
	f.record("CompressedTexSubImage2D", target, level, x, y, width, height, format, len(data))
}

func (f *Fake) CompressedTexSubImage3D(target gl.Enum, level, x, y, z, width, height, depth int, format gl.Enum, data []byte) {
	f.record("CompressedTexSubImage3D", target, level, x, y, z, width, height, depth, format, len(data))
}

func (f *Fake) PixelStorei(pname gl.Enum, param int) { f.record("PixelStorei", pname, param) }

func (f *Fake) CreateRenderbuffer() gl.Renderbuffer {
	return gl.Renderbuffer(f.create("Renderbuffer"))
}
func (f *Fake) DeleteRenderbuffer(r gl.Renderbuffer) { f.remove("Renderbuffer", uint32(r)) }
func (f *Fake) BindRenderbuffer(target gl.Enum, r gl.Renderbuffer) {
	f.record("BindRenderbuffer", target, r)
}

func (f *Fake) RenderbufferStorageMultisample(target gl.Enum, samples int, internalFormat gl.Enum, width, height int) {
	f.record("RenderbufferStorageMultisample", target, samples, internalFormat, width, height)
}

func (f *Fake) CreateFramebuffer() gl.Framebuffer {
	return gl.Framebuffer(f.create("Framebuffer"))
}
func (f *Fake) DeleteFramebuffer(fb gl.Framebuffer) { f.remove("Framebuffer", uint32(fb)) }
func (f *Fake) BindFramebuffer(target gl.Enum, fb gl.Framebuffer) {
	f.record("BindFramebuffer", target, fb)
}

func (f *Fake) FramebufferTexture2D(target, attachment, texTarget gl.Enum, t gl.Texture, level int) {
	f.record("FramebufferTexture2D", target, attachment, texTarget, t, level)
}

func (f *Fake) FramebufferTextureLayer(target, attachment gl.Enum, t gl.Texture, level, layer int) {
	f.record("FramebufferTextureLayer", target, attachment, t, level, layer)
}

func (f *Fake) FramebufferRenderbuffer(target, attachment, rbTarget gl.Enum, r gl.Renderbuffer) {
	f.record("FramebufferRenderbuffer", target, attachment, rbTarget, r)
}

func (f *Fake) CheckFramebufferStatus(target gl.Enum) gl.Enum {
	f.record("CheckFramebufferStatus", target)
	return gl.FRAMEBUFFER_COMPLETE
}

func (f *Fake) DrawBuffers(bufs []gl.Enum) { f.record("DrawBuffers", len(bufs)) }

func (f *Fake) InvalidateFramebuffer(target gl.Enum, attachments []gl.Enum) {
	args := []any{target}
	for _, a := range attachments {
		args = append(args, a)
	}
	f.record("InvalidateFramebuffer", args...)
}

func (f *Fake) BlitFramebuffer(sx0, sy0, sx1, sy1, dx0, dy0, dx1, dy1 int, mask, filter gl.Enum) {
	f.record("BlitFramebuffer", sx0, sy0, sx1, sy1, dx0, dy0, dx1, dy1, mask, filter)
}

func (f *Fake) CreateSampler() gl.Sampler { return gl.Sampler(f.create("Sampler")) }
func (f *Fake) DeleteSampler(s gl.Sampler) { f.remove("Sampler", uint32(s)) }
func (f *Fake) BindSampler(unit int, s gl.Sampler) {
	f.record("BindSampler", unit, s)
}

func (f *Fake) SamplerParameteri(s gl.Sampler, pname gl.Enum, param int) {
	f.record("SamplerParameteri", s, pname, param)
}

func (f *Fake) SamplerParameterf(s gl.Sampler, pname gl.Enum, param float32) {
	f.record("SamplerParameterf", s, pname, param)
}

func (f *Fake) CreateShader(ty gl.Enum) gl.Shader { return gl.Shader(f.create("Shader")) }
func (f *Fake) DeleteShader(s gl.Shader) {
	delete(f.sources, s)
	f.remove("Shader", uint32(s))
}

func (f *Fake) ShaderSource(s gl.Shader, src string) {
	f.sources[s] = src
	f.record("ShaderSource", s)
}

func (f *Fake) CompileShader(s gl.Shader) { f.record("CompileShader", s) }

func (f *Fake) GetShaderi(s gl.Shader, pname gl.Enum) int {
	if pname == gl.COMPILE_STATUS {
		if f.FailCompile != "" && strings.Contains(f.sources[s], f.FailCompile) {
			return gl.FALSE
		}
		return gl.TRUE
	}
	return 0
}

func (f *Fake) GetShaderInfoLog(s gl.Shader) string {
	if f.FailCompile != "" && strings.Contains(f.sources[s], f.FailCompile) {
		return "0:1: error: forced failure"
	}
	return ""
}

// ShaderSourceOf returns the source given to s.
func (f *Fake) ShaderSourceOf(s gl.Shader) string { return f.sources[s] }

func (f *Fake) CreateProgram() gl.Program { return gl.Program(f.create("Program")) }
func (f *Fake) DeleteProgram(p gl.Program) {
	delete(f.linked, p)
	delete(f.blocks, p)
	delete(f.uniforms, p)
	f.remove("Program", uint32(p))
}
func (f *Fake) AttachShader(p gl.Program, s gl.Shader) {
	f.linked[p] += f.sources[s] + "\n"
	f.record("AttachShader", p, s)
}
func (f *Fake) LinkProgram(p gl.Program) { f.record("LinkProgram", p) }

func (f *Fake) GetProgrami(p gl.Program, pname gl.Enum) int {
	if pname == gl.LINK_STATUS {
		if f.FailLink {
			return gl.FALSE
		}
		return gl.TRUE
	}
	return 0
}

func (f *Fake) GetProgramInfoLog(p gl.Program) string {
	if f.FailLink {
		return "link error: forced failure"
	}
	return ""
}

func (f *Fake) UseProgram(p gl.Program) { f.record("UseProgram", p) }

// GetUniformBlockIndex resolves name against the sources attached to p.
// Blocks the sources never declare read as INVALID_INDEX.
func (f *Fake) GetUniformBlockIndex(p gl.Program, name string) uint {
	if !declares(f.linked[p], `\buniform\s+`+regexp.QuoteMeta(name)+`\s*\{`) {
		return gl.INVALID_INDEX
	}
	m := f.blocks[p]
	if m == nil {
		m = make(map[string]uint)
		f.blocks[p] = m
	}
	idx, ok := m[name]
	if !ok {
		idx = uint(len(m))
		m[name] = idx
	}
	return idx
}

func (f *Fake) UniformBlockBinding(p gl.Program, index, binding uint) {
	f.record("UniformBlockBinding", p, index, binding)
}

// GetUniformLocation resolves name against the sources attached to p and
// returns -1 for uniforms they never declare.
func (f *Fake) GetUniformLocation(p gl.Program, name string) gl.Uniform {
	if !declares(f.linked[p], `\buniform\b[^;{}]*\b`+regexp.QuoteMeta(name)+`\s*;`) {
		return -1
	}
	m := f.uniforms[p]
	if m == nil {
		m = make(map[string]gl.Uniform)
		f.uniforms[p] = m
	}
	loc, ok := m[name]
	if !ok {
		loc = gl.Uniform(len(m))
		m[name] = loc
	}
	return loc
}

func declares(src, pattern string) bool {
	return regexp.MustCompile(pattern).MatchString(src)
}

func (f *Fake) Uniform1i(u gl.Uniform, v int) { f.record("Uniform1i", u, v) }

func (f *Fake) CreateVertexArray() gl.VertexArray {
	return gl.VertexArray(f.create("VertexArray"))
}
func (f *Fake) DeleteVertexArray(v gl.VertexArray) { f.remove("VertexArray", uint32(v)) }
func (f *Fake) BindVertexArray(v gl.VertexArray) { f.record("BindVertexArray", v) }
func (f *Fake) EnableVertexAttribArray(a gl.Attrib) {
	f.record("EnableVertexAttribArray", a)
}
func (f *Fake) DisableVertexAttribArray(a gl.Attrib) {
	f.record("DisableVertexAttribArray", a)
}

func (f *Fake) VertexAttribPointer(a gl.Attrib, size int, ty gl.Enum, normalized bool, stride, offset int) {
	f.record("VertexAttribPointer", a, size, ty, normalized, stride, offset)
}

func (f *Fake) VertexAttribIPointer(a gl.Attrib, size int, ty gl.Enum, stride, offset int) {
	f.record("VertexAttribIPointer", a, size, ty, stride, offset)
}

func (f *Fake) VertexAttribDivisor(a gl.Attrib, divisor int) {
	f.record("VertexAttribDivisor", a, divisor)
}

func (f *Fake) Enable(c gl.Enum) { f.record("Enable", c) }
func (f *Fake) Disable(c gl.Enum) { f.record("Disable", c) }
func (f *Fake) ColorMask(r, g, b, a bool) { f.record("ColorMask", r, g, b, a) }
func (f *Fake) DepthMask(mask bool) { f.record("DepthMask", mask) }
func (f *Fake) DepthFunc(fn gl.Enum) { f.record("DepthFunc", fn) }
func (f *Fake) DepthRangef(near, far float32) { f.record("DepthRangef", near, far) }
func (f *Fake) CullFace(mode gl.Enum) { f.record("CullFace", mode) }
func (f *Fake) FrontFace(mode gl.Enum) { f.record("FrontFace", mode) }
func (f *Fake) PolygonOffset(factor, units float32) {
	f.record("PolygonOffset", factor, units)
}

func (f *Fake) StencilFuncSeparate(face, fn gl.Enum, ref int, mask uint32) {
	f.record("StencilFuncSeparate", face, fn, ref, mask)
}

func (f *Fake) StencilOpSeparate(face, sfail, dpfail, dppass gl.Enum) {
	f.record("StencilOpSeparate", face, sfail, dpfail, dppass)
}

func (f *Fake) StencilMaskSeparate(face gl.Enum, mask uint32) {
	f.record("StencilMaskSeparate", face, mask)
}

func (f *Fake) BlendEquationSeparate(modeRGB, modeAlpha gl.Enum) {
	f.record("BlendEquationSeparate", modeRGB, modeAlpha)
}

func (f *Fake) BlendFuncSeparate(srcRGB, dstRGB, srcA, dstA gl.Enum) {
	f.record("BlendFuncSeparate", srcRGB, dstRGB, srcA, dstA)
}

func (f *Fake) BlendColor(r, g, b, a float32) { f.record("BlendColor", r, g, b, a) }
func (f *Fake) Viewport(x, y, width, height int) {
	f.record("Viewport", x, y, width, height)
}
func (f *Fake) Scissor(x, y, width, height int) {
	f.record("Scissor", x, y, width, height)
}

func (f *Fake) ClearColor(r, g, b, a float32) { f.record("ClearColor", r, g, b, a) }
func (f *Fake) ClearDepthf(d float32) { f.record("ClearDepthf", d) }
func (f *Fake) ClearStencil(s int) { f.record("ClearStencil", s) }
func (f *Fake) Clear(mask gl.Enum) { f.record("Clear", mask) }
func (f *Fake) ClearBufferfv(buffer gl.Enum, drawBuffer int, value [4]float32) {
	f.record("ClearBufferfv", buffer, drawBuffer, value)
}

func (f *Fake) DrawArrays(mode gl.Enum, first, count int) {
	f.record("DrawArrays", mode, first, count)
}

func (f *Fake) DrawArraysInstanced(mode gl.Enum, first, count, instances int) {
	f.record("DrawArraysInstanced", mode, first, count, instances)
}

func (f *Fake) DrawElements(mode gl.Enum, count int, ty gl.Enum, offset int) {
	f.record("DrawElements", mode, count, ty, offset)
}

func (f *Fake) DrawElementsInstanced(mode gl.Enum, count int, ty gl.Enum, offset, instances int) {
	f.record("DrawElementsInstanced", mode, count, ty, offset, instances)
}
