//go:build js && wasm

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gl

import (
	"errors"
	"syscall/js"
)

// WebGL drives a WebGL2 rendering context. WebGL objects are JavaScript
// values; they are kept in a table indexed by the uint32 handles the rest
// of the engine uses.
type WebGL struct {
	ctx        js.Value
	uint8Array js.Value
	arrayBuf   js.Value

	objects map[uint32]js.Value
	next    uint32
	// locations maps Uniform values to WebGLUniformLocation objects.
	locations map[Uniform]js.Value
	nextLoc   Uniform
}

var _ Functions = (*WebGL)(nil)

// NewWebGL wraps ctx, which must be a WebGL2RenderingContext.
func NewWebGL(ctx js.Value) (*WebGL, error) {
	class := js.Global().Get("WebGL2RenderingContext")
	if class.IsUndefined() || !ctx.InstanceOf(class) {
		return nil, errors.New("gl: context is not WebGL2")
	}
	return &WebGL{
		ctx:        ctx,
		uint8Array: js.Global().Get("Uint8Array"),
		objects:    make(map[uint32]js.Value),
		locations:  make(map[Uniform]js.Value),
	}, nil
}

func (f *WebGL) put(v js.Value) uint32 {
	if v.IsNull() || v.IsUndefined() {
		return 0
	}
	f.next++
	f.objects[f.next] = v
	return f.next
}

func (f *WebGL) get(id uint32) js.Value {
	if id == 0 {
		return js.Null()
	}
	if v, ok := f.objects[id]; ok {
		return v
	}
	return js.Null()
}

func (f *WebGL) drop(id uint32, method string) {
	if v, ok := f.objects[id]; ok {
		f.ctx.Call(method, v)
		delete(f.objects, id)
	}
}

func (f *WebGL) bytes(data []byte) js.Value {
	if len(data) == 0 {
		return js.Null()
	}
	if f.arrayBuf.IsUndefined() || f.arrayBuf.Get("byteLength").Int() < len(data) {
		f.arrayBuf = js.Global().Get("ArrayBuffer").New(len(data))
	}
	ba := f.uint8Array.New(f.arrayBuf, 0, len(data))
	js.CopyBytesToJS(ba, data)
	return ba
}

func paramVal(v js.Value) int {
	switch v.Type() {
	case js.TypeBoolean:
		if v.Bool() {
			return TRUE
		}
		return FALSE
	case js.TypeNumber:
		return v.Int()
	default:
		return 0
	}
}

func (f *WebGL) GetError() Enum { return Enum(f.ctx.Call("getError").Int()) }

func (f *WebGL) GetString(pname Enum) string {
	if pname == EXTENSIONS {
		exts := f.ctx.Call("getSupportedExtensions")
		s := ""
		for i := 0; i < exts.Length(); i++ {
			if i > 0 {
				s += " "
			}
			s += exts.Index(i).String()
		}
		return s
	}
	v := f.ctx.Call("getParameter", int(pname))
	if v.Type() != js.TypeString {
		return ""
	}
	return v.String()
}

func (f *WebGL) GetStringi(pname Enum, index int) string {
	if pname != EXTENSIONS {
		return ""
	}
	exts := f.ctx.Call("getSupportedExtensions")
	if index < 0 || index >= exts.Length() {
		return ""
	}
	return exts.Index(index).String()
}

func (f *WebGL) GetInteger(pname Enum) int {
	if pname == NUM_EXTENSIONS {
		return f.ctx.Call("getSupportedExtensions").Length()
	}
	return paramVal(f.ctx.Call("getParameter", int(pname)))
}

func (f *WebGL) GetFloat(pname Enum) float32 {
	v := f.ctx.Call("getParameter", int(pname))
	if v.Type() != js.TypeNumber {
		return 0
	}
	return float32(v.Float())
}

func (f *WebGL) Flush() { f.ctx.Call("flush") }

func (f *WebGL) CreateBuffer() Buffer { return Buffer(f.put(f.ctx.Call("createBuffer"))) }
func (f *WebGL) DeleteBuffer(b Buffer) { f.drop(uint32(b), "deleteBuffer") }

func (f *WebGL) BindBuffer(target Enum, b Buffer) {
	f.ctx.Call("bindBuffer", int(target), f.get(uint32(b)))
}

func (f *WebGL) BindBufferBase(target Enum, index int, b Buffer) {
	f.ctx.Call("bindBufferBase", int(target), index, f.get(uint32(b)))
}

func (f *WebGL) BindBufferRange(target Enum, index int, b Buffer, offset, size int) {
	f.ctx.Call("bindBufferRange", int(target), index, f.get(uint32(b)), offset, size)
}

func (f *WebGL) BufferData(target Enum, size int, usage Enum, data []byte) {
	f.ctx.Call("bufferData", int(target), size, int(usage))
	if len(data) > 0 {
		f.ctx.Call("bufferSubData", int(target), 0, f.bytes(data))
	}
}

func (f *WebGL) BufferSubData(target Enum, offset int, data []byte) {
	if len(data) == 0 {
		return
	}
	f.ctx.Call("bufferSubData", int(target), offset, f.bytes(data))
}

// MapBufferRange is not available in WebGL2; mappable buffers are host
// shadows on the web.
func (f *WebGL) MapBufferRange(target Enum, offset, length int, access Enum) []byte {
	return nil
}

func (f *WebGL) UnmapBuffer(target Enum) bool { return false }

func (f *WebGL) CreateTexture() Texture { return Texture(f.put(f.ctx.Call("createTexture"))) }
func (f *WebGL) DeleteTexture(t Texture) { f.drop(uint32(t), "deleteTexture") }
func (f *WebGL) ActiveTexture(unit Enum) { f.ctx.Call("activeTexture", int(unit)) }

func (f *WebGL) BindTexture(target Enum, t Texture) {
	f.ctx.Call("bindTexture", int(target), f.get(uint32(t)))
}

func (f *WebGL) TexParameteri(target, pname Enum, param int) {
	f.ctx.Call("texParameteri", int(target), int(pname), param)
}

func (f *WebGL) TexStorage2D(target Enum, levels int, internalFormat Enum, width, height int) {
	f.ctx.Call("texStorage2D", int(target), levels, int(internalFormat), width, height)
}

func (f *WebGL) TexStorage3D(target Enum, levels int, internalFormat Enum, width, height, depth int) {
	f.ctx.Call("texStorage3D", int(target), levels, int(internalFormat), width, height, depth)
}

// TexStorage2DMultisample has no WebGL2 equivalent; callers check the
// adapter capability first.
func (f *WebGL) TexStorage2DMultisample(target Enum, samples int, internalFormat Enum, width, height int, fixedLocations bool) {
	panic("gl: multisampled textures are not supported by WebGL2")
}

func (f *WebGL) TexSubImage2D(target Enum, level, x, y, width, height int, format, ty Enum, pixels []byte) {
	f.ctx.Call("texSubImage2D", int(target), level, x, y, width, height, int(format), int(ty), f.bytes(pixels))
}

func (f *WebGL) TexSubImage3D(target Enum, level, x, y, z, width, height, depth int, format, ty Enum, pixels []byte) {
	f.ctx.Call("texSubImage3D", int(target), level, x, y, z, width, height, depth, int(format), int(ty), f.bytes(pixels))
}

func (f *WebGL) CompressedTexSubImage2D(target Enum, level, x, y, width, height int, format Enum, data []byte) {
	f.ctx.Call("compressedTexSubImage2D", int(target), level, x, y, width, height, int(format), f.bytes(data))
}

func (f *WebGL) CompressedTexSubImage3D(target Enum, level, x, y, z, width, height, depth int, format Enum, data []byte) {
	f.ctx.Call("compressedTexSubImage3D", int(target), level, x, y, z, width, height, depth, int(format), f.bytes(data))
}

func (f *WebGL) PixelStorei(pname Enum, param int) { f.ctx.Call("pixelStorei", int(pname), param) }

func (f *WebGL) CreateRenderbuffer() Renderbuffer {
	return Renderbuffer(f.put(f.ctx.Call("createRenderbuffer")))
}

func (f *WebGL) DeleteRenderbuffer(r Renderbuffer) { f.drop(uint32(r), "deleteRenderbuffer") }

func (f *WebGL) BindRenderbuffer(target Enum, r Renderbuffer) {
	f.ctx.Call("bindRenderbuffer", int(target), f.get(uint32(r)))
}

func (f *WebGL) RenderbufferStorageMultisample(target Enum, samples int, internalFormat Enum, width, height int) {
	f.ctx.Call("renderbufferStorageMultisample", int(target), samples, int(internalFormat), width, height)
}

func (f *WebGL) CreateFramebuffer() Framebuffer {
	return Framebuffer(f.put(f.ctx.Call("createFramebuffer")))
}

func (f *WebGL) DeleteFramebuffer(fb Framebuffer) { f.drop(uint32(fb), "deleteFramebuffer") }

func (f *WebGL) BindFramebuffer(target Enum, fb Framebuffer) {
	f.ctx.Call("bindFramebuffer", int(target), f.get(uint32(fb)))
}

func (f *WebGL) FramebufferTexture2D(target, attachment, texTarget Enum, t Texture, level int) {
	f.ctx.Call("framebufferTexture2D", int(target), int(attachment), int(texTarget), f.get(uint32(t)), level)
}

func (f *WebGL) FramebufferTextureLayer(target, attachment Enum, t Texture, level, layer int) {
	f.ctx.Call("framebufferTextureLayer", int(target), int(attachment), f.get(uint32(t)), level, layer)
}

func (f *WebGL) FramebufferRenderbuffer(target, attachment, rbTarget Enum, r Renderbuffer) {
	f.ctx.Call("framebufferRenderbuffer", int(target), int(attachment), int(rbTarget), f.get(uint32(r)))
}

func (f *WebGL) CheckFramebufferStatus(target Enum) Enum {
	return Enum(f.ctx.Call("checkFramebufferStatus", int(target)).Int())
}

func enumArray(es []Enum) js.Value {
	arr := js.Global().Get("Array").New(len(es))
	for i, e := range es {
		arr.SetIndex(i, int(e))
	}
	return arr
}

func (f *WebGL) DrawBuffers(bufs []Enum) { f.ctx.Call("drawBuffers", enumArray(bufs)) }

func (f *WebGL) InvalidateFramebuffer(target Enum, attachments []Enum) {
	f.ctx.Call("invalidateFramebuffer", int(target), enumArray(attachments))
}

func (f *WebGL) BlitFramebuffer(sx0, sy0, sx1, sy1, dx0, dy0, dx1, dy1 int, mask, filter Enum) {
	f.ctx.Call("blitFramebuffer", sx0, sy0, sx1, sy1, dx0, dy0, dx1, dy1, int(mask), int(filter))
}

func (f *WebGL) CreateSampler() Sampler { return Sampler(f.put(f.ctx.Call("createSampler"))) }
func (f *WebGL) DeleteSampler(s Sampler) { f.drop(uint32(s), "deleteSampler") }

func (f *WebGL) BindSampler(unit int, s Sampler) {
	f.ctx.Call("bindSampler", unit, f.get(uint32(s)))
}

func (f *WebGL) SamplerParameteri(s Sampler, pname Enum, param int) {
	f.ctx.Call("samplerParameteri", f.get(uint32(s)), int(pname), param)
}

func (f *WebGL) SamplerParameterf(s Sampler, pname Enum, param float32) {
	f.ctx.Call("samplerParameterf", f.get(uint32(s)), int(pname), param)
}

func (f *WebGL) CreateShader(ty Enum) Shader {
	return Shader(f.put(f.ctx.Call("createShader", int(ty))))
}

func (f *WebGL) DeleteShader(s Shader) { f.drop(uint32(s), "deleteShader") }

func (f *WebGL) ShaderSource(s Shader, src string) {
	f.ctx.Call("shaderSource", f.get(uint32(s)), src)
}

func (f *WebGL) CompileShader(s Shader) { f.ctx.Call("compileShader", f.get(uint32(s))) }

func (f *WebGL) GetShaderi(s Shader, pname Enum) int {
	return paramVal(f.ctx.Call("getShaderParameter", f.get(uint32(s)), int(pname)))
}

func (f *WebGL) GetShaderInfoLog(s Shader) string {
	return f.ctx.Call("getShaderInfoLog", f.get(uint32(s))).String()
}

func (f *WebGL) CreateProgram() Program { return Program(f.put(f.ctx.Call("createProgram"))) }

func (f *WebGL) DeleteProgram(p Program) { f.drop(uint32(p), "deleteProgram") }

func (f *WebGL) AttachShader(p Program, s Shader) {
	f.ctx.Call("attachShader", f.get(uint32(p)), f.get(uint32(s)))
}

func (f *WebGL) LinkProgram(p Program) { f.ctx.Call("linkProgram", f.get(uint32(p))) }

func (f *WebGL) GetProgrami(p Program, pname Enum) int {
	return paramVal(f.ctx.Call("getProgramParameter", f.get(uint32(p)), int(pname)))
}

func (f *WebGL) GetProgramInfoLog(p Program) string {
	return f.ctx.Call("getProgramInfoLog", f.get(uint32(p))).String()
}

func (f *WebGL) UseProgram(p Program) { f.ctx.Call("useProgram", f.get(uint32(p))) }

func (f *WebGL) GetUniformBlockIndex(p Program, name string) uint {
	return uint(f.ctx.Call("getUniformBlockIndex", f.get(uint32(p)), name).Int())
}

func (f *WebGL) UniformBlockBinding(p Program, index, binding uint) {
	f.ctx.Call("uniformBlockBinding", f.get(uint32(p)), int(index), int(binding))
}

func (f *WebGL) GetUniformLocation(p Program, name string) Uniform {
	loc := f.ctx.Call("getUniformLocation", f.get(uint32(p)), name)
	if loc.IsNull() {
		return -1
	}
	f.nextLoc++
	f.locations[f.nextLoc] = loc
	return f.nextLoc
}

func (f *WebGL) Uniform1i(u Uniform, v int) {
	if loc, ok := f.locations[u]; ok {
		f.ctx.Call("uniform1i", loc, v)
	}
}

func (f *WebGL) CreateVertexArray() VertexArray {
	return VertexArray(f.put(f.ctx.Call("createVertexArray")))
}

func (f *WebGL) DeleteVertexArray(v VertexArray) { f.drop(uint32(v), "deleteVertexArray") }

func (f *WebGL) BindVertexArray(v VertexArray) {
	f.ctx.Call("bindVertexArray", f.get(uint32(v)))
}

func (f *WebGL) EnableVertexAttribArray(a Attrib) { f.ctx.Call("enableVertexAttribArray", int(a)) }

func (f *WebGL) DisableVertexAttribArray(a Attrib) {
	f.ctx.Call("disableVertexAttribArray", int(a))
}

func (f *WebGL) VertexAttribPointer(a Attrib, size int, ty Enum, normalized bool, stride, offset int) {
	f.ctx.Call("vertexAttribPointer", int(a), size, int(ty), normalized, stride, offset)
}

func (f *WebGL) VertexAttribIPointer(a Attrib, size int, ty Enum, stride, offset int) {
	f.ctx.Call("vertexAttribIPointer", int(a), size, int(ty), stride, offset)
}

func (f *WebGL) VertexAttribDivisor(a Attrib, divisor int) {
	f.ctx.Call("vertexAttribDivisor", int(a), divisor)
}

func (f *WebGL) Enable(c Enum) { f.ctx.Call("enable", int(c)) }
func (f *WebGL) Disable(c Enum) { f.ctx.Call("disable", int(c)) }
func (f *WebGL) ColorMask(r, g, b, a bool) { f.ctx.Call("colorMask", r, g, b, a) }
func (f *WebGL) DepthMask(mask bool) { f.ctx.Call("depthMask", mask) }
func (f *WebGL) DepthFunc(fn Enum) { f.ctx.Call("depthFunc", int(fn)) }
func (f *WebGL) DepthRangef(near, far float32) {
	f.ctx.Call("depthRange", near, far)
}
func (f *WebGL) CullFace(mode Enum) { f.ctx.Call("cullFace", int(mode)) }
func (f *WebGL) FrontFace(mode Enum) { f.ctx.Call("frontFace", int(mode)) }

func (f *WebGL) PolygonOffset(factor, units float32) { f.ctx.Call("polygonOffset", factor, units) }

func (f *WebGL) StencilFuncSeparate(face, fn Enum, ref int, mask uint32) {
	f.ctx.Call("stencilFuncSeparate", int(face), int(fn), ref, mask)
}

func (f *WebGL) StencilOpSeparate(face, sfail, dpfail, dppass Enum) {
	f.ctx.Call("stencilOpSeparate", int(face), int(sfail), int(dpfail), int(dppass))
}

func (f *WebGL) StencilMaskSeparate(face Enum, mask uint32) {
	f.ctx.Call("stencilMaskSeparate", int(face), mask)
}

func (f *WebGL) BlendEquationSeparate(modeRGB, modeAlpha Enum) {
	f.ctx.Call("blendEquationSeparate", int(modeRGB), int(modeAlpha))
}

func (f *WebGL) BlendFuncSeparate(srcRGB, dstRGB, srcA, dstA Enum) {
	f.ctx.Call("blendFuncSeparate", int(srcRGB), int(dstRGB), int(srcA), int(dstA))
}

func (f *WebGL) BlendColor(r, g, b, a float32) { f.ctx.Call("blendColor", r, g, b, a) }

func (f *WebGL) Viewport(x, y, width, height int) { f.ctx.Call("viewport", x, y, width, height) }

func (f *WebGL) Scissor(x, y, width, height int) { f.ctx.Call("scissor", x, y, width, height) }

func (f *WebGL) ClearColor(r, g, b, a float32) { f.ctx.Call("clearColor", r, g, b, a) }
func (f *WebGL) ClearDepthf(d float32) { f.ctx.Call("clearDepth", d) }
func (f *WebGL) ClearStencil(s int) { f.ctx.Call("clearStencil", s) }
func (f *WebGL) Clear(mask Enum) { f.ctx.Call("clear", int(mask)) }

func (f *WebGL) ClearBufferfv(buffer Enum, drawBuffer int, value [4]float32) {
	arr := js.Global().Get("Float32Array").New(4)
	for i, v := range value {
		arr.SetIndex(i, v)
	}
	f.ctx.Call("clearBufferfv", int(buffer), drawBuffer, arr)
}

func (f *WebGL) DrawArrays(mode Enum, first, count int) {
	f.ctx.Call("drawArrays", int(mode), first, count)
}

func (f *WebGL) DrawArraysInstanced(mode Enum, first, count, instances int) {
	f.ctx.Call("drawArraysInstanced", int(mode), first, count, instances)
}

func (f *WebGL) DrawElements(mode Enum, count int, ty Enum, offset int) {
	f.ctx.Call("drawElements", int(mode), count, int(ty), offset)
}

func (f *WebGL) DrawElementsInstanced(mode Enum, count int, ty Enum, offset, instances int) {
	f.ctx.Call("drawElementsInstanced", int(mode), count, int(ty), offset, instances)
}
