// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gles

import (
	"slices"

	"github.com/gogpu/gles/gl"
	"github.com/gogpu/gles/internal/statecache"
)

// CacheCounters are the statistics of one cache.
type CacheCounters = statecache.Stats

// CacheStats reports every state cache of a device.
type CacheStats struct {
	Programs      CacheCounters
	RasterStates  CacheCounters
	DepthStates   CacheCounters
	StencilStates CacheCounters
	BlendStates   CacheCounters
	VertexArrays  CacheCounters
	Framebuffers  CacheCounters
}

// Total sums every cache.
func (s CacheStats) Total() CacheCounters {
	return s.Programs.Add(s.RasterStates).Add(s.DepthStates).Add(s.StencilStates).
		Add(s.BlendStates).Add(s.VertexArrays).Add(s.Framebuffers)
}

// programKey identifies a program by its compiled stages.
type programKey struct {
	vertex, fragment uint64
}

// vertexBinding is a buffer bound to a vertex slot.
type vertexBinding struct {
	buffer gl.Buffer
	offset uint64
}

// geometryKey is everything a VAO captures: the attribute layout, the
// bound vertex buffers and the element array buffer.
type geometryKey struct {
	layout  string
	buffers [maxVertexBuffers]vertexBinding
	index   gl.Buffer
}

// maxColorAttachments bounds the color targets of a framebuffer.
const maxColorAttachments = 4

// attachmentKey names one subresource of a texture.
type attachmentKey struct {
	texture uint64
	mip     uint32
	layer   uint32
}

func (k attachmentKey) set() bool { return k.texture != 0 }

type framebufferKey struct {
	colors       [maxColorAttachments]attachmentKey
	depthStencil attachmentKey
}

// compositeCache maps derived keys to GL objects and remembers which
// resources each entry references, so destroying a resource evicts them.
type compositeCache[K comparable, R comparable, H comparable] struct {
	entries map[K]H
	refs    map[K][]R
	byRef   map[R][]K
	destroy func(H)

	hits, misses, evictions uint64
}

func newCompositeCache[K comparable, R comparable, H comparable](destroy func(H)) *compositeCache[K, R, H] {
	return &compositeCache[K, R, H]{
		entries: make(map[K]H),
		refs:    make(map[K][]R),
		byRef:   make(map[R][]K),
		destroy: destroy,
	}
}

// get returns the handle for key, building and indexing it on a miss.
// hit reports whether the entry existed.
func (c *compositeCache[K, R, H]) get(key K, refs []R, build func() H) (h H, hit bool) {
	if h, ok := c.entries[key]; ok {
		c.hits++
		return h, true
	}
	c.misses++
	h = build()
	c.entries[key] = h
	c.refs[key] = slices.Clone(refs)
	for _, r := range refs {
		c.byRef[r] = append(c.byRef[r], key)
	}
	return h, false
}

// invalidate destroys every entry referencing ref and returns their
// handles. Evicted keys are dropped from the lists of their other refs.
func (c *compositeCache[K, R, H]) invalidate(ref R) []H {
	keys := c.byRef[ref]
	delete(c.byRef, ref)
	var out []H
	for _, k := range keys {
		h, ok := c.entries[k]
		if !ok {
			continue
		}
		delete(c.entries, k)
		for _, r := range c.refs[k] {
			if r == ref {
				continue
			}
			rest := slices.DeleteFunc(c.byRef[r], func(o K) bool { return o == k })
			if len(rest) == 0 {
				delete(c.byRef, r)
			} else {
				c.byRef[r] = rest
			}
		}
		delete(c.refs, k)
		c.destroy(h)
		c.evictions++
		out = append(out, h)
	}
	return out
}

func (c *compositeCache[K, R, H]) clear() {
	for k, h := range c.entries {
		delete(c.entries, k)
		c.destroy(h)
	}
	clear(c.refs)
	clear(c.byRef)
}

func (c *compositeCache[K, R, H]) stats() CacheCounters {
	s := CacheCounters{Len: len(c.entries), Hits: c.hits, Misses: c.misses, Evictions: c.evictions}
	if n := c.hits + c.misses; n > 0 {
		s.HitRate = float64(c.hits) / float64(n)
	}
	return s
}

// deviceCache holds every cache of a device. It is only touched under the
// context lock.
type deviceCache struct {
	programs *statecache.Interner[programKey, *program]
	raster   *statecache.Interner[rasterState, rasterState]
	depth    *statecache.Interner[depthState, depthState]
	stencil  *statecache.Interner[stencilState, stencilState]
	blend    *statecache.Interner[blendState, blendState]

	vaos *compositeCache[geometryKey, gl.Buffer, gl.VertexArray]
	fbos *compositeCache[framebufferKey, uint64, gl.Framebuffer]
}

func newDeviceCache(fns gl.Functions, s *glState) *deviceCache {
	return &deviceCache{
		programs: statecache.New[programKey](func(p *program) {
			s.forgetProgram(p.raw)
			fns.DeleteProgram(p.raw)
		}),
		raster:  statecache.New[rasterState, rasterState](nil),
		depth:   statecache.New[depthState, depthState](nil),
		stencil: statecache.New[stencilState, stencilState](nil),
		blend:   statecache.New[blendState, blendState](nil),
		vaos:    newCompositeCache[geometryKey, gl.Buffer](fns.DeleteVertexArray),
		fbos:    newCompositeCache[framebufferKey, uint64](fns.DeleteFramebuffer),
	}
}

func intern[K comparable](in *statecache.Interner[K, K], v K) *statecache.Ref[K] {
	r, _ := in.GetOrInsert(v, func() (K, error) { return v, nil })
	return r
}

// bindVAO binds the vertex array for key, building it on a miss.
func (c *deviceCache) bindVAO(s *glState, key geometryKey, build func() gl.VertexArray) {
	refs := make([]gl.Buffer, 0, maxVertexBuffers+1)
	for _, b := range key.buffers {
		if b.buffer.Valid() {
			refs = append(refs, b.buffer)
		}
	}
	if key.index.Valid() {
		refs = append(refs, key.index)
	}
	vao, hit := c.vaos.get(key, refs, build)
	if !hit {
		s.dev.logger().Debug("gles: vertex array built", "vao", vao, "buffers", len(refs))
	}
	s.bindVertexArray(vao)
}

// bindFBO binds the framebuffer for key, building it on a miss.
func (c *deviceCache) bindFBO(s *glState, key framebufferKey, build func() gl.Framebuffer) gl.Framebuffer {
	refs := make([]uint64, 0, maxColorAttachments+1)
	for _, a := range key.colors {
		if a.set() {
			refs = append(refs, a.texture)
		}
	}
	if key.depthStencil.set() {
		refs = append(refs, key.depthStencil.texture)
	}
	fb, hit := c.fbos.get(key, refs, build)
	if !hit {
		s.dev.logger().Debug("gles: framebuffer built", "fbo", fb, "attachments", len(refs))
	}
	s.bindFramebuffer(gl.FRAMEBUFFER, fb)
	return fb
}

// invalidateBuffer drops every VAO referencing buf.
func (c *deviceCache) invalidateBuffer(s *glState, buf gl.Buffer) {
	for _, vao := range c.vaos.invalidate(buf) {
		s.forgetVertexArray(vao)
	}
}

// invalidateAttachment drops every framebuffer with texture attached.
func (c *deviceCache) invalidateAttachment(s *glState, texture uint64) {
	for _, fb := range c.fbos.invalidate(texture) {
		s.forgetFramebuffer(fb)
	}
}

// sweep drops unreferenced interned entries and deletes their programs.
func (c *deviceCache) sweep() int {
	return c.programs.Sweep() + c.raster.Sweep() + c.depth.Sweep() + c.stencil.Sweep() + c.blend.Sweep()
}

func (c *deviceCache) clear(s *glState) {
	c.programs.Clear()
	c.raster.Clear()
	c.depth.Clear()
	c.stencil.Clear()
	c.blend.Clear()
	c.vaos.clear()
	c.fbos.clear()
	s.reset()
}

func (c *deviceCache) stats() CacheStats {
	return CacheStats{
		Programs:      c.programs.Stats(),
		RasterStates:  c.raster.Stats(),
		DepthStates:   c.depth.Stats(),
		StencilStates: c.stencil.Stats(),
		BlendStates:   c.blend.Stats(),
		VertexArrays:  c.vaos.stats(),
		Framebuffers:  c.fbos.stats(),
	}
}
