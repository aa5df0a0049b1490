// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gles

import (
	"github.com/gogpu/gputypes"

	"github.com/gogpu/gles/gl"
	"github.com/gogpu/gles/internal/format"
)

// TextureDescriptor describes a texture.
type TextureDescriptor struct {
	Label         string
	Size          gputypes.Extent3D
	MipLevelCount uint32
	SampleCount   uint32
	Dimension     gputypes.TextureDimension
	Format        gputypes.TextureFormat
	Usage         gputypes.TextureUsage
	// ViewDimensionHint selects between a 2D array and a cube map for
	// 2D textures with six layers.
	ViewDimensionHint gputypes.TextureViewDimension
}

// Texture is a GL texture or, for textures only ever rendered to, a
// renderbuffer.
type Texture struct {
	dev   *Device
	id    uint64
	label string

	raw          gl.Texture
	renderbuffer gl.Renderbuffer
	target       gl.Enum

	format  gputypes.TextureFormat
	info    format.Info
	size    gputypes.Extent3D
	mips    uint32
	samples uint32
	usage   gputypes.TextureUsage

	// surface marks the default framebuffer stand-in, which owns no GL
	// object.
	surface bool

	destroyed bool
}

// Label returns the texture's label.
func (t *Texture) Label() string { return t.label }

// Size returns the texture's extent at mip level 0.
func (t *Texture) Size() gputypes.Extent3D { return t.size }

// Format returns the texture's format.
func (t *Texture) Format() gputypes.TextureFormat { return t.format }

// IsRenderbuffer reports whether the texture is backed by a renderbuffer.
func (t *Texture) IsRenderbuffer() bool { return t.renderbuffer.Valid() }

func (t *Texture) layers() uint32 {
	if t.target == gl.TEXTURE_3D {
		return 1
	}
	return max(t.size.DepthOrArrayLayers, 1)
}

// textureTarget picks the GL target for a texture object.
func (d *Device) textureTarget(desc *TextureDescriptor, layers uint32) (gl.Enum, error) {
	switch {
	case desc.Dimension == gputypes.TextureDimension3D:
		return gl.TEXTURE_3D, nil
	case desc.SampleCount > 1:
		if !d.adapter.Capabilities.MultisampleTextures {
			return 0, invalid("multisampled texture %q needs RenderAttachment-only usage on this device", desc.Label)
		}
		if layers > 1 {
			return 0, invalid("multisampled array textures are not supported")
		}
		return gl.TEXTURE_2D_MULTISAMPLE, nil
	case desc.ViewDimensionHint == gputypes.TextureViewDimensionCube:
		if layers != 6 {
			return 0, invalid("cube texture %q has %d layers", desc.Label, layers)
		}
		return gl.TEXTURE_CUBE_MAP, nil
	case layers > 1 || desc.ViewDimensionHint == gputypes.TextureViewDimension2DArray:
		return gl.TEXTURE_2D_ARRAY, nil
	default:
		return gl.TEXTURE_2D, nil
	}
}

// CreateTexture creates a texture. Textures used only as a single-layer
// 2D render attachment become renderbuffers.
func (d *Device) CreateTexture(desc *TextureDescriptor) (*Texture, error) {
	if desc == nil {
		return nil, invalid("nil texture descriptor")
	}
	info, ok := format.Lookup(desc.Format)
	if !ok {
		return nil, ErrUnsupportedFormat
	}
	if info.Requires != 0 && !d.adapter.formats.Has(info.Requires) {
		d.logger().Warn("gles: texture format needs a missing extension", "format", desc.Format)
		return nil, ErrUnsupportedFormat
	}
	w, h := desc.Size.Width, max(desc.Size.Height, 1)
	if w == 0 {
		return nil, invalid("texture %q has zero width", desc.Label)
	}
	if limit := d.adapter.Limits.MaxTextureSize; limit > 0 && (int(w) > limit || int(h) > limit) {
		return nil, invalid("texture %q size %dx%d exceeds %d", desc.Label, w, h, limit)
	}
	layers := max(desc.Size.DepthOrArrayLayers, 1)

	t := &Texture{
		dev:     d,
		id:      d.newID(),
		label:   desc.Label,
		format:  desc.Format,
		info:    info,
		size:    gputypes.Extent3D{Width: w, Height: h, DepthOrArrayLayers: layers},
		mips:    max(desc.MipLevelCount, 1),
		samples: max(desc.SampleCount, 1),
		usage:   desc.Usage,
	}

	renderOnly := desc.Usage == gputypes.TextureUsageRenderAttachment &&
		desc.Dimension != gputypes.TextureDimension3D && layers == 1
	if !renderOnly {
		target, err := d.textureTarget(desc, layers)
		if err != nil {
			return nil, err
		}
		t.target = target
	}

	err := d.locked(func() error {
		if renderOnly {
			return d.allocRenderbuffer(t)
		}
		return d.allocTexture(t)
	})
	if err != nil {
		return nil, err
	}
	d.logger().Debug("gles: texture created",
		"label", desc.Label, "format", desc.Format, "size", t.size, "renderbuffer", renderOnly)
	return t, nil
}

func (d *Device) allocRenderbuffer(t *Texture) error {
	rb := d.fns.CreateRenderbuffer()
	if !rb.Valid() {
		return ErrOutOfMemory
	}
	samples := 0
	if t.samples > 1 {
		samples = int(t.samples)
	}
	d.fns.BindRenderbuffer(gl.RENDERBUFFER, rb)
	d.fns.RenderbufferStorageMultisample(gl.RENDERBUFFER, samples, t.info.Internal,
		int(t.size.Width), int(t.size.Height))
	d.fns.BindRenderbuffer(gl.RENDERBUFFER, 0)
	if d.fns.GetError() == gl.OUT_OF_MEMORY {
		d.fns.DeleteRenderbuffer(rb)
		return ErrOutOfMemory
	}
	t.renderbuffer = rb
	return nil
}

func (d *Device) allocTexture(t *Texture) error {
	raw := d.fns.CreateTexture()
	if !raw.Valid() {
		return ErrOutOfMemory
	}
	w, h := t.info.PhysicalSize(int(t.size.Width), int(t.size.Height))
	levels := int(t.mips)

	d.state.bindScratchTexture(t.target, raw)
	switch t.target {
	case gl.TEXTURE_2D_MULTISAMPLE:
		d.fns.TexStorage2DMultisample(t.target, int(t.samples), t.info.Internal, w, h, true)
	case gl.TEXTURE_3D, gl.TEXTURE_2D_ARRAY:
		d.fns.TexStorage3D(t.target, levels, t.info.Internal, w, h, int(t.size.DepthOrArrayLayers))
	default:
		d.fns.TexStorage2D(t.target, levels, t.info.Internal, w, h)
	}
	if t.target != gl.TEXTURE_2D_MULTISAMPLE {
		d.fns.TexParameteri(t.target, gl.TEXTURE_MAX_LEVEL, levels-1)
	}
	if d.fns.GetError() == gl.OUT_OF_MEMORY {
		d.fns.DeleteTexture(raw)
		return ErrOutOfMemory
	}
	t.raw = raw
	return nil
}

// Destroy deletes the texture and every framebuffer it is attached to.
// Destroy is idempotent.
func (t *Texture) Destroy() {
	if t.surface {
		return
	}
	d := t.dev
	d.lock.acquire()
	defer d.lock.release()
	if t.destroyed {
		return
	}
	t.destroyed = true
	d.cache.invalidateAttachment(d.state, t.id)
	if t.raw.Valid() {
		d.fns.DeleteTexture(t.raw)
		t.raw = 0
	}
	if t.renderbuffer.Valid() {
		d.fns.DeleteRenderbuffer(t.renderbuffer)
		t.renderbuffer = 0
	}
}

// SurfaceTexture returns a stand-in for the default framebuffer of the
// given size. Render passes targeting its view draw to framebuffer 0.
func (d *Device) SurfaceTexture(f gputypes.TextureFormat, width, height uint32) *Texture {
	info, _ := format.Lookup(f)
	return &Texture{
		dev:     d,
		id:      d.newID(),
		label:   "surface",
		format:  f,
		info:    info,
		size:    gputypes.Extent3D{Width: width, Height: height, DepthOrArrayLayers: 1},
		mips:    1,
		samples: 1,
		usage:   gputypes.TextureUsageRenderAttachment,
		surface: true,
	}
}

// TextureViewDescriptor selects a subresource range of a texture. Zero
// counts mean "the rest of the texture".
type TextureViewDescriptor struct {
	Label           string
	Format          gputypes.TextureFormat
	Dimension       gputypes.TextureViewDimension
	BaseMipLevel    uint32
	MipLevelCount   uint32
	BaseArrayLayer  uint32
	ArrayLayerCount uint32
}

// TextureView is a range of a texture. It shares the texture's GL object.
type TextureView struct {
	texture   *Texture
	label     string
	dimension gputypes.TextureViewDimension
	baseMip   uint32
	mipCount  uint32
	baseLayer uint32
	layers    uint32
}

// Texture returns the viewed texture.
func (v *TextureView) Texture() *Texture { return v.texture }

// CreateView creates a view of t. A nil descriptor views the whole
// texture.
func (t *Texture) CreateView(desc *TextureViewDescriptor) (*TextureView, error) {
	if desc == nil {
		desc = &TextureViewDescriptor{}
	}
	if t.destroyed {
		return nil, ErrDestroyed
	}
	layers := t.layers()
	v := &TextureView{
		texture:   t,
		label:     desc.Label,
		dimension: desc.Dimension,
		baseMip:   desc.BaseMipLevel,
		mipCount:  desc.MipLevelCount,
		baseLayer: desc.BaseArrayLayer,
		layers:    desc.ArrayLayerCount,
	}
	if v.baseMip >= t.mips || v.baseLayer >= layers {
		return nil, invalid("view %q starts outside texture %q", desc.Label, t.label)
	}
	if v.mipCount == 0 {
		v.mipCount = t.mips - v.baseMip
	}
	if v.layers == 0 {
		v.layers = layers - v.baseLayer
	}
	if v.baseMip+v.mipCount > t.mips || v.baseLayer+v.layers > layers {
		return nil, invalid("view %q range exceeds texture %q", desc.Label, t.label)
	}
	if v.dimension == 0 {
		v.dimension = defaultViewDimension(t)
	}
	return v, nil
}

func defaultViewDimension(t *Texture) gputypes.TextureViewDimension {
	switch t.target {
	case gl.TEXTURE_3D:
		return gputypes.TextureViewDimension3D
	case gl.TEXTURE_CUBE_MAP:
		return gputypes.TextureViewDimensionCube
	case gl.TEXTURE_2D_ARRAY:
		return gputypes.TextureViewDimension2DArray
	default:
		return gputypes.TextureViewDimension2D
	}
}

// mipExtent returns the size of the view's base mip level.
func (v *TextureView) mipExtent() (int, int) {
	w := max(int(v.texture.size.Width)>>v.baseMip, 1)
	h := max(int(v.texture.size.Height)>>v.baseMip, 1)
	return w, h
}

// TexelCopyTexture locates the destination of a texture upload.
type TexelCopyTexture struct {
	Texture  *Texture
	MipLevel uint32
	Origin   gputypes.Origin3D
}

// WriteTexture uploads data into a region of a texture. Uncompressed rows
// may be padded to layout.BytesPerRow. Compressed regions are rounded up
// to whole blocks and data must cover exactly the rounded region.
func (q *Queue) WriteTexture(dst *TexelCopyTexture, data []byte, layout gputypes.TextureDataLayout, size gputypes.Extent3D) error {
	t := dst.Texture
	if t.surface || t.renderbuffer.Valid() {
		return invalid("texture %q cannot be written", t.label)
	}
	if dst.MipLevel >= t.mips {
		return invalid("mip level %d of texture %q", dst.MipLevel, t.label)
	}
	if layout.Offset > uint64(len(data)) {
		return invalid("data offset %d beyond %d bytes", layout.Offset, len(data))
	}
	data = data[layout.Offset:]
	w, h, depth := int(size.Width), max(int(size.Height), 1), max(int(size.DepthOrArrayLayers), 1)
	if w == 0 {
		return nil
	}
	info := t.info

	return q.dev.locked(func() error {
		if t.destroyed {
			return ErrDestroyed
		}
		if info.Compressed() {
			return q.writeCompressed(dst, data, layout, w, h, depth)
		}
		return q.writeUncompressed(dst, data, layout, w, h, depth)
	})
}

func (q *Queue) writeUncompressed(dst *TexelCopyTexture, data []byte, layout gputypes.TextureDataLayout, w, h, depth int) error {
	t, fns := dst.Texture, q.dev.fns
	info := t.info
	bpr := int(layout.BytesPerRow)
	if bpr == 0 {
		bpr = w * info.BlockBytes
	}
	rows := int(layout.RowsPerImage)
	if rows == 0 {
		rows = h
	}
	if bpr < w*info.BlockBytes || rows < h {
		return invalid("row pitch %d or rows per image %d too small for %dx%d", bpr, rows, w, h)
	}
	need := bpr*rows*(depth-1) + bpr*(h-1) + w*info.BlockBytes
	if len(data) < need {
		return invalid("texture write needs %d bytes, got %d", need, len(data))
	}

	fns.PixelStorei(gl.UNPACK_ALIGNMENT, format.UnpackAlignment(bpr))
	fns.PixelStorei(gl.UNPACK_ROW_LENGTH, info.RowLength(bpr))
	defer fns.PixelStorei(gl.UNPACK_ROW_LENGTH, 0)

	level, o := int(dst.MipLevel), dst.Origin
	q.dev.state.bindScratchTexture(t.target, t.raw)
	switch t.target {
	case gl.TEXTURE_3D, gl.TEXTURE_2D_ARRAY:
		fns.PixelStorei(gl.UNPACK_IMAGE_HEIGHT, rows)
		defer fns.PixelStorei(gl.UNPACK_IMAGE_HEIGHT, 0)
		fns.TexSubImage3D(t.target, level, int(o.X), int(o.Y), int(o.Z), w, h, depth,
			info.External, info.Type, data[:need])
	case gl.TEXTURE_CUBE_MAP:
		image := bpr * rows
		for i := range depth {
			face := gl.Enum(gl.TEXTURE_CUBE_MAP_POSITIVE_X + int(o.Z) + i)
			fns.TexSubImage2D(face, level, int(o.X), int(o.Y), w, h,
				info.External, info.Type, data[i*image:])
		}
	default:
		fns.TexSubImage2D(t.target, level, int(o.X), int(o.Y), w, h, info.External, info.Type, data[:need])
	}
	return nil
}

func (q *Queue) writeCompressed(dst *TexelCopyTexture, data []byte, layout gputypes.TextureDataLayout, w, h, depth int) error {
	t, fns := dst.Texture, q.dev.fns
	info := t.info
	pw, ph := info.PhysicalSize(w, h)
	rowBytes := pw / info.BlockWidth * info.BlockBytes
	if bpr := int(layout.BytesPerRow); bpr != 0 && bpr != rowBytes {
		return invalid("compressed uploads need tightly packed rows: %d bytes per row, want %d", bpr, rowBytes)
	}
	want := info.ByteSize(w, h, depth)
	if len(data) != want {
		return ErrCompressedSize
	}

	level, o := int(dst.MipLevel), dst.Origin
	q.dev.state.bindScratchTexture(t.target, t.raw)
	switch t.target {
	case gl.TEXTURE_3D, gl.TEXTURE_2D_ARRAY:
		fns.CompressedTexSubImage3D(t.target, level, int(o.X), int(o.Y), int(o.Z), pw, ph, depth,
			info.Internal, data)
	case gl.TEXTURE_CUBE_MAP:
		image := want / depth
		for i := range depth {
			face := gl.Enum(gl.TEXTURE_CUBE_MAP_POSITIVE_X + int(o.Z) + i)
			fns.CompressedTexSubImage2D(face, level, int(o.X), int(o.Y), pw, ph,
				info.Internal, data[i*image:(i+1)*image])
		}
	default:
		fns.CompressedTexSubImage2D(t.target, level, int(o.X), int(o.Y), pw, ph, info.Internal, data)
	}
	return nil
}
