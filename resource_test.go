// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gles

import (
	"bytes"
	"errors"
	"testing"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/gles/gl"
	"github.com/gogpu/gles/gl/gltest"
)

// =============================================================================
// Buffers
// =============================================================================

func TestCreateBufferSize(t *testing.T) {
	d, _ := newTestDevice(t)
	tests := []struct {
		name     string
		desc     BufferDescriptor
		wantSize uint64
		wantErr  error
	}{
		{"zero", BufferDescriptor{Usage: gputypes.BufferUsageVertex}, 0, ErrZeroSizedBuffer},
		{"rounded", BufferDescriptor{Size: 5, Usage: gputypes.BufferUsageVertex}, 8, nil},
		{"aligned", BufferDescriptor{Size: 64, Usage: gputypes.BufferUsageUniform}, 64, nil},
		{"from contents", BufferDescriptor{Usage: gputypes.BufferUsageIndex, Contents: make([]byte, 6)}, 8, nil},
		{"empty contents", BufferDescriptor{Size: 16, Usage: gputypes.BufferUsageVertex, Contents: []byte{}}, 0, ErrZeroSizedBuffer},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := d.CreateBuffer(&tt.desc)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("CreateBuffer() error = %v, want %v", err, tt.wantErr)
			}
			if err == nil && b.Size() != tt.wantSize {
				t.Errorf("Size() = %d, want %d", b.Size(), tt.wantSize)
			}
		})
	}
}

func TestBufferContentsUploaded(t *testing.T) {
	d, f := newTestDevice(t)
	data := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	b, err := d.CreateBuffer(&BufferDescriptor{Usage: gputypes.BufferUsageVertex, Contents: data})
	if err != nil {
		t.Fatal(err)
	}
	if got := f.BufferContents(b.raw); !bytes.Equal(got, data) {
		t.Errorf("contents = %v, want %v", got, data)
	}
	c, _ := f.Last("BufferData")
	if c.Args[0] != gl.Enum(gl.ARRAY_BUFFER) || c.Args[2] != gl.Enum(gl.STATIC_DRAW) {
		t.Errorf("BufferData%v, want ARRAY_BUFFER STATIC_DRAW", c.Args)
	}
}

func TestHostOnlyBufferHasNoGLObject(t *testing.T) {
	d, f := newTestDevice(t)
	b := mustBuffer(t, d, 16, gputypes.BufferUsageMapWrite|gputypes.BufferUsageCopySrc)
	if n := f.Live("Buffer"); n != 0 {
		t.Fatalf("host-only buffer created %d GL buffers", n)
	}

	m, err := b.Map(gputypes.MapModeWrite, 4, 8)
	if err != nil {
		t.Fatal(err)
	}
	copy(m, []byte{9, 9, 9, 9})
	if _, err := b.Map(gputypes.MapModeWrite, 0, 4); !errors.Is(err, ErrInvalidDescriptor) {
		t.Errorf("second Map() = %v, want ErrInvalidDescriptor", err)
	}
	if err := b.Unmap(); err != nil {
		t.Fatal(err)
	}
	if b.shadow[4] != 9 {
		t.Errorf("shadow = %v, write lost", b.shadow)
	}
	if n := f.Count("BufferSubData"); n != 0 {
		t.Errorf("host-only unmap issued %d uploads", n)
	}
}

func TestShadowedBufferFlushesOnUnmap(t *testing.T) {
	d, f := newTestDevice(t)
	b := mustBuffer(t, d, 16, gputypes.BufferUsageMapWrite|gputypes.BufferUsageVertex)
	if b.shadow == nil || !b.raw.Valid() {
		t.Fatal("mappable vertex buffer needs a shadow and a GL object")
	}

	m, err := b.Map(gputypes.MapModeWrite, 8, 8)
	if err != nil {
		t.Fatal(err)
	}
	copy(m, []byte{1, 2, 3, 4, 5, 6, 7, 8})
	if err := b.Unmap(); err != nil {
		t.Fatal(err)
	}
	c, ok := f.Last("BufferSubData")
	if !ok || c.Args[1] != 8 || c.Args[2] != 8 {
		t.Fatalf("BufferSubData%v, want offset 8 length 8", c.Args)
	}
	if got := f.BufferContents(b.raw)[8:]; !bytes.Equal(got, []byte{1, 2, 3, 4, 5, 6, 7, 8}) {
		t.Errorf("GL contents = %v", got)
	}
}

func TestMappedAtCreation(t *testing.T) {
	d, f := newTestDevice(t)
	b, err := d.CreateBuffer(&BufferDescriptor{
		Size:             8,
		Usage:            gputypes.BufferUsageUniform,
		MappedAtCreation: true,
	})
	if err != nil {
		t.Fatal(err)
	}
	if b.mapped == nil {
		t.Fatal("buffer not mapped at creation")
	}
	copy(b.mapped, []byte{4, 3, 2, 1})
	if err := b.Unmap(); err != nil {
		t.Fatal(err)
	}
	if got := f.BufferContents(b.raw)[:4]; !bytes.Equal(got, []byte{4, 3, 2, 1}) {
		t.Errorf("GL contents = %v after unmap", got)
	}
	if err := b.Unmap(); err != nil {
		t.Errorf("Unmap() of unmapped buffer = %v", err)
	}
}

func TestPersistentMapping(t *testing.T) {
	f := gltest.New()
	f.Extensions = []string{"GL_EXT_buffer_storage"}
	d, _ := newTestDeviceWith(t, f)
	b := mustBuffer(t, d, 16, gputypes.BufferUsageMapRead|gputypes.BufferUsageVertex)
	if b.shadow != nil {
		t.Fatal("buffer shadowed despite persistent mapping")
	}
	if _, err := b.Map(gputypes.MapModeRead, 0, 16); err != nil {
		t.Fatal(err)
	}
	b.Unmap()
	if f.Count("MapBufferRange") != 1 || f.Count("UnmapBuffer") != 1 {
		t.Errorf("calls = %s, want a GL map and unmap", callNames(f))
	}
}

func TestWriteBuffer(t *testing.T) {
	d, f := newTestDevice(t)
	b := mustBuffer(t, d, 16, gputypes.BufferUsageUniform|gputypes.BufferUsageCopyDst)
	q := d.Queue()

	tests := []struct {
		name   string
		offset uint64
		data   []byte
		ok     bool
	}{
		{"aligned", 4, []byte{1, 2, 3, 4}, true},
		{"unaligned offset", 2, []byte{1, 2, 3, 4}, false},
		{"unaligned size", 0, []byte{1, 2, 3}, false},
		{"past end", 12, make([]byte, 8), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := q.WriteBuffer(b, tt.offset, tt.data)
			if tt.ok && err != nil {
				t.Fatalf("WriteBuffer() = %v", err)
			}
			if !tt.ok && !errors.Is(err, ErrInvalidDescriptor) {
				t.Fatalf("WriteBuffer() = %v, want ErrInvalidDescriptor", err)
			}
		})
	}
	if got := f.BufferContents(b.raw)[4:8]; !bytes.Equal(got, []byte{1, 2, 3, 4}) {
		t.Errorf("contents = %v", got)
	}
}

func TestBufferDestroy(t *testing.T) {
	d, f := newTestDevice(t)
	b := mustBuffer(t, d, 16, gputypes.BufferUsageVertex)
	b.Destroy()
	b.Destroy()
	if n := f.Live("Buffer"); n != 0 {
		t.Errorf("%d buffers live after Destroy", n)
	}
	if n := f.Count("DeleteBuffer"); n != 1 {
		t.Errorf("DeleteBuffer called %d times, want 1", n)
	}
	if err := d.Queue().WriteBuffer(b, 0, make([]byte, 4)); !errors.Is(err, ErrDestroyed) {
		t.Errorf("WriteBuffer() after Destroy = %v, want ErrDestroyed", err)
	}
	if _, err := b.Map(gputypes.MapModeRead, 0, 4); !errors.Is(err, ErrDestroyed) {
		t.Errorf("Map() after Destroy = %v, want ErrDestroyed", err)
	}
}

// =============================================================================
// Textures
// =============================================================================

func TestTextureBacking(t *testing.T) {
	tests := []struct {
		name    string
		desc    TextureDescriptor
		storage string
		target  gl.Enum
		rb      bool
	}{
		{
			name: "render only",
			desc: TextureDescriptor{
				Size:   gputypes.Extent3D{Width: 16, Height: 16},
				Format: gputypes.TextureFormatRGBA8Unorm,
				Usage:  gputypes.TextureUsageRenderAttachment,
			},
			storage: "RenderbufferStorageMultisample",
			rb:      true,
		},
		{
			name: "sampled 2D",
			desc: TextureDescriptor{
				Size:          gputypes.Extent3D{Width: 16, Height: 16},
				MipLevelCount: 3,
				Format:        gputypes.TextureFormatRGBA8Unorm,
				Usage:         gputypes.TextureUsageTextureBinding,
			},
			storage: "TexStorage2D",
			target:  gl.TEXTURE_2D,
		},
		{
			name: "cube",
			desc: TextureDescriptor{
				Size:              gputypes.Extent3D{Width: 16, Height: 16, DepthOrArrayLayers: 6},
				Format:            gputypes.TextureFormatRGBA8Unorm,
				Usage:             gputypes.TextureUsageTextureBinding,
				ViewDimensionHint: gputypes.TextureViewDimensionCube,
			},
			storage: "TexStorage2D",
			target:  gl.TEXTURE_CUBE_MAP,
		},
		{
			name: "array",
			desc: TextureDescriptor{
				Size:   gputypes.Extent3D{Width: 16, Height: 16, DepthOrArrayLayers: 6},
				Format: gputypes.TextureFormatRGBA8Unorm,
				Usage:  gputypes.TextureUsageTextureBinding,
			},
			storage: "TexStorage3D",
			target:  gl.TEXTURE_2D_ARRAY,
		},
		{
			name: "3D",
			desc: TextureDescriptor{
				Size:      gputypes.Extent3D{Width: 16, Height: 16, DepthOrArrayLayers: 4},
				Dimension: gputypes.TextureDimension3D,
				Format:    gputypes.TextureFormatRGBA8Unorm,
				Usage:     gputypes.TextureUsageTextureBinding | gputypes.TextureUsageRenderAttachment,
			},
			storage: "TexStorage3D",
			target:  gl.TEXTURE_3D,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, f := newTestDevice(t)
			tex, err := d.CreateTexture(&tt.desc)
			if err != nil {
				t.Fatal(err)
			}
			if tex.IsRenderbuffer() != tt.rb {
				t.Errorf("IsRenderbuffer() = %v, want %v", tex.IsRenderbuffer(), tt.rb)
			}
			if n := f.Count(tt.storage); n != 1 {
				t.Errorf("%s called %d times, want 1", tt.storage, n)
			}
			if !tt.rb {
				c, _ := f.Last(tt.storage)
				if c.Args[0] != tt.target {
					t.Errorf("%s target = %v, want %v", tt.storage, c.Args[0], tt.target)
				}
			}
		})
	}
}

func TestTextureMaxLevel(t *testing.T) {
	d, f := newTestDevice(t)
	_, err := d.CreateTexture(&TextureDescriptor{
		Size:          gputypes.Extent3D{Width: 16, Height: 16},
		MipLevelCount: 3,
		Format:        gputypes.TextureFormatRGBA8Unorm,
		Usage:         gputypes.TextureUsageTextureBinding,
	})
	if err != nil {
		t.Fatal(err)
	}
	c, _ := f.Last("TexParameteri")
	if c.Args[1] != gl.Enum(gl.TEXTURE_MAX_LEVEL) || c.Args[2] != 2 {
		t.Errorf("TexParameteri%v, want MAX_LEVEL 2", c.Args)
	}
}

func TestCreateTextureValidation(t *testing.T) {
	d, _ := newTestDevice(t)
	tests := []struct {
		name string
		desc TextureDescriptor
		want error
	}{
		{"zero width", TextureDescriptor{Format: gputypes.TextureFormatRGBA8Unorm, Usage: gputypes.TextureUsageTextureBinding}, ErrInvalidDescriptor},
		{"too large", TextureDescriptor{
			Size:   gputypes.Extent3D{Width: 8192, Height: 1},
			Format: gputypes.TextureFormatRGBA8Unorm,
			Usage:  gputypes.TextureUsageTextureBinding,
		}, ErrInvalidDescriptor},
		{"cube layers", TextureDescriptor{
			Size:              gputypes.Extent3D{Width: 16, Height: 16, DepthOrArrayLayers: 4},
			Format:            gputypes.TextureFormatRGBA8Unorm,
			Usage:             gputypes.TextureUsageTextureBinding,
			ViewDimensionHint: gputypes.TextureViewDimensionCube,
		}, ErrInvalidDescriptor},
		{"sampled multisample", TextureDescriptor{
			Size:        gputypes.Extent3D{Width: 16, Height: 16},
			SampleCount: 4,
			Format:      gputypes.TextureFormatRGBA8Unorm,
			Usage:       gputypes.TextureUsageTextureBinding | gputypes.TextureUsageRenderAttachment,
		}, ErrInvalidDescriptor},
		{"compressed without extension", TextureDescriptor{
			Size:   gputypes.Extent3D{Width: 16, Height: 16},
			Format: gputypes.TextureFormatBC1RGBAUnorm,
			Usage:  gputypes.TextureUsageTextureBinding,
		}, ErrUnsupportedFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := d.CreateTexture(&tt.desc); !errors.Is(err, tt.want) {
				t.Errorf("CreateTexture() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestWriteTexturePaddedRows(t *testing.T) {
	d, f := newTestDevice(t)
	tex := mustTexture(t, d, gputypes.TextureUsageTextureBinding|gputypes.TextureUsageCopyDst)
	err := d.Queue().WriteTexture(&TexelCopyTexture{Texture: tex}, make([]byte, 64),
		gputypes.TextureDataLayout{BytesPerRow: 32}, gputypes.Extent3D{Width: 4, Height: 2})
	if err != nil {
		t.Fatal(err)
	}
	c, _ := f.Last("TexSubImage2D")
	// 32 bytes for the first row plus 16 for the last.
	if c.Args[len(c.Args)-1] != 48 {
		t.Errorf("TexSubImage2D%v, want 48 bytes", c.Args)
	}
	var rowLengths []any
	for _, call := range f.Calls {
		if call.Name == "PixelStorei" && call.Args[0] == gl.Enum(gl.UNPACK_ROW_LENGTH) {
			rowLengths = append(rowLengths, call.Args[1])
		}
	}
	if len(rowLengths) != 2 || rowLengths[0] != 8 || rowLengths[1] != 0 {
		t.Errorf("UNPACK_ROW_LENGTH set to %v, want 8 then reset", rowLengths)
	}

	err = d.Queue().WriteTexture(&TexelCopyTexture{Texture: tex}, make([]byte, 16),
		gputypes.TextureDataLayout{BytesPerRow: 32}, gputypes.Extent3D{Width: 4, Height: 2})
	if !errors.Is(err, ErrInvalidDescriptor) {
		t.Errorf("short write = %v, want ErrInvalidDescriptor", err)
	}
}

func TestWriteCompressedTexture(t *testing.T) {
	f := gltest.New()
	f.Extensions = []string{"GL_EXT_texture_compression_s3tc"}
	d, _ := newTestDeviceWith(t, f)
	tex, err := d.CreateTexture(&TextureDescriptor{
		Size:   gputypes.Extent3D{Width: 8, Height: 8},
		Format: gputypes.TextureFormatBC1RGBAUnorm,
		Usage:  gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst,
	})
	if err != nil {
		t.Fatal(err)
	}
	dst := &TexelCopyTexture{Texture: tex}
	region := gputypes.Extent3D{Width: 5, Height: 3}

	// 5x3 rounds up to 8x4: two blocks of eight bytes.
	if err := d.Queue().WriteTexture(dst, make([]byte, 16), gputypes.TextureDataLayout{}, region); err != nil {
		t.Fatal(err)
	}
	c, _ := f.Last("CompressedTexSubImage2D")
	if c.Args[4] != 8 || c.Args[5] != 4 || c.Args[7] != 16 {
		t.Errorf("CompressedTexSubImage2D%v, want 8x4 and 16 bytes", c.Args)
	}

	for _, n := range []int{15, 17} {
		err := d.Queue().WriteTexture(dst, make([]byte, n), gputypes.TextureDataLayout{}, region)
		if !errors.Is(err, ErrCompressedSize) {
			t.Errorf("WriteTexture(%d bytes) = %v, want ErrCompressedSize", n, err)
		}
	}
}

func TestWriteTextureRejectsRenderbuffer(t *testing.T) {
	d, _ := newTestDevice(t)
	tex := mustTexture(t, d, gputypes.TextureUsageRenderAttachment)
	err := d.Queue().WriteTexture(&TexelCopyTexture{Texture: tex}, make([]byte, 16),
		gputypes.TextureDataLayout{}, gputypes.Extent3D{Width: 2, Height: 2})
	if !errors.Is(err, ErrInvalidDescriptor) {
		t.Errorf("WriteTexture() = %v, want ErrInvalidDescriptor", err)
	}
}

func TestTextureViews(t *testing.T) {
	d, _ := newTestDevice(t)
	tex, err := d.CreateTexture(&TextureDescriptor{
		Size:          gputypes.Extent3D{Width: 16, Height: 16, DepthOrArrayLayers: 4},
		MipLevelCount: 4,
		Format:        gputypes.TextureFormatRGBA8Unorm,
		Usage:         gputypes.TextureUsageTextureBinding,
	})
	if err != nil {
		t.Fatal(err)
	}
	v, err := tex.CreateView(&TextureViewDescriptor{BaseMipLevel: 2, BaseArrayLayer: 1})
	if err != nil {
		t.Fatal(err)
	}
	if v.mipCount != 2 || v.layers != 3 || v.dimension != gputypes.TextureViewDimension2DArray {
		t.Errorf("view = %+v, want 2 mips, 3 layers, 2D array", v)
	}
	if w, h := v.mipExtent(); w != 4 || h != 4 {
		t.Errorf("mipExtent() = %dx%d, want 4x4", w, h)
	}

	bad := []TextureViewDescriptor{
		{BaseMipLevel: 4},
		{BaseArrayLayer: 4},
		{BaseMipLevel: 1, MipLevelCount: 4},
		{ArrayLayerCount: 5},
	}
	for _, desc := range bad {
		if _, err := tex.CreateView(&desc); !errors.Is(err, ErrInvalidDescriptor) {
			t.Errorf("CreateView(%+v) = %v, want ErrInvalidDescriptor", desc, err)
		}
	}

	tex.Destroy()
	tex.Destroy()
	if _, err := tex.CreateView(nil); !errors.Is(err, ErrDestroyed) {
		t.Errorf("CreateView() after Destroy = %v, want ErrDestroyed", err)
	}
}

// =============================================================================
// Samplers
// =============================================================================

func TestSamplerParameters(t *testing.T) {
	d, f := newTestDevice(t)
	s, err := d.CreateSampler(&SamplerDescriptor{
		MagFilter:     gputypes.FilterModeLinear,
		MinFilter:     gputypes.FilterModeLinear,
		MipmapFilter:  gputypes.FilterModeLinear,
		Compare:       gputypes.CompareFunctionLess,
		MaxAnisotropy: 8,
	})
	if err != nil {
		t.Fatal(err)
	}
	params := map[gl.Enum]any{}
	for _, c := range f.Calls {
		if c.Name == "SamplerParameteri" || c.Name == "SamplerParameterf" {
			params[c.Args[1].(gl.Enum)] = c.Args[2]
		}
	}
	if params[gl.TEXTURE_MIN_FILTER] != int(gl.LINEAR_MIPMAP_LINEAR) {
		t.Errorf("MIN_FILTER = %v, want LINEAR_MIPMAP_LINEAR", params[gl.TEXTURE_MIN_FILTER])
	}
	if params[gl.TEXTURE_COMPARE_MODE] != int(gl.COMPARE_REF_TO_TEXTURE) {
		t.Errorf("COMPARE_MODE = %v", params[gl.TEXTURE_COMPARE_MODE])
	}
	if _, ok := params[gl.TEXTURE_MAX_ANISOTROPY_EXT]; ok {
		t.Error("anisotropy set without the extension")
	}

	s.Destroy()
	s.Destroy()
	if n := f.Live("Sampler"); n != 0 {
		t.Errorf("%d samplers live after Destroy", n)
	}
}

func TestSamplerAnisotropyClamped(t *testing.T) {
	f := gltest.New()
	f.Extensions = []string{"GL_EXT_texture_filter_anisotropic"}
	d, _ := newTestDeviceWith(t, f)
	if _, err := d.CreateSampler(&SamplerDescriptor{MaxAnisotropy: 64}); err != nil {
		t.Fatal(err)
	}
	c, ok := f.Last("SamplerParameterf")
	if !ok || c.Args[1] != gl.Enum(gl.TEXTURE_MAX_ANISOTROPY_EXT) || c.Args[2] != float32(16) {
		t.Errorf("SamplerParameterf%v, want anisotropy clamped to 16", c.Args)
	}
}
