// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package format maps WebGPU texture formats onto GLES storage: sized
// internal format, upload format/type pair, block geometry and the
// extension a format needs.
package format

import (
	"github.com/gogpu/gputypes"

	"github.com/gogpu/gles/gl"
)

// Features is a set of optional texture format families.
type Features uint32

const (
	// FeatureS3TC covers BC1-BC3.
	FeatureS3TC Features = 1 << iota
	// FeatureRGTC covers BC4-BC5.
	FeatureRGTC
	// FeatureBPTC covers BC6H-BC7.
	FeatureBPTC
	FeatureETC2
	FeatureASTC
	// FeatureFloatRender allows float formats as color attachments.
	FeatureFloatRender
)

// Has reports whether every feature in want is in f.
func (f Features) Has(want Features) bool { return f&want == want }

// Info describes how a texture format is stored in GL.
type Info struct {
	Internal gl.Enum
	// External and Type are the client format/type pair for uploads.
	// Both are zero for compressed formats.
	External gl.Enum
	Type     gl.Enum

	// BlockWidth and BlockHeight are 1 for uncompressed formats, in which
	// case BlockBytes is the size of one texel.
	BlockWidth  int
	BlockHeight int
	BlockBytes  int

	Depth   bool
	Stencil bool
	// Integer formats are unfilterable and cleared with the integer clear
	// entry points.
	Integer bool

	// Requires is the feature the format depends on, zero for core formats.
	Requires Features
}

// Compressed reports whether the format stores texels in blocks.
func (i Info) Compressed() bool { return i.BlockWidth > 1 || i.BlockHeight > 1 }

func color(internal, external, ty gl.Enum, size int) Info {
	return Info{Internal: internal, External: external, Type: ty, BlockWidth: 1, BlockHeight: 1, BlockBytes: size}
}

func block(internal gl.Enum, w, h, size int, req Features) Info {
	return Info{Internal: internal, BlockWidth: w, BlockHeight: h, BlockBytes: size, Requires: req}
}

var table = map[gputypes.TextureFormat]Info{
	gputypes.TextureFormatR8Unorm:        color(gl.R8, gl.RED, gl.UNSIGNED_BYTE, 1),
	gputypes.TextureFormatRG8Unorm:       color(gl.RG8, gl.RG, gl.UNSIGNED_BYTE, 2),
	gputypes.TextureFormatR16Float:       color(gl.R16F, gl.RED, gl.HALF_FLOAT, 2),
	gputypes.TextureFormatR32Float:       color(gl.R32F, gl.RED, gl.FLOAT, 4),
	gputypes.TextureFormatRG32Float:      color(gl.RG32F, gl.RG, gl.FLOAT, 8),
	gputypes.TextureFormatRGBA8Unorm:     color(gl.RGBA8, gl.RGBA, gl.UNSIGNED_BYTE, 4),
	gputypes.TextureFormatRGBA8UnormSrgb: color(gl.SRGB8_ALPHA8, gl.RGBA, gl.UNSIGNED_BYTE, 4),
	// GLES has no BGRA storage; the bytes are kept as uploaded.
	gputypes.TextureFormatBGRA8Unorm:     color(gl.RGBA8, gl.RGBA, gl.UNSIGNED_BYTE, 4),
	gputypes.TextureFormatBGRA8UnormSrgb: color(gl.SRGB8_ALPHA8, gl.RGBA, gl.UNSIGNED_BYTE, 4),
	gputypes.TextureFormatRGB10A2Unorm:   color(gl.RGB10_A2, gl.RGBA, gl.UNSIGNED_INT_2_10_10_10_REV, 4),
	gputypes.TextureFormatRGBA16Float:    color(gl.RGBA16F, gl.RGBA, gl.HALF_FLOAT, 8),
	gputypes.TextureFormatRGBA32Float:    color(gl.RGBA32F, gl.RGBA, gl.FLOAT, 16),

	gputypes.TextureFormatR32Uint: {
		Internal: gl.R32UI, External: gl.RED_INTEGER, Type: gl.UNSIGNED_INT,
		BlockWidth: 1, BlockHeight: 1, BlockBytes: 4, Integer: true,
	},
	gputypes.TextureFormatRGBA8Uint: {
		Internal: gl.RGBA8UI, External: gl.RGBA_INTEGER, Type: gl.UNSIGNED_BYTE,
		BlockWidth: 1, BlockHeight: 1, BlockBytes: 4, Integer: true,
	},

	gputypes.TextureFormatDepth16Unorm: {
		Internal: gl.DEPTH_COMPONENT16, External: gl.DEPTH_COMPONENT, Type: gl.UNSIGNED_SHORT,
		BlockWidth: 1, BlockHeight: 1, BlockBytes: 2, Depth: true,
	},
	gputypes.TextureFormatDepth24Plus: {
		Internal: gl.DEPTH_COMPONENT24, External: gl.DEPTH_COMPONENT, Type: gl.UNSIGNED_INT,
		BlockWidth: 1, BlockHeight: 1, BlockBytes: 4, Depth: true,
	},
	gputypes.TextureFormatDepth24PlusStencil8: {
		Internal: gl.DEPTH24_STENCIL8, External: gl.DEPTH_STENCIL, Type: gl.UNSIGNED_INT_24_8,
		BlockWidth: 1, BlockHeight: 1, BlockBytes: 4, Depth: true, Stencil: true,
	},
	gputypes.TextureFormatDepth32Float: {
		Internal: gl.DEPTH_COMPONENT32F, External: gl.DEPTH_COMPONENT, Type: gl.FLOAT,
		BlockWidth: 1, BlockHeight: 1, BlockBytes: 4, Depth: true,
	},
	gputypes.TextureFormatStencil8: {
		Internal: gl.STENCIL_INDEX8, External: gl.STENCIL, Type: gl.UNSIGNED_BYTE,
		BlockWidth: 1, BlockHeight: 1, BlockBytes: 1, Stencil: true,
	},

	gputypes.TextureFormatBC1RGBAUnorm: block(gl.COMPRESSED_RGBA_S3TC_DXT1_EXT, 4, 4, 8, FeatureS3TC),
	gputypes.TextureFormatBC2RGBAUnorm: block(gl.COMPRESSED_RGBA_S3TC_DXT3_EXT, 4, 4, 16, FeatureS3TC),
	gputypes.TextureFormatBC3RGBAUnorm: block(gl.COMPRESSED_RGBA_S3TC_DXT5_EXT, 4, 4, 16, FeatureS3TC),
	gputypes.TextureFormatBC4RUnorm:    block(gl.COMPRESSED_RED_RGTC1_EXT, 4, 4, 8, FeatureRGTC),
	gputypes.TextureFormatBC5RGUnorm:   block(gl.COMPRESSED_RED_GREEN_RGTC2_EXT, 4, 4, 16, FeatureRGTC),
	gputypes.TextureFormatBC7RGBAUnorm: block(gl.COMPRESSED_RGBA_BPTC_UNORM_EXT, 4, 4, 16, FeatureBPTC),

	gputypes.TextureFormatETC2RGB8Unorm:  block(gl.COMPRESSED_RGB8_ETC2, 4, 4, 8, FeatureETC2),
	gputypes.TextureFormatETC2RGBA8Unorm: block(gl.COMPRESSED_RGBA8_ETC2_EAC, 4, 4, 16, FeatureETC2),
	gputypes.TextureFormatEACR11Unorm:    block(gl.COMPRESSED_R11_EAC, 4, 4, 8, FeatureETC2),
	gputypes.TextureFormatEACRG11Unorm:   block(gl.COMPRESSED_RG11_EAC, 4, 4, 16, FeatureETC2),

	gputypes.TextureFormatASTC4x4Unorm: block(gl.COMPRESSED_RGBA_ASTC_4x4_KHR, 4, 4, 16, FeatureASTC),
	gputypes.TextureFormatASTC8x8Unorm: block(gl.COMPRESSED_RGBA_ASTC_8x8_KHR, 8, 8, 16, FeatureASTC),
}

// Lookup returns the GL description of f.
func Lookup(f gputypes.TextureFormat) (Info, bool) {
	info, ok := table[f]
	return info, ok
}

// PhysicalSize rounds a width and height up to whole blocks.
func (i Info) PhysicalSize(width, height int) (int, int) {
	return roundUp(width, i.BlockWidth), roundUp(height, i.BlockHeight)
}

// ByteSize returns the number of bytes covering a width x height x depth
// region once it is rounded up to whole blocks.
func (i Info) ByteSize(width, height, depth int) int {
	w, h := i.PhysicalSize(width, height)
	return (w / i.BlockWidth) * (h / i.BlockHeight) * i.BlockBytes * depth
}

// RowLength converts a row pitch in bytes to texels, the unit of
// UNPACK_ROW_LENGTH.
func (i Info) RowLength(bytesPerRow int) int {
	return bytesPerRow / i.BlockBytes * i.BlockWidth
}

// UnpackAlignment returns the largest GL unpack alignment dividing
// bytesPerRow.
func UnpackAlignment(bytesPerRow int) int {
	switch {
	case bytesPerRow%8 == 0:
		return 8
	case bytesPerRow%4 == 0:
		return 4
	case bytesPerRow%2 == 0:
		return 2
	default:
		return 1
	}
}

// Attachment returns the framebuffer attachment point for the format,
// using COLOR_ATTACHMENT0+index for color formats.
func (i Info) Attachment(index int) gl.Enum {
	switch {
	case i.Depth && i.Stencil:
		return gl.DEPTH_STENCIL_ATTACHMENT
	case i.Depth:
		return gl.DEPTH_ATTACHMENT
	case i.Stencil:
		return gl.STENCIL_ATTACHMENT
	default:
		return gl.Enum(gl.COLOR_ATTACHMENT0 + index)
	}
}

func roundUp(v, to int) int {
	if to <= 1 {
		return v
	}
	return (v + to - 1) / to * to
}
