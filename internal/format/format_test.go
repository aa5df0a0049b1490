// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package format

import (
	"testing"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/gles/gl"
)

func TestLookupUncompressed(t *testing.T) {
	info, ok := Lookup(gputypes.TextureFormatRGBA8Unorm)
	if !ok {
		t.Fatal("RGBA8Unorm missing")
	}
	if info.Internal != gl.RGBA8 || info.External != gl.RGBA || info.Type != gl.UNSIGNED_BYTE {
		t.Errorf("RGBA8Unorm = %+v", info)
	}
	if info.Compressed() {
		t.Error("RGBA8Unorm reported as compressed")
	}
	if info.Requires != 0 {
		t.Errorf("Requires = %v, want 0", info.Requires)
	}
}

func TestPhysicalSizeRoundsToBlocks(t *testing.T) {
	tests := []struct {
		name   string
		format gputypes.TextureFormat
		w, h   int
		pw, ph int
		bytes  int
	}{
		{"bc1 exact", gputypes.TextureFormatBC1RGBAUnorm, 8, 8, 8, 8, 4 * 8},
		{"bc1 odd", gputypes.TextureFormatBC1RGBAUnorm, 5, 3, 8, 4, 2 * 8},
		{"bc3 one texel", gputypes.TextureFormatBC3RGBAUnorm, 1, 1, 4, 4, 16},
		{"astc8 odd", gputypes.TextureFormatASTC8x8Unorm, 9, 8, 16, 8, 2 * 16},
		{"rgba8", gputypes.TextureFormatRGBA8Unorm, 5, 3, 5, 3, 5 * 3 * 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, ok := Lookup(tt.format)
			if !ok {
				t.Fatalf("format %v missing", tt.format)
			}
			pw, ph := info.PhysicalSize(tt.w, tt.h)
			if pw != tt.pw || ph != tt.ph {
				t.Errorf("PhysicalSize(%d, %d) = %d, %d; want %d, %d", tt.w, tt.h, pw, ph, tt.pw, tt.ph)
			}
			if got := info.ByteSize(tt.w, tt.h, 1); got != tt.bytes {
				t.Errorf("ByteSize = %d, want %d", got, tt.bytes)
			}
		})
	}
}

func TestUnpackAlignment(t *testing.T) {
	for bpr, want := range map[int]int{16: 8, 12: 4, 6: 2, 3: 1, 0: 8} {
		if got := UnpackAlignment(bpr); got != want {
			t.Errorf("UnpackAlignment(%d) = %d, want %d", bpr, got, want)
		}
	}
}

func TestRowLength(t *testing.T) {
	rgba, _ := Lookup(gputypes.TextureFormatRGBA8Unorm)
	if got := rgba.RowLength(256); got != 64 {
		t.Errorf("rgba8 RowLength(256) = %d, want 64", got)
	}
	bc1, _ := Lookup(gputypes.TextureFormatBC1RGBAUnorm)
	if got := bc1.RowLength(32); got != 16 {
		t.Errorf("bc1 RowLength(32) = %d, want 16", got)
	}
}

func TestAttachment(t *testing.T) {
	ds, _ := Lookup(gputypes.TextureFormatDepth24PlusStencil8)
	if got := ds.Attachment(0); got != gl.DEPTH_STENCIL_ATTACHMENT {
		t.Errorf("depth-stencil attachment = %#x", got)
	}
	d, _ := Lookup(gputypes.TextureFormatDepth32Float)
	if got := d.Attachment(0); got != gl.DEPTH_ATTACHMENT {
		t.Errorf("depth attachment = %#x", got)
	}
	c, _ := Lookup(gputypes.TextureFormatRGBA8Unorm)
	if got := c.Attachment(2); got != gl.COLOR_ATTACHMENT0+2 {
		t.Errorf("color attachment = %#x", got)
	}
}

func TestDetect(t *testing.T) {
	native := Detect(map[string]bool{"GL_EXT_texture_compression_s3tc": true}, false)
	if !native.Has(FeatureS3TC | FeatureETC2) {
		t.Errorf("native features = %b, want S3TC and ETC2", native)
	}
	if native.Has(FeatureASTC) {
		t.Error("ASTC reported without extension")
	}

	web := Detect(map[string]bool{"WEBGL_compressed_texture_astc": true}, true)
	if web.Has(FeatureETC2) {
		t.Error("ETC2 reported on WebGL without extension")
	}
	if !web.Has(FeatureASTC) {
		t.Error("ASTC missing on WebGL")
	}
}
