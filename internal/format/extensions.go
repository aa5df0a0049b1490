// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package format

// Detect derives the available format families from an extension set.
// Native GLES 3.0 includes ETC2/EAC in core; WebGL2 exposes it as an
// extension.
func Detect(exts map[string]bool, webgl bool) Features {
	var f Features
	has := func(names ...string) bool {
		for _, n := range names {
			if exts[n] {
				return true
			}
		}
		return false
	}
	if has("GL_EXT_texture_compression_s3tc", "WEBGL_compressed_texture_s3tc") {
		f |= FeatureS3TC
	}
	if has("GL_EXT_texture_compression_rgtc", "EXT_texture_compression_rgtc") {
		f |= FeatureRGTC
	}
	if has("GL_EXT_texture_compression_bptc", "EXT_texture_compression_bptc") {
		f |= FeatureBPTC
	}
	if !webgl || has("WEBGL_compressed_texture_etc") {
		f |= FeatureETC2
	}
	if has("GL_KHR_texture_compression_astc_ldr", "GL_KHR_texture_compression_astc_hdr", "WEBGL_compressed_texture_astc") {
		f |= FeatureASTC
	}
	if has("GL_EXT_color_buffer_float", "EXT_color_buffer_float") {
		f |= FeatureFloatRender
	}
	return f
}
