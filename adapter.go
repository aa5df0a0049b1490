// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gles

import (
	"fmt"
	"strings"

	"github.com/gogpu/gles/gl"
	"github.com/gogpu/gles/internal/format"
	"github.com/gogpu/gles/internal/shader"
)

// AdapterInfo identifies the driver behind a device.
type AdapterInfo struct {
	Vendor   string
	Renderer string
	Version  string
	// ShadingLanguage is the GLSL dialect emitted for this device.
	ShadingLanguage ShaderVersion
}

// Limits are the GL implementation limits queried at device creation.
type Limits struct {
	MaxTextureSize               int
	Max3DTextureSize             int
	MaxArrayTextureLayers        int
	MaxVertexAttribs             int
	MaxUniformBufferBindings     int
	MaxTextureUnits              int
	UniformBufferOffsetAlignment int
	MaxSamples                   int
	MaxAnisotropy                float32
}

// Capabilities are the optional features the device exposes.
type Capabilities struct {
	// PersistentMapping is set when GL_EXT_buffer_storage is present.
	// Without it, mappable buffers keep a host shadow copy.
	PersistentMapping bool
	Anisotropy        bool
	// MultisampleTextures allows sampled multisample textures. Without it
	// multisampled render targets must be renderbuffers.
	MultisampleTextures bool

	S3TC       bool
	RGTC       bool
	BPTC       bool
	ETC2       bool
	ASTC       bool
	FloatColor bool
}

// Adapter is what the device learned about the GL context.
type Adapter struct {
	Info         AdapterInfo
	Limits       Limits
	Capabilities Capabilities

	extensions map[string]bool
	formats    format.Features
}

// HasExtension reports whether the context advertises name.
func (a *Adapter) HasExtension(name string) bool { return a.extensions[name] }

func queryAdapter(fns gl.Functions, override *shader.Version) (*Adapter, error) {
	a := &Adapter{
		Info: AdapterInfo{
			Vendor:   fns.GetString(gl.VENDOR),
			Renderer: fns.GetString(gl.RENDERER),
			Version:  fns.GetString(gl.VERSION),
		},
		extensions: queryExtensions(fns),
	}

	if override != nil {
		a.Info.ShadingLanguage = *override
	} else {
		v, err := shader.ParseVersion(fns.GetString(gl.SHADING_LANGUAGE_VERSION))
		if err != nil {
			return nil, fmt.Errorf("gles: %w", err)
		}
		a.Info.ShadingLanguage = v
	}
	webgl := a.Info.ShadingLanguage.WebGL

	a.Limits = Limits{
		MaxTextureSize:               fns.GetInteger(gl.MAX_TEXTURE_SIZE),
		Max3DTextureSize:             fns.GetInteger(gl.MAX_3D_TEXTURE_SIZE),
		MaxArrayTextureLayers:        fns.GetInteger(gl.MAX_ARRAY_TEXTURE_LAYERS),
		MaxVertexAttribs:             fns.GetInteger(gl.MAX_VERTEX_ATTRIBS),
		MaxUniformBufferBindings:     fns.GetInteger(gl.MAX_UNIFORM_BUFFER_BINDINGS),
		MaxTextureUnits:              fns.GetInteger(gl.MAX_COMBINED_TEXTURE_IMAGE_UNITS),
		UniformBufferOffsetAlignment: fns.GetInteger(gl.UNIFORM_BUFFER_OFFSET_ALIGNMENT),
		MaxSamples:                   fns.GetInteger(gl.MAX_SAMPLES),
	}
	if a.Limits.UniformBufferOffsetAlignment <= 0 {
		a.Limits.UniformBufferOffsetAlignment = 256
	}

	a.formats = format.Detect(a.extensions, webgl)
	caps := &a.Capabilities
	caps.S3TC = a.formats.Has(format.FeatureS3TC)
	caps.RGTC = a.formats.Has(format.FeatureRGTC)
	caps.BPTC = a.formats.Has(format.FeatureBPTC)
	caps.ETC2 = a.formats.Has(format.FeatureETC2)
	caps.ASTC = a.formats.Has(format.FeatureASTC)
	caps.FloatColor = a.formats.Has(format.FeatureFloatRender)
	caps.PersistentMapping = !webgl && a.extensions["GL_EXT_buffer_storage"]
	caps.MultisampleTextures = !webgl && a.Info.ShadingLanguage.ES && a.Info.ShadingLanguage.Number >= 310

	if a.extensions["GL_EXT_texture_filter_anisotropic"] || a.extensions["EXT_texture_filter_anisotropic"] {
		caps.Anisotropy = true
		a.Limits.MaxAnisotropy = fns.GetFloat(gl.MAX_TEXTURE_MAX_ANISOTROPY_EXT)
	}
	return a, nil
}

// queryExtensions reads the indexed extension list, falling back to the
// space separated string on contexts that only provide that.
func queryExtensions(fns gl.Functions) map[string]bool {
	exts := make(map[string]bool)
	if n := fns.GetInteger(gl.NUM_EXTENSIONS); n > 0 {
		for i := range n {
			exts[fns.GetStringi(gl.EXTENSIONS, i)] = true
		}
		return exts
	}
	for _, e := range strings.Fields(fns.GetString(gl.EXTENSIONS)) {
		exts[e] = true
	}
	return exts
}
