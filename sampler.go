// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gles

import (
	"github.com/gogpu/gputypes"

	"github.com/gogpu/gles/gl"
)

// SamplerDescriptor describes a sampler.
type SamplerDescriptor struct {
	Label        string
	AddressModeU gputypes.AddressMode
	AddressModeV gputypes.AddressMode
	AddressModeW gputypes.AddressMode
	MagFilter    gputypes.FilterMode
	MinFilter    gputypes.FilterMode
	MipmapFilter gputypes.FilterMode
	LodMinClamp  float32
	// LodMaxClamp of zero means no clamp.
	LodMaxClamp float32
	// Compare, when set, makes this a comparison sampler.
	Compare gputypes.CompareFunction
	// MaxAnisotropy above 1 enables anisotropic filtering where supported.
	MaxAnisotropy uint16
}

// Sampler is a GL sampler object.
type Sampler struct {
	dev       *Device
	label     string
	raw       gl.Sampler
	destroyed bool
}

// Label returns the sampler's label.
func (s *Sampler) Label() string { return s.label }

// CreateSampler creates a sampler object.
func (d *Device) CreateSampler(desc *SamplerDescriptor) (*Sampler, error) {
	if desc == nil {
		desc = &SamplerDescriptor{}
	}
	s := &Sampler{dev: d, label: desc.Label}
	err := d.locked(func() error {
		raw := d.fns.CreateSampler()
		if !raw.Valid() {
			return ErrOutOfMemory
		}
		fns := d.fns
		fns.SamplerParameteri(raw, gl.TEXTURE_MIN_FILTER, int(minFilter(desc.MinFilter, desc.MipmapFilter)))
		fns.SamplerParameteri(raw, gl.TEXTURE_MAG_FILTER, int(filter(desc.MagFilter)))
		fns.SamplerParameteri(raw, gl.TEXTURE_WRAP_S, int(addressMode(desc.AddressModeU)))
		fns.SamplerParameteri(raw, gl.TEXTURE_WRAP_T, int(addressMode(desc.AddressModeV)))
		fns.SamplerParameteri(raw, gl.TEXTURE_WRAP_R, int(addressMode(desc.AddressModeW)))
		fns.SamplerParameterf(raw, gl.TEXTURE_MIN_LOD, desc.LodMinClamp)
		maxLod := desc.LodMaxClamp
		if maxLod == 0 {
			maxLod = 1000
		}
		fns.SamplerParameterf(raw, gl.TEXTURE_MAX_LOD, maxLod)
		if desc.Compare != 0 {
			fns.SamplerParameteri(raw, gl.TEXTURE_COMPARE_MODE, gl.COMPARE_REF_TO_TEXTURE)
			fns.SamplerParameteri(raw, gl.TEXTURE_COMPARE_FUNC, int(compareFunc(desc.Compare)))
		}
		if desc.MaxAnisotropy > 1 {
			caps, limits := d.adapter.Capabilities, d.adapter.Limits
			if caps.Anisotropy {
				fns.SamplerParameterf(raw, gl.TEXTURE_MAX_ANISOTROPY_EXT,
					min(float32(desc.MaxAnisotropy), limits.MaxAnisotropy))
			} else {
				d.logger().Warn("gles: anisotropic filtering unsupported, ignoring", "sampler", desc.Label)
			}
		}
		s.raw = raw
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Destroy deletes the sampler object. Destroy is idempotent.
func (s *Sampler) Destroy() {
	d := s.dev
	d.lock.acquire()
	defer d.lock.release()
	if s.destroyed {
		return
	}
	s.destroyed = true
	d.fns.DeleteSampler(s.raw)
	s.raw = 0
}

func filter(f gputypes.FilterMode) gl.Enum {
	if f == gputypes.FilterModeLinear {
		return gl.LINEAR
	}
	return gl.NEAREST
}

func minFilter(minf, mip gputypes.FilterMode) gl.Enum {
	linear := minf == gputypes.FilterModeLinear
	mipLinear := mip == gputypes.FilterModeLinear
	switch {
	case linear && mipLinear:
		return gl.LINEAR_MIPMAP_LINEAR
	case linear:
		return gl.LINEAR_MIPMAP_NEAREST
	case mipLinear:
		return gl.NEAREST_MIPMAP_LINEAR
	default:
		return gl.NEAREST_MIPMAP_NEAREST
	}
}

func addressMode(m gputypes.AddressMode) gl.Enum {
	switch m {
	case gputypes.AddressModeRepeat:
		return gl.REPEAT
	case gputypes.AddressModeMirrorRepeat:
		return gl.MIRRORED_REPEAT
	default:
		return gl.CLAMP_TO_EDGE
	}
}
