// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gles

import (
	"fmt"
	"slices"

	"github.com/gogpu/gputypes"
)

// maxBindGroups is the number of bind group slots a pipeline layout can
// declare.
const maxBindGroups = 4

// BindGroupLayoutDescriptor describes a bind group layout. Storage
// buffers and storage textures do not exist in GLES 3.0 and are rejected.
type BindGroupLayoutDescriptor struct {
	Label   string
	Entries []gputypes.BindGroupLayoutEntry
}

// BindGroupLayout is an immutable, binding-sorted list of entries.
type BindGroupLayout struct {
	label   string
	entries []gputypes.BindGroupLayoutEntry
	// dynamic[i] is the dynamic offset index of entry i, or -1.
	dynamic      []int
	dynamicCount int
}

// CreateBindGroupLayout validates and sorts the layout's entries.
func (d *Device) CreateBindGroupLayout(desc *BindGroupLayoutDescriptor) (*BindGroupLayout, error) {
	if desc == nil {
		return nil, invalid("nil bind group layout descriptor")
	}
	entries := slices.Clone(desc.Entries)
	slices.SortFunc(entries, func(a, b gputypes.BindGroupLayoutEntry) int {
		return int(a.Binding) - int(b.Binding)
	})
	l := &BindGroupLayout{label: desc.Label, entries: entries, dynamic: make([]int, len(entries))}
	for i, e := range entries {
		if i > 0 && entries[i-1].Binding == e.Binding {
			return nil, invalid("layout %q declares binding %d twice", desc.Label, e.Binding)
		}
		l.dynamic[i] = -1
		kinds := 0
		if e.Buffer != nil {
			kinds++
			if e.Buffer.Type != gputypes.BufferBindingTypeUniform {
				return nil, invalid("layout %q binding %d: only uniform buffers are supported", desc.Label, e.Binding)
			}
			if e.Buffer.HasDynamicOffset {
				l.dynamic[i] = l.dynamicCount
				l.dynamicCount++
			}
		}
		if e.Sampler != nil {
			kinds++
		}
		if e.Texture != nil {
			kinds++
		}
		if kinds != 1 {
			return nil, invalid("layout %q binding %d must declare one buffer, sampler or texture", desc.Label, e.Binding)
		}
	}
	return l, nil
}

// PipelineLayoutDescriptor lists the bind group layouts of a pipeline by
// group index.
type PipelineLayoutDescriptor struct {
	Label            string
	BindGroupLayouts []*BindGroupLayout
}

// PipelineLayout is an immutable list of bind group layouts.
type PipelineLayout struct {
	label  string
	groups []*BindGroupLayout
}

// CreatePipelineLayout creates a pipeline layout.
func (d *Device) CreatePipelineLayout(desc *PipelineLayoutDescriptor) (*PipelineLayout, error) {
	if desc == nil {
		return nil, invalid("nil pipeline layout descriptor")
	}
	if len(desc.BindGroupLayouts) > maxBindGroups {
		return nil, invalid("pipeline layout %q has %d groups, at most %d", desc.Label, len(desc.BindGroupLayouts), maxBindGroups)
	}
	for i, g := range desc.BindGroupLayouts {
		if g == nil {
			return nil, invalid("pipeline layout %q group %d is nil", desc.Label, i)
		}
	}
	return &PipelineLayout{label: desc.Label, groups: slices.Clone(desc.BindGroupLayouts)}, nil
}

// BindGroupEntry binds one resource. Set exactly one of Buffer, Sampler
// and TextureView. A zero Size binds the rest of the buffer.
type BindGroupEntry struct {
	Binding     uint32
	Buffer      *Buffer
	Offset      uint64
	Size        uint64
	Sampler     *Sampler
	TextureView *TextureView
}

// BindGroupDescriptor describes a bind group.
type BindGroupDescriptor struct {
	Label   string
	Layout  *BindGroupLayout
	Entries []BindGroupEntry
}

// boundResource is one captured entry, stored at its layout position.
type boundResource struct {
	buffer  *Buffer
	offset  int
	size    int
	dynamic int

	view    *TextureView
	sampler *Sampler
}

func (r *boundResource) destroyed() bool {
	switch {
	case r.buffer != nil:
		return r.buffer.destroyed
	case r.view != nil:
		return r.view.texture.destroyed
	case r.sampler != nil:
		return r.sampler.destroyed
	}
	return false
}

// BindGroup is an immutable snapshot of resources in layout order.
type BindGroup struct {
	label   string
	layout  *BindGroupLayout
	entries []boundResource
}

// CreateBindGroup captures the resources for layout, checking each entry
// against the layout entry with the same binding.
func (d *Device) CreateBindGroup(desc *BindGroupDescriptor) (*BindGroup, error) {
	if desc == nil || desc.Layout == nil {
		return nil, invalid("bind group needs a layout")
	}
	l := desc.Layout
	if len(desc.Entries) != len(l.entries) {
		return nil, invalid("bind group %q has %d entries, layout %q declares %d",
			desc.Label, len(desc.Entries), l.label, len(l.entries))
	}
	g := &BindGroup{label: desc.Label, layout: l, entries: make([]boundResource, len(l.entries))}
	seen := make([]bool, len(l.entries))
	align := uint64(d.adapter.Limits.UniformBufferOffsetAlignment)

	for _, e := range desc.Entries {
		i := slices.IndexFunc(l.entries, func(le gputypes.BindGroupLayoutEntry) bool { return le.Binding == e.Binding })
		if i < 0 {
			return nil, invalid("bind group %q binding %d is not in layout %q", desc.Label, e.Binding, l.label)
		}
		if seen[i] {
			return nil, invalid("bind group %q binds %d twice", desc.Label, e.Binding)
		}
		seen[i] = true
		le := l.entries[i]
		r := boundResource{dynamic: l.dynamic[i]}

		switch {
		case le.Buffer != nil:
			b := e.Buffer
			if b == nil || b.destroyed {
				return nil, invalid("bind group %q binding %d needs a live buffer", desc.Label, e.Binding)
			}
			if b.usage&gputypes.BufferUsageUniform == 0 || !b.raw.Valid() {
				return nil, invalid("buffer %q lacks uniform usage", b.label)
			}
			if e.Offset%align != 0 {
				return nil, invalid("bind group %q binding %d offset %d not aligned to %d", desc.Label, e.Binding, e.Offset, align)
			}
			size := e.Size
			if size == 0 {
				size = b.size - min(e.Offset, b.size)
			}
			if size == 0 || e.Offset+size > b.size {
				return nil, invalid("bind group %q binding %d range exceeds buffer %q", desc.Label, e.Binding, b.label)
			}
			if need := le.Buffer.MinBindingSize; need > 0 && size < need {
				return nil, invalid("bind group %q binding %d smaller than %d bytes", desc.Label, e.Binding, need)
			}
			r.buffer, r.offset, r.size = b, int(e.Offset), int(size)
		case le.Sampler != nil:
			if e.Sampler == nil || e.Sampler.destroyed {
				return nil, invalid("bind group %q binding %d needs a live sampler", desc.Label, e.Binding)
			}
			r.sampler = e.Sampler
		default:
			v := e.TextureView
			if v == nil || v.texture.destroyed || !v.texture.raw.Valid() {
				return nil, invalid("bind group %q binding %d needs a sampleable texture view", desc.Label, e.Binding)
			}
			r.view = v
		}
		g.entries[i] = r
	}
	return g, nil
}

// Label returns the bind group's label.
func (g *BindGroup) Label() string { return g.label }

// checkLive fails when a resource the group captured has been destroyed.
func (g *BindGroup) checkLive() error {
	for i := range g.entries {
		if g.entries[i].destroyed() {
			return fmt.Errorf("%w: bind group %q binding %d", ErrDestroyed, g.label, g.layout.entries[i].Binding)
		}
	}
	return nil
}
