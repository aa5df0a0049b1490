// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gles

import (
	"errors"
	"fmt"
	"slices"
	"sync/atomic"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/gles/gl"
	"github.com/gogpu/gles/internal/shader"
	"github.com/gogpu/gles/internal/statecache"
)

// VertexState is the vertex stage of a render pipeline.
type VertexState struct {
	Module     *ShaderModule
	EntryPoint string
	Buffers    []gputypes.VertexBufferLayout
}

// FragmentState is the fragment stage of a render pipeline.
type FragmentState struct {
	Module     *ShaderModule
	EntryPoint string
	// Targets describe the color attachments. All targets must share one
	// blend state and write mask.
	Targets []gputypes.ColorTargetState
}

// RenderPipelineDescriptor describes a render pipeline.
type RenderPipelineDescriptor struct {
	Label        string
	Layout       *PipelineLayout
	Vertex       VertexState
	Fragment     *FragmentState
	Primitive    gputypes.PrimitiveState
	DepthStencil *DepthStencilState
	Multisample  gputypes.MultisampleState
}

// program is a linked GL program with the union of its stages' bindings.
type program struct {
	raw       gl.Program
	resources []shader.Resource
}

// slotBinding routes one bind group entry to a GL binding point.
type slotBinding struct {
	entry int
	class shader.Class
	slot  int
}

// RenderPipeline is a linked program plus interned fixed-function state.
// It is immutable; Release drops its cache references.
type RenderPipeline struct {
	dev   *Device
	label string

	program *statecache.Ref[*program]
	raster  *statecache.Ref[rasterState]
	depth   *statecache.Ref[depthState]
	stencil *statecache.Ref[stencilState]
	blend   *statecache.Ref[blendState]

	colorMask [4]bool
	topology  gl.Enum
	layout    vertexLayout
	// reorder[g] maps the program's bindings in group g to entries of the
	// bind group set there.
	reorder [maxBindGroups][]slotBinding

	released atomic.Bool
}

// Label returns the pipeline's label.
func (p *RenderPipeline) Label() string { return p.label }

// Release drops the pipeline's references into the device caches. Entries
// no other pipeline holds are deleted by the next sweep. Release is safe
// from any goroutine and idempotent.
func (p *RenderPipeline) Release() {
	if !p.released.CompareAndSwap(false, true) {
		return
	}
	p.program.Release()
	p.raster.Release()
	p.depth.Release()
	p.stencil.Release()
	p.blend.Release()
}

// CreateRenderPipeline compiles both stages, links them through the
// program cache and interns the fixed-function state.
//
// Entry point and link failures are returned as *PipelineError. A binding
// the program uses but the layout lacks is a programming error and panics.
func (d *Device) CreateRenderPipeline(desc *RenderPipelineDescriptor) (*RenderPipeline, error) {
	if desc == nil || desc.Layout == nil {
		return nil, invalid("render pipeline needs a layout")
	}
	if desc.Vertex.Module == nil || desc.Fragment == nil || desc.Fragment.Module == nil {
		return nil, invalid("render pipeline %q needs vertex and fragment modules", desc.Label)
	}
	mask, blend, err := colorTargets(desc.Label, desc.Fragment.Targets)
	if err != nil {
		return nil, err
	}
	layout, err := convertVertexLayout(desc.Vertex.Buffers, d.adapter.Limits.MaxVertexAttribs)
	if err != nil {
		return nil, err
	}

	p := &RenderPipeline{
		dev:       d,
		label:     desc.Label,
		colorMask: mask,
		topology:  topology(desc.Primitive.Topology),
		layout:    layout,
	}
	err = d.locked(func() error {
		vs, err := d.pipelineStage(desc.Label, desc.Vertex.Module, shader.StageVertex, desc.Vertex.EntryPoint)
		if err != nil {
			return err
		}
		fs, err := d.pipelineStage(desc.Label, desc.Fragment.Module, shader.StageFragment, desc.Fragment.EntryPoint)
		if err != nil {
			return err
		}
		prog, err := d.cache.programs.GetOrInsert(programKey{vs.ID, fs.ID}, func() (*program, error) {
			return d.linkProgram(vs, fs)
		})
		if err != nil {
			return &PipelineError{Kind: PipelineLinkage, Label: desc.Label, Err: err}
		}
		p.program = prog
		p.reorder = reorderTable(desc.Label, prog.Value().resources, desc.Layout)

		p.raster = intern(d.cache.raster, deriveRaster(desc.Primitive))
		p.depth = intern(d.cache.depth, deriveDepth(desc.DepthStencil))
		p.stencil = intern(d.cache.stencil, deriveStencil(desc.DepthStencil))
		p.blend = intern(d.cache.blend, deriveBlend(blend, desc.Multisample.AlphaToCoverageEnabled))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (d *Device) pipelineStage(label string, m *ShaderModule, stage ShaderStage, entry string) (*shader.Compiled, error) {
	c, err := d.compileStage(m, stage, entry)
	switch {
	case err == nil:
		return c, nil
	case errors.Is(err, shader.ErrEntryPoint):
		return nil, &PipelineError{Kind: PipelineEntryPoint, Label: label, Err: err}
	default:
		return nil, &PipelineError{Kind: PipelineLinkage, Label: label, Err: err}
	}
}

// colorTargets reduces the targets to one write mask and blend state.
func colorTargets(label string, targets []gputypes.ColorTargetState) ([4]bool, *gputypes.BlendState, error) {
	if len(targets) == 0 {
		return [4]bool{}, nil, nil
	}
	if len(targets) > maxColorAttachments {
		return [4]bool{}, nil, invalid("pipeline %q has %d color targets, at most %d", label, len(targets), maxColorAttachments)
	}
	first := targets[0]
	for _, t := range targets[1:] {
		if t.WriteMask != first.WriteMask || !sameBlend(t.Blend, first.Blend) {
			return [4]bool{}, nil, invalid("pipeline %q: per-target blending is not supported", label)
		}
	}
	w := first.WriteMask
	mask := [4]bool{
		w&gputypes.ColorWriteMaskRed != 0,
		w&gputypes.ColorWriteMaskGreen != 0,
		w&gputypes.ColorWriteMaskBlue != 0,
		w&gputypes.ColorWriteMaskAlpha != 0,
	}
	return mask, first.Blend, nil
}

func sameBlend(a, b *gputypes.BlendState) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// linkProgram compiles and links two stages and points the program's
// uniform blocks and sampler uniforms at their slots.
func (d *Device) linkProgram(vs, fs *shader.Compiled) (*program, error) {
	fns := d.fns
	vsh, err := d.compileShader(gl.VERTEX_SHADER, vs)
	if err != nil {
		return nil, err
	}
	defer fns.DeleteShader(vsh)
	fsh, err := d.compileShader(gl.FRAGMENT_SHADER, fs)
	if err != nil {
		return nil, err
	}
	defer fns.DeleteShader(fsh)

	raw := fns.CreateProgram()
	if !raw.Valid() {
		return nil, ErrOutOfMemory
	}
	fns.AttachShader(raw, vsh)
	fns.AttachShader(raw, fsh)
	fns.LinkProgram(raw)
	if fns.GetProgrami(raw, gl.LINK_STATUS) == gl.FALSE {
		log := fns.GetProgramInfoLog(raw)
		fns.DeleteProgram(raw)
		return nil, &ShaderError{Kind: ShaderLinkProgram, Log: log}
	}

	p := &program{raw: raw, resources: mergeResources(vs.Resources, fs.Resources)}
	d.state.useProgram(raw)
	for _, r := range p.resources {
		switch r.Class {
		case shader.ClassUniformBuffer:
			idx := fns.GetUniformBlockIndex(raw, r.Name)
			if idx == gl.INVALID_INDEX {
				d.logger().Debug("gles: uniform block inactive", "block", r.Name)
				continue
			}
			fns.UniformBlockBinding(raw, idx, uint(r.Slot))
		case shader.ClassTexture:
			if loc := fns.GetUniformLocation(raw, r.Name); loc.Valid() {
				fns.Uniform1i(loc, r.Slot)
			}
		}
	}
	d.logger().Debug("gles: program linked",
		"program", raw, "vertex", vs.EntryPoint, "fragment", fs.EntryPoint, "resources", len(p.resources))
	return p, nil
}

func (d *Device) compileShader(ty gl.Enum, c *shader.Compiled) (gl.Shader, error) {
	fns := d.fns
	sh := fns.CreateShader(ty)
	if !sh.Valid() {
		return 0, ErrOutOfMemory
	}
	fns.ShaderSource(sh, c.Source)
	fns.CompileShader(sh)
	if fns.GetShaderi(sh, gl.COMPILE_STATUS) == gl.FALSE {
		log := fns.GetShaderInfoLog(sh)
		fns.DeleteShader(sh)
		return 0, &ShaderError{Kind: ShaderCompilation, Stage: c.Stage, Log: log}
	}
	return sh, nil
}

// mergeResources returns the bindings of both stages without duplicates.
func mergeResources(stages ...[]shader.Resource) []shader.Resource {
	var out []shader.Resource
	for _, rs := range stages {
		for _, r := range rs {
			if !slices.Contains(out, r) {
				out = append(out, r)
			}
		}
	}
	return out
}

// reorderTable finds, for every binding the program uses, the position of
// that binding in its group's layout.
func reorderTable(label string, resources []shader.Resource, layout *PipelineLayout) [maxBindGroups][]slotBinding {
	var table [maxBindGroups][]slotBinding
	for _, r := range resources {
		if int(r.Group) >= len(layout.groups) {
			panic(fmt.Sprintf("gles: pipeline %q uses group %d, layout %q has %d groups",
				label, r.Group, layout.label, len(layout.groups)))
		}
		bgl := layout.groups[r.Group]
		i := slices.IndexFunc(bgl.entries, func(e gputypes.BindGroupLayoutEntry) bool { return e.Binding == r.Binding })
		if i < 0 {
			panic(fmt.Sprintf("gles: pipeline %q binding (%d, %d) missing from layout %q",
				label, r.Group, r.Binding, bgl.label))
		}
		e := bgl.entries[i]
		ok := (r.Class == shader.ClassUniformBuffer && e.Buffer != nil) ||
			(r.Class == shader.ClassTexture && e.Texture != nil) ||
			(r.Class == shader.ClassSampler && e.Sampler != nil)
		if !ok {
			panic(fmt.Sprintf("gles: pipeline %q binding (%d, %d) is a %s, layout %q disagrees",
				label, r.Group, r.Binding, r.Class, bgl.label))
		}
		table[r.Group] = append(table[r.Group], slotBinding{entry: i, class: r.Class, slot: r.Slot})
	}
	return table
}
