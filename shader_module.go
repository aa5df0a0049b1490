// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gles

import (
	"errors"

	"github.com/gogpu/gles/internal/shader"
)

type (
	// ShaderVersion is a GLSL language version such as "300 es".
	ShaderVersion = shader.Version
	// ShaderStage is the vertex or fragment stage.
	ShaderStage = shader.Stage
	// ResourceClass is the kind of binding a shader resource occupies.
	ResourceClass = shader.Class
	// ShaderEntryPoint names one entry point of a module.
	ShaderEntryPoint = shader.EntryPoint
	// ResourceBinding is a (group, binding) pair.
	ResourceBinding = shader.Binding
)

const (
	ShaderStageVertex   = shader.StageVertex
	ShaderStageFragment = shader.StageFragment

	ResourceUniformBuffer = shader.ClassUniformBuffer
	ResourceTexture       = shader.ClassTexture
	ResourceSampler       = shader.ClassSampler
)

// ParseShaderVersion parses a version as reported by
// SHADING_LANGUAGE_VERSION.
func ParseShaderVersion(s string) (ShaderVersion, error) { return shader.ParseVersion(s) }

// ShaderResource declares a binding used by hand-written GLSL.
type ShaderResource struct {
	Class   ResourceClass
	Group   uint32
	Binding uint32
	// Name is the uniform block name for buffers and the sampler uniform
	// name for textures.
	Name string
	// Sampler is the sampler a texture is read through. It shares the
	// texture's unit.
	Sampler *ResourceBinding
}

// GLSLSource is pre-written GLSL for both stages. Each stage's entry
// point is "main".
type GLSLSource struct {
	Vertex    string
	Fragment  string
	Resources []ShaderResource
}

// ShaderModuleDescriptor describes a shader module. Exactly one of WGSL
// and GLSL is set.
type ShaderModuleDescriptor struct {
	Label string
	WGSL  string
	GLSL  *GLSLSource
}

type stageKey struct {
	stage ShaderStage
	entry string
}

// ShaderModule is parsed shader source. Compiled stages are cached per
// entry point so pipelines sharing a stage share its program.
type ShaderModule struct {
	label    string
	module   *shader.Module
	compiled map[stageKey]*shader.Compiled
}

// Label returns the module's label.
func (m *ShaderModule) Label() string { return m.label }

// EntryPoints lists the module's entry points.
func (m *ShaderModule) EntryPoints() []ShaderEntryPoint { return m.module.EntryPoints() }

// CreateShaderModule parses WGSL, or wraps GLSL, into a module. WGSL
// errors are returned as *ShaderError wrapping the parser diagnostic.
func (d *Device) CreateShaderModule(desc *ShaderModuleDescriptor) (*ShaderModule, error) {
	if desc == nil || (desc.WGSL == "") == (desc.GLSL == nil) {
		return nil, invalid("shader module needs exactly one of WGSL and GLSL")
	}
	m := &ShaderModule{label: desc.Label, compiled: make(map[stageKey]*shader.Compiled)}
	if desc.GLSL != nil {
		res := make([]shader.Resource, len(desc.GLSL.Resources))
		for i, r := range desc.GLSL.Resources {
			if r.Class == ResourceSampler {
				return nil, invalid("sampler %d/%d must be declared through its texture", r.Group, r.Binding)
			}
			res[i] = shader.Resource{Class: r.Class, Group: r.Group, Binding: r.Binding, Name: r.Name}
			if r.Sampler != nil {
				if r.Class != ResourceTexture {
					return nil, invalid("%v %d/%d cannot name a sampler", r.Class, r.Group, r.Binding)
				}
				res[i].Sampler, res[i].Combined = *r.Sampler, true
			}
		}
		stages := map[shader.Stage]string{}
		if desc.GLSL.Vertex != "" {
			stages[shader.StageVertex] = desc.GLSL.Vertex
		}
		if desc.GLSL.Fragment != "" {
			stages[shader.StageFragment] = desc.GLSL.Fragment
		}
		m.module = shader.NewGLSLModule(stages, res)
		return m, nil
	}

	mod, err := shader.Parse(desc.WGSL)
	if err != nil {
		return nil, &ShaderError{Kind: ShaderCompilation, Log: err.Error(), Err: err}
	}
	m.module = mod
	return m, nil
}

// compileStage returns the cached GLSL for one entry point, compiling it on
// first use. Must run under the context lock.
func (d *Device) compileStage(m *ShaderModule, stage ShaderStage, entry string) (*shader.Compiled, error) {
	key := stageKey{stage, entry}
	if c, ok := m.compiled[key]; ok {
		return c, nil
	}
	c, err := d.compiler.Compile(m.module, stage, entry, shader.Options{Version: d.adapter.Info.ShadingLanguage})
	if err != nil {
		if errors.Is(err, shader.ErrEntryPoint) {
			return nil, err
		}
		return nil, &ShaderError{Kind: ShaderCompilation, Stage: stage, Log: err.Error(), Err: err}
	}
	m.compiled[key] = c
	return c, nil
}
