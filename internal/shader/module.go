// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package shader

import (
	"errors"
	"fmt"

	"github.com/gogpu/naga/ir"
)

var (
	// ErrCompilation is returned when WGSL fails to parse, lower, validate
	// or translate.
	ErrCompilation = errors.New("shader: compilation failed")

	// ErrEntryPoint is returned when a module has no entry point with the
	// requested name and stage.
	ErrEntryPoint = errors.New("shader: entry point not found")
)

// Stage is a programmable pipeline stage.
type Stage uint8

const (
	StageVertex Stage = iota
	StageFragment
)

func (s Stage) String() string {
	switch s {
	case StageVertex:
		return "vertex"
	case StageFragment:
		return "fragment"
	default:
		return fmt.Sprintf("Stage(%d)", uint8(s))
	}
}

// EntryPoint names one entry point of a module.
type EntryPoint struct {
	Name  string
	Stage Stage
}

// Binding is the (group, binding) location of a resource.
type Binding struct {
	Group   uint32
	Binding uint32
}

// Resource is a uniform buffer, texture or sampler a compiled stage uses.
type Resource struct {
	Class   Class
	Group   uint32
	Binding uint32
	// Name is the GLSL identifier the program exposes: the uniform block
	// name for buffers and the sampler uniform for textures. A sampler
	// carries the name of the sampler uniform it is combined into.
	Name string
	// Sampler is the sampler a texture is combined with in GLSL. It is
	// only meaningful when Combined is set.
	Sampler  Binding
	Combined bool
	// Slot is the uniform buffer binding point or texture unit. For a
	// sampler it is the unit of the texture it is combined with.
	Slot int
}

// Module is a parsed shader source: either WGSL lowered to naga IR, or
// GLSL supplied per stage by the host.
type Module struct {
	ir      *ir.Module
	glsl    map[Stage]string
	decl    []Resource
	entries []EntryPoint
}

// EntryPoints lists the module's entry points.
func (m *Module) EntryPoints() []EntryPoint { return m.entries }

// HasEntryPoint reports whether the module defines name for stage.
func (m *Module) HasEntryPoint(name string, stage Stage) bool {
	for _, ep := range m.entries {
		if ep.Name == name && ep.Stage == stage {
			return true
		}
	}
	return false
}

// NewGLSLModule wraps GLSL sources keyed by stage. Each stage's entry point
// is "main". resources declares the uniform blocks and textures the sources
// use. A texture names its sampler through Sampler and Combined; sampler
// entries of their own are ignored. Slot fields are assigned at compile
// time. A stage only reports the named resources its source mentions.
func NewGLSLModule(stages map[Stage]string, resources []Resource) *Module {
	m := &Module{
		glsl: make(map[Stage]string, len(stages)),
		decl: append([]Resource(nil), resources...),
	}
	for _, st := range []Stage{StageVertex, StageFragment} {
		if src, ok := stages[st]; ok {
			m.glsl[st] = src
			m.entries = append(m.entries, EntryPoint{Name: "main", Stage: st})
		}
	}
	return m
}
