// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package shader

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/gogpu/naga"
	"github.com/gogpu/naga/glsl"
	"github.com/gogpu/naga/ir"
)

// Parse parses, lowers and validates WGSL source.
func Parse(wgsl string) (*Module, error) {
	ast, err := naga.Parse(wgsl)
	if err != nil {
		return nil, fmt.Errorf("%w: parse: %v", ErrCompilation, err)
	}
	module, err := naga.Lower(ast)
	if err != nil {
		return nil, fmt.Errorf("%w: lower: %v", ErrCompilation, err)
	}
	verrs, err := naga.Validate(module)
	if err != nil {
		return nil, fmt.Errorf("%w: validate: %v", ErrCompilation, err)
	}
	if len(verrs) > 0 {
		return nil, fmt.Errorf("%w: validate: %v", ErrCompilation, verrs[0])
	}

	m := &Module{ir: module}
	for _, ep := range module.EntryPoints {
		switch ep.Stage {
		case ir.StageVertex:
			m.entries = append(m.entries, EntryPoint{Name: ep.Name, Stage: StageVertex})
		case ir.StageFragment:
			m.entries = append(m.entries, EntryPoint{Name: ep.Name, Stage: StageFragment})
		}
	}
	return m, nil
}

// emitGLSL translates one entry point of an IR module. naga emits only
// the globals the entry point reaches.
func emitGLSL(module *ir.Module, entryPoint string, v Version) (string, glsl.TranslationInfo, error) {
	code, info, err := glsl.Compile(module, glsl.Options{
		LangVersion: nagaVersion(v),
		EntryPoint:  entryPoint,
	})
	if err != nil {
		return "", glsl.TranslationInfo{}, fmt.Errorf("%w: glsl: %v", ErrCompilation, err)
	}
	return code, info, nil
}

func nagaVersion(v Version) glsl.Version {
	switch {
	case v.ES && v.Number >= 320:
		return glsl.VersionES320
	case v.ES && v.Number >= 310:
		return glsl.VersionES310
	default:
		return glsl.VersionES300
	}
}

var (
	// uniform Globals_block_0Fragment { Globals _group_0_binding_0_fs; };
	blockRe          = regexp.MustCompile(`uniform\s+(\w+)\s*\{\s*\w+\s+_group_(\d+)_binding_(\d+)_\w+\s*(?:\[\d*\])?\s*;\s*\}`)
	// uniform highp sampler2D _group_1_binding_0_fs;
	samplerUniformRe = regexp.MustCompile(`uniform\s+(?:(?:highp|mediump|lowp)\s+)?[iu]?sampler\w*\s+(\w+)\s*;`)
	boundNameRe      = regexp.MustCompile(`^_group_(\d+)_binding_(\d+)_`)
)

// reflectGLSL lists the uniform blocks and sampler uniforms in naga's
// output. Bound globals are named _group_G_binding_B_<stage>; combined
// sampler uniforms are resolved through the translation's texture
// mappings, which also name the sampler each texture is sampled with.
func reflectGLSL(src string, mappings map[string]glsl.TextureMapping) []Resource {
	var res []Resource
	for _, m := range blockRe.FindAllStringSubmatch(src, -1) {
		res = append(res, Resource{
			Class:   ClassUniformBuffer,
			Group:   atou(m[2]),
			Binding: atou(m[3]),
			Name:    m[1],
		})
	}
	for _, m := range samplerUniformRe.FindAllStringSubmatch(src, -1) {
		r := Resource{Class: ClassTexture, Name: m[1]}
		if tm, ok := mappings[r.Name]; ok {
			r.Group, r.Binding = tm.TextureBinding.Group, tm.TextureBinding.Binding
			if tm.SamplerBinding != nil {
				r.Sampler = Binding{tm.SamplerBinding.Group, tm.SamplerBinding.Binding}
				r.Combined = true
			}
		} else if b := boundNameRe.FindStringSubmatch(r.Name); b != nil {
			r.Group, r.Binding = atou(b[1]), atou(b[2])
		} else {
			continue
		}
		res = append(res, r)
	}
	return res
}

func atou(s string) uint32 {
	n, _ := strconv.ParseUint(s, 10, 32)
	return uint32(n)
}
