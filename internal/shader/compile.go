// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package shader

import (
	"fmt"
	"regexp"
	"strings"
	"sync/atomic"
)

// Options controls GLSL emission.
type Options struct {
	// Version is the target language version. The zero value means ES300.
	Version Version
}

// Compiled is one stage translated to GLSL with its reflected bindings.
type Compiled struct {
	// ID identifies the compiled stage for program caching.
	ID         uint64
	Stage      Stage
	EntryPoint string
	Source     string
	Resources  []Resource
}

// Compiler translates module entry points to GLSL and assigns binding
// slots through a shared SlotAllocator.
type Compiler struct {
	slots  *SlotAllocator
	nextID atomic.Uint64
}

// NewCompiler returns a compiler that allocates slots from slots.
func NewCompiler(slots *SlotAllocator) *Compiler {
	return &Compiler{slots: slots}
}

// Compile emits GLSL for one entry point of m.
func (c *Compiler) Compile(m *Module, stage Stage, entryPoint string, opts Options) (*Compiled, error) {
	if !m.HasEntryPoint(entryPoint, stage) {
		return nil, fmt.Errorf("%w: %s entry point %q", ErrEntryPoint, stage, entryPoint)
	}
	v := opts.Version
	if v.Number == 0 {
		v = ES300
	}
	if v.WebGL {
		v.Number, v.ES = 300, true
	}

	var (
		src  string
		decl []Resource
	)
	if m.ir != nil {
		code, info, err := emitGLSL(m.ir, entryPoint, v)
		if err != nil {
			return nil, err
		}
		src, decl = code, reflectGLSL(code, info.TextureMappings)
	} else {
		src = m.glsl[stage]
		decl = declaredIn(src, m.decl)
	}
	if !v.SupportsBindingLayout() {
		src = stripBindings(src)
	}

	out := &Compiled{
		ID:         c.nextID.Add(1),
		Stage:      stage,
		EntryPoint: entryPoint,
		Source:     src,
		Resources:  c.assignSlots(decl),
	}
	slogger().Debug("shader: compiled stage",
		"stage", stage, "entry", entryPoint, "version", v.String(), "resources", len(out.Resources))
	return out, nil
}

// declaredIn keeps the named resources that src refers to. Unnamed
// declarations are kept.
func declaredIn(src string, decl []Resource) []Resource {
	out := make([]Resource, 0, len(decl))
	for _, r := range decl {
		if r.Name == "" || regexp.MustCompile(`\b`+regexp.QuoteMeta(r.Name)+`\b`).MatchString(src) {
			out = append(out, r)
		}
	}
	return out
}

// assignSlots gives buffers and textures their binding points. Each
// combined texture adds a sampler resource bound to the texture's unit.
func (c *Compiler) assignSlots(decl []Resource) []Resource {
	out := make([]Resource, 0, len(decl))
	for _, r := range decl {
		switch {
		case r.Class == ClassSampler:
			continue
		case r.Class == ClassTexture && r.Combined:
			r.Slot = c.slots.CombinedSlot(Binding{r.Group, r.Binding}, r.Sampler)
			out = append(out, r, Resource{
				Class:   ClassSampler,
				Group:   r.Sampler.Group,
				Binding: r.Sampler.Binding,
				Name:    r.Name,
				Slot:    r.Slot,
			})
		default:
			r.Slot = c.slots.Slot(r.Class, r.Group, r.Binding)
			out = append(out, r)
		}
	}
	return out
}

var layoutRe = regexp.MustCompile(`layout\s*\(([^)]*)\)\s*`)

// stripBindings removes binding qualifiers, which GLSL ES 3.00 rejects.
// Bindings are set after link instead.
func stripBindings(src string) string {
	return layoutRe.ReplaceAllStringFunc(src, func(m string) string {
		inner := layoutRe.FindStringSubmatch(m)[1]
		var keep []string
		for _, q := range strings.Split(inner, ",") {
			q = strings.TrimSpace(q)
			if q == "" || strings.HasPrefix(q, "binding") {
				continue
			}
			keep = append(keep, q)
		}
		if len(keep) == 0 {
			return ""
		}
		return "layout(" + strings.Join(keep, ", ") + ") "
	})
}
