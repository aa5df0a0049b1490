// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package shader

import "fmt"

// Class is the kind of GL binding point a resource occupies.
type Class uint8

const (
	ClassUniformBuffer Class = iota
	ClassTexture
	// ClassSampler resources share the texture unit of the texture they are
	// paired with and never allocate a slot of their own.
	ClassSampler
)

func (c Class) String() string {
	switch c {
	case ClassUniformBuffer:
		return "uniform-buffer"
	case ClassTexture:
		return "texture"
	case ClassSampler:
		return "sampler"
	default:
		return fmt.Sprintf("Class(%d)", uint8(c))
	}
}

type slotKey struct {
	class    Class
	res      Binding
	sampler  Binding
	combined bool
}

// SlotAllocator hands out GL binding points device-wide. The same (class,
// group, binding), or the same (texture, sampler) pair, always maps to the
// same slot, so programs sharing a bind group layout agree on where its
// resources live. New keys are assigned round-robin within the class limit.
//
// SlotAllocator is not safe for concurrent use.
type SlotAllocator struct {
	limits [2]int
	next   [2]int
	slots  map[slotKey]int
}

// NewSlotAllocator creates an allocator for the given number of uniform
// buffer binding points and texture units.
func NewSlotAllocator(uniformBuffers, textureUnits int) *SlotAllocator {
	if uniformBuffers < 1 {
		uniformBuffers = 1
	}
	if textureUnits < 1 {
		textureUnits = 1
	}
	return &SlotAllocator{
		limits: [2]int{uniformBuffers, textureUnits},
		slots:  make(map[slotKey]int),
	}
}

// Slot returns the binding point for a resource, allocating one on first
// use. It panics for ClassSampler.
func (a *SlotAllocator) Slot(class Class, group, binding uint32) int {
	if class == ClassSampler {
		panic("shader: samplers do not own slots")
	}
	return a.slot(slotKey{class: class, res: Binding{group, binding}})
}

// CombinedSlot returns the texture unit for texture sampled through
// sampler. Each (texture, sampler) pair gets its own unit because a GL
// sampler object is bound per unit.
func (a *SlotAllocator) CombinedSlot(texture, sampler Binding) int {
	return a.slot(slotKey{class: ClassTexture, res: texture, sampler: sampler, combined: true})
}

func (a *SlotAllocator) slot(k slotKey) int {
	if s, ok := a.slots[k]; ok {
		return s
	}
	s := a.next[k.class] % a.limits[k.class]
	a.next[k.class]++
	a.slots[k] = s
	if a.next[k.class] > a.limits[k.class] {
		slogger().Debug("shader: binding slots wrapped",
			"class", k.class, "group", k.res.Group, "binding", k.res.Binding, "slot", s)
	}
	return s
}
