// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gles

import (
	"github.com/gogpu/gputypes"

	"github.com/gogpu/gles/gl"
)

// BufferDescriptor describes a buffer.
type BufferDescriptor struct {
	Label string
	// Size in bytes, rounded up to a multiple of 4. When zero, the length
	// of Contents is used.
	Size  uint64
	Usage gputypes.BufferUsage
	// MappedAtCreation returns the buffer mapped for writing; call Unmap
	// before using it on the GPU.
	MappedAtCreation bool
	// Contents is uploaded at creation.
	Contents []byte
}

// Buffer is a GL buffer object, a host shadow copy, or both.
type Buffer struct {
	dev    *Device
	id     uint64
	label  string
	raw    gl.Buffer
	target gl.Enum
	size   uint64
	usage  gputypes.BufferUsage

	// shadow holds the contents of mappable buffers on devices without
	// persistent mapping.
	shadow []byte

	mapped       []byte
	mapOffset    uint64
	mapWrite     bool
	mapToStaging bool

	destroyed bool
}

// Label returns the buffer's label.
func (b *Buffer) Label() string { return b.label }

// Size returns the allocated size in bytes.
func (b *Buffer) Size() uint64 { return b.size }

// Usage returns the usage flags the buffer was created with.
func (b *Buffer) Usage() gputypes.BufferUsage { return b.usage }

// bufferTarget picks the bind target from usage. Index buffers must live
// on ELEMENT_ARRAY_BUFFER; the rest only matters for the first bind.
func bufferTarget(usage gputypes.BufferUsage) gl.Enum {
	switch {
	case usage&gputypes.BufferUsageIndex != 0:
		return gl.ELEMENT_ARRAY_BUFFER
	case usage&gputypes.BufferUsageVertex != 0:
		return gl.ARRAY_BUFFER
	case usage&gputypes.BufferUsageUniform != 0:
		return gl.UNIFORM_BUFFER
	default:
		return gl.COPY_READ_BUFFER
	}
}

func bufferUsageHint(usage gputypes.BufferUsage) gl.Enum {
	switch {
	case usage&gputypes.BufferUsageMapRead != 0:
		return gl.DYNAMIC_READ
	case usage&(gputypes.BufferUsageMapWrite|gputypes.BufferUsageCopyDst) != 0:
		return gl.DYNAMIC_DRAW
	default:
		return gl.STATIC_DRAW
	}
}

const gpuUsage = gputypes.BufferUsageVertex | gputypes.BufferUsageIndex | gputypes.BufferUsageUniform

// CreateBuffer creates a buffer. A buffer with zero size and no contents,
// or with empty non-nil contents, is rejected with ErrZeroSizedBuffer.
func (d *Device) CreateBuffer(desc *BufferDescriptor) (*Buffer, error) {
	if desc == nil {
		return nil, invalid("nil buffer descriptor")
	}
	if desc.Contents != nil && len(desc.Contents) == 0 {
		return nil, ErrZeroSizedBuffer
	}
	size := desc.Size
	if n := uint64(len(desc.Contents)); n > size {
		size = n
	}
	if size == 0 {
		return nil, ErrZeroSizedBuffer
	}
	size = (size + 3) &^ 3

	b := &Buffer{
		dev:    d,
		id:     d.newID(),
		label:  desc.Label,
		target: bufferTarget(desc.Usage),
		size:   size,
		usage:  desc.Usage,
	}
	mappable := desc.Usage&(gputypes.BufferUsageMapRead|gputypes.BufferUsageMapWrite) != 0
	if mappable && !d.adapter.Capabilities.PersistentMapping {
		b.shadow = make([]byte, size)
		copy(b.shadow, desc.Contents)
	}

	err := d.locked(func() error {
		if b.shadow != nil && desc.Usage&gpuUsage == 0 {
			return nil
		}
		return d.allocBuffer(b, desc.Contents)
	})
	if err != nil {
		return nil, err
	}

	if desc.MappedAtCreation {
		if b.shadow != nil {
			b.mapped = b.shadow
		} else {
			b.mapped = make([]byte, size)
			copy(b.mapped, desc.Contents)
			b.mapToStaging = true
		}
		b.mapWrite = true
	}
	d.logger().Debug("gles: buffer created",
		"label", desc.Label, "size", size, "target", b.target, "shadow", b.shadow != nil)
	return b, nil
}

func (d *Device) allocBuffer(b *Buffer, contents []byte) error {
	raw := d.fns.CreateBuffer()
	if !raw.Valid() {
		return ErrOutOfMemory
	}
	d.state.bindBuffer(b.target, raw)
	d.fns.BufferData(b.target, int(b.size), bufferUsageHint(b.usage), contents)
	if d.fns.GetError() == gl.OUT_OF_MEMORY {
		d.fns.DeleteBuffer(raw)
		return ErrOutOfMemory
	}
	b.raw = raw
	return nil
}

// WriteBuffer copies data into b at offset. Offset and length must be
// multiples of 4 and lie inside the buffer.
func (q *Queue) WriteBuffer(b *Buffer, offset uint64, data []byte) error {
	if offset%4 != 0 || len(data)%4 != 0 {
		return invalid("buffer write offset %d and size %d must be 4-byte aligned", offset, len(data))
	}
	if offset+uint64(len(data)) > b.size {
		return invalid("buffer write [%d, %d) exceeds size %d", offset, offset+uint64(len(data)), b.size)
	}
	return q.dev.locked(func() error {
		if b.destroyed {
			return ErrDestroyed
		}
		if b.shadow != nil {
			copy(b.shadow[offset:], data)
		}
		if b.raw.Valid() && len(data) > 0 {
			q.dev.state.bindBuffer(b.target, b.raw)
			q.dev.fns.BufferSubData(b.target, int(offset), data)
		}
		return nil
	})
}

// Map maps size bytes at offset for reading or writing and returns the
// mapped range. Shadowed buffers return their host copy.
func (b *Buffer) Map(mode gputypes.MapMode, offset, size uint64) ([]byte, error) {
	if b.mapped != nil {
		return nil, invalid("buffer %q is already mapped", b.label)
	}
	if offset+size > b.size {
		return nil, invalid("map range [%d, %d) exceeds size %d", offset, offset+size, b.size)
	}
	write := mode&gputypes.MapModeWrite != 0
	err := b.dev.locked(func() error {
		if b.destroyed {
			return ErrDestroyed
		}
		if b.shadow != nil {
			b.mapped = b.shadow[offset : offset+size]
			return nil
		}
		access := gl.Enum(gl.MAP_READ_BIT)
		if write {
			access = gl.MAP_WRITE_BIT
		}
		b.dev.state.bindBuffer(b.target, b.raw)
		m := b.dev.fns.MapBufferRange(b.target, int(offset), int(size), access)
		if m == nil {
			return ErrMapFailed
		}
		b.mapped = m
		return nil
	})
	if err != nil {
		return nil, err
	}
	b.mapOffset = offset
	b.mapWrite = write
	return b.mapped, nil
}

// Unmap ends a mapping. Written shadow contents reach the GL buffer here
// when the buffer is also used for drawing.
func (b *Buffer) Unmap() error {
	if b.mapped == nil {
		return nil
	}
	return b.dev.locked(func() error {
		defer func() {
			b.mapped = nil
			b.mapToStaging = false
		}()
		if b.destroyed {
			return ErrDestroyed
		}
		switch {
		case b.mapToStaging || (b.shadow != nil && b.raw.Valid()):
			if b.mapWrite {
				b.dev.state.bindBuffer(b.target, b.raw)
				b.dev.fns.BufferSubData(b.target, int(b.mapOffset), b.mapped)
			}
		case b.shadow == nil:
			b.dev.state.bindBuffer(b.target, b.raw)
			b.dev.fns.UnmapBuffer(b.target)
		}
		return nil
	})
}

// Destroy deletes the GL buffer and every vertex array referencing it.
// Destroy is idempotent.
func (b *Buffer) Destroy() {
	d := b.dev
	d.lock.acquire()
	defer d.lock.release()
	if b.destroyed {
		return
	}
	b.destroyed = true
	b.shadow = nil
	b.mapped = nil
	if b.raw.Valid() {
		d.cache.invalidateBuffer(d.state, b.raw)
		d.state.forgetBuffer(b.raw)
		d.fns.DeleteBuffer(b.raw)
		b.raw = 0
	}
}
