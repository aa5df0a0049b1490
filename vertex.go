// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gles

import (
	"fmt"
	"strings"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/gles/gl"
)

// maxVertexBuffers is the number of vertex buffer slots a pass can bind.
const maxVertexBuffers = 8

type vertexAttrib struct {
	location   gl.Attrib
	size       int
	ty         gl.Enum
	normalized bool
	integer    bool
	offset     int
}

type vertexBufferLayout struct {
	stride    int
	instanced bool
	attribs   []vertexAttrib
}

// vertexLayout is a pipeline's attribute layout. sig identifies it inside
// VAO cache keys.
type vertexLayout struct {
	buffers []vertexBufferLayout
	sig     string
}

func convertVertexLayout(buffers []gputypes.VertexBufferLayout, maxAttribs int) (vertexLayout, error) {
	if len(buffers) > maxVertexBuffers {
		return vertexLayout{}, invalid("%d vertex buffers, at most %d", len(buffers), maxVertexBuffers)
	}
	var (
		out vertexLayout
		sig strings.Builder
	)
	for i, b := range buffers {
		vb := vertexBufferLayout{
			stride:    int(b.ArrayStride),
			instanced: b.StepMode == gputypes.VertexStepModeInstance,
		}
		fmt.Fprintf(&sig, "%d:%d:%t[", i, vb.stride, vb.instanced)
		for _, a := range b.Attributes {
			if int(a.ShaderLocation) >= maxAttribs {
				return vertexLayout{}, invalid("attribute location %d exceeds limit %d", a.ShaderLocation, maxAttribs)
			}
			size, ty, norm, integer, ok := vertexFormat(a.Format)
			if !ok {
				return vertexLayout{}, invalid("vertex format %v", a.Format)
			}
			va := vertexAttrib{
				location:   gl.Attrib(a.ShaderLocation),
				size:       size,
				ty:         ty,
				normalized: norm,
				integer:    integer,
				offset:     int(a.Offset),
			}
			vb.attribs = append(vb.attribs, va)
			fmt.Fprintf(&sig, "%d/%d/%x/%t/%t/%d,", va.location, va.size, uint32(va.ty), va.normalized, va.integer, va.offset)
		}
		sig.WriteString("]")
		out.buffers = append(out.buffers, vb)
	}
	out.sig = sig.String()
	return out, nil
}

// vertexFormat maps a vertex format to its component count and GL type.
func vertexFormat(f gputypes.VertexFormat) (size int, ty gl.Enum, normalized, integer, ok bool) {
	switch f {
	case gputypes.VertexFormatUint8x2:
		return 2, gl.UNSIGNED_BYTE, false, true, true
	case gputypes.VertexFormatUint8x4:
		return 4, gl.UNSIGNED_BYTE, false, true, true
	case gputypes.VertexFormatSint8x2:
		return 2, gl.BYTE, false, true, true
	case gputypes.VertexFormatSint8x4:
		return 4, gl.BYTE, false, true, true
	case gputypes.VertexFormatUnorm8x2:
		return 2, gl.UNSIGNED_BYTE, true, false, true
	case gputypes.VertexFormatUnorm8x4:
		return 4, gl.UNSIGNED_BYTE, true, false, true
	case gputypes.VertexFormatSnorm8x2:
		return 2, gl.BYTE, true, false, true
	case gputypes.VertexFormatSnorm8x4:
		return 4, gl.BYTE, true, false, true
	case gputypes.VertexFormatUint16x2:
		return 2, gl.UNSIGNED_SHORT, false, true, true
	case gputypes.VertexFormatUint16x4:
		return 4, gl.UNSIGNED_SHORT, false, true, true
	case gputypes.VertexFormatSint16x2:
		return 2, gl.SHORT, false, true, true
	case gputypes.VertexFormatSint16x4:
		return 4, gl.SHORT, false, true, true
	case gputypes.VertexFormatUnorm16x2:
		return 2, gl.UNSIGNED_SHORT, true, false, true
	case gputypes.VertexFormatUnorm16x4:
		return 4, gl.UNSIGNED_SHORT, true, false, true
	case gputypes.VertexFormatSnorm16x2:
		return 2, gl.SHORT, true, false, true
	case gputypes.VertexFormatSnorm16x4:
		return 4, gl.SHORT, true, false, true
	case gputypes.VertexFormatFloat16x2:
		return 2, gl.HALF_FLOAT, false, false, true
	case gputypes.VertexFormatFloat16x4:
		return 4, gl.HALF_FLOAT, false, false, true
	case gputypes.VertexFormatFloat32:
		return 1, gl.FLOAT, false, false, true
	case gputypes.VertexFormatFloat32x2:
		return 2, gl.FLOAT, false, false, true
	case gputypes.VertexFormatFloat32x3:
		return 3, gl.FLOAT, false, false, true
	case gputypes.VertexFormatFloat32x4:
		return 4, gl.FLOAT, false, false, true
	case gputypes.VertexFormatUint32:
		return 1, gl.UNSIGNED_INT, false, true, true
	case gputypes.VertexFormatUint32x2:
		return 2, gl.UNSIGNED_INT, false, true, true
	case gputypes.VertexFormatUint32x3:
		return 3, gl.UNSIGNED_INT, false, true, true
	case gputypes.VertexFormatUint32x4:
		return 4, gl.UNSIGNED_INT, false, true, true
	case gputypes.VertexFormatSint32:
		return 1, gl.INT, false, true, true
	case gputypes.VertexFormatSint32x2:
		return 2, gl.INT, false, true, true
	case gputypes.VertexFormatSint32x3:
		return 3, gl.INT, false, true, true
	case gputypes.VertexFormatSint32x4:
		return 4, gl.INT, false, true, true
	default:
		return 0, 0, false, false, false
	}
}

// indexFormat returns the GL type and byte size of an index format.
func indexFormat(f gputypes.IndexFormat) (gl.Enum, int) {
	if f == gputypes.IndexFormatUint32 {
		return gl.UNSIGNED_INT, 4
	}
	return gl.UNSIGNED_SHORT, 2
}
