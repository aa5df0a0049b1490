// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gles

import (
	"github.com/gogpu/gputypes"

	"github.com/gogpu/gles/gl"
)

// StencilOperation is what a stencil test outcome does to the stored value.
type StencilOperation uint8

const (
	StencilOperationKeep StencilOperation = iota
	StencilOperationZero
	StencilOperationReplace
	StencilOperationInvert
	StencilOperationIncrementClamp
	StencilOperationDecrementClamp
	StencilOperationIncrementWrap
	StencilOperationDecrementWrap
)

// StencilFaceState is the stencil test for one face.
type StencilFaceState struct {
	Compare     gputypes.CompareFunction
	FailOp      StencilOperation
	DepthFailOp StencilOperation
	PassOp      StencilOperation
}

// DepthStencilState configures depth and stencil testing of a pipeline.
type DepthStencilState struct {
	Format            gputypes.TextureFormat
	DepthWriteEnabled bool
	DepthCompare      gputypes.CompareFunction

	StencilFront     StencilFaceState
	StencilBack      StencilFaceState
	StencilReadMask  uint32
	StencilWriteMask uint32

	DepthBias           int32
	DepthBiasSlopeScale float32
}

// The interned pipeline state pieces. Each is a comparable value; a
// pipeline holds one counted handle per piece and the state machine
// compares handles, not values, when switching pipelines.

// rasterState is face culling and winding.
type rasterState struct {
	cull  gl.Enum // 0 disables culling
	front gl.Enum
}

type depthState struct {
	enabled    bool
	fn         gl.Enum
	write      bool
	biasFactor float32
	biasUnits  float32
}

type stencilFace struct {
	fn        gl.Enum
	fail      gl.Enum
	depthFail gl.Enum
	pass      gl.Enum
}

type stencilState struct {
	enabled     bool
	front, back stencilFace
	readMask    uint32
	writeMask   uint32
}

type blendState struct {
	enabled         bool
	colorOp         gl.Enum
	colorSrc        gl.Enum
	colorDst        gl.Enum
	alphaOp         gl.Enum
	alphaSrc        gl.Enum
	alphaDst        gl.Enum
	alphaToCoverage bool
}

func deriveRaster(p gputypes.PrimitiveState) rasterState {
	r := rasterState{front: gl.CCW}
	if p.FrontFace == gputypes.FrontFaceCW {
		r.front = gl.CW
	}
	switch p.CullMode {
	case gputypes.CullModeFront:
		r.cull = gl.FRONT
	case gputypes.CullModeBack:
		r.cull = gl.BACK
	}
	return r
}

func deriveDepth(ds *DepthStencilState) depthState {
	if ds == nil {
		return depthState{fn: gl.ALWAYS}
	}
	d := depthState{
		fn:         compareFunc(ds.DepthCompare),
		write:      ds.DepthWriteEnabled,
		biasFactor: ds.DepthBiasSlopeScale,
		biasUnits:  float32(ds.DepthBias),
	}
	d.enabled = d.fn != gl.ALWAYS || d.write
	return d
}

func deriveStencil(ds *DepthStencilState) stencilState {
	if ds == nil {
		return stencilState{}
	}
	face := func(f StencilFaceState) stencilFace {
		return stencilFace{
			fn:        compareFunc(f.Compare),
			fail:      stencilOp(f.FailOp),
			depthFail: stencilOp(f.DepthFailOp),
			pass:      stencilOp(f.PassOp),
		}
	}
	s := stencilState{
		front:     face(ds.StencilFront),
		back:      face(ds.StencilBack),
		readMask:  ds.StencilReadMask,
		writeMask: ds.StencilWriteMask,
	}
	passive := stencilFace{fn: gl.ALWAYS, fail: gl.KEEP, depthFail: gl.KEEP, pass: gl.KEEP}
	s.enabled = s.front != passive || s.back != passive
	return s
}

func deriveBlend(b *gputypes.BlendState, alphaToCoverage bool) blendState {
	out := blendState{alphaToCoverage: alphaToCoverage}
	if b == nil {
		return out
	}
	out.enabled = true
	out.colorOp = blendOp(b.Color.Operation)
	out.colorSrc = blendFactor(b.Color.SrcFactor)
	out.colorDst = blendFactor(b.Color.DstFactor)
	out.alphaOp = blendOp(b.Alpha.Operation)
	out.alphaSrc = blendFactor(b.Alpha.SrcFactor)
	out.alphaDst = blendFactor(b.Alpha.DstFactor)
	return out
}

func compareFunc(c gputypes.CompareFunction) gl.Enum {
	switch c {
	case gputypes.CompareFunctionNever:
		return gl.NEVER
	case gputypes.CompareFunctionLess:
		return gl.LESS
	case gputypes.CompareFunctionEqual:
		return gl.EQUAL
	case gputypes.CompareFunctionLessEqual:
		return gl.LEQUAL
	case gputypes.CompareFunctionGreater:
		return gl.GREATER
	case gputypes.CompareFunctionNotEqual:
		return gl.NOTEQUAL
	case gputypes.CompareFunctionGreaterEqual:
		return gl.GEQUAL
	default:
		return gl.ALWAYS
	}
}

func stencilOp(op StencilOperation) gl.Enum {
	switch op {
	case StencilOperationZero:
		return gl.ZERO
	case StencilOperationReplace:
		return gl.REPLACE
	case StencilOperationInvert:
		return gl.INVERT
	case StencilOperationIncrementClamp:
		return gl.INCR
	case StencilOperationDecrementClamp:
		return gl.DECR
	case StencilOperationIncrementWrap:
		return gl.INCR_WRAP
	case StencilOperationDecrementWrap:
		return gl.DECR_WRAP
	default:
		return gl.KEEP
	}
}

func blendOp(op gputypes.BlendOperation) gl.Enum {
	switch op {
	case gputypes.BlendOperationSubtract:
		return gl.FUNC_SUBTRACT
	case gputypes.BlendOperationReverseSubtract:
		return gl.FUNC_REVERSE_SUBTRACT
	case gputypes.BlendOperationMin:
		return gl.MIN
	case gputypes.BlendOperationMax:
		return gl.MAX
	default:
		return gl.FUNC_ADD
	}
}

func blendFactor(f gputypes.BlendFactor) gl.Enum {
	switch f {
	case gputypes.BlendFactorZero:
		return gl.ZERO
	case gputypes.BlendFactorOne:
		return gl.ONE
	case gputypes.BlendFactorSrc:
		return gl.SRC_COLOR
	case gputypes.BlendFactorOneMinusSrc:
		return gl.ONE_MINUS_SRC_COLOR
	case gputypes.BlendFactorSrcAlpha:
		return gl.SRC_ALPHA
	case gputypes.BlendFactorOneMinusSrcAlpha:
		return gl.ONE_MINUS_SRC_ALPHA
	case gputypes.BlendFactorDst:
		return gl.DST_COLOR
	case gputypes.BlendFactorOneMinusDst:
		return gl.ONE_MINUS_DST_COLOR
	case gputypes.BlendFactorDstAlpha:
		return gl.DST_ALPHA
	case gputypes.BlendFactorOneMinusDstAlpha:
		return gl.ONE_MINUS_DST_ALPHA
	case gputypes.BlendFactorSrcAlphaSaturated:
		return gl.SRC_ALPHA_SATURATE
	case gputypes.BlendFactorConstant:
		return gl.CONSTANT_COLOR
	case gputypes.BlendFactorOneMinusConstant:
		return gl.ONE_MINUS_CONSTANT_COLOR
	default:
		return gl.ONE
	}
}

func topology(t gputypes.PrimitiveTopology) gl.Enum {
	switch t {
	case gputypes.PrimitiveTopologyPointList:
		return gl.POINTS
	case gputypes.PrimitiveTopologyLineList:
		return gl.LINES
	case gputypes.PrimitiveTopologyLineStrip:
		return gl.LINE_STRIP
	case gputypes.PrimitiveTopologyTriangleStrip:
		return gl.TRIANGLE_STRIP
	default:
		return gl.TRIANGLES
	}
}
