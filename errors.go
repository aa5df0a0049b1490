// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gles

import (
	"errors"
	"fmt"

	"github.com/gogpu/gles/internal/shader"
)

// Device and surface errors.
var (
	// ErrOutOfMemory is returned when the driver fails to allocate a GL
	// object or its storage.
	ErrOutOfMemory = errors.New("gles: out of memory")

	// ErrDeviceLost is returned once the GL context has been lost or the
	// device destroyed.
	ErrDeviceLost = errors.New("gles: device lost")

	// ErrSurfaceLost and ErrSurfaceOutdated are reported by surface
	// implementations and passed through unchanged.
	ErrSurfaceLost     = errors.New("gles: surface lost")
	ErrSurfaceOutdated = errors.New("gles: surface outdated")
)

// Resource errors.
var (
	// ErrZeroSizedBuffer is returned for a buffer with neither a size nor
	// initial contents.
	ErrZeroSizedBuffer = errors.New("gles: buffer size is zero")

	// ErrUnsupportedFormat is returned for texture formats GLES cannot store
	// or whose extension the device lacks.
	ErrUnsupportedFormat = errors.New("gles: unsupported texture format")

	// ErrInvalidDescriptor is returned when a descriptor fails validation.
	ErrInvalidDescriptor = errors.New("gles: invalid descriptor")

	// ErrDestroyed is returned when a destroyed resource is used.
	ErrDestroyed = errors.New("gles: resource destroyed")

	// ErrCompressedSize is returned when compressed upload data does not
	// cover the block-rounded region exactly.
	ErrCompressedSize = errors.New("gles: compressed data size mismatch")

	// ErrMapFailed is returned when a buffer range cannot be mapped.
	ErrMapFailed = errors.New("gles: buffer map failed")
)

// ShaderErrorKind classifies a ShaderError.
type ShaderErrorKind uint8

const (
	// ShaderCompilation covers WGSL validation, GLSL translation and GL
	// shader compilation.
	ShaderCompilation ShaderErrorKind = iota
	// ShaderLinkProgram is a GL program link failure.
	ShaderLinkProgram
)

func (k ShaderErrorKind) String() string {
	switch k {
	case ShaderCompilation:
		return "compilation"
	case ShaderLinkProgram:
		return "link"
	default:
		return fmt.Sprintf("ShaderErrorKind(%d)", uint8(k))
	}
}

// ShaderError carries a compiler or driver diagnostic.
type ShaderError struct {
	Kind  ShaderErrorKind
	Stage shader.Stage
	// Log is the compiler or driver info log.
	Log string
	Err error
}

func (e *ShaderError) Error() string {
	if e.Kind == ShaderLinkProgram {
		return "gles: program link failed: " + e.Log
	}
	return fmt.Sprintf("gles: %s shader compilation failed: %s", e.Stage, e.Log)
}

func (e *ShaderError) Unwrap() error { return e.Err }

// PipelineErrorKind classifies a PipelineError.
type PipelineErrorKind uint8

const (
	// PipelineLinkage wraps a ShaderError raised while building a pipeline.
	PipelineLinkage PipelineErrorKind = iota
	// PipelineEntryPoint means a stage names an entry point its module
	// does not define.
	PipelineEntryPoint
)

func (k PipelineErrorKind) String() string {
	switch k {
	case PipelineLinkage:
		return "linkage"
	case PipelineEntryPoint:
		return "entry point"
	default:
		return fmt.Sprintf("PipelineErrorKind(%d)", uint8(k))
	}
}

// PipelineError is returned by CreateRenderPipeline.
type PipelineError struct {
	Kind  PipelineErrorKind
	Label string
	Err   error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("gles: render pipeline %q: %s: %v", e.Label, e.Kind, e.Err)
}

func (e *PipelineError) Unwrap() error { return e.Err }

// invalid wraps ErrInvalidDescriptor with a formatted reason.
func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalidDescriptor}, args...)...)
}
