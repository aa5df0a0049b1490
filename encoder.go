// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gles

import (
	"errors"
	"fmt"
)

// Command encoder errors.
var (
	// ErrEncoderFinished is returned when an encoder is used after Finish.
	ErrEncoderFinished = errors.New("gles: encoder already finished")

	// ErrEncoderLocked is returned when the encoder is used while one of
	// its passes is open.
	ErrEncoderLocked = errors.New("gles: encoder is locked (pass in progress)")

	// ErrCommandBufferConsumed is returned when a command buffer is
	// submitted twice.
	ErrCommandBufferConsumed = errors.New("gles: command buffer already submitted")
)

// EncoderState is the lifecycle state of a CommandEncoder.
type EncoderState int

const (
	// EncoderStateRecording accepts passes and Finish.
	EncoderStateRecording EncoderState = iota
	// EncoderStateLocked has a render pass open.
	EncoderStateLocked
	// EncoderStateFinished has released the context lock.
	EncoderStateFinished
)

func (s EncoderState) String() string {
	switch s {
	case EncoderStateRecording:
		return "Recording"
	case EncoderStateLocked:
		return "Locked"
	case EncoderStateFinished:
		return "Finished"
	default:
		return fmt.Sprintf("Unknown(%d)", int(s))
	}
}

// CommandEncoder records passes. There is no deferred command list: the
// encoder holds the device's context lock from creation until Finish and
// every call runs on the GL context immediately.
//
// State machine:
//
//	Recording -> BeginRenderPass -> Locked
//	Locked    -> RenderPass.End  -> Recording
//	Recording -> Finish          -> Finished
//
// CommandEncoder is not safe for concurrent use.
type CommandEncoder struct {
	dev   *Device
	label string
	pass  *RenderPass
	done  bool
}

// CreateCommandEncoder takes the context lock and returns an encoder. The
// lock is held until Finish; any other device call from another goroutine
// waits for it and panics when the lock timeout runs out.
func (d *Device) CreateCommandEncoder(label string) (*CommandEncoder, error) {
	d.lock.acquire()
	if d.destroyed {
		d.lock.release()
		return nil, ErrDeviceLost
	}
	return &CommandEncoder{dev: d, label: label}, nil
}

// State returns the encoder's lifecycle state.
func (e *CommandEncoder) State() EncoderState {
	switch {
	case e.done:
		return EncoderStateFinished
	case e.pass != nil:
		return EncoderStateLocked
	default:
		return EncoderStateRecording
	}
}

func (e *CommandEncoder) checkRecording() error {
	switch e.State() {
	case EncoderStateFinished:
		return ErrEncoderFinished
	case EncoderStateLocked:
		return ErrEncoderLocked
	}
	return nil
}

// BeginRenderPass opens a render pass. Attachments loaded with
// LoadOpClear are cleared here.
func (e *CommandEncoder) BeginRenderPass(desc *RenderPassDescriptor) (*RenderPass, error) {
	if err := e.checkRecording(); err != nil {
		return nil, fmt.Errorf("begin render pass: %w", err)
	}
	if desc == nil {
		return nil, invalid("nil render pass descriptor")
	}
	if err := e.dev.state.beginRenderPass(desc); err != nil {
		return nil, err
	}
	e.pass = &RenderPass{encoder: e, label: desc.Label}
	return e.pass, nil
}

// BeginComputePass panics: GLES 3.0 has no compute shaders.
func (e *CommandEncoder) BeginComputePass(string) {
	panic("gles: compute passes are not supported")
}

// CommandBuffer is the token Finish returns for Queue.Submit.
type CommandBuffer struct {
	dev      *Device
	label    string
	consumed bool
}

// Finish releases the context lock and returns a command buffer. Every
// recorded operation has already executed.
func (e *CommandEncoder) Finish() (*CommandBuffer, error) {
	if err := e.checkRecording(); err != nil {
		return nil, fmt.Errorf("finish: %w", err)
	}
	e.done = true
	e.dev.lock.release()
	return &CommandBuffer{dev: e.dev, label: e.label}, nil
}
