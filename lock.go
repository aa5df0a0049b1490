// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gles

import (
	"fmt"
	"time"
)

// contextLock serializes access to the GL context. Acquisition waits a
// bounded time; running out of it means the application deadlocked on
// the device and is fatal.
type contextLock struct {
	sem     chan struct{}
	timeout time.Duration
}

func newContextLock(timeout time.Duration) *contextLock {
	return &contextLock{sem: make(chan struct{}, 1), timeout: timeout}
}

func (l *contextLock) acquire() {
	select {
	case l.sem <- struct{}{}:
		return
	default:
	}
	t := time.NewTimer(l.timeout)
	defer t.Stop()
	select {
	case l.sem <- struct{}{}:
	case <-t.C:
		panic(fmt.Sprintf("gles: context lock not acquired within %v (is a command encoder still open?)", l.timeout))
	}
}

func (l *contextLock) release() {
	select {
	case <-l.sem:
	default:
		panic("gles: context lock released while not held")
	}
}
