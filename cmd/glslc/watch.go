// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// settle is how long a file must stay quiet before it is recompiled.
// Editors often write a file in several steps.
const settle = 100 * time.Millisecond

// watch calls rebuild with the changed source each time one of paths is
// written, until ctx is done. Directories are watched rather than files so
// editors that replace the file on save keep triggering events.
func watch(ctx context.Context, paths []string, rebuild func(path string)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	tracked := make(map[string]bool, len(paths))
	dirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return err
		}
		tracked[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for d := range dirs {
		if err := w.Add(d); err != nil {
			return err
		}
		slog.Debug("watching", "dir", d)
	}

	pending := make(map[string]bool)
	timer := time.NewTimer(settle)
	timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			abs, _ := filepath.Abs(ev.Name)
			if !tracked[abs] {
				continue
			}
			pending[abs] = true
			timer.Reset(settle)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			slog.Warn("watch error", "err", err)
		case <-timer.C:
			for p := range pending {
				rebuild(p)
			}
			clear(pending)
		}
	}
}
