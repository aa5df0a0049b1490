// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/gogpu/gles/internal/shader"
)

// output is one emitted stage.
type output struct {
	source   string
	compiled *shader.Compiled
}

// compileSource translates the configured entry points of one WGSL file.
func compileSource(c *shader.Compiler, v shader.Version, src Source) ([]output, error) {
	wgsl, err := os.ReadFile(src.Path)
	if err != nil {
		return nil, err
	}
	m, err := shader.Parse(string(wgsl))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", src.Path, err)
	}

	var outs []output
	for _, ep := range m.EntryPoints() {
		want := src.Vertex
		if ep.Stage == shader.StageFragment {
			want = src.Fragment
		}
		if want != "" && want != ep.Name {
			continue
		}
		cs, err := c.Compile(m, ep.Stage, ep.Name, shader.Options{Version: v})
		if err != nil {
			return nil, fmt.Errorf("%s: %w", src.Path, err)
		}
		outs = append(outs, output{source: src.Path, compiled: cs})
	}
	for _, name := range []struct {
		entry string
		stage shader.Stage
	}{{src.Vertex, shader.StageVertex}, {src.Fragment, shader.StageFragment}} {
		if name.entry != "" && !m.HasEntryPoint(name.entry, name.stage) {
			return nil, fmt.Errorf("%s: %w: %s %q", src.Path, shader.ErrEntryPoint, name.stage, name.entry)
		}
	}
	return outs, nil
}

// stageFile names the GLSL file for a compiled stage.
func stageFile(out output) string {
	base := strings.TrimSuffix(filepath.Base(out.source), filepath.Ext(out.source))
	ext := ".vert"
	if out.compiled.Stage == shader.StageFragment {
		ext = ".frag"
	}
	return base + "." + out.compiled.EntryPoint + ext
}

// emit writes each stage into dir, or to w when dir is empty.
func emit(w io.Writer, dir string, outs []output) error {
	for _, o := range outs {
		if dir == "" {
			fmt.Fprintf(w, "// %s\n%s\n", stageFile(o), o.compiled.Source)
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
		path := filepath.Join(dir, stageFile(o))
		if err := os.WriteFile(path, []byte(o.compiled.Source), 0o644); err != nil {
			return err
		}
		slog.Info("wrote stage", "path", path, "bytes", len(o.compiled.Source))
	}
	return nil
}

// printBindings lists where every stage's bindings landed.
func printBindings(w io.Writer, outs []output) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "STAGE\tENTRY\tGROUP\tBINDING\tCLASS\tSLOT\tNAME")
	for _, o := range outs {
		for _, r := range o.compiled.Resources {
			fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%s\t%d\t%s\n",
				o.compiled.Stage, o.compiled.EntryPoint, r.Group, r.Binding, r.Class, r.Slot, r.Name)
		}
	}
	return tw.Flush()
}
