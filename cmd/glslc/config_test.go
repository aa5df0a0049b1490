// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadConfigResolvesPaths(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "glslc.toml")
	writeFile(t, path, `
version = "310 es"
out = "build"
texture_units = 8

[[shader]]
source = "shaders/sprite.wgsl"
vertex = "vs_main"

[[shader]]
source = "/abs/blit.wgsl"
`)

	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Version != "310 es" {
		t.Errorf("Version = %q", cfg.Version)
	}
	if cfg.UniformBuffers != 24 {
		t.Errorf("UniformBuffers = %d, want default 24", cfg.UniformBuffers)
	}
	if cfg.TextureUnits != 8 {
		t.Errorf("TextureUnits = %d, want 8", cfg.TextureUnits)
	}
	if want := filepath.Join(dir, "build"); cfg.Out != want {
		t.Errorf("Out = %q, want %q", cfg.Out, want)
	}
	if len(cfg.Shaders) != 2 {
		t.Fatalf("got %d shaders, want 2", len(cfg.Shaders))
	}
	if want := filepath.Join(dir, "shaders", "sprite.wgsl"); cfg.Shaders[0].Path != want {
		t.Errorf("Shaders[0].Path = %q, want %q", cfg.Shaders[0].Path, want)
	}
	if cfg.Shaders[0].Vertex != "vs_main" || cfg.Shaders[0].Fragment != "" {
		t.Errorf("Shaders[0] entries = %q/%q", cfg.Shaders[0].Vertex, cfg.Shaders[0].Fragment)
	}
	if cfg.Shaders[1].Path != "/abs/blit.wgsl" {
		t.Errorf("absolute path rewritten to %q", cfg.Shaders[1].Path)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{"no shaders", defaultConfig(), "no shaders"},
		{"bad version", Config{Version: "300 core", Shaders: []Source{{Path: "a.wgsl"}}}, "unrecognized"},
		{"empty source", Config{Version: "300 es", Shaders: []Source{{}}}, "no source"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("validate() = %v, want error containing %q", err, tt.want)
			}
		})
	}

	ok := defaultConfig()
	ok.Shaders = []Source{{Path: "a.wgsl"}}
	if err := ok.validate(); err != nil {
		t.Errorf("valid config: %v", err)
	}
}

func TestLoadConfigSyntaxError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "glslc.toml")
	writeFile(t, path, "version = \n")
	if _, err := loadConfig(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestStageFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "tri.wgsl")
	writeFile(t, src, `
@vertex
fn vs_main(@builtin(vertex_index) i: u32) -> @builtin(position) vec4<f32> {
    return vec4<f32>(f32(i), 0.0, 0.0, 1.0);
}

@fragment
fn fs_main() -> @location(0) vec4<f32> {
    return vec4<f32>(1.0, 0.0, 0.0, 1.0);
}
`)
	r, err := newRunner(Config{Version: "300 es", UniformBuffers: 24, TextureUnits: 16}, false)
	if err != nil {
		t.Fatal(err)
	}
	outs, err := compileSource(r.compiler, r.version, Source{Path: src})
	if err != nil {
		t.Skipf("naga cannot compile the test shader: %v", err)
	}
	names := map[string]bool{}
	for _, o := range outs {
		names[stageFile(o)] = true
	}
	for _, want := range []string{"tri.vs_main.vert", "tri.fs_main.frag"} {
		if !names[want] {
			t.Errorf("missing %s in %v", want, names)
		}
	}

	out := filepath.Join(dir, "out")
	if err := emit(nil, out, outs); err != nil {
		t.Fatalf("emit: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(out, "tri.fs_main.frag"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "#version 300 es") {
		t.Errorf("fragment stage lacks version line:\n%s", data)
	}

	if _, err := compileSource(r.compiler, r.version, Source{Path: src, Fragment: "missing"}); err == nil {
		t.Error("expected error for unknown fragment entry point")
	}
}
