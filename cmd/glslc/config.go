// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/gogpu/gles/internal/shader"
)

// Config is the glslc.toml layout.
//
//	version = "300 es"
//	out = "build/glsl"
//	uniform_buffers = 24
//	texture_units = 16
//
//	[[shader]]
//	source = "shaders/sprite.wgsl"
//	vertex = "vs_main"
//	fragment = "fs_main"
type Config struct {
	Version        string   `toml:"version"`
	Out            string   `toml:"out"`
	UniformBuffers int      `toml:"uniform_buffers"`
	TextureUnits   int      `toml:"texture_units"`
	Shaders        []Source `toml:"shader"`
}

// Source is one WGSL file. Empty entry point names compile every entry
// point of that stage.
type Source struct {
	Path     string `toml:"source"`
	Vertex   string `toml:"vertex"`
	Fragment string `toml:"fragment"`
}

func defaultConfig() Config {
	return Config{
		Version:        "300 es",
		UniformBuffers: 24,
		TextureUnits:   16,
	}
}

// loadConfig reads path over the defaults. Relative shader paths and the
// output directory are resolved against the config file's directory.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	base := filepath.Dir(path)
	for i := range cfg.Shaders {
		cfg.Shaders[i].Path = resolve(base, cfg.Shaders[i].Path)
	}
	if cfg.Out != "" {
		cfg.Out = resolve(base, cfg.Out)
	}
	return cfg, cfg.validate()
}

func resolve(base, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}

func (c Config) validate() error {
	if _, err := shader.ParseVersion(c.Version); err != nil {
		return err
	}
	if len(c.Shaders) == 0 {
		return fmt.Errorf("no shaders configured")
	}
	for i, s := range c.Shaders {
		if s.Path == "" {
			return fmt.Errorf("shader %d has no source", i)
		}
	}
	return nil
}
