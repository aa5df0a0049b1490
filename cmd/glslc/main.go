// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Command glslc translates WGSL to the GLSL ES the gles device compiles
// and prints where each binding lands.
//
// Usage:
//
//	glslc [flags] shader.wgsl...
//	glslc -config glslc.toml [-watch]
//
// Without -out the GLSL is written to stdout.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/gogpu/gles"
	"github.com/gogpu/gles/internal/shader"
)

func main() {
	var (
		configPath = flag.String("config", "", "TOML config listing shaders")
		version    = flag.String("version", "", "GLSL version, e.g. \"300 es\" (overrides config)")
		out        = flag.String("out", "", "output directory (overrides config)")
		vertex     = flag.String("vertex", "", "vertex entry point (default: all)")
		fragment   = flag.String("fragment", "", "fragment entry point (default: all)")
		bindings   = flag.Bool("bindings", true, "print the binding table")
		watchMode  = flag.Bool("watch", false, "recompile when a source changes")
		verbose    = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
		Prefix:          "glslc",
	})
	if *verbose {
		logger.SetLevel(log.DebugLevel)
	}
	slog.SetDefault(slog.New(logger))
	if *verbose {
		gles.SetLogger(slog.Default())
	}

	cfg := defaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = loadConfig(*configPath); err != nil {
			logger.Fatal("config", "err", err)
		}
	}
	for _, p := range flag.Args() {
		cfg.Shaders = append(cfg.Shaders, Source{Path: p, Vertex: *vertex, Fragment: *fragment})
	}
	if *version != "" {
		cfg.Version = *version
	}
	if *out != "" {
		cfg.Out = *out
	}
	if err := cfg.validate(); err != nil {
		fmt.Fprintln(os.Stderr, "usage: glslc [flags] shader.wgsl... | glslc -config glslc.toml")
		flag.PrintDefaults()
		logger.Fatal("invalid arguments", "err", err)
	}

	r, err := newRunner(cfg, *bindings)
	if err != nil {
		logger.Fatal("setup", "err", err)
	}
	failed := false
	for _, s := range cfg.Shaders {
		if err := r.build(s); err != nil {
			logger.Error("compile failed", "source", s.Path, "err", err)
			failed = true
		}
	}
	if !*watchMode {
		if failed {
			os.Exit(1)
		}
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	paths := make([]string, len(cfg.Shaders))
	for i, s := range cfg.Shaders {
		paths[i] = s.Path
	}
	logger.Info("watching for changes", "shaders", len(paths))
	err = watch(ctx, paths, func(path string) {
		for _, s := range cfg.Shaders {
			if abs, _ := filepath.Abs(s.Path); abs != path {
				continue
			}
			if err := r.build(s); err != nil {
				logger.Error("compile failed", "source", s.Path, "err", err)
			}
		}
	})
	if err != nil {
		logger.Fatal("watch", "err", err)
	}
}

// runner compiles sources with one slot allocator, so bindings shared
// between files land on the same slots the way they would on one device.
type runner struct {
	cfg      Config
	version  shader.Version
	compiler *shader.Compiler
	bindings bool
}

func newRunner(cfg Config, bindings bool) (*runner, error) {
	v, err := shader.ParseVersion(cfg.Version)
	if err != nil {
		return nil, err
	}
	return &runner{
		cfg:      cfg,
		version:  v,
		compiler: shader.NewCompiler(shader.NewSlotAllocator(cfg.UniformBuffers, cfg.TextureUnits)),
		bindings: bindings,
	}, nil
}

func (r *runner) build(s Source) error {
	start := time.Now()
	outs, err := compileSource(r.compiler, r.version, s)
	if err != nil {
		return err
	}
	if err := emit(os.Stdout, r.cfg.Out, outs); err != nil {
		return err
	}
	if r.bindings {
		if err := printBindings(os.Stderr, outs); err != nil {
			return err
		}
	}
	slog.Debug("compiled", "source", s.Path, "stages", len(outs), "took", time.Since(start))
	return nil
}
