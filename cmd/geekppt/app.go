package main

import (
	"errors"
	"fmt"
	"io"
	"os/exec"

	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/huatuo-dr/geek-ppt/internal/cache"
	"github.com/huatuo-dr/geek-ppt/internal/diagram"
	"github.com/huatuo-dr/geek-ppt/internal/logger"
	"github.com/huatuo-dr/geek-ppt/internal/metrics"
	"github.com/huatuo-dr/geek-ppt/internal/render"
	"github.com/huatuo-dr/geek-ppt/internal/theme"
)

// app is the wired render stack shared by the subcommands.
type app struct {
	registry *theme.Registry
	metrics  *metrics.Collectors
	prom     *prometheus.Registry
	svc      *render.Service
	closers  []io.Closer
}

func newApp() (*app, error) {
	l := logger.NewStyledLogger("App")

	reg := theme.NewBuiltinRegistry()
	reg.SetLogger(logger.NewStyledLogger("Registry"))
	if !reg.Exists(cfg.Render.DefaultPlugin) {
		return nil, fmt.Errorf("render.default_plugin: %w: %s", theme.ErrPluginNotFound, cfg.Render.DefaultPlugin)
	}

	a := &app{
		registry: reg,
		metrics:  metrics.New(),
		prom:     prometheus.NewRegistry(),
	}
	a.metrics.MustRegister(a.prom)

	renderLog := logger.NewStyledLogger("Render")
	opts := []render.Option{
		render.WithLogger(renderLog),
		render.WithMetrics(a.metrics),
		render.WithDefaultPlugin(cfg.Render.DefaultPlugin),
	}

	switch cfg.Render.Cache {
	case "memory":
		opts = append(opts, render.WithCache(cache.NewMemory(cfg.Render.CacheSize)))
	case "redis":
		rc := cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB,
			cache.WithTTL(cfg.Redis.TTL),
			cache.WithPrefix(cfg.Redis.Prefix),
		)
		a.closers = append(a.closers, rc)
		opts = append(opts, render.WithCache(rc))
	}
	l.Debug("render cache", "backend", cfg.Render.Cache)

	engines, err := a.diagramEngines(l)
	if err != nil {
		a.Close()
		return nil, err
	}
	opts = append(opts, render.WithDiagrams(diagram.NewRenderer(engines,
		diagram.WithRegistry(reg),
		diagram.WithLogger(logger.NewStyledLogger("Diagram")),
		diagram.WithObserver(a.metrics),
	)))

	a.svc = render.New(reg, opts...)
	return a, nil
}

// diagramEngines builds the available engines. A missing mermaid CLI only
// disables mermaid; its blocks then render as inline errors.
func (a *app) diagramEngines(l *log.Logger) ([]diagram.Engine, error) {
	if cfg.Diagram.Disabled {
		l.Debug("diagram rendering disabled")
		return nil, nil
	}

	var engines []diagram.Engine
	d2, err := diagram.NewD2Engine(cfg.Diagram.D2Pad)
	if err != nil {
		return nil, err
	}
	engines = append(engines, d2)

	mmdc := cfg.Diagram.MermaidCLI
	if mmdc == "" {
		mmdc = "mmdc"
	}
	if _, err := exec.LookPath(mmdc); err != nil {
		l.Warn("mermaid CLI not found, mermaid blocks will not render", "cli", mmdc)
		return engines, nil
	}
	mermaid, err := diagram.NewMermaidEngine(mmdc)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, mermaid)
	return append(engines, mermaid), nil
}

// Close releases cache connections and engine temp files.
func (a *app) Close() error {
	var errs []error
	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// pluginOr returns id, or the configured default when id is empty.
func pluginOr(id string) string {
	if id == "" {
		return cfg.Render.DefaultPlugin
	}
	return id
}
