// Package render is the single entry point for turning slide markdown into
// themed, self-contained HTML and CSS.
package render

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/huatuo-dr/geek-ppt/internal/cache"
	"github.com/huatuo-dr/geek-ppt/internal/diagram"
	"github.com/huatuo-dr/geek-ppt/internal/logger"
	"github.com/huatuo-dr/geek-ppt/internal/markdown"
	"github.com/huatuo-dr/geek-ppt/internal/metrics"
	"github.com/huatuo-dr/geek-ppt/internal/override"
	"github.com/huatuo-dr/geek-ppt/internal/theme"
	"github.com/huatuo-dr/geek-ppt/internal/transform"
)

// unresolvedPlugin labels metrics for renders that fail before a plugin is
// resolved, keeping request ids out of label values.
const unresolvedPlugin = "unknown"

// Service renders slides. It is safe for concurrent use; the only state
// shared between calls is the diagram renderer's configured theme and the
// optional result cache.
type Service struct {
	registry      *theme.Registry
	diagrams      *diagram.Renderer
	pipeline      *markdown.Pipeline
	cache         cache.Cache
	metrics       *metrics.Collectors
	log           *log.Logger
	defaultPlugin string
}

// Option configures a Service.
type Option func(*Service)

// WithDiagrams sets the diagram renderer. Without one, diagram blocks
// render as inline errors.
func WithDiagrams(d *diagram.Renderer) Option {
	return func(s *Service) { s.diagrams = d }
}

// WithPipeline sets the markdown pipeline.
func WithPipeline(p *markdown.Pipeline) Option {
	return func(s *Service) { s.pipeline = p }
}

// WithCache caches successful results.
func WithCache(c cache.Cache) Option {
	return func(s *Service) { s.cache = c }
}

// WithMetrics records render and cache metrics.
func WithMetrics(m *metrics.Collectors) Option {
	return func(s *Service) { s.metrics = m }
}

// WithLogger sets the service logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

// WithDefaultPlugin sets the plugin used when a request names an unknown one.
func WithDefaultPlugin(id string) Option {
	return func(s *Service) {
		if id = theme.NormalizeID(id); id != "" {
			s.defaultPlugin = id
		}
	}
}

// New builds a render service over reg.
func New(reg *theme.Registry, opts ...Option) *Service {
	s := &Service{
		registry:      reg,
		log:           logger.NewStyledLogger("Render"),
		defaultPlugin: theme.DefaultPluginID,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.pipeline == nil {
		s.pipeline = markdown.New()
	}
	if s.diagrams == nil {
		dopts := []diagram.Option{diagram.WithRegistry(reg), diagram.WithLogger(s.log)}
		if s.metrics != nil {
			dopts = append(dopts, diagram.WithObserver(s.metrics))
		}
		s.diagrams = diagram.NewRenderer(nil, dopts...)
	}
	return s
}

// Registry returns the plugin registry the service resolves themes from.
func (s *Service) Registry() *theme.Registry {
	return s.registry
}

// DefaultPlugin returns the fallback plugin id.
func (s *Service) DefaultPlugin() string {
	return s.defaultPlugin
}

// EffectiveBase resolves the plugin a render actually uses: the base named
// by the override's directive when present, else pluginID. Unknown ids fall
// back to the default plugin.
func (s *Service) EffectiveBase(pluginID, overrideCSS string) (*theme.Plugin, error) {
	id := theme.NormalizeID(pluginID)
	if base, ok := override.DetectBase(overrideCSS); ok {
		id = base
	}
	if p, ok := s.registry.Lookup(id); ok {
		return p, nil
	}
	s.log.Warn("unknown theme plugin, using default", "plugin", id, "default", s.defaultPlugin)
	return s.registry.Get(s.defaultPlugin)
}

// Render runs one request. It never returns an error: failures, including
// panics, are reported in Result.Error with empty HTML and CSS.
func (s *Service) Render(ctx context.Context, req Request) (res Result) {
	start := time.Now()
	overrideCSS := req.Override()
	res = Result{ID: req.ID, IsOverride: overrideCSS != ""}
	pluginLabel := unresolvedPlugin

	defer func() {
		if rec := recover(); rec != nil {
			s.log.Error("render panicked", "slide", req.SlideIndex, "error", rec)
			res = s.failed(res, start, fmt.Errorf("render panicked: %v", rec))
		}
		s.metrics.ObserveRender(pluginLabel, res.OK(), time.Since(start))
	}()

	plugin, err := s.EffectiveBase(req.PluginID, overrideCSS)
	if err != nil {
		return s.failed(res, start, err)
	}
	pluginLabel = plugin.ID

	key := cache.Key(plugin.ID, req.Markdown, overrideCSS)
	if s.cache != nil {
		entry, err := s.cache.Get(ctx, key)
		switch {
		case err == nil:
			s.metrics.ObserveCache(true)
			res.HTML, res.CSS = entry.HTML, entry.CSS
			res.ElapsedMs = time.Since(start).Milliseconds()
			return res
		case errors.Is(err, cache.ErrMiss):
			s.metrics.ObserveCache(false)
		default:
			s.metrics.ObserveCache(false)
			s.log.Warn("render cache lookup failed", "error", err)
		}
	}

	html, failedDiagrams, err := s.markup(ctx, plugin.ID, req.Markdown)
	if err != nil {
		return s.failed(res, start, err)
	}

	css := plugin.CSS()
	if overrideCSS != "" {
		css = css + "\n\n" + overrideCSS
	}

	res.HTML = transform.Wrap(plugin.ID, html)
	res.CSS = css
	res.ElapsedMs = time.Since(start).Milliseconds()

	// Slides with failed diagrams are never stored.
	if s.cache != nil && failedDiagrams == 0 && ctx.Err() == nil {
		if err := s.cache.Set(ctx, key, cache.Entry{HTML: res.HTML, CSS: res.CSS}); err != nil {
			s.log.Warn("render cache store failed", "error", err)
		}
	}
	s.log.Debug("rendered slide", "slide", req.SlideIndex, "plugin", plugin.ID, "ms", res.ElapsedMs)
	return res
}

// markup runs pre-processing, diagram extraction, conversion and injection.
// It reports how many diagram blocks rendered as inline errors.
func (s *Service) markup(ctx context.Context, pluginID, md string) (string, int, error) {
	if transform.NeedsLineMerge(pluginID) {
		md = transform.MergeLines(md)
	}
	md, blocks := diagram.Extract(md)
	html, err := s.pipeline.Convert(md)
	if err != nil {
		return "", 0, err
	}
	html, failed := s.diagrams.Inject(ctx, html, blocks, pluginID)
	return html, failed, nil
}

func (s *Service) failed(res Result, start time.Time, err error) Result {
	s.log.Warn("render failed", "error", err)
	res.HTML, res.CSS = "", ""
	res.Error = err.Error()
	res.ElapsedMs = time.Since(start).Milliseconds()
	return res
}

// PreviewElement renders the preview markdown of one style element with
// the override generated from props on top of base.
func (s *Service) PreviewElement(ctx context.Context, elementID, base string, props map[string]string, size Size) Result {
	desc, err := override.Lookup(elementID)
	if err != nil {
		return Result{Error: err.Error()}
	}
	css := override.Generate(props, base)
	req := NewRequest(desc.PreviewMarkdown, base, size, 0)
	if strings.TrimSpace(css) != "" {
		req = req.WithOverride(css)
	}
	return s.Render(ctx, req)
}
