package render

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huatuo-dr/geek-ppt/internal/cache"
	"github.com/huatuo-dr/geek-ppt/internal/diagram"
	"github.com/huatuo-dr/geek-ppt/internal/logger"
	"github.com/huatuo-dr/geek-ppt/internal/metrics"
	"github.com/huatuo-dr/geek-ppt/internal/theme"
)

type stubEngine struct {
	lang string
	mu   sync.Mutex
	seen []string
}

func (e *stubEngine) Language() string { return e.lang }

func (e *stubEngine) Configure(p diagram.Palette) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.seen = append(e.seen, p.ThemeID)
	return nil
}

func (e *stubEngine) Render(_ context.Context, src string) (string, error) {
	if strings.Contains(src, "syntax error") {
		return "", errors.New("unexpected token")
	}
	return "<svg><text>" + src + "</text></svg>", nil
}

func newService(t *testing.T, opts ...Option) *Service {
	t.Helper()
	reg := theme.NewBuiltinRegistry()
	base := []Option{WithLogger(logger.Discard())}
	return New(reg, append(base, opts...)...)
}

func plainCSS(t *testing.T) string {
	t.Helper()
	p, ok := theme.NewBuiltinRegistry().Lookup(theme.Plain)
	require.True(t, ok)
	return p.CSS()
}

func TestRenderScenario(t *testing.T) {
	svc := newService(t)
	req := NewRequest("# Hello\n\nWorld", "plain", DefaultSize, 0)
	res := svc.Render(context.Background(), req)

	require.True(t, res.OK(), res.Error)
	assert.Equal(t, req.ID, res.ID)
	assert.False(t, res.IsOverride)
	assert.Equal(t, `<div class="plain-slide"><h1>Hello</h1>`+"\n"+`<p>World</p>`+"\n"+`</div>`, res.HTML)
	assert.Equal(t, 1, strings.Count(res.HTML, "<h1>"))
	assert.Equal(t, 1, strings.Count(res.HTML, "<p>"))
	assert.Equal(t, plainCSS(t), res.CSS)
}

func TestRenderDeterministic(t *testing.T) {
	svc := newService(t)
	md := "# T\n\n```go\nx := 1\n```\n\n| a |\n| - |\n| b |\n"
	css := "/* @theme-base: cool */\n\n.cool-slide h1 {\ncolor: red;\n}"
	first := svc.Render(context.Background(), NewRequest(md, "plain", DefaultSize, 0).WithOverride(css))
	require.True(t, first.OK())

	var wg sync.WaitGroup
	for i := 0; i < 6; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res := svc.Render(context.Background(), NewRequest(md, "plain", DefaultSize, i).WithOverride(css))
			assert.Equal(t, first.HTML, res.HTML)
			assert.Equal(t, first.CSS, res.CSS)
		}()
	}
	wg.Wait()
}

func TestRenderIsolatesDiagramErrors(t *testing.T) {
	eng := &stubEngine{lang: diagram.D2}
	reg := theme.NewBuiltinRegistry()
	d := diagram.NewRenderer([]diagram.Engine{eng}, diagram.WithRegistry(reg), diagram.WithLogger(logger.Discard()))
	svc := New(reg, WithDiagrams(d), WithLogger(logger.Discard()))

	md := "# Title\n\n```d2\na -> b\n```\n\n```d2\nsyntax error\n```\n\nclosing words"
	res := svc.Render(context.Background(), NewRequest(md, "cool", DefaultSize, 0))

	require.True(t, res.OK(), res.Error)
	assert.Contains(t, res.HTML, `<div class="diagram-container diagram-d2"><svg><text>a -> b</text></svg></div>`)
	assert.Contains(t, res.HTML, `<div class="diagram-error diagram-d2">d2 diagram render failed: unexpected token</div>`)
	assert.Contains(t, res.HTML, "<p>closing words</p>")
	assert.NotContains(t, res.HTML, "diagram-placeholder")
	assert.Equal(t, []string{"cool"}, eng.seen)
}

func TestRenderWithoutEnginesShowsInlineError(t *testing.T) {
	svc := newService(t)
	res := svc.Render(context.Background(), NewRequest("```mermaid\ngraph TD\n```\n\nafter", "plain", DefaultSize, 0))
	require.True(t, res.OK())
	assert.Contains(t, res.HTML, `diagram-error diagram-mermaid`)
	assert.Contains(t, res.HTML, "<p>after</p>")
}

func TestRenderOverridePrecedence(t *testing.T) {
	svc := newService(t)
	override := ".plain-slide h1 {\ncolor: #ff0000;\n}"
	res := svc.Render(context.Background(), NewRequest("# Hi", "plain", DefaultSize, 0).WithOverride(override))

	require.True(t, res.OK())
	assert.True(t, res.IsOverride)
	builtin := strings.Index(res.CSS, ".plain-slide h1 {")
	overridden := strings.LastIndex(res.CSS, ".plain-slide h1 {")
	require.GreaterOrEqual(t, builtin, 0)
	assert.Greater(t, overridden, builtin)
	assert.Equal(t, plainCSS(t)+"\n\n"+override, res.CSS)
}

func TestRenderOverrideDirectiveChangesBase(t *testing.T) {
	svc := newService(t)
	override := "/* @theme-base: cool */\n\n\n.cool-slide h1 {\ncolor: red;\n}"
	res := svc.Render(context.Background(), NewRequest("# Hi", "plain", DefaultSize, 0).WithOverride(override))

	require.True(t, res.OK())
	assert.True(t, strings.HasPrefix(res.HTML, `<div class="cool-slide"><div class="cool-scroll">`))
	cool, _ := svc.Registry().Lookup(theme.Cool)
	assert.True(t, strings.HasPrefix(res.CSS, cool.CSS()))
	assert.True(t, strings.HasSuffix(res.CSS, override))
}

func TestRenderEmptyOverrideIsIgnored(t *testing.T) {
	svc := newService(t)
	res := svc.Render(context.Background(), NewRequest("x", "plain", DefaultSize, 0).WithOverride(""))
	require.True(t, res.OK())
	assert.False(t, res.IsOverride)
	assert.Equal(t, plainCSS(t), res.CSS)
}

func TestRenderLineMerge(t *testing.T) {
	svc := newService(t)

	merged := svc.Render(context.Background(), NewRequest("Line one\nLine two", "torrent", DefaultSize, 0))
	require.True(t, merged.OK())
	assert.Contains(t, merged.HTML, `<div class="torrent-line"><span>Line one</span> <span>Line two</span></div>`)

	split := svc.Render(context.Background(), NewRequest("Line one\n\nLine two", "torrent", DefaultSize, 0))
	require.True(t, split.OK())
	assert.NotContains(t, split.HTML, "torrent-line")
	assert.Contains(t, split.HTML, "<p>Line one</p>")
	assert.Contains(t, split.HTML, "<p>Line two</p>")

	plain := svc.Render(context.Background(), NewRequest("Line one\nLine two", "plain", DefaultSize, 0))
	assert.NotContains(t, plain.HTML, "torrent-line")
}

func TestRenderUnknownPluginFallsBack(t *testing.T) {
	svc := newService(t)
	res := svc.Render(context.Background(), NewRequest("# x", "custom-1234", DefaultSize, 0))
	require.True(t, res.OK())
	assert.True(t, strings.HasPrefix(res.HTML, `<div class="plain-slide">`))
	assert.Equal(t, plainCSS(t), res.CSS)

	cool := newService(t, WithDefaultPlugin("cool"))
	res = cool.Render(context.Background(), NewRequest("# x", "nope", DefaultSize, 0))
	assert.True(t, strings.HasPrefix(res.HTML, `<div class="cool-slide">`))
}

func TestRenderMissingDefaultIsReported(t *testing.T) {
	m := metrics.New()
	svc := New(theme.NewRegistry(), WithLogger(logger.Discard()), WithMetrics(m))
	res := svc.Render(context.Background(), NewRequest("# x", "custom-8f2e", DefaultSize, 0))
	assert.False(t, res.OK())
	assert.Contains(t, res.Error, "theme plugin not found")
	assert.Empty(t, res.HTML)
	assert.Empty(t, res.CSS)

	assert.Equal(t, 1, testutil.CollectAndCount(m.Renders))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Renders.WithLabelValues("unknown", "error")))
}

func TestRenderRecoversPanics(t *testing.T) {
	reg := theme.NewRegistry()
	reg.SetLogger(logger.Discard())
	reg.Register(&theme.Plugin{
		ID:         "plain",
		Version:    "1.0.0",
		StyleSheet: func() string { panic("stylesheet exploded") },
	})
	svc := New(reg, WithLogger(logger.Discard()))

	req := NewRequest("# x", "plain", DefaultSize, 0)
	var res Result
	require.NotPanics(t, func() { res = svc.Render(context.Background(), req) })
	assert.Equal(t, req.ID, res.ID)
	assert.Contains(t, res.Error, "stylesheet exploded")
	assert.Empty(t, res.HTML)
	assert.Empty(t, res.CSS)
}

type countingCache struct {
	*cache.Memory
	sets int
}

func (c *countingCache) Set(ctx context.Context, key string, e cache.Entry) error {
	c.sets++
	return c.Memory.Set(ctx, key, e)
}

func TestRenderCache(t *testing.T) {
	c := &countingCache{Memory: cache.NewMemory(8)}
	m := metrics.New()
	svc := newService(t, WithCache(c), WithMetrics(m))

	first := svc.Render(context.Background(), NewRequest("# cached", "plain", DefaultSize, 0))
	second := svc.Render(context.Background(), NewRequest("# cached", "plain", DefaultSize, 1))
	require.True(t, second.OK())
	assert.Equal(t, first.HTML, second.HTML)
	assert.Equal(t, first.CSS, second.CSS)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, 1, c.sets)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheLookups.WithLabelValues("hit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheLookups.WithLabelValues("miss")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Renders.WithLabelValues("plain", "ok")))

	// failures are never cached
	empty := New(theme.NewRegistry(), WithCache(c), WithLogger(logger.Discard()))
	res := empty.Render(context.Background(), NewRequest("# x", "plain", DefaultSize, 0))
	assert.False(t, res.OK())
	assert.Equal(t, 1, c.sets)
}

func TestRenderDoesNotCacheDiagramFailures(t *testing.T) {
	c := &countingCache{Memory: cache.NewMemory(8)}
	reg := theme.NewBuiltinRegistry()
	d := diagram.NewRenderer([]diagram.Engine{&stubEngine{lang: diagram.Mermaid}},
		diagram.WithRegistry(reg), diagram.WithLogger(logger.Discard()))
	svc := New(reg, WithDiagrams(d), WithCache(c), WithLogger(logger.Discard()))
	md := "# Flow\n\n```mermaid\ngraph TD\n```"

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	interrupted := svc.Render(ctx, NewRequest(md, "plain", DefaultSize, 0))
	require.True(t, interrupted.OK())
	assert.Contains(t, interrupted.HTML, "mermaid diagram render failed: context canceled")
	assert.Zero(t, c.sets)

	live := svc.Render(context.Background(), NewRequest(md, "plain", DefaultSize, 0))
	require.True(t, live.OK())
	assert.NotContains(t, live.HTML, "diagram-error")
	assert.Contains(t, live.HTML, `<div class="diagram-container diagram-mermaid"><svg><text>graph TD</text></svg></div>`)
	assert.Equal(t, 1, c.sets)

	broken := svc.Render(context.Background(), NewRequest("```mermaid\nsyntax error\n```", "plain", DefaultSize, 0))
	require.True(t, broken.OK())
	assert.Contains(t, broken.HTML, "diagram-error diagram-mermaid")
	assert.Equal(t, 1, c.sets)
}

func TestPreviewElement(t *testing.T) {
	svc := newService(t)
	res := svc.PreviewElement(context.Background(), "h1", "cool", map[string]string{"h1": "color: red;"}, DefaultSize)
	require.True(t, res.OK(), res.Error)
	assert.True(t, res.IsOverride)
	assert.Contains(t, res.HTML, "<h1>")
	assert.Contains(t, res.CSS, ".cool-slide h1 {\ncolor: red;\n}")

	plain := svc.PreviewElement(context.Background(), "paragraph", "plain", nil, DefaultSize)
	require.True(t, plain.OK())
	assert.False(t, plain.IsOverride)

	bad := svc.PreviewElement(context.Background(), "blink", "plain", nil, DefaultSize)
	assert.False(t, bad.OK())
}

func TestRequestOverride(t *testing.T) {
	r := NewRequest("x", "plain", DefaultSize, 3)
	assert.NotEmpty(t, r.ID)
	assert.Equal(t, "", r.Override())
	o := r.WithOverride("h1{}")
	assert.Equal(t, "h1{}", o.Override())
	assert.Nil(t, r.OverrideCSS)
	assert.NotEqual(t, r.ID, NewRequest("x", "plain", DefaultSize, 3).ID)
}
