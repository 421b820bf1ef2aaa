package diagram

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/huatuo-dr/geek-ppt/internal/logger"
	"github.com/huatuo-dr/geek-ppt/internal/theme"
)

// ErrNoEngine is reported for blocks whose language has no engine.
var ErrNoEngine = errors.New("no diagram engine")

// Renderer turns extracted blocks into inline SVG. It remembers which theme
// its engines were last configured for and only reconfigures on change.
type Renderer struct {
	mu           sync.Mutex
	engines      map[string]Engine
	currentTheme string
	palettes     func(themeID string) Palette
	observer     Observer
	log          *log.Logger
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithObserver reports every rendered block to o.
func WithObserver(o Observer) Option {
	return func(r *Renderer) { r.observer = o }
}

// WithLogger sets the renderer logger.
func WithLogger(l *log.Logger) Option {
	return func(r *Renderer) {
		if l != nil {
			r.log = l
		}
	}
}

// WithPalettes resolves a theme id to the palette handed to engines.
func WithPalettes(fn func(themeID string) Palette) Option {
	return func(r *Renderer) {
		if fn != nil {
			r.palettes = fn
		}
	}
}

// WithRegistry resolves palettes from plugins registered in reg.
func WithRegistry(reg *theme.Registry) Option {
	return WithPalettes(func(themeID string) Palette {
		p, _ := reg.Lookup(themeID)
		return PaletteFor(p)
	})
}

// NewRenderer builds a renderer over the given engines, keyed by language.
func NewRenderer(engines []Engine, opts ...Option) *Renderer {
	r := &Renderer{
		engines: make(map[string]Engine, len(engines)),
		palettes: func(themeID string) Palette {
			return PaletteFor(&theme.Plugin{ID: theme.NormalizeID(themeID)})
		},
		log: logger.NewStyledLogger("Diagram"),
	}
	for _, e := range engines {
		if e != nil {
			r.engines[e.Language()] = e
		}
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Languages lists the languages with a registered engine.
func (r *Renderer) Languages() []string {
	out := make([]string, 0, len(r.engines))
	for _, lang := range []string{Mermaid, D2} {
		if _, ok := r.engines[lang]; ok {
			out = append(out, lang)
		}
	}
	return out
}

// CurrentTheme returns the theme the engines were last configured for.
func (r *Renderer) CurrentTheme() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.currentTheme
}

// ensureTheme reconfigures every engine when themeID differs from the last
// one applied. Callers hold r.mu.
func (r *Renderer) ensureTheme(themeID string) {
	if r.currentTheme == themeID {
		return
	}
	pal := r.palettes(themeID)
	for lang, e := range r.engines {
		if err := e.Configure(pal); err != nil {
			r.log.Warn("diagram engine configure failed", "lang", lang, "plugin", themeID, "error", err)
		}
	}
	r.currentTheme = themeID
}

// Inject replaces each block's placeholder in markup with the rendered SVG,
// or with an inline error element when rendering fails. Blocks are handled
// in document order and one failure never affects the others. It also
// returns how many blocks failed.
func (r *Renderer) Inject(ctx context.Context, markup string, blocks []Block, themeID string) (string, int) {
	if len(blocks) == 0 {
		return markup, 0
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.ensureTheme(themeID)

	failed := 0
	for _, b := range blocks {
		svg, err := r.renderBlock(ctx, b)
		if r.observer != nil {
			r.observer.ObserveDiagram(b.Language, err)
		}
		var replacement string
		if err != nil {
			r.log.Warn("diagram render failed", "lang", b.Language, "index", b.Index, "error", err)
			replacement = ErrorBlock(b.Language, err)
			failed++
		} else {
			replacement = Container(b.Language, svg)
		}
		markup = strings.Replace(markup, b.Placeholder(), replacement, 1)
	}
	return markup, failed
}

func (r *Renderer) renderBlock(ctx context.Context, b Block) (svg string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("%s engine panicked: %v", b.Language, rec)
		}
	}()
	if err := ctx.Err(); err != nil {
		return "", err
	}
	e, ok := r.engines[b.Language]
	if !ok {
		return "", fmt.Errorf("%w for %q", ErrNoEngine, b.Language)
	}
	return e.Render(ctx, b.Source)
}

// Container wraps rendered SVG for lang.
func Container(lang, svg string) string {
	return `<div class="diagram-container diagram-` + lang + `">` + svg + `</div>`
}

// ErrorBlock is the visible inline replacement for a failed diagram.
func ErrorBlock(lang string, err error) string {
	return fmt.Sprintf(`<div class="diagram-error diagram-%s">%s diagram render failed: %s</div>`,
		lang, lang, html.EscapeString(err.Error()))
}
