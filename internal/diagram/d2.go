package diagram

import (
	"context"
	"fmt"
	"sync"

	"oss.terrastruct.com/d2/d2graph"
	"oss.terrastruct.com/d2/d2layouts/d2dagrelayout"
	"oss.terrastruct.com/d2/d2lib"
	"oss.terrastruct.com/d2/d2renderers/d2svg"
	"oss.terrastruct.com/d2/d2target"
	"oss.terrastruct.com/d2/d2themes/d2themescatalog"
	d2log "oss.terrastruct.com/d2/lib/log"
	"oss.terrastruct.com/d2/lib/textmeasure"
)

// D2Engine renders d2 source in-process with the dagre layout.
type D2Engine struct {
	mu        sync.Mutex
	ruler     *textmeasure.Ruler
	pad       int64
	themeID   int64
	overrides *d2target.ThemeOverrides
}

// NewD2Engine returns an engine with the given SVG padding in pixels.
func NewD2Engine(pad int64) (*D2Engine, error) {
	ruler, err := textmeasure.NewRuler()
	if err != nil {
		return nil, fmt.Errorf("d2 text ruler: %w", err)
	}
	return &D2Engine{
		ruler:   ruler,
		pad:     pad,
		themeID: d2themescatalog.NeutralDefault.ID,
	}, nil
}

func (e *D2Engine) Language() string { return D2 }

// Configure picks the d2 base theme by brightness and overrides its neutral
// and base colours from the palette.
func (e *D2Engine) Configure(p Palette) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.themeID = d2themescatalog.NeutralDefault.ID
	if p.Dark {
		e.themeID = d2themescatalog.DarkMauve.ID
	}
	e.overrides = &d2target.ThemeOverrides{
		N1: optional(p.Text),
		N7: optional(p.Background),
		B1: optional(p.Primary),
		B2: optional(p.Line),
		B3: optional(p.Secondary),
		B4: optional(p.Tertiary),
	}
	return nil
}

// Render compiles source and renders it to SVG.
func (e *D2Engine) Render(ctx context.Context, source string) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	pad := e.pad
	themeID := e.themeID
	renderOpts := &d2svg.RenderOpts{
		Pad:            &pad,
		ThemeID:        &themeID,
		ThemeOverrides: e.overrides,
	}
	compileOpts := &d2lib.CompileOptions{
		Ruler: e.ruler,
		LayoutResolver: func(string) (d2graph.LayoutGraph, error) {
			return d2dagrelayout.DefaultLayout, nil
		},
	}
	diagram, _, err := d2lib.Compile(d2log.WithDefault(ctx), source, compileOpts, renderOpts)
	if err != nil {
		return "", err
	}
	out, err := d2svg.Render(diagram, renderOpts)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
