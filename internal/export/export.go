// Package export turns a project into a self-contained presentation: one
// HTML page with every slide, navigation and the theme's stylesheet, plus
// the project's assets packed alongside it.
package export

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"html/template"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/huatuo-dr/geek-ppt/internal/project"
	"github.com/huatuo-dr/geek-ppt/internal/render"
)

//go:embed presentation.html.tmpl
var pageSource string

var page = template.Must(template.New("presentation").Parse(pageSource))

type slideView struct {
	Index   int
	Visible bool
	HTML    template.HTML
}

type pageData struct {
	Title  string
	CSS    template.CSS
	Width  int
	Height int
	Total  string
	Slides []slideView
}

// RenderAll renders every slide of p concurrently. Results are in slide
// order; a failed slide carries its error in Result.Error.
func RenderAll(ctx context.Context, svc *render.Service, p *project.Project) ([]render.Result, error) {
	reqs := p.Requests()
	results := make([]render.Result, len(reqs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, req := range reqs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = svc.Render(gctx, req)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("render slides: %w", err)
	}
	return results, nil
}

// Document renders p and returns the standalone presentation page together
// with the stylesheet shared by its slides.
func Document(ctx context.Context, svc *render.Service, p *project.Project) (html, css string, err error) {
	results, err := RenderAll(ctx, svc, p)
	if err != nil {
		return "", "", err
	}
	css = SharedCSS(results)
	html, err = Page(p, results, css)
	if err != nil {
		return "", "", err
	}
	return html, css, nil
}

// SharedCSS returns the stylesheet of the first slide that rendered. Every
// slide of a project uses the same theme.
func SharedCSS(results []render.Result) string {
	for _, r := range results {
		if r.CSS != "" {
			return r.CSS
		}
	}
	return ""
}

// Page fills the presentation page with already rendered slides. Failed
// slides stay in the deck showing their error.
func Page(p *project.Project, results []render.Result, css string) (string, error) {
	size := p.SlideSize.Canvas()
	data := pageData{
		Title:  p.Name,
		CSS:    template.CSS(css),
		Width:  size.Width,
		Height: size.Height,
		Total:  fmt.Sprintf("%02d", len(results)),
		Slides: make([]slideView, len(results)),
	}
	for i, r := range results {
		body := r.HTML
		if !r.OK() {
			body = `<div class="render-error">` + template.HTMLEscapeString(r.Error) + `</div>`
		}
		data.Slides[i] = slideView{Index: i, Visible: i == 0, HTML: template.HTML(body)}
	}

	var buf bytes.Buffer
	if err := page.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("fill presentation page: %w", err)
	}
	return buf.String(), nil
}
