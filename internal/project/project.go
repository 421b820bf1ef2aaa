// Package project models a slide deck and its .geekppt archive format.
package project

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/huatuo-dr/geek-ppt/internal/override"
	"github.com/huatuo-dr/geek-ppt/internal/render"
	"github.com/huatuo-dr/geek-ppt/internal/theme"
)

// FormatVersion is the archive format written by Pack.
const FormatVersion = 1

// Template is a slide layout hint.
type Template string

const (
	Cover     Template = "cover"
	Content   Template = "content"
	TwoColumn Template = "two-column"
)

// SlideSize is a canvas preset.
type SlideSize struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Label  string `json:"label"`
}

// Canvas converts the preset to a render canvas.
func (s SlideSize) Canvas() render.Size {
	return render.Size{Width: s.Width, Height: s.Height}
}

var presets = []SlideSize{
	{Width: 1920, Height: 1080, Label: "16:9"},
	{Width: 1024, Height: 768, Label: "4:3"},
	{Width: 2560, Height: 1080, Label: "21:9"},
	{Width: 1080, Height: 1920, Label: "9:16"},
	{Width: 1123, Height: 794, Label: "A4"},
}

// Presets lists the available slide sizes; the first is the default.
func Presets() []SlideSize {
	return append([]SlideSize(nil), presets...)
}

// DefaultSlideSize is the 16:9 preset.
func DefaultSlideSize() SlideSize {
	return presets[0]
}

// PresetByLabel finds a preset such as "4:3".
func PresetByLabel(label string) (SlideSize, error) {
	for _, p := range presets {
		if p.Label == label {
			return p, nil
		}
	}
	return SlideSize{}, fmt.Errorf("unknown slide size %q", label)
}

// Slide is one page of a deck.
type Slide struct {
	SlideID         string   `json:"slideId"`
	Order           int      `json:"order"`
	Title           string   `json:"title"`
	MarkdownContent string   `json:"markdownContent"`
	Notes           string   `json:"notes"`
	Template        Template `json:"template,omitempty"`
}

// PluginConfig selects the active theme, either a plugin id or a custom
// theme id.
type PluginConfig struct {
	ActivePluginID string `json:"activePluginId"`
}

// Project is a slide deck.
type Project struct {
	ProjectID     string           `json:"projectId"`
	Name          string           `json:"name"`
	CreatedAt     time.Time        `json:"createdAt"`
	UpdatedAt     time.Time        `json:"updatedAt"`
	Slides        []Slide          `json:"slides"`
	PluginConfig  PluginConfig     `json:"pluginConfig"`
	CustomThemes  []override.Theme `json:"customThemes,omitempty"`
	SlideSize     SlideSize        `json:"slideSize"`
	FormatVersion int              `json:"formatVersion"`
	// Assets maps paths under assets/ to file contents.
	Assets map[string][]byte `json:"-"`
}

// DefaultSlide builds the slide at position order.
func DefaultSlide(order int) Slide {
	s := Slide{
		SlideID:  uuid.NewString(),
		Order:    order,
		Title:    fmt.Sprintf("第 %d 页", order+1),
		Template: Content,
	}
	if order == 0 {
		s.Title = "封面"
		s.MarkdownContent = "# 欢迎使用 Geek PPT\n"
		s.Template = Cover
	}
	return s
}

// New returns a project with a single cover slide.
func New(name string) *Project {
	if name == "" {
		name = "未命名演示"
	}
	now := time.Now().UTC()
	return &Project{
		ProjectID:     uuid.NewString(),
		Name:          name,
		CreatedAt:     now,
		UpdatedAt:     now,
		Slides:        []Slide{DefaultSlide(0)},
		PluginConfig:  PluginConfig{ActivePluginID: theme.DefaultPluginID},
		SlideSize:     DefaultSlideSize(),
		FormatVersion: FormatVersion,
	}
}

// AddSlide appends a slide with markdown content.
func (p *Project) AddSlide(markdown string) *Slide {
	s := DefaultSlide(len(p.Slides))
	s.MarkdownContent = markdown
	p.Slides = append(p.Slides, s)
	return &p.Slides[len(p.Slides)-1]
}

// CustomTheme finds a custom theme by id.
func (p *Project) CustomTheme(id string) (override.Theme, bool) {
	for _, t := range p.CustomThemes {
		if t.ThemeID == id {
			return t, true
		}
	}
	return override.Theme{}, false
}

// ResolveTheme returns the plugin id and override stylesheet to render the
// project with. A custom theme resolves to the default plugin with its CSS
// as override; the CSS's base directive then picks the real base.
func ResolveTheme(p *Project) (pluginID string, overrideCSS *string) {
	active := p.PluginConfig.ActivePluginID
	if t, ok := p.CustomTheme(active); ok {
		css := t.CSS
		return theme.DefaultPluginID, &css
	}
	if active = theme.NormalizeID(active); active == "" {
		active = theme.DefaultPluginID
	}
	return active, nil
}

// Requests builds one render request per slide.
func (p *Project) Requests() []render.Request {
	pluginID, css := ResolveTheme(p)
	size := p.SlideSize.Canvas()
	reqs := make([]render.Request, len(p.Slides))
	for i, s := range p.Slides {
		req := render.NewRequest(s.MarkdownContent, pluginID, size, i)
		if css != nil {
			req = req.WithOverride(*css)
		}
		reqs[i] = req
	}
	return reqs
}

// FromMarkdown builds a project with one slide per markdown document.
func FromMarkdown(name string, slides ...string) *Project {
	p := New(name)
	p.Slides = nil
	for _, md := range slides {
		p.AddSlide(md)
	}
	return p
}
