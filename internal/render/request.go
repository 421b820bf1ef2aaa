package render

import "github.com/google/uuid"

// Size is a slide canvas in CSS pixels.
type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// DefaultSize is the 16:9 canvas new slides get.
var DefaultSize = Size{Width: 1920, Height: 1080}

// Request is one render call's input. It is a value type; build it with
// NewRequest and treat it as immutable.
type Request struct {
	ID         string `json:"id"`
	Markdown   string `json:"markdown"`
	PluginID   string `json:"pluginId"`
	CanvasSize Size   `json:"canvasSize"`
	SlideIndex int    `json:"slideIndex"`
	// OverrideCSS is layered after the plugin stylesheet when non-nil and
	// non-empty.
	OverrideCSS *string `json:"overrideCss,omitempty"`
}

// NewRequest mints a request with a fresh id.
func NewRequest(markdown, pluginID string, size Size, slideIndex int) Request {
	return Request{
		ID:         uuid.NewString(),
		Markdown:   markdown,
		PluginID:   pluginID,
		CanvasSize: size,
		SlideIndex: slideIndex,
	}
}

// WithOverride returns a copy of r carrying css as its override stylesheet.
func (r Request) WithOverride(css string) Request {
	r.OverrideCSS = &css
	return r
}

// Override returns the override stylesheet, or "" when there is none.
func (r Request) Override() string {
	if r.OverrideCSS == nil {
		return ""
	}
	return *r.OverrideCSS
}

// Result is one render call's output. A non-empty Error means HTML and CSS
// are empty.
type Result struct {
	ID         string `json:"id"`
	HTML       string `json:"html"`
	CSS        string `json:"css"`
	ElapsedMs  int64  `json:"elapsedMs"`
	Error      string `json:"error,omitempty"`
	IsOverride bool   `json:"isOverride"`
}

// OK reports whether the render succeeded.
func (r Result) OK() bool {
	return r.Error == ""
}
