// Package theme holds the plugin model, the plugin registry and the built-in
// slide themes.
package theme

import "strings"

// Appearance is the overall brightness of a theme's slide background.
type Appearance string

const (
	Light Appearance = "light"
	Dark  Appearance = "dark"
)

// Colors are the representative colours of a theme, used where CSS cannot
// be applied (raster thumbnails, terminal swatches, diagram palettes).
type Colors struct {
	Background string
	Foreground string
	Accent     string
	Muted      string
}

// Plugin is a visual theme: identity plus a complete stylesheet.
type Plugin struct {
	ID                    string
	Version               string
	DisplayName           string
	SupportedElementTypes []ElementType
	// StyleSheet returns the full CSS for the plugin. It must be
	// deterministic; callers may invoke it once per render.
	StyleSheet func() string
	Appearance Appearance
	Colors     Colors
}

// Supports reports whether the plugin declares e.
func (p *Plugin) Supports(e ElementType) bool {
	for _, t := range p.SupportedElementTypes {
		if t == e {
			return true
		}
	}
	return false
}

// MissingElementTypes lists required element types the plugin does not declare.
func (p *Plugin) MissingElementTypes() []ElementType {
	var missing []ElementType
	for _, e := range RequiredElementTypes() {
		if !p.Supports(e) {
			missing = append(missing, e)
		}
	}
	return missing
}

// CSS returns the plugin stylesheet, or "" when none is set.
func (p *Plugin) CSS() string {
	if p == nil || p.StyleSheet == nil {
		return ""
	}
	return p.StyleSheet()
}

// WrapperClass is the class of the outermost element around rendered slides.
func (p *Plugin) WrapperClass() string {
	return WrapperClass(p.ID)
}

// WrapperClass returns "<id>-slide" for a plugin id.
func WrapperClass(id string) string {
	return NormalizeID(id) + "-slide"
}

const legacySuffix = "-renderer"

// NormalizeID maps legacy "<name>-renderer" identifiers to "<name>".
func NormalizeID(id string) string {
	id = strings.TrimSpace(id)
	if trimmed := strings.TrimSuffix(id, legacySuffix); trimmed != "" {
		return trimmed
	}
	return id
}
