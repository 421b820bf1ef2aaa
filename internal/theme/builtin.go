package theme

import (
	"embed"
	"strings"
)

// DefaultPluginID is the canonical base theme. Override selectors are
// written against its wrapper class.
const DefaultPluginID = "plain"

// Built-in plugin ids.
const (
	Plain     = "plain"
	Cool      = "cool"
	Torrent   = "torrent"
	Academic  = "academic"
	Ink       = "ink"
	Minimal   = "minimal"
	Vintage   = "vintage"
	Cyberpunk = "cyberpunk"
)

//go:embed styles/*.css
var styleFS embed.FS

func stylesheet(id string) func() string {
	data, err := styleFS.ReadFile("styles/" + id + ".css")
	if err != nil {
		panic("theme: missing embedded stylesheet for " + id)
	}
	css := strings.TrimSpace(string(data))
	return func() string { return css }
}

func builtin(id, name string, appearance Appearance, colors Colors) *Plugin {
	return &Plugin{
		ID:                    id,
		Version:               "1.0.0",
		DisplayName:           name,
		SupportedElementTypes: AllElementTypes(),
		StyleSheet:            stylesheet(id),
		Appearance:            appearance,
		Colors:                colors,
	}
}

// Builtins returns fresh copies of the built-in plugins in display order.
func Builtins() []*Plugin {
	return []*Plugin{
		builtin(Plain, "朴素", Light, Colors{Background: "#ffffff", Foreground: "#1a1a2e", Accent: "#2563eb", Muted: "#e5e7eb"}),
		builtin(Cool, "酷炫", Dark, Colors{Background: "#0f0c29", Foreground: "#e2e8f0", Accent: "#8b5cf6", Muted: "#302b63"}),
		builtin(Torrent, "激流", Dark, Colors{Background: "#07060d", Foreground: "#ffffff", Accent: "#815af6", Muted: "#1e1b2e"}),
		builtin(Academic, "学术", Light, Colors{Background: "#fefefe", Foreground: "#1a1a1a", Accent: "#1a3a5a", Muted: "#cccccc"}),
		builtin(Ink, "水墨", Light, Colors{Background: "#f5f5f0", Foreground: "#2a2a2a", Accent: "#8b2500", Muted: "#d8d2c6"}),
		builtin(Minimal, "极简", Light, Colors{Background: "#ffffff", Foreground: "#000000", Accent: "#000000", Muted: "#f5f5f5"}),
		builtin(Vintage, "复古", Light, Colors{Background: "#f4ecd8", Foreground: "#3d3322", Accent: "#8b5a2b", Muted: "#d9c9a3"}),
		builtin(Cyberpunk, "赛博朋克", Dark, Colors{Background: "#0a0a0f", Foreground: "#e0e0e0", Accent: "#00ffff", Muted: "#ff00ff"}),
	}
}

// NewBuiltinRegistry returns a registry populated with every built-in plugin.
func NewBuiltinRegistry() *Registry {
	r := NewRegistry()
	for _, p := range Builtins() {
		r.Register(p)
	}
	return r
}
