// Package termview renders slide markdown for the terminal.
package termview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/huatuo-dr/geek-ppt/internal/theme"
)

// DefaultWidth is the wrap width used when none is given.
const DefaultWidth = 80

// Standard glamour style names.
const (
	StyleDark  = "dark"
	StyleLight = "light"
	StyleNoTTY = "notty"
)

// StyleFor picks the glamour style matching a theme's appearance. Without a
// theme the plain notty style is used.
func StyleFor(p *theme.Plugin) string {
	switch {
	case p == nil:
		return StyleNoTTY
	case p.Appearance == theme.Dark:
		return StyleDark
	default:
		return StyleLight
	}
}

// Render renders markdown as ANSI text styled after p, wrapped at width.
func Render(markdown string, p *theme.Plugin, width int) (string, error) {
	return RenderWithStyle(markdown, StyleFor(p), width)
}

// RenderWithStyle renders markdown with a named glamour style.
func RenderWithStyle(markdown, style string, width int) (string, error) {
	if width <= 0 {
		width = DefaultWidth
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStylePath(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("terminal renderer for style %q: %w", style, err)
	}
	out, err := r.Render(markdown)
	if err != nil {
		return "", fmt.Errorf("render markdown for terminal: %w", err)
	}
	return out, nil
}

// Deck renders several slides separated by a numbered rule.
func Deck(slides []string, p *theme.Plugin, width int) (string, error) {
	var b strings.Builder
	for i, md := range slides {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "── %d/%d ──\n", i+1, len(slides))
		out, err := Render(md, p, width)
		if err != nil {
			return "", fmt.Errorf("slide %d: %w", i+1, err)
		}
		b.WriteString(out)
	}
	return b.String(), nil
}
