// Package diagram pulls fenced diagram sources (mermaid, d2) out of markdown
// before conversion and injects rendered SVG back into the converted markup.
package diagram

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

// Supported fence languages.
const (
	Mermaid = "mermaid"
	D2      = "d2"
)

// Block is one fenced diagram taken out of a markdown document.
type Block struct {
	// Index is the block's position in document order.
	Index    int
	Language string
	// Source is the fence body with surrounding whitespace trimmed.
	Source string
}

// Placeholder is the raw-HTML marker left in the markdown for b.
func (b Block) Placeholder() string {
	return Placeholder(b.Language, b.Index)
}

// Placeholder builds the marker element for the idx-th diagram.
func Placeholder(lang string, idx int) string {
	return fmt.Sprintf(`<div class="diagram-placeholder" data-diagram-lang="%s" data-diagram-idx="%d"></div>`, lang, idx)
}

var fenceRe = regexp.MustCompile("(?s)```(mermaid|d2)\\s*\\n(.*?)```")

// Extract replaces every mermaid/d2 fence with a placeholder block and returns
// the rewritten markdown with the blocks in document order.
func Extract(markdown string) (string, []Block) {
	var blocks []Block
	out := fenceRe.ReplaceAllStringFunc(markdown, func(m string) string {
		sub := fenceRe.FindStringSubmatch(m)
		b := Block{
			Index:    len(blocks),
			Language: sub[1],
			Source:   strings.TrimSpace(sub[2]),
		}
		blocks = append(blocks, b)
		return "\n\n" + b.Placeholder() + "\n\n"
	})
	if len(blocks) == 0 {
		return markdown, nil
	}
	return out, blocks
}

// Palette is the colour configuration handed to engines for one theme.
type Palette struct {
	ThemeID string
	Dark    bool
	// MermaidTheme is the mermaid base theme ("default", "base", ...).
	MermaidTheme string
	FontFamily   string
	Text         string
	Primary      string
	Secondary    string
	Tertiary     string
	Line         string
	Background   string
	// Variables are passed verbatim as mermaid themeVariables.
	Variables map[string]interface{}
}

// Engine renders diagram source of one language to SVG markup.
type Engine interface {
	Language() string
	// Configure applies a theme palette. It is called only when the active
	// theme changes and never concurrently with Render.
	Configure(p Palette) error
	Render(ctx context.Context, source string) (string, error)
}

// Observer receives one callback per rendered block.
type Observer interface {
	ObserveDiagram(lang string, err error)
}
