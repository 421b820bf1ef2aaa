package markdown

import (
	"html"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"
)

// Default light and dark highlighting styles.
const (
	DefaultLightStyle = "github"
	DefaultDarkStyle  = "tokyonight-night"
)

// Highlighter renders code with two chroma styles at once. Colours are
// emitted as --shiki-light / --shiki-dark CSS variables so each theme's
// stylesheet picks the scheme it wants.
type Highlighter struct {
	light *chroma.Style
	dark  *chroma.Style
}

// NewHighlighter looks up the two chroma styles by name; unknown names fall
// back to chroma's default style.
func NewHighlighter(light, dark string) *Highlighter {
	return &Highlighter{light: styles.Get(light), dark: styles.Get(dark)}
}

type colourPair struct {
	light, dark string
}

func baseColours(s *chroma.Style) (fg, bg string) {
	entry := s.Get(chroma.Background)
	if entry.Colour.IsSet() {
		fg = entry.Colour.String()
	}
	if entry.Background.IsSet() {
		bg = entry.Background.String()
	}
	return fg, bg
}

func tokenColour(s *chroma.Style, t chroma.TokenType, fallback string) string {
	entry := s.Get(t)
	if entry.Colour.IsSet() {
		return entry.Colour.String()
	}
	return fallback
}

// Highlight returns the complete <pre> element for code in lang.
func (h *Highlighter) Highlight(code, lang string) string {
	lexer := lexers.Get(lang)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	lightFG, lightBG := baseColours(h.light)
	darkFG, darkBG := baseColours(h.dark)

	var b strings.Builder
	b.WriteString(`<pre class="shiki shiki-themes `)
	b.WriteString(h.light.Name)
	b.WriteString(" ")
	b.WriteString(h.dark.Name)
	b.WriteString(`" style="`)
	b.WriteString(styleVars(
		"--shiki-light", lightFG,
		"--shiki-dark", darkFG,
		"--shiki-light-bg", lightBG,
		"--shiki-dark-bg", darkBG,
	))
	b.WriteString(`" tabindex="0"><code>`)

	code = strings.TrimSuffix(code, "\n")
	it, err := lexer.Tokenise(nil, code)
	if err != nil {
		b.WriteString(html.EscapeString(code))
		b.WriteString("</code></pre>")
		return b.String()
	}

	for i, line := range chroma.SplitTokensIntoLines(it.Tokens()) {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(`<span class="line">`)
		var (
			pending strings.Builder
			current colourPair
		)
		flush := func() {
			if pending.Len() == 0 {
				return
			}
			b.WriteString(`<span style="`)
			b.WriteString(styleVars("--shiki-light", current.light, "--shiki-dark", current.dark))
			b.WriteString(`">`)
			b.WriteString(html.EscapeString(pending.String()))
			b.WriteString(`</span>`)
			pending.Reset()
		}
		for _, tok := range line {
			value := strings.TrimSuffix(tok.Value, "\n")
			if value == "" {
				continue
			}
			pair := colourPair{
				light: tokenColour(h.light, tok.Type, lightFG),
				dark:  tokenColour(h.dark, tok.Type, darkFG),
			}
			if pair != current {
				flush()
				current = pair
			}
			pending.WriteString(value)
		}
		flush()
		b.WriteString(`</span>`)
	}
	b.WriteString("</code></pre>")
	return b.String()
}

// styleVars joins name/value pairs into a style attribute value, skipping
// empty values.
func styleVars(kv ...string) string {
	parts := make([]string, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		if kv[i+1] != "" {
			parts = append(parts, kv[i]+":"+kv[i+1])
		}
	}
	return strings.Join(parts, ";")
}

// codeBlockExtension swaps goldmark's fenced code renderer for the
// dual-scheme highlighter.
type codeBlockExtension struct {
	h *Highlighter
}

func (e *codeBlockExtension) Extend(m goldmark.Markdown) {
	m.Renderer().AddOptions(renderer.WithNodeRenderers(
		util.Prioritized(&codeBlockRenderer{h: e.h}, 100),
	))
}

type codeBlockRenderer struct {
	h *Highlighter
}

func (r *codeBlockRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindFencedCodeBlock, r.renderFencedCodeBlock)
}

func (r *codeBlockRenderer) renderFencedCodeBlock(
	w util.BufWriter, source []byte, node ast.Node, entering bool,
) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*ast.FencedCodeBlock)
	lang := string(n.Language(source))

	var code strings.Builder
	for i := 0; i < n.Lines().Len(); i++ {
		line := n.Lines().At(i)
		code.Write(line.Value(source))
	}

	_, _ = w.WriteString(r.h.Highlight(code.String(), lang))
	_, _ = w.WriteString("\n")
	return ast.WalkContinue, nil
}
