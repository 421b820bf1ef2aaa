// Package markdown converts slide markdown to HTML: GitHub-flavoured syntax,
// raw HTML passthrough, dual-scheme code highlighting and new-tab links.
package markdown

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// Pipeline is a configured markdown converter. It holds no per-call state
// and is safe for concurrent use.
type Pipeline struct {
	md goldmark.Markdown
}

type options struct {
	lightStyle string
	darkStyle  string
}

// Option configures a Pipeline.
type Option func(*options)

// WithCodeStyles selects the chroma styles used for the light and dark
// highlighting schemes.
func WithCodeStyles(light, dark string) Option {
	return func(o *options) {
		if light != "" {
			o.lightStyle = light
		}
		if dark != "" {
			o.darkStyle = dark
		}
	}
}

// New builds a pipeline.
func New(opts ...Option) *Pipeline {
	o := options{lightStyle: DefaultLightStyle, darkStyle: DefaultDarkStyle}
	for _, opt := range opts {
		opt(&o)
	}
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			&codeBlockExtension{h: NewHighlighter(o.lightStyle, o.darkStyle)},
		),
		goldmark.WithParserOptions(
			parser.WithASTTransformers(util.Prioritized(externalLinks{}, 999)),
		),
		goldmark.WithRendererOptions(html.WithUnsafe()),
	)
	return &Pipeline{md: md}
}

// Convert renders markdown to an HTML fragment. Output is deterministic for
// a given input.
func (p *Pipeline) Convert(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := p.md.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("markdown conversion: %w", err)
	}
	return buf.String(), nil
}

// externalLinks marks every link and autolink to open in a new browsing
// context without leaking the opener.
type externalLinks struct{}

func (externalLinks) Transform(doc *ast.Document, _ text.Reader, _ parser.Context) {
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n.(type) {
		case *ast.Link, *ast.AutoLink:
			n.SetAttributeString("target", []byte("_blank"))
			n.SetAttributeString("rel", []byte("noopener noreferrer"))
		}
		return ast.WalkContinue, nil
	})
}
