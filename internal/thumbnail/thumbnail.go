// Package thumbnail rasterizes slide markdown into small preview images,
// painted with a theme's representative colours. It is an approximation of
// the HTML rendering for slide pickers and exported decks.
package thumbnail

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"path"
	"strings"

	"github.com/huatuo-dr/geek-ppt/internal/render"
)

// Defaults applied to zero Options fields.
const (
	DefaultWidth    = 480
	DefaultFontSize = 28
	DefaultMargin   = 64
)

// Options configure a thumbnail.
type Options struct {
	// Width is the output width in pixels; height follows the canvas ratio.
	Width int
	// Canvas is the slide size the markdown is laid out on.
	Canvas       render.Size
	Margin       int
	BaseFontSize float64
	Palette      Palette
	Fonts        Fonts
	// Images resolves image destinations. Without it images are drawn as
	// their alt text.
	Images ImageSource
}

// Render lays markdown out on a full-size slide canvas and scales the result
// down to opts.Width.
func Render(markdown []byte, opts Options) (*image.RGBA, error) {
	if opts.Width <= 0 {
		opts.Width = DefaultWidth
	}
	if opts.Canvas.Width <= 0 || opts.Canvas.Height <= 0 {
		opts.Canvas = render.DefaultSize
	}
	if opts.Margin <= 0 {
		opts.Margin = DefaultMargin
	}
	if opts.BaseFontSize <= 0 {
		opts.BaseFontSize = DefaultFontSize
	}
	if opts.Palette == (Palette{}) {
		opts.Palette = LightPalette
	}
	if !opts.Fonts.complete() {
		fallback, err := LoadFonts(FontConfig{SizeBase: opts.BaseFontSize})
		if err != nil {
			return nil, err
		}
		if opts.Fonts.Regular == nil {
			opts.Fonts.Regular = fallback.Regular
		}
		if opts.Fonts.Bold == nil {
			opts.Fonts.Bold = fallback.Bold
		}
		if opts.Fonts.Mono == nil {
			opts.Fonts.Mono = fallback.Mono
		}
	}

	c := newCanvas(opts.Canvas.Width, opts.Canvas.Height, opts.Margin, opts.Palette, opts.Fonts, opts.BaseFontSize)
	l := &layout{c: c, baseSize: opts.BaseFontSize, images: opts.Images}
	if err := l.render(markdown); err != nil {
		return nil, fmt.Errorf("thumbnail layout: %w", err)
	}
	if opts.Width >= c.w {
		return c.img, nil
	}
	return scaleToWidth(c.img, opts.Width), nil
}

// EncodePNG writes img as PNG.
func EncodePNG(w io.Writer, img image.Image) error {
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// AssetImages resolves relative image paths against a project's assets,
// which are keyed by their path under assets/. Remote and absolute
// destinations are not fetched.
func AssetImages(assets map[string][]byte) ImageSource {
	return func(dest string) (image.Image, error) {
		if strings.Contains(dest, "://") || strings.HasPrefix(dest, "/") {
			return nil, errors.New("only project assets are drawn")
		}
		p := path.Clean(strings.TrimPrefix(dest, "./"))
		p = strings.TrimPrefix(p, "assets/")
		data, ok := assets[p]
		if !ok {
			return nil, fmt.Errorf("asset %q not found", dest)
		}
		img, _, err := image.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("decode asset %q: %w", dest, err)
		}
		return img, nil
	}
}
