package thumbnail

import (
	"bufio"
	"image"
	"image/color"
	"image/draw"
	"strings"
	"unicode"

	"github.com/golang/freetype"
	"golang.org/x/image/font"
	xdraw "golang.org/x/image/draw"
)

const dpi = 96

// canvas is a fixed-size slide surface with a vertical text cursor.
// Content running past the bottom edge is clipped, like an overflowing slide.
type canvas struct {
	img     *image.RGBA
	dc      *freetype.Context
	w, h    int
	margin  int
	cursorY int
	pal     Palette
	fonts   Fonts
	ptSize  float64
}

func newCanvas(width, height, margin int, pal Palette, fonts Fonts, ptSize float64) *canvas {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(pal.BG), image.Point{}, draw.Src)

	dc := freetype.NewContext()
	dc.SetDPI(dpi)
	dc.SetClip(img.Bounds())
	dc.SetDst(img)
	dc.SetSrc(image.NewUniform(pal.FG))
	dc.SetFontSize(ptSize)

	return &canvas{
		img:     img,
		dc:      dc,
		w:       width,
		h:       height,
		margin:  margin,
		cursorY: margin,
		pal:     pal,
		fonts:   fonts,
		ptSize:  ptSize,
	}
}

// full reports whether the cursor has left the visible slide.
func (c *canvas) full() bool {
	return c.cursorY >= c.h-c.margin/2
}

func (c *canvas) setFace(f *Face, col color.Color, size float64) {
	c.dc.SetFontSize(size)
	c.dc.SetSrc(image.NewUniform(col))
	c.dc.SetFont(f.Font)
}

func (c *canvas) addVSpace(px int) { c.cursorY += px }

func (c *canvas) fill(r image.Rectangle, col color.Color) {
	draw.Draw(c.img, r, image.NewUniform(col), image.Point{}, draw.Src)
}

func (c *canvas) paste(r image.Rectangle, src image.Image) {
	draw.Draw(c.img, r, src, src.Bounds().Min, draw.Over)
}

func (c *canvas) drawHRule() {
	y := c.cursorY + 4
	c.fill(image.Rect(c.margin, y, c.w-c.margin, y+2), c.pal.HRule)
	c.cursorY = y + 10
}

func (c *canvas) drawQuoteBar(x, topY, height int) {
	c.fill(image.Rect(x, topY, x+4, topY+height), c.pal.QuoteBar)
}

// drawCodeBlock paints a padded block of monospaced lines. Long lines wrap
// without collapsing indentation.
func (c *canvas) drawCodeBlock(text string, left, right int, size float64) {
	const pad = 10
	top := c.cursorY
	mono := c.fonts.Mono
	lines := wrapLines(mono, size, text, float64(right-left-2*pad))
	lineHeight := int(size * 1.4)
	height := len(lines)*lineHeight + 2*pad + 6
	c.fill(image.Rect(left, top, right, top+height), c.pal.CodeBG)

	c.setFace(mono, c.pal.FG, size)
	y := top + pad + int(size)
	for _, ln := range lines {
		_, _ = c.dc.DrawString(ln, freetype.Pt(left+pad, y))
		y += lineHeight
	}
	c.cursorY = top + height + 6
}

// drawLabelBlock paints a centred caption inside a bordered box, standing in
// for content a raster thumbnail cannot show.
func (c *canvas) drawLabelBlock(label string, left, right int, size float64) {
	top := c.cursorY
	height := int(size * 4)
	box := image.Rect(left, top, right, top+height)
	c.fill(box, c.pal.CodeBG)
	c.fill(image.Rect(box.Min.X, box.Min.Y, box.Max.X, box.Min.Y+2), c.pal.QuoteBar)

	f := c.fonts.Regular
	c.setFace(f, c.pal.FG, size)
	width := int(measureWidth(f, size, label))
	x := left + (right-left-width)/2
	if x < left {
		x = left
	}
	_, _ = c.dc.DrawString(label, freetype.Pt(x, top+height/2+int(size/2)))
	c.cursorY = top + height + 6
}

func measureWidth(f *Face, size float64, s string) float64 {
	if f == nil || s == "" {
		return 0
	}
	d := font.Drawer{Face: f.Face}
	width := float64(d.MeasureString(s).Round())
	base := f.baseSize
	if base <= 0 {
		base = size
	}
	if size > 0 && base > 0 && size != base {
		width *= size / base
	}
	return width
}

func scaleToWidth(img image.Image, width int) *image.RGBA {
	b := img.Bounds()
	height := b.Dy() * width / b.Dx()
	if height <= 0 {
		height = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, b, xdraw.Over, nil)
	return dst
}

func wrapLines(f *Face, size float64, text string, maxWidth float64) []string {
	var lines []string
	scanner := bufio.NewScanner(strings.NewReader(text))
	for scanner.Scan() {
		ln := scanner.Text()
		if ln == "" || maxWidth <= 0 || measureWidth(f, size, ln) <= maxWidth {
			lines = append(lines, ln)
			continue
		}
		lines = append(lines, wrapPreservingSpaces(f, size, ln, maxWidth)...)
	}
	if len(lines) == 0 {
		lines = append(lines, "")
	}
	return lines
}

func wrapPreservingSpaces(f *Face, size float64, line string, maxWidth float64) []string {
	var (
		result  []string
		current strings.Builder
		width   float64
	)
	flush := func() {
		result = append(result, current.String())
		current.Reset()
		width = 0
	}
	for _, token := range splitPreservingSpaces(line) {
		tw := measureWidth(f, size, token)
		if tw > maxWidth {
			if current.Len() > 0 {
				flush()
			}
			result = append(result, breakToken(f, size, token, maxWidth)...)
			continue
		}
		if width+tw > maxWidth && current.Len() > 0 {
			flush()
		}
		current.WriteString(token)
		width += tw
	}
	if current.Len() > 0 {
		flush()
	}
	if len(result) == 0 {
		result = append(result, "")
	}
	return result
}

func breakToken(f *Face, size float64, token string, maxWidth float64) []string {
	var (
		parts   []string
		current strings.Builder
		width   float64
	)
	for _, r := range token {
		cw := measureWidth(f, size, string(r))
		if width+cw > maxWidth && current.Len() > 0 {
			parts = append(parts, current.String())
			current.Reset()
			width = 0
		}
		current.WriteRune(r)
		width += cw
	}
	if current.Len() > 0 {
		parts = append(parts, current.String())
	}
	return parts
}

// splitPreservingSpaces cuts s into alternating runs of space and non-space.
// CJK characters are split individually so they can wrap anywhere.
func splitPreservingSpaces(s string) []string {
	var (
		parts   []string
		current strings.Builder
		last    int
	)
	const (
		space = iota + 1
		word
		ideograph
	)
	for _, r := range s {
		typ := word
		switch {
		case unicode.IsSpace(r):
			typ = space
		case unicode.Is(unicode.Han, r) || unicode.Is(unicode.Hiragana, r) || unicode.Is(unicode.Katakana, r) || unicode.Is(unicode.Hangul, r):
			typ = ideograph
		}
		if current.Len() > 0 && (typ != last || typ == ideograph) {
			parts = append(parts, current.String())
			current.Reset()
		}
		current.WriteRune(r)
		last = typ
	}
	if current.Len() > 0 {
		parts = append(parts, current.String())
	}
	return parts
}
