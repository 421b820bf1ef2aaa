package thumbnail

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/huatuo-dr/geek-ppt/internal/theme"
)

// Palette holds the colours a thumbnail is painted with.
type Palette struct {
	BG       color.Color
	FG       color.Color
	Heading  color.Color
	CodeBG   color.Color
	QuoteBar color.Color
	HRule    color.Color
	Link     color.Color
	Warning  color.Color
}

var (
	LightPalette = Palette{
		BG:       color.RGBA{0xFF, 0xFF, 0xFF, 0xFF},
		FG:       color.RGBA{0x11, 0x11, 0x11, 0xFF},
		Heading:  color.RGBA{0x11, 0x11, 0x11, 0xFF},
		CodeBG:   color.RGBA{0xF5, 0xF5, 0xF7, 0xFF},
		QuoteBar: color.RGBA{0xCC, 0xCC, 0xCC, 0xFF},
		HRule:    color.RGBA{0xDD, 0xDD, 0xDD, 0xFF},
		Link:     color.RGBA{0x06, 0x4F, 0xBD, 0xFF},
		Warning:  color.RGBA{0xD9, 0x51, 0x2C, 0xFF},
	}
	DarkPalette = Palette{
		BG:       color.RGBA{0x12, 0x12, 0x14, 0xFF},
		FG:       color.RGBA{0xEE, 0xEE, 0xF0, 0xFF},
		Heading:  color.RGBA{0xEE, 0xEE, 0xF0, 0xFF},
		CodeBG:   color.RGBA{0x1E, 0x1E, 0x22, 0xFF},
		QuoteBar: color.RGBA{0x44, 0x44, 0x48, 0xFF},
		HRule:    color.RGBA{0x33, 0x33, 0x36, 0xFF},
		Link:     color.RGBA{0x7A, 0xB7, 0xFF, 0xFF},
		Warning:  color.RGBA{0xF0, 0x7A, 0x4C, 0xFF},
	}
)

// PaletteFor derives a palette from a plugin's representative colours,
// starting from the light or dark defaults.
func PaletteFor(p *theme.Plugin) Palette {
	if p == nil {
		return LightPalette
	}
	pal := LightPalette
	if p.Appearance == theme.Dark {
		pal = DarkPalette
	}
	if c, err := ParseHex(p.Colors.Background); err == nil {
		pal.BG = c
	}
	if c, err := ParseHex(p.Colors.Foreground); err == nil {
		pal.FG = c
		pal.Heading = c
	}
	if c, err := ParseHex(p.Colors.Accent); err == nil {
		pal.Link = c
		pal.QuoteBar = c
	}
	if c, err := ParseHex(p.Colors.Muted); err == nil {
		pal.HRule = c
	}
	pal.CodeBG = mix(pal.BG, pal.FG, 0.06)
	return pal
}

// ParseHex parses #rgb or #rrggbb.
func ParseHex(s string) (color.RGBA, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return color.RGBA{}, fmt.Errorf("invalid hex colour %q", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid hex colour %q", s)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xFF}, nil
}

// mix blends t of b into a.
func mix(a, b color.Color, t float64) color.Color {
	ar, ag, ab, _ := a.RGBA()
	br, bg, bb, _ := b.RGBA()
	ch := func(x, y uint32) uint8 {
		return uint8((float64(x>>8)*(1-t) + float64(y>>8)*t) + 0.5)
	}
	return color.RGBA{R: ch(ar, br), G: ch(ag, bg), B: ch(ab, bb), A: 0xFF}
}
