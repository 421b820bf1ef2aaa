package thumbnail

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huatuo-dr/geek-ppt/internal/render"
	"github.com/huatuo-dr/geek-ppt/internal/theme"
)

func TestWrapLinesPreservesIndentation(t *testing.T) {
	fonts, err := LoadFonts(FontConfig{SizeBase: 14})
	require.NoError(t, err)

	lines := wrapLines(fonts.Mono, 14, "    spaced  out", 140)
	require.NotEmpty(t, lines)
	assert.True(t, strings.HasPrefix(lines[0], "    "), "leading spaces lost: %q", lines[0])
	assert.Contains(t, strings.Join(lines, ""), "  out")

	long := wrapLines(fonts.Mono, 14, "averyverylongtokenwithoutspaces", 80)
	assert.GreaterOrEqual(t, len(long), 2)
}

func TestSplitPreservingSpaces(t *testing.T) {
	assert.Equal(t, []string{"a", " ", "bc", "  ", "d"}, splitPreservingSpaces("a bc  d"))
	assert.Equal(t, []string{"你", "好", " ", "go"}, splitPreservingSpaces("你好 go"))
	assert.Nil(t, splitPreservingSpaces(""))
}

const sample = `# Title

Paragraph with **bold**, ~~struck~~, ` + "`code`" + ` and a [link](https://example.com).

- Item one
  - Nested bullet
- [x] done

1. First ordered item
2. Second ordered item

| A | B |
| --- | --- |
| 1 | 2 |

> quoted

` + "```d2\na -> b\n```" + `

![logo](img/logo.png)

---
`

func TestRenderKeepsCanvasAspect(t *testing.T) {
	img, err := Render([]byte(sample), Options{Width: 480, Canvas: render.Size{Width: 1920, Height: 1080}})
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 480, 270), img.Bounds())

	tall, err := Render([]byte(sample), Options{Width: 270, Canvas: render.Size{Width: 1080, Height: 1920}})
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 270, 480), tall.Bounds())
}

func TestRenderDefaults(t *testing.T) {
	img, err := Render([]byte("# x"), Options{})
	require.NoError(t, err)
	assert.Equal(t, DefaultWidth, img.Bounds().Dx())
	assert.Equal(t, DefaultWidth*render.DefaultSize.Height/render.DefaultSize.Width, img.Bounds().Dy())
}

func TestRenderUsesPaletteBackground(t *testing.T) {
	reg := theme.NewBuiltinRegistry()
	cool, _ := reg.Lookup(theme.Cool)
	pal := PaletteFor(cool)

	img, err := Render([]byte("text"), Options{Width: 1920, Palette: pal})
	require.NoError(t, err)
	// bottom-right corner is untouched background
	assert.Equal(t, color.RGBA{0x0f, 0x0c, 0x29, 0xff}, img.RGBAAt(1919, 1079))
}

func TestRenderOverflowIsClipped(t *testing.T) {
	md := strings.Repeat("line of text\n\n", 200)
	img, err := Render([]byte(md), Options{Width: 320})
	require.NoError(t, err)
	assert.Equal(t, 180, img.Bounds().Dy())
}

func TestRenderDrawsAssetImages(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 40, 40))
	red := color.RGBA{0xff, 0, 0, 0xff}
	for y := 0; y < 40; y++ {
		for x := 0; x < 40; x++ {
			src.SetRGBA(x, y, red)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, src))

	images := AssetImages(map[string][]byte{"img/dot.png": buf.Bytes()})
	img, err := Render([]byte("![dot](./assets/img/dot.png)"), Options{Width: 1920, Images: images})
	require.NoError(t, err)

	found := false
	for y := 0; y < 300 && !found; y++ {
		for x := 0; x < 1920; x++ {
			if img.RGBAAt(x, y) == red {
				found = true
				break
			}
		}
	}
	assert.True(t, found, "asset image not drawn")
}

func TestAssetImagesRejectsRemote(t *testing.T) {
	images := AssetImages(nil)
	_, err := images("https://example.com/a.png")
	assert.Error(t, err)
	_, err = images("/etc/passwd")
	assert.Error(t, err)
	_, err = images("missing.png")
	assert.Error(t, err)
}

func TestPaletteFor(t *testing.T) {
	assert.Equal(t, LightPalette, PaletteFor(nil))

	p := &theme.Plugin{ID: "x", Appearance: theme.Dark, Colors: theme.Colors{Background: "#000", Accent: "#ff0000"}}
	pal := PaletteFor(p)
	assert.Equal(t, color.RGBA{0, 0, 0, 0xff}, pal.BG)
	assert.Equal(t, color.RGBA{0xff, 0, 0, 0xff}, pal.Link)
	assert.Equal(t, DarkPalette.FG, pal.FG)
}

func TestParseHex(t *testing.T) {
	c, err := ParseHex("#1a2b3c")
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{0x1a, 0x2b, 0x3c, 0xff}, c)

	c, err = ParseHex("fff")
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{0xff, 0xff, 0xff, 0xff}, c)

	for _, bad := range []string{"", "#12", "#gggggg", "rgb(0,0,0)"} {
		_, err := ParseHex(bad)
		assert.Error(t, err, bad)
	}
}

func TestEncodePNG(t *testing.T) {
	img, err := Render([]byte("# hi"), Options{Width: 64})
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, EncodePNG(&buf, img))
	decoded, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, img.Bounds(), decoded.Bounds())
}
