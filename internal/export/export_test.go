package export

import (
	"archive/zip"
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huatuo-dr/geek-ppt/internal/logger"
	"github.com/huatuo-dr/geek-ppt/internal/override"
	"github.com/huatuo-dr/geek-ppt/internal/project"
	"github.com/huatuo-dr/geek-ppt/internal/render"
	"github.com/huatuo-dr/geek-ppt/internal/theme"
)

func newService(opts ...render.Option) *render.Service {
	base := []render.Option{render.WithLogger(logger.Discard())}
	return render.New(theme.NewBuiltinRegistry(), append(base, opts...)...)
}

func readZip(t *testing.T, data []byte) map[string][]byte {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	out := make(map[string][]byte)
	for _, f := range zr.File {
		rc, err := f.Open()
		require.NoError(t, err)
		b, err := io.ReadAll(rc)
		require.NoError(t, err)
		require.NoError(t, rc.Close())
		out[f.Name] = b
	}
	return out
}

func tinyPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	for x := 0; x < 2; x++ {
		for y := 0; y < 2; y++ {
			img.Set(x, y, color.RGBA{R: 255, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestRenderAllKeepsSlideOrder(t *testing.T) {
	p := project.FromMarkdown("deck", "# one", "# two", "# three", "# four")
	results, err := RenderAll(context.Background(), newService(), p)
	require.NoError(t, err)
	require.Len(t, results, 4)
	for i, want := range []string{"one", "two", "three", "four"} {
		assert.True(t, results[i].OK())
		assert.Contains(t, results[i].HTML, "<h1>"+want+"</h1>")
	}
}

func TestRenderAllCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := RenderAll(ctx, newService(), project.FromMarkdown("deck", "# a"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDocument(t *testing.T) {
	p := project.FromMarkdown("<Demo> & co", "# First", "# Second")
	p.PluginConfig.ActivePluginID = "cool"

	html, css, err := Document(context.Background(), newService(), p)
	require.NoError(t, err)

	cool, ok := theme.NewBuiltinRegistry().Lookup("cool")
	require.True(t, ok)
	assert.Equal(t, cool.CSS(), css)

	assert.True(t, strings.HasPrefix(html, "<!DOCTYPE html>"))
	assert.Contains(t, html, "<title>&lt;Demo&gt; &amp; co</title>")
	assert.Contains(t, html, css)
	assert.Contains(t, html, `<div class="cool-slide"><div class="cool-scroll"><div class="cool-content"><h1>First</h1>`)
	assert.Contains(t, html, `data-slide="0" style="display:block;width:1920px;height:1080px;"`)
	assert.Contains(t, html, `data-slide="1" style="display:none;width:1920px;height:1080px;"`)
	assert.Contains(t, html, "01 / 02")
	assert.Regexp(t, `var sw =\s*1920\s*, sh =\s*1080\s*;`, html)
	assert.Contains(t, html, "ArrowRight")
	assert.Contains(t, html, `id="thumbOverlay"`)
}

func TestDocumentCustomTheme(t *testing.T) {
	p := project.FromMarkdown("deck", "# x")
	css := "/* @theme-base: torrent */\n\n.torrent-slide h1 {\ncolor: red;\n}"
	p.CustomThemes = append(p.CustomThemes, override.Theme{ThemeID: "mine", DisplayName: "Mine", CSS: css})
	p.PluginConfig.ActivePluginID = "mine"

	html, got, err := Document(context.Background(), newService(), p)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(got, "\n\n"+css))
	assert.Contains(t, html, `<div class="torrent-slide">`)
}

func TestPageShowsFailedSlides(t *testing.T) {
	p := project.FromMarkdown("deck", "a", "b")
	p.SlideSize = project.SlideSize{Width: 1024, Height: 768, Label: "4:3"}
	results := []render.Result{
		{HTML: `<div class="plain-slide"><p>a</p></div>`, CSS: "x{}"},
		{Error: "boom <script>"},
	}

	html, err := Page(p, results, SharedCSS(results))
	require.NoError(t, err)
	assert.Contains(t, html, `<div class="plain-slide"><p>a</p></div>`)
	assert.Contains(t, html, `<div class="render-error">boom &lt;script&gt;</div>`)
	assert.Contains(t, html, "width:1024px;height:768px;")
	assert.Contains(t, html, "x{}")
}

func TestSharedCSS(t *testing.T) {
	assert.Equal(t, "", SharedCSS(nil))
	assert.Equal(t, "b", SharedCSS([]render.Result{{Error: "x"}, {CSS: "b"}, {CSS: "c"}}))
}

func TestArchive(t *testing.T) {
	p := project.FromMarkdown("deck", "# one\n\n![logo](assets/logo.png)", "# two")
	p.Assets = map[string][]byte{"logo.png": tinyPNG(t)}

	var buf bytes.Buffer
	err := Archive(context.Background(), &buf, newService(), p, ArchiveOptions{Logger: logger.Discard()})
	require.NoError(t, err)

	files := readZip(t, buf.Bytes())
	assert.Contains(t, string(files[IndexName]), "<h1>one</h1>")
	assert.Contains(t, files, AssetsDir)
	assert.Equal(t, tinyPNG(t), files["assets/logo.png"])
	assert.NotContains(t, files, ThumbName(0))
}

func TestArchiveThumbnails(t *testing.T) {
	p := project.FromMarkdown("deck", "# one", "# two")
	p.PluginConfig.ActivePluginID = "cool"

	var buf bytes.Buffer
	opts := ArchiveOptions{Thumbnails: true, ThumbnailWidth: 160, Logger: logger.Discard()}
	require.NoError(t, Archive(context.Background(), &buf, newService(), p, opts))

	files := readZip(t, buf.Bytes())
	for i := range p.Slides {
		data, ok := files[ThumbName(i)]
		require.True(t, ok, ThumbName(i))
		img, err := png.Decode(bytes.NewReader(data))
		require.NoError(t, err)
		assert.Equal(t, 160, img.Bounds().Dx())
		assert.Equal(t, 90, img.Bounds().Dy())
	}
}

func TestThumbName(t *testing.T) {
	assert.Equal(t, "assets/thumbs/001.png", ThumbName(0))
	assert.Equal(t, "assets/thumbs/012.png", ThumbName(11))
}
